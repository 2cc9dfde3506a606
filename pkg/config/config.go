// Package config contains the configuration of the renderer, read from TOML
// files like:
//
//	language = "en"
//	known_url_schemes = ["http", "https", "mailto"]
//	disabled_directives = ["raw"]
//	source = "docs/index.md"
//
//	[parser]
//	linkify = false
//	typographer = false
//
//	[index]
//	path = "targets.db"
//	docname = "index"
package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/elves/mdtree/pkg/directive"
)

// Config is the configuration of a render.
type Config struct {
	// Language used to resolve localized directive and role names.
	Language string `toml:"language"`
	// URL schemes of links that are left as external references. When
	// empty, only links with a fragment or without any scheme become
	// pending cross-references.
	KnownURLSchemes []string `toml:"known_url_schemes"`
	// Directives that are reported as disabled instead of being run.
	DisabledDirectives []string `toml:"disabled_directives"`
	// Source name recorded in the document and in system messages.
	Source string `toml:"source"`
	Parser Parser `toml:"parser"`
	Index  Index  `toml:"index"`
}

// Parser configures the Markdown parser.
type Parser struct {
	Linkify     bool `toml:"linkify"`
	Typographer bool `toml:"typographer"`
}

// Index configures the cross-reference index.
type Index struct {
	// Path of the bbolt database. No index is used when empty.
	Path string `toml:"path"`
	// Name of the document in the index.
	Docname string `toml:"docname"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{Language: directive.FallbackLanguage}
}

// Load reads a configuration file. Keys not present in the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses a configuration from TOML text. Unknown keys are errors.
func Parse(text string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown configuration keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var schemePattern = regexp.MustCompile(`^[a-z][a-z0-9+.-]*$`)

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !directive.NewRegistry().HasLanguage(c.Language) {
		return fmt.Errorf("unknown language %q", c.Language)
	}
	for _, scheme := range c.KnownURLSchemes {
		if !schemePattern.MatchString(scheme) {
			return fmt.Errorf("invalid URL scheme %q", scheme)
		}
	}
	return nil
}

// SchemeKnown reports whether a URL scheme is in KnownURLSchemes.
func (c *Config) SchemeKnown(scheme string) bool {
	for _, s := range c.KnownURLSchemes {
		if strings.EqualFold(s, scheme) {
			return true
		}
	}
	return false
}

// DirectiveDisabled reports whether a directive is in DisabledDirectives.
func (c *Config) DirectiveDisabled(name string) bool {
	for _, n := range c.DisabledDirectives {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
