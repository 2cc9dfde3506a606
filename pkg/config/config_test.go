package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/elves/mdtree/pkg/must"
	"github.com/elves/mdtree/pkg/testutil"
)

func TestParse(t *testing.T) {
	cfg, err := Parse(testutil.Dedent(`
		language = "de"
		known_url_schemes = ["http", "https"]
		disabled_directives = ["raw"]
		source = "docs/index.md"

		[parser]
		linkify = true

		[index]
		path = "targets.db"
		docname = "index"
		`))
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Language:           "de",
		KnownURLSchemes:    []string{"http", "https"},
		DisabledDirectives: []string{"raw"},
		Source:             "docs/index.md",
		Parser:             Parser{Linkify: true},
		Index:              Index{Path: "targets.db", Docname: "index"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

var parseErrorTests = []struct {
	name    string
	text    string
	wantErr string
}{
	{"unknown key", "colour = 1\n[parser]\nsmart = true\n",
		"unknown configuration keys: colour, parser.smart"},
	{"unknown language", `language = "xx"`, `unknown language "xx"`},
	{"invalid scheme", `known_url_schemes = ["Not A Scheme"]`, `invalid URL scheme "Not A Scheme"`},
}

func TestParse_Errors(t *testing.T) {
	for _, tc := range parseErrorTests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.text)
			if err == nil || err.Error() != tc.wantErr {
				t.Errorf("got error %v, want %q", err, tc.wantErr)
			}
		})
	}
	if _, err := Parse("language = "); err == nil {
		t.Errorf("invalid TOML accepted")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mdtree.toml")
	must.WriteFile(path, `language = "fr"`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Language != "fr" {
		t.Errorf("got language %q", cfg.Language)
	}

	must.WriteFile(path, `bogus = 1`)
	if _, err := Load(path); err == nil || !strings.HasPrefix(err.Error(), path+": ") {
		t.Errorf("got error %v, want error prefixed with path", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.toml")); !os.IsNotExist(err) {
		t.Errorf("got error %v, want not exist", err)
	}
}

func TestConfig_Lookups(t *testing.T) {
	cfg := &Config{KnownURLSchemes: []string{"https"}, DisabledDirectives: []string{"raw"}}
	if !cfg.SchemeKnown("HTTPS") || cfg.SchemeKnown("ftp") {
		t.Errorf("SchemeKnown wrong")
	}
	if !cfg.DirectiveDisabled("raw") || cfg.DirectiveDisabled("note") {
		t.Errorf("DirectiveDisabled wrong")
	}
}
