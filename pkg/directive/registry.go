package directive

import (
	"fmt"
	"sort"
	"strings"

	"github.com/elves/mdtree/pkg/diag"
	"github.com/elves/mdtree/pkg/doctree"
)

// FallbackLanguage is the language whose vocabulary is consulted when a name
// is not found in the vocabulary of the requested language.
const FallbackLanguage = "en"

// Registry maps directive names to directives. Directives are registered
// under canonical names; each language has a vocabulary mapping localized
// names to canonical ones.
type Registry struct {
	directives map[string]Directive
	vocab      map[string]map[string]string
}

// NewRegistry creates an empty Registry with the built-in vocabularies.
func NewRegistry() *Registry {
	r := &Registry{map[string]Directive{}, map[string]map[string]string{}}
	for lang, names := range vocabularies {
		r.RegisterVocabulary(lang, names)
	}
	return r
}

// Register registers a directive under a canonical name.
func (r *Registry) Register(name string, d Directive) {
	r.directives[strings.ToLower(name)] = d
}

// RegisterVocabulary adds localized names for a language.
func (r *Registry) RegisterVocabulary(lang string, names map[string]string) {
	vocab := r.vocab[lang]
	if vocab == nil {
		vocab = map[string]string{}
		r.vocab[lang] = vocab
	}
	for localized, canonical := range names {
		vocab[localized] = canonical
	}
}

// HasLanguage reports whether the registry has a vocabulary for a language.
func (r *Registry) HasLanguage(lang string) bool {
	_, ok := r.vocab[lang]
	return ok
}

// Names returns the canonical names of all registered directives, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.directives))
	for name := range r.directives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve looks up a directive by the name it was invoked with. Problems
// found along the way are reported with the reporter, and the resulting
// system messages are returned; the directive is nil when it could not be
// found.
func (r *Registry) Resolve(name, lang string, reporter *diag.Reporter, line int) (Directive, []doctree.Node) {
	norm := strings.ToLower(name)
	if d, ok := r.directives[norm]; ok {
		return d, nil
	}
	var notes []string
	canonical, ok := r.vocab[lang][norm]
	if !ok {
		notes = append(notes, fmt.Sprintf(
			"No directive entry for %q in language %q.", name, lang))
		if canonical, ok = r.vocab[FallbackLanguage][norm]; ok {
			notes = append(notes, fmt.Sprintf(
				"Using English fallback for directive %q.", name))
		} else {
			notes = append(notes, fmt.Sprintf(
				"Trying %q as canonical directive name.", name))
			canonical = norm
		}
	}
	var messages []doctree.Node
	if len(notes) > 0 {
		messages = append(messages, reporter.Info(strings.Join(notes, "\n"), line))
	}
	if d, ok := r.directives[canonical]; ok {
		return d, messages
	}
	messages = append(messages, reporter.Error(
		fmt.Sprintf("Unknown directive type %q.", name), line))
	return nil, messages
}

// Label returns a localized label, like the default title of a table of
// contents.
func Label(lang, key string) string {
	if l, ok := labels[lang][key]; ok {
		return l
	}
	return labels[FallbackLanguage][key]
}

var vocabularies = map[string]map[string]string{
	"en": {
		"attention":  "attention",
		"caution":    "caution",
		"danger":     "danger",
		"error":      "error",
		"hint":       "hint",
		"important":  "important",
		"note":       "note",
		"tip":        "tip",
		"warning":    "warning",
		"admonition": "admonition",
		"code":       "code",
		"code-block": "code",
		"sourcecode": "code",
		"math":       "math",
		"contents":   "contents",
		"topic":      "topic",
		"rubric":     "rubric",
		"raw":        "raw",
		"image":      "image",
	},
	"de": {
		"achtung":    "attention",
		"vorsicht":   "caution",
		"gefahr":     "danger",
		"fehler":     "error",
		"hinweis":    "hint",
		"wichtig":    "important",
		"notiz":      "note",
		"tipp":       "tip",
		"warnung":    "warning",
		"ermahnung":  "admonition",
		"code":       "code",
		"code-block": "code",
		"mathe":      "math",
		"inhalt":     "contents",
		"thema":      "topic",
		"rubrik":     "rubric",
		"roh":        "raw",
		"bild":       "image",
	},
	"fr": {
		"attention":          "attention",
		"précaution":         "caution",
		"danger":             "danger",
		"erreur":             "error",
		"conseil":            "hint",
		"important":          "important",
		"note":               "note",
		"astuce":             "tip",
		"avertissement":      "warning",
		"admonition":         "admonition",
		"code":               "code",
		"code-bloc":          "code",
		"math":               "math",
		"sommaire":           "contents",
		"table-des-matières": "contents",
		"sujet":              "topic",
		"rubrique":           "rubric",
		"brut":               "raw",
		"image":              "image",
	},
}

var labels = map[string]map[string]string{
	"en": {"contents": "Contents"},
	"de": {"contents": "Inhalt"},
	"fr": {"contents": "Sommaire"},
}
