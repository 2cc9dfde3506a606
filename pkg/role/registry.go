package role

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

// Registry maps role names to roles, with per-language vocabularies of
// localized names.
type Registry struct {
	roles map[string]Role
	vocab map[string]map[string]string
}

// NewRegistry creates an empty Registry with the built-in vocabularies.
func NewRegistry() *Registry {
	r := &Registry{map[string]Role{}, map[string]map[string]string{}}
	for lang, names := range vocabularies {
		r.RegisterVocabulary(lang, names)
	}
	return r
}

// Register registers a role under a canonical name.
func (r *Registry) Register(name string, role Role) {
	r.roles[strings.ToLower(name)] = role
}

// RegisterVocabulary adds localized names for a language.
func (r *Registry) RegisterVocabulary(lang string, names map[string]string) {
	if r.vocab[lang] == nil {
		r.vocab[lang] = map[string]string{}
	}
	for localized, canonical := range names {
		r.vocab[lang][localized] = canonical
	}
}

// HasLanguage reports whether the registry has a vocabulary for a language.
func (r *Registry) HasLanguage(lang string) bool {
	_, ok := r.vocab[lang]
	return ok
}

// Names returns the canonical names of all registered roles, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.roles))
	for name := range r.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve looks up a role by the name it was invoked with. Notes about the
// lookup are reported at the INFO level and returned; the role is nil when
// it could not be found.
func (r *Registry) Resolve(name, lang string, reporter *diag.Reporter, line int) (Role, []doctree.Node) {
	norm := strings.ToLower(name)
	if role, ok := r.roles[norm]; ok {
		return role, nil
	}
	var notes []string
	canonical, ok := r.vocab[lang][norm]
	if !ok {
		notes = append(notes, fmt.Sprintf("No role entry for %q in language %q.", name, lang))
		if canonical, ok = r.vocab[FallbackLanguage][norm]; ok {
			notes = append(notes, fmt.Sprintf("Using English fallback for role %q.", name))
		} else {
			notes = append(notes, fmt.Sprintf("Trying %q as canonical role name.", name))
			canonical = norm
		}
	}
	var messages []doctree.Node
	if len(notes) > 0 {
		messages = append(messages, reporter.Info(strings.Join(notes, "\n"), line))
	}
	return r.roles[canonical], messages
}

var vocabularies = map[string]map[string]string{
	"en": {
		"emphasis":        "emphasis",
		"strong":          "strong",
		"literal":         "literal",
		"code":            "code",
		"subscript":       "subscript",
		"sub":             "subscript",
		"superscript":     "superscript",
		"sup":             "superscript",
		"math":            "math",
		"abbreviation":    "abbreviation",
		"abbr":            "abbreviation",
		"ab":              "abbreviation",
		"title-reference": "title-reference",
		"title":           "title-reference",
		"t":               "title-reference",
	},
	"de": {
		"betonung":       "emphasis",
		"fett":           "strong",
		"wörtlich":       "literal",
		"code":           "code",
		"tiefgestellt":   "subscript",
		"hochgestellt":   "superscript",
		"mathematik":     "math",
		"abkürzung":      "abbreviation",
		"titel-referenz": "title-reference",
	},
	"fr": {
		"emphase":         "emphasis",
		"fort":            "strong",
		"littéral":        "literal",
		"code":            "code",
		"indice":          "subscript",
		"exposant":        "superscript",
		"math":            "math",
		"abréviation":     "abbreviation",
		"titre-référence": "title-reference",
	},
}
