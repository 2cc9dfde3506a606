package directive

import (
	"fmt"
	"sort"
	"strings"

	"github.com/elves/mdtree/pkg/diag"
)

// Spec declares what a directive accepts.
type Spec struct {
	RequiredArguments int
	OptionalArguments int
	// Whether the final argument may contain whitespace. When true, excess
	// text is kept as part of the final argument instead of being an error.
	FinalArgumentWhitespace bool
	HasContent              bool
	// Converters of the accepted options, keyed by option name. A nil map
	// means no options are accepted.
	Options map[string]OptionFunc
}

// ParseArguments splits the argument text of an invocation into arguments.
// Errors are of kind diag.ArgumentError.
func (s Spec) ParseArguments(text string) ([]string, error) {
	args := strings.Fields(text)
	max := s.RequiredArguments + s.OptionalArguments
	switch {
	case len(args) < s.RequiredArguments:
		return nil, diag.Errorf(diag.ArgumentError,
			"%d argument(s) required, %d supplied", s.RequiredArguments, len(args))
	case len(args) > max:
		if !s.FinalArgumentWhitespace || max == 0 {
			return nil, diag.Errorf(diag.ArgumentError,
				"maximum %d argument(s) allowed, %d supplied", max, len(args))
		}
		return splitFields(text, max), nil
	}
	return args, nil
}

// Like strings.Fields, but returns at most n fields, the last of which is the
// rest of the text with surrounding whitespace trimmed.
func splitFields(text string, n int) []string {
	fields := make([]string, 0, n)
	rest := strings.TrimSpace(text)
	for len(fields) < n-1 {
		i := strings.IndexAny(rest, " \t\n\r\f\v")
		fields = append(fields, rest[:i])
		rest = strings.TrimLeft(rest[i:], " \t\n\r\f\v")
	}
	return append(fields, rest)
}

// ConvertOptions validates options against the spec and converts their
// values. Errors are of kind diag.ArgumentError.
func (s Spec) ConvertOptions(options map[string]any) (map[string]any, error) {
	converted := make(map[string]any, len(options))
	if len(options) == 0 {
		return converted, nil
	}
	if s.Options == nil {
		return nil, diag.Errorf(diag.ArgumentError, "no options permitted")
	}
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		convert, ok := s.Options[name]
		if !ok {
			return nil, diag.Errorf(diag.ArgumentError, "unknown option: %q", name)
		}
		v, err := convert(options[name])
		if err != nil {
			return nil, diag.Errorf(diag.ArgumentError,
				"invalid option value: (option: %q; value: %s)\n%v",
				name, repr(options[name]), err)
		}
		converted[name] = v
	}
	return converted, nil
}

func repr(v any) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case string:
		return "'" + v + "'"
	}
	return fmt.Sprint(v)
}

// CheckContent returns an error if there is non-blank content but the
// directive does not accept content. Errors are of kind diag.ArgumentError.
func (s Spec) CheckContent(lines []string) error {
	if s.HasContent {
		return nil
	}
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return diag.Errorf(diag.ArgumentError, "no content permitted")
		}
	}
	return nil
}
