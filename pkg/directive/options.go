package directive

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/elves/mdtree/pkg/doctree"
)

// OptionFunc validates and converts the value of an option. The value comes
// from YAML and may be nil, a string, a number or a bool.
type OptionFunc func(value any) (any, error)

var errNeedArgument = errors.New("argument required but none supplied")

func stringValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	}
	return fmt.Sprint(v)
}

// Flag accepts an option without a value, and converts it to true.
func Flag(v any) (any, error) {
	switch v := v.(type) {
	case nil:
		return true, nil
	case bool:
		if v {
			return true, nil
		}
	case string:
		if strings.TrimSpace(v) == "" {
			return true, nil
		}
	}
	return nil, fmt.Errorf("no argument is allowed; %q supplied", stringValue(v))
}

// Unchanged accepts any value, and converts it to a string. A missing value
// becomes "".
func Unchanged(v any) (any, error) {
	return stringValue(v), nil
}

// UnchangedRequired is like Unchanged, but requires a value.
func UnchangedRequired(v any) (any, error) {
	if v == nil {
		return nil, errNeedArgument
	}
	return stringValue(v), nil
}

func intValue(v any) (int, error) {
	switch v := v.(type) {
	case int:
		return v, nil
	case nil:
		return 0, errNeedArgument
	}
	i, err := strconv.Atoi(strings.TrimSpace(stringValue(v)))
	if err != nil {
		return 0, fmt.Errorf("invalid literal for int(): %s", repr(v))
	}
	return i, nil
}

// NonnegativeInt accepts an integer that is 0 or greater.
func NonnegativeInt(v any) (any, error) {
	i, err := intValue(v)
	if err != nil {
		return nil, err
	}
	if i < 0 {
		return nil, errors.New("negative value; must be positive or zero")
	}
	return i, nil
}

// PositiveInt accepts an integer that is 1 or greater.
func PositiveInt(v any) (any, error) {
	i, err := intValue(v)
	if err != nil {
		return nil, err
	}
	if i < 1 {
		return nil, errors.New("negative or zero value; must be positive")
	}
	return i, nil
}

// ClassOption accepts a whitespace-separated list of class names, and
// converts it to a []string of identifiers.
func ClassOption(v any) (any, error) {
	if v == nil {
		return nil, errNeedArgument
	}
	var classes []string
	for _, name := range strings.Fields(stringValue(v)) {
		class := doctree.MakeID(name)
		if class == "" {
			return nil, fmt.Errorf("cannot make %q into a class name", name)
		}
		classes = append(classes, class)
	}
	if len(classes) == 0 {
		return nil, errNeedArgument
	}
	return classes, nil
}

// Choice returns an OptionFunc accepting one of the given values, compared
// case-insensitively.
func Choice(values ...string) OptionFunc {
	return func(v any) (any, error) {
		s := strings.ToLower(strings.TrimSpace(stringValue(v)))
		for _, value := range values {
			if s == value {
				return value, nil
			}
		}
		return nil, fmt.Errorf("%q unknown; choose from %s", stringValue(v), formatValues(values))
	}
}

func formatValues(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	if len(quoted) < 2 {
		return strings.Join(quoted, "")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
