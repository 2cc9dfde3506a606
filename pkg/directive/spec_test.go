package directive

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/elves/mdtree/pkg/diag"
)

var parseArgumentsTests = []struct {
	name    string
	spec    Spec
	text    string
	want    []string
	wantErr string
}{
	{name: "none", spec: Spec{}, text: "  ", want: []string{}},
	{name: "required", spec: Spec{RequiredArguments: 1}, text: "a", want: []string{"a"}},
	{name: "optional", spec: Spec{RequiredArguments: 1, OptionalArguments: 1},
		text: "a b", want: []string{"a", "b"}},
	{name: "missing", spec: Spec{RequiredArguments: 2}, text: "a",
		wantErr: "2 argument(s) required, 1 supplied"},
	{name: "too many", spec: Spec{RequiredArguments: 1}, text: "a b",
		wantErr: "maximum 1 argument(s) allowed, 2 supplied"},
	{name: "final whitespace", spec: Spec{RequiredArguments: 1, FinalArgumentWhitespace: true},
		text: " A  long title ", want: []string{"A  long title"}},
	{name: "final whitespace, two arguments",
		spec: Spec{RequiredArguments: 1, OptionalArguments: 1, FinalArgumentWhitespace: true},
		text: "a b\tc d", want: []string{"a", "b\tc d"}},
	{name: "final whitespace without arguments",
		spec: Spec{FinalArgumentWhitespace: true}, text: "a",
		wantErr: "maximum 0 argument(s) allowed, 1 supplied"},
}

func TestSpec_ParseArguments(t *testing.T) {
	for _, tc := range parseArgumentsTests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.spec.ParseArguments(tc.text)
			if tc.wantErr != "" {
				checkArgumentError(t, err, tc.wantErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func checkArgumentError(t *testing.T, err error, wantMsg string) {
	t.Helper()
	e, ok := err.(*diag.Error)
	if !ok {
		t.Fatalf("got error %v, want *diag.Error", err)
	}
	if e.Kind != diag.ArgumentError || e.Message != wantMsg {
		t.Errorf("got %v %q, want ArgumentError %q", e.Kind, e.Message, wantMsg)
	}
}

func TestSpec_ConvertOptions(t *testing.T) {
	spec := Spec{Options: map[string]OptionFunc{
		"class": ClassOption, "depth": NonnegativeInt, "local": Flag}}

	got, err := spec.ConvertOptions(map[string]any{"class": "Tip Extra", "depth": "2", "local": nil})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"class": []string{"tip", "extra"}, "depth": 2, "local": true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	_, err = spec.ConvertOptions(map[string]any{"bogus": 1})
	checkArgumentError(t, err, `unknown option: "bogus"`)

	_, err = spec.ConvertOptions(map[string]any{"depth": -1})
	checkArgumentError(t, err,
		"invalid option value: (option: \"depth\"; value: -1)\nnegative value; must be positive or zero")

	_, err = Spec{}.ConvertOptions(map[string]any{"a": 1})
	checkArgumentError(t, err, "no options permitted")

	got, err = Spec{}.ConvertOptions(nil)
	if err != nil || len(got) != 0 {
		t.Errorf("ConvertOptions(nil) -> (%v, %v), want empty map", got, err)
	}
}

func TestSpec_CheckContent(t *testing.T) {
	if err := (Spec{}).CheckContent([]string{"", "  "}); err != nil {
		t.Errorf("blank content rejected: %v", err)
	}
	checkArgumentError(t, Spec{}.CheckContent([]string{"x"}), "no content permitted")
	if err := (Spec{HasContent: true}).CheckContent([]string{"x"}); err != nil {
		t.Errorf("content rejected: %v", err)
	}
}

var optionTests = []struct {
	name    string
	f       OptionFunc
	in      any
	want    any
	wantErr string
}{
	{"flag nil", Flag, nil, true, ""},
	{"flag true", Flag, true, true, ""},
	{"flag value", Flag, "x", nil, `no argument is allowed; "x" supplied`},
	{"unchanged nil", Unchanged, nil, "", ""},
	{"unchanged number", Unchanged, 42, "42", ""},
	{"unchanged required", UnchangedRequired, nil, nil, "argument required but none supplied"},
	{"nonnegative zero", NonnegativeInt, 0, 0, ""},
	{"nonnegative string", NonnegativeInt, " 3 ", 3, ""},
	{"nonnegative junk", NonnegativeInt, "x", nil, "invalid literal for int(): 'x'"},
	{"positive zero", PositiveInt, 0, nil, "negative or zero value; must be positive"},
	{"class", ClassOption, "A_b c", []string{"a-b", "c"}, ""},
	{"class invalid", ClassOption, "***", nil, `cannot make "***" into a class name`},
	{"choice", Choice("top", "none"), "TOP", "top", ""},
	{"choice invalid", Choice("top", "entry", "none"), "x", nil,
		`"x" unknown; choose from "top", "entry", or "none"`},
}

func TestOptionFuncs(t *testing.T) {
	for _, tc := range optionTests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.f(tc.in)
			if tc.wantErr != "" {
				if err == nil || err.Error() != tc.wantErr {
					t.Errorf("got error %v, want %q", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}
