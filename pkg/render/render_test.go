package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/elves/mdtree/pkg/config"
	"github.com/elves/mdtree/pkg/doctree"
	"github.com/elves/mdtree/pkg/testutil"
)

var dedent = testutil.Dedent

// Joins lines with newlines, for expected output with significant
// whitespace at line ends.
func lines(ls ...string) string { return strings.Join(ls, "\n") + "\n" }

func mustRender(t *testing.T, r *Renderer, src string) *Result {
	t.Helper()
	res, err := r.RenderString(src)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return res
}

var renderTests = []struct {
	name string
	src  string
	want string
}{
	{
		name: "heading levels",
		src:  "# a\n## b\n### c\n## d\n# e\n#### f\n",
		want: dedent(`
			<document source="">
			    <section ids="a" names="a">
			        <title>
			            a
			        <section ids="b" names="b">
			            <title>
			                b
			            <section ids="c" names="c">
			                <title>
			                    c
			        <section ids="d" names="d">
			            <title>
			                d
			    <section ids="e" names="e">
			        <title>
			            e
			        <section ids="f" names="f">
			            <title>
			                f
			`),
	},
	{
		name: "same level headings",
		src:  "# a\n# b\n\ntext\n",
		want: dedent(`
			<document source="">
			    <section ids="a" names="a">
			        <title>
			            a
			    <section ids="b" names="b">
			        <title>
			            b
			        <paragraph>
			            text
			`),
	},
	{
		name: "duplicate heading names",
		src:  "# Intro\n# Intro\n",
		want: dedent(`
			<document source="">
			    <section ids="intro" names="intro">
			        <title>
			            Intro
			    <section ids="id1" names="intro">
			        <title>
			            Intro
			`),
	},
	{
		name: "strong and emphasis",
		src:  "**a**,*b*",
		want: dedent(`
			<document source="">
			    <paragraph>
			        <strong>
			            a
			        ,
			        <emphasis>
			            b
			`),
	},
	{
		name: "fenced code",
		src:  "```python\nprint(1)\n```\n",
		want: dedent(`
			<document source="">
			    <literal_block language="python" xml:space="preserve">
			        print(1)
			`),
	},
	{
		name: "fenced code without language",
		src:  "```\nfoo\n```\n",
		want: dedent(`
			<document source="">
			    <literal_block language="" xml:space="preserve">
			        foo
			`),
	},
	{
		name: "indented code",
		src:  "    x = 1\n",
		want: dedent(`
			<document source="">
			    <literal_block language="" xml:space="preserve">
			        x = 1
			`),
	},
	{
		name: "code span",
		src:  "`a  *b*`",
		want: lines(
			`<document source="">`,
			`    <paragraph>`,
			`        <literal>`,
			`            a  *b*`),
	},
	{
		name: "soft and hard line breaks",
		src:  "a\nb\\\nc",
		want: dedent(`
			<document source="">
			    <paragraph>
			        a
			        b
			        <raw format="html" xml:space="preserve">
			            <br />
			        c
			`),
	},
	{
		name: "html block",
		src:  "<div>\nhi\n</div>\n",
		want: dedent(`
			<document source="">
			    <raw format="html" xml:space="preserve">
			        <div>
			        hi
			        </div>
			`),
	},
	{
		name: "block quote and transition",
		src:  "> q\n\n***\n",
		want: dedent(`
			<document source="">
			    <block_quote>
			        <paragraph>
			            q
			    <transition>
			`),
	},
	{
		name: "heading in block quote",
		src:  "# a\n\n> ## b\n> in\n\nout\n",
		want: dedent(`
			<document source="">
			    <section ids="a" names="a">
			        <title>
			            a
			        <block_quote>
			            <section ids="b" names="b">
			                <title>
			                    b
			                <paragraph>
			                    in
			        <paragraph>
			            out
			`),
	},
	{
		name: "bullet list",
		src:  "- a\n- b\n",
		want: dedent(`
			<document source="">
			    <bullet_list bullet="-">
			        <list_item>
			            <paragraph>
			                a
			        <list_item>
			            <paragraph>
			                b
			`),
	},
	{
		name: "enumerated list",
		src:  "3) x\n",
		want: lines(
			`<document source="">`,
			`    <enumerated_list enumtype="arabic" prefix="" start="3" suffix=")">`,
			`        <list_item>`,
			`            <paragraph>`,
			`                x`),
	},
	{
		name: "image",
		src:  "![alt *text*](pic.png)",
		want: dedent(`
			<document source="">
			    <paragraph>
			        <image alt="alt text" uri="pic.png">
			`),
	},
	{
		name: "external link",
		src:  `[x](http://example.com "T")`,
		want: dedent(`
			<document source="">
			    <paragraph>
			        <reference refuri="http://example.com" title="T">
			            x
			`),
	},
	{
		name: "cross-reference link",
		src:  "[y](./my%20page)",
		want: dedent(`
			<document source="">
			    <paragraph>
			        <pending_xref refdomain="" refexplicit="True" reftarget="./my page" reftype="any" refwarn="True">
			            <reference refuri="./my%20page">
			                y
			`),
	},
	{
		name: "link with fragment",
		src:  "[z](page#part)",
		want: dedent(`
			<document source="">
			    <paragraph>
			        <reference refuri="page#part">
			            z
			`),
	},
	{
		name: "link reference definition",
		src:  "[x][r]\n\n[r]: https://e.com/\n",
		want: dedent(`
			<document source="">
			    <paragraph>
			        <reference refuri="https://e.com/">
			            x
			`),
	},
	{
		name: "role",
		src:  "{abbr}`CSS (Cascading Style Sheets)`",
		want: dedent(`
			<document source="">
			    <paragraph>
			        <abbreviation explanation="Cascading Style Sheets">
			            CSS
			`),
	},
}

func TestRender(t *testing.T) {
	r := New()
	for _, tc := range renderTests {
		t.Run(tc.name, func(t *testing.T) {
			res := mustRender(t, r, tc.src)
			if diff := cmp.Diff(tc.want, res.Doc.String()); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestRender_SectionsStrictlyNested(t *testing.T) {
	for _, levels := range [][]int{
		{1, 2, 3, 2, 1, 4}, {3, 1, 2}, {1, 3, 2, 6, 1}, {2, 2, 1, 1, 5, 4, 3},
	} {
		var sb strings.Builder
		for i, l := range levels {
			sb.WriteString(strings.Repeat("#", l) + " h" + string(rune('a'+i)) + "\n")
		}
		res := mustRender(t, New(), sb.String())
		d := res.Doc
		levelOf := map[doctree.Node]int{doctree.Root: 0}
		sections := d.FindAll(doctree.Root, doctree.KindSection)
		if len(sections) != len(levels) {
			t.Fatalf("%v: got %d sections", levels, len(sections))
		}
		for i, sec := range sections {
			levelOf[sec] = levels[i]
		}
		for _, sec := range sections {
			parent := d.Parent(sec)
			if pl, ok := levelOf[parent]; !ok || pl >= levelOf[sec] {
				t.Errorf("%v: section of level %d has parent of level %d",
					levels, levelOf[sec], pl)
			}
		}
	}
}

func TestRender_TextRoundTrip(t *testing.T) {
	res := mustRender(t, New(), `a \*b\* \[c] &amp; john & jane`)
	para := res.Doc.Children(doctree.Root)[0]
	if got, want := res.Doc.AsText(para), "a *b* [c] & john & jane"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if n := len(res.Doc.Children(para)); n != 1 {
		t.Errorf("got %d children, want a single text node", n)
	}
}

func TestRender_TextRoundTripWithDefinitions(t *testing.T) {
	res := mustRender(t, New(), "a [b][r] c\n\n[r]: https://e.com/\n\n[s]: https://f.com/\n")
	paras := res.Doc.Children(doctree.Root)
	if len(paras) != 1 {
		t.Fatalf("got %d top-level nodes, want 1", len(paras))
	}
	if got, want := res.Doc.AsText(doctree.Root), "a b c"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_KnownURLSchemes(t *testing.T) {
	r := New(WithConfig(&config.Config{Language: "en", KnownURLSchemes: []string{"https"}}))
	for dest, wantXref := range map[string]bool{
		"https://example.com": false,
		"http://example.com":  true,
		"page":                true,
		"http://e.com#frag":   false,
	} {
		res := mustRender(t, r, "[x]("+dest+")")
		got := len(res.Doc.FindAll(doctree.Root, doctree.KindPendingXref)) == 1
		if got != wantXref {
			t.Errorf("%s: pending_xref = %v, want %v", dest, got, wantXref)
		}
	}
}

func TestRender_SourceName(t *testing.T) {
	r := New(WithConfig(&config.Config{Language: "en", Source: "doc.md"}))
	res := mustRender(t, r, "x")
	if got := res.Doc.Str(doctree.Root, "source"); got != "doc.md" {
		t.Errorf("source = %q", got)
	}
}
