package mdparse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yuin/goldmark/ast"

	"github.com/elves/mdtree/pkg/testutil"
)

var dedent = testutil.Dedent

func childKinds(n ast.Node) []string {
	var kinds []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		kinds = append(kinds, c.Kind().String())
	}
	return kinds
}

var splitTests = []struct {
	name      string
	src       string
	wantKinds []string
	wantText  string
}{
	{"escape", `a\*b`, []string{"Text", "EscapeSequence", "Text"}, "a*b"},
	{"leading escape", `\#x`, []string{"EscapeSequence", "Text"}, "#x"},
	{"backslash before letter", `a\b`, []string{"Text"}, `a\b`},
	{"soft break", "a\nb", []string{"Text", "LineBreak", "Text"}, "a\nb"},
	{"hard break", "a\\\nb", []string{"Text", "LineBreak", "Text"}, "a\nb"},
	{"entity", "john &amp; jane", []string{"Text"}, "john & jane"},
}

func TestParse_SplitsTexts(t *testing.T) {
	p := New()
	for _, tc := range splitTests {
		t.Run(tc.name, func(t *testing.T) {
			tree := p.Parse([]byte(tc.src))
			para := tree.Root.FirstChild()
			if diff := cmp.Diff(tc.wantKinds, childKinds(para)); diff != "" {
				t.Errorf("kinds (-want +got):\n%s", diff)
			}
			if got := PlainText(para, tree.Source); got != tc.wantText {
				t.Errorf("PlainText = %q, want %q", got, tc.wantText)
			}
		})
	}
}

func TestParse_LineBreakSoftness(t *testing.T) {
	p := New()
	for src, wantSoft := range map[string]bool{"a\nb": true, "a\\\nb": false, "a  \nb": false} {
		tree := p.Parse([]byte(src))
		br, ok := tree.Root.FirstChild().FirstChild().NextSibling().(*LineBreak)
		if !ok {
			t.Errorf("%q: no LineBreak after first text", src)
			continue
		}
		if br.Soft != wantSoft {
			t.Errorf("%q: Soft = %v, want %v", src, br.Soft, wantSoft)
		}
	}
}

func TestParse_CodeSpanNotSplit(t *testing.T) {
	tree := New().Parse([]byte("`a\\*b`"))
	span := tree.Root.FirstChild().FirstChild().(*ast.CodeSpan)
	if got := CodeSpanContent(span, tree.Source); got != `a\*b` {
		t.Errorf("got %q, want %q", got, `a\*b`)
	}
}

func TestParse_Role(t *testing.T) {
	tree := New().Parse([]byte("see {abbr}`CSS (Cascading Style Sheets)` here"))
	para := tree.Root.FirstChild()
	if diff := cmp.Diff([]string{"Text", "Role", "Text"}, childKinds(para)); diff != "" {
		t.Fatalf("kinds (-want +got):\n%s", diff)
	}
	role := para.FirstChild().NextSibling().(*Role)
	type fields struct {
		Name, Content, RawText string
		Offset                 int
	}
	want := fields{"abbr", "CSS (Cascading Style Sheets)", "{abbr}`CSS (Cascading Style Sheets)`", 4}
	got := fields{role.Name, role.Content, role.RawText, role.Offset}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("role (-want +got):\n%s", diff)
	}
	if got := PlainText(para.FirstChild(), tree.Source); got != "see " {
		t.Errorf("text before role = %q, want %q", got, "see ")
	}
}

func TestParse_RoleAtStart(t *testing.T) {
	tree := New().Parse([]byte("{sub}`2`"))
	if diff := cmp.Diff([]string{"Role"}, childKinds(tree.Root.FirstChild())); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}
}

func TestParse_EscapedRoleIsNotRole(t *testing.T) {
	tree := New().Parse([]byte("\\{abbr}`x`"))
	kinds := childKinds(tree.Root.FirstChild())
	if diff := cmp.Diff([]string{"EscapeSequence", "Text", "CodeSpan"}, kinds); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}
}

func TestTree_Line(t *testing.T) {
	tree := New().Parse([]byte(dedent(`
		para

		# Heading

		`+"```{note}"+`
		x
		`+"```"+`

		- item
		`)))
	var got []int
	for c := tree.Root.FirstChild(); c != nil; c = c.NextSibling() {
		got = append(got, tree.Line(c))
	}
	if diff := cmp.Diff([]int{1, 3, 5, 9}, got); diff != "" {
		t.Errorf("lines (-want +got):\n%s", diff)
	}
}

func TestTree_Line_FencedCodeWithoutInfo(t *testing.T) {
	tree := New().Parse([]byte("text\n\n```\ncode\n```\n"))
	if got := tree.Line(tree.Root.LastChild()); got != 3 {
		t.Errorf("got line %d, want 3", got)
	}
}

func TestParseWithReferences(t *testing.T) {
	p := New()
	outer := p.Parse([]byte("[x]: https://example.com/\n"))
	inner := p.ParseWithReferences([]byte("[see][x]"), outer.References())
	link, ok := inner.Root.FirstChild().FirstChild().(*ast.Link)
	if !ok {
		t.Fatalf("reference link not resolved: %s", Trace(inner))
	}
	if got := string(link.Destination); got != "https://example.com/" {
		t.Errorf("destination = %q", got)
	}
}

func TestTrace(t *testing.T) {
	tree := New().Parse([]byte("# Title\n\nHello *world*\n\n    code\n"))
	want := dedent(`
		Document
		  Heading Line=1 Level=1
		    Text Text="Title"
		  Paragraph Line=3
		    Text Text="Hello "
		    Emphasis Level=1
		      Text Text="world"
		  CodeBlock Line=5
		    | code
		`)
	if diff := cmp.Diff(want, Trace(tree)); diff != "" {
		t.Errorf("Trace (-want +got):\n%s", diff)
	}
}

func TestTrace_RawHTML(t *testing.T) {
	tree := New().Parse([]byte("a <b>x</b>\n"))
	want := dedent(`
		Document
		  Paragraph Line=1
		    Text Text="a "
		    RawHTML Text="<b>"
		    Text Text="x"
		    RawHTML Text="</b>"
		`)
	if diff := cmp.Diff(want, Trace(tree)); diff != "" {
		t.Errorf("Trace (-want +got):\n%s", diff)
	}
}
