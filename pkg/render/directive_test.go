package render

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/elves/mdtree/pkg/config"
	"github.com/elves/mdtree/pkg/diag"
	"github.com/elves/mdtree/pkg/directive"
	"github.com/elves/mdtree/pkg/doctree"
)

var directiveTests = []struct {
	name string
	src  string
	want string
}{
	{
		name: "admonition with nested content",
		src:  "```{note}\n*Hello*\n\n# Inner\ntext\n```\n",
		want: dedent(`
			<document source="">
			    <note>
			        <paragraph>
			            <emphasis>
			                Hello
			        <section ids="inner" names="inner">
			            <title>
			                Inner
			            <paragraph>
			                text
			`),
	},
	{
		name: "options in front matter",
		src:  "```{admonition} *Title*\n---\nclass: tip\n---\nBody\n```\n",
		want: dedent(`
			<document source="">
			    <admonition classes="tip">
			        <title>
			            <emphasis>
			                Title
			        <paragraph>
			            Body
			`),
	},
	{
		name: "unknown directive",
		src:  "```{bogus}\nx\n```\n",
		want: dedent(`
			<document source="">
			    <system_message level="1" line="1" source="" type="INFO">
			        <paragraph>
			            No directive entry for "bogus" in language "en".
			            Trying "bogus" as canonical directive name.
			    <system_message level="3" line="1" source="" type="ERROR">
			        <paragraph>
			            Unknown directive type "bogus".
			`),
	},
	{
		name: "missing argument",
		src:  "```{admonition}\nBody\n```\n",
		want: dedent(`
			<document source="">
			    <system_message level="3" line="1" source="" type="ERROR">
			        <paragraph>
			            Error in "admonition" directive:
			            1 argument(s) required, 0 supplied.
			        <literal_block xml:space="preserve">
			            Body
			`),
	},
	{
		name: "unknown option",
		src:  "```{note}\n---\ncolor: red\n---\nBody\n```\n",
		want: dedent(`
			<document source="">
			    <system_message level="3" line="1" source="" type="ERROR">
			        <paragraph>
			            Error in "note" directive:
			            unknown option: "color".
			        <literal_block xml:space="preserve">
			            ---
			            color: red
			            ---
			            Body
			`),
	},
	{
		name: "malformed front matter",
		src:  "```{note}\n---\n- a\n---\nBody\n```\n",
		want: dedent(`
			<document source="">
			    <system_message level="2" line="1" source="" type="WARNING">
			        <paragraph>
			            Ignoring options of "note" directive:
			            options block must be a mapping, got a sequence
			    <note>
			        <paragraph>
			            Body
			`),
	},
	{
		name: "code directive",
		src:  "```{code} go\n---\nnumber-lines: 1\n---\nx := 1\n```\n",
		want: dedent(`
			<document source="">
			    <literal_block classes="code go" language="go" number-lines="1" xml:space="preserve">
			        x := 1
			`),
	},
	{
		name: "contents",
		src:  "```{contents}\n```\n\n# A\n\n## B\n",
		want: dedent(`
			<document source="">
			    <topic classes="contents" ids="contents" names="contents">
			        <title>
			            Contents
			        <bullet_list>
			            <list_item>
			                <paragraph>
			                    <reference ids="id1" refid="a">
			                        A
			                <bullet_list>
			                    <list_item>
			                        <paragraph>
			                            <reference ids="id2" refid="b">
			                                B
			    <section ids="a" names="a">
			        <title refid="id1">
			            A
			        <section ids="b" names="b">
			            <title refid="id2">
			                B
			`),
	},
	{
		name: "contents with depth",
		src:  "```{contents} Overview\n---\ndepth: 1\n---\n```\n\n# A\n\n## B\n",
		want: dedent(`
			<document source="">
			    <topic classes="contents" ids="overview" names="overview">
			        <title>
			            Overview
			        <bullet_list>
			            <list_item>
			                <paragraph>
			                    <reference ids="id1" refid="a">
			                        A
			    <section ids="a" names="a">
			        <title refid="id1">
			            A
			        <section ids="b" names="b">
			            <title>
			                B
			`),
	},
	{
		name: "empty contents is removed",
		src:  "```{contents}\n```\n\ntext\n",
		want: dedent(`
			<document source="">
			    <paragraph>
			        text
			`),
	},
}

func TestRender_Directives(t *testing.T) {
	r := New()
	for _, tc := range directiveTests {
		t.Run(tc.name, func(t *testing.T) {
			res := mustRender(t, r, tc.src)
			if diff := cmp.Diff(tc.want, res.Doc.String()); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func withDirective(name string, spec directive.Spec, run func(*directive.Context) ([]doctree.Node, error)) Option {
	reg := directive.Default()
	reg.Register(name, directive.New(spec, run))
	return WithDirectives(reg)
}

func TestRender_ArityFailureSkipsRun(t *testing.T) {
	called := false
	r := New(withDirective("pair", directive.Spec{RequiredArguments: 2},
		func(c *directive.Context) ([]doctree.Node, error) {
			called = true
			return nil, nil
		}))
	res := mustRender(t, r, "```{pair} one\n```\n")
	if called {
		t.Errorf("directive ran with too few arguments")
	}
	if got := res.Reporter.MaxLevel(); got != diag.ErrorLevel {
		t.Errorf("max level = %v, want ERROR", got)
	}
}

func TestRender_DirectiveContext(t *testing.T) {
	var got directive.Context
	r := New(withDirective("capture", directive.Spec{
		OptionalArguments: 1, FinalArgumentWhitespace: true, HasContent: true,
		Options: map[string]directive.OptionFunc{"n": directive.PositiveInt},
	}, func(c *directive.Context) ([]doctree.Node, error) {
		got = *c
		got.State = nil
		return nil, nil
	}))
	mustRender(t, r, "para\n\n```{capture} a b\n---\nn: 3\n---\nline 1\nline 2\n```\n")
	want := directive.Context{
		Name:          "capture",
		Arguments:     []string{"a b"},
		Options:       map[string]any{"n": 3},
		Content:       []string{"line 1", "line 2"},
		Line:          3,
		ContentOffset: 6,
		BlockText:     "---\nn: 3\n---\nline 1\nline 2",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRender_DirectiveTabSeparatedArgument(t *testing.T) {
	var got []string
	r := New(withDirective("capture", directive.Spec{OptionalArguments: 1},
		func(c *directive.Context) ([]doctree.Node, error) {
			got = c.Arguments
			return nil, nil
		}))
	res := mustRender(t, r, "```{capture}\targ\n```\n")
	if diff := cmp.Diff([]string{"arg"}, got); diff != "" {
		t.Errorf("Arguments (-want +got):\n%s", diff)
	}
	if n := len(res.Doc.FindAll(doctree.Root, doctree.KindLiteralBlock)); n != 0 {
		t.Errorf("got %d literal blocks, want none", n)
	}
}

func TestRender_ContentsSkipsUntitledSections(t *testing.T) {
	r := New(withDirective("bare", directive.Spec{},
		func(c *directive.Context) ([]doctree.Node, error) {
			return []doctree.Node{c.Document().NewNode(doctree.KindSection)}, nil
		}))
	res := mustRender(t, r, "```{contents}\n```\n\n```{bare}\n```\n")
	if n := len(res.Doc.FindAll(doctree.Root, doctree.KindTopic)); n != 0 {
		t.Errorf("got %d topics, want the empty contents removed", n)
	}
}

func TestRender_DeclinedDirective(t *testing.T) {
	r := New(withDirective("picky", directive.Spec{HasContent: true},
		func(c *directive.Context) ([]doctree.Node, error) {
			return nil, directive.Errorf(diag.Warning, "Not today.")
		}))
	res := mustRender(t, r, "```{picky}\nkeep me\n```\n")
	want := dedent(`
		<document source="">
		    <system_message level="2" line="1" source="" type="WARNING">
		        <paragraph>
		            Not today.
		        <literal_block xml:space="preserve">
		            keep me
		`)
	if diff := cmp.Diff(want, res.Doc.String()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRender_DirectiveFailures(t *testing.T) {
	tests := []struct {
		name     string
		run      func(*directive.Context) ([]doctree.Node, error)
		wantKind diag.Kind
	}{
		{
			name: "root returned",
			run: func(c *directive.Context) ([]doctree.Node, error) {
				return []doctree.Node{doctree.Root}, nil
			},
			wantKind: diag.ContractViolation,
		},
		{
			name: "node returned twice",
			run: func(c *directive.Context) ([]doctree.Node, error) {
				n := c.Document().NewNode(doctree.KindParagraph)
				return []doctree.Node{n, n}, nil
			},
			wantKind: diag.ContractViolation,
		},
		{
			name: "attached node returned",
			run: func(c *directive.Context) ([]doctree.Node, error) {
				d := c.Document()
				parent := d.NewNode(doctree.KindNote)
				child := d.NewNode(doctree.KindParagraph)
				d.Append(parent, child)
				return []doctree.Node{parent, child}, nil
			},
			wantKind: diag.ContractViolation,
		},
		{
			name: "invalid node returned",
			run: func(c *directive.Context) ([]doctree.Node, error) {
				return []doctree.Node{doctree.Nil}, nil
			},
			wantKind: diag.ContractViolation,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := New(withDirective("bad", directive.Spec{}, tc.run))
			_, err := r.RenderString("text\n\n```{bad}\n```\n")
			if !diag.Is(err, tc.wantKind) {
				t.Fatalf("got error %v, want kind %v", err, tc.wantKind)
			}
			var e *diag.Error
			errors.As(err, &e)
			if e.Context == nil || e.Context.Line != 3 {
				t.Errorf("got context %v, want line 3", e.Context)
			}
		})
	}
}

func TestRender_DirectiveOtherError(t *testing.T) {
	boom := errors.New("boom")
	r := New(withDirective("bad", directive.Spec{},
		func(c *directive.Context) ([]doctree.Node, error) { return nil, boom }))
	_, err := r.RenderString("```{bad}\n```\n")
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want error wrapping boom", err)
	}
}

func TestRender_DisabledDirective(t *testing.T) {
	cfg := config.Default()
	cfg.DisabledDirectives = []string{"raw"}
	res := mustRender(t, New(WithConfig(cfg)), "```{raw} html\n<b>x</b>\n```\n")
	want := dedent(`
		<document source="">
		    <system_message level="3" line="1" source="" type="ERROR">
		        <paragraph>
		            Directive "raw" is disabled.
		        <literal_block xml:space="preserve">
		            <b>x</b>
		`)
	if diff := cmp.Diff(want, res.Doc.String()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRender_NestedLineNumbers(t *testing.T) {
	res := mustRender(t, New(), "para\n\n```{note}\nfirst\n\n{bogus}`x`\n```\n")
	d := res.Doc
	var lines []int
	for _, m := range res.Reporter.Messages() {
		line, _ := d.Int(m, "line")
		lines = append(lines, line)
	}
	if diff := cmp.Diff([]int{6, 6}, lines); diff != "" {
		t.Errorf("message lines (-want +got):\n%s", diff)
	}
	note := d.FindAll(doctree.Root, doctree.KindNote)[0]
	if got := d.Kind(d.Children(note)[len(d.Children(note))-1]); got != doctree.KindSystemMessage {
		t.Errorf("last child of note is %v, want system_message", got)
	}
}

func TestRender_SharedReferenceDefinitions(t *testing.T) {
	res := mustRender(t, New(),
		"[r]: https://outer.example/\n\n```{note}\n[a][r] [b][s]\n\n[s]: https://inner.example/\n```\n\n[c][s]\n")
	var got []string
	for _, ref := range res.Doc.FindAll(doctree.Root, doctree.KindReference) {
		got = append(got, res.Doc.Str(ref, "refuri"))
	}
	want := []string{"https://outer.example/", "https://inner.example/"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("refuris (-want +got):\n%s", diff)
	}
}
