// Package mdparse produces token trees from Markdown text.
//
// Tokenizing is done by goldmark, configured with the GFM table and
// strikethrough extensions and the footnote extension, so that constructs the
// renderer does not support are still recognized as such. On top of the
// goldmark token kinds, the following kinds are produced: [EscapeSequence],
// [LineBreak] and [Role].
package mdparse

import (
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Parser parses Markdown into token trees. It is safe for concurrent use.
type Parser struct {
	md goldmark.Markdown
}

type options struct {
	linkify     bool
	typographer bool
}

// Option configures a Parser.
type Option func(*options)

// WithLinkify enables recognition of bare URLs as autolinks.
func WithLinkify(b bool) Option { return func(o *options) { o.linkify = b } }

// WithTypographer enables replacement of punctuation with typographic
// entities, like "--" with an en dash.
func WithTypographer(b bool) Option { return func(o *options) { o.typographer = b } }

// New creates a new Parser.
func New(opts ...Option) *Parser {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	extensions := []goldmark.Extender{
		extension.Table, extension.Strikethrough, extension.Footnote}
	if o.linkify {
		extensions = append(extensions, extension.Linkify)
	}
	if o.typographer {
		extensions = append(extensions, extension.Typographer)
	}
	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(transformer{}, 100))),
	)
	return &Parser{md}
}

// Tree is a parsed token tree, along with its source.
type Tree struct {
	Root   ast.Node
	Source []byte

	context    parser.Context
	lineStarts []int
}

// Parse parses Markdown source.
func (p *Parser) Parse(src []byte) *Tree {
	return p.ParseWithReferences(src, nil)
}

// ParseWithReferences parses Markdown source, with link reference definitions
// from an enclosing document available to links in the source.
func (p *Parser) ParseWithReferences(src []byte, refs []parser.Reference) *Tree {
	pc := parser.NewContext()
	for _, ref := range refs {
		pc.AddReference(ref)
	}
	root := p.md.Parser().Parse(text.NewReader(src), parser.WithContext(pc))
	return &Tree{Root: root, Source: src, context: pc, lineStarts: lineStarts(src)}
}

// References returns all link reference definitions available in the tree,
// including those the tree was parsed with.
func (t *Tree) References() []parser.Reference {
	return t.context.References()
}

func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' && i+1 < len(src) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// LineAt returns the 1-based line number of a byte offset.
func (t *Tree) LineAt(offset int) int {
	return sort.Search(len(t.lineStarts), func(i int) bool {
		return t.lineStarts[i] > offset
	})
}

// Line returns the 1-based line number where a token starts, or 0 if it
// can't be determined. Tokens without position information of their own
// take it from their first descendant that has one, or failing that, their
// closest ancestor that has one.
func (t *Tree) Line(n ast.Node) int {
	if line := t.lineDown(n); line > 0 {
		return line
	}
	for a := n.Parent(); a != nil; a = a.Parent() {
		if line := t.ownLine(a); line > 0 {
			return line
		}
	}
	return 0
}

func (t *Tree) lineDown(n ast.Node) int {
	if line := t.ownLine(n); line > 0 {
		return line
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if line := t.lineDown(c); line > 0 {
			return line
		}
	}
	return 0
}

func (t *Tree) ownLine(n ast.Node) int {
	switch n := n.(type) {
	case *ast.FencedCodeBlock:
		if n.Info != nil {
			return t.LineAt(n.Info.Segment.Start)
		}
		if n.Lines().Len() > 0 {
			return t.LineAt(n.Lines().At(0).Start) - 1
		}
		return 0
	case *ast.Text:
		return t.LineAt(n.Segment.Start)
	case *Role:
		return t.LineAt(n.Offset)
	}
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		return t.LineAt(n.Lines().At(0).Start)
	}
	return 0
}

// RawContent returns the content of a raw block token, such as a code block
// or an HTML block, with every line terminated by a newline.
func RawContent(n ast.Node, src []byte) string {
	var buf []byte
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf = append(buf, line.Value(src)...)
	}
	if html, ok := n.(*ast.HTMLBlock); ok && html.HasClosure() {
		buf = append(buf, html.ClosureLine.Value(src)...)
	}
	if len(buf) > 0 && buf[len(buf)-1] != '\n' {
		buf = append(buf, '\n')
	}
	return string(buf)
}

// PlainText returns the text content of inline tokens, with escapes and
// entity references resolved and markup dropped.
func PlainText(n ast.Node, src []byte) string {
	var buf []byte
	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Text:
			buf = append(buf, TextValue(n, src)...)
		case *ast.String:
			buf = append(buf, n.Value...)
		case *EscapeSequence:
			buf = append(buf, n.Char)
		case *LineBreak:
			buf = append(buf, '\n')
		case *ast.CodeSpan:
			buf = append(buf, CodeSpanContent(n, src)...)
			return ast.WalkSkipChildren, nil
		case *Role:
			buf = append(buf, n.Content...)
		}
		return ast.WalkContinue, nil
	})
	return string(buf)
}

// TextValue returns the value of a text token, with entity references
// resolved unless the token is raw.
func TextValue(n *ast.Text, src []byte) []byte {
	value := n.Segment.Value(src)
	if n.IsRaw() {
		return value
	}
	return util.ResolveEntityNames(util.ResolveNumericReferences(value))
}

// Unescape resolves backslash escapes and entity references in a string taken
// verbatim from the source, like a link destination.
func Unescape(b []byte) []byte {
	return util.ResolveEntityNames(util.ResolveNumericReferences(
		util.UnescapePunctuations(b)))
}

// CodeSpanContent returns the content of a code span, with line endings
// converted to spaces.
func CodeSpanContent(n *ast.CodeSpan, src []byte) string {
	var buf []byte
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		var value []byte
		switch c := c.(type) {
		case *ast.Text:
			value = c.Segment.Value(src)
		case *ast.String:
			value = c.Value
		}
		if l := len(value); l > 0 && value[l-1] == '\n' {
			buf = append(buf, value[:l-1]...)
			buf = append(buf, ' ')
		} else {
			buf = append(buf, value...)
		}
	}
	return string(buf)
}
