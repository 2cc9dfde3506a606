package mdparse

import (
	"regexp"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// transformer converts role syntax into Role tokens first, and then splits
// escape sequences and line breaks out of text tokens.
type transformer struct{}

func (transformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	src := reader.Source()
	convertRoles(doc, src)
	splitTexts(doc, src)
}

var roleNamePattern = regexp.MustCompile(`\{([a-zA-Z0-9][\w.:+-]*)\}$`)

func convertRoles(doc *ast.Document, src []byte) {
	var spans []*ast.CodeSpan
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if span, ok := n.(*ast.CodeSpan); ok && entering {
			spans = append(spans, span)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	for _, span := range spans {
		prev, ok := span.PreviousSibling().(*ast.Text)
		if !ok || prev.IsRaw() || prev.SoftLineBreak() || prev.HardLineBreak() {
			continue
		}
		value := prev.Segment.Value(src)
		m := roleNamePattern.FindSubmatchIndex(value)
		if m == nil || escaped(value, m[0]) {
			continue
		}
		content := CodeSpanContent(span, src)
		role := &Role{
			Name:    string(value[m[2]:m[3]]),
			Content: content,
			RawText: string(value[m[0]:]) + "`" + content + "`",
			Offset:  prev.Segment.Start + m[0],
		}
		parent := span.Parent()
		parent.ReplaceChild(parent, span, role)
		if m[0] == 0 {
			parent.RemoveChild(parent, prev)
		} else {
			prev.Segment = prev.Segment.WithStop(prev.Segment.Start + m[0])
		}
	}
}

// Reports whether the byte at i is preceded by an odd number of backslashes.
func escaped(value []byte, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && value[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

func splitTexts(doc *ast.Document, src []byte) {
	var texts []*ast.Text
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.CodeSpan:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if !n.IsRaw() {
				texts = append(texts, n)
			}
		}
		return ast.WalkContinue, nil
	})
	texts = mergeContiguous(texts)
	for _, t := range texts {
		pieces := splitText(t, src)
		if pieces == nil {
			continue
		}
		parent := t.Parent()
		for _, piece := range pieces {
			parent.InsertBefore(parent, t, piece)
		}
		parent.RemoveChild(parent, t)
	}
}

// Merges text tokens whose segments are adjacent in the source, so that an
// escape sequence is never split across two tokens. Returns the remaining
// tokens.
func mergeContiguous(texts []*ast.Text) []*ast.Text {
	var kept []*ast.Text
	for _, t := range texts {
		next, ok := t.NextSibling().(*ast.Text)
		if ok && !next.IsRaw() && !t.SoftLineBreak() && !t.HardLineBreak() &&
			t.Segment.Stop == next.Segment.Start && t.Segment.Padding == 0 {
			next.Segment = t.Segment.WithStop(next.Segment.Stop)
			t.Parent().RemoveChild(t.Parent(), t)
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

// Splits a text token into text, escape sequence and line break tokens. It
// returns nil when the token needs no splitting.
func splitText(t *ast.Text, src []byte) []ast.Node {
	seg := t.Segment
	value := seg.Value(src)
	var pieces []ast.Node
	start := 0
	flush := func(end int) {
		if end > start {
			pieces = append(pieces, ast.NewTextSegment(
				text.NewSegment(seg.Start+start, seg.Start+end)))
		}
	}
	for i := 0; i < len(value); i++ {
		if value[i] == '\\' && i+1 < len(value) && util.IsPunct(value[i+1]) {
			flush(i)
			pieces = append(pieces, &EscapeSequence{Char: value[i+1]})
			i++
			start = i + 1
		}
	}
	hard, soft := t.HardLineBreak(), t.SoftLineBreak()
	if pieces == nil && !hard && !soft {
		return nil
	}
	flush(len(value))
	if hard || soft {
		pieces = append(pieces, &LineBreak{Soft: !hard})
	}
	return pieces
}
