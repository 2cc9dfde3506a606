package mdparse

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// Trace returns a textual dump of the token tree, one newline-terminated
// token per line, indented by depth. Tokens with text content show it after
// the kind, and raw blocks show their lines below.
func Trace(t *Tree) string {
	var sb strings.Builder
	var depth int
	_ = ast.Walk(t.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			depth--
			return ast.WalkContinue, nil
		}
		indent := strings.Repeat("  ", depth)
		depth++
		sb.WriteString(indent)
		sb.WriteString(n.Kind().String())
		if line := t.Line(n); line > 0 && n.Type() == ast.TypeBlock {
			fmt.Fprintf(&sb, " Line=%d", line)
		}
		traceAttrs(&sb, n, t.Source)
		sb.WriteByte('\n')
		if n.Type() == ast.TypeBlock && isRawBlock(n) {
			for _, line := range strings.SplitAfter(RawContent(n, t.Source), "\n") {
				if line != "" {
					fmt.Fprintf(&sb, "%s  | %s\n", indent, strings.TrimSuffix(line, "\n"))
				}
			}
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

func traceAttrs(sb *strings.Builder, n ast.Node, src []byte) {
	switch n := n.(type) {
	case *ast.Heading:
		fmt.Fprintf(sb, " Level=%d", n.Level)
	case *ast.Emphasis:
		fmt.Fprintf(sb, " Level=%d", n.Level)
	case *ast.Link:
		fmt.Fprintf(sb, " Dest=%q", n.Destination)
		if len(n.Title) > 0 {
			fmt.Fprintf(sb, " Title=%q", n.Title)
		}
	case *ast.Image:
		fmt.Fprintf(sb, " Dest=%q", n.Destination)
	case *ast.List:
		if n.IsOrdered() {
			fmt.Fprintf(sb, " Start=%d", n.Start)
		}
		fmt.Fprintf(sb, " Marker=%q", n.Marker)
	case *ast.FencedCodeBlock:
		if n.Info != nil {
			fmt.Fprintf(sb, " Info=%q", n.Info.Segment.Value(src))
		}
	case *ast.Text:
		fmt.Fprintf(sb, " Text=%q", n.Segment.Value(src))
	case *ast.String:
		fmt.Fprintf(sb, " Text=%q", n.Value)
	case *ast.RawHTML:
		var raw []byte
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			raw = append(raw, seg.Value(src)...)
		}
		fmt.Fprintf(sb, " Text=%q", raw)
	case *EscapeSequence:
		fmt.Fprintf(sb, " Char=%q", n.Char)
	case *LineBreak:
		if n.Soft {
			sb.WriteString(" Soft")
		}
	case *Role:
		fmt.Fprintf(sb, " Name=%q Content=%q", n.Name, n.Content)
	case *east.TableCell:
		fmt.Fprintf(sb, " Alignment=%s", n.Alignment)
	}
}

func isRawBlock(n ast.Node) bool {
	switch n.(type) {
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		return true
	}
	return false
}
