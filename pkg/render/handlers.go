package render

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/elves/mdtree/pkg/diag"
	"github.com/elves/mdtree/pkg/doctree"
	"github.com/elves/mdtree/pkg/mdparse"
)

func defaultHandlers() map[ast.NodeKind]Handler {
	return map[ast.NodeKind]Handler{
		ast.KindDocument:        renderDocument,
		ast.KindParagraph:       renderParagraph,
		ast.KindTextBlock:       renderParagraph,
		ast.KindHeading:         renderHeading,
		ast.KindBlockquote:      renderBlockquote,
		ast.KindThematicBreak:   renderThematicBreak,
		ast.KindFencedCodeBlock: renderFencedCodeBlock,
		ast.KindCodeBlock:       renderCodeBlock,
		ast.KindHTMLBlock:       renderHTMLBlock,
		ast.KindList:            renderList,
		ast.KindListItem:        renderListItem,

		ast.KindText:               renderText,
		ast.KindString:             renderString,
		mdparse.KindEscapeSequence: renderEscapeSequence,
		mdparse.KindLineBreak:      renderLineBreak,
		ast.KindEmphasis:           renderEmphasis,
		ast.KindCodeSpan:           renderCodeSpan,
		ast.KindRawHTML:            renderRawHTML,
		ast.KindLink:               renderLink,
		ast.KindImage:              renderImage,
		mdparse.KindRole:           renderRole,

		ast.KindAutoLink:          unsupported,
		east.KindTable:            unsupported,
		east.KindTableHeader:      unsupported,
		east.KindTableRow:         unsupported,
		east.KindTableCell:        unsupported,
		east.KindStrikethrough:    unsupported,
		east.KindFootnote:         unsupported,
		east.KindFootnoteLink:     unsupported,
		east.KindFootnoteBacklink: unsupported,
		east.KindFootnoteList:     unsupported,
		east.KindTaskCheckBox:     unsupported,
	}
}

func unsupported(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	return cur, diag.Errorf(diag.Unimplemented, "%s tokens are not supported", n.Kind())
}

// Creates a node for a block token and appends it to cur.
func (s *State) appendBlock(n ast.Node, cur doctree.Node, k doctree.Kind) doctree.Node {
	d := s.Document()
	node := d.NewNode(k)
	d.SetLine(node, s.Line(n))
	d.Append(cur, node)
	return node
}

func renderDocument(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	s.addReferences(s.tree.References())
	_, err := s.RenderChildren(n, cur)
	return cur, err
}

func renderParagraph(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	// Left behind once its link reference definitions have been consumed.
	if n.Lines().Len() == 0 {
		return cur, nil
	}
	_, err := s.RenderChildren(n, s.appendBlock(n, cur, doctree.KindParagraph))
	return cur, err
}

func renderBlockquote(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	return cur, s.renderScoped(n, s.appendBlock(n, cur, doctree.KindBlockQuote))
}

func renderThematicBreak(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	s.appendBlock(n, cur, doctree.KindTransition)
	return cur, nil
}

// Returns the content of a raw block, without the final newline.
func (s *State) rawContent(n ast.Node) string {
	return strings.TrimSuffix(mdparse.RawContent(n, s.Source()), "\n")
}

func (s *State) appendLiteralBlock(n ast.Node, cur doctree.Node, language string) {
	d := s.Document()
	node := d.NewTextElement(doctree.KindLiteralBlock, s.rawContent(n))
	d.Set(node, "language", language)
	d.SetLine(node, s.Line(n))
	d.Append(cur, node)
}

func renderFencedCodeBlock(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	fc := n.(*ast.FencedCodeBlock)
	var info string
	if fc.Info != nil {
		info = string(fc.Info.Segment.Value(s.Source()))
	}
	language := ""
	if fields := strings.Fields(info); len(fields) > 0 {
		language = fields[0]
	}
	if name, ok := directiveName(language); ok {
		argText := strings.TrimSpace(info[strings.Index(info, language)+len(language):])
		return cur, s.renderDirective(fc, name, argText, cur)
	}
	s.appendLiteralBlock(n, cur, language)
	return cur, nil
}

func renderCodeBlock(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	s.appendLiteralBlock(n, cur, "")
	return cur, nil
}

func renderHTMLBlock(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	d := s.Document()
	node := d.NewTextElement(doctree.KindRaw, s.rawContent(n))
	d.Set(node, "format", "html")
	d.SetLine(node, s.Line(n))
	d.Append(cur, node)
	return cur, nil
}

func renderList(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	l := n.(*ast.List)
	d := s.Document()
	var node doctree.Node
	if l.IsOrdered() {
		node = s.appendBlock(n, cur, doctree.KindEnumeratedList)
		d.Set(node, "enumtype", "arabic")
		d.Set(node, "prefix", "")
		d.Set(node, "suffix", string(l.Marker))
		if l.Start != 1 {
			d.Set(node, "start", l.Start)
		}
	} else {
		node = s.appendBlock(n, cur, doctree.KindBulletList)
		d.Set(node, "bullet", string(l.Marker))
	}
	_, err := s.RenderChildren(n, node)
	return cur, err
}

func renderListItem(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	return cur, s.renderScoped(n, s.appendBlock(n, cur, doctree.KindListItem))
}

func renderText(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	s.Document().AppendText(cur, string(mdparse.TextValue(n.(*ast.Text), s.Source())))
	return cur, nil
}

func renderString(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	str := n.(*ast.String)
	value := str.Value
	if !str.IsCode() {
		value = mdparse.Unescape(value)
	}
	s.Document().AppendText(cur, string(value))
	return cur, nil
}

func renderEscapeSequence(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	s.Document().AppendText(cur, string(n.(*mdparse.EscapeSequence).Char))
	return cur, nil
}

func renderLineBreak(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	d := s.Document()
	if n.(*mdparse.LineBreak).Soft {
		d.AppendText(cur, "\n")
		return cur, nil
	}
	br := d.NewTextElement(doctree.KindRaw, "<br />")
	d.Set(br, "format", "html")
	d.Append(cur, br)
	return cur, nil
}

func renderEmphasis(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	d := s.Document()
	k := doctree.KindEmphasis
	if n.(*ast.Emphasis).Level >= 2 {
		k = doctree.KindStrong
	}
	node := d.NewNode(k)
	d.Append(cur, node)
	_, err := s.RenderChildren(n, node)
	return cur, err
}

func renderCodeSpan(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	d := s.Document()
	content := mdparse.CodeSpanContent(n.(*ast.CodeSpan), s.Source())
	d.Append(cur, d.NewTextElement(doctree.KindLiteral, content))
	return cur, nil
}

func renderRawHTML(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	d := s.Document()
	segs := n.(*ast.RawHTML).Segments
	var sb strings.Builder
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		sb.Write(seg.Value(s.Source()))
	}
	node := d.NewTextElement(doctree.KindRaw, sb.String())
	d.Set(node, "format", "html")
	d.Append(cur, node)
	return cur, nil
}

func renderImage(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	img := n.(*ast.Image)
	d := s.Document()
	node := d.NewNode(doctree.KindImage)
	d.Set(node, "uri", string(mdparse.Unescape(img.Destination)))
	d.Set(node, "alt", mdparse.PlainText(img, s.Source()))
	d.Append(cur, node)
	return cur, nil
}
