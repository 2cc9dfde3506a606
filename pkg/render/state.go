package render

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"

	"github.com/elves/mdtree/pkg/config"
	"github.com/elves/mdtree/pkg/diag"
	"github.com/elves/mdtree/pkg/doctree"
	"github.com/elves/mdtree/pkg/mdparse"
)

// State is the state of rendering one token tree. Nested content, like the
// content of directives, is rendered with its own State sharing the document
// with the outer one.
type State struct {
	r    *Renderer
	sh   *shared
	tree *mdparse.Tree
	// Open sections keyed by heading level. Level 0 is the node the render
	// started at.
	levels map[int]doctree.Node
	// Added to line numbers of the tree to get line numbers in the document
	// source.
	lineOffset int
}

// Per-document state shared by all States of a render.
type shared struct {
	doc      *doctree.Document
	reporter *diag.Reporter
	source   []byte
	// Link reference definitions from all trees rendered so far.
	refs      []parser.Reference
	refLabels map[string]bool
	// System messages to append after the block being rendered.
	queue []doctree.Node
}

func (r *Renderer) newState(sh *shared, tree *mdparse.Tree, root doctree.Node, lineOffset int) *State {
	return &State{r: r, sh: sh, tree: tree,
		levels: map[int]doctree.Node{0: root}, lineOffset: lineOffset}
}

// Document returns the document being built.
func (s *State) Document() *doctree.Document { return s.sh.doc }

// Reporter returns the reporter of the document.
func (s *State) Reporter() *diag.Reporter { return s.sh.reporter }

// Config returns the configuration of the renderer.
func (s *State) Config() *config.Config { return s.r.config }

// Source returns the source of the tree being rendered.
func (s *State) Source() []byte { return s.tree.Source }

// Line returns the line of a token in the document source, or 0 if unknown.
func (s *State) Line(n ast.Node) int {
	line := s.tree.Line(n)
	if line == 0 {
		return 0
	}
	return line + s.lineOffset
}

// Render renders a token with the handler for its kind.
func (s *State) Render(n ast.Node, cur doctree.Node) (doctree.Node, error) {
	h, ok := s.r.handlers[n.Kind()]
	if !ok {
		return cur, s.withContext(n, diag.Errorf(diag.Unimplemented,
			"no handler for %s tokens", n.Kind()))
	}
	next, err := h(s, n, cur)
	if err != nil {
		return cur, s.withContext(n, err)
	}
	if n.Type() == ast.TypeBlock {
		s.flushMessages(next)
	}
	return next, nil
}

// RenderChildren renders the children of a token in order, threading the
// insertion point through them, and returns the final insertion point.
func (s *State) RenderChildren(n ast.Node, cur doctree.Node) (doctree.Node, error) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		var err error
		cur, err = s.Render(c, cur)
		if err != nil {
			return cur, err
		}
	}
	return cur, nil
}

// Renders the children of a block container into target, with sections
// opened by headings in the children nested in target.
func (s *State) renderScoped(n ast.Node, target doctree.Node) error {
	saved := s.levels
	s.levels = map[int]doctree.Node{0: target}
	defer func() { s.levels = saved }()
	_, err := s.RenderChildren(n, target)
	return err
}

// Queues a system message to be appended after the block being rendered.
func (s *State) queueMessages(messages ...doctree.Node) {
	s.sh.queue = append(s.sh.queue, messages...)
}

func (s *State) flushMessages(cur doctree.Node) {
	for _, m := range s.sh.queue {
		s.sh.doc.Append(cur, m)
	}
	s.sh.queue = nil
}

func (s *State) addReferences(refs []parser.Reference) {
	if s.sh.refLabels == nil {
		s.sh.refLabels = map[string]bool{}
	}
	for _, ref := range refs {
		label := string(ref.Label())
		if !s.sh.refLabels[label] {
			s.sh.refLabels[label] = true
			s.sh.refs = append(s.sh.refs, ref)
		}
	}
}

func (s *State) withContext(n ast.Node, err error) error {
	if e, ok := err.(*diag.Error); ok && e.Context == nil {
		return e.WithContext(diag.NewContext(
			s.sh.reporter.Source(), string(s.sh.source), s.Line(n)))
	}
	return err
}
