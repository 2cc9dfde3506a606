package render

import (
	"math"

	"github.com/elves/mdtree/pkg/doctree"
)

// Applies the transforms requested by pending nodes, once the whole
// document is built.
func (s *State) applyTransforms() error {
	d := s.Document()
	for _, p := range d.FindAll(doctree.Root, doctree.KindPending) {
		if !d.Valid(p) {
			continue
		}
		switch d.Str(p, "transform") {
		case "contents":
			s.buildContents(p)
		}
	}
	return nil
}

// Replaces a pending node with a table of contents, or removes the topic
// containing it if there are no sections to list.
func (s *State) buildContents(p doctree.Node) {
	d := s.Document()
	topic := d.Parent(p)
	depth, ok := d.Int(p, "depth")
	if !ok {
		depth = math.MaxInt
	}
	start := doctree.Root
	if d.Bool(p, "local") {
		if sec := d.Ancestor(topic, doctree.KindSection); sec != doctree.Nil {
			start = sec
		}
	}
	backlinks := d.Str(p, "backlinks")
	if backlinks == "" {
		backlinks = "entry"
	}
	toc := contentsBuilder{d, depth, backlinks, topic}
	if list := toc.build(start, 0); list != doctree.Nil {
		d.Replace(p, list)
	} else if d.Parent(topic) != doctree.Nil {
		d.Replace(topic)
	}
}

type contentsBuilder struct {
	d         *doctree.Document
	depth     int
	backlinks string
	topic     doctree.Node
}

// Builds a bullet list of references to the sections that are children of
// n, or returns Nil if there are none.
func (b contentsBuilder) build(n doctree.Node, level int) doctree.Node {
	d := b.d
	level++
	var items []doctree.Node
	for _, sec := range d.Children(n) {
		if d.Kind(sec) != doctree.KindSection {
			continue
		}
		children := d.Children(sec)
		if len(children) == 0 || d.Kind(children[0]) != doctree.KindTitle {
			continue
		}
		title := children[0]
		ref := d.NewNode(doctree.KindReference)
		d.Set(ref, "refid", d.SetID(sec))
		for _, c := range d.Children(title) {
			b.appendFiltered(ref, c)
		}
		refID := d.SetID(ref)
		if len(d.FindAll(title, doctree.KindReference)) == 0 {
			switch b.backlinks {
			case "entry":
				d.Set(title, "refid", refID)
			case "top":
				d.Set(title, "refid", d.SetID(b.topic))
			}
		}
		entry := d.NewNode(doctree.KindParagraph)
		d.Append(entry, ref)
		item := d.NewNode(doctree.KindListItem)
		d.Append(item, entry)
		if level < b.depth {
			if sub := b.build(sec, level); sub != doctree.Nil {
				d.Append(item, sub)
			}
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return doctree.Nil
	}
	list := d.NewNode(doctree.KindBulletList)
	for _, item := range items {
		d.Append(list, item)
	}
	return list
}

// Appends a copy of a title child to a table of contents entry. References
// and problems are replaced by their content, since the entry itself is a
// reference; system messages and targets are dropped.
func (b contentsBuilder) appendFiltered(parent, n doctree.Node) {
	d := b.d
	switch d.Kind(n) {
	case doctree.KindText:
		d.AppendText(parent, d.Text(n))
	case doctree.KindReference, doctree.KindPendingXref, doctree.KindProblematic:
		for _, c := range d.Children(n) {
			b.appendFiltered(parent, c)
		}
	case doctree.KindSystemMessage:
	default:
		d.Append(parent, d.Copy(n, "ids", "names", "refid", "backrefs"))
	}
}
