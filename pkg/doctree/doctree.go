// Package doctree implements a generic document tree, modeled after the
// docutils document object model.
//
// All nodes of a tree live in an arena owned by a [Document] and are
// addressed by [Node] handles. A node is created detached and becomes part of
// the tree when it is appended to a parent; once attached, its parent never
// changes. The only exceptions are nodes removed by [Document.Replace], which
// become dead, and children of a scratch fragment, which are handed back
// detached by [Document.Release].
//
// The document also owns the side-table of ids and names used for
// cross-referencing.
package doctree

import (
	"fmt"
	"sort"
)

// Node is a handle of a node in a Document.
type Node int32

// Nil is the invalid Node.
const Nil Node = -1

// Root is the handle of the document node of every Document.
const Root Node = 0

type entry struct {
	kind     Kind
	parent   Node
	children []Node
	attrs    map[string]any
	text     string
	line     int
	dead     bool
}

// Document is a document tree.
type Document struct {
	entries []entry

	ids       map[string]Node
	nameIDs   map[string]string
	explicit  map[string]bool
	idCounter int
}

// New creates a new Document with an empty source.
func New() *Document {
	d := &Document{
		ids:      make(map[string]Node),
		nameIDs:  make(map[string]string),
		explicit: make(map[string]bool),
	}
	d.NewNode(KindDocument)
	d.Set(Root, "source", "")
	return d
}

// NewNode creates a detached element of the given kind.
func (d *Document) NewNode(k Kind) Node {
	n := Node(len(d.entries))
	d.entries = append(d.entries, entry{kind: k, parent: Nil})
	if k.preservesSpace() {
		d.Set(n, "xml:space", "preserve")
	}
	return n
}

// NewText creates a detached text node.
func (d *Document) NewText(s string) Node {
	n := d.NewNode(KindText)
	d.entries[n].text = s
	return n
}

// NewTextElement creates a detached element of the given kind with a single
// text child.
func (d *Document) NewTextElement(k Kind, text string) Node {
	n := d.NewNode(k)
	d.Append(n, d.NewText(text))
	return n
}

// Fragment creates a detached scratch container. Its children can be
// retrieved detached with Release.
func (d *Document) Fragment() Node { return d.NewNode(kindFragment) }

// Release detaches and returns all children of a fragment created with
// Fragment. The fragment becomes dead.
func (d *Document) Release(fragment Node) []Node {
	e := d.mustLive(fragment)
	if e.kind != kindFragment {
		panic(fmt.Sprintf("doctree: Release called on %v", e.kind))
	}
	children := e.children
	for _, c := range children {
		d.entries[c].parent = Nil
	}
	e.children = nil
	e.dead = true
	return children
}

// Valid reports whether n is a live node of the document.
func (d *Document) Valid(n Node) bool {
	return n >= 0 && int(n) < len(d.entries) && !d.entries[n].dead
}

// Detached reports whether n is a live node without a parent, other than the
// root. Only detached nodes can be appended.
func (d *Document) Detached(n Node) bool {
	return d.Valid(n) && n != Root && d.entries[n].parent == Nil &&
		d.entries[n].kind != kindFragment
}

func (d *Document) mustLive(n Node) *entry {
	if !d.Valid(n) {
		panic(fmt.Sprintf("doctree: invalid node %d", n))
	}
	return &d.entries[n]
}

// Append appends a detached child to parent. It panics if the child is not
// detached, if parent is a text node, or if the append would create a cycle.
func (d *Document) Append(parent, child Node) {
	p := d.mustLive(parent)
	if p.kind == KindText {
		panic("doctree: text nodes cannot have children")
	}
	if !d.Detached(child) {
		panic(fmt.Sprintf("doctree: appending node %d which is not detached", child))
	}
	for a := parent; a != Nil; a = d.entries[a].parent {
		if a == child {
			panic("doctree: append would create a cycle")
		}
	}
	d.entries[child].parent = parent
	p.children = append(p.children, child)
}

// AppendText appends text to parent. If the last child of parent is a text
// node, the text is added to it instead of creating a new node.
func (d *Document) AppendText(parent Node, s string) {
	if s == "" {
		return
	}
	if children := d.Children(parent); len(children) > 0 {
		if last := &d.entries[children[len(children)-1]]; last.kind == KindText {
			last.text += s
			return
		}
	}
	d.Append(parent, d.NewText(s))
}

// Copy returns a detached deep copy of a subtree. Attributes named in omit
// are not copied.
func (d *Document) Copy(n Node, omit ...string) Node {
	e := d.mustLive(n)
	var c Node
	if e.kind == KindText {
		c = d.NewText(e.text)
	} else {
		c = d.NewNode(e.kind)
	}
	for _, k := range d.Keys(n) {
		if contains(omit, k) {
			continue
		}
		v := d.entries[n].attrs[k]
		if list, ok := v.([]string); ok {
			v = append([]string(nil), list...)
		}
		d.Set(c, k, v)
	}
	d.entries[c].line = d.entries[n].line
	for _, child := range d.entries[n].children {
		d.Append(c, d.Copy(child, omit...))
	}
	return c
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// Replace removes old from its parent and puts the detached nodes in news in
// its place, preserving order. The old node becomes dead.
func (d *Document) Replace(old Node, news ...Node) {
	e := d.mustLive(old)
	parent := e.parent
	if parent == Nil {
		panic("doctree: replacing a node without a parent")
	}
	for _, n := range news {
		if !d.Detached(n) {
			panic(fmt.Sprintf("doctree: replacement node %d is not detached", n))
		}
	}
	p := &d.entries[parent]
	i := d.indexIn(p.children, old)
	children := make([]Node, 0, len(p.children)-1+len(news))
	children = append(children, p.children[:i]...)
	children = append(children, news...)
	children = append(children, p.children[i+1:]...)
	p.children = children
	for _, n := range news {
		d.entries[n].parent = parent
	}
	e.parent = Nil
	e.dead = true
}

func (d *Document) indexIn(children []Node, n Node) int {
	for i, c := range children {
		if c == n {
			return i
		}
	}
	panic(fmt.Sprintf("doctree: node %d not found in its parent", n))
}

// Kind returns the kind of a node.
func (d *Document) Kind(n Node) Kind { return d.mustLive(n).kind }

// Parent returns the parent of a node, or Nil if it doesn't have one.
func (d *Document) Parent(n Node) Node { return d.mustLive(n).parent }

// Children returns the children of a node. The returned slice must not be
// modified.
func (d *Document) Children(n Node) []Node { return d.mustLive(n).children }

// Text returns the content of a text node.
func (d *Document) Text(n Node) string { return d.mustLive(n).text }

// Line returns the source line of a node, or 0 if unknown.
func (d *Document) Line(n Node) int { return d.mustLive(n).line }

// SetLine sets the source line of a node.
func (d *Document) SetLine(n Node, line int) { d.mustLive(n).line = line }

// Set sets an attribute. The value should be a string, an int, a bool or a
// []string.
func (d *Document) Set(n Node, key string, value any) {
	e := d.mustLive(n)
	if e.attrs == nil {
		e.attrs = make(map[string]any)
	}
	e.attrs[key] = value
}

// Get returns an attribute.
func (d *Document) Get(n Node, key string) (any, bool) {
	v, ok := d.mustLive(n).attrs[key]
	return v, ok
}

// Str returns a string attribute, or "" if it is not set or not a string.
func (d *Document) Str(n Node, key string) string {
	s, _ := d.mustLive(n).attrs[key].(string)
	return s
}

// Bool returns a bool attribute, or false if it is not set or not a bool.
func (d *Document) Bool(n Node, key string) bool {
	b, _ := d.mustLive(n).attrs[key].(bool)
	return b
}

// Int returns an int attribute and whether it is set.
func (d *Document) Int(n Node, key string) (int, bool) {
	i, ok := d.mustLive(n).attrs[key].(int)
	return i, ok
}

// AddToList appends values to a list attribute, such as "ids", "names",
// "classes" or "backrefs".
func (d *Document) AddToList(n Node, key string, values ...string) {
	e := d.mustLive(n)
	list, _ := e.attrs[key].([]string)
	d.Set(n, key, append(list, values...))
}

// List returns a list attribute.
func (d *Document) List(n Node, key string) []string {
	list, _ := d.mustLive(n).attrs[key].([]string)
	return list
}

// Keys returns the names of all attributes of a node, sorted.
func (d *Document) Keys(n Node) []string {
	e := d.mustLive(n)
	keys := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Walk calls f for n and its descendants in pre-order. When f returns false,
// the children of the node are skipped.
func (d *Document) Walk(n Node, f func(Node) bool) {
	if !f(n) {
		return
	}
	for _, c := range d.Children(n) {
		d.Walk(c, f)
	}
}

// FindAll returns all nodes of the given kind in the subtree of n, in
// pre-order.
func (d *Document) FindAll(n Node, k Kind) []Node {
	var found []Node
	d.Walk(n, func(m Node) bool {
		if d.Kind(m) == k {
			found = append(found, m)
		}
		return true
	})
	return found
}

// Ancestor returns the closest proper ancestor of n with the given kind, or
// Nil if there is none.
func (d *Document) Ancestor(n Node, k Kind) Node {
	for a := d.Parent(n); a != Nil; a = d.Parent(a) {
		if d.Kind(a) == k {
			return a
		}
	}
	return Nil
}
