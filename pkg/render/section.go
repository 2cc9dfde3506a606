package render

import (
	"github.com/yuin/goldmark/ast"

	"github.com/elves/mdtree/pkg/doctree"
)

func renderHeading(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	level := n.(*ast.Heading).Level
	d := s.Document()
	if d.Kind(cur) == doctree.KindSection && s.sectionLevel(cur) == level {
		cur = d.Parent(cur)
	}

	line := s.Line(n)
	section := d.NewNode(doctree.KindSection)
	d.SetLine(section, line)
	title := d.NewNode(doctree.KindTitle)
	d.SetLine(title, line)
	d.Append(section, title)
	s.addSection(section, level)

	if _, err := s.RenderChildren(n, title); err != nil {
		return cur, err
	}
	if name := doctree.FullyNormalizeName(d.AsText(title)); name != "" {
		d.AddToList(section, "names", name)
	}
	d.NoteImplicitTarget(section)
	return section, nil
}

// Returns the level of an open section, or -1 if it is not open.
func (s *State) sectionLevel(section doctree.Node) int {
	for level, n := range s.levels {
		if level > 0 && n == section {
			return level
		}
	}
	return -1
}

// Appends a section to the deepest open section of a lower level, and makes
// it the only open section at its level or deeper.
func (s *State) addSection(section doctree.Node, level int) {
	parentLevel := 0
	for l := range s.levels {
		if l < level && l > parentLevel {
			parentLevel = l
		}
	}
	s.Document().Append(s.levels[parentLevel], section)
	s.levels[level] = section
	for l := range s.levels {
		if l > level {
			delete(s.levels, l)
		}
	}
}
