package render

import (
	"net/url"

	"github.com/yuin/goldmark/ast"

	"github.com/elves/mdtree/pkg/doctree"
	"github.com/elves/mdtree/pkg/mdparse"
)

func renderLink(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	link := n.(*ast.Link)
	d := s.Document()
	dest := string(mdparse.Unescape(link.Destination))
	title := string(mdparse.Unescape(link.Title))

	ref := d.NewNode(doctree.KindReference)
	d.Set(ref, "refuri", dest)
	if title != "" {
		d.Set(ref, "title", title)
	}
	if s.isCrossReference(dest) {
		xref := d.NewNode(doctree.KindPendingXref)
		d.Set(xref, "refdomain", "")
		d.Set(xref, "refexplicit", true)
		d.Set(xref, "reftarget", unquote(dest))
		d.Set(xref, "reftype", "any")
		d.Set(xref, "refwarn", true)
		if title != "" {
			d.Set(xref, "title", title)
		}
		d.SetLine(xref, s.Line(n))
		d.Append(cur, xref)
		d.Append(xref, ref)
	} else {
		d.Append(cur, ref)
	}
	_, err := s.RenderChildren(n, ref)
	return cur, err
}

// Reports whether a link destination is left for resolution against a
// document index. This is the case when it has no fragment, and either has
// no scheme or, when known URL schemes are configured, has a scheme that is
// not known.
func (s *State) isCrossReference(dest string) bool {
	var scheme, fragment string
	if u, err := url.Parse(dest); err == nil {
		scheme, fragment = u.Scheme, u.Fragment
	}
	if fragment != "" {
		return false
	}
	if len(s.r.config.KnownURLSchemes) > 0 {
		return !s.r.config.SchemeKnown(scheme)
	}
	return scheme == ""
}

func unquote(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}
