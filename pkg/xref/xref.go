// Package xref resolves pending cross-references between documents.
//
// Targets are collected from rendered documents with [Collect] and stored in
// an [Index]. [Resolve] then turns pending_xref nodes of a document whose
// target names a known document or section into ordinary references.
package xref

import (
	"path"
	"strings"

	"github.com/elves/mdtree/pkg/doctree"
	"github.com/elves/mdtree/pkg/logutil"
)

var logger = logutil.GetLogger("xref")

// Target is something a cross-reference can point to: a whole document when
// ID is empty, or a section of it.
type Target struct {
	Docname string `json:"docname"`
	Name    string `json:"name"`
	ID      string `json:"id,omitempty"`
	Title   string `json:"title,omitempty"`
}

// URI returns the URI of the target as seen from the given document.
func (t Target) URI(from string) string {
	switch {
	case t.ID == "":
		return t.Docname
	case t.Docname == from:
		return "#" + t.ID
	default:
		return t.Docname + "#" + t.ID
	}
}

// Collect returns the targets of a document: the document itself, named
// after docname and titled after its first section, followed by every name
// of every section. A section name equal to the document name is left out,
// so that the name keeps referring to the whole document.
func Collect(doc *doctree.Document, docname string) []Target {
	docTarget := Target{Docname: docname, Name: Key(docname)}
	var targets []Target
	for _, sec := range doc.FindAll(doctree.Root, doctree.KindSection) {
		title := ""
		if children := doc.Children(sec); len(children) > 0 && doc.Kind(children[0]) == doctree.KindTitle {
			title = doc.AsText(children[0])
		}
		if docTarget.Title == "" {
			docTarget.Title = title
		}
		ids := doc.List(sec, "ids")
		if len(ids) == 0 {
			continue
		}
		for _, name := range doc.List(sec, "names") {
			if name == docTarget.Name {
				continue
			}
			targets = append(targets, Target{
				Docname: docname, Name: name, ID: ids[0], Title: title})
		}
	}
	return append([]Target{docTarget}, targets...)
}

var sourceExts = map[string]bool{".md": true, ".markdown": true}

// Key normalizes a cross-reference target for lookup: a leading "./" and a
// Markdown file extension are removed, and the rest is normalized like a
// node name.
func Key(target string) string {
	target = strings.TrimPrefix(target, "./")
	if ext := path.Ext(target); sourceExts[strings.ToLower(ext)] {
		target = strings.TrimSuffix(target, ext)
	}
	return doctree.FullyNormalizeName(target)
}

// Resolve resolves the pending cross-references of a document. Names of the
// document itself take precedence over the index, which may be nil. Each
// resolved pending_xref gets "refdoc" and "resolved" attributes, and the
// refuri of the reference it wraps is rewritten. Unresolved ones are left
// alone. It returns the number of cross-references resolved.
func Resolve(doc *doctree.Document, docname string, idx Index) (int, error) {
	resolved := 0
	for _, x := range doc.FindAll(doctree.Root, doctree.KindPendingXref) {
		if doc.Str(x, "reftype") != "any" || doc.Bool(x, "resolved") {
			continue
		}
		key := Key(doc.Str(x, "reftarget"))
		var target Target
		if key == Key(docname) {
			target = Target{Docname: docname, Name: key}
		} else if id, ok := doc.NameID(key); ok {
			target = Target{Docname: docname, Name: key, ID: id}
		} else if idx != nil {
			t, ok, err := idx.Lookup(key)
			if err != nil {
				return resolved, err
			}
			if !ok {
				continue
			}
			target = t
		} else {
			continue
		}
		doc.Set(x, "refdoc", target.Docname)
		doc.Set(x, "resolved", true)
		for _, c := range doc.Children(x) {
			if doc.Kind(c) == doctree.KindReference {
				doc.Set(c, "refuri", target.URI(docname))
			}
		}
		logger.Debug().Str("target", key).Str("uri", target.URI(docname)).Msg("resolved")
		resolved++
	}
	return resolved, nil
}
