package doctree

import (
	"io"
	"strings"

	"github.com/beevik/etree"
)

const docutilsDoctype = `DOCTYPE document PUBLIC "+//IDN docutils.sourceforge.net//DTD Docutils Generic//EN//XML" "http://docutils.sourceforge.net/docs/ref/docutils.dtd"`

// WriteXML writes a subtree in the docutils generic XML format.
func (d *Document) WriteXML(w io.Writer, n Node) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	doc.CreateDirective(docutilsDoctype)
	d.buildXML(&doc.Element, n)
	_, err := doc.WriteTo(w)
	return err
}

// XMLString returns the docutils generic XML form of a subtree.
func (d *Document) XMLString(n Node) (string, error) {
	var sb strings.Builder
	err := d.WriteXML(&sb, n)
	return sb.String(), err
}

func (d *Document) buildXML(parent *etree.Element, n Node) {
	if d.Kind(n) == KindText {
		parent.CreateText(d.Text(n))
		return
	}
	el := parent.CreateElement(d.Kind(n).String())
	for _, k := range d.Keys(n) {
		v, _ := d.Get(n, k)
		if list, ok := v.([]string); ok && len(list) == 0 {
			continue
		}
		el.CreateAttr(k, FormatValue(v))
	}
	for _, c := range d.Children(n) {
		d.buildXML(el, c)
	}
}
