package doctree

import (
	"fmt"
	"strconv"
	"strings"
)

// AsText returns the text content of a node. Children of text elements are
// concatenated directly; children of other elements are separated by a blank
// line.
func (d *Document) AsText(n Node) string {
	e := d.mustLive(n)
	if e.kind == KindText {
		return e.text
	}
	sep := "\n\n"
	if e.kind.IsTextElement() {
		sep = ""
	}
	parts := make([]string, len(e.children))
	for i, c := range e.children {
		parts[i] = d.AsText(c)
	}
	return strings.Join(parts, sep)
}

// String returns the pseudo-XML form of the whole document.
func (d *Document) String() string { return d.PFormat(Root) }

// PFormat returns the pseudo-XML form of a subtree, in the same format as
// the pformat method of docutils nodes.
func (d *Document) PFormat(n Node) string {
	var sb strings.Builder
	d.pformat(&sb, n, 0)
	return sb.String()
}

const pformatIndent = "    "

func (d *Document) pformat(sb *strings.Builder, n Node, level int) {
	indent := strings.Repeat(pformatIndent, level)
	e := d.mustLive(n)
	if e.kind == KindText {
		for _, line := range splitLines(e.text) {
			sb.WriteString(indent)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
		return
	}
	sb.WriteString(indent)
	sb.WriteString(d.StartTag(n))
	sb.WriteByte('\n')
	for _, c := range e.children {
		d.pformat(sb, c, level+1)
	}
}

// StartTag returns the pseudo-XML start tag of an element, with attributes
// sorted by name. Empty list attributes are omitted.
func (d *Document) StartTag(n Node) string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(d.Kind(n).String())
	for _, k := range d.Keys(n) {
		v, _ := d.Get(n, k)
		if list, ok := v.([]string); ok && len(list) == 0 {
			continue
		}
		fmt.Fprintf(&sb, ` %s="%s"`, k, FormatValue(v))
	}
	sb.WriteByte('>')
	return sb.String()
}

// FormatValue formats an attribute value the way docutils does: lists are
// joined with spaces and booleans are written as True or False.
func FormatValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, " ")
	case bool:
		if v {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

// Splits like Python's str.splitlines for \n-terminated text: a trailing
// newline does not start a new line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
