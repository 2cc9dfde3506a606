package doctree

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FullyNormalizeName lower-cases a name and collapses all whitespace runs to
// single spaces.
func FullyNormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

var (
	nonIDChars  = regexp.MustCompile(`[^a-z0-9]+`)
	nonIDAtEnds = regexp.MustCompile(`^[-0-9]+|-+$`)

	// Characters that don't decompose into ASCII under NFKD.
	idDigraphs = strings.NewReplacer(
		"ß", "sz", "æ", "ae", "œ", "oe", "ĳ", "ij", "ð", "d", "đ", "d",
		"ħ", "h", "ı", "i", "ł", "l", "ø", "o", "þ", "th")
)

// MakeID converts a string to a valid identifier: lower-case ASCII letters,
// digits and hyphens, starting with a letter. The result may be empty.
func MakeID(s string) string {
	id := idDigraphs.Replace(strings.ToLower(s))
	id = strings.Map(func(r rune) rune {
		if r >= 0x80 {
			return -1
		}
		return r
	}, norm.NFKD.String(id))
	id = nonIDChars.ReplaceAllString(strings.Join(strings.Fields(id), " "), "-")
	return nonIDAtEnds.ReplaceAllString(id, "")
}

// SetID gives a node an id unless it already has one, and returns the first
// id of the node. The id is derived from the first name of the node that
// yields an unused id; failing that, an automatic id ("id1", "id2", ...) is
// used.
func (d *Document) SetID(n Node) string {
	if ids := d.List(n, "ids"); len(ids) > 0 {
		for _, id := range ids {
			if _, ok := d.ids[id]; !ok {
				d.ids[id] = n
			}
		}
		return ids[0]
	}
	id := ""
	for _, name := range d.List(n, "names") {
		candidate := MakeID(name)
		if _, taken := d.ids[candidate]; candidate != "" && !taken {
			id = candidate
			break
		}
	}
	for id == "" {
		d.idCounter++
		candidate := "id" + strconv.Itoa(d.idCounter)
		if _, taken := d.ids[candidate]; !taken {
			id = candidate
		}
	}
	d.AddToList(n, "ids", id)
	d.ids[id] = n
	return id
}

// NoteImplicitTarget registers the names of a node as implicit targets, such
// as the names of sections derived from their titles. Names that are already
// registered keep their existing target.
func (d *Document) NoteImplicitTarget(n Node) string {
	id := d.SetID(n)
	for _, name := range d.List(n, "names") {
		if _, ok := d.nameIDs[name]; !ok {
			d.nameIDs[name] = id
			d.explicit[name] = false
		}
	}
	return id
}

// NoteExplicitTarget registers the names of a node as explicit targets, such
// as names given with a "name" directive option. An explicit target takes
// over a name registered as an implicit target.
func (d *Document) NoteExplicitTarget(n Node) string {
	id := d.SetID(n)
	for _, name := range d.List(n, "names") {
		if _, ok := d.nameIDs[name]; !ok || !d.explicit[name] {
			d.nameIDs[name] = id
			d.explicit[name] = true
		}
	}
	return id
}

// NameID returns the id registered for a name.
func (d *Document) NameID(name string) (string, bool) {
	id, ok := d.nameIDs[name]
	return id, ok
}

// NodeByID returns the node with the given id, or Nil.
func (d *Document) NodeByID(id string) Node {
	if n, ok := d.ids[id]; ok && d.Valid(n) {
		return n
	}
	return Nil
}
