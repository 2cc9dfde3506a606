// Package role defines the interface between the renderer and interpreted
// text roles, written as {name}`text`, along with a registry and the
// built-in roles.
package role

import (
	"fmt"
	"regexp"

	"github.com/elves/mdtree/pkg/diag"
	"github.com/elves/mdtree/pkg/doctree"
)

// Role is implemented by interpreted text roles.
type Role interface {
	// Run returns detached inline nodes to insert in place of the role and
	// system messages to report after the enclosing block. A returned *Error
	// is reported as a problem; other errors abort the render.
	Run(c *Context) (nodes, messages []doctree.Node, err error)
}

// Func adapts a function to a Role.
type Func func(c *Context) (nodes, messages []doctree.Node, err error)

// Run implements Role.
func (f Func) Run(c *Context) ([]doctree.Node, []doctree.Node, error) { return f(c) }

// Context holds a single invocation of a role.
type Context struct {
	// Name as written in the source.
	Name string
	// The whole role as written in the source.
	RawText string
	// The text between the backquotes.
	Text     string
	Line     int
	Doc      *doctree.Document
	Reporter *diag.Reporter
}

// Error is returned by a role that can't handle its text.
type Error struct {
	Level   diag.Level
	Message string
}

// Errorf creates an *Error.
func Errorf(level diag.Level, format string, args ...any) *Error {
	return &Error{level, fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string { return e.Message }

// Generic returns a role that wraps its text in an element of the given kind.
func Generic(kind doctree.Kind, classes ...string) Role {
	return Func(func(c *Context) ([]doctree.Node, []doctree.Node, error) {
		n := c.Doc.NewTextElement(kind, c.Text)
		if len(classes) > 0 {
			c.Doc.AddToList(n, "classes", classes...)
		}
		return []doctree.Node{n}, nil, nil
	})
}

var abbrPattern = regexp.MustCompile(`(?s)^(.+?)\s*\((.*)\)$`)

// The "abbreviation" role takes text of the form "CSS (Cascading Style
// Sheets)"; the parenthesized part becomes the explanation.
var abbreviation = Func(func(c *Context) ([]doctree.Node, []doctree.Node, error) {
	m := abbrPattern.FindStringSubmatch(c.Text)
	if m == nil {
		return []doctree.Node{c.Doc.NewTextElement(doctree.KindAbbreviation, c.Text)}, nil, nil
	}
	n := c.Doc.NewTextElement(doctree.KindAbbreviation, m[1])
	c.Doc.Set(n, "explanation", m[2])
	return []doctree.Node{n}, nil, nil
})

// Default returns a registry with all the built-in roles.
func Default() *Registry {
	r := NewRegistry()
	r.Register("emphasis", Generic(doctree.KindEmphasis))
	r.Register("strong", Generic(doctree.KindStrong))
	r.Register("literal", Generic(doctree.KindLiteral))
	r.Register("code", Generic(doctree.KindLiteral, "code"))
	r.Register("subscript", Generic(doctree.KindSubscript))
	r.Register("superscript", Generic(doctree.KindSuperscript))
	r.Register("math", Generic(doctree.KindMath))
	r.Register("abbreviation", abbreviation)
	r.Register("title-reference", Generic(doctree.KindTitleReference))
	return r
}
