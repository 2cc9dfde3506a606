// Package directive defines the interface between the renderer and directive
// implementations, along with a registry and the built-in directives.
//
// A directive is invoked from a fenced code block whose info string starts
// with the directive name enclosed in braces. The rest of the info string
// holds the arguments, and the content may start with a front-matter block of
// options:
//
//	```{admonition} A title
//	---
//	class: tip
//	---
//	Content, parsed as Markdown.
//	```
package directive

import (
	"fmt"
	"strings"

	"github.com/elves/mdtree/pkg/diag"
	"github.com/elves/mdtree/pkg/doctree"
)

// Directive is implemented by directives.
type Directive interface {
	// Spec declares the arguments, options and content that the directive
	// accepts. Invocations not conforming to it are reported without calling
	// Run.
	Spec() Spec
	// Run builds the output of the directive, which must be a list of
	// distinct detached nodes of the document. A returned *Error is reported
	// in the document; other errors abort the render.
	Run(c *Context) ([]doctree.Node, error)
}

// New returns a Directive with the given spec and implementation.
func New(spec Spec, run func(*Context) ([]doctree.Node, error)) Directive {
	return funcDirective{spec, run}
}

type funcDirective struct {
	spec Spec
	run  func(*Context) ([]doctree.Node, error)
}

func (d funcDirective) Spec() Spec { return d.spec }

func (d funcDirective) Run(c *Context) ([]doctree.Node, error) { return d.run(c) }

// State is the part of the renderer available to a running directive.
type State interface {
	// NestedParse renders Markdown text into target, which becomes the
	// insertion point of a fresh render sharing the document. Line numbers
	// in the text are shifted by offset.
	NestedParse(text string, offset int, target doctree.Node) error
	// InlineText renders text as inline content and returns the detached
	// inline nodes, along with any system messages reported.
	InlineText(text string, line int) (nodes, messages []doctree.Node, err error)
	// SourcePosition returns the source name and the absolute line of a line
	// relative to the directive.
	SourcePosition(line int) (string, int)
	Reporter() *diag.Reporter
	Document() *doctree.Document
	// Language returns the language used to resolve localized names.
	Language() string
}

// Context is passed to Run and holds a single invocation of a directive.
type Context struct {
	// Name as written in the source.
	Name string
	// Positional arguments, validated against the spec.
	Arguments []string
	// Options, converted with the converters in the spec.
	Options map[string]any
	// Content lines, after the front-matter block.
	Content []string
	// Line of the directive in the source.
	Line int
	// Offset to add to line numbers of the content to get absolute line
	// numbers.
	ContentOffset int
	// The entire content of the directive block, including any front-matter.
	BlockText string
	State     State
}

// Document returns the document being built.
func (c *Context) Document() *doctree.Document { return c.State.Document() }

// ContentText returns the content lines joined by newlines.
func (c *Context) ContentText() string { return strings.Join(c.Content, "\n") }

// AssertHasContent returns an *Error if the directive has no content.
func (c *Context) AssertHasContent() error {
	if strings.TrimSpace(c.ContentText()) == "" {
		return Errorf(diag.ErrorLevel,
			"Content block expected for the %q directive; none found.", c.Name)
	}
	return nil
}

// AddClasses adds the classes from the "class" option to a node.
func (c *Context) AddClasses(n doctree.Node) {
	if classes, ok := c.Options["class"].([]string); ok && len(classes) > 0 {
		c.Document().AddToList(n, "classes", classes...)
	}
}

// AddName registers the value of the "name" option as an explicit target
// for a node.
func (c *Context) AddName(n doctree.Node) {
	name, _ := c.Options["name"].(string)
	if name == "" {
		return
	}
	d := c.Document()
	d.AddToList(n, "names", doctree.FullyNormalizeName(name))
	d.NoteExplicitTarget(n)
}

// Flag reports whether a flag option is present.
func (c *Context) Flag(name string) bool {
	_, ok := c.Options[name]
	return ok
}

// Error is returned by a directive that declines to run. It is reported as
// a system message of the given level, followed by the raw directive
// content.
type Error struct {
	Level   diag.Level
	Message string
}

// Errorf creates an *Error.
func Errorf(level diag.Level, format string, args ...any) *Error {
	return &Error{level, fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string { return e.Message }
