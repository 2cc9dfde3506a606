package mdparse

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
)

// Token kinds added on top of the ones produced by goldmark.
var (
	KindEscapeSequence = ast.NewNodeKind("EscapeSequence")
	KindLineBreak      = ast.NewNodeKind("LineBreak")
	KindRole           = ast.NewNodeKind("Role")
)

// EscapeSequence is a backslash escape of an ASCII punctuation character.
type EscapeSequence struct {
	ast.BaseInline
	// The escaped character.
	Char byte
}

// Kind implements ast.Node.
func (n *EscapeSequence) Kind() ast.NodeKind { return KindEscapeSequence }

// Dump implements ast.Node.
func (n *EscapeSequence) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Char": string(n.Char)}, nil)
}

// LineBreak is a line break inside inline content.
type LineBreak struct {
	ast.BaseInline
	// Soft line breaks come from plain newlines; hard line breaks come from a
	// trailing backslash or two trailing spaces.
	Soft bool
}

// Kind implements ast.Node.
func (n *LineBreak) Kind() ast.NodeKind { return KindLineBreak }

// Dump implements ast.Node.
func (n *LineBreak) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Soft": strconv.FormatBool(n.Soft)}, nil)
}

// Role is an interpreted text role, written as {name}`content`.
type Role struct {
	ast.BaseInline
	Name    string
	Content string
	// The text the role was written as.
	RawText string
	// Byte offset of the opening brace in the source.
	Offset int
}

// Kind implements ast.Node.
func (n *Role) Kind() ast.NodeKind { return KindRole }

// Dump implements ast.Node.
func (n *Role) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Name": n.Name, "Content": n.Content}, nil)
}
