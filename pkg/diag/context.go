package diag

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Context is a line in a source document. It is typically used for errors
// that can be associated with a part of the source, like an unsupported
// token.
type Context struct {
	// Name of the source, such as a file name.
	Name string
	// Full text of the source.
	Source string
	// 1-based line number; 0 when unknown.
	Line int
}

// NewContext creates a new Context.
func NewContext(name, source string, line int) *Context {
	return &Context{name, source, line}
}

// Variables controlling the style of messages and the culprit.
var (
	messageStart = "\033[31;1m"
	messageEnd   = "\033[m"

	culpritLineBegin = "\033[1;4m"
	culpritLineEnd   = "\033[m"
)

// SetPlain disables or enables the use of ANSI escape sequences in Show
// output.
func SetPlain(plain bool) {
	if plain {
		messageStart, messageEnd = "", ""
		culpritLineBegin, culpritLineEnd = "", ""
	} else {
		messageStart, messageEnd = "\033[31;1m", "\033[m"
		culpritLineBegin, culpritLineEnd = "\033[1;4m", "\033[m"
	}
}

// Show shows a Context, with the source line on its own line.
func (c *Context) Show(sourceIndent string) string {
	if c.Line <= 0 {
		return c.Name + ", unknown position"
	}
	return c.Name + ", " + c.lineRange() + "\n" + sourceIndent +
		c.relevantSource(MaxWidth-runewidth.StringWidth(sourceIndent))
}

// ShowCompact shows a Context, with no line break between the position and
// the source line. The source line is truncated so that the whole output
// fits in MaxWidth columns.
func (c *Context) ShowCompact() string {
	if c.Line <= 0 {
		return c.Name + ", unknown position"
	}
	desc := c.Name + ", " + c.lineRange() + " "
	return desc + c.relevantSource(MaxWidth-runewidth.StringWidth(desc))
}

// MaxWidth is the width that ShowCompact fits its output in.
var MaxWidth = 80

func (c *Context) lineRange() string {
	return fmt.Sprintf("line %d:", c.Line)
}

func (c *Context) relevantSource(width int) string {
	lines := strings.Split(c.Source, "\n")
	line := ""
	if c.Line <= len(lines) {
		line = strings.TrimRight(lines[c.Line-1], "\r")
	}
	if line == "" {
		line = "^"
	} else if width > 1 {
		line = runewidth.Truncate(line, width, "…")
	}
	return culpritLineBegin + line + culpritLineEnd
}
