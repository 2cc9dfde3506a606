package diag

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/elves/mdtree/pkg/doctree"
)

// Level is the severity of a system message.
type Level int

// Possible values for Level, with the same numeric values as in docutils.
const (
	Debug Level = iota
	Info
	Warning
	ErrorLevel
	Severe
)

var levelNames = [...]string{"DEBUG", "INFO", "WARNING", "ERROR", "SEVERE"}

func (l Level) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case Debug:
		return zerolog.DebugLevel
	case Info:
		return zerolog.InfoLevel
	case Warning:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// Reporter creates system messages for problems found while building a
// document, and keeps track of them.
type Reporter struct {
	doc      *doctree.Document
	source   string
	logger   zerolog.Logger
	messages []doctree.Node
	maxLevel Level
}

// NewReporter creates a Reporter creating messages in the given document.
// The source name is recorded in every message.
func NewReporter(doc *doctree.Document, source string, logger zerolog.Logger) *Reporter {
	return &Reporter{doc: doc, source: source, logger: logger, maxLevel: -1}
}

// Document returns the document messages are created in.
func (r *Reporter) Document() *doctree.Document { return r.doc }

// Source returns the source name.
func (r *Reporter) Source() string { return r.source }

// Report creates a detached system_message node containing the message as a
// paragraph followed by the given children. A line of 0 means unknown.
func (r *Reporter) Report(level Level, message string, line int, children ...doctree.Node) doctree.Node {
	d := r.doc
	msg := d.NewNode(doctree.KindSystemMessage)
	d.Set(msg, "level", int(level))
	d.Set(msg, "type", level.String())
	d.Set(msg, "source", r.source)
	if line > 0 {
		d.Set(msg, "line", line)
		d.SetLine(msg, line)
	}
	d.Append(msg, d.NewTextElement(doctree.KindParagraph, message))
	for _, c := range children {
		d.Append(msg, c)
	}

	r.messages = append(r.messages, msg)
	if level > r.maxLevel {
		r.maxLevel = level
	}
	r.logger.WithLevel(level.zerolog()).
		Str("source", r.source).Int("line", line).Msg(message)
	return msg
}

// Info reports a message at the INFO level.
func (r *Reporter) Info(message string, line int, children ...doctree.Node) doctree.Node {
	return r.Report(Info, message, line, children...)
}

// Warning reports a message at the WARNING level.
func (r *Reporter) Warning(message string, line int, children ...doctree.Node) doctree.Node {
	return r.Report(Warning, message, line, children...)
}

// Error reports a message at the ERROR level.
func (r *Reporter) Error(message string, line int, children ...doctree.Node) doctree.Node {
	return r.Report(ErrorLevel, message, line, children...)
}

// RegisterProblem links an inline node marking a problem with the system
// message describing it: the problem refers to the message with "refid" and
// the message refers back to the problem with "backrefs". It returns the id
// of the problem node.
func (r *Reporter) RegisterProblem(problem, message doctree.Node) string {
	d := r.doc
	msgID := d.SetID(message)
	d.Set(problem, "refid", msgID)
	problemID := d.SetID(problem)
	d.AddToList(message, "backrefs", problemID)
	return problemID
}

// Problematic creates a problematic node wrapping raw text, linked to the
// given message with RegisterProblem.
func (r *Reporter) Problematic(rawText string, message doctree.Node) doctree.Node {
	problem := r.doc.NewTextElement(doctree.KindProblematic, rawText)
	r.RegisterProblem(problem, message)
	return problem
}

// Messages returns all messages reported so far.
func (r *Reporter) Messages() []doctree.Node { return r.messages }

// MaxLevel returns the highest level reported so far, or -1 if nothing has
// been reported.
func (r *Reporter) MaxLevel() Level { return r.maxLevel }
