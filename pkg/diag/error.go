// Package diag contains building blocks for reporting problems: error kinds
// used across the renderer, a reporter of system messages embedded in the
// document tree and the display of source context.
package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error.
type Kind uint8

// Possible values for Kind.
const (
	// A token kind without a handler, or one that is deliberately not
	// supported. Fatal.
	Unimplemented Kind = iota + 1
	// An unknown directive or role. Reported in the document.
	Resolution
	// Invalid directive arguments, options or content. Reported in the
	// document.
	ArgumentError
	// Malformed front-matter. Recovered locally.
	MalformedInput
	// A directive refused to run. Reported in the document.
	DirectiveDeclined
	// A directive returned an invalid result. Fatal.
	ContractViolation
	// An extension needs a capability the renderer does not provide. The
	// renderer never produces it; directives and roles return it and it
	// propagates as a fatal error. Fatal.
	CapabilityGap
)

var kindNames = [...]string{
	Unimplemented:     "unimplemented",
	Resolution:        "resolution error",
	ArgumentError:     "argument error",
	MalformedInput:    "malformed input",
	DirectiveDeclined: "directive declined",
	ContractViolation: "contract violation",
	CapabilityGap:     "capability gap",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Fatal reports whether errors of the kind abort a render.
func (k Kind) Fatal() bool {
	return k == Unimplemented || k == ContractViolation || k == CapabilityGap
}

// Error is an error with a kind and an optional source context.
type Error struct {
	Kind    Kind
	Message string
	// Context is nil when the position is unknown.
	Context *Context
}

// Errorf creates an *Error without context.
func Errorf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	if e.Context == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s:%d: %s", e.Kind, e.Context.Name, e.Context.Line, e.Message)
}

// WithContext returns a copy of the error with the given context, unless the
// error already has one.
func (e *Error) WithContext(c *Context) *Error {
	if e.Context != nil {
		return e
	}
	e2 := *e
	e2.Context = c
	return &e2
}

// Show shows the error.
func (e *Error) Show(indent string) string {
	header := fmt.Sprintf("%s: %s%s%s", title(e.Kind.String()),
		messageStart, e.Message, messageEnd)
	if e.Context == nil {
		return header
	}
	return header + "\n" + indent + "  " + e.Context.ShowCompact()
}

// KindOf returns the kind of the first *Error in the chain of err, or 0 if
// there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Is reports whether the chain of err contains an *Error of the given kind.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
