// Package errors defines the error kinds surfaced to script (spec.md §7)
// and formats them with source context, following the teacher's
// internal/errors package (CompilerError.Format: a source line plus a
// caret pointing at the offending column).
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-ecma/token"
)

// Kind is the closed set of error kinds spec.md §7 names.
type Kind string

const (
	SyntaxErrorKind    Kind = "SyntaxError"
	TypeErrorKind      Kind = "TypeError"
	ReferenceErrorKind Kind = "ReferenceError"
	RangeErrorKind     Kind = "RangeError"
	JsErrorKind        Kind = "Error" // generic: thrown value preserved as-is
)

// Error is the Go-level representation of a script exception. It is also
// the payload interp.propagateErr turns into a JS-visible Error object (via
// interp's newErrorObject), so `e.name`/`e.message` in script match Kind/Message
// here exactly.
type Error struct {
	Kind    Kind
	Message string
	Pos     token.Position
	Stack   []string // extra frames Format prints after the message; nothing in this module fills it

	// Thrown holds the original thrown value for `throw <anything>`; nil
	// for errors synthesized internally (TypeError, ReferenceError, ...).
	// catch(e) { e === X } depends on preserving this unchanged.
	Thrown any
}

func New(kind Kind, pos token.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

func (e *Error) Error() string { return e.Format("", "", false) }

// Format mirrors the teacher's CompilerError.Format: a header, the source
// line, a caret under the offending column, then the message. source/file
// may be empty when unavailable (e.g. for errors raised well after parsing
// against text the caller never handed back).
func (e *Error) Format(source, file string, color bool) string {
	var sb strings.Builder

	if file != "" {
		fmt.Fprintf(&sb, "%s in %s:%d:%d\n", e.Kind, file, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s at %d:%d\n", e.Kind, e.Pos.Line, e.Pos.Column)
	}

	if line := sourceLine(source, e.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+max(e.Pos.Column-1, 0)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	for _, frame := range e.Stack {
		sb.WriteString("\n    at ")
		sb.WriteString(frame)
	}

	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// FormatAll renders multiple errors the way the teacher's FormatErrors
// does: a count header followed by each error in its own numbered block.
func FormatAll(errs []*Error, source, file string, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(source, file, color)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s):\n\n", len(errs))
	for i, e := range errs {
		fmt.Fprintf(&sb, "[%d/%d] ", i+1, len(errs))
		sb.WriteString(e.Format(source, file, color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

func Syntax(pos token.Position, format string, args ...any) *Error {
	return New(SyntaxErrorKind, pos, format, args...)
}

func TypeErr(pos token.Position, format string, args ...any) *Error {
	return New(TypeErrorKind, pos, format, args...)
}

func Reference(pos token.Position, format string, args ...any) *Error {
	return New(ReferenceErrorKind, pos, format, args...)
}

func Range(pos token.Position, format string, args ...any) *Error {
	return New(RangeErrorKind, pos, format, args...)
}

// Thrown wraps an arbitrary script-thrown value (`throw X`) so `catch(e)`
// sees X back unchanged, per spec.md §7/§8.
func Thrown(pos token.Position, value any, message string) *Error {
	return &Error{Kind: JsErrorKind, Message: message, Pos: pos, Thrown: value}
}
