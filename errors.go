package gobasic

import (
	"fmt"
	"strings"
)

//
// Manifest constants for the error messages.  Kept in one place so the
// tests and the front-end can match on exact text
//

const (
	EBADCHARACTER    = "Unexpected character"
	EBADFILENAME     = "Illegal file name"
	EBADSUBSCRIPT    = "Subscript out of range"
	EBADVARIABLE     = "Undefined variable or array"
	EDUPLICATEDIM    = "Array already dimensioned"
	EFORMAT          = "Illegal number"
	EILLEGALFUNCTION = "Illegal function call"
	EILLEGALLINE     = "Undefined line number"
	EINTERNAL        = "Internal error"
	ENEXTWITHOUTFOR  = "NEXT without FOR"
	ENOMATCHINGNEXT  = "FOR without NEXT"
	ENOMATCHINGWEND  = "WHILE without WEND"
	EOUTOFDATA       = "Out of data"
	ERENUMCOLLIDES   = "RENUM collides with an existing line"
	ERETURNNOGOSUB   = "RETURN without GOSUB"
	ESYNTAX          = "Syntax error"
	ETYPEMISMATCH    = "Type mismatch"
	EWENDNOWHILE     = "WEND without WHILE"
	EZERODIVIDE      = "Division by 0"
)

type errorKind int

const (
	errLexical errorKind = iota
	errSyntax
	errType
	errFormat
	errUndefined
	errSubscript
	errLine
	errUnderflow
	errData
	errRuntime
	errInternal
)

//
// Error is the one error type the interpreter produces.  Parse errors
// accumulate a context chain, outermost construct first, so the user
// sees something like "Syntax error in FOR: in expression: ...".
// Runtime errors carry the line number of the statement that faulted
//

type Error struct {
	kind    errorKind
	msg     string
	context []string
	line    int64
}

func (e *Error) Error() string {

	var b strings.Builder

	b.WriteString(e.msg)

	for _, c := range e.context {
		b.WriteString(" in ")
		b.WriteString(c)
	}

	if e.line > 0 {
		fmt.Fprintf(&b, " at line %d", e.line)
	}

	return b.String()
}

//
// Parse-time constructors
//

func lexicalErrorf(format string, args ...any) *Error {
	return &Error{kind: errLexical, msg: fmt.Sprintf(format, args...)}
}

func syntaxError(msg string) *Error {
	return &Error{kind: errSyntax, msg: msg}
}

//
// wrapParse prepends the enclosing construct name to the context chain
// of a parse failure.  Every statement and expression sub-parser calls
// this on the way out, building the diagnostic cause chain
//

func wrapParse(construct string, err error) error {

	if err == nil {
		return nil
	}

	e, ok := err.(*Error)
	if !ok {
		e = &Error{kind: errInternal, msg: err.Error()}
	}

	e.context = append(e.context, construct)

	return e
}

//
// Runtime constructors
//

func typeError(msg string) *Error {
	return &Error{kind: errType, msg: msg}
}

func formatError(msg string) *Error {
	return &Error{kind: errFormat, msg: msg}
}

func undefinedError(name string) *Error {
	return &Error{kind: errUndefined, msg: EBADVARIABLE + " " + name}
}

func subscriptError() *Error {
	return &Error{kind: errSubscript, msg: EBADSUBSCRIPT}
}

func lineError(line int64) *Error {
	return &Error{kind: errLine, msg: fmt.Sprintf("%s %d", EILLEGALLINE, line)}
}

func underflowError(msg string) *Error {
	return &Error{kind: errUnderflow, msg: msg}
}

func dataError() *Error {
	return &Error{kind: errData, msg: EOUTOFDATA}
}

func internalError(format string, args ...any) *Error {
	return &Error{kind: errInternal,
		msg: EINTERNAL + ": " + fmt.Sprintf(format, args...)}
}

func runtimeErrorf(format string, args ...any) *Error {
	return &Error{kind: errRuntime, msg: fmt.Sprintf(format, args...)}
}

//
// atLine attaches the active line number to a runtime fault.  The
// first line to be attached wins, so a fault inside a GOSUB body keeps
// the line it actually happened on
//

func atLine(err error, line int64) error {

	if err == nil {
		return nil
	}

	if e, ok := err.(*Error); ok {
		if e.line == 0 {
			e.line = line
		}
		return e
	}

	return &Error{kind: errInternal, msg: err.Error(), line: line}
}

//
// Kind predicates used by the tests and the front-end
//

func IsSyntaxError(err error) bool { return hasKind(err, errSyntax) }

func IsTypeError(err error) bool { return hasKind(err, errType) }

func IsFormatError(err error) bool { return hasKind(err, errFormat) }

func IsOutOfData(err error) bool { return hasKind(err, errData) }

func IsUndefinedLine(err error) bool { return hasKind(err, errLine) }

func IsStackUnderflow(err error) bool { return hasKind(err, errUnderflow) }

func hasKind(err error, kind errorKind) bool {

	e, ok := err.(*Error)

	return ok && e.kind == kind
}
