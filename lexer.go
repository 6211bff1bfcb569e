package gobasic

import (
	"strconv"
)

//
// tokenStream runs a character-level finite-state machine over one
// line of input, handing tokens to the parser with a single token of
// lookahead.  The stream never looks past the line it was built for
//

type tokenStream struct {
	buffer string
	offset int
	peeked *token
}

func newTokenStream(buffer string) *tokenStream {
	return &tokenStream{buffer: buffer}
}

//
// The states of the finite-state machine
//

type lexState int

const (
	stInit lexState = iota
	stBase
	stComment
	stFloat
	stExp
	stExpDigits
	stID
	stInt
	stIntBin
	stIntHex
	stRem1
	stRem2
	stRem3
	stString
	stGt
	stLt
)

func (ts *tokenStream) eof() bool {
	return ts.offset >= len(ts.buffer)
}

//
// Get returns the next token, advancing the stream.  Use peek for a
// read without side effects
//

func (ts *tokenStream) get() (token, error) {

	if ts.peeked != nil {
		t := *ts.peeked
		ts.peeked = nil
		return t, nil
	}

	return ts.readToken()
}

func (ts *tokenStream) peek() (token, error) {

	if ts.peeked == nil {
		t, err := ts.readToken()
		if err != nil {
			return t, err
		}
		ts.peeked = &t
	}

	return *ts.peeked, nil
}

//
// A statement terminator is end of input, a colon, or the ELSE keyword
//

func (ts *tokenStream) atTerminator() bool {

	t, err := ts.peek()
	if err != nil {
		return false
	}

	return t.isKind(tokEOF) || t.isKind(tokColon) || t.isKeyword("ELSE")
}

func (ts *tokenStream) require(kind tokenKind) (token, error) {

	t, err := ts.get()
	if err != nil {
		return t, err
	}

	if t.kind != kind {
		return t, syntaxError("unexpected input " + quoteToken(t))
	}

	return t, nil
}

func (ts *tokenStream) requireID() (token, error) {

	t, err := ts.get()
	if err != nil {
		return t, err
	}

	if !t.isID() {
		return t, syntaxError("unexpected input " + quoteToken(t))
	}

	return t, nil
}

func (ts *tokenStream) requireInt() (token, error) {

	t, err := ts.get()
	if err != nil {
		return t, err
	}

	if !t.isInt() {
		return t, syntaxError("unexpected input " + quoteToken(t))
	}

	return t, nil
}

func (ts *tokenStream) requireKeyword(keyword string) (token, error) {

	t, err := ts.get()
	if err != nil {
		return t, err
	}

	if !t.isKeyword(keyword) {
		return t, syntaxError("unexpected input " + quoteToken(t))
	}

	return t, nil
}

func quoteToken(t token) string {

	if t.kind == tokEOF {
		return "end of line"
	}

	return strconv.Quote(t.String())
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHex(ch byte) bool {
	return isDigit(ch) || (ch >= 'A' && ch <= 'F') || (ch >= 'a' && ch <= 'f')
}

func isLetter(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}

func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

//
// readToken operates the FSM to produce one token.  The current
// character drives every transition; a state returns a token by
// leaving the machine.  NUL stands in for end of input
//

func (ts *tokenStream) readToken() (token, error) {

	var acc []byte

	state := stInit

	for {
		var ch byte
		if !ts.eof() {
			ch = ts.buffer[ts.offset]
		}

		switch state {

		case stInit:
			switch {
			case ch == 0:
				return newToken(tokEOF), nil

			case ch == 'r' || ch == 'R':
				acc = append(acc, ch)
				ts.offset++
				state = stRem1

			case isLetter(ch):
				acc = append(acc, ch)
				ts.offset++
				state = stID

			case isDigit(ch):
				acc = append(acc, ch)
				ts.offset++
				state = stInt

			case ch == '.':
				acc = append(acc, ch)
				ts.offset++
				state = stFloat

			case ch == '&':
				ts.offset++
				state = stBase

			case ch == '\'':
				ts.offset++
				state = stComment

			case ch == '"':
				ts.offset++
				state = stString

			case ch == '>':
				ts.offset++
				state = stGt

			case ch == '<':
				ts.offset++
				state = stLt

			case ch == ':':
				ts.offset++
				return newToken(tokColon), nil

			case ch == ',':
				ts.offset++
				return newToken(tokComma), nil

			case ch == '/':
				ts.offset++
				return newToken(tokDivide), nil

			case ch == '=':
				ts.offset++
				return newToken(tokEqual), nil

			case ch == '(':
				ts.offset++
				return newToken(tokLparen), nil

			case ch == ')':
				ts.offset++
				return newToken(tokRparen), nil

			case ch == '-':
				ts.offset++
				return newToken(tokMinus), nil

			case ch == '+':
				ts.offset++
				return newToken(tokPlus), nil

			case ch == '^':
				ts.offset++
				return newToken(tokPower), nil

			case ch == ';':
				ts.offset++
				return newToken(tokSemicolon), nil

			case ch == '*':
				ts.offset++
				return newToken(tokTimes), nil

			case ch == '?':
				// Lexical alias for PRINT
				ts.offset++
				return newStringToken(tokKeyword, "PRINT"), nil

			case isBlank(ch):
				ts.offset++

			default:
				return token{}, lexicalErrorf("%s %q at column %d",
					EBADCHARACTER, string(ch), ts.offset+1)
			}

		case stID:
			switch {
			case isLetter(ch) || isDigit(ch):
				acc = append(acc, ch)
				ts.offset++

			case ch == '%':
				acc = append(acc, ch)
				ts.offset++
				return newStringToken(tokIDInt, string(acc)), nil

			case ch == '$':
				acc = append(acc, ch)
				ts.offset++
				return newStringToken(tokIDString, string(acc)), nil

			default:
				return newStringToken(tokIDFloat, string(acc)), nil
			}

		case stInt:
			switch {
			case isDigit(ch):
				acc = append(acc, ch)
				ts.offset++

			case ch == '.':
				acc = append(acc, ch)
				ts.offset++
				state = stFloat

			case ch == 'e' || ch == 'E':
				acc = append(acc, ch)
				ts.offset++
				state = stExp

			default:
				i, err := strconv.ParseInt(string(acc), 10, 64)
				if err != nil {
					return token{}, lexicalErrorf("%s %q", EFORMAT,
						string(acc))
				}
				return newIntToken(tokInt, i), nil
			}

		case stBase:
			switch {
			case ch == 'b' || ch == 'B':
				ts.offset++
				state = stIntBin

			case ch == 'h' || ch == 'H':
				ts.offset++
				state = stIntHex

			default:
				return token{}, lexicalErrorf("%s %q at column %d",
					EBADCHARACTER, "&", ts.offset)
			}

		case stIntBin:
			if ch == '0' || ch == '1' {
				acc = append(acc, ch)
				ts.offset++
			} else {
				i, err := strconv.ParseInt(string(acc), 2, 64)
				if err != nil {
					return token{}, lexicalErrorf("%s &B%q", EFORMAT,
						string(acc))
				}
				return newIntToken(tokIntBin, i), nil
			}

		case stIntHex:
			if isHex(ch) {
				acc = append(acc, ch)
				ts.offset++
			} else {
				i, err := strconv.ParseInt(string(acc), 16, 64)
				if err != nil {
					return token{}, lexicalErrorf("%s &H%q", EFORMAT,
						string(acc))
				}
				return newIntToken(tokIntHex, i), nil
			}

		case stFloat:
			switch {
			case isDigit(ch):
				acc = append(acc, ch)
				ts.offset++

			case ch == 'e' || ch == 'E':
				acc = append(acc, ch)
				ts.offset++
				state = stExp

			default:
				return ts.floatToken(acc)
			}

		case stExp:
			if ch == '+' || ch == '-' || isDigit(ch) {
				acc = append(acc, ch)
				ts.offset++
				state = stExpDigits
			} else {
				return token{}, lexicalErrorf("%s %q", EFORMAT, string(acc))
			}

		case stExpDigits:
			if isDigit(ch) {
				acc = append(acc, ch)
				ts.offset++
			} else {
				return ts.floatToken(acc)
			}

		//
		// The REM keyword doubles as the comment introducer: the rest
		// of the line is the comment text, kept verbatim.  Anything
		// that merely starts with r-e-m falls back to the ID state
		//

		case stRem1:
			if ch == 'e' || ch == 'E' {
				acc = append(acc, ch)
				ts.offset++
				state = stRem2
			} else {
				state = stID
			}

		case stRem2:
			if ch == 'm' || ch == 'M' {
				acc = nil
				ts.offset++
				state = stRem3
			} else {
				state = stID
			}

		case stRem3:
			switch {
			case ch == 0:
				return newStringToken(tokComment, ""), nil

			case ch == ' ':
				ts.offset++
				state = stComment

			default:
				acc = []byte("rem")
				state = stID
			}

		case stComment:
			if ch == 0 {
				return newStringToken(tokComment, string(acc)), nil
			}
			acc = append(acc, ch)
			ts.offset++

		//
		// An unterminated string at the end of the buffer returns
		// whatever was read, without complaint
		//

		case stString:
			switch {
			case ch == 0:
				return newStringToken(tokString, string(acc)), nil

			case ch == '"':
				ts.offset++
				return newStringToken(tokString, string(acc)), nil

			default:
				acc = append(acc, ch)
				ts.offset++
			}

		case stGt:
			if ch == '=' {
				ts.offset++
				return newToken(tokGeq), nil
			}
			return newToken(tokGt), nil

		case stLt:
			switch ch {
			case '=':
				ts.offset++
				return newToken(tokLeq), nil

			case '>':
				ts.offset++
				return newToken(tokNequal), nil

			default:
				return newToken(tokLt), nil
			}
		}
	}
}

func (ts *tokenStream) floatToken(acc []byte) (token, error) {

	f, err := strconv.ParseFloat(string(acc), 64)
	if err != nil {
		return token{}, lexicalErrorf("%s %q", EFORMAT, string(acc))
	}

	return newFloatToken(f), nil
}
