package gobasic

import (
	"strconv"
	"strings"
)

//
// Token kinds.  This is a closed set: the lexer promotes identifier
// tokens to keyword or function tokens before handing them up, so the
// parser never sees a raw identifier that happens to spell a keyword
//

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokColon
	tokComma
	tokComment
	tokDivide
	tokEqual
	tokFloat
	tokFunction
	tokGeq
	tokGt
	tokIDFloat
	tokIDInt
	tokIDString
	tokInt
	tokIntBin
	tokIntHex
	tokKeyword
	tokLeq
	tokLparen
	tokLt
	tokMinus
	tokNequal
	tokPlus
	tokPower
	tokRparen
	tokSemicolon
	tokString
	tokTimes
)

//
// A token is immutable once built.  Numeric payloads live in intVal or
// floatVal, everything else in strVal
//

type token struct {
	kind     tokenKind
	strVal   string
	intVal   int64
	floatVal float64
}

//
// The fixed set of builtin function names.  Checked after the keyword
// set when promoting an identifier
//

var functionSet = map[string]bool{
	"ABS": true, "ACOS": true, "ASC": true, "ASIN": true, "ATAN": true,
	"ATAN2": true, "BIN$": true, "CHR$": true, "COS": true, "DATE$": true,
	"EXP": true, "HEX$": true, "INSTR": true, "INT": true, "LEFT$": true,
	"LEN": true, "LOG": true, "MID$": true, "POS": true, "RIGHT$": true,
	"RND": true, "SGN": true, "SIN": true, "SPACE$": true, "SQR": true,
	"STR$": true, "STRING$": true, "TAB": true, "TAN": true, "TIME$": true,
	"VAL": true,
}

//
// The fixed set of keywords
//

var keywordSet = map[string]bool{
	"AND": true, "CLEAR": true, "CLS": true, "COLOR": true, "CURSOR": true,
	"DATA": true, "DEF": true, "DELETE": true, "DIM": true, "DUMP": true,
	"ELSE": true,
	"END": true, "FILES": true, "FOLDER": true, "FOLDERS": true, "FOR": true,
	"GET": true, "GOSUB": true, "GOTO": true, "IF": true, "INPUT": true,
	"LET": true, "LIST": true, "LOAD": true, "LOCATE": true, "MOD": true,
	"NEW": true, "NEXT": true, "NOT": true, "PAUSE": true, "PRINT": true,
	"OFF": true, "ON": true, "OR": true, "RANDOMIZE": true, "READ": true,
	"REMOVE": true, "RENUM": true, "RESTORE": true, "RETURN": true,
	"RUN": true, "SAVE": true, "STATS": true, "STEP": true, "STOP": true,
	"THEN": true,
	"TO": true, "TROFF": true, "TRON": true, "WEND": true, "WHILE": true,
	"WIDTH": true,
}

func newToken(kind tokenKind) token {
	return token{kind: kind}
}

func newStringToken(kind tokenKind, s string) token {

	t := token{kind: kind, strVal: s}

	//
	// Promote identifier tokens if possible.  Keywords are checked
	// first, then builtin function names.  An actual identifier is
	// forced to lower case, so variable lookup is case-insensitive
	//

	if kind == tokIDFloat || kind == tokIDString {
		id := strings.ToUpper(s)

		if keywordSet[id] {
			t.kind = tokKeyword
			t.strVal = id
			return t
		}

		if functionSet[id] {
			t.kind = tokFunction
			t.strVal = id
			return t
		}
	}

	if t.isID() {
		t.strVal = strings.ToLower(t.strVal)
	}

	return t
}

func newIntToken(kind tokenKind, v int64) token {
	return token{kind: kind, intVal: v}
}

func newFloatToken(v float64) token {
	return token{kind: tokFloat, floatVal: v}
}

//
// A user defined function reference is an identifier of three or more
// characters starting with 'fn'
//

func (t token) isFn() bool {
	return t.isID() && len(t.strVal) >= 3 && t.strVal[0:2] == "fn"
}

func (t token) isID() bool {
	return t.kind == tokIDFloat || t.kind == tokIDInt || t.kind == tokIDString
}

func (t token) isInt() bool {
	return t.kind == tokInt || t.kind == tokIntBin || t.kind == tokIntHex
}

func (t token) isKeyword(keyword string) bool {
	return t.kind == tokKeyword && t.strVal == keyword
}

func (t token) isKind(kind tokenKind) bool {
	return t.kind == kind
}

//
// Render the token back to source form.  Used by LIST and by the
// statement renderers
//

func (t token) String() string {

	switch t.kind {
	default:
		return ""

	case tokColon:
		return ":"

	case tokComma:
		return ","

	case tokComment:
		return "REM " + t.strVal

	case tokDivide:
		return "/"

	case tokEqual:
		return "="

	case tokFloat:
		return strconv.FormatFloat(t.floatVal, 'g', -1, 64)

	case tokFunction, tokKeyword:
		return t.strVal

	case tokGeq:
		return ">="

	case tokGt:
		return ">"

	case tokIDFloat, tokIDInt, tokIDString:
		return strings.ToLower(t.strVal)

	case tokInt:
		return strconv.FormatInt(t.intVal, 10)

	case tokIntBin:
		return "&B" + strconv.FormatInt(t.intVal, 2)

	case tokIntHex:
		return "&H" + strings.ToUpper(strconv.FormatInt(t.intVal, 16))

	case tokLeq:
		return "<="

	case tokLparen:
		return "("

	case tokLt:
		return "<"

	case tokMinus:
		return "-"

	case tokNequal:
		return "<>"

	case tokPlus:
		return "+"

	case tokPower:
		return "^"

	case tokRparen:
		return ")"

	case tokSemicolon:
		return ";"

	case tokString:
		return "\"" + t.strVal + "\""

	case tokTimes:
		return "*"
	}
}
