package gobasic

import (
	"fmt"
	"strconv"
	"strings"
)

//
// Statement variants.  Like the expression nodes this is a closed set;
// execution lives in execute.go as one exhaustive switch.  Each variant
// renders itself back to canonical source form, which is what LIST and
// SAVE emit: keywords upper case, identifiers lower case, single
// spacing
//

type statement interface {
	stmtNode()
	String() string
}

//
// PRINT item separators.  A trailing semicolon or comma suppresses the
// final newline
//

type printSep int

const (
	sepNone printSep = iota
	sepSemi
	sepComma
)

type printItem struct {
	expr expression
	sep  printSep
}

type dimDecl struct {
	name string
	kind tokenKind
	dims []expression
}

//
// lineRange selects program lines for LIST and DELETE.  Zero bounds
// are open ends
//

type lineRange struct {
	from, to int64
}

func (r lineRange) contains(line int64) bool {
	return (r.from == 0 || line >= r.from) && (r.to == 0 || line <= r.to)
}

type (
	sLet struct {
		target   lvalueRef
		expr     expression
		explicit bool
	}

	sPrint struct {
		items []printItem
	}

	sIf struct {
		cond expression
		then []statement
		els  []statement
	}

	sFor struct {
		ref      lvalueRef
		from, to expression
		step     expression
	}

	sNext struct {
		ref *lvalueRef
	}

	sWhile struct {
		cond expression
	}

	sWend struct{}

	sGoto struct {
		line int64
	}

	sGosub struct {
		line int64
	}

	sReturn struct{}

	sOn struct {
		expr    expression
		isGosub bool
		lines   []int64
	}

	sData struct {
		items []value
	}

	sRead struct {
		refs []lvalueRef
	}

	sRestore struct {
		line int64
	}

	sDim struct {
		decls []dimDecl
	}

	sDef struct {
		fn userFunction
	}

	sInput struct {
		prompt string
		refs   []lvalueRef
	}

	sGet struct {
		ref lvalueRef
	}

	sComment struct {
		text string
	}

	sEnd struct{}

	sStop struct{}

	sRun struct {
		line int64
	}

	sNew struct{}

	sClear struct{}

	sList struct {
		rng lineRange
	}

	sDelete struct {
		rng lineRange
	}

	sRenum struct {
		rng         lineRange
		start, step int64
	}

	sLoad struct {
		name expression
	}

	sSave struct {
		name expression
	}

	sRemove struct {
		name expression
	}

	sFiles struct{}

	sFolder struct {
		name expression
	}

	sFolders struct{}

	sCls struct{}

	sColor struct {
		fg, bg expression
	}

	sLocate struct {
		row, col expression
	}

	sCursor struct {
		on bool
	}

	sWidth struct {
		cols expression
		rows expression
	}

	sPause struct {
		seconds expression
	}

	sRandomize struct {
		seed expression
	}

	sTron struct{}

	sTroff struct{}

	sDump struct{}

	sStats struct{}
)

func (sLet) stmtNode()       {}
func (sPrint) stmtNode()     {}
func (sIf) stmtNode()        {}
func (sFor) stmtNode()       {}
func (sNext) stmtNode()      {}
func (sWhile) stmtNode()     {}
func (sWend) stmtNode()      {}
func (sGoto) stmtNode()      {}
func (sGosub) stmtNode()     {}
func (sReturn) stmtNode()    {}
func (sOn) stmtNode()        {}
func (sData) stmtNode()      {}
func (sRead) stmtNode()      {}
func (sRestore) stmtNode()   {}
func (sDim) stmtNode()       {}
func (sDef) stmtNode()       {}
func (sInput) stmtNode()     {}
func (sGet) stmtNode()       {}
func (sComment) stmtNode()   {}
func (sEnd) stmtNode()       {}
func (sStop) stmtNode()      {}
func (sRun) stmtNode()       {}
func (sNew) stmtNode()       {}
func (sClear) stmtNode()     {}
func (sList) stmtNode()      {}
func (sDelete) stmtNode()    {}
func (sRenum) stmtNode()     {}
func (sLoad) stmtNode()      {}
func (sSave) stmtNode()      {}
func (sRemove) stmtNode()    {}
func (sFiles) stmtNode()     {}
func (sFolder) stmtNode()    {}
func (sFolders) stmtNode()   {}
func (sCls) stmtNode()       {}
func (sColor) stmtNode()     {}
func (sLocate) stmtNode()    {}
func (sCursor) stmtNode()    {}
func (sWidth) stmtNode()     {}
func (sPause) stmtNode()     {}
func (sRandomize) stmtNode() {}
func (sTron) stmtNode()      {}
func (sTroff) stmtNode()     {}
func (sDump) stmtNode()      {}
func (sStats) stmtNode()     {}

//
// renderStatements joins a colon-separated statement list
//

func renderStatements(stmts []statement) string {

	parts := make([]string, len(stmts))

	for i, st := range stmts {
		parts[i] = st.String()
	}

	return strings.Join(parts, " : ")
}

func (s sLet) String() string {

	text := renderLValue(s.target) + " = " + renderExpr(s.expr)

	if s.explicit {
		return "LET " + text
	}

	return text
}

func (s sPrint) String() string {

	var b strings.Builder

	b.WriteString("PRINT")

	for _, item := range s.items {
		if item.expr != nil {
			b.WriteString(" ")
			b.WriteString(renderExpr(item.expr))
		}
		switch item.sep {
		case sepSemi:
			b.WriteString(";")
		case sepComma:
			b.WriteString(",")
		}
	}

	return b.String()
}

func (s sIf) String() string {

	text := "IF " + renderExpr(s.cond) + " THEN " +
		renderStatements(s.then)

	if len(s.els) > 0 {
		text += " ELSE " + renderStatements(s.els)
	}

	return text
}

func (s sFor) String() string {

	text := "FOR " + renderLValue(s.ref) + " = " + renderExpr(s.from) +
		" TO " + renderExpr(s.to)

	if s.step != nil {
		text += " STEP " + renderExpr(s.step)
	}

	return text
}

func (s sNext) String() string {

	if s.ref == nil {
		return "NEXT"
	}

	return "NEXT " + renderLValue(*s.ref)
}

func (s sWhile) String() string {
	return "WHILE " + renderExpr(s.cond)
}

func (sWend) String() string {
	return "WEND"
}

func (s sGoto) String() string {
	return fmt.Sprintf("GOTO %d", s.line)
}

func (s sGosub) String() string {
	return fmt.Sprintf("GOSUB %d", s.line)
}

func (sReturn) String() string {
	return "RETURN"
}

func (s sOn) String() string {

	parts := make([]string, len(s.lines))

	for i, line := range s.lines {
		parts[i] = strconv.FormatInt(line, 10)
	}

	verb := "GOTO"
	if s.isGosub {
		verb = "GOSUB"
	}

	return "ON " + renderExpr(s.expr) + " " + verb + " " +
		strings.Join(parts, ", ")
}

func (s sData) String() string {

	parts := make([]string, len(s.items))

	for i, item := range s.items {
		if item.kind == kindString {
			parts[i] = "\"" + item.s + "\""
		} else {
			parts[i] = item.String()
		}
	}

	return "DATA " + strings.Join(parts, ", ")
}

func (s sRead) String() string {

	parts := make([]string, len(s.refs))

	for i, ref := range s.refs {
		parts[i] = renderLValue(ref)
	}

	return "READ " + strings.Join(parts, ", ")
}

func (s sRestore) String() string {

	if s.line == 0 {
		return "RESTORE"
	}

	return fmt.Sprintf("RESTORE %d", s.line)
}

func (s sDim) String() string {

	parts := make([]string, len(s.decls))

	for i, d := range s.decls {
		parts[i] = d.name + "(" + renderExprList(d.dims) + ")"
	}

	return "DIM " + strings.Join(parts, ", ")
}

func (s sDef) String() string {

	parts := make([]string, len(s.fn.formals))

	for i, f := range s.fn.formals {
		parts[i] = f.name
	}

	return "DEF " + s.fn.name + "(" + strings.Join(parts, ", ") +
		") = " + renderExpr(s.fn.body)
}

func (s sInput) String() string {

	var b strings.Builder

	b.WriteString("INPUT ")

	if s.prompt != "" {
		b.WriteString("\"" + s.prompt + "\"; ")
	}

	parts := make([]string, len(s.refs))

	for i, ref := range s.refs {
		parts[i] = renderLValue(ref)
	}

	b.WriteString(strings.Join(parts, ", "))

	return b.String()
}

func (s sGet) String() string {
	return "GET " + renderLValue(s.ref)
}

func (s sComment) String() string {

	if s.text == "" {
		return "REM"
	}

	return "REM " + s.text
}

func (sEnd) String() string {
	return "END"
}

func (sStop) String() string {
	return "STOP"
}

func (s sRun) String() string {

	if s.line == 0 {
		return "RUN"
	}

	return fmt.Sprintf("RUN %d", s.line)
}

func (sNew) String() string {
	return "NEW"
}

func (sClear) String() string {
	return "CLEAR"
}

func (s sList) String() string {
	return "LIST" + renderRange(s.rng)
}

func (s sDelete) String() string {
	return "DELETE" + renderRange(s.rng)
}

func renderRange(r lineRange) string {

	switch {
	case r.from == 0 && r.to == 0:
		return ""

	case r.from == r.to:
		return fmt.Sprintf(" %d", r.from)

	case r.to == 0:
		return fmt.Sprintf(" %d-", r.from)

	case r.from == 0:
		return fmt.Sprintf(" -%d", r.to)
	}

	return fmt.Sprintf(" %d-%d", r.from, r.to)
}

func (s sRenum) String() string {

	out := "RENUM" + renderRange(s.rng)

	out += fmt.Sprintf(" TO %d", s.start)

	if s.step != 10 {
		out += fmt.Sprintf(", %d", s.step)
	}

	return out
}

func (s sLoad) String() string {
	return "LOAD " + renderExpr(s.name)
}

func (s sSave) String() string {
	return "SAVE " + renderExpr(s.name)
}

func (s sRemove) String() string {
	return "REMOVE " + renderExpr(s.name)
}

func (sFiles) String() string {
	return "FILES"
}

func (s sFolder) String() string {

	if s.name == nil {
		return "FOLDER"
	}

	return "FOLDER " + renderExpr(s.name)
}

func (sFolders) String() string {
	return "FOLDERS"
}

func (sCls) String() string {
	return "CLS"
}

func (s sColor) String() string {

	if s.bg == nil {
		return "COLOR " + renderExpr(s.fg)
	}

	return "COLOR " + renderExpr(s.fg) + ", " + renderExpr(s.bg)
}

func (s sLocate) String() string {
	return "LOCATE " + renderExpr(s.row) + ", " + renderExpr(s.col)
}

func (s sCursor) String() string {

	if s.on {
		return "CURSOR ON"
	}

	return "CURSOR OFF"
}

func (s sWidth) String() string {

	if s.rows == nil {
		return "WIDTH " + renderExpr(s.cols)
	}

	return "WIDTH " + renderExpr(s.cols) + ", " + renderExpr(s.rows)
}

func (s sPause) String() string {
	return "PAUSE " + renderExpr(s.seconds)
}

func (s sRandomize) String() string {

	if s.seed == nil {
		return "RANDOMIZE"
	}

	return "RANDOMIZE " + renderExpr(s.seed)
}

func (sTron) String() string {
	return "TRON"
}

func (sTroff) String() string {
	return "TROFF"
}

func (sDump) String() string {
	return "DUMP"
}

func (sStats) String() string {
	return "STATS"
}
