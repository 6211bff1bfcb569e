package gobasic

import (
	"fmt"
)

//
// Recursive-descent parser.  Every sub-parser returns an ordinary
// error; the context chain built by wrapParse names the construct
// being parsed at each level, so a bad FOR bound reports as
// "... in expression in FOR"
//

//
// parseLine parses one complete input line: an optional line number
// followed by a colon-separated statement list.  A returned line of
// zero means the input is immediate.  A numbered line with no
// statements is legal, the session treats it as a deletion
//

func parseLine(text string) (int64, []statement, error) {

	ts := newTokenStream(text)

	var line int64

	t, err := ts.peek()
	if err != nil {
		return 0, nil, err
	}

	if t.isKind(tokInt) {
		ts.get()
		line = t.intVal
		if line < 1 {
			return 0, nil, syntaxError(
				fmt.Sprintf("%s %d", EILLEGALLINE, line))
		}
	}

	t, err = ts.peek()
	if err != nil {
		return 0, nil, err
	}

	if t.isKind(tokEOF) {
		return line, nil, nil
	}

	stmts, err := parseStatements(ts)
	if err != nil {
		return 0, nil, err
	}

	t, err = ts.get()
	if err != nil {
		return 0, nil, err
	}

	if !t.isKind(tokEOF) {
		return 0, nil, syntaxError("unexpected input " + quoteToken(t))
	}

	return line, stmts, nil
}

//
// parseStatements reads statements separated by colons, stopping at
// end of input or at an ELSE keyword, which belongs to an enclosing IF
//

func parseStatements(ts *tokenStream) ([]statement, error) {

	var stmts []statement

	for {
		st, err := parseStatement(ts)
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, st)

		t, err := ts.peek()
		if err != nil {
			return nil, err
		}

		if !t.isKind(tokColon) {
			return stmts, nil
		}

		ts.get()
	}
}

func parseStatement(ts *tokenStream) (statement, error) {

	t, err := ts.peek()
	if err != nil {
		return nil, err
	}

	if t.isKind(tokComment) {
		ts.get()
		return sComment{text: t.strVal}, nil
	}

	if t.isID() {
		return parseLet(ts, false)
	}

	if !t.isKind(tokKeyword) {
		return nil, syntaxError("unexpected input " + quoteToken(t))
	}

	switch t.strVal {
	default:
		return nil, syntaxError("unexpected input " + quoteToken(t))

	case "LET":
		ts.get()
		return parseLet(ts, true)

	case "PRINT":
		ts.get()
		return parsePrint(ts)

	case "IF":
		ts.get()
		return parseIf(ts)

	case "FOR":
		ts.get()
		return parseFor(ts)

	case "NEXT":
		ts.get()
		return parseNext(ts)

	case "WHILE":
		ts.get()
		st, err := parseSingleExpr(ts, "WHILE")
		if err != nil {
			return nil, err
		}
		return sWhile{cond: st}, nil

	case "WEND":
		ts.get()
		return sWend{}, nil

	case "GOTO":
		ts.get()
		line, err := parseLineNumber(ts, "GOTO")
		if err != nil {
			return nil, err
		}
		return sGoto{line: line}, nil

	case "GOSUB":
		ts.get()
		line, err := parseLineNumber(ts, "GOSUB")
		if err != nil {
			return nil, err
		}
		return sGosub{line: line}, nil

	case "RETURN":
		ts.get()
		return sReturn{}, nil

	case "ON":
		ts.get()
		return parseOn(ts)

	case "DATA":
		ts.get()
		return parseData(ts)

	case "READ":
		ts.get()
		return parseRead(ts)

	case "RESTORE":
		ts.get()
		return parseRestore(ts)

	case "DIM":
		ts.get()
		return parseDim(ts)

	case "DEF":
		ts.get()
		return parseDef(ts)

	case "INPUT":
		ts.get()
		return parseInput(ts)

	case "GET":
		ts.get()
		ref, err := parseLValue(ts)
		if err != nil {
			return nil, wrapParse("GET", err)
		}
		return sGet{ref: ref}, nil

	case "END":
		ts.get()
		return sEnd{}, nil

	case "STOP":
		ts.get()
		return sStop{}, nil

	case "RUN":
		ts.get()
		line := int64(0)
		if t, _ := ts.peek(); t.isInt() {
			ts.get()
			line = t.intVal
		}
		return sRun{line: line}, nil

	case "NEW":
		ts.get()
		return sNew{}, nil

	case "CLEAR":
		ts.get()
		return sClear{}, nil

	case "LIST":
		ts.get()
		rng, err := parseRange(ts, "LIST")
		if err != nil {
			return nil, err
		}
		return sList{rng: rng}, nil

	case "DELETE":
		ts.get()
		rng, err := parseRange(ts, "DELETE")
		if err != nil {
			return nil, err
		}
		if rng.from == 0 && rng.to == 0 {
			return nil, wrapParse("DELETE",
				syntaxError("expected a line range"))
		}
		return sDelete{rng: rng}, nil

	case "RENUM":
		ts.get()
		return parseRenum(ts)

	case "LOAD":
		ts.get()
		e, err := parseSingleExpr(ts, "LOAD")
		if err != nil {
			return nil, err
		}
		return sLoad{name: e}, nil

	case "SAVE":
		ts.get()
		e, err := parseSingleExpr(ts, "SAVE")
		if err != nil {
			return nil, err
		}
		return sSave{name: e}, nil

	case "REMOVE":
		ts.get()
		e, err := parseSingleExpr(ts, "REMOVE")
		if err != nil {
			return nil, err
		}
		return sRemove{name: e}, nil

	case "FILES":
		ts.get()
		return sFiles{}, nil

	case "FOLDER":
		ts.get()
		if ts.atTerminator() {
			return sFolder{}, nil
		}
		e, err := parseSingleExpr(ts, "FOLDER")
		if err != nil {
			return nil, err
		}
		return sFolder{name: e}, nil

	case "FOLDERS":
		ts.get()
		return sFolders{}, nil

	case "CLS":
		ts.get()
		return sCls{}, nil

	case "COLOR":
		ts.get()
		return parseColor(ts)

	case "LOCATE":
		ts.get()
		return parseLocate(ts)

	case "CURSOR":
		ts.get()
		return parseCursor(ts)

	case "WIDTH":
		ts.get()
		return parseWidth(ts)

	case "PAUSE":
		ts.get()
		e, err := parseSingleExpr(ts, "PAUSE")
		if err != nil {
			return nil, err
		}
		return sPause{seconds: e}, nil

	case "RANDOMIZE":
		ts.get()
		if ts.atTerminator() {
			return sRandomize{}, nil
		}
		e, err := parseSingleExpr(ts, "RANDOMIZE")
		if err != nil {
			return nil, err
		}
		return sRandomize{seed: e}, nil

	case "TRON":
		ts.get()
		return sTron{}, nil

	case "TROFF":
		ts.get()
		return sTroff{}, nil

	case "DUMP":
		ts.get()
		return sDump{}, nil

	case "STATS":
		ts.get()
		return sStats{}, nil
	}
}

func parseSingleExpr(ts *tokenStream, construct string) (expression, error) {

	e, err := parseExpression(ts)

	return e, wrapParse(construct, err)
}

func parseLineNumber(ts *tokenStream, construct string) (int64, error) {

	t, err := ts.requireInt()
	if err != nil {
		return 0, wrapParse(construct, err)
	}

	return t.intVal, nil
}

func parseLet(ts *tokenStream, explicit bool) (statement, error) {

	ref, err := parseLValue(ts)
	if err != nil {
		return nil, wrapParse("LET", err)
	}

	if _, err := ts.require(tokEqual); err != nil {
		return nil, wrapParse("LET", err)
	}

	expr, err := parseExpression(ts)
	if err != nil {
		return nil, wrapParse("LET", err)
	}

	return sLet{target: ref, expr: expr, explicit: explicit}, nil
}

//
// An lvalue is a variable name with optional subscripts.  User
// function names are not assignable
//

func parseLValue(ts *tokenStream) (lvalueRef, error) {

	t, err := ts.requireID()
	if err != nil {
		return lvalueRef{}, err
	}

	if t.isFn() {
		return lvalueRef{}, syntaxError(
			"cannot assign to function " + t.strVal)
	}

	ref := lvalueRef{name: t.strVal, kind: t.kind}

	p, err := ts.peek()
	if err != nil {
		return lvalueRef{}, err
	}

	if !p.isKind(tokLparen) {
		return ref, nil
	}

	ts.get()

	subs, err := parseExprList(ts)
	if err != nil {
		return lvalueRef{}, err
	}

	if _, err := ts.require(tokRparen); err != nil {
		return lvalueRef{}, err
	}

	ref.subs = subs

	return ref, nil
}

func parseLValueList(ts *tokenStream) ([]lvalueRef, error) {

	var refs []lvalueRef

	for {
		ref, err := parseLValue(ts)
		if err != nil {
			return nil, err
		}

		refs = append(refs, ref)

		t, err := ts.peek()
		if err != nil {
			return nil, err
		}

		if !t.isKind(tokComma) {
			return refs, nil
		}

		ts.get()
	}
}

func parsePrint(ts *tokenStream) (statement, error) {

	var items []printItem

	for !ts.atTerminator() {
		t, err := ts.peek()
		if err != nil {
			return nil, wrapParse("PRINT", err)
		}

		//
		// A bare separator is legal and just moves the cursor
		//

		switch t.kind {
		case tokSemicolon:
			ts.get()
			items = append(items, printItem{sep: sepSemi})
			continue

		case tokComma:
			ts.get()
			items = append(items, printItem{sep: sepComma})
			continue
		}

		expr, err := parseExpression(ts)
		if err != nil {
			return nil, wrapParse("PRINT", err)
		}

		item := printItem{expr: expr}

		t, err = ts.peek()
		if err != nil {
			return nil, wrapParse("PRINT", err)
		}

		switch t.kind {
		case tokSemicolon:
			ts.get()
			item.sep = sepSemi

		case tokComma:
			ts.get()
			item.sep = sepComma
		}

		items = append(items, item)
	}

	return sPrint{items: items}, nil
}

//
// IF cond THEN body [ELSE body].  A bare line number after THEN or
// ELSE is shorthand for a GOTO
//

func parseIf(ts *tokenStream) (statement, error) {

	cond, err := parseExpression(ts)
	if err != nil {
		return nil, wrapParse("IF", err)
	}

	if _, err := ts.requireKeyword("THEN"); err != nil {
		return nil, wrapParse("IF", err)
	}

	then, err := parseBranch(ts)
	if err != nil {
		return nil, wrapParse("IF", err)
	}

	st := sIf{cond: cond, then: then}

	t, err := ts.peek()
	if err != nil {
		return nil, wrapParse("IF", err)
	}

	if t.isKeyword("ELSE") {
		ts.get()

		st.els, err = parseBranch(ts)
		if err != nil {
			return nil, wrapParse("ELSE", err)
		}
	}

	return st, nil
}

func parseBranch(ts *tokenStream) ([]statement, error) {

	t, err := ts.peek()
	if err != nil {
		return nil, err
	}

	if t.isInt() {
		ts.get()
		return []statement{sGoto{line: t.intVal}}, nil
	}

	return parseStatements(ts)
}

func parseFor(ts *tokenStream) (statement, error) {

	ref, err := parseLValue(ts)
	if err != nil {
		return nil, wrapParse("FOR", err)
	}

	if ref.subs != nil || ref.kind == tokIDString {
		return nil, wrapParse("FOR",
			syntaxError("loop variable must be a numeric scalar"))
	}

	if _, err := ts.require(tokEqual); err != nil {
		return nil, wrapParse("FOR", err)
	}

	from, err := parseExpression(ts)
	if err != nil {
		return nil, wrapParse("FOR", err)
	}

	if _, err := ts.requireKeyword("TO"); err != nil {
		return nil, wrapParse("FOR", err)
	}

	to, err := parseExpression(ts)
	if err != nil {
		return nil, wrapParse("FOR", err)
	}

	st := sFor{ref: ref, from: from, to: to}

	t, err := ts.peek()
	if err != nil {
		return nil, wrapParse("FOR", err)
	}

	if t.isKeyword("STEP") {
		ts.get()

		st.step, err = parseExpression(ts)
		if err != nil {
			return nil, wrapParse("FOR", err)
		}
	}

	return st, nil
}

func parseNext(ts *tokenStream) (statement, error) {

	if ts.atTerminator() {
		return sNext{}, nil
	}

	ref, err := parseLValue(ts)
	if err != nil {
		return nil, wrapParse("NEXT", err)
	}

	return sNext{ref: &ref}, nil
}

func parseOn(ts *tokenStream) (statement, error) {

	expr, err := parseExpression(ts)
	if err != nil {
		return nil, wrapParse("ON", err)
	}

	t, err := ts.get()
	if err != nil {
		return nil, wrapParse("ON", err)
	}

	var isGosub bool

	switch {
	case t.isKeyword("GOTO"):

	case t.isKeyword("GOSUB"):
		isGosub = true

	default:
		return nil, wrapParse("ON",
			syntaxError("expected GOTO or GOSUB"))
	}

	var lines []int64

	for {
		t, err := ts.requireInt()
		if err != nil {
			return nil, wrapParse("ON", err)
		}

		lines = append(lines, t.intVal)

		p, err := ts.peek()
		if err != nil {
			return nil, wrapParse("ON", err)
		}

		if !p.isKind(tokComma) {
			break
		}

		ts.get()
	}

	return sOn{expr: expr, isGosub: isGosub, lines: lines}, nil
}

//
// DATA items are constants: strings, or numbers with an optional sign
//

func parseData(ts *tokenStream) (statement, error) {

	var items []value

	for {
		v, err := parseDataItem(ts)
		if err != nil {
			return nil, wrapParse("DATA", err)
		}

		items = append(items, v)

		t, err := ts.peek()
		if err != nil {
			return nil, wrapParse("DATA", err)
		}

		if !t.isKind(tokComma) {
			return sData{items: items}, nil
		}

		ts.get()
	}
}

//
// A DATA item is looser than a literal.  Bare identifiers and keywords
// read as strings, an empty item reads as the null value, and a minus
// sign negates what follows it
//

func parseDataItem(ts *tokenStream) (value, error) {

	t, err := ts.peek()
	if err != nil {
		return value{}, err
	}

	switch {
	case t.isInt():
		ts.get()
		return intValue(t.intVal), nil

	case t.isKind(tokFloat):
		ts.get()
		return floatValue(t.floatVal), nil

	case t.isKind(tokString), t.isID(),
		t.isKind(tokKeyword), t.isKind(tokFunction):

		ts.get()
		return stringValue(t.strVal), nil

	case t.isKind(tokMinus):
		ts.get()

		v, err := parseDataItem(ts)
		if err != nil {
			return value{}, err
		}

		switch v.kind {
		case kindInt:
			return intValue(-v.i), nil

		case kindFloat:
			return floatValue(-v.f), nil

		case kindString:
			return stringValue("-" + v.s), nil
		}

		return value{}, syntaxError("unexpected input " + quoteToken(t))
	}

	return nullValue(), nil
}

func parseRead(ts *tokenStream) (statement, error) {

	refs, err := parseLValueList(ts)
	if err != nil {
		return nil, wrapParse("READ", err)
	}

	return sRead{refs: refs}, nil
}

func parseRestore(ts *tokenStream) (statement, error) {

	if ts.atTerminator() {
		return sRestore{}, nil
	}

	t, err := ts.requireInt()
	if err != nil {
		return nil, wrapParse("RESTORE", err)
	}

	return sRestore{line: t.intVal}, nil
}

func parseDim(ts *tokenStream) (statement, error) {

	var decls []dimDecl

	for {
		t, err := ts.requireID()
		if err != nil {
			return nil, wrapParse("DIM", err)
		}

		if _, err := ts.require(tokLparen); err != nil {
			return nil, wrapParse("DIM", err)
		}

		dims, err := parseExprList(ts)
		if err != nil {
			return nil, wrapParse("DIM", err)
		}

		if _, err := ts.require(tokRparen); err != nil {
			return nil, wrapParse("DIM", err)
		}

		decls = append(decls, dimDecl{
			name: t.strVal,
			kind: t.kind,
			dims: dims,
		})

		p, err := ts.peek()
		if err != nil {
			return nil, wrapParse("DIM", err)
		}

		if !p.isKind(tokComma) {
			return sDim{decls: decls}, nil
		}

		ts.get()
	}
}

//
// DEF fnname(formal, ...) = expression.  Formals are scalars and
// shadow outer variables of the same name during a call
//

func parseDef(ts *tokenStream) (statement, error) {

	t, err := ts.requireID()
	if err != nil {
		return nil, wrapParse("DEF", err)
	}

	if !t.isFn() {
		return nil, wrapParse("DEF",
			syntaxError("function names start with fn"))
	}

	fn := userFunction{name: t.strVal}

	if _, err := ts.require(tokLparen); err != nil {
		return nil, wrapParse("DEF", err)
	}

	p, err := ts.peek()
	if err != nil {
		return nil, wrapParse("DEF", err)
	}

	if !p.isKind(tokRparen) {
		fn.formals, err = parseLValueList(ts)
		if err != nil {
			return nil, wrapParse("DEF", err)
		}

		for _, f := range fn.formals {
			if f.subs != nil {
				return nil, wrapParse("DEF",
					syntaxError("formals must be scalars"))
			}
		}
	}

	if _, err := ts.require(tokRparen); err != nil {
		return nil, wrapParse("DEF", err)
	}

	if _, err := ts.require(tokEqual); err != nil {
		return nil, wrapParse("DEF", err)
	}

	fn.body, err = parseExpression(ts)
	if err != nil {
		return nil, wrapParse("DEF", err)
	}

	return sDef{fn: fn}, nil
}

func parseInput(ts *tokenStream) (statement, error) {

	st := sInput{}

	t, err := ts.peek()
	if err != nil {
		return nil, wrapParse("INPUT", err)
	}

	if t.isKind(tokString) {
		ts.get()
		st.prompt = t.strVal

		if _, err := ts.require(tokSemicolon); err != nil {
			return nil, wrapParse("INPUT", err)
		}
	}

	st.refs, err = parseLValueList(ts)
	if err != nil {
		return nil, wrapParse("INPUT", err)
	}

	return st, nil
}

func parseRange(ts *tokenStream, construct string) (lineRange, error) {

	if ts.atTerminator() {
		return lineRange{}, nil
	}

	t, err := ts.peek()
	if err != nil {
		return lineRange{}, wrapParse(construct, err)
	}

	//
	// Anything that cannot start a range leaves the range empty, which
	// means the whole program
	//

	if !t.isInt() && !t.isKind(tokMinus) {
		return lineRange{}, nil
	}

	//
	// "-n" lists from the start
	//

	if t.isKind(tokMinus) {
		ts.get()

		t, err := ts.requireInt()
		if err != nil {
			return lineRange{}, wrapParse(construct, err)
		}

		return lineRange{to: t.intVal}, nil
	}

	t, err = ts.requireInt()
	if err != nil {
		return lineRange{}, wrapParse(construct, err)
	}

	rng := lineRange{from: t.intVal, to: t.intVal}

	p, err := ts.peek()
	if err != nil {
		return lineRange{}, wrapParse(construct, err)
	}

	if !p.isKind(tokMinus) {
		return rng, nil
	}

	ts.get()
	rng.to = 0

	p, err = ts.peek()
	if err != nil {
		return lineRange{}, wrapParse(construct, err)
	}

	if p.isInt() {
		ts.get()
		rng.to = p.intVal
	}

	return rng, nil
}

//
// [width] ::= WIDTH [exp] | WIDTH [exp] , [exp].  The second expression
// is the screen height, which the core evaluates but does not keep
//

func parseWidth(ts *tokenStream) (statement, error) {

	cols, err := parseExpression(ts)
	if err != nil {
		return nil, wrapParse("WIDTH", err)
	}

	st := sWidth{cols: cols}

	p, err := ts.peek()
	if err != nil {
		return nil, wrapParse("WIDTH", err)
	}

	if p.isKind(tokComma) {
		ts.get()

		st.rows, err = parseExpression(ts)
		if err != nil {
			return nil, wrapParse("WIDTH", err)
		}
	}

	return st, nil
}

func parseRenum(ts *tokenStream) (statement, error) {

	rng, err := parseRange(ts, "RENUM")
	if err != nil {
		return nil, err
	}

	st := sRenum{rng: rng, step: 10}

	if _, err := ts.requireKeyword("TO"); err != nil {
		return nil, wrapParse("RENUM", err)
	}

	t, err := ts.requireInt()
	if err != nil {
		return nil, wrapParse("RENUM", err)
	}

	st.start = t.intVal

	p, err := ts.peek()
	if err != nil {
		return nil, wrapParse("RENUM", err)
	}

	if p.isKind(tokComma) {
		ts.get()

		t, err := ts.requireInt()
		if err != nil {
			return nil, wrapParse("RENUM", err)
		}

		st.step = t.intVal
	}

	if st.start < 1 || st.step < 1 {
		return nil, wrapParse("RENUM",
			syntaxError("start and step must be positive"))
	}

	return st, nil
}

func parseColor(ts *tokenStream) (statement, error) {

	fg, err := parseExpression(ts)
	if err != nil {
		return nil, wrapParse("COLOR", err)
	}

	st := sColor{fg: fg}

	t, err := ts.peek()
	if err != nil {
		return nil, wrapParse("COLOR", err)
	}

	if t.isKind(tokComma) {
		ts.get()

		st.bg, err = parseExpression(ts)
		if err != nil {
			return nil, wrapParse("COLOR", err)
		}
	}

	return st, nil
}

func parseLocate(ts *tokenStream) (statement, error) {

	row, err := parseExpression(ts)
	if err != nil {
		return nil, wrapParse("LOCATE", err)
	}

	if _, err := ts.require(tokComma); err != nil {
		return nil, wrapParse("LOCATE", err)
	}

	col, err := parseExpression(ts)
	if err != nil {
		return nil, wrapParse("LOCATE", err)
	}

	return sLocate{row: row, col: col}, nil
}

func parseCursor(ts *tokenStream) (statement, error) {

	t, err := ts.get()
	if err != nil {
		return nil, wrapParse("CURSOR", err)
	}

	switch {
	case t.isKeyword("ON"):
		return sCursor{on: true}, nil

	case t.isKeyword("OFF"):
		return sCursor{on: false}, nil
	}

	return nil, wrapParse("CURSOR", syntaxError("expected ON or OFF"))
}

//
// The expression grammar, one function per precedence level, loosest
// binding first:
//
//	exp0:  OR
//	exp1:  AND
//	exp2:  = <>
//	exp3:  < <= > >=
//	exp4:  + -
//	exp5:  * / MOD
//	exp6:  unary + - NOT
//	exp7:  ^ (right associative)
//	exp8:  literals, variables, calls, parentheses
//

func parseExpression(ts *tokenStream) (expression, error) {

	e, err := parseExp0(ts)

	return e, wrapParse("expression", err)
}

func parseExp0(ts *tokenStream) (expression, error) {

	e, err := parseExp1(ts)
	if err != nil {
		return nil, err
	}

	for {
		t, err := ts.peek()
		if err != nil {
			return nil, err
		}

		if !t.isKeyword("OR") {
			return e, nil
		}

		ts.get()

		rhs, err := parseExp1(ts)
		if err != nil {
			return nil, err
		}

		e = eBinary{op: opOr, a: e, b: rhs}
	}
}

func parseExp1(ts *tokenStream) (expression, error) {

	e, err := parseExp2(ts)
	if err != nil {
		return nil, err
	}

	for {
		t, err := ts.peek()
		if err != nil {
			return nil, err
		}

		if !t.isKeyword("AND") {
			return e, nil
		}

		ts.get()

		rhs, err := parseExp2(ts)
		if err != nil {
			return nil, err
		}

		e = eBinary{op: opAnd, a: e, b: rhs}
	}
}

func parseExp2(ts *tokenStream) (expression, error) {

	e, err := parseExp3(ts)
	if err != nil {
		return nil, err
	}

	for {
		t, err := ts.peek()
		if err != nil {
			return nil, err
		}

		var op binaryOp

		switch t.kind {
		default:
			return e, nil

		case tokEqual:
			op = opEq

		case tokNequal:
			op = opNe
		}

		ts.get()

		rhs, err := parseExp3(ts)
		if err != nil {
			return nil, err
		}

		e = eBinary{op: op, a: e, b: rhs}
	}
}

func parseExp3(ts *tokenStream) (expression, error) {

	e, err := parseExp4(ts)
	if err != nil {
		return nil, err
	}

	for {
		t, err := ts.peek()
		if err != nil {
			return nil, err
		}

		var op binaryOp

		switch t.kind {
		default:
			return e, nil

		case tokLt:
			op = opLt

		case tokLeq:
			op = opLe

		case tokGt:
			op = opGt

		case tokGeq:
			op = opGe
		}

		ts.get()

		rhs, err := parseExp4(ts)
		if err != nil {
			return nil, err
		}

		e = eBinary{op: op, a: e, b: rhs}
	}
}

func parseExp4(ts *tokenStream) (expression, error) {

	e, err := parseExp5(ts)
	if err != nil {
		return nil, err
	}

	for {
		t, err := ts.peek()
		if err != nil {
			return nil, err
		}

		var op binaryOp

		switch t.kind {
		default:
			return e, nil

		case tokPlus:
			op = opAdd

		case tokMinus:
			op = opSubtract
		}

		ts.get()

		rhs, err := parseExp5(ts)
		if err != nil {
			return nil, err
		}

		e = eBinary{op: op, a: e, b: rhs}
	}
}

func parseExp5(ts *tokenStream) (expression, error) {

	e, err := parseExp6(ts)
	if err != nil {
		return nil, err
	}

	for {
		t, err := ts.peek()
		if err != nil {
			return nil, err
		}

		var op binaryOp

		switch {
		default:
			return e, nil

		case t.isKind(tokTimes):
			op = opMultiply

		case t.isKind(tokDivide):
			op = opDivide

		case t.isKeyword("MOD"):
			op = opMod
		}

		ts.get()

		rhs, err := parseExp6(ts)
		if err != nil {
			return nil, err
		}

		e = eBinary{op: op, a: e, b: rhs}
	}
}

func parseExp6(ts *tokenStream) (expression, error) {

	t, err := ts.peek()
	if err != nil {
		return nil, err
	}

	switch {
	case t.isKind(tokMinus):
		ts.get()

		e, err := parseExp6(ts)
		if err != nil {
			return nil, err
		}

		return eUnary{op: opNegate, a: e}, nil

	case t.isKind(tokPlus):
		ts.get()

		return parseExp6(ts)

	case t.isKeyword("NOT"):
		ts.get()

		e, err := parseExp6(ts)
		if err != nil {
			return nil, err
		}

		return eUnary{op: opNot, a: e}, nil
	}

	return parseExp7(ts)
}

func parseExp7(ts *tokenStream) (expression, error) {

	e, err := parseExp8(ts)
	if err != nil {
		return nil, err
	}

	t, err := ts.peek()
	if err != nil {
		return nil, err
	}

	if !t.isKind(tokPower) {
		return e, nil
	}

	ts.get()

	rhs, err := parseExp7(ts)
	if err != nil {
		return nil, err
	}

	return eBinary{op: opPower, a: e, b: rhs}, nil
}

func parseExp8(ts *tokenStream) (expression, error) {

	t, err := ts.get()
	if err != nil {
		return nil, err
	}

	switch {
	case t.isKind(tokInt) || t.isKind(tokIntBin) || t.isKind(tokIntHex):
		return eLiteral{val: intValue(t.intVal)}, nil

	case t.isKind(tokFloat):
		return eLiteral{val: floatValue(t.floatVal)}, nil

	case t.isKind(tokString):
		return eLiteral{val: stringValue(t.strVal)}, nil

	case t.isKind(tokLparen):
		inner, err := parseExp0(ts)
		if err != nil {
			return nil, err
		}

		if _, err := ts.require(tokRparen); err != nil {
			return nil, err
		}

		return eParen{inner: inner}, nil

	case t.isKind(tokFunction):
		return parseBuiltinCall(ts, t.strVal)

	case t.isFn():
		return parseFnCall(ts, t)

	case t.isID():
		ref := lvalueRef{name: t.strVal, kind: t.kind}

		p, err := ts.peek()
		if err != nil {
			return nil, err
		}

		if !p.isKind(tokLparen) {
			return ref, nil
		}

		ts.get()

		ref.subs, err = parseExprList(ts)
		if err != nil {
			return nil, err
		}

		if _, err := ts.require(tokRparen); err != nil {
			return nil, err
		}

		return ref, nil
	}

	return nil, syntaxError("unexpected input " + quoteToken(t))
}

//
// Builtin calls have their argument count checked here, against the
// arity table.  Zero-argument builtins take no parentheses at all
//

func parseBuiltinCall(ts *tokenStream, name string) (expression, error) {

	bounds := builtinArity[name]

	call := eCall{name: name}

	t, err := ts.peek()
	if err != nil {
		return nil, wrapParse(name, err)
	}

	if t.isKind(tokLparen) && bounds.max > 0 {
		ts.get()

		call.args, err = parseExprList(ts)
		if err != nil {
			return nil, wrapParse(name, err)
		}

		if _, err := ts.require(tokRparen); err != nil {
			return nil, wrapParse(name, err)
		}
	}

	if len(call.args) < bounds.min || len(call.args) > bounds.max {
		return nil, wrapParse(name, syntaxError(fmt.Sprintf(
			"wrong number of arguments (want %d-%d, got %d)",
			bounds.min, bounds.max, len(call.args))))
	}

	return call, nil
}

func parseFnCall(ts *tokenStream, t token) (expression, error) {

	call := eFnCall{ref: lvalueRef{name: t.strVal, kind: t.kind}}

	if _, err := ts.require(tokLparen); err != nil {
		return nil, wrapParse(t.strVal, err)
	}

	p, err := ts.peek()
	if err != nil {
		return nil, wrapParse(t.strVal, err)
	}

	if !p.isKind(tokRparen) {
		call.args, err = parseExprList(ts)
		if err != nil {
			return nil, wrapParse(t.strVal, err)
		}
	}

	if _, err := ts.require(tokRparen); err != nil {
		return nil, wrapParse(t.strVal, err)
	}

	return call, nil
}

func parseExprList(ts *tokenStream) ([]expression, error) {

	var exps []expression

	for {
		e, err := parseExp0(ts)
		if err != nil {
			return nil, err
		}

		exps = append(exps, e)

		t, err := ts.peek()
		if err != nil {
			return nil, err
		}

		if !t.isKind(tokComma) {
			return exps, nil
		}

		ts.get()
	}
}