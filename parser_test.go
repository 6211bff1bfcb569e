package gobasic

import (
	"strings"
	"testing"
)

func parseOne(t *testing.T, text string) []statement {

	t.Helper()

	num, stmts, err := parseLine(text)
	if err != nil {
		t.Fatalf("parseLine(%q): %v", text, err)
	}

	if num != 0 {
		t.Fatalf("parseLine(%q): unexpected line number %d", text, num)
	}

	return stmts
}

//
// Canonical round trip: parsing a statement and rendering it back
// reproduces the canonical text, and re-parsing the render is stable
//

func TestRenderRoundTrip(t *testing.T) {

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "let", in: "let X = 1+2*3", want: "LET x = 1 + 2 * 3"},
		{name: "implicit let", in: "a$=\"HI\"", want: `a$ = "HI"`},
		{name: "parens kept", in: "x=(1+2)*3", want: "x = (1 + 2) * 3"},
		{name: "print alias", in: "? 5", want: "PRINT 5"},
		{name: "print items", in: `print "A";"B","C"`,
			want: `PRINT "A"; "B", "C"`},
		{name: "print trailing semi", in: "print x;", want: "PRINT x;"},
		{name: "if else", in: `if x>1 then print "big" else 100`,
			want: `IF x > 1 THEN PRINT "big" ELSE GOTO 100`},
		{name: "for step", in: "for i=1 to 10 step 2",
			want: "FOR i = 1 TO 10 STEP 2"},
		{name: "next named", in: "next i", want: "NEXT i"},
		{name: "while", in: "while x<10", want: "WHILE x < 10"},
		{name: "on gosub", in: "on n gosub 10,20,30",
			want: "ON n GOSUB 10, 20, 30"},
		{name: "data", in: `data 1,-2.5,"three"`,
			want: `DATA 1, -2.5, "three"`},
		{name: "data empty item", in: "data 1,,2",
			want: "DATA 1, , 2"},
		{name: "data bare word", in: "data red, green",
			want: `DATA "red", "green"`},
		{name: "read", in: "read a, b$(2)", want: "READ a, b$(2)"},
		{name: "dim", in: "dim a(10), b$(3,4)",
			want: "DIM a(10), b$(3, 4)"},
		{name: "def fn", in: "def fnsq(x) = x*x",
			want: "DEF fnsq(x) = x * x"},
		{name: "input prompt", in: `input "name"; n$`,
			want: `INPUT "name"; n$`},
		{name: "get", in: "get k$", want: "GET k$"},
		{name: "comment", in: "rem  keep   spacing",
			want: "REM  keep   spacing"},
		{name: "tick comment", in: "'note", want: "REM note"},
		{name: "colon chain", in: "x=1:y=2:goto 10",
			want: "x = 1 : y = 2 : GOTO 10"},
		{name: "not", in: "f = not a and b", want: "f = NOT a AND b"},
		{name: "mod power", in: "x = a mod 2 ^ 3", want: "x = a MOD 2 ^ 3"},
		{name: "builtin call", in: "s$ = left$(t$, 3)",
			want: "s$ = LEFT$(t$, 3)"},
		{name: "zero arg builtin", in: "d$ = date$", want: "d$ = DATE$"},
		{name: "list range", in: "list 10-200", want: "LIST 10-200"},
		{name: "list open", in: "list 10-", want: "LIST 10-"},
		{name: "list to", in: "list -300", want: "LIST -300"},
		{name: "renum whole", in: "renum to 100", want: "RENUM TO 100"},
		{name: "renum step", in: "renum to 100, 5", want: "RENUM TO 100, 5"},
		{name: "renum range", in: "renum 50- to 500, 10",
			want: "RENUM 50- TO 500"},
		{name: "restore line", in: "restore 50", want: "RESTORE 50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts := parseOne(t, tt.in)

			got := renderStatements(stmts)
			if got != tt.want {
				t.Fatalf("render = %q, want %q", got, tt.want)
			}

			again := parseOne(t, got)
			if renderStatements(again) != got {
				t.Errorf("re-parse of %q is not stable: %q", got,
					renderStatements(again))
			}
		})
	}
}

func TestNumberedLine(t *testing.T) {

	num, stmts, err := parseLine("10 print 1")
	if err != nil {
		t.Fatal(err)
	}

	if num != 10 || len(stmts) != 1 {
		t.Errorf("got line %d with %d statements", num, len(stmts))
	}
}

func TestBareNumberMeansDeletion(t *testing.T) {

	num, stmts, err := parseLine("10")
	if err != nil {
		t.Fatal(err)
	}

	if num != 10 || stmts != nil {
		t.Errorf("got line %d, statements %v", num, stmts)
	}
}

func TestThenIntegerBecomesGoto(t *testing.T) {

	stmts := parseOne(t, "if x then 100")

	ifStmt, ok := stmts[0].(sIf)
	if !ok {
		t.Fatalf("got %T", stmts[0])
	}

	g, ok := ifStmt.then[0].(sGoto)
	if !ok || g.line != 100 {
		t.Errorf("THEN branch = %+v, want GOTO 100", ifStmt.then)
	}
}

func TestPrecedenceShape(t *testing.T) {

	stmts := parseOne(t, "x = 1 + 2 * 3")

	let := stmts[0].(sLet)

	add, ok := let.expr.(eBinary)
	if !ok || add.op != opAdd {
		t.Fatalf("top of tree is %+v, want add", let.expr)
	}

	mul, ok := add.b.(eBinary)
	if !ok || mul.op != opMultiply {
		t.Errorf("right of add is %+v, want multiply", add.b)
	}
}

//
// Equality binds looser than the ordering comparisons, so the second
// = in a LET chains under the relational operator, not over it
//

func TestEqualityLooserThanRelational(t *testing.T) {

	stmts := parseOne(t, "a% = 2 = 1 < 3")

	let := stmts[0].(sLet)

	eq, ok := let.expr.(eBinary)
	if !ok || eq.op != opEq {
		t.Fatalf("top of tree is %+v, want equality", let.expr)
	}

	if lt, ok := eq.b.(eBinary); !ok || lt.op != opLt {
		t.Errorf("right of equality is %+v, want less-than", eq.b)
	}
}

func TestNotIsUnaryLevel(t *testing.T) {

	stmts := parseOne(t, "x = not 1 + 1")

	let := stmts[0].(sLet)

	add, ok := let.expr.(eBinary)
	if !ok || add.op != opAdd {
		t.Fatalf("top of tree is %+v, want add", let.expr)
	}

	if not, ok := add.a.(eUnary); !ok || not.op != opNot {
		t.Errorf("left of add is %+v, want NOT", add.a)
	}

	stmts = parseOne(t, "x = 1 + not 2")

	let = stmts[0].(sLet)

	add, ok = let.expr.(eBinary)
	if !ok || add.op != opAdd {
		t.Fatalf("top of tree is %+v, want add", let.expr)
	}

	if not, ok := add.b.(eUnary); !ok || not.op != opNot {
		t.Errorf("right of add is %+v, want NOT", add.b)
	}
}

func TestPowerIsRightAssociative(t *testing.T) {

	stmts := parseOne(t, "x = 2 ^ 3 ^ 2")

	let := stmts[0].(sLet)

	outer := let.expr.(eBinary)
	if outer.op != opPower {
		t.Fatalf("top op = %d, want power", outer.op)
	}

	if inner, ok := outer.b.(eBinary); !ok || inner.op != opPower {
		t.Errorf("right side = %+v, want nested power", outer.b)
	}
}

func TestBuiltinArityChecked(t *testing.T) {

	tests := []string{
		"x$ = left$(\"abc\")",
		"n = len()",
		"n = rnd(1, 2)",
		"n = instr(\"a\")",
	}

	for _, text := range tests {
		if _, _, err := parseLine(text); err == nil {
			t.Errorf("parseLine(%q): want arity error", text)
		}
	}
}

func TestParseErrorContext(t *testing.T) {

	_, _, err := parseLine("for = 1 to 2")
	if err == nil {
		t.Fatal("want error")
	}

	if !IsSyntaxError(err) {
		t.Errorf("want syntax error, got %v", err)
	}

	if !strings.Contains(err.Error(), "in FOR") {
		t.Errorf("error %q does not name the construct", err)
	}
}

func TestElseWithoutIf(t *testing.T) {

	if _, _, err := parseLine("print 1 else print 2"); err == nil {
		t.Error("want error for stray ELSE")
	}
}

func TestUserFunctionCallParses(t *testing.T) {

	stmts := parseOne(t, "y = fnsq(3) + 1")

	let := stmts[0].(sLet)

	add := let.expr.(eBinary)

	call, ok := add.a.(eFnCall)
	if !ok || call.ref.name != "fnsq" || len(call.args) != 1 {
		t.Errorf("left side = %+v, want fnsq call", add.a)
	}
}

func TestStringTargetInForRejected(t *testing.T) {

	if _, _, err := parseLine("for s$ = 1 to 2"); err == nil {
		t.Error("want error for string loop variable")
	}
}
