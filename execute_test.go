package gobasic

import (
	"strings"
	"testing"
)

func newTestSession() (*Session, *strings.Builder) {

	var b strings.Builder

	s := NewSession(WriterOutput(func(text string) {
		b.WriteString(text)
	}), nil)

	return s, &b
}

func feed(t *testing.T, s *Session, lines ...string) {

	t.Helper()

	for _, line := range lines {
		if err := s.Execute(line); err != nil {
			t.Fatalf("Execute(%q): %v", line, err)
		}
	}
}

func runProgram(t *testing.T, lines ...string) (string, *Session) {

	t.Helper()

	s, b := newTestSession()

	feed(t, s, lines...)
	feed(t, s, "run")

	return b.String(), s
}

func TestHelloRun(t *testing.T) {

	out, s := runProgram(t, `10 print "HI"`)

	if out != "HI\n" {
		t.Errorf("output %q, want %q", out, "HI\n")
	}

	if s.State() != StateEnded {
		t.Errorf("state = %v, want ended", s.State())
	}
}

func TestImmediateStatement(t *testing.T) {

	s, b := newTestSession()

	feed(t, s, `print "now"`)

	if b.String() != "now\n" {
		t.Errorf("output %q", b.String())
	}

	if s.State() != StateReady {
		t.Errorf("state = %v, want ready", s.State())
	}
}

//
// Equality binds looser than ordering, and NOT sits with the unary
// operators, so these chains group the classic BASIC way
//

func TestOperatorGrouping(t *testing.T) {

	tests := []struct {
		in   string
		want string
	}{
		{"print 2 = 1 < 3", " 0 \n"},
		{"print not 1 + 1", "-1 \n"},
		{"print 1 + not 2", "-2 \n"},
	}

	for _, tc := range tests {
		s, b := newTestSession()

		feed(t, s, tc.in)

		if b.String() != tc.want {
			t.Errorf("%q printed %q, want %q", tc.in, b.String(), tc.want)
		}
	}
}

func TestComparisonChainAssignment(t *testing.T) {

	out, _ := runProgram(t,
		"10 a% = 2 = 1 < 3",
		"20 print a%",
	)

	if out != " 0 \n" {
		t.Errorf("output %q, want %q", out, " 0 \n")
	}
}

func TestForLoopCount(t *testing.T) {

	out, _ := runProgram(t,
		"10 for i = 1 to 5",
		"20 c = c + 1",
		"30 next",
		"40 print c",
	)

	if out != " 5 \n" {
		t.Errorf("output %q, want %q", out, " 5 \n")
	}
}

func TestForZeroTripSkipsBody(t *testing.T) {

	out, _ := runProgram(t,
		"10 for i = 5 to 1",
		`20 print "body"`,
		"30 next",
		`40 print "done"`,
	)

	if out != "done\n" {
		t.Errorf("output %q, want %q", out, "done\n")
	}
}

func TestForNegativeStep(t *testing.T) {

	out, _ := runProgram(t,
		"10 for i = 3 to 1 step -1",
		"20 print i;",
		"30 next i",
	)

	if out != " 3  2  1 " {
		t.Errorf("output %q", out)
	}
}

func TestNestedForNamedNext(t *testing.T) {

	out, _ := runProgram(t,
		"10 for i = 1 to 2",
		"20 for j = 1 to 2",
		"30 c = c + 1",
		"40 next j",
		"50 next i",
		"60 print c",
	)

	if out != " 4 \n" {
		t.Errorf("output %q, want %q", out, " 4 \n")
	}
}

func TestNextWithoutFor(t *testing.T) {

	s, _ := newTestSession()

	if err := s.Execute("next"); err == nil {
		t.Error("want NEXT without FOR error")
	}
}

func TestGosubReturn(t *testing.T) {

	out, _ := runProgram(t,
		"10 gosub 100",
		`20 print "back"`,
		"30 end",
		`100 print "sub"`,
		"110 return",
	)

	if out != "sub\nback\n" {
		t.Errorf("output %q", out)
	}
}

func TestGosubNestsLifo(t *testing.T) {

	out, _ := runProgram(t,
		"10 gosub 100",
		`20 print "main" : end`,
		"100 gosub 200",
		`110 print "one"`,
		"120 return",
		`200 print "two"`,
		"210 return",
	)

	if out != "two\none\nmain\n" {
		t.Errorf("output %q", out)
	}
}

func TestReturnWithoutGosub(t *testing.T) {

	s, _ := newTestSession()

	err := s.Execute("return")
	if !IsStackUnderflow(err) {
		t.Errorf("want stack underflow, got %v", err)
	}
}

func TestGotoUndefinedLine(t *testing.T) {

	s, _ := newTestSession()

	feed(t, s, "10 goto 999")

	err := s.Execute("run")
	if !IsUndefinedLine(err) {
		t.Errorf("want undefined line error, got %v", err)
	}

	if s.State() != StateEnded {
		t.Errorf("state = %v, want ended", s.State())
	}
}

func TestOnGotoDispatch(t *testing.T) {

	out, _ := runProgram(t,
		"10 n = 2",
		"20 on n goto 40, 50",
		`30 print "fell" : end`,
		`40 print "one" : end`,
		`50 print "two"`,
	)

	if out != "two\n" {
		t.Errorf("output %q", out)
	}
}

func TestOnGotoOutOfRangeFallsThrough(t *testing.T) {

	out, _ := runProgram(t,
		"10 n = 7",
		"20 on n goto 40, 50",
		`30 print "fell" : end`,
		`40 print "one" : end`,
		`50 print "two"`,
	)

	if out != "fell\n" {
		t.Errorf("output %q", out)
	}
}

func TestIfElseBranches(t *testing.T) {

	out, _ := runProgram(t,
		"10 x = 3",
		`20 if x > 2 then print "big" else print "small"`,
		`30 if x > 5 then print "huge" else print "modest"`,
	)

	if out != "big\nmodest\n" {
		t.Errorf("output %q", out)
	}
}

func TestWhileWend(t *testing.T) {

	out, _ := runProgram(t,
		"10 i = 0",
		"20 while i < 3",
		"30 i = i + 1",
		"40 wend",
		"50 print i",
	)

	if out != " 3 \n" {
		t.Errorf("output %q", out)
	}
}

func TestWhileFalseSkipsToWend(t *testing.T) {

	out, _ := runProgram(t,
		"10 while 0",
		`20 print "no"`,
		"30 wend",
		`40 print "yes"`,
	)

	if out != "yes\n" {
		t.Errorf("output %q", out)
	}
}

func TestDataReadRestore(t *testing.T) {

	out, _ := runProgram(t,
		"10 data 1",
		"20 data 2",
		"30 read a : restore 20 : read b",
		"40 print a; b",
	)

	if out != " 1  2 \n" {
		t.Errorf("output %q", out)
	}
}

func TestReadCoercesKinds(t *testing.T) {

	out, _ := runProgram(t,
		`10 data 1, 2.5, "three"`,
		"20 read a%, b, c$",
		"30 print a%; b; c$",
	)

	if out != " 1  2.5 three\n" {
		t.Errorf("output %q", out)
	}
}

//
// Empty DATA items carry the null value, which reads as zero into a
// numeric target and as the empty string into a string target
//

//
// Oversized DIM bounds surface as a subscript error through the
// session instead of faulting it
//

func TestDimHugeBoundsReported(t *testing.T) {

	s, b := newTestSession()

	err := s.Execute("dim a(4000000000, 4000000000)")
	if err == nil {
		t.Fatal("oversized DIM: want error")
	}

	if !strings.Contains(b.String(), EBADSUBSCRIPT) {
		t.Errorf("output %q, want subscript report", b.String())
	}

	feed(t, s, `print "alive"`)

	if !strings.HasSuffix(b.String(), "alive\n") {
		t.Errorf("session unusable after DIM error: %q", b.String())
	}
}

func TestReadEmptyDataAsNull(t *testing.T) {

	out, _ := runProgram(t,
		"10 data 1,,3",
		"20 read a%, b%, c%",
		"30 print a%; b%; c%",
		"40 data ,",
		"50 read s$, x",
		`60 print s$; "|"; x`,
	)

	if out != " 1  0  3 \n| 0 \n" {
		t.Errorf("output %q", out)
	}
}

func TestOutOfData(t *testing.T) {

	s, _ := newTestSession()

	feed(t, s, "10 data 1", "20 read a, b")

	err := s.Execute("run")
	if !IsOutOfData(err) {
		t.Errorf("want out of data, got %v", err)
	}
}

func TestInputSuspendsAndResumes(t *testing.T) {

	s, b := newTestSession()

	feed(t, s,
		`10 input "age"; a`,
		"20 print a * 2",
		"run",
	)

	if s.State() != StateAwaitingInput {
		t.Fatalf("state = %v, want awaiting input", s.State())
	}

	if b.String() != "age? " {
		t.Errorf("prompt output %q", b.String())
	}

	if err := s.ResumeInput("21"); err != nil {
		t.Fatal(err)
	}

	if !strings.HasSuffix(b.String(), " 42 \n") {
		t.Errorf("output %q", b.String())
	}

	if s.State() != StateEnded {
		t.Errorf("state = %v, want ended", s.State())
	}
}

func TestInputMultipleTargets(t *testing.T) {

	s, b := newTestSession()

	feed(t, s, "10 input a, b$", "20 print b$; a", "run")

	if err := s.ResumeInput("3, hello"); err != nil {
		t.Fatal(err)
	}

	if !strings.HasSuffix(b.String(), "hello 3 \n") {
		t.Errorf("output %q", b.String())
	}
}

func TestInputRedoOnBadValue(t *testing.T) {

	s, b := newTestSession()

	feed(t, s, "10 input a", "run")

	if err := s.ResumeInput("not a number"); err != nil {
		t.Fatal(err)
	}

	if s.State() != StateAwaitingInput {
		t.Fatalf("state = %v, want still awaiting", s.State())
	}

	if !strings.Contains(b.String(), "?Redo from start") {
		t.Errorf("output %q", b.String())
	}

	if err := s.ResumeInput("5"); err != nil {
		t.Fatal(err)
	}

	if s.State() != StateEnded {
		t.Errorf("state = %v, want ended", s.State())
	}
}

func TestGetKey(t *testing.T) {

	s, b := newTestSession()

	feed(t, s, "10 get k$", "20 get n", "30 print k$; n", "run")

	if !s.AwaitingKey() {
		t.Fatal("want AwaitingKey")
	}

	if err := s.ResumeKey('A'); err != nil {
		t.Fatal(err)
	}

	if err := s.ResumeKey('B'); err != nil {
		t.Fatal(err)
	}

	if !strings.HasSuffix(b.String(), "A 66 \n") {
		t.Errorf("output %q", b.String())
	}
}

func TestStopState(t *testing.T) {

	out, s := runProgram(t, `10 print "x"`, "20 stop", `30 print "y"`)

	if s.State() != StateStopped {
		t.Errorf("state = %v, want stopped", s.State())
	}

	if !strings.Contains(out, "Stopped at line 20") {
		t.Errorf("output %q", out)
	}

	if strings.Contains(out, "y") {
		t.Error("statements after STOP ran")
	}
}

func TestRuntimeErrorCarriesLine(t *testing.T) {

	s, b := newTestSession()

	feed(t, s, "10 x = 1", "20 print 1 / 0")

	err := s.Execute("run")
	if err == nil {
		t.Fatal("want error")
	}

	if !strings.Contains(err.Error(), "Division by 0") ||
		!strings.Contains(err.Error(), "at line 20") {
		t.Errorf("error %q", err)
	}

	if !strings.Contains(b.String(), "at line 20") {
		t.Errorf("error not reported to output: %q", b.String())
	}
}

func TestUserFunction(t *testing.T) {

	out, _ := runProgram(t,
		"10 def fnsq(x) = x * x",
		"20 print fnsq(4)",
	)

	if out != " 16 \n" {
		t.Errorf("output %q", out)
	}
}

func TestUserFunctionFormalsShadow(t *testing.T) {

	out, _ := runProgram(t,
		"10 x = 100",
		"20 def fninc(x) = x + 1",
		"30 print fninc(5); x",
	)

	if out != " 6  100 \n" {
		t.Errorf("output %q", out)
	}
}

func TestUserFunctionNoRecursion(t *testing.T) {

	s, _ := newTestSession()

	feed(t, s,
		"10 def fnr(x) = fnr(x - 1)",
		"20 print fnr(3)",
	)

	if err := s.Execute("run"); err == nil {
		t.Error("want error for recursive user function")
	}
}

func TestRunClearsVariables(t *testing.T) {

	s, b := newTestSession()

	feed(t, s, "x = 42", "10 print x", "run")

	if !strings.HasSuffix(b.String(), " 0 \n") {
		t.Errorf("output %q, variables survived RUN", b.String())
	}
}

func TestTrace(t *testing.T) {

	s, b := newTestSession()

	feed(t, s, "10 print 1", "20 print 2", "tron", "run")

	out := b.String()

	if !strings.Contains(out, "[10]") || !strings.Contains(out, "[20]") {
		t.Errorf("trace output %q", out)
	}
}

func TestListCanonicalizes(t *testing.T) {

	s, b := newTestSession()

	feed(t, s, `10 print   "HI"`, "20 goto   10", "list")

	out := b.String()

	if !strings.Contains(out, "10 PRINT \"HI\"\n") ||
		!strings.Contains(out, "20 GOTO 10\n") {
		t.Errorf("list output %q", out)
	}
}

func TestLineDeletionByBareNumber(t *testing.T) {

	s, b := newTestSession()

	feed(t, s, "10 print 1", "20 print 2", "10", "list")

	if strings.Contains(b.String(), "10 ") {
		t.Errorf("line 10 survived deletion: %q", b.String())
	}
}

func TestPrintZones(t *testing.T) {

	s, b := newTestSession()

	feed(t, s, `print "a", "b"`)

	if b.String() != "a             b\n" {
		t.Errorf("output %q", b.String())
	}
}

func TestInterruptStopsRun(t *testing.T) {

	s, b := newTestSession()

	feed(t, s, "10 input a", `20 print "after"`, "run")

	s.Interrupt()

	if err := s.ResumeInput("1"); err != nil {
		t.Fatal(err)
	}

	if s.State() != StateStopped {
		t.Errorf("state = %v, want stopped", s.State())
	}

	if strings.Contains(b.String(), "after") {
		t.Error("statements ran past the interrupt")
	}
}

func TestExecuteWhileAwaitingInputRejected(t *testing.T) {

	s, _ := newTestSession()

	feed(t, s, "10 input a", "run")

	if err := s.Execute("print 1"); err == nil {
		t.Error("want error while awaiting input")
	}
}
