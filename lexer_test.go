package gobasic

import (
	"strings"
	"testing"
)

func tokenize(t *testing.T, text string) []token {

	t.Helper()

	ts := newTokenStream(text)

	var tokens []token

	for {
		tok, err := ts.get()
		if err != nil {
			t.Fatalf("tokenize %q: %v", text, err)
		}

		if tok.isKind(tokEOF) {
			return tokens
		}

		tokens = append(tokens, tok)
	}
}

func TestTokenizeStatement(t *testing.T) {

	tokens := tokenize(t, `10 PRINT "HI"; X%, 3.5`)

	want := []token{
		newIntToken(tokInt, 10),
		newStringToken(tokIDFloat, "PRINT"),
		newStringToken(tokString, "HI"),
		newToken(tokSemicolon),
		newStringToken(tokIDInt, "X%"),
		newToken(tokComma),
		newFloatToken(3.5),
	}

	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(want),
			tokens)
	}

	for i, tok := range tokens {
		if tok != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, tok, want[i])
		}
	}
}

func TestKeywordPromotion(t *testing.T) {

	tokens := tokenize(t, "goto Goto GOTO")

	for i, tok := range tokens {
		if !tok.isKeyword("GOTO") {
			t.Errorf("token %d = %+v, want keyword GOTO", i, tok)
		}
	}
}

func TestFunctionPromotion(t *testing.T) {

	tokens := tokenize(t, "left$ SIN")

	if !tokens[0].isKind(tokFunction) || tokens[0].strVal != "LEFT$" {
		t.Errorf("left$ lexed as %+v", tokens[0])
	}

	if !tokens[1].isKind(tokFunction) || tokens[1].strVal != "SIN" {
		t.Errorf("SIN lexed as %+v", tokens[1])
	}
}

func TestIdentifierCaseFolding(t *testing.T) {

	tokens := tokenize(t, "FooBar$")

	if tokens[0].strVal != "foobar$" || !tokens[0].isKind(tokIDString) {
		t.Errorf("FooBar$ lexed as %+v", tokens[0])
	}
}

func TestQuestionMarkIsPrint(t *testing.T) {

	tokens := tokenize(t, "? 1")

	if !tokens[0].isKeyword("PRINT") {
		t.Errorf("? lexed as %+v, want keyword PRINT", tokens[0])
	}
}

func TestRemDetection(t *testing.T) {

	tests := []struct {
		name string
		text string
		want token
	}{
		{name: "plain", text: "REM hello world",
			want: newStringToken(tokComment, "hello world")},
		{name: "lower", text: "rem note",
			want: newStringToken(tokComment, "note")},
		{name: "bare", text: "REM",
			want: newStringToken(tokComment, "")},
		{name: "tick", text: "' tail",
			want: newStringToken(tokComment, " tail")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := tokenize(t, tt.text)

			if len(tokens) != 1 || tokens[0] != tt.want {
				t.Errorf("%q lexed as %v, want %+v", tt.text, tokens,
					tt.want)
			}
		})
	}
}

func TestRemPrefixIsIdentifier(t *testing.T) {

	tokens := tokenize(t, "remark")

	if !tokens[0].isKind(tokIDFloat) || tokens[0].strVal != "remark" {
		t.Errorf("remark lexed as %+v, want identifier", tokens[0])
	}
}

func TestNumericBases(t *testing.T) {

	tests := []struct {
		text string
		want token
	}{
		{text: "&B1010", want: newIntToken(tokIntBin, 10)},
		{text: "&HFF", want: newIntToken(tokIntHex, 255)},
		{text: "&hff", want: newIntToken(tokIntHex, 255)},
	}

	for _, tt := range tests {
		tokens := tokenize(t, tt.text)

		if len(tokens) != 1 || tokens[0] != tt.want {
			t.Errorf("%q lexed as %v, want %+v", tt.text, tokens, tt.want)
		}
	}
}

func TestFloats(t *testing.T) {

	tests := []struct {
		text string
		want float64
	}{
		{text: "3.25", want: 3.25},
		{text: ".5", want: 0.5},
		{text: "1e3", want: 1000},
		{text: "2.5e-1", want: 0.25},
	}

	for _, tt := range tests {
		tokens := tokenize(t, tt.text)

		if len(tokens) != 1 || !tokens[0].isKind(tokFloat) ||
			tokens[0].floatVal != tt.want {
			t.Errorf("%q lexed as %v, want float %g", tt.text, tokens,
				tt.want)
		}
	}
}

func TestTwoCharOperators(t *testing.T) {

	tokens := tokenize(t, "<= >= <> < >")

	wantKinds := []tokenKind{tokLeq, tokGeq, tokNequal, tokLt, tokGt}

	if len(tokens) != len(wantKinds) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(wantKinds))
	}

	for i, kind := range wantKinds {
		if !tokens[i].isKind(kind) {
			t.Errorf("token %d = %+v, want kind %d", i, tokens[i], kind)
		}
	}
}

func TestUnterminatedString(t *testing.T) {

	tokens := tokenize(t, `"no closing quote`)

	if len(tokens) != 1 || !tokens[0].isKind(tokString) ||
		tokens[0].strVal != "no closing quote" {
		t.Errorf("unterminated string lexed as %v", tokens)
	}
}

//
// Both bad-character paths report the one-based column of the
// offending character itself
//

func TestBadCharacter(t *testing.T) {

	ts := newTokenStream("x @ y")
	ts.get()

	_, err := ts.get()
	if err == nil {
		t.Fatal("want lexical error for @")
	}

	if !strings.Contains(err.Error(), `"@" at column 3`) {
		t.Errorf("error %q, want @ at column 3", err)
	}
}

func TestBadBasePrefix(t *testing.T) {

	ts := newTokenStream("x = &z")
	ts.get()
	ts.get()

	_, err := ts.get()
	if err == nil {
		t.Fatal("want lexical error for bare &")
	}

	if !strings.Contains(err.Error(), `"&" at column 5`) {
		t.Errorf("error %q, want & at column 5", err)
	}
}

func TestPeekDoesNotAdvance(t *testing.T) {

	ts := newTokenStream("1 2")

	p1, _ := ts.peek()
	p2, _ := ts.peek()

	if p1 != p2 {
		t.Error("two peeks disagree")
	}

	got, _ := ts.get()
	if got != p1 {
		t.Error("get differs from peek")
	}
}
