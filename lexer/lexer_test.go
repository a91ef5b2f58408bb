package lexer

import (
	"testing"

	"github.com/auroralang/aurora/token"
)

func TestSingleCharTokens(t *testing.T) {
	input := `( ) { } [ ] ; : , ~ ?`
	expected := []struct {
		kind token.Kind
		lit  string
	}{
		{token.LeftParen, "("},
		{token.RightParen, ")"},
		{token.LeftBrace, "{"},
		{token.RightBrace, "}"},
		{token.LeftBracket, "["},
		{token.RightBracket, "]"},
		{token.Semicolon, ";"},
		{token.Colon, ":"},
		{token.Comma, ","},
		{token.Tilde, "~"},
		{token.Question, "?"},
		{token.EOF, ""},
	}

	l := New(input, "test.aur")
	for i, exp := range expected {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("test[%d]: unexpected error: %v", i, err)
		}
		if tok.Kind != exp.kind {
			t.Errorf("test[%d]: kind wrong. expected=%v, got=%v (lexeme=%q)", i, exp.kind, tok.Kind, tok.Lexeme)
		}
		if tok.Lexeme != exp.lit {
			t.Errorf("test[%d]: lexeme wrong. expected=%q, got=%q", i, exp.lit, tok.Lexeme)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `+ - * / % ** == != <= >= < > && || = !`
	expected := []token.Kind{
		token.Plus, token.Minus, token.Star, token.Slash, token.Percent, token.Power,
		token.Equal, token.NotEqual, token.LessEqual, token.GreaterEqual,
		token.Less, token.Greater, token.And, token.Or, token.Assign, token.Bang,
		token.EOF,
	}
	l := New(input, "test.aur")
	for i, exp := range expected {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("test[%d]: unexpected error: %v", i, err)
		}
		if tok.Kind != exp {
			t.Errorf("test[%d]: expected=%v, got=%v", i, exp, tok.Kind)
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	input := `let const fun return if else while for true false null break continue class new try catch throw import export this foo_bar`
	expected := []token.Kind{
		token.Let, token.Const, token.Fun, token.Return, token.If, token.Else,
		token.While, token.For, token.True, token.False, token.Null, token.Break,
		token.Continue, token.Class, token.New, token.Try, token.Catch, token.Throw,
		token.Import, token.Export, token.This, token.Ident, token.EOF,
	}
	l := New(input, "test.aur")
	for i, exp := range expected {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("test[%d]: unexpected error: %v", i, err)
		}
		if tok.Kind != exp {
			t.Errorf("test[%d]: expected=%v, got=%v (lexeme=%q)", i, exp, tok.Kind, tok.Lexeme)
		}
	}
}

func TestFromIsContextualNotReserved(t *testing.T) {
	l := New("from", "test.aur")
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Kind != token.Ident || tok.Lexeme != "from" {
		t.Fatalf("expected 'from' to lex as Ident, got %+v", tok)
	}
}

func TestNumberLiteral(t *testing.T) {
	l := New("42 3.14", "test.aur")
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Kind != token.Number || tok.Literal.(float64) != 42 {
		t.Fatalf("got %+v", tok)
	}
	tok, err = l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Kind != token.Number || tok.Literal.(float64) != 3.14 {
		t.Fatalf("got %+v", tok)
	}
}

func TestStringEscapes(t *testing.T) {
	l := New(`"a\nb\tc\\d\"e" 'single'`, "test.aur")
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "a\nb\tc\\d\"e"
	if tok.Literal.(string) != want {
		t.Fatalf("got %q, want %q", tok.Literal, want)
	}
	tok, err = l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Literal.(string) != "single" {
		t.Fatalf("got %q", tok.Literal)
	}
}

func TestUnknownEscapePassesThrough(t *testing.T) {
	l := New(`"a\qb"`, "test.aur")
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Literal.(string) != "aqb" {
		t.Fatalf("got %q", tok.Literal)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"abc`, "test.aur")
	_, err := l.Next()
	if err == nil {
		t.Fatal("expected error")
	}
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("expected *SyntaxError, got %T", err)
	}
	if se.Line != 1 || se.Column != 1 {
		t.Fatalf("expected position of opening quote, got %d:%d", se.Line, se.Column)
	}
}

func TestLineCommentsAndBlockComments(t *testing.T) {
	input := "let x = 1; // trailing\n/* block\ncomment */let y = 2;"
	toks, err := Tokenize(input, "test.aur")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var kinds []token.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{
		token.Let, token.Ident, token.Assign, token.Number, token.Semicolon,
		token.Let, token.Ident, token.Assign, token.Number, token.Semicolon,
		token.EOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(kinds), len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token[%d]: got %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	input := "let x = 1;\nlet y = 2;"
	toks, err := Tokenize(input, "test.aur")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// second "let" should be on line 2, column 1.
	var secondLet token.Token
	seen := 0
	for _, tok := range toks {
		if tok.Kind == token.Let {
			seen++
			if seen == 2 {
				secondLet = tok
			}
		}
	}
	if secondLet.Line != 2 || secondLet.Column != 1 {
		t.Fatalf("got line=%d col=%d, want line=2 col=1", secondLet.Line, secondLet.Column)
	}
}

func TestEmptySource(t *testing.T) {
	toks, err := Tokenize("", "test.aur")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 1 || toks[0].Kind != token.EOF {
		t.Fatalf("expected a single EOF token, got %v", toks)
	}
}
