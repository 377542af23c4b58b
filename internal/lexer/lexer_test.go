package lexer

import (
	"testing"

	"github.com/lyralang/lyra/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `fun <T> id(x: T): T = x
val s = box?.unwrap(*items) // comment
"hi"`

	expected := []struct {
		typ    token.Type
		lexeme string
	}{
		{token.FUN, "fun"},
		{token.LT, "<"},
		{token.IDENT, "T"},
		{token.GT, ">"},
		{token.IDENT, "id"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.COLON, ":"},
		{token.IDENT, "T"},
		{token.RPAREN, ")"},
		{token.COLON, ":"},
		{token.IDENT, "T"},
		{token.ASSIGN, "="},
		{token.IDENT, "x"},
		{token.VAL, "val"},
		{token.IDENT, "s"},
		{token.ASSIGN, "="},
		{token.IDENT, "box"},
		{token.SAFEDOT, "?."},
		{token.IDENT, "unwrap"},
		{token.LPAREN, "("},
		{token.ASTERISK, "*"},
		{token.IDENT, "items"},
		{token.RPAREN, ")"},
		{token.STRING, "hi"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp.typ {
			t.Fatalf("token %d: type = %q, want %q (lexeme %q)", i, tok.Type, exp.typ, tok.Lexeme)
		}
		if tok.Lexeme != exp.lexeme {
			t.Fatalf("token %d: lexeme = %q, want %q", i, tok.Lexeme, exp.lexeme)
		}
	}
}

func TestTokenPositions(t *testing.T) {
	l := New("a\n  bb")
	first := l.NextToken()
	second := l.NextToken()
	if first.Line != 1 || first.Column != 1 {
		t.Errorf("first token at %d:%d, want 1:1", first.Line, first.Column)
	}
	if second.Line != 2 || second.Column != 3 {
		t.Errorf("second token at %d:%d, want 2:3", second.Line, second.Column)
	}
}
