package ast

import (
	"testing"

	"github.com/mvendel/go-tsx/internal/lexer"
)

func tok(tt lexer.TokenType, lit string) lexer.Token {
	return lexer.Token{Type: tt, Literal: lit, Pos: lexer.Position{Line: 1, Column: 1}}
}

func TestProgramString(t *testing.T) {
	p := &Program{Statements: []Stmt{
		&ExprStmt{Token: tok(lexer.IDENT, "x"), Expr: &Variable{Token: tok(lexer.IDENT, "x"), Name: "x"}},
	}}
	if p.String() == "" {
		t.Fatal("expected non-empty program string")
	}
}

func TestBinaryExprString(t *testing.T) {
	b := &Binary{
		Token: tok(lexer.PLUS, "+"),
		Op:    "+",
		Left:  &Literal{Token: tok(lexer.NUMBER, "1"), Value: float64(1)},
		Right: &Literal{Token: tok(lexer.NUMBER, "2"), Value: float64(2)},
	}
	if got, want := b.String(), "(1 + 2)"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestIdentPos(t *testing.T) {
	id := &Ident{Token: tok(lexer.IDENT, "foo"), Name: "foo"}
	if id.Pos().Line != 1 {
		t.Errorf("expected line 1, got %d", id.Pos().Line)
	}
}
