package lexer

import "testing"

func collect(src string) []Token {
	l := New(src)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			break
		}
	}
	return toks
}

func types(toks []Token) []TokenType {
	out := make([]TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func assertTypes(t *testing.T, src string, want ...TokenType) {
	t.Helper()
	got := types(collect(src))
	if len(got) != len(want) {
		t.Fatalf("%q: got %d tokens %v, want %d %v", src, len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d = %s, want %s", src, i, got[i], want[i])
		}
	}
}

func TestNextTokenPunctuatorsAndKeywords(t *testing.T) {
	assertTypes(t, "let x = 1;",
		LET, IDENT, ASSIGN, NUMBER, SEMICOLON, EOF)
}

func TestNextTokenArrowAndOptionalChain(t *testing.T) {
	assertTypes(t, "x?.y",
		IDENT, QUESTION_DOT, IDENT, EOF)
	assertTypes(t, "(x) => x",
		LPAREN, IDENT, RPAREN, ARROW, IDENT, EOF)
}

func TestNextTokenStringEscapes(t *testing.T) {
	toks := collect(`"a\nb"`)
	if toks[0].Type != STRING {
		t.Fatalf("expected STRING, got %s", toks[0].Type)
	}
	if toks[0].Value.String != "a\nb" {
		t.Fatalf("expected decoded escape, got %q", toks[0].Value.String)
	}
}

func TestNextTokenNumberLiteral(t *testing.T) {
	toks := collect("3.5")
	if toks[0].Type != NUMBER {
		t.Fatalf("expected NUMBER, got %s", toks[0].Type)
	}
	if toks[0].Value.Number != 3.5 {
		t.Fatalf("expected 3.5, got %v", toks[0].Value.Number)
	}
}

func TestNextTokenIllegalCharacterRecordsError(t *testing.T) {
	l := New("let x = 1 # 2;")
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			break
		}
	}
	if len(l.Errors()) == 0 {
		t.Fatalf("expected at least one lex error for '#'")
	}
}

func TestNextTokenPositionsAdvanceAcrossLines(t *testing.T) {
	toks := collect("let a = 1;\nlet b = 2;")
	var second Token
	found := false
	for _, tok := range toks {
		if tok.Type == IDENT && tok.Literal == "b" {
			second = tok
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected to find identifier b")
	}
	if second.Pos.Line != 2 {
		t.Fatalf("expected b on line 2, got line %d", second.Pos.Line)
	}
}

func TestNextTokenTemplateLiteralNoSubstitution(t *testing.T) {
	assertTypes(t, "`hello`", TEMPLATE_NO_SUBSTITUTION, EOF)
}

func TestNextTokenTemplateLiteralWithSubstitution(t *testing.T) {
	assertTypes(t, "`a${x}b`",
		TEMPLATE_HEAD, IDENT, TEMPLATE_TAIL, EOF)
}
