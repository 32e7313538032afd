package errors

import (
	"strings"
	"testing"

	"github.com/mvendel/go-tsx/internal/lexer"
)

func TestFormatIncludesSnippetAndCaret(t *testing.T) {
	src := "let x = ;\nconsole.log(x);"
	e := New(KindParseError, lexer.Position{Line: 1, Column: 9}, "unexpected token", src, "main.ts")
	out := e.Format(false)
	if !strings.Contains(out, "main.ts:1:9") {
		t.Fatalf("expected header with file:line:col, got %q", out)
	}
	if !strings.Contains(out, "let x = ;") {
		t.Fatalf("expected source snippet, got %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("expected caret, got %q", out)
	}
}

func TestFormatAllMultiple(t *testing.T) {
	errs := []*CompilerError{
		New(KindLexError, lexer.Position{Line: 1, Column: 1}, "bad token", "", ""),
		New(KindParseError, lexer.Position{Line: 2, Column: 1}, "bad stmt", "", ""),
	}
	out := FormatAll(errs, false)
	if !strings.Contains(out, "2 errors") {
		t.Fatalf("expected error count header, got %q", out)
	}
}

func TestModuleResolutionErrorMessage(t *testing.T) {
	e := &ModuleResolutionError{Message: "import cycle detected", Path: "./a.ts"}
	if !strings.Contains(e.Error(), "import cycle") || !strings.Contains(e.Error(), "./a.ts") {
		t.Fatalf("unexpected error message: %q", e.Error())
	}
}
