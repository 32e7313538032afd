package engine

import (
	"bytes"
	"testing"

	"github.com/mvendel/go-tsx/internal/resolver"
	"github.com/mvendel/go-tsx/internal/runtime"
)

func TestEvalReturnsLastExpressionValue(t *testing.T) {
	e := New()
	v, err := e.Eval(`1 + 2;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, ok := v.(runtime.Number)
	if !ok || float64(n) != 3 {
		t.Fatalf("expected 3, got %v", v)
	}
}

func TestEngineSessionPersistsStateAcrossEvalCalls(t *testing.T) {
	e := New()
	if _, err := e.Eval(`let total = 0;`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.Eval(`total = total + 10;`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := e.Eval(`total;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, ok := v.(runtime.Number)
	if !ok || float64(n) != 10 {
		t.Fatalf("expected bindings to persist across Eval calls, got %v", v)
	}
}

func TestSetOutputRetargetsConsoleAfterConstruction(t *testing.T) {
	e := New()
	var buf bytes.Buffer
	e.SetOutput(&buf)
	if _, err := e.Eval(`console.log("hi");`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected SetOutput to retarget console.log output")
	}
}

func TestRegisterHostFunctionIsCallableFromScript(t *testing.T) {
	e := New()
	if err := e.RegisterHostFunction("double", func(n float64) float64 { return n * 2 }); err != nil {
		t.Fatalf("unexpected error registering host function: %v", err)
	}
	v, err := e.Eval(`double(21);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, ok := v.(runtime.Number)
	if !ok || float64(n) != 42 {
		t.Fatalf("expected 42, got %v", v)
	}
}

func TestRegisterHostFunctionDuplicateNameErrors(t *testing.T) {
	e := New()
	fn := func() {}
	if err := e.RegisterHostFunction("f", fn); err != nil {
		t.Fatalf("unexpected error on first registration: %v", err)
	}
	if err := e.RegisterHostFunction("f", fn); err == nil {
		t.Fatalf("expected an error re-registering the same name")
	}
}

func TestRegisterHostFunctionPersistsAcrossChainedEvals(t *testing.T) {
	e := New()
	calls := 0
	if err := e.RegisterHostFunction("tick", func() { calls++ }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.Eval(`tick();`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.Eval(`tick(); tick();`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 host-function calls across chained Eval calls, got %d", calls)
	}
}

func TestCompileReturnsParseErrorOnSyntaxError(t *testing.T) {
	e := New()
	_, err := e.Compile(`let x = ;`)
	if err == nil {
		t.Fatalf("expected a parse error")
	}
	ce, ok := err.(*CompileError)
	if !ok {
		t.Fatalf("expected *CompileError, got %T", err)
	}
	if ce.Stage != "parsing" {
		t.Fatalf("expected stage \"parsing\", got %q", ce.Stage)
	}
}

func TestCompileReturnsTypeCheckErrorOnMismatch(t *testing.T) {
	e := New()
	_, err := e.Compile(`let x: string = 5;`)
	if err == nil {
		t.Fatalf("expected a type-check error")
	}
	ce, ok := err.(*CompileError)
	if !ok {
		t.Fatalf("expected *CompileError, got %T", err)
	}
	if ce.Stage != "checking" {
		t.Fatalf("expected stage \"checking\", got %q", ce.Stage)
	}
}

func TestCompileWithTypeCheckDisabledSkipsChecker(t *testing.T) {
	e := New(WithTypeCheck(false))
	program, err := e.Compile(`let x: string = 5;`)
	if err != nil {
		t.Fatalf("expected no error with type checking disabled, got %v", err)
	}
	if program.AST() == nil {
		t.Fatalf("expected a non-nil AST")
	}
}

func TestProgramSymbolsListsTopLevelDeclarations(t *testing.T) {
	e := New()
	program, err := e.Compile(`
		let count: number = 0;
		const name: string = "x";
		function add(a: number, b: number): number { return a + b; }
		class Box { value: number = 0; }
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	symbols := program.Symbols()
	names := make(map[string]string)
	for _, s := range symbols {
		names[s.Name] = s.Kind
	}
	want := map[string]string{"count": "let", "name": "const", "add": "function", "Box": "class"}
	for name, kind := range want {
		if names[name] != kind {
			t.Fatalf("expected symbol %s to have kind %s, got %s", name, kind, names[name])
		}
	}
}

func TestRunModuleResolvesImportsAcrossFiles(t *testing.T) {
	files := map[string]string{
		"main.ts": `import { greeting } from "./lib";
			greeting;`,
		"lib.ts": `export const greeting = "hi";`,
	}
	read := func(path string) (string, bool) {
		src, ok := files[path]
		return src, ok
	}
	e := New()
	v, err := e.RunModule("main.ts", resolver.Reader(read))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, ok := v.(runtime.String)
	if !ok || string(s) != "hi" {
		t.Fatalf("expected \"hi\", got %v", v)
	}
}

func TestRunModuleWithModuleResolutionRootJoinsHostPaths(t *testing.T) {
	files := map[string]string{
		"/project/main.ts": `let x = 1; x;`,
	}
	read := func(path string) (string, bool) {
		src, ok := files[path]
		return src, ok
	}
	e := New(WithModuleResolutionRoot("/project"))
	_, err := e.RunModule("main.ts", resolver.Reader(read))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestErrorFormatsWithAndWithoutCode(t *testing.T) {
	e := &Error{Message: "boom", Line: 3, Column: 7, Severity: SeverityError}
	if got, want := e.Error(), "error at 3:7: boom"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	e.Code = "E001"
	if got, want := e.Error(), "error at 3:7: boom [E001]"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRunToCompletionDrainsPendingTimers(t *testing.T) {
	e := New()
	if _, err := e.Eval(`
		let fired = false;
		setTimeout(() => { fired = true; }, 10);
	`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := e.Eval(`fired;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, ok := v.(runtime.Boolean)
	if !ok || !bool(b) {
		t.Fatalf("expected the timer callback to have fired, got %v", v)
	}
}
