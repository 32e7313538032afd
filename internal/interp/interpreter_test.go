package interp

import (
	"bytes"
	"testing"

	"github.com/mvendel/go-tsx/internal/parser"
	"github.com/mvendel/go-tsx/internal/runtime"
)

// testEval parses and runs input against a fresh interpreter, with
// console output wired to out (or discarded if out is nil).
func testEval(t *testing.T, input string, out *bytes.Buffer) runtime.Value {
	t.Helper()
	prog, errs := parser.Parse(input, parser.Config{})
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", input, errs)
	}
	if out == nil {
		out = &bytes.Buffer{}
	}
	it := New(runtime.NewScheduler())
	it.InstallBuiltins(out)
	v, err := it.RunProgram(prog)
	if err != nil {
		t.Fatalf("unexpected runtime error for %q: %v", input, err)
	}
	return v
}

func testEvalError(t *testing.T, input string) error {
	t.Helper()
	prog, errs := parser.Parse(input, parser.Config{})
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", input, errs)
	}
	it := New(runtime.NewScheduler())
	it.InstallBuiltins(&bytes.Buffer{})
	_, err := it.RunProgram(prog)
	return err
}

func TestEvalNumberArithmetic(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"1 + 2;", 3},
		{"5 - 10;", -5},
		{"3 * 4;", 12},
		{"10 / 4;", 2.5},
		{"2 ** 10;", 1024},
		{"(1 + 2) * 3;", 9},
	}
	for _, tt := range tests {
		v := testEval(t, tt.input, nil)
		n, ok := v.(runtime.Number)
		if !ok {
			t.Fatalf("%q: expected Number, got %T", tt.input, v)
		}
		if float64(n) != tt.expected {
			t.Fatalf("%q: expected %v, got %v", tt.input, tt.expected, n)
		}
	}
}

func TestEvalStringConcatenation(t *testing.T) {
	v := testEval(t, `"foo" + "bar";`, nil)
	s, ok := v.(runtime.String)
	if !ok || string(s) != "foobar" {
		t.Fatalf("expected \"foobar\", got %v", v)
	}
}

func TestEvalVarBindingAndReference(t *testing.T) {
	v := testEval(t, `let x = 41; x + 1;`, nil)
	n, ok := v.(runtime.Number)
	if !ok || float64(n) != 42 {
		t.Fatalf("expected 42, got %v", v)
	}
}

func TestEvalConstReassignmentThrows(t *testing.T) {
	err := testEvalError(t, `const x = 1; x = 2;`)
	if err == nil {
		t.Fatalf("expected an error reassigning a const binding")
	}
}

func TestEvalIfElseBranching(t *testing.T) {
	v := testEval(t, `let y; if (1 < 2) { y = "yes"; } else { y = "no"; } y;`, nil)
	s, ok := v.(runtime.String)
	if !ok || string(s) != "yes" {
		t.Fatalf("expected \"yes\", got %v", v)
	}
}

func TestEvalWhileLoopAccumulates(t *testing.T) {
	v := testEval(t, `
		let i = 0;
		let sum = 0;
		while (i < 5) { sum = sum + i; i = i + 1; }
		sum;
	`, nil)
	n, ok := v.(runtime.Number)
	if !ok || float64(n) != 10 {
		t.Fatalf("expected 10, got %v", v)
	}
}

func TestEvalFunctionDeclarationAndCall(t *testing.T) {
	v := testEval(t, `
		function add(a: number, b: number): number { return a + b; }
		add(2, 3);
	`, nil)
	n, ok := v.(runtime.Number)
	if !ok || float64(n) != 5 {
		t.Fatalf("expected 5, got %v", v)
	}
}

func TestEvalClosureCapturesEnclosingScope(t *testing.T) {
	v := testEval(t, `
		function makeCounter() {
			let n = 0;
			return () => { n = n + 1; return n; };
		}
		const counter = makeCounter();
		counter();
		counter();
		counter();
	`, nil)
	n, ok := v.(runtime.Number)
	if !ok || float64(n) != 3 {
		t.Fatalf("expected 3, got %v", v)
	}
}

func TestEvalArrayLiteralAndIndex(t *testing.T) {
	v := testEval(t, `let arr = [1, 2, 3]; arr[1];`, nil)
	n, ok := v.(runtime.Number)
	if !ok || float64(n) != 2 {
		t.Fatalf("expected 2, got %v", v)
	}
}

func TestEvalClassInstantiationAndMethodCall(t *testing.T) {
	v := testEval(t, `
		class Point {
			x: number;
			y: number;
			constructor(x: number, y: number) { this.x = x; this.y = y; }
			sum(): number { return this.x + this.y; }
		}
		const p = new Point(2, 3);
		p.sum();
	`, nil)
	n, ok := v.(runtime.Number)
	if !ok || float64(n) != 5 {
		t.Fatalf("expected 5, got %v", v)
	}
}

func TestEvalTryCatchRecoversThrownValue(t *testing.T) {
	v := testEval(t, `
		let result = "";
		try {
			throw new Error("boom");
		} catch (e) {
			result = e.message;
		}
		result;
	`, nil)
	s, ok := v.(runtime.String)
	if !ok || string(s) != "boom" {
		t.Fatalf("expected \"boom\", got %v", v)
	}
}

func TestEvalUncaughtThrowReturnsError(t *testing.T) {
	err := testEvalError(t, `throw new Error("unhandled");`)
	if err == nil {
		t.Fatalf("expected an uncaught-throw error")
	}
}

func TestEvalConsoleLogWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	testEval(t, `console.log("hello", 1, true);`, &buf)
	if buf.Len() == 0 {
		t.Fatalf("expected console.log to write output")
	}
}

func TestEvalMathBuiltins(t *testing.T) {
	v := testEval(t, `Math.max(1, 5, 3);`, nil)
	n, ok := v.(runtime.Number)
	if !ok || float64(n) != 5 {
		t.Fatalf("expected 5, got %v", v)
	}
}

func TestEvalJSONRoundTrip(t *testing.T) {
	v := testEval(t, `
		const obj = JSON.parse('{"a":1,"b":[2,3]}');
		JSON.stringify(obj);
	`, nil)
	s, ok := v.(runtime.String)
	if !ok {
		t.Fatalf("expected String, got %T", v)
	}
	if string(s) == "" {
		t.Fatalf("expected non-empty JSON string")
	}
}
