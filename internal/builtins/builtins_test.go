package builtins

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/mvendel/go-tsx/internal/runtime"
)

func stubCall(fn *runtime.Function, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return fn.NativeFn(this, args)
}

func stubNewError(kind, format string, a ...any) error {
	return fmt.Errorf("%s: %s", kind, fmt.Sprintf(format, a...))
}

func newTestEnv(out *bytes.Buffer) *runtime.Environment {
	env := runtime.NewEnvironment()
	Install(env, out, stubCall, stubNewError)
	return env
}

func getMethod(t *testing.T, env *runtime.Environment, object, name string) *runtime.Function {
	t.Helper()
	v, ok := env.Get(object)
	if !ok {
		t.Fatalf("expected global %s to be declared", object)
	}
	obj, ok := v.(*runtime.Object)
	if !ok {
		t.Fatalf("expected %s to be an Object, got %T", object, v)
	}
	m, ok := obj.Get(name, nil)
	if !ok {
		t.Fatalf("expected %s.%s to be declared", object, name)
	}
	fn, ok := m.(*runtime.Function)
	if !ok {
		t.Fatalf("expected %s.%s to be a Function, got %T", object, name, m)
	}
	return fn
}

func TestInstallDeclaresCapabilityTable(t *testing.T) {
	env := newTestEnv(&bytes.Buffer{})
	for _, name := range []string{"console", "Math", "JSON", "Object", "Array"} {
		if _, ok := env.Get(name); !ok {
			t.Fatalf("expected global %s to be declared", name)
		}
	}
}

func TestConsoleLogJoinsArgumentsWithSpace(t *testing.T) {
	var buf bytes.Buffer
	env := newTestEnv(&buf)
	log := getMethod(t, env, "console", "log")
	if _, err := log.NativeFn(runtime.Undefined, []runtime.Value{runtime.String("a"), runtime.Number(1), runtime.Boolean(true)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := buf.String(), "a 1 true\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestMathMaxAndAbs(t *testing.T) {
	env := newTestEnv(&bytes.Buffer{})
	max := getMethod(t, env, "Math", "max")
	v, err := max.NativeFn(runtime.Undefined, []runtime.Value{runtime.Number(1), runtime.Number(5), runtime.Number(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, ok := v.(runtime.Number); !ok || float64(n) != 5 {
		t.Fatalf("expected 5, got %v", v)
	}

	abs := getMethod(t, env, "Math", "abs")
	v, err = abs.NativeFn(runtime.Undefined, []runtime.Value{runtime.Number(-7)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, ok := v.(runtime.Number); !ok || float64(n) != 7 {
		t.Fatalf("expected 7, got %v", v)
	}
}

func TestArrayIsArrayAndOf(t *testing.T) {
	env := newTestEnv(&bytes.Buffer{})
	isArray := getMethod(t, env, "Array", "isArray")
	v, err := isArray.NativeFn(runtime.Undefined, []runtime.Value{runtime.NewArray(runtime.Number(1))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b, ok := v.(runtime.Boolean); !ok || !bool(b) {
		t.Fatalf("expected true, got %v", v)
	}

	of := getMethod(t, env, "Array", "of")
	v, err = of.NativeFn(runtime.Undefined, []runtime.Value{runtime.Number(1), runtime.Number(2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr, ok := v.(*runtime.Array)
	if !ok || len(arr.Elements) != 2 {
		t.Fatalf("expected a 2-element array, got %v", v)
	}
}

func TestJSONParseBuildsObjectTree(t *testing.T) {
	env := newTestEnv(&bytes.Buffer{})
	parse := getMethod(t, env, "JSON", "parse")
	v, err := parse.NativeFn(runtime.Undefined, []runtime.Value{runtime.String(`{"a":1,"b":[2,3]}`)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj, ok := v.(*runtime.Object)
	if !ok {
		t.Fatalf("expected Object, got %T", v)
	}
	a, ok := obj.Get("a", nil)
	if !ok {
		t.Fatalf("expected property a")
	}
	if n, ok := a.(runtime.Number); !ok || float64(n) != 1 {
		t.Fatalf("expected a=1, got %v", a)
	}
}

func TestJSONParseInvalidInputReturnsSyntaxError(t *testing.T) {
	env := newTestEnv(&bytes.Buffer{})
	parse := getMethod(t, env, "JSON", "parse")
	_, err := parse.NativeFn(runtime.Undefined, []runtime.Value{runtime.String(`{not json`)})
	if err == nil {
		t.Fatalf("expected an error for invalid JSON")
	}
}

func TestJSONStringifyRoundTripsThroughParse(t *testing.T) {
	env := newTestEnv(&bytes.Buffer{})
	parse := getMethod(t, env, "JSON", "parse")
	stringify := getMethod(t, env, "JSON", "stringify")

	parsed, err := parse.NativeFn(runtime.Undefined, []runtime.Value{runtime.String(`{"x":42}`)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := stringify.NativeFn(runtime.Undefined, []runtime.Value{parsed})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, ok := v.(runtime.String)
	if !ok || string(s) == "" {
		t.Fatalf("expected a non-empty JSON string, got %v", v)
	}

	reparsed, err := parse.NativeFn(runtime.Undefined, []runtime.Value{s})
	if err != nil {
		t.Fatalf("unexpected error re-parsing stringify output: %v", err)
	}
	obj, ok := reparsed.(*runtime.Object)
	if !ok {
		t.Fatalf("expected Object, got %T", reparsed)
	}
	x, ok := obj.Get("x", nil)
	if !ok {
		t.Fatalf("expected property x to round-trip")
	}
	if n, ok := x.(runtime.Number); !ok || float64(n) != 42 {
		t.Fatalf("expected x=42, got %v", x)
	}
}

func TestObjectKeysListsOwnProperties(t *testing.T) {
	env := newTestEnv(&bytes.Buffer{})
	obj := runtime.NewObject()
	obj.Set("a", runtime.Number(1), nil)
	obj.Set("b", runtime.Number(2), nil)

	keys := getMethod(t, env, "Object", "keys")
	v, err := keys.NativeFn(runtime.Undefined, []runtime.Value{obj})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr, ok := v.(*runtime.Array)
	if !ok || len(arr.Elements) != 2 {
		t.Fatalf("expected 2 keys, got %v", v)
	}
}
