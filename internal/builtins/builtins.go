// Package builtins wires the host capability table (spec §6: console,
// Math, JSON, Object, Array) onto a runtime.Environment. It depends only
// on internal/runtime, never internal/interp, so the interpreter can
// import it without a cycle; the one place a builtin needs to raise a
// catchable engine error (JSON.parse's SyntaxError) it goes through the
// NewError callback supplied at Install time rather than reaching for
// runtime.Throw directly with a bare value.
package builtins

import (
	"io"

	"github.com/mvendel/go-tsx/internal/runtime"
)

// NewError constructs a catchable Error-subclass instance of the given
// kind (TypeError, SyntaxError, RangeError, ...) with the given message,
// wrapped as a Go error carrying a Throw completion. The interpreter
// supplies this at wiring time (a closure over its own error-class
// registry and call stack) so builtins never need to see
// *interp.Interpreter to produce a real `instanceof SyntaxError` value.
type NewError func(kind, format string, args ...any) error

// CallFunc invokes a runtime function value the way the interpreter's
// own call path would, with this bound to receiver, returning its
// result or a thrown error. JSON.stringify uses it to run a property's
// getter or a `toJSON` method while walking an object, and the Object
// natives use it to read accessor properties.
type CallFunc func(fn *runtime.Function, receiver runtime.Value, args []runtime.Value) (runtime.Value, error)

// Install binds the full capability table into env, writing console
// output to out. call is used by JSON.stringify to invoke getters and
// toJSON methods, and by the Object natives to read getters; newError is used only by JSON.parse on malformed input.
func Install(env *runtime.Environment, out io.Writer, call CallFunc, newError NewError) {
	installConsole(env, out)
	installMath(env)
	installJSON(env, call, newError)
	installObject(env, call)
	installArray(env)
}
