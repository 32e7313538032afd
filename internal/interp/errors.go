package interp

import (
	"fmt"

	"github.com/mvendel/go-tsx/internal/lexer"
	"github.com/mvendel/go-tsx/internal/runtime"
)

// builtinErrorNames lists the Error subclasses the engine recognises
// natively (spec §4.4/§7); TypeError/RangeError/ReferenceError/SyntaxError
// all derive from Error the same way, distinguished only by Name.
var builtinErrorNames = []string{"TypeError", "RangeError", "ReferenceError", "SyntaxError", "EvalError", "URIError"}

// registerErrorClasses builds the Error base class and its standard
// subclasses as ordinary runtime.Class values, reachable from user code
// as `Error`, `TypeError`, etc. in the global environment, so `new
// TypeError("x")`, `instanceof Error`, and `class Custom extends Error`
// all go through the normal class-instantiation path with no special
// casing beyond these Ctor bodies.
func (it *Interpreter) registerErrorClasses() {
	it.errorClasses = make(map[string]*runtime.Class)

	base := &runtime.Class{
		Name:    "Error",
		Methods: map[string]*runtime.Function{},
	}
	base.Ctor = runtime.NewNativeFunction("Error", 1, errorCtor("Error"))
	it.errorClasses["Error"] = base
	it.Globals.Declare("Error", base, runtime.DeclClass)

	for _, name := range builtinErrorNames {
		n := name
		sub := &runtime.Class{
			Name:    n,
			Super:   base,
			Methods: map[string]*runtime.Function{},
		}
		sub.Ctor = runtime.NewNativeFunction(n, 1, errorCtor(n))
		it.errorClasses[n] = sub
		it.Globals.Declare(n, sub, runtime.DeclClass)
	}
}

func errorCtor(name string) runtime.Native {
	return func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		inst, ok := this.(*runtime.Instance)
		if !ok {
			return runtime.Undefined, nil
		}
		msg := ""
		if len(args) > 0 && !runtime.IsUndefined(args[0]) {
			msg = runtime.Stringify(args[0])
		}
		inst.SetField("name", runtime.String(name))
		inst.SetField("message", runtime.String(msg))
		inst.SetField("stack", runtime.String(fmt.Sprintf("%s: %s", name, msg)))
		if len(args) > 1 {
			if opts, ok := args[1].(*runtime.Object); ok {
				if cause, ok := opts.Get("cause", nil); ok {
					inst.SetField("cause", cause)
				}
			}
		}
		return runtime.Undefined, nil
	}
}

// classFor resolves the built-in class backing a given error kind,
// falling back to the Error base class.
func (it *Interpreter) classFor(kind string) *runtime.Class {
	if c, ok := it.errorClasses[kind]; ok {
		return c
	}
	return it.errorClasses["Error"]
}

// throwError builds an ErrorValue of the given kind with the current
// call stack attached and wraps it as a Go error carrying a Throw
// completion (spec §4.4/§7). Used throughout the interpreter for
// engine-raised errors (TypeError on a bad call, ReferenceError on an
// undeclared identifier, RangeError on an invalid array length, ...).
func (c ctx) throwError(kind, format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	class := c.it.classFor(kind)
	ev := runtime.NewErrorValue(class, kind, msg, nil, c.it.snapshotStack())
	return runtime.Throw(ev)
}

func (c ctx) referenceError(pos lexer.Position, name string) error {
	return c.throwError("ReferenceError", "%s is not defined", name)
}

func (c ctx) typeError(format string, a ...any) error {
	return c.throwError("TypeError", format, a...)
}

func (c ctx) rangeError(format string, a ...any) error {
	return c.throwError("RangeError", format, a...)
}
