package interp

import (
	"io"

	"github.com/mvendel/go-tsx/internal/builtins"
	"github.com/mvendel/go-tsx/internal/runtime"
)

// InstallBuiltins binds console/Math/JSON/Object/Array onto the global
// environment, routing console output to out. JSON.stringify's use of a
// value's toJSON method, and JSON.parse's SyntaxError on malformed
// input, are wired back through the interpreter's own call path and
// error-class registry so they behave exactly like any other call or
// throw the engine produces. Array.from is added to the Array global
// builtins.Install already created, since draining an arbitrary user
// iterable needs iterateToSlice/callFunction, which only this package has.
func (it *Interpreter) InstallBuiltins(out io.Writer) {
	builtins.Install(it.Globals, out, it.callWithThis, it.newBuiltinError)
	it.installArrayFrom()
}

// callWithThis adapts callFunction to builtins.CallFunc's this-bound
// signature, used by JSON.stringify to run a toJSON method or an
// accessor getter with the right receiver.
func (it *Interpreter) callWithThis(fn *runtime.Function, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	c := ctx{it: it, env: it.Globals}
	return c.callFunction(fn, this, args)
}

func (it *Interpreter) installArrayFrom() {
	v, ok := it.Globals.Get("Array")
	if !ok {
		return
	}
	arrayObj, ok := v.(*runtime.Object)
	if !ok {
		return
	}
	arrayObj.Set("from", runtime.NewNativeFunction("from", 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		c := ctx{it: it, env: it.Globals}
		items, err := c.iterateToSlice(arg0(args))
		if err != nil {
			return nil, err
		}
		if len(args) > 1 {
			mapFn, ok := args[1].(*runtime.Function)
			if ok {
				mapped := make([]runtime.Value, len(items))
				for i, item := range items {
					out, err := c.callFunction(mapFn, runtime.Undefined, []runtime.Value{item, runtime.Number(float64(i))})
					if err != nil {
						return nil, err
					}
					mapped[i] = out
				}
				items = mapped
			}
		}
		return runtime.NewArray(items...), nil
	}), nil)
}

func (it *Interpreter) newBuiltinError(kind, format string, a ...any) error {
	return (ctx{it: it}).throwError(kind, format, a...)
}
