package builtins

import "github.com/mvendel/go-tsx/internal/runtime"

// installArray binds the small piece of the Array global this package
// can implement without call-back-into-interpreter access: isArray and
// of. Array.from, which must drain an arbitrary user iterable, is added
// to this same object by internal/interp (installArrayFrom), which
// already has iterateToSlice and the calling convention it needs.
func installArray(env *runtime.Environment) {
	a := runtime.NewObject()
	a.Set("isArray", runtime.NewNativeFunction("isArray", 1, arrayIsArray), nil)
	a.Set("of", runtime.NewNativeFunction("of", 0, arrayOf), nil)
	env.Declare("Array", a, runtime.DeclConst)
}

func arrayIsArray(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	_, ok := arg0(args).(*runtime.Array)
	return runtime.Boolean(ok), nil
}

func arrayOf(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return runtime.NewArray(args...), nil
}
