package builtins

import "github.com/mvendel/go-tsx/internal/runtime"

// installObject binds the Object global's static surface (spec §6):
// keys/values/entries/assign read and write through the same
// Get/Set/Keys primitives the interpreter's own property access uses,
// and freeze/seal/isFrozen/isSealed are thin wrappers over the bits
// every Array/Object/Instance mutator already checks.
func installObject(env *runtime.Environment, call CallFunc) {
	o := runtime.NewObject()
	o.Set("keys", runtime.NewNativeFunction("keys", 1, objectKeys), nil)
	o.Set("values", runtime.NewNativeFunction("values", 1, objectValues(call)), nil)
	o.Set("entries", runtime.NewNativeFunction("entries", 1, objectEntries(call)), nil)
	o.Set("assign", runtime.NewNativeFunction("assign", 2, objectAssign(call)), nil)
	o.Set("freeze", runtime.NewNativeFunction("freeze", 1, objectFreeze), nil)
	o.Set("seal", runtime.NewNativeFunction("seal", 1, objectSeal), nil)
	o.Set("isFrozen", runtime.NewNativeFunction("isFrozen", 1, objectIsFrozen), nil)
	o.Set("isSealed", runtime.NewNativeFunction("isSealed", 1, objectIsSealed), nil)
	env.Declare("Object", o, runtime.DeclConst)
}

func ownKeys(v runtime.Value) []string {
	switch x := v.(type) {
	case *runtime.Object:
		return x.Keys()
	case *runtime.Instance:
		return x.FieldKeys()
	default:
		return nil
	}
}

func ownGet(v runtime.Value, key string, call CallFunc) runtime.Value {
	switch x := v.(type) {
	case *runtime.Object:
		val, _ := x.Get(key, invoke(call, x))
		return val
	case *runtime.Instance:
		val, _ := x.GetField(key)
		return val
	default:
		return runtime.Undefined
	}
}

func objectKeys(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	keys := ownKeys(arg0(args))
	out := make([]runtime.Value, len(keys))
	for i, k := range keys {
		out[i] = runtime.String(k)
	}
	return runtime.NewArray(out...), nil
}

func objectValues(call CallFunc) runtime.Native {
	return func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		v := arg0(args)
		keys := ownKeys(v)
		out := make([]runtime.Value, len(keys))
		for i, k := range keys {
			out[i] = ownGet(v, k, call)
		}
		return runtime.NewArray(out...), nil
	}
}

func objectEntries(call CallFunc) runtime.Native {
	return func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		v := arg0(args)
		keys := ownKeys(v)
		out := make([]runtime.Value, len(keys))
		for i, k := range keys {
			out[i] = runtime.NewArray(runtime.String(k), ownGet(v, k, call))
		}
		return runtime.NewArray(out...), nil
	}
}

func objectAssign(call CallFunc) runtime.Native {
	return func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		target, ok := arg0(args).(*runtime.Object)
		if !ok {
			return arg0(args), nil
		}
		for _, src := range args[1:] {
			for _, k := range ownKeys(src) {
				target.Set(k, ownGet(src, k, call), nil)
			}
		}
		return target, nil
	}
}

func objectFreeze(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	switch x := arg0(args).(type) {
	case *runtime.Object:
		x.Freeze()
	case *runtime.Array:
		x.Freeze()
	case *runtime.Instance:
		x.Freeze()
	}
	return arg0(args), nil
}

func objectSeal(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	switch x := arg0(args).(type) {
	case *runtime.Object:
		x.Seal()
	case *runtime.Array:
		x.Seal()
	case *runtime.Instance:
		x.Seal()
	}
	return arg0(args), nil
}

func objectIsFrozen(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	switch x := arg0(args).(type) {
	case *runtime.Object:
		return runtime.Boolean(x.Frozen), nil
	case *runtime.Array:
		return runtime.Boolean(x.Frozen), nil
	case *runtime.Instance:
		return runtime.Boolean(x.Frozen), nil
	default:
		return runtime.Boolean(true), nil
	}
}

func objectIsSealed(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	switch x := arg0(args).(type) {
	case *runtime.Object:
		return runtime.Boolean(x.Sealed), nil
	case *runtime.Array:
		return runtime.Boolean(x.Sealed), nil
	case *runtime.Instance:
		return runtime.Boolean(x.Sealed), nil
	default:
		return runtime.Boolean(true), nil
	}
}
