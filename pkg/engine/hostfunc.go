package engine

import (
	"fmt"
	"reflect"

	"github.com/mvendel/go-tsx/internal/runtime"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// wrapHostFunc adapts a Go function value to runtime.Native, converting
// script values to Go arguments and a Go return value back to a script
// value, following the same per-kind conversion table the front-end's own
// reference FFI layer uses for its external-function marshaling (integer/
// float/string/bool/slice conversions), narrowed to this runtime's value
// set (Number/String/Boolean/*Array instead of separate int/float kinds).
func wrapHostFunc(fn any) (runtime.Native, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("engine: RegisterHostFunction requires a func, got %T", fn)
	}
	ft := fv.Type()
	hasErr := ft.NumOut() > 0 && ft.Out(ft.NumOut()-1) == errorType
	if ft.NumOut() > 2 || (ft.NumOut() == 2 && !hasErr) {
		return nil, fmt.Errorf("engine: RegisterHostFunction supports at most one value result plus an optional trailing error")
	}

	return func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if ft.IsVariadic() {
			if len(args) < ft.NumIn()-1 {
				return nil, fmt.Errorf("expected at least %d arguments, got %d", ft.NumIn()-1, len(args))
			}
		} else if len(args) != ft.NumIn() {
			return nil, fmt.Errorf("expected %d arguments, got %d", ft.NumIn(), len(args))
		}

		in := make([]reflect.Value, len(args))
		for i, a := range args {
			paramType := ft.In(i)
			if ft.IsVariadic() && i >= ft.NumIn()-1 {
				paramType = ft.In(ft.NumIn() - 1).Elem()
			}
			gv, err := toGoValue(a, paramType)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			in[i] = gv
		}

		out := fv.Call(in)
		if hasErr {
			if errVal := out[len(out)-1]; !errVal.IsNil() {
				return nil, errVal.Interface().(error)
			}
			out = out[:len(out)-1]
		}
		if len(out) == 0 {
			return runtime.Undefined, nil
		}
		return toScriptValue(out[0]), nil
	}, nil
}

func toGoValue(v runtime.Value, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := v.(runtime.Number)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected number, got %s", runtime.TypeName(v))
		}
		rv := reflect.New(t).Elem()
		rv.SetInt(int64(n))
		return rv, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := v.(runtime.Number)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected number, got %s", runtime.TypeName(v))
		}
		rv := reflect.New(t).Elem()
		rv.SetUint(uint64(n))
		return rv, nil
	case reflect.Float32, reflect.Float64:
		n, ok := v.(runtime.Number)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected number, got %s", runtime.TypeName(v))
		}
		rv := reflect.New(t).Elem()
		rv.SetFloat(float64(n))
		return rv, nil
	case reflect.String:
		s, ok := v.(runtime.String)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected string, got %s", runtime.TypeName(v))
		}
		return reflect.ValueOf(string(s)), nil
	case reflect.Bool:
		b, ok := v.(runtime.Boolean)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected boolean, got %s", runtime.TypeName(v))
		}
		return reflect.ValueOf(bool(b)), nil
	case reflect.Slice:
		arr, ok := v.(*runtime.Array)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected array, got %s", runtime.TypeName(v))
		}
		slice := reflect.MakeSlice(t, len(arr.Elements), len(arr.Elements))
		for i, elem := range arr.Elements {
			ev, err := toGoValue(elem, t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			slice.Index(i).Set(ev)
		}
		return slice, nil
	case reflect.Interface:
		return reflect.ValueOf(v), nil
	default:
		return reflect.Value{}, fmt.Errorf("engine: unsupported host function parameter type %s", t)
	}
}

func toScriptValue(rv reflect.Value) runtime.Value {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return runtime.Number(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return runtime.Number(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return runtime.Number(rv.Float())
	case reflect.String:
		return runtime.String(rv.String())
	case reflect.Bool:
		return runtime.Boolean(rv.Bool())
	case reflect.Slice:
		out := make([]runtime.Value, rv.Len())
		for i := range out {
			out[i] = toScriptValue(rv.Index(i))
		}
		return runtime.NewArray(out...)
	default:
		if v, ok := rv.Interface().(runtime.Value); ok {
			return v
		}
		return runtime.Undefined
	}
}
