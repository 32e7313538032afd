package interp

import (
	"strconv"

	"github.com/mvendel/go-tsx/internal/runtime"
)

// literalToValue converts an *ast.Literal's parsed Go value into the
// matching runtime value (spec §3).
func literalToValue(v any) runtime.Value {
	switch x := v.(type) {
	case nil:
		return runtime.Null
	case float64:
		return runtime.Number(x)
	case string:
		return runtime.String(x)
	case bool:
		return runtime.Boolean(x)
	default:
		return runtime.Undefined
	}
}

// getProperty reads a named property off any runtime value, covering
// plain Object/Instance fields, Array/String index-like accessors, the
// Map/Set/Function/Class surfaces, and falling back to the structural
// method table (methods.go) since this value system has no real
// prototype chain (SPEC_FULL.md §C.3: "interpreter must special-case
// structurally").
func getProperty(c ctx, base runtime.Value, key string) (runtime.Value, error) {
	switch b := base.(type) {
	case nil:
		return nil, c.typeError("cannot read properties of undefined (reading '%s')", key)
	case *runtime.Object:
		if v, ok := b.Get(key, func(fn *runtime.Function) runtime.Value { return c.invokeAccessor(fn, b) }); ok {
			return v, nil
		}
		if m, ok := structuralMethod(c, base, key); ok {
			return m, nil
		}
		return runtime.Undefined, nil
	case *runtime.Instance:
		if v, ok := b.GetField(key); ok {
			return v, nil
		}
		if g, ok := b.Class.LookupGetter(key); ok {
			return c.invokeAccessor(g, b), nil
		}
		if m, ok := b.Class.LookupMethod(key); ok {
			return bindMethod(m, b), nil
		}
		if m, ok := structuralMethod(c, base, key); ok {
			return m, nil
		}
		return runtime.Undefined, nil
	case *runtime.Array:
		if key == "length" {
			return runtime.Number(float64(b.Len())), nil
		}
		if i, ok := arrayIndex(key); ok {
			return b.Get(i), nil
		}
		if m, ok := structuralMethod(c, base, key); ok {
			return m, nil
		}
		return runtime.Undefined, nil
	case runtime.String:
		if key == "length" {
			return runtime.Number(float64(len([]rune(string(b))))), nil
		}
		if i, ok := arrayIndex(key); ok {
			runes := []rune(string(b))
			if i < 0 || i >= len(runes) {
				return runtime.Undefined, nil
			}
			return runtime.String(string(runes[i])), nil
		}
		if m, ok := structuralMethod(c, base, key); ok {
			return m, nil
		}
		return runtime.Undefined, nil
	case *runtime.Map:
		if key == "size" {
			return runtime.Number(float64(b.Size())), nil
		}
		if m, ok := structuralMethod(c, base, key); ok {
			return m, nil
		}
		return runtime.Undefined, nil
	case *runtime.Set:
		if key == "size" {
			return runtime.Number(float64(b.Size())), nil
		}
		if m, ok := structuralMethod(c, base, key); ok {
			return m, nil
		}
		return runtime.Undefined, nil
	case *runtime.Function:
		if key == "name" {
			return runtime.String(b.Name), nil
		}
		if key == "length" {
			return runtime.Number(float64(b.Length)), nil
		}
		if b.Statics != nil {
			if m, ok := b.Statics[key]; ok {
				return m, nil
			}
		}
		if m, ok := structuralMethod(c, base, key); ok {
			return m, nil
		}
		return runtime.Undefined, nil
	case *runtime.Class:
		if key == "name" {
			return runtime.String(b.Name), nil
		}
		if b.StaticFields != nil {
			if v, ok := b.StaticFields.Get(key, func(fn *runtime.Function) runtime.Value { return c.invokeAccessor(fn, runtime.Undefined) }); ok {
				return v, nil
			}
		}
		for k := b; k != nil; k = k.Super {
			if m, ok := k.StaticMethods[key]; ok {
				return m, nil
			}
			if g, ok := k.StaticGetters[key]; ok {
				return c.invokeAccessor(g, b), nil
			}
		}
		return runtime.Undefined, nil
	case *runtime.ErrorValue:
		return getProperty(c, b.Instance, key)
	default:
		return runtime.Undefined, nil
	}
}

func (c ctx) invokeAccessor(fn *runtime.Function, this runtime.Value) runtime.Value {
	v, err := c.callFunction(fn, this, nil)
	if err != nil {
		return runtime.Undefined
	}
	return v
}

// bindMethod produces a callable bound to inst as `this`, used for
// instance-method property reads (`const f = obj.method; f()` keeps
// working since the returned Function carries BoundThis).
func bindMethod(fn *runtime.Function, this runtime.Value) *runtime.Function {
	bound := *fn
	bound.BoundThis = this
	bound.Flags.Arrow = true // reuse the arrow calling convention: fixed `this`, no fresh binding
	return &bound
}

func arrayIndex(key string) (int, bool) {
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// setProperty writes a named property, honouring frozen/sealed objects
// and arrays (spec §5).
func setProperty(c ctx, base runtime.Value, key string, v runtime.Value) error {
	switch b := base.(type) {
	case *runtime.Object:
		if !b.Set(key, v, func(fn *runtime.Function, val runtime.Value) { c.callFunction(fn, b, []runtime.Value{val}) }) {
			return c.rejectWrite("cannot assign to read only property '%s'", key)
		}
		return nil
	case *runtime.Instance:
		if s, ok := b.Class.LookupSetter(key); ok {
			_, err := c.callFunction(s, b, []runtime.Value{v})
			return err
		}
		if !b.SetField(key, v) {
			return c.rejectWrite("cannot assign to read only property '%s'", key)
		}
		return nil
	case *runtime.Array:
		if i, ok := arrayIndex(key); ok {
			if !b.Set(i, v) {
				return c.rejectWrite("cannot assign to read only array index %d", i)
			}
			return nil
		}
		return c.typeError("cannot set property '%s' on an array", key)
	case *runtime.Class:
		if b.StaticFields != nil {
			if b.StaticFields.Set(key, v, func(fn *runtime.Function, val runtime.Value) { c.callFunction(fn, runtime.Undefined, []runtime.Value{val}) }) {
				return nil
			}
		}
		return c.rejectWrite("cannot assign to static property '%s'", key)
	default:
		return c.typeError("cannot set property '%s' on a %s", key, runtime.TypeName(base))
	}
}

// rejectWrite handles a failed frozen/sealed property write: a silent
// no-op outside strict mode, a TypeError in it (spec §5: "every write
// attempt leaves v observationally unchanged; strict mode additionally
// produces a TypeError").
func (c ctx) rejectWrite(format string, args ...any) error {
	if c.it.Strict {
		return c.typeError(format, args...)
	}
	return nil
}

// ownKeysOf returns a value's own enumerable string keys in insertion
// order (used by for-in, object spread, and rest-pattern collection);
// symbol keys are always excluded (SPEC_FULL.md §C.2 open-question
// decision).
func ownKeysOf(v runtime.Value) []string {
	switch b := v.(type) {
	case *runtime.Object:
		return b.Keys()
	case *runtime.Instance:
		return b.FieldKeys()
	case *runtime.Array:
		out := make([]string, b.Len())
		for i := range out {
			out[i] = strconv.Itoa(i)
		}
		return out
	default:
		return nil
	}
}
