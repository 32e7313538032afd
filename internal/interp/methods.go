package interp

import (
	"sort"
	"strings"

	"github.com/mvendel/go-tsx/internal/runtime"
)

// structuralMethod resolves a built-in Array/String/Map/Set/Function
// method by name, returning a native Function bound to base as `this`
// (SPEC_FULL.md §C.3: these collections have no real prototype chain,
// so the interpreter special-cases their method surface directly rather
// than routing through the class/object property system).
func structuralMethod(c ctx, base runtime.Value, name string) (*runtime.Function, bool) {
	switch base.(type) {
	case *runtime.Array:
		if fn, ok := arrayMethods[name]; ok {
			return nf(name, fn, c, base), true
		}
	case runtime.String:
		if fn, ok := stringMethods[name]; ok {
			return nf(name, fn, c, base), true
		}
	case *runtime.Map:
		if fn, ok := mapMethods[name]; ok {
			return nf(name, fn, c, base), true
		}
	case *runtime.Set:
		if fn, ok := setMethods[name]; ok {
			return nf(name, fn, c, base), true
		}
	case *runtime.Function:
		if fn, ok := functionMethods[name]; ok {
			return nf(name, fn, c, base), true
		}
	}
	return nil, false
}

type structMethod func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error)

func nf(name string, fn structMethod, c ctx, base runtime.Value) *runtime.Function {
	return runtime.NewNativeFunction(name, 0, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return fn(c, base, args)
	})
}

func argAt(args []runtime.Value, i int) runtime.Value {
	if i < len(args) {
		return args[i]
	}
	return runtime.Undefined
}

func asFunc(v runtime.Value) (*runtime.Function, bool) {
	fn, ok := v.(*runtime.Function)
	return fn, ok
}

var arrayMethods = map[string]structMethod{
	"push": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := this.(*runtime.Array)
		a.Push(args...)
		return runtime.Number(float64(a.Len())), nil
	},
	"pop": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return this.(*runtime.Array).Pop(), nil
	},
	"shift": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return this.(*runtime.Array).Shift(), nil
	},
	"unshift": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := this.(*runtime.Array)
		a.Unshift(args...)
		return runtime.Number(float64(a.Len())), nil
	},
	"slice": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := this.(*runtime.Array)
		start, end := sliceRange(len(a.Elements), args)
		return runtime.NewArray(append([]runtime.Value{}, a.Elements[start:end]...)...), nil
	},
	"splice": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := this.(*runtime.Array)
		start := clampIndex(toInt(argAt(args, 0)), len(a.Elements))
		count := len(a.Elements) - start
		if len(args) > 1 {
			count = toInt(args[1])
		}
		items := []runtime.Value{}
		if len(args) > 2 {
			items = append(items, args[2:]...)
		}
		removed := a.Splice(start, count, items)
		return runtime.NewArray(removed...), nil
	},
	"concat": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := this.(*runtime.Array)
		out := append([]runtime.Value{}, a.Elements...)
		for _, arg := range args {
			if other, ok := arg.(*runtime.Array); ok {
				out = append(out, other.Elements...)
			} else {
				out = append(out, arg)
			}
		}
		return runtime.NewArray(out...), nil
	},
	"join": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := this.(*runtime.Array)
		sep := ","
		if len(args) > 0 && !runtime.IsUndefined(args[0]) {
			sep = runtime.Stringify(args[0])
		}
		parts := make([]string, len(a.Elements))
		for i, e := range a.Elements {
			if runtime.IsNullish(e) {
				parts[i] = ""
			} else {
				parts[i] = runtime.Stringify(e)
			}
		}
		return runtime.String(strings.Join(parts, sep)), nil
	},
	"reverse": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := this.(*runtime.Array)
		a.Reverse()
		return a, nil
	},
	"includes": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := this.(*runtime.Array)
		target := argAt(args, 0)
		for _, e := range a.Elements {
			if valuesEqual(e, target, true) {
				return runtime.Boolean(true), nil
			}
		}
		return runtime.Boolean(false), nil
	},
	"indexOf": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := this.(*runtime.Array)
		target := argAt(args, 0)
		for i, e := range a.Elements {
			if valuesEqual(e, target, true) {
				return runtime.Number(float64(i)), nil
			}
		}
		return runtime.Number(-1), nil
	},
	"at": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := this.(*runtime.Array)
		i := toInt(argAt(args, 0))
		if i < 0 {
			i += len(a.Elements)
		}
		return a.Get(i), nil
	},
	"flat": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := this.(*runtime.Array)
		depth := 1
		if len(args) > 0 {
			depth = toInt(args[0])
		}
		return runtime.NewArray(flatten(a.Elements, depth)...), nil
	},
	"forEach": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := this.(*runtime.Array)
		fn, ok := asFunc(argAt(args, 0))
		if !ok {
			return nil, c.typeError("callback is not a function")
		}
		for i, e := range a.Elements {
			if _, err := c.callFunction(fn, runtime.Undefined, []runtime.Value{e, runtime.Number(float64(i)), a}); err != nil {
				return nil, err
			}
		}
		return runtime.Undefined, nil
	},
	"map": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := this.(*runtime.Array)
		fn, ok := asFunc(argAt(args, 0))
		if !ok {
			return nil, c.typeError("callback is not a function")
		}
		out := make([]runtime.Value, len(a.Elements))
		for i, e := range a.Elements {
			v, err := c.callFunction(fn, runtime.Undefined, []runtime.Value{e, runtime.Number(float64(i)), a})
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return runtime.NewArray(out...), nil
	},
	"filter": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := this.(*runtime.Array)
		fn, ok := asFunc(argAt(args, 0))
		if !ok {
			return nil, c.typeError("callback is not a function")
		}
		out := []runtime.Value{}
		for i, e := range a.Elements {
			v, err := c.callFunction(fn, runtime.Undefined, []runtime.Value{e, runtime.Number(float64(i)), a})
			if err != nil {
				return nil, err
			}
			if runtime.Truthy(v) {
				out = append(out, e)
			}
		}
		return runtime.NewArray(out...), nil
	},
	"find": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := this.(*runtime.Array)
		fn, ok := asFunc(argAt(args, 0))
		if !ok {
			return nil, c.typeError("callback is not a function")
		}
		for i, e := range a.Elements {
			v, err := c.callFunction(fn, runtime.Undefined, []runtime.Value{e, runtime.Number(float64(i)), a})
			if err != nil {
				return nil, err
			}
			if runtime.Truthy(v) {
				return e, nil
			}
		}
		return runtime.Undefined, nil
	},
	"findIndex": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := this.(*runtime.Array)
		fn, ok := asFunc(argAt(args, 0))
		if !ok {
			return nil, c.typeError("callback is not a function")
		}
		for i, e := range a.Elements {
			v, err := c.callFunction(fn, runtime.Undefined, []runtime.Value{e, runtime.Number(float64(i)), a})
			if err != nil {
				return nil, err
			}
			if runtime.Truthy(v) {
				return runtime.Number(float64(i)), nil
			}
		}
		return runtime.Number(-1), nil
	},
	"some": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := this.(*runtime.Array)
		fn, ok := asFunc(argAt(args, 0))
		if !ok {
			return nil, c.typeError("callback is not a function")
		}
		for i, e := range a.Elements {
			v, err := c.callFunction(fn, runtime.Undefined, []runtime.Value{e, runtime.Number(float64(i)), a})
			if err != nil {
				return nil, err
			}
			if runtime.Truthy(v) {
				return runtime.Boolean(true), nil
			}
		}
		return runtime.Boolean(false), nil
	},
	"every": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := this.(*runtime.Array)
		fn, ok := asFunc(argAt(args, 0))
		if !ok {
			return nil, c.typeError("callback is not a function")
		}
		for i, e := range a.Elements {
			v, err := c.callFunction(fn, runtime.Undefined, []runtime.Value{e, runtime.Number(float64(i)), a})
			if err != nil {
				return nil, err
			}
			if !runtime.Truthy(v) {
				return runtime.Boolean(false), nil
			}
		}
		return runtime.Boolean(true), nil
	},
	"reduce": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := this.(*runtime.Array)
		fn, ok := asFunc(argAt(args, 0))
		if !ok {
			return nil, c.typeError("callback is not a function")
		}
		i := 0
		var acc runtime.Value
		if len(args) > 1 {
			acc = args[1]
		} else {
			if len(a.Elements) == 0 {
				return nil, c.typeError("Reduce of empty array with no initial value")
			}
			acc = a.Elements[0]
			i = 1
		}
		for ; i < len(a.Elements); i++ {
			v, err := c.callFunction(fn, runtime.Undefined, []runtime.Value{acc, a.Elements[i], runtime.Number(float64(i)), a})
			if err != nil {
				return nil, err
			}
			acc = v
		}
		return acc, nil
	},
	"sort": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := this.(*runtime.Array)
		cmp, hasCmp := asFunc(argAt(args, 0))
		var sortErr error
		sort.SliceStable(a.Elements, func(i, j int) bool {
			if sortErr != nil {
				return false
			}
			if hasCmp {
				v, err := c.callFunction(cmp, runtime.Undefined, []runtime.Value{a.Elements[i], a.Elements[j]})
				if err != nil {
					sortErr = err
					return false
				}
				return toFloat(v) < 0
			}
			return runtime.Stringify(a.Elements[i]) < runtime.Stringify(a.Elements[j])
		})
		if sortErr != nil {
			return nil, sortErr
		}
		return a, nil
	},
}

var stringMethods = map[string]structMethod{
	"toUpperCase": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.String(strings.ToUpper(string(this.(runtime.String)))), nil
	},
	"toLowerCase": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.String(strings.ToLower(string(this.(runtime.String)))), nil
	},
	"trim": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.String(strings.TrimSpace(string(this.(runtime.String)))), nil
	},
	"split": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		s := string(this.(runtime.String))
		if len(args) == 0 || runtime.IsUndefined(args[0]) {
			return runtime.NewArray(runtime.String(s)), nil
		}
		sep := runtime.Stringify(args[0])
		var parts []string
		if sep == "" {
			for _, r := range s {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(s, sep)
		}
		out := make([]runtime.Value, len(parts))
		for i, p := range parts {
			out[i] = runtime.String(p)
		}
		return runtime.NewArray(out...), nil
	},
	"includes": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Boolean(strings.Contains(string(this.(runtime.String)), runtime.Stringify(argAt(args, 0)))), nil
	},
	"indexOf": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		idx := strings.Index(string(this.(runtime.String)), runtime.Stringify(argAt(args, 0)))
		return runtime.Number(float64(idx)), nil
	},
	"startsWith": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Boolean(strings.HasPrefix(string(this.(runtime.String)), runtime.Stringify(argAt(args, 0)))), nil
	},
	"endsWith": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Boolean(strings.HasSuffix(string(this.(runtime.String)), runtime.Stringify(argAt(args, 0)))), nil
	},
	"slice": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		runes := []rune(string(this.(runtime.String)))
		start, end := sliceRange(len(runes), args)
		return runtime.String(string(runes[start:end])), nil
	},
	"substring": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		runes := []rune(string(this.(runtime.String)))
		start := clampIndex(toInt(argAt(args, 0)), len(runes))
		end := len(runes)
		if len(args) > 1 && !runtime.IsUndefined(args[1]) {
			end = clampIndex(toInt(args[1]), len(runes))
		}
		if start > end {
			start, end = end, start
		}
		return runtime.String(string(runes[start:end])), nil
	},
	"replace": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		s := string(this.(runtime.String))
		old := runtime.Stringify(argAt(args, 0))
		return runtime.String(strings.Replace(s, old, runtime.Stringify(argAt(args, 1)), 1)), nil
	},
	"replaceAll": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		s := string(this.(runtime.String))
		old := runtime.Stringify(argAt(args, 0))
		return runtime.String(strings.ReplaceAll(s, old, runtime.Stringify(argAt(args, 1)))), nil
	},
	"repeat": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		n := toInt(argAt(args, 0))
		if n < 0 {
			return nil, c.rangeError("Invalid count value: %d", n)
		}
		return runtime.String(strings.Repeat(string(this.(runtime.String)), n)), nil
	},
	"padStart": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.String(pad(string(this.(runtime.String)), args, true)), nil
	},
	"padEnd": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.String(pad(string(this.(runtime.String)), args, false)), nil
	},
	"charAt": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		runes := []rune(string(this.(runtime.String)))
		i := toInt(argAt(args, 0))
		if i < 0 || i >= len(runes) {
			return runtime.String(""), nil
		}
		return runtime.String(string(runes[i])), nil
	},
	"at": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		runes := []rune(string(this.(runtime.String)))
		i := toInt(argAt(args, 0))
		if i < 0 {
			i += len(runes)
		}
		if i < 0 || i >= len(runes) {
			return runtime.Undefined, nil
		}
		return runtime.String(string(runes[i])), nil
	},
	"concat": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		s := string(this.(runtime.String))
		for _, a := range args {
			s += runtime.Stringify(a)
		}
		return runtime.String(s), nil
	},
}

func pad(s string, args []runtime.Value, start bool) string {
	target := toInt(argAt(args, 0))
	fill := " "
	if len(args) > 1 && !runtime.IsUndefined(args[1]) {
		fill = runtime.Stringify(args[1])
	}
	runes := []rune(s)
	if fill == "" || len(runes) >= target {
		return s
	}
	need := target - len(runes)
	fillRunes := []rune(fill)
	padding := make([]rune, 0, need)
	for len(padding) < need {
		padding = append(padding, fillRunes...)
	}
	padding = padding[:need]
	if start {
		return string(padding) + s
	}
	return s + string(padding)
}

var mapMethods = map[string]structMethod{
	"get": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		v, ok := this.(*runtime.Map).Get(argAt(args, 0))
		if !ok {
			return runtime.Undefined, nil
		}
		return v, nil
	},
	"set": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		this.(*runtime.Map).Set(argAt(args, 0), argAt(args, 1))
		return this, nil
	},
	"has": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Boolean(this.(*runtime.Map).Has(argAt(args, 0))), nil
	},
	"delete": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Boolean(this.(*runtime.Map).Delete(argAt(args, 0))), nil
	},
	"forEach": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		m := this.(*runtime.Map)
		fn, ok := asFunc(argAt(args, 0))
		if !ok {
			return nil, c.typeError("callback is not a function")
		}
		for _, k := range m.Keys() {
			v, _ := m.Get(k)
			if _, err := c.callFunction(fn, runtime.Undefined, []runtime.Value{v, k, m}); err != nil {
				return nil, err
			}
		}
		return runtime.Undefined, nil
	},
	"keys": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.NewArray(this.(*runtime.Map).Keys()...), nil
	},
	"values": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		m := this.(*runtime.Map)
		out := make([]runtime.Value, 0, m.Size())
		for _, k := range m.Keys() {
			v, _ := m.Get(k)
			out = append(out, v)
		}
		return runtime.NewArray(out...), nil
	},
	"entries": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		m := this.(*runtime.Map)
		out := make([]runtime.Value, 0, m.Size())
		for _, k := range m.Keys() {
			v, _ := m.Get(k)
			out = append(out, runtime.NewArray(k, v))
		}
		return runtime.NewArray(out...), nil
	},
}

var setMethods = map[string]structMethod{
	"add": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		this.(*runtime.Set).Add(argAt(args, 0))
		return this, nil
	},
	"has": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Boolean(this.(*runtime.Set).Has(argAt(args, 0))), nil
	},
	"delete": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Boolean(this.(*runtime.Set).Delete(argAt(args, 0))), nil
	},
	"forEach": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		s := this.(*runtime.Set)
		fn, ok := asFunc(argAt(args, 0))
		if !ok {
			return nil, c.typeError("callback is not a function")
		}
		for _, v := range s.Values() {
			if _, err := c.callFunction(fn, runtime.Undefined, []runtime.Value{v, v, s}); err != nil {
				return nil, err
			}
		}
		return runtime.Undefined, nil
	},
	"values": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.NewArray(this.(*runtime.Set).Values()...), nil
	},
}

var functionMethods = map[string]structMethod{
	"call": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		fn := this.(*runtime.Function)
		var rest []runtime.Value
		thisArg := argAt(args, 0)
		if len(args) > 1 {
			rest = args[1:]
		}
		return c.callFunction(fn, thisArg, rest)
	},
	"apply": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		fn := this.(*runtime.Function)
		thisArg := argAt(args, 0)
		var rest []runtime.Value
		if arr, ok := argAt(args, 1).(*runtime.Array); ok {
			rest = arr.Elements
		}
		return c.callFunction(fn, thisArg, rest)
	},
	"bind": func(c ctx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		fn := this.(*runtime.Function)
		thisArg := argAt(args, 0)
		preset := append([]runtime.Value{}, argsTail(args)...)
		bound := runtime.NewNativeFunction("bound "+fn.Name, fn.Length, func(_ runtime.Value, callArgs []runtime.Value) (runtime.Value, error) {
			return c.callFunction(fn, thisArg, append(append([]runtime.Value{}, preset...), callArgs...))
		})
		return bound, nil
	},
}

func argsTail(args []runtime.Value) []runtime.Value {
	if len(args) <= 1 {
		return nil
	}
	return args[1:]
}

func sliceRange(n int, args []runtime.Value) (int, int) {
	start := 0
	if len(args) > 0 && !runtime.IsUndefined(args[0]) {
		start = clampIndex(toInt(args[0]), n)
	}
	end := n
	if len(args) > 1 && !runtime.IsUndefined(args[1]) {
		end = clampIndex(toInt(args[1]), n)
	}
	if end < start {
		end = start
	}
	return start, end
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func flatten(elems []runtime.Value, depth int) []runtime.Value {
	if depth <= 0 {
		return append([]runtime.Value{}, elems...)
	}
	out := []runtime.Value{}
	for _, e := range elems {
		if a, ok := e.(*runtime.Array); ok {
			out = append(out, flatten(a.Elements, depth-1)...)
		} else {
			out = append(out, e)
		}
	}
	return out
}
