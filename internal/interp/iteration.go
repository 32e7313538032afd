package interp

import (
	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/runtime"
)

func declKindFor(m ast.VarModifier) runtime.DeclKind {
	switch m {
	case ast.ModConst:
		return runtime.DeclConst
	case ast.ModLet:
		return runtime.DeclLet
	default:
		return runtime.DeclVar
	}
}

// getIterator resolves v's iterator: arrays, strings, Maps and Sets are
// iterated structurally (no real Symbol.iterator is installed on them,
// matching SPEC_FULL.md §C.3's "no real prototype chain"), while plain
// objects/instances are driven through an installed Symbol.iterator
// method (generator objects included, since wrapGenerator installs one).
func (c ctx) getIterator(v runtime.Value) (runtime.Value, error) {
	switch b := v.(type) {
	case *runtime.Array:
		return newSliceIterator(elementsOf(b)), nil
	case runtime.String:
		runes := []rune(string(b))
		items := make([]runtime.Value, len(runes))
		for i, r := range runes {
			items[i] = runtime.String(string(r))
		}
		return newSliceIterator(items), nil
	case *runtime.Map:
		items := make([]runtime.Value, 0, b.Size())
		for _, k := range b.Keys() {
			val, _ := b.Get(k)
			items = append(items, runtime.NewArray(k, val))
		}
		return newSliceIterator(items), nil
	case *runtime.Set:
		return newSliceIterator(b.Values()), nil
	case *runtime.Object:
		if fn, ok := b.GetSymbol(runtime.SymbolIterator); ok {
			iterFn, ok := fn.(*runtime.Function)
			if !ok {
				return nil, c.typeError("value is not iterable")
			}
			return c.callFunction(iterFn, b, nil)
		}
		return nil, c.typeError("value is not iterable")
	case *runtime.Instance:
		if g, ok := b.GetSymbol(runtime.SymbolIterator); ok {
			iterFn, ok := g.(*runtime.Function)
			if !ok {
				return nil, c.typeError("value is not iterable")
			}
			return c.callFunction(iterFn, b, nil)
		}
		return nil, c.typeError("value is not iterable")
	default:
		return nil, c.typeError("value is not iterable")
	}
}

func elementsOf(a *runtime.Array) []runtime.Value {
	out := make([]runtime.Value, a.Len())
	for i := range out {
		out[i] = a.Get(i)
	}
	return out
}

// newSliceIterator wraps a fixed slice in an iterator object with `next`
// and `[Symbol.iterator]` (no `return`/`throw`), so iterateToSlice/for-of/
// yield* can treat every iterable uniformly.
func newSliceIterator(items []runtime.Value) *runtime.Object {
	idx := 0
	obj := runtime.NewObject()
	obj.Set("next", runtime.NewNativeFunction("next", 0, func(_ runtime.Value, _ []runtime.Value) (runtime.Value, error) {
		r := runtime.NewObject()
		if idx >= len(items) {
			r.Set("value", runtime.Undefined, nil)
			r.Set("done", runtime.Boolean(true), nil)
			return r, nil
		}
		r.Set("value", items[idx], nil)
		r.Set("done", runtime.Boolean(false), nil)
		idx++
		return r, nil
	}), nil)
	obj.SetSymbol(runtime.SymbolIterator, runtime.NewNativeFunction("[Symbol.iterator]", 0, func(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
		return obj, nil
	}))
	return obj
}

func (c ctx) iteratorNext(iter runtime.Value, sent runtime.Value) (runtime.Value, error) {
	nextFn, err := getProperty(c, iter, "next")
	if err != nil {
		return nil, err
	}
	fn, ok := nextFn.(*runtime.Function)
	if !ok {
		return nil, c.typeError("iterator result has no callable next()")
	}
	return c.callFunction(fn, iter, []runtime.Value{sent})
}

func (c ctx) iteratorStepResult(step runtime.Value) (done bool, value runtime.Value, err error) {
	doneVal, err := getProperty(c, step, "done")
	if err != nil {
		return false, nil, err
	}
	v, err := getProperty(c, step, "value")
	if err != nil {
		return false, nil, err
	}
	return runtime.Truthy(doneVal), v, nil
}

// iterateToSlice drains any iterable into a slice, used by array spread,
// array destructuring, and the rest-element case of each.
func (c ctx) iterateToSlice(v runtime.Value) ([]runtime.Value, error) {
	if a, ok := v.(*runtime.Array); ok {
		return elementsOf(a), nil
	}
	iter, err := c.getIterator(v)
	if err != nil {
		return nil, err
	}
	var out []runtime.Value
	for {
		step, err := c.iteratorNext(iter, runtime.Undefined)
		if err != nil {
			return nil, err
		}
		done, value, err := c.iteratorStepResult(step)
		if err != nil {
			return nil, err
		}
		if done {
			return out, nil
		}
		out = append(out, value)
	}
}

// execForOf runs a `for (pat of iterable)` loop, binding pat fresh each
// iteration (spec §4.2: each iteration gets its own let/const binding).
func (c ctx) execForOf(n *ast.ForOfStmt, labels blockLabels) (Completion, error) {
	src, err := c.evalExpr(n.Iterable)
	if err != nil {
		return Completion{}, err
	}
	iter, err := c.getIterator(src)
	if err != nil {
		return Completion{}, err
	}
	for {
		step, err := c.iteratorNext(iter, runtime.Undefined)
		if err != nil {
			return Completion{}, err
		}
		done, value, err := c.iteratorStepResult(step)
		if err != nil {
			return Completion{}, err
		}
		if done {
			return normal(runtime.Undefined), nil
		}
		if n.Await {
			value, err = c.awaitValue(value)
			if err != nil {
				return Completion{}, err
			}
		}
		iterCtx := c.child()
		if err := bindPattern(iterCtx, n.Pattern, value, declKindFor(n.Modifier)); err != nil {
			return Completion{}, err
		}
		comp, err := iterCtx.execStmt(n.Body)
		if err != nil {
			return Completion{}, err
		}
		switch comp.Kind {
		case Break:
			if comp.Label == "" || labels.has(comp.Label) {
				return normal(runtime.Undefined), nil
			}
			return comp, nil
		case Continue:
			if comp.Label != "" && !labels.has(comp.Label) {
				return comp, nil
			}
		case Return:
			return comp, nil
		}
	}
}

// execForIn runs a `for (pat in obj)` loop over obj's own enumerable
// string keys in insertion order (spec §4.2).
func (c ctx) execForIn(n *ast.ForInStmt, labels blockLabels) (Completion, error) {
	obj, err := c.evalExpr(n.Object)
	if err != nil {
		return Completion{}, err
	}
	keys := ownKeysOf(obj)
	for _, k := range keys {
		iterCtx := c.child()
		if err := bindPattern(iterCtx, n.Pattern, runtime.String(k), declKindFor(n.Modifier)); err != nil {
			return Completion{}, err
		}
		comp, err := iterCtx.execStmt(n.Body)
		if err != nil {
			return Completion{}, err
		}
		switch comp.Kind {
		case Break:
			if comp.Label == "" || labels.has(comp.Label) {
				return normal(runtime.Undefined), nil
			}
			return comp, nil
		case Continue:
			if comp.Label != "" && !labels.has(comp.Label) {
				return comp, nil
			}
		case Return:
			return comp, nil
		}
	}
	return normal(runtime.Undefined), nil
}
