package interp

import (
	"math/big"
	"strings"

	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/lexer"
	"github.com/mvendel/go-tsx/internal/runtime"
)

// evalExpr dispatches over every ast.Expr concrete type (spec §4.4).
func (c ctx) evalExpr(e ast.Expr) (runtime.Value, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return literalToValue(n.Value), nil
	case *ast.Ident:
		return c.evalVariable(n.Name)
	case *ast.Variable:
		return c.evalVariable(n.Name)
	case *ast.This:
		return c.lookupThis(), nil
	case *ast.Grouping:
		return c.evalExpr(n.Inner)
	case *ast.Binary:
		return c.evalBinary(n)
	case *ast.Logical:
		return c.evalLogical(n)
	case *ast.NullishCoalescing:
		left, err := c.evalExpr(n.Left)
		if err != nil {
			return nil, err
		}
		if !runtime.IsNullish(left) {
			return left, nil
		}
		return c.evalExpr(n.Right)
	case *ast.Unary:
		return c.evalUnary(n)
	case *ast.Ternary:
		cond, err := c.evalExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(cond) {
			return c.evalExpr(n.Then)
		}
		return c.evalExpr(n.Else)
	case *ast.Delete:
		return c.evalDelete(n)
	case *ast.Assign:
		v, err := c.evalExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return c.assignTo(n.Name, v)
	case *ast.CompoundAssign:
		return c.evalCompoundAssign(n)
	case *ast.LogicalAssign:
		return c.evalLogicalAssign(n)
	case *ast.IncDec:
		return c.evalIncDec(n)
	case *ast.Get:
		return c.evalGet(n)
	case *ast.GetIndex:
		return c.evalGetIndex(n)
	case *ast.Call:
		return c.evalCall(n)
	case *ast.New:
		return c.evalNew(n)
	case *ast.ArrowFunction:
		return c.evalArrowFunction(n), nil
	case *ast.ArrayLiteral:
		return c.evalArrayLiteral(n)
	case *ast.ObjectLiteral:
		return c.evalObjectLiteral(n)
	case *ast.Spread:
		return c.evalExpr(n.Value)
	case *ast.TemplateLiteral:
		return c.evalTemplateLiteral(n)
	case *ast.TaggedTemplateLiteral:
		return c.evalTaggedTemplate(n)
	case *ast.RegexLiteral:
		return &runtime.Regex{Source: n.Pattern, Flags: n.Flags}, nil
	case *ast.TypeAssertion:
		return c.evalExpr(n.Value)
	case *ast.Satisfies:
		return c.evalExpr(n.Value)
	case *ast.NonNullAssertion:
		v, err := c.evalExpr(n.Value)
		if err != nil {
			return nil, err
		}
		if runtime.IsNullish(v) {
			return nil, c.typeError("non-null assertion failed")
		}
		return v, nil
	case *ast.Await:
		return c.evalAwait(n)
	case *ast.Yield:
		return c.evalYield(n)
	case *ast.DynamicImport:
		return c.evalDynamicImport(n)
	case *ast.ImportMeta:
		meta := runtime.NewObject()
		meta.Set("url", runtime.String(""), nil)
		return meta, nil
	case *ast.ClassExpr:
		return c.evalClassDecl(n.Decl)
	case *ast.Super:
		return nil, c.typeError("'super' keyword is only valid inside a class")
	default:
		return nil, c.typeError("cannot evaluate expression node")
	}
}

func (c ctx) evalVariable(name string) (runtime.Value, error) {
	if v, ok := c.env.Get(name); ok {
		return v, nil
	}
	return nil, c.referenceError(lexer.Position{}, name)
}

func (c ctx) evalLogical(n *ast.Logical) (runtime.Value, error) {
	left, err := c.evalExpr(n.Left)
	if err != nil {
		return nil, err
	}
	if n.Op == "&&" {
		if !runtime.Truthy(left) {
			return left, nil
		}
		return c.evalExpr(n.Right)
	}
	// "||"
	if runtime.Truthy(left) {
		return left, nil
	}
	return c.evalExpr(n.Right)
}

func (c ctx) evalUnary(n *ast.Unary) (runtime.Value, error) {
	if n.Op == "typeof" {
		if v, ok := n.Operand.(*ast.Variable); ok {
			if val, found := c.env.Get(v.Name); found {
				return runtime.String(val.TypeOf()), nil
			}
			return runtime.String("undefined"), nil
		}
	}
	v, err := c.evalExpr(n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "!":
		return runtime.Boolean(!runtime.Truthy(v)), nil
	case "-":
		if bi, ok := v.(runtime.BigInt); ok {
			return runtime.NewBigInt(new(big.Int).Neg(bi.V)), nil
		}
		return runtime.Number(-toFloat(v)), nil
	case "+":
		return runtime.Number(toFloat(v)), nil
	case "~":
		return runtime.Number(float64(^toInt32(v))), nil
	case "void":
		return runtime.Undefined, nil
	case "typeof":
		return runtime.String(v.TypeOf()), nil
	default:
		return nil, c.typeError("unknown unary operator %q", n.Op)
	}
}

func (c ctx) evalDelete(n *ast.Delete) (runtime.Value, error) {
	switch t := n.Target.(type) {
	case *ast.Get:
		obj, err := c.evalExpr(t.Object)
		if err != nil {
			return nil, err
		}
		switch o := obj.(type) {
		case *runtime.Object:
			return runtime.Boolean(o.Delete(t.Name)), nil
		case *runtime.Instance:
			delete(o.Fields, t.Name)
			return runtime.Boolean(true), nil
		}
		return runtime.Boolean(true), nil
	case *ast.GetIndex:
		obj, err := c.evalExpr(t.Object)
		if err != nil {
			return nil, err
		}
		idx, err := c.evalExpr(t.Index)
		if err != nil {
			return nil, err
		}
		if o, ok := obj.(*runtime.Object); ok {
			return runtime.Boolean(o.Delete(runtime.Stringify(idx))), nil
		}
		return runtime.Boolean(true), nil
	default:
		return runtime.Boolean(true), nil
	}
}

func (c ctx) assignTo(target ast.Expr, v runtime.Value) (runtime.Value, error) {
	switch t := target.(type) {
	case *ast.Variable:
		if err := c.env.Assign(t.Name, v); err != nil {
			return nil, c.referenceError(lexer.Position{}, t.Name)
		}
		return v, nil
	case *ast.Ident:
		if err := c.env.Assign(t.Name, v); err != nil {
			return nil, c.referenceError(lexer.Position{}, t.Name)
		}
		return v, nil
	case *ast.Get:
		obj, err := c.evalExpr(t.Object)
		if err != nil {
			return nil, err
		}
		if err := setProperty(c, obj, t.Name, v); err != nil {
			return nil, err
		}
		return v, nil
	case *ast.GetIndex:
		obj, err := c.evalExpr(t.Object)
		if err != nil {
			return nil, err
		}
		idx, err := c.evalExpr(t.Index)
		if err != nil {
			return nil, err
		}
		if err := setProperty(c, obj, runtime.Stringify(idx), v); err != nil {
			return nil, err
		}
		return v, nil
	case *ast.ArrayLiteral, *ast.ObjectLiteral:
		if err := assignPattern(c, target, v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, c.typeError("invalid assignment target")
	}
}

func (c ctx) evalCompoundAssign(n *ast.CompoundAssign) (runtime.Value, error) {
	cur, err := c.evalExpr(n.Name)
	if err != nil {
		return nil, err
	}
	rhs, err := c.evalExpr(n.Value)
	if err != nil {
		return nil, err
	}
	op := strings.TrimSuffix(n.Op, "=")
	result, err := applyBinaryOp(c, op, cur, rhs)
	if err != nil {
		return nil, err
	}
	return c.assignTo(n.Name, result)
}

func (c ctx) evalLogicalAssign(n *ast.LogicalAssign) (runtime.Value, error) {
	cur, err := c.evalExpr(n.Name)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "&&=":
		if !runtime.Truthy(cur) {
			return cur, nil
		}
	case "||=":
		if runtime.Truthy(cur) {
			return cur, nil
		}
	case "??=":
		if !runtime.IsNullish(cur) {
			return cur, nil
		}
	}
	rhs, err := c.evalExpr(n.Value)
	if err != nil {
		return nil, err
	}
	return c.assignTo(n.Name, rhs)
}

func (c ctx) evalIncDec(n *ast.IncDec) (runtime.Value, error) {
	cur, err := c.evalExpr(n.Target)
	if err != nil {
		return nil, err
	}
	var next runtime.Value
	if bi, ok := cur.(runtime.BigInt); ok {
		delta := big.NewInt(1)
		if n.Op == "--" {
			delta = big.NewInt(-1)
		}
		next = runtime.NewBigInt(new(big.Int).Add(bi.V, delta))
	} else {
		delta := 1.0
		if n.Op == "--" {
			delta = -1.0
		}
		next = runtime.Number(toFloat(cur) + delta)
	}
	if _, err := c.assignTo(n.Target, next); err != nil {
		return nil, err
	}
	if n.Prefix {
		return next, nil
	}
	if _, ok := cur.(runtime.BigInt); ok {
		return cur, nil
	}
	return runtime.Number(toFloat(cur)), nil
}

func (c ctx) evalGet(n *ast.Get) (runtime.Value, error) {
	if s, ok := n.Object.(*ast.Super); ok {
		return c.evalSuperGet(s, n.Name)
	}
	obj, err := c.evalExpr(n.Object)
	if err != nil {
		return nil, err
	}
	if n.Optional && runtime.IsNullish(obj) {
		return runtime.Undefined, nil
	}
	if runtime.IsNullish(obj) {
		return nil, c.typeError("cannot read properties of %s (reading '%s')", runtime.Stringify(obj), n.Name)
	}
	return getProperty(c, obj, n.Name)
}

func (c ctx) evalGetIndex(n *ast.GetIndex) (runtime.Value, error) {
	obj, err := c.evalExpr(n.Object)
	if err != nil {
		return nil, err
	}
	if n.Optional && runtime.IsNullish(obj) {
		return runtime.Undefined, nil
	}
	idx, err := c.evalExpr(n.Index)
	if err != nil {
		return nil, err
	}
	if sym, ok := idx.(*runtime.Symbol); ok {
		switch o := obj.(type) {
		case *runtime.Object:
			if v, ok := o.GetSymbol(sym); ok {
				return v, nil
			}
		case *runtime.Instance:
			if v, ok := o.GetSymbol(sym); ok {
				return v, nil
			}
		}
		return runtime.Undefined, nil
	}
	if runtime.IsNullish(obj) {
		return nil, c.typeError("cannot read properties of %s", runtime.Stringify(obj))
	}
	return getProperty(c, obj, runtime.Stringify(idx))
}

// evalArrowFunction builds the runtime function for both true arrows and
// function expressions (ast.ArrowFunction covers both via Flags.Arrow).
func (c ctx) evalArrowFunction(n *ast.ArrowFunction) *runtime.Function {
	fn := makeFunction(c, n.Name, n.Params, n.Body, n.Expr, n.Flags)
	if n.Flags.Arrow {
		fn.BoundThis = c.lookupThis()
	}
	return fn
}

func (c ctx) evalArrayLiteral(n *ast.ArrayLiteral) (runtime.Value, error) {
	out := []runtime.Value{}
	for _, el := range n.Elements {
		if el.Hole {
			out = append(out, runtime.Undefined)
			continue
		}
		if el.Spread {
			v, err := c.evalExpr(el.Value)
			if err != nil {
				return nil, err
			}
			items, err := c.iterateToSlice(v)
			if err != nil {
				return nil, err
			}
			out = append(out, items...)
			continue
		}
		v, err := c.evalExpr(el.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return runtime.NewArray(out...), nil
}

func (c ctx) evalObjectLiteral(n *ast.ObjectLiteral) (runtime.Value, error) {
	obj := runtime.NewObject()
	for _, prop := range n.Properties {
		if prop.Kind == ast.PropSpread {
			v, err := c.evalExpr(prop.Value)
			if err != nil {
				return nil, err
			}
			for _, k := range ownKeysOf(v) {
				pv, err := getProperty(c, v, k)
				if err != nil {
					return nil, err
				}
				obj.Set(k, pv, nil)
			}
			continue
		}
		key, err := propKeyString(c, prop)
		if err != nil {
			return nil, err
		}
		switch prop.Kind {
		case ast.PropGetter:
			fn := c.evalArrowFunction(prop.Value.(*ast.ArrowFunction))
			obj.DefineAccessor(key, fn, nil)
		case ast.PropSetter:
			fn := c.evalArrowFunction(prop.Value.(*ast.ArrowFunction))
			obj.DefineAccessor(key, nil, fn)
		default:
			v, err := c.evalExpr(prop.Value)
			if err != nil {
				return nil, err
			}
			obj.Set(key, v, nil)
		}
	}
	return obj, nil
}

func (c ctx) evalTemplateLiteral(n *ast.TemplateLiteral) (runtime.Value, error) {
	var b strings.Builder
	for i, s := range n.Strings {
		b.WriteString(s)
		if i < len(n.Expressions) {
			v, err := c.evalExpr(n.Expressions[i])
			if err != nil {
				return nil, err
			}
			b.WriteString(runtime.Stringify(v))
		}
	}
	return runtime.String(b.String()), nil
}

func (c ctx) evalTaggedTemplate(n *ast.TaggedTemplateLiteral) (runtime.Value, error) {
	tag, err := c.evalExpr(n.Tag)
	if err != nil {
		return nil, err
	}
	stringsArg := c.taggedTemplateStrings(n)
	args := []runtime.Value{stringsArg}
	for _, e := range n.Expressions {
		v, err := c.evalExpr(e)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return c.callValue(tag, runtime.Undefined, args)
}

// taggedTemplateStrings returns the `strings`/`raw` array argument for a
// tagged template call site, building it once per node and reusing it
// on every subsequent call to the same call site.
func (c ctx) taggedTemplateStrings(n *ast.TaggedTemplateLiteral) *runtime.Object {
	if c.it.templateStrings == nil {
		c.it.templateStrings = make(map[*ast.TaggedTemplateLiteral]*runtime.Object)
	}
	if cached, ok := c.it.templateStrings[n]; ok {
		return cached
	}
	cooked := make([]runtime.Value, len(n.Cooked))
	for i, s := range n.Cooked {
		cooked[i] = runtime.String(s)
	}
	raw := make([]runtime.Value, len(n.Raw))
	for i, s := range n.Raw {
		raw[i] = runtime.String(s)
	}
	// The `strings` argument a tagged template call receives is array-like
	// plus a `.raw` array (spec §4.4); modelled here as a plain Object
	// carrying both, since Array has no generic extra-property slot.
	stringsArg := runtime.NewObject()
	for i, v := range cooked {
		stringsArg.Set(runtime.Stringify(runtime.Number(float64(i))), v, nil)
	}
	stringsArg.Set("length", runtime.Number(float64(len(cooked))), nil)
	stringsArg.Set("raw", runtime.NewArray(raw...), nil)
	c.it.templateStrings[n] = stringsArg
	return stringsArg
}

func (c ctx) evalSuperGet(s *ast.Super, name string) (runtime.Value, error) {
	this := c.lookupThis()
	inst, ok := this.(*runtime.Instance)
	if !ok || c.ownerClass == nil || c.ownerClass.Super == nil {
		return nil, c.typeError("'super' keyword is only valid inside a derived class")
	}
	if m, ok := c.ownerClass.Super.LookupMethod(name); ok {
		return bindMethod(m, inst), nil
	}
	if g, ok := c.ownerClass.Super.LookupGetter(name); ok {
		return c.invokeAccessor(g, inst), nil
	}
	return runtime.Undefined, nil
}

func (c ctx) evalDynamicImport(n *ast.DynamicImport) (runtime.Value, error) {
	pathVal, err := c.evalExpr(n.Path)
	if err != nil {
		return nil, err
	}
	path := runtime.Stringify(pathVal)
	p := runtime.NewPromise(c.it.Sched)
	ns, ok := c.it.moduleNamespace(path)
	if !ok {
		p.Reject(runtime.String("module not found: "+path), c.it.runFunc)
		return p, nil
	}
	p.Resolve(ns, c.it.runFunc)
	return p, nil
}
