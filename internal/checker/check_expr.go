package checker

import (
	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/lexer"
	"github.com/mvendel/go-tsx/internal/types"
)

// checkExpr is pass 2's expression dispatch (spec §4.3/§4.4): it resolves
// a type for every expression node, records it in the TypeMap, and raises
// diagnostics for operator/assignability/member violations along the way.
func (c *Checker) checkExpr(e ast.Expr) *types.Type {
	if e == nil {
		return types.Any
	}
	var t *types.Type
	switch n := e.(type) {
	case *ast.Literal:
		t = c.checkLiteral(n)
	case *ast.Variable:
		t = c.checkVariable(n.Name, n.Pos())
	case *ast.Ident:
		t = c.checkVariable(n.Name, n.Pos())
	case *ast.This:
		t = c.currentThis
		if t == nil {
			t = types.Any
		}
	case *ast.Super:
		t = types.Any
	case *ast.Grouping:
		t = c.checkExpr(n.Inner)
	case *ast.Binary:
		t = c.checkBinary(n)
	case *ast.Logical:
		t = c.checkLogical(n)
	case *ast.NullishCoalescing:
		left := c.checkExpr(n.Left)
		right := c.checkExpr(n.Right)
		t = types.Union(stripNullish(left), right)
	case *ast.Unary:
		t = c.checkUnary(n)
	case *ast.Ternary:
		t = c.checkTernary(n)
	case *ast.Delete:
		c.checkExpr(n.Target)
		t = types.Boolean
	case *ast.Assign:
		t = c.checkAssign(n)
	case *ast.CompoundAssign:
		c.checkExpr(n.Value)
		t = c.checkExpr(n.Name)
	case *ast.LogicalAssign:
		c.checkExpr(n.Value)
		t = c.checkExpr(n.Name)
	case *ast.IncDec:
		t = c.checkExpr(n.Target)
		if !types.Assignable(types.Number, t, false) {
			c.error(InvalidOperator, n.Pos(), "operator %s requires a numeric operand", n.Op)
		}
		t = types.Number
	case *ast.Get:
		t = c.checkGet(n)
	case *ast.GetIndex:
		t = c.checkGetIndex(n)
	case *ast.Call:
		t = c.checkCall(n)
	case *ast.New:
		t = c.checkNew(n)
	case *ast.ArrowFunction:
		t = c.checkArrowFunction(n)
	case *ast.ArrayLiteral:
		t = c.checkArrayLiteral(n)
	case *ast.ObjectLiteral:
		t = c.checkObjectLiteral(n)
	case *ast.Spread:
		t = c.checkExpr(n.Value)
	case *ast.TemplateLiteral:
		for _, ex := range n.Expressions {
			c.checkExpr(ex)
		}
		t = types.String
	case *ast.TaggedTemplateLiteral:
		c.checkExpr(n.Tag)
		for _, ex := range n.Expressions {
			c.checkExpr(ex)
		}
		t = types.Any
	case *ast.RegexLiteral:
		t = &types.Type{Kind: types.KindTypeReference, RefName: "RegExp"}
	case *ast.TypeAssertion:
		c.checkExpr(n.Value)
		t = c.resolveTypeExpr(n.Type)
	case *ast.Satisfies:
		vt := c.checkExpr(n.Value)
		st := c.resolveTypeExpr(n.Type)
		if !types.Assignable(st, vt, true) {
			c.error(NotAssignable, n.Pos(), "type %s does not satisfy %s", vt.String(), st.String())
		}
		t = vt
	case *ast.NonNullAssertion:
		t = stripNullish(c.checkExpr(n.Value))
	case *ast.Await:
		inner := c.checkExpr(n.Value)
		t = unwrapPromise(inner)
	case *ast.Yield:
		if n.Value != nil {
			c.checkExpr(n.Value)
		}
		t = types.Any
	case *ast.DynamicImport:
		c.checkExpr(n.Path)
		t = &types.Type{Kind: types.KindTypeReference, RefName: "Promise", RefArgs: []*types.Type{types.Any}}
	case *ast.ImportMeta:
		t = types.Any
	case *ast.ClassExpr:
		c.hoistClass(n.Decl)
		c.checkClassBody(n.Decl)
		cls, _ := c.types.resolve(n.Decl.Name.Name)
		t = cls
	default:
		t = types.Any
	}
	return c.recordType(e, t)
}

func (c *Checker) checkLiteral(n *ast.Literal) *types.Type {
	if n.Value == nil {
		return types.Null
	}
	if n.Value == ast.Undefined {
		return types.Undefined
	}
	return types.Literal(n.Value)
}

func (c *Checker) checkVariable(name string, pos lexer.Position) *types.Type {
	b, ok := c.values.lookup(name)
	if !ok {
		c.error(NotInScope, pos, "%s is not in scope", name)
		return types.Any
	}
	return b.currentType()
}

func stripNullish(t *types.Type) *types.Type {
	if t == nil {
		return types.Any
	}
	if t.Kind != types.KindUnion {
		if t.IsNullish() {
			return types.Never
		}
		return t
	}
	var kept []*types.Type
	for _, m := range t.Members {
		if !m.IsNullish() {
			kept = append(kept, m)
		}
	}
	return types.Union(kept...)
}

func unwrapPromise(t *types.Type) *types.Type {
	if t != nil && t.Kind == types.KindTypeReference && t.RefName == "Promise" && len(t.RefArgs) == 1 {
		return t.RefArgs[0]
	}
	return types.Any
}

func (c *Checker) checkBinary(n *ast.Binary) *types.Type {
	left := c.checkExpr(n.Left)
	right := c.checkExpr(n.Right)
	switch n.Op {
	case "+":
		if left.Kind == types.KindString || right.Kind == types.KindString {
			return types.String
		}
		if isNumericLike(left) && isNumericLike(right) {
			return types.Number
		}
		return types.Union(types.String, types.Number)
	case "-", "*", "/", "%", "**", "&", "|", "^", "<<", ">>", ">>>":
		return types.Number
	case "<", ">", "<=", ">=":
		return types.Boolean
	case "==", "!=", "===", "!==":
		return types.Boolean
	case "instanceof":
		return types.Boolean
	case "in":
		return types.Boolean
	default:
		return types.Any
	}
}

func isNumericLike(t *types.Type) bool {
	return t.Kind == types.KindNumber || t.Kind == types.KindBigInt || t.Kind == types.KindAny
}

// checkLogical checks `&&`/`||`. The right operand is checked under the
// narrowing implied by the left (spec §4.3: `a && a.b` narrows `a` for the
// right operand); the narrowing doesn't escape the expression itself.
func (c *Checker) checkLogical(n *ast.Logical) *types.Type {
	left := c.checkExpr(n.Left)
	name, guard, ok := c.guardFromExpr(n.Left)
	if ok {
		c.narrowInScope(name, guard, n.Op == "&&")
	}
	right := c.checkExpr(n.Right)
	if ok {
		c.clearNarrow(name)
	}
	return types.Union(left, right)
}

func (c *Checker) checkUnary(n *ast.Unary) *types.Type {
	operand := c.checkExpr(n.Operand)
	switch n.Op {
	case "!":
		return types.Boolean
	case "typeof":
		return types.String
	case "void":
		return types.Undefined
	case "-", "+", "~":
		_ = operand
		return types.Number
	default:
		return types.Any
	}
}

func (c *Checker) checkTernary(n *ast.Ternary) *types.Type {
	name, guard, ok := c.guardFromExpr(n.Cond)
	c.checkExpr(n.Cond)
	var base *types.Type
	if ok {
		base, ok = c.snapshotNarrow(name)
	}
	if ok {
		c.applyNarrow(name, base, guard, true)
	}
	thenType := c.checkExpr(n.Then)
	if ok {
		c.applyNarrow(name, base, guard, false)
	}
	elseType := c.checkExpr(n.Else)
	if ok {
		c.clearNarrow(name)
	}
	return types.Union(thenType, elseType)
}

func (c *Checker) checkAssign(n *ast.Assign) *types.Type {
	valueType := c.checkExpr(n.Value)
	switch target := n.Name.(type) {
	case *ast.Variable:
		b, ok := c.values.lookup(target.Name)
		if !ok {
			c.error(NotInScope, n.Pos(), "%s is not in scope", target.Name)
			return valueType
		}
		if !b.mutable {
			c.error(ConstReassignment, n.Pos(), "cannot assign to constant %s", target.Name)
		}
		widened := types.Widen(valueType)
		if !types.Assignable(b.declared, widened, false) {
			c.error(NotAssignable, n.Pos(), "type %s is not assignable to %s", widened.String(), b.declared.String())
		}
		b.narrowed = nil
		return widened
	default:
		c.checkExpr(n.Name)
		return valueType
	}
}

func (c *Checker) checkGet(n *ast.Get) *types.Type {
	objType := c.checkExpr(n.Object)
	if n.Optional {
		objType = stripNullish(objType)
	}
	member := memberType(objType, n.Name)
	if member == nil {
		if objType.Kind != types.KindAny && objType.Kind != types.KindUnknown {
			c.error(UnknownMember, n.Pos(), "property %s does not exist on %s", n.Name, objType.String())
		}
		return types.Any
	}
	if n.Optional {
		return types.Union(member, types.Undefined)
	}
	return member
}

// memberType looks a named member up across the closed set of Type kinds
// that can carry members (spec §4.3's structural/nominal member lookup).
func memberType(t *types.Type, name string) *types.Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case types.KindRecord:
		if f, ok := t.Fields[name]; ok {
			return f
		}
		if t.StringIndex != nil {
			return t.StringIndex
		}
	case types.KindInstance:
		for cls := t.Class; cls != nil; cls = cls.SuperClass {
			if m, ok := cls.InstanceMembers[name]; ok {
				return m
			}
		}
	case types.KindClass:
		for cls := t; cls != nil; cls = cls.SuperClass {
			if m, ok := cls.StaticMembers[name]; ok {
				return m
			}
		}
	case types.KindInterface:
		if m, ok := t.InstanceMembers[name]; ok {
			return m
		}
		for _, ext := range t.Implements {
			if m := memberType(ext, name); m != nil {
				return m
			}
		}
	case types.KindString:
		if name == "length" {
			return types.Number
		}
		return types.Any // string methods deferred to `any`, as for arrays
	case types.KindArray:
		return types.Any // element/indexing handled via GetIndex; array methods deferred to `any`
	case types.KindUnion:
		var members []*types.Type
		for _, m := range t.Members {
			mt := memberType(m, name)
			if mt == nil {
				return nil
			}
			members = append(members, mt)
		}
		return types.Union(members...)
	}
	return nil
}

func (c *Checker) checkGetIndex(n *ast.GetIndex) *types.Type {
	objType := c.checkExpr(n.Object)
	c.checkExpr(n.Index)
	if n.Optional {
		objType = stripNullish(objType)
	}
	switch objType.Kind {
	case types.KindArray:
		return objType.Element
	case types.KindTuple:
		return types.Any
	case types.KindRecord:
		if objType.StringIndex != nil {
			return objType.StringIndex
		}
		if objType.NumberIndex != nil {
			return objType.NumberIndex
		}
	}
	return types.Any
}

func (c *Checker) checkArrayLiteral(n *ast.ArrayLiteral) *types.Type {
	var elemTypes []*types.Type
	for _, el := range n.Elements {
		if el.Hole {
			elemTypes = append(elemTypes, types.Undefined)
			continue
		}
		t := c.checkExpr(el.Value)
		if el.Spread {
			if t.Kind == types.KindArray {
				t = t.Element
			}
		}
		elemTypes = append(elemTypes, types.Widen(t))
	}
	return types.Array(types.Union(elemTypes...))
}

func (c *Checker) checkObjectLiteral(n *ast.ObjectLiteral) *types.Type {
	rec := &types.Type{Kind: types.KindRecord, Fields: map[string]*types.Type{}, OptionalKeys: map[string]bool{}, ReadOnlyKeys: map[string]bool{}}
	for _, p := range n.Properties {
		switch p.Kind {
		case ast.PropSpread:
			t := c.checkExpr(p.Value)
			if t.Kind == types.KindRecord {
				for k, v := range t.Fields {
					rec.Fields[k] = v
				}
			}
		case ast.PropGetter:
			name := keyName(p.Key)
			rec.Fields[name] = c.checkExpr(p.Value)
		case ast.PropSetter:
			// contributes no readable type
			c.checkExpr(p.Value)
		default:
			name := keyName(p.Key)
			var t *types.Type
			if p.Kind == ast.PropShorthand {
				t = c.checkVariable(name, p.Key.Pos())
			} else {
				t = c.checkExpr(p.Value)
			}
			rec.Fields[name] = types.Widen(t)
		}
	}
	return rec
}

func keyName(e ast.Expr) string {
	switch k := e.(type) {
	case *ast.Ident:
		return k.Name
	case *ast.Literal:
		if s, ok := k.Value.(string); ok {
			return s
		}
	}
	return ""
}

func (c *Checker) checkArrowFunction(n *ast.ArrowFunction) *types.Type {
	sig := c.functionSignature(n.Params, n.ReturnType, n.Flags, nil)
	c.pushScope()
	for i, p := range n.Params {
		name := ""
		if id, ok := p.Pattern.(*ast.Ident); ok {
			name = id.Name
		}
		if name != "" {
			c.values.declare(name, sig.Params[i].Type, true)
		}
	}
	savedReturn := c.currentReturn
	c.currentReturn = sig.Return
	if n.Body != nil {
		c.checkStmt(n.Body)
	} else if n.Expr != nil {
		bodyType := c.checkExpr(n.Expr)
		if n.ReturnType != nil && !types.Assignable(sig.Return, bodyType, true) {
			c.error(NotAssignable, n.Pos(), "arrow function body type %s is not assignable to declared return type %s", bodyType.String(), sig.Return.String())
		}
	}
	c.currentReturn = savedReturn
	c.popScope()
	return sig
}

func (c *Checker) checkNew(n *ast.New) *types.Type {
	calleeType := c.checkExpr(n.Callee)
	for _, a := range n.Args {
		c.checkExpr(a)
	}
	if calleeType.Kind != types.KindClass {
		if calleeType.Kind != types.KindAny {
			c.error(NotCallable, n.Pos(), "%s is not a constructor", calleeType.String())
		}
		return types.Any
	}
	if calleeType.Abstract {
		c.error(AbstractNotImpl, n.Pos(), "cannot instantiate abstract class %s", calleeType.Name)
	}
	if calleeType.ConstructorSig != nil {
		checkArgCount(c, n.Pos(), calleeType.ConstructorSig, len(n.Args))
	}
	return &types.Type{Kind: types.KindInstance, Class: calleeType}
}

func checkArgCount(c *Checker, pos lexer.Position, sig *types.Type, argc int) {
	required := 0
	hasRest := false
	for _, p := range sig.Params {
		if p.Rest {
			hasRest = true
			continue
		}
		if !p.Optional {
			required++
		}
	}
	if argc < required {
		c.error(WrongArgCount, pos, "expected at least %d argument(s), got %d", required, argc)
	}
	if !hasRest && argc > len(sig.Params) {
		c.error(WrongArgCount, pos, "expected at most %d argument(s), got %d", len(sig.Params), argc)
	}
}

// checkCall resolves the callee's Function type, checks arity (optional
// and rest parameters relax the count), and checks each argument's
// assignability
// (spec §4.3 "call checking"). Overload sets are not represented as a
// distinct Type shape in this checker (spec.md's TypeScript subset has no
// overload-signature syntax in the grammar it keeps), so "overload
// resolution" here is single-signature call checking only.
func (c *Checker) checkCall(n *ast.Call) *types.Type {
	calleeType := c.checkExpr(n.Callee)
	argTypes := make([]*types.Type, len(n.Args))
	for i, a := range n.Args {
		argTypes[i] = c.checkExpr(a)
	}
	if n.Optional {
		calleeType = stripNullish(calleeType)
	}
	if calleeType.Kind == types.KindAny || calleeType.Kind == types.KindUnknown {
		return types.Any
	}
	if calleeType.Kind != types.KindFunction {
		c.error(NotCallable, n.Pos(), "%s is not callable", calleeType.String())
		return types.Any
	}
	checkArgCount(c, n.Pos(), calleeType, len(n.Args))
	for i, p := range calleeType.Params {
		if p.Rest {
			for j := i; j < len(argTypes); j++ {
				if !types.Assignable(p.Type, argTypes[j], true) {
					c.error(NotAssignable, n.Args[j].Pos(), "argument of type %s is not assignable to rest parameter of type %s", argTypes[j].String(), p.Type.String())
				}
			}
			break
		}
		if i >= len(argTypes) {
			break
		}
		if !types.Assignable(p.Type, argTypes[i], true) {
			c.error(NotAssignable, n.Args[i].Pos(), "argument of type %s is not assignable to parameter of type %s", argTypes[i].String(), p.Type.String())
		}
	}
	if n.Optional {
		return types.Union(calleeType.Return, types.Undefined)
	}
	return calleeType.Return
}
