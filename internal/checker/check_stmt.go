package checker

import (
	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/types"
)

// checkStmt is pass 2's statement dispatch (spec §4.3).
func (c *Checker) checkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.VarStmt:
		c.checkVarStmt(n)
	case *ast.FunctionStmt:
		c.checkFunctionBody(n)
	case *ast.ClassDecl:
		c.checkClassBody(n)
	case *ast.InterfaceDecl, *ast.TypeAliasDecl, *ast.EnumDecl:
		// fully resolved during hoisting; nothing left to check
	case *ast.NamespaceDecl:
		// body already checked during hoistBlock's own recursive pass
	case *ast.ImportStmt, *ast.ExportStmt:
		c.checkImportExport(n)
	case *ast.ExprStmt:
		c.checkExpr(n.Expr)
	case *ast.BlockStmt:
		c.pushScope()
		c.hoistBlock(n.Statements)
		for _, st := range n.Statements {
			c.checkStmt(st)
		}
		c.popScope()
	case *ast.ReturnStmt:
		if n.Value != nil {
			t := c.checkExpr(n.Value)
			if c.currentReturn != nil && !types.Assignable(c.currentReturn, t, true) {
				c.error(NotAssignable, n.Pos(), "return type %s is not assignable to %s", t.String(), c.currentReturn.String())
			}
		}
	case *ast.BreakStmt:
		if n.Label != "" && !c.labels[n.Label] {
			c.error(NotInScope, n.Pos(), "label %s is not in scope", n.Label)
		}
	case *ast.ContinueStmt:
		if n.Label != "" && !c.labels[n.Label] {
			c.error(NotInScope, n.Pos(), "label %s is not in scope", n.Label)
		}
	case *ast.ThrowStmt:
		c.checkExpr(n.Value)
	case *ast.LabeledStmt:
		c.labels[n.Label] = true
		c.checkStmt(n.Body)
		delete(c.labels, n.Label)
	case *ast.IfStmt:
		c.checkIfStmt(n)
	case *ast.WhileStmt:
		c.checkLoopCond(n.Cond, n.Body)
		if n.Step != nil {
			c.checkExpr(n.Step)
		}
	case *ast.DoWhileStmt:
		c.loopDepth++
		c.checkStmt(n.Body)
		c.checkExpr(n.Cond)
		c.loopDepth--
	case *ast.ForStmt:
		c.checkForStmt(n)
	case *ast.ForOfStmt:
		c.checkForOfStmt(n)
	case *ast.ForInStmt:
		c.checkForInStmt(n)
	case *ast.SwitchStmt:
		c.checkSwitchStmt(n)
	case *ast.TryStmt:
		c.checkTryStmt(n)
	}
}

func (c *Checker) checkVarStmt(n *ast.VarStmt) {
	declared := c.resolveTypeExpr(n.Type)
	var valueType *types.Type
	if n.Value != nil {
		valueType = c.checkExpr(n.Value)
	}
	var bindType *types.Type
	switch {
	case declared != nil:
		bindType = declared
		if valueType != nil && !types.Assignable(declared, valueType, true) {
			c.error(NotAssignable, n.Pos(), "type %s is not assignable to declared type %s", valueType.String(), declared.String())
		}
	case valueType != nil:
		if n.Modifier == ast.ModConst {
			bindType = valueType
		} else {
			bindType = types.Widen(valueType)
		}
	default:
		bindType = types.Any
	}
	c.declarePattern(n.Pattern, bindType, n.Modifier != ast.ModConst)
}

// declarePattern declares every identifier introduced by a (possibly
// destructured) binding pattern (spec §4.2 destructuring declarations).
// Nested array/object patterns degrade their member types to `any` members
// of the declared type when a precise per-slot type isn't tracked, since
// this checker doesn't carry positional tuple-destructuring inference
// beyond one level deep.
func (c *Checker) declarePattern(pattern ast.Expr, t *types.Type, mutable bool) {
	switch p := pattern.(type) {
	case *ast.Ident:
		c.values.declare(p.Name, t, mutable)
	case *ast.Variable:
		c.values.declare(p.Name, t, mutable)
	case *ast.ArrayLiteral:
		elemType := types.Any
		if t != nil && t.Kind == types.KindArray {
			elemType = t.Element
		}
		for _, el := range p.Elements {
			if el.Hole || el.Value == nil {
				continue
			}
			c.declarePattern(el.Value, elemType, mutable)
		}
	case *ast.ObjectLiteral:
		for _, prop := range p.Properties {
			name := keyName(prop.Key)
			memberT := types.Any
			if t != nil {
				if m := memberType(t, name); m != nil {
					memberT = m
				}
			}
			target := prop.Value
			if target == nil {
				target = prop.Key
			}
			c.declarePattern(target, memberT, mutable)
		}
	}
}

func (c *Checker) checkFunctionBody(n *ast.FunctionStmt) {
	sig, ok := c.values.lookup(n.Name)
	var fnType *types.Type
	if ok {
		fnType = sig.declared
	} else {
		fnType = c.functionSignature(n.Params, n.ReturnType, n.Flags, n.TypeParams)
	}
	c.pushScope()
	for i, p := range n.Params {
		name := ""
		if id, ok := p.Pattern.(*ast.Ident); ok {
			name = id.Name
		}
		if name == "" {
			continue
		}
		pt := types.Any
		if i < len(fnType.Params) {
			pt = fnType.Params[i].Type
		}
		c.values.declare(name, pt, true)
	}
	savedReturn := c.currentReturn
	c.currentReturn = unwrapPromise(fnType.Return)
	if !n.Flags.Async {
		c.currentReturn = fnType.Return
	}
	c.hoistBlock(n.Body.Statements)
	for _, st := range n.Body.Statements {
		c.checkStmt(st)
	}
	c.currentReturn = savedReturn
	c.popScope()
}

// checkClassBody checks method/accessor bodies and field initializers
// against the signature hoistClass already built, validates override
// markers, and flags abstract members a concrete class leaves
// unimplemented (spec §4.3 class-checking rules).
func (c *Checker) checkClassBody(n *ast.ClassDecl) {
	cls, ok := c.types.resolve(n.Name.Name)
	if !ok {
		cls = &types.Type{Kind: types.KindClass, Name: n.Name.Name}
	}
	c.pushScope()
	instanceType := &types.Type{Kind: types.KindInstance, Class: cls}
	savedThis := c.currentThis
	c.currentThis = instanceType

	for _, member := range n.Members {
		switch m := member.(type) {
		case *ast.FieldDecl:
			if m.Value != nil {
				vt := c.checkExpr(m.Value)
				declared := c.resolveTypeExpr(m.Type)
				if declared != nil && !types.Assignable(declared, vt, true) {
					c.error(NotAssignable, m.Pos(), "field %s initializer type %s is not assignable to %s", m.Name, vt.String(), declared.String())
				}
			}
		case *ast.MethodDecl:
			c.checkMethodBody(cls, m)
		case *ast.AutoAccessorDecl:
			if m.Value != nil {
				c.checkExpr(m.Value)
			}
		case *ast.StaticBlockDecl:
			c.pushScope()
			c.hoistBlock(m.Body.Statements)
			for _, st := range m.Body.Statements {
				c.checkStmt(st)
			}
			c.popScope()
		}
	}

	if !n.Abstract && cls.SuperClass != nil {
		c.checkAbstractMembersImplemented(n, cls)
	}

	c.currentThis = savedThis
	c.popScope()
}

func (c *Checker) checkMethodBody(cls *types.Type, m *ast.MethodDecl) {
	sig := c.functionSignature(m.Params, m.ReturnType, m.FuncFlags, m.TypeParams)
	if m.Flags.Override {
		base := cls.SuperClass
		if base == nil {
			c.error(OverrideMismatch, m.Pos(), "method %s marked override but class has no base class", m.Name)
		} else if baseMember, ok := base.InstanceMembers[m.Name]; !ok {
			c.error(OverrideMismatch, m.Pos(), "method %s does not override any base class member", m.Name)
		} else if baseMember.Kind == types.KindFunction && !typesCompatibleOverride(baseMember, sig) {
			c.error(OverrideMismatch, m.Pos(), "method %s's signature is incompatible with the base class member it overrides", m.Name)
		}
	}
	c.pushScope()
	for i, p := range m.Params {
		name := ""
		if id, ok := p.Pattern.(*ast.Ident); ok {
			name = id.Name
		}
		if name == "" {
			continue
		}
		pt := types.Any
		if i < len(sig.Params) {
			pt = sig.Params[i].Type
		}
		c.values.declare(name, pt, true)
	}
	savedReturn := c.currentReturn
	c.currentReturn = sig.Return
	if m.Body != nil {
		c.hoistBlock(m.Body.Statements)
		for _, st := range m.Body.Statements {
			c.checkStmt(st)
		}
	}
	c.currentReturn = savedReturn
	c.popScope()
}

// typesCompatibleOverride checks covariant return / contravariant params
// between a base signature and an overriding one (spec §4.3).
func typesCompatibleOverride(base, override *types.Type) bool {
	if !types.Assignable(base.Return, override.Return, false) {
		return false
	}
	for i, bp := range base.Params {
		if i >= len(override.Params) {
			return false
		}
		if !types.Assignable(override.Params[i].Type, bp.Type, false) {
			return false
		}
	}
	return true
}

func (c *Checker) checkAbstractMembersImplemented(n *ast.ClassDecl, cls *types.Type) {
	for base := cls.SuperClass; base != nil; base = base.SuperClass {
		if !base.Abstract {
			continue
		}
		for name := range base.InstanceMembers {
			if _, ok := cls.InstanceMembers[name]; !ok {
				c.error(AbstractNotImpl, n.Pos(), "class %s does not implement abstract member %s", n.Name.Name, name)
			}
		}
	}
}

func (c *Checker) checkImportExport(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ImportStmt:
		if n.Default != "" {
			c.values.declare(n.Default, types.Any, false)
		}
		if n.Namespace != "" {
			c.values.declare(n.Namespace, types.Any, false)
		}
		for _, spec := range n.Named {
			name := spec.Alias
			if name == "" {
				name = spec.Name
			}
			c.values.declare(name, types.Any, false)
		}
	case *ast.ExportStmt:
		if n.Decl != nil {
			c.hoistBlock([]ast.Stmt{n.Decl})
			c.checkStmt(n.Decl)
		}
		if n.DefaultExpr != nil {
			c.checkExpr(n.DefaultExpr)
		}
	}
}

func (c *Checker) checkIfStmt(n *ast.IfStmt) {
	name, guard, ok := c.guardFromExpr(n.Cond)
	c.checkExpr(n.Cond)
	var base *types.Type
	if ok {
		base, ok = c.snapshotNarrow(name)
	}
	if ok {
		c.applyNarrow(name, base, guard, true)
	}
	c.checkStmt(n.Then)
	if ok {
		c.applyNarrow(name, base, guard, false)
	}
	if n.Else != nil {
		c.checkStmt(n.Else)
	}
	if ok {
		c.clearNarrow(name)
	}
}

func (c *Checker) checkLoopCond(cond ast.Expr, body ast.Stmt) {
	name, guard, ok := c.guardFromExpr(cond)
	c.checkExpr(cond)
	if ok {
		c.narrowInScope(name, guard, true)
	}
	c.loopDepth++
	c.checkStmt(body)
	c.loopDepth--
	if ok {
		c.clearNarrow(name)
	}
}

func (c *Checker) checkForStmt(n *ast.ForStmt) {
	c.pushScope()
	if n.Init != nil {
		c.checkStmt(n.Init)
	}
	if n.Test != nil {
		c.checkExpr(n.Test)
	}
	c.loopDepth++
	c.checkStmt(n.Body)
	if n.Step != nil {
		c.checkExpr(n.Step)
	}
	c.loopDepth--
	c.popScope()
}

func (c *Checker) checkForOfStmt(n *ast.ForOfStmt) {
	iterableType := c.checkExpr(n.Iterable)
	elemType := types.Any
	if iterableType != nil && iterableType.Kind == types.KindArray {
		elemType = iterableType.Element
	}
	c.pushScope()
	c.declarePattern(n.Pattern, elemType, n.Modifier != ast.ModConst)
	c.loopDepth++
	c.checkStmt(n.Body)
	c.loopDepth--
	c.popScope()
}

func (c *Checker) checkForInStmt(n *ast.ForInStmt) {
	c.checkExpr(n.Object)
	c.pushScope()
	c.declarePattern(n.Pattern, types.String, n.Modifier != ast.ModConst)
	c.loopDepth++
	c.checkStmt(n.Body)
	c.loopDepth--
	c.popScope()
}

func (c *Checker) checkSwitchStmt(n *ast.SwitchStmt) {
	discType := c.checkExpr(n.Discriminant)
	name := ""
	if v, ok := n.Discriminant.(*ast.Variable); ok {
		name = v.Name
	}
	c.switchDepth++
	for _, cs := range n.Cases {
		c.pushScope()
		if cs.Test != nil {
			c.checkExpr(cs.Test)
			if name != "" {
				if lit, ok := cs.Test.(*ast.Literal); ok {
					c.narrowInScope(name, types.Guard{Kind: types.GuardEquality, Literal: lit.Value}, true)
				}
			}
		}
		for _, st := range cs.Statements {
			c.checkStmt(st)
		}
		if name != "" {
			c.clearNarrow(name)
		}
		c.popScope()
	}
	c.switchDepth--
	_ = discType
}

func (c *Checker) checkTryStmt(n *ast.TryStmt) {
	c.checkStmt(n.Block)
	if n.Catch != nil {
		c.pushScope()
		if n.Catch.Param != nil {
			t := c.resolveTypeExpr(n.Catch.Type)
			if t == nil {
				t = types.Any
			}
			c.declarePattern(n.Catch.Param, t, true)
		}
		c.checkStmt(n.Catch.Body)
		c.popScope()
	}
	if n.Finally != nil {
		c.checkStmt(n.Finally)
	}
}
