package checker

import (
	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/types"
)

// hoistBlock is pass 1 (spec §4.3): declarations that TypeScript allows to
// be referenced before their textual position — named functions, classes,
// interfaces, type aliases, enums, namespaces — are registered with a
// placeholder first so every forward reference within the same block
// resolves, then each is filled in with its real signature. `var`/`let`/
// `const` bindings are deliberately NOT hoisted here; they're declared by
// checkStmt as control flow reaches them, matching the temporal-dead-zone
// behaviour the runtime enforces too.
func (c *Checker) hoistBlock(stmts []ast.Stmt) {
	var classDecls []*ast.ClassDecl
	var funcDecls []*ast.FunctionStmt
	var ifaceDecls []*ast.InterfaceDecl
	var aliasDecls []*ast.TypeAliasDecl
	var enumDecls []*ast.EnumDecl
	var nsDecls []*ast.NamespaceDecl

	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.ClassDecl:
			classDecls = append(classDecls, n)
			c.types.declare(n.Name.Name, &types.Type{Kind: types.KindClass, Name: n.Name.Name})
		case *ast.FunctionStmt:
			funcDecls = append(funcDecls, n)
			c.values.declare(n.Name, types.Any, false)
		case *ast.InterfaceDecl:
			ifaceDecls = append(ifaceDecls, n)
			c.types.declare(n.Name.Name, &types.Type{Kind: types.KindInterface, Name: n.Name.Name})
		case *ast.TypeAliasDecl:
			aliasDecls = append(aliasDecls, n)
			c.types.declare(n.Name.Name, types.Any)
		case *ast.EnumDecl:
			enumDecls = append(enumDecls, n)
		case *ast.NamespaceDecl:
			nsDecls = append(nsDecls, n)
			c.values.declare(n.Name.Name, types.Any, false)
		}
	}

	for _, n := range ifaceDecls {
		c.hoistInterface(n)
	}
	for _, n := range aliasDecls {
		c.types.declare(n.Name.Name, c.resolveTypeExpr(n.Value))
	}
	for _, n := range classDecls {
		c.hoistClass(n)
	}
	for _, n := range funcDecls {
		c.values.declare(n.Name, c.functionSignature(n.Params, n.ReturnType, n.Flags, n.TypeParams), false)
	}
	for _, n := range enumDecls {
		c.hoistEnum(n)
	}
	for _, n := range nsDecls {
		c.pushScope()
		c.hoistBlock(n.Body)
		for _, s := range n.Body {
			c.checkStmt(s)
		}
		c.popScope()
	}
}

func (c *Checker) hoistInterface(n *ast.InterfaceDecl) {
	iface := &types.Type{Kind: types.KindInterface, Name: n.Name.Name, InstanceMembers: map[string]*types.Type{}}
	for _, ext := range n.Extends {
		iface.Implements = append(iface.Implements, c.resolveTypeExpr(ext))
	}
	for _, m := range n.Members {
		if m.IsMethod {
			params := make([]types.Param, len(m.Params))
			for i, p := range m.Params {
				params[i] = c.paramType(p)
			}
			iface.InstanceMembers[m.Name] = &types.Type{Kind: types.KindFunction, Params: params, Return: c.resolveTypeExpr(m.Return)}
			continue
		}
		iface.InstanceMembers[m.Name] = c.resolveTypeExpr(m.Type)
	}
	c.types.declare(n.Name.Name, iface)
}

func (c *Checker) paramType(p *ast.Param) types.Param {
	name := ""
	if id, ok := p.Pattern.(*ast.Ident); ok {
		name = id.Name
	}
	return types.Param{Name: name, Type: c.resolveTypeExpr(p.Type), Optional: p.Flags.Optional || p.Default != nil, Rest: p.Flags.Rest}
}

func (c *Checker) functionSignature(params []*ast.Param, ret ast.TypeExpr, flags ast.FuncFlags, typeParams []*ast.TypeParam) *types.Type {
	ps := make([]types.Param, len(params))
	for i, p := range params {
		ps[i] = c.paramType(p)
	}
	retType := c.resolveTypeExpr(ret)
	if retType == nil {
		retType = types.Any
	}
	if flags.Async {
		retType = &types.Type{Kind: types.KindTypeReference, RefName: "Promise", RefArgs: []*types.Type{retType}}
	}
	var tps []*types.TypeParamDecl
	for _, tp := range typeParams {
		tps = append(tps, &types.TypeParamDecl{Name: tp.Name, Constraint: c.resolveTypeExpr(tp.Constraint), Default: c.resolveTypeExpr(tp.Default)})
	}
	return &types.Type{Kind: types.KindFunction, Params: ps, Return: retType, TypeParams: tps}
}

// hoistClass builds the Class type for a declaration: instance members,
// static members, and the constructor signature, walking the already-
// hoisted SuperClass name if present (spec §4.3 "class members resolve
// in declaration order, but the class name itself is visible to its own
// member bodies").
func (c *Checker) hoistClass(n *ast.ClassDecl) {
	cls := &types.Type{
		Kind:            types.KindClass,
		Name:            n.Name.Name,
		Abstract:        n.Abstract,
		InstanceMembers: map[string]*types.Type{},
		StaticMembers:   map[string]*types.Type{},
	}
	if n.SuperClass != nil {
		if v, ok := n.SuperClass.(*ast.Variable); ok {
			if superType, ok := c.types.resolve(v.Name); ok {
				cls.SuperClass = superType
			} else {
				c.error(NotInScope, n.Pos(), "unknown base class %s", v.Name)
			}
		}
	}
	for _, impl := range n.Implements {
		cls.Implements = append(cls.Implements, c.resolveTypeExpr(impl))
	}

	for _, member := range n.Members {
		switch m := member.(type) {
		case *ast.FieldDecl:
			t := c.resolveTypeExpr(m.Type)
			if t == nil {
				t = types.Any
			}
			if m.Flags.Static {
				cls.StaticMembers[m.Name] = t
			} else {
				cls.InstanceMembers[m.Name] = t
			}
		case *ast.MethodDecl:
			sig := c.functionSignature(m.Params, m.ReturnType, m.FuncFlags, m.TypeParams)
			switch m.Kind {
			case ast.MethodConstructor:
				cls.ConstructorSig = sig
			case ast.MethodGetter:
				if m.Flags.Static {
					cls.StaticMembers[m.Name] = sig.Return
				} else {
					cls.InstanceMembers[m.Name] = sig.Return
				}
			case ast.MethodSetter:
				// setter contributes no readable member type beyond what a
				// paired getter already established
			default:
				if m.Flags.Static {
					cls.StaticMembers[m.Name] = sig
				} else {
					cls.InstanceMembers[m.Name] = sig
				}
			}
		case *ast.AutoAccessorDecl:
			t := c.resolveTypeExpr(m.Type)
			if t == nil {
				t = types.Any
			}
			if m.Flags.Static {
				cls.StaticMembers[m.Name] = t
			} else {
				cls.InstanceMembers[m.Name] = t
			}
		}
	}
	c.types.declare(n.Name.Name, cls)
	c.tm.Classes[n] = cls
	instance := &types.Type{Kind: types.KindInstance, Class: cls}
	c.values.declare(n.Name.Name, cls, false) // the class's own name, used as a constructor value
	_ = instance
}

func (c *Checker) hoistEnum(n *ast.EnumDecl) {
	rec := &types.Type{Kind: types.KindRecord, Fields: map[string]*types.Type{}}
	var members []*types.Type
	next := float64(0)
	for _, m := range n.Members {
		var lit *types.Type
		if m.Value != nil {
			if l, ok := m.Value.(*ast.Literal); ok {
				lit = types.Literal(l.Value)
				if f, ok := l.Value.(float64); ok {
					next = f + 1
				}
			} else {
				lit = types.Number
			}
		} else {
			lit = types.Literal(next)
			next++
		}
		rec.Fields[m.Name] = lit
		members = append(members, lit)
	}
	c.types.declare(n.Name.Name, types.Union(members...))
	c.values.declare(n.Name.Name, rec, false)
}
