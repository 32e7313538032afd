package checker

import (
	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/types"
)

// resolveTypeExpr converts parsed type syntax into the closed Type
// representation (spec §4.2/§4.3). A nil TypeExpr (no annotation) is
// treated as `any` by callers, not here, so omission is visible to
// inference call sites that want to distinguish "no annotation" from
// "annotated any".
func (c *Checker) resolveTypeExpr(te ast.TypeExpr) *types.Type {
	if te == nil {
		return nil
	}
	switch n := te.(type) {
	case *ast.NamedTypeRef:
		return c.resolveNamedTypeRef(n)
	case *ast.LiteralTypeRef:
		return types.Literal(n.Value)
	case *ast.ArrayTypeRef:
		return types.Array(c.resolveTypeExpr(n.Element))
	case *ast.TupleTypeRef:
		elems := make([]types.TupleElement, len(n.Elements))
		for i, e := range n.Elements {
			elems[i] = types.TupleElement{Type: c.resolveTypeExpr(e.Type), Optional: e.Optional, Rest: e.Rest}
		}
		return &types.Type{Kind: types.KindTuple, TupleElements: elems, TupleReadOnly: n.ReadOnly}
	case *ast.RecordTypeRef:
		return c.resolveRecordTypeRef(n)
	case *ast.FunctionTypeRef:
		return c.resolveFunctionTypeRef(n)
	case *ast.UnionTypeRef:
		members := make([]*types.Type, len(n.Members))
		for i, m := range n.Members {
			members[i] = c.resolveTypeExpr(m)
		}
		return types.Union(members...)
	case *ast.IntersectionTypeRef:
		members := make([]*types.Type, len(n.Members))
		for i, m := range n.Members {
			members[i] = c.resolveTypeExpr(m)
		}
		return types.Intersection(members...)
	case *ast.KeyofTypeRef:
		return c.resolveKeyof(c.resolveTypeExpr(n.Type))
	case *ast.TypeofTypeRef:
		if b, ok := c.values.lookup(n.Name); ok {
			return b.currentType()
		}
		c.error(NotInScope, n.Pos(), "typeof %s: not in scope", n.Name)
		return types.Any
	case *ast.ConditionalTypeRef:
		return &types.Type{
			Kind:    types.KindConditional,
			Check:   c.resolveTypeExpr(n.Check),
			Extends: c.resolveConditionalExtends(n.Extends),
			True:    c.resolveTypeExpr(n.True),
			False:   c.resolveTypeExpr(n.False),
		}
	case *ast.InferTypeRef:
		return &types.Type{Kind: types.KindInfer, InferName: n.Name}
	case *ast.MappedTypeRef:
		return &types.Type{
			Kind:             types.KindMapped,
			MappedKeyName:    n.KeyName,
			MappedConstraint: c.resolveTypeExpr(n.Constraint),
			MappedValue:      c.resolveTypeExpr(n.Value),
			MappedOptional:   n.Optional,
			MappedReadOnly:   n.ReadOnly,
		}
	case *ast.TemplateLiteralTypeRef:
		tts := make([]*types.Type, len(n.Types))
		for i, t := range n.Types {
			tts[i] = c.resolveTypeExpr(t)
		}
		return &types.Type{Kind: types.KindTemplateLiteral, TemplateStrings: n.Strings, TemplateTypes: tts}
	case *ast.OpaqueTypeRef:
		// Syntax the parser preserved verbatim but didn't structure; the
		// checker can't reason about it structurally, so treat it as any
		// rather than failing the whole check.
		return types.Any
	default:
		return types.Any
	}
}

// resolveConditionalExtends resolves the Extends clause of a conditional
// type, registering any `infer X` names it introduces are handled inline
// by resolveTypeExpr on the InferTypeRef node itself; no extra scope is
// needed since InferTypeRef carries its own name and Conditional.True is
// resolved independently afterward by the caller's own resolveTypeExpr.
func (c *Checker) resolveConditionalExtends(te ast.TypeExpr) *types.Type {
	return c.resolveTypeExpr(te)
}

func (c *Checker) resolveKeyof(t *types.Type) *types.Type {
	if t == nil {
		return types.Never
	}
	switch t.Kind {
	case types.KindRecord:
		members := make([]*types.Type, 0, len(t.Fields))
		for k := range t.Fields {
			members = append(members, types.Literal(k))
		}
		return types.Union(members...)
	case types.KindInstance:
		if t.Class == nil {
			return types.Never
		}
		members := make([]*types.Type, 0, len(t.Class.InstanceMembers))
		for k := range t.Class.InstanceMembers {
			members = append(members, types.Literal(k))
		}
		return types.Union(members...)
	default:
		return types.Union(types.String, types.Number)
	}
}

func (c *Checker) resolveNamedTypeRef(n *ast.NamedTypeRef) *types.Type {
	args := make([]*types.Type, len(n.Args))
	for i, a := range n.Args {
		args[i] = c.resolveTypeExpr(a)
	}
	base, ok := c.types.resolve(n.Name)
	if !ok {
		// Forward/unresolved reference: keep a TypeReference node so a
		// later hoist pass (or a recursive type) can still be matched
		// structurally by name.
		return &types.Type{Kind: types.KindTypeReference, RefName: n.Name, RefArgs: args}
	}
	switch base.Kind {
	case types.KindClass:
		return instantiateClass(base, args)
	case types.KindGenericParam:
		return base
	default:
		if len(args) == 0 {
			return base
		}
		return &types.Type{Kind: types.KindTypeReference, RefName: n.Name, RefArgs: args, Resolved: base}
	}
}

func instantiateClass(classType *types.Type, args []*types.Type) *types.Type {
	return &types.Type{Kind: types.KindInstance, Class: classType, TypeArgs: args}
}

func (c *Checker) resolveRecordTypeRef(n *ast.RecordTypeRef) *types.Type {
	rec := &types.Type{
		Kind:         types.KindRecord,
		Fields:       map[string]*types.Type{},
		OptionalKeys: map[string]bool{},
		ReadOnlyKeys: map[string]bool{},
	}
	for _, m := range n.Members {
		if m.IsIndexSig {
			if m.IndexKeyIsNumber {
				rec.NumberIndex = c.resolveTypeExpr(m.Type)
			} else {
				rec.StringIndex = c.resolveTypeExpr(m.Type)
			}
			continue
		}
		rec.Fields[m.Name] = c.resolveTypeExpr(m.Type)
		if m.Optional {
			rec.OptionalKeys[m.Name] = true
		}
		if m.ReadOnly {
			rec.ReadOnlyKeys[m.Name] = true
		}
	}
	return rec
}

func (c *Checker) resolveFunctionTypeRef(n *ast.FunctionTypeRef) *types.Type {
	params := make([]types.Param, len(n.Params))
	for i, p := range n.Params {
		params[i] = types.Param{Name: p.Name, Type: c.resolveTypeExpr(p.Type), Optional: p.Optional, Rest: p.Rest}
	}
	var tps []*types.TypeParamDecl
	for _, tp := range n.TypeParams {
		tps = append(tps, &types.TypeParamDecl{
			Name:       tp.Name,
			Constraint: c.resolveTypeExpr(tp.Constraint),
			Default:    c.resolveTypeExpr(tp.Default),
		})
	}
	return &types.Type{
		Kind:       types.KindFunction,
		Params:     params,
		Return:     c.resolveTypeExpr(n.Return),
		TypeParams: tps,
		ThisType:   c.resolveTypeExpr(n.This),
	}
}
