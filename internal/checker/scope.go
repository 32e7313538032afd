package checker

import "github.com/mvendel/go-tsx/internal/types"

// typeScope is one frame of the type-environment stack (spec §4.3).
type typeScope struct {
	names  map[string]*types.Type
	parent *typeScope
}

func newTypeScope(parent *typeScope) *typeScope {
	return &typeScope{names: make(map[string]*types.Type), parent: parent}
}

func (s *typeScope) declare(name string, t *types.Type) { s.names[name] = t }

func (s *typeScope) resolve(name string) (*types.Type, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if t, ok := sc.names[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// valueBinding is one entry of the value-environment stack: a type plus
// mutability and a narrowed-type override active at the current
// observation point (spec §4.3 `narrow`).
type valueBinding struct {
	declared *types.Type
	narrowed *types.Type // nil when no narrowing is in effect
	mutable  bool
}

type valueScope struct {
	vars   map[string]*valueBinding
	parent *valueScope
}

func newValueScope(parent *valueScope) *valueScope {
	return &valueScope{vars: make(map[string]*valueBinding), parent: parent}
}

func (s *valueScope) declare(name string, t *types.Type, mutable bool) {
	s.vars[name] = &valueBinding{declared: t, mutable: mutable}
}

func (s *valueScope) lookup(name string) (*valueBinding, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if b, ok := sc.vars[name]; ok {
			return b, true
		}
	}
	return nil, false
}

func (s *valueScope) hasOwn(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// currentType returns the narrowed type if one is active, else the
// declared type.
func (b *valueBinding) currentType() *types.Type {
	if b.narrowed != nil {
		return b.narrowed
	}
	return b.declared
}

func seedGlobals(ts *typeScope, vs *valueScope) {
	ts.declare("number", types.Number)
	ts.declare("string", types.String)
	ts.declare("boolean", types.Boolean)
	ts.declare("bigint", types.BigInt)
	ts.declare("null", types.Null)
	ts.declare("undefined", types.Undefined)
	ts.declare("void", types.Void)
	ts.declare("any", types.Any)
	ts.declare("unknown", types.Unknown)
	ts.declare("never", types.Never)
	ts.declare("object", &types.Type{Kind: types.KindRecord, Fields: map[string]*types.Type{}})
	ts.declare("symbol", &types.Type{Kind: types.KindTypeReference, RefName: "symbol"})

	// Ambient globals the built-in capability table (spec §6) always
	// provides; the checker treats their member surface as `any` since
	// it doesn't special-case every built-in signature, deferring to the
	// interpreter's runtime checks for call arity/shape mismatches on
	// these objects specifically.
	for _, name := range []string{"console", "Math", "JSON", "Object", "Array", "Map", "Set", "Promise", "globalThis"} {
		vs.declare(name, types.Any, false)
	}
}
