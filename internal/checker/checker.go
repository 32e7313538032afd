// Package checker implements the two-pass type checker (spec §4.3):
// pass 1 hoists declarations so forward references work, pass 2 checks
// statement bodies, narrows types along recognised guards, and resolves
// identifiers/overloads, producing a TypeMap plus accumulated diagnostics.
package checker

import (
	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/lexer"
	"github.com/mvendel/go-tsx/internal/types"
)

// TypeMap is the checker's output: resolved types for every checked
// expression, plus side tables for resolved identifier scopes and
// narrowed types at observation sites (spec §4.3).
type TypeMap struct {
	Expr    map[ast.Expr]*types.Type
	Classes map[*ast.ClassDecl]*types.Type // resolved Class type per declaration
}

func newTypeMap() *TypeMap {
	return &TypeMap{Expr: make(map[ast.Expr]*types.Type), Classes: make(map[*ast.ClassDecl]*types.Type)}
}

// Options mirrors the subset of engine options that affect checking
// (spec §6 / SPEC_FULL.md §A.2): `strict` tightens narrowing and
// excess-property behaviour.
type Options struct {
	Strict bool
}

// Checker holds the two environment stacks (spec §4.3: "a type-
// environment stack for type names and a value-environment stack for
// variable names... They share scope boundaries") and the accumulated
// diagnostics/TypeMap for one Check run.
type Checker struct {
	opts   Options
	types  *typeScope
	values *valueScope
	errs   []*TypeCheckError
	tm     *TypeMap

	currentThis   *types.Type
	currentReturn *types.Type // expected return type of the innermost function, if annotated
	loopDepth     int
	switchDepth   int
	labels        map[string]bool
}

// New creates a Checker with a fresh global scope seeded with the
// primitive type names.
func New(opts Options) *Checker {
	c := &Checker{
		opts:   opts,
		types:  newTypeScope(nil),
		values: newValueScope(nil),
		tm:     newTypeMap(),
		labels: make(map[string]bool),
	}
	seedGlobals(c.types, c.values)
	return c
}

// Check type-checks a whole program, returning the TypeMap and any
// diagnostics accumulated along the way. Errors do not stop checking;
// only the offending statement's further analysis is abandoned (spec
// §4.3 "Failure").
func Check(prog *ast.Program, opts Options) (*TypeMap, []*TypeCheckError) {
	c := New(opts)
	c.hoistBlock(prog.Statements)
	for _, s := range prog.Statements {
		c.checkStmt(s)
	}
	return c.tm, c.errs
}

func (c *Checker) error(kind TypeCheckKind, pos lexer.Position, format string, args ...any) {
	c.errs = append(c.errs, newTypeCheckError(kind, pos, format, args...))
}

func (c *Checker) recordType(e ast.Expr, t *types.Type) *types.Type {
	if t == nil {
		t = types.Any
	}
	c.tm.Expr[e] = t
	return t
}

// pushScope/popScope enter and leave a shared type+value frame boundary
// (spec §4.3: block/function/class/catch/module/for-initializer).
func (c *Checker) pushScope() {
	c.types = newTypeScope(c.types)
	c.values = newValueScope(c.values)
}

func (c *Checker) popScope() {
	c.types = c.types.parent
	c.values = c.values.parent
}
