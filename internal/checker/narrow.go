package checker

import (
	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/types"
)

// guardFromExpr recognises the condition shapes spec §4.3 lists as
// narrowing guards and extracts the variable name they narrow plus the
// Guard value to feed types.Narrow. Anything else reports ok=false and
// leaves the current type untouched.
func (c *Checker) guardFromExpr(cond ast.Expr) (string, types.Guard, bool) {
	switch n := cond.(type) {
	case *ast.Variable:
		return n.Name, types.Guard{Kind: types.GuardTruthiness}, true
	case *ast.Ident:
		return n.Name, types.Guard{Kind: types.GuardTruthiness}, true
	case *ast.Unary:
		if n.Op == "typeof" {
			break
		}
	case *ast.Binary:
		switch n.Op {
		case "===", "==", "!==", "!=":
			if name, tag, isType := typeofGuard(n.Left, n.Right); isType {
				return name, types.Guard{Kind: types.GuardTypeof, TypeofTag: tag}, true
			}
			if name, tag, isType := typeofGuard(n.Right, n.Left); isType {
				return name, types.Guard{Kind: types.GuardTypeof, TypeofTag: tag}, true
			}
			if name, field, lit, isDisc := discriminantGuard(n.Left, n.Right); isDisc {
				return name, types.Guard{Kind: types.GuardDiscriminant, Field: field, Literal: lit}, true
			}
			if name, field, lit, isDisc := discriminantGuard(n.Right, n.Left); isDisc {
				return name, types.Guard{Kind: types.GuardDiscriminant, Field: field, Literal: lit}, true
			}
			if name, lit, isEq := equalityGuard(n.Left, n.Right); isEq {
				return name, types.Guard{Kind: types.GuardEquality, Literal: lit}, true
			}
			if name, lit, isEq := equalityGuard(n.Right, n.Left); isEq {
				return name, types.Guard{Kind: types.GuardEquality, Literal: lit}, true
			}
		case "instanceof":
			if v, ok := n.Left.(*ast.Variable); ok {
				if cv, ok := n.Right.(*ast.Variable); ok {
					if cls, ok := c.types.resolve(cv.Name); ok {
						return v.Name, types.Guard{Kind: types.GuardInstanceof, Class: cls}, true
					}
				}
			}
		case "in":
			if key, ok := n.Left.(*ast.Literal); ok {
				if ks, ok := key.Value.(string); ok {
					if v, ok := n.Right.(*ast.Variable); ok {
						return v.Name, types.Guard{Kind: types.GuardIn, Key: ks}, true
					}
				}
			}
		}
	case *ast.Call:
		if callee, ok := n.Callee.(*ast.Variable); ok && isPredicateName(callee.Name) && len(n.Args) == 1 {
			if v, ok := n.Args[0].(*ast.Variable); ok {
				if fn, ok := c.values.lookup(callee.Name); ok && fn.declared.Kind == types.KindFunction && fn.declared.Return != nil {
					return v.Name, types.Guard{Kind: types.GuardPredicate, Predicate: fn.declared.Return}, true
				}
			}
		}
	}
	return "", types.Guard{}, false
}

// isPredicateName is a heuristic: user-defined type predicates
// (`function isFoo(x): x is Foo`) surface their predicate type as the
// declared Return of the function's Type; anything callable is worth
// trying since checkExpr/functionSignature never synthesizes a
// predicate-shaped return for ordinary functions.
func isPredicateName(name string) bool { return true }

func typeofGuard(typeofSide, litSide ast.Expr) (string, string, bool) {
	u, ok := typeofSide.(*ast.Unary)
	if !ok || u.Op != "typeof" {
		return "", "", false
	}
	v, ok := u.Operand.(*ast.Variable)
	if !ok {
		return "", "", false
	}
	lit, ok := litSide.(*ast.Literal)
	if !ok {
		return "", "", false
	}
	tag, ok := lit.Value.(string)
	if !ok {
		return "", "", false
	}
	return v.Name, tag, true
}

func discriminantGuard(getSide, litSide ast.Expr) (string, string, any, bool) {
	g, ok := getSide.(*ast.Get)
	if !ok {
		return "", "", nil, false
	}
	v, ok := g.Object.(*ast.Variable)
	if !ok {
		return "", "", nil, false
	}
	lit, ok := litSide.(*ast.Literal)
	if !ok {
		return "", "", nil, false
	}
	return v.Name, g.Name, lit.Value, true
}

func equalityGuard(varSide, litSide ast.Expr) (string, any, bool) {
	v, ok := varSide.(*ast.Variable)
	if !ok {
		return "", nil, false
	}
	lit, ok := litSide.(*ast.Literal)
	if !ok {
		return "", nil, false
	}
	return v.Name, lit.Value, true
}

func (c *Checker) narrowInScope(name string, guard types.Guard, branch bool) {
	b, ok := c.values.lookup(name)
	if !ok {
		return
	}
	b.narrowed = types.Narrow(b.currentType(), guard, branch)
}

func (c *Checker) clearNarrow(name string) {
	if b, ok := c.values.lookup(name); ok {
		b.narrowed = nil
	}
}

// snapshotNarrow captures the type a guard should narrow from. Callers
// that apply a guard to both branches (if/else, ternary) must narrow
// each branch from this same snapshot rather than from whatever the
// other branch left behind.
func (c *Checker) snapshotNarrow(name string) (*types.Type, bool) {
	b, ok := c.values.lookup(name)
	if !ok {
		return nil, false
	}
	return b.currentType(), true
}

func (c *Checker) applyNarrow(name string, base *types.Type, guard types.Guard, branch bool) {
	if b, ok := c.values.lookup(name); ok {
		b.narrowed = types.Narrow(base, guard, branch)
	}
}
