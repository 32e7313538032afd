package interp

import (
	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/runtime"
)

// bindPattern declares pattern's bindings (a plain Ident/Variable, or an
// array/object destructuring pattern, possibly nested) against v in
// c.env, used by `let`/`const`/`var` declarations and parameter binding.
func bindPattern(c ctx, pattern ast.Expr, v runtime.Value, kind runtime.DeclKind) error {
	switch p := pattern.(type) {
	case *ast.Ident:
		c.env.Declare(p.Name, v, kind)
		return nil
	case *ast.Variable:
		c.env.Declare(p.Name, v, kind)
		return nil
	case *ast.ArrayLiteral:
		return bindArrayPattern(c, p, v, kind)
	case *ast.ObjectLiteral:
		return bindObjectPattern(c, p, v, kind)
	default:
		return c.typeError("invalid binding pattern")
	}
}

func bindArrayPattern(c ctx, p *ast.ArrayLiteral, v runtime.Value, kind runtime.DeclKind) error {
	items, err := c.iterateToSlice(v)
	if err != nil {
		return err
	}
	i := 0
	for _, el := range p.Elements {
		if el.Spread {
			rest := []runtime.Value{}
			if i < len(items) {
				rest = append(rest, items[i:]...)
			}
			if err := bindPattern(c, el.Value, runtime.NewArray(rest...), kind); err != nil {
				return err
			}
			return nil
		}
		var item runtime.Value = runtime.Undefined
		if i < len(items) {
			item = items[i]
		}
		i++
		if el.Hole {
			continue
		}
		target := el.Value
		if assign, ok := target.(*ast.Assign); ok {
			if runtime.IsUndefined(item) {
				dv, err := c.evalExpr(assign.Value)
				if err != nil {
					return err
				}
				item = dv
			}
			target = assign.Name
		}
		if err := bindPattern(c, target, item, kind); err != nil {
			return err
		}
	}
	return nil
}

func bindObjectPattern(c ctx, p *ast.ObjectLiteral, v runtime.Value, kind runtime.DeclKind) error {
	taken := map[string]bool{}
	for _, prop := range p.Properties {
		if prop.Kind == ast.PropSpread {
			rest := runtime.NewObject()
			for _, k := range ownKeysOf(v) {
				if !taken[k] {
					pv, _ := getProperty(c, v, k)
					rest.Set(k, pv, nil)
				}
			}
			if err := bindPattern(c, prop.Value, rest, kind); err != nil {
				return err
			}
			continue
		}
		key, err := propKeyString(c, prop)
		if err != nil {
			return err
		}
		taken[key] = true
		pv, _ := getProperty(c, v, key)
		target := prop.Value
		if target == nil {
			target = prop.Key
		}
		if assign, ok := target.(*ast.Assign); ok {
			if runtime.IsUndefined(pv) {
				dv, err := c.evalExpr(assign.Value)
				if err != nil {
					return err
				}
				pv = dv
			}
			target = assign.Name
		}
		if err := bindPattern(c, target, pv, kind); err != nil {
			return err
		}
	}
	return nil
}

func propKeyString(c ctx, prop ast.ObjectProp) (string, error) {
	if prop.Computed {
		kv, err := c.evalExpr(prop.Key)
		if err != nil {
			return "", err
		}
		return runtime.Stringify(kv), nil
	}
	switch k := prop.Key.(type) {
	case *ast.Ident:
		return k.Name, nil
	case *ast.Variable:
		return k.Name, nil
	case *ast.Literal:
		return runtime.Stringify(literalToValue(k.Value)), nil
	default:
		return "", c.typeError("invalid property key")
	}
}

// assignPattern mirrors bindPattern but assigns into already-declared
// targets (plain assignment expressions) instead of declaring new
// bindings, used by `[a, b] = [b, a]`-style destructuring assignment.
func assignPattern(c ctx, pattern ast.Expr, v runtime.Value) error {
	switch p := pattern.(type) {
	case *ast.ArrayLiteral:
		items, err := c.iterateToSlice(v)
		if err != nil {
			return err
		}
		i := 0
		for _, el := range p.Elements {
			if el.Spread {
				rest := []runtime.Value{}
				if i < len(items) {
					rest = append(rest, items[i:]...)
				}
				return assignPattern(c, el.Value, runtime.NewArray(rest...))
			}
			var item runtime.Value = runtime.Undefined
			if i < len(items) {
				item = items[i]
			}
			i++
			if el.Hole {
				continue
			}
			target := el.Value
			if assign, ok := target.(*ast.Assign); ok {
				if runtime.IsUndefined(item) {
					dv, err := c.evalExpr(assign.Value)
					if err != nil {
						return err
					}
					item = dv
				}
				target = assign.Name
			}
			if err := assignPattern(c, target, item); err != nil {
				return err
			}
		}
		return nil
	case *ast.ObjectLiteral:
		taken := map[string]bool{}
		for _, prop := range p.Properties {
			if prop.Kind == ast.PropSpread {
				rest := runtime.NewObject()
				for _, k := range ownKeysOf(v) {
					if !taken[k] {
						pv, _ := getProperty(c, v, k)
						rest.Set(k, pv, nil)
					}
				}
				if err := assignPattern(c, prop.Value, rest); err != nil {
					return err
				}
				continue
			}
			key, err := propKeyString(c, prop)
			if err != nil {
				return err
			}
			taken[key] = true
			pv, _ := getProperty(c, v, key)
			target := prop.Value
			if target == nil {
				target = prop.Key
			}
			if assign, ok := target.(*ast.Assign); ok {
				if runtime.IsUndefined(pv) {
					dv, err := c.evalExpr(assign.Value)
					if err != nil {
						return err
					}
					pv = dv
				}
				target = assign.Name
			}
			if err := assignPattern(c, target, pv); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := c.assignTo(pattern, v)
		return err
	}
}
