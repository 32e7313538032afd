package interp

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/runtime"
)

func (c ctx) evalBinary(n *ast.Binary) (runtime.Value, error) {
	if n.Op == "instanceof" {
		return c.evalInstanceof(n)
	}
	if n.Op == "in" {
		return c.evalIn(n)
	}
	left, err := c.evalExpr(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.evalExpr(n.Right)
	if err != nil {
		return nil, err
	}
	return applyBinaryOp(c, n.Op, left, right)
}

func applyBinaryOp(c ctx, op string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "+":
		return addValues(left, right), nil
	case "-", "*", "/", "%", "**":
		return arith(c, op, left, right)
	case "<", ">", "<=", ">=":
		return compare(op, left, right), nil
	case "==":
		return runtime.Boolean(valuesEqual(left, right, false)), nil
	case "!=":
		return runtime.Boolean(!valuesEqual(left, right, false)), nil
	case "===":
		return runtime.Boolean(valuesEqual(left, right, true)), nil
	case "!==":
		return runtime.Boolean(!valuesEqual(left, right, true)), nil
	case "&", "|", "^", "<<", ">>":
		return runtime.Number(float64(intBitwise(op, toInt32(left), toInt32(right)))), nil
	case ">>>":
		return runtime.Number(float64(uint32(toInt32(left)) >> uint(toInt32(right)&31))), nil
	default:
		return nil, c.typeError("unknown binary operator %q", op)
	}
}

func addValues(left, right runtime.Value) runtime.Value {
	_, lIsStr := left.(runtime.String)
	_, rIsStr := right.(runtime.String)
	if lIsStr || rIsStr {
		return runtime.String(runtime.Stringify(left) + runtime.Stringify(right))
	}
	lbi, lok := left.(runtime.BigInt)
	rbi, rok := right.(runtime.BigInt)
	if lok && rok {
		return runtime.NewBigInt(new(big.Int).Add(lbi.V, rbi.V))
	}
	return runtime.Number(toFloat(left) + toFloat(right))
}

func arith(c ctx, op string, left, right runtime.Value) (runtime.Value, error) {
	lbi, lok := left.(runtime.BigInt)
	rbi, rok := right.(runtime.BigInt)
	if lok && rok {
		res := new(big.Int)
		switch op {
		case "-":
			res.Sub(lbi.V, rbi.V)
		case "*":
			res.Mul(lbi.V, rbi.V)
		case "/":
			if rbi.V.Sign() == 0 {
				return nil, c.rangeError("Division by zero")
			}
			res.Quo(lbi.V, rbi.V)
		case "%":
			if rbi.V.Sign() == 0 {
				return nil, c.rangeError("Division by zero")
			}
			res.Rem(lbi.V, rbi.V)
		case "**":
			res.Exp(lbi.V, rbi.V, nil)
		}
		return runtime.NewBigInt(res), nil
	}
	l, r := toFloat(left), toFloat(right)
	switch op {
	case "-":
		return runtime.Number(l - r), nil
	case "*":
		return runtime.Number(l * r), nil
	case "/":
		return runtime.Number(l / r), nil
	case "%":
		return runtime.Number(math.Mod(l, r)), nil
	case "**":
		return runtime.Number(math.Pow(l, r)), nil
	}
	return runtime.Undefined, nil
}

func compare(op string, left, right runtime.Value) runtime.Value {
	ls, lok := left.(runtime.String)
	rs, rok := right.(runtime.String)
	if lok && rok {
		switch op {
		case "<":
			return runtime.Boolean(ls < rs)
		case ">":
			return runtime.Boolean(ls > rs)
		case "<=":
			return runtime.Boolean(ls <= rs)
		case ">=":
			return runtime.Boolean(ls >= rs)
		}
	}
	l, r := toFloat(left), toFloat(right)
	switch op {
	case "<":
		return runtime.Boolean(l < r)
	case ">":
		return runtime.Boolean(l > r)
	case "<=":
		return runtime.Boolean(l <= r)
	case ">=":
		return runtime.Boolean(l >= r)
	}
	return runtime.Boolean(false)
}

func intBitwise(op string, l, r int32) int32 {
	switch op {
	case "&":
		return l & r
	case "|":
		return l | r
	case "^":
		return l ^ r
	case "<<":
		return l << uint(r&31)
	case ">>":
		return l >> uint(r&31)
	}
	return 0
}

// valuesEqual implements `==`/`===` over the closed value set. Loose
// equality coerces Number<->String and Boolean<->Number the way
// ECMAScript does; it never coerces across Number/BigInt (spec §3).
func valuesEqual(a, b runtime.Value, strict bool) bool {
	if sameType(a, b) {
		return sameValueEquals(a, b)
	}
	if strict {
		return false
	}
	if runtime.IsNullish(a) && runtime.IsNullish(b) {
		return true
	}
	if runtime.IsNullish(a) || runtime.IsNullish(b) {
		return false
	}
	an, aIsNum := a.(runtime.Number)
	bn, bIsNum := b.(runtime.Number)
	as, aIsStr := a.(runtime.String)
	bs, bIsStr := b.(runtime.String)
	ab, aIsBool := a.(runtime.Boolean)
	bb, bIsBool := b.(runtime.Boolean)
	_ = as
	_ = bs
	if aIsNum && bIsStr {
		return float64(an) == toFloat(b)
	}
	if aIsStr && bIsNum {
		return toFloat(a) == float64(bn)
	}
	if aIsBool {
		return valuesEqual(runtime.Number(boolToFloat(bool(ab))), b, false)
	}
	if bIsBool {
		return valuesEqual(a, runtime.Number(boolToFloat(bool(bb))), false)
	}
	return false
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func sameType(a, b runtime.Value) bool {
	switch a.(type) {
	case runtime.Number:
		_, ok := b.(runtime.Number)
		return ok
	case runtime.String:
		_, ok := b.(runtime.String)
		return ok
	case runtime.Boolean:
		_, ok := b.(runtime.Boolean)
		return ok
	case runtime.BigInt:
		_, ok := b.(runtime.BigInt)
		return ok
	default:
		return a.TypeOf() == b.TypeOf() && (runtime.IsNull(a) == runtime.IsNull(b)) && (runtime.IsUndefined(a) == runtime.IsUndefined(b))
	}
}

func sameValueEquals(a, b runtime.Value) bool {
	switch av := a.(type) {
	case runtime.Number:
		bv := b.(runtime.Number)
		return float64(av) == float64(bv)
	case runtime.String:
		return av == b.(runtime.String)
	case runtime.Boolean:
		return av == b.(runtime.Boolean)
	case runtime.BigInt:
		return av.V.Cmp(b.(runtime.BigInt).V) == 0
	default:
		// Reference types (Object, Array, Instance, Function, Class,
		// Symbol, Map, Set, ...), Null, and Undefined compare by identity.
		return a == b
	}
}

func (c ctx) evalInstanceof(n *ast.Binary) (runtime.Value, error) {
	left, err := c.evalExpr(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.evalExpr(n.Right)
	if err != nil {
		return nil, err
	}
	class, ok := right.(*runtime.Class)
	if !ok {
		return nil, c.typeError("right-hand side of 'instanceof' is not callable")
	}
	inst, ok := left.(*runtime.Instance)
	if !ok {
		if ev, ok := left.(*runtime.ErrorValue); ok {
			return runtime.Boolean(ev.Class.IsSubclassOf(class)), nil
		}
		return runtime.Boolean(false), nil
	}
	return runtime.Boolean(inst.Class.IsSubclassOf(class)), nil
}

func (c ctx) evalIn(n *ast.Binary) (runtime.Value, error) {
	left, err := c.evalExpr(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.evalExpr(n.Right)
	if err != nil {
		return nil, err
	}
	key := runtime.Stringify(left)
	switch r := right.(type) {
	case *runtime.Object:
		return runtime.Boolean(r.Has(key)), nil
	case *runtime.Instance:
		if _, ok := r.GetField(key); ok {
			return runtime.Boolean(true), nil
		}
		_, ok := r.Class.LookupMethod(key)
		return runtime.Boolean(ok), nil
	case *runtime.Array:
		if i, ok := arrayIndex(key); ok {
			return runtime.Boolean(i >= 0 && i < r.Len()), nil
		}
		return runtime.Boolean(key == "length"), nil
	default:
		return runtime.Boolean(false), nil
	}
}

func toFloat(v runtime.Value) float64 {
	switch x := v.(type) {
	case runtime.Number:
		return float64(x)
	case runtime.String:
		return parseFloat(string(x))
	case runtime.Boolean:
		return boolToFloat(bool(x))
	case runtime.BigInt:
		f, _ := new(big.Float).SetInt(x.V).Float64()
		return f
	case nil:
		return math.NaN()
	default:
		if runtime.IsNull(v) {
			return 0
		}
		return math.NaN()
	}
}

func parseFloat(s string) float64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func toInt(v runtime.Value) int {
	f := toFloat(v)
	if math.IsNaN(f) {
		return 0
	}
	return int(f)
}

func toInt32(v runtime.Value) int32 {
	f := toFloat(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(int64(f))
}
