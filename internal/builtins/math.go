package builtins

import (
	"math"
	"math/rand"

	"github.com/mvendel/go-tsx/internal/runtime"
)

// installMath binds the Math object (spec §6): its constants plus the
// usual set of single/double-argument numeric natives, each coercing
// its arguments with toNumber the same way the interpreter's arithmetic
// operators do.
func installMath(env *runtime.Environment) {
	m := runtime.NewObject()
	m.Set("E", runtime.Number(math.E), nil)
	m.Set("PI", runtime.Number(math.Pi), nil)
	m.Set("LN2", runtime.Number(math.Ln2), nil)
	m.Set("LN10", runtime.Number(math.Log(10)), nil)
	m.Set("LOG2E", runtime.Number(1/math.Ln2), nil)
	m.Set("LOG10E", runtime.Number(1/math.Log(10)), nil)
	m.Set("SQRT2", runtime.Number(math.Sqrt2), nil)
	m.Set("SQRT1_2", runtime.Number(math.Sqrt(0.5)), nil)

	unary := map[string]func(float64) float64{
		"abs":   math.Abs,
		"floor": math.Floor,
		"ceil":  math.Ceil,
		"round": mathRound,
		"trunc": math.Trunc,
		"sign":  mathSign,
		"sqrt":  math.Sqrt,
		"cbrt":  math.Cbrt,
		"log":   math.Log,
		"log2":  math.Log2,
		"log10": math.Log10,
		"exp":   math.Exp,
		"sin":   math.Sin,
		"cos":   math.Cos,
		"tan":   math.Tan,
		"asin":  math.Asin,
		"acos":  math.Acos,
		"atan":  math.Atan,
		"sinh":  math.Sinh,
		"cosh":  math.Cosh,
		"tanh":  math.Tanh,
	}
	for name, fn := range unary {
		fn := fn
		m.Set(name, runtime.NewNativeFunction(name, 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
			return runtime.Number(fn(toFloat(arg0(args)))), nil
		}), nil)
	}

	m.Set("pow", runtime.NewNativeFunction("pow", 2, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(math.Pow(toFloat(arg0(args)), toFloat(argN(args, 1)))), nil
	}), nil)
	m.Set("atan2", runtime.NewNativeFunction("atan2", 2, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(math.Atan2(toFloat(arg0(args)), toFloat(argN(args, 1)))), nil
	}), nil)
	m.Set("hypot", runtime.NewNativeFunction("hypot", 2, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		sum := 0.0
		for _, a := range args {
			f := toFloat(a)
			sum += f * f
		}
		return runtime.Number(math.Sqrt(sum)), nil
	}), nil)
	m.Set("min", runtime.NewNativeFunction("min", 2, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.Number(math.Inf(1)), nil
		}
		out := toFloat(args[0])
		for _, a := range args[1:] {
			f := toFloat(a)
			if f != f {
				return runtime.Number(math.NaN()), nil
			}
			if f < out {
				out = f
			}
		}
		return runtime.Number(out), nil
	}), nil)
	m.Set("max", runtime.NewNativeFunction("max", 2, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.Number(math.Inf(-1)), nil
		}
		out := toFloat(args[0])
		for _, a := range args[1:] {
			f := toFloat(a)
			if f != f {
				return runtime.Number(math.NaN()), nil
			}
			if f > out {
				out = f
			}
		}
		return runtime.Number(out), nil
	}), nil)
	m.Set("random", runtime.NewNativeFunction("random", 0, func(_ runtime.Value, _ []runtime.Value) (runtime.Value, error) {
		return runtime.Number(rand.Float64()), nil
	}), nil)

	env.Declare("Math", m, runtime.DeclConst)
}

func mathRound(f float64) float64 { return math.Floor(f + 0.5) }

func mathSign(f float64) float64 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	default:
		return f
	}
}

func arg0(args []runtime.Value) runtime.Value { return argN(args, 0) }

func argN(args []runtime.Value, n int) runtime.Value {
	if n < len(args) {
		return args[n]
	}
	return runtime.Undefined
}

// toFloat implements ToNumber for the argument coercions builtins need;
// it mirrors the interpreter's own numeric coercion (spec §4.3) closely
// enough for Math/JSON but is kept local to avoid importing interp.
func toFloat(v runtime.Value) float64 {
	switch x := v.(type) {
	case runtime.Number:
		return float64(x)
	case runtime.Boolean:
		if x {
			return 1
		}
		return 0
	case runtime.String:
		return parseFloatLoose(string(x))
	default:
		return nan()
	}
}

func nan() float64 { return math.NaN() }
