package runtime

import (
	"fmt"
	"strconv"
	"strings"
)

// Stringify implements the console stringifier's exact rules (spec §6):
// top-level strings are unquoted, but quoted when nested inside arrays
// or objects; arrays render as `[e1, e2, ...]`; objects as
// `{k: v, ...}` in insertion order; functions as `[Function]`; classes
// as `[class Name]`; instances as `ClassName { k: v, ... }`.
func Stringify(v Value) string { return stringify(v, true) }

func stringify(v Value, top bool) string {
	switch x := v.(type) {
	case nil:
		return "undefined"
	case nullType:
		return "null"
	case undefinedType:
		return "undefined"
	case Number:
		return NumberToString(float64(x))
	case BigInt:
		return x.V.String()
	case Boolean:
		if x {
			return "true"
		}
		return "false"
	case String:
		if top {
			return string(x)
		}
		return strconv.Quote(string(x))
	case *Symbol:
		return "Symbol(" + x.Description + ")"
	case *Array:
		parts := make([]string, len(x.Elements))
		for i, e := range x.Elements {
			parts[i] = stringify(e, false)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Function:
		if x.Name == "" {
			return "[Function (anonymous)]"
		}
		return "[Function: " + x.Name + "]"
	case *Class:
		return "[class " + x.Name + "]"
	case *Instance:
		keys := x.FieldKeys()
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			val, _ := x.GetField(k)
			parts = append(parts, k+": "+stringify(val, false))
		}
		name := "Object"
		if x.Class != nil {
			name = x.Class.Name
		}
		if len(parts) == 0 {
			return name + " {}"
		}
		return name + " { " + strings.Join(parts, ", ") + " }"
	case *Object:
		keys := x.Keys()
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			val, _ := x.Get(k, func(*Function) Value { return Undefined })
			parts = append(parts, k+": "+stringify(val, false))
		}
		if len(parts) == 0 {
			return "{}"
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *Map:
		parts := make([]string, 0, x.Size())
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			parts = append(parts, stringify(k, false)+" => "+stringify(val, false))
		}
		return "Map(" + strconv.Itoa(x.Size()) + ") {" + strings.Join(parts, ", ") + "}"
	case *Set:
		parts := make([]string, 0, x.Size())
		for _, it := range x.Values() {
			parts = append(parts, stringify(it, false))
		}
		return "Set(" + strconv.Itoa(x.Size()) + ") {" + strings.Join(parts, ", ") + "}"
	case *Promise:
		switch x.State {
		case PromiseFulfilled:
			return "Promise { " + stringify(x.Value, false) + " }"
		case PromiseRejected:
			return "Promise { <rejected> " + stringify(x.Value, false) + " }"
		default:
			return "Promise { <pending> }"
		}
	case *Regex:
		return "/" + x.Source + "/" + x.Flags
	case *Date:
		return x.Time.UTC().Format("2006-01-02T15:04:05.000Z")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// NumberToString implements ECMAScript's canonical Number::toString for
// the finite/NaN/Infinity cases this subset needs.
func NumberToString(f float64) string {
	if f != f {
		return "NaN"
	}
	if f > 1.7976931348623157e+308 {
		return "Infinity"
	}
	if f < -1.7976931348623157e+308 {
		return "-Infinity"
	}
	if f == 0 {
		if strconv.FormatFloat(f, 'f', -1, 64)[0] == '-' {
			return "0"
		}
		return "0"
	}
	abs := f
	if abs < 0 {
		abs = -abs
	}
	if abs >= 1e21 || abs < 1e-6 {
		// Go pads the exponent to two digits ("1e-07"); ECMAScript does not.
		return strings.Replace(strconv.FormatFloat(f, 'e', -1, 64), "e-0", "e-", 1)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
