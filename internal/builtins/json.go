package builtins

import (
	"strconv"
	"strings"

	"github.com/mvendel/go-tsx/internal/runtime"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// installJSON binds the JSON global (spec §6): parse walks a gjson
// parse tree directly into runtime Array/Object values; stringify
// builds its raw text incrementally with sjson, then reindents with
// pretty when a space argument is given.
func installJSON(env *runtime.Environment, call CallFunc, newError NewError) {
	j := runtime.NewObject()
	j.Set("parse", runtime.NewNativeFunction("parse", 1, jsonParse(newError)), nil)
	j.Set("stringify", runtime.NewNativeFunction("stringify", 3, jsonStringify(call)), nil)
	env.Declare("JSON", j, runtime.DeclConst)
}

func jsonParse(newError NewError) runtime.Native {
	return func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		text := runtime.Stringify(arg0(args))
		if !gjson.Valid(text) {
			return nil, newError("SyntaxError", "Unexpected token in JSON at position 0")
		}
		return gjsonToValue(gjson.Parse(text)), nil
	}
}

func gjsonToValue(r gjson.Result) runtime.Value {
	switch r.Type {
	case gjson.Null:
		return runtime.Null
	case gjson.False:
		return runtime.Boolean(false)
	case gjson.True:
		return runtime.Boolean(true)
	case gjson.Number:
		return runtime.Number(r.Num)
	case gjson.String:
		return runtime.String(r.Str)
	default: // gjson.JSON: either an array or an object
		if r.IsArray() {
			arr := runtime.NewArray()
			r.ForEach(func(_, v gjson.Result) bool {
				arr.Push(gjsonToValue(v))
				return true
			})
			return arr
		}
		obj := runtime.NewObject()
		r.ForEach(func(k, v gjson.Result) bool {
			obj.Set(k.Str, gjsonToValue(v), nil)
			return true
		})
		return obj
	}
}

func jsonStringify(call CallFunc) runtime.Native {
	return func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		v := arg0(args)
		indent := ""
		if len(args) > 2 {
			switch sp := args[2].(type) {
			case runtime.Number:
				n := int(sp)
				if n > 10 {
					n = 10
				}
				if n > 0 {
					indent = strings.Repeat(" ", n)
				}
			case runtime.String:
				indent = string(sp)
				if len(indent) > 10 {
					indent = indent[:10]
				}
			}
		}
		raw, omit, err := toRawJSON(v, call)
		if err != nil {
			return nil, err
		}
		if omit {
			return runtime.Undefined, nil
		}
		if indent != "" {
			out := pretty.PrettyOptions([]byte(raw), &pretty.Options{Indent: indent, SortKeys: false})
			raw = strings.TrimRight(string(out), "\n")
		}
		return runtime.String(raw), nil
	}
}

// toRawJSON renders v as a raw JSON fragment. omit is true for values
// JSON.stringify drops entirely (undefined, functions, symbols) rather
// than rendering as `null` — the caller decides, since the rule differs
// between a top-level value (the whole result is undefined) and a
// member of an array/object (the member is rendered as `null`/dropped).
func toRawJSON(v runtime.Value, call CallFunc) (raw string, omit bool, err error) {
	switch x := v.(type) {
	case nil:
		return "null", false, nil
	case runtime.Boolean:
		if x {
			return "true", false, nil
		}
		return "false", false, nil
	case runtime.Number:
		f := float64(x)
		if f != f || f > 1.7976931348623157e+308 || f < -1.7976931348623157e+308 {
			return "null", false, nil
		}
		return strconv.FormatFloat(f, 'g', -1, 64), false, nil
	case runtime.String:
		return strconv.Quote(string(x)), false, nil
	case *runtime.Array:
		if v, ok := tryToJSON(x, call); ok {
			return toRawJSON(v, call)
		}
		doc := []byte("[]")
		for i, elem := range x.Elements {
			eraw, eomit, eerr := toRawJSON(elem, call)
			if eerr != nil {
				return "", false, eerr
			}
			if eomit {
				eraw = "null"
			}
			doc, eerr = sjson.SetRawBytes(doc, strconv.Itoa(i), []byte(eraw))
			if eerr != nil {
				return "", false, eerr
			}
		}
		return string(doc), false, nil
	case *runtime.Object:
		if v, ok := tryToJSON(x, call); ok {
			return toRawJSON(v, call)
		}
		doc := []byte("{}")
		for _, k := range x.Keys() {
			mv, _ := x.Get(k, invoke(call, x))
			mraw, momit, merr := toRawJSON(mv, call)
			if merr != nil {
				return "", false, merr
			}
			if momit {
				continue
			}
			doc, merr = sjson.SetRawBytes(doc, sjsonPath(k), []byte(mraw))
			if merr != nil {
				return "", false, merr
			}
		}
		return string(doc), false, nil
	case *runtime.Instance:
		if v, ok := tryToJSON(x, call); ok {
			return toRawJSON(v, call)
		}
		doc := []byte("{}")
		for _, k := range x.FieldKeys() {
			if strings.HasPrefix(k, "#") {
				continue
			}
			fv, _ := x.GetField(k)
			fraw, fomit, ferr := toRawJSON(fv, call)
			if ferr != nil {
				return "", false, ferr
			}
			if fomit {
				continue
			}
			doc, ferr = sjson.SetRawBytes(doc, sjsonPath(k), []byte(fraw))
			if ferr != nil {
				return "", false, ferr
			}
		}
		return string(doc), false, nil
	default:
		return "", true, nil
	}
}

// tryToJSON calls a value's `toJSON` method when it has one (spec §6:
// "JSON.stringify prefers a value's own toJSON method"), reporting
// whether one was found and run.
func tryToJSON(v runtime.Value, call CallFunc) (runtime.Value, bool) {
	if call == nil {
		return nil, false
	}
	var fn *runtime.Function
	switch x := v.(type) {
	case *runtime.Object:
		if m, ok := x.Get("toJSON", invoke(call, x)); ok {
			fn, _ = m.(*runtime.Function)
		}
	case *runtime.Instance:
		for k := x.Class; k != nil; k = k.Super {
			if m, ok := k.Methods["toJSON"]; ok {
				fn = m
				break
			}
		}
	}
	if fn == nil {
		return nil, false
	}
	out, err := call(fn, v, nil)
	if err != nil {
		return nil, false
	}
	return out, true
}

func invoke(call CallFunc, receiver runtime.Value) func(fn *runtime.Function) runtime.Value {
	return func(fn *runtime.Function) runtime.Value {
		if call == nil {
			return runtime.Undefined
		}
		v, err := call(fn, receiver, nil)
		if err != nil {
			return runtime.Undefined
		}
		return v
	}
}

// sjsonPath escapes a property name so sjson treats it as a single
// path segment rather than a dotted/wildcard path expression.
func sjsonPath(key string) string {
	r := strings.NewReplacer(".", "\\.", "*", "\\*", "?", "\\?")
	return r.Replace(key)
}
