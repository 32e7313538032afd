// Package types implements the closed discriminated type representation
// the checker manipulates (spec §3 "Types"): primitives, literal types,
// structural aggregates, nominal classes/interfaces, and the generic/
// conditional/mapped machinery TypeScript's type algebra needs.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Kind discriminates the closed Type variant.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBoolean
	KindBigInt
	KindNull
	KindUndefined
	KindVoid
	KindAny
	KindUnknown
	KindNever
	KindLiteral
	KindArray
	KindTuple
	KindRecord
	KindFunction
	KindClass
	KindInterface
	KindInstance
	KindUnion
	KindIntersection
	KindTypeReference
	KindGenericParam
	KindTemplateLiteral
	KindMapped
	KindConditional
	KindInfer
)

// Type is the single closed representation every checker operation
// reasons over. Only one of the Kind-specific fields is meaningful for
// a given Kind; the zero value of the others is ignored.
type Type struct {
	Kind Kind

	// KindLiteral
	LiteralValue any // string, float64, or bool

	// KindArray
	Element *Type

	// KindTuple
	TupleElements []TupleElement
	TupleReadOnly bool

	// KindRecord
	Fields       map[string]*Type
	OptionalKeys map[string]bool
	ReadOnlyKeys map[string]bool
	StringIndex  *Type
	NumberIndex  *Type

	// KindFunction
	Params     []Param
	Return     *Type
	TypeParams []*TypeParamDecl
	ThisType   *Type

	// KindClass / KindInterface
	Name           string
	SuperClass     *Type
	Implements     []*Type // interfaces a class declares, or interfaces an interface extends
	InstanceMembers map[string]*Type
	StaticMembers   map[string]*Type
	Abstract        bool
	ConstructorSig  *Type // KindFunction
	DeclSite        int   // opaque identity for nominal comparisons

	// KindInstance
	Class    *Type // KindClass
	TypeArgs []*Type

	// KindUnion / KindIntersection
	Members []*Type

	// KindTypeReference
	RefName string
	RefArgs []*Type
	Resolved *Type // filled in once the checker resolves the symbol

	// KindGenericParam
	ParamName  string
	Constraint *Type
	Default    *Type

	// KindTemplateLiteral
	TemplateStrings []string
	TemplateTypes   []*Type

	// KindMapped
	MappedKeyName    string
	MappedConstraint *Type
	MappedValue      *Type
	MappedOptional   bool
	MappedReadOnly   bool

	// KindConditional
	Check   *Type
	Extends *Type
	True    *Type
	False   *Type

	// KindInfer
	InferName string
}

// TupleElement is one slot of a Tuple type.
type TupleElement struct {
	Type     *Type
	Optional bool
	Rest     bool
}

// Param is one formal parameter of a Function type.
type Param struct {
	Name     string
	Type     *Type
	Optional bool
	Rest     bool
}

// TypeParamDecl is a generic type parameter as carried on a Function,
// Class, or Interface type (distinct from the KindGenericParam use
// that stands for an occurrence of that parameter within a signature).
type TypeParamDecl struct {
	Name       string
	Constraint *Type
	Default    *Type
}

var (
	Number    = &Type{Kind: KindNumber}
	String    = &Type{Kind: KindString}
	Boolean   = &Type{Kind: KindBoolean}
	BigInt    = &Type{Kind: KindBigInt}
	Null      = &Type{Kind: KindNull}
	Undefined = &Type{Kind: KindUndefined}
	Void      = &Type{Kind: KindVoid}
	Any       = &Type{Kind: KindAny}
	Unknown   = &Type{Kind: KindUnknown}
	Never     = &Type{Kind: KindNever}
)

// Literal builds a KindLiteral type over a string/float64/bool value.
func Literal(v any) *Type { return &Type{Kind: KindLiteral, LiteralValue: v} }

// Array builds an Array(element) type.
func Array(elem *Type) *Type { return &Type{Kind: KindArray, Element: elem} }

// Widen maps a literal type to its primitive base; every other Type is
// returned unchanged. Used on assignment into a mutable (non-const)
// binding (spec §3 invariant: "literal types widen ... into mutable bindings").
func Widen(t *Type) *Type {
	if t == nil || t.Kind != KindLiteral {
		return t
	}
	switch t.LiteralValue.(type) {
	case string:
		return String
	case float64:
		return Number
	case bool:
		return Boolean
	default:
		return t
	}
}

// Union builds a canonicalised union: flattened, deduplicated, ordered,
// and stripped of `never` members (spec §3 invariant).
func Union(members ...*Type) *Type {
	flat := flattenUnion(members)
	flat = dedupeTypes(flat)
	if len(flat) == 0 {
		return Never
	}
	if len(flat) == 1 {
		return flat[0]
	}
	for _, m := range flat {
		if m.Kind == KindAny {
			return Any
		}
	}
	sort.Slice(flat, func(i, j int) bool { return flat[i].String() < flat[j].String() })
	return &Type{Kind: KindUnion, Members: flat}
}

func flattenUnion(ts []*Type) []*Type {
	var out []*Type
	for _, t := range ts {
		if t == nil || t.Kind == KindNever {
			continue
		}
		if t.Kind == KindUnion {
			out = append(out, flattenUnion(t.Members)...)
			continue
		}
		out = append(out, t)
	}
	return out
}

func dedupeTypes(ts []*Type) []*Type {
	var out []*Type
	seen := map[string]bool{}
	for _, t := range ts {
		k := t.String()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	return out
}

// Intersection builds a canonicalised intersection (flattened, deduped).
func Intersection(members ...*Type) *Type {
	var flat []*Type
	for _, t := range members {
		if t == nil {
			continue
		}
		if t.Kind == KindIntersection {
			flat = append(flat, t.Members...)
			continue
		}
		flat = append(flat, t)
	}
	flat = dedupeTypes(flat)
	if len(flat) == 1 {
		return flat[0]
	}
	return &Type{Kind: KindIntersection, Members: flat}
}

// String renders a Type as a human-readable TypeScript-like type string,
// used both for diagnostics and as the canonical key other parts of this
// package use for structural identity (dedup, union membership).
func (t *Type) String() string {
	if t == nil {
		return "unknown"
	}
	switch t.Kind {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindBigInt:
		return "bigint"
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindVoid:
		return "void"
	case KindAny:
		return "any"
	case KindUnknown:
		return "unknown"
	case KindNever:
		return "never"
	case KindLiteral:
		switch v := t.LiteralValue.(type) {
		case string:
			return fmt.Sprintf("%q", v)
		default:
			return fmt.Sprintf("%v", v)
		}
	case KindArray:
		return t.Element.String() + "[]"
	case KindTuple:
		parts := make([]string, len(t.TupleElements))
		for i, e := range t.TupleElements {
			s := e.Type.String()
			if e.Rest {
				s = "..." + s
			} else if e.Optional {
				s += "?"
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindRecord:
		keys := make([]string, 0, len(t.Fields))
		for k := range t.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			opt := ""
			if t.OptionalKeys[k] {
				opt = "?"
			}
			parts = append(parts, fmt.Sprintf("%s%s: %s", k, opt, t.Fields[k].String()))
		}
		return "{ " + strings.Join(parts, "; ") + " }"
	case KindFunction:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			s := p.Name
			if p.Rest {
				s = "..." + s
			} else if p.Optional {
				s += "?"
			}
			parts[i] = s + ": " + p.Type.String()
		}
		return "(" + strings.Join(parts, ", ") + ") => " + t.Return.String()
	case KindClass:
		return "class " + t.Name
	case KindInterface:
		return "interface " + t.Name
	case KindInstance:
		name := "?"
		if t.Class != nil {
			name = t.Class.Name
		}
		if len(t.TypeArgs) == 0 {
			return name
		}
		parts := make([]string, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			parts[i] = a.String()
		}
		return name + "<" + strings.Join(parts, ", ") + ">"
	case KindUnion:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return strings.Join(parts, " | ")
	case KindIntersection:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return strings.Join(parts, " & ")
	case KindTypeReference:
		if len(t.RefArgs) == 0 {
			return t.RefName
		}
		parts := make([]string, len(t.RefArgs))
		for i, a := range t.RefArgs {
			parts[i] = a.String()
		}
		return t.RefName + "<" + strings.Join(parts, ", ") + ">"
	case KindGenericParam:
		return t.ParamName
	case KindTemplateLiteral:
		var b strings.Builder
		b.WriteByte('`')
		for i, s := range t.TemplateStrings {
			b.WriteString(s)
			if i < len(t.TemplateTypes) {
				b.WriteString("${")
				b.WriteString(t.TemplateTypes[i].String())
				b.WriteString("}")
			}
		}
		b.WriteByte('`')
		return b.String()
	case KindMapped:
		return fmt.Sprintf("{ [%s in %s]: %s }", t.MappedKeyName, t.MappedConstraint.String(), t.MappedValue.String())
	case KindConditional:
		return fmt.Sprintf("%s extends %s ? %s : %s", t.Check.String(), t.Extends.String(), t.True.String(), t.False.String())
	case KindInfer:
		return "infer " + t.InferName
	default:
		return "?"
	}
}

// IsPrimitive reports whether t is one of the non-composite base kinds.
func (t *Type) IsPrimitive() bool {
	switch t.Kind {
	case KindNumber, KindString, KindBoolean, KindBigInt, KindNull, KindUndefined, KindVoid, KindAny, KindUnknown, KindNever:
		return true
	}
	return false
}

// IsNullish reports whether t is exactly null, undefined, or void.
func (t *Type) IsNullish() bool {
	return t.Kind == KindNull || t.Kind == KindUndefined || t.Kind == KindVoid
}
