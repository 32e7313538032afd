// Package runtime implements the closed runtime value system (spec §3
// "Runtime values"): the tagged set of values the interpreter produces,
// stores in environments and objects, and passes to built-ins.
package runtime

import (
	"fmt"
	"math/big"
)

// Value is implemented by every runtime value kind. The interpreter
// type-switches on the concrete type rather than dispatching through
// interface methods for most operations, mirroring how the value system
// underneath a tree-walking interpreter is usually organised: Value
// exists to let heterogeneous values flow through Go signatures, not to
// carry behaviour itself.
type Value interface {
	// TypeOf returns the ECMAScript `typeof` tag for this value.
	TypeOf() string
}

// Number is the IEEE-754 double runtime value.
type Number float64

func (Number) TypeOf() string { return "number" }

// String is the runtime string value.
type String string

func (String) TypeOf() string { return "string" }

// Boolean is the runtime boolean value.
type Boolean bool

func (Boolean) TypeOf() string { return "boolean" }

// BigInt is an arbitrary-precision integer value, kept distinct from
// Number per spec §3 ("Number and BigInt are distinct; equality never
// coerces across them").
type BigInt struct{ V *big.Int }

func (BigInt) TypeOf() string { return "bigint" }

// NewBigInt wraps an *big.Int as a runtime BigInt value.
func NewBigInt(v *big.Int) BigInt { return BigInt{V: v} }

// Null is the singleton `null` value, observably distinct from Undefined.
type nullType struct{}

func (nullType) TypeOf() string { return "object" }

var Null Value = nullType{}

// IsNull reports whether v is the Null singleton.
func IsNull(v Value) bool { _, ok := v.(nullType); return ok }

// Undefined is the singleton `undefined` value.
type undefinedType struct{}

func (undefinedType) TypeOf() string { return "undefined" }

var Undefined Value = undefinedType{}

// IsUndefined reports whether v is the Undefined singleton.
func IsUndefined(v Value) bool { _, ok := v.(undefinedType); return ok }

// IsNullish reports whether v is Null or Undefined (used by optional
// chaining and the `??` operator).
func IsNullish(v Value) bool { return IsNull(v) || IsUndefined(v) }

// Symbol is a unique runtime symbol; identity is by pointer, not value,
// so two Symbols with the same description are never `===`.
type Symbol struct {
	Description string
}

func (*Symbol) TypeOf() string { return "symbol" }

// NewSymbol allocates a fresh, uniquely-identified symbol.
func NewSymbol(desc string) *Symbol { return &Symbol{Description: desc} }

// Well-known symbols used internally by iteration (spec §4.4).
var (
	SymbolIterator = NewSymbol("Symbol.iterator")
	SymbolHasInstance = NewSymbol("Symbol.hasInstance")
)

// Truthy implements ECMAScript ToBoolean over the closed value set.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case nullType, undefinedType:
		return false
	case Boolean:
		return bool(x)
	case Number:
		return float64(x) != 0 && !isNaN(float64(x))
	case String:
		return len(x) > 0
	case BigInt:
		return x.V.Sign() != 0
	default:
		return true
	}
}

func isNaN(f float64) bool { return f != f }

// TypeName is used by error messages; it is not
// the same as TypeOf (e.g. arrays and functions both say "object"/
// "function" for typeof but need distinct display names).
func TypeName(v Value) string {
	switch v.(type) {
	case nullType:
		return "null"
	case undefinedType:
		return "undefined"
	case Number:
		return "number"
	case String:
		return "string"
	case Boolean:
		return "boolean"
	case BigInt:
		return "bigint"
	case *Symbol:
		return "symbol"
	case *Array:
		return "array"
	case *Object:
		return "object"
	case *Instance:
		return "instance"
	case *Function:
		return "function"
	case *Class:
		return "class"
	case *Regex:
		return "regex"
	case *Date:
		return "date"
	case *Promise:
		return "promise"
	case *Map:
		return "map"
	case *Set:
		return "set"
	case *WeakMap:
		return "weakmap"
	case *WeakSet:
		return "weakset"
	case *TypedArray:
		return "typed-array"
	case *Buffer:
		return "buffer"
	default:
		return fmt.Sprintf("%T", v)
	}
}
