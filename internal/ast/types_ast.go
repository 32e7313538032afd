package ast

import "github.com/mvendel/go-tsx/internal/lexer"

// TypeExpr is the parallel "type AST" sub-vocabulary (spec.md §4.2): type
// syntax is parsed but never influences statement/expression evaluation
// directly, only the checker (internal/checker) and, out of scope, a code
// generator consume it.
type TypeExpr interface {
	Node
	typeExprNode()
}

// TypeParam is a generic type parameter, `T extends Base = Default`.
type TypeParam struct {
	Name       string
	Constraint TypeExpr
	Default    TypeExpr
}

// NamedTypeRef is a reference to a named type, with optional generic
// arguments: `Array<T>`, `Promise<string>`, `T`.
type NamedTypeRef struct {
	Token lexer.Token
	Name  string
	Args  []TypeExpr
}

func (n *NamedTypeRef) typeExprNode()      {}
func (n *NamedTypeRef) Pos() lexer.Position { return n.Token.Pos }
func (n *NamedTypeRef) String() string      { return n.Name }

// LiteralTypeRef is a literal type: `"a"`, `42`, `true`.
type LiteralTypeRef struct {
	Token lexer.Token
	Value any
}

func (l *LiteralTypeRef) typeExprNode()      {}
func (l *LiteralTypeRef) Pos() lexer.Position { return l.Token.Pos }
func (l *LiteralTypeRef) String() string      { return l.Token.Literal }

// ArrayTypeRef is `T[]`.
type ArrayTypeRef struct {
	Token   lexer.Token
	Element TypeExpr
}

func (a *ArrayTypeRef) typeExprNode()      {}
func (a *ArrayTypeRef) Pos() lexer.Position { return a.Token.Pos }
func (a *ArrayTypeRef) String() string      { return a.Element.String() + "[]" }

// TupleTypeRef is `[A, B, ...C]`.
type TupleElement struct {
	Type     TypeExpr
	Rest     bool
	Optional bool
}

type TupleTypeRef struct {
	Token    lexer.Token
	Elements []TupleElement
	ReadOnly bool
}

func (t *TupleTypeRef) typeExprNode()      {}
func (t *TupleTypeRef) Pos() lexer.Position { return t.Token.Pos }
func (t *TupleTypeRef) String() string      { return "[...]" }

// RecordMember is one field or index signature of an object type literal.
type RecordMember struct {
	Name       string // empty for index signatures
	Type       TypeExpr
	Optional   bool
	ReadOnly   bool
	IndexKeyIsNumber bool
	IsIndexSig bool
}

// RecordTypeRef is `{ a: T; b?: U; [k: string]: V }`.
type RecordTypeRef struct {
	Token   lexer.Token
	Members []RecordMember
}

func (r *RecordTypeRef) typeExprNode()      {}
func (r *RecordTypeRef) Pos() lexer.Position { return r.Token.Pos }
func (r *RecordTypeRef) String() string      { return "{...}" }

// FunctionTypeParam is one parameter of a function type.
type FunctionTypeParam struct {
	Name     string
	Type     TypeExpr
	Optional bool
	Rest     bool
}

// FunctionTypeRef is `(a: T, ...rest: U[]) => R`.
type FunctionTypeRef struct {
	Token      lexer.Token
	Params     []FunctionTypeParam
	Return     TypeExpr
	TypeParams []*TypeParam
	This       TypeExpr
}

func (f *FunctionTypeRef) typeExprNode()      {}
func (f *FunctionTypeRef) Pos() lexer.Position { return f.Token.Pos }
func (f *FunctionTypeRef) String() string      { return "(...) => ..." }

// UnionTypeRef is `A | B | C`.
type UnionTypeRef struct {
	Token   lexer.Token
	Members []TypeExpr
}

func (u *UnionTypeRef) typeExprNode()      {}
func (u *UnionTypeRef) Pos() lexer.Position { return u.Token.Pos }
func (u *UnionTypeRef) String() string      { return "A | B" }

// IntersectionTypeRef is `A & B & C`.
type IntersectionTypeRef struct {
	Token   lexer.Token
	Members []TypeExpr
}

func (i *IntersectionTypeRef) typeExprNode()      {}
func (i *IntersectionTypeRef) Pos() lexer.Position { return i.Token.Pos }
func (i *IntersectionTypeRef) String() string      { return "A & B" }

// KeyofTypeRef is `keyof T`.
type KeyofTypeRef struct {
	Token lexer.Token
	Type  TypeExpr
}

func (k *KeyofTypeRef) typeExprNode()      {}
func (k *KeyofTypeRef) Pos() lexer.Position { return k.Token.Pos }
func (k *KeyofTypeRef) String() string      { return "keyof " + k.Type.String() }

// TypeofTypeRef is `typeof expr` used in type position.
type TypeofTypeRef struct {
	Token lexer.Token
	Name  string
}

func (t *TypeofTypeRef) typeExprNode()      {}
func (t *TypeofTypeRef) Pos() lexer.Position { return t.Token.Pos }
func (t *TypeofTypeRef) String() string      { return "typeof " + t.Name }

// ConditionalTypeRef is `Check extends Extends ? True : False`.
type ConditionalTypeRef struct {
	Token    lexer.Token
	Check    TypeExpr
	Extends  TypeExpr
	True     TypeExpr
	False    TypeExpr
}

func (c *ConditionalTypeRef) typeExprNode()      {}
func (c *ConditionalTypeRef) Pos() lexer.Position { return c.Token.Pos }
func (c *ConditionalTypeRef) String() string      { return "cond type" }

// InferTypeRef is `infer T` appearing inside a ConditionalTypeRef's Extends.
type InferTypeRef struct {
	Token lexer.Token
	Name  string
}

func (i *InferTypeRef) typeExprNode()      {}
func (i *InferTypeRef) Pos() lexer.Position { return i.Token.Pos }
func (i *InferTypeRef) String() string      { return "infer " + i.Name }

// MappedTypeRef is `{ [K in Keys]: T }`.
type MappedTypeRef struct {
	Token      lexer.Token
	KeyName    string
	Constraint TypeExpr
	Value      TypeExpr
	Optional   bool
	ReadOnly   bool
}

func (m *MappedTypeRef) typeExprNode()      {}
func (m *MappedTypeRef) Pos() lexer.Position { return m.Token.Pos }
func (m *MappedTypeRef) String() string      { return "{ [K in ...]: ... }" }

// TemplateLiteralTypeRef is a template literal type, e.g. `` `on${Capitalize<K>}` ``.
type TemplateLiteralTypeRef struct {
	Token   lexer.Token
	Strings []string
	Types   []TypeExpr
}

func (t *TemplateLiteralTypeRef) typeExprNode()      {}
func (t *TemplateLiteralTypeRef) Pos() lexer.Position { return t.Token.Pos }
func (t *TemplateLiteralTypeRef) String() string      { return "`...`" }

// OpaqueTypeRef preserves type syntax the parser didn't recognize as a raw
// string token, so the checker can diagnose it rather than failing to
// parse at all (spec.md §4.2).
type OpaqueTypeRef struct {
	Token lexer.Token
	Raw   string
}

func (o *OpaqueTypeRef) typeExprNode()      {}
func (o *OpaqueTypeRef) Pos() lexer.Position { return o.Token.Pos }
func (o *OpaqueTypeRef) String() string      { return o.Raw }
