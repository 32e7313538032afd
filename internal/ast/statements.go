package ast

import "github.com/mvendel/go-tsx/internal/lexer"

// VarModifier distinguishes `var`/`let`/`const`.
type VarModifier int

const (
	ModVar VarModifier = iota
	ModLet
	ModConst
)

// VarStmt is a variable declaration, possibly destructured.
type VarStmt struct {
	Token    lexer.Token
	Modifier VarModifier
	Pattern  Expr // Variable, or an ArrayLiteral/ObjectLiteral destructuring pattern
	Type     TypeExpr
	Value    Expr // may be nil
}

func (v *VarStmt) stmtNode()          {}
func (v *VarStmt) Pos() lexer.Position { return v.Token.Pos }
func (v *VarStmt) String() string      { return v.Token.Literal + " " + v.Pattern.String() }

// FunctionStmt is a top-level/nested `function name(...) {...}` declaration.
type FunctionStmt struct {
	Token      lexer.Token
	Name       string
	Params     []*Param
	Body       *BlockStmt
	ReturnType TypeExpr
	Flags      FuncFlags
	TypeParams []*TypeParam
}

func (f *FunctionStmt) stmtNode()          {}
func (f *FunctionStmt) Pos() lexer.Position { return f.Token.Pos }
func (f *FunctionStmt) String() string      { return "function " + f.Name + "(...)" }

// Visibility is a class/interface member accessibility.
type Visibility int

const (
	VisPublic Visibility = iota
	VisPrivate
	VisProtected
)

// MemberFlags captures the modifiers of a class member.
type MemberFlags struct {
	Static    bool
	Abstract  bool
	Override  bool
	ReadOnly  bool
	Optional  bool
	Visibility Visibility
}

// FieldDecl is a class instance or static field, with an optional
// initializer.
type FieldDecl struct {
	Token   lexer.Token
	Name    string
	Type    TypeExpr
	Value   Expr
	Flags   MemberFlags
	Private bool // `#name`
}

func (f *FieldDecl) stmtNode()          {}
func (f *FieldDecl) Pos() lexer.Position { return f.Token.Pos }
func (f *FieldDecl) String() string      { return f.Name + ": " + f.Type.String() }

// MethodDecl is a class method, constructor, getter, or setter.
type MethodKind int

const (
	MethodNormal MethodKind = iota
	MethodConstructor
	MethodGetter
	MethodSetter
)

type MethodDecl struct {
	Token      lexer.Token
	Name       string
	Kind       MethodKind
	Params     []*Param
	Body       *BlockStmt
	ReturnType TypeExpr
	Flags      MemberFlags
	FuncFlags  FuncFlags
	TypeParams []*TypeParam
}

func (m *MethodDecl) stmtNode()          {}
func (m *MethodDecl) Pos() lexer.Position { return m.Token.Pos }
func (m *MethodDecl) String() string      { return m.Name + "(...)" }

// AutoAccessorDecl is an auto-accessor field (`accessor x: T`), capturing a
// backing field plus implicit getter/setter pair.
type AutoAccessorDecl struct {
	Token lexer.Token
	Name  string
	Type  TypeExpr
	Value Expr
	Flags MemberFlags
}

func (a *AutoAccessorDecl) stmtNode()          {}
func (a *AutoAccessorDecl) Pos() lexer.Position { return a.Token.Pos }
func (a *AutoAccessorDecl) String() string      { return "accessor " + a.Name }

// StaticBlockDecl is a `static { ... }` class initialization block.
type StaticBlockDecl struct {
	Token lexer.Token
	Body  *BlockStmt
}

func (s *StaticBlockDecl) stmtNode()          {}
func (s *StaticBlockDecl) Pos() lexer.Position { return s.Token.Pos }
func (s *StaticBlockDecl) String() string      { return "static {...}" }

// ClassDecl is a class declaration.
type ClassDecl struct {
	Token           lexer.Token
	Name            *Ident
	SuperClass      Expr
	Implements      []TypeExpr
	Members         []Stmt // FieldDecl | MethodDecl | AutoAccessorDecl | StaticBlockDecl
	TypeParams      []*TypeParam
	Abstract        bool
	Decorators      []*Decorator
	ImplicitSuperCtor bool // true if no explicit constructor was declared and SuperClass != nil
}

func (c *ClassDecl) stmtNode()          {}
func (c *ClassDecl) Pos() lexer.Position { return c.Token.Pos }
func (c *ClassDecl) String() string      { return "class " + c.Name.String() }

// Decorator is `@name(args)` metadata captured at a decoration point but
// not otherwise acted on (per spec.md's Non-goals).
type Decorator struct {
	Token lexer.Token
	Expr  Expr
}

// InterfaceDecl declares a nominal structural contract (checker-only).
type InterfaceMember struct {
	Name     string
	Type     TypeExpr
	Optional bool
	ReadOnly bool
	IsMethod bool
	Params   []*Param
	Return   TypeExpr
}

type InterfaceDecl struct {
	Token      lexer.Token
	Name       *Ident
	Extends    []TypeExpr
	Members    []InterfaceMember
	TypeParams []*TypeParam
}

func (i *InterfaceDecl) stmtNode()          {}
func (i *InterfaceDecl) Pos() lexer.Position { return i.Token.Pos }
func (i *InterfaceDecl) String() string      { return "interface " + i.Name.String() }

// TypeAliasDecl is `type Name<T> = ...`.
type TypeAliasDecl struct {
	Token      lexer.Token
	Name       *Ident
	TypeParams []*TypeParam
	Value      TypeExpr
}

func (t *TypeAliasDecl) stmtNode()          {}
func (t *TypeAliasDecl) Pos() lexer.Position { return t.Token.Pos }
func (t *TypeAliasDecl) String() string      { return "type " + t.Name.String() + " = " + t.Value.String() }

// EnumMember is one `Name = value` entry of an enum.
type EnumMember struct {
	Name  string
	Value Expr // may be nil (auto-numbered)
}

// EnumDecl is `enum Name { A, B = 2 }` (optionally `const enum`).
type EnumDecl struct {
	Token   lexer.Token
	Name    *Ident
	Members []EnumMember
	Const   bool
}

func (e *EnumDecl) stmtNode()          {}
func (e *EnumDecl) Pos() lexer.Position { return e.Token.Pos }
func (e *EnumDecl) String() string      { return "enum " + e.Name.String() }

// NamespaceDecl is `namespace Name { ... }`.
type NamespaceDecl struct {
	Token lexer.Token
	Name  *Ident
	Body  []Stmt
}

func (n *NamespaceDecl) stmtNode()          {}
func (n *NamespaceDecl) Pos() lexer.Position { return n.Token.Pos }
func (n *NamespaceDecl) String() string      { return "namespace " + n.Name.String() }

// ImportSpecifier is one named import, `name` or `name as alias`.
type ImportSpecifier struct {
	Name  string
	Alias string
}

// ImportStmt is `import ... from "spec"`.
type ImportStmt struct {
	Token       lexer.Token
	Default     string // may be empty
	Namespace   string // `import * as ns`, may be empty
	Named       []ImportSpecifier
	Specifier   string
	TypeOnly    bool
}

func (i *ImportStmt) stmtNode()          {}
func (i *ImportStmt) Pos() lexer.Position { return i.Token.Pos }
func (i *ImportStmt) String() string      { return "import ... from " + i.Specifier }

// ExportStmt wraps a declaration being exported, or names a re-export.
type ExportStmt struct {
	Token     lexer.Token
	Decl      Stmt // may be nil for re-exports
	Named     []ImportSpecifier
	FromSpec  string // non-empty for `export ... from "spec"`
	Default   bool
	DefaultExpr Expr // for `export default expr`
}

func (e *ExportStmt) stmtNode()          {}
func (e *ExportStmt) Pos() lexer.Position { return e.Token.Pos }
func (e *ExportStmt) String() string      { return "export ..." }

// ExprStmt wraps an expression evaluated for effect.
type ExprStmt struct {
	Token lexer.Token
	Expr  Expr
}

func (e *ExprStmt) stmtNode()          {}
func (e *ExprStmt) Pos() lexer.Position { return e.Token.Pos }
func (e *ExprStmt) String() string      { return e.Expr.String() + ";" }

// BlockStmt is `{ stmts }`.
type BlockStmt struct {
	Token      lexer.Token
	Statements []Stmt
}

func (b *BlockStmt) stmtNode()          {}
func (b *BlockStmt) Pos() lexer.Position { return b.Token.Pos }
func (b *BlockStmt) String() string      { return "{ ... }" }

// ReturnStmt is `return expr;`.
type ReturnStmt struct {
	Token lexer.Token
	Value Expr // may be nil
}

func (r *ReturnStmt) stmtNode()          {}
func (r *ReturnStmt) Pos() lexer.Position { return r.Token.Pos }
func (r *ReturnStmt) String() string      { return "return ...;" }

// BreakStmt is `break;` or `break label;`.
type BreakStmt struct {
	Token lexer.Token
	Label string
}

func (b *BreakStmt) stmtNode()          {}
func (b *BreakStmt) Pos() lexer.Position { return b.Token.Pos }
func (b *BreakStmt) String() string      { return "break;" }

// ContinueStmt is `continue;` or `continue label;`.
type ContinueStmt struct {
	Token lexer.Token
	Label string
}

func (c *ContinueStmt) stmtNode()          {}
func (c *ContinueStmt) Pos() lexer.Position { return c.Token.Pos }
func (c *ContinueStmt) String() string      { return "continue;" }

// ThrowStmt is `throw expr;`.
type ThrowStmt struct {
	Token lexer.Token
	Value Expr
}

func (t *ThrowStmt) stmtNode()          {}
func (t *ThrowStmt) Pos() lexer.Position { return t.Token.Pos }
func (t *ThrowStmt) String() string      { return "throw ...;" }

// LabeledStmt is `label: stmt`.
type LabeledStmt struct {
	Token lexer.Token
	Label string
	Body  Stmt
}

func (l *LabeledStmt) stmtNode()          {}
func (l *LabeledStmt) Pos() lexer.Position { return l.Token.Pos }
func (l *LabeledStmt) String() string      { return l.Label + ": " + l.Body.String() }
