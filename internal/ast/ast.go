// Package ast defines the immutable AST node types shared by the parser,
// checker, and interpreter. Nodes are created once by the parser and never
// mutated afterwards.
package ast

import "github.com/mvendel/go-tsx/internal/lexer"

// Node is the interface implemented by every AST node.
type Node interface {
	Pos() lexer.Position
	String() string
}

// Expr is any node that produces a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any node that performs an action.
type Stmt interface {
	Node
	stmtNode()
}

// Program is the root of a parsed module.
type Program struct {
	Statements []Stmt
}

func (p *Program) String() string {
	out := ""
	for _, s := range p.Statements {
		out += s.String() + "\n"
	}
	return out
}

func (p *Program) Pos() lexer.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return lexer.Position{Line: 1, Column: 1}
}

// Ident names a variable, property, label, or type.
type Ident struct {
	Token lexer.Token
	Name  string
}

func (i *Ident) exprNode()          {}
func (i *Ident) Pos() lexer.Position { return i.Token.Pos }
func (i *Ident) String() string      { return i.Name }

// ParamFlags captures the modifiers a function parameter can carry.
type ParamFlags struct {
	Optional bool
	Rest     bool
	ReadOnly bool
}

// Param is one formal parameter, possibly destructured, with an optional
// default and type annotation.
type Param struct {
	Pattern      Expr // Ident, or an ArrayLiteral/ObjectLiteral pattern
	Type         TypeExpr
	Default      Expr
	Flags        ParamFlags
	TokenPos     lexer.Position
}

func (p *Param) Pos() lexer.Position { return p.TokenPos }
func (p *Param) String() string {
	s := p.Pattern.String()
	if p.Flags.Optional {
		s += "?"
	}
	if p.Default != nil {
		s += " = " + p.Default.String()
	}
	return s
}

// PropKind distinguishes the shape of an ObjectLiteral property.
type PropKind int

const (
	PropNormal PropKind = iota
	PropShorthand
	PropSpread
	PropGetter
	PropSetter
	PropMethod
)

// ObjectProp is one entry of an ObjectLiteral.
type ObjectProp struct {
	Key      Expr
	Value    Expr
	Kind     PropKind
	Computed bool
}
