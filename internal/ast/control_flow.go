package ast

import "github.com/mvendel/go-tsx/internal/lexer"

// IfStmt is `if (cond) then else alt`.
type IfStmt struct {
	Token lexer.Token
	Cond  Expr
	Then  Stmt
	Else  Stmt // may be nil
}

func (i *IfStmt) stmtNode()          {}
func (i *IfStmt) Pos() lexer.Position { return i.Token.Pos }
func (i *IfStmt) String() string      { return "if (...) ..." }

// WhileStmt is `while (cond) body`. Step is non-nil only when this node
// is the lowered form of a C-style `for (init; test; step)` loop (see
// ForStmt); it runs after Body on every iteration, including one that
// completed via an unlabeled/matching-label Continue, which a plain
// `Body` statement appended after it would not.
type WhileStmt struct {
	Token lexer.Token
	Cond  Expr
	Body  Stmt
	Step  Expr
}

func (w *WhileStmt) stmtNode()          {}
func (w *WhileStmt) Pos() lexer.Position { return w.Token.Pos }
func (w *WhileStmt) String() string      { return "while (...) ..." }

// DoWhileStmt is `do body while (cond);`.
type DoWhileStmt struct {
	Token lexer.Token
	Body  Stmt
	Cond  Expr
}

func (d *DoWhileStmt) stmtNode()          {}
func (d *DoWhileStmt) Pos() lexer.Position { return d.Token.Pos }
func (d *DoWhileStmt) String() string      { return "do ... while (...);" }

// ForStmt is a desugared C-style for loop: the parser rewrites
// `for (init; test; step) body` into `Block{ init; While(test){body, Step: step} }`
// (see SPEC_FULL.md §C and spec.md §4.2). The parser never produces this
// node; the checker and the interpreter still accept it (the interpreter's
// execForStmt runs it directly).
type ForStmt struct {
	Token lexer.Token
	Init  Stmt // VarStmt or ExprStmt, may be nil
	Test  Expr // may be nil
	Step  Expr // may be nil
	Body  Stmt
}

func (f *ForStmt) stmtNode()          {}
func (f *ForStmt) Pos() lexer.Position { return f.Token.Pos }
func (f *ForStmt) String() string      { return "for (...) ..." }

// ForOfStmt is `for (decl of iterable) body`.
type ForOfStmt struct {
	Token    lexer.Token
	Modifier VarModifier
	Pattern  Expr
	Iterable Expr
	Body     Stmt
	Await    bool // `for await (...)`
}

func (f *ForOfStmt) stmtNode()          {}
func (f *ForOfStmt) Pos() lexer.Position { return f.Token.Pos }
func (f *ForOfStmt) String() string      { return "for (... of ...) ..." }

// ForInStmt is `for (decl in obj) body`.
type ForInStmt struct {
	Token    lexer.Token
	Modifier VarModifier
	Pattern  Expr
	Object   Expr
	Body     Stmt
}

func (f *ForInStmt) stmtNode()          {}
func (f *ForInStmt) Pos() lexer.Position { return f.Token.Pos }
func (f *ForInStmt) String() string      { return "for (... in ...) ..." }

// SwitchCase is one `case expr:` (Test == nil for `default:`).
type SwitchCase struct {
	Test       Expr
	Statements []Stmt
}

// SwitchStmt is `switch (disc) { cases }`.
type SwitchStmt struct {
	Token        lexer.Token
	Discriminant Expr
	Cases        []SwitchCase
}

func (s *SwitchStmt) stmtNode()          {}
func (s *SwitchStmt) Pos() lexer.Position { return s.Token.Pos }
func (s *SwitchStmt) String() string      { return "switch (...) {...}" }

// CatchClause is `catch (param) body` or `catch body` (no binding).
type CatchClause struct {
	Param Expr // may be nil
	Type  TypeExpr
	Body  *BlockStmt
}

// TryStmt is `try block catch(e) handler finally fin`.
type TryStmt struct {
	Token   lexer.Token
	Block   *BlockStmt
	Catch   *CatchClause // may be nil
	Finally *BlockStmt   // may be nil
}

func (t *TryStmt) stmtNode()          {}
func (t *TryStmt) Pos() lexer.Position { return t.Token.Pos }
func (t *TryStmt) String() string      { return "try {...}" }
