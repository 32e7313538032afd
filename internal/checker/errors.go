package checker

import (
	"fmt"

	"github.com/mvendel/go-tsx/internal/lexer"
)

// TypeCheckKind enumerates the diagnostic subkinds this checker raises;
// spec §4.3 only names the envelope `TypeCheckError(kind, message,
// position)`, so these are this module's own vocabulary for `kind`.
type TypeCheckKind string

const (
	NotInScope        TypeCheckKind = "NotInScope"
	NotAssignable      TypeCheckKind = "NotAssignable"
	ExcessProperty     TypeCheckKind = "ExcessProperty"
	NotCallable        TypeCheckKind = "NotCallable"
	WrongArgCount      TypeCheckKind = "WrongArgCount"
	UnknownMember      TypeCheckKind = "UnknownMember"
	InvalidOperator    TypeCheckKind = "InvalidOperator"
	AbstractNotImpl    TypeCheckKind = "AbstractMemberNotImplemented"
	OverrideMismatch   TypeCheckKind = "OverrideMismatch"
	ConstReassignment  TypeCheckKind = "ConstReassignment"
	DuplicateDeclaration TypeCheckKind = "DuplicateDeclaration"
)

// TypeCheckError is one accumulated diagnostic (spec §4.3/§7).
type TypeCheckError struct {
	Kind    TypeCheckKind
	Message string
	Pos     lexer.Position
}

func newTypeCheckError(kind TypeCheckKind, pos lexer.Position, format string, args ...any) *TypeCheckError {
	return &TypeCheckError{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (e *TypeCheckError) Error() string {
	return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Pos.Line, e.Pos.Column, e.Message)
}
