package engine

import (
	"fmt"

	"github.com/mvendel/go-tsx/internal/checker"
	cerrors "github.com/mvendel/go-tsx/internal/errors"
	"github.com/mvendel/go-tsx/internal/lexer"
	"github.com/mvendel/go-tsx/internal/parser"
)

// ErrorSeverity classifies a diagnostic. This engine's front-end packages
// only ever produce errors (no warning/info/hint pass exists yet), but the
// levels are part of the public surface so a future checker pass can use
// them without breaking callers.
type ErrorSeverity int

const (
	SeverityError ErrorSeverity = iota
	SeverityWarning
	SeverityInfo
	SeverityHint
)

func (s ErrorSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Error is one diagnostic normalized out of the lexer, parser, checker and
// resolver error types, for callers that want a single
// flat shape instead of matching on internal/errors.CompilerError's Kind.
type Error struct {
	Message  string
	Line     int
	Column   int
	Length   int
	Severity ErrorSeverity
	Code     string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s at %d:%d: %s [%s]", e.Severity, e.Line, e.Column, e.Message, e.Code)
	}
	return fmt.Sprintf("%s at %d:%d: %s", e.Severity, e.Line, e.Column, e.Message)
}

// CompileError wraps every diagnostic collected at one front-end stage;
// Stage is "lexing", "parsing", "checking" or "resolving" ("register" for
// a RegisterHostFunction name clash). A non-nil CompileError
// from Parse/Compile never means no AST was produced — callers that want
// best-effort partial results read the returned Program or tree alongside the error, the
// same way internal/parser keeps parsing past a syntax error.
type CompileError struct {
	Stage  string
	Errors []*Error
}

func (e *CompileError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("%s failed", e.Stage)
	}
	return fmt.Sprintf("%s failed: %s (and %d more)", e.Stage, e.Errors[0].Message, len(e.Errors)-1)
}

func fromLexErrors(stage string, errs []lexer.LexError) *CompileError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]*Error, len(errs))
	for i, e := range errs {
		out[i] = &Error{Message: e.Message, Line: e.Pos.Line, Column: e.Pos.Column, Severity: SeverityError}
	}
	return &CompileError{Stage: stage, Errors: out}
}

func fromParseErrors(stage string, errs []*parser.ParseError) *CompileError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]*Error, len(errs))
	for i, e := range errs {
		out[i] = &Error{Message: e.Message, Line: e.Pos.Line, Column: e.Pos.Column, Severity: SeverityError}
	}
	return &CompileError{Stage: stage, Errors: out}
}

func fromTypeCheckErrors(stage string, errs []*checker.TypeCheckError) *CompileError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]*Error, len(errs))
	for i, e := range errs {
		out[i] = &Error{Message: e.Message, Line: e.Pos.Line, Column: e.Pos.Column, Severity: SeverityError, Code: string(e.Kind)}
	}
	return &CompileError{Stage: stage, Errors: out}
}

func fromResolutionError(stage string, err error) *CompileError {
	if err == nil {
		return nil
	}
	if modErr, ok := err.(*cerrors.ModuleResolutionError); ok {
		return &CompileError{Stage: stage, Errors: []*Error{{Message: modErr.Message, Severity: SeverityError}}}
	}
	return &CompileError{Stage: stage, Errors: []*Error{{Message: err.Error(), Severity: SeverityError}}}
}
