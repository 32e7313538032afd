// Package errors implements the unified diagnostic taxonomy (spec §7):
// a common CompilerError formatter shared by lex/parse/check/resolve
// diagnostics, plus the ModuleResolutionError the resolver reports. The
// call stack runtime errors capture at throw time is runtime.StackFrame.
package errors

import (
	"fmt"
	"strings"

	"github.com/mvendel/go-tsx/internal/lexer"
)

// Kind discriminates the diagnostic categories spec §7 enumerates.
type Kind string

const (
	KindLexError             Kind = "LexError"
	KindParseError           Kind = "ParseError"
	KindTypeCheckError       Kind = "TypeCheckError"
	KindModuleResolutionError Kind = "ModuleResolutionError"
)

// CompilerError is a single diagnostic with source position and, when
// available, a source snippet — the single type every front-end phase's
// errors are normalised into before being reported to a host.
type CompilerError struct {
	Kind    Kind
	Message string
	File    string
	Source  string
	Pos     lexer.Position
}

// New builds a CompilerError.
func New(kind Kind, pos lexer.Position, message, source, file string) *CompilerError {
	return &CompilerError{Kind: kind, Pos: pos, Message: message, Source: source, File: file}
}

func (e *CompilerError) Error() string { return e.Format(false) }

// Format renders the error with a file:line:col header, a source-line
// snippet when Source is available, and a caret under the column.
// If color is true, ANSI codes highlight the caret and message.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder
	loc := fmt.Sprintf("%d:%d", e.Pos.Line, e.Pos.Column)
	if e.File != "" {
		sb.WriteString(fmt.Sprintf("%s: %s:%s\n", e.Kind, e.File, loc))
	} else {
		sb.WriteString(fmt.Sprintf("%s: %s\n", e.Kind, loc))
	}

	if line := sourceLine(e.Source, e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func sourceLine(source string, line int) string {
	if source == "" || line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// FormatAll renders a batch of diagnostics the way a CLI reports
// multiple accumulated errors from one phase.
func FormatAll(errs []*CompilerError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors:\n\n", len(errs)))
	for i, e := range errs {
		sb.WriteString(fmt.Sprintf("[%d/%d] ", i+1, len(errs)))
		sb.WriteString(e.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// ModuleResolutionError reports a failure building the import graph
// (spec §7), e.g. a missing file or an import cycle.
type ModuleResolutionError struct {
	Message string
	Path    string
}

func (e *ModuleResolutionError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Path)
}
