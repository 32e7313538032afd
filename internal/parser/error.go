package parser

import "github.com/mvendel/go-tsx/internal/lexer"

// ParseError is a single parser diagnostic. The parser does not stop at
// the first error: it enters panic recovery at the next statement
// boundary (`;`, `}`, or EOF) and keeps going so a single run can report
// every syntax error found.
type ParseError struct {
	Message string
	Pos     lexer.Position
}

func (e *ParseError) Error() string { return e.Message }
