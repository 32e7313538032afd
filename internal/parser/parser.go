// Package parser builds an internal/ast tree from an internal/lexer token
// stream using recursive descent with Pratt-style expression precedence.
package parser

import (
	"fmt"

	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/lexer"
)

// DecoratorMode names a decorator dialect (none, legacy, Stage 3). The
// parser does not read it: decorators are accepted in every mode.
type DecoratorMode int

const (
	DecoratorNone DecoratorMode = iota
	DecoratorLegacy
	DecoratorStage3
)

// Config configures a Parser.
type Config struct {
	DecoratorMode DecoratorMode
}

// Parser consumes a buffered token stream and produces a list of
// statements. It buffers the whole token stream up front (the lexer
// itself is a finite, already-decoded sequence) so arrow-function
// disambiguation and generic-argument lookahead can freely save/restore a
// cursor position without re-lexing.
type Parser struct {
	tokens []lexer.Token
	pos    int
	cfg    Config
	errors []*ParseError
}

// New buffers src's entire token stream and returns a ready Parser.
func New(src string, cfg Config) *Parser {
	return &Parser{tokens: lexer.Tokenize(src), cfg: cfg}
}

// Errors returns every ParseError accumulated during Parse.
func (p *Parser) Errors() []*ParseError { return p.errors }

func (p *Parser) addError(format string, args ...any) {
	p.errors = append(p.errors, &ParseError{Message: fmt.Sprintf(format, args...), Pos: p.cur().Pos})
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) peek() lexer.Token { return p.peekAt(1) }

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) check(tt lexer.TokenType) bool { return p.cur().Type == tt }

func (p *Parser) match(tt lexer.TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	if p.check(tt) {
		return p.advance()
	}
	p.addError("expected %s, got %s (%q)", tt, p.cur().Type, p.cur().Literal)
	return p.cur()
}

// mark/reset save and restore only the cursor position. The speculative
// parses (arrow function parameter lists, generic call-vs-comparison
// disambiguation) use save/restore below, which also roll back errors.
func (p *Parser) mark() int      { return p.pos }
func (p *Parser) reset(mark int) { p.pos = mark }

// save captures the current error count alongside the cursor so a failed
// speculative parse can also roll back any errors it emitted.
type savedState struct {
	pos      int
	errCount int
}

func (p *Parser) save() savedState { return savedState{pos: p.pos, errCount: len(p.errors)} }
func (p *Parser) restore(s savedState) {
	p.pos = s.pos
	p.errors = p.errors[:s.errCount]
}

// recover skips tokens until a statement boundary (`;`, `}`, or EOF) after
// a parse error, so the parser can resume and collect further diagnostics.
func (p *Parser) recover() {
	for !p.check(lexer.EOF) {
		if p.cur().Type == lexer.SEMICOLON {
			p.advance()
			return
		}
		if p.cur().Type == lexer.RBRACE {
			return
		}
		p.advance()
	}
}

// Parse runs the parser over the whole buffered token stream.
func Parse(src string, cfg Config) (*ast.Program, []*ParseError) {
	p := New(src, cfg)
	prog := &ast.Program{}
	for !p.check(lexer.EOF) {
		before := p.pos
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		if p.pos == before {
			// Guard against an unadvancing parse (malformed input) to
			// avoid looping forever.
			p.advance()
		}
	}
	return prog, p.errors
}

// Precedence levels, low to high, per spec.md §4.2.
type precedence int

const (
	precLowest precedence = iota
	precAssignment
	precTernary
	precNullish
	precLogicalOr
	precLogicalAnd
	precBitwiseOr
	precBitwiseXor
	precBitwiseAnd
	precEquality
	precComparison
	precShift
	precAdditive
	precMultiplicative
	precExponent
	precUnary
	precPostfix
	precCall
	precPrimary
)

var binaryPrecedence = map[lexer.TokenType]precedence{
	lexer.QUESTION_QUESTION: precNullish,
	lexer.PIPE_PIPE:         precLogicalOr,
	lexer.AMP_AMP:           precLogicalAnd,
	lexer.PIPE:              precBitwiseOr,
	lexer.CARET:             precBitwiseXor,
	lexer.AMP:               precBitwiseAnd,
	lexer.EQ_EQ_EQ:          precEquality,
	lexer.NOT_EQ_EQ:         precEquality,
	lexer.EQ:                precEquality,
	lexer.NOT_EQ:            precEquality,
	lexer.LT:                precComparison,
	lexer.GT:                precComparison,
	lexer.LT_EQ:             precComparison,
	lexer.GT_EQ:             precComparison,
	lexer.INSTANCEOF:        precComparison,
	lexer.IN:                precComparison,
	lexer.LT_LT:             precShift,
	lexer.GT_GT:             precShift,
	lexer.GT_GTGT:           precShift,
	lexer.PLUS:              precAdditive,
	lexer.MINUS:             precAdditive,
	lexer.STAR:              precMultiplicative,
	lexer.SLASH:             precMultiplicative,
	lexer.PERCENT:           precMultiplicative,
	lexer.STAR_STAR:         precExponent,
}

var assignOps = map[lexer.TokenType]bool{
	lexer.ASSIGN: true, lexer.PLUS_EQ: true, lexer.MINUS_EQ: true,
	lexer.STAR_EQ: true, lexer.SLASH_EQ: true, lexer.PERCENT_EQ: true,
	lexer.STAR_STAR_EQ: true, lexer.LT_LT_EQ: true, lexer.GT_GT_EQ: true,
	lexer.GT_GTGT_EQ: true, lexer.AMP_EQ: true, lexer.PIPE_EQ: true,
	lexer.CARET_EQ: true,
}

var logicalAssignOps = map[lexer.TokenType]bool{
	lexer.AMP_AMP_EQ: true, lexer.PIPE_PIPE_EQ: true, lexer.QUESTION_QUESTION_EQ: true,
}
