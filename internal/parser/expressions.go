package parser

import (
	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/lexer"
)

func (p *Parser) parseExpression() ast.Expr {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() ast.Expr {
	if expr, ok := p.tryParseArrowFunction(); ok {
		return expr
	}

	left := p.parseTernary()

	if assignOps[p.cur().Type] {
		tok := p.advance()
		value := p.parseAssignment()
		if tok.Type == lexer.ASSIGN {
			return &ast.Assign{Token: tok, Name: left, Value: value}
		}
		return &ast.CompoundAssign{Token: tok, Name: left, Op: tok.Literal, Value: value}
	}
	if logicalAssignOps[p.cur().Type] {
		tok := p.advance()
		value := p.parseAssignment()
		return &ast.LogicalAssign{Token: tok, Name: left, Op: tok.Literal, Value: value}
	}
	return left
}

func (p *Parser) parseTernary() ast.Expr {
	cond := p.parseNullish()
	if p.check(lexer.QUESTION) {
		tok := p.advance()
		then := p.parseAssignment()
		p.expect(lexer.COLON)
		els := p.parseAssignment()
		return &ast.Ternary{Token: tok, Cond: cond, Then: then, Else: els}
	}
	return cond
}

func (p *Parser) parseNullish() ast.Expr {
	left := p.parseBinary(precLogicalOr)
	for p.check(lexer.QUESTION_QUESTION) {
		tok := p.advance()
		right := p.parseBinary(precLogicalOr)
		left = &ast.NullishCoalescing{Token: tok, Left: left, Right: right}
	}
	return left
}

// parseBinary implements Pratt-style precedence climbing for every
// left-associative binary/logical operator below the unary level.
func (p *Parser) parseBinary(minPrec precedence) ast.Expr {
	left := p.parseUnary()
	for {
		tt := p.cur().Type
		prec, ok := binaryPrecedence[tt]
		if !ok || prec < minPrec {
			return left
		}
		tok := p.advance()
		nextMin := prec + 1
		if tt == lexer.STAR_STAR {
			// right-associative
			nextMin = prec
		}
		right := p.parseBinary(nextMin)
		switch tt {
		case lexer.AMP_AMP, lexer.PIPE_PIPE:
			left = &ast.Logical{Token: tok, Op: tok.Literal, Left: left, Right: right}
		default:
			left = &ast.Binary{Token: tok, Op: tok.Literal, Left: left, Right: right}
		}
	}
}

var unaryOps = map[lexer.TokenType]bool{
	lexer.BANG: true, lexer.MINUS: true, lexer.PLUS: true, lexer.TILDE: true,
	lexer.TYPEOF: true, lexer.VOID: true, lexer.DELETE: true, lexer.AWAIT: true,
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.cur().Type {
	case lexer.BANG, lexer.MINUS, lexer.PLUS, lexer.TILDE, lexer.TYPEOF, lexer.VOID:
		tok := p.advance()
		return &ast.Unary{Token: tok, Op: tok.Literal, Operand: p.parseUnary()}
	case lexer.DELETE:
		tok := p.advance()
		return &ast.Delete{Token: tok, Target: p.parseUnary()}
	case lexer.AWAIT:
		tok := p.advance()
		return &ast.Await{Token: tok, Value: p.parseUnary()}
	case lexer.YIELD:
		tok := p.advance()
		delegating := p.match(lexer.STAR)
		if p.check(lexer.SEMICOLON) || p.check(lexer.RPAREN) || p.check(lexer.RBRACE) ||
			p.check(lexer.RBRACKET) || p.check(lexer.COMMA) || p.check(lexer.COLON) || p.check(lexer.EOF) {
			return &ast.Yield{Token: tok, Delegating: delegating}
		}
		return &ast.Yield{Token: tok, Value: p.parseAssignment(), Delegating: delegating}
	case lexer.PLUS_PLUS, lexer.MINUS_MINUS:
		tok := p.advance()
		return &ast.IncDec{Token: tok, Op: tok.Literal, Target: p.parseUnary(), Prefix: true}
	case lexer.LT:
		// legacy `<T>expr` cast syntax
		save := p.save()
		tok := p.advance()
		typ := p.parseType()
		if p.check(lexer.GT) {
			p.advance()
			return &ast.TypeAssertion{Token: tok, Type: typ, Value: p.parseUnary()}
		}
		p.restore(save)
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parseCallOrMember(p.parsePrimary())
	for p.check(lexer.PLUS_PLUS) || p.check(lexer.MINUS_MINUS) {
		tok := p.advance()
		expr = &ast.IncDec{Token: tok, Op: tok.Literal, Target: expr, Prefix: false}
	}
	for {
		switch p.cur().Type {
		case lexer.AS:
			tok := p.advance()
			typ := p.parseType()
			expr = &ast.TypeAssertion{Token: tok, Type: typ, Value: expr}
		case lexer.SATISFIES:
			tok := p.advance()
			typ := p.parseType()
			expr = &ast.Satisfies{Token: tok, Type: typ, Value: expr}
		case lexer.BANG:
			tok := p.advance()
			expr = &ast.NonNullAssertion{Token: tok, Value: expr}
		default:
			return expr
		}
	}
}

// parseCallOrMember parses the postfix chain of `.`, `?.`, `[...]`, `(...)`,
// and tagged templates applied to a primary expression.
func (p *Parser) parseCallOrMember(expr ast.Expr) ast.Expr {
	for {
		switch p.cur().Type {
		case lexer.DOT:
			tok := p.advance()
			name := p.advance().Literal
			expr = &ast.Get{Token: tok, Object: expr, Name: name}
		case lexer.QUESTION_DOT:
			tok := p.advance()
			if p.check(lexer.LBRACKET) {
				p.advance()
				idx := p.parseExpression()
				p.expect(lexer.RBRACKET)
				expr = &ast.GetIndex{Token: tok, Object: expr, Index: idx, Optional: true}
				continue
			}
			if p.check(lexer.LPAREN) {
				expr = p.parseCallArgs(tok, expr, true)
				continue
			}
			name := p.advance().Literal
			expr = &ast.Get{Token: tok, Object: expr, Name: name, Optional: true}
		case lexer.QUESTION_DOT_L:
			tok := p.advance()
			expr = p.finishCallArgs(tok, expr, true)
		case lexer.QUESTION_DOT_LB:
			tok := p.advance()
			idx := p.parseExpression()
			p.expect(lexer.RBRACKET)
			expr = &ast.GetIndex{Token: tok, Object: expr, Index: idx, Optional: true}
		case lexer.LBRACKET:
			tok := p.advance()
			idx := p.parseExpression()
			p.expect(lexer.RBRACKET)
			expr = &ast.GetIndex{Token: tok, Object: expr, Index: idx}
		case lexer.LPAREN:
			tok := p.cur()
			expr = p.parseCallArgs(tok, expr, false)
		case lexer.TEMPLATE_NO_SUBSTITUTION, lexer.TEMPLATE_HEAD:
			expr = p.parseTaggedTemplate(expr)
		case lexer.LT:
			save := p.save()
			if args, ok := p.tryParseTypeArgs(); ok && p.check(lexer.LPAREN) {
				expr = p.finishCallArgs(p.cur(), expr, false)
				if c, ok2 := expr.(*ast.Call); ok2 {
					c.TypeArgs = args
				}
				continue
			}
			p.restore(save)
			return expr
		default:
			return expr
		}
	}
}

func (p *Parser) parseCallArgs(tok lexer.Token, callee ast.Expr, optional bool) ast.Expr {
	return p.finishCallArgs(tok, callee, optional)
}

func (p *Parser) finishCallArgs(tok lexer.Token, callee ast.Expr, optional bool) ast.Expr {
	// A `?.(` token has already consumed the opening paren.
	if tok.Type != lexer.QUESTION_DOT_L {
		p.expect(lexer.LPAREN)
	}
	var args []ast.Expr
	for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
		if p.match(lexer.DOTDOTDOT) {
			args = append(args, &ast.Spread{Token: p.cur(), Value: p.parseAssignment()})
		} else {
			args = append(args, p.parseAssignment())
		}
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN)
	return &ast.Call{Token: tok, Callee: callee, Args: args, Optional: optional}
}

func (p *Parser) parseTaggedTemplate(tag ast.Expr) ast.Expr {
	tok := p.cur()
	tmpl := p.parseTemplateLiteral()
	tl := tmpl.(*ast.TemplateLiteral)
	return &ast.TaggedTemplateLiteral{Token: tok, Tag: tag, Cooked: tl.Strings, Raw: tl.Strings, Expressions: tl.Expressions}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Type {
	case lexer.NUMBER:
		p.advance()
		return &ast.Literal{Token: tok, Value: tok.Value.Number}
	case lexer.STRING:
		p.advance()
		return &ast.Literal{Token: tok, Value: tok.Value.String}
	case lexer.BIGINT:
		p.advance()
		return &ast.Literal{Token: tok, Value: tok.Value.BigIntDigits}
	case lexer.TRUE:
		p.advance()
		return &ast.Literal{Token: tok, Value: true}
	case lexer.FALSE:
		p.advance()
		return &ast.Literal{Token: tok, Value: false}
	case lexer.NULL:
		p.advance()
		return &ast.Literal{Token: tok, Value: nil}
	case lexer.UNDEFINED:
		p.advance()
		return &ast.Literal{Token: tok, Value: ast.Undefined}
	case lexer.THIS:
		p.advance()
		return &ast.This{Token: tok}
	case lexer.SUPER:
		p.advance()
		s := &ast.Super{Token: tok}
		if p.match(lexer.DOT) {
			s.Method = p.advance().Literal
		}
		return s
	case lexer.REGEX:
		p.advance()
		return &ast.RegexLiteral{Token: tok, Pattern: tok.Value.RegexPattern, Flags: tok.Value.RegexFlags}
	case lexer.TEMPLATE_NO_SUBSTITUTION, lexer.TEMPLATE_HEAD:
		return p.parseTemplateLiteral()
	case lexer.LPAREN:
		p.advance()
		inner := p.parseExpression()
		p.expect(lexer.RPAREN)
		return &ast.Grouping{Token: tok, Inner: inner}
	case lexer.LBRACKET:
		return p.parseArrayLiteral()
	case lexer.LBRACE:
		return p.parseObjectLiteral()
	case lexer.FUNCTION:
		return p.parseFunctionExpression()
	case lexer.ASYNC:
		if p.peek().Type == lexer.FUNCTION {
			return p.parseFunctionExpression()
		}
		p.advance()
		return p.parsePrimary()
	case lexer.CLASS:
		return p.parseClassExpression()
	case lexer.NEW:
		return p.parseNew()
	case lexer.IMPORT:
		p.advance()
		if p.match(lexer.DOT) {
			p.expect(lexer.IDENT) // "meta"
			return &ast.ImportMeta{Token: tok}
		}
		p.expect(lexer.LPAREN)
		path := p.parseAssignment()
		p.expect(lexer.RPAREN)
		return &ast.DynamicImport{Token: tok, Path: path}
	case lexer.IDENT, lexer.GET, lexer.SET, lexer.OF, lexer.AS, lexer.TYPE, lexer.STATIC, lexer.ANY, lexer.UNKNOWN, lexer.NEVER:
		p.advance()
		return &ast.Variable{Token: tok, Name: tok.Literal}
	default:
		p.addError("unexpected token %s (%q) in expression", tok.Type, tok.Literal)
		p.advance()
		return &ast.Literal{Token: tok, Value: ast.Undefined}
	}
}

func (p *Parser) parseTemplateLiteral() ast.Expr {
	tok := p.cur()
	if p.match(lexer.TEMPLATE_NO_SUBSTITUTION) {
		return &ast.TemplateLiteral{Token: tok, Strings: []string{tok.Value.String}}
	}
	strs := []string{p.advance().Value.String}
	var exprs []ast.Expr
	for {
		exprs = append(exprs, p.parseExpression())
		next := p.cur()
		if next.Type == lexer.TEMPLATE_MIDDLE {
			strs = append(strs, p.advance().Value.String)
			continue
		}
		if next.Type == lexer.TEMPLATE_TAIL {
			strs = append(strs, p.advance().Value.String)
			break
		}
		p.addError("unterminated template literal expression")
		break
	}
	return &ast.TemplateLiteral{Token: tok, Strings: strs, Expressions: exprs}
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	tok := p.advance() // [
	var elems []ast.ArrayElement
	for !p.check(lexer.RBRACKET) && !p.check(lexer.EOF) {
		if p.check(lexer.COMMA) {
			elems = append(elems, ast.ArrayElement{Hole: true})
			p.advance()
			continue
		}
		if p.match(lexer.DOTDOTDOT) {
			elems = append(elems, ast.ArrayElement{Value: p.parseAssignment(), Spread: true})
		} else {
			elems = append(elems, ast.ArrayElement{Value: p.parseAssignment()})
		}
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACKET)
	return &ast.ArrayLiteral{Token: tok, Elements: elems}
}

func (p *Parser) parseObjectLiteral() ast.Expr {
	tok := p.advance() // {
	var props []ast.ObjectProp
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		props = append(props, p.parseObjectProp())
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACE)
	return &ast.ObjectLiteral{Token: tok, Properties: props}
}

func (p *Parser) parseObjectProp() ast.ObjectProp {
	if p.match(lexer.DOTDOTDOT) {
		return ast.ObjectProp{Kind: ast.PropSpread, Value: p.parseAssignment()}
	}
	if (p.cur().Type == lexer.GET || p.cur().Type == lexer.SET) && p.peek().Type != lexer.COLON &&
		p.peek().Type != lexer.COMMA && p.peek().Type != lexer.RBRACE && p.peek().Type != lexer.LPAREN {
		kind := ast.PropGetter
		if p.cur().Type == lexer.SET {
			kind = ast.PropSetter
		}
		p.advance()
		key := p.parsePropertyKey()
		fn := p.parseMethodBody()
		return ast.ObjectProp{Key: key, Value: fn, Kind: kind}
	}

	var computed bool
	var key ast.Expr
	if p.match(lexer.LBRACKET) {
		computed = true
		key = p.parseAssignment()
		p.expect(lexer.RBRACKET)
	} else {
		key = p.parsePropertyKey()
	}

	if p.check(lexer.LPAREN) || (p.check(lexer.LT) && !computed) {
		fn := p.parseMethodBody()
		return ast.ObjectProp{Key: key, Value: fn, Kind: ast.PropMethod, Computed: computed}
	}
	if p.match(lexer.COLON) {
		return ast.ObjectProp{Key: key, Value: p.parseAssignment(), Kind: ast.PropNormal, Computed: computed}
	}
	if p.match(lexer.ASSIGN) {
		// shorthand with default, used only inside destructuring patterns
		def := p.parseAssignment()
		return ast.ObjectProp{Key: key, Value: def, Kind: ast.PropShorthand, Computed: computed}
	}
	return ast.ObjectProp{Key: key, Value: key, Kind: ast.PropShorthand, Computed: computed}
}

func (p *Parser) parsePropertyKey() ast.Expr {
	tok := p.advance()
	switch tok.Type {
	case lexer.STRING:
		return &ast.Literal{Token: tok, Value: tok.Value.String}
	case lexer.NUMBER:
		return &ast.Literal{Token: tok, Value: tok.Value.Number}
	default:
		return &ast.Ident{Token: tok, Name: tok.Literal}
	}
}

// parseMethodBody parses the `(params): Return { body }` tail of an
// object-literal/class method whose key has already been consumed.
func (p *Parser) parseMethodBody() *ast.ArrowFunction {
	tok := p.cur()
	typeParams := p.parseTypeParams()
	params := p.parseParamList()
	var ret ast.TypeExpr
	if p.match(lexer.COLON) {
		ret = p.parseType()
	}
	body := p.parseBlock()
	_ = typeParams
	return &ast.ArrowFunction{Token: tok, Params: params, Body: body, ReturnType: ret}
}

// parseNew parses `new Callee(args)`, binding the argument list to the
// nearest `new` rather than letting it associate with an outer call — so
// `new X().foo()` parses as `(new X()).foo()`, not `new (X().foo())`. The
// callee itself is parsed as a member expression (dot/bracket access and
// nested `new`) with no call parens of its own.
func (p *Parser) parseNew() ast.Expr {
	tok := p.advance()
	if p.check(lexer.NEW) {
		nested := &ast.New{}
		*nested = *p.parseNew().(*ast.New)
		return p.parseCallOrMember(nested)
	}
	callee := p.parseMemberOnly(p.parsePrimary())
	var args []ast.Expr
	var typeArgs []ast.TypeExpr
	if p.check(lexer.LT) {
		save := p.save()
		if parsed, ok := p.tryParseTypeArgs(); ok && p.check(lexer.LPAREN) {
			typeArgs = parsed
		} else {
			p.restore(save)
		}
	}
	if p.check(lexer.LPAREN) {
		c := p.finishCallArgs(p.cur(), callee, false).(*ast.Call)
		args = c.Args
	}
	n := &ast.New{Token: tok, Callee: callee, Args: args, TypeArgs: typeArgs}
	return p.parseCallOrMember(n)
}

// parseMemberOnly parses the dot/bracket-access postfix chain without
// consuming any `(...)` call, for use as a `new` expression's callee.
func (p *Parser) parseMemberOnly(expr ast.Expr) ast.Expr {
	for {
		switch p.cur().Type {
		case lexer.DOT:
			tok := p.advance()
			name := p.advance().Literal
			expr = &ast.Get{Token: tok, Object: expr, Name: name}
		case lexer.LBRACKET:
			tok := p.advance()
			idx := p.parseExpression()
			p.expect(lexer.RBRACKET)
			expr = &ast.GetIndex{Token: tok, Object: expr, Index: idx}
		default:
			return expr
		}
	}
}

func (p *Parser) parseFunctionExpression() ast.Expr {
	tok := p.cur()
	flags := ast.FuncFlags{}
	if p.match(lexer.ASYNC) {
		flags.Async = true
	}
	p.expect(lexer.FUNCTION)
	if p.match(lexer.STAR) {
		flags.Generator = true
	}
	name := ""
	if p.check(lexer.IDENT) {
		name = p.advance().Literal
	}
	p.parseTypeParams()
	params := p.parseParamList()
	var ret ast.TypeExpr
	if p.match(lexer.COLON) {
		ret = p.parseType()
	}
	body := p.parseBlock()
	return &ast.ArrowFunction{Token: tok, Params: params, Body: body, ReturnType: ret, Flags: flags, Name: name}
}

func (p *Parser) parseClassExpression() ast.Expr {
	tok := p.cur()
	decl := p.parseClassDecl()
	return &ast.ClassExpr{Token: tok, Decl: decl}
}

// tryParseArrowFunction speculatively lexes ahead over a parenthesized (or
// bare-identifier) parameter list and accepts the construct only if the
// next token is `=>`, per spec.md §4.2's cover-grammar rule.
func (p *Parser) tryParseArrowFunction() (ast.Expr, bool) {
	async := false
	startTok := p.cur()
	save := p.save()
	if p.check(lexer.ASYNC) && (p.peek().Type == lexer.LPAREN || p.peek().Type == lexer.IDENT) {
		p.advance()
		async = true
	}

	if p.check(lexer.IDENT) && p.peek().Type == lexer.ARROW {
		name := p.advance()
		p.advance() // =>
		return p.finishArrowBody(startTok, []*ast.Param{{Pattern: &ast.Ident{Token: name, Name: name.Literal}, TokenPos: name.Pos}}, nil, async), true
	}

	if !p.check(lexer.LPAREN) {
		p.restore(save)
		return nil, false
	}

	params, ok := p.tryParseParamListSpeculative()
	if !ok {
		p.restore(save)
		return nil, false
	}
	var ret ast.TypeExpr
	if p.check(lexer.COLON) {
		p.advance()
		ret = p.parseType()
	}
	if !p.check(lexer.ARROW) {
		p.restore(save)
		return nil, false
	}
	p.advance()
	return p.finishArrowBody(startTok, params, ret, async), true
}

func (p *Parser) finishArrowBody(tok lexer.Token, params []*ast.Param, ret ast.TypeExpr, async bool) ast.Expr {
	flags := ast.FuncFlags{Arrow: true, Async: async}
	if p.check(lexer.LBRACE) {
		body := p.parseBlock()
		return &ast.ArrowFunction{Token: tok, Params: params, Body: body, ReturnType: ret, Flags: flags}
	}
	expr := p.parseAssignment()
	return &ast.ArrowFunction{Token: tok, Params: params, Expr: expr, ReturnType: ret, Flags: flags}
}

// tryParseParamListSpeculative parses `(params)` as a formal parameter
// list. It returns ok=false only when the cursor is not on `(`; other
// input is parsed as parameters regardless, and the caller's check for a
// following `=>` is what rejects it and falls back to parsing `(...)` as
// a parenthesized expression instead.
func (p *Parser) tryParseParamListSpeculative() ([]*ast.Param, bool) {
	if !p.check(lexer.LPAREN) {
		return nil, false
	}
	params := p.parseParamList()
	return params, true
}

func (p *Parser) parseParamList() []*ast.Param {
	p.expect(lexer.LPAREN)
	var params []*ast.Param
	for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
		params = append(params, p.parseParam())
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN)
	return params
}

func (p *Parser) parseParam() *ast.Param {
	pos := p.cur().Pos
	flags := ast.ParamFlags{}
	// class-constructor parameter properties are handled in classes.go
	if p.match(lexer.READONLY) {
		flags.ReadOnly = true
	}
	if p.match(lexer.DOTDOTDOT) {
		flags.Rest = true
	}
	pattern := p.parseBindingTarget()
	if p.match(lexer.QUESTION) {
		flags.Optional = true
	}
	var typ ast.TypeExpr
	if p.match(lexer.COLON) {
		typ = p.parseType()
	}
	var def ast.Expr
	if p.match(lexer.ASSIGN) {
		def = p.parseAssignment()
	}
	return &ast.Param{Pattern: pattern, Type: typ, Default: def, Flags: flags, TokenPos: pos}
}

// parseBindingTarget parses an identifier or a destructuring pattern
// (array/object literal reused as a binding pattern; the checker and
// interpreter destructure it rather than the parser building a distinct
// pattern node, per spec.md §3's AST invariants).
func (p *Parser) parseBindingTarget() ast.Expr {
	switch p.cur().Type {
	case lexer.LBRACKET:
		return p.parseArrayLiteral()
	case lexer.LBRACE:
		return p.parseObjectLiteral()
	default:
		tok := p.advance()
		return &ast.Ident{Token: tok, Name: tok.Literal}
	}
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	tok := p.expect(lexer.LBRACE)
	b := &ast.BlockStmt{Token: tok}
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		before := p.pos
		stmt := p.parseStatement()
		if stmt != nil {
			b.Statements = append(b.Statements, stmt)
		}
		if p.pos == before {
			p.advance()
		}
	}
	p.expect(lexer.RBRACE)
	return b
}
