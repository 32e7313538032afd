package parser

import (
	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/lexer"
)

// parseType parses a type expression at the lowest precedence (union).
func (p *Parser) parseType() ast.TypeExpr {
	return p.parseConditionalType()
}

func (p *Parser) parseConditionalType() ast.TypeExpr {
	check := p.parseUnionType()
	if p.check(lexer.EXTENDS) {
		tok := p.advance()
		ext := p.parseUnionType()
		p.expect(lexer.QUESTION)
		trueT := p.parseType()
		p.expect(lexer.COLON)
		falseT := p.parseType()
		return &ast.ConditionalTypeRef{Token: tok, Check: check, Extends: ext, True: trueT, False: falseT}
	}
	return check
}

func (p *Parser) parseUnionType() ast.TypeExpr {
	p.match(lexer.PIPE) // allow leading `|`
	first := p.parseIntersectionType()
	if !p.check(lexer.PIPE) {
		return first
	}
	tok := p.cur()
	members := []ast.TypeExpr{first}
	for p.match(lexer.PIPE) {
		members = append(members, p.parseIntersectionType())
	}
	return &ast.UnionTypeRef{Token: tok, Members: members}
}

func (p *Parser) parseIntersectionType() ast.TypeExpr {
	p.match(lexer.AMP)
	first := p.parseTypeOperator()
	if !p.check(lexer.AMP) {
		return first
	}
	tok := p.cur()
	members := []ast.TypeExpr{first}
	for p.match(lexer.AMP) {
		members = append(members, p.parseTypeOperator())
	}
	return &ast.IntersectionTypeRef{Token: tok, Members: members}
}

func (p *Parser) parseTypeOperator() ast.TypeExpr {
	switch p.cur().Type {
	case lexer.KEYOF:
		tok := p.advance()
		return &ast.KeyofTypeRef{Token: tok, Type: p.parseTypeOperator()}
	case lexer.TYPEOF:
		tok := p.advance()
		name := p.expect(lexer.IDENT).Literal
		return &ast.TypeofTypeRef{Token: tok, Name: name}
	case lexer.INFER:
		tok := p.advance()
		name := p.expect(lexer.IDENT).Literal
		return &ast.InferTypeRef{Token: tok, Name: name}
	default:
		return p.parsePostfixType()
	}
}

func (p *Parser) parsePostfixType() ast.TypeExpr {
	t := p.parsePrimaryType()
	for p.check(lexer.LBRACKET) {
		tok := p.advance()
		if p.check(lexer.RBRACKET) {
			p.advance()
			t = &ast.ArrayTypeRef{Token: tok, Element: t}
			continue
		}
		// indexed access type `T[K]`; not separately modeled — degrade to
		// the element type's own array form for simplicity.
		p.parseType()
		p.expect(lexer.RBRACKET)
		t = &ast.ArrayTypeRef{Token: tok, Element: t}
	}
	return t
}

func (p *Parser) parsePrimaryType() ast.TypeExpr {
	switch p.cur().Type {
	case lexer.LPAREN:
		return p.parseFunctionOrParenType()
	case lexer.LBRACE:
		return p.parseRecordOrMappedType()
	case lexer.LBRACKET:
		return p.parseTupleType()
	case lexer.STRING:
		tok := p.advance()
		return &ast.LiteralTypeRef{Token: tok, Value: tok.Value.String}
	case lexer.NUMBER:
		tok := p.advance()
		return &ast.LiteralTypeRef{Token: tok, Value: tok.Value.Number}
	case lexer.TRUE, lexer.FALSE:
		tok := p.advance()
		return &ast.LiteralTypeRef{Token: tok, Value: tok.Type == lexer.TRUE}
	case lexer.TEMPLATE_NO_SUBSTITUTION, lexer.TEMPLATE_HEAD:
		return p.parseTemplateLiteralType()
	case lexer.IDENT, lexer.ANY, lexer.UNKNOWN, lexer.NEVER, lexer.UNDEFINED, lexer.NULL, lexer.VOID, lexer.THIS:
		return p.parseNamedType()
	default:
		tok := p.advance()
		return &ast.OpaqueTypeRef{Token: tok, Raw: tok.Literal}
	}
}

func (p *Parser) parseNamedType() ast.TypeExpr {
	tok := p.advance()
	name := tok.Literal
	var args []ast.TypeExpr
	if p.check(lexer.LT) {
		save := p.save()
		if parsed, ok := p.tryParseTypeArgs(); ok {
			args = parsed
		} else {
			p.restore(save)
		}
	}
	return &ast.NamedTypeRef{Token: tok, Name: name, Args: args}
}

func (p *Parser) tryParseTypeArgs() ([]ast.TypeExpr, bool) {
	p.expect(lexer.LT)
	var args []ast.TypeExpr
	if !p.check(lexer.GT) {
		args = append(args, p.parseType())
		for p.match(lexer.COMMA) {
			args = append(args, p.parseType())
		}
	}
	if !p.check(lexer.GT) {
		return nil, false
	}
	p.advance()
	return args, true
}

func (p *Parser) parseTupleType() ast.TypeExpr {
	tok := p.advance() // [
	var elems []ast.TupleElement
	for !p.check(lexer.RBRACKET) && !p.check(lexer.EOF) {
		var e ast.TupleElement
		if p.match(lexer.DOTDOTDOT) {
			e.Rest = true
		}
		e.Type = p.parseType()
		if p.match(lexer.QUESTION) {
			e.Optional = true
		}
		elems = append(elems, e)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACKET)
	return &ast.TupleTypeRef{Token: tok, Elements: elems}
}

func (p *Parser) parseRecordOrMappedType() ast.TypeExpr {
	tok := p.advance() // {
	if p.check(lexer.LBRACKET) {
		save := p.save()
		if mapped, ok := p.tryParseMappedType(tok); ok {
			return mapped
		}
		p.restore(save)
	}
	var members []ast.RecordMember
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		var m ast.RecordMember
		if p.check(lexer.LBRACKET) && p.peekAt(2).Type == lexer.COLON {
			p.advance()
			p.expect(lexer.IDENT)
			p.expect(lexer.COLON)
			keyType := p.advance()
			m.IndexKeyIsNumber = keyType.Type != lexer.IDENT || keyType.Literal == "number"
			p.expect(lexer.RBRACKET)
			m.IsIndexSig = true
		} else {
			if p.match(lexer.READONLY) {
				m.ReadOnly = true
			}
			m.Name = p.advance().Literal
			if p.match(lexer.QUESTION) {
				m.Optional = true
			}
		}
		p.expect(lexer.COLON)
		m.Type = p.parseType()
		members = append(members, m)
		if !p.match(lexer.SEMICOLON) {
			p.match(lexer.COMMA)
		}
	}
	p.expect(lexer.RBRACE)
	return &ast.RecordTypeRef{Token: tok, Members: members}
}

func (p *Parser) tryParseMappedType(tok lexer.Token) (ast.TypeExpr, bool) {
	p.expect(lexer.LBRACKET)
	if !p.check(lexer.IDENT) {
		return nil, false
	}
	key := p.advance().Literal
	if !p.check(lexer.IN) {
		return nil, false
	}
	p.advance()
	constraint := p.parseType()
	if !p.check(lexer.RBRACKET) {
		return nil, false
	}
	p.advance()
	optional := p.match(lexer.QUESTION)
	if !p.check(lexer.COLON) {
		return nil, false
	}
	p.advance()
	value := p.parseType()
	if !p.check(lexer.SEMICOLON) {
		p.match(lexer.COMMA)
	}
	p.expect(lexer.RBRACE)
	return &ast.MappedTypeRef{Token: tok, KeyName: key, Constraint: constraint, Value: value, Optional: optional}, true
}

func (p *Parser) parseTemplateLiteralType() ast.TypeExpr {
	tok := p.cur()
	if p.match(lexer.TEMPLATE_NO_SUBSTITUTION) {
		return &ast.TemplateLiteralTypeRef{Token: tok, Strings: []string{tok.Value.String}}
	}
	strs := []string{p.advance().Value.String}
	var types []ast.TypeExpr
	for {
		types = append(types, p.parseType())
		next := p.cur()
		if next.Type == lexer.TEMPLATE_MIDDLE {
			strs = append(strs, p.advance().Value.String)
			continue
		}
		if next.Type == lexer.TEMPLATE_TAIL {
			strs = append(strs, p.advance().Value.String)
			break
		}
		break
	}
	return &ast.TemplateLiteralTypeRef{Token: tok, Strings: strs, Types: types}
}

// parseFunctionOrParenType distinguishes `(a: T) => R` from a parenthesized
// type `(A | B)` by a speculative parse, mirroring the parser's arrow-vs-
// grouping disambiguation for expressions.
func (p *Parser) parseFunctionOrParenType() ast.TypeExpr {
	save := p.save()
	if fn, ok := p.tryParseFunctionType(); ok {
		return fn
	}
	p.restore(save)
	p.expect(lexer.LPAREN)
	inner := p.parseType()
	p.expect(lexer.RPAREN)
	return inner
}

func (p *Parser) tryParseFunctionType() (ast.TypeExpr, bool) {
	tok := p.advance() // (
	var params []ast.FunctionTypeParam
	for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
		var fp ast.FunctionTypeParam
		if p.match(lexer.DOTDOTDOT) {
			fp.Rest = true
		}
		if !p.check(lexer.IDENT) && p.cur().Type != lexer.THIS {
			return nil, false
		}
		fp.Name = p.advance().Literal
		if p.match(lexer.QUESTION) {
			fp.Optional = true
		}
		if !p.check(lexer.COLON) {
			return nil, false
		}
		p.advance()
		fp.Type = p.parseType()
		params = append(params, fp)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	if !p.check(lexer.RPAREN) {
		return nil, false
	}
	p.advance()
	if !p.check(lexer.ARROW) {
		return nil, false
	}
	p.advance()
	ret := p.parseType()
	return &ast.FunctionTypeRef{Token: tok, Params: params, Return: ret}, true
}

// parseTypeParams parses `<T extends X = D, ...>` generic parameter lists.
func (p *Parser) parseTypeParams() []*ast.TypeParam {
	if !p.check(lexer.LT) {
		return nil
	}
	p.advance()
	var params []*ast.TypeParam
	for !p.check(lexer.GT) && !p.check(lexer.EOF) {
		tp := &ast.TypeParam{Name: p.expect(lexer.IDENT).Literal}
		if p.match(lexer.EXTENDS) {
			tp.Constraint = p.parseType()
		}
		if p.match(lexer.ASSIGN) {
			tp.Default = p.parseType()
		}
		params = append(params, tp)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.GT)
	return params
}

// parseTypeArgsIfPresent speculatively parses `<T, U>` call type arguments.
func (p *Parser) parseTypeArgsIfPresent() []ast.TypeExpr {
	if !p.check(lexer.LT) {
		return nil
	}
	save := p.save()
	if args, ok := p.tryParseTypeArgs(); ok &&
		(p.check(lexer.LPAREN) || p.check(lexer.TEMPLATE_NO_SUBSTITUTION) || p.check(lexer.TEMPLATE_HEAD)) {
		return args
	}
	p.restore(save)
	return nil
}
