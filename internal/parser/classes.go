package parser

import (
	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/lexer"
)

// parseClassDecl parses a class declaration or expression body; callers
// that need an expression wrap the result in ast.ClassExpr.
func (p *Parser) parseClassDecl() *ast.ClassDecl {
	tok := p.expect(lexer.CLASS)
	decl := &ast.ClassDecl{Token: tok}
	if p.check(lexer.IDENT) {
		nameTok := p.advance()
		decl.Name = &ast.Ident{Token: nameTok, Name: nameTok.Literal}
	}
	decl.TypeParams = p.parseTypeParams()
	if p.match(lexer.EXTENDS) {
		decl.SuperClass = p.parseCallOrMember(p.parsePrimary())
	}
	if p.match(lexer.IMPLEMENTS) {
		decl.Implements = append(decl.Implements, p.parseType())
		for p.match(lexer.COMMA) {
			decl.Implements = append(decl.Implements, p.parseType())
		}
	}
	p.expect(lexer.LBRACE)
	hasCtor := false
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		if p.match(lexer.SEMICOLON) {
			continue
		}
		member := p.parseClassMember()
		if member == nil {
			continue
		}
		if m, ok := member.(*ast.MethodDecl); ok && m.Kind == ast.MethodConstructor {
			hasCtor = true
		}
		decl.Members = append(decl.Members, member)
	}
	p.expect(lexer.RBRACE)
	decl.ImplicitSuperCtor = !hasCtor && decl.SuperClass != nil
	return decl
}

// parseClassMember parses one field, method, accessor, or static block,
// consuming any leading decorators and modifiers first.
func (p *Parser) parseClassMember() ast.Stmt {
	tok := p.cur()

	var decorators []*ast.Decorator
	for p.check(lexer.AT) {
		dTok := p.advance()
		expr := p.parseCallOrMember(p.parsePrimary())
		decorators = append(decorators, &ast.Decorator{Token: dTok, Expr: expr})
	}

	if p.check(lexer.STATIC) && p.peek().Type == lexer.LBRACE {
		p.advance()
		body := p.parseBlock()
		return &ast.StaticBlockDecl{Token: tok, Body: body}
	}

	var flags ast.MemberFlags
	for {
		switch p.cur().Type {
		case lexer.STATIC:
			flags.Static = true
		case lexer.ABSTRACT:
			flags.Abstract = true
		case lexer.READONLY:
			flags.ReadOnly = true
		case lexer.PUBLIC:
			flags.Visibility = ast.VisPublic
		case lexer.PRIVATE:
			flags.Visibility = ast.VisPrivate
		case lexer.PROTECTED:
			flags.Visibility = ast.VisProtected
		default:
			goto modifiersDone
		}
		p.advance()
	}
modifiersDone:

	// `override` is lexed as a plain identifier; treat it contextually.
	if p.cur().Type == lexer.IDENT && p.cur().Literal == "override" && p.peekAt(1).Type != lexer.LPAREN {
		flags.Override = true
		p.advance()
	}

	funcFlags := ast.FuncFlags{}
	if p.check(lexer.ASYNC) && p.peek().Type != lexer.LPAREN && p.peek().Type != lexer.ASSIGN && p.peek().Type != lexer.COLON {
		funcFlags.Async = true
		p.advance()
	}
	generator := p.match(lexer.STAR)
	funcFlags.Generator = generator

	kind := ast.MethodNormal
	if p.check(lexer.GET) && p.peek().Type != lexer.LPAREN && p.peek().Type != lexer.ASSIGN && p.peek().Type != lexer.COLON && p.peek().Type != lexer.SEMICOLON {
		kind = ast.MethodGetter
		p.advance()
	} else if p.check(lexer.SET) && p.peek().Type != lexer.LPAREN && p.peek().Type != lexer.ASSIGN && p.peek().Type != lexer.COLON && p.peek().Type != lexer.SEMICOLON {
		kind = ast.MethodSetter
		p.advance()
	}

	if p.cur().Type == lexer.IDENT && p.cur().Literal == "accessor" && p.peek().Type != lexer.LPAREN {
		p.advance()
		return p.parseAutoAccessor(tok, flags)
	}

	name, private := p.parseMemberName()

	if name == "constructor" && kind == ast.MethodNormal {
		kind = ast.MethodConstructor
	}

	if p.check(lexer.QUESTION) {
		p.advance()
		flags.Optional = true
	}
	if p.check(lexer.BANG) {
		p.advance() // definite assignment assertion
	}

	if p.check(lexer.LPAREN) || p.check(lexer.LT) {
		typeParams := p.parseTypeParams()
		params := p.parseParamList()
		var ret ast.TypeExpr
		if p.match(lexer.COLON) {
			ret = p.parseType()
		}
		var body *ast.BlockStmt
		if p.check(lexer.LBRACE) {
			body = p.parseBlock()
		} else {
			p.match(lexer.SEMICOLON)
		}
		return &ast.MethodDecl{
			Token: tok, Name: name, Kind: kind, Params: params, Body: body,
			ReturnType: ret, Flags: flags, FuncFlags: funcFlags, TypeParams: typeParams,
		}
	}

	field := &ast.FieldDecl{Token: tok, Name: name, Flags: flags, Private: private}
	if p.match(lexer.COLON) {
		field.Type = p.parseType()
	}
	if p.match(lexer.ASSIGN) {
		field.Value = p.parseAssignment()
	}
	p.match(lexer.SEMICOLON)
	_ = decorators
	return field
}

func (p *Parser) parseAutoAccessor(tok lexer.Token, flags ast.MemberFlags) ast.Stmt {
	name, _ := p.parseMemberName()
	a := &ast.AutoAccessorDecl{Token: tok, Name: name, Flags: flags}
	if p.match(lexer.COLON) {
		a.Type = p.parseType()
	}
	if p.match(lexer.ASSIGN) {
		a.Value = p.parseAssignment()
	}
	p.match(lexer.SEMICOLON)
	return a
}

// parseMemberName reads a class/interface/object member's name, handling
// the `#private` syntax by checking for a leading `#` encoded as part of
// an identifier literal by the lexer (private names lex as a single IDENT
// whose literal begins with "#").
func (p *Parser) parseMemberName() (name string, private bool) {
	tok := p.advance()
	lit := tok.Literal
	if len(lit) > 0 && lit[0] == '#' {
		return lit, true
	}
	return lit, false
}
