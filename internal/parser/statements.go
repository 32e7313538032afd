package parser

import (
	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/lexer"
)

// parseStatement dispatches on the leading token of a statement or
// declaration. It returns nil for an empty `;` statement. Errors are
// recorded and parsing goes on; an expression statement with no proper
// terminator skips ahead via recover() so the caller's loop can keep
// collecting further diagnostics.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur().Type {
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.VAR, lexer.LET, lexer.CONST:
		stmt := p.parseVarStmt()
		p.match(lexer.SEMICOLON)
		return stmt
	case lexer.FUNCTION:
		return p.parseFunctionStmt(ast.FuncFlags{})
	case lexer.ASYNC:
		if p.peek().Type == lexer.FUNCTION {
			p.advance()
			return p.parseFunctionStmt(ast.FuncFlags{Async: true})
		}
		stmt := p.parseExprStmt()
		return stmt
	case lexer.CLASS:
		return p.parseClassDecl()
	case lexer.ABSTRACT:
		if p.peek().Type == lexer.CLASS {
			p.advance()
			c := p.parseClassDecl()
			c.Abstract = true
			return c
		}
		return p.parseExprStmt()
	case lexer.INTERFACE:
		return p.parseInterfaceDecl()
	case lexer.TYPE:
		if p.peek().Type == lexer.IDENT {
			return p.parseTypeAliasDecl()
		}
		return p.parseExprStmt()
	case lexer.ENUM:
		return p.parseEnumDecl()
	case lexer.NAMESPACE, lexer.MODULE:
		return p.parseNamespaceDecl()
	case lexer.IMPORT:
		if p.peek().Type == lexer.LPAREN || p.peek().Type == lexer.DOT {
			return p.parseExprStmt()
		}
		return p.parseImportStmt()
	case lexer.EXPORT:
		return p.parseExportStmt()
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.WHILE:
		return p.parseWhileStmt()
	case lexer.DO:
		return p.parseDoWhileStmt()
	case lexer.FOR:
		return p.parseForStmt()
	case lexer.SWITCH:
		return p.parseSwitchStmt()
	case lexer.TRY:
		return p.parseTryStmt()
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.BREAK:
		return p.parseBreakStmt()
	case lexer.CONTINUE:
		return p.parseContinueStmt()
	case lexer.THROW:
		return p.parseThrowStmt()
	case lexer.SEMICOLON:
		p.advance()
		return nil
	case lexer.AT:
		return p.parseDecoratedStmt()
	case lexer.IDENT:
		if p.peek().Type == lexer.COLON {
			return p.parseLabeledStmt()
		}
		return p.parseExprStmt()
	case lexer.DECLARE:
		p.advance()
		return p.parseStatement()
	default:
		return p.parseExprStmt()
	}
}

// expectContextual consumes an IDENT token whose literal text matches lit
// ("from" is not a reserved word, so the lexer always hands it back as a
// plain IDENT).
func (p *Parser) expectContextual(lit string) lexer.Token {
	if p.cur().Type == lexer.IDENT && p.cur().Literal == lit {
		return p.advance()
	}
	p.addError("expected %q, got %s (%q)", lit, p.cur().Type, p.cur().Literal)
	return p.cur()
}

func (p *Parser) parseExprStmt() ast.Stmt {
	tok := p.cur()
	expr := p.parseExpression()
	if !p.match(lexer.SEMICOLON) {
		if p.check(lexer.EOF) || p.cur().Pos.NewlineBefore || p.check(lexer.RBRACE) {
			// automatic semicolon insertion
		} else {
			p.addError("expected ';' after expression statement, got %s", p.cur().Type)
			p.recover()
		}
	}
	return &ast.ExprStmt{Token: tok, Expr: expr}
}

func (p *Parser) parseVarStmt() ast.Stmt {
	tok := p.advance()
	mod := ast.ModVar
	switch tok.Type {
	case lexer.LET:
		mod = ast.ModLet
	case lexer.CONST:
		mod = ast.ModConst
	}
	pattern := p.parseBindingTarget()
	var typ ast.TypeExpr
	if p.match(lexer.COLON) {
		typ = p.parseType()
	}
	var value ast.Expr
	if p.match(lexer.ASSIGN) {
		value = p.parseAssignment()
	}
	return &ast.VarStmt{Token: tok, Modifier: mod, Pattern: pattern, Type: typ, Value: value}
}

func (p *Parser) parseFunctionStmt(flags ast.FuncFlags) ast.Stmt {
	tok := p.advance() // function
	if p.match(lexer.STAR) {
		flags.Generator = true
	}
	name := p.expect(lexer.IDENT).Literal
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
		p.match(lexer.SEMICOLON) // overload signature / ambient declaration
	}
	return &ast.FunctionStmt{Token: tok, Name: name, Params: params, Body: body, ReturnType: ret, Flags: flags, TypeParams: typeParams}
}

func (p *Parser) parseDecoratedStmt() ast.Stmt {
	var decorators []*ast.Decorator
	for p.check(lexer.AT) {
		tok := p.advance()
		expr := p.parseCallOrMember(p.parsePrimary())
		decorators = append(decorators, &ast.Decorator{Token: tok, Expr: expr})
	}
	stmt := p.parseStatement()
	if c, ok := stmt.(*ast.ClassDecl); ok {
		c.Decorators = append(decorators, c.Decorators...)
	}
	return stmt
}

func (p *Parser) parseInterfaceDecl() ast.Stmt {
	tok := p.advance()
	name := &ast.Ident{Token: p.cur(), Name: p.expect(lexer.IDENT).Literal}
	typeParams := p.parseTypeParams()
	var extends []ast.TypeExpr
	if p.match(lexer.EXTENDS) {
		extends = append(extends, p.parseType())
		for p.match(lexer.COMMA) {
			extends = append(extends, p.parseType())
		}
	}
	p.expect(lexer.LBRACE)
	var members []ast.InterfaceMember
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		members = append(members, p.parseInterfaceMember())
		p.match(lexer.SEMICOLON)
		p.match(lexer.COMMA)
	}
	p.expect(lexer.RBRACE)
	return &ast.InterfaceDecl{Token: tok, Name: name, Extends: extends, Members: members, TypeParams: typeParams}
}

func (p *Parser) parseInterfaceMember() ast.InterfaceMember {
	var m ast.InterfaceMember
	if p.match(lexer.READONLY) {
		m.ReadOnly = true
	}
	if p.check(lexer.LBRACKET) && p.peekAt(2).Type == lexer.COLON {
		p.advance()
		p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		p.advance()
		p.expect(lexer.RBRACKET)
		p.expect(lexer.COLON)
		m.Name = "[index]"
		m.Type = p.parseType()
		return m
	}
	m.Name = p.advance().Literal
	if p.match(lexer.QUESTION) {
		m.Optional = true
	}
	if p.check(lexer.LPAREN) || p.check(lexer.LT) {
		m.IsMethod = true
		p.parseTypeParams()
		m.Params = p.parseParamList()
		if p.match(lexer.COLON) {
			m.Return = p.parseType()
		}
		return m
	}
	p.expect(lexer.COLON)
	m.Type = p.parseType()
	return m
}

func (p *Parser) parseTypeAliasDecl() ast.Stmt {
	tok := p.advance()
	name := &ast.Ident{Token: p.cur(), Name: p.expect(lexer.IDENT).Literal}
	typeParams := p.parseTypeParams()
	p.expect(lexer.ASSIGN)
	value := p.parseType()
	p.match(lexer.SEMICOLON)
	return &ast.TypeAliasDecl{Token: tok, Name: name, TypeParams: typeParams, Value: value}
}

func (p *Parser) parseEnumDecl() ast.Stmt {
	tok := p.advance()
	isConst := false
	if tok.Type == lexer.CONST {
		p.expect(lexer.ENUM)
	}
	name := &ast.Ident{Token: p.cur(), Name: p.expect(lexer.IDENT).Literal}
	p.expect(lexer.LBRACE)
	var members []ast.EnumMember
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		memberName := p.advance().Literal
		var value ast.Expr
		if p.match(lexer.ASSIGN) {
			value = p.parseAssignment()
		}
		members = append(members, ast.EnumMember{Name: memberName, Value: value})
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACE)
	return &ast.EnumDecl{Token: tok, Name: name, Members: members, Const: isConst}
}

func (p *Parser) parseNamespaceDecl() ast.Stmt {
	tok := p.advance()
	name := &ast.Ident{Token: p.cur(), Name: p.expect(lexer.IDENT).Literal}
	for p.match(lexer.DOT) {
		name.Name += "." + p.expect(lexer.IDENT).Literal
	}
	block := p.parseBlock()
	return &ast.NamespaceDecl{Token: tok, Name: name, Body: block.Statements}
}

func (p *Parser) parseImportStmt() ast.Stmt {
	tok := p.advance()
	stmt := &ast.ImportStmt{Token: tok}
	if p.match(lexer.TYPE) {
		stmt.TypeOnly = true
	}
	if p.check(lexer.STRING) {
		stmt.Specifier = p.advance().Value.String
		p.match(lexer.SEMICOLON)
		return stmt
	}
	if p.check(lexer.STAR) {
		p.advance()
		p.expect(lexer.AS)
		stmt.Namespace = p.expect(lexer.IDENT).Literal
	} else {
		if p.check(lexer.IDENT) {
			stmt.Default = p.advance().Literal
			p.match(lexer.COMMA)
		}
		if p.match(lexer.LBRACE) {
			for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
				spec := ast.ImportSpecifier{Name: p.advance().Literal}
				if p.match(lexer.AS) {
					spec.Alias = p.advance().Literal
				}
				stmt.Named = append(stmt.Named, spec)
				if !p.match(lexer.COMMA) {
					break
				}
			}
			p.expect(lexer.RBRACE)
		}
	}
	p.expectContextual("from")
	stmt.Specifier = p.expect(lexer.STRING).Value.String
	p.match(lexer.SEMICOLON)
	return stmt
}

func (p *Parser) parseExportStmt() ast.Stmt {
	tok := p.advance()
	stmt := &ast.ExportStmt{Token: tok}
	if p.match(lexer.DEFAULT) {
		stmt.Default = true
		if p.check(lexer.FUNCTION) || p.check(lexer.CLASS) {
			stmt.Decl = p.parseStatement()
		} else {
			stmt.DefaultExpr = p.parseAssignment()
			p.match(lexer.SEMICOLON)
		}
		return stmt
	}
	if p.match(lexer.STAR) {
		if p.match(lexer.AS) {
			p.advance()
		}
		p.expectContextual("from")
		stmt.FromSpec = p.expect(lexer.STRING).Value.String
		p.match(lexer.SEMICOLON)
		return stmt
	}
	if p.match(lexer.LBRACE) {
		for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
			spec := ast.ImportSpecifier{Name: p.advance().Literal}
			if p.match(lexer.AS) {
				spec.Alias = p.advance().Literal
			}
			stmt.Named = append(stmt.Named, spec)
			if !p.match(lexer.COMMA) {
				break
			}
		}
		p.expect(lexer.RBRACE)
		if p.cur().Type == lexer.IDENT && p.cur().Literal == "from" {
			p.advance()
			stmt.FromSpec = p.expect(lexer.STRING).Value.String
		}
		p.match(lexer.SEMICOLON)
		return stmt
	}
	stmt.Decl = p.parseStatement()
	return stmt
}

func (p *Parser) parseIfStmt() ast.Stmt {
	tok := p.advance()
	p.expect(lexer.LPAREN)
	cond := p.parseExpression()
	p.expect(lexer.RPAREN)
	then := p.parseStatement()
	var els ast.Stmt
	if p.match(lexer.ELSE) {
		els = p.parseStatement()
	}
	return &ast.IfStmt{Token: tok, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	tok := p.advance()
	p.expect(lexer.LPAREN)
	cond := p.parseExpression()
	p.expect(lexer.RPAREN)
	body := p.parseStatement()
	return &ast.WhileStmt{Token: tok, Cond: cond, Body: body}
}

func (p *Parser) parseDoWhileStmt() ast.Stmt {
	tok := p.advance()
	body := p.parseStatement()
	p.expect(lexer.WHILE)
	p.expect(lexer.LPAREN)
	cond := p.parseExpression()
	p.expect(lexer.RPAREN)
	p.match(lexer.SEMICOLON)
	return &ast.DoWhileStmt{Token: tok, Body: body, Cond: cond}
}

// parseForStmt disambiguates `for (init; test; step)`, `for (x of iter)`,
// and `for (x in obj)`, lowering the classic C-style form into
// Block{init; While(test){body; step}} as spec.md §4.2 requires, so the
// interpreter only ever has to evaluate while-loops and for-of/for-in.
func (p *Parser) parseForStmt() ast.Stmt {
	tok := p.advance()
	await := false
	if p.cur().Type == lexer.AWAIT {
		p.advance()
		await = true
	}
	p.expect(lexer.LPAREN)

	if p.check(lexer.SEMICOLON) {
		p.advance()
		return p.finishCStyleFor(tok, nil)
	}

	save := p.save()
	mod := ast.ModVar
	hasDecl := false
	if p.check(lexer.VAR) || p.check(lexer.LET) || p.check(lexer.CONST) {
		hasDecl = true
		declTok := p.advance()
		switch declTok.Type {
		case lexer.LET:
			mod = ast.ModLet
		case lexer.CONST:
			mod = ast.ModConst
		}
	}
	pattern := p.parseBindingTarget()

	if p.check(lexer.OF) {
		p.advance()
		iterable := p.parseAssignment()
		p.expect(lexer.RPAREN)
		body := p.parseStatement()
		return &ast.ForOfStmt{Token: tok, Modifier: mod, Pattern: pattern, Iterable: iterable, Body: body, Await: await}
	}
	if p.check(lexer.IN) {
		p.advance()
		object := p.parseAssignment()
		p.expect(lexer.RPAREN)
		body := p.parseStatement()
		return &ast.ForInStmt{Token: tok, Modifier: mod, Pattern: pattern, Object: object, Body: body}
	}

	p.restore(save)
	var init ast.Stmt
	if hasDecl {
		init = p.parseVarStmt()
	} else {
		initTok := p.cur()
		init = &ast.ExprStmt{Token: initTok, Expr: p.parseExpression()}
	}
	p.expect(lexer.SEMICOLON)
	return p.finishCStyleFor(tok, init)
}

func (p *Parser) finishCStyleFor(tok lexer.Token, init ast.Stmt) ast.Stmt {
	var test ast.Expr
	if !p.check(lexer.SEMICOLON) {
		test = p.parseExpression()
	}
	p.expect(lexer.SEMICOLON)
	var step ast.Expr
	if !p.check(lexer.RPAREN) {
		step = p.parseExpression()
	}
	p.expect(lexer.RPAREN)
	body := p.parseStatement()
	return p.lowerForStmt(tok, init, test, step, body)
}

// lowerForStmt performs the desugaring documented on ast.ForStmt: a
// classic for-loop becomes a block containing the init statement
// followed by a while loop whose body re-runs the step after the
// original body on every iteration (including after a `continue`).
func (p *Parser) lowerForStmt(tok lexer.Token, init ast.Stmt, test ast.Expr, step ast.Expr, body ast.Stmt) ast.Stmt {
	whileCond := test
	if whileCond == nil {
		whileCond = &ast.Literal{Token: tok, Value: true}
	}
	whileStmt := &ast.WhileStmt{Token: tok, Cond: whileCond, Body: body, Step: step}
	if init == nil {
		return whileStmt
	}
	return &ast.BlockStmt{Token: tok, Statements: []ast.Stmt{init, whileStmt}}
}

func (p *Parser) parseSwitchStmt() ast.Stmt {
	tok := p.advance()
	p.expect(lexer.LPAREN)
	disc := p.parseExpression()
	p.expect(lexer.RPAREN)
	p.expect(lexer.LBRACE)
	var cases []ast.SwitchCase
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		var c ast.SwitchCase
		if p.match(lexer.CASE) {
			c.Test = p.parseExpression()
		} else {
			p.expect(lexer.DEFAULT)
		}
		p.expect(lexer.COLON)
		for !p.check(lexer.CASE) && !p.check(lexer.DEFAULT) && !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
			if s := p.parseStatement(); s != nil {
				c.Statements = append(c.Statements, s)
			}
		}
		cases = append(cases, c)
	}
	p.expect(lexer.RBRACE)
	return &ast.SwitchStmt{Token: tok, Discriminant: disc, Cases: cases}
}

func (p *Parser) parseTryStmt() ast.Stmt {
	tok := p.advance()
	block := p.parseBlock()
	t := &ast.TryStmt{Token: tok, Block: block}
	if p.match(lexer.CATCH) {
		c := &ast.CatchClause{}
		if p.match(lexer.LPAREN) {
			c.Param = p.parseBindingTarget()
			if p.match(lexer.COLON) {
				c.Type = p.parseType()
			}
			p.expect(lexer.RPAREN)
		}
		c.Body = p.parseBlock()
		t.Catch = c
	}
	if p.match(lexer.FINALLY) {
		t.Finally = p.parseBlock()
	}
	return t
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	tok := p.advance()
	var value ast.Expr
	if !p.check(lexer.SEMICOLON) && !p.check(lexer.RBRACE) && !p.check(lexer.EOF) && !p.cur().Pos.NewlineBefore {
		value = p.parseExpression()
	}
	p.match(lexer.SEMICOLON)
	return &ast.ReturnStmt{Token: tok, Value: value}
}

func (p *Parser) parseBreakStmt() ast.Stmt {
	tok := p.advance()
	label := ""
	if p.check(lexer.IDENT) && !p.cur().Pos.NewlineBefore {
		label = p.advance().Literal
	}
	p.match(lexer.SEMICOLON)
	return &ast.BreakStmt{Token: tok, Label: label}
}

func (p *Parser) parseContinueStmt() ast.Stmt {
	tok := p.advance()
	label := ""
	if p.check(lexer.IDENT) && !p.cur().Pos.NewlineBefore {
		label = p.advance().Literal
	}
	p.match(lexer.SEMICOLON)
	return &ast.ContinueStmt{Token: tok, Label: label}
}

func (p *Parser) parseThrowStmt() ast.Stmt {
	tok := p.advance()
	value := p.parseExpression()
	p.match(lexer.SEMICOLON)
	return &ast.ThrowStmt{Token: tok, Value: value}
}

func (p *Parser) parseLabeledStmt() ast.Stmt {
	tok := p.advance()
	p.expect(lexer.COLON)
	body := p.parseStatement()
	return &ast.LabeledStmt{Token: tok, Label: tok.Literal, Body: body}
}
