package parser

import (
	"github.com/lyralang/lyra/internal/ast"
	"github.com/lyralang/lyra/internal/token"
)

// parseExpression parses a primary expression followed by any chain of
// member accesses and call suffixes.
func (p *Parser) parseExpression() ast.Expression {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}
	return p.parsePostfix(expr)
}

func (p *Parser) parsePrimary() ast.Expression {
	switch p.curToken.Type {
	case token.INT:
		return p.parseIntegerLiteral()
	case token.STRING:
		lit := &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Lexeme}
		p.nextToken()
		return lit
	case token.TRUE, token.FALSE:
		lit := &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
		p.nextToken()
		return lit
	case token.NULL:
		lit := &ast.NullLiteral{Token: p.curToken}
		p.nextToken()
		return lit
	case token.THIS:
		expr := &ast.ThisExpression{Token: p.curToken}
		p.nextToken()
		return expr
	case token.IDENT:
		ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
		p.nextToken()
		return ident
	case token.LPAREN:
		tok := p.curToken
		p.nextToken()
		inner := p.parseExpression()
		if inner == nil {
			return nil
		}
		if !p.curTokenIs(token.RPAREN) {
			p.errorAtCur("expected ')'")
			return nil
		}
		p.nextToken()
		return &ast.ParenExpression{Token: tok, Inner: inner}
	case token.LBRACE:
		return p.parseFunctionLiteral()
	default:
		p.errorAtCur("unexpected token %s in expression", p.curToken.Type)
		return nil
	}
}

func (p *Parser) parsePostfix(expr ast.Expression) ast.Expression {
	for {
		switch p.curToken.Type {
		case token.DOT, token.SAFEDOT:
			safe := p.curTokenIs(token.SAFEDOT)
			tok := p.curToken
			p.nextToken()
			if !p.curTokenIs(token.IDENT) {
				p.errorAtCur("expected member name after '%s'", tok.Lexeme)
				return expr
			}
			member := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
			p.nextToken()
			expr = &ast.MemberExpression{Token: tok, Left: expr, Member: member, Safe: safe}

		case token.LT:
			// Type arguments only follow a plain name: f<Int>(x)
			if _, ok := expr.(*ast.Identifier); !ok {
				return expr
			}
			if p.curToken.Line != p.prevLine {
				return expr
			}
			typeArgs := p.parseTypeArgs()
			if !p.curTokenIs(token.LPAREN) {
				p.errorAtCur("expected '(' after type arguments")
				return expr
			}
			expr = p.parseCall(expr, typeArgs)

		case token.LPAREN:
			// A call suffix binds only on the line the expression ended on;
			// a '(' opening the next statement is not an invocation.
			if p.curToken.Line != p.prevLine {
				return expr
			}
			expr = p.parseCall(expr, nil)

		case token.LBRACE:
			// A block binds as a trailing function literal only when it opens
			// on the same line the expression ended on.
			if p.curToken.Line != p.prevLine {
				return expr
			}
			tok := p.curToken
			litExpr := p.parseFunctionLiteral()
			if litExpr == nil {
				return expr
			}
			fl := litExpr.(*ast.FunctionLiteral)
			if call, ok := expr.(*ast.CallExpression); ok {
				// f(x) { ... }: attach the literal to the existing call
				call.FunctionLiterals = append(call.FunctionLiterals, fl)
				expr = call
			} else {
				// f { ... }: a call with no parenthesized arguments
				call := &ast.CallExpression{Token: tok, Callee: expr}
				call.FunctionLiterals = append(call.FunctionLiterals, fl)
				expr = markSafeFromCallee(call)
			}

		default:
			return expr
		}
	}
}

func (p *Parser) parseCall(callee ast.Expression, typeArgs []ast.Type) ast.Expression {
	call := &ast.CallExpression{Token: p.curToken, Callee: callee, TypeArgs: typeArgs}
	call.Args = p.parseCallArguments()
	return markSafeFromCallee(call)
}

// markSafeFromCallee lifts a safe member access into the call's safe flag:
// a?.f(1) is a safe call of f with receiver a.
func markSafeFromCallee(call *ast.CallExpression) ast.Expression {
	if member, ok := call.Callee.(*ast.MemberExpression); ok && member.Safe {
		call.Safe = true
	}
	return call
}

// parseCallArguments parses (arg, name = arg, *spread).
func (p *Parser) parseCallArguments() []*ast.Argument {
	args := []*ast.Argument{}
	p.nextToken() // (
	for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
		arg := &ast.Argument{Token: p.curToken}
		if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.ASSIGN) {
			arg.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
			p.nextToken()
			p.nextToken()
		}
		if p.curTokenIs(token.ASTERISK) {
			arg.Spread = true
			p.nextToken()
		}
		arg.Value = p.parseExpression()
		if arg.Value == nil {
			return args
		}
		args = append(args, arg)
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	if p.curTokenIs(token.RPAREN) {
		p.nextToken()
	}
	return args
}

// parseFunctionLiteral parses { x: T, y -> body } or { body }.
func (p *Parser) parseFunctionLiteral() ast.Expression {
	lit := &ast.FunctionLiteral{Token: p.curToken}
	p.nextToken() // {

	// Detect a parameter list by scanning for IDENT [: Type] {, IDENT ...} ->
	if p.curTokenIs(token.IDENT) && (p.peekTokenIs(token.ARROW) || p.peekTokenIs(token.COMMA) || p.peekTokenIs(token.COLON)) {
		for {
			if !p.curTokenIs(token.IDENT) {
				p.errorAtCur("expected parameter name in function literal")
				return nil
			}
			param := &ast.LambdaParam{Token: p.curToken, Name: &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}}
			p.nextToken()
			if p.curTokenIs(token.COLON) {
				p.nextToken()
				param.Type = p.parseType()
			}
			lit.Params = append(lit.Params, param)
			if p.curTokenIs(token.COMMA) {
				p.nextToken()
				continue
			}
			break
		}
		if !p.curTokenIs(token.ARROW) {
			p.errorAtCur("expected '->' after function literal parameters")
			return nil
		}
		p.nextToken()
	}

	lit.Body = p.parseExpression()
	if lit.Body == nil {
		return nil
	}
	if !p.curTokenIs(token.RBRACE) {
		p.errorAtCur("expected '}' closing function literal")
		return nil
	}
	p.nextToken()
	return lit
}
