package parser

import (
	"github.com/lyralang/lyra/internal/ast"
	"github.com/lyralang/lyra/internal/token"
)

// parseType parses a type reference: Name<Args>?, (P1, P2) -> R, or a
// parenthesized type followed by '?'.
func (p *Parser) parseType() ast.Type {
	if p.curTokenIs(token.LPAREN) {
		return p.parseFunctionOrParenType()
	}
	if !p.curTokenIs(token.IDENT) {
		p.errorAtCur("expected type, got %s", p.curToken.Type)
		return nil
	}
	return p.parseNamedType()
}

func (p *Parser) parseNamedType() *ast.NamedType {
	nt := &ast.NamedType{Token: p.curToken}
	nt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	p.nextToken()

	if p.curTokenIs(token.LT) {
		nt.Args = p.parseTypeArgs()
	}
	if p.curTokenIs(token.QUESTION) {
		nt.Nullable = true
		p.nextToken()
	}
	return nt
}

func (p *Parser) parseTypeArgs() []ast.Type {
	args := []ast.Type{}
	p.nextToken() // <
	for !p.curTokenIs(token.GT) && !p.curTokenIs(token.EOF) {
		arg := p.parseType()
		if arg == nil {
			return args
		}
		args = append(args, arg)
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	if p.curTokenIs(token.GT) {
		p.nextToken()
	}
	return args
}

// parseFunctionOrParenType parses (T1, T2) -> R, or a grouped type like
// ((Int) -> Int)? when no '->' follows the closing parenthesis.
func (p *Parser) parseFunctionOrParenType() ast.Type {
	tok := p.curToken
	p.nextToken() // (

	params := []ast.Type{}
	for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
		t := p.parseType()
		if t == nil {
			return nil
		}
		params = append(params, t)
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	if !p.curTokenIs(token.RPAREN) {
		p.errorAtCur("expected ')' in type")
		return nil
	}
	p.nextToken()

	if !p.curTokenIs(token.ARROW) {
		// Grouping: exactly one inner type, optionally made nullable.
		if len(params) != 1 {
			p.errorAtCur("expected '->' after parenthesized type list")
			return nil
		}
		inner := params[0]
		if p.curTokenIs(token.QUESTION) {
			p.nextToken()
			switch t := inner.(type) {
			case *ast.NamedType:
				t.Nullable = true
			case *ast.FunctionType:
				t.Nullable = true
			}
		}
		return inner
	}

	p.nextToken() // ->
	ret := p.parseType()
	if ret == nil {
		return nil
	}
	ft := &ast.FunctionType{Token: tok, Params: params, Return: ret}
	return ft
}
