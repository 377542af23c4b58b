package parser

import (
	"github.com/lyralang/lyra/internal/ast"
	"github.com/lyralang/lyra/internal/token"
)

// parseFunctionDeclaration parses
//
//	fun <T : Bound> Receiver.name(params): Return = body
//
// with every section after the name optional.
func (p *Parser) parseFunctionDeclaration(private, override bool) ast.Statement {
	decl := &ast.FunctionDeclaration{Token: p.curToken, Private: private, Override: override}
	p.nextToken() // fun

	if p.curTokenIs(token.LT) {
		decl.TypeParams = p.parseTypeParams()
	}

	if !p.curTokenIs(token.IDENT) {
		p.errorAtCur("expected function name or receiver type, got %s", p.curToken.Type)
		return nil
	}

	// The name and an extension receiver both start with an identifier; parse
	// a type reference first and reinterpret it as the name when no '.' follows.
	ref := p.parseNamedType()
	if ref == nil {
		return nil
	}
	if p.curTokenIs(token.DOT) {
		decl.Receiver = ref
		p.nextToken() // .
		if !p.curTokenIs(token.IDENT) {
			p.errorAtCur("expected function name after receiver type")
			return nil
		}
		decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
		p.nextToken()
	} else {
		named := ref
		if len(named.Args) > 0 || named.Nullable {
			p.errorAtCur("expected '.' after receiver type")
			return nil
		}
		decl.Name = named.Name
	}

	if !p.curTokenIs(token.LPAREN) {
		p.errorAtCur("expected '(' after function name")
		return nil
	}
	decl.Params = p.parseParams(false)

	if p.curTokenIs(token.COLON) {
		p.nextToken()
		decl.ReturnType = p.parseType()
	}

	if p.curTokenIs(token.ASSIGN) {
		p.nextToken()
		decl.Body = p.parseExpression()
	}
	return decl
}

// parseClassDeclaration parses
//
//	class Name<T>(val x: Int) : Super(args), Other { members }
func (p *Parser) parseClassDeclaration(private, abstract, open bool) ast.Statement {
	decl := &ast.ClassDeclaration{Token: p.curToken, Private: private, Abstract: abstract, Open: open}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	p.nextToken()

	if p.curTokenIs(token.LT) {
		decl.TypeParams = p.parseTypeParams()
	}
	if p.curTokenIs(token.LPAREN) {
		decl.CtorParams = p.parseParams(true)
	}
	if p.curTokenIs(token.COLON) {
		p.nextToken()
		for {
			entry := p.parseSupertypeEntry()
			if entry == nil {
				return nil
			}
			decl.Supertypes = append(decl.Supertypes, entry)
			if !p.curTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
	}
	if p.curTokenIs(token.LBRACE) {
		p.nextToken()
		for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
			member := p.parseMember()
			if member == nil {
				return nil
			}
			decl.Members = append(decl.Members, member)
		}
		if !p.curTokenIs(token.RBRACE) {
			p.errorAtCur("expected '}' closing class body")
			return nil
		}
		p.nextToken()
	}
	return decl
}

func (p *Parser) parseMember() *ast.FunctionDeclaration {
	private := false
	override := false
	for {
		if p.curTokenIs(token.PRIVATE) {
			private = true
			p.nextToken()
			continue
		}
		if p.curTokenIs(token.OVERRIDE) {
			override = true
			p.nextToken()
			continue
		}
		break
	}
	if !p.curTokenIs(token.FUN) {
		p.errorAtCur("expected member function, got %s", p.curToken.Type)
		return nil
	}
	stmt := p.parseFunctionDeclaration(private, override)
	decl, ok := stmt.(*ast.FunctionDeclaration)
	if !ok {
		return nil
	}
	return decl
}

// parseSupertypeEntry parses one supertype, optionally with a superclass
// constructor invocation.
func (p *Parser) parseSupertypeEntry() *ast.SupertypeEntry {
	if !p.curTokenIs(token.IDENT) {
		p.errorAtCur("expected supertype name")
		return nil
	}
	tok := p.curToken
	typ := p.parseNamedType()
	if typ == nil {
		return nil
	}
	entry := &ast.SupertypeEntry{Type: typ}
	if p.curTokenIs(token.LPAREN) {
		call := &ast.CallExpression{
			Token:  p.curToken,
			Callee: &ast.ConstructorCallee{Token: tok, TypeRef: typ},
		}
		call.Args = p.parseCallArguments()
		entry.Call = call
	}
	return entry
}

func (p *Parser) parseValDeclaration(private bool) ast.Statement {
	decl := &ast.ValDeclaration{Token: p.curToken, Private: private}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	p.nextToken()

	if p.curTokenIs(token.COLON) {
		p.nextToken()
		decl.TypeAnnotation = p.parseType()
	}
	if !p.curTokenIs(token.ASSIGN) {
		p.errorAtCur("expected '=' in val declaration")
		return nil
	}
	p.nextToken()
	decl.Value = p.parseExpression()
	return decl
}

// parseParams parses a parenthesized parameter list. Constructor parameters
// may carry a 'val' marker turning them into properties.
func (p *Parser) parseParams(allowVal bool) []*ast.Param {
	params := []*ast.Param{}
	p.nextToken() // (
	for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
		param := &ast.Param{Token: p.curToken}
		if p.curTokenIs(token.VARARG) {
			param.Vararg = true
			p.nextToken()
		}
		if allowVal && p.curTokenIs(token.VAL) {
			param.IsVal = true
			p.nextToken()
		}
		if !p.curTokenIs(token.IDENT) {
			p.errorAtCur("expected parameter name, got %s", p.curToken.Type)
			return params
		}
		param.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
		p.nextToken()
		if !p.curTokenIs(token.COLON) {
			p.errorAtCur("expected ':' after parameter name")
			return params
		}
		p.nextToken()
		param.Type = p.parseType()
		if p.curTokenIs(token.ASSIGN) {
			p.nextToken()
			param.Default = p.parseExpression()
		}
		params = append(params, param)
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	if p.curTokenIs(token.RPAREN) {
		p.nextToken()
	}
	return params
}

// parseTypeParams parses <in T : Bound, out U>.
func (p *Parser) parseTypeParams() []*ast.TypeParam {
	params := []*ast.TypeParam{}
	p.nextToken() // <
	for !p.curTokenIs(token.GT) && !p.curTokenIs(token.EOF) {
		tp := &ast.TypeParam{Token: p.curToken}
		if p.curTokenIs(token.IN) {
			tp.Variance = "in"
			p.nextToken()
		} else if p.curTokenIs(token.OUT) {
			tp.Variance = "out"
			p.nextToken()
		}
		if !p.curTokenIs(token.IDENT) {
			p.errorAtCur("expected type parameter name")
			return params
		}
		tp.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
		p.nextToken()
		if p.curTokenIs(token.COLON) {
			p.nextToken()
			bound := p.parseType()
			if bound != nil {
				tp.UpperBounds = append(tp.UpperBounds, bound)
			}
		}
		params = append(params, tp)
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	if p.curTokenIs(token.GT) {
		p.nextToken()
	}
	return params
}
