package parser

import (
	"strconv"

	"github.com/lyralang/lyra/internal/ast"
	"github.com/lyralang/lyra/internal/diagnostics"
	"github.com/lyralang/lyra/internal/lexer"
	"github.com/lyralang/lyra/internal/token"
)

type Parser struct {
	l    *lexer.Lexer
	file string

	curToken  token.Token
	peekToken token.Token
	prevLine  int // line of the last consumed token, for trailing-literal binding

	diags []diagnostics.Diagnostic
}

func New(l *lexer.Lexer, file string) *Parser {
	p := &Parser{l: l, file: file}
	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	return p
}

// Diagnostics returns the parse errors collected so far.
func (p *Parser) Diagnostics() []diagnostics.Diagnostic { return p.diags }

func (p *Parser) nextToken() {
	p.prevLine = p.curToken.Line
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf("expected %s, got %s", t, p.peekToken.Type)
	return false
}

func (p *Parser) span(tok token.Token) diagnostics.Span {
	return diagnostics.Span{Filename: p.file, Line: tok.Line, Column: tok.Column}
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.diags = append(p.diags, diagnostics.Errorf(diagnostics.CodeParseError, p.span(p.peekToken), format, args...))
}

func (p *Parser) errorAtCur(format string, args ...interface{}) {
	p.diags = append(p.diags, diagnostics.Errorf(diagnostics.CodeParseError, p.span(p.curToken), format, args...))
}

// ParseProgram parses the whole input.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{File: p.file}
	for !p.curTokenIs(token.EOF) {
		before := p.curToken
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		// Guard against a stuck parse on malformed input.
		if p.curToken == before && stmt == nil {
			p.nextToken()
		}
	}
	return program
}

func (p *Parser) parseStatement() ast.Statement {
	private := false
	abstract := false
	open := false
	override := false

	for {
		switch p.curToken.Type {
		case token.PRIVATE:
			private = true
			p.nextToken()
			continue
		case token.ABSTRACT:
			abstract = true
			p.nextToken()
			continue
		case token.OPEN:
			open = true
			p.nextToken()
			continue
		case token.OVERRIDE:
			override = true
			p.nextToken()
			continue
		}
		break
	}

	switch p.curToken.Type {
	case token.FUN:
		return p.parseFunctionDeclaration(private, override)
	case token.CLASS:
		return p.parseClassDeclaration(private, abstract, open)
	case token.VAL:
		return p.parseValDeclaration(private)
	default:
		if private || abstract || open || override {
			p.errorAtCur("modifier must be followed by a declaration")
			return nil
		}
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression()
	if stmt.Expression == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}
	value, err := strconv.ParseInt(p.curToken.Lexeme, 10, 64)
	if err != nil {
		p.errorAtCur("could not parse %q as integer", p.curToken.Lexeme)
		return nil
	}
	lit.Value = value
	p.nextToken()
	return lit
}
