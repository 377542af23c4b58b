package ast

import "github.com/lyralang/lyra/internal/token"

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node of every AST our parser produces.
type Program struct {
	File       string // Source file path
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) GetToken() token.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].GetToken()
	}
	return token.Token{}
}

// TypeParam represents a declared type parameter with an optional variance
// marker and upper bounds.
// fun <T : Base> f(...) / class Box<out T>
type TypeParam struct {
	Token       token.Token // The identifier token
	Name        *Identifier
	Variance    string // "in", "out" or ""
	UpperBounds []Type
}

// Param represents a declared value parameter.
// x: Int / vararg xs: Int / x: Int = 0 / val x: Int (constructor property)
type Param struct {
	Token   token.Token
	Name    *Identifier
	Type    Type
	Vararg  bool
	Default Expression // nil when the parameter has no default
	IsVal   bool       // constructor parameter doubling as a property
}

// FunctionDeclaration represents a named function, possibly an extension.
// private fun <T> Receiver.name(params): Return = body
type FunctionDeclaration struct {
	Token      token.Token // The 'fun' token
	Name       *Identifier
	TypeParams []*TypeParam
	Receiver   Type // Extension receiver type, nil for plain functions
	Params     []*Param
	ReturnType Type       // nil when inferred from the body
	Body       Expression // nil for abstract members
	Private    bool
	Override   bool
}

func (fd *FunctionDeclaration) statementNode()        {}
func (fd *FunctionDeclaration) TokenLiteral() string  { return fd.Token.Lexeme }
func (fd *FunctionDeclaration) GetToken() token.Token { return fd.Token }

// ClassDeclaration represents a class with a primary constructor.
// abstract class Name<T>(val x: Int) : Super(args) { members }
type ClassDeclaration struct {
	Token      token.Token // The 'class' token
	Name       *Identifier
	TypeParams []*TypeParam
	CtorParams []*Param
	Supertypes []*SupertypeEntry
	Members    []*FunctionDeclaration
	Abstract   bool
	Open       bool
	Private    bool
}

func (cd *ClassDeclaration) statementNode()        {}
func (cd *ClassDeclaration) TokenLiteral() string  { return cd.Token.Lexeme }
func (cd *ClassDeclaration) GetToken() token.Token { return cd.Token }

// SupertypeEntry is one entry of a class's supertype list. When Call is
// non-nil the entry invokes a superclass constructor and its callee is a
// constructor-callee expression.
type SupertypeEntry struct {
	Type Type
	Call *CallExpression // nil for interface-style supertypes
}

// ValDeclaration represents a top-level or local value binding.
// val x: Int = 1
type ValDeclaration struct {
	Token          token.Token // The 'val' token
	Name           *Identifier
	TypeAnnotation Type // Optional
	Value          Expression
	Private        bool
}

func (vd *ValDeclaration) statementNode()        {}
func (vd *ValDeclaration) TokenLiteral() string  { return vd.Token.Lexeme }
func (vd *ValDeclaration) GetToken() token.Token { return vd.Token }

// ExpressionStatement wraps an expression appearing in statement position.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }
