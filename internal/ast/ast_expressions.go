package ast

import "github.com/lyralang/lyra/internal/token"

// Identifier represents a simple name reference.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }

// IntegerLiteral represents an integer constant.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()       {}
func (il *IntegerLiteral) TokenLiteral() string  { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token { return il.Token }

// StringLiteral represents a string constant.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }

// BooleanLiteral represents true or false.
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()       {}
func (bl *BooleanLiteral) TokenLiteral() string  { return bl.Token.Lexeme }
func (bl *BooleanLiteral) GetToken() token.Token { return bl.Token }

// NullLiteral represents the null constant.
type NullLiteral struct {
	Token token.Token
}

func (nl *NullLiteral) expressionNode()       {}
func (nl *NullLiteral) TokenLiteral() string  { return nl.Token.Lexeme }
func (nl *NullLiteral) GetToken() token.Token { return nl.Token }

// ThisExpression references the dispatch receiver of the enclosing member.
type ThisExpression struct {
	Token token.Token
}

func (te *ThisExpression) expressionNode()       {}
func (te *ThisExpression) TokenLiteral() string  { return te.Token.Lexeme }
func (te *ThisExpression) GetToken() token.Token { return te.Token }

// MemberExpression represents receiver.member or receiver?.member access.
type MemberExpression struct {
	Token  token.Token // The '.' or '?.' token
	Left   Expression
	Member *Identifier
	Safe   bool // true for ?.
}

func (me *MemberExpression) expressionNode()       {}
func (me *MemberExpression) TokenLiteral() string  { return me.Token.Lexeme }
func (me *MemberExpression) GetToken() token.Token { return me.Token }

// ParenExpression preserves explicit grouping. The resolver needs it to tell
// (f)(1), a call on an arbitrary expression, from f(1), a call on a name.
type ParenExpression struct {
	Token token.Token
	Inner Expression
}

func (pe *ParenExpression) expressionNode()       {}
func (pe *ParenExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *ParenExpression) GetToken() token.Token { return pe.Token }

// Argument is one value argument of a call: positionally passed, named
// (name = expr), or spread (*expr).
type Argument struct {
	Token  token.Token
	Name   *Identifier // nil for positional arguments
	Spread bool
	Value  Expression
}

// CallExpression represents a call. Trailing function literals written after
// the argument list are kept separate from Args so the resolver can retry
// with them stripped.
type CallExpression struct {
	Token            token.Token // The '(' token (or literal's '{' for f { ... })
	Callee           Expression
	TypeArgs         []Type
	Args             []*Argument
	FunctionLiterals []*FunctionLiteral
	Safe             bool // true when the call itself used ?. on its receiver
}

func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }

// ConstructorCallee is the callee of a superclass constructor invocation in a
// class's supertype list: class D : Base(1) { ... }
type ConstructorCallee struct {
	Token   token.Token
	TypeRef Type
}

func (cc *ConstructorCallee) expressionNode()       {}
func (cc *ConstructorCallee) TokenLiteral() string  { return cc.Token.Lexeme }
func (cc *ConstructorCallee) GetToken() token.Token { return cc.Token }

// LambdaParam is one parameter of a function literal; its type may be omitted.
type LambdaParam struct {
	Token token.Token
	Name  *Identifier
	Type  Type // nil when not declared
}

// FunctionLiteral represents { x, y -> body } or { body }.
type FunctionLiteral struct {
	Token  token.Token // The '{' token
	Params []*LambdaParam
	Body   Expression
}

func (fl *FunctionLiteral) expressionNode()       {}
func (fl *FunctionLiteral) TokenLiteral() string  { return fl.Token.Lexeme }
func (fl *FunctionLiteral) GetToken() token.Token { return fl.Token }

// HasDeclaredParameterTypes reports whether every parameter of the literal
// carries an explicit type annotation.
func (fl *FunctionLiteral) HasDeclaredParameterTypes() bool {
	for _, p := range fl.Params {
		if p.Type == nil {
			return false
		}
	}
	return true
}
