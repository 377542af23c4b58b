package ast

import "github.com/lyralang/lyra/internal/token"

// Type is the interface for syntactic type references.
type Type interface {
	Node
	typeNode()
}

// NamedType references a class or type parameter by name, with optional type
// arguments and a nullability marker: List<Int?>, T, String?
type NamedType struct {
	Token    token.Token
	Name     *Identifier
	Args     []Type
	Nullable bool
}

func (nt *NamedType) typeNode()             {}
func (nt *NamedType) TokenLiteral() string  { return nt.Token.Lexeme }
func (nt *NamedType) GetToken() token.Token { return nt.Token }

// FunctionType references a function type: (Int, String) -> Boolean
type FunctionType struct {
	Token    token.Token
	Params   []Type
	Return   Type
	Nullable bool
}

func (ft *FunctionType) typeNode()             {}
func (ft *FunctionType) TokenLiteral() string  { return ft.Token.Lexeme }
func (ft *FunctionType) GetToken() token.Token { return ft.Token }
