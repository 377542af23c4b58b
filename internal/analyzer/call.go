package analyzer

import (
	"context"

	"github.com/lyralang/lyra/internal/ast"
	"github.com/lyralang/lyra/internal/symbols"
	"github.com/lyralang/lyra/internal/typesystem"
)

// CallKind distinguishes resolution entry points. The memo table keys on it
// together with the call node.
type CallKind int

const (
	FunctionCall CallKind = iota
	SuperInitCall
)

// Call is the resolver's view of one call site. Trailing function literals
// are folded into the argument list so that mapping and inference treat them
// like any other positional argument.
type Call struct {
	Expr             *ast.CallExpression
	Callee           ast.Expression
	ExplicitReceiver ast.Expression // left side of a member callee, nil otherwise
	Safe             bool
	TypeArgs         []typesystem.Type
	Args             []*ast.Argument
	Kind             CallKind

	// trailingLiterals counts how many of the last Args were hoisted from
	// trailing literal position.
	trailingLiterals int
}

func newCall(expr *ast.CallExpression, typeArgs []typesystem.Type, kind CallKind) *Call {
	c := &Call{
		Expr:     expr,
		Callee:   expr.Callee,
		Safe:     expr.Safe,
		TypeArgs: typeArgs,
		Kind:     kind,
	}
	if member, ok := expr.Callee.(*ast.MemberExpression); ok {
		c.ExplicitReceiver = member.Left
	}
	c.Args = append(c.Args, expr.Args...)
	for _, lit := range expr.FunctionLiterals {
		c.Args = append(c.Args, &ast.Argument{Value: lit})
		c.trailingLiterals++
	}
	return c
}

// CalleeName returns the simple name the call refers to, or "" when the
// callee is not a name.
func (c *Call) CalleeName() (string, bool) {
	switch callee := c.Callee.(type) {
	case *ast.Identifier:
		return callee.Value, true
	case *ast.MemberExpression:
		return callee.Member.Value, true
	}
	return "", false
}

// HasTrailingLiterals reports whether the call carries trailing function
// literal arguments.
func (c *Call) HasTrailingLiterals() bool { return c.trailingLiterals > 0 }

// WithoutTrailingLiterals returns a copy of the call with the trailing
// literal arguments stripped, for the dangling-literal recovery retry.
func (c *Call) WithoutTrailingLiterals() *Call {
	out := *c
	out.Args = c.Args[:len(c.Args)-c.trailingLiterals]
	out.trailingLiterals = 0
	return &out
}

// resolutionContext carries everything a resolution attempt needs besides
// the call itself.
type resolutionContext struct {
	ctx          context.Context
	trace        Trace
	scope        *symbols.Scope
	facts        *FlowFacts
	expectedType typesystem.Type // nil means no expectation
	// typeParams names the type parameters of the enclosing declarations,
	// valid as type references in this context.
	typeParams map[string]bool
}

func (rc resolutionContext) withTrace(t Trace) resolutionContext {
	rc.trace = t
	return rc
}

func (rc resolutionContext) withExpectedType(t typesystem.Type) resolutionContext {
	rc.expectedType = t
	return rc
}

// cancelled polls for cooperative cancellation.
func (rc resolutionContext) cancelled() error {
	select {
	case <-rc.ctx.Done():
		return rc.ctx.Err()
	default:
		return nil
	}
}
