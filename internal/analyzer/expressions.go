package analyzer

import (
	"github.com/lyralang/lyra/internal/ast"
	"github.com/lyralang/lyra/internal/diagnostics"
	"github.com/lyralang/lyra/internal/symbols"
	"github.com/lyralang/lyra/internal/typesystem"
)

// typeExpression computes and records the type of an expression. The
// expected type is a hint, not a check: literals shape themselves after it
// and calls use it for phase-two inference, but mismatches are reported by
// the caller that knows why it expected something.
func (e *Engine) typeExpression(rctx resolutionContext, expr ast.Expression, expected typesystem.Type) typesystem.Type {
	if t, ok := rctx.trace.TypeOf(expr); ok {
		return t
	}

	var t typesystem.Type
	switch node := expr.(type) {
	case *ast.IntegerLiteral:
		t = typesystem.IntType()
	case *ast.StringLiteral:
		t = typesystem.StringType()
	case *ast.BooleanLiteral:
		t = typesystem.BooleanType()
	case *ast.NullLiteral:
		t = typesystem.NullType()
	case *ast.ParenExpression:
		t = e.typeExpression(rctx, node.Inner, expected)
	case *ast.ThisExpression:
		t = e.typeThis(rctx, node)
	case *ast.Identifier:
		t = e.typeIdentifier(rctx, node)
	case *ast.MemberExpression:
		t = e.typeMemberAccess(rctx, node)
	case *ast.FunctionLiteral:
		t = e.typeFunctionLiteral(rctx, node, expected)
	case *ast.CallExpression:
		if _, err := e.resolveCall(rctx.withExpectedType(expected), node, FunctionCall); err != nil {
			return typesystem.ErrorType()
		}
		if rt, ok := rctx.trace.TypeOf(node); ok {
			return rt
		}
		t = typesystem.ErrorType()
	default:
		t = typesystem.ErrorType()
	}

	rctx.trace.RecordType(expr, t)
	return t
}

func (e *Engine) typeThis(rctx resolutionContext, node *ast.ThisExpression) typesystem.Type {
	receivers := rctx.scope.ImplicitReceivers()
	if len(receivers) == 0 {
		rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeUnresolvedReference, e.spanOf(node.GetToken()),
			"this is not defined outside of a class body"))
		return typesystem.ErrorType()
	}
	return receivers[0]
}

// typeIdentifier resolves a name used as a value: local declarations first,
// then properties of implicit receivers, then top-level properties.
// Flow facts narrow the result.
func (e *Engine) typeIdentifier(rctx resolutionContext, node *ast.Identifier) typesystem.Type {
	name := node.Value

	resolve := func(c *symbols.Callable) typesystem.Type {
		if !rctx.scope.IsVisible(c) {
			rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeInvisibleMember, e.spanOf(node.GetToken()),
				"cannot access %s, it is private in %s", c, c.OwnerClass))
		}
		if c.Return == nil {
			return typesystem.ErrorType()
		}
		return rctx.facts.Narrow(name, c.Return)
	}

	for _, local := range rctx.scope.LookupLocals(name) {
		if local.Kind == symbols.KindPropertyAsVariable {
			return resolve(local)
		}
	}
	for _, recv := range rctx.scope.ImplicitReceivers() {
		for _, cand := range e.memberCandidates(recv, name, false) {
			if cand.callable.Kind == symbols.KindPropertyAsVariable {
				return resolve(cand.callable)
			}
		}
	}
	for _, top := range e.table.TopLevel(name) {
		if top.Kind == symbols.KindPropertyAsVariable {
			return resolve(top)
		}
	}

	rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeUnresolvedReference, e.spanOf(node.GetToken()),
		"unresolved reference: %s", name))
	return typesystem.ErrorType()
}

// typeMemberAccess types receiver.member and receiver?.member in value
// position: the member must be a property of the receiver's class.
func (e *Engine) typeMemberAccess(rctx resolutionContext, node *ast.MemberExpression) typesystem.Type {
	receiverType := e.typeExpression(rctx, node.Left, nil)
	if typesystem.IsErrorType(receiverType) {
		return typesystem.ErrorType()
	}

	var property *symbols.Callable
	for _, cand := range e.memberCandidates(receiverType, node.Member.Value, true) {
		if cand.callable.Kind == symbols.KindPropertyAsVariable {
			property = cand.callable
			break
		}
	}
	if property == nil {
		rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeUnresolvedReference, e.spanOf(node.Member.GetToken()),
			"unresolved reference: %s", node.Member.Value))
		return typesystem.ErrorType()
	}
	if !rctx.scope.IsVisible(property) {
		rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeInvisibleMember, e.spanOf(node.Member.GetToken()),
			"cannot access %s, it is private in %s", property, property.OwnerClass))
	}

	if receiverType.IsNullable() && !node.Safe {
		rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeUnsafeCall, e.spanOf(node.Left.GetToken()),
			"only safe access is allowed on a nullable receiver of type %s", receiverType))
	}
	if node.Safe && !receiverType.IsNullable() && e.cfg.WarnUnnecessarySafeCall() {
		rctx.trace.Report(diagnostics.Warningf(diagnostics.CodeUnnecessarySafeCall, e.spanOf(node.Left.GetToken()),
			"unnecessary safe call on a non-null receiver of type %s", receiverType))
	}

	result := property.Return
	if node.Safe && receiverType.IsNullable() && result != nil {
		result = typesystem.MakeNullable(result)
	}
	if result == nil {
		result = typesystem.ErrorType()
	}
	return result
}

// typeFunctionLiteral types { params -> body }. Parameter types come from
// annotations or from the expected function type; placeholders flow into the
// body and make its type a placeholder too, which is how a literal stays
// deferred while inference is still deciding.
func (e *Engine) typeFunctionLiteral(rctx resolutionContext, lit *ast.FunctionLiteral, expected typesystem.Type) typesystem.Type {
	var expectedFn typesystem.TFunc
	haveExpected := false
	if expected != nil {
		if fn, ok := typesystem.MakeNotNullable(expected).(typesystem.TFunc); ok && len(fn.Params) == len(lit.Params) {
			expectedFn = fn
			haveExpected = true
		}
	}

	child := rctx.scope.Child()
	params := make([]typesystem.Type, len(lit.Params))
	for i, p := range lit.Params {
		switch {
		case p.Type != nil:
			params[i] = e.resolveTypeRef(rctx, p.Type)
		case haveExpected:
			params[i] = expectedFn.Params[i]
		default:
			rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeTypeInferenceFailed, e.spanOf(p.Name.GetToken()),
				"cannot infer the type of parameter %s", p.Name.Value))
			params[i] = typesystem.ErrorType()
		}
		child.Declare(&symbols.Callable{
			Kind:   symbols.KindPropertyAsVariable,
			Name:   p.Name.Value,
			Return: params[i],
		})
	}

	bodyCtx := rctx
	bodyCtx.scope = child

	var bodyExpected typesystem.Type
	if haveExpected {
		bodyExpected = expectedFn.Return
	}
	bodyType := e.typeExpression(bodyCtx, lit.Body, bodyExpected)

	return typesystem.TFunc{Params: params, Return: bodyType}
}
