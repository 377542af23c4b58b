package analyzer

import (
	"github.com/lyralang/lyra/internal/ast"
	"github.com/lyralang/lyra/internal/diagnostics"
	"github.com/lyralang/lyra/internal/symbols"
	"github.com/lyralang/lyra/internal/typesystem"
)

// checkCandidate runs every applicability check for one candidate against a
// temporary overlay trace: visibility, argument mapping, receiver matching
// and either direct type checking or type argument inference. The returned
// status decides whether the candidate survives.
func (e *Engine) checkCandidate(rctx resolutionContext, call *Call, cand *candidate) *ResolvedCall {
	callable := cand.callable
	rc := &ResolvedCall{
		Candidate:        callable,
		Resulting:        callable,
		ReceiverArgument: cand.receiverType,
		SafeCall:         call.Safe,
		Status:           Success,
	}
	combine := func(s Status) { rc.Status = rc.Status.Combine(s) }

	if !rctx.scope.IsVisible(callable) {
		rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeInvisibleMember, e.spanOf(call.Expr.GetToken()),
			"cannot access %s, it is private in %s", callable, callable.OwnerClass))
		combine(OtherError)
	}

	if callable.Kind == symbols.KindPropertyAsVariable {
		invokable, ok := callable.AsInvokable()
		if !ok {
			rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeCalleeNotAFunction, e.spanOf(call.Callee.GetToken()),
				"%s of type %s cannot be invoked as a function", callable, callable.Return))
			rc.Status = StrongError
			e.typeRemainingArguments(rctx, call, nil)
			return rc
		}
		callable = invokable
		rc.Resulting = invokable
	}

	if callable.Kind == symbols.KindConstructor && call.Kind == FunctionCall {
		if info, ok := e.registry.Lookup(callable.OwnerClass); ok && info.Abstract {
			rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeAbstractClassInstantiated, e.spanOf(call.Expr.GetToken()),
				"cannot instantiate abstract class %s", callable.OwnerClass))
			combine(OtherError)
		}
	}

	mapping := e.mapArguments(call, callable, rctx.trace)
	combine(mapping.status)
	rc.ArgumentToParam = mapping.argToParam
	rc.Defaulted = mapping.defaulted
	if rc.Status == StrongError {
		e.typeRemainingArguments(rctx, call, nil)
		return rc
	}

	switch {
	case callable.IsGeneric() && len(call.TypeArgs) > 0:
		combine(e.checkExplicitTypeArguments(rctx, call, cand, callable, mapping, rc))
	case callable.IsGeneric():
		combine(e.inferTypeArguments(rctx, call, cand, callable, mapping, rc))
	default:
		combine(e.checkReceiver(rctx, call, cand, receiverRequirement(callable)))
		combine(e.checkArguments(rctx, call, mapping, typesystem.Subst{}))
	}
	return rc
}

// receiverRequirement is the type the candidate demands of its receiver: the
// extension receiver when declared, otherwise the dispatch receiver.
func receiverRequirement(c *symbols.Callable) typesystem.Type {
	if c.Receiver != nil {
		return c.Receiver
	}
	return c.This
}

func (e *Engine) receiverSpan(call *Call) diagnostics.Span {
	if call.ExplicitReceiver != nil {
		return e.spanOf(call.ExplicitReceiver.GetToken())
	}
	return e.spanOf(call.Expr.GetToken())
}

// checkReceiver matches the receiver value against the candidate's
// requirement for non-generic candidates.
func (e *Engine) checkReceiver(rctx resolutionContext, call *Call, cand *candidate, required typesystem.Type) Status {
	if required == nil {
		return Success
	}
	if cand.receiverType == nil {
		rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeWrongReceiverType, e.spanOf(call.Expr.GetToken()),
			"%s requires a receiver of type %s", cand.callable, required))
		return ReceiverPresenceError
	}
	st := e.checkReceiverNullability(rctx, call, cand, required)
	actual := typesystem.MakeNotNullable(cand.receiverType)
	if !e.checker.IsSubtypeOf(actual, typesystem.MakeNotNullable(required)) {
		rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeWrongReceiverType, e.receiverSpan(call),
			"receiver type %s does not match required type %s", cand.receiverType, required))
		st = st.Combine(ReceiverTypeError)
	}
	return st
}

// checkReceiverNullability reports the unsafe-call error and the
// unnecessary-safe-call warning. An unsafe call still resolves; the error
// rides along on the winning candidate's trace.
func (e *Engine) checkReceiverNullability(rctx resolutionContext, call *Call, cand *candidate, required typesystem.Type) Status {
	if required == nil || cand.receiverType == nil {
		return Success
	}
	if cand.receiverType.IsNullable() && !required.IsNullable() && !call.Safe {
		rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeUnsafeCall, e.receiverSpan(call),
			"only safe calls are allowed on a nullable receiver of type %s", cand.receiverType))
	}
	if call.Safe && cand.explicitReceiver && !cand.receiverType.IsNullable() && e.cfg.WarnUnnecessarySafeCall() {
		rctx.trace.Report(diagnostics.Warningf(diagnostics.CodeUnnecessarySafeCall, e.receiverSpan(call),
			"unnecessary safe call on a non-null receiver of type %s", cand.receiverType))
	}
	return Success
}

// paramExpected is the type an argument must satisfy for its parameter: the
// element type for a plain argument to a vararg, the full vararg carrier
// type for a spread.
func paramExpected(param *symbols.ValueParam, arg *ast.Argument) typesystem.Type {
	if param.VarargElement != nil && !arg.Spread {
		return param.VarargElement
	}
	return param.Type
}

// checkArguments types each mapped argument against its parameter under the
// given substitution. Unmapped arguments are still typed, with no
// expectation, so every subtree ends up typed.
func (e *Engine) checkArguments(rctx resolutionContext, call *Call, mapping *argumentMapping, subst typesystem.Subst) Status {
	st := Success
	for _, arg := range call.Args {
		param := mapping.argToParam[arg]
		if param == nil {
			e.typeExpression(rctx, arg.Value, nil)
			continue
		}
		expected := paramExpected(param, arg).Apply(subst)
		argType := e.typeExpression(rctx, arg.Value, expected)
		if !e.checker.IsSubtypeOf(argType, expected) {
			rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeTypeMismatch, e.spanOf(arg.Value.GetToken()),
				"argument type %s is not assignable to parameter %q of type %s", argType, param.Name, expected))
			st = st.Combine(ArgumentTypeError)
		}
	}
	return st
}

// checkExplicitTypeArguments substitutes explicitly written type arguments,
// verifies their count and upper bounds, then checks the call like a
// non-generic one.
func (e *Engine) checkExplicitTypeArguments(rctx resolutionContext, call *Call, cand *candidate, callable *symbols.Callable, mapping *argumentMapping, rc *ResolvedCall) Status {
	if len(call.TypeArgs) != len(callable.TypeParams) {
		rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeWrongTypeArgumentCount, e.spanOf(call.Expr.GetToken()),
			"%d type arguments expected for %s, got %d", len(callable.TypeParams), callable, len(call.TypeArgs)))
		e.typeRemainingArguments(rctx, call, nil)
		return OtherError
	}

	subst := make(typesystem.Subst, len(callable.TypeParams))
	for i, tp := range callable.TypeParams {
		subst[tp.Name] = call.TypeArgs[i]
	}

	st := Success
	for i, tp := range callable.TypeParams {
		for _, bound := range tp.UpperBounds {
			applied := bound.Apply(subst)
			if !e.checker.IsSubtypeOf(call.TypeArgs[i], applied) {
				rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeUpperBoundViolated, e.spanOf(call.Expr.GetToken()),
					"type argument %s is not a subtype of the bound %s of %s", call.TypeArgs[i], applied, tp.Name))
				st = st.Combine(OtherError)
			}
		}
	}

	rc.TypeArguments = subst
	rc.Resulting = callable.Substitute(subst)
	st = st.Combine(e.checkReceiver(rctx, call, cand, receiverRequirement(rc.Resulting)))
	return st.Combine(e.checkArguments(rctx, call, mapping, subst))
}

// inferTypeArguments runs two-phase inference. Phase one constrains the
// system from the receiver and the value arguments, deferring function
// literals without declared parameter types behind placeholders. Phase two
// forks the system and adds the expected return type; if that fork
// contradicts while phase one solves, the phase-one solution wins and the
// candidate is marked with a type inference error.
func (e *Engine) inferTypeArguments(rctx resolutionContext, call *Call, cand *candidate, callable *symbols.Callable, mapping *argumentMapping, rc *ResolvedCall) Status {
	fresh, rename := callable.FreshTypeParameters(e.freshName)
	cs := NewConstraintSystem(e.checker)
	cs.RegisterCallable(fresh)

	st := Success
	required := receiverRequirement(fresh)
	if required != nil && cand.receiverType == nil {
		rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeWrongReceiverType, e.spanOf(call.Expr.GetToken()),
			"%s requires a receiver of type %s", cand.callable, required))
		st = ReceiverPresenceError
	}
	st = st.Combine(e.checkReceiverNullability(rctx, call, cand, required))
	if required != nil && cand.receiverType != nil {
		cs.AddSubtypeConstraint(typesystem.MakeNotNullable(cand.receiverType),
			typesystem.MakeNotNullable(required), ReceiverPosition(e.receiverSpan(call)))
	}

	// Every fresh variable maps to the placeholder while the system is still
	// unsolved; expectation hints handed to the typer must be ground.
	allPlaceholders := make(typesystem.Subst, len(fresh.TypeParams))
	for _, tp := range fresh.TypeParams {
		allPlaceholders[tp.Name] = typesystem.DontCareType()
	}

	type deferredLiteral struct {
		arg      *ast.Argument
		lit      *ast.FunctionLiteral
		expected typesystem.Type
	}
	var deferred []deferredLiteral

	for _, arg := range call.Args {
		param := mapping.argToParam[arg]
		if param == nil {
			e.typeExpression(rctx, arg.Value, nil)
			continue
		}
		expected := paramExpected(param, arg).Apply(rename)
		if lit, ok := arg.Value.(*ast.FunctionLiteral); ok && !lit.HasDeclaredParameterTypes() {
			deferred = append(deferred, deferredLiteral{arg: arg, lit: lit, expected: expected})
			continue
		}
		hint := expected.Apply(allPlaceholders)
		argType := e.typeExpression(rctx, arg.Value, hint)
		cs.AddSubtypeConstraint(argType, expected, ParameterPosition(param.Name, e.spanOf(arg.Value.GetToken())))
	}

	chosen := cs
	if rctx.expectedType != nil && !typesystem.IsErrorType(rctx.expectedType) {
		full := cs.Copy()
		full.AddSubtypeConstraint(fresh.Return, rctx.expectedType, ExpectedReturnPosition(e.spanOf(call.Expr.GetToken())))
		full.Solve()
		if full.IsSolved() {
			chosen = full
		} else {
			cs.Solve()
			if cs.IsSolved() {
				// Fall back to the phase-one solution and flag the call.
				chosen = cs
				rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeTypeInferenceFailed, e.spanOf(call.Expr.GetToken()),
					"inferred return type %s does not satisfy the expected type %s",
					fresh.Return.Apply(cs.SubstitutionWithPlaceholders()), rctx.expectedType))
				st = st.Combine(TypeInferenceError)
			} else {
				chosen = full
			}
		}
	} else {
		cs.Solve()
	}

	// Deferred literals are typed against the partially solved system, and
	// their types feed back in so a literal body can decide a variable.
	if len(deferred) > 0 {
		litSubst := chosen.SubstitutionWithPlaceholders()
		extended := chosen.Copy()
		for _, d := range deferred {
			hint := d.expected.Apply(litSubst)
			litType := e.typeExpression(rctx, d.lit, hint)
			extended.AddSubtypeConstraint(litType, d.expected,
				ParameterPosition(mapping.argToParam[d.arg].Name, e.spanOf(d.lit.GetToken())))
		}
		extended.Solve()
		chosen = extended
	}

	for _, ce := range chosen.Errors() {
		st = st.Combine(e.reportConstraintError(rctx, call, ce))
	}
	if !chosen.HasContradiction() && !chosen.IsSolved() {
		st = st.Combine(IncompleteTypeInference)
	}

	solution := chosen.Substitution()
	rc.TypeArguments = declaredTypeArguments(rename, solution)
	rc.Resulting = fresh.Substitute(solution)
	return st
}

func (e *Engine) reportConstraintError(rctx resolutionContext, call *Call, ce ConstraintError) Status {
	span := ce.Position.Span
	if span == (diagnostics.Span{}) {
		span = e.spanOf(call.Expr.GetToken())
	}
	switch ce.Position.Kind {
	case "receiver":
		rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeWrongReceiverType, span,
			"receiver type %s does not match required type %s", ce.Sub, ce.Super))
		return ReceiverTypeError
	case "expected return":
		rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeTypeInferenceFailed, span,
			"return type %s does not satisfy the expected type %s", ce.Sub, ce.Super))
		return TypeInferenceError
	case "upper bound":
		rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeUpperBoundViolated, span,
			"inferred type %s violates the upper bound %s", ce.Sub, ce.Super))
		return TypeInferenceError
	default:
		rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeTypeMismatch, span,
			"argument type %s is not assignable to the expected type %s", ce.Sub, ce.Super))
		return ArgumentTypeError
	}
}

// declaredTypeArguments maps the solution back from fresh variable names to
// the names the declaration used.
func declaredTypeArguments(rename typesystem.Subst, solution typesystem.Subst) typesystem.Subst {
	out := make(typesystem.Subst, len(rename))
	for declared, freshVar := range rename {
		tv, ok := freshVar.(typesystem.TVar)
		if !ok {
			continue
		}
		if value, solved := solution[tv.Name]; solved {
			out[declared] = value
		}
	}
	return out
}
