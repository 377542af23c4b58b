package analyzer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lyralang/lyra/internal/ast"
	"github.com/lyralang/lyra/internal/diagnostics"
	"github.com/lyralang/lyra/internal/symbols"
	"github.com/lyralang/lyra/internal/typesystem"
)

type memoKey struct {
	expr     *ast.CallExpression
	kind     CallKind
	expected string
}

type memoEntry struct {
	pass   uuid.UUID
	delta  Delta
	result *Result
}

// resolveCall is the memoized entry point for one call site. The entire
// resolution runs against a temporary overlay; on completion the overlay
// commits and its delta is memoized, so resolving the same node again in the
// same pass replays the recorded writes instead of redoing the work.
func (e *Engine) resolveCall(rctx resolutionContext, expr *ast.CallExpression, kind CallKind) (*Result, error) {
	if err := rctx.cancelled(); err != nil {
		return nil, err
	}

	key := memoKey{expr: expr, kind: kind}
	if rctx.expectedType != nil {
		key.expected = rctx.expectedType.String()
	}
	if entry, ok := e.memo[key]; ok && entry.pass == e.passID {
		entry.delta.ReplayOnto(rctx.trace)
		return entry.result, nil
	}

	outer := NewTemporaryTrace(rctx.trace)
	result, err := e.resolveUncached(rctx.withTrace(outer), expr, kind)
	if err != nil {
		return nil, err
	}
	outer.Commit()
	e.memo[key] = &memoEntry{pass: e.passID, delta: outer.Delta(), result: result}
	return result, nil
}

func (e *Engine) resolveUncached(rctx resolutionContext, expr *ast.CallExpression, kind CallKind) (*Result, error) {
	typeArgs, ok := e.resolveTypeArgs(rctx, expr.TypeArgs)
	if !ok {
		e.typeRemainingArguments(rctx, newCall(expr, nil, kind), nil)
		return &Result{Code: ManyFailedCandidates}, nil
	}
	call := newCall(expr, typeArgs, kind)

	// A callee that is not a name, this, or a constructor reference is an
	// arbitrary expression invoked through its function type.
	switch call.Callee.(type) {
	case *ast.Identifier, *ast.MemberExpression, *ast.ThisExpression, *ast.ConstructorCallee:
	default:
		return e.resolveExpressionCallee(rctx, call)
	}

	var receiverType typesystem.Type
	if call.ExplicitReceiver != nil {
		receiverType = e.typeExpression(rctx, call.ExplicitReceiver, nil)
	}

	tasks := e.prioritizedTasks(call, rctx.scope, receiverType)
	if len(tasks) == 0 {
		return e.reportNoCandidates(rctx, call), nil
	}

	result, failed, err := e.resolveTasks(rctx, call, tasks)
	if err != nil {
		return nil, err
	}
	if result != nil {
		return result, nil
	}
	return e.resolveAllFailed(rctx, call, failed)
}

// candidateResult pairs a checked candidate with the overlay holding its
// writes. Only the winner's overlay ever commits.
type candidateResult struct {
	resolved *ResolvedCall
	trace    *TemporaryTrace
}

// resolveTasks walks the prioritized groups in order and stops at the first
// group that yields a success or a genuine ambiguity. It returns a nil
// result when every group failed, along with the failed candidates.
func (e *Engine) resolveTasks(rctx resolutionContext, call *Call, tasks [][]*candidate) (*Result, []*candidateResult, error) {
	var failed []*candidateResult
	for _, group := range tasks {
		if err := rctx.cancelled(); err != nil {
			return nil, nil, err
		}

		var succeeded []*candidateResult
		for _, cand := range group {
			overlay := NewTemporaryTrace(rctx.trace)
			resolved := e.checkCandidate(rctx.withTrace(overlay), call, cand)
			cr := &candidateResult{resolved: resolved, trace: overlay}
			if resolved.Status == Success || resolved.Status == IncompleteTypeInference {
				succeeded = append(succeeded, cr)
			} else {
				failed = append(failed, cr)
			}
		}
		if len(succeeded) == 0 {
			continue
		}

		winners := e.pickWinners(succeeded)
		if len(winners) > 1 {
			var rcs []*ResolvedCall
			for _, w := range winners {
				rcs = append(rcs, w.resolved)
			}
			rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeOverloadAmbiguity, e.spanOf(call.Expr.GetToken()),
				"ambiguous call, candidates: %s", describeCandidates(rcs)))
			e.typeRemainingArguments(rctx, call, nil)
			return ambiguityResult(rcs), nil, nil
		}
		return e.commitWinner(rctx, call, winners[0]), nil, nil
	}
	return nil, failed, nil
}

func (e *Engine) pickWinners(succeeded []*candidateResult) []*candidateResult {
	var rcs []*ResolvedCall
	byResolved := make(map[*ResolvedCall]*candidateResult, len(succeeded))
	for _, cr := range succeeded {
		rcs = append(rcs, cr.resolved)
		byResolved[cr.resolved] = cr
	}
	chosen := e.chooseMostSpecific(rcs)
	out := make([]*candidateResult, len(chosen))
	for i, rc := range chosen {
		out[i] = byResolved[rc]
	}
	return out
}

// commitWinner commits the winning candidate's writes and records the
// resolved call and the call expression's type on the shared trace.
func (e *Engine) commitWinner(rctx resolutionContext, call *Call, winner *candidateResult) *Result {
	winner.trace.Commit()
	rc := winner.resolved
	rctx.trace.RecordCall(call.Expr, rc)

	ret := rc.ReturnType()
	if call.Safe && rc.ReceiverArgument != nil && rc.ReceiverArgument.IsNullable() {
		ret = typesystem.MakeNullable(ret)
	}
	rctx.trace.RecordType(call.Expr, ret)

	if rc.Status == IncompleteTypeInference {
		return &Result{Code: IncompleteInference, Call: rc}
	}
	return successResult(rc)
}

// resolveAllFailed handles the case where no group produced a success: try
// the dangling-literal recovery, then report the most useful failure.
func (e *Engine) resolveAllFailed(rctx resolutionContext, call *Call, failed []*candidateResult) (*Result, error) {
	if call.HasTrailingLiterals() && e.cfg.RecoverTrailingLiterals() {
		// The retry explores a call shape the user never wrote, so it runs
		// on its own overlay and commits only when it actually resolves.
		overlay := NewTemporaryTrace(rctx.trace)
		retryCtx := rctx.withTrace(overlay)
		stripped := call.WithoutTrailingLiterals()
		tasks := e.prioritizedTasks(stripped, retryCtx.scope, e.receiverTypeFor(retryCtx, stripped))
		retry, _, err := e.resolveTasks(retryCtx, stripped, tasks)
		if err != nil {
			return nil, err
		}
		if retry != nil && retry.Succeeded() {
			overlay.Commit()
			if e.cfg.WarnDanglingFunctionLiteral() {
				lit := call.Expr.FunctionLiterals[0]
				rctx.trace.Report(diagnostics.Warningf(diagnostics.CodeDanglingFunctionLiteral, e.spanOf(lit.GetToken()),
					"this function literal matches no parameter of the resolved call"))
			}
			e.typeRemainingArguments(rctx, call, retry.Call)
			return retry, nil
		}
	}

	reportable := failed
	var weak []*candidateResult
	for _, cr := range failed {
		if cr.resolved.Status != StrongError {
			weak = append(weak, cr)
		}
	}
	if len(weak) > 0 {
		reportable = weak
	}

	result := e.reportFailedCandidates(rctx, call, reportable)
	e.typeRemainingArguments(rctx, call, result.Call)
	// A single committed candidate still carries a usable return type, for
	// example the phase-one substitution after a failed expected-type pass.
	if result.Call != nil {
		rctx.trace.RecordType(call.Expr, result.Call.ReturnType())
	} else {
		rctx.trace.RecordType(call.Expr, typesystem.ErrorType())
	}
	return result, nil
}

// reportFailedCandidates picks the least severe failures and reports them.
// A single best failure commits its own diagnostics; several equally bad
// ones collapse into one summary diagnostic.
func (e *Engine) reportFailedCandidates(rctx resolutionContext, call *Call, failed []*candidateResult) *Result {
	if len(failed) == 0 {
		return e.reportNoCandidates(rctx, call)
	}

	best := failed[0].resolved.Status
	for _, cr := range failed[1:] {
		if cr.resolved.Status < best {
			best = cr.resolved.Status
		}
	}
	var bestSet []*candidateResult
	for _, cr := range failed {
		if cr.resolved.Status == best {
			bestSet = append(bestSet, cr)
		}
	}

	if len(bestSet) == 1 {
		winner := bestSet[0]
		winner.trace.Commit()
		rctx.trace.RecordCall(call.Expr, winner.resolved)
		return &Result{Code: SingleCandidateArgumentMismatch, Call: winner.resolved}
	}

	var rcs []*ResolvedCall
	for _, cr := range bestSet {
		rcs = append(rcs, cr.resolved)
	}
	if best == ReceiverTypeError || best == ReceiverPresenceError {
		rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeWrongReceiverType, e.spanOf(call.Expr.GetToken()),
			"no candidate accepts the receiver, candidates: %s", describeCandidates(rcs)))
		return &Result{Code: CandidatesWithWrongReceiver, Candidates: rcs}
	}
	rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeNoneApplicable, e.spanOf(call.Expr.GetToken()),
		"no applicable candidate, tried: %s", describeCandidates(rcs)))
	return &Result{Code: ManyFailedCandidates, Candidates: rcs}
}

func (e *Engine) reportNoCandidates(rctx resolutionContext, call *Call) *Result {
	switch callee := call.Callee.(type) {
	case *ast.ConstructorCallee:
		if named, ok := callee.TypeRef.(*ast.NamedType); ok {
			if _, isClass := e.registry.Lookup(named.Name.Value); !isClass {
				rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeNotAClass, e.spanOf(callee.GetToken()),
					"%s is not a class", named.Name.Value))
			} else {
				rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeNoConstructor, e.spanOf(callee.GetToken()),
					"class %s has no constructor", named.Name.Value))
			}
		}
	case *ast.Identifier:
		if _, isClass := e.registry.Lookup(callee.Value); isClass && !e.table.HasClass(callee.Value) {
			rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeNoConstructor, e.spanOf(callee.GetToken()),
				"type %s cannot be constructed", callee.Value))
			break
		}
		rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeUnresolvedReference, e.spanOf(callee.GetToken()),
			"unresolved reference: %s", callee.Value))
	case *ast.MemberExpression:
		rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeUnresolvedReference, e.spanOf(callee.Member.GetToken()),
			"unresolved reference: %s", callee.Member.Value))
	case *ast.ThisExpression:
		rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeUnresolvedReference, e.spanOf(callee.GetToken()),
			"this-delegation outside of a class body"))
	}
	e.typeRemainingArguments(rctx, call, nil)
	rctx.trace.RecordType(call.Expr, typesystem.ErrorType())
	return nameNotFoundResult()
}

// resolveExpressionCallee handles (expr)(args): the callee must have a
// non-nullable function type and there is exactly one synthetic candidate.
func (e *Engine) resolveExpressionCallee(rctx resolutionContext, call *Call) (*Result, error) {
	calleeType := e.typeExpression(rctx, call.Callee, nil)
	fn, isFn := typesystem.MakeNotNullable(calleeType).(typesystem.TFunc)
	if !isFn || calleeType.IsNullable() {
		if !typesystem.IsErrorType(calleeType) {
			rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeCalleeNotAFunction, e.spanOf(call.Callee.GetToken()),
				"expression of type %s cannot be invoked as a function", calleeType))
		}
		e.typeRemainingArguments(rctx, call, nil)
		rctx.trace.RecordType(call.Expr, typesystem.ErrorType())
		return &Result{Code: SingleCandidateArgumentMismatch}, nil
	}

	synthetic := &symbols.Callable{Kind: symbols.KindFunction, Name: "<invoke>", Return: fn.Return}
	for i, p := range fn.Params {
		synthetic.Params = append(synthetic.Params, &symbols.ValueParam{
			Name: fmt.Sprintf("p%d", i+1), Type: p, Index: i,
		})
	}
	result, failed, err := e.resolveTasks(rctx, call, [][]*candidate{{{callable: synthetic}}})
	if err != nil {
		return nil, err
	}
	if result != nil {
		return result, nil
	}
	return e.resolveAllFailed(rctx, call, failed)
}

func (e *Engine) receiverTypeFor(rctx resolutionContext, call *Call) typesystem.Type {
	if call.ExplicitReceiver == nil {
		return nil
	}
	return e.typeExpression(rctx, call.ExplicitReceiver, nil)
}

// typeRemainingArguments makes sure every argument expression carries a type
// on the trace even when resolution failed, so later stages never see an
// untyped subtree. Arguments already typed by a committed candidate keep
// their types.
func (e *Engine) typeRemainingArguments(rctx resolutionContext, call *Call, committed *ResolvedCall) {
	for _, arg := range call.Args {
		if _, ok := rctx.trace.TypeOf(arg.Value); ok {
			continue
		}
		e.typeExpression(rctx, arg.Value, nil)
	}
}

func describeCandidates(rcs []*ResolvedCall) string {
	out := ""
	for i, rc := range rcs {
		if i > 0 {
			out += ", "
		}
		out += rc.Candidate.String()
	}
	return out
}
