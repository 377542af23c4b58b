package analyzer

import (
	"github.com/google/uuid"

	"github.com/lyralang/lyra/internal/ast"
	"github.com/lyralang/lyra/internal/diagnostics"
	"github.com/lyralang/lyra/internal/typesystem"
)

// Trace is the mutable binding context of an analysis pass. Resolution writes
// expression types, resolved calls and diagnostics through it. Candidate
// checking happens against temporary overlays so that losing candidates leave
// no footprint on the shared trace.
type Trace interface {
	RecordType(expr ast.Expression, t typesystem.Type)
	TypeOf(expr ast.Expression) (typesystem.Type, bool)
	RecordCall(call *ast.CallExpression, rc *ResolvedCall)
	CallFor(call *ast.CallExpression) (*ResolvedCall, bool)
	Report(d diagnostics.Diagnostic)
}

// traceOp is one recorded write, replayable onto another trace.
type traceOp interface {
	applyTo(t Trace)
}

type typeOp struct {
	expr ast.Expression
	typ  typesystem.Type
}

func (op typeOp) applyTo(t Trace) { t.RecordType(op.expr, op.typ) }

type callOp struct {
	call *ast.CallExpression
	rc   *ResolvedCall
}

func (op callOp) applyTo(t Trace) { t.RecordCall(op.call, op.rc) }

type diagOp struct {
	d diagnostics.Diagnostic
}

func (op diagOp) applyTo(t Trace) { t.Report(op.d) }

// Delta is an ordered list of trace writes. Memoized resolution results keep
// the delta of their winning attempt and replay it at later call sites.
type Delta []traceOp

// ReplayOnto applies every write in order.
func (d Delta) ReplayOnto(t Trace) {
	for _, op := range d {
		op.applyTo(t)
	}
}

// BindingTrace is the root trace of a pass.
type BindingTrace struct {
	// PassID distinguishes traces so memoized results never leak between
	// analysis passes.
	PassID uuid.UUID

	types map[ast.Expression]typesystem.Type
	calls map[*ast.CallExpression]*ResolvedCall
	diags []diagnostics.Diagnostic
}

func NewBindingTrace() *BindingTrace {
	return &BindingTrace{
		PassID: uuid.New(),
		types:  make(map[ast.Expression]typesystem.Type),
		calls:  make(map[*ast.CallExpression]*ResolvedCall),
	}
}

func (b *BindingTrace) RecordType(expr ast.Expression, t typesystem.Type) { b.types[expr] = t }

func (b *BindingTrace) TypeOf(expr ast.Expression) (typesystem.Type, bool) {
	t, ok := b.types[expr]
	return t, ok
}

func (b *BindingTrace) RecordCall(call *ast.CallExpression, rc *ResolvedCall) { b.calls[call] = rc }

func (b *BindingTrace) CallFor(call *ast.CallExpression) (*ResolvedCall, bool) {
	rc, ok := b.calls[call]
	return rc, ok
}

func (b *BindingTrace) Report(d diagnostics.Diagnostic) { b.diags = append(b.diags, d) }

// Diagnostics returns everything reported to the trace, in report order.
func (b *BindingTrace) Diagnostics() []diagnostics.Diagnostic { return b.diags }

// TemporaryTrace overlays a parent trace. Reads fall through to the parent;
// writes stay local until Commit.
type TemporaryTrace struct {
	parent Trace
	types  map[ast.Expression]typesystem.Type
	calls  map[*ast.CallExpression]*ResolvedCall
	ops    Delta
}

func NewTemporaryTrace(parent Trace) *TemporaryTrace {
	return &TemporaryTrace{
		parent: parent,
		types:  make(map[ast.Expression]typesystem.Type),
		calls:  make(map[*ast.CallExpression]*ResolvedCall),
	}
}

func (t *TemporaryTrace) RecordType(expr ast.Expression, typ typesystem.Type) {
	t.types[expr] = typ
	t.ops = append(t.ops, typeOp{expr: expr, typ: typ})
}

func (t *TemporaryTrace) TypeOf(expr ast.Expression) (typesystem.Type, bool) {
	if typ, ok := t.types[expr]; ok {
		return typ, ok
	}
	return t.parent.TypeOf(expr)
}

func (t *TemporaryTrace) RecordCall(call *ast.CallExpression, rc *ResolvedCall) {
	t.calls[call] = rc
	t.ops = append(t.ops, callOp{call: call, rc: rc})
}

func (t *TemporaryTrace) CallFor(call *ast.CallExpression) (*ResolvedCall, bool) {
	if rc, ok := t.calls[call]; ok {
		return rc, ok
	}
	return t.parent.CallFor(call)
}

func (t *TemporaryTrace) Report(d diagnostics.Diagnostic) {
	t.ops = append(t.ops, diagOp{d: d})
}

// Commit replays the overlay's writes onto the parent.
func (t *TemporaryTrace) Commit() { t.ops.ReplayOnto(t.parent) }

// Delta returns the overlay's writes without committing them.
func (t *TemporaryTrace) Delta() Delta { return t.ops }
