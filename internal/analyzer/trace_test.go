package analyzer

import (
	"testing"

	"github.com/lyralang/lyra/internal/ast"
	"github.com/lyralang/lyra/internal/diagnostics"
	"github.com/lyralang/lyra/internal/typesystem"
)

func TestTemporaryTraceIsolation(t *testing.T) {
	root := NewBindingTrace()
	expr := &ast.Identifier{Value: "x"}

	tmp := NewTemporaryTrace(root)
	tmp.RecordType(expr, typesystem.IntType())
	tmp.Report(diagnostics.Errorf(diagnostics.CodeTypeMismatch, diagnostics.Span{}, "boom"))

	if _, ok := root.TypeOf(expr); ok {
		t.Fatal("uncommitted overlay leaked a type into the root trace")
	}
	if len(root.Diagnostics()) != 0 {
		t.Fatal("uncommitted overlay leaked diagnostics")
	}

	// Reads fall through to the parent.
	if got, ok := tmp.TypeOf(expr); !ok || !typesystem.Equal(got, typesystem.IntType()) {
		t.Fatalf("overlay read = %v, %v", got, ok)
	}

	tmp.Commit()
	if got, ok := root.TypeOf(expr); !ok || !typesystem.Equal(got, typesystem.IntType()) {
		t.Fatalf("after commit root has %v, %v", got, ok)
	}
	if len(root.Diagnostics()) != 1 {
		t.Fatalf("after commit root has %d diagnostics, want 1", len(root.Diagnostics()))
	}
}

func TestNestedOverlayReadsThrough(t *testing.T) {
	root := NewBindingTrace()
	outer := NewTemporaryTrace(root)
	expr := &ast.Identifier{Value: "y"}
	outer.RecordType(expr, typesystem.StringType())

	inner := NewTemporaryTrace(outer)
	if got, ok := inner.TypeOf(expr); !ok || !typesystem.Equal(got, typesystem.StringType()) {
		t.Fatalf("inner overlay read = %v, %v", got, ok)
	}

	inner.Commit()
	outer.Commit()
	if got, ok := root.TypeOf(expr); !ok || !typesystem.Equal(got, typesystem.StringType()) {
		t.Fatalf("root after double commit = %v, %v", got, ok)
	}
}

func TestDeltaReplayPreservesOrder(t *testing.T) {
	root := NewBindingTrace()
	tmp := NewTemporaryTrace(root)
	tmp.Report(diagnostics.Errorf(diagnostics.CodeUnsafeCall, diagnostics.Span{}, "first"))
	tmp.Report(diagnostics.Warningf(diagnostics.CodeUnnecessarySafeCall, diagnostics.Span{}, "second"))
	delta := tmp.Delta()

	other := NewBindingTrace()
	delta.ReplayOnto(other)
	diags := other.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("replayed %d diagnostics, want 2", len(diags))
	}
	if diags[0].Code != diagnostics.CodeUnsafeCall || diags[1].Code != diagnostics.CodeUnnecessarySafeCall {
		t.Fatalf("replay out of order: %v", diags)
	}
}

func TestStatusCombine(t *testing.T) {
	if got := Success.Combine(ArgumentTypeError); got != ArgumentTypeError {
		t.Errorf("Success+ArgumentTypeError = %v", got)
	}
	if got := ReceiverTypeError.Combine(OtherError); got != OtherError {
		t.Errorf("ReceiverTypeError+OtherError = %v", got)
	}
	if got := StrongError.Combine(Success); got != StrongError {
		t.Errorf("StrongError must absorb, got %v", got)
	}
	if !Success.IsSuccess() || ArgumentTypeError.IsSuccess() {
		t.Error("IsSuccess misclassifies")
	}
	if !IncompleteTypeInference.PossibleTransformToSuccess() {
		t.Error("incomplete inference should be recoverable")
	}
}

func TestFlowFactsNarrowing(t *testing.T) {
	facts := NewFlowFacts().WithNotNull("a")
	nullable := typesystem.MakeNullable(typesystem.IntType())

	if got := facts.Narrow("a", nullable); got.IsNullable() {
		t.Fatalf("narrowed type still nullable: %v", got)
	}
	if got := facts.Narrow("b", nullable); !got.IsNullable() {
		t.Fatalf("unknown name must keep its type, got %v", got)
	}

	both := facts.And(NewFlowFacts().WithNotNull("a").WithNotNull("c"))
	if !both.IsNotNull("a") {
		t.Error("intersection must keep the common fact")
	}
	if both.IsNotNull("c") {
		t.Error("intersection must drop one-sided facts")
	}
}
