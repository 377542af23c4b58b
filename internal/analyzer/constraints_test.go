package analyzer

import (
	"testing"

	"github.com/lyralang/lyra/internal/diagnostics"
	"github.com/lyralang/lyra/internal/typesystem"
)

func newTestSystem() *ConstraintSystem {
	return NewConstraintSystem(&typesystem.Checker{Registry: typesystem.NewRegistry()})
}

func tvar(name string) typesystem.Type {
	return typesystem.TVar{Name: name}
}

func pos() ConstraintPosition {
	return ParameterPosition("x", diagnostics.Span{})
}

func TestLowerBoundsSolveToCommonSupertype(t *testing.T) {
	cs := newTestSystem()
	cs.RegisterTypeVariable("T", nil)
	cs.AddSubtypeConstraint(typesystem.IntType(), tvar("T"), pos())
	cs.AddSubtypeConstraint(typesystem.DoubleType(), tvar("T"), pos())
	cs.Solve()

	if cs.HasContradiction() || !cs.IsSolved() {
		t.Fatalf("system not solved: %v", cs.Errors())
	}
	got := cs.Substitution()["T"]
	if !typesystem.Equal(got, typesystem.NumberType()) {
		t.Fatalf("T = %v, want Number", got)
	}
}

func TestUpperBoundContradiction(t *testing.T) {
	cs := newTestSystem()
	cs.RegisterTypeVariable("T", nil)
	cs.AddSubtypeConstraint(typesystem.StringType(), tvar("T"), pos())
	cs.AddSubtypeConstraint(tvar("T"), typesystem.IntType(), pos())
	cs.Solve()

	if !cs.HasContradiction() {
		t.Fatal("String <: T <: Int must contradict")
	}
}

func TestDeclaredBoundChecked(t *testing.T) {
	cs := newTestSystem()
	cs.RegisterTypeVariable("T", []typesystem.Type{typesystem.NumberType()})
	cs.AddSubtypeConstraint(typesystem.StringType(), tvar("T"), pos())
	cs.Solve()

	if !cs.HasContradiction() {
		t.Fatal("T : Number with T = String must contradict")
	}
	if errs := cs.Errors(); len(errs) == 0 || errs[0].Position.Kind != "upper bound" {
		t.Fatalf("errors = %v, want a bound position", errs)
	}
}

func TestConstructorDecomposition(t *testing.T) {
	reg := typesystem.NewRegistry()
	reg.Register(&typesystem.ClassInfo{
		Name:       "List",
		TypeParams: []typesystem.TypeParamInfo{{Name: "E"}},
		Supertypes: []typesystem.Type{typesystem.AnyType()},
	})
	cs := NewConstraintSystem(&typesystem.Checker{Registry: reg})
	cs.RegisterTypeVariable("T", nil)

	arg := typesystem.TCon{Name: "List", Args: []typesystem.Type{typesystem.IntType()}}
	param := typesystem.TCon{Name: "List", Args: []typesystem.Type{tvar("T")}}
	cs.AddSubtypeConstraint(arg, param, pos())
	cs.Solve()

	if cs.HasContradiction() || !cs.IsSolved() {
		t.Fatalf("system not solved: %v", cs.Errors())
	}
	if got := cs.Substitution()["T"]; !typesystem.Equal(got, typesystem.IntType()) {
		t.Fatalf("T = %v, want Int", got)
	}
}

func TestFunctionVariance(t *testing.T) {
	cs := newTestSystem()
	cs.RegisterTypeVariable("T", nil)
	cs.RegisterTypeVariable("R", nil)

	arg := typesystem.TFunc{
		Params: []typesystem.Type{typesystem.IntType()},
		Return: typesystem.StringType(),
	}
	param := typesystem.TFunc{
		Params: []typesystem.Type{tvar("T")},
		Return: tvar("R"),
	}
	cs.AddSubtypeConstraint(arg, param, pos())
	cs.Solve()

	if cs.HasContradiction() || !cs.IsSolved() {
		t.Fatalf("system not solved: %v", cs.Errors())
	}
	sub := cs.Substitution()
	if !typesystem.Equal(sub["R"], typesystem.StringType()) {
		t.Fatalf("R = %v, want String", sub["R"])
	}
	// The parameter position constrains T only from above; the most
	// specific upper bound is its value.
	if !typesystem.Equal(sub["T"], typesystem.IntType()) {
		t.Fatalf("T = %v, want Int", sub["T"])
	}
}

func TestUpperOnlyVariableTakesMostSpecificBound(t *testing.T) {
	cs := newTestSystem()
	cs.RegisterTypeVariable("T", nil)
	cs.AddSubtypeConstraint(tvar("T"), typesystem.NumberType(), pos())
	cs.AddSubtypeConstraint(tvar("T"), typesystem.IntType(), pos())
	cs.Solve()

	if cs.HasContradiction() || !cs.IsSolved() {
		t.Fatalf("system not solved: %v", cs.Errors())
	}
	if got := cs.Substitution()["T"]; !typesystem.Equal(got, typesystem.IntType()) {
		t.Fatalf("T = %v, want Int", got)
	}
}

func TestPlaceholderConstraintsSilentlySatisfied(t *testing.T) {
	cs := newTestSystem()
	cs.RegisterTypeVariable("T", nil)
	cs.AddSubtypeConstraint(typesystem.DontCareType(), tvar("T"), pos())
	cs.AddSubtypeConstraint(typesystem.IntType(), tvar("T"), pos())
	cs.Solve()

	if cs.HasContradiction() {
		t.Fatalf("placeholder bound must not constrain: %v", cs.Errors())
	}
	if got := cs.Substitution()["T"]; !typesystem.Equal(got, typesystem.IntType()) {
		t.Fatalf("T = %v, want Int", got)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	cs := newTestSystem()
	cs.RegisterTypeVariable("T", nil)
	cs.AddSubtypeConstraint(typesystem.IntType(), tvar("T"), pos())

	fork := cs.Copy()
	fork.AddSubtypeConstraint(tvar("T"), typesystem.StringType(), pos())
	fork.Solve()
	if !fork.HasContradiction() {
		t.Fatal("fork must see the contradiction")
	}

	cs.Solve()
	if cs.HasContradiction() || !cs.IsSolved() {
		t.Fatalf("original must stay clean: %v", cs.Errors())
	}
}

func TestNullableExpectedAcceptsNonNullValue(t *testing.T) {
	cs := newTestSystem()
	cs.RegisterTypeVariable("T", nil)
	// A value of type Int? flowing into T yields a non-null bound for T
	// combined with the nullability carried on the use site.
	cs.AddSubtypeConstraint(typesystem.IntType(), typesystem.TVar{Name: "T", Null: true}, pos())
	cs.Solve()

	if cs.HasContradiction() || !cs.IsSolved() {
		t.Fatalf("system not solved: %v", cs.Errors())
	}
	if got := cs.Substitution()["T"]; got.IsNullable() {
		t.Fatalf("T = %v, want non-null Int", got)
	}
}
