package typesystem

import "testing"

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	any := TCon{Name: "Any"}
	if err := r.Register(&ClassInfo{Name: "Base", Supertypes: []Type{any}}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&ClassInfo{Name: "Derived", Supertypes: []Type{TCon{Name: "Base"}}}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&ClassInfo{
		Name:       "List",
		TypeParams: []TypeParamInfo{{Name: "E", Variance: Covariant}},
		Supertypes: []Type{any},
	}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&ClassInfo{
		Name:       "IntList",
		Supertypes: []Type{TCon{Name: "List", Args: []Type{TCon{Name: "Int"}}}},
	}); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestSubtypeNominalChain(t *testing.T) {
	c := NewChecker(testRegistry(t))

	tests := []struct {
		a, b Type
		want bool
	}{
		{TCon{Name: "Int"}, TCon{Name: "Int"}, true},
		{TCon{Name: "Int"}, TCon{Name: "Number"}, true},
		{TCon{Name: "Int"}, TCon{Name: "Any"}, true},
		{TCon{Name: "Number"}, TCon{Name: "Int"}, false},
		{TCon{Name: "Derived"}, TCon{Name: "Base"}, true},
		{TCon{Name: "Base"}, TCon{Name: "Derived"}, false},
		{TCon{Name: "Nothing"}, TCon{Name: "Derived"}, true},
		{TCon{Name: "String"}, TCon{Name: "Int"}, false},
		{TCon{Name: "IntList"}, TCon{Name: "List", Args: []Type{TCon{Name: "Int"}}}, true},
		{TCon{Name: "IntList"}, TCon{Name: "List", Args: []Type{TCon{Name: "String"}}}, false},
	}
	for _, tt := range tests {
		if got := c.IsSubtypeOf(tt.a, tt.b); got != tt.want {
			t.Errorf("IsSubtypeOf(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSubtypeNullability(t *testing.T) {
	c := NewChecker(testRegistry(t))

	intT := TCon{Name: "Int"}
	intN := TCon{Name: "Int", Null: true}
	anyN := TCon{Name: "Any", Null: true}

	if c.IsSubtypeOf(intN, intT) {
		t.Error("Int? must not be a subtype of Int")
	}
	if !c.IsSubtypeOf(intT, intN) {
		t.Error("Int must be a subtype of Int?")
	}
	if !c.IsSubtypeOf(intN, anyN) {
		t.Error("Int? must be a subtype of Any?")
	}
	if c.IsSubtypeOf(intN, TCon{Name: "Any"}) {
		t.Error("Int? must not be a subtype of Any")
	}
	if !c.IsSubtypeOf(MakeNotNullable(intN), intT) {
		t.Error("narrowed Int? must be a subtype of Int")
	}
	// Nothing? is only a subtype of nullable types.
	nothingN := TCon{Name: "Nothing", Null: true}
	if c.IsSubtypeOf(nothingN, intT) {
		t.Error("Nothing? must not be a subtype of Int")
	}
	if !c.IsSubtypeOf(nothingN, intN) {
		t.Error("Nothing? must be a subtype of Int?")
	}
}

func TestErrorTypeAbsorbs(t *testing.T) {
	c := NewChecker(testRegistry(t))
	if !c.IsSubtypeOf(ErrorType(), TCon{Name: "Int"}) {
		t.Error("error type must be a subtype of everything")
	}
	if !c.IsSubtypeOf(TCon{Name: "Int"}, ErrorType()) {
		t.Error("error type must be a supertype of everything")
	}
	if !c.IsSubtypeOf(DontCareType(), TCon{Name: "String", Null: true}) {
		t.Error("don't-care placeholder must absorb like the error type")
	}
}

func TestFunctionSubtype(t *testing.T) {
	c := NewChecker(testRegistry(t))
	intT := TCon{Name: "Int"}
	numT := TCon{Name: "Number"}

	// (Number) -> Int <: (Int) -> Number
	f1 := TFunc{Params: []Type{numT}, Return: intT}
	f2 := TFunc{Params: []Type{intT}, Return: numT}
	if !c.IsSubtypeOf(f1, f2) {
		t.Errorf("%s should be a subtype of %s", f1, f2)
	}
	if c.IsSubtypeOf(f2, f1) {
		t.Errorf("%s should not be a subtype of %s", f2, f1)
	}
	if !c.IsSubtypeOf(f1, TCon{Name: "Any"}) {
		t.Error("function types are subtypes of Any")
	}
}

func TestSubstitutionRecursesThroughMapping(t *testing.T) {
	// T -> List<U>, U -> Int: substituting T must resolve U as well.
	s := Subst{
		"T": TCon{Name: "List", Args: []Type{TVar{Name: "U"}}},
		"U": TCon{Name: "Int"},
	}
	got := TVar{Name: "T"}.Apply(s)
	want := TCon{Name: "List", Args: []Type{TCon{Name: "Int"}}}
	if !Equal(got, want) {
		t.Errorf("Apply = %s, want %s", got, want)
	}
}

func TestSubstitutionPreservesNullability(t *testing.T) {
	s := Subst{"T": TCon{Name: "Int"}}
	got := TVar{Name: "T", Null: true}.Apply(s)
	if !got.IsNullable() {
		t.Errorf("substituting T? with Int should give Int?, got %s", got)
	}
}

func TestSubstitutionBreaksCycles(t *testing.T) {
	s := Subst{
		"T": TCon{Name: "List", Args: []Type{TVar{Name: "U"}}},
		"U": TVar{Name: "T"},
	}
	got := TVar{Name: "T"}.Apply(s)
	// The cycle is broken by leaving the repeated variable in place.
	want := TCon{Name: "List", Args: []Type{TVar{Name: "T"}}}
	if !Equal(got, want) {
		t.Errorf("Apply = %s, want %s", got, want)
	}
}

func TestCommonSupertype(t *testing.T) {
	c := NewChecker(testRegistry(t))
	intT := TCon{Name: "Int"}
	dblT := TCon{Name: "Double"}
	strT := TCon{Name: "String"}

	if got := c.CommonSupertype([]Type{intT, dblT}); !Equal(got, TCon{Name: "Number"}) {
		t.Errorf("lub(Int, Double) = %s, want Number", got)
	}
	if got := c.CommonSupertype([]Type{intT, strT}); !Equal(got, TCon{Name: "Any"}) {
		t.Errorf("lub(Int, String) = %s, want Any", got)
	}
	if got := c.CommonSupertype([]Type{intT, TCon{Name: "Int", Null: true}}); !Equal(got, TCon{Name: "Int", Null: true}) {
		t.Errorf("lub(Int, Int?) = %s, want Int?", got)
	}
	if got := c.CommonSupertype([]Type{intT, ErrorType()}); !Equal(got, intT) {
		t.Errorf("lub(Int, <error>) = %s, want Int", got)
	}
}
