package analyzer

import (
	"fmt"

	"github.com/lyralang/lyra/internal/diagnostics"
	"github.com/lyralang/lyra/internal/symbols"
	"github.com/lyralang/lyra/internal/typesystem"
)

// ConstraintPosition says where a constraint came from, for diagnostics.
type ConstraintPosition struct {
	Kind          string
	ParameterName string
	Span          diagnostics.Span
}

func ReceiverPosition(span diagnostics.Span) ConstraintPosition {
	return ConstraintPosition{Kind: "receiver", Span: span}
}

func ParameterPosition(name string, span diagnostics.Span) ConstraintPosition {
	return ConstraintPosition{Kind: "parameter", ParameterName: name, Span: span}
}

func ExpectedReturnPosition(span diagnostics.Span) ConstraintPosition {
	return ConstraintPosition{Kind: "expected return", Span: span}
}

func BoundPosition(span diagnostics.Span) ConstraintPosition {
	return ConstraintPosition{Kind: "upper bound", Span: span}
}

func (p ConstraintPosition) String() string {
	if p.ParameterName != "" {
		return fmt.Sprintf("%s %q", p.Kind, p.ParameterName)
	}
	return p.Kind
}

// ConstraintError is one unsatisfiable constraint.
type ConstraintError struct {
	Sub, Super typesystem.Type
	Position   ConstraintPosition
}

type typedBound struct {
	t   typesystem.Type
	pos ConstraintPosition
}

type boundsInfo struct {
	declared []typesystem.Type
	lower    []typedBound
	upper    []typedBound
	value    typesystem.Type
}

// ConstraintSystem accumulates subtype constraints over registered type
// variables and solves them. Placeholder types satisfy every constraint, so
// a phase-one pass can defer function literals without poisoning the system.
type ConstraintSystem struct {
	checker *typesystem.Checker
	vars    map[string]*boundsInfo
	order   []string
	errors  []ConstraintError
}

func NewConstraintSystem(checker *typesystem.Checker) *ConstraintSystem {
	return &ConstraintSystem{checker: checker, vars: make(map[string]*boundsInfo)}
}

// RegisterTypeVariable introduces a variable the system must solve for.
// Callers alpha-convert declared type parameters to fresh names first, so a
// recursive call never shares variables with its enclosing call.
func (cs *ConstraintSystem) RegisterTypeVariable(name string, upperBounds []typesystem.Type) {
	cs.vars[name] = &boundsInfo{declared: upperBounds}
	cs.order = append(cs.order, name)
}

// RegisterCallable registers every type parameter of a callable.
func (cs *ConstraintSystem) RegisterCallable(c *symbols.Callable) {
	for _, tp := range c.TypeParams {
		cs.RegisterTypeVariable(tp.Name, tp.UpperBounds)
	}
}

// Copy returns an independent system with the same variables, bounds and
// errors. Phase two of inference forks the phase-one system through it.
func (cs *ConstraintSystem) Copy() *ConstraintSystem {
	out := &ConstraintSystem{
		checker: cs.checker,
		vars:    make(map[string]*boundsInfo, len(cs.vars)),
		order:   append([]string(nil), cs.order...),
		errors:  append([]ConstraintError(nil), cs.errors...),
	}
	for name, b := range cs.vars {
		nb := *b
		nb.declared = append([]typesystem.Type(nil), b.declared...)
		nb.lower = append([]typedBound(nil), b.lower...)
		nb.upper = append([]typedBound(nil), b.upper...)
		out.vars[name] = &nb
	}
	return out
}

func (cs *ConstraintSystem) registeredVar(t typesystem.Type) (typesystem.TVar, bool) {
	tv, ok := t.(typesystem.TVar)
	if !ok {
		return typesystem.TVar{}, false
	}
	_, registered := cs.vars[tv.Name]
	return tv, registered
}

func (cs *ConstraintSystem) mentionsVariable(t typesystem.Type) bool {
	for _, tv := range t.FreeTypeVariables() {
		if _, ok := cs.vars[tv.Name]; ok {
			return true
		}
	}
	return false
}

// AddSubtypeConstraint requires sub to be a subtype of super under the
// eventual solution. Constraints that touch a placeholder type are satisfied
// unconditionally.
func (cs *ConstraintSystem) AddSubtypeConstraint(sub, super typesystem.Type, pos ConstraintPosition) {
	if containsPlaceholder(sub) || containsPlaceholder(super) {
		return
	}
	if typesystem.IsErrorType(sub) || typesystem.IsErrorType(super) {
		return
	}

	if tv, ok := cs.registeredVar(super); ok {
		bound := sub
		if tv.Null {
			// T? as the supertype only constrains T by the non-null part.
			bound = typesystem.MakeNotNullable(sub)
		}
		cs.vars[tv.Name].lower = append(cs.vars[tv.Name].lower, typedBound{t: bound, pos: pos})
		return
	}
	if tv, ok := cs.registeredVar(sub); ok {
		if tv.Null && !super.IsNullable() && !cs.mentionsVariable(super) {
			cs.fail(sub, super, pos)
			return
		}
		cs.vars[tv.Name].upper = append(cs.vars[tv.Name].upper, typedBound{t: typesystem.MakeNotNullable(super), pos: pos})
		return
	}

	subCon, subIsCon := sub.(typesystem.TCon)
	superCon, superIsCon := super.(typesystem.TCon)
	subFn, subIsFn := sub.(typesystem.TFunc)
	superFn, superIsFn := super.(typesystem.TFunc)

	switch {
	case subIsCon && superIsCon:
		if sub.IsNullable() && !super.IsNullable() {
			cs.fail(sub, super, pos)
			return
		}
		// Walk sub up to an instance of super's class, then match the
		// invariant type arguments in both directions.
		instance, ok := cs.checker.SupertypeInstance(subCon, superCon.Name)
		if !ok || len(instance.Args) != len(superCon.Args) {
			cs.fail(sub, super, pos)
			return
		}
		for i := range instance.Args {
			cs.AddSubtypeConstraint(instance.Args[i], superCon.Args[i], pos)
			cs.AddSubtypeConstraint(superCon.Args[i], instance.Args[i], pos)
		}

	case subIsFn && superIsFn:
		if sub.IsNullable() && !super.IsNullable() {
			cs.fail(sub, super, pos)
			return
		}
		if len(subFn.Params) != len(superFn.Params) {
			cs.fail(sub, super, pos)
			return
		}
		for i := range subFn.Params {
			cs.AddSubtypeConstraint(superFn.Params[i], subFn.Params[i], pos)
		}
		cs.AddSubtypeConstraint(subFn.Return, superFn.Return, pos)

	default:
		if !cs.mentionsVariable(sub) && !cs.mentionsVariable(super) {
			if !cs.checker.IsSubtypeOf(sub, super) {
				cs.fail(sub, super, pos)
			}
			return
		}
		cs.fail(sub, super, pos)
	}
}

func (cs *ConstraintSystem) fail(sub, super typesystem.Type, pos ConstraintPosition) {
	cs.errors = append(cs.errors, ConstraintError{Sub: sub, Super: super, Position: pos})
}

// Solve assigns each variable the least common supertype of its lower bounds
// and checks the result against its upper and declared bounds. A variable
// constrained only from above takes its most specific upper bound. Variables
// whose bounds mention other variables resolve over repeated rounds.
func (cs *ConstraintSystem) Solve() {
	for round := 0; round <= len(cs.order); round++ {
		progress := false
		subst := cs.partialSubstitution()
		for _, name := range cs.order {
			b := cs.vars[name]
			if b.value != nil {
				continue
			}
			var ground []typesystem.Type
			allGround := true
			for _, l := range b.lower {
				applied := l.t.Apply(subst)
				if cs.mentionsVariable(applied) {
					allGround = false
					break
				}
				ground = append(ground, applied)
			}
			if !allGround {
				continue
			}
			if len(ground) > 0 {
				b.value = cs.checker.CommonSupertype(ground)
				progress = true
				continue
			}
			if upper, ok := cs.mostSpecificUpper(b, subst); ok {
				b.value = upper
				progress = true
			}
		}
		if !progress {
			break
		}
	}

	subst := cs.partialSubstitution()
	for _, name := range cs.order {
		b := cs.vars[name]
		if b.value == nil {
			continue
		}
		for _, u := range b.upper {
			applied := u.t.Apply(subst)
			if cs.mentionsVariable(applied) || containsPlaceholder(applied) {
				continue
			}
			if !cs.checker.IsSubtypeOf(b.value, applied) {
				cs.fail(b.value, applied, u.pos)
			}
		}
		for _, d := range b.declared {
			applied := d.Apply(subst)
			if cs.mentionsVariable(applied) {
				continue
			}
			if !cs.checker.IsSubtypeOf(b.value, applied) {
				cs.fail(b.value, applied, BoundPosition(diagnostics.Span{}))
			}
		}
	}
}

// mostSpecificUpper picks, among the ground upper and declared bounds of a
// variable with no lower bounds, the one that is a subtype of all the
// others. Contravariant positions produce exactly this shape: the variable
// is only ever constrained from above.
func (cs *ConstraintSystem) mostSpecificUpper(b *boundsInfo, subst typesystem.Subst) (typesystem.Type, bool) {
	var ground []typesystem.Type
	for _, u := range b.upper {
		applied := u.t.Apply(subst)
		if cs.mentionsVariable(applied) || containsPlaceholder(applied) {
			continue
		}
		ground = append(ground, applied)
	}
	for _, d := range b.declared {
		applied := d.Apply(subst)
		if cs.mentionsVariable(applied) || containsPlaceholder(applied) {
			continue
		}
		ground = append(ground, applied)
	}
	for _, candidate := range ground {
		below := true
		for _, other := range ground {
			if !cs.checker.IsSubtypeOf(candidate, other) {
				below = false
				break
			}
		}
		if below {
			return candidate, true
		}
	}
	return nil, false
}

// HasContradiction reports an unsatisfiable constraint set.
func (cs *ConstraintSystem) HasContradiction() bool { return len(cs.errors) > 0 }

// Errors returns the failed constraints.
func (cs *ConstraintSystem) Errors() []ConstraintError { return cs.errors }

// IsSolved reports that every variable got a value and nothing contradicted.
func (cs *ConstraintSystem) IsSolved() bool {
	if cs.HasContradiction() {
		return false
	}
	for _, b := range cs.vars {
		if b.value == nil {
			return false
		}
	}
	return true
}

func (cs *ConstraintSystem) partialSubstitution() typesystem.Subst {
	s := typesystem.Subst{}
	for name, b := range cs.vars {
		if b.value != nil {
			s[name] = b.value
		}
	}
	return s
}

// Substitution returns the solved assignment. Unsolved variables are absent.
func (cs *ConstraintSystem) Substitution() typesystem.Subst {
	return cs.partialSubstitution()
}

// SubstitutionWithPlaceholders maps every unsolved variable to the
// don't-care placeholder, for typing deferred function literals against a
// partially solved system.
func (cs *ConstraintSystem) SubstitutionWithPlaceholders() typesystem.Subst {
	s := cs.partialSubstitution()
	for _, name := range cs.order {
		if _, ok := s[name]; !ok {
			s[name] = typesystem.DontCareType()
		}
	}
	return s
}

func containsPlaceholder(t typesystem.Type) bool {
	switch tt := t.(type) {
	case typesystem.TError:
		return tt.DontCare
	case typesystem.TCon:
		for _, a := range tt.Args {
			if containsPlaceholder(a) {
				return true
			}
		}
	case typesystem.TFunc:
		for _, p := range tt.Params {
			if containsPlaceholder(p) {
				return true
			}
		}
		return containsPlaceholder(tt.Return)
	}
	return false
}
