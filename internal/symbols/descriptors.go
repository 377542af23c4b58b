package symbols

import (
	"fmt"

	"github.com/lyralang/lyra/internal/typesystem"
)

// CallableKind discriminates the callable variants. Dispatch is explicit on
// the kind; there is no descriptor class hierarchy.
type CallableKind int

const (
	KindFunction CallableKind = iota
	KindConstructor
	KindPropertyAsVariable
)

func (k CallableKind) String() string {
	switch k {
	case KindConstructor:
		return "constructor"
	case KindPropertyAsVariable:
		return "property"
	}
	return "function"
}

// Visibility of a declaration.
type Visibility int

const (
	Public Visibility = iota
	Private
)

// TypeParam is a type parameter declared on a callable.
type TypeParam struct {
	Name        string
	Variance    typesystem.Variance
	UpperBounds []typesystem.Type
	Index       int
}

// ValueParam is a formal value parameter.
type ValueParam struct {
	Name          string
	Type          typesystem.Type
	VarargElement typesystem.Type // non-nil marks a vararg parameter
	HasDefault    bool
	Index         int
}

// Callable is the shared descriptor record for functions, constructors and
// properties used as call targets. Constructed once from declaration
// resolution, immutable afterwards, and shared by reference across resolution
// attempts.
type Callable struct {
	Kind       CallableKind
	Name       string
	TypeParams []*TypeParam
	Params     []*ValueParam
	Receiver   typesystem.Type // extension receiver type, nil for non-extensions
	This       typesystem.Type // dispatch receiver type, nil for non-members
	Return     typesystem.Type
	Visibility Visibility
	OwnerClass string // constructed/owning class, "" for top-level declarations
	Overrides  []*Callable
	IsLocal    bool
}

func (c *Callable) String() string {
	if c.Kind == KindConstructor {
		return fmt.Sprintf("constructor %s", c.OwnerClass)
	}
	return fmt.Sprintf("%s %s", c.Kind, c.Name)
}

// IsGeneric reports whether the callable declares type parameters.
func (c *Callable) IsGeneric() bool { return len(c.TypeParams) > 0 }

// TypeParamNames returns the declared type parameter names in order.
func (c *Callable) TypeParamNames() []string {
	names := make([]string, len(c.TypeParams))
	for i, tp := range c.TypeParams {
		names[i] = tp.Name
	}
	return names
}

// OverridesDeclaration reports whether c (transitively) overrides other.
func (c *Callable) OverridesDeclaration(other *Callable) bool {
	for _, o := range c.Overrides {
		if o == other || o.OverridesDeclaration(other) {
			return true
		}
	}
	return false
}

// Substitute returns a copy of c with the substitution applied to every
// parameter, receiver and return type. Type parameters resolved by the
// substitution are dropped from the copy.
func (c *Callable) Substitute(s typesystem.Subst) *Callable {
	out := *c
	out.Params = make([]*ValueParam, len(c.Params))
	for i, p := range c.Params {
		np := *p
		np.Type = applyOrNil(p.Type, s)
		np.VarargElement = applyOrNil(p.VarargElement, s)
		out.Params[i] = &np
	}
	out.Receiver = applyOrNil(c.Receiver, s)
	out.This = applyOrNil(c.This, s)
	out.Return = applyOrNil(c.Return, s)

	var remaining []*TypeParam
	for _, tp := range c.TypeParams {
		if _, resolved := s[tp.Name]; !resolved {
			remaining = append(remaining, tp)
		}
	}
	out.TypeParams = remaining
	return &out
}

// FreshTypeParameters alpha-converts the callable's type parameters to fresh
// names so that a recursive call does not unify a parameter with itself. The
// returned substitution maps old names to the fresh variables.
func (c *Callable) FreshTypeParameters(fresh func() string) (*Callable, typesystem.Subst) {
	if !c.IsGeneric() {
		return c, typesystem.Subst{}
	}
	rename := make(typesystem.Subst, len(c.TypeParams))
	freshParams := make([]*TypeParam, len(c.TypeParams))
	for i, tp := range c.TypeParams {
		name := fresh()
		rename[tp.Name] = typesystem.TVar{Name: name}
		freshParams[i] = &TypeParam{Name: name, Variance: tp.Variance, Index: tp.Index}
	}
	// Bounds may reference sibling parameters, so rename them after all fresh
	// names exist.
	for i, tp := range c.TypeParams {
		for _, bound := range tp.UpperBounds {
			freshParams[i].UpperBounds = append(freshParams[i].UpperBounds, bound.Apply(rename))
		}
	}
	out := c.Substitute(rename)
	out.TypeParams = freshParams
	return out, rename
}

// AsInvokable converts a function-typed property or variable into a callable
// with positional parameters derived from its function type.
func (c *Callable) AsInvokable() (*Callable, bool) {
	if c.Kind != KindPropertyAsVariable {
		return c, true
	}
	fn, ok := c.Return.(typesystem.TFunc)
	if !ok || fn.Null {
		return nil, false
	}
	out := *c
	out.Params = make([]*ValueParam, len(fn.Params))
	for i, p := range fn.Params {
		out.Params[i] = &ValueParam{Name: fmt.Sprintf("p%d", i+1), Type: p, Index: i}
	}
	out.Return = fn.Return
	return &out, true
}

func applyOrNil(t typesystem.Type, s typesystem.Subst) typesystem.Type {
	if t == nil {
		return nil
	}
	return t.Apply(s)
}
