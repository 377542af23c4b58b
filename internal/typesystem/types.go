package typesystem

import (
	"fmt"
	"strings"
)

// Type is the interface for all types in our system.
//
// A type is either the error sentinel or has a valid constructor; nullability
// is orthogonal to constructor identity, so Int and Int? are distinct types
// that share substitution behavior.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
	IsNullable() bool
	WithNullability(nullable bool) Type
}

// TVar references a declared type parameter (e.g. 'T'). During inference the
// constraint system registers fresh TVars as unknowns.
type TVar struct {
	Name string
	Null bool
}

func (t TVar) String() string {
	if t.Null {
		return t.Name + "?"
	}
	return t.Name
}

func (t TVar) IsNullable() bool { return t.Null }

func (t TVar) WithNullability(nullable bool) Type {
	t.Null = nullable
	return t
}

func (t TVar) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TVar) FreeTypeVariables() []TVar {
	return []TVar{{Name: t.Name}}
}

// TCon represents a class type: a named constructor with ordered type
// arguments (e.g. Int, List<Int>, Map<String, T>).
type TCon struct {
	Name string
	Args []Type
	Null bool
}

func (t TCon) String() string {
	s := t.Name
	if len(t.Args) > 0 {
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.String()
		}
		s += "<" + strings.Join(args, ", ") + ">"
	}
	if t.Null {
		s += "?"
	}
	return s
}

func (t TCon) IsNullable() bool { return t.Null }

func (t TCon) WithNullability(nullable bool) Type {
	t.Null = nullable
	return t
}

func (t TCon) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TCon) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, a := range t.Args {
		vars = append(vars, a.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TFunc represents a function type (e.g. (Int, Int) -> Boolean).
type TFunc struct {
	Params []Type
	Return Type
	Null   bool
}

func (t TFunc) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	s := fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), t.Return.String())
	if t.Null {
		return "(" + s + ")?"
	}
	return s
}

func (t TFunc) IsNullable() bool { return t.Null }

func (t TFunc) WithNullability(nullable bool) Type {
	t.Null = nullable
	return t
}

func (t TFunc) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TFunc) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, p := range t.Params {
		vars = append(vars, p.FreeTypeVariables()...)
	}
	vars = append(vars, t.Return.FreeTypeVariables()...)
	return uniqueTVars(vars)
}

// TError is the error sentinel. It is a subtype and supertype of everything so
// that one unresolved sub-expression does not cascade failures.
//
// The don't-care variant is the placeholder substituted for not-yet-inferred
// type variables on the first inference pass; constraints against it are
// silently discarded.
type TError struct {
	DontCare bool
}

func (t TError) String() string {
	if t.DontCare {
		return "<dont-care>"
	}
	return "<error>"
}

func (t TError) IsNullable() bool          { return false }
func (t TError) WithNullability(bool) Type { return t }
func (t TError) Apply(Subst) Type          { return t }
func (t TError) FreeTypeVariables() []TVar { return nil }

// ErrorType returns the error sentinel.
func ErrorType() Type { return TError{} }

// DontCareType returns the don't-care placeholder.
func DontCareType() Type { return TError{DontCare: true} }

// IsErrorType reports whether t is the error sentinel (including don't-care).
func IsErrorType(t Type) bool {
	_, ok := t.(TError)
	return ok
}

// IsDontCare reports whether t is the don't-care placeholder.
func IsDontCare(t Type) bool {
	e, ok := t.(TError)
	return ok && e.DontCare
}

// MakeNullable returns t with its nullability flag set.
func MakeNullable(t Type) Type { return t.WithNullability(true) }

// MakeNotNullable returns t with its nullability flag cleared.
func MakeNotNullable(t Type) Type { return t.WithNullability(false) }

// Subst is a mapping from type variable names to Types.
type Subst map[string]Type

// Compose combines two substitutions.
func (s1 Subst) Compose(s2 Subst) Subst {
	subst := Subst{}
	for k, v := range s2 {
		subst[k] = v
	}
	for k, v := range s1 {
		subst[k] = v.Apply(s2)
	}
	return subst
}

// ApplyWithCycleCheck applies substitution with cycle detection.
// This is the main entry point for substitution application.
//
// Substitution is capture-avoiding: replacing a variable with a type that
// itself mentions a still-unresolved variable keeps substituting recursively
// with the same mapping, and a nullable variable occurrence keeps its
// nullability on the replacement.
func ApplyWithCycleCheck(t Type, s Subst, visited map[string]bool) Type {
	if t == nil {
		return nil
	}

	switch typ := t.(type) {
	case TVar:
		if visited[typ.Name] {
			return typ // break cycle
		}
		replacement, ok := s[typ.Name]
		if !ok {
			return typ
		}
		if tv, ok := replacement.(TVar); ok && tv.Name == typ.Name {
			return typ
		}
		newVisited := copyVisited(visited)
		newVisited[typ.Name] = true
		result := ApplyWithCycleCheck(replacement, s, newVisited)
		if typ.Null && result != nil {
			result = result.WithNullability(true)
		}
		return result

	case TCon:
		if len(typ.Args) == 0 {
			return typ
		}
		newArgs := make([]Type, len(typ.Args))
		for i, a := range typ.Args {
			newArgs[i] = ApplyWithCycleCheck(a, s, visited)
		}
		return TCon{Name: typ.Name, Args: newArgs, Null: typ.Null}

	case TFunc:
		newParams := make([]Type, len(typ.Params))
		for i, p := range typ.Params {
			newParams[i] = ApplyWithCycleCheck(p, s, visited)
		}
		return TFunc{
			Params: newParams,
			Return: ApplyWithCycleCheck(typ.Return, s, visited),
			Null:   typ.Null,
		}

	default:
		return t.Apply(s)
	}
}

func copyVisited(m map[string]bool) map[string]bool {
	newMap := make(map[string]bool, len(m))
	for k, v := range m {
		newMap[k] = v
	}
	return newMap
}

// Equal reports structural equality of two types, including nullability.
func Equal(t1, t2 Type) bool {
	switch a := t1.(type) {
	case TVar:
		b, ok := t2.(TVar)
		return ok && a.Name == b.Name && a.Null == b.Null
	case TCon:
		b, ok := t2.(TCon)
		if !ok || a.Name != b.Name || a.Null != b.Null || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case TFunc:
		b, ok := t2.(TFunc)
		if !ok || a.Null != b.Null || len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return Equal(a.Return, b.Return)
	case TError:
		b, ok := t2.(TError)
		return ok && a.DontCare == b.DontCare
	}
	return false
}

// DependsOnTypeParameters reports whether t mentions any of the given type
// parameter names.
func DependsOnTypeParameters(t Type, names []string) bool {
	if t == nil {
		return false
	}
	for _, v := range t.FreeTypeVariables() {
		for _, name := range names {
			if v.Name == name {
				return true
			}
		}
	}
	return false
}

func uniqueTVars(vars []TVar) []TVar {
	unique := []TVar{}
	seen := map[string]bool{}
	for _, v := range vars {
		if !seen[v.Name] {
			seen[v.Name] = true
			unique = append(unique, v)
		}
	}
	return unique
}
