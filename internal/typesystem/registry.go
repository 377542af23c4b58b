package typesystem

import (
	"fmt"

	"github.com/lyralang/lyra/internal/config"
)

// Variance is the declaration-site variance marker of a type parameter.
// Informational for call resolution; recorded for diagnostics only.
type Variance int

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

func (v Variance) String() string {
	switch v {
	case Covariant:
		return "out"
	case Contravariant:
		return "in"
	}
	return ""
}

// TypeParamInfo describes one declared type parameter of a class.
// Upper bounds may reference sibling parameters of the same declaration
// as TVars; cyclic references across siblings are rejected at declaration
// time, before the registry sees them.
type TypeParamInfo struct {
	Name        string
	Variance    Variance
	UpperBounds []Type
}

// ClassInfo is the registry entry for one class constructor. Supertypes are
// expressed in terms of the class's own type parameters.
type ClassInfo struct {
	Name       string
	TypeParams []TypeParamInfo
	Supertypes []Type
	Abstract   bool
	Open       bool
}

// Registry maps class names to their constructor info. It is built explicitly
// at startup and passed by reference into the checker; there is no hidden
// global, so tests instantiate isolated registries.
type Registry struct {
	classes map[string]*ClassInfo
}

// NewRegistry creates a registry seeded with the built-in types.
func NewRegistry() *Registry {
	r := &Registry{classes: make(map[string]*ClassInfo)}
	any := TCon{Name: config.AnyTypeName}

	r.classes[config.AnyTypeName] = &ClassInfo{Name: config.AnyTypeName, Open: true}
	r.classes[config.NothingTypeName] = &ClassInfo{Name: config.NothingTypeName}
	for _, name := range []string{config.UnitTypeName, config.BooleanTypeName, config.StringTypeName, config.NumberTypeName} {
		r.classes[name] = &ClassInfo{Name: name, Supertypes: []Type{any}}
	}
	r.classes[config.NumberTypeName].Open = true
	number := TCon{Name: config.NumberTypeName}
	r.classes[config.IntTypeName] = &ClassInfo{Name: config.IntTypeName, Supertypes: []Type{number}}
	r.classes[config.DoubleTypeName] = &ClassInfo{Name: config.DoubleTypeName, Supertypes: []Type{number}}
	r.classes[config.ArrayTypeName] = &ClassInfo{
		Name:       config.ArrayTypeName,
		TypeParams: []TypeParamInfo{{Name: "E"}},
		Supertypes: []Type{any},
	}
	return r
}

// Register adds a class to the registry.
func (r *Registry) Register(info *ClassInfo) error {
	if _, exists := r.classes[info.Name]; exists {
		return fmt.Errorf("class %s is already registered", info.Name)
	}
	r.classes[info.Name] = info
	return nil
}

// Lookup finds a class by name.
func (r *Registry) Lookup(name string) (*ClassInfo, bool) {
	info, ok := r.classes[name]
	return info, ok
}

// InstantiatedSupertypes returns the direct supertypes of t with t's type
// arguments substituted for the class's type parameters.
func (r *Registry) InstantiatedSupertypes(t TCon) []Type {
	info, ok := r.classes[t.Name]
	if !ok {
		return nil
	}
	if len(info.TypeParams) == 0 || len(t.Args) != len(info.TypeParams) {
		return info.Supertypes
	}
	subst := make(Subst, len(info.TypeParams))
	for i, p := range info.TypeParams {
		subst[p.Name] = t.Args[i]
	}
	result := make([]Type, len(info.Supertypes))
	for i, sup := range info.Supertypes {
		result[i] = sup.Apply(subst)
	}
	return result
}

// DefaultInstance returns the type for a class with its own parameters as
// arguments (e.g. List<T> for class List<T>).
func (r *Registry) DefaultInstance(name string) (TCon, bool) {
	info, ok := r.classes[name]
	if !ok {
		return TCon{}, false
	}
	args := make([]Type, len(info.TypeParams))
	for i, p := range info.TypeParams {
		args[i] = TVar{Name: p.Name}
	}
	if len(args) == 0 {
		args = nil
	}
	return TCon{Name: name, Args: args}, true
}
