package typesystem

import "github.com/lyralang/lyra/internal/config"

// Checker answers subtyping queries against one registry.
//
// SubtypeQueries counts every top-level IsSubtypeOf call. The resolver is
// required to answer repeated resolution of one call site from its memo table,
// and tests observe that through this counter.
type Checker struct {
	Registry       *Registry
	SubtypeQueries int
}

func NewChecker(registry *Registry) *Checker {
	return &Checker{Registry: registry}
}

// IsSubtypeOf reports whether a is a subtype of b.
//
// Nullability rule: a nullable type is a subtype of b only if b is nullable.
// Flow-sensitive narrowing is applied by the caller (via MakeNotNullable)
// before asking, never recomputed here.
func (c *Checker) IsSubtypeOf(a, b Type) bool {
	c.SubtypeQueries++
	return c.isSubtypeOf(a, b)
}

func (c *Checker) isSubtypeOf(a, b Type) bool {
	if IsErrorType(a) || IsErrorType(b) {
		return true
	}
	if a.IsNullable() && !b.IsNullable() {
		return false
	}

	switch sub := a.(type) {
	case TVar:
		if bv, ok := b.(TVar); ok {
			return sub.Name == bv.Name
		}
		// A rigid variable is only known to be a subtype of Any and of its
		// declared bounds; bounds are checked by the constraint system.
		if bc, ok := b.(TCon); ok {
			return bc.Name == config.AnyTypeName
		}
		return false

	case TCon:
		if sub.Name == config.NothingTypeName {
			return true
		}
		if bc, ok := b.(TCon); ok {
			return c.conSubtype(sub, bc)
		}
		return false

	case TFunc:
		if bc, ok := b.(TCon); ok {
			return bc.Name == config.AnyTypeName
		}
		bf, ok := b.(TFunc)
		if !ok || len(sub.Params) != len(bf.Params) {
			return false
		}
		for i := range sub.Params {
			if !c.isSubtypeOf(bf.Params[i], sub.Params[i]) {
				return false
			}
		}
		return c.isSubtypeOf(sub.Return, bf.Return)
	}
	return false
}

func (c *Checker) conSubtype(a, b TCon) bool {
	if b.Name == config.AnyTypeName {
		return true
	}
	instance, ok := c.SupertypeInstance(a, b.Name)
	if !ok {
		return false
	}
	if len(instance.Args) != len(b.Args) {
		return false
	}
	// Type arguments are compared invariantly; declaration-site variance is
	// informational in this core.
	for i := range instance.Args {
		if !Equal(instance.Args[i], b.Args[i]) {
			return false
		}
	}
	return true
}

// SupertypeInstance walks a's supertype graph looking for an instantiation of
// the class named want.
func (c *Checker) SupertypeInstance(a TCon, want string) (TCon, bool) {
	if a.Name == want {
		return a, true
	}
	seen := map[string]bool{a.Name: true}
	queue := c.Registry.InstantiatedSupertypes(a)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		sup, ok := next.(TCon)
		if !ok {
			continue
		}
		if sup.Name == want {
			return sup, true
		}
		if seen[sup.Name] {
			continue
		}
		seen[sup.Name] = true
		queue = append(queue, c.Registry.InstantiatedSupertypes(sup)...)
	}
	return TCon{}, false
}

// CommonSupertype computes the most specific common supertype of the given
// types. Error types are absorbed; the result is nullable when any input is.
func (c *Checker) CommonSupertype(types []Type) Type {
	var result Type
	nullable := false
	for _, t := range types {
		if t == nil || IsErrorType(t) {
			continue
		}
		if t.IsNullable() {
			nullable = true
		}
		t = MakeNotNullable(t)
		if result == nil {
			result = t
			continue
		}
		result = c.join(result, t)
	}
	if result == nil {
		return ErrorType()
	}
	if nullable {
		result = MakeNullable(result)
	}
	return result
}

func (c *Checker) join(a, b Type) Type {
	if c.isSubtypeOf(a, b) {
		return b
	}
	if c.isSubtypeOf(b, a) {
		return a
	}
	// Walk a's supertype chain for the first class b also fits under.
	if ac, ok := a.(TCon); ok {
		queue := c.Registry.InstantiatedSupertypes(ac)
		for len(queue) > 0 {
			next := queue[0]
			queue = queue[1:]
			if c.isSubtypeOf(b, next) {
				return next
			}
			if sup, ok := next.(TCon); ok {
				queue = append(queue, c.Registry.InstantiatedSupertypes(sup)...)
			}
		}
	}
	return TCon{Name: config.AnyTypeName}
}
