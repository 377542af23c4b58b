package analyzer

import "github.com/lyralang/lyra/internal/typesystem"

// FlowFacts is the set of values known non-null at a program point, keyed by
// variable name. The expression typer narrows identifier types with it; the
// resolver itself never consults nullability facts beyond the types it is
// handed.
type FlowFacts struct {
	notNull map[string]bool
}

func NewFlowFacts() *FlowFacts {
	return &FlowFacts{notNull: make(map[string]bool)}
}

// WithNotNull returns facts extended with name known non-null.
func (f *FlowFacts) WithNotNull(name string) *FlowFacts {
	out := &FlowFacts{notNull: make(map[string]bool, len(f.notNull)+1)}
	for k := range f.notNull {
		out.notNull[k] = true
	}
	out.notNull[name] = true
	return out
}

// IsNotNull reports whether name is known non-null.
func (f *FlowFacts) IsNotNull(name string) bool { return f.notNull[name] }

// And intersects two fact sets. A value is known non-null after a join only
// when both branches knew it.
func (f *FlowFacts) And(other *FlowFacts) *FlowFacts {
	out := &FlowFacts{notNull: make(map[string]bool)}
	for k := range f.notNull {
		if other.notNull[k] {
			out.notNull[k] = true
		}
	}
	return out
}

// Narrow applies the facts to a declared type.
func (f *FlowFacts) Narrow(name string, t typesystem.Type) typesystem.Type {
	if t != nil && f.IsNotNull(name) {
		return typesystem.MakeNotNullable(t)
	}
	return t
}
