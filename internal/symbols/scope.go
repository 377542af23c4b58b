package symbols

import "github.com/lyralang/lyra/internal/typesystem"

// Scope is a lexical scope. Scopes nest from the top-level scope of a unit
// down through class bodies, function bodies and function literals.
type Scope struct {
	parent *Scope
	table  *Table

	locals map[string][]*Callable

	// implicitReceiver is set on scopes introduced by member function bodies.
	implicitReceiver typesystem.Type
	// enclosingClass names the class whose body encloses this scope, "" at
	// the top level. Visibility checks and this-expressions use it.
	enclosingClass string
}

// NewUnitScope returns the outermost scope over a declaration table.
func NewUnitScope(table *Table) *Scope {
	return &Scope{table: table, locals: make(map[string][]*Callable)}
}

// Child opens a nested block scope.
func (s *Scope) Child() *Scope {
	return &Scope{
		parent:           s,
		table:            s.table,
		locals:           make(map[string][]*Callable),
		enclosingClass:   s.enclosingClass,
		implicitReceiver: nil,
	}
}

// ChildInClass opens the scope of a member function body. The implicit
// receiver is the instance type of the owning class.
func (s *Scope) ChildInClass(class string, receiver typesystem.Type) *Scope {
	c := s.Child()
	c.enclosingClass = class
	c.implicitReceiver = receiver
	return c
}

// ChildWithReceiver opens the scope of an extension function body, where the
// receiver is implicit but no class body encloses the code.
func (s *Scope) ChildWithReceiver(receiver typesystem.Type) *Scope {
	c := s.Child()
	c.implicitReceiver = receiver
	return c
}

// Declare introduces a local value into this scope.
func (s *Scope) Declare(c *Callable) {
	c.IsLocal = true
	s.locals[c.Name] = append(s.locals[c.Name], c)
}

// LookupLocals walks the scope chain and returns every local declaration of
// name, innermost first.
func (s *Scope) LookupLocals(name string) []*Callable {
	var out []*Callable
	for cur := s; cur != nil; cur = cur.parent {
		out = append(out, cur.locals[name]...)
	}
	return out
}

// ImplicitReceivers returns the implicit receiver types in scope, innermost
// first.
func (s *Scope) ImplicitReceivers() []typesystem.Type {
	var out []typesystem.Type
	for cur := s; cur != nil; cur = cur.parent {
		if cur.implicitReceiver != nil {
			out = append(out, cur.implicitReceiver)
		}
	}
	return out
}

// EnclosingClass returns the name of the class whose body encloses this
// scope, or "".
func (s *Scope) EnclosingClass() string {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.enclosingClass != "" {
			return cur.enclosingClass
		}
	}
	return ""
}

// Table returns the unit declaration table.
func (s *Scope) Table() *Table { return s.table }

// IsVisible reports whether the declaration can be referenced from this
// scope. Private members are visible only inside their owning class; private
// top-level declarations are visible anywhere in their unit.
func (s *Scope) IsVisible(c *Callable) bool {
	if c.Visibility == Public || c.OwnerClass == "" {
		return true
	}
	return s.EnclosingClass() == c.OwnerClass
}
