package symbols

// Table holds every declaration of a compilation unit after the declarations
// pass. Lookups return descriptor slices because names overload.
type Table struct {
	topLevel     map[string][]*Callable
	extensions   map[string][]*Callable
	members      map[string]map[string][]*Callable
	constructors map[string][]*Callable
}

func NewTable() *Table {
	return &Table{
		topLevel:     make(map[string][]*Callable),
		extensions:   make(map[string][]*Callable),
		members:      make(map[string]map[string][]*Callable),
		constructors: make(map[string][]*Callable),
	}
}

// DeclareTopLevel records a top-level function, property or extension.
func (t *Table) DeclareTopLevel(c *Callable) {
	if c.Receiver != nil {
		t.extensions[c.Name] = append(t.extensions[c.Name], c)
		return
	}
	t.topLevel[c.Name] = append(t.topLevel[c.Name], c)
}

// DeclareMember records a member function or property of class.
func (t *Table) DeclareMember(class string, c *Callable) {
	byName := t.members[class]
	if byName == nil {
		byName = make(map[string][]*Callable)
		t.members[class] = byName
	}
	byName[c.Name] = append(byName[c.Name], c)
}

// DeclareConstructor records a constructor of class.
func (t *Table) DeclareConstructor(class string, c *Callable) {
	t.constructors[class] = append(t.constructors[class], c)
}

// TopLevel returns the non-extension top-level declarations named name.
func (t *Table) TopLevel(name string) []*Callable { return t.topLevel[name] }

// Extensions returns the extension declarations named name.
func (t *Table) Extensions(name string) []*Callable { return t.extensions[name] }

// Members returns the declarations named name owned directly by class,
// without walking supertypes.
func (t *Table) Members(class, name string) []*Callable {
	if byName := t.members[class]; byName != nil {
		return byName[name]
	}
	return nil
}

// AllMembers returns every member of class, for diagnostics.
func (t *Table) AllMembers(class string) []*Callable {
	byName := t.members[class]
	if byName == nil {
		return nil
	}
	var out []*Callable
	for _, cs := range byName {
		out = append(out, cs...)
	}
	return out
}

// Constructors returns the constructors of class.
func (t *Table) Constructors(class string) []*Callable { return t.constructors[class] }

// HasClass reports whether class has any recorded constructor or member,
// which is how the table knows a name denotes a class.
func (t *Table) HasClass(class string) bool {
	if _, ok := t.constructors[class]; ok {
		return true
	}
	_, ok := t.members[class]
	return ok
}
