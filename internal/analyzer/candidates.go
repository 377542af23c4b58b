package analyzer

import (
	"github.com/lyralang/lyra/internal/ast"
	"github.com/lyralang/lyra/internal/symbols"
	"github.com/lyralang/lyra/internal/typesystem"
)

// candidate pairs a callable with the receiver value it would be invoked on.
type candidate struct {
	callable *symbols.Callable
	// receiverType is the type of the value bound to the candidate's
	// receiver, nil when the candidate is applied without one.
	receiverType typesystem.Type
	// explicitReceiver marks candidates found through a written receiver
	// expression rather than an implicit one.
	explicitReceiver bool
}

// prioritizedTasks groups the candidates for a call by priority. Groups are
// tried strictly in order and resolution stops at the first group that
// produces a success or an ambiguity.
func (e *Engine) prioritizedTasks(call *Call, scope *symbols.Scope, receiverType typesystem.Type) [][]*candidate {
	switch callee := call.Callee.(type) {
	case *ast.ConstructorCallee:
		named, ok := callee.TypeRef.(*ast.NamedType)
		if !ok {
			return nil
		}
		return e.constructorTasks(named.Name.Value)
	case *ast.ThisExpression:
		return e.constructorTasks(scope.EnclosingClass())
	case *ast.MemberExpression:
		return e.receiverTasks(callee.Member.Value, receiverType)
	case *ast.Identifier:
		return e.nameTasks(callee.Value, scope)
	}
	return nil
}

func (e *Engine) constructorTasks(class string) [][]*candidate {
	var group []*candidate
	for _, ctor := range e.table.Constructors(class) {
		group = append(group, &candidate{callable: ctor})
	}
	if group == nil {
		return nil
	}
	return [][]*candidate{group}
}

// receiverTasks builds the groups for e.f(...): members of the receiver's
// class first, then extensions on the receiver.
func (e *Engine) receiverTasks(name string, receiverType typesystem.Type) [][]*candidate {
	var groups [][]*candidate
	if members := e.memberCandidates(receiverType, name, true); len(members) > 0 {
		groups = append(groups, members)
	}
	var exts []*candidate
	for _, ext := range e.table.Extensions(name) {
		exts = append(exts, &candidate{callable: ext, receiverType: receiverType, explicitReceiver: true})
	}
	if len(exts) > 0 {
		groups = append(groups, exts)
	}
	return groups
}

// nameTasks builds the groups for a plain-name call: locals, then members of
// each implicit receiver innermost first, then extensions on implicit
// receivers, then top-level functions, properties and constructors.
func (e *Engine) nameTasks(name string, scope *symbols.Scope) [][]*candidate {
	var groups [][]*candidate

	var locals []*candidate
	for _, l := range scope.LookupLocals(name) {
		locals = append(locals, &candidate{callable: l})
	}
	if len(locals) > 0 {
		groups = append(groups, locals)
	}

	receivers := scope.ImplicitReceivers()
	for _, recv := range receivers {
		if members := e.memberCandidates(recv, name, false); len(members) > 0 {
			groups = append(groups, members)
		}
	}
	for _, recv := range receivers {
		var exts []*candidate
		for _, ext := range e.table.Extensions(name) {
			exts = append(exts, &candidate{callable: ext, receiverType: recv})
		}
		if len(exts) > 0 {
			groups = append(groups, exts)
		}
	}

	var top []*candidate
	for _, c := range e.table.TopLevel(name) {
		top = append(top, &candidate{callable: c})
	}
	for _, ctor := range e.table.Constructors(name) {
		top = append(top, &candidate{callable: ctor})
	}
	if len(receivers) == 0 {
		// Extensions stay visible without a receiver in scope; they fail
		// with a receiver error, which reads better than an unresolved name.
		for _, ext := range e.table.Extensions(name) {
			top = append(top, &candidate{callable: ext})
		}
	}
	if len(top) > 0 {
		groups = append(groups, top)
	}
	return groups
}

// memberCandidates collects the members named name reachable from the
// receiver's class, walking the supertype chain and substituting class type
// arguments into the member signatures along the way.
func (e *Engine) memberCandidates(receiver typesystem.Type, name string, explicit bool) []*candidate {
	con, ok := typesystem.MakeNotNullable(receiver).(typesystem.TCon)
	if !ok {
		return nil
	}

	seen := map[string]bool{}
	queue := []typesystem.TCon{con}
	var out []*candidate

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur.Name] {
			continue
		}
		seen[cur.Name] = true

		subst := classSubst(e.registry, cur)
		for _, m := range e.table.Members(cur.Name, name) {
			c := m
			if len(subst) > 0 {
				c = m.Substitute(subst)
			}
			out = append(out, &candidate{callable: c, receiverType: receiver, explicitReceiver: explicit})
		}

		for _, super := range e.registry.InstantiatedSupertypes(cur) {
			if instantiated, ok := super.(typesystem.TCon); ok {
				queue = append(queue, instantiated)
			}
		}
	}
	return out
}

// classSubst maps a class's declared type parameters to the arguments of a
// concrete instance of it.
func classSubst(reg *typesystem.Registry, con typesystem.TCon) typesystem.Subst {
	info, ok := reg.Lookup(con.Name)
	if !ok || len(info.TypeParams) == 0 || len(info.TypeParams) != len(con.Args) {
		return typesystem.Subst{}
	}
	s := make(typesystem.Subst, len(info.TypeParams))
	for i, tp := range info.TypeParams {
		s[tp.Name] = con.Args[i]
	}
	return s
}
