package analyzer

import (
	"github.com/lyralang/lyra/internal/ast"
	"github.com/lyralang/lyra/internal/config"
	"github.com/lyralang/lyra/internal/diagnostics"
	"github.com/lyralang/lyra/internal/symbols"
	"github.com/lyralang/lyra/internal/token"
	"github.com/lyralang/lyra/internal/typesystem"
)

// resolveTypeRef converts a syntactic type reference into a semantic type.
// Unknown names are reported and become the error type, which later checks
// absorb instead of repeating the complaint.
func (e *Engine) resolveTypeRef(rctx resolutionContext, ref ast.Type) typesystem.Type {
	switch node := ref.(type) {
	case *ast.NamedType:
		name := node.Name.Value
		if rctx.typeParams[name] {
			if len(node.Args) > 0 {
				rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeWrongTypeArgumentCount, e.spanOf(node.GetToken()),
					"type parameter %s takes no type arguments", name))
			}
			return typesystem.TVar{Name: name, Null: node.Nullable}
		}
		info, ok := e.registry.Lookup(name)
		if !ok {
			rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeUnknownType, e.spanOf(node.GetToken()),
				"unknown type: %s", name))
			return typesystem.ErrorType()
		}
		if len(node.Args) != len(info.TypeParams) {
			rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeWrongTypeArgumentCount, e.spanOf(node.GetToken()),
				"%s expects %d type arguments, got %d", name, len(info.TypeParams), len(node.Args)))
			return typesystem.ErrorType()
		}
		var args []typesystem.Type
		for _, a := range node.Args {
			args = append(args, e.resolveTypeRef(rctx, a))
		}
		return typesystem.TCon{Name: name, Args: args, Null: node.Nullable}

	case *ast.FunctionType:
		var params []typesystem.Type
		for _, p := range node.Params {
			params = append(params, e.resolveTypeRef(rctx, p))
		}
		ret := e.resolveTypeRef(rctx, node.Return)
		return typesystem.TFunc{Params: params, Return: ret, Null: node.Nullable}
	}
	return typesystem.ErrorType()
}

// resolveTypeArgs resolves the explicit type arguments of a call. ok is
// false when any of them failed to resolve.
func (e *Engine) resolveTypeArgs(rctx resolutionContext, refs []ast.Type) ([]typesystem.Type, bool) {
	if len(refs) == 0 {
		return nil, true
	}
	out := make([]typesystem.Type, len(refs))
	ok := true
	for i, ref := range refs {
		out[i] = e.resolveTypeRef(rctx, ref)
		if typesystem.IsErrorType(out[i]) {
			ok = false
		}
	}
	return out, ok
}

// collectDeclarations builds the class registry and the declaration table
// from the program, before any body is analyzed. Classes register first so
// that signatures can reference each other regardless of source order.
func (e *Engine) collectDeclarations(rctx resolutionContext, program *ast.Program) {
	var classes []*ast.ClassDeclaration
	for _, stmt := range program.Statements {
		if cd, ok := stmt.(*ast.ClassDeclaration); ok {
			classes = append(classes, cd)
		}
	}

	for _, cd := range classes {
		info := &typesystem.ClassInfo{Name: cd.Name.Value, Abstract: cd.Abstract, Open: cd.Open}
		for _, tp := range cd.TypeParams {
			info.TypeParams = append(info.TypeParams, typesystem.TypeParamInfo{
				Name:     tp.Name.Value,
				Variance: varianceOf(tp.Variance),
			})
		}
		if err := e.registry.Register(info); err != nil {
			rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeDuplicateDeclaration, e.spanOf(cd.GetToken()),
				"redeclaration of %s", cd.Name.Value))
		}
	}

	for _, cd := range classes {
		e.collectClass(rctx, cd)
	}
	for _, stmt := range program.Statements {
		switch decl := stmt.(type) {
		case *ast.FunctionDeclaration:
			e.collectTopLevelFunction(rctx, decl)
		case *ast.ValDeclaration:
			e.collectTopLevelVal(rctx, decl)
		}
	}
}

func varianceOf(marker string) typesystem.Variance {
	switch marker {
	case "out":
		return typesystem.Covariant
	case "in":
		return typesystem.Contravariant
	}
	return typesystem.Invariant
}

// collectClass finishes a registered class: supertypes, the primary
// constructor, val parameters as properties and the member functions.
func (e *Engine) collectClass(rctx resolutionContext, cd *ast.ClassDeclaration) {
	class := cd.Name.Value
	info, ok := e.registry.Lookup(class)
	if !ok {
		return
	}

	tparams, names := e.buildTypeParams(rctx, cd.TypeParams, nil)
	classCtx := rctx
	classCtx.typeParams = names
	e.checkSiblingBoundCycles(classCtx, cd.GetToken(), tparams)
	for i, tp := range tparams {
		if i < len(info.TypeParams) {
			info.TypeParams[i].UpperBounds = tp.UpperBounds
		}
	}

	for _, entry := range cd.Supertypes {
		resolved := e.resolveTypeRef(classCtx, entry.Type)
		if typesystem.IsErrorType(resolved) {
			continue
		}
		if sc, ok := resolved.(typesystem.TCon); ok {
			if superInfo, known := e.registry.Lookup(sc.Name); known && !superInfo.Open && !superInfo.Abstract {
				rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeSupertypeNotOpen, e.spanOf(entry.Type.GetToken()),
					"%s is final and cannot be subclassed", sc.Name))
			}
		}
		// The relation is kept even when the supertype is final so that
		// member lookup through it still works.
		info.Supertypes = append(info.Supertypes, resolved)
	}
	if len(info.Supertypes) == 0 {
		info.Supertypes = []typesystem.Type{typesystem.AnyType()}
	}

	instance, _ := e.registry.DefaultInstance(class)

	visibility := symbols.Public
	if cd.Private {
		visibility = symbols.Private
	}
	ctor := &symbols.Callable{
		Kind:       symbols.KindConstructor,
		Name:       class,
		TypeParams: tparams,
		Params:     e.buildParams(classCtx, cd.CtorParams),
		Return:     instance,
		Visibility: visibility,
		OwnerClass: class,
	}
	e.table.DeclareConstructor(class, ctor)
	e.declarations[cd] = ctor

	for _, p := range cd.CtorParams {
		if !p.IsVal {
			continue
		}
		e.table.DeclareMember(class, &symbols.Callable{
			Kind:       symbols.KindPropertyAsVariable,
			Name:       p.Name.Value,
			This:       instance,
			Return:     e.resolveTypeRef(classCtx, p.Type),
			OwnerClass: class,
		})
	}

	for _, member := range cd.Members {
		e.collectMember(classCtx, cd, member, instance)
	}
}

func (e *Engine) collectMember(classCtx resolutionContext, cd *ast.ClassDeclaration, fn *ast.FunctionDeclaration, instance typesystem.TCon) {
	class := cd.Name.Value
	tparams, names := e.buildTypeParams(classCtx, fn.TypeParams, classCtx.typeParams)
	fnCtx := classCtx
	fnCtx.typeParams = names
	e.checkSiblingBoundCycles(fnCtx, fn.GetToken(), tparams)

	visibility := symbols.Public
	if fn.Private {
		visibility = symbols.Private
	}
	desc := &symbols.Callable{
		Kind:       symbols.KindFunction,
		Name:       fn.Name.Value,
		TypeParams: tparams,
		Params:     e.buildParams(fnCtx, fn.Params),
		This:       instance,
		Visibility: visibility,
		OwnerClass: class,
	}
	if fn.ReturnType != nil {
		desc.Return = e.resolveTypeRef(fnCtx, fn.ReturnType)
	}
	if fn.Override {
		desc.Overrides = e.findOverridden(class, desc)
	}
	e.table.DeclareMember(class, desc)
	e.declarations[fn] = desc
}

// findOverridden locates the supertype members a declaration overrides,
// matched by name and parameter count.
func (e *Engine) findOverridden(class string, desc *symbols.Callable) []*symbols.Callable {
	info, ok := e.registry.Lookup(class)
	if !ok {
		return nil
	}
	var out []*symbols.Callable
	for _, super := range info.Supertypes {
		sc, ok := super.(typesystem.TCon)
		if !ok {
			continue
		}
		for _, cand := range e.memberCandidates(sc, desc.Name, false) {
			if cand.callable.Kind == symbols.KindFunction && len(cand.callable.Params) == len(desc.Params) {
				out = append(out, cand.callable)
			}
		}
	}
	return out
}

func (e *Engine) collectTopLevelFunction(rctx resolutionContext, fn *ast.FunctionDeclaration) {
	tparams, names := e.buildTypeParams(rctx, fn.TypeParams, nil)
	fnCtx := rctx
	fnCtx.typeParams = names
	e.checkSiblingBoundCycles(fnCtx, fn.GetToken(), tparams)

	visibility := symbols.Public
	if fn.Private {
		visibility = symbols.Private
	}
	desc := &symbols.Callable{
		Kind:       symbols.KindFunction,
		Name:       fn.Name.Value,
		TypeParams: tparams,
		Params:     e.buildParams(fnCtx, fn.Params),
		Visibility: visibility,
	}
	if fn.Receiver != nil {
		desc.Receiver = e.resolveTypeRef(fnCtx, fn.Receiver)
	}
	if fn.ReturnType != nil {
		desc.Return = e.resolveTypeRef(fnCtx, fn.ReturnType)
	}
	e.table.DeclareTopLevel(desc)
	e.declarations[fn] = desc
}

func (e *Engine) collectTopLevelVal(rctx resolutionContext, vd *ast.ValDeclaration) {
	desc := &symbols.Callable{
		Kind: symbols.KindPropertyAsVariable,
		Name: vd.Name.Value,
	}
	if vd.Private {
		desc.Visibility = symbols.Private
	}
	if vd.TypeAnnotation != nil {
		desc.Return = e.resolveTypeRef(rctx, vd.TypeAnnotation)
	}
	e.table.DeclareTopLevel(desc)
	e.declarations[vd] = desc
}

func (e *Engine) buildParams(rctx resolutionContext, ps []*ast.Param) []*symbols.ValueParam {
	var out []*symbols.ValueParam
	for i, p := range ps {
		vp := &symbols.ValueParam{
			Name:       p.Name.Value,
			Type:       e.resolveTypeRef(rctx, p.Type),
			HasDefault: p.Default != nil,
			Index:      i,
		}
		if p.Vararg {
			vp.VarargElement = vp.Type
			vp.Type = typesystem.TCon{Name: config.ArrayTypeName, Args: []typesystem.Type{vp.VarargElement}}
		}
		out = append(out, vp)
	}
	return out
}

// buildTypeParams resolves declared type parameters. Sibling parameters are
// in scope inside each other's bounds, on top of any outer parameters.
func (e *Engine) buildTypeParams(rctx resolutionContext, tps []*ast.TypeParam, outer map[string]bool) ([]*symbols.TypeParam, map[string]bool) {
	names := make(map[string]bool, len(tps)+len(outer))
	for n := range outer {
		names[n] = true
	}
	for _, tp := range tps {
		names[tp.Name.Value] = true
	}

	boundCtx := rctx
	boundCtx.typeParams = names

	out := make([]*symbols.TypeParam, len(tps))
	for i, tp := range tps {
		built := &symbols.TypeParam{
			Name:     tp.Name.Value,
			Variance: varianceOf(tp.Variance),
			Index:    i,
		}
		for _, bound := range tp.UpperBounds {
			built.UpperBounds = append(built.UpperBounds, e.resolveTypeRef(boundCtx, bound))
		}
		out[i] = built
	}
	return out, names
}

// checkSiblingBoundCycles rejects declarations where sibling type parameter
// bounds reference each other in a cycle, like <A : B, B : A>.
func (e *Engine) checkSiblingBoundCycles(rctx resolutionContext, at token.Token, tparams []*symbols.TypeParam) {
	siblings := make(map[string]bool, len(tparams))
	for _, tp := range tparams {
		siblings[tp.Name] = true
	}
	edges := make(map[string][]string)
	for _, tp := range tparams {
		for _, bound := range tp.UpperBounds {
			for _, fv := range bound.FreeTypeVariables() {
				if siblings[fv.Name] {
					edges[tp.Name] = append(edges[tp.Name], fv.Name)
				}
			}
		}
	}

	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int)
	var visit func(name string) bool
	visit = func(name string) bool {
		switch state[name] {
		case visiting:
			return true
		case done:
			return false
		}
		state[name] = visiting
		for _, next := range edges[name] {
			if visit(next) {
				return true
			}
		}
		state[name] = done
		return false
	}
	for _, tp := range tparams {
		if visit(tp.Name) {
			rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeCyclicUpperBound, e.spanOf(at),
				"type parameter %s has a cyclic upper bound", tp.Name))
			return
		}
	}
}
