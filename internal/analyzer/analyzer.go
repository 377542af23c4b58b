// Package analyzer implements call resolution and type inference: candidate
// collection by priority, per-candidate applicability checking against
// temporary binding traces, two-phase type argument inference and
// specificity-based disambiguation.
package analyzer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lyralang/lyra/internal/ast"
	"github.com/lyralang/lyra/internal/config"
	"github.com/lyralang/lyra/internal/diagnostics"
	"github.com/lyralang/lyra/internal/symbols"
	"github.com/lyralang/lyra/internal/token"
	"github.com/lyralang/lyra/internal/typesystem"
)

// Engine analyzes one compilation unit. It owns the class registry, the
// declaration table and the resolution memo table; a fresh engine is built
// per unit.
type Engine struct {
	registry *typesystem.Registry
	checker  *typesystem.Checker
	table    *symbols.Table
	cfg      *config.Config
	file     string

	declarations map[ast.Node]*symbols.Callable
	memo         map[memoKey]*memoEntry
	passID       uuid.UUID
	freshCount   int
}

func NewEngine(cfg *config.Config, file string) *Engine {
	registry := typesystem.NewRegistry()
	return &Engine{
		registry:     registry,
		checker:      typesystem.NewChecker(registry),
		table:        symbols.NewTable(),
		cfg:          cfg,
		file:         file,
		declarations: make(map[ast.Node]*symbols.Callable),
		memo:         make(map[memoKey]*memoEntry),
	}
}

// Registry exposes the class registry, mainly to tests.
func (e *Engine) Registry() *typesystem.Registry { return e.registry }

// Checker exposes the subtype checker, mainly to tests observing its query
// counter.
func (e *Engine) Checker() *typesystem.Checker { return e.checker }

// Table exposes the declaration table.
func (e *Engine) Table() *symbols.Table { return e.table }

func (e *Engine) spanOf(tok token.Token) diagnostics.Span {
	return diagnostics.Span{Filename: e.file, Line: tok.Line, Column: tok.Column}
}

func (e *Engine) freshName() string {
	e.freshCount++
	return fmt.Sprintf("T#%d", e.freshCount)
}

// Analyze runs the declaration pass and then types every body in source
// order. Cancellation is cooperative: the context is polled at every call
// resolution and between statements, and a cancelled run leaves the trace
// exactly as committed so far, never with a half-applied candidate.
func (e *Engine) Analyze(ctx context.Context, program *ast.Program, trace *BindingTrace) error {
	e.passID = trace.PassID
	scope := symbols.NewUnitScope(e.table)
	rctx := resolutionContext{
		ctx:   ctx,
		trace: trace,
		scope: scope,
		facts: NewFlowFacts(),
	}

	e.collectDeclarations(rctx, program)

	for _, stmt := range program.Statements {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch node := stmt.(type) {
		case *ast.FunctionDeclaration:
			if err := e.analyzeFunction(rctx, node, nil); err != nil {
				return err
			}
		case *ast.ClassDeclaration:
			if err := e.analyzeClass(rctx, node); err != nil {
				return err
			}
		case *ast.ValDeclaration:
			if err := e.analyzeVal(rctx, node); err != nil {
				return err
			}
		case *ast.ExpressionStatement:
			if err := rctx.cancelled(); err != nil {
				return err
			}
			e.typeExpression(rctx, node.Expression, nil)
		}
	}
	return ctx.Err()
}

// analyzeFunction types a function body against its signature. A missing
// return annotation is filled in from the body, so declarations earlier in
// the file can be called with their inferred types by later code.
func (e *Engine) analyzeFunction(rctx resolutionContext, fn *ast.FunctionDeclaration, instance typesystem.Type) error {
	if fn.Body == nil {
		return nil
	}
	desc := e.declarations[fn]
	if desc == nil {
		return nil
	}

	var bodyScope *symbols.Scope
	switch {
	case instance != nil:
		bodyScope = rctx.scope.ChildInClass(desc.OwnerClass, instance)
	case desc.Receiver != nil:
		bodyScope = rctx.scope.ChildWithReceiver(desc.Receiver)
	default:
		bodyScope = rctx.scope.Child()
	}
	for _, p := range desc.Params {
		bodyScope.Declare(&symbols.Callable{
			Kind:   symbols.KindPropertyAsVariable,
			Name:   p.Name,
			Return: p.Type,
		})
	}

	bodyCtx := rctx
	bodyCtx.scope = bodyScope
	bodyCtx.typeParams = typeParamNames(desc, rctx.typeParams)
	if err := bodyCtx.cancelled(); err != nil {
		return err
	}

	e.checkDefaultValues(bodyCtx, fn.Params, desc.Params)

	bodyType := e.typeExpression(bodyCtx, fn.Body, desc.Return)
	if desc.Return == nil {
		desc.Return = bodyType
		return nil
	}
	if !e.checker.IsSubtypeOf(bodyType, desc.Return) {
		rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeTypeMismatch, e.spanOf(fn.Body.GetToken()),
			"body type %s does not match the declared return type %s", bodyType, desc.Return))
	}
	return nil
}

// analyzeClass resolves the superclass constructor invocations and then
// types every member body.
func (e *Engine) analyzeClass(rctx resolutionContext, cd *ast.ClassDeclaration) error {
	class := cd.Name.Value
	instance, ok := e.registry.DefaultInstance(class)
	if !ok {
		return nil
	}
	ctor := e.declarations[cd]

	classCtx := rctx
	classCtx.scope = rctx.scope.ChildInClass(class, instance)
	classCtx.typeParams = typeParamNames(ctor, rctx.typeParams)

	for _, entry := range cd.Supertypes {
		if entry.Call == nil {
			continue
		}
		initCtx := classCtx
		initScope := classCtx.scope.Child()
		if ctor != nil {
			for _, p := range ctor.Params {
				initScope.Declare(&symbols.Callable{
					Kind:   symbols.KindPropertyAsVariable,
					Name:   p.Name,
					Return: p.Type,
				})
			}
		}
		initCtx.scope = initScope
		if _, err := e.resolveCall(initCtx, entry.Call, SuperInitCall); err != nil {
			return err
		}
	}

	if ctor != nil {
		e.checkDefaultValues(classCtx, cd.CtorParams, ctor.Params)
	}

	for _, member := range cd.Members {
		if err := e.analyzeFunction(classCtx, member, instance); err != nil {
			return err
		}
	}
	return nil
}

// checkDefaultValues types each parameter default against the parameter's
// declared type.
func (e *Engine) checkDefaultValues(rctx resolutionContext, params []*ast.Param, descs []*symbols.ValueParam) {
	for i, p := range params {
		if p.Default == nil || i >= len(descs) {
			continue
		}
		expected := descs[i].Type
		got := e.typeExpression(rctx, p.Default, expected)
		if !e.checker.IsSubtypeOf(got, expected) {
			rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeTypeMismatch, e.spanOf(p.Default.GetToken()),
				"default value type %s does not match parameter type %s", got, expected))
		}
	}
}

func (e *Engine) analyzeVal(rctx resolutionContext, vd *ast.ValDeclaration) error {
	if err := rctx.cancelled(); err != nil {
		return err
	}
	desc := e.declarations[vd]
	if desc == nil || vd.Value == nil {
		return nil
	}
	valueType := e.typeExpression(rctx, vd.Value, desc.Return)
	if desc.Return == nil {
		desc.Return = valueType
		return nil
	}
	if !e.checker.IsSubtypeOf(valueType, desc.Return) {
		rctx.trace.Report(diagnostics.Errorf(diagnostics.CodeTypeMismatch, e.spanOf(vd.Value.GetToken()),
			"initializer type %s does not match the declared type %s", valueType, desc.Return))
	}
	return nil
}

func typeParamNames(desc *symbols.Callable, outer map[string]bool) map[string]bool {
	if desc == nil || len(desc.TypeParams) == 0 {
		return outer
	}
	names := make(map[string]bool, len(outer)+len(desc.TypeParams))
	for n := range outer {
		names[n] = true
	}
	for _, tp := range desc.TypeParams {
		names[tp.Name] = true
	}
	return names
}

// ResolveCall resolves a single call expression in the given scope. It is
// the public entry point for embedders and tests that drive resolution
// directly rather than through Analyze.
func (e *Engine) ResolveCall(ctx context.Context, trace Trace, scope *symbols.Scope, expr *ast.CallExpression, expected typesystem.Type) (*Result, error) {
	rctx := resolutionContext{
		ctx:          ctx,
		trace:        trace,
		scope:        scope,
		facts:        NewFlowFacts(),
		expectedType: expected,
	}
	return e.resolveCall(rctx, expr, FunctionCall)
}
