package analyzer

import (
	"github.com/lyralang/lyra/internal/ast"
	"github.com/lyralang/lyra/internal/diagnostics"
	"github.com/lyralang/lyra/internal/symbols"
)

// argumentMapping is the outcome of matching a call's arguments to a
// candidate's parameters, before any type checking.
type argumentMapping struct {
	status     Status
	argToParam map[*ast.Argument]*symbols.ValueParam
	defaulted  []*symbols.ValueParam
}

// mapArguments matches arguments to parameters: named arguments by name,
// positional arguments left to right with a trailing vararg absorbing the
// rest, defaults filling whatever stays open. Problems are reported to the
// trace; arguments that match no parameter stay unmapped but are still type
// checked later.
func (e *Engine) mapArguments(call *Call, callable *symbols.Callable, trace Trace) *argumentMapping {
	m := &argumentMapping{
		status:     Success,
		argToParam: make(map[*ast.Argument]*symbols.ValueParam),
	}

	byName := make(map[string]*symbols.ValueParam, len(callable.Params))
	for _, p := range callable.Params {
		byName[p.Name] = p
	}
	filled := make(map[*symbols.ValueParam]bool)

	next := 0
	sawNamed := false
	for _, arg := range call.Args {
		switch {
		case arg.Name != nil:
			sawNamed = true
			param, ok := byName[arg.Name.Value]
			if !ok {
				trace.Report(diagnostics.Errorf(diagnostics.CodeNamedParameterNotFound, e.spanOf(arg.Name.GetToken()),
					"no parameter named %q in %s", arg.Name.Value, callable))
				m.status = m.status.Combine(OtherError)
				continue
			}
			if filled[param] {
				trace.Report(diagnostics.Errorf(diagnostics.CodeArgumentPassedTwice, e.spanOf(arg.Name.GetToken()),
					"an argument for parameter %q was already passed", param.Name))
				m.status = m.status.Combine(OtherError)
				continue
			}
			if arg.Spread && param.VarargElement == nil {
				trace.Report(diagnostics.Errorf(diagnostics.CodeSpreadToNonVararg, e.spanOf(arg.Value.GetToken()),
					"spread argument passed to non-vararg parameter %q", param.Name))
				m.status = StrongError
				continue
			}
			filled[param] = true
			m.argToParam[arg] = param

		default:
			if sawNamed {
				trace.Report(diagnostics.Errorf(diagnostics.CodeMixingNamedAndPositional, e.spanOf(arg.Value.GetToken()),
					"positional argument after named arguments"))
				m.status = StrongError
				continue
			}
			// Skip parameters already taken by name, then land on the next
			// open one. A vararg parameter absorbs every remaining
			// positional argument.
			for next < len(callable.Params) && filled[callable.Params[next]] {
				next++
			}
			if next >= len(callable.Params) {
				trace.Report(diagnostics.Errorf(diagnostics.CodeTooManyArguments, e.spanOf(arg.Value.GetToken()),
					"too many arguments for %s", callable))
				m.status = m.status.Combine(OtherError)
				continue
			}
			param := callable.Params[next]
			if arg.Spread && param.VarargElement == nil {
				trace.Report(diagnostics.Errorf(diagnostics.CodeSpreadToNonVararg, e.spanOf(arg.Value.GetToken()),
					"spread argument passed to non-vararg parameter %q", param.Name))
				m.status = StrongError
				continue
			}
			m.argToParam[arg] = param
			if param.VarargElement == nil {
				filled[param] = true
				next++
			}
		}
	}

	for _, p := range callable.Params {
		if filled[p] || p.VarargElement != nil {
			continue
		}
		if p.HasDefault {
			m.defaulted = append(m.defaulted, p)
			continue
		}
		trace.Report(diagnostics.Errorf(diagnostics.CodeNoValueForParameter, e.spanOf(call.Expr.GetToken()),
			"no value passed for parameter %q", p.Name))
		m.status = m.status.Combine(OtherError)
	}
	return m
}
