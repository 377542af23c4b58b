package pipeline

import (
	"github.com/lyralang/lyra/internal/analyzer"
	"github.com/lyralang/lyra/internal/lexer"
	"github.com/lyralang/lyra/internal/parser"
)

// ParseProcessor lexes and parses the source into an AST. Parse diagnostics
// go into the context; the AST is produced even for a broken file so the
// analyzer can still type what parsed.
type ParseProcessor struct{}

func (pp *ParseProcessor) Process(ctx *PipelineContext) *PipelineContext {
	p := parser.New(lexer.New(ctx.Source), ctx.FilePath)
	ctx.Program = p.ParseProgram()
	ctx.Diagnostics = append(ctx.Diagnostics, p.Diagnostics()...)
	return ctx
}

// AnalyzeProcessor runs declaration collection, call resolution and type
// inference over the parsed program and collects the binding trace.
type AnalyzeProcessor struct{}

func (ap *AnalyzeProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Program == nil {
		return ctx
	}
	eng := analyzer.NewEngine(ctx.Config, ctx.FilePath)
	trace := analyzer.NewBindingTrace()
	if err := eng.Analyze(ctx.Ctx, ctx.Program, trace); err != nil {
		ctx.Err = err
		return ctx
	}
	ctx.Trace = trace
	ctx.Diagnostics = append(ctx.Diagnostics, trace.Diagnostics()...)
	return ctx
}
