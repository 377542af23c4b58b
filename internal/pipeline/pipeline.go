package pipeline

import (
	"context"

	"github.com/lyralang/lyra/internal/analyzer"
	"github.com/lyralang/lyra/internal/ast"
	"github.com/lyralang/lyra/internal/config"
	"github.com/lyralang/lyra/internal/diagnostics"
)

// PipelineContext carries one source file through the processing stages.
type PipelineContext struct {
	Ctx      context.Context
	Source   string
	FilePath string
	Config   *config.Config

	Program     *ast.Program
	Trace       *analyzer.BindingTrace
	Diagnostics []diagnostics.Diagnostic

	// Err is set when a stage aborts, for example on cancellation. It is
	// distinct from Diagnostics, which are findings about the source.
	Err error
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{Ctx: context.Background(), Source: source}
}

// HasErrors reports whether any error-severity diagnostic was collected.
func (c *PipelineContext) HasErrors() bool {
	for _, d := range c.Diagnostics {
		if d.Severity == diagnostics.SeverityError {
			return true
		}
	}
	return false
}

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		if ctx.Err != nil {
			return ctx
		}
		ctx = processor.Process(ctx)
		// Continue on diagnostics so later stages still run on a
		// partially broken file and tooling sees every finding.
	}
	return ctx
}

// Check runs the full front end over one source file and returns the final
// context. It is the entry point used by the command line and the tests.
func Check(ctx context.Context, cfg *config.Config, filePath, source string) *PipelineContext {
	pctx := NewPipelineContext(source)
	pctx.Ctx = ctx
	pctx.FilePath = filePath
	pctx.Config = cfg
	return New(&ParseProcessor{}, &AnalyzeProcessor{}).Run(pctx)
}
