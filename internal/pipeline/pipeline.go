package pipeline

import (
	"fmt"

	"github.com/funvibe/overload/internal/diagnostics"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline runs a fixture through its stages in order.
type Pipeline struct {
	stages []Processor
}

func New(stages ...Processor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes the stages. Errors do not stop the run, so every stage can
// report; stages skip work whose inputs an earlier stage failed to produce.
// A cancelled context stops the run before the next stage.
func (p *Pipeline) Run(ctx *PipelineContext) *PipelineContext {
	for i, stage := range p.stages {
		if err := ctx.Context.Err(); err != nil {
			ctx.AddError(diagnostics.Wrap(diagnostics.ErrR001, 0, err))
			return ctx
		}
		before := len(ctx.Errors)
		ctx = stage.Process(ctx)
		ctx.Logger.Debug("pipeline.stage",
			"stage", fmt.Sprintf("%T", stage),
			"index", i,
			"errors", len(ctx.Errors)-before)
	}
	return ctx
}
