package fixture

import (
	"os"

	"github.com/funvibe/overload/internal/diagnostics"
	"github.com/funvibe/overload/internal/pipeline"
	"github.com/funvibe/overload/internal/resolve"
)

// ReadProcessor loads ctx.Source from ctx.FilePath unless it is already set.
type ReadProcessor struct{}

func (rp *ReadProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Source != nil {
		return ctx
	}
	data, err := os.ReadFile(ctx.FilePath)
	if err != nil {
		ctx.AddError(diagnostics.Wrap(diagnostics.ErrF001, 0, err))
		return ctx
	}
	ctx.Source = data
	return ctx
}

// LoadProcessor parses ctx.Source and builds the hierarchy, scopes and calls.
type LoadProcessor struct{}

func (lp *LoadProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Source == nil {
		return ctx
	}
	f, err := Parse(ctx.Source)
	if err != nil {
		ctx.AddError(diagnostics.Wrap(diagnostics.ErrF002, 0, err))
		return ctx
	}
	Build(f, ctx)
	return ctx
}

// ResolveProcessor runs every call and records an Outcome per call.
type ResolveProcessor struct{}

func (rp *ResolveProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Hierarchy == nil {
		return ctx
	}
	opts := []resolve.Option{resolve.WithLogger(ctx.Logger)}

	for _, call := range ctx.Calls {
		out, err := resolveCall(ctx, call, opts)
		if err != nil {
			ctx.AddError(diagnostics.Wrap(diagnostics.ErrR001, call.Line, err))
			if ctx.Context.Err() != nil {
				// Cancelled: the remaining calls would fail the same way
				return ctx
			}
			continue
		}
		ctx.Outcomes = append(ctx.Outcomes, out)
	}
	return ctx
}

func resolveCall(ctx *pipeline.PipelineContext, call pipeline.Call, opts []resolve.Option) (pipeline.Outcome, error) {
	if !call.Across {
		p, err := resolve.Resolve(ctx.Context, call.Site, ctx.Hierarchy, ctx.Scope, opts...)
		if err != nil {
			return pipeline.Outcome{}, err
		}
		return pipeline.Outcome{Call: call, Result: p.Result(), Explanations: p.Explain()}, nil
	}

	if ctx.Config.Parallel {
		r, err := resolve.ResolveAcross(ctx.Context, call.Site, ctx.Hierarchy, ctx.Branches(), opts...)
		if err != nil {
			return pipeline.Outcome{}, err
		}
		return pipeline.Outcome{Call: call, Result: r}, nil
	}

	results := make([]resolve.Result, 0, len(ctx.Imports))
	for _, branch := range ctx.Branches() {
		p, err := resolve.Resolve(ctx.Context, call.Site, ctx.Hierarchy, branch, opts...)
		if err != nil {
			return pipeline.Outcome{}, err
		}
		results = append(results, p.Result())
	}
	return pipeline.Outcome{Call: call, Result: resolve.MergeResults(call.Site, ctx.Hierarchy, results...)}, nil
}
