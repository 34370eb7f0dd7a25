package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/funvibe/overload/internal/diagnostics"
	"github.com/funvibe/overload/internal/symbols"
)

type stageFunc func(*PipelineContext) *PipelineContext

func (f stageFunc) Process(ctx *PipelineContext) *PipelineContext { return f(ctx) }

func TestRunContinuesAfterErrors(t *testing.T) {
	var order []string
	fail := stageFunc(func(ctx *PipelineContext) *PipelineContext {
		order = append(order, "fail")
		ctx.AddError(diagnostics.NewError(diagnostics.ErrF002, 1, "boom"))
		return ctx
	})
	after := stageFunc(func(ctx *PipelineContext) *PipelineContext {
		order = append(order, "after")
		return ctx
	})

	ctx := NewPipelineContext([]byte("x"))
	ctx.FilePath = "a.yaml"
	out := New(fail, after).Run(ctx)

	if len(order) != 2 || order[1] != "after" {
		t.Errorf("stages ran %v, want [fail after]", order)
	}
	if len(out.Errors) != 1 || out.Errors[0].File != "a.yaml" {
		t.Errorf("Errors = %v, want one error in a.yaml", out.Errors)
	}
}

func TestRunStopsWhenCancelled(t *testing.T) {
	cctx, cancel := context.WithCancel(context.Background())
	ran := 0
	stop := stageFunc(func(ctx *PipelineContext) *PipelineContext {
		ran++
		cancel()
		return ctx
	})
	never := stageFunc(func(ctx *PipelineContext) *PipelineContext {
		t.Error("stage after cancellation should not run")
		return ctx
	})

	ctx := NewPipelineContext(nil)
	ctx.Context = cctx
	ctx.FilePath = "a.yaml"
	out := New(stop, never).Run(ctx)

	if ran != 1 {
		t.Errorf("first stage ran %d times, want 1", ran)
	}
	if len(out.Errors) != 1 || out.Errors[0].Code != diagnostics.ErrR001 || !errors.Is(out.Errors[0], context.Canceled) {
		t.Errorf("Errors = %v, want one R001 wrapping context.Canceled", out.Errors)
	}
}

func TestBranchesKeepOrder(t *testing.T) {
	a := symbols.NewEmptySymbolTable("a")
	b := symbols.NewEmptySymbolTable("b")
	ctx := NewPipelineContext(nil)
	ctx.Imports = []Import{{Name: "a", Scope: a}, {Name: "b", Scope: b}}

	got := ctx.Branches()
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("Branches() = %v, want [a b]", got)
	}
}
