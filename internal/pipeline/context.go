package pipeline

import (
	"context"
	"log/slog"

	"github.com/funvibe/overload/internal/config"
	"github.com/funvibe/overload/internal/diagnostics"
	"github.com/funvibe/overload/internal/resolve"
	"github.com/funvibe/overload/internal/symbols"
	"github.com/funvibe/overload/internal/typesystem"
)

// Import is a named scope chain brought in by an import. Calls marked
// Across search every import concurrently.
type Import struct {
	Name  string
	Scope *symbols.SymbolTable
}

// Call is one lookup to run, with the label it is reported under.
type Call struct {
	Label  string
	Site   *resolve.CallSite
	Across bool // Search Imports instead of Scope
	Line   int
}

// Outcome is what resolution produced for one Call.
type Outcome struct {
	Call         Call
	Result       resolve.Result
	Explanations []resolve.Explanation // Empty for calls resolved across imports
}

// PipelineContext carries a fixture through the stages.
type PipelineContext struct {
	Context  context.Context
	Config   config.Config
	Logger   *slog.Logger
	FilePath string
	Source   []byte

	Hierarchy *typesystem.Hierarchy
	Scope     *symbols.SymbolTable // Innermost scope of the fixture
	Imports   []Import
	Calls     []Call

	Outcomes []Outcome
	Errors   []*diagnostics.DiagnosticError
}

func NewPipelineContext(source []byte) *PipelineContext {
	return &PipelineContext{
		Context: context.Background(),
		Config:  config.Default(),
		Logger:  slog.Default(),
		Source:  source,
	}
}

// AddError records a diagnostic, filling in the file path.
func (ctx *PipelineContext) AddError(err *diagnostics.DiagnosticError) {
	if err.File == "" {
		err.File = ctx.FilePath
	}
	ctx.Errors = append(ctx.Errors, err)
}

// Branches returns the import scopes in declaration order.
func (ctx *PipelineContext) Branches() []*symbols.SymbolTable {
	out := make([]*symbols.SymbolTable, len(ctx.Imports))
	for i, imp := range ctx.Imports {
		out[i] = imp.Scope
	}
	return out
}
