package symbols

import (
	"context"
)

// Hints describe what a processor wants so the walker can prune before
// calling Accept.
type Hints struct {
	Kind ElementKind // The one kind the processor collects
	Name string      // Name filter; "" accepts every name
}

// WantsKind reports whether elements of kind k should be offered.
// Unknown-kind elements are always offered; the processor decides.
func (h Hints) WantsKind(k ElementKind) bool {
	return k == KindUnknown || k == h.Kind
}

// HasNameFilter reports whether the processor filters by name.
func (h Hints) HasNameFilter() bool {
	return h.Name != ""
}

// Processor is driven by Walk. Accept returns false to end the walk.
type Processor interface {
	Accept(elem Element, state State) bool
	OnScopeBoundary()
	ShouldAcceptMore() bool
	WantsDynamicMembers() bool
	Hints() Hints
}

// Walk offers declarations to p from table outward, innermost scope first
// and declaration order within a scope. After each scope it signals a
// boundary. It stops once p wants no more elements, Accept returns false,
// or ctx is done.
func Walk(ctx context.Context, table *SymbolTable, p Processor) error {
	hints := p.Hints()
	staticOnly := false

	for scope := table; scope != nil; scope = scope.outer {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !p.ShouldAcceptMore() {
			return nil
		}
		// A static scope makes everything reached through it static
		staticOnly = staticOnly || scope.static

		if !walkEntries(scope, scope.entries, hints, staticOnly, p) {
			return nil
		}
		if p.ShouldAcceptMore() && p.WantsDynamicMembers() {
			if !walkEntries(scope, scope.dynamic, hints, staticOnly, p) {
				return nil
			}
		}
		p.OnScopeBoundary()
	}
	return nil
}

func walkEntries(scope *SymbolTable, entries []entry, hints Hints, staticOnly bool, p Processor) bool {
	for _, e := range entries {
		if hints.HasNameFilter() && e.visibleName() != hints.Name {
			continue
		}
		if !hints.WantsKind(e.kind) {
			continue
		}
		if !p.ShouldAcceptMore() {
			return false
		}
		state := State{
			Kind:       e.kind,
			Subst:      scope.subst,
			StaticOnly: staticOnly,
			Alias:      e.alias,
			Scope:      scope.name,
		}
		if !p.Accept(e.elem, state) {
			return false
		}
	}
	return true
}
