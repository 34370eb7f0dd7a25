package resolve

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/funvibe/overload/internal/symbols"
)

// Resolve walks table for site with a fresh processor and returns it, so
// callers can read both the result and all candidates.
func Resolve(ctx context.Context, site *CallSite, ts TypeSystem, table *symbols.SymbolTable, opts ...Option) (*Processor, error) {
	p := NewProcessor(site, ts, opts...)
	if err := symbols.Walk(ctx, table, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ResolveAcross searches independent branches (for example several
// imported namespaces) concurrently, one processor per branch, and merges
// their results in branch order. If any branch only produced a
// signature-filtered result, the merge is signature-filtered too.
func ResolveAcross(ctx context.Context, site *CallSite, ts TypeSystem, branches []*symbols.SymbolTable, opts ...Option) (Result, error) {
	results := make([]Result, len(branches))

	g, gctx := errgroup.WithContext(ctx)
	for i, table := range branches {
		i, table := i, table
		g.Go(func() error {
			p, err := Resolve(gctx, site, ts, table, opts...)
			if err != nil {
				return err
			}
			results[i] = p.Result()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return MergeResults(site, ts, results...), nil
}

// MergeResults combines per-branch results, preserving branch order.
func MergeResults(site *CallSite, ts TypeSystem, results ...Result) Result {
	var union []*Candidate
	ranked := true
	for _, r := range results {
		if r.IsEmpty() {
			continue
		}
		union = append(union, r.Candidates...)
		ranked = ranked && r.Ranked
	}
	if len(union) == 0 {
		return Result{Kind: ResultEmpty}
	}
	if ranked && !hasSignatureClash(union) {
		return ChooseOverloads(union, ComparatorContext{Site: site, TS: ts})
	}
	return resultOf(FilterBySignature(union))
}
