package resolve

import (
	"github.com/funvibe/overload/internal/typesystem"
)

// ComparatorContext is what specificity comparison needs from the call.
type ComparatorContext struct {
	Site *CallSite
	TS   TypeSystem
}

// profile is a candidate prepared for comparison against one call.
type profile struct {
	c        *Candidate
	order    int               // Position in the input, the tie-break order
	params   []typesystem.Type // Parameter type receiving each argument
	expanded bool              // Matched through a variadic tail
	boxing   bool              // Needs at least one boxing conversion
	implicit int               // Boxing and widening conversions needed
}

func newProfile(c *Candidate, order int, ctx ComparatorContext) *profile {
	args := ctx.Site.ArgumentTypes()
	params, expanded, ok := callParams(c.Decl.Params, c.ParamTypes(), len(args))
	if !ok {
		// Only applicable candidates reach the chooser
		params = c.ParamTypes()
	}
	p := &profile{c: c, order: order, params: params, expanded: expanded}
	for i, arg := range args {
		if arg == nil || i >= len(params) {
			continue
		}
		conv := ctx.TS.Assignable(arg, params[i])
		if conv.IsImplicit() {
			p.implicit++
		}
		if conv == typesystem.ConvBoxing {
			p.boxing = true
		}
	}
	return p
}

// ChooseOverloads keeps the candidates no other candidate dominates,
// scanning in discovery order. A single survivor is the result; several
// survivors are ambiguous and keep discovery order.
func ChooseOverloads(candidates []*Candidate, ctx ComparatorContext) Result {
	if len(candidates) == 0 {
		return Result{Kind: ResultEmpty}
	}

	var survivors []*profile
	for i, c := range candidates {
		next := newProfile(c, i, ctx)

		dominated := false
		for _, s := range survivors {
			if dominates(s, next, ctx.TS) {
				dominated = true
				break
			}
		}
		if dominated {
			continue
		}

		kept := survivors[:0:0]
		for _, s := range survivors {
			if !dominates(next, s, ctx.TS) {
				kept = append(kept, s)
			}
		}
		survivors = append(kept, next)
	}

	out := make([]*Candidate, len(survivors))
	for i, s := range survivors {
		out[i] = s.c
	}
	r := resultOf(out)
	r.Ranked = true
	return r
}

// dominates reports whether a is a better match than b for the call.
func dominates(a, b *profile, ts TypeSystem) bool {
	// Fixed arity beats variadic expansion
	if a.expanded != b.expanded {
		return !a.expanded
	}
	// Subtyping and widening alone beat anything needing boxing
	if a.boxing != b.boxing {
		return !a.boxing
	}

	aFitsB := pointwiseAssignable(a.params, b.params, ts)
	bFitsA := pointwiseAssignable(b.params, a.params, ts)
	switch {
	case aFitsB && !bFitsA:
		return true
	case bFitsA && !aFitsB:
		return false
	case aFitsB && bFitsA:
		// Equivalent parameters
		if a.c.Decl == b.c.Decl {
			return a.order < b.order
		}
		// Only reached by direct callers: the processor sends identical
		// signatures to FilterBySignature before ranking
		if a.c.Decl.IsGeneric() != b.c.Decl.IsGeneric() {
			return !a.c.Decl.IsGeneric()
		}
	}

	return a.implicit < b.implicit
}

// pointwiseAssignable compares parameter lists by subtyping and primitive
// widening; boxing does not make one parameter more specific than another.
func pointwiseAssignable(from, to []typesystem.Type, ts TypeSystem) bool {
	if len(from) != len(to) {
		return false
	}
	for i := range from {
		switch ts.Assignable(from[i], to[i]) {
		case typesystem.ConvNone, typesystem.ConvBoxing:
			return false
		}
	}
	return true
}
