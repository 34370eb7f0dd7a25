package resolve

import (
	"github.com/funvibe/overload/internal/symbols"
	"github.com/funvibe/overload/internal/typesystem"
)

// Verdict is the outcome of checking one candidate against the call.
type Verdict int

const (
	Applicable   Verdict = iota
	Inapplicable         // Definitively rejected
	Unknown              // Cannot be judged; passed through untyped
)

func (v Verdict) String() string {
	switch v {
	case Applicable:
		return "applicable"
	case Inapplicable:
		return "inapplicable"
	default:
		return "unknown"
	}
}

// TypeSystem is the judgment the filter and chooser delegate to.
// *typesystem.Hierarchy implements it.
type TypeSystem interface {
	Assignable(actual, expected typesystem.Type) typesystem.Conversion
	Infer(params, args []typesystem.Type, vars []typesystem.TVar) (typesystem.Subst, error)
}

// Applicability classifies c against the call. For generic candidates
// without explicit type arguments the returned candidate is an instantiated
// copy carrying the inferred bindings.
func Applicability(c *Candidate, site *CallSite, ts TypeSystem) (Verdict, *Candidate) {
	if c.Dynamic {
		return Unknown, c
	}
	if !site.HasArguments() {
		return Applicable, c
	}
	if c.explicitMismatch {
		return Inapplicable, c
	}

	args := site.ArgumentTypes()
	params, _, ok := callParams(c.Decl.Params, c.ParamTypes(), len(args))
	if !ok {
		return Inapplicable, c
	}

	if c.Decl.IsGeneric() && !c.HasFixedTypeArguments() {
		inferred, err := ts.Infer(params, args, c.Decl.TypeParams)
		if err != nil {
			return Inapplicable, c
		}
		c = c.instantiate(inferred)
		for i := range params {
			params[i] = params[i].Apply(inferred)
		}
	}

	untyped := false
	for i, arg := range args {
		if arg == nil {
			untyped = true
			continue
		}
		if ts.Assignable(arg, params[i]) == typesystem.ConvNone {
			return Inapplicable, c
		}
	}
	if untyped {
		return Unknown, c
	}
	return Applicable, c
}

// FindApplicable filters candidates down to those that can take the call's
// arguments. The flag reports whether the result can be ranked by
// specificity; when false the caller falls back to signature filtering.
func FindApplicable(candidates []*Candidate, site *CallSite, ts TypeSystem) ([]*Candidate, bool) {
	if len(candidates) == 0 {
		return nil, true
	}
	if !site.HasArguments() {
		// Name-only lookup: nothing to rank against
		return append([]*Candidate(nil), candidates...), false
	}

	var passed []*Candidate
	sawUnknown := false
	for _, c := range candidates {
		verdict, inst := Applicability(c, site, ts)
		switch verdict {
		case Applicable:
			passed = append(passed, inst)
		case Unknown:
			sawUnknown = true
			passed = append(passed, inst)
		}
	}
	if sawUnknown {
		return passed, false
	}
	return passed, !hasSignatureClash(passed)
}

// hasSignatureClash reports two distinct declarations with identical
// post-substitution signatures. The same declaration reached twice is a
// plain duplicate and does not count.
func hasSignatureClash(candidates []*Candidate) bool {
	seen := make(map[string]*symbols.MethodDecl, len(candidates))
	for _, c := range candidates {
		sig := c.Signature()
		if prev, ok := seen[sig]; ok && prev != c.Decl {
			return true
		}
		seen[sig] = c.Decl
	}
	return false
}

// callParams lines parameters up with argc arguments. Omitted optional
// parameters are dropped from the right; a variadic tail is expanded to as
// many copies of its element type as needed. expanded is set for variadic
// calls.
func callParams(params []symbols.Param, types []typesystem.Type, argc int) (out []typesystem.Type, expanded bool, ok bool) {
	n := len(params)
	variadic := n > 0 && params[n-1].Variadic
	fixed := n
	if variadic {
		fixed = n - 1
	}

	if argc < fixed {
		drop := fixed - argc
		keep := make([]bool, fixed)
		for i := range keep {
			keep[i] = true
		}
		for i := fixed - 1; i >= 0 && drop > 0; i-- {
			if params[i].Optional {
				keep[i] = false
				drop--
			}
		}
		if drop > 0 {
			return nil, false, false
		}
		out = make([]typesystem.Type, 0, argc)
		for i := 0; i < fixed; i++ {
			if keep[i] {
				out = append(out, types[i])
			}
		}
		return out, variadic, true
	}

	if !variadic && argc > fixed {
		return nil, false, false
	}
	out = make([]typesystem.Type, 0, argc)
	out = append(out, types[:fixed]...)
	for i := fixed; i < argc; i++ {
		out = append(out, types[n-1])
	}
	return out, variadic, true
}
