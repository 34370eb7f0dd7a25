package resolve

import (
	"fmt"

	"github.com/funvibe/overload/internal/symbols"
	"github.com/funvibe/overload/internal/typesystem"
)

// Candidate is one discovered method declaration together with the
// substitution state active where it was found.
type Candidate struct {
	Decl *symbols.MethodDecl

	// ContextSubst binds type parameters of enclosing declarations
	// (e.g. the receiver's class arguments).
	ContextSubst typesystem.Subst

	// ExplicitSubst binds the method's own type parameters to the call's
	// explicit type arguments; nil when none were given.
	ExplicitSubst typesystem.Subst

	// InferredSubst holds bindings found by the applicability filter's
	// inference pass. Only set on the instantiated copies it returns.
	InferredSubst typesystem.Subst

	Dynamic    bool   // Accepted with kind unknown
	StaticOnly bool   // Reached from a static context
	Scope      string // Scope the walker found it in
	Index      int    // Discovery order

	explicitMismatch bool // Explicit type argument count does not match
}

func newCandidate(decl *symbols.MethodDecl, state symbols.State, site *CallSite, index int) *Candidate {
	c := &Candidate{
		Decl:         decl,
		ContextSubst: state.Subst,
		Dynamic:      state.Kind == symbols.KindUnknown,
		StaticOnly:   state.StaticOnly || site.Qualifier == QualifierType,
		Scope:        state.Scope,
		Index:        index,
	}
	if len(site.TypeArguments) > 0 {
		if len(site.TypeArguments) != len(decl.TypeParams) {
			c.explicitMismatch = true
		}
		c.ExplicitSubst = typesystem.Subst(nil).PutAll(decl.TypeParams, site.TypeArguments)
	}
	return c
}

// Subst returns the full substitution: context, then explicit, then inferred.
// The method's own type parameters shadow context bindings of the same name.
func (c *Candidate) Subst() typesystem.Subst {
	out := make(typesystem.Subst, len(c.ContextSubst)+len(c.ExplicitSubst)+len(c.InferredSubst))
	for k, v := range c.ContextSubst {
		out[k] = v
	}
	for _, tv := range c.Decl.TypeParams {
		delete(out, tv.Name)
	}
	for _, s := range []typesystem.Subst{c.ExplicitSubst, c.InferredSubst} {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}

// ParamTypes returns the declared parameter types after substitution.
func (c *Candidate) ParamTypes() []typesystem.Type {
	return c.Decl.ParamTypes(c.Subst())
}

// Signature is the post-substitution deduplication key.
func (c *Candidate) Signature() string {
	return c.Decl.Signature(c.Subst())
}

// HasFixedTypeArguments reports whether explicit type arguments were bound.
func (c *Candidate) HasFixedTypeArguments() bool {
	return c.ExplicitSubst != nil
}

// StaticsOK reports whether the declaration may be reached from the context
// the candidate was found in. Instance members need an instance context;
// static members and top-level functions are reachable from anywhere.
func (c *Candidate) StaticsOK() bool {
	if !c.StaticOnly {
		return true
	}
	return c.Decl.IsStatic || c.Decl.Owner == ""
}

// instantiate returns a copy carrying inferred bindings.
func (c *Candidate) instantiate(inferred typesystem.Subst) *Candidate {
	cp := *c
	cp.InferredSubst = inferred
	return &cp
}

func (c *Candidate) String() string {
	return fmt.Sprintf("%s as %s", c.Decl, c.Signature())
}
