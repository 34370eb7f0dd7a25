package typesystem

import (
	"fmt"

	"github.com/funvibe/overload/internal/config"
)

// Infer binds the type variables vars so that each argument fits the
// corresponding parameter. nil arguments (untyped values) bind nothing.
// Variables left unbound are absent from the result.
func (h *Hierarchy) Infer(params, args []Type, vars []TVar) (Subst, error) {
	if len(params) != len(args) {
		return nil, errMismatch(fmt.Sprintf("arity mismatch: %d parameters, %d arguments", len(params), len(args)))
	}
	inferable := make(map[string]bool, len(vars))
	for _, v := range vars {
		inferable[v.Name] = true
	}

	subst := Subst{}
	for i := range params {
		if args[i] == nil {
			continue
		}
		s, err := h.match(params[i], args[i], inferable, subst)
		if err != nil {
			return nil, errUnifyContext(fmt.Sprintf("argument %d", i+1), err)
		}
		subst = s
	}
	return subst, nil
}

// match finds bindings making arg assignable to pattern. Bindings already in
// subst may be widened to a common supertype when a later argument needs it.
func (h *Hierarchy) match(pattern, arg Type, inferable map[string]bool, subst Subst) (Subst, error) {
	switch p := pattern.(type) {
	case TVar:
		if !inferable[p.Name] {
			return subst, nil
		}
		// Type arguments are references: primitives bind through their box
		return h.bindWiden(p, h.Box(arg), subst)

	case TApp:
		actual := arg
		if ConstructorName(arg) != p.Constructor.Name {
			sup, ok := h.AsSuper(arg, p.Constructor.Name)
			if !ok {
				return nil, errUnify(pattern, arg)
			}
			actual = sup
		}
		app, ok := actual.(TApp)
		if !ok {
			// Raw argument: nothing to learn
			return subst, nil
		}
		if len(app.Args) != len(p.Args) {
			return nil, errUnifyMsg(pattern, arg, "type argument count mismatch")
		}
		out := subst
		for i := range p.Args {
			s, err := h.matchInvariant(p.Args[i], app.Args[i], inferable, out)
			if err != nil {
				return nil, err
			}
			out = s
		}
		return out, nil

	case TArray:
		a, ok := arg.(TArray)
		if !ok {
			return nil, errUnify(pattern, arg)
		}
		return h.match(p.Elem, a.Elem, inferable, subst)

	default:
		return subst, nil
	}
}

// matchInvariant is match for positions where type arguments must agree exactly.
func (h *Hierarchy) matchInvariant(pattern, arg Type, inferable map[string]bool, subst Subst) (Subst, error) {
	if tv, ok := pattern.(TVar); ok && inferable[tv.Name] {
		if bound, ok := subst[tv.Name]; ok {
			if !Equal(bound, arg) {
				return nil, errUnifyMsg(bound, arg, fmt.Sprintf("conflicting bindings for %s", tv.Name))
			}
			return subst, nil
		}
		return bindInto(subst, tv, arg)
	}
	if _, ok := pattern.(TApp); ok {
		return h.match(pattern, arg, inferable, subst)
	}
	if !Equal(pattern, arg) {
		if _, ok := arg.(TVar); ok {
			return subst, nil
		}
		return nil, errUnify(pattern, arg)
	}
	return subst, nil
}

// bindWiden binds tv to t, or widens an existing binding so both fit.
func (h *Hierarchy) bindWiden(tv TVar, t Type, subst Subst) (Subst, error) {
	bound, ok := subst[tv.Name]
	if !ok {
		return bindInto(subst, tv, t)
	}
	switch {
	case h.IsSubtype(t, bound):
		return subst, nil
	case h.IsSubtype(bound, t):
		return bindInto(subst, tv, t)
	default:
		return bindInto(subst, tv, h.commonSuper(bound, t))
	}
}

// commonSuper returns the first supertype of a (breadth first) that b is a subtype of.
func (h *Hierarchy) commonSuper(a, b Type) Type {
	queue := []Type{a}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if h.IsSubtype(b, cur) {
			return cur
		}
		queue = append(queue, h.Supertypes(cur)...)
	}
	return TCon{Name: config.ObjectTypeName}
}

func bindInto(subst Subst, tv TVar, t Type) (Subst, error) {
	s, err := Bind(tv, t)
	if err != nil {
		return nil, err
	}
	out := make(Subst, len(subst)+1)
	for k, v := range subst {
		out[k] = v
	}
	for k, v := range s {
		out[k] = v
	}
	return out, nil
}

// Bind creates a single-variable substitution.
func Bind(tv TVar, t Type) (Subst, error) {
	// If t is the same variable, return empty substitution
	if tVal, ok := t.(TVar); ok && tVal.Name == tv.Name {
		return Subst{}, nil
	}

	// Occurs check: ensure tv does not appear in t (to avoid infinite types like T = List<T>)
	if OccursCheck(tv, t) {
		return nil, errMismatch(fmt.Sprintf("infinite type detected: %s in %s", tv, t))
	}

	return Subst{tv.Name: t}, nil
}

// OccursCheck reports whether tv appears free in t.
func OccursCheck(tv TVar, t Type) bool {
	for _, v := range t.FreeTypeVariables() {
		if v.Name == tv.Name {
			return true
		}
	}
	return false
}

func errUnify(t1, t2 Type) error {
	return &UnifyError{T1: t1, T2: t2}
}

func errUnifyMsg(t1, t2 Type, msg string) error {
	return &UnifyError{T1: t1, T2: t2, Msg: msg}
}

func errMismatch(msg string) error {
	return &UnifyError{Msg: msg}
}

func errUnifyContext(ctx string, err error) error {
	return fmt.Errorf("in %s: %w", ctx, err)
}
