package typesystem

import (
	"fmt"
	"strings"
)

// Type is the interface for all types in our system.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
}

// TVar represents a declared type parameter (e.g. 'T', 'E').
type TVar struct {
	Name string
}

func (t TVar) String() string {
	return t.Name
}

func (t TVar) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TVar) FreeTypeVariables() []TVar {
	return []TVar{t}
}

// TCon represents a nominal type: a class, interface or primitive (e.g. String, int).
type TCon struct {
	Name   string
	Module string // Optional package for imported classes
}

func (t TCon) String() string {
	if t.Module != "" {
		return t.Module + "." + t.Name
	}
	return t.Name
}

func (t TCon) Apply(s Subst) Type {
	return t // Constants don't change
}

func (t TCon) FreeTypeVariables() []TVar {
	return []TVar{}
}

// TApp represents a parameterized type (e.g. List<String>).
type TApp struct {
	Constructor TCon
	Args        []Type
}

func (t TApp) String() string {
	args := make([]string, 0, len(t.Args))
	for _, arg := range t.Args {
		args = append(args, arg.String())
	}
	if len(args) == 0 {
		return t.Constructor.String()
	}
	return fmt.Sprintf("%s<%s>", t.Constructor.String(), strings.Join(args, ", "))
}

func (t TApp) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TApp) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, arg := range t.Args {
		vars = append(vars, arg.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TArray represents an array type (e.g. String[]). Variadic parameters are
// declared with their element type; TArray only shows up in explicit signatures.
type TArray struct {
	Elem Type
}

func (t TArray) String() string {
	return t.Elem.String() + "[]"
}

func (t TArray) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TArray) FreeTypeVariables() []TVar {
	return t.Elem.FreeTypeVariables()
}

// ApplyWithCycleCheck applies substitution with cycle detection.
// This is the main entry point for substitution application.
func ApplyWithCycleCheck(t Type, s Subst, visited map[string]bool) Type {
	if t == nil {
		return nil
	}
	if len(s) == 0 {
		return t
	}

	switch typ := t.(type) {
	case TVar:
		if visited[typ.Name] {
			return typ // Break cycle - return the variable as-is
		}
		if replacement, ok := s[typ.Name]; ok {
			if tv, ok := replacement.(TVar); ok && tv.Name == typ.Name {
				return typ
			}
			newVisited := copyVisited(visited)
			newVisited[typ.Name] = true
			return ApplyWithCycleCheck(replacement, s, newVisited)
		}
		return typ

	case TApp:
		newArgs := make([]Type, len(typ.Args))
		for i, arg := range typ.Args {
			newArgs[i] = ApplyWithCycleCheck(arg, s, visited)
		}
		return TApp{Constructor: typ.Constructor, Args: newArgs}

	case TArray:
		return TArray{Elem: ApplyWithCycleCheck(typ.Elem, s, visited)}

	case TCon:
		return typ

	default:
		return t.Apply(s)
	}
}

func copyVisited(m map[string]bool) map[string]bool {
	newMap := make(map[string]bool, len(m))
	for k, v := range m {
		newMap[k] = v
	}
	return newMap
}

// Equal reports structural equality of two types.
func Equal(a, b Type) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case TVar:
		y, ok := b.(TVar)
		return ok && x.Name == y.Name
	case TCon:
		y, ok := b.(TCon)
		return ok && x == y
	case TApp:
		y, ok := b.(TApp)
		if !ok || x.Constructor != y.Constructor || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case TArray:
		y, ok := b.(TArray)
		return ok && Equal(x.Elem, y.Elem)
	default:
		return a.String() == b.String()
	}
}

// ConstructorName returns the nominal name of a type, or "" for variables.
func ConstructorName(t Type) string {
	switch tt := t.(type) {
	case TCon:
		return tt.Name
	case TApp:
		return tt.Constructor.Name
	default:
		return ""
	}
}

// TypeString renders a possibly nil type; nil stands for an untyped value.
func TypeString(t Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

// Subst is a mapping from Type Variables to Types.
type Subst map[string]Type

// Compose combines two substitutions.
func (s1 Subst) Compose(s2 Subst) Subst {
	subst := Subst{}
	for k, v := range s2 {
		subst[k] = v
	}
	for k, v := range s1 {
		subst[k] = v.Apply(s2)
	}
	return subst
}

// PutAll binds vars to args positionally on top of s, returning a new
// substitution. Extra entries on either side are ignored.
func (s1 Subst) PutAll(vars []TVar, args []Type) Subst {
	subst := make(Subst, len(s1)+len(vars))
	for k, v := range s1 {
		subst[k] = v
	}
	for i, v := range vars {
		if i >= len(args) {
			break
		}
		subst[v.Name] = args[i]
	}
	return subst
}

func uniqueTVars(vars []TVar) []TVar {
	unique := []TVar{}
	seen := map[string]bool{}
	for _, v := range vars {
		if !seen[v.Name] {
			seen[v.Name] = true
			unique = append(unique, v)
		}
	}
	return unique
}
