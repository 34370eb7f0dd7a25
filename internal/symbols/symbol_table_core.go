package symbols

import (
	"fmt"
	"strings"

	"github.com/funvibe/overload/internal/typesystem"
)

// ElementKind is the walker's classification of an element. KindUnknown
// marks elements whose kind cannot be known ahead of time (dynamic or
// synthetic members).
type ElementKind int

type ScopeType int

const (
	ScopePrelude ScopeType = iota // Built-in declarations
	ScopeGlobal                   // File top-level
	ScopeClass                    // Members of a class, including inherited ones
	ScopeFunction
	ScopeBlock
	ScopeImport // Declarations brought in by an import
)

const (
	KindUnknown ElementKind = iota
	KindMethod
	KindVariable
	KindType
)

func (k ElementKind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindMethod:
		return "method"
	case KindVariable:
		return "variable"
	case KindType:
		return "type"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (s ScopeType) String() string {
	switch s {
	case ScopePrelude:
		return "prelude"
	case ScopeGlobal:
		return "global"
	case ScopeClass:
		return "class"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeImport:
		return "import"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// Element is anything a scope can declare.
type Element interface {
	ElementName() string
}

// Param is one declared method parameter.
type Param struct {
	Name     string
	Type     typesystem.Type
	Optional bool // Has a default value and may be omitted
	Variadic bool // Last parameter only; Type is the element type
}

// MethodDecl is a method declaration owned by the declaration table.
// Resolution references it, never copies it.
type MethodDecl struct {
	Name       string
	Owner      string // Declaring class, "" for top-level functions
	TypeParams []typesystem.TVar
	Params     []Param
	ReturnType typesystem.Type
	IsStatic   bool
	Origin     string // file:line where declared
}

func (m *MethodDecl) ElementName() string { return m.Name }

// IsGeneric reports whether the method declares its own type parameters.
func (m *MethodDecl) IsGeneric() bool { return len(m.TypeParams) > 0 }

// IsVariadic reports whether the last parameter is variadic.
func (m *MethodDecl) IsVariadic() bool {
	return len(m.Params) > 0 && m.Params[len(m.Params)-1].Variadic
}

// Arity returns the minimum and maximum number of arguments. max is -1 for
// variadic methods.
func (m *MethodDecl) Arity() (min, max int) {
	for _, p := range m.Params {
		if !p.Optional && !p.Variadic {
			min++
		}
	}
	if m.IsVariadic() {
		return min, -1
	}
	return min, len(m.Params)
}

// ParamTypes returns the declared parameter types under subst.
func (m *MethodDecl) ParamTypes(subst typesystem.Subst) []typesystem.Type {
	out := make([]typesystem.Type, len(m.Params))
	for i, p := range m.Params {
		out[i] = p.Type.Apply(subst)
	}
	return out
}

// Signature renders name(params) under subst, the deduplication key.
func (m *MethodDecl) Signature(subst typesystem.Subst) string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Type.Apply(subst).String())
		if p.Variadic {
			b.WriteString("...")
		}
	}
	b.WriteByte(')')
	return b.String()
}

func (m *MethodDecl) String() string {
	var b strings.Builder
	if m.IsStatic {
		b.WriteString("static ")
	}
	if len(m.TypeParams) > 0 {
		names := make([]string, len(m.TypeParams))
		for i, tv := range m.TypeParams {
			names[i] = tv.Name
		}
		b.WriteString("<" + strings.Join(names, ", ") + "> ")
	}
	if m.Owner != "" {
		b.WriteString(m.Owner + ".")
	}
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Type.String())
		switch {
		case p.Variadic:
			b.WriteString("...")
		case p.Optional:
			b.WriteString("?")
		}
	}
	b.WriteByte(')')
	return b.String()
}

// VariableDecl is a field, property or local variable.
type VariableDecl struct {
	Name     string
	Type     typesystem.Type
	IsStatic bool
}

func (v *VariableDecl) ElementName() string { return v.Name }

// TypeDecl is a class name visible in a scope.
type TypeDecl struct {
	Name string
}

func (t *TypeDecl) ElementName() string { return t.Name }

// State is the resolve state the walker passes alongside each element.
type State struct {
	Kind       ElementKind
	Subst      typesystem.Subst // Type parameter bindings active where the element was found
	StaticOnly bool             // The element is reached from a static context
	Alias      string           // Import alias the element is visible under, if any
	Scope      string           // Name of the scope the element was found in
}

// VisibleName returns the name the element is reachable by.
func (s State) VisibleName(elem Element) string {
	if s.Alias != "" {
		return s.Alias
	}
	return elem.ElementName()
}
