package symbols

import (
	"github.com/funvibe/overload/internal/typesystem"
)

// entry is one declaration in a scope, in declaration order.
type entry struct {
	elem  Element
	kind  ElementKind
	alias string
}

// SymbolTable is one lexical or inheritance scope. Lookups that miss continue
// in outer.
type SymbolTable struct {
	name      string
	scopeType ScopeType
	outer     *SymbolTable

	entries []entry
	dynamic []entry // Members synthesized at runtime, kind not known upfront

	// Bindings for type parameters visible in this scope, e.g. E -> String
	// when walking List<E> members on behalf of a List<String> receiver
	subst typesystem.Subst

	// Members of this scope are reached from a static context
	static bool
}

func NewEmptySymbolTable(name string) *SymbolTable {
	return &SymbolTable{name: name, scopeType: ScopeGlobal}
}

func NewEnclosedSymbolTable(outer *SymbolTable, scopeType ScopeType, name string) *SymbolTable {
	st := NewEmptySymbolTable(name)
	st.outer = outer
	st.scopeType = scopeType
	return st
}

// Outer returns the outer scope symbol table
func (s *SymbolTable) Outer() *SymbolTable {
	return s.outer
}

func (s *SymbolTable) Name() string { return s.name }

func (s *SymbolTable) ScopeType() ScopeType { return s.scopeType }

// IsGlobalScope returns true if this symbol table is the root (global) scope.
func (s *SymbolTable) IsGlobalScope() bool {
	return s.scopeType == ScopeGlobal
}

// SetSubst sets the type parameter bindings of this scope.
func (s *SymbolTable) SetSubst(subst typesystem.Subst) { s.subst = subst }

// Subst returns the type parameter bindings of this scope.
func (s *SymbolTable) Subst() typesystem.Subst { return s.subst }

// SetStatic marks this scope as a static context.
func (s *SymbolTable) SetStatic(static bool) { s.static = static }

func (s *SymbolTable) IsStatic() bool { return s.static }

// Define adds a declaration, classifying it by its Go type.
func (s *SymbolTable) Define(elem Element) {
	s.entries = append(s.entries, entry{elem: elem, kind: KindOf(elem)})
}

// DefineAlias adds a declaration visible under another name (import alias).
func (s *SymbolTable) DefineAlias(elem Element, alias string) {
	s.entries = append(s.entries, entry{elem: elem, kind: KindOf(elem), alias: alias})
}

// DefineUnclassified adds a declaration whose kind the walker will report as
// unknown, e.g. a member contributed by a synthetic source.
func (s *SymbolTable) DefineUnclassified(elem Element) {
	s.entries = append(s.entries, entry{elem: elem, kind: KindUnknown})
}

// DefineDynamic adds a runtime-synthesized member. Dynamic members are only
// offered to processors that ask for them.
func (s *SymbolTable) DefineDynamic(elem Element) {
	s.dynamic = append(s.dynamic, entry{elem: elem, kind: KindUnknown})
}

// Find returns the elements visible under name in this scope only.
func (s *SymbolTable) Find(name string) []Element {
	var out []Element
	for _, e := range s.entries {
		if e.visibleName() == name {
			out = append(out, e.elem)
		}
	}
	return out
}

// Lookup returns the elements visible under name in the innermost scope
// that has any.
func (s *SymbolTable) Lookup(name string) ([]Element, bool) {
	for scope := s; scope != nil; scope = scope.outer {
		if found := scope.Find(name); len(found) > 0 {
			return found, true
		}
	}
	return nil, false
}

// Len returns the number of classified and unclassified entries.
func (s *SymbolTable) Len() int {
	return len(s.entries)
}

func (e entry) visibleName() string {
	if e.alias != "" {
		return e.alias
	}
	return e.elem.ElementName()
}

// KindOf classifies an element by its declaration type.
func KindOf(elem Element) ElementKind {
	switch elem.(type) {
	case *MethodDecl:
		return KindMethod
	case *VariableDecl:
		return KindVariable
	case *TypeDecl:
		return KindType
	default:
		return KindUnknown
	}
}
