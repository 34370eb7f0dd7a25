package typesystem

import (
	"github.com/funvibe/overload/internal/config"
)

// classDef is one nominal type registered in a Hierarchy.
type classDef struct {
	name   string
	params []TVar
	supers []Type // Direct supertypes, may mention params
}

// Hierarchy is the nominal type table: classes with their direct supertypes,
// primitive widening ranks and box mappings. It implements the
// assignability and inference judgments the resolver delegates to.
type Hierarchy struct {
	classes map[string]classDef
	rank    map[string]int    // Primitive widening rank; absent for boolean
	boxes   map[string]string // primitive -> box
	unboxes map[string]string // box -> primitive
}

// NewHierarchy returns a hierarchy pre-populated with Object, String, the
// primitives and their boxes.
func NewHierarchy() *Hierarchy {
	h := &Hierarchy{
		classes: make(map[string]classDef),
		rank:    make(map[string]int),
		boxes:   make(map[string]string),
		unboxes: make(map[string]string),
	}

	h.classes[config.ObjectTypeName] = classDef{name: config.ObjectTypeName}
	h.mustDeclare(config.CharSequenceTypeName, nil)
	h.mustDeclare(config.StringTypeName, nil, TCon{Name: config.CharSequenceTypeName})
	h.mustDeclare(config.NumberTypeName, nil)

	// Widening chain: byte < short < int < long < float < double, char < int
	widening := []string{
		config.BytePrimitive,
		config.ShortPrimitive,
		config.IntPrimitive,
		config.LongPrimitive,
		config.FloatPrimitive,
		config.DoublePrimitive,
	}
	for i, name := range widening {
		h.rank[name] = i + 1
	}
	h.rank[config.CharPrimitive] = h.rank[config.ShortPrimitive]

	boxes := map[string]string{
		config.BytePrimitive:    config.ByteBox,
		config.ShortPrimitive:   config.ShortBox,
		config.CharPrimitive:    config.CharacterBox,
		config.IntPrimitive:     config.IntegerBox,
		config.LongPrimitive:    config.LongBox,
		config.FloatPrimitive:   config.FloatBox,
		config.DoublePrimitive:  config.DoubleBox,
		config.BooleanPrimitive: config.BooleanBox,
	}
	for prim, box := range boxes {
		h.boxes[prim] = box
		h.unboxes[box] = prim
		switch box {
		case config.CharacterBox, config.BooleanBox:
			h.mustDeclare(box, nil)
		default:
			h.mustDeclare(box, nil, TCon{Name: config.NumberTypeName})
		}
	}
	return h
}

func (h *Hierarchy) mustDeclare(name string, params []TVar, supers ...Type) {
	if err := h.Declare(name, params, supers...); err != nil {
		panic(err)
	}
}

// Declare registers a class. Supertypes must already be declared; Object
// is implied when none is given.
func (h *Hierarchy) Declare(name string, params []TVar, supers ...Type) error {
	if h.IsPrimitive(TCon{Name: name}) {
		return &DeclarationError{Name: name, Msg: "primitive types cannot be redeclared"}
	}
	for _, s := range supers {
		ctor := ConstructorName(s)
		if ctor == "" {
			return &DeclarationError{Name: name, Msg: "supertype must be a class, got " + s.String()}
		}
		if _, ok := h.classes[ctor]; !ok {
			return NewUnknownTypeError(ctor)
		}
	}
	if len(supers) == 0 && name != config.ObjectTypeName {
		supers = []Type{TCon{Name: config.ObjectTypeName}}
	}
	h.classes[name] = classDef{name: name, params: params, supers: supers}
	return nil
}

// IsDeclared reports whether name is a known class or primitive.
func (h *Hierarchy) IsDeclared(name string) bool {
	if _, ok := h.classes[name]; ok {
		return true
	}
	_, ok := h.boxes[name]
	return ok
}

// IsPrimitive reports whether t is a primitive type.
func (h *Hierarchy) IsPrimitive(t Type) bool {
	con, ok := t.(TCon)
	if !ok || con.Module != "" {
		return false
	}
	_, ok = h.boxes[con.Name]
	return ok
}

// Box returns the box type of a primitive, or t itself.
func (h *Hierarchy) Box(t Type) Type {
	if con, ok := t.(TCon); ok {
		if box, ok := h.boxes[con.Name]; ok && con.Module == "" {
			return TCon{Name: box}
		}
	}
	return t
}

// Unbox returns the primitive of a box type.
func (h *Hierarchy) Unbox(t Type) (Type, bool) {
	if con, ok := t.(TCon); ok && con.Module == "" {
		if prim, ok := h.unboxes[con.Name]; ok {
			return TCon{Name: prim}, true
		}
	}
	return nil, false
}

// Supertypes returns the direct supertypes of t with its type arguments
// substituted into the declaration.
func (h *Hierarchy) Supertypes(t Type) []Type {
	name := ConstructorName(t)
	def, ok := h.classes[name]
	if !ok || name == config.ObjectTypeName {
		return nil
	}
	var args []Type
	if app, ok := t.(TApp); ok {
		args = app.Args
	}
	subst := Subst{}.PutAll(def.params, args)
	out := make([]Type, 0, len(def.supers))
	for _, s := range def.supers {
		out = append(out, s.Apply(subst))
	}
	return out
}

// AsSuper walks the supertypes of t breadth first and returns the first one
// whose constructor is target.
func (h *Hierarchy) AsSuper(t Type, target string) (Type, bool) {
	queue := []Type{t}
	seen := map[string]bool{}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if ConstructorName(cur) == target {
			return cur, true
		}
		key := cur.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		queue = append(queue, h.Supertypes(cur)...)
	}
	return nil, false
}

// IsSubtype reports whether sub <: super for reference types. Type arguments
// are invariant; a raw super (no arguments) accepts any parameterization.
func (h *Hierarchy) IsSubtype(sub, super Type) bool {
	if Equal(sub, super) {
		return true
	}
	if ConstructorName(super) == config.ObjectTypeName && !h.IsPrimitive(sub) {
		return true
	}
	if sa, ok := sub.(TArray); ok {
		if pa, ok := super.(TArray); ok {
			return !h.IsPrimitive(sa.Elem) && h.IsSubtype(sa.Elem, pa.Elem)
		}
		return false
	}
	target := ConstructorName(super)
	if target == "" {
		return false
	}
	found, ok := h.AsSuper(sub, target)
	if !ok {
		return false
	}
	superApp, isApp := super.(TApp)
	if !isApp || len(superApp.Args) == 0 {
		return true
	}
	foundApp, ok := found.(TApp)
	if !ok {
		// Raw subtype of a parameterized supertype: unchecked, accepted
		return true
	}
	if len(foundApp.Args) != len(superApp.Args) {
		return false
	}
	for i := range superApp.Args {
		if _, wildcard := superApp.Args[i].(TVar); wildcard {
			continue
		}
		if _, raw := foundApp.Args[i].(TVar); raw {
			continue
		}
		if !Equal(foundApp.Args[i], superApp.Args[i]) {
			return false
		}
	}
	return true
}
