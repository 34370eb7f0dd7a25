package typesystem

import "github.com/funvibe/overload/internal/config"

// Conversion classifies how a value of one type reaches a parameter of another.
type Conversion int

const (
	ConvNone     Conversion = iota // Not assignable
	ConvExact                      // Identical types
	ConvSubtype                    // Reference widening (String -> Object)
	ConvWidening                   // Primitive widening (int -> long)
	ConvBoxing                     // Boxing or unboxing, possibly followed by widening
)

func (c Conversion) String() string {
	switch c {
	case ConvNone:
		return "none"
	case ConvExact:
		return "exact"
	case ConvSubtype:
		return "subtype"
	case ConvWidening:
		return "widening"
	case ConvBoxing:
		return "boxing"
	default:
		return "unknown"
	}
}

// IsImplicit reports conversions that change the value's representation.
func (c Conversion) IsImplicit() bool {
	return c == ConvWidening || c == ConvBoxing
}

// Assignable classifies the conversion from actual to expected.
// Unbound type variables behave like Object on either side.
func (h *Hierarchy) Assignable(actual, expected Type) Conversion {
	if actual == nil || expected == nil {
		return ConvNone
	}
	if Equal(actual, expected) {
		return ConvExact
	}

	if _, ok := expected.(TVar); ok {
		if h.IsPrimitive(actual) {
			return ConvBoxing
		}
		return ConvSubtype
	}
	if _, ok := actual.(TVar); ok {
		if ConstructorName(expected) == config.ObjectTypeName {
			return ConvSubtype
		}
		return ConvNone
	}

	actualPrim := h.IsPrimitive(actual)
	expectedPrim := h.IsPrimitive(expected)

	switch {
	case actualPrim && expectedPrim:
		if h.widens(actual, expected) {
			return ConvWidening
		}
		return ConvNone

	case actualPrim:
		if h.IsSubtype(h.Box(actual), expected) {
			return ConvBoxing
		}
		return ConvNone

	case expectedPrim:
		prim, ok := h.Unbox(actual)
		if !ok {
			return ConvNone
		}
		if Equal(prim, expected) || h.widens(prim, expected) {
			return ConvBoxing
		}
		return ConvNone

	default:
		if h.IsSubtype(actual, expected) {
			return ConvSubtype
		}
		return ConvNone
	}
}

// widens reports primitive widening from a to b (strict).
func (h *Hierarchy) widens(a, b Type) bool {
	an, bn := ConstructorName(a), ConstructorName(b)
	ra, okA := h.rank[an]
	rb, okB := h.rank[bn]
	if !okA || !okB {
		return false
	}
	// char and short share a rank but do not convert into each other
	if an == config.CharPrimitive || bn == config.CharPrimitive {
		if bn == config.CharPrimitive {
			return false
		}
		return rb > h.rank[config.ShortPrimitive]
	}
	return ra < rb
}
