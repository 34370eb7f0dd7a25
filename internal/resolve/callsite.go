package resolve

import (
	"strings"

	"github.com/funvibe/overload/internal/typesystem"
)

// Qualifier describes the receiver expression of a call.
type Qualifier int

const (
	QualifierNone     Qualifier = iota // Unqualified: f(x)
	QualifierInstance                  // Instance receiver: obj.f(x)
	QualifierType                      // Class reference: Foo.f(x)
)

func (q Qualifier) String() string {
	switch q {
	case QualifierInstance:
		return "instance"
	case QualifierType:
		return "type"
	default:
		return "none"
	}
}

// Argument is one supplied call argument. A nil Type is an untyped value.
type Argument struct {
	Type typesystem.Type
}

// Arg builds an argument of type t.
func Arg(t typesystem.Type) Argument { return Argument{Type: t} }

// CallSite is the lookup request. It is never mutated once built.
type CallSite struct {
	Name          string
	Location      any // Syntactic node of the call, opaque to the resolver
	Arguments     []Argument
	TypeArguments []typesystem.Type
	Qualifier     Qualifier

	nameOnly bool
}

// NewCall describes a call name(args) with optional explicit type arguments.
func NewCall(name string, location any, args []Argument, typeArgs ...typesystem.Type) *CallSite {
	return &CallSite{
		Name:          name,
		Location:      location,
		Arguments:     args,
		TypeArguments: typeArgs,
	}
}

// NewReference describes a name-only lookup (method reference, no call).
func NewReference(name string, location any) *CallSite {
	return &CallSite{Name: name, Location: location, nameOnly: true}
}

// WithQualifier returns a copy of the call site with qualifier q.
func (c *CallSite) WithQualifier(q Qualifier) *CallSite {
	cp := *c
	cp.Qualifier = q
	return &cp
}

// HasArguments is false for name-only lookups.
func (c *CallSite) HasArguments() bool {
	return !c.nameOnly
}

// ArgumentTypes returns the argument types, nil entries for untyped values.
func (c *CallSite) ArgumentTypes() []typesystem.Type {
	out := make([]typesystem.Type, len(c.Arguments))
	for i, a := range c.Arguments {
		out[i] = a.Type
	}
	return out
}

func (c *CallSite) String() string {
	var b strings.Builder
	switch c.Qualifier {
	case QualifierType:
		b.WriteString("Type.")
	case QualifierInstance:
		b.WriteString("obj.")
	}
	b.WriteString(c.Name)
	if len(c.TypeArguments) > 0 {
		parts := make([]string, len(c.TypeArguments))
		for i, t := range c.TypeArguments {
			parts[i] = t.String()
		}
		b.WriteString("<" + strings.Join(parts, ", ") + ">")
	}
	if !c.HasArguments() {
		return b.String()
	}
	parts := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		parts[i] = typesystem.TypeString(a.Type)
	}
	b.WriteString("(" + strings.Join(parts, ", ") + ")")
	return b.String()
}
