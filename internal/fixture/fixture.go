// Package fixture reads resolution fixtures: a YAML description of a class
// hierarchy, a scope chain with declarations, and the calls to resolve in it.
//
//	types:
//	  - {name: List, params: [E], supers: ["Collection<E>"]}
//	scopes:                      # innermost first
//	  - name: body
//	    kind: function
//	    static: true
//	    declarations:
//	      - {name: f, params: ["String", "int?", "Object..."]}
//	imports:
//	  - name: util
//	    scopes: [...]
//	calls:
//	  - {name: f, args: [String, "?"]}
//	  - {name: f, typeArgs: [String], args: [String], across: true}
package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// File is the decoded form of one fixture.
type File struct {
	Types   []TypeDef `yaml:"types"`
	Scopes  []Scope   `yaml:"scopes"`
	Imports []Import  `yaml:"imports"`
	Calls   []Call    `yaml:"calls"`
}

// TypeDef declares a class. Supertypes must be declared earlier in the list.
type TypeDef struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params"`
	Supers []string `yaml:"supers"`
	Line   int      `yaml:"-"`
}

// Scope is one level of the scope chain.
type Scope struct {
	Name         string            `yaml:"name"`
	Kind         string            `yaml:"kind"` // prelude, global, class, function, block, import
	Static       bool              `yaml:"static"`
	TypeParams   []string          `yaml:"typeParams"` // Type variables its declarations may mention
	Subst        map[string]string `yaml:"subst"`
	Declarations []Declaration     `yaml:"declarations"`
	Line         int               `yaml:"-"`
}

// Declaration is one element of a scope. Parameter types take a "?" suffix
// when optional and a "..." suffix when variadic.
type Declaration struct {
	Name       string   `yaml:"name"`
	Kind       string   `yaml:"kind"` // method (default), unknown, dynamic, variable, type
	Owner      string   `yaml:"owner"`
	Static     bool     `yaml:"static"`
	TypeParams []string `yaml:"typeParams"`
	Params     []string `yaml:"params"`
	Returns    string   `yaml:"returns"`
	Alias      string   `yaml:"alias"`
	Line       int      `yaml:"-"`
}

// Import is a named scope chain.
type Import struct {
	Name   string  `yaml:"name"`
	Scopes []Scope `yaml:"scopes"`
	Line   int     `yaml:"-"`
}

// Call is one lookup. An argument of "?" (or null) is untyped.
type Call struct {
	Label     string   `yaml:"label"`
	Name      string   `yaml:"name"`
	Args      []string `yaml:"args"`
	TypeArgs  []string `yaml:"typeArgs"`
	Qualifier string   `yaml:"qualifier"` // none, instance, type
	Ref       bool     `yaml:"ref"`       // Name-only lookup
	Across    bool     `yaml:"across"`    // Search the imports concurrently
	Line      int      `yaml:"-"`
}

func (t *TypeDef) UnmarshalYAML(value *yaml.Node) error {
	type raw TypeDef
	t.Line = value.Line
	return value.Decode((*raw)(t))
}

func (s *Scope) UnmarshalYAML(value *yaml.Node) error {
	type raw Scope
	s.Line = value.Line
	return value.Decode((*raw)(s))
}

func (d *Declaration) UnmarshalYAML(value *yaml.Node) error {
	type raw Declaration
	d.Line = value.Line
	return value.Decode((*raw)(d))
}

func (i *Import) UnmarshalYAML(value *yaml.Node) error {
	type raw Import
	i.Line = value.Line
	return value.Decode((*raw)(i))
}

func (c *Call) UnmarshalYAML(value *yaml.Node) error {
	type raw Call
	c.Line = value.Line
	if err := value.Decode((*raw)(c)); err != nil {
		return err
	}
	// Decoding into []string skips null entries; keep them as untyped
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, seq := value.Content[i], value.Content[i+1]
		if key.Value != "args" || seq.Kind != yaml.SequenceNode {
			continue
		}
		c.Args = make([]string, len(seq.Content))
		for j, item := range seq.Content {
			if item.Tag == "!!null" {
				continue
			}
			if err := item.Decode(&c.Args[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

// ErrEmpty is returned for a fixture with no YAML document.
var ErrEmpty = errors.New("empty fixture")

// Parse decodes a fixture. Unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("decoding fixture: %w", err)
	}
	if len(f.Calls) == 0 {
		return nil, errors.New("fixture declares no calls")
	}
	for i, c := range f.Calls {
		if c.Name == "" {
			return nil, fmt.Errorf("line %d: call %d has no name", c.Line, i+1)
		}
	}
	return &f, nil
}
