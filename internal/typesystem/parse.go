package typesystem

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseType parses the textual form used in fixtures and CLI output:
//
//	String, int, List<String>, Map<K, List<V>>, String[], pkg.Name
//
// Names listed in vars become type variables.
func ParseType(src string, vars map[string]bool) (Type, error) {
	p := &typeParser{src: src, vars: vars}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("parse type %q: unexpected %q at offset %d", src, p.src[p.pos:], p.pos)
	}
	return t, nil
}

type typeParser struct {
	src  string
	pos  int
	vars map[string]bool
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) consume(s string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$' || r == '.' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *typeParser) parseType() (Type, error) {
	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("parse type %q: expected name at offset %d", p.src, p.pos)
	}

	var t Type
	if p.vars[name] {
		t = TVar{Name: name}
	} else {
		con := TCon{Name: name}
		if i := strings.LastIndex(name, "."); i > 0 {
			con = TCon{Module: name[:i], Name: name[i+1:]}
		}
		t = con
		if p.consume("<") {
			var args []Type
			for {
				arg, err := p.parseType()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.consume(",") {
					continue
				}
				if !p.consume(">") {
					return nil, fmt.Errorf("parse type %q: expected '>' at offset %d", p.src, p.pos)
				}
				break
			}
			t = TApp{Constructor: con, Args: args}
		}
	}

	for p.consume("[]") {
		t = TArray{Elem: t}
	}
	return t, nil
}
