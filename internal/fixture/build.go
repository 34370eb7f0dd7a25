package fixture

import (
	"fmt"
	"strings"

	"github.com/funvibe/overload/internal/config"
	"github.com/funvibe/overload/internal/diagnostics"
	"github.com/funvibe/overload/internal/pipeline"
	"github.com/funvibe/overload/internal/resolve"
	"github.com/funvibe/overload/internal/symbols"
	"github.com/funvibe/overload/internal/typesystem"
)

const (
	optionalSuffix = "?"
	variadicSuffix = "..."
	untypedArg     = "?"
)

// builder turns a decoded fixture into a hierarchy, scopes and call sites.
// Problems are collected rather than returned so one bad declaration does
// not hide the others.
type builder struct {
	path string
	h    *typesystem.Hierarchy
	errs []*diagnostics.DiagnosticError
}

func (b *builder) fail(code diagnostics.ErrorCode, line int, format string, args ...any) {
	b.errs = append(b.errs, &diagnostics.DiagnosticError{
		Code: code,
		File: b.path,
		Line: line,
		Msg:  fmt.Sprintf(format, args...),
	})
}

func (b *builder) failErr(line int, err error) {
	d := diagnostics.Wrap(diagnostics.ErrF003, line, err)
	d.File = b.path
	b.errs = append(b.errs, d)
}

// Build fills ctx from f: Hierarchy, Scope, Imports and Calls.
func Build(f *File, ctx *pipeline.PipelineContext) {
	b := &builder{path: ctx.FilePath, h: typesystem.NewHierarchy()}

	for _, td := range f.Types {
		b.declareType(td)
	}

	ctx.Hierarchy = b.h
	ctx.Scope = b.chain("global", f.Scopes)
	for _, imp := range f.Imports {
		ctx.Imports = append(ctx.Imports, pipeline.Import{Name: imp.Name, Scope: b.chain(imp.Name, imp.Scopes)})
	}
	for _, c := range f.Calls {
		if call, ok := b.call(c); ok {
			ctx.Calls = append(ctx.Calls, call)
		}
	}
	for _, err := range b.errs {
		ctx.AddError(err)
	}
}

func (b *builder) declareType(td TypeDef) {
	vars := make(map[string]bool, len(td.Params))
	params := make([]typesystem.TVar, len(td.Params))
	for i, p := range td.Params {
		vars[p] = true
		params[i] = typesystem.TVar{Name: p}
	}
	supers := make([]typesystem.Type, 0, len(td.Supers))
	for _, s := range td.Supers {
		t, ok := b.parse(s, vars, td.Line)
		if !ok {
			return
		}
		supers = append(supers, t)
	}
	if err := b.h.Declare(td.Name, params, supers...); err != nil {
		b.failErr(td.Line, err)
	}
}

// chain builds scopes listed innermost first. The outermost scope is always
// global. An empty list yields a single empty global scope named fallback.
func (b *builder) chain(fallback string, scopes []Scope) *symbols.SymbolTable {
	if len(scopes) == 0 {
		return symbols.NewEmptySymbolTable(fallback)
	}

	var table *symbols.SymbolTable
	for i := len(scopes) - 1; i >= 0; i-- {
		s := scopes[i]
		kind, ok := scopeTypes[s.Kind]
		if !ok {
			b.fail(diagnostics.ErrF002, s.Line, "unknown scope kind %q", s.Kind)
			kind = symbols.ScopeBlock
		}
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("scope%d", i)
		}

		if table == nil {
			table = symbols.NewEmptySymbolTable(name)
		} else {
			table = symbols.NewEnclosedSymbolTable(table, kind, name)
		}
		b.fillScope(table, s)
	}
	return table
}

var scopeTypes = map[string]symbols.ScopeType{
	"":         symbols.ScopeBlock,
	"prelude":  symbols.ScopePrelude,
	"global":   symbols.ScopeGlobal,
	"class":    symbols.ScopeClass,
	"function": symbols.ScopeFunction,
	"block":    symbols.ScopeBlock,
	"import":   symbols.ScopeImport,
}

func (b *builder) fillScope(table *symbols.SymbolTable, s Scope) {
	table.SetStatic(s.Static)

	scopeVars := make(map[string]bool, len(s.TypeParams))
	for _, v := range s.TypeParams {
		scopeVars[v] = true
	}
	if len(s.Subst) > 0 {
		subst := make(typesystem.Subst, len(s.Subst))
		for name, src := range s.Subst {
			if t, ok := b.parse(src, nil, s.Line); ok {
				subst[name] = t
			}
		}
		table.SetSubst(subst)
	}

	for _, d := range s.Declarations {
		b.declare(table, d, scopeVars)
	}
}

func (b *builder) declare(table *symbols.SymbolTable, d Declaration, scopeVars map[string]bool) {
	if d.Name == "" {
		b.fail(diagnostics.ErrF002, d.Line, "declaration has no name")
		return
	}

	switch d.Kind {
	case "variable":
		table.Define(&symbols.VariableDecl{Name: d.Name, IsStatic: d.Static})
		return
	case "type":
		table.Define(&symbols.TypeDecl{Name: d.Name})
		return
	case "", "method", "unknown", "dynamic":
	default:
		b.fail(diagnostics.ErrF002, d.Line, "unknown declaration kind %q", d.Kind)
		return
	}

	m, ok := b.method(d, scopeVars)
	if !ok {
		return
	}
	switch {
	case d.Kind == "unknown":
		table.DefineUnclassified(m)
	case d.Kind == "dynamic":
		table.DefineDynamic(m)
	case d.Alias != "":
		table.DefineAlias(m, d.Alias)
	default:
		table.Define(m)
	}
}

func (b *builder) method(d Declaration, scopeVars map[string]bool) (*symbols.MethodDecl, bool) {
	vars := make(map[string]bool, len(scopeVars)+len(d.TypeParams))
	for v := range scopeVars {
		vars[v] = true
	}
	m := &symbols.MethodDecl{
		Name:     d.Name,
		Owner:    d.Owner,
		IsStatic: d.Static,
		Origin:   fmt.Sprintf("%s:%d", b.path, d.Line),
	}
	for _, v := range d.TypeParams {
		vars[v] = true
		m.TypeParams = append(m.TypeParams, typesystem.TVar{Name: v})
	}

	for i, src := range d.Params {
		p := symbols.Param{Name: fmt.Sprintf("p%d", i+1)}
		switch {
		case strings.HasSuffix(src, variadicSuffix):
			if i != len(d.Params)-1 {
				b.fail(diagnostics.ErrF002, d.Line, "%s: only the last parameter may be variadic", d.Name)
				return nil, false
			}
			p.Variadic = true
			src = strings.TrimSuffix(src, variadicSuffix)
		case strings.HasSuffix(src, optionalSuffix):
			p.Optional = true
			src = strings.TrimSuffix(src, optionalSuffix)
		}
		t, ok := b.parse(src, vars, d.Line)
		if !ok {
			return nil, false
		}
		p.Type = t
		m.Params = append(m.Params, p)
	}

	if d.Returns != "" && d.Returns != config.VoidTypeName {
		t, ok := b.parse(d.Returns, vars, d.Line)
		if !ok {
			return nil, false
		}
		m.ReturnType = t
	}
	return m, true
}

func (b *builder) call(c Call) (pipeline.Call, bool) {
	var site *resolve.CallSite
	if c.Ref {
		site = resolve.NewReference(c.Name, c.Line)
	} else {
		args := make([]resolve.Argument, len(c.Args))
		for i, src := range c.Args {
			if src == "" || src == untypedArg {
				continue
			}
			t, ok := b.parse(src, nil, c.Line)
			if !ok {
				return pipeline.Call{}, false
			}
			args[i] = resolve.Arg(t)
		}
		var typeArgs []typesystem.Type
		for _, src := range c.TypeArgs {
			t, ok := b.parse(src, nil, c.Line)
			if !ok {
				return pipeline.Call{}, false
			}
			typeArgs = append(typeArgs, t)
		}
		site = resolve.NewCall(c.Name, c.Line, args, typeArgs...)
	}

	switch c.Qualifier {
	case "", "none":
	case "instance":
		site = site.WithQualifier(resolve.QualifierInstance)
	case "type":
		site = site.WithQualifier(resolve.QualifierType)
	default:
		b.fail(diagnostics.ErrF002, c.Line, "unknown qualifier %q", c.Qualifier)
		return pipeline.Call{}, false
	}

	label := c.Label
	if label == "" {
		label = site.String()
	}
	return pipeline.Call{Label: label, Site: site, Across: c.Across, Line: c.Line}, true
}

// parse parses src and checks that every nominal type in it is declared.
func (b *builder) parse(src string, vars map[string]bool, line int) (typesystem.Type, bool) {
	t, err := typesystem.ParseType(strings.TrimSpace(src), vars)
	if err != nil {
		b.fail(diagnostics.ErrF002, line, "%v", err)
		return nil, false
	}
	if name, ok := b.undeclared(t); !ok {
		b.failErr(line, typesystem.NewUnknownTypeError(name))
		return nil, false
	}
	return t, true
}

func (b *builder) undeclared(t typesystem.Type) (string, bool) {
	switch tt := t.(type) {
	case typesystem.TCon:
		return tt.Name, b.h.IsDeclared(tt.Name)
	case typesystem.TApp:
		if !b.h.IsDeclared(tt.Constructor.Name) {
			return tt.Constructor.Name, false
		}
		for _, a := range tt.Args {
			if name, ok := b.undeclared(a); !ok {
				return name, false
			}
		}
	case typesystem.TArray:
		return b.undeclared(tt.Elem)
	}
	return "", true
}
