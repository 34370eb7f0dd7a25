package resolve

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/funvibe/overload/internal/symbols"
	"github.com/funvibe/overload/internal/typesystem"
)

var (
	tObject  = typesystem.TCon{Name: "Object"}
	tString  = typesystem.TCon{Name: "String"}
	tInteger = typesystem.TCon{Name: "Integer"}
	tNumber  = typesystem.TCon{Name: "Number"}
	tInt     = typesystem.TCon{Name: "int"}
	tLong    = typesystem.TCon{Name: "long"}
	tT       = typesystem.TVar{Name: "T"}
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func method(name string, params ...typesystem.Type) *symbols.MethodDecl {
	m := &symbols.MethodDecl{Name: name}
	for i, p := range params {
		m.Params = append(m.Params, symbols.Param{Name: string(rune('a' + i)), Type: p})
	}
	return m
}

func generic(name string, vars []typesystem.TVar, params ...typesystem.Type) *symbols.MethodDecl {
	m := method(name, params...)
	m.TypeParams = vars
	return m
}

func call(name string, args ...typesystem.Type) *CallSite {
	list := make([]Argument, len(args))
	for i, a := range args {
		list[i] = Arg(a)
	}
	return NewCall(name, nil, list)
}

func newTestProcessor(site *CallSite) *Processor {
	return NewProcessor(site, typesystem.NewHierarchy(), WithLogger(quietLogger()))
}

func acceptAll(p *Processor, decls ...*symbols.MethodDecl) {
	for _, d := range decls {
		p.Accept(d, symbols.State{Kind: symbols.KindMethod})
	}
}

// recoverViolation runs fn and returns the *ContractViolation it panicked with.
func recoverViolation(t *testing.T, fn func()) (cv *ContractViolation) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic")
		}
		err, ok := r.(error)
		if !ok || !errors.As(err, &cv) {
			t.Fatalf("panic value %v is not a *ContractViolation", r)
		}
	}()
	fn()
	return nil
}

func TestResolveScenarios(t *testing.T) {
	fInt := method("f", tInt)
	fObject := method("f", tObject)
	fString := method("f", tString)
	fIntObj := method("f", tInteger, tObject)
	fObjInt := method("f", tObject, tInteger)
	fLong := method("f", tLong)
	fBoxed := method("f", tInteger)
	fLongs := method("f", tLong, tLong)
	fInts := &symbols.MethodDecl{Name: "f", Params: []symbols.Param{{Name: "xs", Type: tInt, Variadic: true}}}
	fNumber := method("f", tNumber)

	tests := []struct {
		name  string
		site  *CallSite
		decls []*symbols.MethodDecl
		kind  ResultKind
		sigs  []string
	}{
		{"exact single", call("f", tInt), []*symbols.MethodDecl{fInt}, ResultSingle, []string{"f(int)"}},
		{"narrower wins", call("f", tString), []*symbols.MethodDecl{fObject, fString}, ResultSingle, []string{"f(String)"}},
		{"narrower wins in any order", call("f", tString), []*symbols.MethodDecl{fString, fObject}, ResultSingle, []string{"f(String)"}},
		{"crossed parameters are ambiguous", call("f", tInteger, tInteger), []*symbols.MethodDecl{fIntObj, fObjInt}, ResultAmbiguous, []string{"f(Integer, Object)", "f(Object, Integer)"}},
		{"widening beats boxing", call("f", tInt), []*symbols.MethodDecl{fBoxed, fLong}, ResultSingle, []string{"f(long)"}},
		{"fixed arity beats variadic", call("f", tInt, tInt), []*symbols.MethodDecl{fInts, fLongs}, ResultSingle, []string{"f(long, long)"}},
		{"variadic takes no arguments", call("f"), []*symbols.MethodDecl{fInts}, ResultSingle, []string{"f(int...)"}},
		{"subtype through box", call("f", tInt), []*symbols.MethodDecl{fNumber, fObject}, ResultSingle, []string{"f(Number)"}},
		{"nothing applies", call("f", tString), []*symbols.MethodDecl{fInt}, ResultEmpty, nil},
		{"no candidates", call("f", tString), nil, ResultEmpty, nil},
		{"wrong arity", call("f", tString, tString), []*symbols.MethodDecl{fString}, ResultEmpty, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProcessor(tt.site)
			acceptAll(p, tt.decls...)
			p.OnScopeBoundary()

			r := p.Result()
			if r.Kind != tt.kind {
				t.Fatalf("Result() = %v, want kind %v", r, tt.kind)
			}
			if got := r.Signatures(); len(tt.sigs) > 0 && !reflect.DeepEqual(got, tt.sigs) {
				t.Errorf("Signatures() = %v, want %v", got, tt.sigs)
			}
		})
	}
}

func TestExplicitTypeArguments(t *testing.T) {
	fT := generic("f", []typesystem.TVar{tT}, tT)

	site := NewCall("f", nil, []Argument{Arg(tString)}, tString)
	p := newTestProcessor(site)
	acceptAll(p, fT)
	p.OnScopeBoundary()

	best, ok := p.Result().Best()
	if !ok {
		t.Fatalf("Result() = %v, want single", p.Result())
	}
	if best.Decl != fT {
		t.Errorf("Best().Decl = %v, want %v", best.Decl, fT)
	}
	if got := best.Signature(); got != "f(String)" {
		t.Errorf("Signature() = %q, want f(String)", got)
	}

	// Explicit arguments fix T, so an Integer no longer fits
	mismatch := NewCall("f", nil, []Argument{Arg(tInteger)}, tString)
	p = newTestProcessor(mismatch)
	acceptAll(p, fT)
	if r := p.Result(); !r.IsEmpty() {
		t.Errorf("Result() = %v, want empty", r)
	}

	// Wrong number of explicit type arguments is inapplicable
	wrongCount := NewCall("f", nil, []Argument{Arg(tString)}, tString, tInteger)
	p = newTestProcessor(wrongCount)
	acceptAll(p, fT)
	if r := p.Result(); !r.IsEmpty() {
		t.Errorf("Result() = %v, want empty", r)
	}
}

func TestInferredTypeArguments(t *testing.T) {
	fTT := generic("f", []typesystem.TVar{tT}, tT, tT)
	p := newTestProcessor(call("f", tString, tInteger))
	acceptAll(p, fTT)

	best, ok := p.Result().Best()
	if !ok {
		t.Fatalf("Result() = %v, want single", p.Result())
	}
	if got := best.Signature(); got != "f(Object, Object)" {
		t.Errorf("Signature() = %q, want f(Object, Object)", got)
	}
	if best.Decl != fTT {
		t.Errorf("inferred candidate should reference the declaration")
	}
	if len(p.AllCandidates()[0].InferredSubst) != 0 {
		t.Errorf("inference must not touch the collected candidate")
	}
}

func TestGenericClashFallsBackToSignatures(t *testing.T) {
	fT := generic("f", []typesystem.TVar{tT}, tT)
	fString := method("f", tString)

	// Both instantiate to f(String); the signatures clash, so no ranking and
	// the first declaration seen wins whether or not it is generic
	for _, order := range [][]*symbols.MethodDecl{{fT, fString}, {fString, fT}} {
		p := newTestProcessor(call("f", tString))
		acceptAll(p, order...)
		r := p.Result()
		if r.Ranked || r.Kind != ResultSingle || r.Candidates[0].Decl != order[0] {
			t.Errorf("Result() = %v ranked=%v, want first-seen %s from signature filter", r, r.Ranked, order[0])
		}
	}
}

func TestUnknownKindFallsBackToSignatures(t *testing.T) {
	fString := method("f", tString)
	fObject := method("f", tObject)

	p := newTestProcessor(call("f", tString))
	p.Accept(fString, symbols.State{Kind: symbols.KindMethod})
	p.Accept(fObject, symbols.State{Kind: symbols.KindUnknown})
	// Unknown elements that are not methods are passed over
	p.Accept(&symbols.VariableDecl{Name: "f"}, symbols.State{Kind: symbols.KindUnknown})
	p.OnScopeBoundary()

	r := p.Result()
	if r.Ranked {
		t.Error("Result() should not be ranked with an unknown candidate")
	}
	want := []string{"f(String)", "f(Object)"}
	if r.Kind != ResultAmbiguous || !reflect.DeepEqual(r.Signatures(), want) {
		t.Errorf("Result() = %v, want ambiguous %v", r, want)
	}
	if len(p.AllCandidates()) != 2 {
		t.Errorf("AllCandidates() = %d, want 2", len(p.AllCandidates()))
	}
}

func TestUntypedArgumentIsUnknown(t *testing.T) {
	fString := method("f", tString)
	fObject := method("f", tObject)
	fInt := method("f", tInt)

	site := NewCall("f", nil, []Argument{{}})
	p := newTestProcessor(site)
	acceptAll(p, fString, fObject, fInt)

	r := p.Result()
	if r.Ranked || r.Kind != ResultAmbiguous || len(r.Candidates) != 3 {
		t.Errorf("Result() = %v, want all three unranked", r)
	}
}

func TestSignatureDedup(t *testing.T) {
	fString := method("f", tString)
	other := method("f", tString)
	other.Owner = "Other"

	// The same declaration reached twice is a duplicate
	p := newTestProcessor(call("f", tString))
	acceptAll(p, fString, fString)
	if r := p.Result(); r.Kind != ResultSingle || !r.Ranked {
		t.Errorf("Result() = %v ranked=%v, want single ranked", r, r.Ranked)
	}

	// Distinct declarations with one signature are not ranked, first wins
	p = newTestProcessor(call("f", tString))
	acceptAll(p, fString, other)
	r := p.Result()
	if r.Ranked || r.Kind != ResultSingle || r.Candidates[0].Decl != fString {
		t.Errorf("Result() = %v ranked=%v, want first seen unranked", r, r.Ranked)
	}
}

func TestNameOnlyLookup(t *testing.T) {
	fString := method("f", tString)
	fInt := method("f", tInt)

	p := newTestProcessor(NewReference("f", nil))
	acceptAll(p, fString, fInt)
	p.OnScopeBoundary()

	if p.ShouldAcceptMore() {
		t.Error("ShouldAcceptMore() = true after candidates were found")
	}
	r := p.Result()
	if r.Ranked || r.Kind != ResultAmbiguous || len(r.Candidates) != 2 {
		t.Errorf("Result() = %v, want both unranked", r)
	}
}

func TestStateMachine(t *testing.T) {
	fInt := method("f", tInt)
	fString := method("f", tString)

	p := newTestProcessor(call("f", tString))
	if p.State() != StateCollecting || !p.ShouldAcceptMore() || !p.WantsDynamicMembers() {
		t.Fatalf("fresh processor: state %v", p.State())
	}

	acceptAll(p, fInt)
	if p.WantsDynamicMembers() {
		t.Error("WantsDynamicMembers() = true after a candidate was collected")
	}
	p.OnScopeBoundary()
	if p.State() != StateCheckpointed || !p.ShouldAcceptMore() {
		t.Fatalf("after inapplicable boundary: state %v", p.State())
	}

	// Idempotent while nothing new is accepted
	cached := p.applicable
	p.OnScopeBoundary()
	if p.applicable != cached {
		t.Error("OnScopeBoundary() recomputed a cached result")
	}

	acceptAll(p, fString)
	if p.State() != StateCollecting {
		t.Errorf("Accept should invalidate the cache, state %v", p.State())
	}
	p.OnScopeBoundary()
	if p.State() != StateClosed || p.ShouldAcceptMore() {
		t.Fatalf("after applicable boundary: state %v", p.State())
	}

	first := p.Result()
	second := p.Result()
	if !reflect.DeepEqual(first.Signatures(), second.Signatures()) {
		t.Errorf("Result() not repeatable: %v then %v", first, second)
	}
	if p.State() != StateClosed || p.ShouldAcceptMore() {
		t.Errorf("Result() changed state to %v", p.State())
	}
}

func TestResultWithoutBoundary(t *testing.T) {
	p := newTestProcessor(call("f", tString))
	acceptAll(p, method("f", tObject), method("f", tString))

	r := p.Result()
	if best, ok := r.Best(); !ok || best.Signature() != "f(String)" {
		t.Errorf("Result() = %v, want single f(String)", r)
	}
	if p.State() != StateCollecting {
		t.Errorf("Result() should not checkpoint, state %v", p.State())
	}
}

func TestContractViolations(t *testing.T) {
	p := newTestProcessor(call("f", tString))
	acceptAll(p, method("f", tString))
	p.OnScopeBoundary()

	cv := recoverViolation(t, func() {
		p.Accept(method("f", tObject), symbols.State{Kind: symbols.KindMethod})
	})
	if !errors.Is(cv, ErrAcceptAfterStop) {
		t.Errorf("violation = %v, want ErrAcceptAfterStop", cv)
	}

	p = newTestProcessor(call("f", tString))
	cv = recoverViolation(t, func() {
		p.Accept(&symbols.VariableDecl{Name: "f"}, symbols.State{Kind: symbols.KindVariable})
	})
	if !errors.Is(cv, ErrUnexpectedElement) {
		t.Errorf("violation = %v, want ErrUnexpectedElement", cv)
	}
}

func TestAcceptIgnoresOtherNames(t *testing.T) {
	p := newTestProcessor(call("f", tString))
	acceptAll(p, method("g", tString))
	if len(p.AllCandidates()) != 0 {
		t.Errorf("AllCandidates() = %v, want none", p.AllCandidates())
	}

	// An alias makes a declaration visible under the call's name
	p.Accept(method("g", tString), symbols.State{Kind: symbols.KindMethod, Alias: "f"})
	if r := p.Result(); r.Kind != ResultSingle {
		t.Errorf("Result() = %v, want the aliased g", r)
	}
}

func TestWalkShadowsOuterScopes(t *testing.T) {
	global := symbols.NewEmptySymbolTable("global")
	global.Define(method("f", tObject))
	class := symbols.NewEnclosedSymbolTable(global, symbols.ScopeClass, "C")
	class.Define(method("f", tInt))
	block := symbols.NewEnclosedSymbolTable(class, symbols.ScopeBlock, "block")
	block.Define(method("f", tString))

	ts := typesystem.NewHierarchy()
	ctx := context.Background()

	// Innermost applicable scope wins even though Object is visible further out
	p, err := Resolve(ctx, call("f", tString), ts, block, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got := len(p.AllCandidates()); got != 1 {
		t.Errorf("collected %d candidates, want 1", got)
	}

	// From the class scope f(int) does not apply, so the walk reaches global
	p, err = Resolve(ctx, call("f", tString), ts, class, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	best, ok := p.Result().Best()
	if !ok || best.Signature() != "f(Object)" || best.Scope != "global" {
		t.Errorf("Result() = %v, want f(Object) from global", p.Result())
	}
	if got := len(p.AllCandidates()); got != 2 {
		t.Errorf("collected %d candidates, want 2", got)
	}
}

func TestWalkContextSubst(t *testing.T) {
	e := typesystem.TVar{Name: "E"}
	class := symbols.NewEmptySymbolTable("List<String>")
	class.SetSubst(typesystem.Subst{"E": tString})
	add := method("add", e)
	add.Owner = "List"
	class.Define(add)

	ts := typesystem.NewHierarchy()
	p, err := Resolve(context.Background(), call("add", tString), ts, class, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	best, ok := p.Result().Best()
	if !ok || best.Signature() != "add(String)" {
		t.Errorf("Result() = %v, want add(String)", p.Result())
	}

	p, _ = Resolve(context.Background(), call("add", tInteger), ts, class, WithLogger(quietLogger()))
	if r := p.Result(); !r.IsEmpty() {
		t.Errorf("Result() = %v, want empty for Integer argument", r)
	}
}

// A method's own type parameter shadows the class parameter of the same name.
func TestWalkMethodTypeParamShadowsContext(t *testing.T) {
	tv := typesystem.TVar{Name: "T"}
	u := typesystem.TVar{Name: "U"}
	class := symbols.NewEmptySymbolTable("Box<String>")
	class.SetSubst(typesystem.Subst{"T": tString})
	f := generic("f", []typesystem.TVar{tv}, tv)
	f.Owner = "Box"
	put := generic("put", []typesystem.TVar{u}, tv, u)
	put.Owner = "Box"
	class.Define(f)
	class.Define(put)

	tests := []struct {
		site *CallSite
		want string
	}{
		{call("f", tInteger), "single[f(Integer)]"},
		{call("f", tString), "single[f(String)]"},
		{call("put", tString, tInteger), "single[put(String, Integer)]"},
		{call("put", tInteger, tInteger), "empty"},
	}
	ts := typesystem.NewHierarchy()
	for _, tt := range tests {
		t.Run(tt.site.String(), func(t *testing.T) {
			p, err := Resolve(context.Background(), tt.site, ts, class, WithLogger(quietLogger()))
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if got := p.Result().String(); got != tt.want {
				t.Errorf("Result() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWalkDynamicMembers(t *testing.T) {
	outer := symbols.NewEmptySymbolTable("global")
	outer.DefineDynamic(method("f", tString))
	inner := symbols.NewEnclosedSymbolTable(outer, symbols.ScopeClass, "C")
	inner.Define(method("f", tInt))

	// f(int) is collected first, so dynamic members are no longer wanted
	p, err := Resolve(context.Background(), call("f", tString), typesystem.NewHierarchy(), inner, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got := len(p.AllCandidates()); got != 1 {
		t.Errorf("collected %d candidates, want 1", got)
	}

	// With nothing collected the dynamic member is offered and stays unranked
	p, err = Resolve(context.Background(), call("f", tString), typesystem.NewHierarchy(), outer, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	r := p.Result()
	if r.Kind != ResultSingle || r.Ranked || !r.Candidates[0].Dynamic {
		t.Errorf("Result() = %v ranked=%v, want single dynamic", r, r.Ranked)
	}
}

func TestExplain(t *testing.T) {
	instance := method("f", tString)
	instance.Owner = "C"
	fInt := method("f", tInt)
	fT := generic("f", []typesystem.TVar{tT}, tT)
	fObject := method("f", tObject)

	p := newTestProcessor(call("f", tString))
	p.Accept(instance, symbols.State{Kind: symbols.KindMethod, StaticOnly: true})
	acceptAll(p, fInt, fT)
	p.Accept(fObject, symbols.State{Kind: symbols.KindUnknown})

	want := []struct {
		verdict Verdict
		static  bool
		sig     string
	}{
		{Inapplicable, true, "f(String)"},
		{Inapplicable, false, "f(int)"},
		{Applicable, false, "f(String)"},
		{Unknown, false, "f(Object)"},
	}
	got := p.Explain()
	if len(got) != len(want) {
		t.Fatalf("Explain() = %d entries, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Verdict != w.verdict || got[i].Static != w.static || got[i].Candidate.Signature() != w.sig {
			t.Errorf("Explain()[%d] = %v %v %s, want %v %v %s", i,
				got[i].Verdict, got[i].Static, got[i].Candidate.Signature(), w.verdict, w.static, w.sig)
		}
	}
	if p.State() != StateCollecting {
		t.Errorf("Explain() changed state to %v", p.State())
	}
}
