package resolve

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/funvibe/overload/internal/config"
	"github.com/funvibe/overload/internal/symbols"
)

// State is the processor's position in the collection protocol.
type State int

const (
	StateCollecting   State = iota // No applicability computed for the current candidates
	StateCheckpointed              // Computed at a boundary, nothing applicable yet
	StateClosed                    // Applicable candidates found; no more elements accepted
)

func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateCheckpointed:
		return "checkpointed"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// applicability is the cached filter output for the current candidates.
type applicability struct {
	candidates []*Candidate
	canChoose  bool
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger. The processor adds a request attribute.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.log = l
		}
	}
}

// Processor collects the overloads of one call site as a scope walker
// offers declarations, and resolves them. One Processor serves exactly one
// lookup and must not be shared between goroutines.
type Processor struct {
	site *CallSite
	ts   TypeSystem
	log  *slog.Logger

	candidates []*Candidate
	applicable *applicability // nil until a boundary computes it; reset by Accept
}

// NewProcessor returns a processor for site judged by ts.
func NewProcessor(site *CallSite, ts TypeSystem, opts ...Option) *Processor {
	p := &Processor{site: site, ts: ts, log: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With("request", requestID(), "call", site.String())
	return p
}

func requestID() string {
	if config.IsTestMode {
		return config.TestModeRequestID
	}
	return uuid.NewString()
}

// Hints tells the walker to offer only methods named like the call.
func (p *Processor) Hints() symbols.Hints {
	return symbols.Hints{Kind: symbols.KindMethod, Name: p.site.Name}
}

// WantsDynamicMembers is true until the first candidate is collected.
func (p *Processor) WantsDynamicMembers() bool {
	return len(p.candidates) == 0
}

// ShouldAcceptMore is false once a boundary found applicable candidates.
// The first non-empty applicable set in scope order shadows outer scopes.
func (p *Processor) ShouldAcceptMore() bool {
	return p.applicable == nil || len(p.applicable.candidates) == 0
}

// State reports the protocol state.
func (p *Processor) State() State {
	switch {
	case p.applicable == nil:
		return StateCollecting
	case len(p.applicable.candidates) == 0:
		return StateCheckpointed
	default:
		return StateClosed
	}
}

// Accept offers one element. It always returns true; stopping is signalled
// through ShouldAcceptMore. Offering an element after the stop signal, or an
// element known not to be a method, panics with *ContractViolation.
func (p *Processor) Accept(elem symbols.Element, state symbols.State) bool {
	if !p.ShouldAcceptMore() {
		violate(ErrAcceptAfterStop, "call %s, element %s", p.site, elem.ElementName())
	}

	decl, ok := elem.(*symbols.MethodDecl)
	if !ok {
		if state.Kind == symbols.KindUnknown {
			return true
		}
		violate(ErrUnexpectedElement, "%T %q of kind %s", elem, elem.ElementName(), state.Kind)
	}
	if state.VisibleName(elem) != p.site.Name {
		return true
	}

	c := newCandidate(decl, state, p.site, len(p.candidates))
	p.candidates = append(p.candidates, c)
	p.applicable = nil
	p.log.Debug("resolve.accept", "candidate", decl.String(), "scope", state.Scope, "dynamic", c.Dynamic)
	return true
}

// OnScopeBoundary computes applicability for the candidates collected so
// far unless it is already cached.
func (p *Processor) OnScopeBoundary() {
	if p.applicable != nil {
		return
	}
	p.applicable = p.computeApplicable()
	p.log.Debug("resolve.checkpoint",
		"candidates", len(p.candidates),
		"applicable", len(p.applicable.candidates),
		"can_choose", p.applicable.canChoose)
	if !p.ShouldAcceptMore() {
		p.log.Debug("resolve.stop")
	}
}

func (p *Processor) computeApplicable() *applicability {
	applicable, canChoose := FindApplicable(CorrectStaticScope(p.candidates), p.site, p.ts)
	return &applicability{candidates: applicable, canChoose: canChoose}
}

// Result resolves the collected candidates. It does not change the
// processor's state.
func (p *Processor) Result() Result {
	app := p.applicable
	if app == nil {
		app = p.computeApplicable()
	}

	var r Result
	switch {
	case len(app.candidates) == 0:
		r = Result{Kind: ResultEmpty}
	case app.canChoose:
		r = ChooseOverloads(app.candidates, ComparatorContext{Site: p.site, TS: p.ts})
	default:
		r = resultOf(FilterBySignature(app.candidates))
	}

	if r.IsAmbiguous() {
		p.log.Debug("resolve.ambiguous", "location", p.site.Location, "candidates", r.Signatures())
	} else {
		p.log.Debug("resolve.result", "kind", r.Kind.String())
	}
	return r
}

// AllCandidates returns every collected candidate in discovery order.
func (p *Processor) AllCandidates() []*Candidate {
	return append([]*Candidate(nil), p.candidates...)
}
