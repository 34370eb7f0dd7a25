package resolve

import (
	"fmt"
	"strings"
)

type ResultKind int

const (
	ResultEmpty     ResultKind = iota // No candidate applies
	ResultSingle                      // One best candidate
	ResultAmbiguous                   // Several indistinguishable or incomparable candidates
)

func (k ResultKind) String() string {
	switch k {
	case ResultEmpty:
		return "empty"
	case ResultSingle:
		return "single"
	case ResultAmbiguous:
		return "ambiguous"
	default:
		return fmt.Sprintf("result(%d)", int(k))
	}
}

// Result is the outcome of one resolution.
type Result struct {
	Kind       ResultKind
	Candidates []*Candidate // Discovery order

	// Ranked is set when the candidates went through specificity comparison
	// rather than signature filtering.
	Ranked bool
}

func resultOf(candidates []*Candidate) Result {
	switch len(candidates) {
	case 0:
		return Result{Kind: ResultEmpty}
	case 1:
		return Result{Kind: ResultSingle, Candidates: candidates}
	default:
		return Result{Kind: ResultAmbiguous, Candidates: candidates}
	}
}

// Best returns the single result, if there is one.
func (r Result) Best() (*Candidate, bool) {
	if r.Kind != ResultSingle {
		return nil, false
	}
	return r.Candidates[0], true
}

func (r Result) IsEmpty() bool { return r.Kind == ResultEmpty }

func (r Result) IsAmbiguous() bool { return r.Kind == ResultAmbiguous }

// Signatures lists the candidate signatures in order.
func (r Result) Signatures() []string {
	out := make([]string, len(r.Candidates))
	for i, c := range r.Candidates {
		out[i] = c.Signature()
	}
	return out
}

func (r Result) String() string {
	if r.Kind == ResultEmpty {
		return "empty"
	}
	return fmt.Sprintf("%s[%s]", r.Kind, strings.Join(r.Signatures(), "; "))
}
