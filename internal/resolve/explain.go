package resolve

// Explanation is one collected candidate and how the filters judged it.
type Explanation struct {
	Candidate *Candidate // Instantiated copy when inference ran
	Verdict   Verdict
	Static    bool // Dropped by the static-scope corrector; Verdict is Inapplicable
}

// Explain judges every collected candidate in discovery order. It shares
// its judgments with Result but does not change the processor's state.
func (p *Processor) Explain() []Explanation {
	out := make([]Explanation, len(p.candidates))
	for i, c := range p.candidates {
		if !c.StaticsOK() {
			out[i] = Explanation{Candidate: c, Verdict: Inapplicable, Static: true}
			continue
		}
		verdict, inst := Applicability(c, p.site, p.ts)
		out[i] = Explanation{Candidate: inst, Verdict: verdict}
	}
	return out
}
