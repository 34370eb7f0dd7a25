package resolve

// CorrectStaticScope drops candidates whose static/instance nature does not
// fit the context they were found in. These are definitive rejections, so
// it runs before applicability. Order is preserved.
func CorrectStaticScope(candidates []*Candidate) []*Candidate {
	if len(candidates) == 0 {
		return nil
	}
	out := make([]*Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.StaticsOK() {
			out = append(out, c)
		}
	}
	return out
}
