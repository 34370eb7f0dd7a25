package resolve

// FilterBySignature deduplicates candidates by post-substitution signature,
// first seen wins. It never compares specificity.
func FilterBySignature(candidates []*Candidate) []*Candidate {
	if len(candidates) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(candidates))
	out := make([]*Candidate, 0, len(candidates))
	for _, c := range candidates {
		sig := c.Signature()
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, c)
	}
	return out
}
