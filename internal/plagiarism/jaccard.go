package plagiarism

// Jaccard computes exact Jaccard similarity between two shingle sets.
// Two empty sets are identical (1.0); an empty set shares nothing with a
// non-empty one (0.0).
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	inter := 0
	for s := range small {
		if _, ok := large[s]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
