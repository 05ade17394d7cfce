package textutil

// CosineSimilarity is 0 when either side is nil or empty.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for term, w := range a.weights {
		if other, ok := b.weights[term]; ok {
			dot += w * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// NameSimilarity scores how closely two business names match, in [0, 1].
// Identical slugs score 1 even when punctuation or accents differ.
func NameSimilarity(a, b string) float64 {
	if sa, sb := Slugify(a), Slugify(b); sa != "" && sa == sb {
		return 1
	}
	return CosineSimilarity(NewFingerprint(a), NewFingerprint(b))
}
