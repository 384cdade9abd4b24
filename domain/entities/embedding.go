package entities

import "math"

// Embedding is a fixed-length vector summarizing the biometric content of an
// audio sample. Embeddings are compared via cosine similarity or fed to a
// classifier, never by raw equality.
type Embedding []float64

// Cosine returns the cosine similarity between two embeddings, in [-1, 1].
// It returns 0 when either vector is zero-length, zero-valued, or the
// dimensions do not match.
func Cosine(a, b Embedding) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// MaxCosine returns the maximum cosine similarity between query and any
// embedding in the set. The result does not depend on the order of the set.
// Returns 0 for an empty set.
func MaxCosine(set []Embedding, query Embedding) float64 {
	best := math.Inf(-1)
	for _, e := range set {
		if s := Cosine(e, query); s > best {
			best = s
		}
	}
	if math.IsInf(best, -1) {
		return 0
	}
	return best
}
