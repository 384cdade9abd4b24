package entities

import (
	"math"
	"testing"
)

func TestCosineIdenticalVectors(t *testing.T) {
	a := Embedding{1, 2, 3}
	if got := Cosine(a, a); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Expected similarity 1.0 for identical vectors, got %f", got)
	}
}

func TestCosineOrthogonalVectors(t *testing.T) {
	a := Embedding{1, 0}
	b := Embedding{0, 1}
	if got := Cosine(a, b); math.Abs(got) > 1e-9 {
		t.Errorf("Expected similarity 0 for orthogonal vectors, got %f", got)
	}
}

func TestCosineOppositeVectors(t *testing.T) {
	a := Embedding{1, 0}
	b := Embedding{-1, 0}
	if got := Cosine(a, b); math.Abs(got+1.0) > 1e-9 {
		t.Errorf("Expected similarity -1 for opposite vectors, got %f", got)
	}
}

func TestCosineDegenerateInputs(t *testing.T) {
	if got := Cosine(Embedding{}, Embedding{}); got != 0 {
		t.Errorf("Expected 0 for empty vectors, got %f", got)
	}
	if got := Cosine(Embedding{1, 2}, Embedding{1, 2, 3}); got != 0 {
		t.Errorf("Expected 0 for mismatched dimensions, got %f", got)
	}
	if got := Cosine(Embedding{0, 0}, Embedding{1, 2}); got != 0 {
		t.Errorf("Expected 0 for a zero vector, got %f", got)
	}
}

func TestMaxCosineOrderInvariance(t *testing.T) {
	query := Embedding{1, 0, 0}
	set := []Embedding{
		{0, 1, 0},
		{0.9, 0.1, 0},
		{0, 0, 1},
		{0.5, 0.5, 0},
	}
	reversed := make([]Embedding, len(set))
	for i, e := range set {
		reversed[len(set)-1-i] = e
	}

	forward := MaxCosine(set, query)
	backward := MaxCosine(reversed, query)
	if math.Abs(forward-backward) > 1e-12 {
		t.Errorf("Max similarity depends on order: %f vs %f", forward, backward)
	}
}

func TestMaxCosineEmptySet(t *testing.T) {
	if got := MaxCosine(nil, Embedding{1, 0}); got != 0 {
		t.Errorf("Expected 0 for empty set, got %f", got)
	}
}
