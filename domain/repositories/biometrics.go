package repositories

import (
	"context"

	"github.com/satriahrh/suara/domain/entities"
)

// EmbeddingExtractor maps a waveform to a fixed-length speaker embedding.
// Deterministic given the same model weights and input.
type EmbeddingExtractor interface {
	// Extract computes the embedding for a waveform. The returned vector
	// has length Dimension().
	Extract(ctx context.Context, waveform entities.Waveform) (entities.Embedding, error)
	// Dimension returns the dimensionality of the embedding vectors.
	Dimension() int
}

// LivenessVerdict is the outcome of a deepfake check.
type LivenessVerdict struct {
	// Synthetic is true when the sample is judged to be generated or
	// replayed rather than genuine human speech.
	Synthetic bool
	// Score is the detector's confidence in the verdict, in [0, 1].
	Score float64
}

// DeepfakeDetector classifies a waveform as genuine or synthetic speech.
// Consumed as a black box; its internals are not part of this service.
type DeepfakeDetector interface {
	Detect(ctx context.Context, waveform entities.Waveform) (LivenessVerdict, error)
}

// PinExtractor recovers a spoken digit sequence from a waveform.
// It returns the digits as a string, or "" when no digits were heard.
type PinExtractor interface {
	ExtractPIN(ctx context.Context, waveform entities.Waveform) (string, error)
}
