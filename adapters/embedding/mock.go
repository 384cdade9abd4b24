package embedding

import (
	"context"
	"hash/fnv"
	"math"

	"go.uber.org/zap"

	"github.com/satriahrh/suara/domain/entities"
	"github.com/satriahrh/suara/domain/repositories"
)

// MockExtractor is a placeholder extractor for development without an
// inference service. It derives a deterministic pseudo-embedding from the
// audio bytes, so identical recordings always map to identical vectors.
type MockExtractor struct {
	dimension int
	logger    *zap.Logger
}

// NewMockExtractor creates a mock extractor of the given dimensionality.
func NewMockExtractor(dimension int, logger *zap.Logger) repositories.EmbeddingExtractor {
	if dimension <= 0 {
		dimension = defaultDimension
	}
	return &MockExtractor{dimension: dimension, logger: logger}
}

func (m *MockExtractor) Extract(_ context.Context, waveform entities.Waveform) (entities.Embedding, error) {
	m.logger.Debug("Computing mock embedding",
		zap.Int("samples", waveform.NumSamples()),
		zap.Int("sample_rate", waveform.SampleRate))

	h := fnv.New64a()
	h.Write(waveform.PCM16)
	state := h.Sum64()

	// xorshift over the seed so the vector is deterministic per input.
	vec := make(entities.Embedding, m.dimension)
	for i := range vec {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		vec[i] = float64(int64(state)) / float64(math.MaxInt64)
	}
	return vec, nil
}

func (m *MockExtractor) Dimension() int {
	return m.dimension
}
