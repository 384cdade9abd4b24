package deepfake

import (
	"context"

	"go.uber.org/zap"

	"github.com/satriahrh/suara/domain/entities"
	"github.com/satriahrh/suara/domain/repositories"
)

// MockDetector is a placeholder detector for development. It marks every
// sample genuine unless the sample is implausibly short, which is a rough
// stand-in for "this is not real speech".
type MockDetector struct {
	logger *zap.Logger
}

// NewMockDetector creates a mock deepfake detector.
func NewMockDetector(logger *zap.Logger) repositories.DeepfakeDetector {
	return &MockDetector{logger: logger}
}

func (m *MockDetector) Detect(_ context.Context, waveform entities.Waveform) (repositories.LivenessVerdict, error) {
	// Anything under 100ms cannot carry a genuine utterance.
	synthetic := waveform.DurationSeconds() < 0.1
	m.logger.Debug("Mock liveness check",
		zap.Float64("duration_s", waveform.DurationSeconds()),
		zap.Bool("synthetic", synthetic))

	score := 0.99
	return repositories.LivenessVerdict{Synthetic: synthetic, Score: score}, nil
}
