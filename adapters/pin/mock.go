package pin

import (
	"context"

	"go.uber.org/zap"

	"github.com/satriahrh/suara/domain/entities"
	"github.com/satriahrh/suara/domain/repositories"
)

// MockExtractor is a placeholder PIN extractor for development without a
// speech backend. It always hears the configured digits.
type MockExtractor struct {
	digits string
	logger *zap.Logger
}

// NewMockExtractor creates a mock extractor that returns digits for every
// sample.
func NewMockExtractor(digits string, logger *zap.Logger) repositories.PinExtractor {
	return &MockExtractor{digits: digits, logger: logger}
}

func (m *MockExtractor) ExtractPIN(_ context.Context, waveform entities.Waveform) (string, error) {
	m.logger.Debug("Mock PIN extraction",
		zap.Int("samples", waveform.NumSamples()),
		zap.String("digits", m.digits))
	return m.digits, nil
}
