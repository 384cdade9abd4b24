package repositories

import (
	"context"

	"github.com/satriahrh/suara/domain/entities"
)

// AudioSource retrieves raw recordings from object storage and decodes
// them into waveforms at the sample rate the model adapters expect.
type AudioSource interface {
	// Fetch downloads and decodes the recording at the given storage key,
	// downmixing to mono and resampling as needed.
	Fetch(ctx context.Context, storageKey string) (entities.Waveform, error)

	// Store uploads a raw recording for a user and returns the generated
	// storage key. Used by direct-upload enrollment.
	Store(ctx context.Context, userID string, data []byte, filename string) (string, error)
}
