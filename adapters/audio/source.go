package audio

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/satriahrh/suara/domain/entities"
	"github.com/satriahrh/suara/domain/repositories"
)

// Source fetches recordings from a FileStore and decodes them into mono
// waveforms at the extractor's required sample rate.
type Source struct {
	store      repositories.FileStore
	sampleRate int
	logger     *zap.Logger
}

// NewSource creates an audio source. sampleRate is the rate the model
// adapters expect, typically 16000.
func NewSource(store repositories.FileStore, sampleRate int, logger *zap.Logger) *Source {
	return &Source{
		store:      store,
		sampleRate: sampleRate,
		logger:     logger,
	}
}

// Fetch downloads the recording at storageKey, decodes the WAV container,
// downmixes to mono, and resamples to the configured rate.
func (s *Source) Fetch(ctx context.Context, storageKey string) (entities.Waveform, error) {
	rc, err := s.store.Read(ctx, storageKey)
	if err != nil {
		return entities.Waveform{}, fmt.Errorf("failed to fetch audio object: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return entities.Waveform{}, fmt.Errorf("failed to read audio object: %w", err)
	}

	dec, err := decodeWAV(data)
	if err != nil {
		return entities.Waveform{}, fmt.Errorf("failed to decode audio: %w", err)
	}

	pcm := dec.pcm
	if dec.channels == 2 {
		pcm = downmixToMono(pcm)
	}

	if dec.sampleRate != s.sampleRate {
		pcm, err = resamplePCM(pcm, dec.sampleRate, s.sampleRate)
		if err != nil {
			return entities.Waveform{}, fmt.Errorf("failed to resample audio: %w", err)
		}
		s.logger.Debug("Resampled audio",
			zap.String("storage_key", storageKey),
			zap.Int("from_rate", dec.sampleRate),
			zap.Int("to_rate", s.sampleRate))
	}

	return entities.Waveform{PCM16: pcm, SampleRate: s.sampleRate}, nil
}

// Store uploads a raw recording under a generated key of the form
// audio/<user_id>/<uuid>.<ext> and returns the key.
func (s *Source) Store(ctx context.Context, userID string, data []byte, filename string) (string, error) {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		ext = "wav"
	}
	key := fmt.Sprintf("audio/%s/%s.%s", userID, uuid.New(), ext)

	wc, err := s.store.Write(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to open storage for upload: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return "", fmt.Errorf("failed to write audio upload: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to finish audio upload: %w", err)
	}

	s.logger.Info("Stored uploaded audio sample",
		zap.String("user_id", userID),
		zap.String("storage_key", key),
		zap.Int("bytes", len(data)))

	return key, nil
}

var _ repositories.AudioSource = (*Source)(nil)
