// Package embedding provides EmbeddingExtractor adapters. The production
// adapter talks to an inference service hosting the speaker-embedding
// model; the service itself is a black box that turns audio into a
// fixed-length vector.
package embedding

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/suara/domain/entities"
	"github.com/satriahrh/suara/domain/repositories"
)

const (
	defaultDimension = 1024
	defaultTimeout   = 30 * time.Second
)

// HTTPConfig holds configuration for the HTTP embedding adapter.
// Required fields:
// - BaseURL: the inference service base URL
// Optional fields with defaults:
// - Dimension: embedding vector length (default: 1024)
// - Timeout: request timeout (default: 30s)
type HTTPConfig struct {
	BaseURL   string
	Dimension int
	Timeout   time.Duration
}

// HTTPExtractor implements EmbeddingExtractor against an HTTP inference
// service exposing POST /embed.
type HTTPExtractor struct {
	baseURL   string
	dimension int
	client    *http.Client
	logger    *zap.Logger
}

var _ repositories.EmbeddingExtractor = (*HTTPExtractor)(nil)

type embedRequest struct {
	AudioBase64 string `json:"audio_base64"`
	SampleRate  int    `json:"sample_rate"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// NewHTTPExtractor creates the adapter, applying defaults.
func NewHTTPExtractor(config HTTPConfig, logger *zap.Logger) (*HTTPExtractor, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("embedding service base URL is required")
	}
	if config.Dimension == 0 {
		config.Dimension = defaultDimension
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	return &HTTPExtractor{
		baseURL:   config.BaseURL,
		dimension: config.Dimension,
		client:    &http.Client{Timeout: config.Timeout},
		logger:    logger,
	}, nil
}

// Extract sends the waveform to the inference service and returns the
// embedding it computes.
func (e *HTTPExtractor) Extract(ctx context.Context, waveform entities.Waveform) (entities.Embedding, error) {
	payload, err := json.Marshal(embedRequest{
		AudioBase64: base64.StdEncoding.EncodeToString(waveform.PCM16),
		SampleRate:  waveform.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embed", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		e.logger.Error("Embedding service returned error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, fmt.Errorf("embedding service returned status %d", resp.StatusCode)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	if len(out.Embedding) != e.dimension {
		return nil, fmt.Errorf("embedding service returned %d dimensions, want %d", len(out.Embedding), e.dimension)
	}

	return entities.Embedding(out.Embedding), nil
}

// Dimension returns the configured embedding length.
func (e *HTTPExtractor) Dimension() int {
	return e.dimension
}
