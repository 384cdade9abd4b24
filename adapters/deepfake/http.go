// Package deepfake provides DeepfakeDetector adapters. The detector is a
// black-box binary classifier: genuine human speech or synthetic audio.
package deepfake

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

const defaultTimeout = 30 * time.Second

// HTTPConfig holds configuration for the HTTP deepfake adapter.
type HTTPConfig struct {
	BaseURL string
	Timeout time.Duration
}

// HTTPDetector implements DeepfakeDetector against an HTTP inference
// service exposing POST /detect.
type HTTPDetector struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

var _ repositories.DeepfakeDetector = (*HTTPDetector)(nil)

type detectRequest struct {
	AudioBase64 string `json:"audio_base64"`
	SampleRate  int    `json:"sample_rate"`
}

type detectResponse struct {
	Label string  `json:"label"` // "genuine" or "synthetic"
	Score float64 `json:"score"`
}

// NewHTTPDetector creates the adapter, applying defaults.
func NewHTTPDetector(config HTTPConfig, logger *zap.Logger) (*HTTPDetector, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("deepfake service base URL is required")
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	return &HTTPDetector{
		baseURL: config.BaseURL,
		client:  &http.Client{Timeout: config.Timeout},
		logger:  logger,
	}, nil
}

// Detect sends the waveform to the inference service and returns its
// verdict.
func (d *HTTPDetector) Detect(ctx context.Context, waveform entities.Waveform) (repositories.LivenessVerdict, error) {
	payload, err := json.Marshal(detectRequest{
		AudioBase64: base64.StdEncoding.EncodeToString(waveform.PCM16),
		SampleRate:  waveform.SampleRate,
	})
	if err != nil {
		return repositories.LivenessVerdict{}, fmt.Errorf("failed to encode detection request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/detect", bytes.NewReader(payload))
	if err != nil {
		return repositories.LivenessVerdict{}, fmt.Errorf("failed to build detection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return repositories.LivenessVerdict{}, fmt.Errorf("deepfake service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		d.logger.Error("Deepfake service returned error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return repositories.LivenessVerdict{}, fmt.Errorf("deepfake service returned status %d", resp.StatusCode)
	}

	var out detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return repositories.LivenessVerdict{}, fmt.Errorf("failed to decode detection response: %w", err)
	}

	return repositories.LivenessVerdict{
		Synthetic: out.Label == "synthetic",
		Score:     out.Score,
	}, nil
}
