package pin

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/satriahrh/suara/adapters/audio"
	"github.com/satriahrh/suara/domain/entities"
	"github.com/satriahrh/suara/domain/repositories"
)

const (
	geminiModel   = "gemini-2.0-flash"
	geminiTimeout = 30 * time.Second
	geminiPrompt  = "Transcribe only the digits spoken in this audio clip. " +
		"Reply with the digits and nothing else. If no digits are spoken, reply with NONE."
)

// GeminiExtractor implements PinExtractor using Gemini audio
// transcription. Useful where Google Cloud Speech credentials are not
// available; only a Gemini API key is required.
type GeminiExtractor struct {
	client *genai.Client
	logger *zap.Logger
}

var _ repositories.PinExtractor = (*GeminiExtractor)(nil)

// NewGeminiExtractor creates the adapter from the GEMINI_API_KEY
// environment variable.
func NewGeminiExtractor(ctx context.Context, logger *zap.Logger) (*GeminiExtractor, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiExtractor{client: client, logger: logger}, nil
}

// ExtractPIN asks the model for the digits spoken in the clip and
// normalizes its reply. Returns "" when no digits were heard.
func (g *GeminiExtractor) ExtractPIN(ctx context.Context, waveform entities.Waveform) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, geminiTimeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(geminiPrompt),
			genai.NewPartFromBytes(audio.EncodeWAV(waveform), "audio/wav"),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, geminiModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var reply string
	for _, part := range resp.Candidates[0].Content.Parts {
		reply += part.Text
	}

	digits := DigitsFromTranscript(reply)
	g.logger.Debug("Extracted PIN via Gemini",
		zap.String("reply", reply),
		zap.Int("digit_count", len(digits)))

	return digits, nil
}
