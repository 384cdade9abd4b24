package pin

import (
	"context"
	"fmt"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"

	"github.com/satriahrh/suara/domain/entities"
	"github.com/satriahrh/suara/domain/repositories"
)

// GoogleExtractor implements PinExtractor using Google Cloud
// Speech-to-Text. Recordings are short single utterances, so the
// synchronous Recognize API is used rather than streaming.
type GoogleExtractor struct {
	language string
	logger   *zap.Logger
}

var _ repositories.PinExtractor = (*GoogleExtractor)(nil)

// NewGoogleExtractor creates the adapter. language is a BCP-47 code such
// as "en-US" or "id-ID".
func NewGoogleExtractor(language string, logger *zap.Logger) *GoogleExtractor {
	if language == "" {
		language = "en-US"
	}
	return &GoogleExtractor{language: language, logger: logger}
}

// ExtractPIN transcribes the waveform and reduces the transcript to the
// spoken digit sequence. Returns "" when no digits were heard.
func (g *GoogleExtractor) ExtractPIN(ctx context.Context, waveform entities.Waveform) (string, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create speech client: %w", err)
	}
	defer client.Close()

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: int32(waveform.SampleRate),
			LanguageCode:    g.language,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{
				Content: waveform.PCM16,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("speech recognition failed: %w", err)
	}

	var transcript string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			transcript += result.Alternatives[0].Transcript + " "
		}
	}

	digits := DigitsFromTranscript(transcript)
	g.logger.Debug("Extracted PIN from transcript",
		zap.String("transcript", transcript),
		zap.Int("digit_count", len(digits)))

	return digits, nil
}
