package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/satriahrh/suara/domain/entities"
	"github.com/satriahrh/suara/domain/repositories"
)

// Variant names a deployment variant of the voice-authentication service.
// The variant selects both the enrollment gate and the verification
// strategy.
type Variant string

const (
	// VariantClassifier authenticates with a per-user discriminative
	// model and gates enrollment on a deepfake check.
	VariantClassifier Variant = "classifier"
	// VariantCosine authenticates on max cosine similarity against the
	// enrolled embeddings and gates enrollment on a deepfake check.
	VariantCosine Variant = "cosine"
	// VariantMultifactor authenticates on a weighted combination of a
	// spoken-PIN check and voice similarity, and gates enrollment on the
	// PIN check.
	VariantMultifactor Variant = "multifactor"
)

// ParseVariant validates a variant name from configuration.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantClassifier, VariantCosine, VariantMultifactor:
		return Variant(s), nil
	}
	return "", fmt.Errorf("unknown variant %q (want classifier, cosine, or multifactor)", s)
}

const (
	// CosineThreshold is the minimum max-similarity for the cosine
	// strategy to authenticate.
	CosineThreshold = 0.85
	// CombinedThreshold is the minimum weighted score for the
	// multifactor strategy to authenticate.
	CombinedThreshold = 0.85
	// PinWeight and VoiceWeight combine the multifactor terms. Since the
	// PIN score is 0 or 1, a PIN mismatch caps the combined score at
	// VoiceWeight, below the threshold: the PIN is effectively a hard
	// gate even though it is written as a weighted term.
	PinWeight   = 0.7
	VoiceWeight = 0.3
)

// Decision is the scored outcome of a verification strategy. Scores are
// always populated for the fields the strategy computes; callers rely on
// them for audit and debugging, not just the boolean.
type Decision struct {
	Authenticated   bool
	Reason          string
	VoiceSimilarity float64
	PinMatch        bool
	CombinedScore   float64
	ExtractedPIN    string
	ExpectedPIN     string
}

// Strategy decides whether a presented sample matches an enrolled
// identity. The embedding-extraction preamble is shared by the
// verification service; strategies receive the computed embedding plus
// the waveform for strategies that need further audio analysis.
type Strategy interface {
	Variant() Variant
	Decide(ctx context.Context, record *entities.UserRecord, embedding entities.Embedding, waveform entities.Waveform) (Decision, error)
}

// classifierStrategy feeds the embedding to the user's persisted model.
type classifierStrategy struct {
	models repositories.SpeakerModelStore
}

// NewClassifierStrategy builds the per-user-classifier strategy.
func NewClassifierStrategy(models repositories.SpeakerModelStore) Strategy {
	return &classifierStrategy{models: models}
}

func (s *classifierStrategy) Variant() Variant { return VariantClassifier }

func (s *classifierStrategy) Decide(ctx context.Context, record *entities.UserRecord, embedding entities.Embedding, _ entities.Waveform) (Decision, error) {
	match, err := s.models.Predict(ctx, record.UserID, embedding)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Authenticated: match}, nil
}

// cosineStrategy authenticates on the maximum cosine similarity between
// the presented embedding and every enrolled one.
type cosineStrategy struct{}

// NewCosineStrategy builds the cosine-threshold strategy.
func NewCosineStrategy() Strategy {
	return &cosineStrategy{}
}

func (s *cosineStrategy) Variant() Variant { return VariantCosine }

func (s *cosineStrategy) Decide(_ context.Context, record *entities.UserRecord, embedding entities.Embedding, _ entities.Waveform) (Decision, error) {
	similarity := entities.MaxCosine(record.Embeddings(), embedding)
	return Decision{
		Authenticated:   similarity >= CosineThreshold,
		VoiceSimilarity: similarity,
	}, nil
}

// multifactorStrategy combines a spoken-PIN check with voice similarity.
type multifactorStrategy struct {
	pins repositories.PinExtractor
}

// NewMultifactorStrategy builds the weighted PIN-plus-voice strategy.
func NewMultifactorStrategy(pins repositories.PinExtractor) Strategy {
	return &multifactorStrategy{pins: pins}
}

func (s *multifactorStrategy) Variant() Variant { return VariantMultifactor }

func (s *multifactorStrategy) Decide(ctx context.Context, record *entities.UserRecord, embedding entities.Embedding, waveform entities.Waveform) (Decision, error) {
	extracted, err := s.pins.ExtractPIN(ctx, waveform)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to extract PIN: %w", err)
	}

	pinScore := 0.0
	pinMatch := record.SecretPIN != "" && extracted == record.SecretPIN
	if pinMatch {
		pinScore = 1.0
	}

	voiceScore := entities.MaxCosine(record.Embeddings(), embedding)
	combined := PinWeight*pinScore + VoiceWeight*voiceScore

	return Decision{
		Authenticated:   combined >= CombinedThreshold,
		VoiceSimilarity: voiceScore,
		PinMatch:        pinMatch,
		CombinedScore:   combined,
		ExtractedPIN:    extracted,
		ExpectedPIN:     record.SecretPIN,
	}, nil
}

// VerificationResult is the outcome of a verify call: the strategy's
// scored decision plus the storage key that was checked.
type VerificationResult struct {
	Decision
	StorageKey string
}

// VerificationService runs the configured strategy against an enrolled
// identity.
type VerificationService struct {
	audio    repositories.AudioSource
	store    repositories.IdentityStore
	embedder repositories.EmbeddingExtractor
	detector repositories.DeepfakeDetector // nil unless liveness-checked variant
	models   repositories.SpeakerModelStore
	strategy Strategy
	logger   *zap.Logger
}

// NewVerificationService wires a verification service. detector may be
// nil for the multifactor variant; models is consulted only by the
// classifier variant.
func NewVerificationService(
	audio repositories.AudioSource,
	store repositories.IdentityStore,
	embedder repositories.EmbeddingExtractor,
	detector repositories.DeepfakeDetector,
	models repositories.SpeakerModelStore,
	strategy Strategy,
	logger *zap.Logger,
) *VerificationService {
	return &VerificationService{
		audio:    audio,
		store:    store,
		embedder: embedder,
		detector: detector,
		models:   models,
		strategy: strategy,
		logger:   logger,
	}
}

// Verify decides whether the sample at storageKey matches the identity
// enrolled under userID. Returns entities.ErrUnknownUser when the user
// has no usable enrollment for the configured strategy.
func (s *VerificationService) Verify(ctx context.Context, userID, storageKey string) (VerificationResult, error) {
	users, err := s.store.Load(ctx)
	if err != nil {
		return VerificationResult{}, fmt.Errorf("failed to load identity store: %w", err)
	}
	record := users[userID]

	// The classifier variant verifies against the trained model; the
	// others need at least one stored embedding. A record emptied by
	// deletions is as unknown as no record at all.
	if s.strategy.Variant() == VariantClassifier {
		exists, err := s.models.Exists(ctx, userID)
		if err != nil {
			return VerificationResult{}, fmt.Errorf("failed to check model: %w", err)
		}
		if !exists {
			return VerificationResult{}, fmt.Errorf("user %q has no trained model: %w", userID, entities.ErrUnknownUser)
		}
		if record == nil {
			record = entities.NewUserRecord(userID)
		}
	} else if record == nil || !record.HasSamples() {
		return VerificationResult{}, fmt.Errorf("user %q has no enrolled samples: %w", userID, entities.ErrUnknownUser)
	}

	waveform, err := s.audio.Fetch(ctx, storageKey)
	if err != nil {
		return VerificationResult{}, &entities.AudioFetchError{StorageKey: storageKey, Err: err}
	}

	// The liveness-checked variants re-run the deepfake detector on the
	// presented sample; a synthetic verdict fails verification outright
	// rather than erroring.
	if s.detector != nil {
		verdict, err := s.detector.Detect(ctx, waveform)
		if err != nil {
			return VerificationResult{}, fmt.Errorf("liveness check failed: %w", err)
		}
		if verdict.Synthetic {
			s.logger.Warn("Verification sample flagged as synthetic",
				zap.String("user_id", userID),
				zap.String("storage_key", storageKey),
				zap.Float64("score", verdict.Score))
			return VerificationResult{
				Decision:   Decision{Authenticated: false, Reason: "audio is a deepfake"},
				StorageKey: storageKey,
			}, nil
		}
	}

	embedding, err := s.embedder.Extract(ctx, waveform)
	if err != nil {
		return VerificationResult{}, fmt.Errorf("failed to extract embedding: %w", err)
	}

	decision, err := s.strategy.Decide(ctx, record, embedding, waveform)
	if err != nil {
		return VerificationResult{}, err
	}

	s.logger.Info("Verification decision",
		zap.String("user_id", userID),
		zap.String("storage_key", storageKey),
		zap.String("variant", string(s.strategy.Variant())),
		zap.Bool("authenticated", decision.Authenticated))

	return VerificationResult{Decision: decision, StorageKey: storageKey}, nil
}
