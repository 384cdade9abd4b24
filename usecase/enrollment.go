package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/satriahrh/suara/domain/entities"
	"github.com/satriahrh/suara/domain/repositories"
)

// ErrPinRequired is returned when a multifactor enrollment arrives for a
// brand-new user without an expected PIN to fix as the secret.
var ErrPinRequired = errors.New("pin is required for first enrollment")

// ErrSampleNotFound is returned when a deletion names a storage key the
// user never enrolled (or already deleted).
var ErrSampleNotFound = errors.New("sample not found")

// EnrollParams carries one enrollment request. Either StorageKey points
// at an existing recording, or AudioData+Filename carry a direct upload
// that the engine stores first.
type EnrollParams struct {
	UserID     string
	StorageKey string
	AudioData  []byte
	Filename   string
	PIN        string
}

// EnrollmentResult reports a successful enrollment.
type EnrollmentResult struct {
	StorageKey   string
	ExtractedPIN string
	Liveness     *repositories.LivenessVerdict
}

// EnrollmentService validates and appends biometric samples to user
// records, gated per deployment variant, and owns all identity-store
// mutations (enroll, delete, list). A single mutex serializes every
// load-mutate-save sequence so concurrent requests cannot lose updates.
type EnrollmentService struct {
	audio    repositories.AudioSource
	store    repositories.IdentityStore
	embedder repositories.EmbeddingExtractor
	detector repositories.DeepfakeDetector // liveness gate, nil for multifactor
	pins     repositories.PinExtractor     // PIN gate, nil unless multifactor
	models   repositories.SpeakerModelStore
	variant  Variant
	logger   *zap.Logger

	mu sync.Mutex
}

// NewEnrollmentService wires an enrollment service for a variant.
// detector gates the classifier and cosine variants; pins gates the
// multifactor variant; models is retrained only by the classifier
// variant. Unused collaborators may be nil.
func NewEnrollmentService(
	audio repositories.AudioSource,
	store repositories.IdentityStore,
	embedder repositories.EmbeddingExtractor,
	detector repositories.DeepfakeDetector,
	pins repositories.PinExtractor,
	models repositories.SpeakerModelStore,
	variant Variant,
	logger *zap.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		audio:    audio,
		store:    store,
		embedder: embedder,
		detector: detector,
		pins:     pins,
		models:   models,
		variant:  variant,
		logger:   logger,
	}
}

// Enroll runs the full registration pipeline: acquire audio, pass the
// variant's gate, compute the embedding, append to the user's record, and
// (classifier variant) retrain that user's model. Every gate runs before
// any persistence; a gating failure leaves the store untouched.
func (s *EnrollmentService) Enroll(ctx context.Context, params EnrollParams) (EnrollmentResult, error) {
	storageKey := params.StorageKey
	if len(params.AudioData) > 0 {
		key, err := s.audio.Store(ctx, params.UserID, params.AudioData, params.Filename)
		if err != nil {
			return EnrollmentResult{}, fmt.Errorf("failed to store uploaded audio: %w", err)
		}
		storageKey = key
	}

	waveform, err := s.audio.Fetch(ctx, storageKey)
	if err != nil {
		return EnrollmentResult{}, &entities.AudioFetchError{StorageKey: storageKey, Err: err}
	}

	result := EnrollmentResult{StorageKey: storageKey}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.Load(ctx)
	if err != nil {
		return EnrollmentResult{}, fmt.Errorf("failed to load identity store: %w", err)
	}
	record := users[params.UserID]

	switch s.variant {
	case VariantClassifier, VariantCosine:
		verdict, err := s.detector.Detect(ctx, waveform)
		if err != nil {
			return EnrollmentResult{}, fmt.Errorf("liveness check failed: %w", err)
		}
		result.Liveness = &verdict
		if verdict.Synthetic {
			s.logger.Warn("Enrollment rejected by liveness check",
				zap.String("user_id", params.UserID),
				zap.String("storage_key", storageKey),
				zap.Float64("score", verdict.Score))
			return EnrollmentResult{}, &entities.LivenessError{Score: verdict.Score}
		}

	case VariantMultifactor:
		// The expected PIN is the record's fixed secret once set; the
		// request's PIN only counts on the very first enrollment.
		expected := params.PIN
		if record != nil && record.SecretPIN != "" {
			expected = record.SecretPIN
		}
		if expected == "" {
			return EnrollmentResult{}, ErrPinRequired
		}

		extracted, err := s.pins.ExtractPIN(ctx, waveform)
		if err != nil {
			return EnrollmentResult{}, fmt.Errorf("failed to extract PIN: %w", err)
		}
		result.ExtractedPIN = extracted
		if extracted != expected {
			s.logger.Warn("Enrollment rejected by PIN check",
				zap.String("user_id", params.UserID),
				zap.String("storage_key", storageKey))
			return EnrollmentResult{}, &entities.PinMismatchError{Extracted: extracted, Expected: expected}
		}
	}

	embedding, err := s.embedder.Extract(ctx, waveform)
	if err != nil {
		return EnrollmentResult{}, fmt.Errorf("failed to extract embedding: %w", err)
	}

	if record == nil {
		record = entities.NewUserRecord(params.UserID)
		users[params.UserID] = record
	}
	if s.variant == VariantMultifactor && record.SecretPIN == "" {
		record.SecretPIN = params.PIN
	}
	record.AddSample(embedding, storageKey)

	if err := s.store.Save(ctx, users); err != nil {
		return EnrollmentResult{}, fmt.Errorf("failed to save identity store: %w", err)
	}

	if s.variant == VariantClassifier {
		// Retraining is synchronous and lazy: only the enrolling user's
		// model sees the updated pool. Other users' models stay stale
		// until their own next enrollment.
		if err := s.models.Train(ctx, params.UserID, users); err != nil {
			return EnrollmentResult{}, fmt.Errorf("failed to retrain model: %w", err)
		}
	}

	s.logger.Info("User sample enrolled",
		zap.String("user_id", params.UserID),
		zap.String("storage_key", storageKey),
		zap.Int("sample_count", len(record.Samples)))

	return result, nil
}

// ListSamples returns the user's storage keys in enrollment order.
// Returns entities.ErrUnknownUser when no record exists.
func (s *EnrollmentService) ListSamples(ctx context.Context, userID string) ([]string, error) {
	users, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load identity store: %w", err)
	}
	record, ok := users[userID]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", userID, entities.ErrUnknownUser)
	}
	return record.StorageKeys(), nil
}

// DeleteSample removes the first sample matching storageKey exactly. The
// record persists even when its last sample is removed. Returns
// entities.ErrUnknownUser when no record exists.
func (s *EnrollmentService) DeleteSample(ctx context.Context, userID, storageKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load identity store: %w", err)
	}
	record, ok := users[userID]
	if !ok {
		return fmt.Errorf("user %q: %w", userID, entities.ErrUnknownUser)
	}

	if !record.RemoveSample(storageKey) {
		return fmt.Errorf("no sample with storage key %q for user %q: %w", storageKey, userID, ErrSampleNotFound)
	}

	if err := s.store.Save(ctx, users); err != nil {
		return fmt.Errorf("failed to save identity store: %w", err)
	}

	s.logger.Info("User sample deleted",
		zap.String("user_id", userID),
		zap.String("storage_key", storageKey),
		zap.Int("remaining", len(record.Samples)))

	return nil
}
