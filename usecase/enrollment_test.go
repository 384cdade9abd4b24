package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/satriahrh/suara/domain/entities"
)

func newCosineEnrollment(store *fakeIdentityStore, embedder *stubEmbedder, detector *stubDetector) *EnrollmentService {
	return NewEnrollmentService(&fakeAudio{}, store, embedder, detector, nil, nil, VariantCosine, zap.NewNop())
}

func TestEnrollListDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := &fakeIdentityStore{}
	embedder := &stubEmbedder{vectors: map[string]entities.Embedding{
		"rec1": {1, 0, 0},
		"rec2": {0.9, 0.1, 0},
	}}
	svc := newCosineEnrollment(store, embedder, &stubDetector{})

	for _, key := range []string{"rec1", "rec2"} {
		result, err := svc.Enroll(ctx, EnrollParams{UserID: "alice", StorageKey: key})
		if err != nil {
			t.Fatalf("Enroll %q failed: %v", key, err)
		}
		if result.StorageKey != key {
			t.Errorf("Expected storage key %q, got %q", key, result.StorageKey)
		}
	}

	keys, err := svc.ListSamples(ctx, "alice")
	if err != nil {
		t.Fatalf("ListSamples failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "rec1" || keys[1] != "rec2" {
		t.Errorf("Expected samples in enrollment order, got %v", keys)
	}

	if err := svc.DeleteSample(ctx, "alice", "rec1"); err != nil {
		t.Fatalf("DeleteSample failed: %v", err)
	}
	keys, err = svc.ListSamples(ctx, "alice")
	if err != nil {
		t.Fatalf("ListSamples after delete failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != "rec2" {
		t.Errorf("Expected only rec2 to remain, got %v", keys)
	}

	// Removing the last sample empties the record but does not delete it.
	if err := svc.DeleteSample(ctx, "alice", "rec2"); err != nil {
		t.Fatalf("DeleteSample of last sample failed: %v", err)
	}
	keys, err = svc.ListSamples(ctx, "alice")
	if err != nil {
		t.Fatalf("Expected emptied record to still list, got error: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("Expected no samples, got %v", keys)
	}
}

func TestEnrollDirectUploadStoresAudio(t *testing.T) {
	ctx := context.Background()
	audio := &fakeAudio{}
	store := &fakeIdentityStore{}
	embedder := &stubEmbedder{vectors: map[string]entities.Embedding{
		"audio/alice/greeting.wav": {1, 0, 0},
	}}
	svc := NewEnrollmentService(audio, store, embedder, &stubDetector{}, nil, nil, VariantCosine, zap.NewNop())

	result, err := svc.Enroll(ctx, EnrollParams{
		UserID:    "alice",
		AudioData: []byte{1, 2, 3},
		Filename:  "greeting.wav",
	})
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	if result.StorageKey != "audio/alice/greeting.wav" {
		t.Errorf("Unexpected storage key %q", result.StorageKey)
	}
	if _, ok := audio.stored[result.StorageKey]; !ok {
		t.Error("Expected uploaded audio to be written to storage")
	}
}

func TestEnrollRejectedByLivenessLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	store := &fakeIdentityStore{}
	embedder := &stubEmbedder{vectors: map[string]entities.Embedding{"fake": {1, 0, 0}}}
	detector := &stubDetector{synthetic: map[string]bool{"fake": true}}
	svc := newCosineEnrollment(store, embedder, detector)

	_, err := svc.Enroll(ctx, EnrollParams{UserID: "alice", StorageKey: "fake"})
	var liveErr *entities.LivenessError
	if !errors.As(err, &liveErr) {
		t.Fatalf("Expected LivenessError, got %v", err)
	}

	if store.saveCalls != 0 {
		t.Error("Expected no save after a rejected enrollment")
	}
	users, _ := store.Load(ctx)
	if _, ok := users["alice"]; ok {
		t.Error("Expected no record for a user whose only enrollment was rejected")
	}
}

func TestEnrollAudioFetchFailure(t *testing.T) {
	ctx := context.Background()
	audio := &fakeAudio{missing: map[string]bool{"gone": true}}
	svc := NewEnrollmentService(audio, &fakeIdentityStore{}, &stubEmbedder{}, &stubDetector{}, nil, nil, VariantCosine, zap.NewNop())

	_, err := svc.Enroll(ctx, EnrollParams{UserID: "alice", StorageKey: "gone"})
	var fetchErr *entities.AudioFetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected AudioFetchError, got %v", err)
	}
	if fetchErr.StorageKey != "gone" {
		t.Errorf("Expected storage key in error, got %q", fetchErr.StorageKey)
	}
}

func TestEnrollMultifactorFixesFirstPin(t *testing.T) {
	ctx := context.Background()
	store := &fakeIdentityStore{}
	embedder := &stubEmbedder{vectors: map[string]entities.Embedding{
		"rec1": {1, 0, 0},
		"rec2": {0.9, 0.1, 0},
	}}
	pins := &stubPins{digits: map[string]string{"rec1": "1234", "rec2": "1234"}}
	svc := NewEnrollmentService(&fakeAudio{}, store, embedder, nil, pins, nil, VariantMultifactor, zap.NewNop())

	result, err := svc.Enroll(ctx, EnrollParams{UserID: "alice", StorageKey: "rec1", PIN: "1234"})
	if err != nil {
		t.Fatalf("First enrollment failed: %v", err)
	}
	if result.ExtractedPIN != "1234" {
		t.Errorf("Expected extracted PIN 1234, got %q", result.ExtractedPIN)
	}

	users, _ := store.Load(ctx)
	if users["alice"].SecretPIN != "1234" {
		t.Errorf("Expected secret PIN fixed to 1234, got %q", users["alice"].SecretPIN)
	}

	// Later enrollments check against the fixed secret. A different PIN in
	// the request must not replace it.
	if _, err := svc.Enroll(ctx, EnrollParams{UserID: "alice", StorageKey: "rec2", PIN: "9999"}); err != nil {
		t.Fatalf("Second enrollment failed: %v", err)
	}
	users, _ = store.Load(ctx)
	if users["alice"].SecretPIN != "1234" {
		t.Errorf("Secret PIN changed to %q after second enrollment", users["alice"].SecretPIN)
	}
}

func TestEnrollMultifactorPinMismatch(t *testing.T) {
	ctx := context.Background()
	store := &fakeIdentityStore{}
	embedder := &stubEmbedder{vectors: map[string]entities.Embedding{"rec1": {1, 0, 0}}}
	pins := &stubPins{digits: map[string]string{"rec1": "5678"}}
	svc := NewEnrollmentService(&fakeAudio{}, store, embedder, nil, pins, nil, VariantMultifactor, zap.NewNop())

	_, err := svc.Enroll(ctx, EnrollParams{UserID: "alice", StorageKey: "rec1", PIN: "1234"})
	var pinErr *entities.PinMismatchError
	if !errors.As(err, &pinErr) {
		t.Fatalf("Expected PinMismatchError, got %v", err)
	}
	if pinErr.Extracted != "5678" || pinErr.Expected != "1234" {
		t.Errorf("Unexpected mismatch detail: %+v", pinErr)
	}
	if store.saveCalls != 0 {
		t.Error("Expected no save after a PIN mismatch")
	}
}

func TestEnrollMultifactorRequiresPinForNewUser(t *testing.T) {
	ctx := context.Background()
	svc := NewEnrollmentService(&fakeAudio{}, &fakeIdentityStore{}, &stubEmbedder{}, nil, &stubPins{}, nil, VariantMultifactor, zap.NewNop())

	_, err := svc.Enroll(ctx, EnrollParams{UserID: "alice", StorageKey: "rec1"})
	if !errors.Is(err, ErrPinRequired) {
		t.Errorf("Expected ErrPinRequired, got %v", err)
	}
}

func TestEnrollClassifierRetrainsAfterSave(t *testing.T) {
	ctx := context.Background()
	store := &fakeIdentityStore{}
	embedder := &stubEmbedder{vectors: map[string]entities.Embedding{"rec1": {1, 0, 0}}}
	models := &stubModels{}
	svc := NewEnrollmentService(&fakeAudio{}, store, embedder, &stubDetector{}, nil, models, VariantClassifier, zap.NewNop())

	if _, err := svc.Enroll(ctx, EnrollParams{UserID: "alice", StorageKey: "rec1"}); err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	if len(models.trainCalls) != 1 || models.trainCalls[0] != "alice" {
		t.Errorf("Expected one retrain for alice, got %v", models.trainCalls)
	}
	if store.saveCalls != 1 {
		t.Errorf("Expected one save, got %d", store.saveCalls)
	}
}

func TestListSamplesUnknownUser(t *testing.T) {
	svc := newCosineEnrollment(&fakeIdentityStore{}, &stubEmbedder{}, &stubDetector{})

	_, err := svc.ListSamples(context.Background(), "nobody")
	if !errors.Is(err, entities.ErrUnknownUser) {
		t.Errorf("Expected ErrUnknownUser, got %v", err)
	}
}

func TestDeleteSampleErrors(t *testing.T) {
	ctx := context.Background()
	store := &fakeIdentityStore{}
	embedder := &stubEmbedder{vectors: map[string]entities.Embedding{"rec1": {1, 0, 0}}}
	svc := newCosineEnrollment(store, embedder, &stubDetector{})

	if err := svc.DeleteSample(ctx, "nobody", "rec1"); !errors.Is(err, entities.ErrUnknownUser) {
		t.Errorf("Expected ErrUnknownUser for missing record, got %v", err)
	}

	if _, err := svc.Enroll(ctx, EnrollParams{UserID: "alice", StorageKey: "rec1"}); err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	if err := svc.DeleteSample(ctx, "alice", "other"); !errors.Is(err, ErrSampleNotFound) {
		t.Errorf("Expected ErrSampleNotFound for unknown key, got %v", err)
	}
}
