package classifier

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"go.uber.org/zap"

	"github.com/satriahrh/suara/domain/entities"
	"github.com/satriahrh/suara/domain/repositories"
)

// Store trains and persists per-user models as gob blobs in a FileStore,
// one blob per user under models/<user_id>.model.
type Store struct {
	files  repositories.FileStore
	logger *zap.Logger
}

var _ repositories.SpeakerModelStore = (*Store)(nil)

// NewStore creates a model store over the given file store.
func NewStore(files repositories.FileStore, logger *zap.Logger) *Store {
	return &Store{files: files, logger: logger}
}

func modelPath(userID string) string {
	return "models/" + userID + ".model"
}

// Train fits a fresh model for userID from the global pool and persists
// it, replacing any prior model. Positives are the user's own samples;
// negatives are every other user's samples. When no real negatives exist
// yet (the very first user in the system), standard-normal noise vectors
// stand in, one per positive, so the classifier always sees both classes.
// That approximation degrades if real impostor embeddings look nothing
// like standard-normal noise; it is a known limitation carried from the
// original training scheme.
func (s *Store) Train(ctx context.Context, userID string, pool map[string]*entities.UserRecord) error {
	record, ok := pool[userID]
	if !ok || !record.HasSamples() {
		return fmt.Errorf("no samples to train on for user %q", userID)
	}

	var X [][]float64
	var y []int
	for uid, rec := range pool {
		label := 0
		if uid == userID {
			label = 1
		}
		for _, sample := range rec.Samples {
			X = append(X, []float64(sample.Embedding))
			y = append(y, label)
		}
	}

	var positives, negatives int
	for _, label := range y {
		if label == 1 {
			positives++
		} else {
			negatives++
		}
	}

	if negatives == 0 {
		dim := len(X[0])
		for i := 0; i < positives; i++ {
			noise := make([]float64, dim)
			for j := range noise {
				noise[j] = rand.NormFloat64()
			}
			X = append(X, noise)
			y = append(y, 0)
		}
		negatives = positives
		s.logger.Info("Only positive samples in pool, synthesized noise negatives",
			zap.String("user_id", userID),
			zap.Int("count", positives))
	}

	model, err := Fit(X, y)
	if err != nil {
		return fmt.Errorf("failed to train model for %q: %w", userID, err)
	}

	wc, err := s.files.Write(ctx, modelPath(userID))
	if err != nil {
		return fmt.Errorf("failed to open model file for %q: %w", userID, err)
	}
	if err := gob.NewEncoder(wc).Encode(model); err != nil {
		wc.Close()
		return fmt.Errorf("failed to encode model for %q: %w", userID, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to persist model for %q: %w", userID, err)
	}

	s.logger.Info("Trained and saved speaker model",
		zap.String("user_id", userID),
		zap.Int("positives", positives),
		zap.Int("negatives", negatives))

	return nil
}

// Predict loads the persisted model for userID and classifies the query.
func (s *Store) Predict(ctx context.Context, userID string, query entities.Embedding) (bool, error) {
	rc, err := s.files.Read(ctx, modelPath(userID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("no trained model for %q: %w", userID, entities.ErrUnknownUser)
		}
		return false, fmt.Errorf("failed to open model for %q: %w", userID, err)
	}
	defer rc.Close()

	var model Model
	if err := gob.NewDecoder(rc).Decode(&model); err != nil {
		return false, fmt.Errorf("failed to decode model for %q: %w", userID, err)
	}

	return model.Predict([]float64(query))
}

// Exists reports whether a persisted model exists for userID.
func (s *Store) Exists(ctx context.Context, userID string) (bool, error) {
	return s.files.Exists(ctx, modelPath(userID))
}
