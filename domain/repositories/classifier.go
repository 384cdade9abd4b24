package repositories

import (
	"context"

	"github.com/satriahrh/suara/domain/entities"
)

// SpeakerModelStore trains, persists, and evaluates the per-user
// discriminative models used by the classifier verification strategy.
// One binary model is kept per user, overwritten on every retrain.
type SpeakerModelStore interface {
	// Train fits a fresh model for userID from the full global pool of
	// enrolled embeddings (positives = userID's samples, negatives =
	// everyone else's) and persists it, replacing any prior model.
	Train(ctx context.Context, userID string, pool map[string]*entities.UserRecord) error

	// Predict loads the persisted model for userID and classifies the
	// query embedding. Returns an error wrapping entities.ErrUnknownUser
	// when no trained model exists.
	Predict(ctx context.Context, userID string, query entities.Embedding) (bool, error)

	// Exists reports whether a trained model is persisted for userID.
	Exists(ctx context.Context, userID string) (bool, error)
}
