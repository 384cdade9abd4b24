package classifier

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/satriahrh/suara/adapters/storage"
	"github.com/satriahrh/suara/domain/entities"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	files, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create local store: %v", err)
	}
	return NewStore(files, zap.NewNop())
}

func record(embeddings ...entities.Embedding) *entities.UserRecord {
	rec := entities.NewUserRecord("u")
	for i, e := range embeddings {
		rec.AddSample(e, string(rune('a'+i)))
	}
	return rec
}

func TestTrainAndPredictTwoUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	pool := map[string]*entities.UserRecord{
		"alice": record(
			entities.Embedding{1.0, 0.1, 0.0},
			entities.Embedding{0.9, 0.0, 0.1},
		),
		"bob": record(
			entities.Embedding{0.0, 1.0, 0.1},
			entities.Embedding{0.1, 0.9, 0.0},
		),
	}

	if err := store.Train(ctx, "alice", pool); err != nil {
		t.Fatalf("Train alice failed: %v", err)
	}

	accepted, err := store.Predict(ctx, "alice", entities.Embedding{0.95, 0.05, 0.05})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if !accepted {
		t.Error("Expected alice's own voice to be accepted")
	}

	accepted, err = store.Predict(ctx, "alice", entities.Embedding{0.05, 0.95, 0.05})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if accepted {
		t.Error("Expected bob's voice to be rejected by alice's model")
	}
}

func TestTrainFirstUserSynthesizesNegatives(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// A single enrolled user means the pool has no real negatives; training
	// must still succeed and produce a usable model.
	pool := map[string]*entities.UserRecord{
		"alice": record(
			entities.Embedding{1.0, 0.0},
			entities.Embedding{0.9, 0.1},
		),
	}

	if err := store.Train(ctx, "alice", pool); err != nil {
		t.Fatalf("Train failed with single-class pool: %v", err)
	}

	exists, err := store.Exists(ctx, "alice")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Expected a persisted model after training")
	}

	if _, err := store.Predict(ctx, "alice", entities.Embedding{1.0, 0.0}); err != nil {
		t.Errorf("Predict on freshly trained model failed: %v", err)
	}
}

func TestTrainRequiresSamples(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Train(ctx, "ghost", map[string]*entities.UserRecord{}); err == nil {
		t.Error("Expected error for user missing from pool")
	}

	pool := map[string]*entities.UserRecord{"empty": entities.NewUserRecord("empty")}
	if err := store.Train(ctx, "empty", pool); err == nil {
		t.Error("Expected error for user with no samples")
	}
}

func TestPredictUnknownUser(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Predict(context.Background(), "nobody", entities.Embedding{1, 2})
	if !errors.Is(err, entities.ErrUnknownUser) {
		t.Errorf("Expected ErrUnknownUser, got %v", err)
	}
}

func TestExistsFalseBeforeTraining(t *testing.T) {
	store := newTestStore(t)

	exists, err := store.Exists(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Expected no model before training")
	}
}
