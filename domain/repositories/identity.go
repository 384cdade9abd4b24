package repositories

import (
	"context"

	"github.com/satriahrh/suara/domain/entities"
)

// IdentityStore persists the full mapping of enrolled identities as a
// single durable document. Read-modify-write is the only supported
// pattern: callers load the whole mapping, mutate it, and save it back.
//
// Load returns an empty mapping (not an error) when the backing document
// does not exist yet, so first-run bootstrap needs no special casing.
// Save replaces the document atomically. Implementations serialize their
// own Load/Save calls; callers that mutate must additionally serialize
// the whole load-mutate-save sequence to avoid lost updates.
type IdentityStore interface {
	Load(ctx context.Context) (map[string]*entities.UserRecord, error)
	Save(ctx context.Context, users map[string]*entities.UserRecord) error
}
