package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/satriahrh/suara/domain/entities"
	"github.com/satriahrh/suara/domain/repositories"
)

// identityDocID is the fixed _id of the single document holding the full
// identity mapping. The store contract is whole-document read-modify-write,
// so everything lives in one document, mirroring the file-backed store.
const identityDocID = "identities"

type identityDocument struct {
	ID    string                          `bson:"_id"`
	Users map[string]*entities.UserRecord `bson:"users"`
}

// IdentityStore implements repositories.IdentityStore on a MongoDB
// collection holding one document with the full mapping.
type IdentityStore struct {
	collection *mongo.Collection
}

// NewIdentityStore creates a MongoDB-backed identity store.
func NewIdentityStore(db *mongo.Database) repositories.IdentityStore {
	return &IdentityStore{
		collection: db.Collection("identities"),
	}
}

// Load implements repositories.IdentityStore. A missing document is
// first-run bootstrap and yields an empty mapping.
func (s *IdentityStore) Load(ctx context.Context) (map[string]*entities.UserRecord, error) {
	var doc identityDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": identityDocID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return make(map[string]*entities.UserRecord), nil
		}
		return nil, fmt.Errorf("failed to load identity document: %w", err)
	}
	if doc.Users == nil {
		doc.Users = make(map[string]*entities.UserRecord)
	}
	return doc.Users, nil
}

// Save implements repositories.IdentityStore by replacing the whole
// document (upserting on first save).
func (s *IdentityStore) Save(ctx context.Context, users map[string]*entities.UserRecord) error {
	doc := identityDocument{ID: identityDocID, Users: users}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(ctx, bson.M{"_id": identityDocID}, doc, opts); err != nil {
		return fmt.Errorf("failed to save identity document: %w", err)
	}
	return nil
}
