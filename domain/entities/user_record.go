package entities

import "time"

// Sample is one enrolled biometric sample: the embedding computed from an
// audio recording plus the object-storage key the recording came from.
type Sample struct {
	Embedding  Embedding `json:"embedding" bson:"embedding"`
	StorageKey string    `json:"storage_key" bson:"storage_key"`
}

// UserRecord holds everything enrolled for a single identity. Samples are
// kept in enrollment order and are append-only; the same storage key may
// appear more than once.
type UserRecord struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	Samples   []Sample  `json:"samples" bson:"samples"`
	SecretPIN string    `json:"secret_pin,omitempty" bson:"secret_pin,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewUserRecord creates an empty record for a user.
func NewUserRecord(userID string) *UserRecord {
	now := time.Now()
	return &UserRecord{
		UserID:    userID,
		Samples:   make([]Sample, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddSample appends a new sample. Enrollment never mutates existing
// embeddings, it only appends.
func (r *UserRecord) AddSample(embedding Embedding, storageKey string) {
	r.Samples = append(r.Samples, Sample{
		Embedding:  embedding,
		StorageKey: storageKey,
	})
	r.UpdatedAt = time.Now()
}

// RemoveSample deletes the first sample whose storage key matches exactly.
// It reports whether a sample was removed. The record itself persists even
// when its last sample is removed.
func (r *UserRecord) RemoveSample(storageKey string) bool {
	for i, s := range r.Samples {
		if s.StorageKey == storageKey {
			r.Samples = append(r.Samples[:i], r.Samples[i+1:]...)
			r.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// StorageKeys returns the storage keys of all samples in enrollment order.
func (r *UserRecord) StorageKeys() []string {
	keys := make([]string, 0, len(r.Samples))
	for _, s := range r.Samples {
		keys = append(keys, s.StorageKey)
	}
	return keys
}

// Embeddings returns the embeddings of all samples in enrollment order.
func (r *UserRecord) Embeddings() []Embedding {
	embeddings := make([]Embedding, 0, len(r.Samples))
	for _, s := range r.Samples {
		embeddings = append(embeddings, s.Embedding)
	}
	return embeddings
}

// HasSamples reports whether the record holds at least one sample.
// A record left empty by deletions cannot be verified against.
func (r *UserRecord) HasSamples() bool {
	return len(r.Samples) > 0
}
