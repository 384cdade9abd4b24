// Package jsonfile persists the identity mapping as a single JSON
// document on disk. The whole document is read and rewritten on every
// mutation; saves go through a temp-file-then-rename so a crash mid-write
// never leaves a corrupt document behind.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/satriahrh/suara/domain/entities"
	"github.com/satriahrh/suara/domain/repositories"
)

// IdentityStore implements repositories.IdentityStore on a local JSON file.
type IdentityStore struct {
	mu   sync.Mutex
	path string
}

// NewIdentityStore creates a store backed by the file at path. The file
// does not need to exist; the first Load returns an empty mapping.
func NewIdentityStore(path string) *IdentityStore {
	return &IdentityStore{path: path}
}

// Load reads the full identity mapping. A missing file is first-run
// bootstrap, not an error.
func (s *IdentityStore) Load(_ context.Context) (map[string]*entities.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]*entities.UserRecord), nil
		}
		return nil, fmt.Errorf("failed to read identity store: %w", err)
	}

	users := make(map[string]*entities.UserRecord)
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse identity store: %w", err)
	}
	return users, nil
}

// Save replaces the whole document. The write goes to a temp file in the
// same directory and is renamed over the target, so readers only ever see
// a complete document.
func (s *IdentityStore) Save(_ context.Context, users map[string]*entities.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode identity store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create identity store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".identity-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp identity file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write identity store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to flush identity store: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace identity store: %w", err)
	}
	return nil
}

var _ repositories.IdentityStore = (*IdentityStore)(nil)
