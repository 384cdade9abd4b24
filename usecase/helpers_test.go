package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/satriahrh/suara/domain/entities"
	"github.com/satriahrh/suara/domain/repositories"
)

// fakeIdentityStore round-trips the mapping through JSON so every Load
// hands back an independent copy, the way the real stores do. Mutations
// that are never saved stay invisible.
type fakeIdentityStore struct {
	data      []byte
	saveCalls int
}

func (f *fakeIdentityStore) Load(_ context.Context) (map[string]*entities.UserRecord, error) {
	users := make(map[string]*entities.UserRecord)
	if len(f.data) == 0 {
		return users, nil
	}
	if err := json.Unmarshal(f.data, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (f *fakeIdentityStore) Save(_ context.Context, users map[string]*entities.UserRecord) error {
	data, err := json.Marshal(users)
	if err != nil {
		return err
	}
	f.data = data
	f.saveCalls++
	return nil
}

// fakeAudio serves waveforms whose PCM payload is the storage key itself,
// so stub adapters can key their behavior on the recording being played.
type fakeAudio struct {
	missing map[string]bool
	stored  map[string][]byte
}

func (f *fakeAudio) Fetch(_ context.Context, storageKey string) (entities.Waveform, error) {
	if f.missing[storageKey] {
		return entities.Waveform{}, fmt.Errorf("open %s: %w", storageKey, os.ErrNotExist)
	}
	return entities.Waveform{PCM16: []byte(storageKey), SampleRate: 16000}, nil
}

func (f *fakeAudio) Store(_ context.Context, userID string, data []byte, filename string) (string, error) {
	key := "audio/" + userID + "/" + filename
	if f.stored == nil {
		f.stored = make(map[string][]byte)
	}
	f.stored[key] = data
	return key, nil
}

// stubEmbedder maps each recording (keyed by its PCM payload, which the
// fake audio source sets to the storage key) to a fixed embedding.
type stubEmbedder struct {
	vectors map[string]entities.Embedding
}

func (s *stubEmbedder) Extract(_ context.Context, waveform entities.Waveform) (entities.Embedding, error) {
	vec, ok := s.vectors[string(waveform.PCM16)]
	if !ok {
		return nil, fmt.Errorf("no stub embedding for %q", waveform.PCM16)
	}
	return vec, nil
}

func (s *stubEmbedder) Dimension() int { return 3 }

// stubDetector flags the recordings listed in synthetic.
type stubDetector struct {
	synthetic map[string]bool
}

func (s *stubDetector) Detect(_ context.Context, waveform entities.Waveform) (repositories.LivenessVerdict, error) {
	if s.synthetic[string(waveform.PCM16)] {
		return repositories.LivenessVerdict{Synthetic: true, Score: 0.99}, nil
	}
	return repositories.LivenessVerdict{Synthetic: false, Score: 0.01}, nil
}

// stubPins returns the digits recorded for each waveform.
type stubPins struct {
	digits map[string]string
}

func (s *stubPins) ExtractPIN(_ context.Context, waveform entities.Waveform) (string, error) {
	return s.digits[string(waveform.PCM16)], nil
}

// stubModels records training calls and answers Predict from a canned
// verdict per user.
type stubModels struct {
	trained    map[string]bool
	verdicts   map[string]bool
	trainCalls []string
}

func (s *stubModels) Train(_ context.Context, userID string, _ map[string]*entities.UserRecord) error {
	if s.trained == nil {
		s.trained = make(map[string]bool)
	}
	s.trained[userID] = true
	s.trainCalls = append(s.trainCalls, userID)
	return nil
}

func (s *stubModels) Predict(_ context.Context, userID string, _ entities.Embedding) (bool, error) {
	if !s.trained[userID] {
		return false, fmt.Errorf("no trained model for %q: %w", userID, entities.ErrUnknownUser)
	}
	return s.verdicts[userID], nil
}

func (s *stubModels) Exists(_ context.Context, userID string) (bool, error) {
	return s.trained[userID], nil
}
