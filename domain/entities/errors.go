package entities

import (
	"errors"
	"fmt"
)

// ErrUnknownUser is returned when verification, listing, or deletion is
// attempted against a user that has no record, or whose record has no
// usable enrollment (empty sample list, missing trained model).
var ErrUnknownUser = errors.New("user not found")

// AudioFetchError reports that the audio sample could not be retrieved or
// decoded. Nothing is persisted when it occurs.
type AudioFetchError struct {
	StorageKey string
	Err        error
}

func (e *AudioFetchError) Error() string {
	return fmt.Sprintf("failed to fetch or load audio %q: %v", e.StorageKey, e.Err)
}

func (e *AudioFetchError) Unwrap() error {
	return e.Err
}

// LivenessError reports that the deepfake detector flagged the sample as
// synthetic. Nothing is persisted when it occurs.
type LivenessError struct {
	Score float64
}

func (e *LivenessError) Error() string {
	return "audio rejected as synthetic"
}

// PinMismatchError reports that the spoken PIN extracted from the sample
// differs from the expected one. Both values are carried for diagnosis.
// Nothing is persisted when it occurs.
type PinMismatchError struct {
	Extracted string
	Expected  string
}

func (e *PinMismatchError) Error() string {
	return fmt.Sprintf("spoken PIN %q does not match expected %q", e.Extracted, e.Expected)
}
