package api

// EnrollRequest registers a new voice sample for a user. The sample is
// referenced either by a storage key pointing at an already-uploaded
// recording, or carried inline as base64 for direct upload.
type EnrollRequest struct {
	UserID      string `json:"user_id"`
	StorageKey  string `json:"storage_key,omitempty"`
	AudioBase64 string `json:"audio_base64,omitempty"`
	Filename    string `json:"filename,omitempty"`
	PIN         string `json:"pin,omitempty"`
}

// EnrollResponse reports a successful enrollment.
type EnrollResponse struct {
	Message      string `json:"message"`
	StorageKey   string `json:"storage_key"`
	ExtractedPIN string `json:"extracted_pin,omitempty"`
}

// VerifyRequest asks whether the sample at StorageKey matches the
// identity enrolled under UserID.
type VerifyRequest struct {
	UserID     string `json:"user_id"`
	StorageKey string `json:"storage_key"`
}

// VerifyResponse is the verification outcome. Which score fields are
// present depends on the deployment variant: the classifier variant
// returns only the decision, the cosine variant adds similarity_score,
// and the multifactor variant reports all of its factors.
type VerifyResponse struct {
	Authenticated   bool     `json:"authenticated"`
	StorageKey      string   `json:"storage_key"`
	Reason          string   `json:"reason,omitempty"`
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
	CombinedScore   *float64 `json:"combined_score,omitempty"`
	PinMatch        *bool    `json:"pin_match,omitempty"`
	VoiceSimilarity *float64 `json:"voice_similarity,omitempty"`
	ExtractedPIN    *string  `json:"extracted_pin,omitempty"`
	ExpectedPIN     *string  `json:"expected_pin,omitempty"`
}

// ListResponse returns a user's sample storage keys in enrollment order.
type ListResponse struct {
	StorageKeys []string `json:"storage_keys"`
}

// DeleteRequest removes one enrolled sample by exact storage key.
type DeleteRequest struct {
	UserID     string `json:"user_id"`
	StorageKey string `json:"storage_key"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
