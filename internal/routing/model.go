// Package routing scores payment channels for a timestamp using a
// pre-trained classifier. The model is trained offline; this service only
// encodes features and evaluates the stored weights.
package routing

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"
)

// PaymentMethods lists the channels the model scores, in the order their
// probabilities are reported.
var PaymentMethods = []string{"debit_card", "credit_card", "bank", "upi_id"}

// featureColumns is the exact feature order the model was trained with.
var featureColumns = []string{
	"hour", "day_of_week",
	"payment_method_bank", "payment_method_credit_card",
	"payment_method_debit_card", "payment_method_upi_id",
}

// Model is a logistic scorer over the encoded features, loaded from the
// JSON artifact produced by the offline training job.
type Model struct {
	FeatureColumns []string  `json:"feature_columns"`
	Weights        []float64 `json:"weights"`
	Bias           float64   `json:"bias"`
}

// LoadModel reads the model artifact and validates its shape against the
// expected feature columns.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("model file %q not found: %w", path, err)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model file %q: %w", path, err)
	}

	if len(m.FeatureColumns) != len(featureColumns) {
		return nil, fmt.Errorf("model has %d feature columns, want %d", len(m.FeatureColumns), len(featureColumns))
	}
	for i, col := range m.FeatureColumns {
		if col != featureColumns[i] {
			return nil, fmt.Errorf("feature column mismatch at %d: model has %q, want %q", i, col, featureColumns[i])
		}
	}
	if len(m.Weights) != len(featureColumns) {
		return nil, fmt.Errorf("model has %d weights, want %d", len(m.Weights), len(featureColumns))
	}

	return &m, nil
}

// encode builds the feature vector for one payment method at the given
// time: hour, day of week (0 = Monday, matching the training data), and
// the method one-hot in column order.
func encode(t time.Time, method string) []float64 {
	features := make([]float64, len(featureColumns))
	features[0] = float64(t.Hour())
	features[1] = float64((int(t.Weekday()) + 6) % 7)

	onehot := "payment_method_" + method
	for i, col := range featureColumns[2:] {
		if col == onehot {
			features[2+i] = 1
		}
	}
	return features
}

// score evaluates the model for one feature vector.
func (m *Model) score(features []float64) float64 {
	z := m.Bias
	for i, w := range m.Weights {
		z += w * features[i]
	}
	return 1 / (1 + math.Exp(-z))
}

// Prediction is the scored ranking of payment methods for a timestamp.
type Prediction struct {
	Best  string
	Score float64
	Probs map[string]float64
}

// Predict scores every payment method for the given time and returns the
// best one with the full probability map, rounded to two decimals.
func (m *Model) Predict(t time.Time) Prediction {
	probs := make(map[string]float64, len(PaymentMethods))
	best := PaymentMethods[0]
	bestScore := math.Inf(-1)

	for _, method := range PaymentMethods {
		p := m.score(encode(t, method))
		probs[method] = round2(p)
		if p > bestScore {
			bestScore = p
			best = method
		}
	}

	return Prediction{Best: best, Score: round2(bestScore), Probs: probs}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// timestampLayouts are the accepted request formats, most specific first.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a request timestamp in any accepted layout.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp format %q: use ISO 8601, e.g. 2025-06-22T07:25:00", s)
}
