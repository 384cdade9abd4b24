// Package classifier implements the per-user discriminative models used
// by the classifier verification strategy: one binary classifier per
// enrolled user, separating that user's embeddings from everyone else's.
package classifier

import (
	"fmt"
	"math"
)

const (
	trainEpochs       = 200
	trainLearningRate = 0.1
)

// Model is a logistic-regression binary classifier over embedding
// vectors. It is small enough to retrain synchronously on every
// enrollment and to persist as a compact binary blob.
type Model struct {
	Weights []float64
	Bias    float64
}

// Fit trains the model with batch gradient descent. X holds one feature
// vector per row; y holds the matching labels (0 or 1). Both classes must
// be present.
func Fit(X [][]float64, y []int) (*Model, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, fmt.Errorf("training set is empty or mismatched: %d rows, %d labels", len(X), len(y))
	}

	var havePos, haveNeg bool
	for _, label := range y {
		if label == 1 {
			havePos = true
		} else {
			haveNeg = true
		}
	}
	if !havePos || !haveNeg {
		return nil, fmt.Errorf("training set must contain both classes")
	}

	dim := len(X[0])
	for i, row := range X {
		if len(row) != dim {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), dim)
		}
	}

	m := &Model{Weights: make([]float64, dim)}
	n := float64(len(X))

	for epoch := 0; epoch < trainEpochs; epoch++ {
		gradW := make([]float64, dim)
		var gradB float64

		for i, row := range X {
			diff := m.score(row) - float64(y[i])
			for j, v := range row {
				gradW[j] += diff * v
			}
			gradB += diff
		}

		for j := range m.Weights {
			m.Weights[j] -= trainLearningRate * gradW[j] / n
		}
		m.Bias -= trainLearningRate * gradB / n
	}

	return m, nil
}

// score returns the model's probability estimate for the positive class.
func (m *Model) score(x []float64) float64 {
	z := m.Bias
	for j, w := range m.Weights {
		z += w * x[j]
	}
	return 1 / (1 + math.Exp(-z))
}

// Predict classifies x, true meaning the positive class. The decision
// boundary is the classifier's own 0.5 probability; no external threshold
// is exposed.
func (m *Model) Predict(x []float64) (bool, error) {
	if len(x) != len(m.Weights) {
		return false, fmt.Errorf("query has %d features, model expects %d", len(x), len(m.Weights))
	}
	return m.score(x) >= 0.5, nil
}
