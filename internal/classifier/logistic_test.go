package classifier

import "testing"

func TestFitSeparableData(t *testing.T) {
	// Two well-separated clusters in 2D.
	X := [][]float64{
		{2.0, 2.1}, {2.2, 1.9}, {1.8, 2.0},
		{-2.0, -2.1}, {-2.2, -1.9}, {-1.8, -2.0},
	}
	y := []int{1, 1, 1, 0, 0, 0}

	m, err := Fit(X, y)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	for i, row := range X {
		got, err := m.Predict(row)
		if err != nil {
			t.Fatalf("Predict failed: %v", err)
		}
		want := y[i] == 1
		if got != want {
			t.Errorf("Row %d: predicted %v, want %v", i, got, want)
		}
	}
}

func TestFitRejectsSingleClass(t *testing.T) {
	X := [][]float64{{1, 0}, {0, 1}}
	if _, err := Fit(X, []int{1, 1}); err == nil {
		t.Error("Expected error for all-positive training set")
	}
	if _, err := Fit(X, []int{0, 0}); err == nil {
		t.Error("Expected error for all-negative training set")
	}
}

func TestFitRejectsEmptyOrMismatched(t *testing.T) {
	if _, err := Fit(nil, nil); err == nil {
		t.Error("Expected error for empty training set")
	}
	if _, err := Fit([][]float64{{1}}, []int{1, 0}); err == nil {
		t.Error("Expected error for mismatched rows and labels")
	}
	if _, err := Fit([][]float64{{1, 2}, {1}}, []int{1, 0}); err == nil {
		t.Error("Expected error for ragged feature rows")
	}
}

func TestPredictRejectsDimensionMismatch(t *testing.T) {
	m := &Model{Weights: []float64{1, 2, 3}}
	if _, err := m.Predict([]float64{1, 2}); err == nil {
		t.Error("Expected error for query with wrong dimension")
	}
}
