package optimize

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestScorerDirections(t *testing.T) {
	if !NewMSE().Better(0.1, 0.5) {
		t.Error("MSE: lower should be better")
	}
	if !NewR2().Better(0.9, 0.5) {
		t.Error("R2: higher should be better")
	}
	if !NewAccuracy().Better(0.9, 0.5) {
		t.Error("Accuracy: higher should be better")
	}
}

func TestScorersDelegateToMetrics(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1, 0, 1, 1})
	yPred := mat.NewVecDense(4, []float64{1, 0, 0, 1})

	acc, err := NewAccuracy().Score(yTrue, yPred)
	if err != nil {
		t.Fatalf("accuracy failed: %v", err)
	}
	if acc != 0.75 {
		t.Errorf("accuracy: got %v, want 0.75", acc)
	}

	yt := mat.NewVecDense(3, []float64{1, 2, 3})
	yp := mat.NewVecDense(3, []float64{1, 2, 5})
	mse, err := NewMSE().Score(yt, yp)
	if err != nil {
		t.Fatalf("mse failed: %v", err)
	}
	if want := 4.0 / 3.0; mse < want-1e-12 || mse > want+1e-12 {
		t.Errorf("mse: got %v, want %v", mse, want)
	}
}
