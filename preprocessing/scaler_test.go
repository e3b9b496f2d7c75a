package preprocessing_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/descent/preprocessing"
)

const epsilon = 1e-10 // Tolerance for floating-point comparisons

func TestStandardScalerBasicFunctionality(t *testing.T) {
	// Feature 1: [1, 2, 3] -> mean=2, std=0.816
	// Feature 2: [4, 5, 6] -> mean=5, std=0.816
	X := mat.NewDense(3, 2, []float64{
		1, 4,
		2, 5,
		3, 6,
	})

	scaler := preprocessing.NewStandardScalerDefault()
	if err := scaler.Fit(X); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	expectedMean := []float64{2, 5}
	expectedStd := 0.816496580927726
	for i, want := range expectedMean {
		if math.Abs(scaler.Mean[i]-want) > epsilon {
			t.Errorf("Mean[%d]: got %v, want %v", i, scaler.Mean[i], want)
		}
		if math.Abs(scaler.Scale[i]-expectedStd) > epsilon {
			t.Errorf("Scale[%d]: got %v, want %v", i, scaler.Scale[i], expectedStd)
		}
	}

	XScaled, err := scaler.Transform(X)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	// Each column becomes [-1.225, 0, 1.225] and sums to zero.
	for j := 0; j < 2; j++ {
		var sum float64
		for i := 0; i < 3; i++ {
			sum += XScaled.At(i, j)
		}
		if math.Abs(sum) > epsilon {
			t.Errorf("column %d not centered: sum=%v", j, sum)
		}
	}
}

func TestStandardScalerRoundTrip(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1.5, -2,
		3.25, 8,
		-0.5, 4,
		2, 1,
	})

	scaler := preprocessing.NewStandardScalerDefault()
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	XBack, err := scaler.InverseTransform(XScaled)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}

	for i := 0; i < 4; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(XBack.At(i, j)-X.At(i, j)) > epsilon {
				t.Errorf("[%d,%d]: got %v, want %v", i, j, XBack.At(i, j), X.At(i, j))
			}
		}
	}
}

func TestStandardScalerConstantFeature(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{5, 5, 5})

	scaler := preprocessing.NewStandardScalerDefault()
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if XScaled.At(i, 0) != 0 {
			t.Errorf("constant feature should scale to 0, got %v", XScaled.At(i, 0))
		}
	}
}

func TestStandardScalerNotFitted(t *testing.T) {
	scaler := preprocessing.NewStandardScalerDefault()
	if _, err := scaler.Transform(mat.NewDense(1, 1, nil)); err == nil {
		t.Error("Transform before Fit should fail")
	}
}

func TestStandardScalerDimensionMismatch(t *testing.T) {
	scaler := preprocessing.NewStandardScalerDefault()
	if err := scaler.Fit(mat.NewDense(3, 2, nil)); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if _, err := scaler.Transform(mat.NewDense(3, 5, nil)); err == nil {
		t.Error("Transform with wrong feature count should fail")
	}
}

func TestMinMaxScalerRange(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		0, 100,
		5, 200,
		10, 150,
		2.5, 125,
	})

	scaler := preprocessing.NewMinMaxScaler()
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	for i := 0; i < 4; i++ {
		for j := 0; j < 2; j++ {
			v := XScaled.At(i, j)
			if v < 0 || v > 1 {
				t.Errorf("[%d,%d] = %v outside [0,1]", i, j, v)
			}
		}
	}

	if XScaled.At(0, 0) != 0 || XScaled.At(2, 0) != 1 {
		t.Error("min/max rows should map to exactly 0 and 1")
	}
}

func TestMinMaxScalerRoundTrip(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{-5, 0, 15})

	scaler := preprocessing.NewMinMaxScaler()
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}
	XBack, err := scaler.InverseTransform(XScaled)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if math.Abs(XBack.At(i, 0)-X.At(i, 0)) > epsilon {
			t.Errorf("[%d]: got %v, want %v", i, XBack.At(i, 0), X.At(i, 0))
		}
	}
}
