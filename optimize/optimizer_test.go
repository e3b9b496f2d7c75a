package optimize

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSGDUpdate(t *testing.T) {
	theta := mat.NewDense(2, 1, []float64{1, 2})
	grad := mat.NewDense(2, 1, []float64{0.5, -0.5})

	opt := NewSGD()
	opt.Init(2, 1)
	opt.Update(theta, grad, 0.1)

	if got := theta.At(0, 0); math.Abs(got-0.95) > 1e-12 {
		t.Errorf("theta[0]: got %v, want 0.95", got)
	}
	if got := theta.At(1, 0); math.Abs(got-2.05) > 1e-12 {
		t.Errorf("theta[1]: got %v, want 2.05", got)
	}
}

func TestMomentumAccumulatesVelocity(t *testing.T) {
	theta := mat.NewDense(1, 1, []float64{0})
	grad := mat.NewDense(1, 1, []float64{1})

	opt := NewMomentum(0.9)
	opt.Init(1, 1)

	// First step: v = 0.1, theta = -0.1
	opt.Update(theta, grad, 0.1)
	if got := theta.At(0, 0); math.Abs(got+0.1) > 1e-12 {
		t.Fatalf("after step 1: got %v, want -0.1", got)
	}

	// Second step: v = 0.9*0.1 + 0.1 = 0.19, theta = -0.29
	opt.Update(theta, grad, 0.1)
	if got := theta.At(0, 0); math.Abs(got+0.29) > 1e-12 {
		t.Errorf("after step 2: got %v, want -0.29", got)
	}
}

func TestNesterovFirstStep(t *testing.T) {
	theta := mat.NewDense(1, 1, []float64{0})
	grad := mat.NewDense(1, 1, []float64{1})

	opt := NewNesterov(0.9)
	opt.Init(1, 1)

	// v = 0.1; theta -= 0.9*v + 0.1 = 0.19
	opt.Update(theta, grad, 0.1)
	if got := theta.At(0, 0); math.Abs(got+0.19) > 1e-12 {
		t.Errorf("got %v, want -0.19", got)
	}
}

func TestInitResetsAccumulator(t *testing.T) {
	theta := mat.NewDense(1, 1, []float64{0})
	grad := mat.NewDense(1, 1, []float64{1})

	opt := NewMomentum(0.9)
	opt.Init(1, 1)
	opt.Update(theta, grad, 0.1)
	opt.Update(theta, grad, 0.1)

	// A fresh Init must behave like the first step again.
	theta.Set(0, 0, 0)
	opt.Init(1, 1)
	opt.Update(theta, grad, 0.1)
	if got := theta.At(0, 0); math.Abs(got+0.1) > 1e-12 {
		t.Errorf("after re-init: got %v, want -0.1", got)
	}
}
