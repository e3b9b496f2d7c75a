package linear_model

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLeastSquaresCostAndGradientAtOptimum(t *testing.T) {
	// y = 3 + 2x exactly; theta = [3, 2] gives zero cost and gradient.
	X := mat.NewDense(4, 2, []float64{
		1, 0,
		1, 1,
		1, 2,
		1, 3,
	})
	y := mat.NewDense(4, 1, []float64{3, 5, 7, 9})
	theta := mat.NewDense(2, 1, []float64{3, 2})

	a := NewLeastSquares(nil)
	yOut := a.Output(X, theta)

	if cost := a.Cost(y, yOut, theta); math.Abs(cost) > 1e-12 {
		t.Errorf("cost at optimum: got %v, want 0", cost)
	}

	grad := a.Gradient(X, y, yOut, theta)
	for i := 0; i < 2; i++ {
		if g := grad.At(i, 0); math.Abs(g) > 1e-12 {
			t.Errorf("grad[%d] at optimum: got %v, want 0", i, g)
		}
	}
}

func TestLogisticOutputIsProbability(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1, -100,
		1, 0,
		1, 100,
	})
	theta := mat.NewDense(2, 1, []float64{0, 1})

	a := NewLogistic(nil)
	out := a.Output(X, theta)

	for i := 0; i < 3; i++ {
		p := out.At(i, 0)
		if p < 0 || p > 1 || math.IsNaN(p) {
			t.Errorf("output[%d] = %v not a probability", i, p)
		}
	}
	if out.At(0, 0) > 1e-10 {
		t.Error("large negative logit should saturate near 0")
	}
	if out.At(2, 0) < 1-1e-10 {
		t.Error("large positive logit should saturate near 1")
	}
}

func TestSoftmaxRowsSumToOne(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{
		1, 500, // large logits must not overflow
		1, -500,
	})
	theta := mat.NewDense(2, 3, []float64{
		0, 1, -1,
		1, 0, 2,
	})

	a := NewSoftmax(nil)
	out := a.Output(X, theta)

	rows, cols := out.Dims()
	for i := 0; i < rows; i++ {
		var sum float64
		for j := 0; j < cols; j++ {
			v := out.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("output[%d,%d] = %v", i, j, v)
			}
			sum += v
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("row %d sums to %v, want 1", i, sum)
		}
	}
}

func TestRegularizersExcludeBiasRow(t *testing.T) {
	theta := mat.NewDense(3, 1, []float64{100, 2, -3})

	regs := []Regularizer{NewL1(0.5), NewL2(0.5), NewElasticNet(0.5, 0.5)}
	for _, r := range regs {
		grad := r.Grad(theta)
		if g := grad.At(0, 0); g != 0 {
			t.Errorf("%s: bias gradient %v, want 0", r.Name(), g)
		}

		// The huge bias weight must not contribute to the penalty.
		small := mat.NewDense(3, 1, []float64{0, 2, -3})
		if r.Penalty(theta) != r.Penalty(small) {
			t.Errorf("%s: penalty depends on the bias weight", r.Name())
		}
	}
}

func TestRegularizerPenaltyValues(t *testing.T) {
	theta := mat.NewDense(3, 1, []float64{0, 2, -3})

	if got := NewL1(2).Penalty(theta); got != 10 { // 2*(2+3)
		t.Errorf("L1 penalty: got %v, want 10", got)
	}
	if got := NewL2(2).Penalty(theta); got != 13 { // 2/2*(4+9)
		t.Errorf("L2 penalty: got %v, want 13", got)
	}
	// ratio 1 reduces elastic net to L1, ratio 0 to L2.
	if got := NewElasticNet(2, 1).Penalty(theta); got != 10 {
		t.Errorf("ElasticNet ratio 1: got %v, want 10", got)
	}
	if got := NewElasticNet(2, 0).Penalty(theta); got != 13 {
		t.Errorf("ElasticNet ratio 0: got %v, want 13", got)
	}
}

func TestDesignMatrixAddsBiasColumn(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	Xd := designMatrix(X)

	rows, cols := Xd.Dims()
	if rows != 2 || cols != 3 {
		t.Fatalf("dims: got (%d,%d), want (2,3)", rows, cols)
	}
	for i := 0; i < rows; i++ {
		if Xd.At(i, 0) != 1 {
			t.Errorf("row %d: bias column is %v, want 1", i, Xd.At(i, 0))
		}
	}
	if Xd.At(1, 2) != 4 {
		t.Errorf("feature shifted incorrectly: got %v, want 4", Xd.At(1, 2))
	}
}
