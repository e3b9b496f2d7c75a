package linear_model

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Regularizer adds a penalty on the model weights to the cost and its
// derivative to the gradient. The bias row (row 0 of theta) is never
// penalized.
type Regularizer interface {
	Name() string

	// Penalty returns the penalty term for theta, excluding the bias row.
	Penalty(theta *mat.Dense) float64

	// Grad returns the penalty derivative, same shape as theta, with a zero
	// bias row.
	Grad(theta *mat.Dense) *mat.Dense
}

// L1 is lasso regularization: alpha * Σ|w|. It drives weights to exactly
// zero, producing sparse models.
type L1 struct {
	Alpha float64
}

// NewL1 creates an L1 regularizer with strength alpha.
func NewL1(alpha float64) *L1 { return &L1{Alpha: alpha} }

func (r *L1) Name() string { return "l1" }

func (r *L1) Penalty(theta *mat.Dense) float64 {
	rows, cols := theta.Dims()
	var sum float64
	for i := 1; i < rows; i++ {
		for j := 0; j < cols; j++ {
			sum += math.Abs(theta.At(i, j))
		}
	}
	return r.Alpha * sum
}

func (r *L1) Grad(theta *mat.Dense) *mat.Dense {
	rows, cols := theta.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 1; i < rows; i++ {
		for j := 0; j < cols; j++ {
			switch v := theta.At(i, j); {
			case v > 0:
				out.Set(i, j, r.Alpha)
			case v < 0:
				out.Set(i, j, -r.Alpha)
			}
		}
	}
	return out
}

// L2 is ridge regularization: (alpha/2) * Σw². It shrinks weights smoothly
// toward zero.
type L2 struct {
	Alpha float64
}

// NewL2 creates an L2 regularizer with strength alpha.
func NewL2(alpha float64) *L2 { return &L2{Alpha: alpha} }

func (r *L2) Name() string { return "l2" }

func (r *L2) Penalty(theta *mat.Dense) float64 {
	rows, cols := theta.Dims()
	var sum float64
	for i := 1; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := theta.At(i, j)
			sum += v * v
		}
	}
	return r.Alpha / 2 * sum
}

func (r *L2) Grad(theta *mat.Dense) *mat.Dense {
	rows, cols := theta.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 1; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, r.Alpha*theta.At(i, j))
		}
	}
	return out
}

// ElasticNet mixes L1 and L2:
// alpha * (ratio * Σ|w| + (1-ratio)/2 * Σw²).
type ElasticNet struct {
	Alpha float64
	Ratio float64
}

// NewElasticNet creates an elastic net regularizer. Ratio 1 is pure L1,
// ratio 0 is pure L2.
func NewElasticNet(alpha, ratio float64) *ElasticNet {
	return &ElasticNet{Alpha: alpha, Ratio: ratio}
}

func (r *ElasticNet) Name() string { return "elasticnet" }

func (r *ElasticNet) Penalty(theta *mat.Dense) float64 {
	rows, cols := theta.Dims()
	var abs, sq float64
	for i := 1; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := theta.At(i, j)
			abs += math.Abs(v)
			sq += v * v
		}
	}
	return r.Alpha * (r.Ratio*abs + (1-r.Ratio)/2*sq)
}

func (r *ElasticNet) Grad(theta *mat.Dense) *mat.Dense {
	rows, cols := theta.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 1; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := theta.At(i, j)
			g := r.Alpha * (1 - r.Ratio) * v
			switch {
			case v > 0:
				g += r.Alpha * r.Ratio
			case v < 0:
				g -= r.Alpha * r.Ratio
			}
			out.Set(i, j, g)
		}
	}
	return out
}
