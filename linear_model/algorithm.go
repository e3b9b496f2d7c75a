// Package linear_model provides gradient descent estimators for linear
// models: GDRegressor for regression and GDClassifier for binary and
// multiclass classification. The estimators delegate the numerical core to
// pluggable Algorithm strategies and drive training through the optimize
// package's observer protocol.
package linear_model

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/descent/pkg/errors"
)

// Algorithm supplies the numerical core of an estimator: model output, cost,
// gradient, and prediction. X is always a design matrix with a leading bias
// column; theta has shape (d+1) x k with k = 1 except for multiclass.
type Algorithm interface {
	Name() string

	// Output computes the raw model output for X, shape n x k.
	Output(X mat.Matrix, theta *mat.Dense) *mat.Dense

	// Cost computes the training objective for targets y (n x k) and output
	// yOut, including any regularization penalty.
	Cost(y mat.Matrix, yOut, theta *mat.Dense) float64

	// Gradient computes the cost gradient with respect to theta, same shape
	// as theta.
	Gradient(X, y mat.Matrix, yOut, theta *mat.Dense) *mat.Dense

	// Predict computes final predictions for X: values for regression,
	// class column indices for classification.
	Predict(X mat.Matrix, theta *mat.Dense) *mat.VecDense
}

// LeastSquares implements linear regression with mean squared error cost.
type LeastSquares struct {
	// Regularizer is optional; nil means no penalty.
	Regularizer Regularizer
}

// NewLeastSquares creates a least squares algorithm, optionally regularized.
func NewLeastSquares(reg Regularizer) *LeastSquares {
	return &LeastSquares{Regularizer: reg}
}

func (a *LeastSquares) Name() string { return "least_squares" }

func (a *LeastSquares) Output(X mat.Matrix, theta *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Mul(X, theta)
	return &out
}

func (a *LeastSquares) Cost(y mat.Matrix, yOut, theta *mat.Dense) float64 {
	rows, _ := yOut.Dims()
	var sum float64
	for i := 0; i < rows; i++ {
		e := yOut.At(i, 0) - y.At(i, 0)
		sum += e * e
	}
	cost := sum / (2 * float64(rows))
	if a.Regularizer != nil {
		cost += a.Regularizer.Penalty(theta) / float64(rows)
	}
	return cost
}

func (a *LeastSquares) Gradient(X, y mat.Matrix, yOut, theta *mat.Dense) *mat.Dense {
	rows, _ := yOut.Dims()

	var residual mat.Dense
	residual.Sub(yOut, y)

	var grad mat.Dense
	grad.Mul(X.T(), &residual)
	grad.Scale(1/float64(rows), &grad)

	if a.Regularizer != nil {
		var reg mat.Dense
		reg.Scale(1/float64(rows), a.Regularizer.Grad(theta))
		grad.Add(&grad, &reg)
	}
	return &grad
}

func (a *LeastSquares) Predict(X mat.Matrix, theta *mat.Dense) *mat.VecDense {
	out := a.Output(X, theta)
	rows, _ := out.Dims()
	pred := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		pred.SetVec(i, out.At(i, 0))
	}
	return pred
}

// Logistic implements binary logistic regression with cross-entropy cost.
// Targets must be 0/1.
type Logistic struct {
	// Regularizer is optional; nil means no penalty.
	Regularizer Regularizer
}

// NewLogistic creates a logistic regression algorithm, optionally
// regularized.
func NewLogistic(reg Regularizer) *Logistic {
	return &Logistic{Regularizer: reg}
}

func (a *Logistic) Name() string { return "logistic" }

func (a *Logistic) Output(X mat.Matrix, theta *mat.Dense) *mat.Dense {
	var z mat.Dense
	z.Mul(X, theta)
	rows, cols := z.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			z.Set(i, j, sigmoid(z.At(i, j)))
		}
	}
	return &z
}

func (a *Logistic) Cost(y mat.Matrix, yOut, theta *mat.Dense) float64 {
	rows, _ := yOut.Dims()
	var sum float64
	for i := 0; i < rows; i++ {
		yi := y.At(i, 0)
		p := yOut.At(i, 0)
		sum += -(yi*errors.StabilizeLog(p) + (1-yi)*errors.StabilizeLog(1-p))
	}
	cost := sum / float64(rows)
	if a.Regularizer != nil {
		cost += a.Regularizer.Penalty(theta) / float64(rows)
	}
	return cost
}

func (a *Logistic) Gradient(X, y mat.Matrix, yOut, theta *mat.Dense) *mat.Dense {
	rows, _ := yOut.Dims()

	var residual mat.Dense
	residual.Sub(yOut, y)

	var grad mat.Dense
	grad.Mul(X.T(), &residual)
	grad.Scale(1/float64(rows), &grad)

	if a.Regularizer != nil {
		var reg mat.Dense
		reg.Scale(1/float64(rows), a.Regularizer.Grad(theta))
		grad.Add(&grad, &reg)
	}
	return &grad
}

// Predict returns 0/1 labels at the 0.5 probability threshold.
func (a *Logistic) Predict(X mat.Matrix, theta *mat.Dense) *mat.VecDense {
	out := a.Output(X, theta)
	rows, _ := out.Dims()
	pred := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		if out.At(i, 0) >= 0.5 {
			pred.SetVec(i, 1)
		}
	}
	return pred
}

// Softmax implements multinomial logistic regression with cross-entropy
// cost. Targets must be one-hot encoded, theta is (d+1) x k.
type Softmax struct {
	// Regularizer is optional; nil means no penalty.
	Regularizer Regularizer
}

// NewSoftmax creates a softmax regression algorithm, optionally regularized.
func NewSoftmax(reg Regularizer) *Softmax {
	return &Softmax{Regularizer: reg}
}

func (a *Softmax) Name() string { return "softmax" }

func (a *Softmax) Output(X mat.Matrix, theta *mat.Dense) *mat.Dense {
	var z mat.Dense
	z.Mul(X, theta)
	rows, cols := z.Dims()
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, &z)
		lse := errors.LogSumExp(row)
		for j := 0; j < cols; j++ {
			z.Set(i, j, math.Exp(row[j]-lse))
		}
	}
	return &z
}

func (a *Softmax) Cost(y mat.Matrix, yOut, theta *mat.Dense) float64 {
	rows, cols := yOut.Dims()
	var sum float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if y.At(i, j) != 0 {
				sum += -errors.StabilizeLog(yOut.At(i, j))
			}
		}
	}
	cost := sum / float64(rows)
	if a.Regularizer != nil {
		cost += a.Regularizer.Penalty(theta) / float64(rows)
	}
	return cost
}

func (a *Softmax) Gradient(X, y mat.Matrix, yOut, theta *mat.Dense) *mat.Dense {
	rows, _ := yOut.Dims()

	var residual mat.Dense
	residual.Sub(yOut, y)

	var grad mat.Dense
	grad.Mul(X.T(), &residual)
	grad.Scale(1/float64(rows), &grad)

	if a.Regularizer != nil {
		var reg mat.Dense
		reg.Scale(1/float64(rows), a.Regularizer.Grad(theta))
		grad.Add(&grad, &reg)
	}
	return &grad
}

// Predict returns the argmax class column index per sample.
func (a *Softmax) Predict(X mat.Matrix, theta *mat.Dense) *mat.VecDense {
	out := a.Output(X, theta)
	rows, cols := out.Dims()
	pred := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		best, bestV := 0, out.At(i, 0)
		for j := 1; j < cols; j++ {
			if v := out.At(i, j); v > bestV {
				best, bestV = j, v
			}
		}
		pred.SetVec(i, float64(best))
	}
	return pred
}

// sigmoid is numerically stable for large |z|.
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
