// Package optimize implements the gradient descent training engine: the
// observer notification protocol, the training history, progress reporting,
// performance-based early stopping, gradient checking, and the optimizer,
// learning-rate schedule, and scorer strategies consumed by the estimators
// in linear_model.
package optimize

import (
	"gonum.org/v1/gonum/mat"
)

// Metric identifies an observable quantity in the training log.
type Metric string

// Metrics a PerformanceMonitor can watch. Theta and gradient are magnitude
// metrics: their logged matrices are reduced to a Frobenius norm.
const (
	MetricTrainCost  Metric = "train_cost"
	MetricTrainScore Metric = "train_score"
	MetricValCost    Metric = "val_cost"
	MetricValScore   Metric = "val_score"
	MetricTheta      Metric = "theta"
	MetricGradient   Metric = "gradient"
)

// IsScore reports whether the metric requires a scorer for its direction of
// improvement.
func (m Metric) IsScore() bool {
	return m == MetricTrainScore || m == MetricValScore
}

// IsMagnitude reports whether the metric ignores direction and is judged by
// relative change alone.
func (m Metric) IsMagnitude() bool {
	return m == MetricTheta || m == MetricGradient
}

// Valid reports whether the metric is one of the known values.
func (m Metric) Valid() bool {
	switch m {
	case MetricTrainCost, MetricTrainScore, MetricValCost, MetricValScore,
		MetricTheta, MetricGradient:
		return true
	}
	return false
}

// Log carries the per-event training snapshot delivered to observers. The
// estimator builds a fresh Log for every event; observers may retain it.
// Theta and Gradient are always deep copies of the estimator's state, so a
// retained Log never aliases live training data.
type Log struct {
	Epoch     int
	Batch     int
	BatchSize int

	TrainCost     float64
	HasTrainCost  bool
	TrainScore    float64
	HasTrainScore bool
	ValCost       float64
	HasValCost    bool
	ValScore      float64
	HasValScore   bool

	LearningRate    float64
	HasLearningRate bool

	Theta    *mat.Dense
	Gradient *mat.Dense
}

// SetTheta stores a deep copy of theta in the log.
func (l *Log) SetTheta(theta mat.Matrix) {
	if theta == nil {
		l.Theta = nil
		return
	}
	l.Theta = mat.DenseCopyOf(theta)
}

// SetGradient stores a deep copy of the gradient in the log.
func (l *Log) SetGradient(gradient mat.Matrix) {
	if gradient == nil {
		l.Gradient = nil
		return
	}
	l.Gradient = mat.DenseCopyOf(gradient)
}

// Value resolves a metric to a scalar. Matrix metrics resolve to the
// Frobenius norm. The second return reports whether the metric is present
// in this log.
func (l *Log) Value(m Metric) (float64, bool) {
	switch m {
	case MetricTrainCost:
		return l.TrainCost, l.HasTrainCost
	case MetricTrainScore:
		return l.TrainScore, l.HasTrainScore
	case MetricValCost:
		return l.ValCost, l.HasValCost
	case MetricValScore:
		return l.ValScore, l.HasValScore
	case MetricTheta:
		if l.Theta == nil {
			return 0, false
		}
		return mat.Norm(l.Theta, 2), true
	case MetricGradient:
		if l.Gradient == nil {
			return 0, false
		}
		return mat.Norm(l.Gradient, 2), true
	}
	return 0, false
}
