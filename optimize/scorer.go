package optimize

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/descent/metrics"
)

// Scorer evaluates predictions against true targets and knows its own
// direction of improvement. Better(a, b) reports whether score a is an
// improvement over score b.
type Scorer interface {
	Name() string
	Score(yTrue, yPred *mat.VecDense) (float64, error)
	Better(a, b float64) bool
}

// MSEScorer scores with mean squared error; lower is better.
type MSEScorer struct{}

// NewMSE creates an MSE scorer.
func NewMSE() *MSEScorer { return &MSEScorer{} }

func (s *MSEScorer) Name() string { return "mse" }

func (s *MSEScorer) Score(yTrue, yPred *mat.VecDense) (float64, error) {
	return metrics.MSE(yTrue, yPred)
}

func (s *MSEScorer) Better(a, b float64) bool { return a < b }

// R2Scorer scores with the coefficient of determination; higher is better.
type R2Scorer struct{}

// NewR2 creates an R² scorer, the regression default.
func NewR2() *R2Scorer { return &R2Scorer{} }

func (s *R2Scorer) Name() string { return "r2" }

func (s *R2Scorer) Score(yTrue, yPred *mat.VecDense) (float64, error) {
	return metrics.R2Score(yTrue, yPred)
}

func (s *R2Scorer) Better(a, b float64) bool { return a > b }

// AccuracyScorer scores with classification accuracy; higher is better.
type AccuracyScorer struct{}

// NewAccuracy creates an accuracy scorer, the classification default.
func NewAccuracy() *AccuracyScorer { return &AccuracyScorer{} }

func (s *AccuracyScorer) Name() string { return "accuracy" }

func (s *AccuracyScorer) Score(yTrue, yPred *mat.VecDense) (float64, error) {
	return metrics.Accuracy(yTrue, yPred)
}

func (s *AccuracyScorer) Better(a, b float64) bool { return a > b }
