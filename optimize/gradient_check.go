package optimize

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/descent/pkg/errors"
)

// Default gradient check tolerances.
const (
	DefaultCheckTolerance = 1e-4
	DefaultCheckStep      = 1e-6
)

// CostFunc evaluates the training objective at an arbitrary theta over the
// current batch. The estimator installs a fresh closure before every batch.
type CostFunc func(theta *mat.Dense) (float64, error)

// GradientChecker verifies analytic gradients against a central-difference
// estimate after every batch update. It is a debugging aid: enabling it
// makes training quadratically more expensive in the parameter count.
type GradientChecker struct {
	Base

	// Tolerance is the maximum accepted relative error between the analytic
	// and numerical gradients.
	Tolerance float64

	// Step is the finite-difference perturbation h.
	Step float64

	costFn CostFunc

	// WorstError is the largest relative error observed during the run.
	WorstError float64

	checks int
}

// NewGradientChecker creates a checker with the default tolerance and step.
func NewGradientChecker() *GradientChecker {
	return &GradientChecker{
		Tolerance: DefaultCheckTolerance,
		Step:      DefaultCheckStep,
	}
}

// Name identifies the observer.
func (g *GradientChecker) Name() string { return "gradient_check" }

// SetCostFunc installs the batch objective used for numerical estimates.
func (g *GradientChecker) SetCostFunc(fn CostFunc) { g.costFn = fn }

// Checks returns the number of batches verified so far.
func (g *GradientChecker) Checks() int { return g.checks }

// OnTrainBegin validates the configuration and resets run state.
func (g *GradientChecker) OnTrainBegin(*Log) error {
	if g.Tolerance <= 0 {
		return errors.NewValidationError("tolerance", "must be positive", g.Tolerance)
	}
	if g.Step <= 0 {
		return errors.NewValidationError("step", "must be positive", g.Step)
	}
	g.WorstError = 0
	g.checks = 0
	return nil
}

// OnBatchEnd compares the logged analytic gradient to a central-difference
// estimate at the logged theta.
//
// Errors:
//   - ValidationError: no cost function installed
//   - GradientCheckError: relative error above tolerance
func (g *GradientChecker) OnBatchEnd(batch int, log *Log) error {
	if g.costFn == nil {
		return errors.NewValidationError("cost_func", "gradient checking requires a cost function", nil)
	}
	if log.Theta == nil || log.Gradient == nil {
		return nil
	}

	// The logged theta is already a copy; perturbing it is safe.
	theta := log.Theta
	rows, cols := theta.Dims()

	var worst float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			orig := theta.At(i, j)

			theta.Set(i, j, orig+g.Step)
			plus, err := g.costFn(theta)
			if err != nil {
				theta.Set(i, j, orig)
				return err
			}

			theta.Set(i, j, orig-g.Step)
			minus, err := g.costFn(theta)
			theta.Set(i, j, orig)
			if err != nil {
				return err
			}

			numeric := (plus - minus) / (2 * g.Step)
			analytic := log.Gradient.At(i, j)

			denom := math.Abs(numeric) + math.Abs(analytic)
			if denom < g.Step {
				continue
			}
			rel := math.Abs(numeric-analytic) / denom
			if rel > worst {
				worst = rel
			}
		}
	}

	g.checks++
	if worst > g.WorstError {
		g.WorstError = worst
	}
	if worst > g.Tolerance {
		return errors.NewGradientCheckError(g.Params().ModelName, log.Epoch, batch, worst, g.Tolerance)
	}
	return nil
}
