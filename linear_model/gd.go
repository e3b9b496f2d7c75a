package linear_model

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/descent/core/parallel"
	"github.com/ezoic/descent/model_selection"
	"github.com/ezoic/descent/optimize"
	"github.com/ezoic/descent/pkg/errors"
)

// Row count above which the design matrix is built in parallel.
const designParallelThreshold = 10000

// trainer runs one gradient descent training loop. It owns all mutable
// per-run state, so a second Fit on the same estimator starts from a clean
// trainer with nothing carried over.
type trainer struct {
	modelName string
	cfg       *config
	algorithm Algorithm
	rng       *rand.Rand

	// Training data: design matrix, encoded targets (n x k), and the
	// original labels aligned row for row. All three are shuffled jointly
	// each epoch.
	XTrain     *mat.Dense
	yTrain     *mat.Dense
	yTrainOrig *mat.VecDense

	// Optional validation partition, fixed for the whole run.
	XVal     *mat.Dense
	yVal     *mat.Dense
	yValOrig *mat.VecDense

	// mapPred translates raw algorithm predictions (class indices) into
	// original labels before scoring. Nil for regression.
	mapPred func(*mat.VecDense) *mat.VecDense

	theta      *mat.Dense
	epoch      int
	batchCount int
	converged  bool

	history *optimize.History
}

// Scorer returns the configured scorer; part of the optimize.Model surface
// handed to observers.
func (t *trainer) Scorer() optimize.Scorer { return t.cfg.scorer }

// Converge stops the training loop at the next epoch boundary.
func (t *trainer) Converge() { t.converged = true }

// run executes the full training loop: observer setup, the epoch/batch
// cycle, and teardown.
func (t *trainer) run() error {
	n, cols := t.XTrain.Dims()

	t.history = optimize.NewHistory()
	observers := optimize.NewObserverList()
	observers.Append(t.history)
	observers.Append(optimize.NewProgress())
	if t.cfg.monitor != nil {
		observers.Append(t.cfg.monitor)
	}
	if t.cfg.checker != nil {
		observers.Append(t.cfg.checker)
	}

	observers.SetParams(optimize.Params{
		ModelName:    t.modelName,
		Epochs:       t.cfg.epochs,
		BatchSize:    t.cfg.batchSize,
		NSamples:     n,
		NFeatures:    cols - 1,
		LearningRate: t.cfg.learningRate0,
		Verbose:      t.cfg.verbose,
		Checkpoint:   t.cfg.checkpoint,
	})
	observers.SetModel(t)

	if err := observers.OnTrainBegin(&optimize.Log{}); err != nil {
		return err
	}

	thetaRows, thetaCols := t.theta.Dims()
	t.cfg.optimizer.Init(thetaRows, thetaCols)

	_, k := t.yTrain.Dims()
	var lastGradient *mat.Dense

	for t.epoch < t.cfg.epochs && !t.converged {
		t.epoch++
		learningRate := t.cfg.schedule.LearningRate(t.epoch, t.cfg.learningRate0)

		targets := []mat.Mutable{t.yTrain}
		if t.yTrainOrig != nil {
			targets = append(targets, model_selection.AsColumn(t.yTrainOrig))
		}
		if err := model_selection.ShuffleJoint(t.rng, t.XTrain, targets...); err != nil {
			return err
		}

		if err := observers.OnEpochBegin(t.epoch, &optimize.Log{Epoch: t.epoch}); err != nil {
			return err
		}

		for _, batch := range model_selection.BatchRanges(n, t.cfg.batchSize) {
			t.batchCount++
			start, end := batch[0], batch[1]
			Xb := t.XTrain.Slice(start, end, 0, cols).(*mat.Dense)
			yb := t.yTrain.Slice(start, end, 0, k).(*mat.Dense)

			if err := observers.OnBatchBegin(t.batchCount, &optimize.Log{
				Epoch: t.epoch,
				Batch: t.batchCount,
			}); err != nil {
				return err
			}

			yOut := t.algorithm.Output(Xb, t.theta)
			cost := t.algorithm.Cost(yb, yOut, t.theta)

			batchLog := &optimize.Log{
				Epoch:           t.epoch,
				Batch:           t.batchCount,
				BatchSize:       end - start,
				TrainCost:       cost,
				HasTrainCost:    true,
				LearningRate:    learningRate,
				HasLearningRate: true,
			}
			batchLog.SetTheta(t.theta)

			gradient := t.algorithm.Gradient(Xb, yb, yOut, t.theta)
			if t.cfg.gradScaler != nil {
				t.cfg.gradScaler.Transform(gradient)
			}
			batchLog.SetGradient(gradient)
			lastGradient = batchLog.Gradient

			if t.cfg.checker != nil {
				t.cfg.checker.SetCostFunc(func(theta *mat.Dense) (float64, error) {
					return t.algorithm.Cost(yb, t.algorithm.Output(Xb, theta), theta), nil
				})
			}

			t.cfg.optimizer.Update(t.theta, gradient, learningRate)

			if err := observers.OnBatchEnd(t.batchCount, batchLog); err != nil {
				return err
			}
		}

		epochLog := &optimize.Log{
			Epoch:           t.epoch,
			LearningRate:    learningRate,
			HasLearningRate: true,
		}
		epochLog.SetTheta(t.theta)
		if lastGradient != nil {
			epochLog.Gradient = mat.DenseCopyOf(lastGradient)
		}
		if err := t.evaluateEpoch(epochLog); err != nil {
			return err
		}
		if err := observers.OnEpochEnd(t.epoch, epochLog); err != nil {
			return err
		}
	}

	endLog := &optimize.Log{Epoch: t.epoch}
	endLog.SetTheta(t.theta)
	if err := observers.OnTrainEnd(endLog); err != nil {
		return err
	}

	if t.cfg.monitor != nil && !t.converged {
		errors.Warn(errors.NewConvergenceWarning(t.modelName, t.epoch,
			"epoch budget exhausted before the watched metric stabilized"))
	}
	return nil
}

// evaluateEpoch fills the epoch log with full-pass training and validation
// costs and scores.
func (t *trainer) evaluateEpoch(l *optimize.Log) error {
	yOut := t.algorithm.Output(t.XTrain, t.theta)
	l.TrainCost = t.algorithm.Cost(t.yTrain, yOut, t.theta)
	l.HasTrainCost = true

	if t.cfg.scorer != nil {
		score, err := t.score(t.XTrain, t.yTrainOrig)
		if err != nil {
			return err
		}
		l.TrainScore = score
		l.HasTrainScore = true
	}

	if t.XVal != nil {
		yOutVal := t.algorithm.Output(t.XVal, t.theta)
		l.ValCost = t.algorithm.Cost(t.yVal, yOutVal, t.theta)
		l.HasValCost = true

		if t.cfg.scorer != nil {
			score, err := t.score(t.XVal, t.yValOrig)
			if err != nil {
				return err
			}
			l.ValScore = score
			l.HasValScore = true
		}
	}
	return nil
}

func (t *trainer) score(X *mat.Dense, yTrue *mat.VecDense) (float64, error) {
	pred := t.algorithm.Predict(X, t.theta)
	if t.mapPred != nil {
		pred = t.mapPred(pred)
	}
	return t.cfg.scorer.Score(yTrue, pred)
}

// designMatrix prepends a column of ones to X.
func designMatrix(X mat.Matrix) *mat.Dense {
	rows, cols := X.Dims()
	out := mat.NewDense(rows, cols+1, nil)
	parallel.ParallelizeWithThreshold(rows, designParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			out.Set(i, 0, 1)
			for j := 0; j < cols; j++ {
				out.Set(i, j+1, X.At(i, j))
			}
		}
	})
	return out
}

// vecToCol copies a vector into a fresh n x 1 matrix.
func vecToCol(v *mat.VecDense) *mat.Dense {
	n := v.Len()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, v.AtVec(i))
	}
	return out
}

// initTheta validates user-supplied initial parameters or draws seeded
// standard normal weights.
func initTheta(init *mat.Dense, rows, cols int, rng *rand.Rand) (*mat.Dense, error) {
	if init != nil {
		r, c := init.Dims()
		if r != rows || c != cols {
			return nil, errors.NewValidationError("theta_init",
				"shape must match (n_features+1, n_outputs)", [2]int{r, c})
		}
		return mat.DenseCopyOf(init), nil
	}

	theta := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			theta.Set(i, j, rng.NormFloat64())
		}
	}
	return theta, nil
}

// validateInputs checks shapes and finiteness of the raw training data.
func validateInputs(op string, X mat.Matrix, y *mat.VecDense) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if y == nil || y.Len() != rows {
		got := 0
		if y != nil {
			got = y.Len()
		}
		return errors.NewDimensionError(op, rows, got, 0)
	}
	if err := errors.CheckMatrix(op, X, rows, cols, 0); err != nil {
		return err
	}
	return errors.CheckMatrix(op, y, rows, 1, 0)
}
