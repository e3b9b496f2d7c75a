package linear_model

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/descent/core/model"
	"github.com/ezoic/descent/model_selection"
	"github.com/ezoic/descent/optimize"
	"github.com/ezoic/descent/pkg/errors"
)

// GDRegressor is a linear regression estimator trained by gradient descent.
// Compatible with scikit-learn's estimator conventions: Fit, Predict, Score,
// and fitted attributes exposed through accessors.
type GDRegressor struct {
	state *model.StateManager
	cfg   config

	// Learned parameters
	coef_      *mat.VecDense
	intercept_ float64
	theta_     *mat.Dense

	// Learning state
	nIter_     int
	converged_ bool
	history_   *optimize.History

	mu sync.RWMutex
}

// NewGDRegressor creates a gradient descent regressor. Defaults: least
// squares with no regularization, vanilla SGD, constant learning rate 0.01,
// full-batch, 1000 epochs, R² scoring.
func NewGDRegressor(options ...Option) *GDRegressor {
	cfg := defaultConfig()
	cfg.algorithm = NewLeastSquares(nil)
	cfg.scorer = optimize.NewR2()

	for _, opt := range options {
		opt(&cfg)
	}

	return &GDRegressor{
		state: model.NewStateManager(),
		cfg:   cfg,
	}
}

// Fit trains the model on X (n_samples x n_features) and y (n_samples).
// A second call fully resets the estimator; there is no warm start.
func (r *GDRegressor) Fit(X mat.Matrix, y *mat.VecDense) (err error) {
	defer errors.Recover(&err, "GDRegressor.Fit")

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.state.BeginTraining("GDRegressor"); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			r.state.Reset()
		}
	}()

	r.coef_ = nil
	r.intercept_ = 0
	r.theta_ = nil
	r.nIter_ = 0
	r.converged_ = false
	r.history_ = nil

	if err := r.cfg.validate(); err != nil {
		return err
	}
	if err := validateInputs("GDRegressor.Fit", X, y); err != nil {
		return err
	}

	rows, features := X.Dims()
	Xd := designMatrix(X)
	yOrig := mat.VecDenseCopyOf(y)

	t := &trainer{
		modelName: "GDRegressor",
		cfg:       &r.cfg,
		algorithm: r.cfg.algorithm,
		rng:       model_selection.NewRand(r.cfg.randomState),
	}

	if m := r.cfg.monitor; m != nil && m.ValSize > 0 {
		XTrain, XVal, yTrain, yVal, err := model_selection.TrainTestSplit(
			Xd, yOrig, m.ValSize,
			model_selection.WithShuffle(true),
			model_selection.WithSeed(r.cfg.randomState),
		)
		if err != nil {
			return err
		}
		t.XTrain = XTrain
		t.yTrain = vecToCol(yTrain)
		t.yTrainOrig = yTrain
		t.XVal = XVal
		t.yVal = vecToCol(yVal)
		t.yValOrig = yVal
	} else {
		t.XTrain = Xd
		t.yTrain = vecToCol(yOrig)
		t.yTrainOrig = yOrig
	}

	theta, err := initTheta(r.cfg.thetaInit, features+1, 1, t.rng)
	if err != nil {
		return err
	}
	t.theta = theta

	if err := t.run(); err != nil {
		return err
	}

	r.theta_ = t.theta
	r.intercept_ = t.theta.At(0, 0)
	r.coef_ = mat.NewVecDense(features, nil)
	for i := 0; i < features; i++ {
		r.coef_.SetVec(i, t.theta.At(i+1, 0))
	}
	r.nIter_ = t.epoch
	r.converged_ = t.converged
	r.history_ = t.history

	r.state.SetDimensions(features, rows)
	r.state.SetFitted()
	return nil
}

// Predict computes predictions for X.
func (r *GDRegressor) Predict(X mat.Matrix) (_ *mat.VecDense, err error) {
	defer errors.Recover(&err, "GDRegressor.Predict")

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.predict(X)
}

func (r *GDRegressor) predict(X mat.Matrix) (*mat.VecDense, error) {
	if err := r.state.RequireFitted("GDRegressor", "Predict"); err != nil {
		return nil, err
	}

	_, cols := X.Dims()
	features, _ := r.state.GetDimensions()
	if cols != features {
		return nil, errors.NewDimensionError("GDRegressor.Predict", features, cols, 1)
	}

	return r.cfg.algorithm.Predict(designMatrix(X), r.theta_), nil
}

// Score evaluates predictions on X against y with the configured scorer
// (R² by default).
func (r *GDRegressor) Score(X mat.Matrix, y *mat.VecDense) (_ float64, err error) {
	defer errors.Recover(&err, "GDRegressor.Score")

	r.mu.RLock()
	defer r.mu.RUnlock()

	pred, err := r.predict(X)
	if err != nil {
		return 0, err
	}
	return r.cfg.scorer.Score(y, pred)
}

// Summary writes the run history and learned coefficients to w. Feature
// names are optional; missing names fall back to x0, x1, ...
func (r *GDRegressor) Summary(w io.Writer, features ...string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.state.RequireFitted("GDRegressor", "Summary"); err != nil {
		return err
	}
	if err := r.history_.Summary(w); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Intercept\t%.6f\n", r.intercept_)
	for i := 0; i < r.coef_.Len(); i++ {
		name := fmt.Sprintf("x%d", i)
		if i < len(features) {
			name = features[i]
		}
		fmt.Fprintf(tw, "%s\t%.6f\n", name, r.coef_.AtVec(i))
	}
	return tw.Flush()
}

// Coef returns a copy of the learned feature weights, excluding the
// intercept.
func (r *GDRegressor) Coef() *mat.VecDense {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.coef_ == nil {
		return nil
	}
	return mat.VecDenseCopyOf(r.coef_)
}

// Intercept returns the learned intercept.
func (r *GDRegressor) Intercept() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.intercept_
}

// Theta returns a copy of the full parameter matrix, intercept in row 0.
func (r *GDRegressor) Theta() *mat.Dense {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.theta_ == nil {
		return nil
	}
	return mat.DenseCopyOf(r.theta_)
}

// NIter returns the number of epochs the last fit ran.
func (r *GDRegressor) NIter() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nIter_
}

// Converged reports whether the last fit stopped early via the monitor.
func (r *GDRegressor) Converged() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.converged_
}

// History returns the training history of the last fit.
func (r *GDRegressor) History() *optimize.History {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.history_
}

// IsFitted reports whether the estimator has been fitted.
func (r *GDRegressor) IsFitted() bool {
	return r.state.IsFitted()
}
