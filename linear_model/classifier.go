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
	"github.com/ezoic/descent/preprocessing"
)

// GDClassifier is a linear classifier trained by gradient descent. Binary
// problems use logistic regression; three or more classes switch to softmax
// regression with one-hot encoded targets. The switch is automatic from the
// distinct labels in y unless an algorithm is set explicitly.
type GDClassifier struct {
	state *model.StateManager
	cfg   config

	// Learned parameters. For binary problems the output dimension is 1;
	// for multiclass it is the class count.
	coef_      *mat.Dense
	intercept_ *mat.VecDense
	theta_     *mat.Dense
	classes_   []float64

	// Learning state
	nIter_     int
	converged_ bool
	history_   *optimize.History

	algorithm Algorithm

	mu sync.RWMutex
}

// NewGDClassifier creates a gradient descent classifier. Defaults: logistic
// or softmax regression chosen from the data, vanilla SGD, constant learning
// rate 0.01, full-batch, 1000 epochs, accuracy scoring.
func NewGDClassifier(options ...Option) *GDClassifier {
	cfg := defaultConfig()
	cfg.scorer = optimize.NewAccuracy()

	for _, opt := range options {
		opt(&cfg)
	}

	return &GDClassifier{
		state: model.NewStateManager(),
		cfg:   cfg,
	}
}

// Fit trains the model on X (n_samples x n_features) and labels y
// (n_samples). A second call fully resets the estimator; there is no warm
// start.
func (c *GDClassifier) Fit(X mat.Matrix, y *mat.VecDense) (err error) {
	defer errors.Recover(&err, "GDClassifier.Fit")

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.state.BeginTraining("GDClassifier"); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			c.state.Reset()
		}
	}()

	c.coef_ = nil
	c.intercept_ = nil
	c.theta_ = nil
	c.classes_ = nil
	c.nIter_ = 0
	c.converged_ = false
	c.history_ = nil

	if err := c.cfg.validate(); err != nil {
		return err
	}
	if err := validateInputs("GDClassifier.Fit", X, y); err != nil {
		return err
	}

	binarizer := preprocessing.NewLabelBinarizer()
	if err := binarizer.Fit(y); err != nil {
		return err
	}
	classes := binarizer.Classes
	k := len(classes)
	if k < 2 {
		return errors.NewValidationError("y", "needs at least two distinct classes", k)
	}

	algorithm := c.cfg.algorithm
	if algorithm == nil {
		if k == 2 {
			algorithm = NewLogistic(nil)
		} else {
			algorithm = NewSoftmax(nil)
		}
	}
	if _, binary := algorithm.(*Logistic); binary && k > 2 {
		return errors.NewValidationError("algorithm",
			"logistic regression handles two classes; use softmax for more", k)
	}

	rows, features := X.Dims()
	Xd := designMatrix(X)
	yOrig := mat.VecDenseCopyOf(y)

	t := &trainer{
		modelName: "GDClassifier",
		cfg:       &c.cfg,
		algorithm: algorithm,
		rng:       model_selection.NewRand(c.cfg.randomState),
	}

	var yTrainLabels, yValLabels *mat.VecDense
	if m := c.cfg.monitor; m != nil && m.ValSize > 0 {
		XTrain, XVal, yTrain, yVal, err := model_selection.TrainTestSplit(
			Xd, yOrig, m.ValSize,
			model_selection.WithShuffle(true),
			model_selection.WithStratify(true),
			model_selection.WithSeed(c.cfg.randomState),
		)
		if err != nil {
			return err
		}
		t.XTrain, t.XVal = XTrain, XVal
		yTrainLabels, yValLabels = yTrain, yVal
	} else {
		t.XTrain = Xd
		yTrainLabels = yOrig
	}

	t.yTrainOrig = yTrainLabels
	t.yTrain, err = encodeTargets(binarizer, yTrainLabels, k)
	if err != nil {
		return err
	}
	if yValLabels != nil {
		t.yValOrig = yValLabels
		t.yVal, err = encodeTargets(binarizer, yValLabels, k)
		if err != nil {
			return err
		}
	}

	t.mapPred = func(pred *mat.VecDense) *mat.VecDense {
		out := mat.NewVecDense(pred.Len(), nil)
		for i := 0; i < pred.Len(); i++ {
			out.SetVec(i, classes[int(pred.AtVec(i))])
		}
		return out
	}

	outputs := 1
	if k > 2 {
		outputs = k
	}
	theta, err := initTheta(c.cfg.thetaInit, features+1, outputs, t.rng)
	if err != nil {
		return err
	}
	t.theta = theta

	if err := t.run(); err != nil {
		return err
	}

	c.theta_ = t.theta
	c.classes_ = classes
	c.algorithm = algorithm
	c.intercept_ = mat.NewVecDense(outputs, nil)
	c.coef_ = mat.NewDense(features, outputs, nil)
	for j := 0; j < outputs; j++ {
		c.intercept_.SetVec(j, t.theta.At(0, j))
		for i := 0; i < features; i++ {
			c.coef_.Set(i, j, t.theta.At(i+1, j))
		}
	}
	c.nIter_ = t.epoch
	c.converged_ = t.converged
	c.history_ = t.history

	c.state.SetDimensions(features, rows)
	c.state.SetClasses(k)
	c.state.SetFitted()
	return nil
}

// encodeTargets converts labels into the algorithm's target encoding:
// a 0/1 column for binary problems, a one-hot matrix for multiclass.
func encodeTargets(binarizer *preprocessing.LabelBinarizer, y *mat.VecDense, k int) (*mat.Dense, error) {
	oneHot, err := binarizer.Transform(y)
	if err != nil {
		return nil, err
	}
	if k > 2 {
		return oneHot, nil
	}

	// Binary: column 1 of the indicator matrix is the positive class.
	n, _ := oneHot.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, oneHot.At(i, 1))
	}
	return out, nil
}

// Predict computes class labels for X.
func (c *GDClassifier) Predict(X mat.Matrix) (_ *mat.VecDense, err error) {
	defer errors.Recover(&err, "GDClassifier.Predict")

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.predict(X)
}

func (c *GDClassifier) predict(X mat.Matrix) (*mat.VecDense, error) {
	if err := c.state.RequireFitted("GDClassifier", "Predict"); err != nil {
		return nil, err
	}

	_, cols := X.Dims()
	features, _ := c.state.GetDimensions()
	if cols != features {
		return nil, errors.NewDimensionError("GDClassifier.Predict", features, cols, 1)
	}

	idx := c.algorithm.Predict(designMatrix(X), c.theta_)
	out := mat.NewVecDense(idx.Len(), nil)
	for i := 0; i < idx.Len(); i++ {
		out.SetVec(i, c.classes_[int(idx.AtVec(i))])
	}
	return out, nil
}

// PredictProba computes class membership probabilities for X, one column
// per class in Classes order.
func (c *GDClassifier) PredictProba(X mat.Matrix) (_ *mat.Dense, err error) {
	defer errors.Recover(&err, "GDClassifier.PredictProba")

	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.state.RequireFitted("GDClassifier", "PredictProba"); err != nil {
		return nil, err
	}

	_, cols := X.Dims()
	features, _ := c.state.GetDimensions()
	if cols != features {
		return nil, errors.NewDimensionError("GDClassifier.PredictProba", features, cols, 1)
	}

	out := c.algorithm.Output(designMatrix(X), c.theta_)
	if len(c.classes_) > 2 {
		return out, nil
	}

	// Binary: expand p(positive) into [p(negative), p(positive)].
	n, _ := out.Dims()
	probs := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		p := out.At(i, 0)
		probs.Set(i, 0, 1-p)
		probs.Set(i, 1, p)
	}
	return probs, nil
}

// Score evaluates predictions on X against y with the configured scorer
// (accuracy by default).
func (c *GDClassifier) Score(X mat.Matrix, y *mat.VecDense) (_ float64, err error) {
	defer errors.Recover(&err, "GDClassifier.Score")

	c.mu.RLock()
	defer c.mu.RUnlock()

	pred, err := c.predict(X)
	if err != nil {
		return 0, err
	}
	return c.cfg.scorer.Score(y, pred)
}

// Summary writes the run history and learned coefficients to w.
func (c *GDClassifier) Summary(w io.Writer, features ...string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.state.RequireFitted("GDClassifier", "Summary"); err != nil {
		return err
	}
	if err := c.history_.Summary(w); err != nil {
		return err
	}

	rows, outputs := c.coef_.Dims()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for j := 0; j < outputs; j++ {
		fmt.Fprintf(tw, "Intercept[%d]\t%.6f\n", j, c.intercept_.AtVec(j))
	}
	for i := 0; i < rows; i++ {
		name := fmt.Sprintf("x%d", i)
		if i < len(features) {
			name = features[i]
		}
		fmt.Fprintf(tw, "%s", name)
		for j := 0; j < outputs; j++ {
			fmt.Fprintf(tw, "\t%.6f", c.coef_.At(i, j))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// Classes returns the class labels in ascending order.
func (c *GDClassifier) Classes() []float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]float64, len(c.classes_))
	copy(out, c.classes_)
	return out
}

// Coef returns a copy of the learned weights, one column per output,
// excluding the intercepts.
func (c *GDClassifier) Coef() *mat.Dense {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.coef_ == nil {
		return nil
	}
	return mat.DenseCopyOf(c.coef_)
}

// Intercept returns a copy of the learned intercepts, one per output.
func (c *GDClassifier) Intercept() *mat.VecDense {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.intercept_ == nil {
		return nil
	}
	return mat.VecDenseCopyOf(c.intercept_)
}

// Theta returns a copy of the full parameter matrix, intercepts in row 0.
func (c *GDClassifier) Theta() *mat.Dense {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.theta_ == nil {
		return nil
	}
	return mat.DenseCopyOf(c.theta_)
}

// NIter returns the number of epochs the last fit ran.
func (c *GDClassifier) NIter() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nIter_
}

// Converged reports whether the last fit stopped early via the monitor.
func (c *GDClassifier) Converged() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.converged_
}

// History returns the training history of the last fit.
func (c *GDClassifier) History() *optimize.History {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.history_
}

// IsFitted reports whether the estimator has been fitted.
func (c *GDClassifier) IsFitted() bool {
	return c.state.IsFitted()
}
