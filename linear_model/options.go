package linear_model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/descent/optimize"
	"github.com/ezoic/descent/pkg/errors"
	"github.com/ezoic/descent/preprocessing"
)

// config holds the hyperparameters shared by GDRegressor and GDClassifier.
type config struct {
	learningRate0 float64
	batchSize     int
	epochs        int
	thetaInit     *mat.Dense
	algorithm     Algorithm
	optimizer     optimize.Optimizer
	schedule      optimize.Schedule
	scorer        optimize.Scorer
	monitor       *optimize.PerformanceMonitor
	checker       *optimize.GradientChecker
	gradScaler    *preprocessing.GradientScaler
	verbose       bool
	checkpoint    int
	randomState   int64
}

func defaultConfig() config {
	return config{
		learningRate0: 0.01,
		batchSize:     0,
		epochs:        1000,
		optimizer:     optimize.NewSGD(),
		schedule:      optimize.NewConstant(),
		checkpoint:    100,
		randomState:   -1,
	}
}

func (c *config) validate() error {
	if c.learningRate0 <= 0 {
		return errors.NewValidationError("learning_rate_0", "must be positive", c.learningRate0)
	}
	if c.epochs < 1 {
		return errors.NewValidationError("epochs", "must be at least 1", c.epochs)
	}
	if c.batchSize < 0 {
		return errors.NewValidationError("batch_size", "must not be negative", c.batchSize)
	}
	return nil
}

// Option is a configuration option for the gradient descent estimators.
type Option func(*config)

// WithLearningRate sets the initial learning rate eta0.
func WithLearningRate(eta0 float64) Option {
	return func(c *config) { c.learningRate0 = eta0 }
}

// WithBatchSize sets the batch size. Zero means full-batch gradient descent,
// one means stochastic gradient descent.
func WithBatchSize(batchSize int) Option {
	return func(c *config) { c.batchSize = batchSize }
}

// WithEpochs sets the maximum number of training epochs.
func WithEpochs(epochs int) Option {
	return func(c *config) { c.epochs = epochs }
}

// WithThetaInit sets explicit initial parameters. The shape must match the
// design matrix: (n_features+1) x 1, or (n_features+1) x n_classes for
// multiclass classification.
func WithThetaInit(theta *mat.Dense) Option {
	return func(c *config) { c.thetaInit = theta }
}

// WithAlgorithm sets the algorithm strategy.
func WithAlgorithm(algorithm Algorithm) Option {
	return func(c *config) { c.algorithm = algorithm }
}

// WithOptimizer sets the parameter update strategy.
func WithOptimizer(optimizer optimize.Optimizer) Option {
	return func(c *config) { c.optimizer = optimizer }
}

// WithSchedule sets the learning rate schedule.
func WithSchedule(schedule optimize.Schedule) Option {
	return func(c *config) { c.schedule = schedule }
}

// WithScorer sets the scorer used for epoch evaluation and Score.
func WithScorer(scorer optimize.Scorer) Option {
	return func(c *config) { c.scorer = scorer }
}

// WithEarlyStop attaches a performance monitor. Training stops at the epoch
// boundary after the monitor declares the watched metric stable.
func WithEarlyStop(monitor *optimize.PerformanceMonitor) Option {
	return func(c *config) { c.monitor = monitor }
}

// WithGradientCheck attaches a gradient checker that verifies analytic
// gradients numerically after every batch. Training use only; expensive.
func WithGradientCheck(checker *optimize.GradientChecker) Option {
	return func(c *config) { c.checker = checker }
}

// WithGradientScaler attaches a norm clipper applied to every batch
// gradient.
func WithGradientScaler(scaler *preprocessing.GradientScaler) Option {
	return func(c *config) { c.gradScaler = scaler }
}

// WithVerbose enables progress logging.
func WithVerbose(verbose bool) Option {
	return func(c *config) { c.verbose = verbose }
}

// WithCheckpoint sets the epoch interval between progress log lines.
func WithCheckpoint(checkpoint int) Option {
	return func(c *config) { c.checkpoint = checkpoint }
}

// WithRandomState fixes the random seed for shuffling and weight
// initialization. Negative draws fresh entropy per run.
func WithRandomState(seed int64) Option {
	return func(c *config) { c.randomState = seed }
}
