package linear_model

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/descent/optimize"
	"github.com/ezoic/descent/pkg/errors"
	"github.com/ezoic/descent/pkg/log"
)

// linearData builds y = 2x + 1 over n evenly spaced points.
func linearData(n int) (*mat.Dense, *mat.VecDense) {
	X := mat.NewDense(n, 1, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x := float64(i) / 10.0
		X.Set(i, 0, x)
		y.SetVec(i, 2*x+1)
	}
	return X, y
}

// noisyLinearData builds y = 2x + 1 plus bounded deterministic noise. The
// noise keeps the minimum achievable cost above zero, so the training cost
// plateaus at the noise floor instead of decaying geometrically forever.
func noisyLinearData(n int) (*mat.Dense, *mat.VecDense) {
	X := mat.NewDense(n, 1, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x := float64(i) / 10.0
		noise := math.Sin(float64(i) * 12.9898)
		X.Set(i, 0, x)
		y.SetVec(i, 2*x+1+noise)
	}
	return X, y
}

func TestGDRegressorFitRecoversLine(t *testing.T) {
	X, y := linearData(100)

	reg := NewGDRegressor(
		WithLearningRate(0.02),
		WithEpochs(2000),
		WithRandomState(42),
	)
	require.NoError(t, reg.Fit(X, y))
	require.True(t, reg.IsFitted())

	assert.InDelta(t, 2.0, reg.Coef().AtVec(0), 0.1)
	assert.InDelta(t, 1.0, reg.Intercept(), 0.1)
	assert.Equal(t, 2000, reg.NIter())
	assert.False(t, reg.Converged())

	score, err := reg.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.99)
}

func TestGDRegressorEpochAndBatchCounts(t *testing.T) {
	X, y := linearData(20)

	cases := []struct {
		name        string
		batchSize   int
		wantBatches int
	}{
		{"full batch", 0, 5},
		{"stochastic", 1, 100},
		{"minibatch", 8, 15}, // ceil(20/8)=3 batches x 5 epochs
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg := NewGDRegressor(
				WithLearningRate(0.01),
				WithEpochs(5),
				WithBatchSize(tc.batchSize),
				WithRandomState(1),
			)
			require.NoError(t, reg.Fit(X, y))

			h := reg.History()
			assert.Equal(t, 5, h.TotalEpochs)
			assert.Equal(t, tc.wantBatches, h.TotalBatches)
		})
	}
}

func TestGDRegressorThetaShape(t *testing.T) {
	X := mat.NewDense(30, 3, nil)
	y := mat.NewVecDense(30, nil)
	for i := 0; i < 30; i++ {
		X.Set(i, 0, float64(i)/30)
		X.Set(i, 1, float64(i%3))
		X.Set(i, 2, float64(i%5)/5)
		y.SetVec(i, X.At(i, 0)+X.At(i, 1)-X.At(i, 2))
	}

	reg := NewGDRegressor(WithEpochs(10), WithRandomState(7))
	require.NoError(t, reg.Fit(X, y))

	rows, cols := reg.Theta().Dims()
	assert.Equal(t, 4, rows) // bias + 3 features
	assert.Equal(t, 1, cols)
	assert.Equal(t, 3, reg.Coef().Len())
}

func TestGDRegressorPredictIsIdempotent(t *testing.T) {
	X, y := linearData(50)
	reg := NewGDRegressor(WithEpochs(100), WithLearningRate(0.02), WithRandomState(3))
	require.NoError(t, reg.Fit(X, y))

	p1, err := reg.Predict(X)
	require.NoError(t, err)
	p2, err := reg.Predict(X)
	require.NoError(t, err)

	for i := 0; i < p1.Len(); i++ {
		assert.Equal(t, p1.AtVec(i), p2.AtVec(i))
	}
}

func TestGDRegressorReproducibleWithSeed(t *testing.T) {
	X, y := linearData(50)

	fit := func() float64 {
		reg := NewGDRegressor(WithEpochs(50), WithLearningRate(0.02), WithRandomState(42))
		require.NoError(t, reg.Fit(X, y))
		return reg.Coef().AtVec(0)
	}

	assert.Equal(t, fit(), fit())
}

func TestGDRegressorSecondFitResets(t *testing.T) {
	X, y := linearData(50)

	reg := NewGDRegressor(WithEpochs(30), WithLearningRate(0.02), WithRandomState(42))
	require.NoError(t, reg.Fit(X, y))
	first := reg.Coef().AtVec(0)

	// Refitting the same data must reproduce the same result: nothing is
	// carried over from the previous run.
	require.NoError(t, reg.Fit(X, y))
	assert.Equal(t, first, reg.Coef().AtVec(0))
	assert.Equal(t, 30, reg.NIter())
}

func TestGDRegressorNotFittedError(t *testing.T) {
	reg := NewGDRegressor()

	_, err := reg.Predict(mat.NewDense(1, 1, []float64{1}))
	require.Error(t, err)

	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))
}

func TestGDRegressorValidation(t *testing.T) {
	X, y := linearData(10)

	cases := []struct {
		name string
		reg  *GDRegressor
	}{
		{"zero learning rate", NewGDRegressor(WithLearningRate(0))},
		{"zero epochs", NewGDRegressor(WithEpochs(0))},
		{"bad theta shape", NewGDRegressor(WithThetaInit(mat.NewDense(5, 1, nil)))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.reg.Fit(X, y)
			require.Error(t, err)
			assert.False(t, tc.reg.IsFitted())
		})
	}

	t.Run("length mismatch", func(t *testing.T) {
		reg := NewGDRegressor()
		err := reg.Fit(X, mat.NewVecDense(3, nil))
		require.Error(t, err)

		var dim *errors.DimensionError
		assert.True(t, errors.As(err, &dim))
	})

	t.Run("non-finite input", func(t *testing.T) {
		Xbad := mat.DenseCopyOf(X)
		Xbad.Set(0, 0, math.NaN())
		err := NewGDRegressor().Fit(Xbad, y)
		require.Error(t, err)
	})
}

func TestGDRegressorEarlyStop(t *testing.T) {
	// Noisy targets: once the fit reaches the noise floor, improvements
	// against the baseline stay below epsilon and the monitor fires.
	X, y := noisyLinearData(100)

	monitor := optimize.NewPerformanceMonitor(optimize.MetricTrainCost)
	monitor.Epsilon = 0.01
	monitor.Patience = 5

	reg := NewGDRegressor(
		WithLearningRate(0.02),
		WithEpochs(5000),
		WithEarlyStop(monitor),
		WithRandomState(42),
	)
	require.NoError(t, reg.Fit(X, y))

	assert.True(t, reg.Converged())
	assert.Less(t, reg.NIter(), 5000)
	assert.True(t, monitor.Stabilized())
	assert.NotEmpty(t, monitor.CriticalPoints())
}

func TestGDRegressorConvergenceWarning(t *testing.T) {
	// Force lazy logger initialization first so it cannot reinstall the
	// zerolog warning sink over the capture hook mid-fit.
	log.GetLogger()

	var warned []error
	errors.SetZerologWarnFunc(func(w error) { warned = append(warned, w) })
	defer errors.SetZerologWarnFunc(nil)

	X, y := linearData(100)

	// Patience larger than the epoch budget: the monitor can never fire.
	monitor := optimize.NewPerformanceMonitor(optimize.MetricTrainCost)
	monitor.Epsilon = 0.01
	monitor.Patience = 50

	reg := NewGDRegressor(
		WithLearningRate(0.02),
		WithEpochs(10),
		WithEarlyStop(monitor),
		WithRandomState(42),
	)
	require.NoError(t, reg.Fit(X, y))
	require.False(t, reg.Converged())

	require.Len(t, warned, 1)
	var conv *errors.ConvergenceWarning
	assert.True(t, errors.As(warned[0], &conv))
}

func TestGDRegressorValidationSplit(t *testing.T) {
	X, y := noisyLinearData(100)

	monitor := optimize.NewPerformanceMonitor(optimize.MetricValCost)
	monitor.Epsilon = 0.01
	monitor.Patience = 5
	monitor.ValSize = 0.2

	reg := NewGDRegressor(
		WithLearningRate(0.02),
		WithEpochs(3000),
		WithEarlyStop(monitor),
		WithRandomState(42),
	)
	require.NoError(t, reg.Fit(X, y))

	last := reg.History().Last()
	require.NotNil(t, last)
	assert.True(t, last.HasValCost)
	assert.True(t, last.HasValScore)
	assert.True(t, reg.Converged())
}

func TestGDRegressorSummary(t *testing.T) {
	X, y := linearData(50)
	reg := NewGDRegressor(WithEpochs(50), WithLearningRate(0.02), WithRandomState(1))
	require.NoError(t, reg.Fit(X, y))

	var sb strings.Builder
	require.NoError(t, reg.Summary(&sb, "slope"))
	out := sb.String()
	assert.Contains(t, out, "Epochs")
	assert.Contains(t, out, "Intercept")
	assert.Contains(t, out, "slope")
}

func TestGDRegressorWithOptimizersAndSchedules(t *testing.T) {
	X, y := linearData(100)

	cases := []struct {
		name string
		opts []Option
	}{
		{"momentum", []Option{WithOptimizer(optimize.NewMomentum(0.9)), WithLearningRate(0.005)}},
		{"nesterov", []Option{WithOptimizer(optimize.NewNesterov(0.9)), WithLearningRate(0.005)}},
		{"time decay", []Option{WithSchedule(optimize.NewTimeDecay(0.001)), WithLearningRate(0.02)}},
		{"l2 penalty", []Option{WithAlgorithm(NewLeastSquares(NewL2(0.001))), WithLearningRate(0.02)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := append([]Option{WithEpochs(2000), WithRandomState(42)}, tc.opts...)
			reg := NewGDRegressor(opts...)
			require.NoError(t, reg.Fit(X, y))

			score, err := reg.Score(X, y)
			require.NoError(t, err)
			assert.Greater(t, score, 0.95, "optimizer/schedule variant should still fit the line")
		})
	}
}

func TestGDRegressorGradientCheck(t *testing.T) {
	X, y := linearData(20)

	reg := NewGDRegressor(
		WithLearningRate(0.02),
		WithEpochs(3),
		WithGradientCheck(optimize.NewGradientChecker()),
		WithRandomState(42),
	)
	require.NoError(t, reg.Fit(X, y), "analytic least squares gradient must pass the numerical check")
}
