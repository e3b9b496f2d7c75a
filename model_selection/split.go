// Package model_selection provides data splitting utilities used by the
// estimators for validation splits and by callers for train/test splits.
package model_selection

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/descent/pkg/errors"
)

// NewRand creates the library's PCG random source. A negative seed draws
// fresh time entropy, matching the estimator constructors.
func NewRand(seed int64) *rand.Rand {
	if seed >= 0 {
		return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	}
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, now^0xdeadbeef))
}

// Shuffle applies one random permutation jointly to the rows of X and the
// elements of y, in place. y may be a vector or a one-hot matrix; its row
// count must match X.
func Shuffle(X *mat.Dense, y mat.Mutable, rng *rand.Rand) error {
	if y == nil {
		return ShuffleJoint(rng, X)
	}
	return ShuffleJoint(rng, X, y)
}

// ShuffleJoint applies one random permutation to the rows of X and every
// target in ys, in place. Each target's row count must match X. Targets may
// be vectors (via AsColumn) or one-hot matrices.
func ShuffleJoint(rng *rand.Rand, X *mat.Dense, ys ...mat.Mutable) error {
	rows, cols := X.Dims()
	for _, y := range ys {
		yRows, _ := y.Dims()
		if yRows != rows {
			return errors.NewDimensionError("Shuffle", rows, yRows, 0)
		}
	}

	// Fisher-Yates over rows, swapping X and each y with the same indices.
	for i := rows - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		if i == j {
			continue
		}
		for c := 0; c < cols; c++ {
			vi, vj := X.At(i, c), X.At(j, c)
			X.Set(i, c, vj)
			X.Set(j, c, vi)
		}
		for _, y := range ys {
			_, yCols := y.Dims()
			for c := 0; c < yCols; c++ {
				vi, vj := y.At(i, c), y.At(j, c)
				y.Set(i, c, vj)
				y.Set(j, c, vi)
			}
		}
	}
	return nil
}

// SplitOption configures TrainTestSplit.
type SplitOption func(*splitConfig)

type splitConfig struct {
	shuffle  bool
	stratify bool
	seed     int64
}

// WithShuffle enables shuffling before the split.
func WithShuffle(shuffle bool) SplitOption {
	return func(c *splitConfig) { c.shuffle = shuffle }
}

// WithStratify enables per-class proportional sampling. Requires y to hold
// discrete class labels.
func WithStratify(stratify bool) SplitOption {
	return func(c *splitConfig) { c.stratify = stratify }
}

// WithSeed fixes the random seed for reproducibility.
func WithSeed(seed int64) SplitOption {
	return func(c *splitConfig) { c.seed = seed }
}

// TrainTestSplit splits X and y into train and test partitions of
// proportions 1-testSize and testSize.
//
// Without stratification the tail testSize fraction becomes the test set
// (after an optional shuffle). With stratification each class contributes
// ceil(n_k * (1-testSize)) training samples, so small classes are never
// dropped from the training partition.
func TrainTestSplit(X mat.Matrix, y *mat.VecDense, testSize float64, opts ...SplitOption) (XTrain, XTest *mat.Dense, yTrain, yTest *mat.VecDense, err error) {
	defer errors.Recover(&err, "TrainTestSplit")

	cfg := &splitConfig{seed: -1}
	for _, opt := range opts {
		opt(cfg)
	}

	if testSize <= 0 || testSize >= 1 {
		return nil, nil, nil, nil, errors.NewValidationError("test_size", "must be in the open interval (0, 1)", testSize)
	}

	rows, cols := X.Dims()
	if y.Len() != rows {
		return nil, nil, nil, nil, errors.NewDimensionError("TrainTestSplit", rows, y.Len(), 0)
	}
	if rows == 0 {
		return nil, nil, nil, nil, errors.NewModelError("TrainTestSplit", "empty data", errors.ErrEmptyData)
	}

	// Work on copies so callers keep their data unshuffled.
	Xc := mat.DenseCopyOf(X)
	yc := mat.VecDenseCopyOf(y)

	rng := NewRand(cfg.seed)

	var trainIdx, testIdx []int
	if !cfg.stratify {
		if cfg.shuffle {
			if err := Shuffle(Xc, AsColumn(yc), rng); err != nil {
				return nil, nil, nil, nil, err
			}
		}
		splitAt := rows - int(float64(rows)*testSize)
		for i := 0; i < splitAt; i++ {
			trainIdx = append(trainIdx, i)
		}
		for i := splitAt; i < rows; i++ {
			testIdx = append(testIdx, i)
		}
	} else {
		for _, k := range classLabels(yc) {
			var idx []int
			for i := 0; i < rows; i++ {
				if yc.AtVec(i) == k {
					idx = append(idx, i)
				}
			}
			if cfg.shuffle {
				rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
			}
			nTrain := int(math.Ceil(float64(len(idx)) * (1 - testSize)))
			trainIdx = append(trainIdx, idx[:nTrain]...)
			testIdx = append(testIdx, idx[nTrain:]...)
		}
	}

	return takeRows(Xc, cols, trainIdx), takeRows(Xc, cols, testIdx),
		takeVec(yc, trainIdx), takeVec(yc, testIdx), nil
}

// BatchRanges returns the half-open [start, end) row ranges covering n
// samples in batches of batchSize. batchSize <= 0 yields a single batch
// with all samples; batchSize == 1 yields n single-sample batches.
func BatchRanges(n, batchSize int) [][2]int {
	if batchSize <= 0 || batchSize > n {
		batchSize = n
	}
	var ranges [][2]int
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}

// classLabels returns the distinct values of y in ascending order.
func classLabels(y *mat.VecDense) []float64 {
	seen := make(map[float64]bool)
	var labels []float64
	for i := 0; i < y.Len(); i++ {
		v := y.AtVec(i)
		if !seen[v] {
			seen[v] = true
			labels = append(labels, v)
		}
	}
	// insertion sort; class counts are small
	for i := 1; i < len(labels); i++ {
		for j := i; j > 0 && labels[j] < labels[j-1]; j-- {
			labels[j], labels[j-1] = labels[j-1], labels[j]
		}
	}
	return labels
}

func takeRows(X *mat.Dense, cols int, idx []int) *mat.Dense {
	out := mat.NewDense(len(idx), cols, nil)
	for i, r := range idx {
		out.SetRow(i, mat.Row(nil, r, X))
	}
	return out
}

func takeVec(y *mat.VecDense, idx []int) *mat.VecDense {
	out := mat.NewVecDense(len(idx), nil)
	for i, r := range idx {
		out.SetVec(i, y.AtVec(r))
	}
	return out
}

// AsColumn views a vector as an n x 1 mutable matrix for joint shuffling.
func AsColumn(y *mat.VecDense) mat.Mutable {
	return &columnView{y}
}

type columnView struct {
	v *mat.VecDense
}

func (c *columnView) Dims() (int, int)           { return c.v.Len(), 1 }
func (c *columnView) At(i, _ int) float64        { return c.v.AtVec(i) }
func (c *columnView) T() mat.Matrix              { return mat.Transpose{Matrix: c} }
func (c *columnView) Set(i, _ int, val float64)  { c.v.SetVec(i, val) }
