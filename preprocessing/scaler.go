// Package preprocessing provides data preparation utilities for descent
// estimators.
//
// The package implements scikit-learn compatible components:
//
//   - StandardScaler: zero-mean, unit-variance feature standardization
//   - MinMaxScaler: feature scaling into the [0, 1] range
//   - LabelBinarizer: one-hot encoding for multiclass targets
//   - GradientScaler: norm clipping for exploding or vanishing gradients
//
// All components follow the scikit-learn API pattern with Fit, Transform,
// and FitTransform, and share the library's state management and errors.
package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/descent/core/model"
	"github.com/ezoic/descent/pkg/errors"
)

// StandardScaler standardizes features by removing the mean and scaling to
// unit variance: z = (x - u) / s.
type StandardScaler struct {
	state *model.StateManager

	// WithMean controls centering; WithStd controls scaling.
	WithMean bool
	WithStd  bool

	// Mean holds the per-feature mean seen in the training data.
	Mean []float64

	// Scale holds the per-feature standard deviation (1.0 where WithStd is
	// false or a feature is constant).
	Scale []float64
}

// NewStandardScaler creates a StandardScaler with explicit centering and
// scaling behavior.
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		state:    model.NewStateManager(),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault creates a StandardScaler that both centers and
// scales, the common configuration.
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit computes per-feature mean and standard deviation from X.
func (s *StandardScaler) Fit(X mat.Matrix) (err error) {
	defer errors.Recover(&err, "StandardScaler.Fit")

	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.Mean = make([]float64, cols)
	s.Scale = make([]float64, cols)

	for j := 0; j < cols; j++ {
		var sum float64
		for i := 0; i < rows; i++ {
			sum += X.At(i, j)
		}
		mean := sum / float64(rows)
		if s.WithMean {
			s.Mean[j] = mean
		}

		if s.WithStd {
			var sq float64
			for i := 0; i < rows; i++ {
				d := X.At(i, j) - mean
				sq += d * d
			}
			std := math.Sqrt(sq / float64(rows))
			if std == 0 {
				// Constant feature: dividing would blow up, leave as-is.
				std = 1
			}
			s.Scale[j] = std
		} else {
			s.Scale[j] = 1
		}
	}

	s.state.SetFitted()
	s.state.SetDimensions(cols, rows)
	return nil
}

// Transform standardizes X with the fitted statistics.
func (s *StandardScaler) Transform(X mat.Matrix) (_ *mat.Dense, err error) {
	defer errors.Recover(&err, "StandardScaler.Transform")
	if err := s.state.RequireFitted("StandardScaler", "Transform"); err != nil {
		return nil, err
	}

	rows, cols := X.Dims()
	if cols != len(s.Mean) {
		return nil, errors.NewDimensionError("StandardScaler.Transform", len(s.Mean), cols, 1)
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Scale[j])
		}
	}
	return out, nil
}

// FitTransform fits the scaler and transforms X in one step.
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform reverses the standardization.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (_ *mat.Dense, err error) {
	defer errors.Recover(&err, "StandardScaler.InverseTransform")
	if err := s.state.RequireFitted("StandardScaler", "InverseTransform"); err != nil {
		return nil, err
	}

	rows, cols := X.Dims()
	if cols != len(s.Mean) {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", len(s.Mean), cols, 1)
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, X.At(i, j)*s.Scale[j]+s.Mean[j])
		}
	}
	return out, nil
}

// IsFitted reports whether the scaler has been fitted.
func (s *StandardScaler) IsFitted() bool { return s.state.IsFitted() }

// MinMaxScaler scales each feature into [0, 1]:
// x' = (x - min) / (max - min). Constant features map to 0.
type MinMaxScaler struct {
	state *model.StateManager

	// DataMin and DataMax hold per-feature extrema seen in training data.
	DataMin []float64
	DataMax []float64
}

// NewMinMaxScaler creates a new MinMaxScaler.
func NewMinMaxScaler() *MinMaxScaler {
	return &MinMaxScaler{state: model.NewStateManager()}
}

// Fit computes per-feature minima and maxima from X.
func (s *MinMaxScaler) Fit(X mat.Matrix) (err error) {
	defer errors.Recover(&err, "MinMaxScaler.Fit")

	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.DataMin = make([]float64, cols)
	s.DataMax = make([]float64, cols)

	for j := 0; j < cols; j++ {
		minV, maxV := X.At(0, j), X.At(0, j)
		for i := 1; i < rows; i++ {
			v := X.At(i, j)
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
		s.DataMin[j] = minV
		s.DataMax[j] = maxV
	}

	s.state.SetFitted()
	s.state.SetDimensions(cols, rows)
	return nil
}

// Transform scales X into [0, 1] with the fitted extrema.
func (s *MinMaxScaler) Transform(X mat.Matrix) (_ *mat.Dense, err error) {
	defer errors.Recover(&err, "MinMaxScaler.Transform")
	if err := s.state.RequireFitted("MinMaxScaler", "Transform"); err != nil {
		return nil, err
	}

	rows, cols := X.Dims()
	if cols != len(s.DataMin) {
		return nil, errors.NewDimensionError("MinMaxScaler.Transform", len(s.DataMin), cols, 1)
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			span := s.DataMax[j] - s.DataMin[j]
			if span == 0 {
				out.Set(i, j, 0)
				continue
			}
			out.Set(i, j, (X.At(i, j)-s.DataMin[j])/span)
		}
	}
	return out, nil
}

// FitTransform fits the scaler and transforms X in one step.
func (s *MinMaxScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform reverses the [0, 1] scaling.
func (s *MinMaxScaler) InverseTransform(X mat.Matrix) (_ *mat.Dense, err error) {
	defer errors.Recover(&err, "MinMaxScaler.InverseTransform")
	if err := s.state.RequireFitted("MinMaxScaler", "InverseTransform"); err != nil {
		return nil, err
	}

	rows, cols := X.Dims()
	if cols != len(s.DataMin) {
		return nil, errors.NewDimensionError("MinMaxScaler.InverseTransform", len(s.DataMin), cols, 1)
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, X.At(i, j)*(s.DataMax[j]-s.DataMin[j])+s.DataMin[j])
		}
	}
	return out, nil
}

// IsFitted reports whether the scaler has been fitted.
func (s *MinMaxScaler) IsFitted() bool { return s.state.IsFitted() }
