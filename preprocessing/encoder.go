package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/descent/core/model"
	"github.com/ezoic/descent/pkg/errors"
)

// LabelBinarizer converts a vector of class labels into a one-hot indicator
// matrix and back. Classes are the distinct label values in ascending order;
// column j of the indicator matrix corresponds to Classes[j].
type LabelBinarizer struct {
	state *model.StateManager

	// Classes holds the distinct labels seen during Fit, sorted ascending.
	Classes []float64

	index map[float64]int
}

// NewLabelBinarizer creates a new LabelBinarizer.
func NewLabelBinarizer() *LabelBinarizer {
	return &LabelBinarizer{state: model.NewStateManager()}
}

// Fit learns the distinct class labels present in y.
func (b *LabelBinarizer) Fit(y *mat.VecDense) (err error) {
	defer errors.Recover(&err, "LabelBinarizer.Fit")

	if y == nil || y.Len() == 0 {
		return errors.NewModelError("LabelBinarizer.Fit", "empty data", errors.ErrEmptyData)
	}

	seen := make(map[float64]bool)
	b.Classes = b.Classes[:0]
	for i := 0; i < y.Len(); i++ {
		v := y.AtVec(i)
		if !seen[v] {
			seen[v] = true
			b.Classes = append(b.Classes, v)
		}
	}
	for i := 1; i < len(b.Classes); i++ {
		for j := i; j > 0 && b.Classes[j] < b.Classes[j-1]; j-- {
			b.Classes[j], b.Classes[j-1] = b.Classes[j-1], b.Classes[j]
		}
	}

	b.index = make(map[float64]int, len(b.Classes))
	for j, c := range b.Classes {
		b.index[c] = j
	}

	b.state.SetFitted()
	b.state.SetClasses(len(b.Classes))
	return nil
}

// Transform converts y into an n x k one-hot indicator matrix, where k is the
// number of fitted classes. Labels not seen during Fit are an error.
func (b *LabelBinarizer) Transform(y *mat.VecDense) (_ *mat.Dense, err error) {
	defer errors.Recover(&err, "LabelBinarizer.Transform")
	if err := b.state.RequireFitted("LabelBinarizer", "Transform"); err != nil {
		return nil, err
	}

	n := y.Len()
	out := mat.NewDense(n, len(b.Classes), nil)
	for i := 0; i < n; i++ {
		j, ok := b.index[y.AtVec(i)]
		if !ok {
			return nil, errors.NewValueError("LabelBinarizer.Transform", "y contains a label not seen during fit")
		}
		out.Set(i, j, 1)
	}
	return out, nil
}

// FitTransform fits the binarizer and transforms y in one step.
func (b *LabelBinarizer) FitTransform(y *mat.VecDense) (*mat.Dense, error) {
	if err := b.Fit(y); err != nil {
		return nil, err
	}
	return b.Transform(y)
}

// InverseTransform maps an n x k score or indicator matrix back to class
// labels by row-wise argmax.
func (b *LabelBinarizer) InverseTransform(Y mat.Matrix) (_ *mat.VecDense, err error) {
	defer errors.Recover(&err, "LabelBinarizer.InverseTransform")
	if err := b.state.RequireFitted("LabelBinarizer", "InverseTransform"); err != nil {
		return nil, err
	}

	rows, cols := Y.Dims()
	if cols != len(b.Classes) {
		return nil, errors.NewDimensionError("LabelBinarizer.InverseTransform", len(b.Classes), cols, 1)
	}

	out := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		best, bestV := 0, Y.At(i, 0)
		for j := 1; j < cols; j++ {
			if v := Y.At(i, j); v > bestV {
				best, bestV = j, v
			}
		}
		out.SetVec(i, b.Classes[best])
	}
	return out, nil
}

// IsFitted reports whether the binarizer has been fitted.
func (b *LabelBinarizer) IsFitted() bool { return b.state.IsFitted() }
