package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/descent/pkg/errors"
)

// Accuracy calculates the fraction of predictions that exactly match the
// true labels.
//
// Errors:
//   - ErrEmptyData: if the inputs are empty
//   - DimensionError: if yTrue and yPred have different lengths
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	if err := checkVectors("Accuracy", yTrue, yPred); err != nil {
		return 0, err
	}

	n := yTrue.Len()
	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ClassificationError calculates 1 - Accuracy.
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// BinaryLogLoss calculates the binary cross-entropy between true labels in
// {0,1} and predicted probabilities in [0,1]. Probabilities are clamped away
// from 0 and 1 to keep the logarithm finite.
func BinaryLogLoss(yTrue, yProb *mat.VecDense) (float64, error) {
	if err := checkVectors("BinaryLogLoss", yTrue, yProb); err != nil {
		return 0, err
	}

	n := yTrue.Len()
	var sum float64
	for i := 0; i < n; i++ {
		y := yTrue.AtVec(i)
		p := yProb.AtVec(i)
		if y != 0 && y != 1 {
			return 0, errors.NewValueError("BinaryLogLoss", "y_true must contain only 0 and 1")
		}
		sum += -(y*errors.StabilizeLog(p) + (1-y)*errors.StabilizeLog(1-p))
	}
	return sum / float64(n), nil
}
