// Package metrics provides evaluation metrics for descent estimators.
//
// Regression metrics:
//   - MSE: Mean Squared Error
//   - RMSE: Root Mean Squared Error
//   - MAE: Mean Absolute Error
//   - R2Score: coefficient of determination
//
// Classification metrics:
//   - Accuracy: fraction of exact label matches
//   - BinaryLogLoss: cross-entropy for probabilistic binary predictions
//
// All metrics operate on gonum vectors. They back the scorer strategies in
// the optimize package and are usable directly for model evaluation.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/descent/pkg/errors"
)

// MSE calculates the Mean Squared Error between true and predicted values.
// Lower values indicate better fit; MSE is sensitive to outliers.
//
// Errors:
//   - ErrEmptyData: if the inputs are empty
//   - DimensionError: if yTrue and yPred have different lengths
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	if err := checkVectors("MSE", yTrue, yPred); err != nil {
		return 0, err
	}

	n := yTrue.Len()
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE calculates the Root Mean Squared Error, i.e. sqrt(MSE). It is in the
// units of the target variable.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE calculates the Mean Absolute Error. It is more robust to outliers
// than MSE.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	if err := checkVectors("MAE", yTrue, yPred); err != nil {
		return 0, err
	}

	n := yTrue.Len()
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score calculates the coefficient of determination.
//
// R² = 1 - RSS/TSS. The best possible score is 1.0; a constant model that
// always predicts the mean of y scores 0.0.
//
// Errors:
//   - ValueError: if yTrue has zero variance (TSS == 0)
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	if err := checkVectors("R2Score", yTrue, yPred); err != nil {
		return 0, err
	}

	n := yTrue.Len()

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	var tss, rss float64
	for i := 0; i < n; i++ {
		yi := yTrue.AtVec(i)
		pi := yPred.AtVec(i)
		tss += (yi - yMean) * (yi - yMean)
		rss += (yi - pi) * (yi - pi)
	}

	if tss == 0 {
		return 0, errors.NewValueError("R2Score", "cannot compute score with zero variance in y_true")
	}

	return 1 - rss/tss, nil
}

func checkVectors(op string, yTrue, yPred *mat.VecDense) error {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 || yPred.Len() == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if yTrue.Len() != yPred.Len() {
		return errors.NewDimensionError(op, yTrue.Len(), yPred.Len(), 0)
	}
	return nil
}
