package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/descent/pkg/errors"
)

// Default gradient norm thresholds.
const (
	DefaultGradientLowerThreshold = 1e-10
	DefaultGradientUpperThreshold = 1e10
)

// GradientScaler rescales gradients whose norm has left a sane range.
//
// A gradient with norm below the lower threshold (vanishing) is scaled up so
// its norm equals the lower threshold; one with norm above the upper
// threshold (exploding) is scaled down to the upper threshold. Gradients in
// range pass through untouched.
type GradientScaler struct {
	Lower float64
	Upper float64
}

// NewGradientScaler creates a GradientScaler with the given norm thresholds.
func NewGradientScaler(lower, upper float64) (*GradientScaler, error) {
	if lower <= 0 || upper <= 0 || lower >= upper {
		return nil, errors.NewValidationError("thresholds", "must satisfy 0 < lower < upper", [2]float64{lower, upper})
	}
	return &GradientScaler{Lower: lower, Upper: upper}, nil
}

// NewGradientScalerDefault creates a GradientScaler with the default
// thresholds.
func NewGradientScalerDefault() *GradientScaler {
	return &GradientScaler{
		Lower: DefaultGradientLowerThreshold,
		Upper: DefaultGradientUpperThreshold,
	}
}

// Transform clips the gradient in place and returns it. A zero gradient is
// left alone since it has no direction to preserve.
func (g *GradientScaler) Transform(gradient *mat.Dense) *mat.Dense {
	norm := mat.Norm(gradient, 2)
	if norm == 0 {
		return gradient
	}

	switch {
	case norm < g.Lower:
		gradient.Scale(g.Lower/norm, gradient)
	case norm > g.Upper:
		gradient.Scale(g.Upper/norm, gradient)
	}
	return gradient
}
