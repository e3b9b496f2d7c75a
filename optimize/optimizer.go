package optimize

import (
	"gonum.org/v1/gonum/mat"
)

// Optimizer applies one gradient update to theta in place. Implementations
// holding accumulator state reset it in Init, which the estimator calls
// once per fit with theta's dimensions.
type Optimizer interface {
	Name() string
	Init(rows, cols int)
	Update(theta, gradient *mat.Dense, learningRate float64)
}

// SGD is vanilla gradient descent: theta -= lr * gradient.
type SGD struct{}

// NewSGD creates a vanilla gradient descent optimizer.
func NewSGD() *SGD { return &SGD{} }

func (s *SGD) Name() string { return "sgd" }

func (s *SGD) Init(int, int) {}

func (s *SGD) Update(theta, gradient *mat.Dense, learningRate float64) {
	var step mat.Dense
	step.Scale(learningRate, gradient)
	theta.Sub(theta, &step)
}

// Momentum accumulates a velocity term that smooths the descent direction:
// v = gamma*v + lr*grad; theta -= v.
type Momentum struct {
	// Gamma is the velocity decay factor, typically 0.9.
	Gamma float64

	velocity *mat.Dense
}

// NewMomentum creates a momentum optimizer with the given decay factor.
func NewMomentum(gamma float64) *Momentum {
	return &Momentum{Gamma: gamma}
}

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) Init(rows, cols int) {
	m.velocity = mat.NewDense(rows, cols, nil)
}

func (m *Momentum) Update(theta, gradient *mat.Dense, learningRate float64) {
	if m.velocity == nil {
		r, c := theta.Dims()
		m.Init(r, c)
	}

	var step mat.Dense
	step.Scale(learningRate, gradient)
	m.velocity.Scale(m.Gamma, m.velocity)
	m.velocity.Add(m.velocity, &step)
	theta.Sub(theta, m.velocity)
}

// Nesterov is momentum with a look-ahead correction. The update follows the
// common reformulation that evaluates gradients at the current theta:
// v = gamma*v + lr*grad; theta -= gamma*v + lr*grad.
type Nesterov struct {
	// Gamma is the velocity decay factor, typically 0.9.
	Gamma float64

	velocity *mat.Dense
}

// NewNesterov creates a Nesterov accelerated gradient optimizer.
func NewNesterov(gamma float64) *Nesterov {
	return &Nesterov{Gamma: gamma}
}

func (n *Nesterov) Name() string { return "nesterov" }

func (n *Nesterov) Init(rows, cols int) {
	n.velocity = mat.NewDense(rows, cols, nil)
}

func (n *Nesterov) Update(theta, gradient *mat.Dense, learningRate float64) {
	if n.velocity == nil {
		r, c := theta.Dims()
		n.Init(r, c)
	}

	var step mat.Dense
	step.Scale(learningRate, gradient)
	n.velocity.Scale(n.Gamma, n.velocity)
	n.velocity.Add(n.velocity, &step)

	var lookahead mat.Dense
	lookahead.Scale(n.Gamma, n.velocity)
	lookahead.Add(&lookahead, &step)
	theta.Sub(theta, &lookahead)
}
