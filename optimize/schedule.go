package optimize

import (
	"math"
)

// Schedule computes the learning rate for an epoch from the initial rate
// eta0. Epochs are 1-based; a schedule must return eta0 for epoch 1.
type Schedule interface {
	Name() string
	LearningRate(epoch int, eta0 float64) float64
}

// Constant keeps the learning rate fixed at eta0.
type Constant struct{}

// NewConstant creates a constant learning-rate schedule.
func NewConstant() *Constant { return &Constant{} }

func (c *Constant) Name() string { return "constant" }

func (c *Constant) LearningRate(_ int, eta0 float64) float64 { return eta0 }

// TimeDecay decays the rate hyperbolically: eta0 / (1 + decay*(epoch-1)).
type TimeDecay struct {
	DecayRate float64
}

// NewTimeDecay creates a time-decay schedule.
func NewTimeDecay(decayRate float64) *TimeDecay {
	return &TimeDecay{DecayRate: decayRate}
}

func (t *TimeDecay) Name() string { return "time_decay" }

func (t *TimeDecay) LearningRate(epoch int, eta0 float64) float64 {
	return eta0 / (1 + t.DecayRate*float64(epoch-1))
}

// StepDecay halves (or otherwise scales) the rate every StepSize epochs:
// eta0 * factor^floor((epoch-1)/step).
type StepDecay struct {
	DecayFactor float64
	StepSize    int
}

// NewStepDecay creates a step-decay schedule.
func NewStepDecay(decayFactor float64, stepSize int) *StepDecay {
	return &StepDecay{DecayFactor: decayFactor, StepSize: stepSize}
}

func (s *StepDecay) Name() string { return "step_decay" }

func (s *StepDecay) LearningRate(epoch int, eta0 float64) float64 {
	step := s.StepSize
	if step < 1 {
		step = 1
	}
	return eta0 * math.Pow(s.DecayFactor, math.Floor(float64(epoch-1)/float64(step)))
}

// ExponentialDecay decays the rate exponentially:
// eta0 * exp(-decay*(epoch-1)).
type ExponentialDecay struct {
	DecayRate float64
}

// NewExponentialDecay creates an exponential-decay schedule.
func NewExponentialDecay(decayRate float64) *ExponentialDecay {
	return &ExponentialDecay{DecayRate: decayRate}
}

func (e *ExponentialDecay) Name() string { return "exponential_decay" }

func (e *ExponentialDecay) LearningRate(epoch int, eta0 float64) float64 {
	return eta0 * math.Exp(-e.DecayRate*float64(epoch-1))
}

// InvScaling decays the rate as an inverse power of the epoch:
// eta0 / epoch^power.
type InvScaling struct {
	Power float64
}

// NewInvScaling creates an inverse-scaling schedule.
func NewInvScaling(power float64) *InvScaling {
	return &InvScaling{Power: power}
}

func (i *InvScaling) Name() string { return "invscaling" }

func (i *InvScaling) LearningRate(epoch int, eta0 float64) float64 {
	if epoch < 1 {
		epoch = 1
	}
	return eta0 / math.Pow(float64(epoch), i.Power)
}
