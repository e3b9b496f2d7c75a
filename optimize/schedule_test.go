package optimize

import (
	"math"
	"testing"
)

func TestSchedulesReturnEta0AtEpochOne(t *testing.T) {
	schedules := []Schedule{
		NewConstant(),
		NewTimeDecay(0.1),
		NewStepDecay(0.5, 10),
		NewExponentialDecay(0.05),
		NewInvScaling(0.25),
	}
	for _, s := range schedules {
		if got := s.LearningRate(1, 0.1); math.Abs(got-0.1) > 1e-12 {
			t.Errorf("%s: epoch 1 rate %v, want 0.1", s.Name(), got)
		}
	}
}

func TestDecaySchedulesAreMonotone(t *testing.T) {
	schedules := []Schedule{
		NewTimeDecay(0.1),
		NewStepDecay(0.5, 5),
		NewExponentialDecay(0.05),
		NewInvScaling(0.25),
	}
	for _, s := range schedules {
		prev := s.LearningRate(1, 0.1)
		for epoch := 2; epoch <= 100; epoch++ {
			cur := s.LearningRate(epoch, 0.1)
			if cur > prev+1e-15 {
				t.Errorf("%s: rate increased at epoch %d (%v -> %v)", s.Name(), epoch, prev, cur)
			}
			prev = cur
		}
	}
}

func TestStepDecayBoundaries(t *testing.T) {
	s := NewStepDecay(0.5, 10)

	if got := s.LearningRate(10, 1.0); got != 1.0 {
		t.Errorf("epoch 10: got %v, want 1.0", got)
	}
	if got := s.LearningRate(11, 1.0); got != 0.5 {
		t.Errorf("epoch 11: got %v, want 0.5", got)
	}
	if got := s.LearningRate(21, 1.0); got != 0.25 {
		t.Errorf("epoch 21: got %v, want 0.25", got)
	}
}

func TestTimeDecayFormula(t *testing.T) {
	s := NewTimeDecay(0.5)
	// epoch 3: eta0 / (1 + 0.5*2) = eta0/2
	if got := s.LearningRate(3, 0.1); math.Abs(got-0.05) > 1e-12 {
		t.Errorf("got %v, want 0.05", got)
	}
}

func TestInvScalingFormula(t *testing.T) {
	s := NewInvScaling(0.5)
	// epoch 4: eta0 / 4^0.5 = eta0/2
	if got := s.LearningRate(4, 0.1); math.Abs(got-0.05) > 1e-12 {
		t.Errorf("got %v, want 0.05", got)
	}
}
