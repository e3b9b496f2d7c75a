package model

import (
	"testing"

	"github.com/ezoic/descent/pkg/errors"
)

func TestStateManagerLifecycle(t *testing.T) {
	s := NewStateManager()

	if s.IsFitted() {
		t.Error("fresh manager should not be fitted")
	}
	if err := s.RequireFitted("Model", "Predict"); err == nil {
		t.Error("RequireFitted should fail before training")
	}

	if err := s.BeginTraining("Model"); err != nil {
		t.Fatalf("BeginTraining failed: %v", err)
	}
	// Re-entrant training is not supported.
	if err := s.BeginTraining("Model"); err == nil {
		t.Error("second BeginTraining should fail while training")
	}

	s.SetFitted()
	if !s.IsFitted() {
		t.Error("manager should be fitted after SetFitted")
	}
	if err := s.RequireFitted("Model", "Predict"); err != nil {
		t.Errorf("RequireFitted failed after fit: %v", err)
	}

	s.Reset()
	if s.IsFitted() {
		t.Error("manager should not be fitted after Reset")
	}
}

func TestStateManagerRequireFittedErrorType(t *testing.T) {
	s := NewStateManager()

	err := s.RequireFitted("GDRegressor", "Predict")
	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Fatalf("expected NotFittedError, got %T", err)
	}
}

func TestStateManagerDimensions(t *testing.T) {
	s := NewStateManager()
	s.SetDimensions(3, 100)
	s.SetClasses(4)

	features, samples := s.GetDimensions()
	if features != 3 || samples != 100 {
		t.Errorf("dimensions: got (%d,%d), want (3,100)", features, samples)
	}

	state := s.GetState()
	if state.NClasses != 4 {
		t.Errorf("classes: got %d, want 4", state.NClasses)
	}
}

func TestPhaseString(t *testing.T) {
	cases := map[Phase]string{
		NotFitted: "not_fitted",
		Training:  "training",
		Fitted:    "fitted",
	}
	for phase, want := range cases {
		if got := phase.String(); got != want {
			t.Errorf("%d: got %q, want %q", phase, got, want)
		}
	}
}
