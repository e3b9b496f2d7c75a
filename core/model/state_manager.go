// Package model provides state management shared by all estimators.
package model

import (
	"sync"

	"github.com/ezoic/descent/pkg/errors"
)

// Phase is the lifecycle phase of an estimator.
type Phase int

const (
	// NotFitted means Fit has not completed on this estimator.
	NotFitted Phase = iota
	// Training means a Fit call is currently in flight.
	Training
	// Fitted means Fit has completed and the estimator can predict.
	Fitted
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case NotFitted:
		return "not_fitted"
	case Training:
		return "training"
	case Fitted:
		return "fitted"
	default:
		return "unknown"
	}
}

// StateManager tracks the lifecycle phase of an estimator in a thread-safe
// manner. Estimators hold it by composition rather than embedding.
type StateManager struct {
	Phase Phase // Public for gob encoding
	mu    sync.RWMutex

	// Dimensions seen during fitting - Public for gob encoding
	NFeatures int
	NSamples  int
	NClasses  int
}

// NewStateManager creates a new StateManager in the NotFitted phase.
func NewStateManager() *StateManager {
	return &StateManager{Phase: NotFitted}
}

// IsFitted reports whether the estimator has completed a Fit call.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Phase == Fitted
}

// BeginTraining moves the estimator into the Training phase, discarding any
// previously fitted state. Fit is non-reentrant: a second concurrent call on
// the same instance is a usage error.
func (s *StateManager) BeginTraining(modelName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Phase == Training {
		return errors.NewModelError(modelName+".Fit", "concurrent Fit calls are not supported", nil)
	}
	s.Phase = Training
	s.NFeatures = 0
	s.NSamples = 0
	s.NClasses = 0
	return nil
}

// SetFitted marks the estimator as fitted.
func (s *StateManager) SetFitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Phase = Fitted
}

// Reset returns the estimator to the NotFitted phase.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Phase = NotFitted
	s.NFeatures = 0
	s.NSamples = 0
	s.NClasses = 0
}

// SetDimensions records the data dimensions seen during fitting.
func (s *StateManager) SetDimensions(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.NFeatures = nFeatures
	s.NSamples = nSamples
}

// SetClasses records the number of target classes seen during fitting.
func (s *StateManager) SetClasses(nClasses int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.NClasses = nClasses
}

// GetDimensions returns the feature and sample counts seen during fitting.
func (s *StateManager) GetDimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.NFeatures, s.NSamples
}

// RequireFitted returns a NotFittedError unless the estimator is fitted.
func (s *StateManager) RequireFitted(modelName, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}

// ModelState is a snapshot of the estimator state, usable for debugging.
type ModelState struct {
	Phase     string `json:"phase"`
	NFeatures int    `json:"n_features,omitempty"`
	NSamples  int    `json:"n_samples,omitempty"`
	NClasses  int    `json:"n_classes,omitempty"`
}

// GetState returns the current state as a ModelState snapshot.
func (s *StateManager) GetState() ModelState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ModelState{
		Phase:     s.Phase.String(),
		NFeatures: s.NFeatures,
		NSamples:  s.NSamples,
		NClasses:  s.NClasses,
	}
}
