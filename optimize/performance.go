package optimize

import (
	"math"

	"github.com/ezoic/descent/pkg/errors"
)

// Default PerformanceMonitor hyperparameters.
const (
	DefaultEpsilon  = 0.01
	DefaultPatience = 5
)

// PerformanceRecord is one row of the monitor's diagnostic trace.
type PerformanceRecord struct {
	Epoch          int
	Value          float64
	Baseline       float64
	RelativeChange float64
	Improved       bool
	Counter        int
	Stabilized     bool
	BestEpoch      int
}

// PerformanceMonitor watches one metric stream and declares stability once
// the metric has stopped improving by more than Epsilon (relative) for
// Patience consecutive epochs. On stabilization it calls the model's
// Converge callback, stopping training at the next epoch boundary.
type PerformanceMonitor struct {
	Base

	// Metric is the watched quantity. Score metrics require the model to
	// carry a scorer.
	Metric Metric

	// Epsilon is the minimum relative change considered significant,
	// exclusive in (0, 1).
	Epsilon float64

	// Patience is the number of consecutive non-improving epochs tolerated
	// before declaring stability. At least 1.
	Patience int

	// ValSize reserves a fraction of the training data for validation when
	// the metric is validation-based. Zero disables the split.
	ValSize float64

	scorer      Scorer
	baseline    float64
	hasBaseline bool
	counter     int
	stabilized  bool
	bestEpoch   int

	trace          []PerformanceRecord
	criticalPoints []int
	bestResults    *PerformanceRecord
}

// NewPerformanceMonitor creates a monitor for the given metric with the
// default epsilon and patience.
func NewPerformanceMonitor(metric Metric) *PerformanceMonitor {
	return &PerformanceMonitor{
		Metric:   metric,
		Epsilon:  DefaultEpsilon,
		Patience: DefaultPatience,
	}
}

// Name identifies the observer.
func (m *PerformanceMonitor) Name() string { return "performance" }

// OnTrainBegin validates the configuration and resets all monitor state.
//
// Errors:
//   - ValidationError: metric unknown, epsilon outside (0, 1), patience < 1,
//     or a score metric configured on a model without a scorer
func (m *PerformanceMonitor) OnTrainBegin(*Log) error {
	if !m.Metric.Valid() {
		return errors.NewValidationError("metric", "unknown metric", string(m.Metric))
	}
	if m.Epsilon <= 0 || m.Epsilon >= 1 {
		return errors.NewValidationError("epsilon", "must be in the open interval (0, 1)", m.Epsilon)
	}
	if m.Patience < 1 {
		return errors.NewValidationError("patience", "must be at least 1", m.Patience)
	}

	m.scorer = nil
	if m.Metric.IsScore() {
		if m.Model() == nil || m.Model().Scorer() == nil {
			return errors.NewValidationError("metric", "score metric requires a model with a scorer", string(m.Metric))
		}
		m.scorer = m.Model().Scorer()
	}

	m.baseline = 0
	m.hasBaseline = false
	m.counter = 0
	m.stabilized = false
	m.bestEpoch = 0
	m.trace = nil
	m.criticalPoints = nil
	m.bestResults = nil
	return nil
}

// OnEpochEnd runs one step of the stability state machine on the watched
// metric.
//
// Errors:
//   - MissingMetricError: the watched metric is absent from the epoch log
func (m *PerformanceMonitor) OnEpochEnd(epoch int, log *Log) error {
	v, ok := log.Value(m.Metric)
	if !ok {
		return errors.NewMissingMetricError(m.Name(), string(m.Metric))
	}

	wasStabilized := m.stabilized

	var relChange float64
	improved := false

	if !m.hasBaseline {
		// First observation counts as improvement unconditionally.
		m.hasBaseline = true
		m.baseline = v
		m.bestEpoch = epoch
		m.counter = 0
		m.stabilized = false
		improved = true
	} else {
		// A zero baseline makes the relative change undefined; treat it as
		// no significant change rather than dividing.
		if m.baseline != 0 {
			relChange = math.Abs(v-m.baseline) / math.Abs(m.baseline)
		}

		directional := true
		switch {
		case m.Metric.IsMagnitude():
			// Only the magnitude of change matters.
		case m.Metric.IsScore():
			directional = m.scorer.Better(v, m.baseline)
		default:
			directional = v < m.baseline
		}

		if directional && relChange > m.Epsilon {
			m.baseline = v
			m.bestEpoch = epoch
			m.counter = 0
			m.stabilized = false
			improved = true
		} else {
			m.counter++
			if m.counter >= m.Patience {
				m.stabilized = true
			}
		}
	}

	m.trace = append(m.trace, PerformanceRecord{
		Epoch:          epoch,
		Value:          v,
		Baseline:       m.baseline,
		RelativeChange: relChange,
		Improved:       improved,
		Counter:        m.counter,
		Stabilized:     m.stabilized,
		BestEpoch:      m.bestEpoch,
	})

	if m.stabilized && !wasStabilized {
		m.criticalPoints = append(m.criticalPoints, m.bestEpoch)
		if model := m.Model(); model != nil {
			model.Converge()
		}
	}
	return nil
}

// OnTrainEnd freezes the best results for the run.
func (m *PerformanceMonitor) OnTrainEnd(*Log) error {
	for i := len(m.trace) - 1; i >= 0; i-- {
		if m.trace[i].Epoch == m.bestEpoch {
			rec := m.trace[i]
			m.bestResults = &rec
			break
		}
	}
	return nil
}

// Stabilized reports whether the metric has stabilized.
func (m *PerformanceMonitor) Stabilized() bool { return m.stabilized }

// Counter returns the current count of consecutive non-improving epochs.
func (m *PerformanceMonitor) Counter() int { return m.counter }

// Baseline returns the best value seen, and whether one exists yet.
func (m *PerformanceMonitor) Baseline() (float64, bool) {
	return m.baseline, m.hasBaseline
}

// BestEpoch returns the epoch of the best value seen, and whether one
// exists yet.
func (m *PerformanceMonitor) BestEpoch() (int, bool) {
	return m.bestEpoch, m.hasBaseline
}

// Trace returns the per-epoch diagnostic records in epoch order.
func (m *PerformanceMonitor) Trace() []PerformanceRecord { return m.trace }

// CriticalPoints returns, for each epoch at which stability was declared,
// the best epoch at that moment.
func (m *PerformanceMonitor) CriticalPoints() []int { return m.criticalPoints }

// BestResults returns the trace record of the best epoch, fixed at train
// end. Nil when no epoch completed.
func (m *PerformanceMonitor) BestResults() *PerformanceRecord { return m.bestResults }
