package optimize

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/ezoic/descent/pkg/errors"
)

// History records everything that happened during a training run. It is
// always the first registered observer so later observers (monitors,
// progress) see a history consistent with the event they are handling.
type History struct {
	Base

	start time.Time

	// Duration is the wall-clock time of the run, set at train end.
	Duration time.Duration

	// TotalEpochs and TotalBatches count completed epochs and batches.
	TotalEpochs  int
	TotalBatches int

	epochLogs  []*Log
	batchCosts []float64
}

// NewHistory creates a History observer.
func NewHistory() *History {
	return &History{}
}

// Name identifies the observer.
func (h *History) Name() string { return "history" }

// OnTrainBegin resets all recorded state and starts the clock.
func (h *History) OnTrainBegin(*Log) error {
	h.start = time.Now()
	h.Duration = 0
	h.TotalEpochs = 0
	h.TotalBatches = 0
	h.epochLogs = nil
	h.batchCosts = nil
	return nil
}

// OnEpochEnd appends the epoch log to the record.
func (h *History) OnEpochEnd(_ int, log *Log) error {
	h.TotalEpochs++
	h.epochLogs = append(h.epochLogs, log)
	return nil
}

// OnBatchEnd records the batch cost.
func (h *History) OnBatchEnd(_ int, log *Log) error {
	h.TotalBatches++
	if log.HasTrainCost {
		h.batchCosts = append(h.batchCosts, log.TrainCost)
	}
	return nil
}

// OnTrainEnd stops the clock.
func (h *History) OnTrainEnd(*Log) error {
	h.Duration = time.Since(h.start)
	return nil
}

// Epochs returns the number of recorded epochs.
func (h *History) Epochs() int { return len(h.epochLogs) }

// EpochLog returns the log recorded for the i-th completed epoch (0-based).
func (h *History) EpochLog(i int) *Log { return h.epochLogs[i] }

// Last returns the final epoch log, or nil when no epoch completed.
func (h *History) Last() *Log {
	if len(h.epochLogs) == 0 {
		return nil
	}
	return h.epochLogs[len(h.epochLogs)-1]
}

// BatchCosts returns the per-batch training costs in occurrence order.
func (h *History) BatchCosts() []float64 { return h.batchCosts }

// Get returns the per-epoch series for a metric.
//
// Errors:
//   - MissingMetricError: if any recorded epoch lacks the metric
func (h *History) Get(metric Metric) ([]float64, error) {
	series := make([]float64, 0, len(h.epochLogs))
	for _, log := range h.epochLogs {
		v, ok := log.Value(metric)
		if !ok {
			return nil, errors.NewMissingMetricError("history", string(metric))
		}
		series = append(series, v)
	}
	return series, nil
}

// Summary renders a run summary table to w.
func (h *History) Summary(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Epochs\t%d\n", h.TotalEpochs)
	fmt.Fprintf(tw, "Batches\t%d\n", h.TotalBatches)
	fmt.Fprintf(tw, "Duration\t%s\n", h.Duration.Round(time.Millisecond))

	if last := h.Last(); last != nil {
		if last.HasTrainCost {
			fmt.Fprintf(tw, "Final train cost\t%.6f\n", last.TrainCost)
		}
		if last.HasTrainScore {
			fmt.Fprintf(tw, "Final train score\t%.6f\n", last.TrainScore)
		}
		if last.HasValCost {
			fmt.Fprintf(tw, "Final val cost\t%.6f\n", last.ValCost)
		}
		if last.HasValScore {
			fmt.Fprintf(tw, "Final val score\t%.6f\n", last.ValScore)
		}
		if last.HasLearningRate {
			fmt.Fprintf(tw, "Final learning rate\t%.6f\n", last.LearningRate)
		}
	}

	return tw.Flush()
}
