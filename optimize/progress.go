package optimize

import (
	"github.com/ezoic/descent/pkg/log"
)

// Progress logs an epoch summary through the library logger every checkpoint
// epochs when the estimator is verbose. Epoch 1 and the final epoch are
// always reported so short runs still produce output.
type Progress struct {
	Base

	logger log.Logger

	// Last epoch log seen and last epoch actually reported, so the final
	// epoch of an early-stopped run is still logged at train end.
	lastLog     *Log
	loggedEpoch int
}

// NewProgress creates a Progress observer using the default library logger.
func NewProgress() *Progress {
	return &Progress{}
}

// NewProgressWithLogger creates a Progress observer with an explicit logger,
// mainly for tests.
func NewProgressWithLogger(logger log.Logger) *Progress {
	return &Progress{logger: logger}
}

// Name identifies the observer.
func (p *Progress) Name() string { return "progress" }

// OnTrainBegin resolves the logger and announces the run.
func (p *Progress) OnTrainBegin(*Log) error {
	if p.logger == nil {
		p.logger = log.GetLoggerWithName(p.Params().ModelName)
	}
	p.lastLog = nil
	p.loggedEpoch = 0
	if !p.Params().Verbose {
		return nil
	}
	p.logger.Info("training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, p.Params().NSamples,
		log.FeaturesKey, p.Params().NFeatures,
		log.BatchSizeKey, p.Params().BatchSize,
		log.LearningRateKey, p.Params().LearningRate,
	)
	return nil
}

// OnEpochEnd logs the epoch statistics at checkpoint intervals.
func (p *Progress) OnEpochEnd(epoch int, l *Log) error {
	if !p.Params().Verbose {
		return nil
	}

	p.lastLog = l

	checkpoint := p.Params().Checkpoint
	if checkpoint <= 0 {
		checkpoint = 1
	}
	if epoch != 1 && epoch%checkpoint != 0 {
		return nil
	}

	p.logEpoch(epoch, l)
	return nil
}

func (p *Progress) logEpoch(epoch int, l *Log) {
	fields := []any{log.EpochKey, epoch}
	if l.HasTrainCost {
		fields = append(fields, log.TrainCostKey, l.TrainCost)
	}
	if l.HasTrainScore {
		fields = append(fields, log.TrainScoreKey, l.TrainScore)
	}
	if l.HasValCost {
		fields = append(fields, log.ValCostKey, l.ValCost)
	}
	if l.HasValScore {
		fields = append(fields, log.ValScoreKey, l.ValScore)
	}
	if l.HasLearningRate {
		fields = append(fields, log.LearningRateKey, l.LearningRate)
	}

	p.logger.Info("epoch complete", fields...)
	p.loggedEpoch = epoch
}

// OnTrainEnd reports the final epoch when it missed the checkpoint grid,
// then announces completion.
func (p *Progress) OnTrainEnd(*Log) error {
	if !p.Params().Verbose {
		return nil
	}
	if p.lastLog != nil && p.lastLog.Epoch != p.loggedEpoch {
		p.logEpoch(p.lastLog.Epoch, p.lastLog)
	}
	p.logger.Info("training finished",
		log.OperationKey, log.OperationFit,
	)
	return nil
}
