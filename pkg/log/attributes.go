// Package log defines standard attribute keys for training operations.
//
// Using these keys consistently enables log filtering across the whole
// library. The keys follow a hierarchical naming convention (e.g.
// "model.name", "data.samples").
package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type.
	// Examples: "GDRegressor", "GDClassifier"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score", "transform"
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	// Examples: "linear_model", "optimize", "preprocessing"
	ComponentKey = "ml.component"

	// PhaseKey indicates the lifecycle phase.
	// Examples: "training", "inference", "validation"
	PhaseKey = "ml.phase"
)

// Standard operation values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationScore     = "score"
	OperationTransform = "transform"
)

// Standard phase values.
const (
	PhaseTraining   = "training"
	PhaseInference  = "inference"
	PhaseValidation = "validation"
)

// Data shape and characteristics.
const (
	// SamplesKey is the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// ClassesKey is the number of target classes for classification.
	ClassesKey = "data.classes"

	// BatchSizeKey is the size of processing batches.
	BatchSizeKey = "data.batch_size"
)

// Training loop progress.
const (
	// EpochKey is the current epoch number (1-based).
	EpochKey = "train.epoch"

	// BatchKey is the current batch number within the run.
	BatchKey = "train.batch"

	// TrainCostKey is the objective value on the training set.
	TrainCostKey = "train.cost"

	// ValCostKey is the objective value on the validation set.
	ValCostKey = "train.val_cost"

	// TrainScoreKey is the scorer value on the training set.
	TrainScoreKey = "train.score"

	// ValScoreKey is the scorer value on the validation set.
	ValScoreKey = "train.val_score"

	// LearningRateKey is the effective learning rate for the epoch.
	LearningRateKey = "train.learning_rate"
)

// Performance metrics.
const (
	// DurationMsKey records execution time in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// PredsKey records the number of predictions produced.
	PredsKey = "perf.predictions"
)

// Error context.
const (
	// ErrorTypeKey carries the structured error type name.
	ErrorTypeKey = "error.type"
)
