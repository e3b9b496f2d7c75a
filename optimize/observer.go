package optimize

// Params carries the read-only estimator configuration broadcast to every
// observer before training starts.
type Params struct {
	ModelName    string
	Epochs       int
	BatchSize    int
	NSamples     int
	NFeatures    int
	LearningRate float64
	Verbose      bool
	Checkpoint   int
}

// Model is the narrow estimator surface observers may touch. Observers never
// own the model; they read its scorer and signal convergence back to it.
type Model interface {
	// Scorer returns the model's scorer, or nil when none is configured.
	Scorer() Scorer

	// Converge tells the model to stop training at the next epoch boundary.
	Converge()
}

// Observer reacts to the six training lifecycle events. Implementations
// embed Base and override what they need. An observer's state lives for one
// training run and is re-initialized in OnTrainBegin.
type Observer interface {
	Name() string
	SetParams(params Params)
	SetModel(model Model)
	OnTrainBegin(log *Log) error
	OnTrainEnd(log *Log) error
	OnEpochBegin(epoch int, log *Log) error
	OnEpochEnd(epoch int, log *Log) error
	OnBatchBegin(batch int, log *Log) error
	OnBatchEnd(batch int, log *Log) error
}

// Base is a no-op Observer for embedding.
type Base struct {
	params Params
	model  Model
}

// Name identifies the observer in logs and errors.
func (b *Base) Name() string { return "observer" }

// SetParams stores the estimator configuration.
func (b *Base) SetParams(params Params) { b.params = params }

// SetModel stores the model reference.
func (b *Base) SetModel(model Model) { b.model = model }

// Params returns the stored estimator configuration.
func (b *Base) Params() Params { return b.params }

// Model returns the stored model reference.
func (b *Base) Model() Model { return b.model }

func (b *Base) OnTrainBegin(*Log) error        { return nil }
func (b *Base) OnTrainEnd(*Log) error          { return nil }
func (b *Base) OnEpochBegin(int, *Log) error   { return nil }
func (b *Base) OnEpochEnd(int, *Log) error     { return nil }
func (b *Base) OnBatchBegin(int, *Log) error   { return nil }
func (b *Base) OnBatchEnd(int, *Log) error     { return nil }

// ObserverList broadcasts lifecycle events to its observers in registration
// order. The first error stops the broadcast and propagates to the caller.
type ObserverList struct {
	observers []Observer
}

// NewObserverList creates an empty ObserverList.
func NewObserverList() *ObserverList {
	return &ObserverList{}
}

// Append registers an observer. Registration order is notification order.
func (ol *ObserverList) Append(o Observer) {
	ol.observers = append(ol.observers, o)
}

// Len returns the number of registered observers.
func (ol *ObserverList) Len() int { return len(ol.observers) }

// SetParams broadcasts the estimator configuration to all observers.
func (ol *ObserverList) SetParams(params Params) {
	for _, o := range ol.observers {
		o.SetParams(params)
	}
}

// SetModel broadcasts the model reference to all observers.
func (ol *ObserverList) SetModel(model Model) {
	for _, o := range ol.observers {
		o.SetModel(model)
	}
}

// OnTrainBegin notifies all observers that training is starting.
func (ol *ObserverList) OnTrainBegin(log *Log) error {
	for _, o := range ol.observers {
		if err := o.OnTrainBegin(log); err != nil {
			return err
		}
	}
	return nil
}

// OnTrainEnd notifies all observers that training has finished.
func (ol *ObserverList) OnTrainEnd(log *Log) error {
	for _, o := range ol.observers {
		if err := o.OnTrainEnd(log); err != nil {
			return err
		}
	}
	return nil
}

// OnEpochBegin notifies all observers that an epoch is starting.
func (ol *ObserverList) OnEpochBegin(epoch int, log *Log) error {
	for _, o := range ol.observers {
		if err := o.OnEpochBegin(epoch, log); err != nil {
			return err
		}
	}
	return nil
}

// OnEpochEnd notifies all observers that an epoch has finished.
func (ol *ObserverList) OnEpochEnd(epoch int, log *Log) error {
	for _, o := range ol.observers {
		if err := o.OnEpochEnd(epoch, log); err != nil {
			return err
		}
	}
	return nil
}

// OnBatchBegin notifies all observers that a batch is starting.
func (ol *ObserverList) OnBatchBegin(batch int, log *Log) error {
	for _, o := range ol.observers {
		if err := o.OnBatchBegin(batch, log); err != nil {
			return err
		}
	}
	return nil
}

// OnBatchEnd notifies all observers that a batch has finished.
func (ol *ObserverList) OnBatchEnd(batch int, log *Log) error {
	for _, o := range ol.observers {
		if err := o.OnBatchEnd(batch, log); err != nil {
			return err
		}
	}
	return nil
}
