package scheduler

import (
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager"

	"capacityengine/collection"
	"capacityengine/engine"
	"capacityengine/forecaster"
)

// ModelTrainer is the slow-cadence task: it rebuilds every enabled region's
// forecast sets from stored history. Keeping retraining off the evaluation
// cadence keeps the expensive fitting work out of the fast path.
type ModelTrainer struct {
	logger         lager.Logger
	clock          clock.Clock
	interval       time.Duration
	trainingWindow time.Duration
	store          *collection.MetricsStore
	ensemble       *forecaster.Ensemble
	engine         engine.ScalingEngine
	doneChan       chan bool
}

func NewModelTrainer(logger lager.Logger, clock clock.Clock, interval, trainingWindow time.Duration, store *collection.MetricsStore, ensemble *forecaster.Ensemble, scalingEngine engine.ScalingEngine) *ModelTrainer {
	return &ModelTrainer{
		logger:         logger.Session("model-trainer"),
		clock:          clock,
		interval:       interval,
		trainingWindow: trainingWindow,
		store:          store,
		ensemble:       ensemble,
		engine:         scalingEngine,
		doneChan:       make(chan bool),
	}
}

func (t *ModelTrainer) Start() {
	go t.startRetrain()
	t.logger.Info("started", lager.Data{"interval": t.interval})
}

func (t *ModelTrainer) Stop() {
	close(t.doneChan)
	t.logger.Info("stopped")
}

func (t *ModelTrainer) startRetrain() {
	tick := t.clock.NewTicker(t.interval)
	defer tick.Stop()

	for {
		t.retrainAll()
		select {
		case <-t.doneChan:
			return
		case <-tick.C():
		}
	}
}

func (t *ModelTrainer) retrainAll() {
	conf := t.engine.Config()
	now := t.clock.Now()
	for _, regionCfg := range t.engine.EnabledRegions() {
		history := t.store.Recent(regionCfg.Region, t.trainingWindow)
		t.ensemble.Retrain(regionCfg, conf, history, now)
	}
}
