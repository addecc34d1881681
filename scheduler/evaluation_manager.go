package scheduler

import (
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager"

	"capacityengine/collection"
	"capacityengine/engine"
	"capacityengine/evaluator"
	"capacityengine/forecaster"
	"capacityengine/models"
)

// EvaluationManager is the medium-cadence task: it evaluates every enabled
// region against the active strategy and hands actionable decisions to the
// engine. Regions are evaluated concurrently; the engine serializes
// execution within each region. The enabled set and the config are re-read
// on every tick so a disabling update takes effect before the next tick.
type EvaluationManager struct {
	logger    lager.Logger
	clock     clock.Clock
	interval  time.Duration
	window    time.Duration
	store     *collection.MetricsStore
	ensemble  *forecaster.Ensemble
	evaluator *evaluator.Evaluator
	engine    engine.ScalingEngine
	doneChan  chan bool
}

func NewEvaluationManager(logger lager.Logger, clock clock.Clock, interval, window time.Duration, store *collection.MetricsStore, ensemble *forecaster.Ensemble, policyEvaluator *evaluator.Evaluator, scalingEngine engine.ScalingEngine) *EvaluationManager {
	return &EvaluationManager{
		logger:    logger.Session("evaluation-manager"),
		clock:     clock,
		interval:  interval,
		window:    window,
		store:     store,
		ensemble:  ensemble,
		evaluator: policyEvaluator,
		engine:    scalingEngine,
		doneChan:  make(chan bool),
	}
}

func (m *EvaluationManager) Start() {
	go m.startEvaluate()
	m.logger.Info("started", lager.Data{"interval": m.interval})
}

func (m *EvaluationManager) Stop() {
	close(m.doneChan)
	m.logger.Info("stopped")
}

func (m *EvaluationManager) startEvaluate() {
	tick := m.clock.NewTicker(m.interval)
	defer tick.Stop()

	for {
		m.evaluateAll()
		select {
		case <-m.doneChan:
			return
		case <-tick.C():
		}
	}
}

func (m *EvaluationManager) evaluateAll() {
	conf := m.engine.Config()
	if !conf.Enabled {
		return
	}

	now := m.clock.Now()
	var wg sync.WaitGroup
	for _, regionCfg := range m.engine.EnabledRegions() {
		wg.Add(1)
		go func(regionCfg models.RegionConfig) {
			defer wg.Done()
			m.evaluateRegion(regionCfg, conf, now)
		}(regionCfg)
	}
	wg.Wait()
}

func (m *EvaluationManager) evaluateRegion(regionCfg models.RegionConfig, conf *models.AutoScalingConfig, now time.Time) {
	current, ok := m.engine.CurrentInstances(regionCfg.Region)
	if !ok {
		current = regionCfg.MinInstances
	}

	samples := m.store.Recent(regionCfg.Region, m.window)
	windows := m.ensemble.HorizonWindows(regionCfg.Region, now)

	decision := m.evaluator.Evaluate(regionCfg, conf, samples, windows, current)
	if decision.Action == models.ScalingActionNone {
		m.logger.Debug("no-action", lager.Data{"region": regionCfg.Region, "reason": decision.Reason})
		return
	}

	if _, err := m.engine.Execute(decision); err != nil {
		m.logger.Error("failed-to-execute-decision", err, lager.Data{"decision": decision})
	}
}
