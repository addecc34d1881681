package forecaster

import (
	"math"
	"sort"
	"sync"
	"time"

	"code.cloudfoundry.org/lager"

	"capacityengine/models"
)

// Ensemble owns one prediction set per (region, model) pair. Retraining
// recomputes a region's sets wholesale on the slow cadence; readers get
// consistent snapshots and are never blocked by a retrain in progress.
type Ensemble struct {
	logger      lager.Logger
	step        time.Duration
	windowCount int
	models      []Model

	lock        sync.RWMutex
	predictions map[string]map[string]*models.PredictiveModel
}

func NewEnsemble(logger lager.Logger, step time.Duration, windowCount int, forecastModels []Model) *Ensemble {
	return &Ensemble{
		logger:      logger.Session("ensemble"),
		step:        step,
		windowCount: windowCount,
		models:      forecastModels,
		predictions: make(map[string]map[string]*models.PredictiveModel),
	}
}

// Retrain rebuilds the region's prediction sets from its sample history.
// Models with insufficient history contribute nothing; a region with no
// eligible model ends up with no predictions at all, which the predictive
// strategy treats as "no prediction available" rather than an error.
func (e *Ensemble) Retrain(regionCfg models.RegionConfig, cfg *models.AutoScalingConfig, history []*models.MetricSample, now time.Time) {
	trained := make(map[string]*models.PredictiveModel)

	for _, model := range e.models {
		if len(history) < model.MinSamples() {
			e.logger.Debug("insufficient-samples", lager.Data{
				"region": regionCfg.Region, "model": model.Name(),
				"samples": len(history), "required": model.MinSamples(),
			})
			continue
		}

		predictive := &models.PredictiveModel{
			Name:          model.Name(),
			Algorithm:     model.Algorithm(),
			FeatureList:   []string{"cpu_pct", "instance_count"},
			LastTrainedAt: now.UnixNano(),
		}

		var confidenceSum float64
		for i := 1; i <= e.windowCount; i++ {
			window := model.Forecast(history, now.Add(time.Duration(i)*e.step))
			if window == nil {
				continue
			}
			window.RecommendedInstances = recommendedInstances(window.PredictedLoad, cfg, regionCfg)
			predictive.Predictions = append(predictive.Predictions, window)
			confidenceSum += window.Confidence
		}
		if len(predictive.Predictions) == 0 {
			continue
		}
		predictive.AccuracyEstimate = confidenceSum / float64(len(predictive.Predictions))
		trained[model.Name()] = predictive
	}

	e.lock.Lock()
	if len(trained) == 0 {
		delete(e.predictions, regionCfg.Region)
	} else {
		e.predictions[regionCfg.Region] = trained
	}
	e.lock.Unlock()

	e.logger.Debug("retrained", lager.Data{"region": regionCfg.Region, "models": len(trained)})
}

// HorizonWindows returns the region's prediction windows that still lie in
// the future, across all models, ordered by timestamp. Empty when the
// region has no predictions.
func (e *Ensemble) HorizonWindows(region string, now time.Time) []*models.PredictionWindow {
	e.lock.RLock()
	defer e.lock.RUnlock()

	var windows []*models.PredictionWindow
	for _, predictive := range e.predictions[region] {
		for _, window := range predictive.Predictions {
			if window.Timestamp > now.UnixNano() {
				windows = append(windows, window)
			}
		}
	}
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Timestamp < windows[j].Timestamp
	})
	return windows
}

// Models returns the region's trained models for reporting, ordered by name.
func (e *Ensemble) Models(region string) []*models.PredictiveModel {
	e.lock.RLock()
	defer e.lock.RUnlock()

	trained := make([]*models.PredictiveModel, 0, len(e.predictions[region]))
	for _, predictive := range e.predictions[region] {
		trained = append(trained, predictive)
	}
	sort.Slice(trained, func(i, j int) bool {
		return trained[i].Name < trained[j].Name
	})
	return trained
}

// recommendedInstances sizes a region for the predicted load: load divided
// by the per-instance target utilization, padded by the safety margin and
// clamped to the region bounds.
func recommendedInstances(load float64, cfg *models.AutoScalingConfig, regionCfg models.RegionConfig) int {
	target := cfg.TargetUtilizationPct / 100
	margin := cfg.SafetyMargin
	if margin < 1 {
		margin = 1
	}
	recommended := int(math.Ceil(load / target * margin))
	return regionCfg.Clamp(recommended)
}
