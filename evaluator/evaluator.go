package evaluator

import (
	"fmt"

	"code.cloudfoundry.org/lager"

	"capacityengine/models"
)

// Evaluator turns a region's recent samples and forecast horizon into a
// scaling decision under the configured strategy. It holds no state of its
// own; every call works on the snapshots it is given.
type Evaluator struct {
	logger lager.Logger
}

func NewEvaluator(logger lager.Logger) *Evaluator {
	return &Evaluator{
		logger: logger.Session("evaluator"),
	}
}

func (e *Evaluator) Evaluate(regionCfg models.RegionConfig, cfg *models.AutoScalingConfig, samples []*models.MetricSample, windows []*models.PredictionWindow, current int) *models.ScalingDecision {
	switch cfg.Strategy {
	case models.StrategyReactive:
		return e.evaluateReactive(regionCfg, cfg, samples, current)
	case models.StrategyPredictive:
		return e.evaluatePredictive(regionCfg, cfg, windows, current)
	case models.StrategyHybrid:
		return e.evaluateHybrid(regionCfg, cfg, samples, windows, current)
	default:
		e.logger.Error("unknown-strategy", nil, lager.Data{"strategy": cfg.Strategy})
		return noAction(regionCfg.Region, cfg.Strategy, "unknown strategy")
	}
}

type windowAverages struct {
	cpuPct         float64
	memPct         float64
	responseTimeMs float64
	queueDepth     float64
}

func averageSamples(samples []*models.MetricSample) windowAverages {
	var avg windowAverages
	n := float64(len(samples))
	for _, sample := range samples {
		avg.cpuPct += sample.CPUPct / n
		avg.memPct += sample.MemPct / n
		avg.responseTimeMs += sample.ResponseTimeMs / n
		avg.queueDepth += sample.QueueDepth / n
	}
	return avg
}

// evaluateReactive compares windowed averages against the scale-up and
// scale-down policies. Scaling up is eager: any one hot metric suffices.
// Scaling down is conservative: every metric must sit below its share of
// target simultaneously. A window sitting exactly at target takes no
// action in either direction.
func (e *Evaluator) evaluateReactive(regionCfg models.RegionConfig, cfg *models.AutoScalingConfig, samples []*models.MetricSample, current int) *models.ScalingDecision {
	if len(samples) < cfg.ScaleUpPolicy.EvaluationPeriods {
		return noAction(regionCfg.Region, models.ScalingTriggerReactive, "insufficient samples")
	}

	avg := averageSamples(samples)
	target := cfg.TargetMetrics
	upThreshold := cfg.ScaleUpPolicy.ThresholdPct

	if avg.cpuPct >= upThreshold ||
		avg.memPct >= upThreshold ||
		(target.ResponseTimeMs > 0 && avg.responseTimeMs > target.ResponseTimeMs) ||
		(target.QueueDepth > 0 && avg.queueDepth > target.QueueDepth) {
		return e.scaleTowards(regionCfg, models.ScalingTriggerReactive, current, current+cfg.ScaleUpPolicy.Increment,
			fmt.Sprintf("metrics above scale-up threshold %v", upThreshold))
	}

	downFraction := cfg.ScaleDownTargetFraction
	if len(samples) >= cfg.ScaleDownPolicy.EvaluationPeriods &&
		avg.cpuPct < target.CPUPct*downFraction &&
		avg.memPct < target.MemPct*downFraction &&
		(target.ResponseTimeMs <= 0 || avg.responseTimeMs < target.ResponseTimeMs*downFraction) &&
		(target.QueueDepth <= 0 || avg.queueDepth < target.QueueDepth*downFraction) {
		return e.scaleTowards(regionCfg, models.ScalingTriggerReactive, current, current-cfg.ScaleDownPolicy.Increment,
			fmt.Sprintf("all metrics below %v of target", downFraction))
	}

	return noAction(regionCfg.Region, models.ScalingTriggerReactive, "metrics within target band")
}

// evaluatePredictive acts only on a confident forecast: the mean confidence
// across the horizon must clear the threshold, and the peak recommended
// instance count must deviate from current by more than the configured
// percentage in either direction.
func (e *Evaluator) evaluatePredictive(regionCfg models.RegionConfig, cfg *models.AutoScalingConfig, windows []*models.PredictionWindow, current int) *models.ScalingDecision {
	if len(windows) == 0 {
		return noAction(regionCfg.Region, models.ScalingTriggerPredictive, "no prediction available")
	}

	var confidenceSum float64
	recommended := 0
	for _, window := range windows {
		confidenceSum += window.Confidence
		if window.RecommendedInstances > recommended {
			recommended = window.RecommendedInstances
		}
	}
	confidence := confidenceSum / float64(len(windows))
	if confidence < cfg.ConfidenceThreshold {
		return noAction(regionCfg.Region, models.ScalingTriggerPredictive,
			fmt.Sprintf("low prediction confidence %.2f", confidence))
	}

	deviation := cfg.PredictiveDeviationPct / 100
	if float64(recommended) > float64(current)*(1+deviation) {
		return e.scaleTowards(regionCfg, models.ScalingTriggerPredictive, current, recommended,
			fmt.Sprintf("forecast recommends %d instances", recommended))
	}
	if float64(recommended) < float64(current)*(1-deviation) {
		return e.scaleTowards(regionCfg, models.ScalingTriggerPredictive, current, recommended,
			fmt.Sprintf("forecast recommends %d instances", recommended))
	}
	return noAction(regionCfg.Region, models.ScalingTriggerPredictive, "forecast within deviation band")
}

// evaluateHybrid reconciles the two strategies asymmetrically: scale-up wins
// if either recommends it (taking the larger target), scale-down requires
// both to agree (taking the smaller target). This keeps a single noisy
// reactive dip from shrinking a region while still reacting immediately to
// either scale-up signal.
func (e *Evaluator) evaluateHybrid(regionCfg models.RegionConfig, cfg *models.AutoScalingConfig, samples []*models.MetricSample, windows []*models.PredictionWindow, current int) *models.ScalingDecision {
	reactive := e.evaluateReactive(regionCfg, cfg, samples, current)
	predictive := e.evaluatePredictive(regionCfg, cfg, windows, current)

	if reactive.Action == models.ScalingActionUp || predictive.Action == models.ScalingActionUp {
		chosen := reactive
		if reactive.Action != models.ScalingActionUp ||
			(predictive.Action == models.ScalingActionUp && predictive.TargetInstances > reactive.TargetInstances) {
			chosen = predictive
		}
		return &models.ScalingDecision{
			Region:          regionCfg.Region,
			Action:          models.ScalingActionUp,
			TargetInstances: chosen.TargetInstances,
			Trigger:         models.ScalingTriggerHybrid,
			Reason:          chosen.Reason,
		}
	}

	if reactive.Action == models.ScalingActionDown && predictive.Action == models.ScalingActionDown {
		target := reactive.TargetInstances
		if predictive.TargetInstances < target {
			target = predictive.TargetInstances
		}
		return &models.ScalingDecision{
			Region:          regionCfg.Region,
			Action:          models.ScalingActionDown,
			TargetInstances: target,
			Trigger:         models.ScalingTriggerHybrid,
			Reason:          "reactive and predictive agree on scale-down",
		}
	}

	return noAction(regionCfg.Region, models.ScalingTriggerHybrid, "strategies do not agree on an action")
}

// scaleTowards clamps the desired count to the region bounds and downgrades
// to no_action when clamping lands back on the current count.
func (e *Evaluator) scaleTowards(regionCfg models.RegionConfig, trigger string, current, desired int, reason string) *models.ScalingDecision {
	target := regionCfg.Clamp(desired)
	if target == current {
		if desired > current {
			return noAction(regionCfg.Region, trigger, fmt.Sprintf("limited by max instances %d", regionCfg.MaxInstances))
		}
		return noAction(regionCfg.Region, trigger, fmt.Sprintf("limited by min instances %d", regionCfg.MinInstances))
	}

	action := models.ScalingActionUp
	if target < current {
		action = models.ScalingActionDown
	}
	return &models.ScalingDecision{
		Region:          regionCfg.Region,
		Action:          action,
		TargetInstances: target,
		Trigger:         trigger,
		Reason:          reason,
	}
}

func noAction(region, trigger, reason string) *models.ScalingDecision {
	return &models.ScalingDecision{
		Region:  region,
		Action:  models.ScalingActionNone,
		Trigger: trigger,
		Reason:  reason,
	}
}
