package models

import (
	"fmt"
	"time"
)

const (
	StrategyReactive   = "reactive"
	StrategyPredictive = "predictive"
	StrategyHybrid     = "hybrid"

	ComparisonGreaterOrEqual = ">="
	ComparisonLessOrEqual    = "<="
)

// TargetMetrics holds the per-instance operating point the evaluator steers
// each region towards.
type TargetMetrics struct {
	CPUPct         float64 `yaml:"cpu_pct" json:"cpu_pct"`
	MemPct         float64 `yaml:"mem_pct" json:"mem_pct"`
	ResponseTimeMs float64 `yaml:"response_time_ms" json:"response_time_ms"`
	QueueDepth     float64 `yaml:"queue_depth" json:"queue_depth"`
}

// ScalingPolicy describes one direction of reactive scaling.
type ScalingPolicy struct {
	ThresholdPct        float64 `yaml:"threshold_pct" json:"threshold_pct"`
	Increment           int     `yaml:"increment" json:"increment"`
	EvaluationPeriods   int     `yaml:"evaluation_periods" json:"evaluation_periods"`
	ComparisonDirection string  `yaml:"comparison_direction" json:"comparison_direction"`
}

type CooldownConfig struct {
	ScaleUpSeconds   int `yaml:"scale_up_secs" json:"scale_up_secs"`
	ScaleDownSeconds int `yaml:"scale_down_secs" json:"scale_down_secs"`
}

func (c CooldownConfig) ScaleUp(defaultSecs int) time.Duration {
	if c.ScaleUpSeconds <= 0 {
		return time.Duration(defaultSecs) * time.Second
	}
	return time.Duration(c.ScaleUpSeconds) * time.Second
}

func (c CooldownConfig) ScaleDown(defaultSecs int) time.Duration {
	if c.ScaleDownSeconds <= 0 {
		return time.Duration(defaultSecs) * time.Second
	}
	return time.Duration(c.ScaleDownSeconds) * time.Second
}

// AutoScalingConfig is the whole engine configuration. It is replaced
// atomically on update; the evaluation loop only ever sees a complete copy.
type AutoScalingConfig struct {
	Enabled         bool           `yaml:"enabled" json:"enabled"`
	Strategy        string         `yaml:"strategy" json:"strategy"`
	MinInstances    int            `yaml:"min_instances" json:"min_instances"`
	MaxInstances    int            `yaml:"max_instances" json:"max_instances"`
	TargetMetrics   TargetMetrics  `yaml:"target_metrics" json:"target_metrics"`
	ScaleUpPolicy   ScalingPolicy  `yaml:"scale_up_policy" json:"scale_up_policy"`
	ScaleDownPolicy ScalingPolicy  `yaml:"scale_down_policy" json:"scale_down_policy"`
	Cooldowns       CooldownConfig `yaml:"cooldowns" json:"cooldowns"`

	// Sizing and forecast tunables shared by all three strategies.
	TargetUtilizationPct    float64 `yaml:"target_utilization_pct" json:"target_utilization_pct"`
	SafetyMargin            float64 `yaml:"safety_margin" json:"safety_margin"`
	ConfidenceThreshold     float64 `yaml:"confidence_threshold" json:"confidence_threshold"`
	PredictiveDeviationPct  float64 `yaml:"predictive_deviation_pct" json:"predictive_deviation_pct"`
	ScaleDownTargetFraction float64 `yaml:"scale_down_target_fraction" json:"scale_down_target_fraction"`

	Regions []RegionConfig `yaml:"regions" json:"regions"`
}

func (c *AutoScalingConfig) Validate() error {
	switch c.Strategy {
	case StrategyReactive, StrategyPredictive, StrategyHybrid:
	default:
		return fmt.Errorf("Configuration error: unknown strategy %q", c.Strategy)
	}
	if c.MinInstances < 0 {
		return fmt.Errorf("Configuration error: min_instances is negative")
	}
	if c.MaxInstances < c.MinInstances {
		return fmt.Errorf("Configuration error: max_instances is smaller than min_instances")
	}
	if c.ScaleUpPolicy.Increment <= 0 {
		return fmt.Errorf("Configuration error: scale_up_policy increment is not positive")
	}
	if c.ScaleDownPolicy.Increment <= 0 {
		return fmt.Errorf("Configuration error: scale_down_policy increment is not positive")
	}
	if c.TargetUtilizationPct <= 0 || c.TargetUtilizationPct > 100 {
		return fmt.Errorf("Configuration error: target_utilization_pct should be in (0, 100]")
	}
	if c.SafetyMargin < 1.0 {
		return fmt.Errorf("Configuration error: safety_margin should be at least 1.0")
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("Configuration error: confidence_threshold should be in [0, 1]")
	}
	if c.ScaleDownTargetFraction <= 0 || c.ScaleDownTargetFraction >= 1 {
		return fmt.Errorf("Configuration error: scale_down_target_fraction should be in (0, 1)")
	}
	seen := make(map[string]bool)
	for i := range c.Regions {
		region := &c.Regions[i]
		if err := region.Validate(); err != nil {
			return err
		}
		if seen[region.Region] {
			return fmt.Errorf("Configuration error: duplicate region %s", region.Region)
		}
		seen[region.Region] = true
	}
	return nil
}

// DeepCopy returns a copy sharing no mutable state with the receiver.
func (c *AutoScalingConfig) DeepCopy() *AutoScalingConfig {
	copied := *c
	copied.Regions = make([]RegionConfig, len(c.Regions))
	copy(copied.Regions, c.Regions)
	return &copied
}
