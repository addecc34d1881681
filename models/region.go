package models

import "fmt"

// RegionConfig is the static-ish per-region scaling configuration. It is
// immutable once handed to the engine; changes arrive only through a full
// config update.
type RegionConfig struct {
	Region          string  `yaml:"region" json:"region"`
	Enabled         bool    `yaml:"enabled" json:"enabled"`
	MinInstances    int     `yaml:"min_instances" json:"min_instances"`
	MaxInstances    int     `yaml:"max_instances" json:"max_instances"`
	Priority        int     `yaml:"priority" json:"priority"`
	CostMultiplier  float64 `yaml:"cost_multiplier" json:"cost_multiplier"`
	LatencyTargetMs float64 `yaml:"latency_target_ms" json:"latency_target_ms"`
}

func (r *RegionConfig) Validate() error {
	if r.Region == "" {
		return fmt.Errorf("Configuration error: region name is empty")
	}
	if r.MinInstances < 0 {
		return fmt.Errorf("Configuration error: region %s min_instances is negative", r.Region)
	}
	if r.MaxInstances < r.MinInstances {
		return fmt.Errorf("Configuration error: region %s max_instances is smaller than min_instances", r.Region)
	}
	if r.CostMultiplier <= 0 {
		return fmt.Errorf("Configuration error: region %s cost_multiplier is not positive", r.Region)
	}
	return nil
}

// Clamp bounds an instance count to the region's [min, max] range.
func (r *RegionConfig) Clamp(instances int) int {
	if instances < r.MinInstances {
		return r.MinInstances
	}
	if instances > r.MaxInstances {
		return r.MaxInstances
	}
	return instances
}
