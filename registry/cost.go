package registry

import (
	"capacityengine/models"
)

// CostModel prices a region's running instances. Estimates are planning
// figures, not an invoice: hourly base price scaled by the region's cost
// multiplier.
type CostModel struct {
	baseHourlyCost float64
}

func NewCostModel(baseHourlyCost float64) *CostModel {
	return &CostModel{baseHourlyCost: baseHourlyCost}
}

func (c *CostModel) Estimate(region models.RegionConfig, instances int) float64 {
	return float64(instances) * c.baseHourlyCost * region.CostMultiplier
}

func (c *CostModel) TotalCost(regions []models.RegionConfig, counts map[string]int) float64 {
	var total float64
	for _, region := range regions {
		total += c.Estimate(region, counts[region.Region])
	}
	return total
}

// Efficiency is utilization delivered per unit of hourly cost. A heuristic
// value metric for dashboards, not a financial guarantee.
func (c *CostModel) Efficiency(utilization, cost float64) float64 {
	if cost <= 0 {
		return 0
	}
	return utilization / cost
}
