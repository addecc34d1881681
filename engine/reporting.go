package engine

import (
	"encoding/json"
	"time"

	"code.cloudfoundry.org/lager"
	cache "github.com/patrickmn/go-cache"

	"capacityengine/models"
)

const metricsCacheKey = "scaling_metrics"

// Config returns a snapshot of the active configuration. Callers may not
// observe a half-applied update.
func (s *scalingEngine) Config() *models.AutoScalingConfig {
	s.configLock.RLock()
	defer s.configLock.RUnlock()
	return s.conf.DeepCopy()
}

// UpdateConfig merges a partial JSON update into the active configuration
// and swaps it atomically. Invalid updates are rejected synchronously and
// leave the previous configuration in effect.
func (s *scalingEngine) UpdateConfig(update []byte) error {
	if err := s.validator.Validate(update); err != nil {
		s.logger.Error("rejected-config-update", err)
		return err
	}

	s.configLock.Lock()
	defer s.configLock.Unlock()

	merged := s.conf.DeepCopy()
	if err := json.Unmarshal(update, merged); err != nil {
		s.logger.Error("failed-to-merge-config-update", err)
		return err
	}
	if err := merged.Validate(); err != nil {
		s.logger.Error("rejected-config-update", err)
		return err
	}

	s.conf = merged
	s.registry.Replace(merged.Regions)
	s.metricsCache.Delete(metricsCacheKey)
	s.logger.Info("config-updated", lager.Data{"strategy": merged.Strategy, "regions": len(merged.Regions)})
	return nil
}

func (s *scalingEngine) EnabledRegions() []models.RegionConfig {
	return s.registry.Enabled()
}

func (s *scalingEngine) CurrentInstances(region string) (int, bool) {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()
	state := s.state[region]
	if state == nil {
		return 0, false
	}
	return state.instances, true
}

// InstanceCounts returns a snapshot of every region's authoritative count.
func (s *scalingEngine) InstanceCounts() map[string]int {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()
	counts := make(map[string]int, len(s.state))
	for region, state := range s.state {
		counts[region] = state.instances
	}
	return counts
}

func (s *scalingEngine) EstimateCost(region string, instances int) float64 {
	regionCfg, ok := s.registry.Get(region)
	if !ok {
		return 0
	}
	return s.costModel.Estimate(regionCfg, instances)
}

// ScalingMetrics aggregates the reporting snapshot. The result is memoized
// briefly; any scaling event or config update invalidates it.
func (s *scalingEngine) ScalingMetrics() *models.ScalingMetrics {
	if cached, found := s.metricsCache.Get(metricsCacheKey); found {
		return cached.(*models.ScalingMetrics)
	}

	regions := s.registry.All()
	counts := s.InstanceCounts()

	metrics := &models.ScalingMetrics{
		CurrentInstances: make(map[string]int, len(regions)),
	}
	var utilizationSum float64
	var utilizationRegions int
	for _, regionCfg := range regions {
		count := counts[regionCfg.Region]
		metrics.CurrentInstances[regionCfg.Region] = count
		metrics.TotalInstances += count

		samples := s.store.Recent(regionCfg.Region, s.reportWindow)
		if len(samples) > 0 {
			var cpuSum float64
			for _, sample := range samples {
				cpuSum += sample.CPUPct
			}
			utilizationSum += cpuSum / float64(len(samples))
			utilizationRegions++
		}
	}
	metrics.TotalCost = s.costModel.TotalCost(regions, counts)
	if utilizationRegions > 0 {
		metrics.AverageUtilization = utilizationSum / float64(utilizationRegions)
	}
	metrics.ScalingEventCount = len(s.ScalingEvents("", s.reportWindow))
	metrics.Efficiency = s.costModel.Efficiency(metrics.AverageUtilization, metrics.TotalCost)

	s.metricsCache.Set(metricsCacheKey, metrics, cache.DefaultExpiration)
	return metrics
}

// ScalingEvents returns the events recorded inside the window, newest
// first. An empty region selects all regions.
func (s *scalingEngine) ScalingEvents(region string, window time.Duration) []*models.ScalingEvent {
	now := s.clock.Now().UnixNano()
	data := s.events.Range(now-window.Nanoseconds(), now+1)

	events := make([]*models.ScalingEvent, 0, len(data))
	for i := len(data) - 1; i >= 0; i-- {
		event := data[i].(*models.ScalingEvent)
		if region != "" && event.Region != region {
			continue
		}
		events = append(events, event)
	}
	return events
}
