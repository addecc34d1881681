package engine

import (
	"github.com/prometheus/client_golang/prometheus"

	"capacityengine/models"
)

// engineCollectors are the engine's Prometheus instruments. They are
// registered by the daemon via healthendpoint.RegisterCollectors.
type engineCollectors struct {
	regionInstances *prometheus.GaugeVec
	totalCost       prometheus.Gauge
	scalingEvents   *prometheus.CounterVec
}

func newEngineCollectors() *engineCollectors {
	return &engineCollectors{
		regionInstances: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "capacityengine",
				Subsystem: "engine",
				Name:      "region_instances",
				Help:      "Current instance count per region",
			},
			[]string{"region"},
		),
		totalCost: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "capacityengine",
				Subsystem: "engine",
				Name:      "total_hourly_cost",
				Help:      "Estimated hourly cost across all regions",
			},
		),
		scalingEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "capacityengine",
				Subsystem: "engine",
				Name:      "scaling_events_total",
				Help:      "Scaling events recorded, by action and outcome",
			},
			[]string{"action", "outcome"},
		),
	}
}

func (c *engineCollectors) setRegionInstances(region string, instances int) {
	c.regionInstances.WithLabelValues(region).Set(float64(instances))
}

func (c *engineCollectors) setTotalCost(cost float64) {
	c.totalCost.Set(cost)
}

func (c *engineCollectors) incEvents(event *models.ScalingEvent) {
	outcome := "success"
	if !event.Success {
		outcome = "failure"
	}
	c.scalingEvents.WithLabelValues(event.Action, outcome).Inc()
}

// Collectors exposes the engine's instruments for registration.
func (s *scalingEngine) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		s.collectors.regionInstances,
		s.collectors.totalCost,
		s.collectors.scalingEvents,
	}
}
