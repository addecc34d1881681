package cloud

import (
	"math"
	"math/rand"
	"sync"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager"

	"capacityengine/forecaster"
	"capacityengine/models"
)

// SimulatedMetricsProvider synthesizes a plausible time-of-day load pattern
// with seeded jitter. It exists so the daemon runs without real telemetry;
// the seed and clock are injected so tests stay deterministic.
type SimulatedMetricsProvider struct {
	logger lager.Logger
	clock  clock.Clock
	lock   sync.Mutex
	rand   *rand.Rand
}

func NewSimulatedMetricsProvider(logger lager.Logger, clock clock.Clock, source rand.Source) *SimulatedMetricsProvider {
	return &SimulatedMetricsProvider{
		logger: logger.Session("simulated-metrics-provider"),
		clock:  clock,
		rand:   rand.New(source),
	}
}

func (p *SimulatedMetricsProvider) Sample(region string, instanceCount int) (*models.MetricSample, error) {
	p.lock.Lock()
	jitter := p.rand.NormFloat64()
	requestJitter := p.rand.NormFloat64()
	p.lock.Unlock()

	now := p.clock.Now()
	base := forecaster.SeasonalFactor(now)

	cpuPct := clampPct(base*55 + jitter*8)
	memPct := clampPct(base*45 + jitter*5)
	requestRate := math.Max(0, base*900*float64(instanceCount)+requestJitter*120)
	responseTimeMs := 60 + cpuPct*1.8 + math.Abs(jitter)*15
	queueDepth := math.Max(0, (cpuPct-70)*1.5)
	errorRatePct := math.Max(0, (cpuPct-90)*0.4)

	return &models.MetricSample{
		Timestamp:      now.UnixNano(),
		Region:         region,
		InstanceCount:  instanceCount,
		CPUPct:         cpuPct,
		MemPct:         memPct,
		RequestRate:    requestRate,
		ResponseTimeMs: responseTimeMs,
		QueueDepth:     queueDepth,
		ErrorRatePct:   errorRatePct,
	}, nil
}

func clampPct(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 100 {
		return 100
	}
	return v
}
