package scheduler

import (
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager"
	backoff "github.com/cenkalti/backoff/v4"

	"capacityengine/cloud"
	"capacityengine/collection"
	"capacityengine/engine"
	"capacityengine/models"
)

// Collector is the fast-cadence task: one telemetry sample per enabled
// region per tick. A flaky provider is retried with exponential backoff,
// bounded so it can never stall the loop past the retry timeout.
type Collector struct {
	logger       lager.Logger
	clock        clock.Clock
	interval     time.Duration
	retryTimeout time.Duration
	provider     cloud.MetricsProvider
	store        *collection.MetricsStore
	engine       engine.ScalingEngine
	doneChan     chan bool
}

func NewCollector(logger lager.Logger, clock clock.Clock, interval, retryTimeout time.Duration, provider cloud.MetricsProvider, store *collection.MetricsStore, scalingEngine engine.ScalingEngine) *Collector {
	return &Collector{
		logger:       logger.Session("collector"),
		clock:        clock,
		interval:     interval,
		retryTimeout: retryTimeout,
		provider:     provider,
		store:        store,
		engine:       scalingEngine,
		doneChan:     make(chan bool),
	}
}

func (c *Collector) Start() {
	go c.startCollect()
	c.logger.Info("started", lager.Data{"interval": c.interval})
}

func (c *Collector) Stop() {
	close(c.doneChan)
	c.logger.Info("stopped")
}

func (c *Collector) startCollect() {
	tick := c.clock.NewTicker(c.interval)
	defer tick.Stop()

	for {
		c.collect()
		select {
		case <-c.doneChan:
			return
		case <-tick.C():
		}
	}
}

func (c *Collector) collect() {
	for _, regionCfg := range c.engine.EnabledRegions() {
		count, ok := c.engine.CurrentInstances(regionCfg.Region)
		if !ok {
			count = regionCfg.MinInstances
		}

		var sample *models.MetricSample
		operation := func() error {
			var err error
			sample, err = c.provider.Sample(regionCfg.Region, count)
			return err
		}
		policy := backoff.NewExponentialBackOff()
		policy.InitialInterval = 100 * time.Millisecond
		policy.MaxElapsedTime = c.retryTimeout
		if err := backoff.Retry(operation, policy); err != nil {
			c.logger.Error("failed-to-sample-region", err, lager.Data{"region": regionCfg.Region})
			continue
		}

		sample.Cost = c.engine.EstimateCost(regionCfg.Region, count)
		c.store.Record(sample)
	}
}
