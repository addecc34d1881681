package engine

import (
	"fmt"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager"
	cache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	circuit "github.com/rubyist/circuitbreaker"

	"capacityengine/cloud"
	"capacityengine/collection"
	"capacityengine/config"
	"capacityengine/helpers"
	"capacityengine/models"
	"capacityengine/registry"
)

const lockSize = 32

// ScalingEngine owns the authoritative per-region instance counts and
// cooldown state, executes scaling decisions against the provisioning
// backend, and serves the programmatic contract consumed by the API layer.
type ScalingEngine interface {
	InitializeRegions() error
	Execute(decision *models.ScalingDecision) (*models.ScalingEvent, error)
	UpdateConfig(update []byte) error
	Config() *models.AutoScalingConfig
	EnabledRegions() []models.RegionConfig
	CurrentInstances(region string) (int, bool)
	InstanceCounts() map[string]int
	EstimateCost(region string, instances int) float64
	ScalingMetrics() *models.ScalingMetrics
	ScalingEvents(region string, window time.Duration) []*models.ScalingEvent
	Collectors() []prometheus.Collector
}

type RegionNotFoundError struct {
	Region string
}

func (e *RegionNotFoundError) Error() string {
	return fmt.Sprintf("region %s is not configured", e.Region)
}

type regionState struct {
	instances       int
	lastScaleUpAt   time.Time
	lastScaleDownAt time.Time
}

type scalingEngine struct {
	logger    lager.Logger
	clock     clock.Clock
	backend   cloud.ProvisioningBackend
	store     *collection.MetricsStore
	registry  *registry.RegionRegistry
	costModel *registry.CostModel
	validator *config.UpdateValidator

	regionLock *StripedLock

	stateLock sync.RWMutex
	state     map[string]*regionState

	configLock sync.RWMutex
	conf       *models.AutoScalingConfig

	events *collection.TimeSeriesBuffer

	breakerLock         sync.Mutex
	breakers            map[string]*circuit.Breaker
	breakerFailureCount int64
	provisionTimeout    time.Duration

	reportWindow time.Duration
	metricsCache *cache.Cache

	collectors *engineCollectors
}

func NewScalingEngine(logger lager.Logger, clock clock.Clock, conf *config.Config, backend cloud.ProvisioningBackend, store *collection.MetricsStore) ScalingEngine {
	autoscaling := conf.AutoScaling.DeepCopy()
	return &scalingEngine{
		logger:              logger.Session("scaling-engine"),
		clock:               clock,
		backend:             backend,
		store:               store,
		registry:            registry.NewRegionRegistry(autoscaling.Regions),
		costModel:           registry.NewCostModel(conf.Cost.BaseHourlyCost),
		validator:           config.NewUpdateValidator(),
		regionLock:          NewStripedLock(lockSize),
		state:               make(map[string]*regionState),
		conf:                autoscaling,
		events:              collection.NewTimeSeriesBuffer(conf.Engine.EventLogSize),
		breakers:            make(map[string]*circuit.Breaker),
		breakerFailureCount: conf.Provisioning.ConsecutiveFailureCount,
		provisionTimeout:    conf.Provisioning.Timeout,
		reportWindow:        conf.Engine.ReportWindow,
		metricsCache:        cache.New(conf.Engine.MetricsCacheTTL, 10*conf.Engine.MetricsCacheTTL),
		collectors:          newEngineCollectors(),
	}
}

// InitializeRegions seeds every configured region's instance count to its
// minimum and records an initialization event per region.
func (s *scalingEngine) InitializeRegions() error {
	for _, regionCfg := range s.registry.All() {
		lock := s.regionLock.GetLock(regionCfg.Region)
		lock.Lock()

		state := s.regionState(regionCfg.Region, 0)
		from := state.instances
		s.setInstances(state, regionCfg.MinInstances)

		guid, err := helpers.GenerateGUID()
		if err != nil {
			lock.Unlock()
			return err
		}
		s.appendEvent(&models.ScalingEvent{
			Id:            guid,
			Timestamp:     s.clock.Now().UnixNano(),
			Region:        regionCfg.Region,
			Action:        models.ScalingActionNone,
			Trigger:       models.ScalingTriggerInitialization,
			FromInstances: from,
			ToInstances:   regionCfg.MinInstances,
			Success:       true,
			Reason:        fmt.Sprintf("seeded to min instances %d", regionCfg.MinInstances),
			Cost:          s.costModel.Estimate(regionCfg, regionCfg.MinInstances),
		})
		s.collectors.setRegionInstances(regionCfg.Region, regionCfg.MinInstances)

		lock.Unlock()
	}
	s.collectors.setTotalCost(s.totalCost())
	s.logger.Info("regions-initialized", lager.Data{"regions": len(s.registry.All())})
	return nil
}

// Execute applies a scaling decision to its region. The region's instance
// count, cooldown stamps and event log form one unit of mutual exclusion: a
// per-region lock is held for the whole transaction. Failed provisioning
// leaves the count and cooldown untouched so the next cycle can retry.
func (s *scalingEngine) Execute(decision *models.ScalingDecision) (*models.ScalingEvent, error) {
	if decision == nil || decision.Action == models.ScalingActionNone {
		return nil, nil
	}
	logger := s.logger.WithData(lager.Data{"region": decision.Region, "action": decision.Action, "target": decision.TargetInstances})

	regionCfg, ok := s.registry.Get(decision.Region)
	if !ok {
		return nil, &RegionNotFoundError{Region: decision.Region}
	}

	lock := s.regionLock.GetLock(decision.Region)
	lock.Lock()
	defer lock.Unlock()

	if !regionCfg.Enabled {
		logger.Info("skip-disabled-region")
		return nil, nil
	}

	now := s.clock.Now()
	state := s.regionState(decision.Region, regionCfg.MinInstances)
	from := state.instances

	guid, err := helpers.GenerateGUID()
	if err != nil {
		logger.Error("failed-to-generate-event-id", err)
		return nil, err
	}
	event := &models.ScalingEvent{
		Id:            guid,
		Timestamp:     now.UnixNano(),
		Region:        decision.Region,
		Action:        decision.Action,
		Trigger:       decision.Trigger,
		FromInstances: from,
		ToInstances:   from,
		Reason:        decision.Reason,
	}
	defer s.appendEvent(event)

	if remaining := s.cooldownRemaining(state, decision.Action, now); remaining > 0 {
		logger.Info("suppressed-by-cooldown", lager.Data{"remaining": remaining.String()})
		event.Action = models.ScalingActionNone
		event.Success = true
		event.Reason = models.ReasonCooldown
		return event, nil
	}

	target := regionCfg.Clamp(decision.TargetInstances)
	if target != decision.TargetInstances {
		if decision.TargetInstances > target {
			event.Reason = fmt.Sprintf("limited by max instances %d", regionCfg.MaxInstances)
		} else {
			event.Reason = fmt.Sprintf("limited by min instances %d", regionCfg.MinInstances)
		}
	}
	if target == from {
		logger.Info("already-at-target", lager.Data{"instances": from})
		event.Action = models.ScalingActionNone
		event.Success = true
		return event, nil
	}

	err = s.breaker(decision.Region).Call(func() error {
		return s.backend.Resize(decision.Region, from, target)
	}, s.provisionTimeout)
	event.DurationMs = int64(s.clock.Since(now) / time.Millisecond)
	if err != nil {
		reason := err.Error()
		if err == circuit.ErrBreakerOpen {
			reason = "circuit breaker open"
		} else if err == circuit.ErrBreakerTimeout {
			reason = "provisioning timed out"
		}
		logger.Error("failed-to-resize", err, lager.Data{"from": from, "to": target})
		event.Success = false
		event.Reason = reason
		return event, err
	}

	s.setInstances(state, target)
	if target > from {
		state.lastScaleUpAt = now
	} else {
		state.lastScaleDownAt = now
	}
	event.ToInstances = target
	event.Success = true
	event.Cost = s.costModel.Estimate(regionCfg, target) - s.costModel.Estimate(regionCfg, from)

	s.collectors.setRegionInstances(decision.Region, target)
	s.collectors.setTotalCost(s.totalCost())
	logger.Info("scaled", lager.Data{"from": from, "to": target})
	return event, nil
}

// cooldownRemaining enforces per-direction cooldowns. The directions are
// independent: a region cooling down from a scale-up stays immediately
// eligible for scale-down if load collapses.
func (s *scalingEngine) cooldownRemaining(state *regionState, action string, now time.Time) time.Duration {
	conf := s.Config()
	if action == models.ScalingActionUp {
		if state.lastScaleUpAt.IsZero() {
			return 0
		}
		return conf.Cooldowns.ScaleUp(config.DefaultScaleUpCoolDownSecs) - now.Sub(state.lastScaleUpAt)
	}
	if state.lastScaleDownAt.IsZero() {
		return 0
	}
	return conf.Cooldowns.ScaleDown(config.DefaultScaleDownCoolDownSecs) - now.Sub(state.lastScaleDownAt)
}

// setInstances commits a region's instance count. The count is read by the
// snapshot accessors under stateLock alone, so writes take it too; the
// caller's striped lock orders the surrounding transaction.
func (s *scalingEngine) setInstances(state *regionState, instances int) {
	s.stateLock.Lock()
	state.instances = instances
	s.stateLock.Unlock()
}

// regionState returns the region's mutable state, seeding it on first touch.
// Callers must hold the region's striped lock.
func (s *scalingEngine) regionState(region string, seed int) *regionState {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()
	state := s.state[region]
	if state == nil {
		state = &regionState{instances: seed}
		s.state[region] = state
	}
	return state
}

func (s *scalingEngine) breaker(region string) *circuit.Breaker {
	s.breakerLock.Lock()
	defer s.breakerLock.Unlock()
	breaker := s.breakers[region]
	if breaker == nil {
		breaker = circuit.NewConsecutiveBreaker(s.breakerFailureCount)
		s.breakers[region] = breaker
	}
	return breaker
}

func (s *scalingEngine) appendEvent(event *models.ScalingEvent) {
	s.events.Put(event)
	s.collectors.incEvents(event)
	s.metricsCache.Delete(metricsCacheKey)
}

func (s *scalingEngine) totalCost() float64 {
	return s.costModel.TotalCost(s.registry.All(), s.InstanceCounts())
}
