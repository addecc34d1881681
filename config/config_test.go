package config_test

import (
	"bytes"
	"time"

	"capacityengine/config"
	"capacityengine/models"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	var (
		conf        *config.Config
		err         error
		configBytes []byte
	)

	Describe("LoadConfig", func() {
		JustBeforeEach(func() {
			conf, err = config.LoadConfig(bytes.NewReader(configBytes))
		})

		Context("with invalid yaml", func() {
			BeforeEach(func() {
				configBytes = []byte("logging:\n\tlevel: info\n")
			})
			It("returns an error", func() {
				Expect(err).To(MatchError(MatchRegexp("yaml: .*")))
			})
		})

		Context("with valid yaml", func() {
			BeforeEach(func() {
				configBytes = []byte(`
logging:
  level: DEBUG
health:
  port: 9999
scheduler:
  collect_interval: 10s
  evaluate_interval: 20s
  retrain_interval: 2m
  evaluation_window: 3m
  sample_retry_timeout: 2s
forecast:
  step: 1m
  window_count: 12
  training_window: 2h
provisioning:
  timeout: 10s
  consecutive_failure_count: 5
cost:
  base_hourly_cost: 0.8
engine:
  event_log_size: 50
  sample_retention: 12h
  report_window: 30m
  metrics_cache_ttl: 5s
autoscaling:
  enabled: true
  strategy: Hybrid
  min_instances: 1
  max_instances: 10
  target_metrics:
    cpu_pct: 70
    mem_pct: 75
    response_time_ms: 200
    queue_depth: 50
  scale_up_policy:
    threshold_pct: 80
    increment: 2
    evaluation_periods: 3
    comparison_direction: ">="
  scale_down_policy:
    threshold_pct: 30
    increment: 1
    evaluation_periods: 5
    comparison_direction: "<="
  cooldowns:
    scale_up_secs: 120
    scale_down_secs: 240
  regions:
  - region: us-east-1
    enabled: true
    min_instances: 2
    max_instances: 10
    priority: 1
    cost_multiplier: 1.0
    latency_target_ms: 120
`)
			})
			It("parses everything and lowercases the strategy and log level", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(conf.Logging.Level).To(Equal("debug"))
				Expect(conf.Health.Port).To(Equal(9999))
				Expect(conf.Scheduler.CollectInterval).To(Equal(10 * time.Second))
				Expect(conf.Scheduler.EvaluateInterval).To(Equal(20 * time.Second))
				Expect(conf.Scheduler.RetrainInterval).To(Equal(2 * time.Minute))
				Expect(conf.Scheduler.EvaluationWindow).To(Equal(3 * time.Minute))
				Expect(conf.Scheduler.SampleRetryTimeout).To(Equal(2 * time.Second))
				Expect(conf.Forecast.Step).To(Equal(time.Minute))
				Expect(conf.Forecast.WindowCount).To(Equal(12))
				Expect(conf.Forecast.TrainingWindow).To(Equal(2 * time.Hour))
				Expect(conf.Provisioning.Timeout).To(Equal(10 * time.Second))
				Expect(conf.Provisioning.ConsecutiveFailureCount).To(Equal(int64(5)))
				Expect(conf.Cost.BaseHourlyCost).To(Equal(0.8))
				Expect(conf.Engine.EventLogSize).To(Equal(50))
				Expect(conf.Engine.SampleRetention).To(Equal(12 * time.Hour))
				Expect(conf.AutoScaling.Strategy).To(Equal(models.StrategyHybrid))
				Expect(conf.AutoScaling.Cooldowns.ScaleUpSeconds).To(Equal(120))
				Expect(conf.AutoScaling.Regions).To(HaveLen(1))
				Expect(conf.AutoScaling.Regions[0].Region).To(Equal("us-east-1"))
			})
		})

		Context("with partial yaml", func() {
			BeforeEach(func() {
				configBytes = []byte(`
autoscaling:
  strategy: reactive
  max_instances: 4
  scale_up_policy:
    increment: 1
  scale_down_policy:
    increment: 1
`)
			})
			It("fills the defaults", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(conf.Logging.Level).To(Equal(config.DefaultLoggingLevel))
				Expect(conf.Health.Port).To(Equal(config.DefaultHealthPort))
				Expect(conf.Scheduler.CollectInterval).To(Equal(config.DefaultCollectInterval))
				Expect(conf.Scheduler.EvaluateInterval).To(Equal(config.DefaultEvaluateInterval))
				Expect(conf.Scheduler.RetrainInterval).To(Equal(config.DefaultRetrainInterval))
				Expect(conf.Forecast.Step).To(Equal(config.DefaultForecastStep))
				Expect(conf.Forecast.WindowCount).To(Equal(config.DefaultForecastWindowCount))
				Expect(conf.Provisioning.Timeout).To(Equal(config.DefaultProvisionTimeout))
				Expect(conf.Engine.EventLogSize).To(Equal(config.DefaultEventLogSize))
				Expect(conf.AutoScaling.TargetUtilizationPct).To(Equal(config.DefaultTargetUtilizationPct))
				Expect(conf.AutoScaling.SafetyMargin).To(Equal(config.DefaultSafetyMargin))
				Expect(conf.AutoScaling.Cooldowns.ScaleUpSeconds).To(Equal(config.DefaultScaleUpCoolDownSecs))
				Expect(conf.AutoScaling.Cooldowns.ScaleDownSeconds).To(Equal(config.DefaultScaleDownCoolDownSecs))
				Expect(conf.Validate()).To(Succeed())
			})
		})
	})

	Describe("Validate", func() {
		BeforeEach(func() {
			conf, err = config.LoadConfig(bytes.NewReader([]byte(`
autoscaling:
  strategy: reactive
  max_instances: 4
  scale_up_policy:
    increment: 1
  scale_down_policy:
    increment: 1
`)))
			Expect(err).NotTo(HaveOccurred())
		})

		JustBeforeEach(func() {
			err = conf.Validate()
		})

		Context("when the config is valid", func() {
			It("succeeds", func() {
				Expect(err).NotTo(HaveOccurred())
			})
		})

		Context("when collect_interval is not positive", func() {
			BeforeEach(func() {
				conf.Scheduler.CollectInterval = 0
			})
			It("returns an error", func() {
				Expect(err).To(MatchError("Configuration error: collect_interval is not positive"))
			})
		})

		Context("when sample_retention is smaller than evaluation_window", func() {
			BeforeEach(func() {
				conf.Engine.SampleRetention = time.Minute
			})
			It("returns an error", func() {
				Expect(err).To(MatchError("Configuration error: sample_retention is smaller than evaluation_window"))
			})
		})

		Context("when the strategy is unknown", func() {
			BeforeEach(func() {
				conf.AutoScaling.Strategy = "psychic"
			})
			It("returns an error", func() {
				Expect(err).To(MatchError(`Configuration error: unknown strategy "psychic"`))
			})
		})

		Context("when max_instances is smaller than min_instances", func() {
			BeforeEach(func() {
				conf.AutoScaling.MinInstances = 5
				conf.AutoScaling.MaxInstances = 4
			})
			It("returns an error", func() {
				Expect(err).To(MatchError("Configuration error: max_instances is smaller than min_instances"))
			})
		})

		Context("when a region is duplicated", func() {
			BeforeEach(func() {
				conf.AutoScaling.Regions = []models.RegionConfig{
					{Region: "us-east-1", MinInstances: 1, MaxInstances: 2, CostMultiplier: 1},
					{Region: "us-east-1", MinInstances: 1, MaxInstances: 2, CostMultiplier: 1},
				}
			})
			It("returns an error", func() {
				Expect(err).To(MatchError("Configuration error: duplicate region us-east-1"))
			})
		})

		Context("when a region's cost_multiplier is not positive", func() {
			BeforeEach(func() {
				conf.AutoScaling.Regions = []models.RegionConfig{
					{Region: "us-east-1", MinInstances: 1, MaxInstances: 2},
				}
			})
			It("returns an error", func() {
				Expect(err).To(MatchError("Configuration error: region us-east-1 cost_multiplier is not positive"))
			})
		})
	})

	Describe("SampleCapacityPerRegion", func() {
		It("derives the ring size from retention and cadence", func() {
			conf := &config.Config{
				Scheduler: config.SchedulerConfig{CollectInterval: 30 * time.Second},
				Engine:    config.EngineConfig{SampleRetention: time.Hour},
			}
			Expect(conf.SampleCapacityPerRegion()).To(Equal(120))
		})

		It("never returns less than one", func() {
			conf := &config.Config{
				Scheduler: config.SchedulerConfig{CollectInterval: time.Hour},
				Engine:    config.EngineConfig{SampleRetention: time.Second},
			}
			Expect(conf.SampleCapacityPerRegion()).To(Equal(1))
		})
	})
})
