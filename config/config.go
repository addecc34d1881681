package config

import (
	"fmt"
	"io"
	"io/ioutil"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v2"

	"capacityengine/helpers"
	"capacityengine/models"
)

const (
	DefaultLoggingLevel                   string        = "info"
	DefaultHealthPort                     int           = 8081
	DefaultCollectInterval                time.Duration = 30 * time.Second
	DefaultEvaluateInterval               time.Duration = 60 * time.Second
	DefaultRetrainInterval                time.Duration = 5 * time.Minute
	DefaultEvaluationWindow               time.Duration = 5 * time.Minute
	DefaultSampleRetryTimeout             time.Duration = 5 * time.Second
	DefaultSampleRetention                time.Duration = 24 * time.Hour
	DefaultEventLogSize                   int           = 1000
	DefaultReportWindow                   time.Duration = time.Hour
	DefaultMetricsCacheTTL                time.Duration = 10 * time.Second
	DefaultProvisionTimeout               time.Duration = 30 * time.Second
	DefaultBreakerConsecutiveFailureCount int64         = 3
	DefaultScaleUpCoolDownSecs            int           = 300
	DefaultScaleDownCoolDownSecs          int           = 600
	DefaultForecastStep                   time.Duration = 5 * time.Minute
	DefaultForecastWindowCount            int           = 6
	DefaultTrainingWindow                 time.Duration = 6 * time.Hour
	DefaultBaseHourlyCost                 float64       = 0.5
	DefaultTargetUtilizationPct           float64       = 70
	DefaultSafetyMargin                   float64       = 1.2
	DefaultConfidenceThreshold            float64       = 0.7
	DefaultPredictiveDeviationPct         float64       = 20
	DefaultScaleDownTargetFraction        float64       = 0.5
)

type HealthConfig struct {
	Port int `yaml:"port"`
}

type SchedulerConfig struct {
	CollectInterval    time.Duration `yaml:"collect_interval"`
	EvaluateInterval   time.Duration `yaml:"evaluate_interval"`
	RetrainInterval    time.Duration `yaml:"retrain_interval"`
	EvaluationWindow   time.Duration `yaml:"evaluation_window"`
	SampleRetryTimeout time.Duration `yaml:"sample_retry_timeout"`
}

type ForecastConfig struct {
	Step           time.Duration `yaml:"step"`
	WindowCount    int           `yaml:"window_count"`
	TrainingWindow time.Duration `yaml:"training_window"`
}

type ProvisioningConfig struct {
	Timeout                 time.Duration `yaml:"timeout"`
	ConsecutiveFailureCount int64         `yaml:"consecutive_failure_count"`
}

type CostConfig struct {
	BaseHourlyCost float64 `yaml:"base_hourly_cost"`
}

type EngineConfig struct {
	EventLogSize    int           `yaml:"event_log_size"`
	SampleRetention time.Duration `yaml:"sample_retention"`
	ReportWindow    time.Duration `yaml:"report_window"`
	MetricsCacheTTL time.Duration `yaml:"metrics_cache_ttl"`
}

type Config struct {
	Logging      helpers.LoggingConfig    `yaml:"logging"`
	Health       HealthConfig             `yaml:"health"`
	Scheduler    SchedulerConfig          `yaml:"scheduler"`
	Forecast     ForecastConfig           `yaml:"forecast"`
	Provisioning ProvisioningConfig       `yaml:"provisioning"`
	Cost         CostConfig               `yaml:"cost"`
	Engine       EngineConfig             `yaml:"engine"`
	AutoScaling  models.AutoScalingConfig `yaml:"autoscaling"`
}

func LoadConfig(reader io.Reader) (*Config, error) {
	conf := &Config{
		Logging: helpers.LoggingConfig{Level: DefaultLoggingLevel},
		Health:  HealthConfig{Port: DefaultHealthPort},
		Scheduler: SchedulerConfig{
			CollectInterval:    DefaultCollectInterval,
			EvaluateInterval:   DefaultEvaluateInterval,
			RetrainInterval:    DefaultRetrainInterval,
			EvaluationWindow:   DefaultEvaluationWindow,
			SampleRetryTimeout: DefaultSampleRetryTimeout,
		},
		Forecast: ForecastConfig{
			Step:           DefaultForecastStep,
			WindowCount:    DefaultForecastWindowCount,
			TrainingWindow: DefaultTrainingWindow,
		},
		Provisioning: ProvisioningConfig{
			Timeout:                 DefaultProvisionTimeout,
			ConsecutiveFailureCount: DefaultBreakerConsecutiveFailureCount,
		},
		Cost: CostConfig{BaseHourlyCost: DefaultBaseHourlyCost},
		Engine: EngineConfig{
			EventLogSize:    DefaultEventLogSize,
			SampleRetention: DefaultSampleRetention,
			ReportWindow:    DefaultReportWindow,
			MetricsCacheTTL: DefaultMetricsCacheTTL,
		},
		AutoScaling: models.AutoScalingConfig{
			TargetUtilizationPct:    DefaultTargetUtilizationPct,
			SafetyMargin:            DefaultSafetyMargin,
			ConfidenceThreshold:     DefaultConfidenceThreshold,
			PredictiveDeviationPct:  DefaultPredictiveDeviationPct,
			ScaleDownTargetFraction: DefaultScaleDownTargetFraction,
			Cooldowns: models.CooldownConfig{
				ScaleUpSeconds:   DefaultScaleUpCoolDownSecs,
				ScaleDownSeconds: DefaultScaleDownCoolDownSecs,
			},
		},
	}

	bytes, err := ioutil.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(bytes, conf)
	if err != nil {
		return nil, err
	}

	conf.Logging.Level = strings.ToLower(conf.Logging.Level)
	conf.AutoScaling.Strategy = strings.ToLower(conf.AutoScaling.Strategy)

	return conf, nil
}

func (c *Config) Validate() error {
	if c.Scheduler.CollectInterval <= 0 {
		return fmt.Errorf("Configuration error: collect_interval is not positive")
	}
	if c.Scheduler.EvaluateInterval <= 0 {
		return fmt.Errorf("Configuration error: evaluate_interval is not positive")
	}
	if c.Scheduler.RetrainInterval <= 0 {
		return fmt.Errorf("Configuration error: retrain_interval is not positive")
	}
	if c.Scheduler.EvaluationWindow <= 0 {
		return fmt.Errorf("Configuration error: evaluation_window is not positive")
	}
	if c.Forecast.Step <= 0 {
		return fmt.Errorf("Configuration error: forecast step is not positive")
	}
	if c.Forecast.WindowCount <= 0 {
		return fmt.Errorf("Configuration error: forecast window_count is not positive")
	}
	if c.Provisioning.Timeout <= 0 {
		return fmt.Errorf("Configuration error: provisioning timeout is not positive")
	}
	if c.Provisioning.ConsecutiveFailureCount <= 0 {
		return fmt.Errorf("Configuration error: consecutive_failure_count is not positive")
	}
	if c.Cost.BaseHourlyCost <= 0 {
		return fmt.Errorf("Configuration error: base_hourly_cost is not positive")
	}
	if c.Engine.EventLogSize <= 0 {
		return fmt.Errorf("Configuration error: event_log_size is not positive")
	}
	if c.Engine.SampleRetention < c.Scheduler.EvaluationWindow {
		return fmt.Errorf("Configuration error: sample_retention is smaller than evaluation_window")
	}
	return c.AutoScaling.Validate()
}

// SampleCapacityPerRegion derives the ring buffer size from the retention
// window and the collection cadence.
func (c *Config) SampleCapacityPerRegion() int {
	capacity := int(c.Engine.SampleRetention / c.Scheduler.CollectInterval)
	if capacity < 1 {
		capacity = 1
	}
	return capacity
}
