package evaluator_test

import (
	"code.cloudfoundry.org/lager/lagertest"

	. "capacityengine/evaluator"
	"capacityengine/models"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Evaluator", func() {
	var (
		ev        *Evaluator
		regionCfg models.RegionConfig
		cfg       *models.AutoScalingConfig
		samples   []*models.MetricSample
		windows   []*models.PredictionWindow
		current   int
		decision  *models.ScalingDecision
	)

	metricSamples := func(n int, cpu, mem, responseTime, queueDepth float64) []*models.MetricSample {
		result := make([]*models.MetricSample, 0, n)
		for i := 0; i < n; i++ {
			result = append(result, &models.MetricSample{
				Region:         "us-east-1",
				InstanceCount:  current,
				CPUPct:         cpu,
				MemPct:         mem,
				ResponseTimeMs: responseTime,
				QueueDepth:     queueDepth,
			})
		}
		return result
	}

	predictionWindows := func(confidence float64, recommended ...int) []*models.PredictionWindow {
		result := make([]*models.PredictionWindow, 0, len(recommended))
		for _, r := range recommended {
			result = append(result, &models.PredictionWindow{
				Confidence:           confidence,
				RecommendedInstances: r,
			})
		}
		return result
	}

	BeforeEach(func() {
		ev = NewEvaluator(lagertest.NewTestLogger("evaluator"))
		regionCfg = models.RegionConfig{
			Region:         "us-east-1",
			Enabled:        true,
			MinInstances:   2,
			MaxInstances:   10,
			CostMultiplier: 1.0,
		}
		cfg = &models.AutoScalingConfig{
			Enabled:  true,
			Strategy: models.StrategyReactive,
			TargetMetrics: models.TargetMetrics{
				CPUPct:         70,
				MemPct:         75,
				ResponseTimeMs: 200,
				QueueDepth:     50,
			},
			ScaleUpPolicy: models.ScalingPolicy{
				ThresholdPct:        80,
				Increment:           2,
				EvaluationPeriods:   3,
				ComparisonDirection: models.ComparisonGreaterOrEqual,
			},
			ScaleDownPolicy: models.ScalingPolicy{
				ThresholdPct:        30,
				Increment:           1,
				EvaluationPeriods:   5,
				ComparisonDirection: models.ComparisonLessOrEqual,
			},
			ConfidenceThreshold:     0.7,
			PredictiveDeviationPct:  20,
			ScaleDownTargetFraction: 0.5,
		}
		samples = nil
		windows = nil
		current = 5
	})

	JustBeforeEach(func() {
		decision = ev.Evaluate(regionCfg, cfg, samples, windows, current)
	})

	Describe("reactive strategy", func() {
		Context("when there are fewer samples than the evaluation periods", func() {
			BeforeEach(func() {
				samples = metricSamples(2, 90, 90, 300, 60)
			})
			It("takes no action", func() {
				Expect(decision.Action).To(Equal(models.ScalingActionNone))
				Expect(decision.Reason).To(Equal("insufficient samples"))
			})
		})

		Context("when average CPU breaches the scale-up threshold", func() {
			BeforeEach(func() {
				samples = metricSamples(3, 85, 40, 50, 5)
			})
			It("scales up by the configured increment", func() {
				Expect(decision.Action).To(Equal(models.ScalingActionUp))
				Expect(decision.TargetInstances).To(Equal(7))
				Expect(decision.Trigger).To(Equal(models.ScalingTriggerReactive))
			})
		})

		Context("when response time alone exceeds its target", func() {
			BeforeEach(func() {
				samples = metricSamples(3, 40, 40, 230, 5)
			})
			It("scales up", func() {
				Expect(decision.Action).To(Equal(models.ScalingActionUp))
				Expect(decision.TargetInstances).To(Equal(7))
			})
		})

		Context("when every metric sits exactly at its target", func() {
			BeforeEach(func() {
				samples = metricSamples(5, 70, 75, 200, 50)
			})
			It("takes no action", func() {
				Expect(decision.Action).To(Equal(models.ScalingActionNone))
				Expect(decision.Reason).To(Equal("metrics within target band"))
			})
		})

		Context("when the region is already at its maximum", func() {
			BeforeEach(func() {
				current = 10
				samples = metricSamples(3, 95, 40, 50, 5)
			})
			It("takes no action and says why", func() {
				Expect(decision.Action).To(Equal(models.ScalingActionNone))
				Expect(decision.Reason).To(Equal("limited by max instances 10"))
			})
		})

		Context("when every metric sits below its scale-down share of target", func() {
			BeforeEach(func() {
				samples = metricSamples(5, 20, 20, 50, 5)
			})
			It("scales down by the configured increment", func() {
				Expect(decision.Action).To(Equal(models.ScalingActionDown))
				Expect(decision.TargetInstances).To(Equal(4))
			})
		})

		Context("when metrics are cold but the scale-down evaluation periods are not met", func() {
			BeforeEach(func() {
				samples = metricSamples(4, 20, 20, 50, 5)
			})
			It("takes no action", func() {
				Expect(decision.Action).To(Equal(models.ScalingActionNone))
			})
		})

		Context("when one metric is cold but another is in the target band", func() {
			BeforeEach(func() {
				samples = metricSamples(5, 20, 60, 50, 5)
			})
			It("takes no action", func() {
				Expect(decision.Action).To(Equal(models.ScalingActionNone))
				Expect(decision.Reason).To(Equal("metrics within target band"))
			})
		})

		Context("when the region is already at its minimum", func() {
			BeforeEach(func() {
				current = 2
				samples = metricSamples(5, 10, 10, 20, 1)
			})
			It("takes no action and says why", func() {
				Expect(decision.Action).To(Equal(models.ScalingActionNone))
				Expect(decision.Reason).To(Equal("limited by min instances 2"))
			})
		})
	})

	Describe("predictive strategy", func() {
		BeforeEach(func() {
			cfg.Strategy = models.StrategyPredictive
		})

		Context("when the region has no prediction windows", func() {
			It("takes no action", func() {
				Expect(decision.Action).To(Equal(models.ScalingActionNone))
				Expect(decision.Reason).To(Equal("no prediction available"))
			})
		})

		Context("when the mean confidence is below the threshold", func() {
			BeforeEach(func() {
				windows = predictionWindows(0.5, 8, 9, 10)
			})
			It("takes no action", func() {
				Expect(decision.Action).To(Equal(models.ScalingActionNone))
				Expect(decision.Reason).To(Equal("low prediction confidence 0.50"))
			})
		})

		Context("when the peak recommendation exceeds the deviation band", func() {
			BeforeEach(func() {
				windows = predictionWindows(0.8, 6, 8, 7)
			})
			It("scales up to the peak recommendation", func() {
				Expect(decision.Action).To(Equal(models.ScalingActionUp))
				Expect(decision.TargetInstances).To(Equal(8))
				Expect(decision.Trigger).To(Equal(models.ScalingTriggerPredictive))
			})
		})

		Context("when the recommendation stays inside the deviation band", func() {
			BeforeEach(func() {
				windows = predictionWindows(0.8, 5, 6, 5)
			})
			It("takes no action", func() {
				Expect(decision.Action).To(Equal(models.ScalingActionNone))
				Expect(decision.Reason).To(Equal("forecast within deviation band"))
			})
		})

		Context("when the recommendation falls below the deviation band", func() {
			BeforeEach(func() {
				windows = predictionWindows(0.8, 3, 3, 2)
			})
			It("scales down to the peak recommendation", func() {
				Expect(decision.Action).To(Equal(models.ScalingActionDown))
				Expect(decision.TargetInstances).To(Equal(3))
			})
		})
	})

	Describe("hybrid strategy", func() {
		BeforeEach(func() {
			cfg.Strategy = models.StrategyHybrid
		})

		Context("when only the reactive side wants to scale up", func() {
			BeforeEach(func() {
				samples = metricSamples(3, 90, 40, 50, 5)
				windows = predictionWindows(0.8, 5, 5, 5)
			})
			It("scales up to the reactive target", func() {
				Expect(decision.Action).To(Equal(models.ScalingActionUp))
				Expect(decision.TargetInstances).To(Equal(7))
				Expect(decision.Trigger).To(Equal(models.ScalingTriggerHybrid))
			})
		})

		Context("when only the predictive side wants to scale up", func() {
			BeforeEach(func() {
				samples = metricSamples(3, 50, 50, 100, 20)
				windows = predictionWindows(0.8, 8, 8, 8)
			})
			It("scales up to the predictive target", func() {
				Expect(decision.Action).To(Equal(models.ScalingActionUp))
				Expect(decision.TargetInstances).To(Equal(8))
			})
		})

		Context("when both sides want to scale up", func() {
			BeforeEach(func() {
				samples = metricSamples(3, 90, 40, 50, 5)
				windows = predictionWindows(0.8, 9, 9, 9)
			})
			It("takes the larger target", func() {
				Expect(decision.Action).To(Equal(models.ScalingActionUp))
				Expect(decision.TargetInstances).To(Equal(9))
			})
		})

		Context("when both sides want to scale down", func() {
			BeforeEach(func() {
				samples = metricSamples(5, 20, 20, 50, 5)
				windows = predictionWindows(0.8, 3, 3, 3)
			})
			It("takes the smaller target", func() {
				Expect(decision.Action).To(Equal(models.ScalingActionDown))
				Expect(decision.TargetInstances).To(Equal(3))
				Expect(decision.Trigger).To(Equal(models.ScalingTriggerHybrid))
			})
		})

		Context("when only the reactive side wants to scale down", func() {
			BeforeEach(func() {
				samples = metricSamples(5, 20, 20, 50, 5)
				windows = predictionWindows(0.8, 5, 5, 5)
			})
			It("takes no action", func() {
				Expect(decision.Action).To(Equal(models.ScalingActionNone))
				Expect(decision.Reason).To(Equal("strategies do not agree on an action"))
			})
		})

		Context("when only the predictive side wants to scale down", func() {
			BeforeEach(func() {
				samples = metricSamples(5, 50, 50, 100, 20)
				windows = predictionWindows(0.8, 3, 3, 3)
			})
			It("takes no action", func() {
				Expect(decision.Action).To(Equal(models.ScalingActionNone))
			})
		})
	})

	Describe("unknown strategy", func() {
		BeforeEach(func() {
			cfg.Strategy = "psychic"
		})
		It("takes no action", func() {
			Expect(decision.Action).To(Equal(models.ScalingActionNone))
			Expect(decision.Reason).To(Equal("unknown strategy"))
		})
	})
})
