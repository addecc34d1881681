package models_test

import (
	"time"

	. "capacityengine/models"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("MetricSample", func() {
	Describe("Load", func() {
		It("is the CPU fraction times the instance count", func() {
			sample := &MetricSample{InstanceCount: 5, CPUPct: 80}
			Expect(sample.Load()).To(BeNumerically("~", 4, 1e-9))
		})
	})
})

var _ = Describe("RegionConfig", func() {
	var regionCfg RegionConfig

	BeforeEach(func() {
		regionCfg = RegionConfig{
			Region:         "us-east-1",
			MinInstances:   2,
			MaxInstances:   10,
			CostMultiplier: 1.0,
		}
	})

	Describe("Clamp", func() {
		It("bounds the count to [min, max]", func() {
			Expect(regionCfg.Clamp(0)).To(Equal(2))
			Expect(regionCfg.Clamp(5)).To(Equal(5))
			Expect(regionCfg.Clamp(50)).To(Equal(10))
		})
	})

	Describe("Validate", func() {
		It("accepts a well-formed region", func() {
			Expect(regionCfg.Validate()).To(Succeed())
		})

		It("rejects an empty name", func() {
			regionCfg.Region = ""
			Expect(regionCfg.Validate()).To(MatchError("Configuration error: region name is empty"))
		})

		It("rejects inverted bounds", func() {
			regionCfg.MinInstances = 11
			Expect(regionCfg.Validate()).To(MatchError("Configuration error: region us-east-1 max_instances is smaller than min_instances"))
		})
	})
})

var _ = Describe("CooldownConfig", func() {
	It("converts the configured seconds to durations", func() {
		cooldowns := CooldownConfig{ScaleUpSeconds: 120, ScaleDownSeconds: 240}
		Expect(cooldowns.ScaleUp(300)).To(Equal(2 * time.Minute))
		Expect(cooldowns.ScaleDown(600)).To(Equal(4 * time.Minute))
	})

	It("falls back to the defaults when unset", func() {
		var cooldowns CooldownConfig
		Expect(cooldowns.ScaleUp(300)).To(Equal(5 * time.Minute))
		Expect(cooldowns.ScaleDown(600)).To(Equal(10 * time.Minute))
	})
})

var _ = Describe("AutoScalingConfig", func() {
	Describe("DeepCopy", func() {
		It("shares no region slice with the original", func() {
			conf := &AutoScalingConfig{
				Strategy: StrategyHybrid,
				Regions: []RegionConfig{
					{Region: "us-east-1", MinInstances: 1, MaxInstances: 4, CostMultiplier: 1},
				},
			}
			copied := conf.DeepCopy()
			copied.Regions[0].MaxInstances = 99

			Expect(conf.Regions[0].MaxInstances).To(Equal(4))
		})
	})
})
