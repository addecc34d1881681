package registry

import (
	"sort"
	"sync"

	"capacityengine/models"
)

// RegionRegistry is the engine's view of per-region configuration. The
// region set is replaced atomically on config update; readers always see a
// complete generation.
type RegionRegistry struct {
	lock    sync.RWMutex
	regions map[string]models.RegionConfig
}

func NewRegionRegistry(regions []models.RegionConfig) *RegionRegistry {
	registry := &RegionRegistry{}
	registry.Replace(regions)
	return registry
}

func (r *RegionRegistry) Replace(regions []models.RegionConfig) {
	regionMap := make(map[string]models.RegionConfig, len(regions))
	for _, region := range regions {
		regionMap[region.Region] = region
	}

	r.lock.Lock()
	r.regions = regionMap
	r.lock.Unlock()
}

func (r *RegionRegistry) Get(name string) (models.RegionConfig, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	region, ok := r.regions[name]
	return region, ok
}

// All returns every configured region, highest priority first.
func (r *RegionRegistry) All() []models.RegionConfig {
	r.lock.RLock()
	regions := make([]models.RegionConfig, 0, len(r.regions))
	for _, region := range r.regions {
		regions = append(regions, region)
	}
	r.lock.RUnlock()

	sort.Slice(regions, func(i, j int) bool {
		if regions[i].Priority != regions[j].Priority {
			return regions[i].Priority > regions[j].Priority
		}
		return regions[i].Region < regions[j].Region
	})
	return regions
}

// Enabled returns the regions eligible for scheduling, highest priority
// first.
func (r *RegionRegistry) Enabled() []models.RegionConfig {
	all := r.All()
	enabled := make([]models.RegionConfig, 0, len(all))
	for _, region := range all {
		if region.Enabled {
			enabled = append(enabled, region)
		}
	}
	return enabled
}
