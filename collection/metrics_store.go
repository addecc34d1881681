package collection

import (
	"sync"
	"time"

	"code.cloudfoundry.org/clock"

	"capacityengine/models"
)

// MetricsStore retains a bounded window of telemetry samples per region. It
// has no side effects beyond its own buffers.
type MetricsStore struct {
	lock     sync.RWMutex
	buffers  map[string]*TimeSeriesBuffer
	capacity int
	clock    clock.Clock
}

// NewMetricsStore creates a store keeping at most capacityPerRegion samples
// for each region; older samples are evicted silently.
func NewMetricsStore(clock clock.Clock, capacityPerRegion int) *MetricsStore {
	return &MetricsStore{
		buffers:  make(map[string]*TimeSeriesBuffer),
		capacity: capacityPerRegion,
		clock:    clock,
	}
}

func (s *MetricsStore) Record(sample *models.MetricSample) {
	s.buffer(sample.Region).Put(sample)
}

// Recent returns the region's samples with timestamp >= now-window, oldest
// first.
func (s *MetricsStore) Recent(region string, window time.Duration) []*models.MetricSample {
	s.lock.RLock()
	buffer := s.buffers[region]
	s.lock.RUnlock()
	if buffer == nil {
		return nil
	}

	now := s.clock.Now().UnixNano()
	data := buffer.Range(now-window.Nanoseconds(), now+1)
	samples := make([]*models.MetricSample, 0, len(data))
	for _, d := range data {
		samples = append(samples, d.(*models.MetricSample))
	}
	return samples
}

// Latest returns the region's most recent sample, or nil when none exists.
func (s *MetricsStore) Latest(region string) *models.MetricSample {
	s.lock.RLock()
	buffer := s.buffers[region]
	s.lock.RUnlock()
	if buffer == nil {
		return nil
	}

	newest := buffer.Newest()
	if newest == nil {
		return nil
	}
	return newest.(*models.MetricSample)
}

func (s *MetricsStore) buffer(region string) *TimeSeriesBuffer {
	s.lock.RLock()
	buffer := s.buffers[region]
	s.lock.RUnlock()
	if buffer != nil {
		return buffer
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	buffer = s.buffers[region]
	if buffer == nil {
		buffer = NewTimeSeriesBuffer(s.capacity)
		s.buffers[region] = buffer
	}
	return buffer
}
