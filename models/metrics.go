package models

// MetricSample is one per-region telemetry reading. Samples are append-only
// and retained in a bounded time-ordered buffer.
type MetricSample struct {
	Timestamp      int64   `json:"timestamp"`
	Region         string  `json:"region"`
	InstanceCount  int     `json:"instance_count"`
	CPUPct         float64 `json:"cpu_pct"`
	MemPct         float64 `json:"mem_pct"`
	RequestRate    float64 `json:"request_rate"`
	ResponseTimeMs float64 `json:"response_time_ms"`
	QueueDepth     float64 `json:"queue_depth"`
	ErrorRatePct   float64 `json:"error_rate_pct"`
	Cost           float64 `json:"cost"`
}

func (m *MetricSample) GetTimestamp() int64 {
	return m.Timestamp
}

// Load is the capacity consumed by the region at sampling time, expressed in
// instance units: a region running 5 instances at 80% CPU carries a load of 4.
func (m *MetricSample) Load() float64 {
	return m.CPUPct / 100 * float64(m.InstanceCount)
}
