package models

const (
	ScalingActionUp   = "scale_up"
	ScalingActionDown = "scale_down"
	ScalingActionNone = "no_action"

	ScalingTriggerReactive       = "reactive"
	ScalingTriggerPredictive     = "predictive"
	ScalingTriggerHybrid         = "hybrid"
	ScalingTriggerInitialization = "initialization"

	ReasonCooldown = "cooldown"
)

// ScalingDecision is the evaluator's verdict for one region on one
// evaluation tick.
type ScalingDecision struct {
	Region          string `json:"region"`
	Action          string `json:"action"`
	TargetInstances int    `json:"target_instances"`
	Trigger         string `json:"trigger"`
	Reason          string `json:"reason"`
}

// ScalingEvent is the immutable audit record of one attempted scaling
// action. Events are created only by the scaling engine.
type ScalingEvent struct {
	Id            string  `json:"id"`
	Timestamp     int64   `json:"timestamp"`
	Region        string  `json:"region"`
	Action        string  `json:"action"`
	Trigger       string  `json:"trigger"`
	FromInstances int     `json:"from_instances"`
	ToInstances   int     `json:"to_instances"`
	DurationMs    int64   `json:"duration_ms"`
	Success       bool    `json:"success"`
	Reason        string  `json:"reason"`
	Cost          float64 `json:"cost"`
}

func (e *ScalingEvent) GetTimestamp() int64 {
	return e.Timestamp
}

// ScalingMetrics is the aggregated reporting snapshot served to the
// dashboard layer.
type ScalingMetrics struct {
	CurrentInstances   map[string]int `json:"current_instances"`
	TotalInstances     int            `json:"total_instances"`
	TotalCost          float64        `json:"total_cost"`
	AverageUtilization float64        `json:"average_utilization"`
	ScalingEventCount  int            `json:"scaling_event_count"`
	Efficiency         float64        `json:"efficiency"`
}
