package forecaster

import (
	"time"

	"capacityengine/models"
)

// Model is one forecasting strategy. It extrapolates a region's load curve
// from recent sample history to a single future point in time. Models fill
// PredictedLoad and Confidence; the ensemble derives RecommendedInstances.
type Model interface {
	Name() string
	Algorithm() string
	MinSamples() int
	Forecast(history []*models.MetricSample, at time.Time) *models.PredictionWindow
}

// DefaultModels is the standard ensemble membership, ordered from most to
// least demanding of history.
func DefaultModels() []Model {
	return []Model{
		NewTrendModel(),
		NewSeasonalModel(),
		NewMovingAverageModel(),
	}
}

func clampConfidence(confidence, min, max float64) float64 {
	if confidence < min {
		return min
	}
	if confidence > max {
		return max
	}
	return confidence
}
