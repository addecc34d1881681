package forecaster

import (
	"time"

	"capacityengine/models"
)

const (
	movingAverageMinSamples = 3
	movingAverageWindow     = 5
	movingAverageConfidence = 0.5
)

// MovingAverageModel predicts the mean load of the most recent samples. It
// is the fallback when history is too thin for the fitted models, so it
// carries the lowest confidence in the ensemble.
type MovingAverageModel struct{}

func NewMovingAverageModel() *MovingAverageModel {
	return &MovingAverageModel{}
}

func (m *MovingAverageModel) Name() string {
	return "moving_average"
}

func (m *MovingAverageModel) Algorithm() string {
	return "moving_average"
}

func (m *MovingAverageModel) MinSamples() int {
	return movingAverageMinSamples
}

func (m *MovingAverageModel) Forecast(history []*models.MetricSample, at time.Time) *models.PredictionWindow {
	recent := history
	if len(recent) > movingAverageWindow {
		recent = recent[len(recent)-movingAverageWindow:]
	}

	var sum float64
	for _, sample := range recent {
		sum += sample.Load()
	}

	return &models.PredictionWindow{
		Timestamp:     at.UnixNano(),
		PredictedLoad: sum / float64(len(recent)),
		Confidence:    movingAverageConfidence,
	}
}
