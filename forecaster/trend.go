package forecaster

import (
	"time"

	"capacityengine/models"
)

const (
	trendMinSamples    = 6
	trendMinConfidence = 0.3
	trendMaxConfidence = 0.95
)

// TrendModel fits a least-squares line through the load history and
// extrapolates it. Confidence is the goodness of fit (R²) clamped to
// [0.3, 0.95] so a lucky fit never fully dominates the ensemble.
type TrendModel struct{}

func NewTrendModel() *TrendModel {
	return &TrendModel{}
}

func (m *TrendModel) Name() string {
	return "trend"
}

func (m *TrendModel) Algorithm() string {
	return "linear_regression"
}

func (m *TrendModel) MinSamples() int {
	return trendMinSamples
}

func (m *TrendModel) Forecast(history []*models.MetricSample, at time.Time) *models.PredictionWindow {
	slope, intercept, r2 := fitLoadLine(history)

	t0 := history[0].Timestamp
	x := float64(at.UnixNano()-t0) / float64(time.Second)
	predicted := intercept + slope*x
	if predicted < 0 {
		predicted = 0
	}

	return &models.PredictionWindow{
		Timestamp:     at.UnixNano(),
		PredictedLoad: predicted,
		Confidence:    clampConfidence(r2, trendMinConfidence, trendMaxConfidence),
	}
}

// fitLoadLine returns the least-squares slope (load per second), intercept
// and R² of the history's load curve, with x measured in seconds from the
// first sample.
func fitLoadLine(history []*models.MetricSample) (float64, float64, float64) {
	n := float64(len(history))
	t0 := history[0].Timestamp

	var sumX, sumY, sumXX, sumXY float64
	for _, sample := range history {
		x := float64(sample.Timestamp-t0) / float64(time.Second)
		y := sample.Load()
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	denominator := n*sumXX - sumX*sumX
	if denominator == 0 {
		return 0, sumY / n, 0
	}
	slope := (n*sumXY - sumX*sumY) / denominator
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssTot, ssRes float64
	for _, sample := range history {
		x := float64(sample.Timestamp-t0) / float64(time.Second)
		y := sample.Load()
		fitted := intercept + slope*x
		ssTot += (y - meanY) * (y - meanY)
		ssRes += (y - fitted) * (y - fitted)
	}
	// float rounding leaves ssTot at ~1e-28 on flat histories, so an exact
	// zero check never fires
	if ssTot < 1e-9 {
		return slope, intercept, 1
	}
	r2 := 1 - ssRes/ssTot
	if r2 < 0 {
		r2 = 0
	}
	return slope, intercept, r2
}
