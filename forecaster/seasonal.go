package forecaster

import (
	"math"
	"time"

	"capacityengine/models"
)

const (
	seasonalMinSamples  = 12
	seasonalTrendWindow = 6
	seasonalConfidence  = 0.75

	// shape of the deterministic daily load curve
	dailyAmplitude = 0.35
	dailyPeakHour  = 15
	weekendFactor  = 0.75
)

// SeasonalModel extrapolates a short-window trend and layers a deterministic
// time-of-day and day-of-week adjustment on top of it. Confidence is fixed:
// the seasonal shape is assumed, not fitted.
type SeasonalModel struct{}

func NewSeasonalModel() *SeasonalModel {
	return &SeasonalModel{}
}

func (m *SeasonalModel) Name() string {
	return "seasonal"
}

func (m *SeasonalModel) Algorithm() string {
	return "trend_seasonal"
}

func (m *SeasonalModel) MinSamples() int {
	return seasonalMinSamples
}

func (m *SeasonalModel) Forecast(history []*models.MetricSample, at time.Time) *models.PredictionWindow {
	recent := history
	if len(recent) > seasonalTrendWindow {
		recent = recent[len(recent)-seasonalTrendWindow:]
	}
	slope, intercept, _ := fitLoadLine(recent)

	t0 := recent[0].Timestamp
	x := float64(at.UnixNano()-t0) / float64(time.Second)
	base := intercept + slope*x

	lastAt := time.Unix(0, recent[len(recent)-1].Timestamp)
	adjusted := base * SeasonalFactor(at) / SeasonalFactor(lastAt)
	if adjusted < 0 {
		adjusted = 0
	}

	return &models.PredictionWindow{
		Timestamp:     at.UnixNano(),
		PredictedLoad: adjusted,
		Confidence:    seasonalConfidence,
	}
}

// SeasonalFactor is the deterministic relative load expected at t: a daily
// sinusoid peaking mid-afternoon, damped on weekends. Always positive.
func SeasonalFactor(t time.Time) float64 {
	hour := float64(t.Hour()) + float64(t.Minute())/60
	factor := 1 + dailyAmplitude*math.Cos((hour-dailyPeakHour)/24*2*math.Pi)
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		factor *= weekendFactor
	}
	return factor
}
