package models

// PredictionWindow is one forecast point: the load expected at Timestamp and
// the instance count recommended to carry it.
type PredictionWindow struct {
	Timestamp            int64   `json:"timestamp"`
	PredictedLoad        float64 `json:"predicted_load"`
	Confidence           float64 `json:"confidence"`
	RecommendedInstances int     `json:"recommended_instances"`
}

// PredictiveModel is the trained state of one forecasting strategy for one
// region. Predictions are replaced wholesale on every retrain cycle, never
// mutated in place.
type PredictiveModel struct {
	Name             string              `json:"name"`
	Algorithm        string              `json:"algorithm"`
	FeatureList      []string            `json:"feature_list"`
	AccuracyEstimate float64             `json:"accuracy_estimate"`
	LastTrainedAt    int64               `json:"last_trained_at"`
	Predictions      []*PredictionWindow `json:"predictions"`
}
