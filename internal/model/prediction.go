package model

// Trend classifies the direction of monthly spending.
type Trend string

// Trend values. Unknown is only emitted for degenerate inputs (no expense
// history at all).
const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
	TrendUnknown    Trend = "unknown"
)

// PredictionRange is the uncertainty interval around a prediction.
// Min is clamped at 0.
type PredictionRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PredictionResult is the aggregate forecast for one target month.
type PredictionResult struct {
	PredictedAmount   float64         `json:"predicted_amount"`
	Confidence        float64         `json:"confidence"`
	Trend             Trend           `json:"trend"`
	SeasonalFactor    float64         `json:"seasonal_factor"`
	HistoricalAverage float64         `json:"historical_average"`
	Range             PredictionRange `json:"prediction_range"`
}

// CategoryPrediction is one category's share of the aggregate forecast.
// After normalization the predicted amounts of all categories in a forecast
// sum to the aggregate PredictedAmount and the percentages sum to 100.
type CategoryPrediction struct {
	Category        string  `json:"category"`
	PredictedAmount float64 `json:"predicted_amount"`
	Confidence      float64 `json:"confidence"`
	Trend           Trend   `json:"trend"`
	PercentOfTotal  float64 `json:"percentage_of_total"`
}
