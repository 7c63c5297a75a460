package model

import "time"

// Tier is the forecasting strategy selected from the amount of history.
type Tier string

// Strategy tiers, keyed by the number of distinct historical months.
const (
	TierStatistical Tier = "statistical"   // fewer than 3 months
	TierSimplified  Tier = "simplified_ml" // 3 to 6 months
	TierEnsemble    Tier = "ensemble_ml"   // 7 or more months
)

// ModelKind tags the aggregate model variant stored in a Bank.
type ModelKind string

// Aggregate model kinds.
const (
	KindForest      ModelKind = "forest"
	KindLinear      ModelKind = "linear"
	KindStatistical ModelKind = "statistical"
)

// TreeNode is one node of a regression tree. Leaf nodes carry Value; internal
// nodes split on Feature at Threshold.
type TreeNode struct {
	Leaf      bool      `json:"leaf"`
	Value     float64   `json:"value,omitempty"`
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *TreeNode `json:"left,omitempty"`
	Right     *TreeNode `json:"right,omitempty"`
}

// ForestModel is a bagged ensemble of regression trees.
type ForestModel struct {
	Trees []*TreeNode `json:"trees"`
}

// LinearModel is an ordinary least squares fit over standardized features.
type LinearModel struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// Scaler standardizes feature vectors to zero mean and unit variance.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Transform returns the standardized copy of features.
func (s *Scaler) Transform(features []float64) []float64 {
	out := make([]float64, len(features))
	for i, v := range features {
		sd := 1.0
		if i < len(s.Std) && s.Std[i] != 0 {
			sd = s.Std[i]
		}
		mean := 0.0
		if i < len(s.Mean) {
			mean = s.Mean[i]
		}
		out[i] = (v - mean) / sd
	}
	return out
}

// StatisticalModel summarizes a thin dataset when no regression is trained.
type StatisticalModel struct {
	DailyAverage     float64            `json:"daily_average"`
	MonthlyAverage   float64            `json:"monthly_average"`
	CategoryAverages map[string]float64 `json:"category_averages"`
	TotalExpenses    float64            `json:"total_expenses"`
	TransactionCount int                `json:"transaction_count"`
	DateRangeDays    int                `json:"date_range_days"`
}

// AggregateModel is the tagged variant holding whichever aggregate model the
// last training produced. Exactly one of the pointers matching Kind is set.
type AggregateModel struct {
	Kind        ModelKind         `json:"kind"`
	Forest      *ForestModel      `json:"forest,omitempty"`
	Linear      *LinearModel      `json:"linear,omitempty"`
	Statistical *StatisticalModel `json:"statistical,omitempty"`
}

// CategoryModel is a per-category linear trend fit of monthly totals.
type CategoryModel struct {
	Slope         float64 `json:"slope"`
	Intercept     float64 `json:"intercept"`
	Average       float64 `json:"average"`
	Std           float64 `json:"std"`
	LastValue     float64 `json:"last_value"`
	MonthsTrained int     `json:"months_trained"`
}

// Bank holds all trained forecasting state. It is the only mutable, persisted
// state of the engine: training replaces it, prediction reads it.
type Bank struct {
	Aggregate  AggregateModel           `json:"aggregate"`
	Scaler     *Scaler                  `json:"scaler,omitempty"`
	Categories map[string]CategoryModel `json:"category_models"`
	Seasonal   map[time.Month]float64   `json:"seasonal_patterns"`
	TrainedAt  time.Time                `json:"trained_at"`
}

// Trained reports whether the bank holds any usable aggregate model.
func (b Bank) Trained() bool {
	return b.Aggregate.Kind != ""
}

// ModelScore holds evaluation metrics for one candidate model.
type ModelScore struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
}

// TrainingReport is the structured result of one training run. Failures are
// reported here rather than as errors so a degraded service keeps serving.
type TrainingReport struct {
	Success         bool                  `json:"success"`
	Message         string                `json:"message"`
	Tier            Tier                  `json:"tier"`
	ModelScores     map[string]ModelScore `json:"model_scores,omitempty"`
	BestModel       string                `json:"best_model,omitempty"`
	TrainingSamples int                   `json:"training_samples"`
	CategoryModels  int                   `json:"category_models"`
	Warnings        []string              `json:"warnings,omitempty"`
}
