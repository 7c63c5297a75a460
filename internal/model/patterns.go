package model

import "time"

// TrendSummary describes the overall monthly spending trend.
type TrendSummary struct {
	Slope          float64 `json:"slope"`
	Direction      Trend   `json:"direction"`
	MonthlyAverage float64 `json:"monthly_average"`
	MonthlyStd     float64 `json:"monthly_std"`
}

// CategoryPattern holds per-category monthly statistics.
type CategoryPattern struct {
	MonthlyAverage float64 `json:"monthly_average"`
	MonthlyStd     float64 `json:"monthly_std"`
	Transactions   int     `json:"total_transactions"`
	PercentOfTotal float64 `json:"percentage_of_total"`
}

// Patterns is the output of pattern analysis over a dataset.
type Patterns struct {
	Overall    TrendSummary               `json:"overall_trend"`
	Categories map[string]CategoryPattern `json:"category_patterns"`
	// Seasonal maps calendar month to the average expense transaction
	// amount observed in that month.
	Seasonal map[time.Month]float64 `json:"seasonal_patterns"`
	// Weekly maps weekday to the average expense transaction amount.
	Weekly map[time.Weekday]float64 `json:"weekly_patterns"`
}
