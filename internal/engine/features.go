// Package engine trains expense forecasting models and produces predictions.
// It owns strategy selection, model training and scoring, and the aggregate
// and per-category forecasters.
package engine

import (
	"sort"

	"spendcast/internal/analyze"
	"spendcast/internal/model"
)

// FeatureCount is the fixed width of the regression feature vector.
const FeatureCount = 11

const (
	trailingTrendWindowDays = 90
	trailingTrendMinTxns    = 30
)

func festivalMonth(m model.Month) bool {
	return m.Month >= 10 // Oct, Nov, Dec
}

func offSeasonMonth(m model.Month) bool {
	return m.Month >= 6 && m.Month <= 8 // Jun, Jul, Aug
}

// BuildFeatures builds the regression feature vector for a target month:
// the six preceding months' expense totals (0 when absent), the calendar
// month number, the weekday of the 1st, festival and off-season flags, and
// a 90-day trailing trend slope when the dataset is large enough to make
// one meaningful.
func BuildFeatures(ds model.Dataset, target model.Month) []float64 {
	byMonth := make(map[model.Month]float64)
	for _, tx := range ds.Transactions {
		if amt := tx.ExpenseAmount(); amt > 0 {
			byMonth[model.MonthOf(tx.Date)] += amt
		}
	}

	features := make([]float64, 0, FeatureCount)
	first := target.First()
	for i := 1; i <= 6; i++ {
		prev := model.MonthOf(first.AddDate(0, -i, 0))
		features = append(features, byMonth[prev])
	}
	features = append(features,
		float64(target.Month),
		float64(first.Weekday()),
		boolFeature(festivalMonth(target)),
		boolFeature(offSeasonMonth(target)),
	)

	slope := 0.0
	if ds.Len() > trailingTrendMinTxns {
		slope = analyze.TrailingTrendSlope(ds, first, trailingTrendWindowDays)
	}
	features = append(features, slope)
	return features
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// BuildTrainingSet slides the feature window across history: each month
// from the seventh onward becomes one example labeled with its actual
// expense total. Months with zero recorded expense are excluded; they are
// not informative negative examples.
func BuildTrainingSet(ds model.Dataset) (features [][]float64, labels []float64) {
	expense := make(map[model.Month]float64)
	all := make(map[model.Month]bool)
	for _, tx := range ds.Transactions {
		m := model.MonthOf(tx.Date)
		all[m] = true
		if amt := tx.ExpenseAmount(); amt > 0 {
			expense[m] += amt
		}
	}

	months := make([]model.Month, 0, len(all))
	for m := range all {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	for i := 6; i < len(months); i++ {
		target := months[i]
		label := expense[target]
		if label <= 0 {
			continue
		}
		features = append(features, BuildFeatures(ds, target))
		labels = append(labels, label)
	}
	return features, labels
}
