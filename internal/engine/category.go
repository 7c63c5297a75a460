package engine

import (
	"sort"

	"spendcast/internal/analyze"
	"spendcast/internal/model"
)

// ForecastCategories breaks the aggregate forecast down by category.
// Categories with trend models extrapolate one step; the rest fall back to
// their historical monthly average. Results are normalized so category
// amounts sum exactly to the aggregate prediction, then sorted by amount
// descending.
func ForecastCategories(bank model.Bank, ds model.Dataset, target model.Month, aggregate model.PredictionResult) []model.CategoryPrediction {
	factor := seasonalFactor(bank.Seasonal, target.Month)

	var predictions []model.CategoryPrediction
	for cat, cm := range bank.Categories {
		predicted := cm.Intercept + cm.Slope*float64(cm.MonthsTrained)
		predicted *= factor
		if predicted < 0 {
			predicted = 0
		}

		confidence := 0.5
		if cm.Average > 0 {
			confidence = 1 - cm.Std/cm.Average
		}
		confidence = clamp(0.3, 0.9, confidence)

		predictions = append(predictions, model.CategoryPrediction{
			Category:        cat,
			PredictedAmount: predicted,
			Confidence:      confidence,
			Trend:           analyze.ClassifyTrend(cm.Slope, categoryTrendThreshold),
		})
	}

	// Categories seen in the data but never modeled still get a line in
	// the breakdown, priced at their historical monthly average.
	for cat, mts := range analyze.CategoryMonthlyTotals(ds) {
		if cat == model.CategoryIncome {
			continue
		}
		if _, ok := bank.Categories[cat]; ok {
			continue
		}
		avg := analyze.Mean(analyze.Totals(mts))
		if avg <= 0 {
			continue
		}
		predictions = append(predictions, model.CategoryPrediction{
			Category:        cat,
			PredictedAmount: avg,
			Confidence:      0.6,
			Trend:           model.TrendStable,
		})
	}

	var total float64
	for _, p := range predictions {
		total += p.PredictedAmount
	}
	if total > 0 && aggregate.PredictedAmount > 0 {
		scale := aggregate.PredictedAmount / total
		for i := range predictions {
			predictions[i].PredictedAmount *= scale
			predictions[i].PercentOfTotal = predictions[i].PredictedAmount / aggregate.PredictedAmount * 100
		}
	}

	sort.Slice(predictions, func(i, j int) bool {
		if predictions[i].PredictedAmount != predictions[j].PredictedAmount {
			return predictions[i].PredictedAmount > predictions[j].PredictedAmount
		}
		return predictions[i].Category < predictions[j].Category
	})
	return predictions
}
