package analyze

import (
	"spendcast/internal/model"
)

// trendSlopeThreshold classifies a monthly slope as a real trend. Slopes
// inside the band are reported stable.
const trendSlopeThreshold = 100.0

// ClassifyTrend maps a monthly slope to a trend direction using threshold.
func ClassifyTrend(slope, threshold float64) model.Trend {
	switch {
	case slope > threshold:
		return model.TrendIncreasing
	case slope < -threshold:
		return model.TrendDecreasing
	default:
		return model.TrendStable
	}
}

// Patterns computes the full spending pattern summary for a dataset. Every
// aggregation degrades to zero/stable defaults when it has fewer than two
// data points; this never fails.
func Patterns(ds model.Dataset) model.Patterns {
	monthly := MonthlyExpenseTotals(ds)
	totals := Totals(monthly)

	overall := model.TrendSummary{Direction: model.TrendStable}
	switch {
	case len(totals) >= 2:
		fit := FitIndexed(totals)
		overall.Slope = fit.Slope
		overall.Direction = ClassifyTrend(fit.Slope, trendSlopeThreshold)
		overall.MonthlyAverage = Mean(totals)
		overall.MonthlyStd = PopStd(totals)
	case len(totals) == 1:
		// A single month has no trend; report the per-transaction mean.
		var amts []float64
		for _, tx := range ds.Transactions {
			if amt := tx.ExpenseAmount(); amt > 0 {
				amts = append(amts, amt)
			}
		}
		overall.MonthlyAverage = Mean(amts)
	}

	var grandTotal float64
	for _, t := range totals {
		grandTotal += t
	}

	cats := make(map[string]model.CategoryPattern)
	txCounts := make(map[string]int)
	for _, tx := range ds.Transactions {
		if tx.ExpenseAmount() > 0 {
			txCounts[tx.Category]++
		}
	}
	for cat, mts := range CategoryMonthlyTotals(ds) {
		vs := Totals(mts)
		var catTotal float64
		for _, v := range vs {
			catTotal += v
		}
		pct := 0.0
		if grandTotal > 0 {
			pct = catTotal / grandTotal * 100
		}
		cats[cat] = model.CategoryPattern{
			MonthlyAverage: Mean(vs),
			MonthlyStd:     SampleStd(vs),
			Transactions:   txCounts[cat],
			PercentOfTotal: pct,
		}
	}

	return model.Patterns{
		Overall:    overall,
		Categories: cats,
		Seasonal:   SeasonalMeans(ds),
		Weekly:     WeekdayMeans(ds),
	}
}
