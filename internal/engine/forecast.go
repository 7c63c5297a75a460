package engine

import (
	"time"

	"spendcast/internal/analyze"
	"spendcast/internal/model"
)

// aggregateTrendThreshold classifies the aggregate monthly slope; the wider
// band reflects that aggregate totals swing more than single categories.
const aggregateTrendThreshold = 500.0

const categoryTrendThreshold = 100.0

// Degenerate is the well-formed zero result returned when there is nothing
// to predict from.
func Degenerate() model.PredictionResult {
	return model.PredictionResult{
		Confidence:     0.1,
		Trend:          model.TrendUnknown,
		SeasonalFactor: 1.0,
	}
}

// Forecast predicts total expenses for the target month using the trained
// bank. It always returns a well-formed result, degrading instead of
// failing on empty or pathological input.
func Forecast(bank model.Bank, ds model.Dataset, target model.Month) model.PredictionResult {
	monthly := analyze.MonthlyExpenseTotals(ds)
	if !bank.Trained() || len(monthly) == 0 {
		return Degenerate()
	}
	if bank.Aggregate.Kind == model.KindStatistical {
		return forecastStatistical(bank.Aggregate.Statistical)
	}
	return forecastRegression(bank, ds, target, analyze.Totals(monthly))
}

func forecastStatistical(sm *model.StatisticalModel) model.PredictionResult {
	predicted := sm.DailyAverage * 30
	confidence := 0.3 + float64(sm.TransactionCount)/30*0.3
	if confidence > 0.6 {
		confidence = 0.6
	}
	uncertainty := predicted * 0.4
	return model.PredictionResult{
		PredictedAmount:   predicted,
		Confidence:        confidence,
		Trend:             model.TrendStable,
		SeasonalFactor:    1.0,
		HistoricalAverage: sm.DailyAverage,
		Range: model.PredictionRange{
			Min: max(0, predicted-uncertainty),
			Max: predicted + uncertainty,
		},
	}
}

func forecastRegression(bank model.Bank, ds model.Dataset, target model.Month, totals []float64) model.PredictionResult {
	features := BuildFeatures(ds, target)

	var predicted float64
	switch bank.Aggregate.Kind {
	case model.KindLinear:
		scaled := features
		if bank.Scaler != nil {
			scaled = bank.Scaler.Transform(features)
		}
		predicted = predictLinear(bank.Aggregate.Linear, scaled)
	default:
		predicted = predictForest(bank.Aggregate.Forest, features)
	}

	factor := seasonalFactor(bank.Seasonal, target.Month)
	predicted *= factor
	if predicted < 0 {
		predicted = 0
	}

	confidence := 0.5
	if len(totals) > 1 && predicted > 0 {
		variance := analyze.PopVariance(totals)
		confidence = clamp(0.1, 0.9, 1-variance/(predicted*predicted))
	}

	trend := model.TrendStable
	if len(totals) >= 3 {
		trend = analyze.ClassifyTrend(analyze.FitIndexed(totals).Slope, aggregateTrendThreshold)
	}

	historicalAvg := predicted
	if len(totals) > 0 {
		historicalAvg = analyze.Mean(totals)
	}
	std := predicted * 0.2
	if len(totals) > 1 {
		std = analyze.PopStd(totals)
	}

	return model.PredictionResult{
		PredictedAmount:   predicted,
		Confidence:        confidence,
		Trend:             trend,
		SeasonalFactor:    factor,
		HistoricalAverage: historicalAvg,
		Range: model.PredictionRange{
			Min: max(0, predicted-1.96*std),
			Max: predicted + 1.96*std,
		},
	}
}

// seasonalFactor normalizes the target month's seasonal average against the
// mean across all months. Every zero denominator falls back to 1.0.
func seasonalFactor(seasonal map[time.Month]float64, target time.Month) float64 {
	raw, ok := seasonal[target]
	if !ok {
		raw = 1.0
	}
	if raw <= 0 || len(seasonal) == 0 {
		return 1.0
	}
	var sum float64
	for _, v := range seasonal {
		sum += v
	}
	avg := sum / float64(len(seasonal))
	if avg <= 0 {
		return 1.0
	}
	return raw / avg
}

func clamp(lo, hi, v float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
