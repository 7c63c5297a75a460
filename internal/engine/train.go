package engine

import (
	"fmt"
	"math"
	"sort"
	"time"

	"spendcast/internal/analyze"
	"spendcast/internal/model"
)

// Month thresholds for strategy selection.
const (
	minMonthsSimplified = 3
	minMonthsEnsemble   = 7
)

// Category trend models need this much history to be worth fitting.
const (
	categoryMinTxns   = 10
	categoryMinMonths = 4
)

// TierFor selects the training strategy from the number of distinct
// historical months. It is recomputed on every training call; richer data
// can move a dataset up a tier.
func TierFor(distinctMonths int) model.Tier {
	switch {
	case distinctMonths < minMonthsSimplified:
		return model.TierStatistical
	case distinctMonths < minMonthsEnsemble:
		return model.TierSimplified
	default:
		return model.TierEnsemble
	}
}

// Train fits a fresh model bank from the dataset. Failures are reported in
// the TrainingReport rather than returned as errors so callers can keep
// serving with whatever model survives.
func Train(ds model.Dataset) (model.Bank, model.TrainingReport) {
	bank := model.Bank{TrainedAt: time.Now()}
	report := model.TrainingReport{}

	if ds.Empty() {
		report.Message = "no transactions to train on"
		return bank, report
	}

	bank.Seasonal = analyze.SeasonalMeans(ds)

	tier := TierFor(ds.DistinctMonths())
	report.Tier = tier
	switch tier {
	case model.TierStatistical:
		report.Warnings = append(report.Warnings, "fewer than 3 historical months, using statistical prediction")
		return trainStatistical(ds, bank, report)
	case model.TierSimplified:
		report.Warnings = append(report.Warnings, "fewer than 7 historical months, regression quality may be poor")
	}
	return trainRegression(ds, bank, report)
}

func trainStatistical(ds model.Dataset, bank model.Bank, report model.TrainingReport) (model.Bank, model.TrainingReport) {
	var (
		total     float64
		count     int
		first     time.Time
		last      time.Time
		byCatSum  = make(map[string]float64)
		byCatTxns = make(map[string]int)
	)
	for _, tx := range ds.Transactions {
		amt := tx.ExpenseAmount()
		if amt <= 0 {
			continue
		}
		total += amt
		count++
		byCatSum[tx.Category] += amt
		byCatTxns[tx.Category]++
		if first.IsZero() || tx.Date.Before(first) {
			first = tx.Date
		}
		if tx.Date.After(last) {
			last = tx.Date
		}
	}
	if count == 0 {
		report.Message = "no expense data available"
		return bank, report
	}

	rangeDays := int(last.Sub(first).Hours()/24) + 1
	if rangeDays < 1 {
		rangeDays = 1
	}
	catAvgs := make(map[string]float64, len(byCatSum))
	for cat, sum := range byCatSum {
		catAvgs[cat] = sum / float64(byCatTxns[cat])
	}

	bank.Aggregate = model.AggregateModel{
		Kind: model.KindStatistical,
		Statistical: &model.StatisticalModel{
			DailyAverage:     total / float64(rangeDays),
			MonthlyAverage:   total * 30 / float64(rangeDays),
			CategoryAverages: catAvgs,
			TotalExpenses:    total,
			TransactionCount: count,
			DateRangeDays:    rangeDays,
		},
	}
	report.Success = true
	report.Message = fmt.Sprintf("statistical model trained with %d transactions", count)
	return bank, report
}

func trainRegression(ds model.Dataset, bank model.Bank, report model.TrainingReport) (model.Bank, model.TrainingReport) {
	features, labels := BuildTrainingSet(ds)
	if len(features) == 0 {
		report.Message = "no valid training examples"
		return bank, report
	}
	report.TrainingSamples = len(labels)

	forest := trainForest(features, labels)
	scaler := fitScaler(features)
	scaled := scaleAll(scaler, features)

	scores := map[string]model.ModelScore{
		"random_forest": scoreModel(labels, predictAll(features, func(f []float64) float64 {
			return predictForest(forest, f)
		})),
	}
	candidates := map[string]model.AggregateModel{
		"random_forest": {Kind: model.KindForest, Forest: forest},
	}

	linear, err := fitLinear(scaled, labels)
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("linear model fit failed: %v", err))
	} else {
		scores["linear_regression"] = scoreModel(labels, predictAll(scaled, func(f []float64) float64 {
			return predictLinear(linear, f)
		}))
		candidates["linear_regression"] = model.AggregateModel{Kind: model.KindLinear, Linear: linear}
	}

	best := ""
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if best == "" || scores[name].R2 > scores[best].R2 {
			best = name
		}
	}
	bank.Aggregate = candidates[best]
	bank.Scaler = scaler
	bank.Categories = trainCategoryModels(ds)

	report.Success = true
	report.ModelScores = scores
	report.BestModel = best
	report.CategoryModels = len(bank.Categories)
	report.Message = fmt.Sprintf("trained %d models on %d samples, kept %s", len(scores), len(labels), best)
	return bank, report
}

// trainCategoryModels fits a linear monthly trend per category. Categories
// with too little history get no model and fall back to historical averages
// at prediction time.
func trainCategoryModels(ds model.Dataset) map[string]model.CategoryModel {
	txCounts := make(map[string]int)
	for _, tx := range ds.Transactions {
		if tx.ExpenseAmount() > 0 {
			txCounts[tx.Category]++
		}
	}

	out := make(map[string]model.CategoryModel)
	for cat, mts := range analyze.CategoryMonthlyTotals(ds) {
		if cat == model.CategoryIncome || txCounts[cat] < categoryMinTxns || len(mts) < categoryMinMonths {
			continue
		}
		totals := analyze.Totals(mts)
		fit := analyze.FitIndexed(totals)
		out[cat] = model.CategoryModel{
			Slope:         fit.Slope,
			Intercept:     fit.Intercept,
			Average:       analyze.Mean(totals),
			Std:           analyze.PopStd(totals),
			LastValue:     totals[len(totals)-1],
			MonthsTrained: len(totals),
		}
	}
	return out
}

func predictAll(features [][]float64, predict func([]float64) float64) []float64 {
	out := make([]float64, len(features))
	for i, f := range features {
		out[i] = predict(f)
	}
	return out
}

func scoreModel(actual, predicted []float64) model.ModelScore {
	n := float64(len(actual))
	var absSum, sqSum float64
	for i := range actual {
		d := predicted[i] - actual[i]
		absSum += math.Abs(d)
		sqSum += d * d
	}
	mean := analyze.Mean(actual)
	var totSS float64
	for _, y := range actual {
		d := y - mean
		totSS += d * d
	}
	r2 := 0.0
	if totSS > 0 {
		r2 = 1 - sqSum/totSS
	}
	return model.ModelScore{
		MAE:  absSum / n,
		RMSE: math.Sqrt(sqSum / n),
		R2:   r2,
	}
}
