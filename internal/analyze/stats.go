// Package analyze computes spending aggregates and pattern summaries from a
// transaction dataset. It is purely derived state: nothing here mutates the
// dataset or the model bank.
package analyze

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"spendcast/internal/model"
)

// Mean returns the arithmetic mean of vs, or 0 for an empty slice.
func Mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	return stat.Mean(vs, nil)
}

// PopVariance returns the population variance of vs (divisor n, not n-1).
func PopVariance(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	m := Mean(vs)
	var sum float64
	for _, v := range vs {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(vs))
}

// PopStd returns the population standard deviation of vs.
func PopStd(vs []float64) float64 {
	return math.Sqrt(PopVariance(vs))
}

// SampleStd returns the sample standard deviation of vs (divisor n-1), or 0
// with fewer than two values.
func SampleStd(vs []float64) float64 {
	if len(vs) < 2 {
		return 0
	}
	return math.Sqrt(stat.Variance(vs, nil))
}

// CoV returns the coefficient of variation of vs, or 0 when the mean is 0.
func CoV(vs []float64) float64 {
	m := Mean(vs)
	if m == 0 {
		return 0
	}
	return PopStd(vs) / m
}

// LinearFit is a least squares line fit over an index sequence.
type LinearFit struct {
	Slope     float64
	Intercept float64
	R2        float64
}

// FitIndexed fits y = intercept + slope*i over i = 0..len(ys)-1. With fewer
// than two points the fit degrades to a flat line at the single value.
func FitIndexed(ys []float64) LinearFit {
	if len(ys) == 0 {
		return LinearFit{}
	}
	if len(ys) == 1 {
		return LinearFit{Intercept: ys[0]}
	}
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r := stat.RSquared(xs, ys, nil, alpha, beta)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		r = 0
	}
	if math.IsNaN(beta) {
		beta = 0
	}
	if math.IsNaN(alpha) {
		alpha = 0
	}
	return LinearFit{Slope: beta, Intercept: alpha, R2: r}
}

// MonthTotal pairs a calendar month with its expense total.
type MonthTotal struct {
	Month model.Month
	Total float64
}

// MonthlyExpenseTotals returns per-month expense totals in chronological
// order. Months with no expenses are omitted entirely rather than reported
// as zero.
func MonthlyExpenseTotals(ds model.Dataset) []MonthTotal {
	byMonth := make(map[model.Month]float64)
	for _, tx := range ds.Transactions {
		if amt := tx.ExpenseAmount(); amt > 0 {
			byMonth[model.MonthOf(tx.Date)] += amt
		}
	}
	out := make([]MonthTotal, 0, len(byMonth))
	for m, total := range byMonth {
		out = append(out, MonthTotal{Month: m, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// Totals extracts just the amounts from a chronological MonthTotal slice.
func Totals(mts []MonthTotal) []float64 {
	vs := make([]float64, len(mts))
	for i, mt := range mts {
		vs[i] = mt.Total
	}
	return vs
}

// CategoryMonthlyTotals returns expense totals per category per month.
func CategoryMonthlyTotals(ds model.Dataset) map[string][]MonthTotal {
	byCat := make(map[string]map[model.Month]float64)
	for _, tx := range ds.Transactions {
		amt := tx.ExpenseAmount()
		if amt <= 0 {
			continue
		}
		m, ok := byCat[tx.Category]
		if !ok {
			m = make(map[model.Month]float64)
			byCat[tx.Category] = m
		}
		m[model.MonthOf(tx.Date)] += amt
	}
	out := make(map[string][]MonthTotal, len(byCat))
	for cat, byMonth := range byCat {
		mts := make([]MonthTotal, 0, len(byMonth))
		for m, total := range byMonth {
			mts = append(mts, MonthTotal{Month: m, Total: total})
		}
		sort.Slice(mts, func(i, j int) bool { return mts[i].Month.Before(mts[j].Month) })
		out[cat] = mts
	}
	return out
}

// SeasonalMeans returns the mean expense transaction amount per calendar
// month. The mean is over individual transactions, not monthly totals.
func SeasonalMeans(ds model.Dataset) map[time.Month]float64 {
	sums := make(map[time.Month]float64)
	counts := make(map[time.Month]int)
	for _, tx := range ds.Transactions {
		if amt := tx.ExpenseAmount(); amt > 0 {
			sums[tx.Date.Month()] += amt
			counts[tx.Date.Month()]++
		}
	}
	out := make(map[time.Month]float64, len(sums))
	for m, sum := range sums {
		out[m] = sum / float64(counts[m])
	}
	return out
}

// WeekdayMeans returns the mean expense transaction amount per weekday.
func WeekdayMeans(ds model.Dataset) map[time.Weekday]float64 {
	sums := make(map[time.Weekday]float64)
	counts := make(map[time.Weekday]int)
	for _, tx := range ds.Transactions {
		if amt := tx.ExpenseAmount(); amt > 0 {
			sums[tx.Date.Weekday()] += amt
			counts[tx.Date.Weekday()]++
		}
	}
	out := make(map[time.Weekday]float64, len(sums))
	for d, sum := range sums {
		out[d] = sum / float64(counts[d])
	}
	return out
}

// TrailingTrendSlope fits a line over the monthly expense totals of
// transactions within windowDays before ref and returns its slope. Fewer
// than two months inside the window yields 0.
func TrailingTrendSlope(ds model.Dataset, ref time.Time, windowDays int) float64 {
	cutoff := ref.AddDate(0, 0, -windowDays)
	byMonth := make(map[model.Month]float64)
	for _, tx := range ds.Transactions {
		if tx.Date.Before(cutoff) {
			continue
		}
		if amt := tx.ExpenseAmount(); amt > 0 {
			byMonth[model.MonthOf(tx.Date)] += amt
		}
	}
	if len(byMonth) < 2 {
		return 0
	}
	months := make([]model.Month, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	ys := make([]float64, len(months))
	for i, m := range months {
		ys[i] = byMonth[m]
	}
	return FitIndexed(ys).Slope
}
