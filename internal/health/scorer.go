// Package health scores overall financial health from transaction history.
// Six weighted metrics roll up into a 0-100 score and a letter grade.
package health

import (
	"fmt"
	"strings"
	"time"

	"spendcast/internal/analyze"
	"spendcast/internal/model"
)

// Metric weights; they sum to 1.0.
const (
	weightEmergencyFund  = 0.25
	weightDebtToIncome   = 0.20
	weightSavingsRate    = 0.20
	weightStability      = 0.15
	weightBudgets        = 0.10
	weightDiversificaton = 0.10
)

// Metric is one scored dimension of financial health.
type Metric struct {
	Name           string  `json:"name"`
	Score          float64 `json:"score"`
	Weight         float64 `json:"weight"`
	Status         string  `json:"status"`
	Description    string  `json:"description"`
	Recommendation string  `json:"recommendation"`
	CurrentValue   float64 `json:"current_value"`
	TargetValue    float64 `json:"target_value"`
}

// Budget is a monthly spending limit for one category.
type Budget struct {
	Category     string  `json:"category"`
	MonthlyLimit float64 `json:"monthly_limit"`
	CurrentSpent float64 `json:"current_spent"`
}

// Goal is a savings target being worked toward.
type Goal struct {
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
}

// Score is the full health assessment.
type Score struct {
	OverallScore float64 `json:"overall_score"`
	Grade        string  `json:"grade"`
	CalculatedAt string  `json:"last_calculated"`

	EmergencyFund     Metric `json:"emergency_fund_score"`
	DebtToIncome      Metric `json:"debt_to_income_score"`
	SavingsRate       Metric `json:"savings_rate_score"`
	SpendingStability Metric `json:"spending_stability_score"`
	BudgetAdherence   Metric `json:"budget_adherence_score"`
	Diversification   Metric `json:"investment_diversification_score"`

	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	PriorityActions []string `json:"priority_actions"`
	RiskFactors     []string `json:"risk_factors"`

	ScoreTrend          string  `json:"score_trend"`
	PredictedScore      float64 `json:"predicted_3_month_score"`
	GoalsOnTrack        int     `json:"financial_goals_on_track"`
	PeerPercentile      int     `json:"peer_percentile"`
	InsufficientReason  string  `json:"insufficient_reason,omitempty"`
}

// band maps a value against excellent/good/fair/poor thresholds to a score
// and status label. higherIsBetter flips the comparison direction.
func band(value float64, thresholds [4]float64, higherIsBetter bool) (float64, string) {
	pass := func(v, t float64) bool {
		if higherIsBetter {
			return v >= t
		}
		return v <= t
	}
	switch {
	case pass(value, thresholds[0]):
		return 100, "excellent"
	case pass(value, thresholds[1]):
		return 85, "good"
	case pass(value, thresholds[2]):
		return 70, "fair"
	case pass(value, thresholds[3]):
		return 50, "poor"
	default:
		return 25, "critical"
	}
}

func gradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

type monthFlow struct {
	income  float64
	expense float64
}

func monthlyFlows(ds model.Dataset) []monthFlow {
	byMonth := make(map[model.Month]*monthFlow)
	var order []model.Month
	for _, tx := range ds.Transactions {
		m := model.MonthOf(tx.Date)
		f, ok := byMonth[m]
		if !ok {
			f = &monthFlow{}
			byMonth[m] = f
			order = append(order, m)
		}
		f.income += tx.IncomeAmount()
		f.expense += tx.ExpenseAmount()
	}
	// Transactions arrive date-sorted, so first-seen order is month order.
	flows := make([]monthFlow, len(order))
	for i, m := range order {
		flows[i] = *byMonth[m]
	}
	return flows
}

// Calculate scores the dataset. It always returns a usable Score; thin data
// degrades individual metrics to neutral 50s instead of failing.
func Calculate(ds model.Dataset, budgets []Budget, goals []Goal) Score {
	if ds.Empty() {
		return defaultScore("insufficient transaction data")
	}

	flows := monthlyFlows(ds)

	metrics := [6]Metric{
		emergencyFundScore(ds, flows),
		debtToIncomeScore(flows),
		savingsRateScore(flows),
		stabilityScore(flows),
		budgetScore(budgets),
		diversificationScore(ds),
	}

	overall := metrics[0].Score*weightEmergencyFund +
		metrics[1].Score*weightDebtToIncome +
		metrics[2].Score*weightSavingsRate +
		metrics[3].Score*weightStability +
		metrics[4].Score*weightBudgets +
		metrics[5].Score*weightDiversificaton

	strengths, weaknesses := strengthsWeaknesses(metrics[:])
	trend := scoreTrend(flows)

	return Score{
		OverallScore:      round1(overall),
		Grade:             gradeFor(overall),
		CalculatedAt:      time.Now().Format(time.RFC3339),
		EmergencyFund:     metrics[0],
		DebtToIncome:      metrics[1],
		SavingsRate:       metrics[2],
		SpendingStability: metrics[3],
		BudgetAdherence:   metrics[4],
		Diversification:   metrics[5],
		Strengths:         strengths,
		Weaknesses:        weaknesses,
		PriorityActions:   priorityActions(metrics[:]),
		RiskFactors:       riskFactors(flows, metrics[0]),
		ScoreTrend:        trend,
		PredictedScore:    predictScore(overall, trend),
		GoalsOnTrack:      goalsOnTrack(goals),
		PeerPercentile:    peerPercentile(overall),
	}
}

func emergencyFundScore(ds model.Dataset, flows []monthFlow) Metric {
	_, last := ds.DateRange()
	cutoff := last.AddDate(0, 0, -180)
	recent := make(map[model.Month]float64)
	for _, tx := range ds.Transactions {
		if tx.Date.Before(cutoff) {
			continue
		}
		if amt := tx.ExpenseAmount(); amt > 0 {
			recent[model.MonthOf(tx.Date)] += amt
		}
	}
	var avgMonthly float64
	if len(recent) > 0 {
		var sum float64
		for _, v := range recent {
			sum += v
		}
		avgMonthly = sum / float64(len(recent))
	}
	if avgMonthly == 0 {
		return Metric{
			Name: "Emergency Fund", Score: 50, Weight: weightEmergencyFund, Status: "unknown",
			Description:    "Unable to calculate due to insufficient expense data",
			Recommendation: "Start tracking expenses to assess emergency fund needs",
		}
	}

	var totalIncome, totalExpense float64
	for _, f := range flows {
		totalIncome += f.income
		totalExpense += f.expense
	}
	savings := totalIncome - totalExpense
	if savings < 0 {
		savings = 0
	}
	monthsCovered := savings / avgMonthly

	score, status := band(monthsCovered, [4]float64{6, 4, 2, 1}, true)

	rec := "Emergency fund is adequate. Consider high-yield savings account for better returns."
	if monthsCovered < 6 {
		needed := (6 - monthsCovered) * avgMonthly
		rec = fmt.Sprintf("Build emergency fund: save %.0f more (currently %.1f months covered, target: 6 months)", needed, monthsCovered)
	}
	return Metric{
		Name: "Emergency Fund", Score: score, Weight: weightEmergencyFund, Status: status,
		Description:    fmt.Sprintf("Covers %.1f months of expenses", monthsCovered),
		Recommendation: rec,
		CurrentValue:   monthsCovered,
		TargetValue:    6,
	}
}

func debtToIncomeScore(flows []monthFlow) Metric {
	if len(flows) == 0 {
		return defaultMetric("Debt-to-Income Ratio", weightDebtToIncome)
	}
	var incomeSum, expenseSum float64
	for _, f := range flows {
		incomeSum += f.income
		expenseSum += f.expense
	}
	avgIncome := incomeSum / float64(len(flows))
	avgExpense := expenseSum / float64(len(flows))
	if avgIncome == 0 {
		return defaultMetric("Debt-to-Income Ratio", weightDebtToIncome)
	}

	// No loan ledger exists, so estimate debt service at 30% of spend.
	ratio := avgExpense * 0.30 / avgIncome
	score, status := band(ratio, [4]float64{0.10, 0.20, 0.30, 0.40}, false)

	rec := "Debt-to-income ratio is healthy. Maintain current debt management."
	if ratio > 0.20 {
		rec = fmt.Sprintf("Reduce debt burden: aim for <20%% debt-to-income ratio (currently %.1f%%)", ratio*100)
	}
	return Metric{
		Name: "Debt-to-Income Ratio", Score: score, Weight: weightDebtToIncome, Status: status,
		Description:    fmt.Sprintf("Estimated %.1f%% of income goes to debt payments", ratio*100),
		Recommendation: rec,
		CurrentValue:   ratio * 100,
		TargetValue:    20,
	}
}

func savingsRateScore(flows []monthFlow) Metric {
	if len(flows) == 0 {
		return defaultMetric("Savings Rate", weightSavingsRate)
	}
	var rates []float64
	for _, f := range flows {
		if f.income > 0 {
			rates = append(rates, (f.income-f.expense)/f.income)
		}
	}
	rate := analyze.Mean(rates)
	if rate < 0 {
		rate = 0
	}
	score, status := band(rate, [4]float64{0.25, 0.20, 0.15, 0.10}, true)

	rec := "Excellent savings rate! Consider investing excess savings for growth."
	if rate < 0.20 {
		rec = fmt.Sprintf("Increase savings rate by %.1f%% (currently %.1f%%, target: 20%%)", (0.20-rate)*100, rate*100)
	}
	return Metric{
		Name: "Savings Rate", Score: score, Weight: weightSavingsRate, Status: status,
		Description:    fmt.Sprintf("Saving %.1f%% of income monthly", rate*100),
		Recommendation: rec,
		CurrentValue:   rate * 100,
		TargetValue:    20,
	}
}

func stabilityScore(flows []monthFlow) Metric {
	var expenses []float64
	for _, f := range flows {
		expenses = append(expenses, f.expense)
	}
	if len(expenses) < 2 {
		return defaultMetric("Spending Stability", weightStability)
	}
	mean := analyze.Mean(expenses)
	if mean == 0 {
		return defaultMetric("Spending Stability", weightStability)
	}
	cov := analyze.SampleStd(expenses) / mean
	score, status := band(cov, [4]float64{0.10, 0.15, 0.25, 0.35}, false)

	rec := "Spending is stable and predictable. Good financial discipline!"
	if cov > 0.20 {
		rec = fmt.Sprintf("Stabilize spending: %.1f%% month-to-month variance (target: <15%%)", cov*100)
	}
	return Metric{
		Name: "Spending Stability", Score: score, Weight: weightStability, Status: status,
		Description:    fmt.Sprintf("%.1f%% spending variance between months", cov*100),
		Recommendation: rec,
		CurrentValue:   cov * 100,
		TargetValue:    15,
	}
}

func budgetScore(budgets []Budget) Metric {
	if len(budgets) == 0 {
		return Metric{
			Name: "Budget Adherence", Score: 50, Weight: weightBudgets, Status: "unknown",
			Description:    "No budgets set",
			Recommendation: "Create monthly budgets to track spending discipline",
		}
	}
	var total float64
	count := 0
	for _, b := range budgets {
		if b.MonthlyLimit <= 0 {
			continue
		}
		ratio := (b.MonthlyLimit - b.CurrentSpent) / b.MonthlyLimit
		if ratio > 1 {
			ratio = 1
		}
		if ratio < 0 {
			ratio = 0
		}
		total += ratio
		count++
	}
	adherence := 0.5
	if count > 0 {
		adherence = total / float64(count)
	}
	score, status := band(adherence, [4]float64{0.95, 0.85, 0.75, 0.65}, true)

	rec := "Excellent budget adherence! Consider setting more ambitious financial goals."
	if adherence < 0.80 {
		rec = fmt.Sprintf("Improve budget discipline: %.1f%% adherence rate (target: >85%%)", adherence*100)
	}
	return Metric{
		Name: "Budget Adherence", Score: score, Weight: weightBudgets, Status: status,
		Description:    fmt.Sprintf("%.1f%% average budget adherence across %d budgets", adherence*100, count),
		Recommendation: rec,
		CurrentValue:   adherence * 100,
		TargetValue:    85,
	}
}

func diversificationScore(ds model.Dataset) Metric {
	investmentCategories := map[string]bool{"Investment": true, "Crypto": true, "Stocks": true}
	var totalIncome, totalInvested float64
	for _, tx := range ds.Transactions {
		totalIncome += tx.IncomeAmount()
		if investmentCategories[tx.Category] {
			totalInvested += tx.ExpenseAmount()
		}
	}
	rate := 0.0
	if totalIncome > 0 {
		rate = totalInvested / totalIncome
	}
	score, status := band(rate, [4]float64{0.15, 0.10, 0.05, 0.02}, true)

	rec := "Good investment rate! Consider diversifying across different asset classes."
	if rate < 0.10 {
		needed := 0.15*totalIncome - totalInvested
		rec = fmt.Sprintf("Increase investments: invest %.0f more (currently %.1f%% of income, target: 15%%)", needed, rate*100)
	}
	return Metric{
		Name: "Investment Diversification", Score: score, Weight: weightDiversificaton, Status: status,
		Description:    fmt.Sprintf("Investing %.1f%% of income", rate*100),
		Recommendation: rec,
		CurrentValue:   rate * 100,
		TargetValue:    15,
	}
}

func strengthsWeaknesses(metrics []Metric) (strengths, weaknesses []string) {
	for _, m := range metrics {
		if m.Score >= 85 {
			strengths = append(strengths, fmt.Sprintf("Strong %s: %s", strings.ToLower(m.Name), m.Description))
		} else if m.Score < 60 {
			weaknesses = append(weaknesses, fmt.Sprintf("Weak %s: %s", strings.ToLower(m.Name), m.Description))
		}
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "Working on building financial foundation")
	}
	if len(weaknesses) == 0 {
		weaknesses = append(weaknesses, "Overall strong financial health")
	}
	return cap3(strengths), cap3(weaknesses)
}

func priorityActions(metrics []Metric) []string {
	sorted := make([]Metric, len(metrics))
	copy(sorted, metrics)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Score < sorted[i].Score ||
				(sorted[j].Score == sorted[i].Score && sorted[j].Weight > sorted[i].Weight) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	var actions []string
	for _, m := range sorted[:3] {
		if m.Score < 70 {
			actions = append(actions, "Priority: "+m.Recommendation)
		}
	}
	if len(actions) == 0 {
		actions = append(actions,
			"Maintain current financial practices",
			"Consider setting more ambitious financial goals")
	}
	return cap3(actions)
}

func riskFactors(flows []monthFlow, emergency Metric) []string {
	var risks []string
	if emergency.Score < 50 {
		risks = append(risks, "Insufficient emergency fund for unexpected expenses")
	}

	var incomes, expenses []float64
	for _, f := range flows {
		incomes = append(incomes, f.income)
		expenses = append(expenses, f.expense)
	}
	if len(incomes) > 1 {
		if m := analyze.Mean(incomes); m > 0 && analyze.SampleStd(incomes)/m > 0.30 {
			risks = append(risks, "High income volatility may impact financial stability")
		}
	}
	if len(expenses) > 3 {
		recent := analyze.Mean(expenses[len(expenses)-3:])
		earlier := analyze.Mean(expenses[:len(expenses)-3])
		if earlier > 0 && recent/earlier > 1.20 {
			risks = append(risks, "Spending has increased significantly in recent months")
		}
	}
	if len(risks) == 0 {
		risks = append(risks, "No major financial risks identified")
	}
	return cap3(risks)
}

func scoreTrend(flows []monthFlow) string {
	if len(flows) < 3 {
		return "stable"
	}
	var rates []float64
	for _, f := range flows {
		if f.income > 0 {
			rates = append(rates, (f.income-f.expense)/f.income)
		} else {
			rates = append(rates, 0)
		}
	}
	recent := analyze.Mean(rates[len(rates)-3:])
	previous := recent
	if len(rates) > 3 {
		previous = analyze.Mean(rates[:len(rates)-3])
	}
	switch {
	case recent > previous*1.10:
		return "improving"
	case recent < previous*0.90:
		return "declining"
	default:
		return "stable"
	}
}

func predictScore(current float64, trend string) float64 {
	switch trend {
	case "improving":
		if s := current * 1.05; s < 100 {
			return s
		}
		return 100
	case "declining":
		if s := current * 0.95; s > 0 {
			return s
		}
		return 0
	default:
		return current
	}
}

func goalsOnTrack(goals []Goal) int {
	n := 0
	for _, g := range goals {
		if g.TargetAmount > 0 && g.CurrentAmount/g.TargetAmount >= 0.25 {
			n++
		}
	}
	return n
}

func peerPercentile(score float64) int {
	switch {
	case score >= 85:
		return 90
	case score >= 75:
		return 75
	case score >= 65:
		return 60
	case score >= 55:
		return 45
	default:
		return 25
	}
}

func defaultMetric(name string, weight float64) Metric {
	return Metric{
		Name: name, Score: 50, Weight: weight, Status: "unknown",
		Description:    "Insufficient data for analysis",
		Recommendation: "Provide more transaction data for accurate assessment",
	}
}

func defaultScore(reason string) Score {
	s := Score{
		OverallScore:       50,
		Grade:              "D",
		CalculatedAt:       time.Now().Format(time.RFC3339),
		EmergencyFund:      defaultMetric("Emergency Fund", weightEmergencyFund),
		DebtToIncome:       defaultMetric("Debt-to-Income Ratio", weightDebtToIncome),
		SavingsRate:        defaultMetric("Savings Rate", weightSavingsRate),
		SpendingStability:  defaultMetric("Spending Stability", weightStability),
		BudgetAdherence:    defaultMetric("Budget Adherence", weightBudgets),
		Diversification:    defaultMetric("Investment Diversification", weightDiversificaton),
		Strengths:          []string{"Working on building financial foundation"},
		Weaknesses:         []string{reason},
		PriorityActions:    []string{"Add transaction history for a full assessment"},
		RiskFactors:        []string{"Unable to assess risks without data"},
		ScoreTrend:         "stable",
		PredictedScore:     50,
		PeerPercentile:     45,
		InsufficientReason: reason,
	}
	return s
}

func cap3(items []string) []string {
	if len(items) > 3 {
		return items[:3]
	}
	return items
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
