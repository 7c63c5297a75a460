package health

import (
	"testing"
	"time"

	"spendcast/internal/model"
)

// steadyHousehold builds months of identical income/expense flows.
func steadyHousehold(months int, income, expense float64) model.Dataset {
	var txs []model.Transaction
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < months; i++ {
		first := start.AddDate(0, i, 0)
		txs = append(txs,
			model.Transaction{Date: first, Amount: income, Category: model.CategoryIncome, Description: "salary"},
			model.Transaction{Date: first.AddDate(0, 0, 10), Amount: -expense, Category: "Food & Dining"},
		)
	}
	return model.Dataset{Transactions: txs}
}

func TestCalculateEmptyDataset(t *testing.T) {
	s := Calculate(model.Dataset{}, nil, nil)
	if s.OverallScore != 50 {
		t.Errorf("overall score = %v, want neutral 50", s.OverallScore)
	}
	if s.Grade != "D" {
		t.Errorf("grade = %q, want D", s.Grade)
	}
	if s.InsufficientReason == "" {
		t.Error("expected an insufficiency reason")
	}
}

func TestGradeBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{95, "A+"}, {90, "A+"}, {85, "A"}, {80, "A"},
		{75, "B"}, {65, "C"}, {55, "D"}, {49, "F"}, {0, "F"},
	}
	for _, tt := range tests {
		if got := gradeFor(tt.score); got != tt.want {
			t.Errorf("gradeFor(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestHealthySaverScoresWell(t *testing.T) {
	// Saving 40% of income every month, perfectly stable spending.
	ds := steadyHousehold(12, 50000, 30000)
	s := Calculate(ds, nil, nil)

	if s.SavingsRate.Score != 100 {
		t.Errorf("savings rate score = %v, want 100 for a 40%% saver", s.SavingsRate.Score)
	}
	if s.SpendingStability.Score != 100 {
		t.Errorf("stability score = %v, want 100 for constant spending", s.SpendingStability.Score)
	}
	if s.EmergencyFund.Score != 100 {
		t.Errorf("emergency fund score = %v, want 100 (8 months saved)", s.EmergencyFund.Score)
	}
	if s.OverallScore < 70 {
		t.Errorf("overall score = %v, want at least 70", s.OverallScore)
	}
	if s.Grade == "F" || s.Grade == "D" {
		t.Errorf("grade = %q, too low for a healthy saver", s.Grade)
	}
}

func TestOverspenderScoresPoorly(t *testing.T) {
	// Spends more than earned every month.
	ds := steadyHousehold(6, 30000, 35000)
	s := Calculate(ds, nil, nil)

	if s.SavingsRate.Score != 25 {
		t.Errorf("savings rate score = %v, want 25 for negative savings", s.SavingsRate.Score)
	}
	if s.EmergencyFund.Score != 25 {
		t.Errorf("emergency fund score = %v, want 25 with no savings", s.EmergencyFund.Score)
	}
	if len(s.Weaknesses) == 0 {
		t.Error("expected weaknesses to be reported")
	}
	if len(s.PriorityActions) == 0 {
		t.Error("expected priority actions")
	}
}

func TestBudgetAdherence(t *testing.T) {
	within := []Budget{
		{Category: "Food & Dining", MonthlyLimit: 10000, CurrentSpent: 200},
		{Category: "Shopping", MonthlyLimit: 5000, CurrentSpent: 100},
	}
	m := budgetScore(within)
	if m.Score != 100 {
		t.Errorf("score = %v, want 100 for near-untouched budgets", m.Score)
	}

	blown := []Budget{{Category: "Shopping", MonthlyLimit: 5000, CurrentSpent: 9000}}
	m = budgetScore(blown)
	if m.Score != 25 {
		t.Errorf("score = %v, want 25 for a blown budget", m.Score)
	}

	none := budgetScore(nil)
	if none.Score != 50 || none.Status != "unknown" {
		t.Errorf("no-budget metric = %+v, want neutral unknown", none)
	}
}

func TestGoalsOnTrack(t *testing.T) {
	goals := []Goal{
		{Name: "car", TargetAmount: 100000, CurrentAmount: 30000},
		{Name: "trip", TargetAmount: 50000, CurrentAmount: 5000},
		{Name: "junk", TargetAmount: 0, CurrentAmount: 10},
	}
	if got := goalsOnTrack(goals); got != 1 {
		t.Errorf("goals on track = %d, want 1", got)
	}
}

func TestScoreTrend(t *testing.T) {
	improving := []monthFlow{
		{income: 50000, expense: 45000},
		{income: 50000, expense: 45000},
		{income: 50000, expense: 45000},
		{income: 50000, expense: 30000},
		{income: 50000, expense: 30000},
		{income: 50000, expense: 30000},
	}
	if got := scoreTrend(improving); got != "improving" {
		t.Errorf("trend = %q, want improving", got)
	}

	flat := []monthFlow{
		{income: 50000, expense: 30000},
		{income: 50000, expense: 30000},
		{income: 50000, expense: 30000},
		{income: 50000, expense: 30000},
	}
	if got := scoreTrend(flat); got != "stable" {
		t.Errorf("trend = %q, want stable", got)
	}

	if got := scoreTrend(flat[:2]); got != "stable" {
		t.Errorf("trend with 2 months = %q, want stable", got)
	}
}

func TestDiversificationScore(t *testing.T) {
	var txs []model.Transaction
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		first := start.AddDate(0, i, 0)
		txs = append(txs,
			model.Transaction{Date: first, Amount: 50000, Category: model.CategoryIncome},
			model.Transaction{Date: first.AddDate(0, 0, 3), Amount: -10000, Category: "Investment", Description: "sip"},
		)
	}
	m := diversificationScore(model.Dataset{Transactions: txs})
	if m.Score != 100 {
		t.Errorf("score = %v, want 100 for 20%% invested", m.Score)
	}
}
