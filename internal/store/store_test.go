package store

import (
	"path/filepath"
	"testing"
	"time"

	"spendcast/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "spendcast.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestTransactionRoundTrip(t *testing.T) {
	s := openTestStore(t)

	txns := []model.Transaction{
		{ID: "a", Date: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC), Amount: -450, Category: "Groceries", Description: "weekly shop"},
		{ID: "b", Date: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC), Amount: 50000, Category: model.CategoryIncome, Description: "salary"},
	}
	if err := s.SaveTransactions(txns); err != nil {
		t.Fatalf("SaveTransactions: %v", err)
	}

	got, err := s.LoadTransactions()
	if err != nil {
		t.Fatalf("LoadTransactions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d transactions, want 2", len(got))
	}
	if got[0].ID != "b" {
		t.Errorf("first transaction = %s, want b (date order)", got[0].ID)
	}
	if got[1].Amount != -450 || got[1].Description != "weekly shop" {
		t.Errorf("second transaction = %+v", got[1])
	}

	n, err := s.CountTransactions()
	if err != nil {
		t.Fatalf("CountTransactions: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestSaveTransactionsUpserts(t *testing.T) {
	s := openTestStore(t)
	tx := model.Transaction{ID: "a", Date: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), Amount: -100, Category: "Shopping"}
	if err := s.SaveTransactions([]model.Transaction{tx}); err != nil {
		t.Fatal(err)
	}
	tx.Amount = -250
	if err := s.SaveTransactions([]model.Transaction{tx}); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadTransactions()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Amount != -250 {
		t.Errorf("got %+v, want single row with amount -250", got)
	}
}

func TestBankRoundTrip(t *testing.T) {
	s := openTestStore(t)

	bank := model.Bank{
		Aggregate: model.AggregateModel{
			Kind:   model.KindLinear,
			Linear: &model.LinearModel{Weights: []float64{1.5, -2}, Intercept: 40},
		},
		Scaler: &model.Scaler{Mean: []float64{10, 20}, Std: []float64{2, 4}},
		Categories: map[string]model.CategoryModel{
			"Food & Dining": {Slope: 200, Intercept: 1000, Average: 1300, Std: 223.6, LastValue: 1600, MonthsTrained: 4},
		},
		Seasonal:  map[time.Month]float64{time.January: 120.5, time.October: 340},
		TrainedAt: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := s.SaveBank(bank); err != nil {
		t.Fatalf("SaveBank: %v", err)
	}

	got, found, err := s.LoadBank()
	if err != nil {
		t.Fatalf("LoadBank: %v", err)
	}
	if !found {
		t.Fatal("saved bank not found")
	}
	if got.Aggregate.Kind != model.KindLinear {
		t.Errorf("kind = %v, want linear", got.Aggregate.Kind)
	}
	if got.Aggregate.Linear == nil || got.Aggregate.Linear.Intercept != 40 {
		t.Errorf("linear model = %+v", got.Aggregate.Linear)
	}
	if got.Categories["Food & Dining"].Slope != 200 {
		t.Errorf("category slope = %v, want 200", got.Categories["Food & Dining"].Slope)
	}
	if got.Seasonal[time.October] != 340 {
		t.Errorf("seasonal October = %v, want 340", got.Seasonal[time.October])
	}
	if !got.TrainedAt.Equal(bank.TrainedAt) {
		t.Errorf("trained at = %v, want %v", got.TrainedAt, bank.TrainedAt)
	}
}

func TestLoadBankMissing(t *testing.T) {
	s := openTestStore(t)
	_, found, err := s.LoadBank()
	if err != nil {
		t.Fatalf("LoadBank: %v", err)
	}
	if found {
		t.Error("found a bank in an empty store")
	}
}

func TestLoadBankCorruptBlobTreatedAsMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.db.Exec(`INSERT INTO model_banks (name, blob, saved_at) VALUES ('main', '{not json', '2025-01-01')`); err != nil {
		t.Fatal(err)
	}
	_, found, err := s.LoadBank()
	if err != nil {
		t.Fatalf("LoadBank: %v", err)
	}
	if found {
		t.Error("corrupt blob reported as found")
	}
}
