package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"spendcast/internal/model"
)

func TestCanonicalizeEmptyInput(t *testing.T) {
	_, err := Canonicalize(nil)
	if !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("err = %v, want ErrEmptyDataset", err)
	}
}

func TestCanonicalizeCoercion(t *testing.T) {
	records := []Record{
		{Date: "2025-03-10", Amount: "-150.50", Category: "Food & Dining", Description: "lunch"},
		{Date: "2025-01-05", Amount: float64(-200), Category: ""},
		{Date: "not a date", Amount: "garbage", Category: "Shopping"},
	}
	ds, err := Canonicalize(records)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if ds.Len() != 3 {
		t.Fatalf("got %d transactions, want 3", ds.Len())
	}
	// Sorted by date: the Jan record first.
	first := ds.Transactions[0]
	if first.Amount != -200 {
		t.Errorf("first amount = %v, want -200 (sorted by date)", first.Amount)
	}
	if first.Category != model.CategoryUnknown {
		t.Errorf("empty category = %q, want %q", first.Category, model.CategoryUnknown)
	}
	for _, tx := range ds.Transactions {
		if tx.ID == "" {
			t.Error("transaction missing generated ID")
		}
		if tx.Category == "Shopping" && tx.Amount != 0 {
			t.Errorf("malformed amount = %v, want 0", tx.Amount)
		}
	}
}

func TestReadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "txns.json")
	data := `[
		{"date": "2025-02-01", "amount": -500, "category": "Groceries", "description": "weekly shop"},
		{"date": "2025-02-03", "amount": "-99.9", "category": "Entertainment"}
	]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(res.Records))
	}
	if res.Records[0].Category != "Groceries" {
		t.Errorf("category = %q, want Groceries", res.Records[0].Category)
	}
}

func TestReadCSVSkipsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "txns.csv")
	data := "date,amount,category,description\n" +
		"2025-02-01,-500,Groceries,weekly shop\n" +
		"bad\n" +
		"2025-02-03,-120,Transportation,fuel\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(res.Records) != 2 {
		t.Errorf("got %d records, want 2", len(res.Records))
	}
	if res.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", res.Skipped)
	}
}

func TestReadFileUnsupportedExtension(t *testing.T) {
	if _, err := ReadFile("txns.xml"); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestSyntheticGenerator(t *testing.T) {
	gen := NewSyntheticGenerator(42)
	ds := gen.Generate(6)
	if ds.Empty() {
		t.Fatal("generator produced no transactions")
	}

	seen := make(map[string]bool)
	var income, expense int
	for _, tx := range ds.Transactions {
		seen[tx.Category] = true
		if tx.IsIncome() {
			income++
		} else {
			expense++
		}
	}
	for cat := range syntheticProfiles {
		if !seen[cat] {
			t.Errorf("category %q missing from synthetic data", cat)
		}
	}
	if income < 6 {
		t.Errorf("income transactions = %d, want at least one per month", income)
	}
	if expense < 6*8*8 {
		t.Errorf("expense transactions = %d, fewer than the 8-per-category minimum implies", expense)
	}

	if got := ds.DistinctMonths(); got < 6 {
		t.Errorf("distinct months = %d, want at least 6", got)
	}

	for i := 1; i < ds.Len(); i++ {
		if ds.Transactions[i].Date.Before(ds.Transactions[i-1].Date) {
			t.Fatal("synthetic dataset not sorted by date")
		}
	}
}

func TestSyntheticGeneratorDeterministic(t *testing.T) {
	a := NewSyntheticGenerator(7).Generate(3)
	b := NewSyntheticGenerator(7).Generate(3)
	if a.Len() != b.Len() {
		t.Fatalf("same seed produced %d vs %d transactions", a.Len(), b.Len())
	}
	for i := range a.Transactions {
		if a.Transactions[i].Amount != b.Transactions[i].Amount {
			t.Fatalf("same seed diverged at transaction %d", i)
		}
	}
}

func TestParseDateLayouts(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		want time.Time
	}{
		{"2025-06-15", true, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"2025-06-15 09:30:00", true, time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)},
		{"15/06/2025", true, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"June 15th", false, time.Time{}},
	}
	for _, tt := range tests {
		got, ok := parseDate(tt.in)
		if ok != tt.ok {
			t.Errorf("parseDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("parseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
