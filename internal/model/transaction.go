// Package model defines domain types for spendcast transactions and forecasts.
package model

import "time"

// CategoryUnknown is the sentinel assigned when a record carries no category.
const CategoryUnknown = "Unknown"

// CategoryIncome labels salary and other inbound transactions. Income rows are
// excluded from expense aggregation and category modelling.
const CategoryIncome = "Income"

// Transaction is one canonical transaction record. Amount keeps the sign
// convention of the source data: positive amounts are income, negative
// amounts are expenses.
type Transaction struct {
	ID          string
	Date        time.Time
	Amount      float64
	Category    string
	Description string
}

// IsIncome reports whether the transaction is inbound money.
func (t Transaction) IsIncome() bool {
	return t.Amount > 0
}

// ExpenseAmount returns the absolute outflow, or 0 for income rows.
func (t Transaction) ExpenseAmount() float64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return 0
}

// IncomeAmount returns the inflow, or 0 for expense rows.
func (t Transaction) IncomeAmount() float64 {
	if t.Amount > 0 {
		return t.Amount
	}
	return 0
}

// IsWeekend reports whether the transaction fell on a Saturday or Sunday.
func (t Transaction) IsWeekend() bool {
	wd := t.Date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WeekOfYear returns the ISO week number of the transaction date.
func (t Transaction) WeekOfYear() int {
	_, week := t.Date.ISOWeek()
	return week
}

// Month identifies one calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Before reports whether m precedes other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// First returns midnight on the first day of the month.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.Local)
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	return MonthOf(m.First().AddDate(0, 1, 0))
}

// String formats the month as YYYY-MM.
func (m Month) String() string {
	return m.First().Format("2006-01")
}

// Dataset is an ordered-by-date sequence of canonical transactions.
// Construction (ingest.Canonicalize and the synthetic generator) guarantees
// the date ordering; callers treat a Dataset as immutable.
type Dataset struct {
	Transactions []Transaction
}

// Len returns the number of transactions.
func (d Dataset) Len() int { return len(d.Transactions) }

// Empty reports whether the dataset has no transactions.
func (d Dataset) Empty() bool { return len(d.Transactions) == 0 }

// DateRange returns the first and last transaction date. Zero times for an
// empty dataset.
func (d Dataset) DateRange() (time.Time, time.Time) {
	if d.Empty() {
		return time.Time{}, time.Time{}
	}
	return d.Transactions[0].Date, d.Transactions[len(d.Transactions)-1].Date
}

// DistinctMonths returns the number of distinct calendar months represented
// across all transactions, income included.
func (d Dataset) DistinctMonths() int {
	seen := make(map[Month]struct{})
	for _, t := range d.Transactions {
		seen[MonthOf(t.Date)] = struct{}{}
	}
	return len(seen)
}
