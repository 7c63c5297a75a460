// Package ingest turns raw transaction records from files, APIs, or the
// synthetic generator into a canonical dataset the rest of spendcast
// operates on.
package ingest

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"spendcast/internal/model"
)

// ErrEmptyDataset means no transactions survived ingestion. Prediction is
// meaningless without data, so this surfaces to the caller instead of
// defaulting.
var ErrEmptyDataset = errors.New("ingest: no transactions in dataset")

// Record is one raw transaction as it arrives from the outside world.
// Fields may be missing or malformed; Canonicalize coerces them.
type Record struct {
	ID          string `json:"id,omitempty"`
	Date        string `json:"date"`
	Amount      any    `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// CoerceAmount converts the loosely typed amount field of a raw record to a
// float, defaulting to 0 when it cannot be parsed.
func CoerceAmount(v any) float64 {
	switch a := v.(type) {
	case float64:
		return a
	case int:
		return float64(a)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Canonicalize converts raw records to a dataset sorted by date. Malformed
// amounts coerce to 0, unparseable dates fall back to the current time, and
// empty categories become Unknown. Only a fully empty input is an error.
func Canonicalize(records []Record) (model.Dataset, error) {
	if len(records) == 0 {
		return model.Dataset{}, ErrEmptyDataset
	}
	now := time.Now()
	txs := make([]model.Transaction, 0, len(records))
	for _, r := range records {
		date, ok := parseDate(r.Date)
		if !ok {
			date = now
		}
		category := strings.TrimSpace(r.Category)
		if category == "" {
			category = model.CategoryUnknown
		}
		id := r.ID
		if id == "" {
			id = uuid.NewString()
		}
		txs = append(txs, model.Transaction{
			ID:          id,
			Date:        date,
			Amount:      CoerceAmount(r.Amount),
			Category:    category,
			Description: r.Description,
		})
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })
	return model.Dataset{Transactions: txs}, nil
}
