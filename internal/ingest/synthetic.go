package ingest

import (
	"fmt"
	"math/rand"
	"time"

	"spendcast/internal/model"
)

// categoryProfile shapes the synthetic spend for one category.
type categoryProfile struct {
	base      float64
	variation float64
	seasonal  float64
}

var syntheticProfiles = map[string]categoryProfile{
	"Food & Dining":    {base: 8000, variation: 0.3, seasonal: 1.2},
	"Transportation":   {base: 3000, variation: 0.4, seasonal: 1.0},
	"Shopping":         {base: 5000, variation: 0.6, seasonal: 1.5},
	"Bills & Utilities": {base: 2500, variation: 0.1, seasonal: 1.1},
	"Entertainment":    {base: 2000, variation: 0.5, seasonal: 1.3},
	"Healthcare":       {base: 1500, variation: 0.8, seasonal: 1.1},
	"Groceries":        {base: 4000, variation: 0.2, seasonal: 1.0},
	"Education":        {base: 1000, variation: 0.3, seasonal: 1.0},
}

// weekendHeavy categories spend more on weekends.
var weekendHeavy = map[string]bool{
	"Food & Dining": true,
	"Entertainment": true,
	"Shopping":      true,
}

// SyntheticGenerator produces realistic demo transactions. Seeded so demo
// runs are reproducible.
type SyntheticGenerator struct {
	rng *rand.Rand
	now time.Time
}

// NewSyntheticGenerator returns a generator seeded with seed, anchored at
// the current time.
func NewSyntheticGenerator(seed int64) *SyntheticGenerator {
	return &SyntheticGenerator{rng: rand.New(rand.NewSource(seed)), now: time.Now()}
}

func monthMultiplier(m time.Month) float64 {
	switch m {
	case time.October, time.November, time.December:
		return 1.4 // festival season
	case time.June, time.July, time.August:
		return 0.9 // off season
	default:
		return 1.0
	}
}

// Generate produces the given number of months of synthetic transactions:
// category expenses spread over each month, a monthly salary, and occasional
// freelance income. Duplicate timestamps are avoided best-effort with a
// bounded retry; uniqueness is not guaranteed and nothing downstream
// depends on it.
func (g *SyntheticGenerator) Generate(months int) model.Dataset {
	start := g.now.AddDate(0, 0, -months*30)
	used := make(map[string]bool)
	var txs []model.Transaction

	for offset := 0; offset < months; offset++ {
		monthStart := start.AddDate(0, 0, offset*30)
		seasonal := monthMultiplier(monthStart.Month())

		for category, p := range syntheticProfiles {
			monthly := p.base * p.seasonal * seasonal * (1 + g.rng.NormFloat64()*p.variation)
			if min := p.base * 0.3; monthly < min {
				monthly = min
			}
			count := 8 + g.rng.Intn(12)

			for i := 0; i < count; i++ {
				var date time.Time
				for attempts := 0; attempts < 50; attempts++ {
					date = monthStart.AddDate(0, 0, g.rng.Intn(28)).
						Add(time.Duration(8+g.rng.Intn(14)) * time.Hour).
						Add(time.Duration(g.rng.Intn(60)) * time.Minute)
					key := date.Format("2006-01-02 15:04:05")
					if !used[key] {
						used[key] = true
						break
					}
				}

				amount := monthly / float64(count) * (1 + g.rng.NormFloat64()*0.3)
				if amount < 10 {
					amount = 10
				}
				wd := date.Weekday()
				if (wd == time.Saturday || wd == time.Sunday) && weekendHeavy[category] {
					amount *= 1.3
				}
				txs = append(txs, model.Transaction{
					Date:        date,
					Amount:      -amount,
					Category:    category,
					Description: fmt.Sprintf("%s transaction", category),
				})
			}
		}

		txs = append(txs, model.Transaction{
			Date:        monthStart.AddDate(0, 0, 1),
			Amount:      50000 + g.rng.NormFloat64()*5000,
			Category:    model.CategoryIncome,
			Description: "Monthly salary",
		})
		if g.rng.Float64() < 0.3 {
			txs = append(txs, model.Transaction{
				Date:        monthStart.AddDate(0, 0, 5+g.rng.Intn(20)),
				Amount:      15000 + g.rng.NormFloat64()*5000,
				Category:    model.CategoryIncome,
				Description: "Freelance work",
			})
		}
	}

	records := make([]Record, len(txs))
	for i, tx := range txs {
		records[i] = Record{
			Date:        tx.Date.Format("2006-01-02 15:04:05"),
			Amount:      tx.Amount,
			Category:    tx.Category,
			Description: tx.Description,
		}
	}
	ds, _ := Canonicalize(records)
	return ds
}
