package categorize

import (
	"runtime"
	"sync"

	"spendcast/internal/ingest"
)

// BatchResult pairs an input record with its categorization.
type BatchResult struct {
	Record     ingest.Record `json:"original"`
	Category   string        `json:"predicted_category"`
	Confidence float64       `json:"confidence"`
}

// PredictBatch categorizes records with a bounded worker pool, preserving
// input order.
func PredictBatch(records []ingest.Record) []BatchResult {
	results := make([]BatchResult, len(records))
	if len(records) == 0 {
		return results
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(records) {
		numWorkers = len(records)
	}

	work := make(chan int, len(records))
	for i := range records {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				r := records[idx]
				p := Predict(r.Description, ingest.CoerceAmount(r.Amount))
				results[idx] = BatchResult{Record: r, Category: p.Category, Confidence: p.Confidence}
			}
		}()
	}
	wg.Wait()
	return results
}
