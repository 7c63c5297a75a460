package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spendcast/internal/engine"
	"spendcast/internal/ingest"
	"spendcast/internal/market"
)

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts = append([]Option{
		WithLogger(logger),
		WithClock(func() time.Time {
			return time.Date(2024, time.September, 15, 0, 0, 0, 0, time.UTC)
		}),
	}, opts...)
	srv := New(engine.NewService(nil), opts...)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

// nineMonthBody builds a prediction request with nine months of history so
// the ensemble path runs.
func nineMonthBody(t *testing.T, targetMonth string) []byte {
	t.Helper()
	var records []ingest.Record
	for m := 0; m < 9; m++ {
		date := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC).AddDate(0, m, 0)
		for d := 0; d < 4; d++ {
			records = append(records, ingest.Record{
				Date:        date.AddDate(0, 0, d*6).Format("2006-01-02"),
				Amount:      -(250 + float64(m)*25),
				Category:    "Food & Dining",
				Description: "restaurant",
			})
		}
		records = append(records, ingest.Record{
			Date:        date.Format("2006-01-02"),
			Amount:      50000,
			Category:    "Income",
			Description: "salary",
		})
	}
	body, err := json.Marshal(map[string]any{
		"transactions": records,
		"target_month": targetMonth,
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return body
}

func postJSON(t *testing.T, url string, body []byte, out any) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok\n" {
		t.Fatalf("body = %q, want ok", body)
	}
}

func TestPredictMonth(t *testing.T) {
	ts := newTestServer(t)

	var out predictionResponse
	status := postJSON(t, ts.URL+"/v1/predictions/month", nineMonthBody(t, "2024-10"), &out)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if out.TargetMonth != "2024-10" {
		t.Fatalf("target_month = %q, want 2024-10", out.TargetMonth)
	}
	if out.PredictedAmount < 0 {
		t.Fatalf("predicted_amount = %.2f, want >= 0", out.PredictedAmount)
	}
	if out.Confidence < 0 || out.Confidence > 1 {
		t.Fatalf("confidence = %.2f, want in [0,1]", out.Confidence)
	}
	if out.PredictionRange[0] > out.PredictedAmount || out.PredictionRange[1] < out.PredictedAmount {
		t.Fatalf("range %v does not bracket prediction %.2f", out.PredictionRange, out.PredictedAmount)
	}
}

func TestPredictMonthDefaultsTargetToNextMonth(t *testing.T) {
	ts := newTestServer(t)

	var out predictionResponse
	status := postJSON(t, ts.URL+"/v1/predictions/month", nineMonthBody(t, ""), &out)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	// Clock is pinned to September 2024.
	if out.TargetMonth != "2024-10" {
		t.Fatalf("target_month = %q, want 2024-10", out.TargetMonth)
	}
}

func TestPredictMonthRejectsEmptyTransactions(t *testing.T) {
	ts := newTestServer(t)

	var out errorResponse
	status := postJSON(t, ts.URL+"/v1/predictions/month", []byte(`{"transactions":[]}`), &out)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if out.Detail == "" {
		t.Fatal("expected error detail")
	}
}

func TestPredictMonthRejectsBadTargetMonth(t *testing.T) {
	ts := newTestServer(t)

	body := []byte(`{"transactions":[{"date":"2024-01-05","amount":-100,"category":"Food & Dining"}],"target_month":"October"}`)
	status := postJSON(t, ts.URL+"/v1/predictions/month", body, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
}

func TestPredictMonthRejectsMalformedJSON(t *testing.T) {
	ts := newTestServer(t)
	status := postJSON(t, ts.URL+"/v1/predictions/month", []byte(`{"transactions":`), nil)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
}

func TestPredictCategories(t *testing.T) {
	ts := newTestServer(t)

	var out categoryPredictionsResponse
	status := postJSON(t, ts.URL+"/v1/predictions/categories", nineMonthBody(t, "2024-10"), &out)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(out.Predictions) == 0 {
		t.Fatal("expected at least one category prediction")
	}
	var sum float64
	for _, p := range out.Predictions {
		sum += p.PredictedAmount
	}
	if out.TotalPredicted > 0 && absDiff(sum, out.TotalPredicted)/out.TotalPredicted > 1e-6 {
		t.Fatalf("category sum %.2f != total %.2f", sum, out.TotalPredicted)
	}
}

func TestPatterns(t *testing.T) {
	ts := newTestServer(t)

	var out map[string]json.RawMessage
	status := postJSON(t, ts.URL+"/v1/predictions/patterns", nineMonthBody(t, ""), &out)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	for _, key := range []string{"overall_trend", "category_patterns", "seasonal_patterns", "weekly_patterns"} {
		if _, ok := out[key]; !ok {
			t.Fatalf("response missing %q", key)
		}
	}
}

func TestTrainThenModelInfo(t *testing.T) {
	ts := newTestServer(t)

	var report struct {
		Success   bool   `json:"success"`
		BestModel string `json:"best_model"`
		Samples   int    `json:"training_samples"`
	}
	status := postJSON(t, ts.URL+"/v1/predictions/train", nineMonthBody(t, ""), &report)
	if status != http.StatusOK {
		t.Fatalf("train status = %d, want 200", status)
	}
	if !report.Success {
		t.Fatal("training did not succeed")
	}
	if report.BestModel == "" {
		t.Fatal("expected a best model")
	}

	var info modelInfoResponse
	status = getJSON(t, ts.URL+"/v1/predictions/model-info", &info)
	if status != http.StatusOK {
		t.Fatalf("model-info status = %d, want 200", status)
	}
	if info.Status != "ready" {
		t.Fatalf("status = %q, want ready", info.Status)
	}
	if len(info.ModelsAvailable) == 0 {
		t.Fatal("expected models_available to be populated")
	}
	if info.LastUpdated == "unknown" {
		t.Fatal("expected last_updated to be set after training")
	}
}

func TestModelInfoBeforeTraining(t *testing.T) {
	ts := newTestServer(t)

	var info modelInfoResponse
	status := getJSON(t, ts.URL+"/v1/predictions/model-info", &info)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if info.Status != "not_trained" {
		t.Fatalf("status = %q, want not_trained", info.Status)
	}
	if info.LastUpdated != "unknown" {
		t.Fatalf("last_updated = %q, want unknown", info.LastUpdated)
	}
}

func TestDemoPrediction(t *testing.T) {
	ts := newTestServer(t)

	var out demoResponse
	status := getJSON(t, ts.URL+"/v1/predictions/demo", &out)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if !out.DemoData {
		t.Fatal("demo_data flag not set")
	}
	if out.SyntheticDataInfo.MonthsGenerated != 12 {
		t.Fatalf("months_generated = %d, want 12", out.SyntheticDataInfo.MonthsGenerated)
	}
	if out.SyntheticDataInfo.TotalTransactions == 0 {
		t.Fatal("expected synthetic transactions")
	}
	if len(out.CategoryPredictions.Predictions) == 0 {
		t.Fatal("expected category predictions")
	}
	if len(out.CategoryPredictions.Predictions) > 10 {
		t.Fatalf("category predictions = %d, want <= 10", len(out.CategoryPredictions.Predictions))
	}

	// Second call must serve the cached copy.
	var again demoResponse
	if status := getJSON(t, ts.URL+"/v1/predictions/demo", &again); status != http.StatusOK {
		t.Fatalf("cached status = %d, want 200", status)
	}
	if again.MonthlyPrediction.PredictedAmount != out.MonthlyPrediction.PredictedAmount {
		t.Fatalf("cached prediction %.2f differs from first %.2f",
			again.MonthlyPrediction.PredictedAmount, out.MonthlyPrediction.PredictedAmount)
	}
}

func TestCategorize(t *testing.T) {
	ts := newTestServer(t)

	var out struct {
		Category   string  `json:"predicted_category"`
		Confidence float64 `json:"confidence"`
	}
	body := []byte(`{"description":"Swiggy order dinner","amount":-450}`)
	status := postJSON(t, ts.URL+"/v1/categorize", body, &out)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if out.Category != "Food & Dining" {
		t.Fatalf("category = %q, want Food & Dining", out.Category)
	}
	if out.Confidence <= 0.5 {
		t.Fatalf("confidence = %.2f, want > 0.5", out.Confidence)
	}
}

func TestCategorizeBatchPreservesOrder(t *testing.T) {
	ts := newTestServer(t)

	body := []byte(`{"transactions":[
		{"description":"uber ride to office","amount":-250},
		{"description":"monthly salary credit","amount":50000},
		{"description":"netflix subscription","amount":-649}
	]}`)
	var out categorizeBatchResponse
	status := postJSON(t, ts.URL+"/v1/categorize/batch", body, &out)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if out.Count != 3 {
		t.Fatalf("count = %d, want 3", out.Count)
	}
	want := []string{"Transportation", "Income", "Entertainment"}
	for i, w := range want {
		if out.Results[i].Category != w {
			t.Fatalf("result[%d] = %q, want %q", i, out.Results[i].Category, w)
		}
	}
}

func TestCategoriesList(t *testing.T) {
	ts := newTestServer(t)

	var out map[string][]string
	status := getJSON(t, ts.URL+"/v1/categories", &out)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(out["categories"]) == 0 {
		t.Fatal("expected a non-empty category list")
	}
}

func TestHealthScoreEmptyDataset(t *testing.T) {
	ts := newTestServer(t)

	var out struct {
		OverallScore float64 `json:"overall_score"`
		Grade        string  `json:"grade"`
	}
	status := postJSON(t, ts.URL+"/v1/health/score", []byte(`{"transactions":[]}`), &out)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if out.OverallScore != 50 || out.Grade != "D" {
		t.Fatalf("score = %.1f/%s, want 50/D for empty data", out.OverallScore, out.Grade)
	}
}

func TestHealthScoreWithHistory(t *testing.T) {
	ts := newTestServer(t)

	var records []ingest.Record
	for m := 0; m < 6; m++ {
		date := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, m, 0)
		records = append(records,
			ingest.Record{Date: date.Format("2006-01-02"), Amount: 60000, Category: "Income", Description: "salary"},
			ingest.Record{Date: date.AddDate(0, 0, 10).Format("2006-01-02"), Amount: -30000, Category: "Housing", Description: "rent"},
		)
	}
	body, err := json.Marshal(map[string]any{"transactions": records})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out struct {
		OverallScore float64 `json:"overall_score"`
		Grade        string  `json:"grade"`
	}
	status := postJSON(t, ts.URL+"/v1/health/score", body, &out)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if out.OverallScore < 50 {
		t.Fatalf("overall = %.1f, want a healthy score for a 50%% saver", out.OverallScore)
	}
}

func TestMarketCrypto(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"bitcoin":{"usd":64000,"usd_24h_change":1.5,"usd_market_cap":1.2e12,"usd_24h_vol":3.4e10,"last_updated_at":1725000000}}`)
	}))
	defer upstream.Close()

	client := market.NewClient(market.WithBaseURLs(upstream.URL, ""))
	ts := newTestServer(t, WithMarket(client))

	var out cryptoResponse
	status := getJSON(t, ts.URL+"/v1/market/crypto?ids=bitcoin", &out)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(out.Quotes) != 1 || out.Quotes[0].Price != 64000 {
		t.Fatalf("quotes = %+v, want one bitcoin quote at 64000", out.Quotes)
	}
}

func TestMarketRateLimitedMapsTo429(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	client := market.NewClient(market.WithBaseURLs(upstream.URL, ""))
	ts := newTestServer(t, WithMarket(client))

	status := getJSON(t, ts.URL+"/v1/market/crypto?ids=bitcoin", nil)
	if status != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", status)
	}
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
