package server

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"spendcast/internal/analyze"
	"spendcast/internal/categorize"
	"spendcast/internal/engine"
	"spendcast/internal/health"
	"spendcast/internal/ingest"
	"spendcast/internal/market"
	"spendcast/internal/model"
)

const (
	demoCacheKey = "demo_prediction"
	demoMonths   = 12
	demoSeed     = 1
	demoTopN     = 10
)

// predictionRequest is the shared body of the prediction endpoints.
type predictionRequest struct {
	Transactions []ingest.Record `json:"transactions"`
	TargetMonth  string          `json:"target_month,omitempty"`
}

// dataset canonicalizes the posted transactions, writing the HTTP error
// itself when the body is unusable.
func (s *Server) dataset(w http.ResponseWriter, r *http.Request) (model.Dataset, model.Month, bool) {
	var req predictionRequest
	if !s.decodeJSON(w, r, &req) {
		return model.Dataset{}, model.Month{}, false
	}

	ds, err := ingest.Canonicalize(req.Transactions)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "no valid transaction data provided")
		return model.Dataset{}, model.Month{}, false
	}

	target := model.MonthOf(s.now()).Next()
	if req.TargetMonth != "" {
		parsed, err := time.Parse("2006-01", req.TargetMonth)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid target_month format, use YYYY-MM")
			return model.Dataset{}, model.Month{}, false
		}
		target = model.MonthOf(parsed)
	}
	return ds, target, true
}

type predictionResponse struct {
	PredictedAmount   float64     `json:"predicted_amount"`
	Confidence        float64     `json:"confidence"`
	Trend             model.Trend `json:"trend"`
	SeasonalFactor    float64     `json:"seasonal_factor"`
	HistoricalAverage float64     `json:"historical_average"`
	PredictionRange   [2]float64  `json:"prediction_range"`
	TargetMonth       string      `json:"target_month"`
}

func toPredictionResponse(p model.PredictionResult, target model.Month) predictionResponse {
	return predictionResponse{
		PredictedAmount:   p.PredictedAmount,
		Confidence:        p.Confidence,
		Trend:             p.Trend,
		SeasonalFactor:    p.SeasonalFactor,
		HistoricalAverage: p.HistoricalAverage,
		PredictionRange:   [2]float64{p.Range.Min, p.Range.Max},
		TargetMonth:       target.String(),
	}
}

func (s *Server) handlePredictMonth(w http.ResponseWriter, r *http.Request) {
	ds, target, ok := s.dataset(w, r)
	if !ok {
		return
	}

	pred, err := s.svc.Predict(ds, target)
	if err != nil {
		s.log.Error("predict month", "error", err)
		s.writeError(w, http.StatusInternalServerError, "prediction failed: "+err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, toPredictionResponse(pred, target))
}

type categoryPredictionsResponse struct {
	Predictions    []model.CategoryPrediction `json:"predictions"`
	TotalPredicted float64                    `json:"total_predicted"`
	TargetMonth    string                     `json:"target_month"`
}

func (s *Server) handlePredictCategories(w http.ResponseWriter, r *http.Request) {
	ds, target, ok := s.dataset(w, r)
	if !ok {
		return
	}

	aggregate, cats, err := s.svc.PredictCategories(ds, target)
	if err != nil {
		s.log.Error("predict categories", "error", err)
		s.writeError(w, http.StatusInternalServerError, "prediction failed: "+err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, categoryPredictionsResponse{
		Predictions:    cats,
		TotalPredicted: aggregate.PredictedAmount,
		TargetMonth:    target.String(),
	})
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	ds, _, ok := s.dataset(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, analyze.Patterns(ds))
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	ds, _, ok := s.dataset(w, r)
	if !ok {
		return
	}

	report, err := s.svc.Train(ds)
	if err != nil {
		s.log.Error("train", "error", err)
		s.writeError(w, http.StatusInternalServerError, "training failed: "+err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

type modelInfoResponse struct {
	ModelsAvailable []string `json:"models_available"`
	CategoryModels  []string `json:"category_models"`
	SeasonalMonths  []int    `json:"seasonal_patterns_months"`
	LastUpdated     string   `json:"last_updated"`
	Status          string   `json:"status"`
}

var kindNames = map[model.ModelKind]string{
	model.KindForest:      "random_forest",
	model.KindLinear:      "linear_regression",
	model.KindStatistical: "statistical",
}

func (s *Server) handleModelInfo(w http.ResponseWriter, _ *http.Request) {
	bank := s.svc.Bank()

	info := modelInfoResponse{
		ModelsAvailable: []string{},
		CategoryModels:  []string{},
		SeasonalMonths:  []int{},
		LastUpdated:     "unknown",
		Status:          "not_trained",
	}
	if bank.Trained() {
		info.Status = "ready"
		info.LastUpdated = bank.TrainedAt.Format(time.RFC3339)
		if name, ok := kindNames[bank.Aggregate.Kind]; ok {
			info.ModelsAvailable = append(info.ModelsAvailable, name)
		}
	}
	for cat := range bank.Categories {
		info.CategoryModels = append(info.CategoryModels, cat)
	}
	sort.Strings(info.CategoryModels)
	for m := range bank.Seasonal {
		info.SeasonalMonths = append(info.SeasonalMonths, int(m))
	}
	sort.Ints(info.SeasonalMonths)

	s.writeJSON(w, http.StatusOK, info)
}

type demoResponse struct {
	DemoData            bool                        `json:"demo_data"`
	TargetMonth         string                      `json:"target_month"`
	MonthlyPrediction   predictionResponse          `json:"monthly_prediction"`
	CategoryPredictions categoryPredictionsResponse `json:"category_predictions"`
	SpendingPatterns    model.Patterns              `json:"spending_patterns"`
	SyntheticDataInfo   syntheticDataInfo           `json:"synthetic_data_info"`
}

type syntheticDataInfo struct {
	MonthsGenerated   int    `json:"months_generated"`
	TotalTransactions int    `json:"total_transactions"`
	DateRange         string `json:"date_range"`
}

// handleDemo runs the full pipeline over a fresh synthetic year. Results are
// cached so repeated probes don't retrain a forest each time.
func (s *Server) handleDemo(w http.ResponseWriter, _ *http.Request) {
	if cached, ok := s.cache.Get(demoCacheKey); ok {
		s.writeJSON(w, http.StatusOK, cached.(demoResponse))
		return
	}

	ds := ingest.NewSyntheticGenerator(demoSeed).Generate(demoMonths)
	bank, _ := engine.Train(ds)
	target := model.MonthOf(s.now()).Next()

	aggregate := engine.Forecast(bank, ds, target)
	cats := engine.ForecastCategories(bank, ds, target, aggregate)
	if len(cats) > demoTopN {
		cats = cats[:demoTopN]
	}

	first, last := ds.DateRange()
	resp := demoResponse{
		DemoData:          true,
		TargetMonth:       target.String(),
		MonthlyPrediction: toPredictionResponse(aggregate, target),
		CategoryPredictions: categoryPredictionsResponse{
			Predictions:    cats,
			TotalPredicted: aggregate.PredictedAmount,
			TargetMonth:    target.String(),
		},
		SpendingPatterns: analyze.Patterns(ds),
		SyntheticDataInfo: syntheticDataInfo{
			MonthsGenerated:   demoMonths,
			TotalTransactions: ds.Len(),
			DateRange:         first.Format("2006-01-02") + " to " + last.Format("2006-01-02"),
		},
	}
	s.cache.SetDefault(demoCacheKey, resp)
	s.writeJSON(w, http.StatusOK, resp)
}

type categorizeRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	var req categorizeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, categorize.Predict(req.Description, req.Amount))
}

type categorizeBatchRequest struct {
	Transactions []ingest.Record `json:"transactions"`
}

type categorizeBatchResponse struct {
	Results []categorize.BatchResult `json:"results"`
	Count   int                      `json:"count"`
}

func (s *Server) handleCategorizeBatch(w http.ResponseWriter, r *http.Request) {
	var req categorizeBatchRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	results := categorize.PredictBatch(req.Transactions)
	s.writeJSON(w, http.StatusOK, categorizeBatchResponse{Results: results, Count: len(results)})
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"categories": categorize.Categories})
}

type healthScoreRequest struct {
	Transactions []ingest.Record `json:"transactions"`
	Budgets      []health.Budget `json:"budgets,omitempty"`
	Goals        []health.Goal   `json:"goals,omitempty"`
}

func (s *Server) handleHealthScore(w http.ResponseWriter, r *http.Request) {
	var req healthScoreRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	ds, err := ingest.Canonicalize(req.Transactions)
	if err != nil && !errors.Is(err, ingest.ErrEmptyDataset) {
		s.writeError(w, http.StatusBadRequest, "no valid transaction data provided")
		return
	}
	s.writeJSON(w, http.StatusOK, health.Calculate(ds, req.Budgets, req.Goals))
}

type cryptoResponse struct {
	Quotes []market.CoinQuote `json:"quotes"`
}

func (s *Server) handleMarketCrypto(w http.ResponseWriter, r *http.Request) {
	ids := market.PopularCoins
	if raw := r.URL.Query().Get("ids"); raw != "" {
		ids = strings.Split(raw, ",")
	}

	quotes, err := s.market.CoinQuotes(r.Context(), ids)
	if err != nil {
		s.marketError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cryptoResponse{Quotes: quotes})
}

type ratesResponse struct {
	Base  string                `json:"base"`
	Rates []market.CurrencyRate `json:"rates"`
}

func (s *Server) handleMarketRates(w http.ResponseWriter, r *http.Request) {
	base := r.URL.Query().Get("base")
	if base == "" {
		base = "USD"
	}

	rates, err := s.market.CurrencyRates(r.Context(), base)
	if err != nil {
		s.marketError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ratesResponse{Base: strings.ToUpper(base), Rates: rates})
}

func (s *Server) marketError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, market.ErrRateLimited):
		s.writeError(w, http.StatusTooManyRequests, "market data provider rate limited")
	case errors.Is(err, market.ErrUnavailable):
		s.writeError(w, http.StatusBadGateway, "market data provider unavailable")
	default:
		s.log.Error("market data", "error", err)
		s.writeError(w, http.StatusInternalServerError, "market data lookup failed")
	}
}
