// Package server exposes the forecasting, categorization, and health scoring
// APIs over HTTP.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"

	"spendcast/internal/engine"
	"spendcast/internal/market"
)

const (
	maxBodyBytes = 10 << 20
	demoCacheTTL = 5 * time.Minute
)

// Server wires the prediction service and its sibling features into an HTTP
// handler.
type Server struct {
	svc    *engine.Service
	market *market.Client
	log    *slog.Logger
	cache  *cache.Cache
	now    func() time.Time
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithMarket replaces the default market data client.
func WithMarket(c *market.Client) Option {
	return func(s *Server) { s.market = c }
}

// WithClock overrides the time source. Tests use it to pin the target month.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New returns a Server backed by the given prediction service.
func New(svc *engine.Service, opts ...Option) *Server {
	s := &Server{
		svc:   svc,
		log:   slog.Default(),
		cache: cache.New(demoCacheTTL, 2*demoCacheTTL),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.market == nil {
		s.market = market.NewClient()
	}
	return s
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/predictions", func(r chi.Router) {
			r.Post("/month", s.handlePredictMonth)
			r.Post("/categories", s.handlePredictCategories)
			r.Post("/patterns", s.handlePatterns)
			r.Post("/train", s.handleTrain)
			r.Get("/model-info", s.handleModelInfo)
			r.Get("/demo", s.handleDemo)
		})
		r.Post("/categorize", s.handleCategorize)
		r.Post("/categorize/batch", s.handleCategorizeBatch)
		r.Get("/categories", s.handleCategories)
		r.Post("/health/score", s.handleHealthScore)
		r.Route("/market", func(r chi.Router) {
			r.Get("/crypto", s.handleMarketCrypto)
			r.Get("/rates", s.handleMarketRates)
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, errorResponse{Detail: detail})
}

// decodeJSON reads a bounded JSON request body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
