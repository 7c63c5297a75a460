package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestCoinQuotes(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/simple/price" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"bitcoin": {"usd": 65000.5, "usd_24h_change": -1.2, "usd_market_cap": 1.2e12, "usd_24h_vol": 3.4e10},
			"ethereum": {"usd": 3200, "usd_24h_change": 0.8, "usd_market_cap": 4e11, "usd_24h_vol": 1.5e10}
		}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURLs(srv.URL, ""))
	quotes, err := c.CoinQuotes(context.Background(), []string{"bitcoin", "ethereum", "unknowncoin"})
	if err != nil {
		t.Fatalf("CoinQuotes: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("got %d quotes, want 2 (unknown coin dropped)", len(quotes))
	}
	if quotes[0].Symbol != "bitcoin" || quotes[0].Price != 65000.5 {
		t.Errorf("first quote = %+v", quotes[0])
	}
	if quotes[0].Name != "Bitcoin" {
		t.Errorf("name = %q, want Bitcoin", quotes[0].Name)
	}

	// Second call within the TTL is served from cache.
	if _, err := c.CoinQuotes(context.Background(), []string{"bitcoin", "ethereum", "unknowncoin"}); err != nil {
		t.Fatalf("cached CoinQuotes: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("upstream hit %d times, want 1", hits.Load())
	}
}

func TestCurrencyRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/USD" {
			t.Errorf("path = %q, want /USD", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"date": "2025-08-29", "rates": {"EUR": 0.92, "INR": 83.2, "USD": 1.0}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURLs("", srv.URL))
	rates, err := c.CurrencyRates(context.Background(), "usd")
	if err != nil {
		t.Fatalf("CurrencyRates: %v", err)
	}
	if len(rates) != 2 {
		t.Fatalf("got %d rates, want 2 (EUR and INR, base excluded)", len(rates))
	}
	for _, r := range rates {
		if r.From != "USD" {
			t.Errorf("from = %q, want USD", r.From)
		}
		if r.LastUpdatedAt != "2025-08-29" {
			t.Errorf("last updated = %q", r.LastUpdatedAt)
		}
	}
}

func TestRateLimitError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURLs(srv.URL, srv.URL))
	if _, err := c.CoinQuotes(context.Background(), []string{"bitcoin"}); !errors.Is(err, ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}

func TestUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURLs("", srv.URL))
	if _, err := c.CurrencyRates(context.Background(), "EUR"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"bitcoin":     "Bitcoin",
		"avalanche-2": "Avalanche 2",
		"binancecoin": "Binancecoin",
	}
	for in, want := range tests {
		if got := titleCase(in); got != want {
			t.Errorf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}
