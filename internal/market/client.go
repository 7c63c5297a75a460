// Package market provides a client for external market data: crypto prices
// and currency exchange rates. Responses are cached for a short TTL so
// dashboard refreshes do not hammer the upstream APIs.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	coingeckoBaseURL = "https://api.coingecko.com/api/v3"
	exchangeBaseURL  = "https://api.exchangerate-api.com/v4/latest"

	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	cacheTTL       = 5 * time.Minute
)

var (
	// ErrRateLimited indicates the upstream API rate limit was hit.
	ErrRateLimited = errors.New("market: rate limited")
	// ErrUnavailable indicates the upstream API returned a server error.
	ErrUnavailable = errors.New("market: upstream unavailable")
)

// PopularCoins are fetched when the caller does not name specific coins.
var PopularCoins = []string{
	"bitcoin", "ethereum", "binancecoin", "cardano",
	"solana", "polkadot", "dogecoin", "avalanche-2",
}

// majorCurrencies are the exchange rates surfaced by default.
var majorCurrencies = []string{"EUR", "GBP", "JPY", "CAD", "AUD", "CHF", "CNY", "INR"}

// CoinQuote is the current price of one cryptocurrency.
type CoinQuote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change24h     float64 `json:"change_24h"`
	MarketCap     float64 `json:"market_cap"`
	Volume24h     float64 `json:"volume_24h"`
	LastUpdatedAt string  `json:"last_updated"`
}

// CurrencyRate is one exchange rate relative to a base currency.
type CurrencyRate struct {
	From          string  `json:"from_currency"`
	To            string  `json:"to_currency"`
	Rate          float64 `json:"rate"`
	LastUpdatedAt string  `json:"last_updated"`
}

// Client fetches market data with per-endpoint caching.
type Client struct {
	coingeckoURL string
	exchangeURL  string
	apiKey       string
	http         *http.Client
	cache        *cache.Cache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURLs overrides the upstream endpoints, mainly for tests.
func WithBaseURLs(coingecko, exchange string) Option {
	return func(c *Client) {
		if coingecko != "" {
			c.coingeckoURL = coingecko
		}
		if exchange != "" {
			c.exchangeURL = exchange
		}
	}
}

// WithAPIKey sends a CoinGecko demo API key with each request, which raises
// the anonymous rate limit.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// NewClient creates a market data client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		coingeckoURL: coingeckoBaseURL,
		exchangeURL:  exchangeBaseURL,
		http:         &http.Client{Timeout: requestTimeout},
		cache:        cache.New(cacheTTL, 2*cacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CoinQuotes returns current prices for the given coins, defaulting to
// PopularCoins when none are named.
func (c *Client) CoinQuotes(ctx context.Context, coins []string) ([]CoinQuote, error) {
	if len(coins) == 0 {
		coins = PopularCoins
	}
	key := "crypto_" + strings.Join(coins, "_")
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]CoinQuote), nil
	}

	q := url.Values{}
	q.Set("ids", strings.Join(coins, ","))
	q.Set("vs_currencies", "usd")
	q.Set("include_24hr_change", "true")
	q.Set("include_market_cap", "true")
	q.Set("include_24hr_vol", "true")

	body, err := c.get(ctx, c.coingeckoURL+"/simple/price?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var raw map[string]struct {
		USD          float64 `json:"usd"`
		USD24hChange float64 `json:"usd_24h_change"`
		USDMarketCap float64 `json:"usd_market_cap"`
		USD24hVol    float64 `json:"usd_24h_vol"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("market: parsing coin prices: %w", err)
	}

	now := time.Now().Format(time.RFC3339)
	quotes := make([]CoinQuote, 0, len(coins))
	for _, id := range coins {
		info, ok := raw[id]
		if !ok {
			continue
		}
		quotes = append(quotes, CoinQuote{
			Symbol:        id,
			Name:          titleCase(id),
			Price:         info.USD,
			Change24h:     info.USD24hChange,
			MarketCap:     info.USDMarketCap,
			Volume24h:     info.USD24hVol,
			LastUpdatedAt: now,
		})
	}
	c.cache.Set(key, quotes, cache.DefaultExpiration)
	return quotes, nil
}

// CurrencyRates returns exchange rates for the major currencies against the
// base currency.
func (c *Client) CurrencyRates(ctx context.Context, base string) ([]CurrencyRate, error) {
	if base == "" {
		base = "USD"
	}
	base = strings.ToUpper(base)
	key := "currency_" + base
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]CurrencyRate), nil
	}

	body, err := c.get(ctx, c.exchangeURL+"/"+base)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Date  string             `json:"date"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("market: parsing exchange rates: %w", err)
	}
	updated := raw.Date
	if updated == "" {
		updated = time.Now().Format(time.RFC3339)
	}

	var rates []CurrencyRate
	for _, cur := range majorCurrencies {
		if cur == base {
			continue
		}
		rate, ok := raw.Rates[cur]
		if !ok {
			continue
		}
		rates = append(rates, CurrencyRate{From: base, To: cur, Rate: rate, LastUpdatedAt: updated})
	}
	c.cache.Set(key, rates, cache.DefaultExpiration)
	return rates, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("market: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("market: request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 500:
		return nil, ErrUnavailable
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("market: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("market: reading response: %w", err)
	}
	return body, nil
}

// titleCase renders a coingecko id like "avalanche-2" as "Avalanche 2".
func titleCase(id string) string {
	words := strings.Split(strings.ReplaceAll(id, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
