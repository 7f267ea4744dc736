package pricing

import (
	"context"
	"donwatch/internal/providers"
	"donwatch/internal/structures"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
)

// Source fetches USD prices for symbol -> provider id pairs in one call.
// Symbols the provider does not answer for are left out of the result.
type Source interface {
	Fetch(ctx context.Context, ids map[string]string) (map[string]decimal.Decimal, error)
}

type geckoQuote struct {
	USD *decimal.Decimal `json:"usd"`
}

type CoinGeckoSource struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewCoinGeckoSource(conf *structures.Config, logger providers.Logger) *CoinGeckoSource {
	timeout := conf.Prices.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CoinGeckoSource{
		url:    conf.Prices.URL,
		client: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "coingecko",
			Timeout: 2 * time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 3
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Warnf(providers.TypePrice, "Price provider %s circuit breaker %s -> %s", name, from, to)
			},
		}),
	}
}

func (c *CoinGeckoSource) Fetch(ctx context.Context, ids map[string]string) (map[string]decimal.Decimal, error) {
	unique := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	list := make([]string, 0, len(unique))
	for id := range unique {
		list = append(list, id)
	}
	sort.Strings(list)

	q := url.Values{}
	q.Set("ids", strings.Join(list, ","))
	q.Set("vs_currencies", "usd")

	body, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"?"+q.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil, fmt.Errorf("price provider: unexpected status %d", resp.StatusCode)
		}

		var out map[string]geckoQuote
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("price provider: decode: %w", err)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	raw := body.(map[string]geckoQuote)
	prices := make(map[string]decimal.Decimal, len(ids))
	for sym, id := range ids {
		if entry, ok := raw[id]; ok && entry.USD != nil {
			prices[sym] = *entry.USD
		}
	}
	return prices, nil
}
