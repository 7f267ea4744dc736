package pricing

import (
	"context"
	"donwatch/internal/structures"
	"donwatch/internal/testutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGecko(t *testing.T, handler http.HandlerFunc) *CoinGeckoSource {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	conf := &structures.Config{Prices: structures.PriceConfig{URL: srv.URL + "/simple/price"}}
	return NewCoinGeckoSource(conf, &testutil.MockLogger{})
}

func TestCoinGecko_SingleBatchedCall(t *testing.T) {
	calls := 0
	src := newGecko(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		assert.Equal(t, "ethereum,tether", r.URL.Query().Get("ids"))
		_, _ = w.Write([]byte(`{"ethereum":{"usd":3000.25},"tether":{"usd":1.0}}`))
	})

	prices, err := src.Fetch(context.Background(), map[string]string{"ETH": "ethereum", "USDT": "tether"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, prices["ETH"].Equal(decimal.RequireFromString("3000.25")))
	assert.True(t, prices["USDT"].Equal(decimal.NewFromInt(1)))
}

func TestCoinGecko_PartialResponse(t *testing.T) {
	src := newGecko(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":60000},"solana":{}}`))
	})

	prices, err := src.Fetch(context.Background(), map[string]string{"BTC": "bitcoin", "SOL": "solana", "LTC": "litecoin"})
	require.NoError(t, err)
	assert.Len(t, prices, 1)
	_, ok := prices["SOL"]
	assert.False(t, ok)
}

func TestCoinGecko_Non200(t *testing.T) {
	src := newGecko(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := src.Fetch(context.Background(), map[string]string{"ETH": "ethereum"})
	assert.Error(t, err)
}
