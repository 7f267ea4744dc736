package models

import (
	"math/big"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDonorOrAnonymous(t *testing.T) {
	assert.Equal(t, AnonymousDonor, DonorOrAnonymous(""))
	assert.Equal(t, AnonymousDonor, DonorOrAnonymous("   "))
	assert.Equal(t, "grace", DonorOrAnonymous(" grace "))
}

func TestMarker(t *testing.T) {
	var none *Marker
	assert.Equal(t, "<none>", none.String())
	assert.False(t, none.IsBalance())

	src := big.NewInt(42)
	bal := BalanceMarker(src)
	src.SetInt64(7)
	assert.True(t, bal.IsBalance())
	assert.Equal(t, "42", bal.String())

	tx := TxMarker("sig")
	assert.False(t, tx.IsBalance())
	assert.Equal(t, "sig", tx.String())
}

func TestPriceSnapshot_NilSafe(t *testing.T) {
	var snap *PriceSnapshot
	_, ok := snap.Price("ETH")
	assert.False(t, ok)

	snap = &PriceSnapshot{Prices: map[string]decimal.Decimal{"ETH": decimal.NewFromInt(3000)}}
	p, ok := snap.Price("ETH")
	require.True(t, ok)
	assert.True(t, p.Equal(decimal.NewFromInt(3000)))
}

func TestSessionState_Terminal(t *testing.T) {
	assert.False(t, StateIdle.Terminal())
	assert.False(t, StateWatching.Terminal())
	assert.True(t, StateConfirmed.Terminal())
	assert.True(t, StateError.Terminal())
}

func TestDonationRecord_JSONShape(t *testing.T) {
	rec := DonationRecord{
		DonorName:   "heidi",
		AssetSymbol: "SOL",
		ChainName:   "Solana",
		Amount:      decimal.RequireFromString("1.5"),
		Method:      MethodManualWatch,
		RecordedAt:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "heidi", raw["name"])
	assert.Equal(t, "SOL", raw["token"])
	assert.Equal(t, "manual", raw["method"])
	assert.NotContains(t, raw, "usd")
	assert.NotContains(t, raw, "txHash")
}
