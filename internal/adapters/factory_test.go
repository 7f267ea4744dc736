package adapters

import (
	"context"
	"donwatch/internal/assets"
	"donwatch/internal/structures"
	"donwatch/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFactory(t *testing.T, chains []structures.ChainConfig) (*Factory, *int) {
	t.Helper()
	conf := &structures.Config{Chains: chains, Watch: structures.WatchConfig{FetchTimeout: time.Second}}
	reg, err := assets.NewRegistry(conf)
	require.NoError(t, err)

	dials := 0
	backend := testutil.NewFakeEVMBackend()
	f := NewFactory(reg, conf, &testutil.MockLogger{}).WithDialer(func(_ context.Context, _ string) (EVMBackend, error) {
		dials++
		return backend, nil
	})
	return f, &dials
}

func TestFactory_ResolveVariants(t *testing.T) {
	f, _ := newTestFactory(t, nil)

	cases := []struct {
		chain, token string
		variant      Variant
		asset        string
	}{
		{"1", "NATIVE", VariantEVMNative, "ETH"},
		{"137", "USDC", VariantEVMERC20, "USDC"},
		{"Bitcoin", "", VariantBTC, "BTC"},
		{"ltc", "", VariantLTC, "LTC"},
		{"sol", "SOL", VariantSOL, "SOL"},
		{"tron", "", VariantTRON, "TRX/USDT"},
	}
	for _, tc := range cases {
		target, err := f.Resolve(tc.chain, tc.token)
		require.NoError(t, err, tc.chain)
		assert.Equal(t, tc.variant, target.Variant(), tc.chain)
		assert.Equal(t, tc.asset, target.Asset, tc.chain)
	}
}

func TestFactory_ResolveErrors(t *testing.T) {
	f, _ := newTestFactory(t, []structures.ChainConfig{
		{ID: "1", Name: "Ethereum", Kind: "evm", NativeSymbol: "ETH", RPC: "http://rpc", Address: "0x111a60e587C811A05e13c3a26dC02A456Ad4D23e"},
		{ID: "btc", Name: "Bitcoin", Kind: "btc", NativeSymbol: "BTC"},
	})

	_, err := f.Resolve("doge", "")
	assert.ErrorIs(t, err, ErrUnknownChain)

	_, err = f.Resolve("btc", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "No BTC address configured")

	_, err = f.Resolve("1", "USDT")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "USDT not supported on Ethereum")
}

func TestFactory_ResolveRejectsForeignAssetsOnNonEVMChains(t *testing.T) {
	f, _ := newTestFactory(t, nil)

	for _, tc := range []struct{ chain, token string }{
		{"btc", "USDC"},
		{"btc", "DOGE"},
		{"ltc", "BTC"},
		{"sol", "USDT"},
		{"tron", "USDC"},
	} {
		_, err := f.Resolve(tc.chain, tc.token)
		assert.ErrorIs(t, err, ErrUnknownChain, "%s/%s", tc.chain, tc.token)
	}

	_, err := f.Resolve("btc", "USDC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "USDC is not accepted on Bitcoin")
}

func TestFactory_ResolveNativeAliasesShareKey(t *testing.T) {
	f, _ := newTestFactory(t, nil)

	btc, err := f.Resolve("btc", "")
	require.NoError(t, err)
	for _, tok := range []string{"NATIVE", "btc"} {
		target, err := f.Resolve("btc", tok)
		require.NoError(t, err)
		assert.Equal(t, btc.Key(), target.Key())
		assert.Equal(t, "BTC", target.Asset)
	}

	tron, err := f.Resolve("tron", "")
	require.NoError(t, err)
	for _, tok := range []string{"TRX", "usdt"} {
		target, err := f.Resolve("tron", tok)
		require.NoError(t, err, tok)
		assert.Equal(t, tron.Key(), target.Key())
		assert.Equal(t, "TRX/USDT", target.Asset)
	}
}

func TestFactory_NewSharesBackends(t *testing.T) {
	f, dials := newTestFactory(t, nil)
	ctx := context.Background()

	native, err := f.Resolve("1", "NATIVE")
	require.NoError(t, err)
	token, err := f.Resolve("1", "USDC")
	require.NoError(t, err)

	a1, err := f.New(ctx, native)
	require.NoError(t, err)
	a2, err := f.New(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, VariantEVMNative, a1.Variant())
	assert.Equal(t, VariantEVMERC20, a2.Variant())
	assert.Equal(t, 1, *dials)
}

func TestFactory_NewTxAdapter(t *testing.T) {
	f, _ := newTestFactory(t, nil)

	target, err := f.Resolve("tron", "")
	require.NoError(t, err)
	a, err := f.New(context.Background(), target)
	require.NoError(t, err)
	assert.Equal(t, VariantTRON, a.Variant())
}

func TestFactory_NewWithoutProviders(t *testing.T) {
	f, _ := newTestFactory(t, []structures.ChainConfig{
		{ID: "btc", Name: "Bitcoin", Kind: "btc", NativeSymbol: "BTC", Address: "bc1qaddr"},
	})
	target, err := f.Resolve("btc", "")
	require.NoError(t, err)

	_, err = f.New(context.Background(), target)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestFactory_NoRPC(t *testing.T) {
	f, _ := newTestFactory(t, []structures.ChainConfig{
		{ID: "1", Name: "Ethereum", Kind: "evm", NativeSymbol: "ETH", Address: "0x111a60e587C811A05e13c3a26dC02A456Ad4D23e"},
	})
	target, err := f.Resolve("1", "")
	require.NoError(t, err)

	_, err = f.New(context.Background(), target)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestTarget_Key(t *testing.T) {
	f, _ := newTestFactory(t, nil)
	a, _ := f.Resolve("137", "NATIVE")
	b, _ := f.Resolve("Polygon", "matic")
	assert.Equal(t, a.Key(), b.Key())
}
