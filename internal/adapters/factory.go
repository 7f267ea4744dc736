package adapters

import (
	"context"
	"donwatch/internal/assets"
	"donwatch/internal/providers"
	"donwatch/internal/structures"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
)

// Dialer opens an EVM JSON-RPC backend for an endpoint URL.
type Dialer func(ctx context.Context, rawURL string) (EVMBackend, error)

func DialEthClient(ctx context.Context, rawURL string) (EVMBackend, error) {
	c, err := ethclient.DialContext(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Target is a resolved (chain, asset) watch key.
type Target struct {
	Chain   assets.Chain
	Token   string
	Asset   string
	Address string
}

func (t Target) Key() string {
	return t.Chain.ID + "/" + t.Asset
}

func (t Target) Variant() Variant {
	switch t.Chain.Kind {
	case assets.KindBTC:
		return VariantBTC
	case assets.KindLTC:
		return VariantLTC
	case assets.KindSOL:
		return VariantSOL
	case assets.KindTRON:
		return VariantTRON
	}
	if t.Chain.IsNative(t.Token) {
		return VariantEVMNative
	}
	return VariantEVMERC20
}

// Factory resolves watch targets and builds adapters for them. Backends and
// sources are shared per endpoint so breaker state survives across sessions.
type Factory struct {
	registry *assets.Registry
	logger   providers.Logger
	timeout  time.Duration
	dial     Dialer

	mu       sync.Mutex
	backends map[string]EVMBackend
	sources  map[string]MarkerSource
}

func NewFactory(registry *assets.Registry, conf *structures.Config, logger providers.Logger) *Factory {
	return &Factory{
		registry: registry,
		logger:   logger,
		timeout:  conf.Watch.FetchTimeout,
		dial:     DialEthClient,
		backends: make(map[string]EVMBackend),
		sources:  make(map[string]MarkerSource),
	}
}

// WithDialer swaps the EVM dialer, mainly for tests.
func (f *Factory) WithDialer(d Dialer) *Factory {
	f.dial = d
	return f
}

func (f *Factory) Registry() *assets.Registry {
	return f.registry
}

// Resolve validates configuration for (chain, token) without touching the network.
// On a configuration error the partially resolved target is still returned so
// callers can key the failure.
func (f *Factory) Resolve(chainKey, token string) (Target, error) {
	chain, ok := f.registry.Lookup(chainKey)
	if !ok {
		return Target{}, fmt.Errorf("%w: %q", ErrUnknownChain, chainKey)
	}
	if !chain.AcceptsAsset(token) {
		return Target{}, fmt.Errorf("%w: %s is not accepted on %s", ErrUnknownChain, strings.ToUpper(token), chain.Name)
	}
	t := Target{
		Chain:   chain,
		Token:   token,
		Asset:   chain.AssetLabel(token),
		Address: chain.Address,
	}
	if t.Address == "" {
		return t, notConfigured("No %s address configured", chain.NativeSymbol)
	}
	if t.Variant() == VariantEVMERC20 {
		if _, ok := chain.TokenContract(token); !ok {
			return t, notConfigured("%s not supported on %s", t.Asset, chain.Name)
		}
	}
	return t, nil
}

func (f *Factory) New(ctx context.Context, t Target) (ChainAdapter, error) {
	switch v := t.Variant(); v {
	case VariantEVMNative:
		backend, err := f.Backend(ctx, t.Chain)
		if err != nil {
			return nil, err
		}
		return NewEVMNativeAdapter(backend), nil
	case VariantEVMERC20:
		backend, err := f.Backend(ctx, t.Chain)
		if err != nil {
			return nil, err
		}
		contract, _ := t.Chain.TokenContract(t.Token)
		return NewEVMERC20Adapter(backend, contract)
	default:
		sources, err := f.chainSources(t.Chain)
		if err != nil {
			return nil, err
		}
		return NewTxAdapter(v, sources...)
	}
}

// Backend returns the shared JSON-RPC backend for an EVM chain.
func (f *Factory) Backend(ctx context.Context, chain assets.Chain) (EVMBackend, error) {
	if chain.RPC == "" {
		return nil, notConfigured("no RPC endpoint for %s", chain.Name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.backends[chain.RPC]; ok {
		return b, nil
	}
	b, err := f.dial(ctx, chain.RPC)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", chain.Name, err)
	}
	f.backends[chain.RPC] = b
	return b, nil
}

func (f *Factory) chainSources(chain assets.Chain) ([]MarkerSource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]MarkerSource, 0, len(chain.Providers))
	for _, p := range chain.Providers {
		key := string(chain.Kind) + "|" + p.Kind + "|" + p.URL
		if src, ok := f.sources[key]; ok {
			out = append(out, src)
			continue
		}
		src, err := NewSource(p.Kind, p.URL, string(chain.Kind), f.timeout, f.logger)
		if err != nil {
			return nil, notConfigured("%s: %v", chain.Name, err)
		}
		f.sources[key] = src
		out = append(out, src)
	}
	return out, nil
}
