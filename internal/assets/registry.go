package assets

import (
	"donwatch/internal/structures"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"
)

type Kind string

const (
	KindEVM  Kind = "evm"
	KindBTC  Kind = "btc"
	KindLTC  Kind = "ltc"
	KindSOL  Kind = "sol"
	KindTRON Kind = "tron"
)

// NativeToken is the token id used for a chain's own asset.
const NativeToken = "NATIVE"

type Provider struct {
	Kind string `json:"kind"`
	URL  string `json:"url"`
}

type Chain struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Kind         Kind              `json:"kind"`
	NativeSymbol string            `json:"nativeSymbol"`
	Explorer     string            `json:"explorer,omitempty"`
	RPC          string            `json:"-"`
	Address      string            `json:"address"`
	Tokens       map[string]string `json:"tokens,omitempty"`
	Providers    []Provider        `json:"-"`
}

// TokenContract returns the ERC-20 contract for token on this chain.
func (c Chain) TokenContract(token string) (string, bool) {
	addr, ok := c.Tokens[strings.ToUpper(token)]
	return addr, ok && addr != ""
}

// AssetLabel is the symbol written to donation records for token on this chain.
// Non-EVM chains only ever record their own label.
func (c Chain) AssetLabel(token string) string {
	if c.Kind == KindTRON {
		return "TRX/USDT"
	}
	t := strings.ToUpper(strings.TrimSpace(token))
	if c.Kind != KindEVM || t == "" || t == NativeToken || t == c.NativeSymbol {
		return c.NativeSymbol
	}
	return t
}

// AcceptsAsset reports whether token names something this chain can be watched for.
// EVM tokens are checked against the contract table separately.
func (c Chain) AcceptsAsset(token string) bool {
	t := strings.ToUpper(strings.TrimSpace(token))
	if c.Kind == KindEVM || t == "" || t == NativeToken || t == c.NativeSymbol {
		return true
	}
	if c.Kind == KindTRON {
		return t == "TRX" || t == "USDT" || t == "TRX/USDT"
	}
	return false
}

// IsNative reports whether token refers to the chain's own asset rather than a token contract.
func (c Chain) IsNative(token string) bool {
	t := strings.ToUpper(strings.TrimSpace(token))
	if c.Kind != KindEVM {
		return true
	}
	return t == "" || t == NativeToken || t == c.NativeSymbol
}

func (c Chain) TxURL(hash string) string {
	if hash == "" {
		return ""
	}
	explorer := c.Explorer
	if explorer == "" {
		explorer = "https://etherscan.io"
	}
	return strings.TrimRight(explorer, "/") + "/tx/" + hash
}

type Registry struct {
	byID   map[string]Chain
	byName map[string]string
	order  []string
}

func NewRegistry(conf *structures.Config) (*Registry, error) {
	chains := mergeChains(DefaultChains(), conf.Chains)

	r := &Registry{
		byID:   make(map[string]Chain, len(chains)),
		byName: make(map[string]string, len(chains)),
	}
	for _, cc := range chains {
		ch, err := chainFromConfig(cc)
		if err != nil {
			return nil, err
		}
		r.byID[ch.ID] = ch
		r.byName[strings.ToLower(ch.Name)] = ch.ID
		r.order = append(r.order, ch.ID)
	}
	return r, nil
}

// mergeChains overlays configured entries on the built-in table by id. A
// configured entry replaces the built-in one whole; disabled entries drop it.
func mergeChains(defaults, configured []structures.ChainConfig) []structures.ChainConfig {
	merged := append([]structures.ChainConfig{}, defaults...)
	pos := make(map[string]int, len(merged))
	for i, ch := range merged {
		pos[ch.ID] = i
	}
	for _, ch := range configured {
		if i, ok := pos[ch.ID]; ok {
			merged[i] = ch
			continue
		}
		pos[ch.ID] = len(merged)
		merged = append(merged, ch)
	}

	out := merged[:0]
	for _, ch := range merged {
		if !ch.Disabled {
			out = append(out, ch)
		}
	}
	return out
}

func chainFromConfig(cc structures.ChainConfig) (Chain, error) {
	ch := Chain{
		ID:           cc.ID,
		Name:         cc.Name,
		Kind:         Kind(cc.Kind),
		NativeSymbol: strings.ToUpper(cc.NativeSymbol),
		Explorer:     cc.Explorer,
		RPC:          cc.RPC,
		Address:      strings.TrimSpace(cc.Address),
		Tokens:       make(map[string]string, len(cc.Tokens)),
	}
	for sym, addr := range cc.Tokens {
		if addr != "" && !common.IsHexAddress(addr) {
			return Chain{}, fmt.Errorf("chain %s: token %s has invalid contract %q", cc.Name, sym, addr)
		}
		ch.Tokens[strings.ToUpper(sym)] = addr
	}
	for _, p := range cc.Providers {
		ch.Providers = append(ch.Providers, Provider{Kind: p.Kind, URL: p.URL})
	}
	if err := validateAddress(ch.Kind, ch.Address); err != nil {
		return Chain{}, fmt.Errorf("chain %s: %w", cc.Name, err)
	}
	return ch, nil
}

func validateAddress(kind Kind, addr string) error {
	if addr == "" {
		return nil
	}
	switch kind {
	case KindEVM:
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid EVM address %q", addr)
		}
	case KindSOL:
		raw, err := base58.Decode(addr)
		if err != nil || len(raw) != 32 {
			return fmt.Errorf("invalid Solana address %q", addr)
		}
	}
	return nil
}

// Lookup resolves a chain by id ("137") or by name ("Polygon"), case-insensitively.
func (r *Registry) Lookup(key string) (Chain, bool) {
	key = strings.TrimSpace(key)
	if ch, ok := r.byID[key]; ok {
		return ch, true
	}
	if id, ok := r.byName[strings.ToLower(key)]; ok {
		return r.byID[id], true
	}
	return Chain{}, false
}

func (r *Registry) All() []Chain {
	out := make([]Chain, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// EVM returns the EVM chains sorted by numeric-looking id, for wallet network selection.
func (r *Registry) EVM() []Chain {
	var out []Chain
	for _, ch := range r.All() {
		if ch.Kind == KindEVM {
			out = append(out, ch)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].ID) != len(out[j].ID) {
			return len(out[i].ID) < len(out[j].ID)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
