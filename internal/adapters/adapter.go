package adapters

import (
	"context"
	"donwatch/internal/models"
)

type Variant string

const (
	VariantEVMNative Variant = "EVM_NATIVE"
	VariantEVMERC20  Variant = "EVM_ERC20"
	VariantBTC       Variant = "BTC"
	VariantLTC       Variant = "LTC"
	VariantSOL       Variant = "SOL"
	VariantTRON      Variant = "TRON"
)

// IsBalance reports whether markers of this variant are balances rather than tx ids.
func (v Variant) IsBalance() bool {
	return v == VariantEVMNative || v == VariantEVMERC20
}

// ChainAdapter fetches a single opaque marker for one address on one chain.
// A nil marker with a nil error means the upstream had nothing to report.
type ChainAdapter interface {
	Variant() Variant
	CaptureBaseline(ctx context.Context, address string) (*models.Marker, error)
	FetchMarker(ctx context.Context, address string) (*models.Marker, error)
	HasChanged(baseline, marker *models.Marker) bool
}

// balanceChanged only accepts a strictly greater balance. An unrelated incoming
// transfer satisfies it too.
func balanceChanged(baseline, marker *models.Marker) bool {
	if !marker.IsBalance() || !baseline.IsBalance() {
		return false
	}
	return marker.Balance.Cmp(baseline.Balance) > 0
}

// txChanged treats any present id that differs from the baseline as new.
// An unknown baseline means the first present id counts.
func txChanged(baseline, marker *models.Marker) bool {
	if marker == nil || marker.TxID == "" {
		return false
	}
	if baseline == nil {
		return true
	}
	return marker.TxID != baseline.TxID
}
