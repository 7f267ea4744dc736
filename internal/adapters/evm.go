package adapters

import (
	"context"
	"donwatch/internal/models"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

type evmNativeAdapter struct {
	backend EVMBackend
}

func NewEVMNativeAdapter(backend EVMBackend) ChainAdapter {
	return &evmNativeAdapter{backend: backend}
}

func (a *evmNativeAdapter) Variant() Variant { return VariantEVMNative }

func (a *evmNativeAdapter) CaptureBaseline(ctx context.Context, address string) (*models.Marker, error) {
	return a.FetchMarker(ctx, address)
}

func (a *evmNativeAdapter) FetchMarker(ctx context.Context, address string) (*models.Marker, error) {
	bal, err := a.backend.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	return models.BalanceMarker(bal), nil
}

func (a *evmNativeAdapter) HasChanged(baseline, marker *models.Marker) bool {
	return balanceChanged(baseline, marker)
}

type evmERC20Adapter struct {
	backend  EVMBackend
	contract common.Address
}

func NewEVMERC20Adapter(backend EVMBackend, contract string) (ChainAdapter, error) {
	if contract == "" {
		return nil, notConfigured("token contract missing")
	}
	if !common.IsHexAddress(contract) {
		return nil, notConfigured("invalid token contract %q", contract)
	}
	return &evmERC20Adapter{backend: backend, contract: common.HexToAddress(contract)}, nil
}

func (a *evmERC20Adapter) Variant() Variant { return VariantEVMERC20 }

func (a *evmERC20Adapter) CaptureBaseline(ctx context.Context, address string) (*models.Marker, error) {
	return a.FetchMarker(ctx, address)
}

func (a *evmERC20Adapter) FetchMarker(ctx context.Context, address string) (*models.Marker, error) {
	bal, err := TokenBalance(ctx, a.backend, a.contract, common.HexToAddress(address))
	if err != nil {
		return nil, err
	}
	return models.BalanceMarker(bal), nil
}

func (a *evmERC20Adapter) HasChanged(baseline, marker *models.Marker) bool {
	return balanceChanged(baseline, marker)
}
