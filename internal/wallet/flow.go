package wallet

import (
	"context"
	"donwatch/internal/adapters"
	"donwatch/internal/assets"
	"donwatch/internal/models"
	"donwatch/internal/providers"
	"donwatch/internal/structures"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
)

// Recorder appends confirmed donations; ledger.Ledger satisfies it.
type Recorder interface {
	Append(rec models.DonationRecord) models.DonationRecord
}

type DonateRequest struct {
	ChainID string
	Token   string
	Amount  decimal.Decimal
	Donor   string
}

type Result struct {
	Record      models.DonationRecord `json:"record"`
	TxHash      string                `json:"txHash"`
	ExplorerURL string                `json:"explorerUrl"`
}

// Flow signs and broadcasts a donation through the donor's wallet and records
// it once the receipt confirms. It never retries.
type Flow struct {
	registry    *assets.Registry
	wallet      Provider
	recorder    Recorder
	receiptPoll time.Duration
	logger      providers.Logger
}

func NewFlow(conf *structures.Config, registry *assets.Registry, wallet Provider, recorder Recorder, logger providers.Logger) *Flow {
	poll := conf.Wallet.ReceiptPoll
	if poll <= 0 {
		poll = time.Second
	}
	return &Flow{
		registry:    registry,
		wallet:      wallet,
		recorder:    recorder,
		receiptPoll: poll,
		logger:      logger,
	}
}

func (f *Flow) Donate(ctx context.Context, req DonateRequest) (*Result, error) {
	chain, contract, err := f.precheck(req)
	if err != nil {
		f.logger.Warnf(providers.TypeWallet, "Wallet donation rejected: %s", err)
		return nil, err
	}

	res, err := f.send(ctx, chain, contract, req)
	if err != nil {
		f.logger.Warnf(providers.TypeWallet, "Wallet donation on %s failed: %s", chain.Name, err)
		return nil, err
	}
	return res, nil
}

// precheck validates everything that can fail without touching the network.
func (f *Flow) precheck(req DonateRequest) (assets.Chain, string, error) {
	chain, ok := f.registry.Lookup(req.ChainID)
	if !ok {
		return assets.Chain{}, "", fmt.Errorf("%w: %q", adapters.ErrUnknownChain, req.ChainID)
	}
	if chain.Kind != assets.KindEVM {
		return chain, "", fmt.Errorf("%w: %s has no wallet transfers", adapters.ErrUnknownChain, chain.Name)
	}
	if chain.Address == "" {
		return chain, "", fmt.Errorf("%w: Missing donation address", adapters.ErrNotConfigured)
	}
	if req.Amount.Sign() <= 0 {
		return chain, "", ErrInvalidAmount
	}
	if f.wallet == nil {
		return chain, "", ErrNoWallet
	}
	if chain.IsNative(req.Token) {
		return chain, "", nil
	}
	contract, ok := chain.TokenContract(req.Token)
	if !ok || !common.IsHexAddress(contract) {
		return chain, "", fmt.Errorf("%w: %s not supported on %s", adapters.ErrNotConfigured, chain.AssetLabel(req.Token), chain.Name)
	}
	return chain, contract, nil
}

func (f *Flow) send(ctx context.Context, chain assets.Chain, contract string, req DonateRequest) (*Result, error) {
	accounts, err := f.wallet.Accounts(ctx)
	if err != nil {
		return nil, stepError("accounts", err)
	}
	if len(accounts) == 0 {
		return nil, stepError("accounts", ErrNoWallet)
	}
	from := accounts[0]

	chainID, ok := new(big.Int).SetString(chain.ID, 10)
	if !ok {
		return nil, fmt.Errorf("%w: chain id %q is not numeric", adapters.ErrNotConfigured, chain.ID)
	}
	if err := f.wallet.SwitchChain(ctx, chainID); err != nil {
		return nil, stepError("switch", err)
	}

	tx := TxRequest{From: from, To: common.HexToAddress(chain.Address)}
	if contract == "" {
		tx.Value = req.Amount.Shift(18).BigInt()
	} else {
		token := common.HexToAddress(contract)
		decimals, err := adapters.TokenDecimals(ctx, f.wallet, token)
		if err != nil {
			return nil, stepError("decimals", err)
		}
		data, err := adapters.ERC20.Pack("transfer", tx.To, req.Amount.Shift(int32(decimals)).BigInt())
		if err != nil {
			return nil, stepError("encode", err)
		}
		tx.To, tx.Data = token, data
	}

	hash, err := f.wallet.SendTransaction(ctx, tx)
	if err != nil {
		return nil, stepError("send", err)
	}
	f.logger.Infof(providers.TypeWallet, "Submitted %s donation %s on %s", chain.AssetLabel(req.Token), hash.Hex(), chain.Name)

	receipt, err := f.awaitReceipt(ctx, hash)
	if err != nil {
		return nil, stepError("receipt", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, stepError("receipt", ErrReverted)
	}

	donor := req.Donor
	if models.DonorOrAnonymous(donor) == models.AnonymousDonor {
		donor = ShortAddress(from)
	}
	rec := f.recorder.Append(models.DonationRecord{
		DonorName:   donor,
		AssetSymbol: chain.AssetLabel(req.Token),
		ChainName:   chain.Name,
		Amount:      req.Amount,
		TxReference: hash.Hex(),
		Method:      models.MethodWallet,
	})
	return &Result{Record: rec, TxHash: hash.Hex(), ExplorerURL: chain.TxURL(hash.Hex())}, nil
}

// awaitReceipt polls until the transaction is mined once.
func (f *Flow) awaitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(f.receiptPoll)
	defer ticker.Stop()
	for {
		receipt, err := f.wallet.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// ShortAddress renders an account as 0x1234…abcd.
func ShortAddress(addr common.Address) string {
	h := strings.ToLower(addr.Hex())
	return h[:6] + "…" + h[len(h)-4:]
}
