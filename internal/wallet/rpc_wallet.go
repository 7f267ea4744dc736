package wallet

import (
	"context"
	"donwatch/internal/providers"
	"donwatch/internal/structures"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// RPCWallet talks to a signer that speaks the EIP-1193 method set over JSON-RPC.
type RPCWallet struct {
	client *rpc.Client
	eth    *ethclient.Client
}

func DialRPCWallet(ctx context.Context, endpoint string) (*RPCWallet, error) {
	c, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return &RPCWallet{client: c, eth: ethclient.NewClient(c)}, nil
}

// NewWalletProvider returns nil when no wallet endpoint is configured, which
// the flow reports as "No wallet found".
func NewWalletProvider(conf *structures.Config, logger providers.Logger) Provider {
	if conf.Wallet.Endpoint == "" {
		logger.Infof(providers.TypeWallet, "Wallet endpoint not configured, wallet donations disabled")
		return nil
	}
	w, err := DialRPCWallet(context.Background(), conf.Wallet.Endpoint)
	if err != nil {
		logger.Warnf(providers.TypeWallet, "Unable to dial wallet endpoint: %v", err)
		return nil
	}
	return w
}

func (w *RPCWallet) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := w.client.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (w *RPCWallet) SwitchChain(ctx context.Context, chainID *big.Int) error {
	param := map[string]string{"chainId": hexutil.EncodeBig(chainID)}
	return w.client.CallContext(ctx, nil, "wallet_switchEthereumChain", param)
}

type sendTxArgs struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Value *hexutil.Big   `json:"value,omitempty"`
	Data  hexutil.Bytes  `json:"data,omitempty"`
}

func (w *RPCWallet) SendTransaction(ctx context.Context, req TxRequest) (common.Hash, error) {
	args := sendTxArgs{From: req.From, To: req.To, Data: req.Data}
	if req.Value != nil && req.Value.Sign() > 0 {
		args.Value = (*hexutil.Big)(req.Value)
	}
	var hash common.Hash
	if err := w.client.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

func (w *RPCWallet) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return w.eth.CallContract(ctx, msg, blockNumber)
}

func (w *RPCWallet) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return w.eth.TransactionReceipt(ctx, hash)
}

func (w *RPCWallet) Close() {
	w.client.Close()
}
