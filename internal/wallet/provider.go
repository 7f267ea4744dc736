package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type TxRequest struct {
	From  common.Address
	To    common.Address
	Value *big.Int
	Data  []byte
}

// Provider is the donor's signing wallet. It is consumed here, never implemented
// beyond the JSON-RPC bridge in RPCWallet.
type Provider interface {
	Accounts(ctx context.Context) ([]common.Address, error)
	SwitchChain(ctx context.Context, chainID *big.Int) error
	SendTransaction(ctx context.Context, req TxRequest) (common.Hash, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}
