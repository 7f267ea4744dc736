package adapters

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const erc20JSON = `[
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

var ERC20 = mustParseABI(erc20JSON)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

// EVMBackend is the read-only slice of ethclient.Client the adapters need.
type EVMBackend interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

func TokenBalance(ctx context.Context, backend ethereum.ContractCaller, token, holder common.Address) (*big.Int, error) {
	data, err := ERC20.Pack("balanceOf", holder)
	if err != nil {
		return nil, err
	}
	out, err := backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("balanceOf: %w", err)
	}
	vals, err := ERC20.Unpack("balanceOf", out)
	if err != nil {
		return nil, fmt.Errorf("balanceOf: %w", err)
	}
	bal, ok := vals[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("balanceOf: unexpected result %T", vals[0])
	}
	return bal, nil
}

// TokenDecimals reads decimals() from the contract. Call errors are returned
// unwrapped so wallet failures keep their original message.
func TokenDecimals(ctx context.Context, backend ethereum.ContractCaller, token common.Address) (uint8, error) {
	data, err := ERC20.Pack("decimals")
	if err != nil {
		return 0, err
	}
	out, err := backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return 0, err
	}
	vals, err := ERC20.Unpack("decimals", out)
	if err != nil {
		return 0, fmt.Errorf("decimals: %w", err)
	}
	d, ok := vals[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("decimals: unexpected result %T", vals[0])
	}
	return d, nil
}
