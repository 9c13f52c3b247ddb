package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/usecase"
)

// Backend is the JSON-RPC surface the adapters need.
// Both *ethclient.Client and simulated.Client satisfy it.
type Backend interface {
	bind.ContractBackend
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Client implements usecase.ChainReader on top of a JSON-RPC backend
type Client struct {
	backend Backend
	chain   domain.ChainInfo
	log     *slog.Logger
}

// NewClient creates a read client for one chain
func NewClient(backend Backend, chain domain.ChainInfo, log *slog.Logger) *Client {
	return &Client{
		backend: backend,
		chain:   chain,
		log:     log.With("component", "ChainClient", "chain", chain.Key),
	}
}

// ReadContract calls a view method at the latest block and returns the unpacked outputs
func (c *Client) ReadContract(ctx context.Context, to common.Address, contract *abi.ABI, method string, args ...any) ([]any, error) {
	bound := bind.NewBoundContract(to, *contract, c.backend, c.backend, c.backend)

	var out []interface{}
	if err := bound.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, fmt.Errorf("failed to call %s on %s: %w", method, to.Hex(), err)
	}
	c.log.Debug("read contract", "to", to.Hex(), "method", method, "result", out)
	return out, nil
}

func (c *Client) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	return c.backend.FilterLogs(ctx, query)
}

func (c *Client) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return c.backend.TransactionReceipt(ctx, hash)
}

func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return c.backend.SuggestGasPrice(ctx)
}

func (c *Client) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	return c.backend.BalanceAt(ctx, account, nil)
}

// Ensure the adapter implements the interface
var _ usecase.ChainReader = (*Client)(nil)
