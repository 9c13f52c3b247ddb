package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/usecase"
)

// Transactor implements usecase.ChainWriter with a local private key.
// Transactions to the coordination chain are always sent with a zero gas price;
// other chains leave fee selection to the node.
type Transactor struct {
	backend Backend
	chain   domain.ChainInfo
	key     *ecdsa.PrivateKey
	from    common.Address
	log     *slog.Logger
}

// NewTransactor creates a signing client for one chain
func NewTransactor(backend Backend, chain domain.ChainInfo, key *ecdsa.PrivateKey, log *slog.Logger) *Transactor {
	return &Transactor{
		backend: backend,
		chain:   chain,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		log:     log.With("component", "Transactor", "chain", chain.Key),
	}
}

// Address returns the operator account
func (t *Transactor) Address() common.Address {
	return t.from
}

// transactOpts builds fresh options for every transaction so nonces are fetched from the node
func (t *Transactor) transactOpts(ctx context.Context, value *big.Int) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(t.key, new(big.Int).SetUint64(t.chain.ChainID))
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	if value != nil {
		opts.Value = new(big.Int).Set(value)
	}
	if t.chain.Coordination {
		opts.GasPrice = big.NewInt(0)
	}
	return opts, nil
}

// Deploy submits a contract creation transaction
func (t *Transactor) Deploy(ctx context.Context, contract *abi.ABI, bytecode []byte, args ...any) (common.Hash, error) {
	opts, err := t.transactOpts(ctx, nil)
	if err != nil {
		return common.Hash{}, err
	}

	_, tx, _, err := bind.DeployContract(opts, *contract, bytecode, t.backend, args...)
	if err != nil {
		return common.Hash{}, err
	}
	t.log.Debug("deployment submitted", "tx", tx.Hash().Hex(), "nonce", tx.Nonce())
	return tx.Hash(), nil
}

// Transact submits a state-changing call of method on the contract at to
func (t *Transactor) Transact(ctx context.Context, to common.Address, contract *abi.ABI, method string, value *big.Int, args ...any) (common.Hash, error) {
	opts, err := t.transactOpts(ctx, value)
	if err != nil {
		return common.Hash{}, err
	}

	bound := bind.NewBoundContract(to, *contract, t.backend, t.backend, t.backend)
	tx, err := bound.Transact(opts, method, args...)
	if err != nil {
		return common.Hash{}, err
	}
	t.log.Debug("transaction submitted", "tx", tx.Hash().Hex(), "method", method, "nonce", tx.Nonce())
	return tx.Hash(), nil
}

// Ensure the adapter implements the interface
var _ usecase.ChainWriter = (*Transactor)(nil)
