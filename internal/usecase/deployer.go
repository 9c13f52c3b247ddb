package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/bindings"
	"github.com/socket-protocol/evmx-integration/internal/domain/config"
)

// Deployer compiles, deploys and calls contracts
type Deployer struct {
	registry  *ChainRegistry
	artifacts ArtifactStore
	builder   ContractBuilder
	cfg       *config.RuntimeConfig
	sink      ProgressSink
	log       *slog.Logger
}

// NewDeployer creates a new Deployer
func NewDeployer(
	registry *ChainRegistry,
	artifacts ArtifactStore,
	builder ContractBuilder,
	cfg *config.RuntimeConfig,
	sink ProgressSink,
	log *slog.Logger,
) *Deployer {
	return &Deployer{
		registry:  registry,
		artifacts: artifacts,
		builder:   builder,
		cfg:       cfg,
		sink:      sink,
		log:       log.With("component", "Deployer"),
	}
}

// Build compiles the contracts once per run unless disabled
func (d *Deployer) Build(ctx context.Context) error {
	if d.cfg.SkipBuild {
		d.log.Debug("skipping forge build")
		return nil
	}

	d.sink.OnProgress(ctx, ProgressEvent{Stage: "build", Message: "Building contracts", Spinner: true})
	err := d.builder.Build(ctx)
	d.sink.Done()
	if err != nil {
		d.sink.Error("Error: Contract compilation failed.")
		return err
	}
	d.sink.Success("Contracts built successfully")
	return nil
}

// Deploy deploys the named contract on chain and returns its address
func (d *Deployer) Deploy(ctx context.Context, contractName string, chain *Chain, args ...any) (common.Address, error) {
	d.sink.Info(fmt.Sprintf("Deploying %s contract on %s", contractName, chain.Name))

	artifact, err := d.artifacts.Load(contractName)
	if err != nil {
		return common.Address{}, &domain.DeploymentError{Contract: contractName, ChainID: chain.ChainID, Err: err}
	}

	hash, err := chain.Writer.Deploy(ctx, artifact.ABI, artifact.Bytecode, args...)
	if err != nil {
		return common.Address{}, &domain.DeploymentError{Contract: contractName, ChainID: chain.ChainID, Err: err}
	}
	d.sink.Link("Deploy Tx", chain.TxURL(hash.Hex()))

	receipt, err := d.awaitReceipt(ctx, chain, hash)
	if err != nil {
		return common.Address{}, &domain.DeploymentError{Contract: contractName, ChainID: chain.ChainID, TxHash: hash, Err: err}
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return common.Address{}, &domain.DeploymentError{
			Contract: contractName, ChainID: chain.ChainID, TxHash: hash,
			Err: errors.New("deployment transaction reverted"),
		}
	}
	if receipt.ContractAddress == (common.Address{}) {
		return common.Address{}, &domain.DeploymentError{
			Contract: contractName, ChainID: chain.ChainID, TxHash: hash,
			Err: fmt.Errorf("failed to get contract address from deployment: %w", domain.ErrZeroAddress),
		}
	}

	d.sink.Link("Contract deployed", chain.AddressURL(receipt.ContractAddress.Hex()))
	d.log.Debug("contract deployed", "contract", contractName, "address", receipt.ContractAddress.Hex(), "chain", chain.ChainID)
	return receipt.ContractAddress, nil
}

// awaitReceipt waits out the propagation delay, then polls until the node has indexed the receipt
func (d *Deployer) awaitReceipt(ctx context.Context, chain *Chain, hash common.Hash) (*types.Receipt, error) {
	if err := sleep(ctx, d.cfg.Polling.PropagationDelay); err != nil {
		return nil, err
	}

	res, err := Poll(ctx, d.cfg.Polling.Receipt, func(ctx context.Context, _ int) (*types.Receipt, bool, error) {
		receipt, err := chain.Reader.TransactionReceipt(ctx, hash)
		if err != nil {
			return nil, false, err
		}
		return receipt, receipt != nil, nil
	}, nil)
	if err != nil {
		if res.LastErr != nil && errors.Is(err, domain.ErrPollExhausted) {
			return nil, fmt.Errorf("receipt not available: %w (last error: %v)", err, res.LastErr)
		}
		return nil, err
	}
	return res.Value, nil
}

// Call submits a state-changing call and returns its hash without waiting for finalization
func (d *Deployer) Call(
	ctx context.Context,
	chain *Chain,
	to common.Address,
	contract *abi.ABI,
	method string,
	value *big.Int,
	args ...any,
) (common.Hash, error) {
	d.sink.Info(fmt.Sprintf("Sending transaction to %s on %s", method, to.Hex()))

	hash, err := chain.Writer.Transact(ctx, to, contract, method, value, args...)
	if err != nil {
		d.sink.Error("Error: Transaction failed.")
		return common.Hash{}, &domain.TransactionError{Method: method, To: to, ChainID: chain.ChainID, Err: err}
	}

	if err := sleep(ctx, d.cfg.Polling.PropagationDelay); err != nil {
		return hash, err
	}
	d.sink.Link("Tx Hash", chain.TxURL(hash.Hex()))
	return hash, nil
}

// DeployGateway deploys a gateway on the coordination chain with (addressResolver, fees)
func (d *Deployer) DeployGateway(ctx context.Context, contractName string, fees *big.Int) (common.Address, error) {
	return d.Deploy(ctx, contractName, d.registry.Coordination(), d.cfg.AddressResolver, fees)
}

// DeployOnchain asks the gateway to deploy its on-chain contracts on chainID
func (d *Deployer) DeployOnchain(ctx context.Context, gateway common.Address, chainID uint64) error {
	d.sink.Info(fmt.Sprintf("Deploying onchain contracts for chain id: %d", chainID))
	_, err := d.Call(ctx, d.registry.Coordination(), gateway, bindings.AppGateway, "deployContracts", nil, uint32(chainID))
	return err
}
