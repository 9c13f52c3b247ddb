package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/bindings"
	"github.com/socket-protocol/evmx-integration/internal/domain/config"
)

// AddressResolver maps a gateway contract name and chain to its forwarder and on-chain addresses
type AddressResolver struct {
	registry *ChainRegistry
	sink     ProgressSink
	log      *slog.Logger
}

// NewAddressResolver creates a new AddressResolver
func NewAddressResolver(registry *ChainRegistry, sink ProgressSink, log *slog.Logger) *AddressResolver {
	return &AddressResolver{
		registry: registry,
		sink:     sink,
		log:      log.With("component", "AddressResolver"),
	}
}

// Resolve polls until the forwarder of contractName on chainID is assigned, then reads
// the on-chain address once. A zero on-chain address behind a live forwarder is not retried.
func (r *AddressResolver) Resolve(
	ctx context.Context,
	contractName string,
	chainID uint64,
	gateway common.Address,
	policy config.PollPolicy,
) (forwarder, onchain common.Address, err error) {
	r.sink.Info(fmt.Sprintf("Fetching forwarder address for contract '%s' on chain ID %d", contractName, chainID))

	contract, id, err := r.contractID(ctx, contractName, gateway)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}

	res, _, err := r.pollForwarder(ctx, contract, contractName, chainID, gateway, id, policy)
	if err != nil {
		if errors.Is(err, domain.ErrPollExhausted) {
			return common.Address{}, common.Address{}, &domain.ResolutionTimeoutError{
				Contract: contractName,
				ChainID:  chainID,
				Attempts: res.Attempts,
				Err:      err,
			}
		}
		return common.Address{}, common.Address{}, err
	}
	forwarder = res.Value

	evmx := r.registry.Coordination()
	onchain, err = readAddress(ctx, evmx.Reader, gateway, contract, "getOnChainAddress", id, uint32(chainID))
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	if onchain == (common.Address{}) {
		return common.Address{}, common.Address{}, &domain.ResolutionTimeoutError{
			Contract: contractName,
			ChainID:  chainID,
			Attempts: res.Attempts,
			Onchain:  true,
			Err:      domain.ErrZeroAddress,
		}
	}

	r.sink.Success(fmt.Sprintf("Chain %d", chainID))
	r.sink.Info(fmt.Sprintf("Forwarder: %s", forwarder.Hex()))
	r.sink.Info(fmt.Sprintf("Onchain:   %s", onchain.Hex()))
	r.log.Debug("resolved", "contract", contractName, "chain", chainID, "forwarder", forwarder.Hex(), "onchain", onchain.Hex())
	return forwarder, onchain, nil
}

// ExpectUnresolved succeeds only when the forwarder stays zero for the whole budget
func (r *AddressResolver) ExpectUnresolved(
	ctx context.Context,
	contractName string,
	chainID uint64,
	gateway common.Address,
	policy config.PollPolicy,
) error {
	r.sink.Info(fmt.Sprintf("Checking that '%s' stays unresolved on chain ID %d", contractName, chainID))

	contract, id, err := r.contractID(ctx, contractName, gateway)
	if err != nil {
		return err
	}

	res, reads, err := r.pollForwarder(ctx, contract, contractName, chainID, gateway, id, policy)
	switch {
	case errors.Is(err, domain.ErrPollExhausted) && reads == 0:
		return fmt.Errorf("forwarder for '%s' on chain %d was never read: %w", contractName, chainID, res.LastErr)
	case errors.Is(err, domain.ErrPollExhausted):
		r.sink.Success(fmt.Sprintf("Forwarder for '%s' is still unresolved after %d attempts", contractName, res.Attempts))
		return nil
	case err != nil:
		return err
	default:
		return &domain.AssertionError{
			Check:    fmt.Sprintf("forwarder for '%s' on chain %d", contractName, chainID),
			Expected: "zero address",
			Got:      res.Value.Hex(),
		}
	}
}

func (r *AddressResolver) contractID(ctx context.Context, contractName string, gateway common.Address) (*abi.ABI, [32]byte, error) {
	contract, err := bindings.ContractIDGetter(contractName)
	if err != nil {
		return nil, [32]byte{}, err
	}

	out, err := r.registry.Coordination().Reader.ReadContract(ctx, gateway, contract, contractName)
	if err != nil {
		return nil, [32]byte{}, fmt.Errorf("failed to read contract id %s: %w", contractName, err)
	}
	if len(out) == 0 {
		return nil, [32]byte{}, fmt.Errorf("%s returned no values", contractName)
	}
	id, ok := out[0].([32]byte)
	if !ok {
		return nil, [32]byte{}, fmt.Errorf("%s returned %T, expected bytes32", contractName, out[0])
	}
	return contract, id, nil
}

func (r *AddressResolver) pollForwarder(
	ctx context.Context,
	contract *abi.ABI,
	contractName string,
	chainID uint64,
	gateway common.Address,
	id [32]byte,
	policy config.PollPolicy,
) (PollResult[common.Address], int, error) {
	reader := r.registry.Coordination().Reader
	reads := 0

	res, err := Poll(ctx, policy, func(ctx context.Context, _ int) (common.Address, bool, error) {
		forwarder, err := readAddress(ctx, reader, gateway, contract, "forwarderAddresses", id, uint32(chainID))
		if err != nil {
			return common.Address{}, false, err
		}
		reads++
		return forwarder, forwarder != (common.Address{}), nil
	}, reportWait(ctx, r.sink, "Waiting for forwarder", policy))
	r.sink.Done()

	if res.LastErr != nil {
		r.log.Debug("forwarder read failed", "contract", contractName, "chain", chainID, "error", res.LastErr)
	}
	return res, reads, err
}
