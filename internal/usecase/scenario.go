package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/config"
)

// ScenarioRunner runs one integration scenario end to end
type ScenarioRunner interface {
	Scenario() domain.Scenario
	Run(ctx context.Context) (*domain.ScenarioResult, error)
}

// ScenarioKit bundles the components every scenario composes
type ScenarioKit struct {
	Registry *ChainRegistry
	Deployer *Deployer
	Fees     *FeeLedger
	Resolver *AddressResolver
	Waiter   *Waiter
	Config   *config.RuntimeConfig
	Sink     ProgressSink
	Log      *slog.Logger
}

// NewScenarioKit creates a new ScenarioKit
func NewScenarioKit(
	registry *ChainRegistry,
	deployer *Deployer,
	fees *FeeLedger,
	resolver *AddressResolver,
	waiter *Waiter,
	cfg *config.RuntimeConfig,
	sink ProgressSink,
	log *slog.Logger,
) *ScenarioKit {
	return &ScenarioKit{
		Registry: registry,
		Deployer: deployer,
		Fees:     fees,
		Resolver: resolver,
		Waiter:   waiter,
		Config:   cfg,
		Sink:     sink,
		Log:      log.With("component", "Scenario"),
	}
}

// gatewayPlan describes the common setup of a scenario
type gatewayPlan struct {
	scenario domain.Scenario
	title    string
	gateway  string
	// fees overrides the gateway deploy fees when set
	fees *big.Int
	// chains is the number of random execution chains to deploy on
	chains int
	// resolve is resolved on every chain as chain1, chain2...
	resolve string
}

// scenarioRun is the state of one scenario run
type scenarioRun struct {
	gateway   common.Address
	addresses *domain.ContractAddresses
	chains    []*Chain
	result    *domain.ScenarioResult
}

func (s *scenarioRun) note(key, value string) {
	if s.result.Extra == nil {
		s.result.Extra = map[string]string{}
	}
	s.result.Extra[key] = value
}

// chainRole returns the role of the i-th selected chain
func chainRole(i int) string {
	return fmt.Sprintf("chain%d", i+1)
}

// run executes deploy gateway, deposit, deploy on-chain, resolve, body and withdraw in order.
// The first failure stops the sequence; nothing is rolled back.
func (k *ScenarioKit) run(ctx context.Context, plan gatewayPlan, body func(context.Context, *scenarioRun) error) (*domain.ScenarioResult, error) {
	start := time.Now()
	result := &domain.ScenarioResult{Scenario: plan.scenario}
	k.Sink.Success(fmt.Sprintf("=== Running %s Tests ===", plan.title))

	err := k.setupAndRun(ctx, plan, result, body)
	result.Duration = time.Since(start)
	if err != nil {
		result.Err = err
		result.Error = err.Error()
		k.Log.Debug("scenario failed", "scenario", plan.scenario, "error", err)
		return result, err
	}

	k.Sink.Success(fmt.Sprintf("All %s tests completed successfully!", plan.scenario))
	return result, nil
}

func (k *ScenarioKit) setupAndRun(ctx context.Context, plan gatewayPlan, result *domain.ScenarioResult, body func(context.Context, *scenarioRun) error) error {
	fees := plan.fees
	if fees == nil {
		fees = k.Config.Fees.GatewayFees
	}

	gateway, err := k.Deployer.DeployGateway(ctx, plan.gateway, fees)
	if err != nil {
		return err
	}
	result.Gateway = gateway.Hex()

	state := &scenarioRun{
		gateway:   gateway,
		addresses: domain.NewContractAddresses(gateway),
		result:    result,
	}

	if _, err := k.Fees.Deposit(ctx, gateway); err != nil {
		return err
	}

	if plan.chains > 0 {
		state.chains, err = k.selectChains(plan.chains)
		if err != nil {
			return err
		}
		result.Chains = lo.Map(state.chains, func(c *Chain, _ int) uint64 { return c.ChainID })

		for _, chain := range state.chains {
			if err := k.Deployer.DeployOnchain(ctx, gateway, chain.ChainID); err != nil {
				return err
			}
		}
	}

	if plan.resolve != "" {
		for i, chain := range state.chains {
			if err := k.resolveInto(ctx, state, chainRole(i), plan.resolve, chain.ChainID); err != nil {
				return err
			}
		}
	}

	if err := body(ctx, state); err != nil {
		return err
	}
	result.Pairs = state.addresses.Pairs

	_, err = k.Fees.Withdraw(ctx, gateway)
	return err
}

func (k *ScenarioKit) selectChains(n int) ([]*Chain, error) {
	chains := k.Registry.SelectRandom(n)
	if len(chains) < n {
		return nil, &domain.ConfigurationError{
			Reason: fmt.Sprintf("scenario needs %d execution chains, %d configured", n, len(chains)),
		}
	}
	return chains, nil
}

func (k *ScenarioKit) resolveInto(ctx context.Context, state *scenarioRun, role, contractName string, chainID uint64) error {
	forwarder, onchain, err := k.Resolver.Resolve(ctx, contractName, chainID, state.gateway, k.Config.Polling.Forwarder)
	if err != nil {
		return err
	}
	state.addresses.Add(role, chainID, forwarder, onchain)
	return nil
}

// awaitValue polls a uint256 getter until accept holds and fails with an AssertionError otherwise
func (k *ScenarioKit) awaitValue(
	ctx context.Context,
	check string,
	expected string,
	reader ChainReader,
	to common.Address,
	contract *abi.ABI,
	method string,
	accept func(*big.Int) bool,
) (*big.Int, error) {
	policy := k.Config.Polling.Value
	res, err := Poll(ctx, policy, func(ctx context.Context, _ int) (*big.Int, bool, error) {
		v, err := readBigInt(ctx, reader, to, contract, method)
		if err != nil {
			return nil, false, err
		}
		return v, accept(v), nil
	}, reportWait(ctx, k.Sink, "Waiting for "+check, policy))
	k.Sink.Done()

	if err != nil {
		if errors.Is(err, domain.ErrPollExhausted) {
			got := "nothing"
			if res.Value != nil {
				got = res.Value.String()
			}
			return nil, &domain.AssertionError{Check: check, Expected: expected, Got: got}
		}
		return nil, err
	}
	return res.Value, nil
}
