package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/bindings"
)

// InsufficientScenario deploys an unfunded gateway, checks that nothing resolves,
// then raises the fees and expects resolution
type InsufficientScenario struct {
	kit *ScenarioKit
}

func NewInsufficientScenario(kit *ScenarioKit) *InsufficientScenario {
	return &InsufficientScenario{kit: kit}
}

func (s *InsufficientScenario) Scenario() domain.Scenario { return domain.ScenarioInsufficient }

func (s *InsufficientScenario) Run(ctx context.Context) (*domain.ScenarioResult, error) {
	return s.kit.run(ctx, gatewayPlan{
		scenario: domain.ScenarioInsufficient,
		title:    "Insufficient fees",
		gateway:  "ReadAppGateway",
		fees:     new(big.Int),
		chains:   1,
	}, s.body)
}

const insufficientContract = "multichain"

func (s *InsufficientScenario) body(ctx context.Context, run *scenarioRun) error {
	k := s.kit
	chain := run.chains[0]
	polling := k.Config.Polling

	k.Sink.Info(fmt.Sprintf("Testing fees for '%s' on chain %d", insufficientContract, chain.ChainID))
	if err := k.Resolver.ExpectUnresolved(ctx, insufficientContract, chain.ChainID, run.gateway, polling.Insufficient); err != nil {
		return err
	}

	requests := k.Config.Scenarios.InsufficientRequestCount
	evmx := k.Registry.Coordination()
	if _, err := k.Deployer.Call(ctx, evmx, run.gateway, bindings.AppGateway, "increaseFees", nil, requests, k.Config.Fees.DeployFees); err != nil {
		return err
	}

	forwarder, onchain, err := k.Resolver.Resolve(ctx, insufficientContract, chain.ChainID, run.gateway, polling.InsufficientRetry)
	if err != nil {
		return err
	}
	run.addresses.Add(chainRole(0), chain.ChainID, forwarder, onchain)
	return nil
}
