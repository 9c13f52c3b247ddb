package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/bindings"
)

// TriggerScenario drives the gateway from on-chain contracts and propagates the value back out
type TriggerScenario struct {
	kit *ScenarioKit
}

func NewTriggerScenario(kit *ScenarioKit) *TriggerScenario {
	return &TriggerScenario{kit: kit}
}

func (s *TriggerScenario) Scenario() domain.Scenario { return domain.ScenarioTrigger }

func (s *TriggerScenario) Run(ctx context.Context) (*domain.ScenarioResult, error) {
	return s.kit.run(ctx, gatewayPlan{
		scenario: domain.ScenarioTrigger,
		title:    "Trigger from onchain",
		gateway:  "OnchainTriggerAppGateway",
		chains:   2,
		resolve:  "onchainToEVMx",
	}, s.body)
}

func (s *TriggerScenario) body(ctx context.Context, run *scenarioRun) error {
	k := s.kit
	pair1, err := run.addresses.Pair(chainRole(0))
	if err != nil {
		return err
	}
	pair2, err := run.addresses.Pair(chainRole(1))
	if err != nil {
		return err
	}
	chain1, chain2 := run.chains[0], run.chains[1]
	evmx := k.Registry.Coordination()
	increase := k.Config.Scenarios.TriggerIncrease

	k.Sink.Info(fmt.Sprintf("Increase on AppGateway from %s", chain1.Name))
	if _, err := k.Deployer.Call(ctx, chain1, pair1.Onchain, bindings.TriggerOnchain, "increaseOnGateway", nil, increase); err != nil {
		return err
	}
	onGateway, err := k.awaitValue(ctx, "valueOnGateway", ">= "+increase.String(),
		evmx.Reader, run.gateway, bindings.TriggerGateway, "valueOnGateway",
		func(v *big.Int) bool { return v.Cmp(increase) >= 0 })
	if err != nil {
		return err
	}
	run.note("valueOnGateway", onGateway.String())

	k.Sink.Info(fmt.Sprintf("Update on %s from AppGateway", chain2.Name))
	if _, err := k.Deployer.Call(ctx, evmx, run.gateway, bindings.TriggerGateway, "updateOnchain", nil, uint32(chain2.ChainID)); err != nil {
		return err
	}
	onChain2, err := k.awaitValue(ctx, fmt.Sprintf("value on %s", chain2.Name), onGateway.String(),
		chain2.Reader, pair2.Onchain, bindings.TriggerOnchain, "value",
		func(v *big.Int) bool { return v.Cmp(onGateway) == 0 })
	if err != nil {
		return err
	}

	k.Sink.Info(fmt.Sprintf("Propagate update from %s to %s", chain2.Name, chain1.Name))
	if _, err := k.Deployer.Call(ctx, chain2, pair2.Onchain, bindings.TriggerOnchain, "propagateToAnother", nil, uint32(chain1.ChainID)); err != nil {
		return err
	}
	onChain1, err := k.awaitValue(ctx, fmt.Sprintf("value on %s", chain1.Name), onChain2.String(),
		chain1.Reader, pair1.Onchain, bindings.TriggerOnchain, "value",
		func(v *big.Int) bool { return v.Cmp(onChain2) == 0 })
	if err != nil {
		return err
	}
	run.note("valueOnchain", onChain1.String())
	return nil
}
