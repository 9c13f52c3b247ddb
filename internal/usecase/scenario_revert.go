package usecase

import (
	"context"

	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/bindings"
)

// RevertScenario checks that on-chain and callback reverts are reported by the status API
type RevertScenario struct {
	kit *ScenarioKit
}

func NewRevertScenario(kit *ScenarioKit) *RevertScenario {
	return &RevertScenario{kit: kit}
}

func (s *RevertScenario) Scenario() domain.Scenario { return domain.ScenarioRevert }

func (s *RevertScenario) Run(ctx context.Context) (*domain.ScenarioResult, error) {
	return s.kit.run(ctx, gatewayPlan{
		scenario: domain.ScenarioRevert,
		title:    "Revert",
		gateway:  "RevertAppGateway",
		chains:   1,
		resolve:  "counter",
	}, s.body)
}

func (s *RevertScenario) body(ctx context.Context, run *scenarioRun) error {
	k := s.kit
	chainID := uint32(run.chains[0].ChainID)
	evmx := k.Registry.Coordination()

	k.Sink.Info("Testing onchain revert")
	hash, err := k.Deployer.Call(ctx, evmx, run.gateway, bindings.RevertGateway, "testOnChainRevert", nil, chainID)
	if err != nil {
		return err
	}
	if _, err := k.Waiter.AwaitRemoteStatus(ctx, hash, ProofThenExecutionFailed(), k.Config.Polling.Status); err != nil {
		return err
	}
	run.note("onchainRevertTx", hash.Hex())

	k.Sink.Info("Testing callback revert")
	hash, err = k.Deployer.Call(ctx, evmx, run.gateway, bindings.RevertGateway, "testCallbackRevertWrongInputArgs", nil, chainID)
	if err != nil {
		return err
	}
	if _, err := k.Waiter.AwaitRemoteStatus(ctx, hash, CallbackStatus(domain.StatusPromiseResolveFailed), k.Config.Polling.Status); err != nil {
		return err
	}
	run.note("callbackRevertTx", hash.Hex())
	return nil
}
