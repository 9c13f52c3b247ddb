package usecase

import (
	"context"
	"fmt"

	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/bindings"
)

// UploadScenario uploads an externally deployed counter to EVMx and reads it through its forwarder
type UploadScenario struct {
	kit *ScenarioKit
}

func NewUploadScenario(kit *ScenarioKit) *UploadScenario {
	return &UploadScenario{kit: kit}
}

func (s *UploadScenario) Scenario() domain.Scenario { return domain.ScenarioUpload }

func (s *UploadScenario) Run(ctx context.Context) (*domain.ScenarioResult, error) {
	return s.kit.run(ctx, gatewayPlan{
		scenario: domain.ScenarioUpload,
		title:    "Upload to EVMx",
		gateway:  "UploadAppGateway",
	}, s.body)
}

func (s *UploadScenario) body(ctx context.Context, run *scenarioRun) error {
	k := s.kit
	chains, err := k.selectChains(1)
	if err != nil {
		return err
	}
	chain := chains[0]
	run.result.Chains = []uint64{chain.ChainID}
	evmx := k.Registry.Coordination()

	counter, err := k.Deployer.Deploy(ctx, "Counter", chain)
	if err != nil {
		return err
	}
	run.note("counter", counter.Hex())

	k.Sink.Info(fmt.Sprintf("Increment counter on %s", chain.Name))
	if _, err := k.Deployer.Call(ctx, chain, counter, bindings.Counter, "increment", nil); err != nil {
		return err
	}

	k.Sink.Info("Upload counter to EVMx")
	if _, err := k.Deployer.Call(ctx, evmx, run.gateway, bindings.UploadGateway, "uploadToEVMx", nil, counter, uint32(chain.ChainID)); err != nil {
		return err
	}

	k.Sink.Info("Test read from Counter forwarder address")
	if _, err := k.Deployer.Call(ctx, evmx, run.gateway, bindings.UploadGateway, "read", nil); err != nil {
		return err
	}

	_, err = k.Waiter.AwaitLogCount(ctx, run.gateway, 1, k.Config.Polling.Logs.Timeout)
	return err
}
