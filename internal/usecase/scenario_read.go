package usecase

import (
	"context"
	"math/big"

	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/bindings"
)

// ReadScenario exercises parallel and alternating cross-chain reads
type ReadScenario struct {
	kit *ScenarioKit
}

func NewReadScenario(kit *ScenarioKit) *ReadScenario {
	return &ReadScenario{kit: kit}
}

func (s *ReadScenario) Scenario() domain.Scenario { return domain.ScenarioRead }

func (s *ReadScenario) Run(ctx context.Context) (*domain.ScenarioResult, error) {
	return s.kit.run(ctx, gatewayPlan{
		scenario: domain.ScenarioRead,
		title:    "Read",
		gateway:  "ReadAppGateway",
		chains:   2,
		resolve:  "multichain",
	}, s.body)
}

func (s *ReadScenario) body(ctx context.Context, run *scenarioRun) error {
	k := s.kit
	k.Sink.Info("Running all read tests functions...")

	chain1, err := run.addresses.Pair(chainRole(0))
	if err != nil {
		return err
	}
	chain2, err := run.addresses.Pair(chainRole(1))
	if err != nil {
		return err
	}

	evmx := k.Registry.Coordination()
	requests, err := readBigInt(ctx, evmx.Reader, run.gateway, bindings.ReadGateway, "numberOfRequests")
	if err != nil {
		return err
	}
	run.note("numberOfRequests", requests.String())

	if _, err := k.Deployer.Call(ctx, evmx, run.gateway, bindings.ReadGateway, "triggerParallelRead", nil, chain1.Forwarder); err != nil {
		return err
	}
	if _, err := k.Waiter.AwaitLogCount(ctx, run.gateway, requests.Uint64(), k.Config.Polling.Logs.Timeout); err != nil {
		return err
	}

	if _, err := k.Deployer.Call(ctx, evmx, run.gateway, bindings.ReadGateway, "triggerAltRead", nil, chain2.Forwarder, chain1.Forwarder); err != nil {
		return err
	}
	twice := new(big.Int).Lsh(requests, 1)
	_, err = k.Waiter.AwaitLogCount(ctx, run.gateway, twice.Uint64(), k.Config.Polling.Logs.Timeout)
	return err
}
