package usecase

import (
	"context"
	"math/big"

	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/bindings"
)

// WriteScenario exercises sequential, parallel and alternating cross-chain writes
type WriteScenario struct {
	kit *ScenarioKit
}

func NewWriteScenario(kit *ScenarioKit) *WriteScenario {
	return &WriteScenario{kit: kit}
}

func (s *WriteScenario) Scenario() domain.Scenario { return domain.ScenarioWrite }

func (s *WriteScenario) Run(ctx context.Context) (*domain.ScenarioResult, error) {
	plan := gatewayPlan{
		scenario: domain.ScenarioWrite,
		title:    "Write",
		gateway:  "WriteAppGateway",
		chains:   2,
		resolve:  "multichain",
	}
	return s.kit.run(ctx, plan, s.body)
}

func (s *WriteScenario) body(ctx context.Context, run *scenarioRun) error {
	k := s.kit
	k.Sink.Info("Running all write tests functions...")

	chain1, err := run.addresses.Pair(chainRole(0))
	if err != nil {
		return err
	}
	chain2, err := run.addresses.Pair(chainRole(1))
	if err != nil {
		return err
	}

	evmx := k.Registry.Coordination()
	requests, err := readBigInt(ctx, evmx.Reader, run.gateway, bindings.WriteGateway, "numberOfRequests")
	if err != nil {
		return err
	}
	run.note("numberOfRequests", requests.String())

	steps := []struct {
		method string
		args   []any
	}{
		{"triggerSequentialWrite", []any{chain2.Forwarder}},
		{"triggerParallelWrite", []any{chain1.Forwarder}},
		{"triggerAltWrite", []any{chain2.Forwarder, chain1.Forwarder}},
	}

	for i, step := range steps {
		if _, err := k.Deployer.Call(ctx, evmx, run.gateway, bindings.WriteGateway, step.method, nil, step.args...); err != nil {
			return err
		}
		expected := new(big.Int).Mul(requests, big.NewInt(int64(i+1)))
		if _, err := k.Waiter.AwaitLogCount(ctx, run.gateway, expected.Uint64(), k.Config.Polling.Logs.Timeout); err != nil {
			return err
		}
	}
	return nil
}
