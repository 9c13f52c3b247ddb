package usecase

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/bindings"
)

// SchedulerScenario triggers timed schedules on the gateway and waits for them to resolve
type SchedulerScenario struct {
	kit *ScenarioKit
}

func NewSchedulerScenario(kit *ScenarioKit) *SchedulerScenario {
	return &SchedulerScenario{kit: kit}
}

func (s *SchedulerScenario) Scenario() domain.Scenario { return domain.ScenarioScheduler }

func (s *SchedulerScenario) Run(ctx context.Context) (*domain.ScenarioResult, error) {
	return s.kit.run(ctx, gatewayPlan{
		scenario: domain.ScenarioScheduler,
		title:    "Scheduler",
		gateway:  "ScheduleAppGateway",
	}, s.body)
}

// ScheduleResolved is one decoded ScheduleResolved event
type ScheduleResolved struct {
	Index              *big.Int
	CreationTimestamp  *big.Int
	ExecutionTimestamp *big.Int
}

func (s *SchedulerScenario) body(ctx context.Context, run *scenarioRun) error {
	k := s.kit
	evmx := k.Registry.Coordination()

	k.Sink.Info("Reading schedules from the contract:")
	count, longest, err := s.schedules(ctx, run.gateway)
	if err != nil {
		return err
	}
	run.note("schedules", fmt.Sprint(count))

	k.Sink.Info("Triggering schedules...")
	if _, err := k.Deployer.Call(ctx, evmx, run.gateway, bindings.ScheduleGateway, "triggerSchedules", nil); err != nil {
		return err
	}

	timeout := time.Duration(longest)*time.Second + k.Config.Polling.ScheduleSlack
	if _, err := k.Waiter.AwaitLogCount(ctx, run.gateway, count, timeout); err != nil {
		return err
	}

	k.Sink.Info("Fetching ScheduleResolved events...")
	events, err := s.resolvedEvents(ctx, run.gateway)
	if err != nil {
		return err
	}
	for _, e := range events {
		k.Sink.Success("Schedule Resolved:")
		k.Sink.Info(fmt.Sprintf("  Index: %s", e.Index))
		k.Sink.Info(fmt.Sprintf("  Created at: %s", e.CreationTimestamp))
		k.Sink.Info(fmt.Sprintf("  Executed at: %s", e.ExecutionTimestamp))
	}
	return nil
}

// maxSchedules bounds the schedulesInSeconds enumeration
const maxSchedules = 1024

// schedules enumerates schedulesInSeconds until it returns zero or the read fails
func (s *SchedulerScenario) schedules(ctx context.Context, gateway common.Address) (count uint64, longest uint64, err error) {
	reader := s.kit.Registry.Coordination().Reader
	for count < maxSchedules {
		if err := ctx.Err(); err != nil {
			return count, longest, err
		}
		seconds, err := readBigInt(ctx, reader, gateway, bindings.ScheduleGateway, "schedulesInSeconds", new(big.Int).SetUint64(count))
		if err != nil || seconds.Sign() == 0 {
			return count, longest, nil
		}
		s.kit.Sink.Info(fmt.Sprintf("Schedule %d: %s seconds", count, seconds))
		count++
		if seconds.IsUint64() && seconds.Uint64() > longest {
			longest = seconds.Uint64()
		}
	}
	return count, longest, fmt.Errorf("schedulesInSeconds returned more than %d schedules", maxSchedules)
}

func (s *SchedulerScenario) resolvedEvents(ctx context.Context, gateway common.Address) ([]ScheduleResolved, error) {
	event := bindings.ScheduleGateway.Events["ScheduleResolved"]
	logs, err := s.kit.Registry.Coordination().Reader.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: common.Big0,
		Addresses: []common.Address{gateway},
		Topics:    [][]common.Hash{{event.ID}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ScheduleResolved logs: %w", err)
	}

	var out []ScheduleResolved
	for _, l := range logs {
		values, err := event.Inputs.Unpack(l.Data)
		if err != nil || len(values) != 3 {
			s.kit.Log.Warn("skipping undecodable ScheduleResolved log", "tx", l.TxHash.Hex(), "error", err)
			continue
		}
		out = append(out, ScheduleResolved{
			Index:              values[0].(*big.Int),
			CreationTimestamp:  values[1].(*big.Int),
			ExecutionTimestamp: values[2].(*big.Int),
		})
	}
	return out, nil
}
