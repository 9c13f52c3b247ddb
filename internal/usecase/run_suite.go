package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/config"
)

// RunSuiteParams contains parameters for running the integration suite
type RunSuiteParams struct {
	Flags domain.ScenarioFlags
}

// RunSuiteResult contains the outcome of a suite run
type RunSuiteResult struct {
	Report *domain.RunReport
}

// RunSuite builds the contracts and runs the selected scenarios in their fixed order
type RunSuite struct {
	config    *config.RuntimeConfig
	registry  *ChainRegistry
	deployer  *Deployer
	runners   []ScenarioRunner
	confirmer MainnetConfirmer
	reports   ReportWriter
	progress  ProgressSink
	log       *slog.Logger
}

// NewRunSuite creates a new RunSuite use case
func NewRunSuite(
	cfg *config.RuntimeConfig,
	registry *ChainRegistry,
	deployer *Deployer,
	runners []ScenarioRunner,
	confirmer MainnetConfirmer,
	reports ReportWriter,
	progress ProgressSink,
	log *slog.Logger,
) *RunSuite {
	return &RunSuite{
		config:    cfg,
		registry:  registry,
		deployer:  deployer,
		runners:   runners,
		confirmer: confirmer,
		reports:   reports,
		progress:  progress,
		log:       log.With("component", "RunSuite"),
	}
}

// DefaultScenarios returns one runner per scenario
func DefaultScenarios(kit *ScenarioKit) []ScenarioRunner {
	return []ScenarioRunner{
		NewWriteScenario(kit),
		NewReadScenario(kit),
		NewTriggerScenario(kit),
		NewUploadScenario(kit),
		NewSchedulerScenario(kit),
		NewInsufficientScenario(kit),
		NewRevertScenario(kit),
		NewDeployScenario(kit),
	}
}

// Run executes the suite. The returned result carries the report even when a scenario failed.
func (uc *RunSuite) Run(ctx context.Context, params RunSuiteParams) (*RunSuiteResult, error) {
	start := time.Now()
	report := &domain.RunReport{
		StartedAt: start,
		Operator:  uc.registry.Operator(),
		Chains:    uc.registry.Infos(),
	}
	result := &RunSuiteResult{Report: report}

	// Stage 1: Confirm mainnet usage
	if uc.registry.HasMainnets() && !uc.config.NonInteractive {
		ok, err := uc.confirmer.ConfirmMainnet(uc.registry.Mainnets())
		if err != nil {
			return result, fmt.Errorf("failed to confirm mainnet usage: %w", err)
		}
		if !ok {
			return result, domain.ErrMainnetDeclined
		}
	}

	// Stage 2: Build contracts
	if err := uc.deployer.Build(ctx); err != nil {
		return result, err
	}

	// Stage 3: Run scenarios in declaration order
	runErr := uc.runScenarios(ctx, params.Flags.Selected(), report)

	report.Duration = time.Since(start)
	report.Passed = runErr == nil

	// Stage 4: Persist report
	if uc.config.ReportPath != "" {
		if err := uc.reports.WriteReport(uc.config.ReportPath, report); err != nil {
			if runErr != nil {
				return result, runErr
			}
			return result, fmt.Errorf("failed to write report: %w", err)
		}
		uc.log.Debug("report written", "path", uc.config.ReportPath)
	}

	return result, runErr
}

func (uc *RunSuite) runScenarios(ctx context.Context, selected []domain.Scenario, report *domain.RunReport) error {
	for _, scenario := range selected {
		runner, ok := lo.Find(uc.runners, func(r ScenarioRunner) bool { return r.Scenario() == scenario })
		if !ok {
			return fmt.Errorf("no runner registered for scenario %s", scenario)
		}

		uc.log.Debug("running scenario", "scenario", scenario)
		res, err := runner.Run(ctx)
		if res != nil {
			report.Results = append(report.Results, *res)
		}
		if err != nil {
			return fmt.Errorf("%s scenario failed: %w", scenario, err)
		}
	}
	return nil
}
