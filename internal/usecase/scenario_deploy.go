package usecase

import (
	"context"

	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/bindings"
)

// deploymentContracts are the contract variants the deployment gateway validates, in order
var deploymentContracts = []string{
	"noPlugNoInititialize",
	"noPlugInitialize",
	"plugNoInitialize",
	"plugInitialize",
	"plugInitializeTwice",
	"plugNoInitInitialize",
}

// DeployScenario validates the contract variants deployed by the gateway
type DeployScenario struct {
	kit *ScenarioKit
}

func NewDeployScenario(kit *ScenarioKit) *DeployScenario {
	return &DeployScenario{kit: kit}
}

func (s *DeployScenario) Scenario() domain.Scenario { return domain.ScenarioDeploy }

func (s *DeployScenario) Run(ctx context.Context) (*domain.ScenarioResult, error) {
	return s.kit.run(ctx, gatewayPlan{
		scenario: domain.ScenarioDeploy,
		title:    "Deployment",
		gateway:  "DeploymentAppGateway",
		chains:   1,
	}, s.body)
}

func (s *DeployScenario) body(ctx context.Context, run *scenarioRun) error {
	k := s.kit
	chain := run.chains[0]

	for i, name := range deploymentContracts {
		if err := k.resolveInto(ctx, run, domain.DeployRole(i), name, chain.ChainID); err != nil {
			return err
		}
	}

	k.Sink.Info("Validate all deployments from AppGateway")
	hash, err := k.Deployer.Call(ctx, k.Registry.Coordination(), run.gateway, bindings.DeploymentGateway, "contractValidation", nil, uint32(chain.ChainID))
	if err != nil {
		return err
	}
	run.note("validationTx", hash.Hex())

	_, err = k.Waiter.AwaitRemoteStatus(ctx, hash, RequestStatus(domain.StatusCompleted), k.Config.Polling.Status)
	return err
}
