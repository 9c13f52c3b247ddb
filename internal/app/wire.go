//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/socket-protocol/evmx-integration/internal/adapters"
	"github.com/socket-protocol/evmx-integration/internal/cli/render"
	"github.com/socket-protocol/evmx-integration/internal/config"
	"github.com/socket-protocol/evmx-integration/internal/logging"
	"github.com/socket-protocol/evmx-integration/internal/usecase"
	"github.com/spf13/viper"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployer,
		usecase.NewFeeLedger,
		usecase.NewAddressResolver,
		usecase.NewWaiter,
		usecase.NewScenarioKit,
		usecase.DefaultScenarios,
		usecase.NewRunSuite,

		// Renderers
		ProvideOutput,
		render.NewSummaryRenderer,

		// App
		NewApp,
	)
	return nil, nil
}

// InitMonitorApp creates the App used by the status command
func InitMonitorApp(v *viper.Viper) (*MonitorApp, error) {
	wire.Build(
		config.MonitorProvider,
		logging.LoggingSet,

		adapters.ForgeSet,
		adapters.ProgressSet,
		adapters.StatusAPISet,

		usecase.NewMonitorBroadcast,

		ProvideOutput,
		render.NewStatusRenderer,

		NewMonitorApp,
	)
	return nil, nil
}
