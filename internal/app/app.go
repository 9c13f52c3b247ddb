package app

import (
	"io"
	"log/slog"
	"os"

	"github.com/socket-protocol/evmx-integration/internal/cli/render"
	"github.com/socket-protocol/evmx-integration/internal/domain/config"
	"github.com/socket-protocol/evmx-integration/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Use cases
	RunSuite *usecase.RunSuite

	// Renderers
	SummaryRenderer render.Renderer[*usecase.RunSuiteResult]
}

// NewApp creates a new application instance
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	runSuite *usecase.RunSuite,
	summaryRenderer *render.SummaryRenderer,
) (*App, error) {
	return &App{
		Config:          cfg,
		Log:             log,
		RunSuite:        runSuite,
		SummaryRenderer: summaryRenderer,
	}, nil
}

// MonitorApp holds the broadcast monitor, which needs no signing key or chain RPCs
type MonitorApp struct {
	Config           *config.RuntimeConfig
	MonitorBroadcast *usecase.MonitorBroadcast
	StatusRenderer   render.Renderer[*usecase.MonitorBroadcastResult]
}

// NewMonitorApp creates a new monitor application instance
func NewMonitorApp(
	cfg *config.RuntimeConfig,
	monitor *usecase.MonitorBroadcast,
	statusRenderer *render.StatusRenderer,
) (*MonitorApp, error) {
	return &MonitorApp{
		Config:           cfg,
		MonitorBroadcast: monitor,
		StatusRenderer:   statusRenderer,
	}, nil
}

// ProvideOutput provides the writer renderers print to
func ProvideOutput() io.Writer {
	return os.Stdout
}
