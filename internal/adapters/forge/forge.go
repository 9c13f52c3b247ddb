package forge

import (
	"context"
	"log/slog"
	"os/exec"
	"time"

	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/config"
	"github.com/socket-protocol/evmx-integration/internal/usecase"
)

// ForgeAdapter runs the external forge compiler
type ForgeAdapter struct {
	log         *slog.Logger
	projectRoot string
	// command is overridable in tests
	command []string
}

// NewForgeAdapter creates a new forge executor
func NewForgeAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *ForgeAdapter {
	return &ForgeAdapter{
		log:         log.With("component", "ForgeAdapter"),
		projectRoot: cfg.ProjectRoot,
		command:     []string{"forge", "build"},
	}
}

// Build runs forge build in the project root
func (f *ForgeAdapter) Build(ctx context.Context) error {
	start := time.Now()
	f.log.Debug("running forge build", "dir", f.projectRoot)

	cmd := exec.CommandContext(ctx, f.command[0], f.command[1:]...)
	cmd.Dir = f.projectRoot

	output, err := cmd.CombinedOutput()
	duration := time.Since(start)

	if err != nil {
		f.log.Error("forge build failed", "error", err, "duration", duration)
		return &domain.BuildError{Output: string(output), Err: err}
	}

	f.log.Debug("forge build completed successfully", "duration", duration)
	return nil
}

// Ensure the adapter implements the interface
var _ usecase.ContractBuilder = (*ForgeAdapter)(nil)
