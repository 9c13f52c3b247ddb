package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/socket-protocol/evmx-integration/internal/cli"
	"github.com/socket-protocol/evmx-integration/internal/cli/render"
	"github.com/socket-protocol/evmx-integration/internal/config"
)

// Set with -ldflags at release time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err))
		stop()
		os.Exit(1)
	}
}
