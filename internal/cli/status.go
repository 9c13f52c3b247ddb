package cli

import (
	"time"

	"github.com/socket-protocol/evmx-integration/internal/app"
	"github.com/socket-protocol/evmx-integration/internal/usecase"
	"github.com/spf13/cobra"
)

// initMonitorApp builds the monitor application; replaced in tests
var initMonitorApp = app.InitMonitorApp

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	var (
		chainID uint64
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "status <script>",
		Short: "Follow the EVMx status of every transaction in a forge broadcast",
		Long: `Reads broadcast/<script>.s.sol/<chain>/run-latest.json and polls the status API
until every transaction is COMPLETED or has no logs.`,
		Example: `  evmx-it status Deploy
  evmx-it status SetupFees --chain 7625382 --timeout 5m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initMonitorApp(setupViper(cmd))
			if err != nil {
				return err
			}

			result, err := a.MonitorBroadcast.Run(cmd.Context(), usecase.MonitorBroadcastParams{
				Script:  args[0],
				ChainID: chainID,
				Timeout: timeout,
			})
			if result != nil {
				if renderErr := a.StatusRenderer.Render(result); renderErr != nil && err == nil {
					err = renderErr
				}
			}
			return err
		},
	}

	cmd.Flags().Uint64Var(&chainID, "chain", usecase.DefaultBroadcastChainID, "Broadcast chain directory")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up after this long (default from polling.broadcast.timeout)")

	return cmd
}
