package cli

import (
	"fmt"

	"github.com/socket-protocol/evmx-integration/internal/app"
	"github.com/socket-protocol/evmx-integration/internal/config"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/usecase"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// scenarioFlag binds one scenario selection flag
type scenarioFlag struct {
	name      string
	shorthand string
	usage     string
	target    func(*domain.ScenarioFlags) *bool
}

var scenarioFlags = []scenarioFlag{
	{"write", "w", "Run write tests", func(f *domain.ScenarioFlags) *bool { return &f.Write }},
	{"read", "r", "Run read tests", func(f *domain.ScenarioFlags) *bool { return &f.Read }},
	{"trigger", "t", "Run on-chain to EVMx trigger tests", func(f *domain.ScenarioFlags) *bool { return &f.Trigger }},
	{"upload", "u", "Run upload tests", func(f *domain.ScenarioFlags) *bool { return &f.Upload }},
	{"scheduler", "s", "Run scheduler tests", func(f *domain.ScenarioFlags) *bool { return &f.Scheduler }},
	{"insufficient", "i", "Run insufficient fees tests", func(f *domain.ScenarioFlags) *bool { return &f.Insufficient }},
	{"revert", "v", "Run revert tests", func(f *domain.ScenarioFlags) *bool { return &f.Revert }},
	{"deploy", "d", "Run deployment tests", func(f *domain.ScenarioFlags) *bool { return &f.Deploy }},
	{"all", "a", "Run all tests", func(f *domain.ScenarioFlags) *bool { return &f.All }},
}

// initApp builds the application; replaced in tests
var initApp = app.InitApp

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var flags domain.ScenarioFlags

	rootCmd := &cobra.Command{
		Use:   "evmx-it [flags]",
		Short: "Cross-chain integration tests for EVMx app gateways",
		Long: `evmx-it deploys test app gateways on EVMx, funds them, deploys their
on-chain contracts and drives cross-chain scenarios against live testnets.

Scenarios always run in the order write, read, trigger, upload, scheduler,
insufficient, revert, deploy and the run stops at the first failure.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Nothing selected: usage only, before any configuration is read
			if flags.Empty() {
				return cmd.Usage()
			}
			return runSuite(cmd, flags)
		},
	}

	for _, f := range scenarioFlags {
		rootCmd.Flags().BoolVarP(f.target(&flags), f.name, f.shorthand, false, f.usage)
	}
	rootCmd.Flags().Bool("skip-build", false, "Skip forge build")
	rootCmd.Flags().String("report", "", "Write a YAML run report to this file")

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().BoolP("help", "?", false, "Show this help")

	rootCmd.AddCommand(NewStatusCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func runSuite(cmd *cobra.Command, flags domain.ScenarioFlags) error {
	v := setupViper(cmd)

	a, err := initApp(v)
	if err != nil {
		return err
	}
	a.Log.Debug("starting run", "scenarios", flags.Selected())

	result, err := a.RunSuite.Run(cmd.Context(), usecase.RunSuiteParams{Flags: flags})
	if result != nil {
		if renderErr := a.SummaryRenderer.Render(result); renderErr != nil && err == nil {
			err = fmt.Errorf("failed to render summary: %w", renderErr)
		}
	}
	return err
}

// setupViper loads .env files, the optional config file and binds the command flags
func setupViper(cmd *cobra.Command) *viper.Viper {
	return config.SetupViper(config.FindProjectRoot(), cmd)
}
