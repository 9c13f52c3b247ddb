package cli

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/socket-protocol/evmx-integration/internal/app"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), err
}

// stubApp replaces the injector and records the viper instance it receives
func stubApp(t *testing.T, err error) **viper.Viper {
	t.Helper()
	var got *viper.Viper
	orig := initApp
	initApp = func(v *viper.Viper) (*app.App, error) {
		got = v
		return nil, err
	}
	t.Cleanup(func() { initApp = orig })
	return &got
}

func TestRootUsageHasNoSideEffects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no flags", nil},
		{"question mark", []string{"-?"}},
		{"long help", []string{"--help"}},
		{"help wins over scenarios", []string{"-w", "-?"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stubApp(t, errors.New("must not be called"))

			out, err := execute(t, tt.args...)

			require.NoError(t, err)
			assert.Nil(t, *got)
			assert.Contains(t, out, "-w, --write")
			assert.Contains(t, out, "-?, --help")
			assert.Contains(t, out, "--skip-build")
		})
	}
}

func TestRootRunsSelectedScenarios(t *testing.T) {
	initErr := errors.New("init failed")

	t.Run("shorthand flags reach the app", func(t *testing.T) {
		got := stubApp(t, initErr)

		_, err := execute(t, "-wt", "--skip-build", "--report", "out.yaml", "--non-interactive")

		require.ErrorIs(t, err, initErr)
		require.NotNil(t, *got)
		v := *got
		assert.True(t, v.GetBool("skip_build"))
		assert.True(t, v.GetBool("non_interactive"))
		assert.Equal(t, "out.yaml", v.GetString("report"))
	})

	t.Run("all flag alone is a selection", func(t *testing.T) {
		got := stubApp(t, initErr)

		_, err := execute(t, "-a")

		require.ErrorIs(t, err, initErr)
		assert.NotNil(t, *got)
	})

	t.Run("positional arguments are rejected", func(t *testing.T) {
		stubApp(t, initErr)

		_, err := execute(t, "write")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, initErr)
	})
}

func TestStatusCmd(t *testing.T) {
	t.Run("requires a script name", func(t *testing.T) {
		_, err := execute(t, "status")
		assert.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		cmd := NewStatusCmd()
		assert.Equal(t, "7625382", cmd.Flag("chain").DefValue)
		assert.Equal(t, "0s", cmd.Flag("timeout").DefValue)
	})

	t.Run("injector failure is returned", func(t *testing.T) {
		initErr := errors.New("no api")
		orig := initMonitorApp
		initMonitorApp = func(*viper.Viper) (*app.MonitorApp, error) { return nil, initErr }
		t.Cleanup(func() { initMonitorApp = orig })

		_, err := execute(t, "status", "Deploy", "--chain", "421614")

		assert.ErrorIs(t, err, initErr)
	})
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "evmx-it version dev")
}
