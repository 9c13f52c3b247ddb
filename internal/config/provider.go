package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultAPIBase is the status API used when EVMX_API_BASE is unset
const DefaultAPIBase = "https://api-evmx-devnet.socket.tech"

// Provider creates RuntimeConfig for Wire dependency injection.
// Every missing or malformed value is reported as a single ConfigurationError.
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		projectRoot = FindProjectRoot()
	}

	outDir, err := loadFoundryOutDir(projectRoot)
	if err != nil {
		return nil, &domain.ConfigurationError{Keys: []string{"foundry.toml"}, Reason: err.Error()}
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		OutDir:         outDir,
		PrivateKey:     strings.TrimPrefix(v.GetString("private_key"), "0x"),
		EVMxRPC:        v.GetString("evmx_rpc"),
		APIBase:        strings.TrimRight(v.GetString("evmx_api_base"), "/"),
		RPCs:           make(map[string]string),
		FeesPlugs:      make(map[string]common.Address),
		Tokens:         make(map[string]common.Address),
		FeesChain:      v.GetString("fees_chain"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		SkipBuild:      v.GetBool("skip_build"),
		ReportPath:     v.GetString("report"),
	}

	var missing []string
	require := func(key string) string {
		val := v.GetString(key)
		if val == "" {
			missing = append(missing, strings.ToUpper(key))
		}
		return val
	}

	require("private_key")
	require("evmx_rpc")
	feesManager := require("fees_manager")
	resolver := require("address_resolver")
	for _, chain := range ExecutionChains {
		key := strings.ToLower(chain.RPCEnv())
		var url string
		if chain.Required {
			url = require(key)
		} else {
			url = v.GetString(key)
		}
		if url != "" {
			cfg.RPCs[chain.Key] = url
		}
	}
	if len(missing) > 0 {
		return nil, &domain.ConfigurationError{Keys: missing}
	}

	if _, err := crypto.HexToECDSA(cfg.PrivateKey); err != nil {
		return nil, &domain.ConfigurationError{Keys: []string{"PRIVATE_KEY"}, Reason: "not a valid secp256k1 private key"}
	}

	if cfg.FeesManager, err = parseAddress("FEES_MANAGER", feesManager); err != nil {
		return nil, err
	}
	if cfg.AddressResolver, err = parseAddress("ADDRESS_RESOLVER", resolver); err != nil {
		return nil, err
	}

	for _, chain := range ExecutionChains {
		if raw := v.GetString(strings.ToLower(chain.FeesPlugEnv())); raw != "" {
			addr, err := parseAddress(chain.FeesPlugEnv(), raw)
			if err != nil {
				return nil, err
			}
			cfg.FeesPlugs[chain.Key] = addr
		}
		if raw := v.GetString(strings.ToLower(chain.TokenEnv())); raw != "" {
			addr, err := parseAddress(chain.TokenEnv(), raw)
			if err != nil {
				return nil, err
			}
			cfg.Tokens[chain.Key] = addr
		}
	}

	if _, ok := cfg.RPCs[cfg.FeesChain]; !ok {
		return nil, &domain.ConfigurationError{
			Keys:   []string{"FEES_CHAIN"},
			Reason: fmt.Sprintf("%q is not a configured execution chain", cfg.FeesChain),
		}
	}

	// withdrawals always need the funding token, deposits may need the plug
	funding, _ := LookupChain(cfg.FeesChain)
	missing = nil
	if _, ok := cfg.Tokens[funding.Key]; !ok {
		missing = append(missing, funding.TokenEnv())
	}
	if _, ok := cfg.FeesPlugs[funding.Key]; !ok {
		missing = append(missing, funding.FeesPlugEnv())
	}
	if len(missing) > 0 {
		return nil, &domain.ConfigurationError{Keys: missing}
	}

	if cfg.Fees, err = loadFees(v); err != nil {
		return nil, err
	}
	cfg.Polling = loadPolling(v)
	if cfg.Scenarios, err = loadScenarios(v); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MonitorProvider creates the RuntimeConfig of the broadcast monitor.
// It needs no key or RPC endpoints, only the project root, the status API and polling tunables.
func MonitorProvider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		projectRoot = FindProjectRoot()
	}

	apiBase := strings.TrimRight(v.GetString("evmx_api_base"), "/")
	if apiBase == "" {
		return nil, &domain.ConfigurationError{Keys: []string{"EVMX_API_BASE"}}
	}

	return &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		APIBase:        apiBase,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		Polling:        loadPolling(v),
	}, nil
}

func loadFees(v *viper.Viper) (config.FeesConfig, error) {
	fees := config.FeesConfig{
		MintTestTokens:  v.GetBool("fees.mint_test_tokens"),
		ReturnRemainder: v.GetBool("fees.return_remainder"),
	}
	for key, dst := range map[string]**big.Int{
		"fees.deploy_fees":       &fees.DeployFees,
		"fees.gateway_fees":      &fees.GatewayFees,
		"fees.test_token_amount": &fees.TestTokenAmount,
		"fees.gas_buffer":        &fees.GasBuffer,
		"fees.gas_limit":         &fees.GasLimit,
	} {
		n, err := parseBigInt(key, v.GetString(key))
		if err != nil {
			return fees, err
		}
		*dst = n
	}
	return fees, nil
}

func loadPolling(v *viper.Viper) config.PollingConfig {
	policy := func(name string) config.PollPolicy {
		return config.PollPolicy{
			Interval:    v.GetDuration("polling." + name + ".interval"),
			MaxAttempts: v.GetInt("polling." + name + ".attempts"),
			Timeout:     v.GetDuration("polling." + name + ".timeout"),
		}
	}
	return config.PollingConfig{
		Balance:           policy("balance"),
		Forwarder:         policy("forwarder"),
		Insufficient:      policy("insufficient"),
		InsufficientRetry: policy("insufficient_retry"),
		Logs:              policy("logs"),
		Status:            policy("status"),
		Receipt:           policy("receipt"),
		Value:             policy("value"),
		Broadcast:         policy("broadcast"),
		PropagationDelay:  v.GetDuration("polling.propagation_delay"),
		ScheduleSlack:     v.GetDuration("polling.schedule_slack"),
	}
}

func loadScenarios(v *viper.Viper) (config.ScenariosConfig, error) {
	var (
		sc  config.ScenariosConfig
		err error
	)
	if sc.InsufficientRequestCount, err = parseBigInt("scenarios.insufficient_request_count",
		v.GetString("scenarios.insufficient_request_count")); err != nil {
		return sc, err
	}
	if sc.TriggerIncrease, err = parseBigInt("scenarios.trigger_increase",
		v.GetString("scenarios.trigger_increase")); err != nil {
		return sc, err
	}
	return sc, nil
}

func parseAddress(key, raw string) (common.Address, error) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, &domain.ConfigurationError{Keys: []string{key}, Reason: "not a hex address"}
	}
	return common.HexToAddress(raw), nil
}

// parseBigInt accepts decimal or 0x-prefixed hex integers
func parseBigInt(key, raw string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(raw), 0)
	if !ok || n.Sign() < 0 {
		return nil, &domain.ConfigurationError{Keys: []string{key}, Reason: fmt.Sprintf("%q is not a non-negative integer", raw)}
	}
	return n, nil
}

// FindProjectRoot walks up from current directory to find foundry.toml.
// The working directory is used when no foundry project encloses it.
func FindProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, "foundry.toml")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd
		}
		dir = parent
	}
}

// SetDefaults installs the default tunables on a viper instance
func SetDefaults(v *viper.Viper) {
	v.SetDefault("evmx_api_base", DefaultAPIBase)
	v.SetDefault("fees_chain", "arbitrum-sepolia")

	v.SetDefault("fees.deploy_fees", "1000000000000000000")
	v.SetDefault("fees.gateway_fees", "500000000000000000")
	v.SetDefault("fees.test_token_amount", "1000000")
	v.SetDefault("fees.gas_buffer", "100000000")
	v.SetDefault("fees.gas_limit", "50000000000")
	v.SetDefault("fees.mint_test_tokens", true)
	v.SetDefault("fees.return_remainder", false)

	poll := func(name string, interval time.Duration, attempts int, timeout time.Duration) {
		v.SetDefault("polling."+name+".interval", interval)
		v.SetDefault("polling."+name+".attempts", attempts)
		v.SetDefault("polling."+name+".timeout", timeout)
	}
	poll("balance", time.Second, 60, 0)
	poll("forwarder", time.Second, 30, 0)
	poll("insufficient", time.Second, 15, 0)
	poll("insufficient_retry", 5*time.Second, 15, 0)
	poll("logs", 2*time.Second, 0, 300*time.Second)
	poll("status", time.Second, 60, 0)
	poll("receipt", time.Second, 30, 0)
	poll("value", 2*time.Second, 60, 0)
	poll("broadcast", 2*time.Second, 0, 10*time.Minute)
	v.SetDefault("polling.propagation_delay", 2*time.Second)
	v.SetDefault("polling.schedule_slack", 60*time.Second)

	v.SetDefault("scenarios.insufficient_request_count", "1")
	v.SetDefault("scenarios.trigger_increase", "5")

	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("skip_build", false)
}

// SetupViper creates and configures a viper instance.
// Environment variables are read unprefixed (EVMX_RPC, FEES_MANAGER, ...);
// nested keys map to upper snake case, so fees.gas_limit reads FEES_GAS_LIMIT.
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	loadEnvFiles(projectRoot)

	v := viper.New()

	v.SetConfigName("evmx-it")
	v.SetConfigType("yaml")
	v.AddConfigPath(projectRoot)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	SetDefaults(v)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
				panic(err)
			}
		})
	}

	return v
}
