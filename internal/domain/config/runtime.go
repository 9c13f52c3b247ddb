package config

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	OutDir      string // Foundry artifact directory, relative to ProjectRoot

	// Signing key, hex encoded without 0x prefix
	PrivateKey string //nolint:gosec // loaded from env, never printed

	// Coordination chain and platform contracts
	EVMxRPC         string
	FeesManager     common.Address
	AddressResolver common.Address
	APIBase         string

	// Execution chain RPC URLs keyed by chain key (e.g. arbitrum-sepolia)
	RPCs map[string]string
	// Fee plug and test token per chain key
	FeesPlugs map[string]common.Address
	Tokens    map[string]common.Address
	// FeesChain is the chain key used to deposit and withdraw fee tokens
	FeesChain string

	// Execution settings
	Debug          bool
	NonInteractive bool
	SkipBuild      bool
	ReportPath     string

	Fees      FeesConfig
	Polling   PollingConfig
	Scenarios ScenariosConfig
}

// FeesConfig holds the fee amounts used by the fee ledger client, in wei
type FeesConfig struct {
	DeployFees      *big.Int
	GatewayFees     *big.Int
	TestTokenAmount *big.Int
	GasBuffer       *big.Int
	GasLimit        *big.Int
	MintTestTokens  bool
	ReturnRemainder bool
}

// PollPolicy is a bounded fixed-interval polling budget
type PollPolicy struct {
	Interval    time.Duration
	MaxAttempts int
	// Timeout bounds the poll by elapsed time instead of attempts when non-zero
	Timeout time.Duration
}

// PollingConfig groups the polling budgets of every wait in the harness
type PollingConfig struct {
	Balance           PollPolicy
	Forwarder         PollPolicy
	Insufficient      PollPolicy
	InsufficientRetry PollPolicy
	Logs              PollPolicy
	Status            PollPolicy
	Receipt           PollPolicy
	Value             PollPolicy
	Broadcast         PollPolicy
	PropagationDelay  time.Duration
	ScheduleSlack     time.Duration
}

// ScenariosConfig holds scenario tunables
type ScenariosConfig struct {
	// InsufficientRequestCount is the request count passed to increaseFees
	InsufficientRequestCount *big.Int
	// TriggerIncrease is the value sent to increaseOnGateway
	TriggerIncrease *big.Int
}
