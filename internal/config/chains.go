package config

import (
	"github.com/socket-protocol/evmx-integration/internal/domain"
)

// KnownChain describes a chain the harness knows how to talk to.
// EnvPrefix is used to derive <PREFIX>_RPC, <PREFIX>_FEES_PLUG and <PREFIX>_USDC.
type KnownChain struct {
	Key          string
	Name         string
	ChainID      uint64
	Explorer     string
	EnvPrefix    string
	Required     bool
	Mainnet      bool
	Coordination bool
}

// EVMx is the coordination chain. Its RPC is read from EVMX_RPC.
var EVMx = KnownChain{
	Key:          "evmx",
	Name:         "EVMx",
	ChainID:      domain.EVMxChainID,
	Explorer:     "evmx.cloud.blockscout.com",
	EnvPrefix:    "EVMX",
	Required:     true,
	Coordination: true,
}

// ExecutionChains lists execution chains in registry order
var ExecutionChains = []KnownChain{
	{
		Key:       "arbitrum-sepolia",
		Name:      "Arbitrum Sepolia",
		ChainID:   domain.ArbitrumSepoliaChainID,
		Explorer:  "arbitrum-sepolia.blockscout.com",
		EnvPrefix: "ARBITRUM_SEPOLIA",
		Required:  true,
	},
	{
		Key:       "optimism-sepolia",
		Name:      "Optimism Sepolia",
		ChainID:   domain.OptimismSepoliaChainID,
		Explorer:  "optimism-sepolia.blockscout.com",
		EnvPrefix: "OPTIMISM_SEPOLIA",
		Required:  true,
	},
	{
		Key:       "arbitrum",
		Name:      "Arbitrum",
		ChainID:   domain.ArbitrumChainID,
		Explorer:  "arbitrum.blockscout.com",
		EnvPrefix: "ARBITRUM",
		Mainnet:   true,
	},
	{
		Key:       "optimism",
		Name:      "Optimism",
		ChainID:   domain.OptimismChainID,
		Explorer:  "optimism.blockscout.com",
		EnvPrefix: "OPTIMISM",
		Mainnet:   true,
	},
	{
		Key:       "base",
		Name:      "Base",
		ChainID:   domain.BaseChainID,
		Explorer:  "base.blockscout.com",
		EnvPrefix: "BASE",
		Mainnet:   true,
	},
}

// RPCEnv returns the environment variable holding the chain RPC URL
func (c KnownChain) RPCEnv() string { return c.EnvPrefix + "_RPC" }

// FeesPlugEnv returns the environment variable holding the chain fees plug address
func (c KnownChain) FeesPlugEnv() string { return c.EnvPrefix + "_FEES_PLUG" }

// TokenEnv returns the environment variable holding the chain test token address
func (c KnownChain) TokenEnv() string { return c.EnvPrefix + "_USDC" }

// Info converts the table entry to chain metadata bound to an RPC URL
func (c KnownChain) Info(rpcURL string) domain.ChainInfo {
	return domain.ChainInfo{
		Key:          c.Key,
		Name:         c.Name,
		ChainID:      c.ChainID,
		RPCURL:       rpcURL,
		ExplorerURL:  c.Explorer,
		Mainnet:      c.Mainnet,
		Coordination: c.Coordination,
	}
}

// LookupChain finds a known execution chain by key
func LookupChain(key string) (KnownChain, bool) {
	for _, c := range ExecutionChains {
		if c.Key == key {
			return c, true
		}
	}
	return KnownChain{}, false
}
