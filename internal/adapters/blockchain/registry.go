package blockchain

import (
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/socket-protocol/evmx-integration/internal/config"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	domainconfig "github.com/socket-protocol/evmx-integration/internal/domain/config"
	"github.com/socket-protocol/evmx-integration/internal/usecase"
)

// Dialer opens a backend for an RPC URL
type Dialer func(rpcURL string) (Backend, error)

// DialHTTP dials with ethclient. HTTP endpoints are not contacted until the first call.
func DialHTTP(rpcURL string) (Backend, error) {
	return ethclient.Dial(rpcURL)
}

// NewChainRegistry builds the registry from the runtime configuration.
// Chain ids and explorers come from the known chain table; no network call is made.
func NewChainRegistry(cfg *domainconfig.RuntimeConfig, log *slog.Logger) (*usecase.ChainRegistry, error) {
	return BuildChainRegistry(cfg, DialHTTP, log)
}

// BuildChainRegistry is NewChainRegistry with an explicit dialer
func BuildChainRegistry(cfg *domainconfig.RuntimeConfig, dial Dialer, log *slog.Logger) (*usecase.ChainRegistry, error) {
	if cfg.PrivateKey == "" {
		return nil, &domain.ConfigurationError{Keys: []string{"PRIVATE_KEY"}}
	}
	if cfg.EVMxRPC == "" {
		return nil, &domain.ConfigurationError{Keys: []string{"EVMX_RPC"}}
	}
	for _, known := range config.ExecutionChains {
		if known.Required && cfg.RPCs[known.Key] == "" {
			return nil, &domain.ConfigurationError{Keys: []string{known.RPCEnv()}}
		}
	}

	key, err := crypto.HexToECDSA(cfg.PrivateKey)
	if err != nil {
		return nil, &domain.ConfigurationError{Keys: []string{"PRIVATE_KEY"}, Reason: "not a valid secp256k1 private key"}
	}

	build := func(known config.KnownChain, rpcURL string) (*usecase.Chain, error) {
		backend, err := dial(rpcURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to %s RPC: %w", known.Name, err)
		}
		info := known.Info(rpcURL)
		return &usecase.Chain{
			ChainInfo: info,
			Reader:    NewClient(backend, info, log),
			Writer:    NewTransactor(backend, info, key, log),
		}, nil
	}

	coordination, err := build(config.EVMx, cfg.EVMxRPC)
	if err != nil {
		return nil, err
	}

	var execution []*usecase.Chain
	for _, known := range config.ExecutionChains {
		rpcURL, ok := cfg.RPCs[known.Key]
		if !ok || rpcURL == "" {
			continue
		}
		chain, err := build(known, rpcURL)
		if err != nil {
			return nil, err
		}
		execution = append(execution, chain)
	}

	log.Debug("chain registry built", "execution", len(execution))
	return usecase.NewChainRegistry(coordination, execution), nil
}
