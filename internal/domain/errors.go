package domain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for harness operations
var (
	// ErrZeroAddress is returned when a lookup yields the zero address
	ErrZeroAddress = errors.New("zero address")

	// ErrPollExhausted is returned when a bounded poll runs out of attempts or time
	ErrPollExhausted = errors.New("poll exhausted")

	// ErrUnknownChain is returned when a chain id or key is not part of the registry
	ErrUnknownChain = errors.New("unknown chain")

	// ErrMainnetDeclined is returned when the operator refuses to run against mainnet chains
	ErrMainnetDeclined = errors.New("mainnet usage not confirmed")
)

// ConfigurationError reports missing or malformed configuration values.
// It is always raised before any network call is made.
type ConfigurationError struct {
	Keys   []string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if len(e.Keys) == 0 {
		return fmt.Sprintf("invalid configuration: %s", e.Reason)
	}
	if e.Reason == "" {
		return fmt.Sprintf("%s environment variable is required", strings.Join(e.Keys, ", "))
	}
	return fmt.Sprintf("invalid configuration for %s: %s", strings.Join(e.Keys, ", "), e.Reason)
}

// BuildError wraps a failed contract compilation
type BuildError struct {
	Output string
	Err    error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("forge build failed: %v", e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// DeploymentError is returned when a deployment receipt carries no contract address
type DeploymentError struct {
	Contract string
	ChainID  uint64
	TxHash   common.Hash
	Err      error
}

func (e *DeploymentError) Error() string {
	msg := fmt.Sprintf("deployment of %s on chain %d failed", e.Contract, e.ChainID)
	if e.TxHash != (common.Hash{}) {
		msg += fmt.Sprintf(" (tx %s)", e.TxHash.Hex())
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DeploymentError) Unwrap() error { return e.Err }

// TransactionError is returned when the node rejects a transaction
type TransactionError struct {
	Method  string
	To      common.Address
	ChainID uint64
	Err     error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %s on %s (chain %d) failed: %v", e.Method, e.To.Hex(), e.ChainID, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

// ResolutionTimeoutError is returned when a forwarder or on-chain address stays zero
type ResolutionTimeoutError struct {
	Contract string
	ChainID  uint64
	Attempts int
	// Onchain is set when the forwarder resolved but the on-chain address did not
	Onchain bool
	Err     error
}

func (e *ResolutionTimeoutError) Error() string {
	if e.Onchain {
		return fmt.Sprintf("onchain address is zero for '%s' on chain %d", e.Contract, e.ChainID)
	}
	return fmt.Sprintf("forwarder address for '%s' is still zero after %d attempts on chain %d", e.Contract, e.Attempts, e.ChainID)
}

func (e *ResolutionTimeoutError) Unwrap() error { return e.Err }

// WaitTimeoutError is returned when a log count or remote status is not reached in time
type WaitTimeoutError struct {
	What     string
	Timeout  time.Duration
	Expected string
	Observed string
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %s: expected %s, observed %s",
		e.Timeout, e.What, e.Expected, e.Observed)
}

func (e *WaitTimeoutError) Unwrap() error { return ErrPollExhausted }

// InsufficientFundsError is returned when the credit balance of a gateway stays zero
type InsufficientFundsError struct {
	Gateway  common.Address
	Attempts int
	Balance  *big.Int
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("no funds available for %s after %d attempts", e.Gateway.Hex(), e.Attempts)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrPollExhausted }

// AssertionError reports an observed on-chain value that contradicts the scenario expectation
type AssertionError struct {
	Check    string
	Expected string
	Got      string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: got %s but expected %s", e.Check, e.Got, e.Expected)
}
