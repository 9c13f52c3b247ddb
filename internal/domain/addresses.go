package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ForwarderPair is the resolved (forwarder, on-chain) address pair of one contract on one chain
type ForwarderPair struct {
	Role      string         `yaml:"role"`
	ChainID   uint64         `yaml:"chainId"`
	Forwarder common.Address `yaml:"forwarder"`
	Onchain   common.Address `yaml:"onchain"`
}

// ContractAddresses accumulates the addresses produced during one scenario run
type ContractAddresses struct {
	Gateway common.Address
	Pairs   []ForwarderPair
}

// NewContractAddresses creates an empty accumulator for a deployed gateway
func NewContractAddresses(gateway common.Address) *ContractAddresses {
	return &ContractAddresses{Gateway: gateway}
}

// Add records a resolved pair under the given role
func (a *ContractAddresses) Add(role string, chainID uint64, forwarder, onchain common.Address) {
	a.Pairs = append(a.Pairs, ForwarderPair{
		Role:      role,
		ChainID:   chainID,
		Forwarder: forwarder,
		Onchain:   onchain,
	})
}

// Pair returns the pair recorded under role
func (a *ContractAddresses) Pair(role string) (ForwarderPair, error) {
	for _, p := range a.Pairs {
		if p.Role == role {
			return p, nil
		}
	}
	return ForwarderPair{}, fmt.Errorf("required addresses not found for %s: %w", role, ErrZeroAddress)
}

// DeployRole returns the role name used for the i-th deployment validation contract
func DeployRole(i int) string {
	return fmt.Sprintf("deploy[%d]", i)
}
