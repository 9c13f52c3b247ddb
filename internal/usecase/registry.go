package usecase

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/socket-protocol/evmx-integration/internal/domain"
)

// ChainRegistry holds the coordination chain and every configured execution chain.
// It is built once per run and never mutated afterwards.
type ChainRegistry struct {
	coordination *Chain
	execution    []*Chain
}

// NewChainRegistry creates a registry. Execution chains keep the given order.
func NewChainRegistry(coordination *Chain, execution []*Chain) *ChainRegistry {
	return &ChainRegistry{
		coordination: coordination,
		execution:    execution,
	}
}

// Coordination returns the EVMx chain
func (r *ChainRegistry) Coordination() *Chain {
	return r.coordination
}

// Execution returns the execution chains in registry order
func (r *ChainRegistry) Execution() []*Chain {
	return append([]*Chain(nil), r.execution...)
}

// Operator returns the account that signs every transaction
func (r *ChainRegistry) Operator() string {
	return r.coordination.Writer.Address().Hex()
}

// ByID finds a chain, coordination included, by chain id
func (r *ChainRegistry) ByID(chainID uint64) (*Chain, error) {
	if r.coordination.ChainID == chainID {
		return r.coordination, nil
	}
	c, ok := lo.Find(r.execution, func(c *Chain) bool { return c.ChainID == chainID })
	if !ok {
		return nil, fmt.Errorf("chain %d: %w", chainID, domain.ErrUnknownChain)
	}
	return c, nil
}

// ByKey finds an execution chain by its key
func (r *ChainRegistry) ByKey(key string) (*Chain, error) {
	c, ok := lo.Find(r.execution, func(c *Chain) bool { return c.Key == key })
	if !ok {
		return nil, fmt.Errorf("chain %q: %w", key, domain.ErrUnknownChain)
	}
	return c, nil
}

// SelectRandom returns min(n, len) distinct execution chains chosen uniformly at random
func (r *ChainRegistry) SelectRandom(n int) []*Chain {
	if n <= 0 {
		return nil
	}
	return lo.Samples(r.execution, n)
}

// Mainnets returns the configured mainnet execution chains
func (r *ChainRegistry) Mainnets() []domain.ChainInfo {
	return lo.FilterMap(r.execution, func(c *Chain, _ int) (domain.ChainInfo, bool) {
		return c.ChainInfo, c.Mainnet
	})
}

// HasMainnets reports whether any mainnet chain is configured
func (r *ChainRegistry) HasMainnets() bool {
	return len(r.Mainnets()) > 0
}

// Infos lists every chain, coordination first
func (r *ChainRegistry) Infos() []domain.ChainInfo {
	infos := []domain.ChainInfo{r.coordination.ChainInfo}
	return append(infos, lo.Map(r.execution, func(c *Chain, _ int) domain.ChainInfo { return c.ChainInfo })...)
}
