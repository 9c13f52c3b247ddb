package domain

import "fmt"

// Well-known chain identifiers
const (
	EVMxChainID            uint64 = 43
	ArbitrumSepoliaChainID uint64 = 421614
	OptimismSepoliaChainID uint64 = 11155420
	ArbitrumChainID        uint64 = 42161
	OptimismChainID        uint64 = 10
	BaseChainID            uint64 = 8453
)

// ChainInfo is the static description of one logical chain
type ChainInfo struct {
	Key         string `json:"key" yaml:"key"`
	Name        string `json:"name" yaml:"name"`
	ChainID     uint64 `json:"chainId" yaml:"chainId"`
	RPCURL      string `json:"-" yaml:"-"`
	ExplorerURL string `json:"explorerUrl" yaml:"explorerUrl"`
	Mainnet     bool   `json:"mainnet" yaml:"mainnet"`
	// Coordination marks EVMx, which is always sent zero gas price transactions
	Coordination bool `json:"coordination" yaml:"coordination"`
}

// TxURL returns the explorer link for a transaction hash
func (c ChainInfo) TxURL(hash string) string {
	return fmt.Sprintf("https://%s/tx/%s", c.ExplorerURL, hash)
}

// AddressURL returns the explorer link for an address
func (c ChainInfo) AddressURL(address string) string {
	return fmt.Sprintf("https://%s/address/%s", c.ExplorerURL, address)
}

func (c ChainInfo) String() string {
	return fmt.Sprintf("%s (%d)", c.Name, c.ChainID)
}
