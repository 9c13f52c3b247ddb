package domain

// BroadcastFile is the subset of a Foundry broadcast run file the status monitor needs
type BroadcastFile struct {
	Chain        uint64                 `json:"chain"`
	Transactions []BroadcastTransaction `json:"transactions"`
	Timestamp    uint64                 `json:"timestamp"`
	Commit       string                 `json:"commit"`
}

// BroadcastTransaction is a transaction recorded in a broadcast file
type BroadcastTransaction struct {
	Hash         string `json:"hash"`
	ContractName string `json:"contractName"`
	ContractAddr string `json:"contractAddress"`
	Function     string `json:"function"`
}

// Hashes returns the non-empty transaction hashes in file order
func (b *BroadcastFile) Hashes() []string {
	hashes := make([]string, 0, len(b.Transactions))
	for _, tx := range b.Transactions {
		if tx.Hash != "" {
			hashes = append(hashes, tx.Hash)
		}
	}
	return hashes
}
