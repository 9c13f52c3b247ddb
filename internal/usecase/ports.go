package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/socket-protocol/evmx-integration/internal/domain"
)

// ChainReader is the read side of a chain client
type ChainReader interface {
	// ReadContract performs an eth_call of method and returns the unpacked outputs
	ReadContract(ctx context.Context, to common.Address, contract *abi.ABI, method string, args ...any) ([]any, error)
	FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
}

// ChainWriter signs and submits transactions with the operator key.
// The gas policy of the chain is fixed when the writer is constructed.
type ChainWriter interface {
	Address() common.Address
	Deploy(ctx context.Context, contract *abi.ABI, bytecode []byte, args ...any) (common.Hash, error)
	Transact(ctx context.Context, to common.Address, contract *abi.ABI, method string, value *big.Int, args ...any) (common.Hash, error)
}

// Chain is one configured chain with its clients
type Chain struct {
	domain.ChainInfo
	Reader ChainReader
	Writer ChainWriter
}

// ContractArtifact is a compiled contract loaded from the Foundry output directory
type ContractArtifact struct {
	Name     string
	ABI      *abi.ABI
	Bytecode []byte
}

// ArtifactStore loads compiled contracts by name
type ArtifactStore interface {
	Load(name string) (*ContractArtifact, error)
}

// ContractBuilder compiles the project contracts
type ContractBuilder interface {
	Build(ctx context.Context) error
}

// StatusAPI fetches transaction details from the off-chain status service
type StatusAPI interface {
	GetDetailsByTxHash(ctx context.Context, txHash common.Hash) (*domain.TxDetailsResponse, error)
}

// BroadcastReader loads Foundry broadcast files
type BroadcastReader interface {
	ReadLatest(scriptName string, chainID uint64) (*domain.BroadcastFile, error)
}

// ReportWriter persists the outcome of a run
type ReportWriter interface {
	WriteReport(path string, report *domain.RunReport) error
}

// MainnetConfirmer asks the operator before spending real funds
type MainnetConfirmer interface {
	ConfirmMainnet(chains []domain.ChainInfo) (bool, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Current int
	Total   int
	Message string
	Spinner bool
}

// ProgressSink receives progress events and operator-facing output
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Success(message string)
	Warn(message string)
	Error(message string)
	// Link prints a labelled explorer URL
	Link(label, url string)
	// Done clears any in-flight progress indicator
	Done()
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Success(string)                            {}
func (NopProgress) Warn(string)                               {}
func (NopProgress) Error(string)                              {}
func (NopProgress) Link(string, string)                       {}
func (NopProgress) Done()                                     {}
