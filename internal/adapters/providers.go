package adapters

import (
	"github.com/google/wire"
	"github.com/socket-protocol/evmx-integration/internal/adapters/blockchain"
	"github.com/socket-protocol/evmx-integration/internal/adapters/forge"
	"github.com/socket-protocol/evmx-integration/internal/adapters/forge/broadcast"
	"github.com/socket-protocol/evmx-integration/internal/adapters/fs"
	"github.com/socket-protocol/evmx-integration/internal/adapters/interactive"
	"github.com/socket-protocol/evmx-integration/internal/adapters/progress"
	"github.com/socket-protocol/evmx-integration/internal/adapters/statusapi"
	"github.com/socket-protocol/evmx-integration/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewReportWriterAdapter,
	wire.Bind(new(usecase.ReportWriter), new(*fs.ReportWriterAdapter)),
)

// ForgeSet provides forge-based implementations
var ForgeSet = wire.NewSet(
	forge.NewForgeAdapter,
	wire.Bind(new(usecase.ContractBuilder), new(*forge.ForgeAdapter)),

	forge.NewArtifactLoader,
	wire.Bind(new(usecase.ArtifactStore), new(*forge.ArtifactLoader)),

	broadcast.NewParser,
	wire.Bind(new(usecase.BroadcastReader), new(*broadcast.Parser)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewMainnetConfirmer,
	wire.Bind(new(usecase.MainnetConfirmer), new(*interactive.MainnetConfirmer)),
)

// ProgressSet provides the terminal progress sink
var ProgressSet = wire.NewSet(
	progress.NewSpinnerProgress,
	wire.Bind(new(usecase.ProgressSink), new(*progress.SpinnerProgress)),
)

// StatusAPISet provides the EVMx status API client
var StatusAPISet = wire.NewSet(
	statusapi.NewClient,
	wire.Bind(new(usecase.StatusAPI), new(*statusapi.Client)),
)

// BlockchainSet provides the chain registry with its RPC clients
var BlockchainSet = wire.NewSet(
	blockchain.NewChainRegistry,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ForgeSet,
	InteractiveSet,
	ProgressSet,
	StatusAPISet,
	BlockchainSet,
)
