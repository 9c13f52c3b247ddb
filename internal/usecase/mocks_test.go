package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/config"
	"github.com/stretchr/testify/mock"
)

var (
	operatorAddr        = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	feesManagerAddr     = common.HexToAddress("0x00000000000000000000000000000000000000f1")
	addressResolverAddr = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	tokenAddr           = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	feesPlugAddr        = common.HexToAddress("0x00000000000000000000000000000000000000b1")
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), weiPerEther)
}

func fastPolicy(attempts int) config.PollPolicy {
	return config.PollPolicy{Interval: time.Millisecond, MaxAttempts: attempts}
}

func testConfig() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		ProjectRoot:     "/tmp/project",
		OutDir:          "out",
		FeesManager:     feesManagerAddr,
		AddressResolver: addressResolverAddr,
		FeesChain:       "arbitrum-sepolia",
		Tokens:          map[string]common.Address{"arbitrum-sepolia": tokenAddr},
		FeesPlugs:       map[string]common.Address{"arbitrum-sepolia": feesPlugAddr},
		Fees: config.FeesConfig{
			DeployFees:      ether(1),
			GatewayFees:     new(big.Int).Div(ether(1), big.NewInt(2)),
			TestTokenAmount: big.NewInt(1000000),
			GasBuffer:       big.NewInt(100000000),
			GasLimit:        big.NewInt(50000000000),
			MintTestTokens:  true,
		},
		Polling: config.PollingConfig{
			Balance:           fastPolicy(5),
			Forwarder:         fastPolicy(5),
			Insufficient:      fastPolicy(3),
			InsufficientRetry: fastPolicy(3),
			Logs:              config.PollPolicy{Interval: time.Millisecond, Timeout: 200 * time.Millisecond},
			Status:            fastPolicy(5),
			Receipt:           fastPolicy(5),
			Value:             fastPolicy(5),
			Broadcast:         config.PollPolicy{Interval: time.Millisecond, Timeout: 200 * time.Millisecond},
		},
		Scenarios: config.ScenariosConfig{
			InsufficientRequestCount: big.NewInt(1),
			TriggerIncrease:          big.NewInt(5),
		},
	}
}

// sentCall is a transaction recorded by fakeChain
type sentCall struct {
	To     common.Address
	Method string
	Value  *big.Int
	Args   []any
}

// fakeChain is an in-memory ChainReader and ChainWriter.
// Reads and transaction side effects are supplied per test.
type fakeChain struct {
	mu       sync.Mutex
	balance  *big.Int
	gasPrice *big.Int
	read     func(to common.Address, method string, args []any) ([]any, error)
	logs     func(q ethereum.FilterQuery) ([]types.Log, error)
	onSend   func(call sentCall) error
	calls    []sentCall
	receipts map[common.Hash]*types.Receipt
	nonce    int64
	deployed []common.Address
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		balance:  new(big.Int),
		gasPrice: big.NewInt(1),
		receipts: map[common.Hash]*types.Receipt{},
	}
}

func (f *fakeChain) ReadContract(_ context.Context, to common.Address, _ *abi.ABI, method string, args ...any) ([]any, error) {
	if f.read == nil {
		return nil, fmt.Errorf("unexpected read %s", method)
	}
	return f.read(to, method, args)
}

func (f *fakeChain) FilterLogs(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	if f.logs == nil {
		return nil, nil
	}
	return f.logs(q)
}

func (f *fakeChain) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}

func (f *fakeChain) SuggestGasPrice(context.Context) (*big.Int, error) {
	return f.gasPrice, nil
}

func (f *fakeChain) BalanceAt(context.Context, common.Address) (*big.Int, error) {
	return f.balance, nil
}

func (f *fakeChain) Address() common.Address { return operatorAddr }

func (f *fakeChain) nextHash() common.Hash {
	f.nonce++
	return common.BigToHash(big.NewInt(f.nonce))
}

func (f *fakeChain) Deploy(_ context.Context, _ *abi.ABI, _ []byte, _ ...any) (common.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hash := f.nextHash()
	addr := common.BigToAddress(big.NewInt(0x1000 + f.nonce))
	f.deployed = append(f.deployed, addr)
	f.receipts[hash] = &types.Receipt{Status: types.ReceiptStatusSuccessful, ContractAddress: addr}
	return hash, nil
}

func (f *fakeChain) Transact(_ context.Context, to common.Address, _ *abi.ABI, method string, value *big.Int, args ...any) (common.Hash, error) {
	call := sentCall{To: to, Method: method, Value: value, Args: args}
	if f.onSend != nil {
		if err := f.onSend(call); err != nil {
			return common.Hash{}, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	hash := f.nextHash()
	f.receipts[hash] = &types.Receipt{Status: types.ReceiptStatusSuccessful}
	return hash, nil
}

// methods returns the recorded method names in order
func (f *fakeChain) methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Method)
	}
	return out
}

// MockArtifactStore is a mock implementation of ArtifactStore
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) Load(name string) (*ContractArtifact, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ContractArtifact), args.Error(1)
}

// MockContractBuilder is a mock implementation of ContractBuilder
type MockContractBuilder struct {
	mock.Mock
}

func (m *MockContractBuilder) Build(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockStatusAPI is a mock implementation of StatusAPI
type MockStatusAPI struct {
	mock.Mock
}

func (m *MockStatusAPI) GetDetailsByTxHash(ctx context.Context, hash common.Hash) (*domain.TxDetailsResponse, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TxDetailsResponse), args.Error(1)
}

// MockBroadcastReader is a mock implementation of BroadcastReader
type MockBroadcastReader struct {
	mock.Mock
}

func (m *MockBroadcastReader) ReadLatest(script string, chainID uint64) (*domain.BroadcastFile, error) {
	args := m.Called(script, chainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BroadcastFile), args.Error(1)
}

// MockMainnetConfirmer is a mock implementation of MainnetConfirmer
type MockMainnetConfirmer struct {
	mock.Mock
}

func (m *MockMainnetConfirmer) ConfirmMainnet(chains []domain.ChainInfo) (bool, error) {
	args := m.Called(chains)
	return args.Bool(0), args.Error(1)
}

// MockReportWriter is a mock implementation of ReportWriter
type MockReportWriter struct {
	mock.Mock
}

func (m *MockReportWriter) WriteReport(path string, report *domain.RunReport) error {
	return m.Called(path, report).Error(0)
}

// recordingSink keeps every message it receives
type recordingSink struct {
	mu       sync.Mutex
	messages []string
	events   []ProgressEvent
}

func (s *recordingSink) record(kind, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, kind+": "+msg)
}

func (s *recordingSink) OnProgress(_ context.Context, e ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}
func (s *recordingSink) Info(msg string)        { s.record("info", msg) }
func (s *recordingSink) Success(msg string)     { s.record("success", msg) }
func (s *recordingSink) Warn(msg string)        { s.record("warn", msg) }
func (s *recordingSink) Error(msg string)       { s.record("error", msg) }
func (s *recordingSink) Link(label, url string) { s.record("link", label+" "+url) }
func (s *recordingSink) Done()                  {}

func (s *recordingSink) contains(substr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

// harness wires every use case against fake chains
type harness struct {
	evmx, arb, op *fakeChain
	cfg           *config.RuntimeConfig
	registry      *ChainRegistry
	artifacts     *MockArtifactStore
	builder       *MockContractBuilder
	api           *MockStatusAPI
	sink          *recordingSink
	deployer      *Deployer
	fees          *FeeLedger
	resolver      *AddressResolver
	waiter        *Waiter
	kit           *ScenarioKit
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		evmx:      newFakeChain(),
		arb:       newFakeChain(),
		op:        newFakeChain(),
		cfg:       testConfig(),
		artifacts: new(MockArtifactStore),
		builder:   new(MockContractBuilder),
		api:       new(MockStatusAPI),
		sink:      &recordingSink{},
	}

	chain := func(info domain.ChainInfo, f *fakeChain) *Chain {
		return &Chain{ChainInfo: info, Reader: f, Writer: f}
	}
	h.registry = NewChainRegistry(
		chain(domain.ChainInfo{Key: "evmx", Name: "EVMx", ChainID: domain.EVMxChainID, ExplorerURL: "evmx.cloud.blockscout.com", Coordination: true}, h.evmx),
		[]*Chain{
			chain(domain.ChainInfo{Key: "arbitrum-sepolia", Name: "Arbitrum Sepolia", ChainID: domain.ArbitrumSepoliaChainID, ExplorerURL: "arbitrum-sepolia.blockscout.com"}, h.arb),
			chain(domain.ChainInfo{Key: "optimism-sepolia", Name: "Optimism Sepolia", ChainID: domain.OptimismSepoliaChainID, ExplorerURL: "optimism-sepolia.blockscout.com"}, h.op),
		},
	)

	log := discardLogger()
	h.deployer = NewDeployer(h.registry, h.artifacts, h.builder, h.cfg, h.sink, log)
	h.fees = NewFeeLedger(h.registry, h.deployer, h.cfg, h.sink, log)
	h.resolver = NewAddressResolver(h.registry, h.sink, log)
	h.waiter = NewWaiter(h.registry, h.api, h.cfg, h.sink, log)
	h.kit = NewScenarioKit(h.registry, h.deployer, h.fees, h.resolver, h.waiter, h.cfg, h.sink, log)
	return h
}

// gatewayArtifacts makes every artifact load succeed
func (h *harness) gatewayArtifacts() {
	h.artifacts.On("Load", mock.Anything).Return(&ContractArtifact{ABI: &abi.ABI{}, Bytecode: []byte{0x60}}, nil)
}

// contractID derives a stable bytes32 id for a contract name
func contractID(name string) [32]byte {
	var id [32]byte
	copy(id[:], name)
	return id
}

// forwarderFor derives a stable forwarder and on-chain address for (name, chain)
func forwarderFor(id [32]byte, chainID uint32) (common.Address, common.Address) {
	seed := new(big.Int).SetBytes(id[:8])
	seed.Add(seed, big.NewInt(int64(chainID)))
	return common.BigToAddress(new(big.Int).Add(seed, big.NewInt(1))), common.BigToAddress(new(big.Int).Add(seed, big.NewInt(2)))
}

var errUnexpected = errors.New("unexpected call")

// count returns how many messages contain substr
func (s *recordingSink) count(substr string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.messages {
		if strings.Contains(m, substr) {
			n++
		}
	}
	return n
}
