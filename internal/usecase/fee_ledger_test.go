package usecase

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// creditLedger emulates the fees manager and the gateway credit functions on EVMx
type creditLedger struct {
	mu      sync.Mutex
	credits map[common.Address]*big.Int
	// delay is the number of initial balance reads that report zero
	delay int
	reads int
}

func newCreditLedger() *creditLedger {
	return &creditLedger{credits: map[common.Address]*big.Int{}}
}

func (l *creditLedger) balance(gateway common.Address) *big.Int {
	if b, ok := l.credits[gateway]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (l *creditLedger) attach(chain *fakeChain) {
	chain.read = func(_ common.Address, method string, args []any) ([]any, error) {
		l.mu.Lock()
		defer l.mu.Unlock()
		if method != "getAvailableCredits" {
			return nil, errUnexpected
		}
		l.reads++
		if l.reads <= l.delay {
			return []any{new(big.Int)}, nil
		}
		return []any{l.balance(args[0].(common.Address))}, nil
	}
	chain.onSend = func(call sentCall) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		switch call.Method {
		case "wrap":
			gw := call.Args[0].(common.Address)
			l.credits[gw] = new(big.Int).Add(l.balance(gw), call.Value)
		case "withdrawCredits":
			l.credits[call.To] = new(big.Int).Sub(l.balance(call.To), call.Args[2].(*big.Int))
		case "transferCredits":
			l.credits[call.To] = new(big.Int).Sub(l.balance(call.To), call.Args[1].(*big.Int))
		}
		return nil
	}
}

func TestWithdrawableAmount(t *testing.T) {
	tests := []struct {
		name     string
		balance  int64
		gasPrice int64
		want     int64
	}{
		{"balance above reserve", 1000, 2, 1000 - 10*(2+3)},
		{"balance equals reserve", 50, 2, 0},
		{"balance below reserve clamps to zero", 10, 2, 0},
		{"zero balance", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WithdrawableAmount(big.NewInt(tt.balance), big.NewInt(tt.gasPrice), big.NewInt(3), big.NewInt(10))
			assert.Equal(t, tt.want, got.Int64())
			assert.GreaterOrEqual(t, got.Sign(), 0)
		})
	}
}

func TestFeeLedgerRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ledger := newCreditLedger()
	ledger.attach(h.evmx)
	ledger.delay = 2
	h.cfg.Fees.DeployFees = ether(10)
	h.evmx.balance = ether(50)
	h.arb.gasPrice = big.NewInt(1000000)
	gateway := common.HexToAddress("0x0a")

	deposited, err := h.fees.Deposit(ctx, gateway)
	require.NoError(t, err)
	assert.Equal(t, h.cfg.Fees.DeployFees, deposited)

	balance, err := h.fees.CheckBalance(ctx, gateway)
	require.NoError(t, err)
	assert.Positive(t, balance.Sign())

	remaining, err := h.fees.Withdraw(ctx, gateway)
	require.NoError(t, err)

	reserve := new(big.Int).Add(h.arb.gasPrice, h.cfg.Fees.GasBuffer)
	reserve.Mul(reserve, h.cfg.Fees.GasLimit)
	after, err := h.fees.CheckBalance(ctx, gateway)
	require.NoError(t, err)
	assert.Equal(t, reserve, after)
	assert.Equal(t, after, remaining)
	assert.GreaterOrEqual(t, after.Sign(), 0)
	assert.Equal(t, []string{"wrap", "withdrawCredits"}, h.evmx.methods())

	withdraw := h.evmx.calls[1]
	assert.Equal(t, uint32(domain.ArbitrumSepoliaChainID), withdraw.Args[0])
	assert.Equal(t, tokenAddr, withdraw.Args[1])
	assert.Equal(t, operatorAddr, withdraw.Args[3])
}

func TestFeeLedgerDeposit(t *testing.T) {
	ctx := context.Background()
	gateway := common.HexToAddress("0x0a")

	t.Run("token path on the funding chain", func(t *testing.T) {
		h := newHarness(t)
		ledger := newCreditLedger()
		ledger.attach(h.evmx)
		h.arb.onSend = func(call sentCall) error {
			if call.Method == "depositCreditAndNative" {
				ledger.mu.Lock()
				ledger.credits[gateway] = call.Args[2].(*big.Int)
				ledger.mu.Unlock()
			}
			return nil
		}

		balance, err := h.fees.Deposit(ctx, gateway)

		require.NoError(t, err)
		assert.Equal(t, h.cfg.Fees.TestTokenAmount, balance)
		assert.Equal(t, []string{"mint", "approve", "depositCreditAndNative"}, h.arb.methods())
		assert.Equal(t, []any{feesPlugAddr, h.cfg.Fees.TestTokenAmount}, h.arb.calls[1].Args)
		assert.Equal(t, []any{tokenAddr, gateway, h.cfg.Fees.TestTokenAmount}, h.arb.calls[2].Args)
		assert.Empty(t, h.evmx.calls)
	})

	t.Run("mint can be disabled", func(t *testing.T) {
		h := newHarness(t)
		h.cfg.Fees.MintTestTokens = false
		ledger := newCreditLedger()
		ledger.credits[gateway] = big.NewInt(1)
		ledger.attach(h.evmx)

		_, err := h.fees.Deposit(ctx, gateway)

		require.NoError(t, err)
		assert.Equal(t, []string{"approve", "depositCreditAndNative"}, h.arb.methods())
	})

	t.Run("missing token configuration", func(t *testing.T) {
		h := newHarness(t)
		h.cfg.Tokens = nil
		h.cfg.FeesPlugs = nil

		_, err := h.fees.Deposit(ctx, gateway)

		var cfgErr *domain.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, []string{"ARBITRUM_SEPOLIA_USDC"}, cfgErr.Keys)
		assert.Empty(t, h.arb.calls)
	})

	t.Run("missing fees plug configuration", func(t *testing.T) {
		h := newHarness(t)
		h.cfg.FeesPlugs = nil

		_, err := h.fees.Deposit(ctx, gateway)

		var cfgErr *domain.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, []string{"ARBITRUM_SEPOLIA_FEES_PLUG"}, cfgErr.Keys)
		assert.Empty(t, h.arb.calls)
	})

	t.Run("balance never arrives", func(t *testing.T) {
		h := newHarness(t)
		h.evmx.balance = ether(5)
		h.evmx.read = func(common.Address, string, []any) ([]any, error) {
			return []any{new(big.Int)}, nil
		}

		_, err := h.fees.Deposit(ctx, gateway)

		var fundsErr *domain.InsufficientFundsError
		require.True(t, errors.As(err, &fundsErr))
		assert.Equal(t, h.cfg.Polling.Balance.MaxAttempts, fundsErr.Attempts)
		assert.ErrorIs(t, err, domain.ErrPollExhausted)
	})

	t.Run("read failure aborts without retrying", func(t *testing.T) {
		h := newHarness(t)
		reads := 0
		readErr := errors.New("execution reverted")
		h.evmx.read = func(common.Address, string, []any) ([]any, error) {
			reads++
			return nil, readErr
		}

		_, err := h.fees.AwaitBalance(ctx, gateway)

		assert.ErrorIs(t, err, readErr)
		assert.Equal(t, 1, reads)
	})
}

func TestFeeLedgerWithdraw(t *testing.T) {
	ctx := context.Background()
	gateway := common.HexToAddress("0x0a")

	t.Run("zero balance is a no-op", func(t *testing.T) {
		h := newHarness(t)
		newCreditLedger().attach(h.evmx)

		remaining, err := h.fees.Withdraw(ctx, gateway)

		require.NoError(t, err)
		assert.Zero(t, remaining.Sign())
		assert.Empty(t, h.evmx.calls)
		assert.True(t, h.sink.contains("No available fees to withdraw."))
	})

	t.Run("balance below reserve skips the withdrawal", func(t *testing.T) {
		h := newHarness(t)
		ledger := newCreditLedger()
		ledger.credits[gateway] = big.NewInt(1000)
		ledger.attach(h.evmx)

		remaining, err := h.fees.Withdraw(ctx, gateway)

		require.NoError(t, err)
		assert.Equal(t, int64(1000), remaining.Int64())
		assert.Empty(t, h.evmx.calls)
	})

	t.Run("wrap path round trip needs only the token", func(t *testing.T) {
		h := newHarness(t)
		h.cfg.FeesPlugs = nil
		h.cfg.Fees.DeployFees = ether(10)
		h.evmx.balance = ether(50)
		h.arb.gasPrice = big.NewInt(1000000)
		newCreditLedger().attach(h.evmx)

		_, err := h.fees.Deposit(ctx, gateway)
		require.NoError(t, err)
		_, err = h.fees.Withdraw(ctx, gateway)

		require.NoError(t, err)
		assert.Equal(t, []string{"wrap", "withdrawCredits"}, h.evmx.methods())
		assert.Equal(t, tokenAddr, h.evmx.calls[1].Args[1])
	})

	t.Run("missing token fails before any withdrawal", func(t *testing.T) {
		h := newHarness(t)
		h.cfg.Tokens = nil
		ledger := newCreditLedger()
		ledger.credits[gateway] = ether(10)
		ledger.attach(h.evmx)

		_, err := h.fees.Withdraw(ctx, gateway)

		var cfgErr *domain.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, []string{"ARBITRUM_SEPOLIA_USDC"}, cfgErr.Keys)
		assert.Empty(t, h.evmx.calls)
	})

	t.Run("remainder is transferred back when enabled", func(t *testing.T) {
		h := newHarness(t)
		h.cfg.Fees.ReturnRemainder = true
		ledger := newCreditLedger()
		ledger.credits[gateway] = ether(10)
		ledger.attach(h.evmx)

		remaining, err := h.fees.Withdraw(ctx, gateway)

		require.NoError(t, err)
		assert.Zero(t, remaining.Sign())
		assert.Equal(t, []string{"withdrawCredits", "transferCredits"}, h.evmx.methods())
		assert.Equal(t, operatorAddr, h.evmx.calls[1].Args[0])
	})
}

func TestFormatEther(t *testing.T) {
	assert.Equal(t, "1", formatEther(ether(1)))
	assert.Equal(t, "0.5", formatEther(new(big.Int).Div(ether(1), big.NewInt(2))))
	assert.Equal(t, "0.000000000001", formatEther(big.NewInt(1000000)))
	assert.Equal(t, "0", formatEther(nil))
}
