package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/bindings"
	"github.com/socket-protocol/evmx-integration/internal/domain/config"
)

// FeeLedger deposits, checks and withdraws gateway fee credits
type FeeLedger struct {
	registry *ChainRegistry
	deployer *Deployer
	cfg      *config.RuntimeConfig
	sink     ProgressSink
	log      *slog.Logger
}

// NewFeeLedger creates a new FeeLedger
func NewFeeLedger(
	registry *ChainRegistry,
	deployer *Deployer,
	cfg *config.RuntimeConfig,
	sink ProgressSink,
	log *slog.Logger,
) *FeeLedger {
	return &FeeLedger{
		registry: registry,
		deployer: deployer,
		cfg:      cfg,
		sink:     sink,
		log:      log.With("component", "FeeLedger"),
	}
}

// Deposit credits the gateway and blocks until the ledger reports a positive balance.
// Native EVMx balance is wrapped when it covers the deploy fees, otherwise test tokens
// are deposited through the fees plug of the funding chain.
func (f *FeeLedger) Deposit(ctx context.Context, gateway common.Address) (*big.Int, error) {
	f.sink.Info("Depositing funds")

	evmx := f.registry.Coordination()
	operator := evmx.Writer.Address()

	native, err := evmx.Reader.BalanceAt(ctx, operator)
	if err != nil {
		return nil, fmt.Errorf("failed to read EVMx balance: %w", err)
	}

	if native.Cmp(f.cfg.Fees.DeployFees) > 0 {
		if _, err := f.deployer.Call(ctx, evmx, f.cfg.FeesManager, bindings.FeesManager, "wrap", f.cfg.Fees.DeployFees, gateway); err != nil {
			return nil, err
		}
	} else {
		if err := f.depositTokens(ctx, gateway); err != nil {
			return nil, err
		}
	}

	return f.AwaitBalance(ctx, gateway)
}

func (f *FeeLedger) depositTokens(ctx context.Context, gateway common.Address) error {
	chain, token, plug, err := f.fundingContracts()
	if err != nil {
		return err
	}
	amount := f.cfg.Fees.TestTokenAmount
	operator := chain.Writer.Address()

	f.sink.Info(fmt.Sprintf("Not enough EVMx balance. Depositing %s %s test tokens in wei.", amount, chain.Name))

	if f.cfg.Fees.MintTestTokens {
		if _, err := f.deployer.Call(ctx, chain, token, bindings.TestToken, "mint", nil, operator, amount); err != nil {
			return err
		}
	}
	if _, err := f.deployer.Call(ctx, chain, token, bindings.TestToken, "approve", nil, plug, amount); err != nil {
		return err
	}
	_, err = f.deployer.Call(ctx, chain, plug, bindings.FeesPlug, "depositCreditAndNative", nil, token, gateway, amount)
	return err
}

// CheckBalance reads the credit balance of gateway once
func (f *FeeLedger) CheckBalance(ctx context.Context, gateway common.Address) (*big.Int, error) {
	return readBigInt(ctx, f.registry.Coordination().Reader, f.cfg.FeesManager, bindings.FeesManager, "getAvailableCredits", gateway)
}

// AwaitBalance polls the credit balance until it is positive.
// A failed read aborts immediately instead of being retried.
func (f *FeeLedger) AwaitBalance(ctx context.Context, gateway common.Address) (*big.Int, error) {
	policy := f.cfg.Polling.Balance
	var readErr error

	res, err := Poll(ctx, policy, func(ctx context.Context, _ int) (*big.Int, bool, error) {
		if readErr != nil {
			return nil, true, nil
		}
		balance, err := f.CheckBalance(ctx, gateway)
		if err != nil {
			readErr = err
			return nil, true, nil
		}
		return balance, balance.Sign() > 0, nil
	}, reportWait(ctx, f.sink, "Checking fees", policy))
	f.sink.Done()

	if readErr != nil {
		f.sink.Error("Error: Failed to retrieve available fees.")
		return nil, readErr
	}
	if err != nil {
		if errors.Is(err, domain.ErrPollExhausted) {
			return nil, &domain.InsufficientFundsError{Gateway: gateway, Attempts: res.Attempts, Balance: res.Value}
		}
		return nil, err
	}

	f.sink.Success(fmt.Sprintf("Funds available: %s Credits - %s wei", formatEther(res.Value), res.Value))
	return res.Value, nil
}

// Withdraw sends the gateway balance minus a gas reservation back to the operator on the
// funding chain, optionally transferring whatever credit remains afterwards.
// It returns the balance left on the ledger.
func (f *FeeLedger) Withdraw(ctx context.Context, gateway common.Address) (*big.Int, error) {
	f.sink.Info("Withdrawing funds")

	balance, err := f.CheckBalance(ctx, gateway)
	if err != nil {
		return nil, err
	}
	if balance.Sign() == 0 {
		f.sink.Info("No available fees to withdraw.")
		return balance, nil
	}

	chain, token, err := f.fundingToken()
	if err != nil {
		return nil, err
	}
	gasPrice, err := chain.Reader.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read gas price on %s: %w", chain.Name, err)
	}

	amount := WithdrawableAmount(balance, gasPrice, f.cfg.Fees.GasBuffer, f.cfg.Fees.GasLimit)
	evmx := f.registry.Coordination()
	operator := evmx.Writer.Address()

	if amount.Sign() > 0 {
		f.sink.Info(fmt.Sprintf("Withdrawing %s Credits - %s wei", formatEther(amount), amount))
		if _, err := f.deployer.Call(ctx, evmx, gateway, bindings.AppGateway, "withdrawCredits", nil,
			uint32(chain.ChainID), token, amount, operator); err != nil {
			return nil, err
		}
	} else {
		f.sink.Warn("No funds available for withdrawal after gas cost estimation.")
	}

	remaining, err := f.CheckBalance(ctx, gateway)
	if err != nil {
		return nil, err
	}
	if !f.cfg.Fees.ReturnRemainder || remaining.Sign() == 0 {
		return remaining, nil
	}

	f.sink.Info(fmt.Sprintf("Transferring remaining %s wei to %s", remaining, operator.Hex()))
	if _, err := f.deployer.Call(ctx, evmx, gateway, bindings.AppGateway, "transferCredits", nil, operator, remaining); err != nil {
		return nil, err
	}
	return f.CheckBalance(ctx, gateway)
}

// WithdrawableAmount returns max(balance - gasLimit*(gasPrice+gasBuffer), 0)
func WithdrawableAmount(balance, gasPrice, gasBuffer, gasLimit *big.Int) *big.Int {
	reserve := new(big.Int).Add(gasPrice, gasBuffer)
	reserve.Mul(reserve, gasLimit)

	amount := new(big.Int).Sub(balance, reserve)
	if amount.Sign() < 0 {
		return new(big.Int)
	}
	return amount
}

// fundingChain returns the execution chain that fee credits are deposited from and withdrawn to
func (f *FeeLedger) fundingChain() (*Chain, error) {
	chain, err := f.registry.ByKey(f.cfg.FeesChain)
	if err != nil {
		return nil, &domain.ConfigurationError{
			Keys:   []string{"FEES_CHAIN"},
			Reason: err.Error(),
		}
	}
	return chain, nil
}

// fundingToken returns the funding chain and its test token
func (f *FeeLedger) fundingToken() (*Chain, common.Address, error) {
	chain, err := f.fundingChain()
	if err != nil {
		return nil, common.Address{}, err
	}
	token, ok := f.cfg.Tokens[chain.Key]
	if !ok {
		return nil, common.Address{}, &domain.ConfigurationError{Keys: []string{envPrefix(chain.Key) + "_USDC"}}
	}
	return chain, token, nil
}

// fundingContracts returns the funding chain with its test token and fees plug
func (f *FeeLedger) fundingContracts() (*Chain, common.Address, common.Address, error) {
	chain, token, err := f.fundingToken()
	if err != nil {
		return nil, common.Address{}, common.Address{}, err
	}
	plug, ok := f.cfg.FeesPlugs[chain.Key]
	if !ok {
		return nil, common.Address{}, common.Address{}, &domain.ConfigurationError{Keys: []string{envPrefix(chain.Key) + "_FEES_PLUG"}}
	}
	return chain, token, plug, nil
}

func envPrefix(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// readBigInt reads a single uint256 output
func readBigInt(ctx context.Context, reader ChainReader, to common.Address, contract *abi.ABI, method string, args ...any) (*big.Int, error) {
	out, err := reader.ReadContract(ctx, to, contract, method, args...)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s returned %T, expected uint256", method, out[0])
	}
	return v, nil
}

// readAddress reads a single address output
func readAddress(ctx context.Context, reader ChainReader, to common.Address, contract *abi.ABI, method string, args ...any) (common.Address, error) {
	out, err := reader.ReadContract(ctx, to, contract, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	if len(out) == 0 {
		return common.Address{}, fmt.Errorf("%s returned no values", method)
	}
	v, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s returned %T, expected address", method, out[0])
	}
	return v, nil
}

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// formatEther renders a wei amount as a decimal ether string without floating point
func formatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	q, r := new(big.Int).QuoRem(wei, weiPerEther, new(big.Int))
	if r.Sign() == 0 {
		return q.String()
	}
	digits := r.String()
	frac := strings.TrimRight(strings.Repeat("0", 18-len(digits))+digits, "0")
	return q.String() + "." + frac
}
