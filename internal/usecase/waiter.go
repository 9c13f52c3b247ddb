package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/config"
)

// StatusProbe extracts one status string from a status API document
type StatusProbe struct {
	Name   string
	Target string
	// Extract returns false while the document does not carry the field yet
	Extract func(*domain.TxDetailsResponse) (string, bool)
	Want    func(string) bool
}

func wantEqual(target string) func(string) bool {
	return func(status string) bool { return status == target }
}

// FinalizeStatus waits for payloads[0].finalizeDetails.finalizeStatus
func FinalizeStatus(want string) StatusProbe {
	return StatusProbe{
		Name: "finalize status",
		Extract: func(r *domain.TxDetailsResponse) (string, bool) {
			d, ok := r.First()
			if !ok || len(d.Payloads) == 0 {
				return "", false
			}
			return d.Payloads[0].FinalizeDetails.FinalizeStatus, true
		},
		Target: want,
		Want:   wantEqual(want),
	}
}

// ExecuteStatus waits for writePayloads[0].executeDetails.executeStatus
func ExecuteStatus(want string) StatusProbe {
	return StatusProbe{
		Name: "execute status",
		Extract: func(r *domain.TxDetailsResponse) (string, bool) {
			p, ok := r.FirstWrite()
			if !ok {
				return "", false
			}
			return p.ExecuteDetails.ExecuteStatus, true
		},
		Target: want,
		Want:   wantEqual(want),
	}
}

// CallbackStatus waits for readPayloads[0].callBackDetails.callbackStatus
func CallbackStatus(want string) StatusProbe {
	return StatusProbe{
		Name: "callback status",
		Extract: func(r *domain.TxDetailsResponse) (string, bool) {
			p, ok := r.FirstRead()
			if !ok {
				return "", false
			}
			return p.CallBackDetails.CallbackStatus, true
		},
		Target: want,
		Want:   wantEqual(want),
	}
}

// RequestStatus waits for response[0].status
func RequestStatus(want string) StatusProbe {
	return StatusProbe{
		Name: "request status",
		Extract: func(r *domain.TxDetailsResponse) (string, bool) {
			d, ok := r.First()
			if !ok {
				return "", false
			}
			return d.Status, true
		},
		Target: want,
		Want:   wantEqual(want),
	}
}

// ProofThenExecutionFailed waits for a write payload whose proof was uploaded but whose execution failed
func ProofThenExecutionFailed() StatusProbe {
	return StatusProbe{
		Name: "proof upload and execution status",
		Extract: func(r *domain.TxDetailsResponse) (string, bool) {
			p, ok := r.FirstWrite()
			if !ok {
				return "", false
			}
			return p.ProofUploadDetails.ProofUploadStatus + "/" + p.ExecuteDetails.ExecuteStatus, true
		},
		Target: domain.StatusProofUploaded + "/" + domain.StatusExecutionFailed,
		Want:   wantEqual(domain.StatusProofUploaded + "/" + domain.StatusExecutionFailed),
	}
}

// Waiter polls gateway logs and the status API
type Waiter struct {
	registry *ChainRegistry
	api      StatusAPI
	cfg      *config.RuntimeConfig
	sink     ProgressSink
	log      *slog.Logger
}

// NewWaiter creates a new Waiter
func NewWaiter(
	registry *ChainRegistry,
	api StatusAPI,
	cfg *config.RuntimeConfig,
	sink ProgressSink,
	log *slog.Logger,
) *Waiter {
	return &Waiter{
		registry: registry,
		api:      api,
		cfg:      cfg,
		sink:     sink,
		log:      log.With("component", "Waiter"),
	}
}

// AwaitLogCount waits until the gateway has emitted at least expected logs on EVMx.
// The count covers the whole history of the gateway, so callers composing several
// waits on one gateway pass cumulative targets.
func (w *Waiter) AwaitLogCount(ctx context.Context, gateway common.Address, expected uint64, timeout time.Duration) (uint64, error) {
	w.sink.Info(fmt.Sprintf("Waiting logs for %d new events (up to %s)...", expected, timeout))

	policy := config.PollPolicy{Interval: w.cfg.Polling.Logs.Interval, Timeout: timeout}
	reader := w.registry.Coordination().Reader
	query := ethereum.FilterQuery{
		FromBlock: common.Big0,
		Addresses: []common.Address{gateway},
	}

	var observed uint64
	res, err := Poll(ctx, policy, func(ctx context.Context, _ int) (uint64, bool, error) {
		logs, err := reader.FilterLogs(ctx, query)
		if err != nil {
			w.log.Warn("error fetching logs", "gateway", gateway.Hex(), "error", err)
			return 0, false, err
		}
		observed = uint64(len(logs))
		return observed, observed >= expected, nil
	}, func(_ int, elapsed time.Duration) {
		w.sink.OnProgress(ctx, ProgressEvent{
			Stage:   "Waiting for logs on EVMx",
			Current: int(elapsed / time.Second),
			Total:   int(timeout / time.Second),
			Message: fmt.Sprintf("%d/%d", observed, expected),
		})
	})
	w.sink.Done()

	if err != nil {
		if errors.Is(err, domain.ErrPollExhausted) {
			return res.Value, &domain.WaitTimeoutError{
				What:     fmt.Sprintf("logs of %s", gateway.Hex()),
				Timeout:  timeout,
				Expected: strconv.FormatUint(expected, 10),
				Observed: strconv.FormatUint(res.Value, 10),
			}
		}
		return res.Value, err
	}

	w.sink.Success(fmt.Sprintf("Total events on EVMx: %d reached (expected %d)", res.Value, expected))
	return res.Value, nil
}

// AwaitRemoteStatus polls the status API for txHash until probe accepts the extracted status.
// Transport failures and documents without the field count as "not yet".
func (w *Waiter) AwaitRemoteStatus(ctx context.Context, txHash common.Hash, probe StatusProbe, policy config.PollPolicy) (string, error) {
	w.sink.Info(fmt.Sprintf("Waiting for %s of %s", probe.Name, txHash.Hex()))

	res, err := Poll(ctx, policy, func(ctx context.Context, _ int) (string, bool, error) {
		details, err := w.api.GetDetailsByTxHash(ctx, txHash)
		if err != nil {
			w.log.Debug("status request failed", "tx", txHash.Hex(), "error", err)
			return "", false, err
		}
		status, ok := probe.Extract(details)
		if !ok {
			return "", false, nil
		}
		return status, probe.Want(status), nil
	}, reportWait(ctx, w.sink, "Waiting for "+probe.Name, policy))
	w.sink.Done()

	if err != nil {
		if errors.Is(err, domain.ErrPollExhausted) {
			observed := res.Value
			if observed == "" {
				observed = "nothing"
			}
			return res.Value, &domain.WaitTimeoutError{
				What:     fmt.Sprintf("%s of %s", probe.Name, txHash.Hex()),
				Timeout:  pollBudget(policy),
				Expected: probe.Target,
				Observed: observed,
			}
		}
		return res.Value, err
	}

	w.sink.Success(fmt.Sprintf("%s is %s", probe.Name, res.Value))
	return res.Value, nil
}

// pollBudget returns the wall-clock budget of a policy
func pollBudget(policy config.PollPolicy) time.Duration {
	if policy.Timeout > 0 {
		return policy.Timeout
	}
	return time.Duration(policy.MaxAttempts) * policy.Interval
}
