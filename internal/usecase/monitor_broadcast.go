package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/config"
)

// DefaultBroadcastChainID is the chain directory forge scripts broadcast EVMx transactions under
const DefaultBroadcastChainID uint64 = 7625382

// Monitor states beyond the API statuses
const (
	TxPending = "PENDING"
	TxNoLogs  = "NO_LOGS"
)

// MonitorBroadcastParams contains parameters for monitoring a forge broadcast
type MonitorBroadcastParams struct {
	Script  string
	ChainID uint64
	Timeout time.Duration
}

// TrackedTx is the monitoring state of one broadcast transaction
type TrackedTx struct {
	Hash    string
	Status  string
	printed bool
	// payloads already reported, keyed by execute hash and callback status
	payloads map[string]bool
}

// Settled reports whether the transaction needs no further polling
func (t *TrackedTx) Settled() bool {
	return t.Status == domain.StatusCompleted || t.Status == TxNoLogs
}

// MonitorBroadcastResult contains the final state of every tracked transaction
type MonitorBroadcastResult struct {
	File         string
	Transactions []*TrackedTx
}

// MonitorBroadcast follows the status of every transaction of a forge broadcast
type MonitorBroadcast struct {
	config    *config.RuntimeConfig
	broadcast BroadcastReader
	api       StatusAPI
	progress  ProgressSink
	log       *slog.Logger
}

// NewMonitorBroadcast creates a new MonitorBroadcast use case
func NewMonitorBroadcast(
	cfg *config.RuntimeConfig,
	broadcast BroadcastReader,
	api StatusAPI,
	progress ProgressSink,
	log *slog.Logger,
) *MonitorBroadcast {
	return &MonitorBroadcast{
		config:    cfg,
		broadcast: broadcast,
		api:       api,
		progress:  progress,
		log:       log.With("component", "MonitorBroadcast"),
	}
}

// Run polls the status API until every transaction is completed or has no logs
func (uc *MonitorBroadcast) Run(ctx context.Context, params MonitorBroadcastParams) (*MonitorBroadcastResult, error) {
	if params.ChainID == 0 {
		params.ChainID = DefaultBroadcastChainID
	}
	policy := uc.config.Polling.Broadcast
	if params.Timeout > 0 {
		policy.Timeout = params.Timeout
	}

	file, err := uc.broadcast.ReadLatest(params.Script, params.ChainID)
	if err != nil {
		return nil, err
	}

	result := &MonitorBroadcastResult{
		File: params.Script,
		Transactions: lo.Map(file.Hashes(), func(hash string, _ int) *TrackedTx {
			return &TrackedTx{Hash: hash, Status: TxPending, payloads: map[string]bool{}}
		}),
	}
	uc.progress.Info(fmt.Sprintf("Found %d transactions to process.", len(result.Transactions)))
	uc.progress.Info("Starting to monitor transaction statuses...")

	_, err = Poll(ctx, policy, func(ctx context.Context, _ int) (int, bool, error) {
		uc.checkAll(ctx, result.Transactions)
		pending := lo.CountBy(result.Transactions, func(t *TrackedTx) bool { return !t.Settled() })
		return pending, pending == 0, nil
	}, nil)

	if err != nil {
		if errors.Is(err, domain.ErrPollExhausted) {
			settled := lo.CountBy(result.Transactions, func(t *TrackedTx) bool { return t.Settled() })
			return result, &domain.WaitTimeoutError{
				What:     fmt.Sprintf("broadcast %s", params.Script),
				Timeout:  policy.Timeout,
				Expected: fmt.Sprintf("%d settled transactions", len(result.Transactions)),
				Observed: fmt.Sprint(settled),
			}
		}
		return result, err
	}

	uc.progress.Success("All transactions are COMPLETED. Stopping script.")
	return result, nil
}

func (uc *MonitorBroadcast) checkAll(ctx context.Context, txs []*TrackedTx) {
	for _, tx := range txs {
		if tx.Settled() && tx.printed {
			continue
		}

		details, err := uc.api.GetDetailsByTxHash(ctx, common.HexToHash(tx.Hash))
		if err != nil || details.Status != domain.ResponseSuccess {
			uc.progress.Warn(fmt.Sprintf("Invalid or empty response for hash: %s", tx.Hash))
			if err != nil {
				uc.log.Debug("status request failed", "tx", tx.Hash, "error", err)
			}
			continue
		}

		first, ok := details.First()
		if !ok {
			if !tx.printed {
				uc.progress.Info(fmt.Sprintf("Hash: %s, There are no logs for this transaction hash.", tx.Hash))
				tx.Status = TxNoLogs
				tx.printed = true
			}
			continue
		}

		tx.Status = first.Status
		if tx.Status == "" {
			tx.Status = "UNKNOWN"
		}

		switch tx.Status {
		case domain.StatusCompleted:
			uc.reportPayloads(tx, first.Payloads)
			uc.reportCompleted(tx, first.Payloads)
			tx.printed = true
		case domain.StatusInProgress:
			uc.reportPayloads(tx, first.Payloads)
		}
	}
}

// reportPayloads prints every resolved promise of a multi-payload request once
func (uc *MonitorBroadcast) reportPayloads(tx *TrackedTx, payloads []domain.Payload) {
	if len(payloads) < 2 {
		return
	}
	for _, p := range payloads {
		callback := p.CallBackDetails.CallbackStatus
		executeHash := p.ExecuteDetails.ExecuteTxHash
		key := executeHash + "-" + callback
		if callback != domain.StatusPromiseResolved || executeHash == "" || tx.payloads[key] {
			continue
		}
		slug := p.ChainSlug.String()
		if slug == "" {
			slug = "N/A"
		}
		uc.progress.Info(fmt.Sprintf("Hash: %s, Status: %s, ChainId: %s", executeHash, callback, slug))
		tx.payloads[key] = true
	}
}

func (uc *MonitorBroadcast) reportCompleted(tx *TrackedTx, payloads []domain.Payload) {
	if len(payloads) > 0 {
		deployer := payloads[0].DeployerDetails
		if deployer != (domain.DeployerDetails{}) {
			uc.progress.Success(fmt.Sprintf("Hash: %s, Status: %s, ChainId: %s", tx.Hash, tx.Status, payloads[0].ChainSlug))
			uc.progress.Info(fmt.Sprintf("OnChainAddress: %s", deployer.OnChainAddress))
			uc.progress.Info(fmt.Sprintf("ForwarderAddress: %s", deployer.ForwarderAddress))
			return
		}
	}
	uc.progress.Success(fmt.Sprintf("Hash: %s, Status: %s, ChainId: %d", tx.Hash, tx.Status, DefaultBroadcastChainID))
}
