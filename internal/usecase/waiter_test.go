package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func logsOf(n int) []types.Log {
	return make([]types.Log, n)
}

func TestAwaitLogCount(t *testing.T) {
	ctx := context.Background()
	gateway := common.HexToAddress("0x0a")

	t.Run("returns once the count is reached", func(t *testing.T) {
		h := newHarness(t)
		polls := 0
		var query ethereum.FilterQuery
		h.evmx.logs = func(q ethereum.FilterQuery) ([]types.Log, error) {
			query = q
			polls++
			return logsOf(polls), nil
		}

		count, err := h.waiter.AwaitLogCount(ctx, gateway, 3, time.Second)

		require.NoError(t, err)
		assert.Equal(t, uint64(3), count)
		assert.Equal(t, []common.Address{gateway}, query.Addresses)
		assert.Zero(t, query.FromBlock.Sign())
		assert.Nil(t, query.ToBlock)
	})

	t.Run("fetch errors are logged and polling continues", func(t *testing.T) {
		h := newHarness(t)
		polls := 0
		h.evmx.logs = func(ethereum.FilterQuery) ([]types.Log, error) {
			polls++
			if polls < 3 {
				return nil, errors.New("rate limited")
			}
			return logsOf(2), nil
		}

		count, err := h.waiter.AwaitLogCount(ctx, gateway, 2, time.Second)

		require.NoError(t, err)
		assert.Equal(t, uint64(2), count)
	})

	t.Run("timeout boundary", func(t *testing.T) {
		h := newHarness(t)
		h.cfg.Polling.Logs.Interval = 20 * time.Millisecond
		timeout := 100 * time.Millisecond
		h.evmx.logs = func(ethereum.FilterQuery) ([]types.Log, error) {
			return logsOf(1), nil
		}

		start := time.Now()
		_, err := h.waiter.AwaitLogCount(ctx, gateway, 5, timeout)
		elapsed := time.Since(start)

		var we *domain.WaitTimeoutError
		require.True(t, errors.As(err, &we))
		assert.Equal(t, "1", we.Observed)
		assert.Equal(t, "5", we.Expected)
		assert.GreaterOrEqual(t, elapsed, timeout)
		assert.Less(t, elapsed, timeout+h.cfg.Polling.Logs.Interval+50*time.Millisecond)
	})
}

func TestAwaitRemoteStatus(t *testing.T) {
	ctx := context.Background()
	hash := common.HexToHash("0xabc")

	completed := &domain.TxDetailsResponse{
		Status:   domain.ResponseSuccess,
		Response: []domain.TxDetails{{Status: domain.StatusCompleted}},
	}

	t.Run("transport errors and empty documents are not yet", func(t *testing.T) {
		h := newHarness(t)
		h.api.On("GetDetailsByTxHash", mock.Anything, hash).Return(nil, errors.New("API error (status 502)")).Once()
		h.api.On("GetDetailsByTxHash", mock.Anything, hash).Return(&domain.TxDetailsResponse{}, nil).Once()
		h.api.On("GetDetailsByTxHash", mock.Anything, hash).Return(completed, nil).Once()

		status, err := h.waiter.AwaitRemoteStatus(ctx, hash, RequestStatus(domain.StatusCompleted), fastPolicy(5))

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, status)
		h.api.AssertNumberOfCalls(t, "GetDetailsByTxHash", 3)
	})

	t.Run("times out with the last observed status", func(t *testing.T) {
		h := newHarness(t)
		inProgress := &domain.TxDetailsResponse{
			Status:   domain.ResponseSuccess,
			Response: []domain.TxDetails{{Status: domain.StatusInProgress}},
		}
		h.api.On("GetDetailsByTxHash", mock.Anything, hash).Return(inProgress, nil)

		_, err := h.waiter.AwaitRemoteStatus(ctx, hash, RequestStatus(domain.StatusCompleted), fastPolicy(3))

		var we *domain.WaitTimeoutError
		require.True(t, errors.As(err, &we))
		assert.Equal(t, domain.StatusInProgress, we.Observed)
		assert.Equal(t, domain.StatusCompleted, we.Expected)
		h.api.AssertNumberOfCalls(t, "GetDetailsByTxHash", 3)
	})
}

func TestStatusProbes(t *testing.T) {
	doc := &domain.TxDetailsResponse{
		Status: domain.ResponseSuccess,
		Response: []domain.TxDetails{{
			Status: domain.StatusInProgress,
			Payloads: []domain.Payload{{
				FinalizeDetails: domain.FinalizeDetails{FinalizeStatus: domain.StatusFinalized},
			}},
			WritePayloads: []domain.Payload{{
				ProofUploadDetails: domain.ProofUploadDetails{ProofUploadStatus: domain.StatusProofUploaded},
				ExecuteDetails:     domain.ExecuteDetails{ExecuteStatus: domain.StatusExecutionFailed},
			}},
			ReadPayloads: []domain.Payload{{
				CallBackDetails: domain.CallBackDetails{CallbackStatus: domain.StatusPromiseResolveFailed},
			}},
		}},
	}

	tests := []struct {
		name  string
		probe StatusProbe
		want  string
		match bool
	}{
		{"finalize", FinalizeStatus(domain.StatusFinalized), domain.StatusFinalized, true},
		{"execute", ExecuteStatus(domain.StatusExecutionFailed), domain.StatusExecutionFailed, true},
		{"callback", CallbackStatus(domain.StatusPromiseResolveFailed), domain.StatusPromiseResolveFailed, true},
		{"request", RequestStatus(domain.StatusCompleted), domain.StatusInProgress, false},
		{"proof then execution failed", ProofThenExecutionFailed(), "PROOF_UPLOADED/EXECUTION_FAILED", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, ok := tt.probe.Extract(doc)
			require.True(t, ok)
			assert.Equal(t, tt.want, status)
			assert.Equal(t, tt.match, tt.probe.Want(status))

			_, ok = tt.probe.Extract(&domain.TxDetailsResponse{})
			assert.False(t, ok)
		})
	}

	t.Run("execution failure without proof does not match", func(t *testing.T) {
		noProof := &domain.TxDetailsResponse{Response: []domain.TxDetails{{
			WritePayloads: []domain.Payload{{ExecuteDetails: domain.ExecuteDetails{ExecuteStatus: domain.StatusExecutionFailed}}},
		}}}
		probe := ProofThenExecutionFailed()
		status, ok := probe.Extract(noProof)
		require.True(t, ok)
		assert.False(t, probe.Want(status))
	})
}
