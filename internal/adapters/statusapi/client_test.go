package statusapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailsBody = `{
  "status": "SUCCESS",
  "response": [{
    "status": "COMPLETED",
    "writePayloads": [{
      "chainSlug": 421614,
      "proofUploadDetails": {"proofUploadStatus": "PROOF_UPLOADED"},
      "executeDetails": {"executeStatus": "EXECUTION_FAILED", "executeTxHash": "0x01"}
    }],
    "readPayloads": [{
      "callBackDetails": {"callbackStatus": "PROMISE_RESOLVE_FAILED"}
    }],
    "payloads": [{
      "chainSlug": 11155420,
      "finalizeDetails": {"finalizeStatus": "FINALIZED"},
      "deployerDetails": {"onChainAddress": "0xabc", "forwarderAddress": "0xdef"}
    }]
  }]
}`

func newTestClient(url string) *Client {
	return NewClient(&config.RuntimeConfig{APIBase: url}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGetDetailsByTxHash(t *testing.T) {
	hash := common.HexToHash("0x1234")

	t.Run("decodes the details document", func(t *testing.T) {
		var gotPath, gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.Query().Get("txHash")
			_, _ = w.Write([]byte(detailsBody))
		}))
		defer srv.Close()

		details, err := newTestClient(srv.URL).GetDetailsByTxHash(context.Background(), hash)
		require.NoError(t, err)

		assert.Equal(t, "/getDetailsByTxHash", gotPath)
		assert.Equal(t, hash.Hex(), gotQuery)
		assert.Equal(t, domain.ResponseSuccess, details.Status)

		first, ok := details.First()
		require.True(t, ok)
		assert.Equal(t, domain.StatusCompleted, first.Status)

		write, ok := details.FirstWrite()
		require.True(t, ok)
		assert.Equal(t, domain.StatusProofUploaded, write.ProofUploadDetails.ProofUploadStatus)
		assert.Equal(t, domain.StatusExecutionFailed, write.ExecuteDetails.ExecuteStatus)
		assert.Equal(t, "421614", write.ChainSlug.String())

		read, ok := details.FirstRead()
		require.True(t, ok)
		assert.Equal(t, domain.StatusPromiseResolveFailed, read.CallBackDetails.CallbackStatus)
		assert.Equal(t, "0xabc", first.Payloads[0].DeployerDetails.OnChainAddress)
	})

	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).GetDetailsByTxHash(context.Background(), hash)
		assert.ErrorContains(t, err, "status 502")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).GetDetailsByTxHash(context.Background(), hash)
		assert.ErrorContains(t, err, "failed to decode response")
	})

	t.Run("empty response list", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"SUCCESS","response":[]}`))
		}))
		defer srv.Close()

		details, err := newTestClient(srv.URL).GetDetailsByTxHash(context.Background(), hash)
		require.NoError(t, err)
		_, ok := details.First()
		assert.False(t, ok)
	})
}
