package statusapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/config"
	"github.com/socket-protocol/evmx-integration/internal/usecase"
)

// Client talks to the EVMx transaction status service
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a status API client for the configured base URL
func NewClient(cfg *config.RuntimeConfig, log *slog.Logger) *Client {
	return &Client{
		baseURL: cfg.APIBase,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With("component", "StatusAPI"),
	}
}

// GetDetailsByTxHash fetches the request details triggered by a coordination chain transaction
func (c *Client) GetDetailsByTxHash(ctx context.Context, txHash common.Hash) (*domain.TxDetailsResponse, error) {
	endpoint := fmt.Sprintf("%s/getDetailsByTxHash?txHash=%s", c.baseURL, url.QueryEscape(txHash.Hex()))
	c.log.Debug("GET", "url", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction details: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var details domain.TxDetailsResponse
	if err := json.Unmarshal(body, &details); err != nil {
		c.log.Debug("failed to parse JSON", "body", string(body))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &details, nil
}

// Ensure the adapter implements the interface
var _ usecase.StatusAPI = (*Client)(nil)
