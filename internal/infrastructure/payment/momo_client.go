// Package payment implements the mobile-money aggregator client. The
// aggregator fronts the individual operators (Orange Money, MTN MoMo, Moov,
// Wave) behind one charge/status HTTP contract.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/templhaven/marketplace-api/internal/core/domain"
	"github.com/templhaven/marketplace-api/internal/core/ports"
)

const defaultRequestTimeout = 10 * time.Second

// Config captures the settings for the aggregator client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client implements ports.PaymentProvider against the aggregator's REST API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a Client with a bounded request timeout.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type chargeRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Phone    string  `json:"phone"`
	Provider string  `json:"provider"`
}

type chargeResponse struct {
	TransactionID string `json:"transaction_id"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type providerErrorResponse struct {
	Error string `json:"error"`
}

// CreateCharge submits a charge and returns the provider-issued transaction id.
func (c *Client) CreateCharge(ctx context.Context, req ports.ChargeRequest) (string, error) {
	body, err := json.Marshal(chargeRequest{
		Amount:   req.Amount,
		Currency: req.Currency,
		Phone:    req.Phone,
		Provider: string(req.Provider),
	})
	if err != nil {
		return "", fmt.Errorf("marshal charge: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/charges", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build charge request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("create charge: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("create charge: %w", c.decodeError(resp))
	}

	var out chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode charge response: %w", err)
	}
	if out.TransactionID == "" {
		return "", fmt.Errorf("create charge: provider returned no transaction id")
	}
	return out.TransactionID, nil
}

// GetStatus looks up the current status of a transaction.
func (c *Client) GetStatus(ctx context.Context, transactionID string) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/charges/"+transactionID, nil)
	if err != nil {
		return "", fmt.Errorf("build status request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("get status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("get status: %w", c.decodeError(resp))
	}

	var out statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode status response: %w", err)
	}
	return out.Status, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *Client) decodeError(resp *http.Response) error {
	var pe providerErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&pe); err == nil && pe.Error != "" {
		return fmt.Errorf("%w: %s (http %d)", domain.ErrProviderUnavailable, pe.Error, resp.StatusCode)
	}
	return fmt.Errorf("%w: http %d", domain.ErrProviderUnavailable, resp.StatusCode)
}
