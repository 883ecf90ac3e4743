// internal/providers/payment/client.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "moderation-workers/internal/common/errors"
)

// Client talks to the payment gateway's account-control API. The gateway
// tolerates duplicate pause/resume calls, so calls are idempotent from
// the handler's perspective; the idempotency key lets receivers that
// dedupe do better.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type gateRequest struct {
	Payments bool `json:"payments"`
	Payouts  bool `json:"payouts"`
}

// PausePaymentsAndPayouts halts both payment acceptance and payouts for
// the account. apiKey is the organization's decrypted credential.
func (c *Client) PausePaymentsAndPayouts(ctx context.Context, apiKey, accountID, idempotencyKey string) error {
	return c.post(ctx, apiKey, accountID, "pause", idempotencyKey)
}

// ResumePaymentsAndPayouts restores payment acceptance and payouts.
func (c *Client) ResumePaymentsAndPayouts(ctx context.Context, apiKey, accountID, idempotencyKey string) error {
	return c.post(ctx, apiKey, accountID, "resume", idempotencyKey)
}

func (c *Client) post(ctx context.Context, apiKey, accountID, action, idempotencyKey string) error {
	url := fmt.Sprintf("%s/v1/accounts/%s/capabilities/%s", c.baseURL, accountID, action)

	jsonData, err := json.Marshal(gateRequest{Payments: true, Payouts: true})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewPaymentProviderError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return apperrors.NewPaymentProviderRejectedError(resp.StatusCode, string(body))
	}
	return apperrors.NewPaymentProviderError(fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(body)))
}
