// internal/providers/webhook/sender.go
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	apperrors "moderation-workers/internal/common/errors"
	"moderation-workers/internal/models"
)

// Delivery is one webhook to send to a registered endpoint.
type Delivery struct {
	ID       string                  `json:"id"`
	Event    string                  `json:"event"`
	Payload  interface{}             `json:"payload"`
	SentAt   time.Time               `json:"sentAt"`
	Endpoint *models.WebhookEndpoint `json:"-"`
}

// Sender delivers signed webhook payloads. The body is HMAC-SHA256 signed
// with the endpoint's secret so receivers can authenticate the source.
type Sender struct {
	httpClient *http.Client
}

func NewSender(timeout time.Duration) *Sender {
	return &Sender{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Send posts the delivery to its endpoint. Network errors and 5xx map to
// a retryable delivery failure; 4xx means the receiver rejected the
// delivery and retrying will not help.
func (s *Sender) Send(ctx context.Context, delivery *Delivery) error {
	body, err := json.Marshal(map[string]interface{}{
		"id":        delivery.ID,
		"event":     delivery.Event,
		"payload":   delivery.Payload,
		"timestamp": delivery.SentAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal delivery: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, delivery.Endpoint.URL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-Id", delivery.ID)
	req.Header.Set("X-Timestamp", strconv.FormatInt(delivery.SentAt.Unix(), 10))
	req.Header.Set("X-Signature", sign(delivery.Endpoint.Secret, body))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return apperrors.NewWebhookDeliveryFailedError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return apperrors.NewWebhookRejectedError(resp.StatusCode, string(respBody))
	}
	return apperrors.NewWebhookDeliveryFailedError(fmt.Errorf("receiver returned status %d: %s", resp.StatusCode, string(respBody)))
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
