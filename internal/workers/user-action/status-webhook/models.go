package statuswebhook

import (
	"context"

	"moderation-workers/internal/common/logger"
	"moderation-workers/internal/models"
	"moderation-workers/internal/providers/webhook"
)

type sendResult struct {
	DeliveryID string `json:"deliveryId"`
	EventType  string `json:"eventType"`
}

// webhookPayload is the body delivered to the integrator: only the
// caller-facing client id, never internal ids.
type webhookPayload struct {
	ClientID string `json:"clientId"`
}

type UserStore interface {
	FindByOrgAndID(ctx context.Context, organizationID, userID string) (*models.User, error)
}

type WebhookEndpointStore interface {
	FindByOrg(ctx context.Context, organizationID string) (*models.WebhookEndpoint, error)
}

type WebhookSender interface {
	Send(ctx context.Context, delivery *webhook.Delivery) error
}

type Dependencies struct {
	Users     UserStore
	Endpoints WebhookEndpointStore
	Sender    WebhookSender
	Logger    logger.Logger
}
