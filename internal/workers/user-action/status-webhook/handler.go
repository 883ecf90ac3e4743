package statuswebhook

import (
	"context"
	"errors"
	"time"

	apperrors "moderation-workers/internal/common/errors"
	"moderation-workers/internal/common/logger"
	"moderation-workers/internal/models"
	"moderation-workers/internal/providers/webhook"
	"moderation-workers/internal/store"
	"moderation-workers/internal/workflow"
)

const TaskType = "user-action.status-webhook"

// Handler notifies the organization's registered webhook endpoint of a
// user's moderation-status transition.
type Handler struct {
	config    *Config
	users     UserStore
	endpoints WebhookEndpointStore
	sender    WebhookSender
	logger    logger.Logger
}

func NewHandler(deps Dependencies, config *Config) *Handler {
	return &Handler{
		config:    config,
		users:     deps.Users,
		endpoints: deps.Endpoints,
		sender:    deps.Sender,
		logger:    deps.Logger.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Name() string { return TaskType }

func (h *Handler) Handle(ctx context.Context, exec *workflow.Execution, event *models.StatusChangeEvent) error {
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	user, err := workflow.RunStep(ctx, exec, "fetch-user", func(ctx context.Context) (*models.User, error) {
		u, err := h.users.FindByOrgAndID(ctx, event.OrganizationID, event.UserID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewUserNotFoundError(event.UserID)
		}
		if err != nil {
			return nil, apperrors.NewStoreQueryFailedError("user", err)
		}
		return u, nil
	})
	if err != nil {
		return err
	}

	endpoint, err := workflow.RunStep(ctx, exec, "fetch-webhook-endpoint", func(ctx context.Context) (*models.WebhookEndpoint, error) {
		w, err := h.endpoints.FindByOrg(ctx, event.OrganizationID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewWebhookNotConfiguredError(event.OrganizationID)
		}
		if err != nil {
			return nil, apperrors.NewStoreQueryFailedError("webhook_endpoints", err)
		}
		return w, nil
	})
	if err != nil {
		return err
	}

	// Event types are in bijection with the status set; anything else is
	// a producer bug and must never be retried.
	eventType, ok := event.Status.WebhookEventType()
	if !ok {
		return apperrors.NewInvalidStatusError(string(event.Status))
	}

	result, err := workflow.RunStep(ctx, exec, "send-user-action-webhook", func(ctx context.Context) (*sendResult, error) {
		delivery := &webhook.Delivery{
			ID:       exec.IdempotencyKey("send-user-action-webhook"),
			Event:    eventType,
			Payload:  webhookPayload{ClientID: user.ClientID},
			SentAt:   time.Now().UTC(),
			Endpoint: endpoint,
		}
		if err := h.sender.Send(ctx, delivery); err != nil {
			return nil, err
		}
		return &sendResult{DeliveryID: delivery.ID, EventType: eventType}, nil
	})
	if err != nil {
		return err
	}

	h.logger.Info("webhook delivered", map[string]interface{}{
		"userActionId": event.UserActionID,
		"eventType":    result.EventType,
		"endpointId":   endpoint.ID,
	})
	return nil
}
