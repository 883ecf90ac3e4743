package paymentgate

import (
	"context"
	"errors"

	apperrors "moderation-workers/internal/common/errors"
	"moderation-workers/internal/common/logger"
	"moderation-workers/internal/models"
	"moderation-workers/internal/store"
	"moderation-workers/internal/workflow"
)

const TaskType = "user-action.payment-gate"

// Handler gates or restores a user's payment capability when their
// moderation status changes.
type Handler struct {
	config   *Config
	users    UserStore
	settings SettingsStore
	gateway  PaymentGateway
	secrets  Decryptor
	logger   logger.Logger
}

func NewHandler(deps Dependencies, config *Config) *Handler {
	return &Handler{
		config:   config,
		users:    deps.Users,
		settings: deps.Settings,
		gateway:  deps.Gateway,
		secrets:  deps.Secrets,
		logger:   deps.Logger.WithFields(map[string]interface{}{"taskType": TaskType}),
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

	settings, err := workflow.RunStep(ctx, exec, "fetch-organization-settings", func(ctx context.Context) (*models.OrganizationSettings, error) {
		s, err := h.settings.FindByOrg(ctx, event.OrganizationID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewSettingsNotFoundError(event.OrganizationID)
		}
		if err != nil {
			return nil, apperrors.NewStoreQueryFailedError("organization_settings", err)
		}
		return s, nil
	})
	if err != nil {
		return err
	}

	result, err := workflow.RunStep(ctx, exec, "update-payment-gate", func(ctx context.Context) (*gateResult, error) {
		// Absence of either credential piece is a silent no-op, not an
		// error.
		if !settings.HasPaymentCredential() || !user.HasPaymentAccount() {
			return &gateResult{Action: GateActionSkipped}, nil
		}

		apiKey, err := h.secrets.Decrypt(*settings.PaymentAPIKey)
		if err != nil {
			return nil, apperrors.NewCredentialDecryptFailedError(err)
		}

		idempotencyKey := exec.IdempotencyKey("update-payment-gate")

		switch event.Status {
		case models.UserStatusSuspended, models.UserStatusBanned:
			if err := h.gateway.PausePaymentsAndPayouts(ctx, apiKey, *user.PaymentAccountID, idempotencyKey); err != nil {
				return nil, err
			}
			return &gateResult{Action: GateActionPaused}, nil
		case models.UserStatusCompliant:
			if err := h.gateway.ResumePaymentsAndPayouts(ctx, apiKey, *user.PaymentAccountID, idempotencyKey); err != nil {
				return nil, err
			}
			return &gateResult{Action: GateActionResumed}, nil
		default:
			return &gateResult{Action: GateActionNone}, nil
		}
	})
	if err != nil {
		return err
	}

	h.logger.Info("payment gate updated", map[string]interface{}{
		"userActionId": event.UserActionID,
		"action":       string(result.Action),
	})
	return nil
}
