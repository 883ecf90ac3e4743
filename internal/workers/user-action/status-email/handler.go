package statusemail

import (
	"context"

	apperrors "moderation-workers/internal/common/errors"
	"moderation-workers/internal/common/logger"
	"moderation-workers/internal/models"
	"moderation-workers/internal/providers/email"
	"moderation-workers/internal/store"
	"moderation-workers/internal/workflow"
)

const TaskType = "user-action.status-email"

// Handler sends the templated notification email for a moderation-status
// transition and logs it as an outbound message first.
type Handler struct {
	config   *Config
	settings SettingsStore
	messages MessageStore
	renderer TemplateRenderer
	sender   EmailSender
	appeals  AppealLinker
	logger   logger.Logger
}

func NewHandler(deps Dependencies, config *Config) *Handler {
	return &Handler{
		config:   config,
		settings: deps.Settings,
		messages: deps.Messages,
		renderer: deps.Renderer,
		sender:   deps.Sender,
		appeals:  deps.Appeals,
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

	settings, err := workflow.RunStep(ctx, exec, "fetch-organization-settings", func(ctx context.Context) (*models.OrganizationSettings, error) {
		s, err := h.settings.FindOrCreate(ctx, event.OrganizationID)
		if err != nil {
			return nil, apperrors.NewStoreQueryFailedError("organization_settings", err)
		}
		return s, nil
	})
	if err != nil {
		return err
	}

	if !settings.EmailsEnabled {
		h.logger.Debug("emails disabled for organization", map[string]interface{}{
			"organizationId": event.OrganizationID,
		})
		return nil
	}

	tpl, err := workflow.RunStep(ctx, exec, "get-template", func(ctx context.Context) (*templateResult, error) {
		return h.selectTemplate(settings, event)
	})
	if err != nil {
		return err
	}

	if !tpl.Rendered {
		return nil
	}

	message, err := workflow.RunStep(ctx, exec, "create-message", func(ctx context.Context) (*models.Message, error) {
		m, err := h.messages.Create(ctx, store.CreateParams{
			OrganizationID: event.OrganizationID,
			UserActionID:   event.UserActionID,
			ToID:           event.UserID,
			Subject:        tpl.Template.Subject,
			Text:           tpl.Template.Text,
		})
		if err != nil {
			return nil, apperrors.NewStoreQueryFailedError("messages", err)
		}
		return m, nil
	})
	if err != nil {
		return err
	}

	type sendResult struct {
		Sent bool `json:"sent"`
	}
	_, err = workflow.RunStep(ctx, exec, "send-email", func(ctx context.Context) (*sendResult, error) {
		if err := h.sender.Send(ctx, event.OrganizationID, event.UserID, tpl.Template.Subject, tpl.Template.HTML, tpl.Template.Text); err != nil {
			return nil, err
		}
		return &sendResult{Sent: true}, nil
	})
	if err != nil {
		return err
	}

	h.logger.Info("notification email sent", map[string]interface{}{
		"userActionId": event.UserActionID,
		"messageId":    message.ID,
		"subject":      tpl.Template.Subject,
	})
	return nil
}

// selectTemplate maps the transition to a notification template. A
// reinstatement email goes out only for Suspended→Compliant; every other
// unlisted combination produces no notification at all.
func (h *Handler) selectTemplate(settings *models.OrganizationSettings, event *models.StatusChangeEvent) (*templateResult, error) {
	var req *email.RenderRequest

	switch event.Status {
	case models.UserStatusCompliant:
		if event.PreviousStatus == models.UserStatusSuspended {
			req = &email.RenderRequest{
				OrganizationID: event.OrganizationID,
				Type:           email.TemplateCompliant,
			}
		}
	case models.UserStatusSuspended:
		appealURL := ""
		if settings.AppealsEnabled {
			url, err := h.appeals.AppealURL(event.UserID)
			if err != nil {
				return nil, err
			}
			appealURL = url
		}
		req = &email.RenderRequest{
			OrganizationID: event.OrganizationID,
			Type:           email.TemplateSuspended,
			AppealURL:      appealURL,
		}
	case models.UserStatusBanned:
		req = &email.RenderRequest{
			OrganizationID: event.OrganizationID,
			Type:           email.TemplateBanned,
		}
	}

	if req == nil {
		return &templateResult{Rendered: false}, nil
	}

	rendered, err := h.renderer.Render(*req)
	if err != nil {
		return nil, err
	}

	return &templateResult{Rendered: true, Template: rendered}, nil
}
