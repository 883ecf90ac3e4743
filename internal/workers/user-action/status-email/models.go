package statusemail

import (
	"context"

	"moderation-workers/internal/common/logger"
	"moderation-workers/internal/models"
	"moderation-workers/internal/providers/email"
	"moderation-workers/internal/store"
)

// templateResult carries the rendered template through the step log.
// Rendered is false when the transition produces no notification, which
// is a successful stop, not an error.
type templateResult struct {
	Rendered bool                    `json:"rendered"`
	Template *email.RenderedTemplate `json:"template,omitempty"`
}

type SettingsStore interface {
	FindOrCreate(ctx context.Context, organizationID string) (*models.OrganizationSettings, error)
}

type MessageStore interface {
	Create(ctx context.Context, params store.CreateParams) (*models.Message, error)
}

type TemplateRenderer interface {
	Render(req email.RenderRequest) (*email.RenderedTemplate, error)
}

type EmailSender interface {
	Send(ctx context.Context, organizationID, userID, subject, html, text string) error
}

type AppealLinker interface {
	AppealURL(userID string) (string, error)
}

type Dependencies struct {
	Settings SettingsStore
	Messages MessageStore
	Renderer TemplateRenderer
	Sender   EmailSender
	Appeals  AppealLinker
	Logger   logger.Logger
}
