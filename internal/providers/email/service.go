// internal/providers/email/service.go
package email

import (
	"context"
	"fmt"

	apperrors "moderation-workers/internal/common/errors"
	"moderation-workers/internal/models"
)

// UserResolver resolves the recipient address for a user id.
type UserResolver interface {
	FindByOrgAndID(ctx context.Context, organizationID, userID string) (*models.User, error)
}

// Service addresses notification emails by user id and delivers them
// through the sender.
type Service struct {
	users  UserResolver
	sender *Sender
}

func NewService(users UserResolver, sender *Sender) *Service {
	return &Service{users: users, sender: sender}
}

// Send resolves the user's address and delivers the email.
func (s *Service) Send(ctx context.Context, organizationID, userID, subject, html, text string) error {
	user, err := s.users.FindByOrgAndID(ctx, organizationID, userID)
	if err != nil {
		return apperrors.NewEmailSendFailedError(fmt.Errorf("resolve recipient %s: %w", userID, err))
	}

	return s.sender.Send(ctx, SendRequest{
		To:      user.Email,
		Subject: subject,
		HTML:    html,
		Text:    text,
	})
}
