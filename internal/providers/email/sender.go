// internal/providers/email/sender.go
package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	apperrors "moderation-workers/internal/common/errors"
)

// SendRequest addresses one notification email to a user.
type SendRequest struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// SESAPI is the slice of the SES client the sender needs.
type SESAPI interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// Sender delivers notification emails through SES.
type Sender struct {
	ses       SESAPI
	fromEmail string
}

func NewSender(sesClient SESAPI, fromEmail string) *Sender {
	return &Sender{ses: sesClient, fromEmail: fromEmail}
}

// Send delivers one email. Provider failures are retryable; the step log
// keeps retries from double-sending completed steps.
func (s *Sender) Send(ctx context.Context, req SendRequest) error {
	if req.To == "" {
		return apperrors.NewEmailSendFailedError(fmt.Errorf("recipient address is empty"))
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{req.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(req.Subject)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(req.HTML)},
				Text: &types.Content{Data: aws.String(req.Text)},
			},
		},
	}

	if _, err := s.ses.SendEmail(ctx, input); err != nil {
		return apperrors.NewEmailSendFailedError(err)
	}

	return nil
}
