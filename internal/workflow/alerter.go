// internal/workflow/alerter.go
package workflow

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	apperrors "moderation-workers/internal/common/errors"
	"moderation-workers/internal/common/logger"
	"moderation-workers/internal/models"
)

// SNSPublisher is the slice of the SNS client the alerter needs.
type SNSPublisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// SNSAlerter publishes permanently-failed handler runs to an ops topic.
// Publishing is best effort; a failed publish is logged and dropped so it
// never affects the run that triggered it.
type SNSAlerter struct {
	client   SNSPublisher
	topicARN string
	logger   logger.Logger
}

func NewSNSAlerter(client SNSPublisher, topicARN string, lg logger.Logger) *SNSAlerter {
	return &SNSAlerter{client: client, topicARN: topicARN, logger: lg}
}

type alertPayload struct {
	Handler        string `json:"handler"`
	UserActionID   string `json:"userActionId"`
	OrganizationID string `json:"organizationId"`
	UserID         string `json:"userId"`
	Status         string `json:"status"`
	ErrorCode      string `json:"errorCode"`
	Error          string `json:"error"`
	Timestamp      string `json:"timestamp"`
}

func (a *SNSAlerter) Alert(ctx context.Context, handler string, event *models.StatusChangeEvent, err error) {
	body, marshalErr := json.Marshal(alertPayload{
		Handler:        handler,
		UserActionID:   event.UserActionID,
		OrganizationID: event.OrganizationID,
		UserID:         event.UserID,
		Status:         string(event.Status),
		ErrorCode:      apperrors.CodeOf(err),
		Error:          err.Error(),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	})
	if marshalErr != nil {
		a.logger.Error("failed to marshal alert payload", map[string]interface{}{"error": marshalErr.Error()})
		return
	}

	_, pubErr := a.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(a.topicARN),
		Subject:  aws.String("moderation handler run failed: " + handler),
		Message:  aws.String(string(body)),
	})
	if pubErr != nil {
		a.logger.Error("failed to publish handler alert", map[string]interface{}{
			"handler": handler,
			"error":   pubErr.Error(),
		})
	}
}
