// internal/store/messages.go
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"moderation-workers/internal/models"
)

// MessageStore appends outbound notification records. Messages are
// written before the email itself is sent.
type MessageStore struct {
	db *sql.DB
}

func NewMessageStore(db *sql.DB) *MessageStore {
	return &MessageStore{db: db}
}

// CreateParams are the caller-supplied fields of a new message.
type CreateParams struct {
	OrganizationID string
	UserActionID   string
	ToID           string
	Subject        string
	Text           string
}

// Create appends one outbound message record.
func (s *MessageStore) Create(ctx context.Context, params CreateParams) (*models.Message, error) {
	msg := &models.Message{
		ID:             uuid.New().String(),
		OrganizationID: params.OrganizationID,
		UserActionID:   params.UserActionID,
		Type:           models.MessageTypeOutbound,
		ToID:           params.ToID,
		Subject:        params.Subject,
		Text:           params.Text,
		CreatedAt:      time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, organization_id, user_action_id, type, to_id, subject, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		msg.ID, msg.OrganizationID, msg.UserActionID, msg.Type, msg.ToID, msg.Subject, msg.Text, msg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return msg, nil
}
