// internal/store/webhooks.go
package store

import (
	"context"
	"database/sql"
	"errors"

	"moderation-workers/internal/models"
)

// WebhookEndpointStore reads an organization's registered webhook
// endpoints.
type WebhookEndpointStore struct {
	db *sql.DB
}

func NewWebhookEndpointStore(db *sql.DB) *WebhookEndpointStore {
	return &WebhookEndpointStore{db: db}
}

// FindByOrg returns the organization's first registered endpoint, or
// ErrNotFound when none is configured.
func (s *WebhookEndpointStore) FindByOrg(ctx context.Context, organizationID string) (*models.WebhookEndpoint, error) {
	var w models.WebhookEndpoint

	err := s.db.QueryRowContext(ctx, `
		SELECT id, organization_id, url, secret, created_at
		FROM webhook_endpoints
		WHERE organization_id = $1
		ORDER BY created_at
		LIMIT 1`,
		organizationID,
	).Scan(&w.ID, &w.OrganizationID, &w.URL, &w.Secret, &w.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &w, nil
}
