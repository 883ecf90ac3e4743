// internal/store/settings.go
package store

import (
	"context"
	"database/sql"
	"errors"

	"moderation-workers/internal/models"
)

// OrganizationSettingsStore reads per-tenant configuration. Settings rows
// are created lazily on first access and never duplicated.
type OrganizationSettingsStore struct {
	db *sql.DB
}

func NewOrganizationSettingsStore(db *sql.DB) *OrganizationSettingsStore {
	return &OrganizationSettingsStore{db: db}
}

func scanSettings(row *sql.Row) (*models.OrganizationSettings, error) {
	var s models.OrganizationSettings
	var paymentAPIKey sql.NullString

	err := row.Scan(&s.OrganizationID, &paymentAPIKey, &s.EmailsEnabled, &s.AppealsEnabled, &s.CreatedAt)
	if err != nil {
		return nil, err
	}

	if paymentAPIKey.Valid {
		s.PaymentAPIKey = &paymentAPIKey.String
	}

	return &s, nil
}

// FindByOrg returns the organization's settings row, or ErrNotFound.
func (s *OrganizationSettingsStore) FindByOrg(ctx context.Context, organizationID string) (*models.OrganizationSettings, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT organization_id, payment_api_key, emails_enabled, appeals_enabled, created_at
		FROM organization_settings
		WHERE organization_id = $1`,
		organizationID,
	)

	settings, err := scanSettings(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// FindOrCreate returns the organization's settings row, inserting the
// default row on first access. The upsert makes concurrent first accesses
// converge on a single row.
func (s *OrganizationSettingsStore) FindOrCreate(ctx context.Context, organizationID string) (*models.OrganizationSettings, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO organization_settings (organization_id, emails_enabled, appeals_enabled, created_at)
		VALUES ($1, TRUE, FALSE, NOW())
		ON CONFLICT (organization_id) DO UPDATE SET organization_id = EXCLUDED.organization_id
		RETURNING organization_id, payment_api_key, emails_enabled, appeals_enabled, created_at`,
		organizationID,
	)

	return scanSettings(row)
}
