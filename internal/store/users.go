// internal/store/users.go
package store

import (
	"context"
	"database/sql"
	"errors"

	"moderation-workers/internal/models"
)

// UserStore reads moderated users. User records are read-only from this
// engine's perspective.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByOrgAndID returns the user scoped to its organization, or
// ErrNotFound.
func (s *UserStore) FindByOrgAndID(ctx context.Context, organizationID, userID string) (*models.User, error) {
	var u models.User
	var paymentAccountID sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT id, organization_id, client_id, email, payment_account_id, status, created_at
		FROM users
		WHERE organization_id = $1 AND id = $2`,
		organizationID, userID,
	).Scan(&u.ID, &u.OrganizationID, &u.ClientID, &u.Email, &paymentAccountID, &u.Status, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if paymentAccountID.Valid {
		u.PaymentAccountID = &paymentAccountID.String
	}

	return &u, nil
}
