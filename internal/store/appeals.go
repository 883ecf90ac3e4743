// internal/store/appeals.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moderation-workers/internal/models"
)

// AppealStore reads open appeals and records their resolution. Appeals
// are created elsewhere; this engine only moves Open appeals forward.
type AppealStore struct {
	db *sql.DB
}

func NewAppealStore(db *sql.DB) *AppealStore {
	return &AppealStore{db: db}
}

// FindOpenByOrgAndUser returns all Open appeals joined to the user's
// actions within the organization.
func (s *AppealStore) FindOpenByOrgAndUser(ctx context.Context, organizationID, userID string) ([]models.Appeal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.user_action_id, a.action_status, a.created_at
		FROM appeals a
		INNER JOIN user_actions ua ON ua.id = a.user_action_id
		WHERE ua.organization_id = $1
		  AND ua.user_id = $2
		  AND a.action_status = 'Open'`,
		organizationID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appeals []models.Appeal
	for rows.Next() {
		var a models.Appeal
		if err := rows.Scan(&a.ID, &a.UserActionID, &a.ActionStatus, &a.CreatedAt); err != nil {
			return nil, err
		}
		appeals = append(appeals, a)
	}

	return appeals, rows.Err()
}

// CreateAction appends an appeal-action audit record and advances the
// appeal's status in the same transaction. Idempotent across retries: an
// identical resolution already applied results in no second action row.
func (s *AppealStore) CreateAction(ctx context.Context, organizationID, appealID string, status models.AppealStatus, via models.AppealVia) (*models.AppealAction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE appeals SET action_status = $1 WHERE id = $2 AND action_status = 'Open'`,
		status, appealID,
	)
	if err != nil {
		return nil, err
	}

	moved, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if moved == 0 {
		// Already resolved by a prior attempt; nothing to append.
		return nil, nil
	}

	action := &models.AppealAction{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		AppealID:       appealID,
		Status:         status,
		Via:            via,
		CreatedAt:      time.Now().UTC(),
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO appeal_actions (id, organization_id, appeal_id, status, via, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		action.ID, action.OrganizationID, action.AppealID, action.Status, action.Via, action.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert appeal action: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return action, nil
}
