// internal/store/appeals_test.go
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moderation-workers/internal/models"
)

func TestAppealStore_FindOpenByOrgAndUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "user_action_id", "action_status", "created_at"}).
		AddRow("ap-1", "ua-old-1", "Open", time.Now()).
		AddRow("ap-2", "ua-old-2", "Open", time.Now())

	mock.ExpectQuery("SELECT a.id, a.user_action_id, a.action_status, a.created_at").
		WithArgs("org-1", "user-1").
		WillReturnRows(rows)

	appeals, err := NewAppealStore(db).FindOpenByOrgAndUser(context.Background(), "org-1", "user-1")
	require.NoError(t, err)

	require.Len(t, appeals, 2)
	assert.Equal(t, "ap-1", appeals[0].ID)
	assert.Equal(t, models.AppealStatusOpen, appeals[0].ActionStatus)
}

func TestAppealStore_FindOpenByOrgAndUser_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT a.id, a.user_action_id").
		WithArgs("org-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_action_id", "action_status", "created_at"}))

	appeals, err := NewAppealStore(db).FindOpenByOrgAndUser(context.Background(), "org-1", "user-1")
	require.NoError(t, err)
	assert.Empty(t, appeals)
}

func TestAppealStore_CreateAction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE appeals SET action_status").
		WithArgs("Approved", "ap-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO appeal_actions").
		WithArgs(sqlmock.AnyArg(), "org-1", "ap-1", "Approved", "Automation", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	action, err := NewAppealStore(db).CreateAction(context.Background(), "org-1", "ap-1", models.AppealStatusApproved, models.AppealViaAutomation)
	require.NoError(t, err)

	require.NotNil(t, action)
	assert.Equal(t, "ap-1", action.AppealID)
	assert.Equal(t, models.AppealStatusApproved, action.Status)
	assert.Equal(t, models.AppealViaAutomation, action.Via)
	assert.NotEmpty(t, action.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppealStore_CreateAction_AlreadyResolved(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE appeals SET action_status").
		WithArgs("Rejected", "ap-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	action, err := NewAppealStore(db).CreateAction(context.Background(), "org-1", "ap-1", models.AppealStatusRejected, models.AppealViaAutomation)
	require.NoError(t, err)

	// No new action row when the appeal is no longer Open.
	assert.Nil(t, action)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppealStore_CreateAction_InsertFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE appeals SET action_status").
		WithArgs("Approved", "ap-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO appeal_actions").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err = NewAppealStore(db).CreateAction(context.Background(), "org-1", "ap-1", models.AppealStatusApproved, models.AppealViaAutomation)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
