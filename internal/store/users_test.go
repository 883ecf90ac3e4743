// internal/store/users_test.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStore_FindByOrgAndID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "organization_id", "client_id", "email", "payment_account_id", "status", "created_at"}).
		AddRow("user-1", "org-1", "client-1", "user@example.com", "acct_123", "Suspended", created)

	mock.ExpectQuery("SELECT id, organization_id, client_id, email, payment_account_id, status, created_at").
		WithArgs("org-1", "user-1").
		WillReturnRows(rows)

	user, err := NewUserStore(db).FindByOrgAndID(context.Background(), "org-1", "user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "client-1", user.ClientID)
	require.NotNil(t, user.PaymentAccountID)
	assert.Equal(t, "acct_123", *user.PaymentAccountID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_FindByOrgAndID_NullPaymentAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "organization_id", "client_id", "email", "payment_account_id", "status", "created_at"}).
		AddRow("user-1", "org-1", "client-1", "user@example.com", nil, "Compliant", time.Now())

	mock.ExpectQuery("SELECT id, organization_id, client_id, email").
		WithArgs("org-1", "user-1").
		WillReturnRows(rows)

	user, err := NewUserStore(db).FindByOrgAndID(context.Background(), "org-1", "user-1")
	require.NoError(t, err)

	assert.Nil(t, user.PaymentAccountID)
	assert.False(t, user.HasPaymentAccount())
}

func TestUserStore_FindByOrgAndID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, organization_id").
		WithArgs("org-1", "user-missing").
		WillReturnError(sql.ErrNoRows)

	_, err = NewUserStore(db).FindByOrgAndID(context.Background(), "org-1", "user-missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}
