// internal/store/settings_test.go
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

func settingsRows(paymentKey interface{}, emails, appeals bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"organization_id", "payment_api_key", "emails_enabled", "appeals_enabled", "created_at"}).
		AddRow("org-1", paymentKey, emails, appeals, time.Now())
}

func TestOrganizationSettingsStore_FindByOrg(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT organization_id, payment_api_key, emails_enabled, appeals_enabled").
		WithArgs("org-1").
		WillReturnRows(settingsRows("enc:sk_live", true, true))

	settings, err := NewOrganizationSettingsStore(db).FindByOrg(context.Background(), "org-1")
	require.NoError(t, err)

	assert.True(t, settings.HasPaymentCredential())
	assert.True(t, settings.EmailsEnabled)
	assert.True(t, settings.AppealsEnabled)
}

func TestOrganizationSettingsStore_FindByOrg_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT organization_id, payment_api_key").
		WithArgs("org-missing").
		WillReturnError(sql.ErrNoRows)

	_, err = NewOrganizationSettingsStore(db).FindByOrg(context.Background(), "org-missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestOrganizationSettingsStore_FindOrCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// The upsert always returns the row, whether fresh or pre-existing.
	mock.ExpectQuery("INSERT INTO organization_settings").
		WithArgs("org-1").
		WillReturnRows(settingsRows(nil, true, false))

	settings, err := NewOrganizationSettingsStore(db).FindOrCreate(context.Background(), "org-1")
	require.NoError(t, err)

	assert.Equal(t, "org-1", settings.OrganizationID)
	assert.False(t, settings.HasPaymentCredential())
	assert.True(t, settings.EmailsEnabled)
	assert.False(t, settings.AppealsEnabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
