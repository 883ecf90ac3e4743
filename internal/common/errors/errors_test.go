// internal/common/errors/errors_test.go
package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryBudget(t *testing.T) {
	tests := []struct {
		code   ErrorCode
		budget int
	}{
		{ErrCodeUserNotFound, 3},
		{ErrCodeSettingsNotFound, 3},
		{ErrCodePaymentProviderError, 3},
		{ErrCodeWebhookDeliveryFailed, 3},
		{ErrCodeEmailSendFailed, 3},
		{ErrCodeStoreQueryFailed, 3},
		{ErrCodeStepLogFailed, 3},
		{ErrCodeWebhookNotConfigured, 1},
		{ErrCodeInvalidStatus, 0},
		{ErrCodePaymentProviderRejected, 0},
		{ErrCodeWebhookRejected, 0},
		{ErrCodeCredentialDecryptFailed, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.budget, RetryBudget(tt.code))
		})
	}
}

func TestBudgetFor_UnclassifiedErrors(t *testing.T) {
	// Plain errors are treated as transient.
	assert.Equal(t, 3, BudgetFor(errors.New("connection reset")))
	assert.Equal(t, "UNCLASSIFIED", CodeOf(errors.New("connection reset")))
}

func TestAsWorkflowError_Wrapped(t *testing.T) {
	inner := NewInvalidStatusError("Bogus")
	wrapped := fmt.Errorf("handler run: %w", inner)

	wfErr, ok := AsWorkflowError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalidStatus, wfErr.Code)
	assert.Equal(t, 0, BudgetFor(wrapped))
	assert.False(t, IsRetryable(wrapped))
}

func TestRetryableFlagMatchesBudget(t *testing.T) {
	retryable := NewWebhookDeliveryFailedError(errors.New("timeout"))
	assert.True(t, retryable.Retryable)
	assert.Greater(t, RetryBudget(retryable.Code), 0)

	fatal := NewPaymentProviderRejectedError(402, "card declined")
	assert.False(t, fatal.Retryable)
	assert.Zero(t, RetryBudget(fatal.Code))

	// The bounded-retry code must be retryable, or BudgetFor would
	// short-circuit past its budget of one.
	bounded := NewWebhookNotConfiguredError("org-1")
	assert.True(t, bounded.Retryable)
	assert.Equal(t, 1, BudgetFor(bounded))
}
