// Package errors provides standardized error handling for workflow handlers.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Error Codes
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Required entities absent. Retryable: the entity may not yet be
	// committed by the event's origin.
	ErrCodeUserNotFound     ErrorCode = "USER_NOT_FOUND"
	ErrCodeSettingsNotFound ErrorCode = "SETTINGS_NOT_FOUND"

	// No webhook endpoint registered for the organization. Terminal
	// configuration failure: it will not appear without operator action.
	ErrCodeWebhookNotConfigured ErrorCode = "WEBHOOK_NOT_CONFIGURED"

	// Event carried a status outside the enumerated set. Producer bug,
	// never retried.
	ErrCodeInvalidStatus ErrorCode = "INVALID_STATUS"

	// Transient downstream failures.
	ErrCodePaymentProviderError  ErrorCode = "PAYMENT_PROVIDER_ERROR"
	ErrCodeWebhookDeliveryFailed ErrorCode = "WEBHOOK_DELIVERY_FAILED"
	ErrCodeEmailSendFailed       ErrorCode = "EMAIL_SEND_FAILED"
	ErrCodeStoreQueryFailed      ErrorCode = "STORE_QUERY_FAILED"
	ErrCodeStepLogFailed         ErrorCode = "STEP_LOG_FAILED"

	// Permanent downstream rejections (4xx, invalid credential).
	ErrCodePaymentProviderRejected ErrorCode = "PAYMENT_PROVIDER_REJECTED"
	ErrCodeWebhookRejected         ErrorCode = "WEBHOOK_REJECTED"

	// Stored payment credential could not be decrypted.
	ErrCodeCredentialDecryptFailed ErrorCode = "CREDENTIAL_DECRYPT_FAILED"
)

// WorkflowError represents a structured handler error.
type WorkflowError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("WorkflowError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewUserNotFoundError creates a retryable missing-user error.
func NewUserNotFoundError(userID string) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeUserNotFound,
		Message:   "User not found",
		Details:   fmt.Sprintf("userId: %s", userID),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSettingsNotFoundError creates a retryable missing-settings error.
func NewSettingsNotFoundError(organizationID string) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeSettingsNotFound,
		Message:   "Organization settings not found",
		Details:   fmt.Sprintf("organizationId: %s", organizationID),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewWebhookNotConfiguredError creates a configuration error with a
// bounded retry budget of one, in case endpoint registration races the
// event.
func NewWebhookNotConfiguredError(organizationID string) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeWebhookNotConfigured,
		Message:   "No webhook configured",
		Details:   fmt.Sprintf("organizationId: %s", organizationID),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidStatusError creates a fatal validation error.
func NewInvalidStatusError(status string) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeInvalidStatus,
		Message:   "Unexpected moderation status",
		Details:   fmt.Sprintf("status: %s", status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPaymentProviderError creates a retryable payment gateway error.
func NewPaymentProviderError(err error) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodePaymentProviderError,
		Message:   "Payment gateway call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPaymentProviderRejectedError creates a non-retryable gateway rejection.
func NewPaymentProviderRejectedError(statusCode int, body string) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodePaymentProviderRejected,
		Message:   "Payment gateway rejected the request",
		Details:   fmt.Sprintf("status: %d, body: %s", statusCode, body),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewWebhookDeliveryFailedError creates a retryable delivery error.
func NewWebhookDeliveryFailedError(err error) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeWebhookDeliveryFailed,
		Message:   "Webhook delivery failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewWebhookRejectedError creates a non-retryable receiver rejection.
func NewWebhookRejectedError(statusCode int, body string) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeWebhookRejected,
		Message:   "Webhook receiver rejected the delivery",
		Details:   fmt.Sprintf("status: %d, body: %s", statusCode, body),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmailSendFailedError creates a retryable email provider error.
func NewEmailSendFailedError(err error) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeEmailSendFailed,
		Message:   "Email delivery failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreQueryFailedError creates a retryable store access error.
func NewStoreQueryFailedError(entity string, err error) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeStoreQueryFailed,
		Message:   "Store query failed",
		Details:   fmt.Sprintf("entity: %s, error: %s", entity, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStepLogFailedError creates a retryable step log access error.
func NewStepLogFailedError(step string, err error) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeStepLogFailed,
		Message:   "Step log access failed",
		Details:   fmt.Sprintf("step: %s, error: %s", step, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCredentialDecryptFailedError creates a non-retryable decryption error.
func NewCredentialDecryptFailedError(err error) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeCredentialDecryptFailed,
		Message:   "Stored credential could not be decrypted",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Retry Policy
// ==========================

// RetryBudget returns how many additional attempts a handler run failing
// with this code is granted by the dispatcher.
func RetryBudget(code ErrorCode) int {
	switch code {
	case ErrCodeUserNotFound,
		ErrCodeSettingsNotFound,
		ErrCodePaymentProviderError,
		ErrCodeWebhookDeliveryFailed,
		ErrCodeEmailSendFailed,
		ErrCodeStoreQueryFailed,
		ErrCodeStepLogFailed:
		return 3

	case ErrCodeWebhookNotConfigured:
		// Bounded single retry: configuration will not appear without an
		// operator, but the registration may race the event.
		return 1

	default:
		return 0
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// AsWorkflowError unwraps err to a *WorkflowError if one is in its chain.
func AsWorkflowError(err error) (*WorkflowError, bool) {
	var wfErr *WorkflowError
	if errors.As(err, &wfErr) {
		return wfErr, true
	}
	return nil, false
}

// IsRetryable reports whether err allows another attempt. Unclassified
// errors are treated as transient.
func IsRetryable(err error) bool {
	if wfErr, ok := AsWorkflowError(err); ok {
		return wfErr.Retryable
	}
	return true
}

// BudgetFor returns the retry budget for err. Unclassified errors get the
// default transient budget.
func BudgetFor(err error) int {
	if wfErr, ok := AsWorkflowError(err); ok {
		if !wfErr.Retryable {
			return 0
		}
		return RetryBudget(wfErr.Code)
	}
	return 3
}

// CodeOf returns the error code of err, or "UNCLASSIFIED" for plain errors.
func CodeOf(err error) string {
	if wfErr, ok := AsWorkflowError(err); ok {
		return string(wfErr.Code)
	}
	return "UNCLASSIFIED"
}
