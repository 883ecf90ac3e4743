// internal/models/user.go
package models

import "time"

// UserStatus is the closed set of moderation statuses a user can hold.
type UserStatus string

const (
	UserStatusCompliant UserStatus = "Compliant"
	UserStatusSuspended UserStatus = "Suspended"
	UserStatusBanned    UserStatus = "Banned"
)

// Valid reports whether s is one of the enumerated statuses. Anything else
// is a producer contract violation, not a processable input.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusCompliant, UserStatusSuspended, UserStatusBanned:
		return true
	}
	return false
}

// WebhookEventType maps a status to its outbound webhook event type. The
// mapping is a bijection; ok is false for any status outside the set.
func (s UserStatus) WebhookEventType() (string, bool) {
	switch s {
	case UserStatusCompliant:
		return "user.compliant", true
	case UserStatusSuspended:
		return "user.suspended", true
	case UserStatusBanned:
		return "user.banned", true
	}
	return "", false
}

// User is a moderated platform user within one organization.
type User struct {
	ID               string     `json:"id"`
	OrganizationID   string     `json:"organizationId"`
	ClientID         string     `json:"clientId"`
	Email            string     `json:"email"`
	PaymentAccountID *string    `json:"paymentAccountId,omitempty"`
	Status           UserStatus `json:"status"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// HasPaymentAccount reports whether the user has an external payment
// account that can be gated.
func (u *User) HasPaymentAccount() bool {
	return u.PaymentAccountID != nil && *u.PaymentAccountID != ""
}
