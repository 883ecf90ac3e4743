// internal/models/event.go
package models

// StatusChangeEvent describes one moderation-status transition for a user.
// It is immutable once dispatched; UserActionID identifies exactly one
// transition instance and keys all step memoization for it. Delivery is
// at-least-once with no ordering guarantee.
type StatusChangeEvent struct {
	OrganizationID string     `json:"organizationId"`
	UserActionID   string     `json:"userActionId"`
	UserID         string     `json:"userId"`
	Status         UserStatus `json:"status"`
	PreviousStatus UserStatus `json:"previousStatus,omitempty"`
}
