// internal/models/message.go
package models

import "time"

// MessageType distinguishes message direction. This engine only writes
// outbound notifications.
type MessageType string

const MessageTypeOutbound MessageType = "Outbound"

// Message is an append-only record of a notification, written before the
// email itself is sent.
type Message struct {
	ID             string      `json:"id"`
	OrganizationID string      `json:"organizationId"`
	UserActionID   string      `json:"userActionId"`
	Type           MessageType `json:"type"`
	ToID           string      `json:"toId"`
	Subject        string      `json:"subject"`
	Text           string      `json:"text"`
	CreatedAt      time.Time   `json:"createdAt"`
}
