// internal/models/appeal.go
package models

import "time"

// AppealStatus is the lifecycle state of an appeal.
type AppealStatus string

const (
	AppealStatusOpen     AppealStatus = "Open"
	AppealStatusApproved AppealStatus = "Approved"
	AppealStatusRejected AppealStatus = "Rejected"
)

// AppealVia tags the origin of an appeal-status transition.
type AppealVia string

const (
	AppealViaAutomation AppealVia = "Automation"
	AppealViaManual     AppealVia = "Manual"
)

// Appeal is a user-initiated request to reverse a moderation action.
// Appeals are created elsewhere; this engine only transitions Open appeals
// to Approved or Rejected.
type Appeal struct {
	ID           string       `json:"id"`
	UserActionID string       `json:"userActionId"`
	ActionStatus AppealStatus `json:"actionStatus"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// AppealAction is an append-only audit record of one appeal-status
// transition.
type AppealAction struct {
	ID             string       `json:"id"`
	OrganizationID string       `json:"organizationId"`
	AppealID       string       `json:"appealId"`
	Status         AppealStatus `json:"status"`
	Via            AppealVia    `json:"via"`
	CreatedAt      time.Time    `json:"createdAt"`
}
