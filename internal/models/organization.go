// internal/models/organization.go
package models

import "time"

// OrganizationSettings is the per-tenant configuration row. It is created
// lazily on first access (find-or-create), never duplicated.
type OrganizationSettings struct {
	OrganizationID string    `json:"organizationId"`
	PaymentAPIKey  *string   `json:"paymentApiKey,omitempty"` // encrypted at rest
	EmailsEnabled  bool      `json:"emailsEnabled"`
	AppealsEnabled bool      `json:"appealsEnabled"`
	CreatedAt      time.Time `json:"createdAt"`
}

// HasPaymentCredential reports whether an encrypted payment API key is
// stored for the organization.
func (s *OrganizationSettings) HasPaymentCredential() bool {
	return s.PaymentAPIKey != nil && *s.PaymentAPIKey != ""
}
