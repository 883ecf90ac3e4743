// internal/models/webhook.go
package models

import "time"

// WebhookEndpoint is an organization's registered webhook receiver. The
// notification handler uses the first endpoint found for the organization;
// absence is a hard failure for that handler run.
type WebhookEndpoint struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	URL            string    `json:"url"`
	Secret         string    `json:"secret"`
	CreatedAt      time.Time `json:"createdAt"`
}
