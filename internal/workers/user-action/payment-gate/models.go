package paymentgate

import (
	"context"

	"moderation-workers/internal/common/logger"
	"moderation-workers/internal/models"
)

// GateAction records what the payment-gate step did, so replays can show
// the decision without re-calling the gateway.
type GateAction string

const (
	GateActionPaused  GateAction = "paused"
	GateActionResumed GateAction = "resumed"
	GateActionSkipped GateAction = "skipped"
	GateActionNone    GateAction = "none"
)

type gateResult struct {
	Action GateAction `json:"action"`
}

// Narrow store/provider interfaces, declared here for mocking.

type UserStore interface {
	FindByOrgAndID(ctx context.Context, organizationID, userID string) (*models.User, error)
}

type SettingsStore interface {
	FindByOrg(ctx context.Context, organizationID string) (*models.OrganizationSettings, error)
}

type PaymentGateway interface {
	PausePaymentsAndPayouts(ctx context.Context, apiKey, accountID, idempotencyKey string) error
	ResumePaymentsAndPayouts(ctx context.Context, apiKey, accountID, idempotencyKey string) error
}

type Decryptor interface {
	Decrypt(ciphertext string) (string, error)
}

type Dependencies struct {
	Users    UserStore
	Settings SettingsStore
	Gateway  PaymentGateway
	Secrets  Decryptor
	Logger   logger.Logger
}
