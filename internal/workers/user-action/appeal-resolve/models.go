package appealresolve

import (
	"context"

	"moderation-workers/internal/common/logger"
	"moderation-workers/internal/models"
)

type resolveResult struct {
	AppealID string              `json:"appealId"`
	Status   models.AppealStatus `json:"status"`
	ActionID string              `json:"actionId,omitempty"`
}

type AppealStore interface {
	FindOpenByOrgAndUser(ctx context.Context, organizationID, userID string) ([]models.Appeal, error)
	CreateAction(ctx context.Context, organizationID, appealID string, status models.AppealStatus, via models.AppealVia) (*models.AppealAction, error)
}

type Dependencies struct {
	Appeals AppealStore
	Logger  logger.Logger
}
