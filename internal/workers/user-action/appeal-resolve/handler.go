package appealresolve

import (
	"context"

	apperrors "moderation-workers/internal/common/errors"
	"moderation-workers/internal/common/logger"
	"moderation-workers/internal/models"
	"moderation-workers/internal/workflow"
)

const TaskType = "user-action.appeal-resolve"

// Handler auto-resolves a user's open appeals when their moderation
// status settles: a return to compliance approves them, a ban rejects
// them. Suspension never touches appeals.
type Handler struct {
	config  *Config
	appeals AppealStore
	logger  logger.Logger
}

func NewHandler(deps Dependencies, config *Config) *Handler {
	return &Handler{
		config:  config,
		appeals: deps.Appeals,
		logger:  deps.Logger.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Name() string { return TaskType }

func (h *Handler) Handle(ctx context.Context, exec *workflow.Execution, event *models.StatusChangeEvent) error {
	if event.Status == models.UserStatusSuspended {
		return nil
	}

	var target models.AppealStatus
	switch event.Status {
	case models.UserStatusCompliant:
		target = models.AppealStatusApproved
	case models.UserStatusBanned:
		target = models.AppealStatusRejected
	default:
		return apperrors.NewInvalidStatusError(string(event.Status))
	}

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	appeals, err := workflow.RunStep(ctx, exec, "fetch-open-appeals", func(ctx context.Context) ([]models.Appeal, error) {
		result, err := h.appeals.FindOpenByOrgAndUser(ctx, event.OrganizationID, event.UserID)
		if err != nil {
			return nil, apperrors.NewStoreQueryFailedError("appeals", err)
		}
		return result, nil
	})
	if err != nil {
		return err
	}

	// Each appeal resolves in its own memoized step, so a failure partway
	// through leaves earlier appeals resolved and only retries the rest.
	for _, appeal := range appeals {
		appeal := appeal
		_, err := workflow.RunStep(ctx, exec, "resolve-appeal/"+appeal.ID, func(ctx context.Context) (*resolveResult, error) {
			action, err := h.appeals.CreateAction(ctx, event.OrganizationID, appeal.ID, target, models.AppealViaAutomation)
			if err != nil {
				return nil, apperrors.NewStoreQueryFailedError("appeal_actions", err)
			}
			result := &resolveResult{AppealID: appeal.ID, Status: target}
			if action != nil {
				result.ActionID = action.ID
			}
			return result, nil
		})
		if err != nil {
			return err
		}
	}

	if len(appeals) > 0 {
		h.logger.Info("open appeals resolved", map[string]interface{}{
			"userActionId": event.UserActionID,
			"count":        len(appeals),
			"status":       string(target),
		})
	}
	return nil
}
