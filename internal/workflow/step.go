// internal/workflow/step.go
package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "moderation-workers/internal/common/errors"
	"moderation-workers/internal/common/logger"
	"moderation-workers/internal/common/metrics"
)

// Execution is the scope of one handler run for one workflow instance.
// Steps executed through it are memoized by (InstanceID, step name):
// replays of the same instance return the recorded result without
// re-invoking the work function.
type Execution struct {
	InstanceID string
	log        StepLog
	logger     logger.Logger
}

func NewExecution(instanceID string, log StepLog, lg logger.Logger) *Execution {
	return &Execution{
		InstanceID: instanceID,
		log:        log,
		logger:     lg.WithFields(map[string]interface{}{"instanceId": instanceID}),
	}
}

// InstanceID derives the memoization scope for one handler's run over one
// transition event.
func InstanceID(handler, userActionID string) string {
	return fmt.Sprintf("%s/%s", handler, userActionID)
}

// RunStep executes fn at most once per execution instance. On first
// invocation the result is recorded in the step log; replays return the
// recorded result. A step whose fn returns an error is not recorded and
// will be re-attempted. The step's idempotency key is deterministic, so
// providers that honor idempotency keys can dedupe the crash window
// between the side effect and its record.
func RunStep[T any](ctx context.Context, exec *Execution, name string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	raw, found, err := exec.log.Get(ctx, exec.InstanceID, name)
	if err != nil {
		return zero, apperrors.NewStepLogFailedError(name, err)
	}
	if found {
		var recorded T
		if err := json.Unmarshal(raw, &recorded); err != nil {
			return zero, apperrors.NewStepLogFailedError(name, err)
		}
		metrics.StepsMemoized.WithLabelValues(name).Inc()
		exec.logger.Debug("step replayed from log", map[string]interface{}{"step": name})
		return recorded, nil
	}

	result, err := fn(ctx)
	if err != nil {
		return zero, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return zero, apperrors.NewStepLogFailedError(name, err)
	}
	if err := exec.log.Put(ctx, exec.InstanceID, name, data); err != nil {
		return zero, apperrors.NewStepLogFailedError(name, err)
	}

	exec.logger.Debug("step completed", map[string]interface{}{"step": name})
	return result, nil
}

// IdempotencyKey returns the deterministic key for a step's external side
// effect within this execution.
func (e *Execution) IdempotencyKey(step string) string {
	return e.InstanceID + "#" + step
}
