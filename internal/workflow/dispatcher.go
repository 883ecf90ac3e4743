// internal/workflow/dispatcher.go
package workflow

import (
	"context"
	"sync"
	"time"

	apperrors "moderation-workers/internal/common/errors"
	"moderation-workers/internal/common/logger"
	"moderation-workers/internal/common/metrics"
	"moderation-workers/internal/models"
)

// Handler consumes one status-change event and produces one category of
// side effect through a sequence of memoized steps.
type Handler interface {
	Name() string
	Handle(ctx context.Context, exec *Execution, event *models.StatusChangeEvent) error
}

// Alerter surfaces a handler run that exhausted its retries to operators.
type Alerter interface {
	Alert(ctx context.Context, handler string, event *models.StatusChangeEvent, err error)
}

// HandlerResult is the independent outcome of one handler for one event.
type HandlerResult struct {
	Handler  string
	Attempts int
	Err      error
}

// Dispatcher hands one event to every registered handler. Handlers are
// mutually independent: they run concurrently, retry independently, and a
// fatal failure in one never prevents the others from completing.
type Dispatcher struct {
	handlers       []Handler
	stepLog        StepLog
	logger         logger.Logger
	alerter        Alerter
	initialBackoff time.Duration

	// sleep is swappable in tests.
	sleep func(time.Duration)
}

func NewDispatcher(handlers []Handler, stepLog StepLog, lg logger.Logger, alerter Alerter, initialBackoff time.Duration) *Dispatcher {
	return &Dispatcher{
		handlers:       handlers,
		stepLog:        stepLog,
		logger:         lg,
		alerter:        alerter,
		initialBackoff: initialBackoff,
		sleep:          time.Sleep,
	}
}

// Dispatch invokes all handlers for the event and returns each handler's
// own success or failure. It holds no state of its own.
func (d *Dispatcher) Dispatch(ctx context.Context, event *models.StatusChangeEvent) []HandlerResult {
	metrics.EventsDispatched.Inc()

	results := make([]HandlerResult, len(d.handlers))
	var wg sync.WaitGroup

	for i, h := range d.handlers {
		wg.Add(1)
		go func(i int, h Handler) {
			defer wg.Done()
			results[i] = d.runHandler(ctx, h, event)
		}(i, h)
	}

	wg.Wait()
	return results
}

// runHandler drives one handler through its retry budget. Each retry
// re-enters the handler in full; the step log makes completed steps
// no-ops.
func (d *Dispatcher) runHandler(ctx context.Context, h Handler, event *models.StatusChangeEvent) HandlerResult {
	lg := d.logger.WithFields(map[string]interface{}{
		"handler":      h.Name(),
		"userActionId": event.UserActionID,
		"status":       string(event.Status),
	})

	exec := NewExecution(InstanceID(h.Name(), event.UserActionID), d.stepLog, lg)

	start := time.Now()
	attempts := 0
	backoff := d.initialBackoff

	var err error
	for {
		attempts++
		err = h.Handle(ctx, exec, event)
		if err == nil {
			break
		}

		budget := apperrors.BudgetFor(err)
		if attempts > budget {
			break
		}

		lg.Warn("handler run failed, retrying", map[string]interface{}{
			"error":   err.Error(),
			"attempt": attempts,
			"budget":  budget,
			"backoff": backoff.String(),
		})
		d.sleep(backoff)
		backoff *= 2
	}

	metrics.HandlerRunDuration.WithLabelValues(h.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.HandlerRunsFailed.WithLabelValues(h.Name(), apperrors.CodeOf(err)).Inc()
		lg.Error("handler run failed permanently", map[string]interface{}{
			"error":    err.Error(),
			"attempts": attempts,
		})
		if d.alerter != nil {
			d.alerter.Alert(ctx, h.Name(), event, err)
		}
	} else {
		metrics.HandlerRunsCompleted.WithLabelValues(h.Name()).Inc()
		lg.Info("handler run completed", map[string]interface{}{"attempts": attempts})
	}

	return HandlerResult{Handler: h.Name(), Attempts: attempts, Err: err}
}
