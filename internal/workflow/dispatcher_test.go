// internal/workflow/dispatcher_test.go
package workflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "moderation-workers/internal/common/errors"
	"moderation-workers/internal/common/logger"
	"moderation-workers/internal/models"
)

type fakeHandler struct {
	name   string
	handle func(ctx context.Context, exec *Execution, event *models.StatusChangeEvent) error
}

func (f *fakeHandler) Name() string { return f.name }

func (f *fakeHandler) Handle(ctx context.Context, exec *Execution, event *models.StatusChangeEvent) error {
	return f.handle(ctx, exec, event)
}

type recordingAlerter struct {
	mu     sync.Mutex
	alerts []string
}

func (a *recordingAlerter) Alert(_ context.Context, handler string, _ *models.StatusChangeEvent, _ error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, handler)
}

type logEntry struct {
	msg    string
	fields map[string]interface{}
}

// recordingLogger accumulates WithFields context the way the zap adapter
// does, so tests can assert which fields reach a log call.
type recordingLogger struct {
	mu      *sync.Mutex
	fields  map[string]interface{}
	entries *[]logEntry
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{mu: &sync.Mutex{}, entries: &[]logEntry{}}
}

func (l *recordingLogger) record(msg string, fields map[string]interface{}) {
	merged := map[string]interface{}{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, logEntry{msg: msg, fields: merged})
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) { l.record(msg, fields) }
func (l *recordingLogger) Info(msg string, fields map[string]interface{})  { l.record(msg, fields) }
func (l *recordingLogger) Warn(msg string, fields map[string]interface{})  { l.record(msg, fields) }
func (l *recordingLogger) Error(msg string, fields map[string]interface{}) { l.record(msg, fields) }

func (l *recordingLogger) WithFields(fields map[string]interface{}) logger.Logger {
	merged := map[string]interface{}{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &recordingLogger{mu: l.mu, fields: merged, entries: l.entries}
}

func (l *recordingLogger) WithError(err error) logger.Logger {
	return l.WithFields(map[string]interface{}{"error": err.Error()})
}

func (l *recordingLogger) find(msg string) (logEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range *l.entries {
		if e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

func newTestDispatcher(handlers []Handler, alerter Alerter) *Dispatcher {
	d := NewDispatcher(handlers, NewMemoryStepLog(), logger.NewNoOpLogger(), alerter, time.Millisecond)
	d.sleep = func(time.Duration) {}
	return d
}

func testEvent() *models.StatusChangeEvent {
	return &models.StatusChangeEvent{
		OrganizationID: "org-1",
		UserActionID:   "ua-1",
		UserID:         "user-1",
		Status:         models.UserStatusSuspended,
		PreviousStatus: models.UserStatusCompliant,
	}
}

func TestDispatcher_HandlersRunIndependently(t *testing.T) {
	var okRuns int
	handlers := []Handler{
		&fakeHandler{name: "failing", handle: func(context.Context, *Execution, *models.StatusChangeEvent) error {
			return apperrors.NewInvalidStatusError("Bogus")
		}},
		&fakeHandler{name: "succeeding", handle: func(context.Context, *Execution, *models.StatusChangeEvent) error {
			okRuns++
			return nil
		}},
	}

	results := newTestDispatcher(handlers, nil).Dispatch(context.Background(), testEvent())

	require.Len(t, results, 2)
	byName := map[string]HandlerResult{}
	for _, r := range results {
		byName[r.Handler] = r
	}

	assert.Error(t, byName["failing"].Err)
	assert.NoError(t, byName["succeeding"].Err)
	assert.Equal(t, 1, okRuns)
}

func TestDispatcher_RetryBudgets(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantAttempts int
	}{
		{
			name:         "transient errors retry up to the budget",
			err:          apperrors.NewUserNotFoundError("user-1"),
			wantAttempts: 4, // initial attempt + budget of 3
		},
		{
			name:         "missing webhook config gets one retry",
			err:          apperrors.NewWebhookNotConfiguredError("org-1"),
			wantAttempts: 2,
		},
		{
			name:         "invalid status never retries",
			err:          apperrors.NewInvalidStatusError("Bogus"),
			wantAttempts: 1,
		},
		{
			name:         "provider rejection never retries",
			err:          apperrors.NewPaymentProviderRejectedError(402, "insufficient funds"),
			wantAttempts: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			h := &fakeHandler{name: "h", handle: func(context.Context, *Execution, *models.StatusChangeEvent) error {
				attempts++
				return tt.err
			}}

			results := newTestDispatcher([]Handler{h}, nil).Dispatch(context.Background(), testEvent())

			require.Len(t, results, 1)
			assert.Error(t, results[0].Err)
			assert.Equal(t, tt.wantAttempts, attempts)
			assert.Equal(t, tt.wantAttempts, results[0].Attempts)
		})
	}
}

func TestDispatcher_RetrySucceedsWithinBudget(t *testing.T) {
	attempts := 0
	h := &fakeHandler{name: "h", handle: func(context.Context, *Execution, *models.StatusChangeEvent) error {
		attempts++
		if attempts < 3 {
			return apperrors.NewWebhookDeliveryFailedError(context.DeadlineExceeded)
		}
		return nil
	}}

	results := newTestDispatcher([]Handler{h}, nil).Dispatch(context.Background(), testEvent())

	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, 3, results[0].Attempts)
}

func TestDispatcher_AlertsOnPermanentFailure(t *testing.T) {
	alerter := &recordingAlerter{}
	handlers := []Handler{
		&fakeHandler{name: "doomed", handle: func(context.Context, *Execution, *models.StatusChangeEvent) error {
			return apperrors.NewInvalidStatusError("Bogus")
		}},
		&fakeHandler{name: "fine", handle: func(context.Context, *Execution, *models.StatusChangeEvent) error {
			return nil
		}},
	}

	newTestDispatcher(handlers, alerter).Dispatch(context.Background(), testEvent())

	assert.Equal(t, []string{"doomed"}, alerter.alerts)
}

func TestDispatcher_StepsSurviveRedelivery(t *testing.T) {
	sideEffects := 0
	h := &fakeHandler{name: "effectful", handle: func(ctx context.Context, exec *Execution, event *models.StatusChangeEvent) error {
		_, err := RunStep(ctx, exec, "side-effect", func(context.Context) (bool, error) {
			sideEffects++
			return true, nil
		})
		return err
	}}

	d := newTestDispatcher([]Handler{h}, nil)
	event := testEvent()

	// The same event delivered twice must not repeat the side effect.
	d.Dispatch(context.Background(), event)
	d.Dispatch(context.Background(), event)

	assert.Equal(t, 1, sideEffects)
}

func TestDispatcher_StepLogsCarryHandlerContext(t *testing.T) {
	lg := newRecordingLogger()
	h := &fakeHandler{name: "effectful", handle: func(ctx context.Context, exec *Execution, event *models.StatusChangeEvent) error {
		_, err := RunStep(ctx, exec, "side-effect", func(context.Context) (bool, error) {
			return true, nil
		})
		return err
	}}

	d := NewDispatcher([]Handler{h}, NewMemoryStepLog(), lg, nil, time.Millisecond)
	d.sleep = func(time.Duration) {}
	event := testEvent()

	d.Dispatch(context.Background(), event)
	d.Dispatch(context.Background(), event) // replays the recorded step

	entry, ok := lg.find("step replayed from log")
	require.True(t, ok)
	assert.Equal(t, "effectful", entry.fields["handler"])
	assert.Equal(t, event.UserActionID, entry.fields["userActionId"])
	assert.Equal(t, "side-effect", entry.fields["step"])
}
