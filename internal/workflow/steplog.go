// internal/workflow/steplog.go
package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// StepLog durably records completed step results keyed by
// (instanceID, stepName). Only successful results are recorded; a step
// that failed or never ran has no entry and is re-attempted on replay.
type StepLog interface {
	Get(ctx context.Context, instanceID, step string) ([]byte, bool, error)
	Put(ctx context.Context, instanceID, step string, result []byte) error
}

// RedisStepLog stores step results in a per-instance hash with a TTL.
type RedisStepLog struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStepLog(client *redis.Client, ttl time.Duration) *RedisStepLog {
	return &RedisStepLog{client: client, ttl: ttl}
}

func (l *RedisStepLog) key(instanceID string) string {
	return "steplog:" + instanceID
}

func (l *RedisStepLog) Get(ctx context.Context, instanceID, step string) ([]byte, bool, error) {
	val, err := l.client.HGet(ctx, l.key(instanceID), step).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (l *RedisStepLog) Put(ctx context.Context, instanceID, step string, result []byte) error {
	key := l.key(instanceID)
	if err := l.client.HSet(ctx, key, step, result).Err(); err != nil {
		return err
	}
	return l.client.Expire(ctx, key, l.ttl).Err()
}

// MemoryStepLog keeps step results in process memory. Suitable for tests
// and for deployments that tolerate duplicate side effects after a crash.
type MemoryStepLog struct {
	mu      sync.RWMutex
	results map[string]map[string][]byte
}

func NewMemoryStepLog() *MemoryStepLog {
	return &MemoryStepLog{results: make(map[string]map[string][]byte)}
}

func (l *MemoryStepLog) Get(_ context.Context, instanceID, step string) ([]byte, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	steps, ok := l.results[instanceID]
	if !ok {
		return nil, false, nil
	}
	val, ok := steps[step]
	return val, ok, nil
}

func (l *MemoryStepLog) Put(_ context.Context, instanceID, step string, result []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	steps, ok := l.results[instanceID]
	if !ok {
		steps = make(map[string][]byte)
		l.results[instanceID] = steps
	}
	steps[step] = result
	return nil
}
