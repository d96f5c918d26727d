package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Revoker tracks a per-user epoch. Tokens carry the epoch current at issue
// time; bumping it invalidates every token issued before.
type Revoker interface {
	Epoch(ctx context.Context, userID uuid.UUID) (int64, error)
	// RevokeAll bumps the epoch and returns the new value.
	RevokeAll(ctx context.Context, userID uuid.UUID) (int64, error)
}

// MemoryRevoker keeps epochs in process memory.
type MemoryRevoker struct {
	mu     sync.RWMutex
	epochs map[uuid.UUID]int64
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{epochs: make(map[uuid.UUID]int64)}
}

func (m *MemoryRevoker) Epoch(ctx context.Context, userID uuid.UUID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.epochs[userID], nil
}

func (m *MemoryRevoker) RevokeAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.epochs[userID]++
	return m.epochs[userID], nil
}

const epochKeyPrefix = "session:epoch:"

// RedisRevoker keeps epochs in Redis so that every instance sees a revocation.
type RedisRevoker struct {
	client redis.Cmdable
}

func NewRedisRevoker(client redis.Cmdable) *RedisRevoker {
	return &RedisRevoker{client: client}
}

func (r *RedisRevoker) Epoch(ctx context.Context, userID uuid.UUID) (int64, error) {
	epoch, err := r.client.Get(ctx, epochKeyPrefix+userID.String()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read session epoch: %w", err)
	}
	return epoch, nil
}

func (r *RedisRevoker) RevokeAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	epoch, err := r.client.Incr(ctx, epochKeyPrefix+userID.String()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to bump session epoch: %w", err)
	}
	return epoch, nil
}
