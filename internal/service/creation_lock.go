package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dinobux/storebot/internal/lock"
	apperrors "github.com/dinobux/storebot/pkg/util/errorutil"
)

// CreationLocker serializes ticket creation per customer so the
// find-open check and channel provisioning run as one critical section.
type CreationLocker interface {
	// Acquire returns a release func, or a CONFLICT error when another
	// open request for the same customer is in flight.
	Acquire(ctx context.Context, customerID string) (func(), error)
}

const creationLockTTL = 30 * time.Second

// RedisCreationLock guards creation across bot replicas with SETNX.
// The TTL bounds lock leakage if a replica dies mid-creation.
type RedisCreationLock struct {
	client *redis.Client
}

// NewRedisCreationLock constructs the lock.
func NewRedisCreationLock(client *redis.Client) *RedisCreationLock {
	return &RedisCreationLock{client: client}
}

// Acquire implements CreationLocker.
func (l *RedisCreationLock) Acquire(ctx context.Context, customerID string) (func(), error) {
	key := "storebot:ticket-open:" + customerID
	ok, err := l.client.SetNX(ctx, key, "1", creationLockTTL).Result()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !ok {
		return nil, apperrors.NewConflict("a ticket is already being opened for this customer", nil)
	}
	return func() {
		l.client.Del(context.Background(), key)
	}, nil
}

// MemoryCreationLock is the single-process fallback; it blocks instead
// of failing, which is the behavior tests exercise.
type MemoryCreationLock struct {
	mu *lock.KeyedMutex
}

// NewMemoryCreationLock constructs the lock.
func NewMemoryCreationLock() *MemoryCreationLock {
	return &MemoryCreationLock{mu: lock.NewKeyedMutex()}
}

// Acquire implements CreationLocker.
func (l *MemoryCreationLock) Acquire(_ context.Context, customerID string) (func(), error) {
	return l.mu.Lock(customerID), nil
}
