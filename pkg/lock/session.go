package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// leaseTTL bounds how long an in-flight lease can linger if a process dies
// mid-generation without releasing it.
const leaseTTL = 2 * time.Minute

// SessionLock is a Redis-backed lease ensuring at most one generation attempt
// is in flight per user. A second concurrent attempt is rejected, not queued.
type SessionLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionLock(addr, password string, db int) *SessionLock {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &SessionLock{client: rdb, ttl: leaseTTL}
}

func leaseKey(userID uuid.UUID) string {
	return fmt.Sprintf("threadflow:generation:inflight:%s", userID.String())
}

// Acquire takes the per-user lease. Returns false when a generation is
// already in flight for this user.
func (l *SessionLock) Acquire(ctx context.Context, userID uuid.UUID) (bool, error) {
	ok, err := l.client.SetNX(ctx, leaseKey(userID), 1, l.ttl).Result()
	if err != nil {
		log.Errorf("Failed to acquire generation lease for user %s: %v", userID.String(), err)
		return false, err
	}
	return ok, nil
}

// Release drops the lease once the attempt reaches a terminal state.
func (l *SessionLock) Release(ctx context.Context, userID uuid.UUID) {
	if err := l.client.Del(ctx, leaseKey(userID)).Err(); err != nil {
		log.Warnf("Failed to release generation lease for user %s: %v", userID.String(), err)
	}
}

// Close shuts down the Redis connection.
func (l *SessionLock) Close() error {
	return l.client.Close()
}

// Ping verifies the Redis connection at startup.
func (l *SessionLock) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
