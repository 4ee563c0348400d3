package notify

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptGuard reserves a dispatch attempt id so a duplicated invocation of
// the dispatcher produces at most one outbound send. Reserve returns false
// when the id was already claimed.
type AttemptGuard interface {
	Reserve(ctx context.Context, attemptID string) (bool, error)
}

type redisAttemptGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisAttemptGuard builds a SETNX-based guard. A nil client yields a
// pass-through guard so the dispatcher works without Redis.
func NewRedisAttemptGuard(client *redis.Client, ttl time.Duration) AttemptGuard {
	if client == nil {
		return noopAttemptGuard{}
	}
	return &redisAttemptGuard{client: client, ttl: ttl}
}

func (g *redisAttemptGuard) Reserve(ctx context.Context, attemptID string) (bool, error) {
	return g.client.SetNX(ctx, "notify:attempt:"+attemptID, 1, g.ttl).Result()
}

type noopAttemptGuard struct{}

func (noopAttemptGuard) Reserve(ctx context.Context, attemptID string) (bool, error) {
	return true, nil
}
