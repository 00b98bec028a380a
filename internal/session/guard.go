package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// VoiceGuard serializes voice transcription per session. Acquire must be
// atomic: concurrent acquirers for the same session see exactly one success.
type VoiceGuard interface {
	Acquire(ctx context.Context, sessionID string) (bool, error)
	Release(ctx context.Context, sessionID string) error
}

// RedisGuard implements VoiceGuard with SET NX and a TTL safety net, so a
// crashed holder cannot wedge a session permanently.
type RedisGuard struct {
	rc     redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisGuard(rc redis.UniversalClient, prefix string, ttl time.Duration) *RedisGuard {
	return &RedisGuard{rc: rc, prefix: prefix, ttl: ttl}
}

func (g *RedisGuard) Acquire(ctx context.Context, sessionID string) (bool, error) {
	ok, err := g.rc.SetNX(ctx, g.key(sessionID), 1, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("voice guard: acquire %s: %w", sessionID, err)
	}
	return ok, nil
}

func (g *RedisGuard) Release(ctx context.Context, sessionID string) error {
	if err := g.rc.Del(ctx, g.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("voice guard: release %s: %w", sessionID, err)
	}
	return nil
}

func (g *RedisGuard) key(sessionID string) string {
	return fmt.Sprintf("%s:voice:%s", g.prefix, sessionID)
}
