package question

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// HistoryStore tracks which questions have already been served to a user, so
// the selector never repeats a question until the user's pool has cycled.
// Lifecycle is explicit: entries appear on Record and disappear on Clear (the
// exhaustion reset). The read-filter-write pattern over this store is
// last-write-wins under concurrent selection for the same user.
type HistoryStore interface {
	// Served returns the set of question texts already served to the user.
	Served(ctx context.Context, userID string) (map[string]bool, error)
	// Record marks questions as served to the user.
	Record(ctx context.Context, userID string, questions []string) error
	// Clear forgets the user's history.
	Clear(ctx context.Context, userID string) error
}

// RedisHistory is a HistoryStore backed by one redis set per user.
type RedisHistory struct {
	rc     redis.UniversalClient
	prefix string
}

func NewRedisHistory(rc redis.UniversalClient, prefix string) *RedisHistory {
	return &RedisHistory{rc: rc, prefix: prefix}
}

func (h *RedisHistory) Served(ctx context.Context, userID string) (map[string]bool, error) {
	members, err := h.rc.SMembers(ctx, h.key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("history: read %s: %w", userID, err)
	}

	served := make(map[string]bool, len(members))
	for _, m := range members {
		served[m] = true
	}
	return served, nil
}

func (h *RedisHistory) Record(ctx context.Context, userID string, questions []string) error {
	if len(questions) == 0 {
		return nil
	}

	members := make([]any, 0, len(questions))
	for _, q := range questions {
		members = append(members, q)
	}

	if err := h.rc.SAdd(ctx, h.key(userID), members...).Err(); err != nil {
		return fmt.Errorf("history: record %s: %w", userID, err)
	}
	return nil
}

func (h *RedisHistory) Clear(ctx context.Context, userID string) error {
	if err := h.rc.Del(ctx, h.key(userID)).Err(); err != nil {
		return fmt.Errorf("history: clear %s: %w", userID, err)
	}
	return nil
}

func (h *RedisHistory) key(userID string) string {
	return fmt.Sprintf("%s:history:%s", h.prefix, userID)
}
