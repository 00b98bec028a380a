package api

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/prepdrill/prepdrill/internal/domain"
)

const maxConcurrent = 16

type (
	Notification struct {
		Event string `json:"event"`
		Data  any    `json:"data"`
	}

	SessionCompleted struct {
		SessionID   string                     `json:"session_id"`
		UserID      string                     `json:"user_id"`
		Role        string                     `json:"role"`
		Performance domain.PerformanceSnapshot `json:"performance"`
	}
)

// PublishSessionCompleted notifies the user channel and the firehose channel
// when a session reaches the completed state.
func (a *API) PublishSessionCompleted(ctx context.Context, e domain.EventSessionCompleted) error {
	ss := e.Session

	data := SessionCompleted{
		SessionID:   ss.SessionID,
		UserID:      ss.UserID,
		Role:        ss.Role,
		Performance: ss.Performance,
	}

	channels := []string{
		fmt.Sprintf("%s:user:%s", a.prefix, ss.UserID),
		fmt.Sprintf("%s:sessions", a.prefix),
	}

	var eg errgroup.Group
	eg.SetLimit(maxConcurrent)

	for _, ch := range channels {
		eg.Go(func() error {
			return a.publishNotification(ctx, ch, e.Name(), data)
		})
	}

	return eg.Wait()
}

func (a *API) publishNotification(ctx context.Context, channel, event string, data any) error {
	n := Notification{
		Event: event,
		Data:  data,
	}

	b, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("pubsub: marshal %s: %v", event, err)
	}

	return a.redis.Publish(ctx, channel, b).Err()
}
