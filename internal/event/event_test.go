package event_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prepdrill/prepdrill/internal/event"
)

func TestBus_PublishSubscribe(t *testing.T) {
	type (
		inputs struct {
			published   []event.Event
			subscribers []subscriber
		}

		outputs struct {
			received map[string][]event.Event
		}
	)

	tests := map[string]struct {
		arrange func() inputs
		assert  func(t *testing.T, out outputs)
	}{
		"a subscriber should only receive events it subscribed to": {
			arrange: func() inputs {
				return inputs{
					published: []event.Event{
						eventWithName("answer.scored"),
						eventWithName("session.completed"),
					},
					subscribers: []subscriber{
						{
							name:        "s1",
							subscribeTo: []string{"answer.scored"},
						},
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				assert.ElementsMatch(t, []event.Event{eventWithName("answer.scored")}, out.received["s1"])
			},
		},

		"repeated events should all be delivered": {
			arrange: func() inputs {
				return inputs{
					published: []event.Event{
						eventWithName("answer.scored"),
						eventWithName("answer.scored"),
						eventWithName("answer.scored"),
					},
					subscribers: []subscriber{
						{
							name:        "s1",
							subscribeTo: []string{"answer.scored"},
						},
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				assert.Len(t, out.received["s1"], 3)
			},
		},

		"an event should fan out to every subscriber": {
			arrange: func() inputs {
				return inputs{
					published: []event.Event{
						eventWithName("session.completed"),
					},
					subscribers: []subscriber{
						{
							name:        "s1",
							subscribeTo: []string{"session.completed"},
						},
						{
							name:        "s2",
							subscribeTo: []string{"session.completed", "answer.scored"},
						},
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				assert.ElementsMatch(t, []event.Event{eventWithName("session.completed")}, out.received["s1"])
				assert.ElementsMatch(t, []event.Event{eventWithName("session.completed")}, out.received["s2"])
			},
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			in := tt.arrange()
			mu := sync.Mutex{}
			out := outputs{received: make(map[string][]event.Event)}

			b := event.NewBus()
			for _, s := range in.subscribers {
				for _, e := range s.subscribeTo {
					b.Subscribe(e, func(ctx context.Context, e event.Event) error {
						mu.Lock()
						out.received[s.name] = append(out.received[s.name], e)
						mu.Unlock()
						return nil
					})
				}
			}

			for _, e := range in.published {
				b.Publish(context.Background(), e)
			}
			b.Stop()

			tt.assert(t, out)
		})
	}
}

func TestBus_HandlerPanicIsIsolated(t *testing.T) {
	b := event.NewBus(event.WithPoolSize(2))

	var (
		mu        sync.Mutex
		delivered int
	)
	b.Subscribe("answer.scored", func(ctx context.Context, e event.Event) error {
		panic("boom")
	})
	b.Subscribe("answer.scored", func(ctx context.Context, e event.Event) error {
		mu.Lock()
		delivered++
		mu.Unlock()
		return nil
	})

	b.Publish(context.Background(), eventWithName("answer.scored"))
	b.Stop()

	assert.Equal(t, 1, delivered, "a panicking handler must not block other handlers")
}

type eventWithName string

func (e eventWithName) Name() string {
	return string(e)
}

type subscriber struct {
	name        string
	subscribeTo []string
}
