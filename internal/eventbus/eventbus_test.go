package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type ping struct{ N int }
type pong struct{}

func TestPublishReachesMatchingHandlersOnly(t *testing.T) {
	b := New()
	var pings []int
	var pongs int

	Subscribe(b, func(_ context.Context, e ping) { pings = append(pings, e.N) })
	Subscribe(b, func(_ context.Context, e pong) { pongs++ })

	Publish(context.Background(), b, ping{N: 1})
	Publish(context.Background(), b, ping{N: 2})

	require.Equal(t, []int{1, 2}, pings)
	require.Zero(t, pongs)
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	var count int
	cancel := Subscribe(b, func(context.Context, ping) { count++ })

	Publish(context.Background(), b, ping{})
	cancel()
	Publish(context.Background(), b, ping{})

	require.Equal(t, 1, count)
}

func TestNilBus(t *testing.T) {
	var b *Bus
	cancel := Subscribe(b, func(context.Context, ping) {})
	cancel()
	Publish(context.Background(), b, ping{}) // must not panic
}
