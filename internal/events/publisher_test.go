package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSessionEnded(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	ctx := context.Background()
	sub := rdb.Subscribe(ctx, "session_ended")
	t.Cleanup(func() { sub.Close() })
	_, err = sub.Receive(ctx) // wait for the subscription to be active
	require.NoError(t, err)

	pub := NewRedisPublisher(rdb, "session_ended")
	require.NoError(t, pub.PublishSessionEnded(ctx, SessionEnded{SessionID: "abc123"}))

	select {
	case msg := <-sub.Channel():
		var ev SessionEnded
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		assert.Equal(t, "abc123", ev.SessionID)
		assert.NotEmpty(t, ev.EndedAt)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for session_ended event")
	}
}

func TestPublishBackendError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	mr.Close()

	pub := NewRedisPublisher(rdb, "session_ended")
	assert.Error(t, pub.PublishSessionEnded(context.Background(), SessionEnded{SessionID: "x"}))
}
