package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionEnded is published when the last participant leaves a session and
// its room is garbage-collected.
type SessionEnded struct {
	SessionID string `json:"sessionId"`
	EndedAt   string `json:"endedAt"`
}

// Publisher emits session lifecycle events for downstream services.
type Publisher interface {
	PublishSessionEnded(ctx context.Context, ev SessionEnded) error
}

type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel}
}

func (p *RedisPublisher) PublishSessionEnded(ctx context.Context, ev SessionEnded) error {
	if ev.EndedAt == "" {
		ev.EndedAt = time.Now().UTC().Format(time.RFC3339)
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal session_ended: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish session_ended: %w", err)
	}
	return nil
}
