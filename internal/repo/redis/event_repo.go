package redis

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
)

const defaultEventChannelPrefix = "matchdeck:events:"

// EventBus fans engine events out over Redis pub/sub, one channel per user.
type EventBus struct {
	client *goredis.Client
	prefix string
}

func NewEventBus(client *goredis.Client, prefix string) *EventBus {
	if strings.TrimSpace(prefix) == "" {
		prefix = defaultEventChannelPrefix
	}
	return &EventBus{client: client, prefix: prefix}
}

func (b *EventBus) Publish(ctx context.Context, userID string, payload []byte) error {
	if b.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("event user id is required")
	}

	if err := b.client.Publish(ctx, b.Channel(userID), payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Subscribe returns a subscription for userID's channel; callers close it.
func (b *EventBus) Subscribe(ctx context.Context, userID string) (*goredis.PubSub, error) {
	if b.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}

	sub := b.client.Subscribe(ctx, b.Channel(userID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe events: %w", err)
	}
	return sub, nil
}

func (b *EventBus) Channel(userID string) string {
	return b.prefix + userID
}
