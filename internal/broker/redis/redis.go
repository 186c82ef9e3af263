package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"notehub-server/internal/broker"

	"github.com/redis/go-redis/v9"
)

// RedisBroker publishes events on a Redis channel so that every server
// instance can deliver them to its own websocket connections.
type RedisBroker struct {
	client  redis.UniversalClient
	channel string
}

func NewRedisBroker(ctx context.Context, addr, channel string) (*RedisBroker, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisBroker{client: client, channel: channel}, nil
}

func (b *RedisBroker) Publish(ctx context.Context, event *broker.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context, handler broker.Handler) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	// Ensure subscription is established
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	ch := pubsub.Channel()

	go func() {
		defer pubsub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					log.Printf("Pubsub channel closed: %s", b.channel)
					return
				}

				var event broker.Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("failed to decode event: %v", err)
					continue
				}
				handler(&event)
			}
		}
	}()

	return nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}
