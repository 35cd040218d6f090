// Package messaging carries workflow events to downstream consumers.
//
// Usage:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	pub := messaging.NewRedisPublisher(client)
//	messaging.Dispatch(ctx, pub, logger, events)
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/event"
)

var _ event.Publisher = (*RedisPublisher)(nil)

// PubSubClient is the part of the Redis client the publisher needs.
// *redis.Client and *redis.ClusterClient satisfy it.
type PubSubClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// Option configures the RedisPublisher.
type Option func(*RedisPublisher)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *RedisPublisher) { p.logger = l }
}

// RedisPublisher publishes JSON payloads over Redis pub/sub.
type RedisPublisher struct {
	client PubSubClient
	logger *slog.Logger
}

// NewRedisPublisher creates a publisher. The caller owns the client lifecycle.
func NewRedisPublisher(client PubSubClient, opts ...Option) *RedisPublisher {
	p := &RedisPublisher{client: client, logger: slog.Default()}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Ping verifies the Redis connection is alive.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload any) error {
	message, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", channel, err)
	}

	receivers, err := p.client.Publish(ctx, channel, message).Result()
	if err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}

	p.logger.DebugContext(ctx, "event published", "channel", channel, "receivers", receivers)
	return nil
}
