package events

import (
	"context"
	"fmt"

	"github.com/shiv90154/CarrerPath-sub002/internal/domain/provider"
	"github.com/shiv90154/CarrerPath-sub002/pkg/messaging"
	"go.uber.org/zap"
)

// RedisPublisher publishes order events on a Redis pub/sub channel.
type RedisPublisher struct {
	pubsub  messaging.PubSub
	channel string
	logger  *zap.Logger
}

func NewRedisPublisher(pubsub messaging.PubSub, channel string, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{
		pubsub:  pubsub,
		channel: channel,
		logger:  logger,
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, events ...*provider.OrderEvent) error {
	for _, event := range events {
		if err := p.pubsub.Publish(ctx, p.channel, event); err != nil {
			p.logger.Error("Failed to publish order event",
				zap.String("channel", p.channel),
				zap.String("order_id", event.OrderID),
				zap.Error(err))
			return fmt.Errorf("failed to publish order event: %w", err)
		}
	}
	return nil
}

// Close is a no-op; the Redis client is owned by the caller.
func (p *RedisPublisher) Close() error {
	return nil
}
