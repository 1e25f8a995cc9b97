package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shiv90154/CarrerPath-sub002/internal/config"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/provider"
	"go.uber.org/zap"
)

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes order events to Kafka, keyed by order id.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

// NewKafkaPublisher creates a new Kafka-based event publisher.
func NewKafkaPublisher(cfg *config.EventsConfig, logger *zap.Logger) *KafkaPublisher {
	return newKafkaPublisher(newKafkaWriter(cfg, logger), cfg.Topic, logger)
}

// newKafkaWriter builds an async writer. Publish runs on the request path after
// commit, so delivery failures are reported through Completion instead.
func newKafkaWriter(cfg *config.EventsConfig, logger *zap.Logger) *kafka.Writer {
	timeout := cfg.WriteTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	batchTimeout := cfg.BatchTimeout
	if batchTimeout == 0 {
		batchTimeout = 10 * time.Millisecond
	}

	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: timeout,
		BatchTimeout: batchTimeout,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to deliver order events",
					zap.String("topic", cfg.Topic),
					zap.Int("count", len(msgs)),
					zap.Error(err))
			}
		},
	}
}

func newKafkaPublisher(writer messageWriter, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		topic:  topic,
		logger: logger,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events ...*provider.OrderEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(event.OrderID),
			Value: value,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(event.Type)},
				{Key: "event_id", Value: []byte(event.ID)},
			},
			Time: event.Timestamp,
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.logger.Error("Failed to publish order events",
			zap.String("topic", p.topic),
			zap.Int("count", len(msgs)),
			zap.Error(err))
		return err
	}

	p.logger.Debug("Order events published",
		zap.String("topic", p.topic),
		zap.Int("count", len(msgs)))
	return nil
}

// Close flushes and closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	p.logger.Info("Closing Kafka publisher")
	return p.writer.Close()
}
