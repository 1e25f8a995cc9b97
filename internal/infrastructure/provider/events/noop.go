package events

import (
	"context"

	"github.com/shiv90154/CarrerPath-sub002/internal/domain/provider"
)

// NoopPublisher drops events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...*provider.OrderEvent) error { return nil }
func (NoopPublisher) Close() error                                          { return nil }
