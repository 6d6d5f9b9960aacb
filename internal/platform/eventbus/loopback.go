// Package eventbus provides the publish/subscribe transports behind the
// events.Publisher contract: an in-process loopback bus for single-binary
// deployments and tests, and an HTTP client for an external broker.
package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rai/commerce-saga-go/modules/shared/events"
)

// Loopback implements a simple synchronous topic bus. Deliveries happen in
// the publisher's goroutine; a handler error is logged and swallowed, so it
// never surfaces as a publish failure (matching the fire-and-forget contract
// of the broker transport).
type Loopback struct {
	mu       sync.RWMutex
	handlers map[string][]events.Handler
	logger   *slog.Logger
}

func NewLoopback(logger *slog.Logger) *Loopback {
	return &Loopback{
		handlers: make(map[string][]events.Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for every envelope published to a topic.
func (b *Loopback) Subscribe(topic string, handler events.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[topic] = append(b.handlers[topic], handler)
	b.logger.Debug("subscribed to topic", slog.String("topic", topic))
}

// Publish implements events.Publisher.
func (b *Loopback) Publish(ctx context.Context, topic string, env events.Envelope) error {
	b.mu.RLock()
	handlers := b.handlers[topic]
	b.mu.RUnlock()

	b.logger.Debug("publishing event",
		slog.String("topic", topic),
		slog.String("event_type", env.Type.String()),
		slog.String("event_id", env.ID),
		slog.Int("handler_count", len(handlers)),
	)

	for _, handler := range handlers {
		if err := handler.Handle(ctx, env); err != nil {
			b.logger.Error("event handler failed",
				slog.String("topic", topic),
				slog.String("event_type", env.Type.String()),
				slog.String("event_id", env.ID),
				slog.Any("error", err),
			)
			// Continue processing other handlers even if one fails.
		}
	}

	return nil
}

var _ events.Publisher = (*Loopback)(nil)
