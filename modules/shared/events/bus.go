package events

import (
	"context"
	"log/slog"
)

// Publisher sends an envelope to a topic. Publishing is best-effort
// notification: the caller's local mutation has already committed, so a
// failed publish is logged by the caller and never rolled back.
type Publisher interface {
	Publish(ctx context.Context, topic string, env Envelope) error
}

// Handler processes a single inbound delivery. Returning nil acknowledges
// the delivery; returning an error signals the transport to redeliver.
type Handler interface {
	Handle(ctx context.Context, env Envelope) error
}

// HandlerFunc is an adapter to use ordinary functions as event handlers.
type HandlerFunc func(ctx context.Context, env Envelope) error

func (f HandlerFunc) Handle(ctx context.Context, env Envelope) error {
	return f(ctx, env)
}

// Subscription binds a topic to the callback route the broker invokes and
// the handler that processes deliveries on that route.
type Subscription struct {
	Topic   string
	Route   string
	Handler Handler
}

// Dispatcher routes envelopes to typed handlers by event type. Unrecognized
// types are acknowledged and ignored, never failed: a topic carries events
// for several consumers and each consumer handles only its own subset.
type Dispatcher struct {
	handlers map[Type]Handler
	logger   *slog.Logger
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[Type]Handler),
		logger:   logger,
	}
}

// On registers the handler for an event type. It must be called during module
// initialization, before deliveries start; registration is not synchronized.
func (d *Dispatcher) On(eventType Type, handler Handler) *Dispatcher {
	d.handlers[eventType] = handler
	return d
}

// Handle implements Handler.
func (d *Dispatcher) Handle(ctx context.Context, env Envelope) error {
	handler, ok := d.handlers[env.Type]
	if !ok {
		d.logger.Debug("ignoring unhandled event type",
			slog.String("event_type", env.Type.String()),
			slog.String("event_id", env.ID),
		)
		return nil
	}
	return handler.Handle(ctx, env)
}

var _ Handler = (*Dispatcher)(nil)
