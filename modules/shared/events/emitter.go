package events

import (
	"context"
	"log/slog"
)

// Emitter is the producer-side convenience every module uses: it stamps the
// module's source name on envelopes and applies the best-effort publish
// policy. A failed publish is logged and swallowed because the business
// mutation that triggered it has already committed locally.
type Emitter struct {
	Source    string
	Publisher Publisher
	Logger    *slog.Logger
}

// Emit wraps payload in an envelope and publishes it to topic.
func (e Emitter) Emit(ctx context.Context, topic string, eventType Type, payload any) {
	env, err := NewEnvelope(e.Source, eventType, payload)
	if err != nil {
		e.Logger.Error("building event envelope",
			slog.String("event_type", eventType.String()),
			slog.Any("error", err),
		)
		return
	}

	if err := e.Publisher.Publish(ctx, topic, env); err != nil {
		e.Logger.Warn("event publish failed, local state already committed",
			slog.String("topic", topic),
			slog.String("event_type", eventType.String()),
			slog.String("event_id", env.ID),
			slog.Any("error", err),
		)
	}
}
