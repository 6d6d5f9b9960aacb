package eventbus

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rai/commerce-saga-go/modules/shared/events"
)

// CallbackHandler adapts an events.Handler to the broker's delivery callback:
// the broker POSTs the envelope to the subscription route and takes any 2xx
// as an acknowledgment. A handler error maps to 500 so the broker redelivers.
func CallbackHandler(handler events.Handler, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var env events.Envelope
		if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
			logger.Warn("rejecting malformed event delivery",
				slog.String("route", r.URL.Path),
				slog.Any("error", err),
			)
			writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": "invalid envelope"})
			return
		}

		if err := handler.Handle(r.Context(), env); err != nil {
			logger.Error("event delivery failed",
				slog.String("event_type", env.Type.String()),
				slog.String("event_id", env.ID),
				slog.Any("error", err),
			)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "retry", "event_type": env.Type.String()})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "processed", "event_type": env.Type.String()})
	}
}

// SubscriptionsHandler serves the discovery endpoint the broker polls to learn
// which topics to deliver where.
func SubscriptionsHandler(subs []events.Subscription) http.HandlerFunc {
	type entry struct {
		Topic string `json:"topic"`
		Route string `json:"route"`
	}
	entries := make([]entry, 0, len(subs))
	for _, sub := range subs {
		entries = append(entries, entry{Topic: sub.Topic, Route: sub.Route})
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, entries)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
