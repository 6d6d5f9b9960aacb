// Package orders provides the purchase workflow orchestrator. It owns the
// order lifecycle from confirmation through payment settlement.
package orders

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rai/commerce-saga-go/internal/platform/eventbus"
	"github.com/rai/commerce-saga-go/modules/orders/application"
	"github.com/rai/commerce-saga-go/modules/orders/application/eventhandlers"
	"github.com/rai/commerce-saga-go/modules/orders/domain"
	ordershttp "github.com/rai/commerce-saga-go/modules/orders/infrastructure/http"
	"github.com/rai/commerce-saga-go/modules/shared/events"
)

// dedupWindow covers broker redelivery latency for order and payment events.
const dedupWindow = 10 * time.Minute

// Config holds the module configuration.
type Config struct {
	Repository domain.Repository
	Publisher  events.Publisher
	Logger     *slog.Logger
}

type Module struct {
	service *application.Service
	subs    []events.Subscription
}

// New wires the orders module: its service, HTTP surface, and the
// subscriptions that drive the workflow.
func New(cfg Config) *Module {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "orders")

	service := application.NewService(cfg.Repository, cfg.Publisher, logger)
	dedup := eventbus.NewDeduplicator(dedupWindow)

	orderEvents := events.NewDispatcher(logger).
		On(events.TypeOrderCreated, eventhandlers.NewOrderCreatedHandler(service, logger))

	paymentEvents := events.NewDispatcher(logger).
		On(events.TypePaymentCompleted, eventhandlers.NewPaymentCompletedHandler(service, logger)).
		On(events.TypePaymentFailed, eventhandlers.NewPaymentFailedHandler(service, logger))

	return &Module{
		service: service,
		subs: []events.Subscription{
			{Topic: events.TopicOrder, Route: "/events/orders/order", Handler: eventbus.WithDedup(dedup, orderEvents)},
			{Topic: events.TopicPayment, Route: "/events/orders/payment", Handler: eventbus.WithDedup(dedup, paymentEvents)},
		},
	}
}

// RegisterRoutes registers the module's HTTP routes on the given router.
func (m *Module) RegisterRoutes(r chi.Router) {
	ordershttp.RegisterRoutes(r, m.service)
}

// Subscriptions returns the topic subscriptions this module consumes.
func (m *Module) Subscriptions() []events.Subscription {
	return m.subs
}
