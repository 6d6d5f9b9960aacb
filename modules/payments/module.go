// Package payments provides payment processing for the purchase workflow.
package payments

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rai/commerce-saga-go/internal/platform/eventbus"
	"github.com/rai/commerce-saga-go/modules/payments/application"
	"github.com/rai/commerce-saga-go/modules/payments/application/eventhandlers"
	"github.com/rai/commerce-saga-go/modules/payments/domain"
	paymentshttp "github.com/rai/commerce-saga-go/modules/payments/infrastructure/http"
	"github.com/rai/commerce-saga-go/modules/shared/events"
)

const dedupWindow = 10 * time.Minute

// Config holds the module configuration.
type Config struct {
	Repository domain.Repository
	Publisher  events.Publisher
	Logger     *slog.Logger

	// SimulateFailures makes a fraction of charges decline, for exercising
	// the failure path of the workflow.
	SimulateFailures bool
	FailureRate      float64
}

type Module struct {
	processor *application.Processor
	subs      []events.Subscription
}

// New wires the payments module.
func New(cfg Config) *Module {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "payments")

	processor := application.NewProcessor(cfg.Repository, cfg.Publisher, logger, cfg.SimulateFailures, cfg.FailureRate)
	dedup := eventbus.NewDeduplicator(dedupWindow)

	dispatcher := events.NewDispatcher(logger).
		On(events.TypePaymentRequested, eventhandlers.NewPaymentRequestedHandler(processor, logger))

	return &Module{
		processor: processor,
		subs: []events.Subscription{
			{Topic: events.TopicPayment, Route: "/events/payments/payment", Handler: eventbus.WithDedup(dedup, dispatcher)},
		},
	}
}

// RegisterRoutes registers the module's HTTP routes on the given router.
func (m *Module) RegisterRoutes(r chi.Router) {
	paymentshttp.RegisterRoutes(r, m.processor)
}

// Subscriptions returns the topic subscriptions this module consumes.
func (m *Module) Subscriptions() []events.Subscription {
	return m.subs
}
