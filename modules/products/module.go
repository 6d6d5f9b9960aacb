// Package products provides the catalog and inventory for the purchase
// workflow.
package products

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rai/commerce-saga-go/internal/platform/eventbus"
	"github.com/rai/commerce-saga-go/modules/products/application"
	"github.com/rai/commerce-saga-go/modules/products/application/eventhandlers"
	"github.com/rai/commerce-saga-go/modules/products/domain"
	productshttp "github.com/rai/commerce-saga-go/modules/products/infrastructure/http"
	"github.com/rai/commerce-saga-go/modules/shared/events"
)

const dedupWindow = 10 * time.Minute

// Config holds the module configuration.
type Config struct {
	Repository domain.Repository
	Publisher  events.Publisher
	Logger     *slog.Logger
}

type Module struct {
	service *application.Service
	logger  *slog.Logger
	subs    []events.Subscription
}

// New wires the products module.
func New(cfg Config) *Module {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "products")

	service := application.NewService(cfg.Repository, cfg.Publisher, logger)
	dedup := eventbus.NewDeduplicator(dedupWindow)

	dispatcher := events.NewDispatcher(logger).
		On(events.TypeOrderPlaced, eventhandlers.NewOrderPlacedHandler(service, logger))

	return &Module{
		service: service,
		logger:  logger,
		subs: []events.Subscription{
			{Topic: events.TopicProduct, Route: "/events/products/product", Handler: eventbus.WithDedup(dedup, dispatcher)},
		},
	}
}

// RegisterRoutes registers the module's HTTP routes on the given router.
func (m *Module) RegisterRoutes(r chi.Router) {
	productshttp.RegisterRoutes(r, m.service)
}

// Subscriptions returns the topic subscriptions this module consumes.
func (m *Module) Subscriptions() []events.Subscription {
	return m.subs
}

// Seed loads the demo catalog into an empty repository. Errors are logged
// and skipped so a partially seeded catalog never blocks startup.
func (m *Module) Seed(ctx context.Context) {
	seed := []application.CreateProductInput{
		{
			Name:        "Wireless Bluetooth Headphones",
			Description: "Over-ear noise cancelling headphones with 30 hour battery life",
			Price:       149.99,
			Category:    "electronics",
			Stock:       50,
		},
		{
			Name:        "Smart Watch Pro",
			Description: "Fitness tracking smartwatch with heart rate monitor",
			Price:       299.99,
			Category:    "electronics",
			Stock:       30,
		},
		{
			Name:        "Organic Cotton T-Shirt",
			Description: "Comfortable everyday t-shirt in organic cotton",
			Price:       29.99,
			Category:    "apparel",
			Stock:       100,
		},
	}
	for _, input := range seed {
		if _, err := m.service.Create(ctx, input); err != nil {
			m.logger.Warn("seeding product failed", "name", input.Name, "error", err)
		}
	}
}
