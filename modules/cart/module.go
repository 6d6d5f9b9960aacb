// Package cart provides shopping cart management and checkout initiation.
// This is the public API for the cart bounded context.
package cart

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/rai/commerce-saga-go/modules/cart/application"
	"github.com/rai/commerce-saga-go/modules/cart/application/eventhandlers"
	"github.com/rai/commerce-saga-go/modules/cart/domain"
	carthttp "github.com/rai/commerce-saga-go/modules/cart/infrastructure/http"
	"github.com/rai/commerce-saga-go/modules/shared/events"
)

// Config holds the module configuration.
type Config struct {
	Repository domain.Repository
	Catalog    application.ProductCatalog
	Publisher  events.Publisher
	Logger     *slog.Logger
}

type Module struct {
	service *application.Service
	subs    []events.Subscription
}

// New wires the cart module: its service, HTTP surface, and the product
// price-sync subscription.
func New(cfg Config) *Module {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "cart")

	service := application.NewService(cfg.Repository, cfg.Catalog, cfg.Publisher, logger)

	dispatcher := events.NewDispatcher(logger).
		On(events.TypeProductUpdated, eventhandlers.NewProductUpdatedHandler(cfg.Repository, logger))

	return &Module{
		service: service,
		subs: []events.Subscription{
			{Topic: events.TopicProduct, Route: "/events/cart/product", Handler: dispatcher},
		},
	}
}

// RegisterRoutes registers the module's HTTP routes on the given router.
func (m *Module) RegisterRoutes(r chi.Router) {
	carthttp.RegisterRoutes(r, m.service)
}

// Subscriptions returns the topic subscriptions this module consumes.
func (m *Module) Subscriptions() []events.Subscription {
	return m.subs
}
