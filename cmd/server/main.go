// Package main is the entry point for the commerce workflow application.
// It wires the cart, orders, payments, and products modules onto a shared
// event bus and starts the HTTP server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/rai/commerce-saga-go/internal/platform/config"
	"github.com/rai/commerce-saga-go/internal/platform/eventbus"
	"github.com/rai/commerce-saga-go/internal/platform/httpserver"
	"github.com/rai/commerce-saga-go/modules/cart"
	cartdomain "github.com/rai/commerce-saga-go/modules/cart/domain"
	cartcatalog "github.com/rai/commerce-saga-go/modules/cart/infrastructure/catalog"
	cartpersistence "github.com/rai/commerce-saga-go/modules/cart/infrastructure/persistence"
	"github.com/rai/commerce-saga-go/modules/orders"
	orderspersistence "github.com/rai/commerce-saga-go/modules/orders/infrastructure/persistence"
	"github.com/rai/commerce-saga-go/modules/payments"
	paymentspersistence "github.com/rai/commerce-saga-go/modules/payments/infrastructure/persistence"
	"github.com/rai/commerce-saga-go/modules/products"
	productspersistence "github.com/rai/commerce-saga-go/modules/products/infrastructure/persistence"
	"github.com/rai/commerce-saga-go/modules/shared/events"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	logger.Info("starting commerce workflow application",
		slog.Int("port", cfg.Port),
		slog.Bool("external_broker", cfg.BrokerURL != ""),
		slog.Bool("redis_cart", cfg.RedisAddr != ""),
	)

	app := newApp(cfg, logger)
	app.products.Seed(context.Background())

	serverCfg := httpserver.DefaultConfig()
	serverCfg.Host = cfg.Host
	serverCfg.Port = cfg.Port
	server := httpserver.New(serverCfg, app.handler(logger), logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	logger.Info("server stopped")
}

// app holds the wired modules and their combined subscriptions.
type app struct {
	cart     *cart.Module
	orders   *orders.Module
	payments *payments.Module
	products *products.Module
	subs     []events.Subscription
}

// newApp wires all modules onto a shared publisher. With no external broker
// configured, the loopback bus dispatches events in-process; the callback
// routes are still registered so an external broker can be pointed at the
// process later without code changes.
func newApp(cfg config.Config, logger *slog.Logger) *app {
	var publisher events.Publisher
	var loopback *eventbus.Loopback
	if cfg.BrokerURL != "" {
		publisher = eventbus.NewBrokerClient(cfg.BrokerURL, logger)
	} else {
		loopback = eventbus.NewLoopback(logger)
		publisher = loopback
	}

	a := &app{
		cart: cart.New(cart.Config{
			Repository: newCartRepository(cfg),
			Catalog:    cartcatalog.NewClient(cfg.ProductServiceURL),
			Publisher:  publisher,
			Logger:     logger,
		}),
		orders: orders.New(orders.Config{
			Repository: orderspersistence.NewInMemoryRepository(),
			Publisher:  publisher,
			Logger:     logger,
		}),
		payments: payments.New(payments.Config{
			Repository:       paymentspersistence.NewInMemoryRepository(),
			Publisher:        publisher,
			Logger:           logger,
			SimulateFailures: cfg.SimulateFailures,
			FailureRate:      cfg.FailureRate,
		}),
		products: products.New(products.Config{
			Repository: productspersistence.NewInMemoryRepository(),
			Publisher:  publisher,
			Logger:     logger,
		}),
	}

	a.subs = append(a.subs, a.cart.Subscriptions()...)
	a.subs = append(a.subs, a.orders.Subscriptions()...)
	a.subs = append(a.subs, a.payments.Subscriptions()...)
	a.subs = append(a.subs, a.products.Subscriptions()...)

	if loopback != nil {
		for _, sub := range a.subs {
			loopback.Subscribe(sub.Topic, sub.Handler)
		}
	}
	return a
}

func newCartRepository(cfg config.Config) cartdomain.Repository {
	if cfg.RedisAddr == "" {
		return cartpersistence.NewInMemoryRepository()
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return cartpersistence.NewRedisRepository(client)
}

// handler builds the HTTP surface: module routes, broker delivery callbacks,
// subscription discovery, and health.
func (a *app) handler(logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(httpserver.Recovery(logger))
	r.Use(httpserver.Logging(logger))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/subscriptions", eventbus.SubscriptionsHandler(a.subs))
	for _, sub := range a.subs {
		r.Post(sub.Route, eventbus.CallbackHandler(sub.Handler, logger))
	}

	a.cart.RegisterRoutes(r)
	a.orders.RegisterRoutes(r)
	a.payments.RegisterRoutes(r)
	a.products.RegisterRoutes(r)

	return r
}
