package eventhandlers_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/rai/commerce-saga-go/modules/products/application"
	"github.com/rai/commerce-saga-go/modules/products/application/eventhandlers"
	"github.com/rai/commerce-saga-go/modules/products/infrastructure/persistence"
	"github.com/rai/commerce-saga-go/modules/shared/events"
	"github.com/rai/commerce-saga-go/modules/shared/events/contracts"
)

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, topic string, env events.Envelope) error {
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedProduct(t *testing.T, service *application.Service, name string, stock int) string {
	t.Helper()

	product, err := service.Create(context.Background(), application.CreateProductInput{
		Name:  name,
		Price: 10.00,
		Stock: stock,
	})
	if err != nil {
		t.Fatalf("seeding product: %v", err)
	}
	return product.ProductID
}

func placedEnvelope(t *testing.T, items []contracts.OrderItem) events.Envelope {
	t.Helper()

	env, err := events.NewEnvelope("order-service", events.TypeOrderPlaced, contracts.OrderPlaced{
		OrderID: "order-abc12345",
		Items:   items,
	})
	if err != nil {
		t.Fatalf("building envelope: %v", err)
	}
	return env
}

func TestOrderPlacedHandler_DecrementsEachLine(t *testing.T) {
	service := application.NewService(persistence.NewInMemoryRepository(), nopPublisher{}, testLogger())
	handler := eventhandlers.NewOrderPlacedHandler(service, testLogger())

	ctx := context.Background()
	headphones := seedProduct(t, service, "Headphones", 50)
	watch := seedProduct(t, service, "Watch", 30)

	env := placedEnvelope(t, []contracts.OrderItem{
		{ProductID: headphones, Quantity: 2},
		{ProductID: watch, Quantity: 1},
	})
	if err := handler.Handle(ctx, env); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := service.Get(ctx, headphones)
	if got.Stock != 48 {
		t.Errorf("expected headphones stock 48, got %d", got.Stock)
	}
	got, _ = service.Get(ctx, watch)
	if got.Stock != 29 {
		t.Errorf("expected watch stock 29, got %d", got.Stock)
	}
}

func TestOrderPlacedHandler_InsufficientStockSkipsLine(t *testing.T) {
	service := application.NewService(persistence.NewInMemoryRepository(), nopPublisher{}, testLogger())
	handler := eventhandlers.NewOrderPlacedHandler(service, testLogger())

	ctx := context.Background()
	scarce := seedProduct(t, service, "Scarce", 1)
	plenty := seedProduct(t, service, "Plenty", 50)

	env := placedEnvelope(t, []contracts.OrderItem{
		{ProductID: scarce, Quantity: 5},
		{ProductID: plenty, Quantity: 2},
	})
	if err := handler.Handle(ctx, env); err != nil {
		t.Fatalf("stock shortfall must not fail the delivery, got %v", err)
	}

	got, _ := service.Get(ctx, scarce)
	if got.Stock != 1 {
		t.Errorf("expected scarce stock untouched at 1, got %d", got.Stock)
	}
	got, _ = service.Get(ctx, plenty)
	if got.Stock != 48 {
		t.Errorf("expected remaining lines processed, got stock %d", got.Stock)
	}
}

func TestOrderPlacedHandler_UnknownProductSkipped(t *testing.T) {
	service := application.NewService(persistence.NewInMemoryRepository(), nopPublisher{}, testLogger())
	handler := eventhandlers.NewOrderPlacedHandler(service, testLogger())

	env := placedEnvelope(t, []contracts.OrderItem{
		{ProductID: "prod-missing", Quantity: 1},
	})
	if err := handler.Handle(context.Background(), env); err != nil {
		t.Errorf("expected unknown product to be skipped, got %v", err)
	}
}

func TestOrderPlacedHandler_MalformedAcknowledged(t *testing.T) {
	service := application.NewService(persistence.NewInMemoryRepository(), nopPublisher{}, testLogger())
	handler := eventhandlers.NewOrderPlacedHandler(service, testLogger())

	env := events.Envelope{ID: "evt-1", Type: events.TypeOrderPlaced, Data: []byte(`{"items":`)}
	if err := handler.Handle(context.Background(), env); err != nil {
		t.Errorf("expected malformed payload to be acknowledged, got %v", err)
	}
}
