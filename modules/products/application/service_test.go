package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/rai/commerce-saga-go/modules/products/application"
	"github.com/rai/commerce-saga-go/modules/products/domain"
	"github.com/rai/commerce-saga-go/modules/products/infrastructure/persistence"
	"github.com/rai/commerce-saga-go/modules/shared/events"
	"github.com/rai/commerce-saga-go/modules/shared/events/contracts"
)

type recordingPublisher struct {
	published []events.Envelope
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string, env events.Envelope) error {
	p.published = append(p.published, env)
	return nil
}

func (p *recordingPublisher) byType(eventType events.Type) []events.Envelope {
	var result []events.Envelope
	for _, env := range p.published {
		if env.Type == eventType {
			result = append(result, env)
		}
	}
	return result
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(publisher events.Publisher) *application.Service {
	return application.NewService(persistence.NewInMemoryRepository(), publisher, testLogger())
}

func createProduct(t *testing.T, service *application.Service, stock int) *domain.Product {
	t.Helper()

	product, err := service.Create(context.Background(), application.CreateProductInput{
		Name:        "Wireless Bluetooth Headphones",
		Description: "Over-ear noise cancelling headphones",
		Price:       149.99,
		Category:    "electronics",
		Stock:       stock,
	})
	if err != nil {
		t.Fatalf("creating product: %v", err)
	}
	return product
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestService_Create(t *testing.T) {
	publisher := &recordingPublisher{}
	service := newService(publisher)

	product := createProduct(t, service, 50)

	if product.ProductID == "" {
		t.Error("expected generated product ID")
	}
	if product.Price != 149.99 || product.Stock != 50 {
		t.Errorf("unexpected product: %+v", product)
	}
	if len(publisher.byType(events.TypeProductCreated)) != 1 {
		t.Error("expected one product.created event")
	}
}

func TestService_Create_Validation(t *testing.T) {
	service := newService(&recordingPublisher{})

	_, err := service.Create(context.Background(), application.CreateProductInput{Price: 10})
	if !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}

	_, err = service.Create(context.Background(), application.CreateProductInput{Name: "x", Price: -1})
	if !errors.Is(err, domain.ErrInvalidPrice) {
		t.Errorf("expected ErrInvalidPrice, got %v", err)
	}
}

func TestService_Update_TracksChangedFields(t *testing.T) {
	publisher := &recordingPublisher{}
	service := newService(publisher)
	product := createProduct(t, service, 50)

	updated, err := service.Update(context.Background(), product.ProductID, application.UpdateProductInput{
		Price: floatPtr(129.99),
		Name:  strPtr("Wireless Bluetooth Headphones"), // Unchanged value.
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Price != 129.99 {
		t.Errorf("expected price 129.99, got %.2f", updated.Price)
	}

	evts := publisher.byType(events.TypeProductUpdated)
	if len(evts) != 1 {
		t.Fatalf("expected one product.updated event, got %d", len(evts))
	}
	var payload contracts.ProductUpdated
	if err := evts[0].DecodeData(&payload); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if len(payload.Changes) != 1 {
		t.Errorf("expected only the price change recorded, got %v", payload.Changes)
	}
	if _, ok := payload.Changes["price"]; !ok {
		t.Errorf("expected a price change entry, got %v", payload.Changes)
	}
}

func TestService_Update_NoEffectiveChangePublishesNothing(t *testing.T) {
	publisher := &recordingPublisher{}
	service := newService(publisher)
	product := createProduct(t, service, 50)

	before := len(publisher.published)
	_, err := service.Update(context.Background(), product.ProductID, application.UpdateProductInput{
		Price: floatPtr(149.99),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(publisher.published) != before {
		t.Error("expected no event for an update that changes nothing")
	}
}

func TestService_Delete(t *testing.T) {
	publisher := &recordingPublisher{}
	service := newService(publisher)
	product := createProduct(t, service, 50)

	if err := service.Delete(context.Background(), product.ProductID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Get(context.Background(), product.ProductID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected product gone, got %v", err)
	}
	if len(publisher.byType(events.TypeProductDeleted)) != 1 {
		t.Error("expected one product.deleted event")
	}
}

func TestService_AdjustStock_Decrement(t *testing.T) {
	publisher := &recordingPublisher{}
	service := newService(publisher)
	product := createProduct(t, service, 50)

	updated, err := service.AdjustStock(context.Background(), product.ProductID, -2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Stock != 48 {
		t.Errorf("expected stock 48, got %d", updated.Stock)
	}

	evts := publisher.byType(events.TypeProductStockUpdated)
	if len(evts) != 1 {
		t.Fatalf("expected one product.stock_updated event, got %d", len(evts))
	}
	var payload contracts.ProductStockUpdated
	if err := evts[0].DecodeData(&payload); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if payload.OldStock != 50 || payload.NewStock != 48 || payload.Change != -2 {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestService_AdjustStock_FloorEnforced(t *testing.T) {
	publisher := &recordingPublisher{}
	service := newService(publisher)
	product := createProduct(t, service, 3)

	_, err := service.AdjustStock(context.Background(), product.ProductID, -5)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// The stock is left exactly as it was; no partial decrement.
	current, _ := service.Get(context.Background(), product.ProductID)
	if current.Stock != 3 {
		t.Errorf("expected stock unchanged at 3, got %d", current.Stock)
	}
	if len(publisher.byType(events.TypeProductStockUpdated)) != 0 {
		t.Error("expected no stock event for a rejected adjustment")
	}
}

func TestService_AdjustStock_Restock(t *testing.T) {
	service := newService(&recordingPublisher{})
	product := createProduct(t, service, 0)

	updated, err := service.AdjustStock(context.Background(), product.ProductID, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Stock != 25 {
		t.Errorf("expected stock 25, got %d", updated.Stock)
	}
}

func TestService_List_FilterByCategory(t *testing.T) {
	service := newService(&recordingPublisher{})
	createProduct(t, service, 50)
	service.Create(context.Background(), application.CreateProductInput{
		Name: "Organic Cotton T-Shirt", Price: 29.99, Category: "apparel", Stock: 100,
	})

	apparel, err := service.List(context.Background(), "apparel")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(apparel) != 1 || apparel[0].Name != "Organic Cotton T-Shirt" {
		t.Errorf("expected the apparel product only, got %+v", apparel)
	}

	all, _ := service.List(context.Background(), "")
	if len(all) != 2 {
		t.Errorf("expected 2 products, got %d", len(all))
	}
}
