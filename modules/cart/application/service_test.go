package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/rai/commerce-saga-go/modules/cart/application"
	"github.com/rai/commerce-saga-go/modules/cart/domain"
	"github.com/rai/commerce-saga-go/modules/cart/infrastructure/persistence"
	"github.com/rai/commerce-saga-go/modules/shared/events"
	"github.com/rai/commerce-saga-go/modules/shared/events/contracts"
)

// --- Mocks ---

type mockCatalog struct {
	getProductFn func(ctx context.Context, productID string) (application.ProductInfo, error)
}

func (m *mockCatalog) GetProduct(ctx context.Context, productID string) (application.ProductInfo, error) {
	return m.getProductFn(ctx, productID)
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []publishedEvent
	failWith  error
}

type publishedEvent struct {
	topic string
	env   events.Envelope
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string, env events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failWith != nil {
		return p.failWith
	}
	p.published = append(p.published, publishedEvent{topic: topic, env: env})
	return nil
}

func (p *recordingPublisher) byType(eventType events.Type) []events.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()

	var result []events.Envelope
	for _, pe := range p.published {
		if pe.env.Type == eventType {
			result = append(result, pe.env)
		}
	}
	return result
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedCatalog(name string, price float64) *mockCatalog {
	return &mockCatalog{
		getProductFn: func(ctx context.Context, productID string) (application.ProductInfo, error) {
			return application.ProductInfo{Name: name, Price: price}, nil
		},
	}
}

func newTestService(catalog application.ProductCatalog, publisher events.Publisher) *application.Service {
	return application.NewService(persistence.NewInMemoryRepository(), catalog, publisher, testLogger())
}

// --- Tests ---

func TestService_AddItem(t *testing.T) {
	publisher := &recordingPublisher{}
	service := newTestService(fixedCatalog("Smart Watch Pro", 299.99), publisher)

	cart, err := service.AddItem(context.Background(), "user-1", application.AddItemInput{
		ProductID: "prod-aaa111",
		Quantity:  2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(cart.Items))
	}
	item := cart.Items[0]
	if item.ProductName != "Smart Watch Pro" || item.UnitPrice != 299.99 {
		t.Errorf("expected catalog details on the line, got %+v", item)
	}
	if item.Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", item.Quantity)
	}

	added := publisher.byType(events.TypeCartItemAdded)
	if len(added) != 1 {
		t.Fatalf("expected one cart.item_added event, got %d", len(added))
	}
}

func TestService_AddItem_ConcurrentSameProduct(t *testing.T) {
	publisher := &recordingPublisher{}
	service := newTestService(fixedCatalog("Smart Watch Pro", 299.99), publisher)

	ctx := context.Background()
	const adds = 16
	var wg sync.WaitGroup
	wg.Add(adds)
	for i := 0; i < adds; i++ {
		go func() {
			defer wg.Done()
			if _, err := service.AddItem(ctx, "user-1", application.AddItemInput{
				ProductID: "prod-ccc333",
				Quantity:  1,
			}); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	cart, err := service.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected concurrent adds to collapse into one line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != adds {
		t.Errorf("expected quantity %d, got %d", adds, cart.Items[0].Quantity)
	}
}

func TestService_AddItem_SameProductMergesLine(t *testing.T) {
	service := newTestService(fixedCatalog("Organic Cotton T-Shirt", 29.99), &recordingPublisher{})

	ctx := context.Background()
	if _, err := service.AddItem(ctx, "user-1", application.AddItemInput{ProductID: "prod-bbb222", Quantity: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart, err := service.AddItem(ctx, "user-1", application.AddItemInput{ProductID: "prod-bbb222", Quantity: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 4 {
		t.Errorf("expected merged quantity 4, got %d", cart.Items[0].Quantity)
	}
}

func TestService_AddItem_Validation(t *testing.T) {
	service := newTestService(fixedCatalog("x", 1), &recordingPublisher{})

	if _, err := service.AddItem(context.Background(), "user-1", application.AddItemInput{Quantity: 1}); !errors.Is(err, domain.ErrProductIDRequired) {
		t.Errorf("expected ErrProductIDRequired, got %v", err)
	}
	if _, err := service.AddItem(context.Background(), "user-1", application.AddItemInput{ProductID: "prod-x", Quantity: 0}); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestService_AddItem_CatalogDownFallsBackToHints(t *testing.T) {
	catalog := &mockCatalog{
		getProductFn: func(ctx context.Context, productID string) (application.ProductInfo, error) {
			return application.ProductInfo{}, errors.New("connection refused")
		},
	}
	service := newTestService(catalog, &recordingPublisher{})

	cart, err := service.AddItem(context.Background(), "user-1", application.AddItemInput{
		ProductID:   "prod-ccc333",
		Quantity:    1,
		ProductName: "Hinted Name",
		UnitPrice:   12.50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cart.Items[0].ProductName != "Hinted Name" || cart.Items[0].UnitPrice != 12.50 {
		t.Errorf("expected caller hints on the line, got %+v", cart.Items[0])
	}
}

func TestService_UpdateItem(t *testing.T) {
	publisher := &recordingPublisher{}
	service := newTestService(fixedCatalog("Smart Watch Pro", 299.99), publisher)

	ctx := context.Background()
	cart, _ := service.AddItem(ctx, "user-1", application.AddItemInput{ProductID: "prod-aaa111", Quantity: 1})
	itemID := cart.Items[0].ItemID

	updated, err := service.UpdateItem(ctx, "user-1", itemID, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Items[0].Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", updated.Items[0].Quantity)
	}

	evts := publisher.byType(events.TypeCartItemUpdated)
	if len(evts) != 1 {
		t.Fatalf("expected one cart.item_updated event, got %d", len(evts))
	}
	var payload contracts.CartItemUpdated
	if err := evts[0].DecodeData(&payload); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if payload.OldQuantity != 1 || payload.NewQuantity != 5 {
		t.Errorf("expected old/new quantity 1/5, got %d/%d", payload.OldQuantity, payload.NewQuantity)
	}
}

func TestService_UpdateItem_UnknownItem(t *testing.T) {
	service := newTestService(fixedCatalog("x", 1), &recordingPublisher{})

	ctx := context.Background()
	service.AddItem(ctx, "user-1", application.AddItemInput{ProductID: "prod-aaa111", Quantity: 1})

	if _, err := service.UpdateItem(ctx, "user-1", "cart-item-missing", 2); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestService_RemoveItem(t *testing.T) {
	service := newTestService(fixedCatalog("x", 1), &recordingPublisher{})

	ctx := context.Background()
	cart, _ := service.AddItem(ctx, "user-1", application.AddItemInput{ProductID: "prod-aaa111", Quantity: 1})

	updated, err := service.RemoveItem(ctx, "user-1", cart.Items[0].ItemID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Items) != 0 {
		t.Errorf("expected empty cart, got %d items", len(updated.Items))
	}
}

func TestService_Get_CreatesEmptyCart(t *testing.T) {
	service := newTestService(fixedCatalog("x", 1), &recordingPublisher{})

	cart, err := service.Get(context.Background(), "brand-new-user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.UserID != "brand-new-user" {
		t.Errorf("expected cart for 'brand-new-user', got %q", cart.UserID)
	}
	if len(cart.Items) != 0 {
		t.Errorf("expected empty cart, got %d items", len(cart.Items))
	}
}

func TestService_Checkout_Totals(t *testing.T) {
	publisher := &recordingPublisher{}
	service := newTestService(fixedCatalog("Gadget", 150.00), publisher)

	ctx := context.Background()
	if _, err := service.AddItem(ctx, "user-1", application.AddItemInput{ProductID: "prod-aaa111", Quantity: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := service.Checkout(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 2 x 150.00 = 300.00 subtotal, 8% tax, no shipping at this stage.
	if result.Total != 324.00 {
		t.Errorf("expected checkout total 324.00, got %.2f", result.Total)
	}
	if result.Status != "pending" {
		t.Errorf("expected status 'pending', got %q", result.Status)
	}

	created := publisher.byType(events.TypeOrderCreated)
	if len(created) != 1 {
		t.Fatalf("expected one order.created event, got %d", len(created))
	}
	var payload contracts.OrderCreated
	if err := created[0].DecodeData(&payload); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if payload.Order.Subtotal != 300.00 || payload.Order.Tax != 24.00 || payload.Order.Total != 324.00 {
		t.Errorf("unexpected totals on snapshot: %+v", payload.Order)
	}
	if len(payload.Order.Items) != 1 || payload.Order.Items[0].Quantity != 2 {
		t.Errorf("expected snapshot to carry the cart lines, got %+v", payload.Order.Items)
	}

	if len(publisher.byType(events.TypeCartCheckoutCompleted)) != 1 {
		t.Error("expected cart.checkout_completed to follow order.created")
	}

	// The cart is empty afterwards.
	cart, _ := service.Get(ctx, "user-1")
	if len(cart.Items) != 0 {
		t.Errorf("expected cart to be cleared after checkout, got %d items", len(cart.Items))
	}
}

func TestService_Checkout_EmptyCart(t *testing.T) {
	service := newTestService(fixedCatalog("x", 1), &recordingPublisher{})

	ctx := context.Background()
	service.Get(ctx, "user-1")

	if _, err := service.Checkout(ctx, "user-1"); !errors.Is(err, domain.ErrEmptyCart) {
		t.Errorf("expected ErrEmptyCart, got %v", err)
	}
}

func TestService_Checkout_CartClearsEvenWhenPublishFails(t *testing.T) {
	publisher := &recordingPublisher{failWith: errors.New("broker down")}
	service := newTestService(fixedCatalog("Gadget", 10.00), publisher)

	ctx := context.Background()
	if _, err := service.AddItem(ctx, "user-1", application.AddItemInput{ProductID: "prod-aaa111", Quantity: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := service.Checkout(ctx, "user-1")
	if err != nil {
		t.Fatalf("checkout must succeed despite a failed publish, got %v", err)
	}
	if result.OrderID == "" {
		t.Error("expected an order ID")
	}

	cart, _ := service.Get(ctx, "user-1")
	if len(cart.Items) != 0 {
		t.Errorf("expected cart cleared regardless of publish outcome, got %d items", len(cart.Items))
	}
}
