// Package application contains the cart module's use cases: cart mutation
// and checkout initiation.
package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/rai/commerce-saga-go/modules/cart/domain"
	"github.com/rai/commerce-saga-go/modules/shared/events"
	"github.com/rai/commerce-saga-go/modules/shared/events/contracts"
	"github.com/rai/commerce-saga-go/modules/shared/types"
)

// SourceName identifies this module on every envelope it publishes.
const SourceName = "cart-service"

// taxRate is applied to the cart subtotal at checkout. Shipping is NOT added
// here; the order orchestrator applies the flat fee once at confirmation
// (two-stage pricing).
const taxRate = 0.08

type Service struct {
	repo    domain.Repository
	catalog ProductCatalog
	emitter *events.Emitter
	logger  *slog.Logger
}

func NewService(repo domain.Repository, catalog ProductCatalog, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		emitter: &events.Emitter{Source: SourceName, Publisher: publisher, Logger: logger},
		logger:  logger,
	}
}

// AddItemInput carries the add request. ProductName and UnitPrice are hints
// used only when the synchronous product lookup fails.
type AddItemInput struct {
	ProductID   string
	Quantity    int
	ProductName string
	UnitPrice   float64
}

// AddItem adds a product to the user's cart, incrementing the quantity when
// the product is already present. Emits cart.item_added after the mutation.
func (s *Service) AddItem(ctx context.Context, userID string, in AddItemInput) (*domain.Cart, error) {
	if in.ProductID == "" {
		return nil, domain.ErrProductIDRequired
	}
	if in.Quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	// Resolve product details up front, outside the store lock. The lookup
	// is only needed for a new line, but a concurrent add may insert the
	// line first; the closure re-checks and increments instead.
	info := s.resolveProduct(ctx, in)

	now := time.Now().UTC()
	cart, err := s.repo.Upsert(ctx, userID, func(c *domain.Cart) error {
		if item := c.FindProduct(in.ProductID); item != nil {
			item.Quantity += in.Quantity
		} else {
			c.Items = append(c.Items, domain.Item{
				ItemID:      types.NewID("cart-item", 8),
				ProductID:   in.ProductID,
				ProductName: info.Name,
				Quantity:    in.Quantity,
				UnitPrice:   info.Price,
				AddedAt:     now,
			})
		}
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, events.TopicCart, events.TypeCartItemAdded, contracts.CartItemAdded{
		UserID:    userID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		CartTotal: cart.Subtotal(),
	})
	return cart, nil
}

// UpdateItem sets the quantity of an existing cart line.
func (s *Service) UpdateItem(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	var oldQuantity int
	var productID string
	cart, err := s.repo.Update(ctx, userID, func(c *domain.Cart) error {
		item := c.FindItem(itemID)
		if item == nil {
			return domain.ErrItemNotFound
		}
		oldQuantity = item.Quantity
		productID = item.ProductID
		item.Quantity = quantity
		c.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, events.TopicCart, events.TypeCartItemUpdated, contracts.CartItemUpdated{
		UserID:      userID,
		ItemID:      itemID,
		ProductID:   productID,
		OldQuantity: oldQuantity,
		NewQuantity: quantity,
	})
	return cart, nil
}

// RemoveItem removes a cart line.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error) {
	var productID string
	cart, err := s.repo.Update(ctx, userID, func(c *domain.Cart) error {
		for i := range c.Items {
			if c.Items[i].ItemID == itemID {
				productID = c.Items[i].ProductID
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
				c.UpdatedAt = time.Now().UTC()
				return nil
			}
		}
		return domain.ErrItemNotFound
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, events.TopicCart, events.TypeCartItemRemoved, contracts.CartItemRemoved{
		UserID:    userID,
		ItemID:    itemID,
		ProductID: productID,
	})
	return cart, nil
}

// Clear removes every item from the user's cart.
func (s *Service) Clear(ctx context.Context, userID string) (int, error) {
	var removed int
	_, err := s.repo.Update(ctx, userID, func(c *domain.Cart) error {
		removed = len(c.Items)
		c.Items = []domain.Item{}
		c.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.emitter.Emit(ctx, events.TopicCart, events.TypeCartCleared, contracts.CartCleared{
		UserID:       userID,
		ItemsRemoved: removed,
	})
	return removed, nil
}

// Get returns the user's cart, creating an empty one on first access.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.repo.Upsert(ctx, userID, func(*domain.Cart) error { return nil })
}

// CheckoutResult is the caller-facing summary of a completed checkout.
type CheckoutResult struct {
	OrderID string  `json:"order_id"`
	Total   float64 `json:"total"`
	Status  string  `json:"status"`
}

// Checkout snapshots the cart into an immutable order payload, clears the
// cart, and emits order.created followed by cart.checkout_completed.
//
// The cart clears even when the order.created publish fails: checkout is not
// atomic with order creation downstream, and a lost event is an accepted
// weak-consistency gap, recovered by the operator, not by rollback.
func (s *Service) Checkout(ctx context.Context, userID string) (*CheckoutResult, error) {
	var order contracts.OrderSnapshot
	now := time.Now().UTC()

	_, err := s.repo.Update(ctx, userID, func(c *domain.Cart) error {
		if len(c.Items) == 0 {
			return domain.ErrEmptyCart
		}

		subtotal := c.Subtotal()
		order = contracts.OrderSnapshot{
			OrderID:   types.NewID("order", 8),
			UserID:    userID,
			Items:     snapshotItems(c.Items),
			Subtotal:  subtotal,
			Tax:       types.Round2(subtotal * taxRate),
			Total:     types.Round2(subtotal * (1 + taxRate)),
			Status:    "pending",
			CreatedAt: now,
		}

		c.Items = []domain.Item{}
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, events.TopicOrder, events.TypeOrderCreated, contracts.OrderCreated{Order: order})
	s.emitter.Emit(ctx, events.TopicCart, events.TypeCartCheckoutCompleted, contracts.CartCheckoutCompleted{
		UserID:  userID,
		OrderID: order.OrderID,
		Total:   order.Total,
	})

	s.logger.Info("checkout completed",
		slog.String("user_id", userID),
		slog.String("order_id", order.OrderID),
		slog.Float64("total", order.Total),
	)
	return &CheckoutResult{OrderID: order.OrderID, Total: order.Total, Status: order.Status}, nil
}

func (s *Service) resolveProduct(ctx context.Context, in AddItemInput) ProductInfo {
	info, err := s.catalog.GetProduct(ctx, in.ProductID)
	if err == nil {
		return info
	}

	s.logger.Warn("product lookup failed, falling back to caller hints",
		slog.String("product_id", in.ProductID),
		slog.Any("error", err),
	)
	name := in.ProductName
	if name == "" {
		name = "Product " + in.ProductID
	}
	return ProductInfo{Name: name, Price: in.UnitPrice}
}

func snapshotItems(items []domain.Item) []contracts.OrderItem {
	snapshot := make([]contracts.OrderItem, len(items))
	for i, item := range items {
		snapshot[i] = contracts.OrderItem{
			ItemID:      item.ItemID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	return snapshot
}
