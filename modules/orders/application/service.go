// Package application contains the orders use cases. The orders module is
// the workflow orchestrator: it confirms incoming orders, requests payment,
// and settles the final order state from payment results.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rai/commerce-saga-go/modules/orders/domain"
	"github.com/rai/commerce-saga-go/modules/shared/events"
	"github.com/rai/commerce-saga-go/modules/shared/events/contracts"
	"github.com/rai/commerce-saga-go/modules/shared/types"
)

// SourceName identifies this module in event envelopes.
const SourceName = "order-service"

const (
	taxRate     = 0.08
	shippingFee = 5.99
)

type Service struct {
	repo    domain.Repository
	emitter *events.Emitter
	logger  *slog.Logger
}

func NewService(repo domain.Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo: repo,
		emitter: &events.Emitter{
			Source:    SourceName,
			Publisher: publisher,
			Logger:    logger,
		},
		logger: logger,
	}
}

func (s *Service) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.repo.Get(ctx, orderID)
}

func (s *Service) List(ctx context.Context, status string) ([]*domain.Order, error) {
	if status != "" && !domain.Status(status).IsValid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidStatus, status)
	}
	return s.repo.List(ctx, domain.Status(status))
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// CreateOrderInput is the direct order creation request, bypassing the cart.
type CreateOrderInput struct {
	UserID string
	Items  []domain.Item
}

// Create builds and confirms an order directly from the given lines. It runs
// the same confirmation step the checkout flow triggers through the
// order.created event, so both paths leave the workflow in the same state.
func (s *Service) Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if input.UserID == "" {
		return nil, domain.ErrUserIDRequired
	}
	if len(input.Items) == 0 {
		return nil, domain.ErrNoItems
	}

	var subtotal float64
	items := make([]domain.Item, len(input.Items))
	for i, item := range input.Items {
		if item.ItemID == "" {
			item.ItemID = types.NewID("item", 8)
		}
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		items[i] = item
		subtotal += item.UnitPrice * float64(item.Quantity)
	}
	subtotal = types.Round2(subtotal)
	tax := types.Round2(subtotal * taxRate)

	now := time.Now().UTC()
	order := &domain.Order{
		OrderID:       types.NewID("order", 8),
		UserID:        input.UserID,
		Items:         items,
		Subtotal:      subtotal,
		Tax:           tax,
		Shipping:      shippingFee,
		Total:         types.Round2(subtotal + tax + shippingFee),
		Status:        domain.StatusConfirmed,
		PaymentStatus: domain.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		"order_id", order.OrderID,
		"user_id", order.UserID,
		"total", order.Total,
	)
	s.emitConfirmation(ctx, order)
	return order, nil
}

// Confirm finalizes an order arriving from checkout: it adds the shipping
// fee to the cart's total, stores the order as confirmed, and kicks off
// payment and fulfillment. A redelivered snapshot for an existing order is
// acknowledged without side effects.
func (s *Service) Confirm(ctx context.Context, snapshot contracts.OrderSnapshot) (*domain.Order, error) {
	now := time.Now().UTC()
	order := &domain.Order{
		OrderID:       snapshot.OrderID,
		UserID:        snapshot.UserID,
		Items:         make([]domain.Item, len(snapshot.Items)),
		Subtotal:      snapshot.Subtotal,
		Tax:           snapshot.Tax,
		Shipping:      shippingFee,
		Total:         types.Round2(snapshot.Total + shippingFee),
		Status:        domain.StatusConfirmed,
		PaymentStatus: domain.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i, item := range snapshot.Items {
		order.Items[i] = domain.Item{
			ItemID:      item.ItemID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("order confirmed",
		"order_id", order.OrderID,
		"user_id", order.UserID,
		"total", order.Total,
	)
	s.emitConfirmation(ctx, order)
	return order, nil
}

// CompletePayment settles a successful payment against the order.
func (s *Service) CompletePayment(ctx context.Context, orderID, paymentID string) (*domain.Order, error) {
	var changed bool
	order, err := s.repo.Update(ctx, orderID, func(o *domain.Order) error {
		changed = o.MarkPaid(paymentID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		s.logger.Info("order already paid, ignoring completion",
			"order_id", orderID, "payment_id", paymentID)
		return order, nil
	}

	s.logger.Info("order paid", "order_id", orderID, "payment_id", paymentID)
	s.emitter.Emit(ctx, events.TopicOrder, events.TypeOrderPaid, contracts.OrderPaid{
		OrderID:   orderID,
		PaymentID: paymentID,
		Status:    string(domain.StatusPaid),
	})
	return order, nil
}

// FailPayment records a declined payment against the order. A failure for
// an order that was already paid is stale and left alone.
func (s *Service) FailPayment(ctx context.Context, orderID, reason string) (*domain.Order, error) {
	var changed bool
	order, err := s.repo.Update(ctx, orderID, func(o *domain.Order) error {
		changed = o.MarkPaymentFailed(reason)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		s.logger.Warn("stale payment failure for paid order, ignoring",
			"order_id", orderID)
		return order, nil
	}

	s.logger.Warn("order payment failed", "order_id", orderID, "reason", reason)
	return order, nil
}

// UpdateStatus applies a manual status override. Any recognized status is
// accepted regardless of the current one; this is the operator escape hatch
// for straightening out a wedged workflow.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status domain.Status) (*domain.Order, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidStatus, status)
	}

	var oldStatus domain.Status
	order, err := s.repo.Update(ctx, orderID, func(o *domain.Order) error {
		oldStatus = o.Status
		o.Status = status
		o.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status changed",
		"order_id", orderID,
		"old_status", oldStatus,
		"new_status", status,
	)
	s.emitter.Emit(ctx, events.TopicOrder, events.TypeOrderStatusChanged, contracts.OrderStatusChanged{
		OrderID:   orderID,
		OldStatus: string(oldStatus),
		NewStatus: string(status),
	})
	return order, nil
}

// emitConfirmation publishes the three events that drive the rest of the
// workflow: payment processing, inventory reservation, and the public
// confirmation record.
func (s *Service) emitConfirmation(ctx context.Context, order *domain.Order) {
	s.emitter.Emit(ctx, events.TopicPayment, events.TypePaymentRequested, contracts.PaymentRequested{
		OrderID: order.OrderID,
		UserID:  order.UserID,
		Amount:  order.Total,
	})

	placedItems := make([]contracts.OrderItem, len(order.Items))
	for i, item := range order.Items {
		placedItems[i] = contracts.OrderItem{
			ItemID:      item.ItemID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	s.emitter.Emit(ctx, events.TopicProduct, events.TypeOrderPlaced, contracts.OrderPlaced{
		OrderID: order.OrderID,
		Items:   placedItems,
	})

	s.emitter.Emit(ctx, events.TopicOrder, events.TypeOrderConfirmed, contracts.OrderConfirmed{
		OrderID: order.OrderID,
		Status:  string(domain.StatusConfirmed),
	})
}
