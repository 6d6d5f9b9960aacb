// Package eventhandlers contains the orders module's event subscribers.
package eventhandlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rai/commerce-saga-go/modules/orders/application"
	"github.com/rai/commerce-saga-go/modules/orders/domain"
	"github.com/rai/commerce-saga-go/modules/shared/events"
	"github.com/rai/commerce-saga-go/modules/shared/events/contracts"
)

// OrderCreatedHandler reacts to order.created from checkout by confirming
// the order and starting payment and fulfillment.
type OrderCreatedHandler struct {
	service *application.Service
	logger  *slog.Logger
}

func NewOrderCreatedHandler(service *application.Service, logger *slog.Logger) *OrderCreatedHandler {
	return &OrderCreatedHandler{service: service, logger: logger}
}

func (h *OrderCreatedHandler) Handle(ctx context.Context, env events.Envelope) error {
	var payload contracts.OrderCreated
	if err := env.DecodeData(&payload); err != nil {
		h.logger.Warn("malformed order.created payload, acknowledging",
			"event_id", env.ID, "error", err)
		return nil
	}

	_, err := h.service.Confirm(ctx, payload.Order)
	if errors.Is(err, domain.ErrOrderExists) {
		h.logger.Info("order already exists, ignoring redelivery",
			"order_id", payload.Order.OrderID, "event_id", env.ID)
		return nil
	}
	return err
}
