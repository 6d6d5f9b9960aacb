// Package eventhandlers contains the products module's event subscribers.
package eventhandlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rai/commerce-saga-go/modules/products/application"
	"github.com/rai/commerce-saga-go/modules/products/domain"
	"github.com/rai/commerce-saga-go/modules/shared/events"
	"github.com/rai/commerce-saga-go/modules/shared/events/contracts"
)

// OrderPlacedHandler decrements stock for each line of a placed order. Lines
// that cannot be fulfilled are logged and skipped; inventory is best effort
// and never fails the workflow.
type OrderPlacedHandler struct {
	service *application.Service
	logger  *slog.Logger
}

func NewOrderPlacedHandler(service *application.Service, logger *slog.Logger) *OrderPlacedHandler {
	return &OrderPlacedHandler{service: service, logger: logger}
}

func (h *OrderPlacedHandler) Handle(ctx context.Context, env events.Envelope) error {
	var payload contracts.OrderPlaced
	if err := env.DecodeData(&payload); err != nil {
		h.logger.Warn("malformed order.placed payload, acknowledging",
			"event_id", env.ID, "error", err)
		return nil
	}

	for _, item := range payload.Items {
		_, err := h.service.AdjustStock(ctx, item.ProductID, -item.Quantity)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrInsufficientStock):
			h.logger.Warn("insufficient stock for order line, skipping",
				"order_id", payload.OrderID,
				"product_id", item.ProductID,
				"quantity", item.Quantity,
			)
		case errors.Is(err, domain.ErrProductNotFound):
			h.logger.Warn("unknown product on order line, skipping",
				"order_id", payload.OrderID,
				"product_id", item.ProductID,
			)
		default:
			return err
		}
	}
	return nil
}
