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

// PaymentCompletedHandler settles orders when payment succeeds.
type PaymentCompletedHandler struct {
	service *application.Service
	logger  *slog.Logger
}

func NewPaymentCompletedHandler(service *application.Service, logger *slog.Logger) *PaymentCompletedHandler {
	return &PaymentCompletedHandler{service: service, logger: logger}
}

func (h *PaymentCompletedHandler) Handle(ctx context.Context, env events.Envelope) error {
	var payload contracts.PaymentCompleted
	if err := env.DecodeData(&payload); err != nil {
		h.logger.Warn("malformed payment.completed payload, acknowledging",
			"event_id", env.ID, "error", err)
		return nil
	}

	_, err := h.service.CompletePayment(ctx, payload.OrderID, payload.PaymentID)
	if errors.Is(err, domain.ErrOrderNotFound) {
		// The order may belong to a direct payment with no backing order.
		// Nothing to settle, and retrying will not change that.
		h.logger.Warn("payment completed for unknown order, acknowledging",
			"order_id", payload.OrderID, "payment_id", payload.PaymentID)
		return nil
	}
	return err
}

// PaymentFailedHandler moves orders to payment_failed when the charge is
// declined, unless a successful payment already landed.
type PaymentFailedHandler struct {
	service *application.Service
	logger  *slog.Logger
}

func NewPaymentFailedHandler(service *application.Service, logger *slog.Logger) *PaymentFailedHandler {
	return &PaymentFailedHandler{service: service, logger: logger}
}

func (h *PaymentFailedHandler) Handle(ctx context.Context, env events.Envelope) error {
	var payload contracts.PaymentFailed
	if err := env.DecodeData(&payload); err != nil {
		h.logger.Warn("malformed payment.failed payload, acknowledging",
			"event_id", env.ID, "error", err)
		return nil
	}

	_, err := h.service.FailPayment(ctx, payload.OrderID, payload.Error)
	if errors.Is(err, domain.ErrOrderNotFound) {
		h.logger.Warn("payment failed for unknown order, acknowledging",
			"order_id", payload.OrderID)
		return nil
	}
	return err
}
