// Package eventhandlers contains the payments module's event subscribers.
package eventhandlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rai/commerce-saga-go/modules/payments/application"
	"github.com/rai/commerce-saga-go/modules/payments/domain"
	"github.com/rai/commerce-saga-go/modules/shared/events"
	"github.com/rai/commerce-saga-go/modules/shared/events/contracts"
)

// PaymentRequestedHandler charges orders as payment requests arrive. An
// order that already has a payment on file is skipped, so redeliveries do
// not double-charge.
type PaymentRequestedHandler struct {
	processor *application.Processor
	logger    *slog.Logger
}

func NewPaymentRequestedHandler(processor *application.Processor, logger *slog.Logger) *PaymentRequestedHandler {
	return &PaymentRequestedHandler{processor: processor, logger: logger}
}

func (h *PaymentRequestedHandler) Handle(ctx context.Context, env events.Envelope) error {
	var payload contracts.PaymentRequested
	if err := env.DecodeData(&payload); err != nil {
		h.logger.Warn("malformed payment.requested payload, acknowledging",
			"event_id", env.ID, "error", err)
		return nil
	}

	existing, err := h.processor.GetByOrder(ctx, payload.OrderID)
	if err == nil {
		h.logger.Info("payment already exists for order, ignoring redelivery",
			"order_id", payload.OrderID, "payment_id", existing.PaymentID)
		return nil
	}
	if !errors.Is(err, domain.ErrPaymentNotFound) {
		return err
	}

	_, err = h.processor.Process(ctx, application.ProcessInput{
		OrderID: payload.OrderID,
		UserID:  payload.UserID,
		Amount:  payload.Amount,
	})
	return err
}
