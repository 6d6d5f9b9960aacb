// Package application contains the payments use cases. The processor
// simulates a payment gateway: charges either succeed with a transaction ID
// or are declined, and completed charges can be refunded.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/rai/commerce-saga-go/modules/payments/domain"
	"github.com/rai/commerce-saga-go/modules/shared/events"
	"github.com/rai/commerce-saga-go/modules/shared/events/contracts"
	"github.com/rai/commerce-saga-go/modules/shared/types"
)

// SourceName identifies this module in event envelopes.
const SourceName = "payment-service"

// declineCode is the gateway error reported on a simulated decline.
const declineCode = "CARD_DECLINED"

// currency is fixed for every charge; multi-currency is not modeled.
const currency = "USD"

// defaultMethod is used when the charge request does not name one.
const defaultMethod = "credit_card"

type Processor struct {
	repo    domain.Repository
	emitter *events.Emitter
	logger  *slog.Logger

	simulateFailures bool
	failureRate      float64
	failureRoll      func() float64
}

func NewProcessor(repo domain.Repository, publisher events.Publisher, logger *slog.Logger, simulateFailures bool, failureRate float64) *Processor {
	return &Processor{
		repo: repo,
		emitter: &events.Emitter{
			Source:    SourceName,
			Publisher: publisher,
			Logger:    logger,
		},
		logger:           logger,
		simulateFailures: simulateFailures,
		failureRate:      failureRate,
		failureRoll:      rand.Float64,
	}
}

func (p *Processor) Get(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return p.repo.Get(ctx, paymentID)
}

func (p *Processor) GetByOrder(ctx context.Context, orderID string) (*domain.Payment, error) {
	return p.repo.GetByOrder(ctx, orderID)
}

// List returns payments, optionally filtered by status. An empty status
// returns everything.
func (p *Processor) List(ctx context.Context, status domain.Status) ([]*domain.Payment, error) {
	payments, err := p.repo.List(ctx)
	if err != nil || status == "" {
		return payments, err
	}

	filtered := payments[:0]
	for _, payment := range payments {
		if payment.Status == status {
			filtered = append(filtered, payment)
		}
	}
	return filtered, nil
}

// ProcessInput is a charge request.
type ProcessInput struct {
	OrderID      string
	UserID       string
	Amount       float64
	Method       string
	CardLastFour string
}

// Process runs a charge attempt. Both outcomes are stored and published; a
// decline is a normal workflow result, not an error, so callers inspect the
// returned payment's status.
func (p *Processor) Process(ctx context.Context, input ProcessInput) (*domain.Payment, error) {
	if input.OrderID == "" {
		return nil, domain.ErrOrderIDRequired
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: %.2f", domain.ErrInvalidAmount, input.Amount)
	}

	method := input.Method
	if method == "" {
		method = defaultMethod
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		PaymentID:    types.NewID("pay", 8),
		OrderID:      input.OrderID,
		UserID:       input.UserID,
		Amount:       types.Round2(input.Amount),
		Currency:     currency,
		Status:       domain.StatusProcessing,
		Method:       method,
		CardLastFour: input.CardLastFour,
		CreatedAt:    now,
	}

	processedAt := time.Now().UTC()
	payment.ProcessedAt = &processedAt

	if p.simulateFailures && p.failureRoll() < p.failureRate {
		payment.Status = domain.StatusFailed
		payment.Error = declineCode
	} else {
		payment.Status = domain.StatusCompleted
		payment.TransactionID = types.NewID("txn", 12)
	}

	if err := p.repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	if payment.Status == domain.StatusCompleted {
		p.logger.Info("payment completed",
			"payment_id", payment.PaymentID,
			"order_id", payment.OrderID,
			"amount", payment.Amount,
			"transaction_id", payment.TransactionID,
		)
		p.emitter.Emit(ctx, events.TopicPayment, events.TypePaymentCompleted, contracts.PaymentCompleted{
			PaymentID:     payment.PaymentID,
			OrderID:       payment.OrderID,
			UserID:        payment.UserID,
			Amount:        payment.Amount,
			TransactionID: payment.TransactionID,
		})
	} else {
		p.logger.Warn("payment declined",
			"payment_id", payment.PaymentID,
			"order_id", payment.OrderID,
			"amount", payment.Amount,
		)
		p.emitter.Emit(ctx, events.TopicPayment, events.TypePaymentFailed, contracts.PaymentFailed{
			PaymentID: payment.PaymentID,
			OrderID:   payment.OrderID,
			UserID:    payment.UserID,
			Amount:    payment.Amount,
			Error:     payment.Error,
		})
	}
	return payment.Clone(), nil
}

// Refund reverses a completed payment.
func (p *Processor) Refund(ctx context.Context, paymentID string) (*domain.Payment, error) {
	var refundID string
	payment, err := p.repo.Update(ctx, paymentID, func(pay *domain.Payment) error {
		if !pay.Refundable() {
			return fmt.Errorf("%w: status is %s", domain.ErrNotRefundable, pay.Status)
		}
		refundID = types.NewID("ref", 8)
		refundedAt := time.Now().UTC()
		pay.Status = domain.StatusRefunded
		pay.RefundID = refundID
		pay.RefundedAt = &refundedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("payment refunded",
		"payment_id", payment.PaymentID,
		"refund_id", refundID,
		"order_id", payment.OrderID,
		"amount", payment.Amount,
	)
	p.emitter.Emit(ctx, events.TopicPayment, events.TypePaymentRefunded, contracts.PaymentRefunded{
		PaymentID: payment.PaymentID,
		RefundID:  refundID,
		OrderID:   payment.OrderID,
		Amount:    payment.Amount,
	})
	return payment, nil
}

// SetFailureRoll overrides the gateway outcome roll. Test hook.
func (p *Processor) SetFailureRoll(roll func() float64) {
	p.failureRoll = roll
}
