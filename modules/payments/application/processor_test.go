package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/rai/commerce-saga-go/modules/payments/application"
	"github.com/rai/commerce-saga-go/modules/payments/domain"
	"github.com/rai/commerce-saga-go/modules/payments/infrastructure/persistence"
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

func newProcessor(publisher events.Publisher, simulate bool, rate float64) *application.Processor {
	return application.NewProcessor(persistence.NewInMemoryRepository(), publisher, testLogger(), simulate, rate)
}

func TestProcessor_Process_Success(t *testing.T) {
	publisher := &recordingPublisher{}
	processor := newProcessor(publisher, false, 0)

	payment, err := processor.Process(context.Background(), application.ProcessInput{
		OrderID:      "order-abc12345",
		UserID:       "user-1",
		Amount:       329.99,
		CardLastFour: "4242",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payment.Status != domain.StatusCompleted {
		t.Errorf("expected status completed, got %s", payment.Status)
	}
	if payment.TransactionID == "" {
		t.Error("expected a transaction ID on a completed payment")
	}
	if payment.ProcessedAt == nil {
		t.Error("expected processed timestamp")
	}
	if payment.Currency != "USD" {
		t.Errorf("expected currency USD, got %q", payment.Currency)
	}
	if payment.Method != "credit_card" {
		t.Errorf("expected default method credit_card, got %q", payment.Method)
	}

	completed := publisher.byType(events.TypePaymentCompleted)
	if len(completed) != 1 {
		t.Fatalf("expected one payment.completed event, got %d", len(completed))
	}
	var payload contracts.PaymentCompleted
	if err := completed[0].DecodeData(&payload); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if payload.OrderID != "order-abc12345" || payload.Amount != 329.99 {
		t.Errorf("unexpected payload: %+v", payload)
	}
	if len(publisher.byType(events.TypePaymentFailed)) != 0 {
		t.Error("expected no payment.failed event on success")
	}
}

func TestProcessor_Process_Declined(t *testing.T) {
	publisher := &recordingPublisher{}
	processor := newProcessor(publisher, true, 0.1)
	processor.SetFailureRoll(func() float64 { return 0.0 }) // Always below the rate.

	payment, err := processor.Process(context.Background(), application.ProcessInput{
		OrderID: "order-abc12345",
		UserID:  "user-1",
		Amount:  329.99,
	})
	if err != nil {
		t.Fatalf("a decline is a result, not an error: %v", err)
	}

	if payment.Status != domain.StatusFailed {
		t.Errorf("expected status failed, got %s", payment.Status)
	}
	if payment.Error != "CARD_DECLINED" {
		t.Errorf("expected CARD_DECLINED, got %q", payment.Error)
	}
	if payment.TransactionID != "" {
		t.Error("expected no transaction ID on a declined payment")
	}

	failed := publisher.byType(events.TypePaymentFailed)
	if len(failed) != 1 {
		t.Fatalf("expected one payment.failed event, got %d", len(failed))
	}
	if len(publisher.byType(events.TypePaymentCompleted)) != 0 {
		t.Error("expected no payment.completed event on decline")
	}
}

func TestProcessor_Process_FailureSimulationDisabled(t *testing.T) {
	processor := newProcessor(&recordingPublisher{}, false, 1.0)
	processor.SetFailureRoll(func() float64 { return 0.0 })

	payment, err := processor.Process(context.Background(), application.ProcessInput{
		OrderID: "order-abc12345",
		Amount:  10.00,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.Status != domain.StatusCompleted {
		t.Errorf("expected success with simulation off, got %s", payment.Status)
	}
}

func TestProcessor_Process_ExplicitMethod(t *testing.T) {
	processor := newProcessor(&recordingPublisher{}, false, 0)

	payment, err := processor.Process(context.Background(), application.ProcessInput{
		OrderID: "order-abc12345",
		UserID:  "user-1",
		Amount:  50,
		Method:  "paypal",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.Method != "paypal" {
		t.Errorf("expected method paypal, got %q", payment.Method)
	}
}

func TestProcessor_Process_Validation(t *testing.T) {
	processor := newProcessor(&recordingPublisher{}, false, 0)

	_, err := processor.Process(context.Background(), application.ProcessInput{Amount: 10})
	if !errors.Is(err, domain.ErrOrderIDRequired) {
		t.Errorf("expected ErrOrderIDRequired, got %v", err)
	}

	_, err = processor.Process(context.Background(), application.ProcessInput{OrderID: "order-1", Amount: 0})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestProcessor_Refund(t *testing.T) {
	publisher := &recordingPublisher{}
	processor := newProcessor(publisher, false, 0)

	ctx := context.Background()
	payment, _ := processor.Process(ctx, application.ProcessInput{
		OrderID: "order-abc12345",
		Amount:  329.99,
	})

	refunded, err := processor.Refund(ctx, payment.PaymentID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refunded.Status != domain.StatusRefunded {
		t.Errorf("expected status refunded, got %s", refunded.Status)
	}
	if refunded.RefundID == "" || refunded.RefundedAt == nil {
		t.Errorf("expected refund ID and timestamp, got %+v", refunded)
	}
	if len(publisher.byType(events.TypePaymentRefunded)) != 1 {
		t.Error("expected one payment.refunded event")
	}
}

func TestProcessor_Refund_NotRefundable(t *testing.T) {
	processor := newProcessor(&recordingPublisher{}, true, 1.0)
	processor.SetFailureRoll(func() float64 { return 0.0 })

	ctx := context.Background()
	declined, _ := processor.Process(ctx, application.ProcessInput{
		OrderID: "order-abc12345",
		Amount:  10.00,
	})

	if _, err := processor.Refund(ctx, declined.PaymentID); !errors.Is(err, domain.ErrNotRefundable) {
		t.Errorf("expected ErrNotRefundable for a declined payment, got %v", err)
	}
}

func TestProcessor_Refund_Twice(t *testing.T) {
	processor := newProcessor(&recordingPublisher{}, false, 0)

	ctx := context.Background()
	payment, _ := processor.Process(ctx, application.ProcessInput{
		OrderID: "order-abc12345",
		Amount:  10.00,
	})
	if _, err := processor.Refund(ctx, payment.PaymentID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := processor.Refund(ctx, payment.PaymentID); !errors.Is(err, domain.ErrNotRefundable) {
		t.Errorf("expected second refund to be rejected, got %v", err)
	}
}

func TestProcessor_GetByOrder(t *testing.T) {
	processor := newProcessor(&recordingPublisher{}, false, 0)

	ctx := context.Background()
	created, _ := processor.Process(ctx, application.ProcessInput{OrderID: "order-abc12345", Amount: 50})

	payment, err := processor.GetByOrder(ctx, "order-abc12345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.PaymentID != created.PaymentID {
		t.Errorf("expected payment %s, got %s", created.PaymentID, payment.PaymentID)
	}

	if _, err := processor.GetByOrder(ctx, "order-none"); !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Errorf("expected ErrPaymentNotFound, got %v", err)
	}
}
