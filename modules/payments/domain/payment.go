// Package domain contains the payments domain model.
package domain

import "time"

// Status is the payment lifecycle status.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusRefunded   Status = "refunded"
	StatusCancelled  Status = "cancelled"
)

// Payment is a charge attempt against an order. A failed payment is kept as
// a record; retries create new payments.
type Payment struct {
	PaymentID     string     `json:"payment_id"`
	OrderID       string     `json:"order_id"`
	UserID        string     `json:"user_id"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Status        Status     `json:"status"`
	Method        string     `json:"payment_method"`
	TransactionID string     `json:"transaction_id,omitempty"`
	CardLastFour  string     `json:"card_last_four,omitempty"`
	Error         string     `json:"error,omitempty"`
	RefundID      string     `json:"refund_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	RefundedAt    *time.Time `json:"refunded_at,omitempty"`
}

// Refundable reports whether the payment can be refunded. Only a completed
// charge that has not already been refunded qualifies.
func (p *Payment) Refundable() bool {
	return p.Status == StatusCompleted
}

// Clone returns a copy safe to hand outside the repository.
func (p *Payment) Clone() *Payment {
	clone := *p
	if p.ProcessedAt != nil {
		t := *p.ProcessedAt
		clone.ProcessedAt = &t
	}
	if p.RefundedAt != nil {
		t := *p.RefundedAt
		clone.RefundedAt = &t
	}
	return &clone
}
