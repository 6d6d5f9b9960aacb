package domain

import "context"

// Repository abstracts payment persistence.
type Repository interface {
	// Get returns the payment or ErrPaymentNotFound.
	Get(ctx context.Context, paymentID string) (*Payment, error)

	// GetByOrder returns the most recent payment for the order, or
	// ErrPaymentNotFound when none exists.
	GetByOrder(ctx context.Context, orderID string) (*Payment, error)

	// List returns all payments, newest first.
	List(ctx context.Context) ([]*Payment, error)

	// Create stores a new payment.
	Create(ctx context.Context, payment *Payment) error

	// Update applies fn to the stored payment under the repository's
	// concurrency control and returns the updated copy.
	Update(ctx context.Context, paymentID string, fn func(*Payment) error) (*Payment, error)
}
