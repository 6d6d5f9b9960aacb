package domain

import "context"

// Repository abstracts order persistence.
type Repository interface {
	// Get returns the order or ErrOrderNotFound.
	Get(ctx context.Context, orderID string) (*Order, error)

	// List returns all orders, optionally filtered by status. An empty
	// status returns everything.
	List(ctx context.Context, status Status) ([]*Order, error)

	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Order, error)

	// Create stores a new order. ErrOrderExists if the ID is taken.
	Create(ctx context.Context, order *Order) error

	// Update applies fn to the stored order under the repository's
	// concurrency control and returns the updated copy.
	Update(ctx context.Context, orderID string, fn func(*Order) error) (*Order, error)
}
