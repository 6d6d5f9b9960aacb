package domain

import "context"

// Repository abstracts product persistence.
type Repository interface {
	// Get returns the product or ErrProductNotFound.
	Get(ctx context.Context, productID string) (*Product, error)

	// List returns all products, optionally filtered by category.
	List(ctx context.Context, category string) ([]*Product, error)

	// Create stores a new product.
	Create(ctx context.Context, product *Product) error

	// Update applies fn to the stored product under the repository's
	// concurrency control and returns the updated copy.
	Update(ctx context.Context, productID string, fn func(*Product) error) (*Product, error)

	// Delete removes the product or returns ErrProductNotFound.
	Delete(ctx context.Context, productID string) error
}
