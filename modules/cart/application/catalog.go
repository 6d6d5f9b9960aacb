package application

import "context"

// ProductInfo is what the cart needs to know about a product when a new line
// is added.
type ProductInfo struct {
	Name  string
	Price float64
}

// ProductCatalog is the synchronous lookup to the product collaborator.
// Implementations must bound the call; the cart falls back to caller-supplied
// hints on any error rather than blocking the mutation.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID string) (ProductInfo, error)
}
