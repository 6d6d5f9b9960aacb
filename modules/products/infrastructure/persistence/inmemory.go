// Package persistence provides product repository implementations.
package persistence

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rai/commerce-saga-go/modules/products/domain"
)

// InMemoryRepository is a mutex-guarded in-process product store.
type InMemoryRepository struct {
	mu       sync.Mutex
	products map[string]*domain.Product
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{products: make(map[string]*domain.Product)}
}

func (r *InMemoryRepository) Get(ctx context.Context, productID string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}
	return product.Clone(), nil
}

func (r *InMemoryRepository) List(ctx context.Context, category string) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if category != "" && product.Category != category {
			continue
		}
		result = append(result, product.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[product.ProductID] = product.Clone()
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, productID string, fn func(*domain.Product) error) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}

	// Mutate a copy and swap on success so a failing mutator can never
	// leave a partial write behind.
	updated := product.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	r.products[productID] = updated
	return updated.Clone(), nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[productID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}
	delete(r.products, productID)
	return nil
}

var _ domain.Repository = (*InMemoryRepository)(nil)
