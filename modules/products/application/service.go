// Package application contains the products use cases: catalog CRUD with
// change tracking, and stock adjustments for order fulfillment.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rai/commerce-saga-go/modules/products/domain"
	"github.com/rai/commerce-saga-go/modules/shared/events"
	"github.com/rai/commerce-saga-go/modules/shared/events/contracts"
	"github.com/rai/commerce-saga-go/modules/shared/types"
)

// SourceName identifies this module in event envelopes.
const SourceName = "product-service"

type Service struct {
	repo    domain.Repository
	emitter *events.Emitter
	logger  *slog.Logger
}

func NewService(repo domain.Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo: repo,
		emitter: &events.Emitter{
			Source:    SourceName,
			Publisher: publisher,
			Logger:    logger,
		},
		logger: logger,
	}
}

func (s *Service) Get(ctx context.Context, productID string) (*domain.Product, error) {
	return s.repo.Get(ctx, productID)
}

func (s *Service) List(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.repo.List(ctx, category)
}

// CreateProductInput is a new catalog entry.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Stock       int
}

func (s *Service) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, domain.ErrNameRequired
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("%w: %.2f", domain.ErrInvalidPrice, input.Price)
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ProductID:   types.NewID("prod", 6),
		Name:        input.Name,
		Description: input.Description,
		Price:       types.Round2(input.Price),
		Category:    input.Category,
		Stock:       input.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created", "product_id", product.ProductID, "name", product.Name)
	s.emitter.Emit(ctx, events.TopicProduct, events.TypeProductCreated, contracts.ProductCreated{
		ProductID: product.ProductID,
		Product:   payload(product),
	})
	return product, nil
}

// UpdateProductInput carries the fields to change; nil pointers leave the
// field as is.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Stock       *int
}

// Update applies the given fields and publishes product.updated carrying
// only the fields whose values actually changed. An update that changes
// nothing publishes nothing.
func (s *Service) Update(ctx context.Context, productID string, input UpdateProductInput) (*domain.Product, error) {
	if input.Price != nil && *input.Price < 0 {
		return nil, fmt.Errorf("%w: %.2f", domain.ErrInvalidPrice, *input.Price)
	}

	changes := make(map[string]contracts.FieldChange)
	product, err := s.repo.Update(ctx, productID, func(p *domain.Product) error {
		if input.Name != nil && *input.Name != p.Name {
			changes["name"] = contracts.FieldChange{Old: p.Name, New: *input.Name}
			p.Name = *input.Name
		}
		if input.Description != nil && *input.Description != p.Description {
			changes["description"] = contracts.FieldChange{Old: p.Description, New: *input.Description}
			p.Description = *input.Description
		}
		if input.Price != nil {
			price := types.Round2(*input.Price)
			if price != p.Price {
				changes["price"] = contracts.FieldChange{Old: p.Price, New: price}
				p.Price = price
			}
		}
		if input.Category != nil && *input.Category != p.Category {
			changes["category"] = contracts.FieldChange{Old: p.Category, New: *input.Category}
			p.Category = *input.Category
		}
		if input.Stock != nil && *input.Stock != p.Stock {
			changes["stock"] = contracts.FieldChange{Old: p.Stock, New: *input.Stock}
			p.Stock = *input.Stock
		}
		if len(changes) > 0 {
			p.UpdatedAt = time.Now().UTC()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(changes) == 0 {
		return product, nil
	}

	s.logger.Info("product updated", "product_id", productID, "changed_fields", len(changes))
	s.emitter.Emit(ctx, events.TopicProduct, events.TypeProductUpdated, contracts.ProductUpdated{
		ProductID: productID,
		Product:   payload(product),
		Changes:   changes,
	})
	return product, nil
}

func (s *Service) Delete(ctx context.Context, productID string) error {
	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}

	s.logger.Info("product deleted", "product_id", productID)
	s.emitter.Emit(ctx, events.TopicProduct, events.TypeProductDeleted, contracts.ProductDeleted{
		ProductID: productID,
	})
	return nil
}

// AdjustStock changes the stock level by delta, which may be negative. A
// decrement below zero fails with ErrInsufficientStock and leaves the stock
// unchanged.
func (s *Service) AdjustStock(ctx context.Context, productID string, delta int) (*domain.Product, error) {
	var oldStock int
	product, err := s.repo.Update(ctx, productID, func(p *domain.Product) error {
		if p.Stock+delta < 0 {
			return fmt.Errorf("%w: product %s has %d, requested %d", domain.ErrInsufficientStock, productID, p.Stock, -delta)
		}
		oldStock = p.Stock
		p.Stock += delta
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		"product_id", productID,
		"old_stock", oldStock,
		"new_stock", product.Stock,
		"change", delta,
	)
	s.emitter.Emit(ctx, events.TopicProduct, events.TypeProductStockUpdated, contracts.ProductStockUpdated{
		ProductID: productID,
		OldStock:  oldStock,
		NewStock:  product.Stock,
		Change:    delta,
	})
	return product, nil
}

func payload(p *domain.Product) contracts.ProductPayload {
	return contracts.ProductPayload{
		ID:          p.ProductID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Stock:       p.Stock,
	}
}
