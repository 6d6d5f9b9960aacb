// Package eventhandlers contains the cart module's inbound event handlers.
package eventhandlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/rai/commerce-saga-go/modules/cart/domain"
	"github.com/rai/commerce-saga-go/modules/shared/events"
	"github.com/rai/commerce-saga-go/modules/shared/events/contracts"
)

// ProductUpdatedHandler keeps cached cart-line prices in sync with the
// catalog. Only live carts are touched; placed orders carry an immutable
// item snapshot and are never rewritten.
type ProductUpdatedHandler struct {
	repo   domain.Repository
	logger *slog.Logger
}

func NewProductUpdatedHandler(repo domain.Repository, logger *slog.Logger) *ProductUpdatedHandler {
	return &ProductUpdatedHandler{repo: repo, logger: logger}
}

func (h *ProductUpdatedHandler) Handle(ctx context.Context, env events.Envelope) error {
	var evt contracts.ProductUpdated
	if err := env.DecodeData(&evt); err != nil {
		h.logger.Warn("ignoring malformed product.updated payload",
			slog.String("event_id", env.ID),
			slog.Any("error", err),
		)
		return nil
	}

	if evt.ProductID == "" {
		return nil
	}
	if _, priceChanged := evt.Changes["price"]; !priceChanged {
		return nil
	}

	newPrice := evt.Product.Price
	updated := 0
	err := h.repo.UpdateEach(ctx, func(c *domain.Cart) bool {
		changed := false
		for i := range c.Items {
			if c.Items[i].ProductID == evt.ProductID && c.Items[i].UnitPrice != newPrice {
				c.Items[i].UnitPrice = newPrice
				changed = true
				updated++
			}
		}
		if changed {
			c.UpdatedAt = time.Now().UTC()
		}
		return changed
	})
	if err != nil {
		return err
	}

	if updated > 0 {
		h.logger.Info("synced cart prices after product update",
			slog.String("product_id", evt.ProductID),
			slog.Float64("price", newPrice),
			slog.Int("lines_updated", updated),
		)
	}
	return nil
}
