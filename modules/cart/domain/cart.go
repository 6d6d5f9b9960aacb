// Package domain contains business entities and rules for shopping carts.
package domain

import (
	"time"

	"github.com/rai/commerce-saga-go/modules/shared/types"
)

// Item is a cart line. ItemID is unique within the cart; ProductID may appear
// on at most one line (adding the same product increments the quantity).
type Item struct {
	ItemID      string    `json:"item_id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	AddedAt     time.Time `json:"added_at"`
}

// Cart holds a user's pending purchase. It is owned exclusively by the cart
// module and mutated only through its operations.
type Cart struct {
	UserID    string    `json:"user_id"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func New(userID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		UserID:    userID,
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Subtotal is the sum of unit_price × quantity over all lines.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return types.Round2(total)
}

// TotalQuantity is the sum of line quantities.
func (c *Cart) TotalQuantity() int {
	var total int
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// FindItem returns the line with the given item id, or nil.
func (c *Cart) FindItem(itemID string) *Item {
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// FindProduct returns the line referencing the given product id, or nil.
func (c *Cart) FindProduct(productID string) *Item {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Clone returns a deep copy, so repositories can hand out snapshots without
// exposing their internal state to concurrent mutation.
func (c *Cart) Clone() *Cart {
	clone := *c
	clone.Items = make([]Item, len(c.Items))
	copy(clone.Items, c.Items)
	return &clone
}
