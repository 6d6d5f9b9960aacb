// Package domain contains the products domain model.
package domain

import "time"

// Product is a catalog entry with a live stock count.
type Product struct {
	ProductID   string    `json:"product_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Clone returns a copy safe to hand outside the repository.
func (p *Product) Clone() *Product {
	clone := *p
	return &clone
}
