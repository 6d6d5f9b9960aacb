// Package contracts defines the public event payloads exchanged between
// modules. Modules import payload types from here, NOT from another module's
// domain package, so the wire contract stays stable while domains evolve.
package contracts

import "time"

// OrderItem is a line item inside an order snapshot. The snapshot is taken at
// checkout and is immutable thereafter: later price changes never alter it.
type OrderItem struct {
	ItemID      string  `json:"item_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// OrderSnapshot is the full order payload carried by order.created.
type OrderSnapshot struct {
	OrderID   string      `json:"order_id"`
	UserID    string      `json:"user_id"`
	Items     []OrderItem `json:"items"`
	Subtotal  float64     `json:"subtotal"`
	Tax       float64     `json:"tax"`
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderCreated announces a checkout to the order orchestrator.
type OrderCreated struct {
	Order OrderSnapshot `json:"order"`
}

// OrderConfirmed is emitted once the orchestrator has persisted the order.
type OrderConfirmed struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// OrderPaid is emitted when a payment result marks the order paid.
type OrderPaid struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

// OrderStatusChanged is emitted by the manual status override endpoint.
type OrderStatusChanged struct {
	OrderID   string `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// OrderPlaced asks the inventory reactor to decrement stock for each line.
type OrderPlaced struct {
	OrderID string      `json:"order_id"`
	Items   []OrderItem `json:"items"`
}
