// Package domain contains the orders domain model.
package domain

import "time"

// Item is a single order line, captured from the cart at checkout time.
type Item struct {
	ItemID      string  `json:"item_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Order is the aggregate the orchestrator drives through the purchase
// workflow. Totals are fixed at creation; only status and the payment
// fields change afterwards.
type Order struct {
	OrderID       string        `json:"order_id"`
	UserID        string        `json:"user_id"`
	Items         []Item        `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	Tax           float64       `json:"tax"`
	Shipping      float64       `json:"shipping"`
	Total         float64       `json:"total"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentID     string        `json:"payment_id,omitempty"`
	PaymentError  string        `json:"payment_error,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// MarkPaid records a successful payment. It is a no-op when the order is
// already paid so redelivered completions cannot regress state.
func (o *Order) MarkPaid(paymentID string) bool {
	if o.PaymentStatus == PaymentStatusPaid {
		return false
	}
	o.Status = StatusPaid
	o.PaymentStatus = PaymentStatusPaid
	o.PaymentID = paymentID
	o.PaymentError = ""
	o.UpdatedAt = time.Now().UTC()
	return true
}

// MarkPaymentFailed records a declined payment. Failures arriving after a
// successful payment are stale and ignored.
func (o *Order) MarkPaymentFailed(reason string) bool {
	if o.PaymentStatus == PaymentStatusPaid {
		return false
	}
	o.Status = StatusPaymentFailed
	o.PaymentStatus = PaymentStatusFailed
	o.PaymentError = reason
	o.UpdatedAt = time.Now().UTC()
	return true
}

// Clone returns a deep copy so callers can hand orders across goroutines
// without aliasing repository state.
func (o *Order) Clone() *Order {
	clone := *o
	clone.Items = make([]Item, len(o.Items))
	copy(clone.Items, o.Items)
	return &clone
}
