package contracts

// CartItemAdded is emitted after an item is added or its quantity increased.
type CartItemAdded struct {
	UserID    string  `json:"user_id"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	CartTotal float64 `json:"cart_total"`
}

// CartItemUpdated is emitted after a cart line quantity change.
type CartItemUpdated struct {
	UserID      string `json:"user_id"`
	ItemID      string `json:"item_id"`
	ProductID   string `json:"product_id"`
	OldQuantity int    `json:"old_quantity"`
	NewQuantity int    `json:"new_quantity"`
}

// CartItemRemoved is emitted after a cart line is removed.
type CartItemRemoved struct {
	UserID    string `json:"user_id"`
	ItemID    string `json:"item_id"`
	ProductID string `json:"product_id"`
}

// CartCleared is emitted after all items are removed from a cart.
type CartCleared struct {
	UserID       string `json:"user_id"`
	ItemsRemoved int    `json:"items_removed"`
}

// CartCheckoutCompleted is emitted after a checkout cleared the cart.
type CartCheckoutCompleted struct {
	UserID  string  `json:"user_id"`
	OrderID string  `json:"order_id"`
	Total   float64 `json:"total"`
}
