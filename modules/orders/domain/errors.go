package domain

import "errors"

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrOrderExists    = errors.New("order already exists")
	ErrInvalidStatus  = errors.New("unrecognized order status")
	ErrUserIDRequired = errors.New("user_id is required")
	ErrNoItems        = errors.New("order has no items")
)
