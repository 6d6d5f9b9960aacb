package domain

import "errors"

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrNotRefundable   = errors.New("payment is not refundable")
	ErrOrderIDRequired = errors.New("order_id is required")
	ErrInvalidAmount   = errors.New("amount must be positive")
)
