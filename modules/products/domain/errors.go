package domain

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNameRequired      = errors.New("name is required")
	ErrInvalidPrice      = errors.New("price must not be negative")
)
