package service

import "errors"

var (
	// ErrTxConflict means the order transaction lost a race and was rolled
	// back with no effect. Safe to retry with a fresh cart.
	ErrTxConflict = errors.New("checkout transaction conflict")

	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("line quantity must be positive")
)
