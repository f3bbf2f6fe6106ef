package repository

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrVariantNotFound   = errors.New("variant not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCouponNotFound    = errors.New("coupon not found")
	ErrOrderNotFound     = errors.New("order not found")
)
