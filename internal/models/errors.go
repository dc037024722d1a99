package models

import "errors"

// Common errors used throughout the application
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidCartItem   = errors.New("invalid cart item")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidTemplate   = errors.New("invalid coupon template")
	ErrCouponNotFound    = errors.New("coupon not found")
)
