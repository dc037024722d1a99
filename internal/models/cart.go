package models

import (
	"fmt"
	"time"
)

// Cart is the list of coupons a resident intends to book.
// It lives in the browser session and is never sent upstream as a whole.
type Cart struct {
	Items []CartItem `json:"items"`
}

// CartItem is one pending booking
type CartItem struct {
	ID         string     `json:"id"`
	Day        time.Time  `json:"day"`
	Meal       Meal       `json:"meal"`
	Preference Preference `json:"preference"`
	Quantity   int        `json:"quantity"`
}

// Validate checks the fields a booking needs
func (i *CartItem) Validate() error {
	if i.Day.IsZero() {
		return fmt.Errorf("%w: day is required", ErrInvalidCartItem)
	}
	if i.Meal == "" {
		return fmt.Errorf("%w: meal is required", ErrInvalidCartItem)
	}
	if !i.Meal.Valid() {
		return fmt.Errorf("%w: unknown meal %q", ErrInvalidCartItem, i.Meal)
	}
	if i.Preference != "" && !i.Preference.Valid() {
		return fmt.Errorf("%w: unknown preference %q", ErrInvalidCartItem, i.Preference)
	}
	if i.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidCartItem)
	}
	return nil
}

// BookingRequest builds the upstream payload for this item
func (i *CartItem) BookingRequest() BookingRequest {
	return BookingRequest{
		Count: i.Quantity,
		Coupon: BookingCoupon{
			Day:            i.Day,
			CouponType:     i.Meal,
			FoodPreference: i.Preference,
		},
	}
}

// Len returns the number of items in the cart
func (c *Cart) Len() int {
	return len(c.Items)
}

// IsEmpty reports whether the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalQuantity sums the quantity of every item
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}
