package models

import "fmt"

// CouponTemplate is the configured price for a (meal, preference) pair
type CouponTemplate struct {
	CouponType     Meal       `json:"coupon_type"`
	FoodPreference Preference `json:"food_preference"`
	Price          float64    `json:"price"`
}

// Validate validates a template before it is sent upstream
func (t *CouponTemplate) Validate() error {
	if t.CouponType == "" || !t.CouponType.Valid() {
		return fmt.Errorf("%w: meal is required", ErrInvalidTemplate)
	}
	if t.FoodPreference == "" || !t.FoodPreference.Valid() {
		return fmt.Errorf("%w: food preference is required", ErrInvalidTemplate)
	}
	if t.Price <= 0 {
		return fmt.Errorf("%w: price must be greater than zero", ErrInvalidTemplate)
	}
	return nil
}
