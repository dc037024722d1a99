package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Meal is the coupon type, one per meal of the day
type Meal string

const (
	MealBreakfast Meal = "breakfast"
	MealLunch     Meal = "lunch"
	MealDinner    Meal = "dinner"
)

// Meals lists the bookable meals in serving order
var Meals = []Meal{MealBreakfast, MealLunch, MealDinner}

// Valid reports whether m is a known meal
func (m Meal) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner:
		return true
	}
	return false
}

// Preference is the dietary preference of a coupon
type Preference string

const (
	PreferenceVeg    Preference = "vegetarian"
	PreferenceNonVeg Preference = "non_vegetarian"
)

// Preferences lists the bookable dietary preferences
var Preferences = []Preference{PreferenceVeg, PreferenceNonVeg}

// Valid reports whether p is a known preference
func (p Preference) Valid() bool {
	return p == PreferenceVeg || p == PreferenceNonVeg
}

// CouponStatus represents where a coupon is in its lifecycle
type CouponStatus string

const (
	CouponBooked    CouponStatus = "booked"
	CouponPaid      CouponStatus = "paid"
	CouponCollected CouponStatus = "collected"
	CouponCancelled CouponStatus = "cancelled"
)

// Valid reports whether s is a known status
func (s CouponStatus) Valid() bool {
	switch s {
	case CouponBooked, CouponPaid, CouponCollected, CouponCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an admin may move a coupon from s to next.
// booked -> paid -> collected, and cancelled from booked or paid.
func (s CouponStatus) CanTransition(next CouponStatus) bool {
	switch next {
	case CouponPaid:
		return s == CouponBooked
	case CouponCollected:
		return s == CouponPaid
	case CouponCancelled:
		return s == CouponBooked || s == CouponPaid
	}
	return false
}

// NextActions returns the statuses reachable from s, in button order
func (s CouponStatus) NextActions() []CouponStatus {
	var next []CouponStatus
	for _, candidate := range []CouponStatus{CouponPaid, CouponCollected, CouponCancelled} {
		if s.CanTransition(candidate) {
			next = append(next, candidate)
		}
	}
	return next
}

// Coupon is a booked meal voucher as returned by the coupon API
type Coupon struct {
	CouponID       string       `json:"coupon_id"`
	Day            string       `json:"day"`
	FoodPreference Preference   `json:"food_preference"`
	CouponType     Meal         `json:"coupon_type"`
	Status         CouponStatus `json:"status"`
	Price          float64      `json:"price"`
	BookedOn       Timestamp    `json:"booked_on"`
	BookedBy       string       `json:"booked_by"`
}

// CouponList is the admin listing with aggregate totals
type CouponList struct {
	Count            int      `json:"count"`
	TotalUnpaidPrice float64  `json:"total_unpaid_price"`
	TotalPrice       float64  `json:"total_price"`
	Coupons          []Coupon `json:"coupons"`
}

// UserCoupons is a resident's own coupon listing
type UserCoupons struct {
	Count   int      `json:"count"`
	Coupons []Coupon `json:"coupons"`
}

// BookingRequest asks the coupon API to book Count coupons of one kind
type BookingRequest struct {
	Count  int           `json:"count"`
	Coupon BookingCoupon `json:"coupon"`
}

// BookingCoupon describes the coupon being booked
type BookingCoupon struct {
	Day            time.Time  `json:"day"`
	CouponType     Meal       `json:"coupon_type"`
	FoodPreference Preference `json:"food_preference"`
}

// StatusUpdateRequest moves one coupon to a new status
type StatusUpdateRequest struct {
	CouponID string       `json:"coupon_id"`
	Status   CouponStatus `json:"status"`
}

// Timestamp accepts the date formats the coupon API emits: RFC3339, naive ISO
// datetimes without a zone, and plain dates.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses s with the first matching layout
func ParseTimestamp(s string) (Timestamp, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return Timestamp{Time: t}, nil
		}
		lastErr = err
	}
	return Timestamp{}, lastErr
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
