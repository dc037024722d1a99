package models

// DashboardStats is the aggregate view served by /admin/dashboard
type DashboardStats struct {
	TotalCouponsBooked    int          `json:"total_coupons_booked"`
	TotalCouponsPaid      int          `json:"total_coupons_paid"`
	TotalCouponsCollected int          `json:"total_coupons_collected"`
	TotalCouponsUnpaid    int          `json:"total_coupons_unpaid"`
	PerDayStats           []DayStats   `json:"per_day_stats"`
	PaymentStats          PaymentStats `json:"payment_stats"`
}

// DayStats counts booked coupons per meal for one day
type DayStats struct {
	Day   string    `json:"day"`
	Meals MealCount `json:"meals"`
}

// MealCount holds a count per meal
type MealCount struct {
	Breakfast int `json:"breakfast"`
	Lunch     int `json:"lunch"`
	Dinner    int `json:"dinner"`
}

// PaymentStats holds paid and outstanding amounts
type PaymentStats struct {
	PaidAmount   float64 `json:"paid_amount"`
	UnpaidAmount float64 `json:"unpaid_amount"`
}
