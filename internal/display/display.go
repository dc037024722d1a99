// Package display turns coupon fields into the labels residents recognise.
package display

import (
	"strings"
	"time"

	"coupon-portal/internal/models"
)

// FestivalDay is one bookable day of the festival
type FestivalDay struct {
	Date  time.Time
	Label string
}

// Value is the form value used for this day
func (d FestivalDay) Value() string {
	return d.Date.Format(dateLayout)
}

const dateLayout = "2006-01-02"

// fallbackLayout mirrors the browser's Date.toDateString
const fallbackLayout = "Mon Jan 02 2006"

func day(date, label string) FestivalDay {
	t, _ := time.Parse(dateLayout, date)
	return FestivalDay{Date: t, Label: label}
}

// FestivalDays lists the festival days in order
var FestivalDays = []FestivalDay{
	day("2025-09-28", "Shashti ষষ্ঠী"),
	day("2025-09-29", "Saptami সপ্তমী"),
	day("2025-09-30", "Ashtami অষ্টমী"),
	day("2025-10-01", "Navami নবমী"),
	day("2025-10-02", "Dashami দশমী"),
}

// ParseDay reads a day as sent by the coupon API
func ParseDay(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	ts, err := models.ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts.Time, true
}

// DayLabel returns the festival name for raw when it falls on a festival day and
// a generic date string otherwise. Unparseable input is returned unchanged.
func DayLabel(raw string) string {
	t, ok := ParseDay(raw)
	if !ok {
		return raw
	}
	return DateLabel(t)
}

// DateLabel labels a calendar date. Only the year, month and day are compared.
func DateLabel(t time.Time) string {
	y, m, d := t.Date()
	for _, fd := range FestivalDays {
		fy, fm, fdd := fd.Date.Date()
		if y == fy && m == fm && d == fdd {
			return fd.Label
		}
	}
	return t.Format(fallbackLayout)
}

// LookupDay finds the festival day whose form value is value
func LookupDay(value string) (FestivalDay, bool) {
	for _, fd := range FestivalDays {
		if fd.Value() == value {
			return fd, true
		}
	}
	return FestivalDay{}, false
}

// PreferenceLabel is the short label shown next to a meal
func PreferenceLabel(p models.Preference) string {
	if p == models.PreferenceVeg {
		return "Veg"
	}
	return "Non-veg"
}

// MealLabel capitalises a meal name
func MealLabel(m models.Meal) string {
	switch m {
	case models.MealBreakfast:
		return "Breakfast"
	case models.MealLunch:
		return "Lunch"
	case models.MealDinner:
		return "Dinner"
	}
	return string(m)
}

// StatusLabel is the badge text for a coupon status
func StatusLabel(s models.CouponStatus) string {
	return strings.ToUpper(string(s))
}

// ActionLabel is the button text for moving a coupon to s
func ActionLabel(s models.CouponStatus) string {
	switch s {
	case models.CouponPaid:
		return "Mark Paid"
	case models.CouponCollected:
		return "Mark Collected"
	case models.CouponCancelled:
		return "Cancel"
	}
	return string(s)
}
