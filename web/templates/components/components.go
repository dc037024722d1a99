package components

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"coupon-portal/internal/display"
	"coupon-portal/internal/models"

	"github.com/a-h/templ"
)

//go:embed partials/*.html
var partials embed.FS

// Flash kinds, used as the alert CSS modifier
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// Flash is a one-off message shown above page content
type Flash struct {
	Kind    string
	Message string
}

// BookingForm is the state of the add-to-cart form
type BookingForm struct {
	Day        string
	Meal       string
	Preference string
	Quantity   int
}

// EmptyBookingForm is the cleared form shown after an item was added
func EmptyBookingForm() BookingForm {
	return BookingForm{Quantity: 1}
}

// BookingData feeds the booking section: add form, cart and book button
type BookingData struct {
	Cart      *models.Cart
	Form      BookingForm
	CSRFToken string
	Flashes   []Flash
}

// CouponRowData is one row of the admin coupon table
type CouponRowData struct {
	Coupon    models.Coupon
	CSRFToken string
	// Error is shown under the status badge when the last update failed
	Error string
}

// TemplateTableData feeds the price template table
type TemplateTableData struct {
	Templates []models.CouponTemplate
	CSRFToken string
	Flashes   []Flash
}

// Funcs are the helpers available to every portal template
func Funcs() template.FuncMap {
	return template.FuncMap{
		"dayLabel":     display.DayLabel,
		"dateLabel":    display.DateLabel,
		"mealLabel":    display.MealLabel,
		"prefLabel":    display.PreferenceLabel,
		"statusLabel":  display.StatusLabel,
		"actionLabel":  display.ActionLabel,
		"festivalDays": func() []display.FestivalDay { return display.FestivalDays },
		"meals":        func() []models.Meal { return models.Meals },
		"preferences":  func() []models.Preference { return models.Preferences },
		"statuses": func() []models.CouponStatus {
			return []models.CouponStatus{models.CouponBooked, models.CouponPaid, models.CouponCollected}
		},
		"nextActions": func(s models.CouponStatus) []models.CouponStatus { return s.NextActions() },
		"actionClass": func(s models.CouponStatus) string {
			if s == models.CouponCancelled {
				return "btn-danger"
			}
			return "btn-primary"
		},
		"money":      Money,
		"datetime":   DateTime,
		"rfc3339":    func(ts models.Timestamp) string { return ts.Format(time.RFC3339Nano) },
		"dateString": func(t time.Time) string { return t.Format("Mon Jan 02 2006") },
		"fieldError": FieldError,
	}
}

// Money formats a price in rupees
func Money(amount float64) string {
	return fmt.Sprintf("₹%.2f", amount)
}

// DateTime formats a booking timestamp; zero values render as a dash
func DateTime(ts models.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format("02 Jan 2006 15:04")
}

// FieldError returns the first validation message for field
func FieldError(errors map[string][]string, field string) string {
	if msgs, ok := errors[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Parse adds the shared partials to t. Pages call it on their base template.
func Parse(t *template.Template) (*template.Template, error) {
	return t.ParseFS(partials, "partials/*.html")
}

var fragments = template.Must(Parse(template.New("components").Funcs(Funcs())))

func render(name string, data interface{}) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return fragments.ExecuteTemplate(w, name, data)
	})
}

// Alerts renders flashes as alert boxes
func Alerts(flashes []Flash) templ.Component {
	return render("alerts", flashes)
}

// CouponRow renders a single admin table row, swapped in place after a status change
func CouponRow(data CouponRowData) templ.Component {
	return render("coupon_row", data)
}

// BookingSection renders the add form and the cart
func BookingSection(data BookingData) templ.Component {
	if data.Cart == nil {
		data.Cart = &models.Cart{}
	}
	return render("booking", data)
}

// TemplateTable renders the price templates with inline edit forms
func TemplateTable(data TemplateTableData) templ.Component {
	return render("template_table", data)
}
