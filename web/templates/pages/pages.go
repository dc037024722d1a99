package pages

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"coupon-portal/internal/auth"
	"coupon-portal/internal/models"
	"coupon-portal/web/templates/components"

	"github.com/a-h/templ"
)

//go:embed html/*.html
var files embed.FS

// Page carries what the layout needs on every screen
type Page struct {
	Title     string
	Claims    *auth.DisplayClaims
	CSRFToken string
	Flashes   []components.Flash
}

// IsAdmin reports whether admin navigation should be rendered
func (p Page) IsAdmin() bool {
	return p.Claims != nil && p.Claims.IsAdmin
}

// LoggedIn reports whether the visitor holds a decodable token
func (p Page) LoggedIn() bool {
	return p.Claims != nil
}

// AuthPageData feeds the login and signup tabs
type AuthPageData struct {
	Page
	Mode   string
	Errors map[string][]string
	Form   map[string]string
}

// MyCouponsData feeds a resident's coupon listing; Coupons is nil when loading failed
type MyCouponsData struct {
	Page
	Coupons *models.UserCoupons
}

// BookData feeds the booking page
type BookData struct {
	Page
	Booking components.BookingData
}

// DashboardData feeds the admin dashboard; Stats is nil when loading failed
type DashboardData struct {
	Page
	Stats *models.DashboardStats
}

// AdminCouponsData feeds the admin coupon table
type AdminCouponsData struct {
	Page
	List           *models.CouponList
	Rows           []components.CouponRowData
	StatusFilter   string
	BookedByFilter string
	Bookers        []string
}

// AdminTemplatesData feeds the template editor
type AdminTemplatesData struct {
	Page
	Table components.TemplateTableData
}

var pageNames = []string{
	"auth",
	"my_coupons",
	"book",
	"admin_dashboard",
	"admin_coupons",
	"admin_templates",
}

var pageTemplates = mustParsePages()

func mustParsePages() map[string]*template.Template {
	base := template.Must(components.Parse(template.New("layout").Funcs(components.Funcs())))
	base = template.Must(base.ParseFS(files, "html/layout.html"))

	parsed := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t := template.Must(base.Clone())
		parsed[name] = template.Must(t.ParseFS(files, "html/"+name+".html"))
	}
	return parsed
}

func render(name string, data interface{}) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, ok := pageTemplates[name]
		if !ok {
			return fmt.Errorf("unknown page %q", name)
		}
		return t.ExecuteTemplate(w, "layout", data)
	})
}

// LoginPage renders the login tab
func LoginPage(page Page, errors map[string][]string, form map[string]string) templ.Component {
	return authPage(page, "login", errors, form)
}

// SignupPage renders the signup tab
func SignupPage(page Page, errors map[string][]string, form map[string]string) templ.Component {
	return authPage(page, "signup", errors, form)
}

func authPage(page Page, mode string, errors map[string][]string, form map[string]string) templ.Component {
	if errors == nil {
		errors = map[string][]string{}
	}
	if form == nil {
		form = map[string]string{}
	}
	return render("auth", AuthPageData{Page: page, Mode: mode, Errors: errors, Form: form})
}

// MyCouponsPage lists a resident's coupons
func MyCouponsPage(page Page, coupons *models.UserCoupons) templ.Component {
	return render("my_coupons", MyCouponsData{Page: page, Coupons: coupons})
}

// BookPage hosts the booking cart
func BookPage(page Page, booking components.BookingData) templ.Component {
	if booking.Cart == nil {
		booking.Cart = &models.Cart{}
	}
	booking.CSRFToken = page.CSRFToken
	return render("book", BookData{Page: page, Booking: booking})
}

// AdminDashboardPage shows aggregate statistics
func AdminDashboardPage(page Page, stats *models.DashboardStats) templ.Component {
	return render("admin_dashboard", DashboardData{Page: page, Stats: stats})
}

// AdminCouponsPage shows the coupon summary, filters and table
func AdminCouponsPage(data AdminCouponsData) templ.Component {
	return render("admin_coupons", data)
}

// AdminTemplatesPage shows the price template editor
func AdminTemplatesPage(data AdminTemplatesData) templ.Component {
	data.Table.CSRFToken = data.CSRFToken
	return render("admin_templates", data)
}
