package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"coupon-portal/internal/auth"
	"coupon-portal/internal/client"
	"coupon-portal/internal/middleware"
	"coupon-portal/internal/models"
	"coupon-portal/internal/services"
	"coupon-portal/web/templates/components"
	"coupon-portal/web/templates/pages"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// AdminHandler handles the admin dashboard, coupon table and template editor.
// Routes are gated on the unverified admin hint; the coupon API enforces access.
type AdminHandler struct {
	base
	couponService    *services.CouponService
	templateService  *services.TemplateService
	dashboardService *services.DashboardService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	couponService *services.CouponService,
	templateService *services.TemplateService,
	dashboardService *services.DashboardService,
	store sessions.Store,
	tokens *auth.TokenStore,
	log *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		base:             newBase(store, tokens, log),
		couponService:    couponService,
		templateService:  templateService,
		dashboardService: dashboardService,
	}
}

// CouponsPage shows every coupon with summary totals and filters
func (h *AdminHandler) CouponsPage(w http.ResponseWriter, r *http.Request) {
	filter := services.CouponFilter{
		Status:   r.URL.Query().Get("status"),
		BookedBy: r.URL.Query().Get("booked_by"),
	}
	if filter.Status == "" {
		filter.Status = services.FilterAll
	}
	if filter.BookedBy == "" {
		filter.BookedBy = services.FilterAll
	}

	page := h.page(w, r, "Coupons")
	data := pages.AdminCouponsData{
		Page:           page,
		StatusFilter:   filter.Status,
		BookedByFilter: filter.BookedBy,
	}

	list, board, err := h.couponService.AdminListing(r.Context())
	if err != nil {
		if h.sessionExpired(w, r, err) {
			return
		}
		h.render(w, r, http.StatusOK, pages.AdminCouponsPage(data))
		return
	}

	data.List = list
	data.Bookers = services.Bookers(board.Coupons())
	for _, c := range services.FilterCoupons(board.Coupons(), filter) {
		data.Rows = append(data.Rows, components.CouponRowData{Coupon: c, CSRFToken: page.CSRFToken})
	}

	h.render(w, r, http.StatusOK, pages.AdminCouponsPage(data))
}

// UpdateCouponStatus moves one coupon to the posted status. The row posts back
// the coupon as displayed, so the answer is that row with its new status and
// the list is not fetched again.
func (h *AdminHandler) UpdateCouponStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	coupon, err := couponFromForm(r)
	if err != nil {
		http.Error(w, "Invalid coupon", http.StatusBadRequest)
		return
	}
	next := models.CouponStatus(r.FormValue("status"))

	board := h.couponService.Board([]models.Coupon{coupon})
	updated, err := board.SetStatus(r.Context(), coupon.CouponID, next)

	if middleware.IsHTMXRequest(r) {
		row := components.CouponRowData{Coupon: coupon, CSRFToken: middleware.CSRFToken(r)}
		switch {
		case err != nil:
			if h.sessionExpired(w, r, err) {
				return
			}
			row.Error = statusError(err)
		case updated.Status == models.CouponCancelled:
			// cancelled coupons are not listed; an empty answer removes the row
			w.WriteHeader(http.StatusOK)
			return
		default:
			row.Coupon = *updated
		}
		h.render(w, r, http.StatusOK, components.CouponRow(row))
		return
	}

	if err != nil {
		if h.sessionExpired(w, r, err) {
			return
		}
		h.addFlash(w, r, components.FlashError, statusError(err))
	} else {
		h.addFlash(w, r, components.FlashSuccess, "Coupon marked "+string(updated.Status)+".")
	}
	http.Redirect(w, r, "/admin/coupons", http.StatusSeeOther)
}

func statusError(err error) string {
	if errors.Is(err, models.ErrInvalidTransition) {
		return "That status change is not allowed."
	}
	return "Could not update status. " + client.DetailOf(err, "Please try again.")
}

// couponFromForm rebuilds the displayed coupon from the hidden row fields
func couponFromForm(r *http.Request) (models.Coupon, error) {
	c := models.Coupon{
		CouponID:       strings.TrimSpace(r.FormValue("coupon_id")),
		Day:            r.FormValue("day"),
		CouponType:     models.Meal(r.FormValue("coupon_type")),
		FoodPreference: models.Preference(r.FormValue("food_preference")),
		Status:         models.CouponStatus(r.FormValue("current_status")),
		BookedBy:       r.FormValue("booked_by"),
	}
	if c.CouponID == "" {
		return c, errors.New("coupon_id is required")
	}
	if !c.Status.Valid() {
		return c, errors.New("unknown current status")
	}
	if raw := r.FormValue("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c, err
		}
		c.Price = price
	}
	if raw := r.FormValue("booked_on"); raw != "" {
		if ts, err := models.ParseTimestamp(raw); err == nil {
			c.BookedOn = ts
		}
	}
	return c, nil
}
