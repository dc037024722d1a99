package handlers

import (
	"net/http"
	"net/url"

	"coupon-portal/internal/auth"
	"coupon-portal/internal/middleware"
	"coupon-portal/internal/services"
	"coupon-portal/web/templates/components"
	"coupon-portal/web/templates/pages"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// PublicHandler handles the landing redirect and the resident coupon list
type PublicHandler struct {
	base
	couponService *services.CouponService
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(couponService *services.CouponService, store sessions.Store, tokens *auth.TokenStore, log *zap.Logger) *PublicHandler {
	return &PublicHandler{
		base:          newBase(store, tokens, log),
		couponService: couponService,
	}
}

// HomePage sends admins to the dashboard, residents to their coupons and
// everyone else to the login page
func (h *PublicHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	switch {
	case claims == nil || claims.UserID == "":
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case claims.IsAdmin:
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	default:
		http.Redirect(w, r, "/mycoupons/"+url.PathEscape(claims.UserID), http.StatusSeeOther)
	}
}

// MyCouponsPage lists the coupons booked by a resident
func (h *PublicHandler) MyCouponsPage(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	claims := middleware.GetClaimsFromContext(r.Context())
	if claims != nil && !claims.IsAdmin && claims.UserID != "" && claims.UserID != userID {
		http.Redirect(w, r, "/mycoupons/"+url.PathEscape(claims.UserID), http.StatusSeeOther)
		return
	}

	coupons, err := h.couponService.UserCoupons(r.Context(), userID)
	if err != nil {
		if h.sessionExpired(w, r, err) {
			return
		}
		page := h.page(w, r, "My Coupons")
		page.Flashes = append(page.Flashes, components.Flash{
			Kind:    components.FlashError,
			Message: "Failed to fetch your coupons. Please try again.",
		})
		h.render(w, r, http.StatusOK, pages.MyCouponsPage(page, nil))
		return
	}

	h.render(w, r, http.StatusOK, pages.MyCouponsPage(h.page(w, r, "My Coupons"), coupons))
}
