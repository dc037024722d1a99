package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"coupon-portal/internal/auth"
	"coupon-portal/internal/client"
	"coupon-portal/internal/display"
	"coupon-portal/internal/middleware"
	"coupon-portal/internal/models"
	"coupon-portal/internal/services"
	"coupon-portal/web/templates/components"
	"coupon-portal/web/templates/pages"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// CartHandler handles the booking page and its cart
type CartHandler struct {
	base
	cartService *services.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *services.CartService, store sessions.Store, tokens *auth.TokenStore, log *zap.Logger) *CartHandler {
	return &CartHandler{
		base:        newBase(store, tokens, log),
		cartService: cartService,
	}
}

// BookPage renders the add form and the current cart
func (h *CartHandler) BookPage(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.handleSessionError(w, r, err)
		return
	}
	cart := h.getCartFromSession(session)

	booking := components.BookingData{Cart: cart, Form: components.EmptyBookingForm()}
	h.render(w, r, http.StatusOK, pages.BookPage(h.page(w, r, "Book Coupons"), booking))
}

// AddToCart validates the form and appends one item to the cart
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	form := components.BookingForm{
		Day:        strings.TrimSpace(r.FormValue("day")),
		Meal:       strings.TrimSpace(r.FormValue("meal")),
		Preference: strings.TrimSpace(r.FormValue("preference")),
	}
	form.Quantity, _ = strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))

	// only festival days are bookable; anything else leaves day zero and is rejected
	var day time.Time
	if fd, ok := display.LookupDay(form.Day); ok {
		day = fd.Date
	}

	session, err := h.session(r)
	if err != nil {
		h.handleSessionError(w, r, err)
		return
	}
	cart := h.getCartFromSession(session)

	item, err := h.cartService.Add(cart, day, models.Meal(form.Meal), models.Preference(form.Preference), form.Quantity)
	if err != nil {
		h.logger(r).Debug("rejected cart item", zap.Error(err))
		h.respond(w, r, http.StatusUnprocessableEntity, cart, form, components.Flash{
			Kind:    components.FlashWarning,
			Message: "Please select day, meal, and quantity.",
		})
		return
	}

	if err := h.saveCartToSession(session, cart); err != nil {
		h.handleSessionError(w, r, err)
		return
	}
	if err := session.Save(r, w); err != nil {
		h.handleSessionError(w, r, err)
		return
	}

	h.logger(r).Debug("cart item added", zap.String("item_id", item.ID), zap.Int("cart_size", cart.Len()))
	h.respond(w, r, http.StatusOK, cart, components.EmptyBookingForm(), components.Flash{
		Kind:    components.FlashSuccess,
		Message: "Coupon added to cart",
	})
}

// RemoveFromCart drops one item; unknown ids leave the cart as it is
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, err := h.session(r)
	if err != nil {
		h.handleSessionError(w, r, err)
		return
	}
	cart := h.getCartFromSession(session)

	if h.cartService.Remove(cart, id) {
		if err := h.saveCartToSession(session, cart); err != nil {
			h.handleSessionError(w, r, err)
			return
		}
		if err := session.Save(r, w); err != nil {
			h.handleSessionError(w, r, err)
			return
		}
	}

	h.respond(w, r, http.StatusOK, cart, components.EmptyBookingForm())
}

// SubmitCart books every cart item, one coupon API call per item
func (h *CartHandler) SubmitCart(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.handleSessionError(w, r, err)
		return
	}
	cart := h.getCartFromSession(session)

	report, err := h.cartService.Submit(r.Context(), cart)
	if errors.Is(err, models.ErrEmptyCart) {
		h.respond(w, r, http.StatusUnprocessableEntity, cart, components.EmptyBookingForm(), components.Flash{
			Kind:    components.FlashWarning,
			Message: "Your cart is empty!",
		})
		return
	}
	if err != nil {
		h.logger(r).Error("cart submission failed", zap.Error(err))
		h.respond(w, r, http.StatusInternalServerError, cart, components.EmptyBookingForm(), components.Flash{
			Kind:    components.FlashError,
			Message: "Booking failed. Please try again.",
		})
		return
	}

	if err := h.saveCartToSession(session, cart); err != nil {
		h.handleSessionError(w, r, err)
		return
	}
	if err := session.Save(r, w); err != nil {
		h.handleSessionError(w, r, err)
		return
	}

	for _, outcome := range report.Failed() {
		if h.sessionExpired(w, r, outcome.Err) {
			return
		}
	}

	h.respond(w, r, http.StatusOK, cart, components.EmptyBookingForm(), submitFlash(report, h.cartService.Policy()))
}

// submitFlash summarises a submission. Failures are always reported, even
// when the failed items were dropped from the cart.
func submitFlash(report *services.SubmitReport, policy services.FailurePolicy) components.Flash {
	if report.AllBooked() {
		return components.Flash{Kind: components.FlashSuccess, Message: "Coupons booked successfully!"}
	}

	failed := report.Failed()
	booked := len(report.Outcomes) - len(failed)
	reason := client.DetailOf(failed[0].Err, "")

	fate := "are still in your cart"
	if policy == services.DiscardAll {
		fate = "were removed from your cart"
	}

	msg := fmt.Sprintf("Booked %d of %d item(s). %d item(s) could not be booked and %s.",
		booked, len(report.Outcomes), len(failed), fate)
	if reason != "" {
		msg += " " + reason
	}

	kind := components.FlashWarning
	if booked == 0 {
		kind = components.FlashError
	}
	return components.Flash{Kind: kind, Message: msg}
}

// respond re-renders the booking section for HTMX, or the whole page otherwise.
// Successful plain posts redirect back to the booking page.
func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, status int, cart *models.Cart, form components.BookingForm, flashes ...components.Flash) {
	if middleware.IsHTMXRequest(r) {
		// htmx does not swap 4xx/5xx answers by default
		h.render(w, r, http.StatusOK, components.BookingSection(components.BookingData{
			Cart:      cart,
			Form:      form,
			CSRFToken: middleware.CSRFToken(r),
			Flashes:   flashes,
		}))
		return
	}

	if status < 400 {
		for _, f := range flashes {
			h.addFlash(w, r, f.Kind, f.Message)
		}
		http.Redirect(w, r, "/book", http.StatusSeeOther)
		return
	}

	page := h.page(w, r, "Book Coupons")
	page.Flashes = append(page.Flashes, flashes...)
	h.render(w, r, status, pages.BookPage(page, components.BookingData{Cart: cart, Form: form}))
}
