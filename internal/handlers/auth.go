package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"coupon-portal/internal/auth"
	"coupon-portal/internal/client"
	"coupon-portal/internal/middleware"
	"coupon-portal/internal/services"
	"coupon-portal/web/templates/components"
	"coupon-portal/web/templates/pages"

	"github.com/a-h/templ"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// AuthHandler handles login, signup and logout against the coupon API
type AuthHandler struct {
	base
	accounts services.AccountAPI
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(accounts services.AccountAPI, store sessions.Store, tokens *auth.TokenStore, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		base:     newBase(store, tokens, log),
		accounts: accounts,
	}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// isValidEmail validates email format using regex
func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetClaimsFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, pages.LoginPage(h.page(w, r, "Login"), nil, nil))
}

// LoginSubmit handles login form submission
func (h *AuthHandler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	flatNumber := strings.TrimSpace(r.FormValue("flat_number"))
	password := r.FormValue("password")

	errors := make(map[string][]string)
	formData := map[string]string{"flat_number": flatNumber}

	if flatNumber == "" {
		errors["flat_number"] = []string{"Flat number is required"}
	}
	if password == "" {
		errors["password"] = []string{"Password is required"}
	}
	if len(errors) > 0 {
		h.render(w, r, http.StatusUnprocessableEntity, pages.LoginPage(h.page(w, r, "Login"), errors, formData))
		return
	}

	token, err := h.accounts.Login(r.Context(), client.Credentials{FlatNumber: flatNumber, Password: password})
	if err != nil {
		h.logger(r).Warn("login failed", zap.String("flat_number", flatNumber), zap.Error(err))
		page := h.page(w, r, "Login")
		page.Flashes = append(page.Flashes, components.Flash{
			Kind:    components.FlashError,
			Message: "Login failed. " + client.DetailOf(err, "Unknown Login error"),
		})
		h.render(w, r, upstreamStatus(err), pages.LoginPage(page, nil, formData))
		return
	}

	if !h.startSession(w, r, token, "Login", pages.LoginPage, formData) {
		return
	}
	h.addFlash(w, r, components.FlashSuccess, "Login successful! Welcome back.")
	h.handleRedirect(w, r, "/")
}

// SignupPage renders the signup page
func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetClaimsFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, pages.SignupPage(h.page(w, r, "Signup"), nil, nil))
}

// SignupSubmit handles signup form submission
func (h *AuthHandler) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	flatNumber := strings.TrimSpace(r.FormValue("flat_number"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirmPassword := r.FormValue("confirm_password")

	errors := make(map[string][]string)
	formData := map[string]string{
		"flat_number": flatNumber,
		"email":       email,
	}

	if flatNumber == "" {
		errors["flat_number"] = []string{"Flat number is required"}
	}
	if email != "" && !isValidEmail(email) {
		errors["email"] = []string{"Please enter a valid email address"}
	}
	if password == "" {
		errors["password"] = []string{"Password is required"}
	}
	if password != confirmPassword {
		errors["confirm_password"] = []string{"Passwords do not match"}
	}
	if len(errors) > 0 {
		h.render(w, r, http.StatusUnprocessableEntity, pages.SignupPage(h.page(w, r, "Signup"), errors, formData))
		return
	}

	req := client.SignupRequest{FlatNumber: flatNumber, Password: &password}
	if email != "" {
		req.Email = &email
	}

	token, err := h.accounts.Signup(r.Context(), req)
	if err != nil {
		h.logger(r).Warn("signup failed", zap.String("flat_number", flatNumber), zap.Error(err))
		page := h.page(w, r, "Signup")
		page.Flashes = append(page.Flashes, components.Flash{
			Kind:    components.FlashError,
			Message: "Signup failed. " + client.DetailOf(err, "Unknown Signup error"),
		})
		h.render(w, r, upstreamStatus(err), pages.SignupPage(page, nil, formData))
		return
	}

	if !h.startSession(w, r, token, "Signup", pages.SignupPage, formData) {
		return
	}
	h.addFlash(w, r, components.FlashSuccess, "Signup successful! Welcome.")
	h.handleRedirect(w, r, "/")
}

// authForm renders the login or signup tab
type authForm func(page pages.Page, errors map[string][]string, form map[string]string) templ.Component

// startSession stores token and drops any cart left by a previous visitor.
// A token that cannot be stored re-renders form with an error.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, token, title string, form authForm, formData map[string]string) bool {
	claims, err := h.tokens.Save(w, r, token)
	if err != nil {
		h.logger(r).Error("failed to store session token", zap.Error(err))
		page := h.page(w, r, title)
		page.Flashes = append(page.Flashes, components.Flash{
			Kind:    components.FlashError,
			Message: "Received an invalid session token. Please try again.",
		})
		h.render(w, r, http.StatusBadGateway, form(page, nil, formData))
		return false
	}

	if session, err := h.session(r); err == nil {
		delete(session.Values, cartKey)
		if err := session.Save(r, w); err != nil {
			h.logger(r).Warn("failed to clear cart", zap.Error(err))
		}
	}

	h.logger(r).Info("session started",
		zap.String("user_id", claims.UserID),
		zap.Bool("admin_hint", claims.IsAdmin),
		zap.Time("expires_at", claims.ExpiresAt),
	)
	return true
}

// Logout clears the token and the cart
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.tokens.Clear(w, r); err != nil {
		h.logger(r).Warn("failed to clear token", zap.Error(err))
	}

	session, err := h.session(r)
	if err == nil {
		delete(session.Values, cartKey)
		session.AddFlash(components.FlashInfo + "|You have been logged out.")
		if err := session.Save(r, w); err != nil {
			h.logger(r).Warn("failed to save session", zap.Error(err))
		}
	}

	h.handleRedirect(w, r, "/login")
}
