package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"coupon-portal/internal/auth"
	"coupon-portal/internal/client"
	"coupon-portal/internal/logger"
	"coupon-portal/internal/middleware"
	"coupon-portal/internal/models"
	"coupon-portal/web/templates/components"
	"coupon-portal/web/templates/pages"

	"github.com/a-h/templ"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// SessionName is the server-side session holding the cart and flashes
const SessionName = "session"

const cartKey = "cart"

// base is shared by every handler: session access, rendering and logging
type base struct {
	store  sessions.Store
	tokens *auth.TokenStore
	log    *zap.Logger
}

func newBase(store sessions.Store, tokens *auth.TokenStore, log *zap.Logger) base {
	if log == nil {
		log = zap.NewNop()
	}
	return base{store: store, tokens: tokens, log: log}
}

func (b *base) logger(r *http.Request) *zap.Logger {
	return logger.For(r.Context(), b.log)
}

// session returns the portal session. A cookie that no longer decodes (for
// example after a secret rotation) yields a fresh session.
func (b *base) session(r *http.Request) (*sessions.Session, error) {
	session, err := b.store.Get(r, SessionName)
	if err != nil && session != nil {
		b.logger(r).Warn("discarding undecodable session", zap.Error(err))
		return session, nil
	}
	return session, err
}

// page builds the layout data and consumes pending flashes
func (b *base) page(w http.ResponseWriter, r *http.Request, title string) pages.Page {
	return pages.Page{
		Title:     title,
		Claims:    middleware.GetClaimsFromContext(r.Context()),
		CSRFToken: middleware.CSRFToken(r),
		Flashes:   b.popFlashes(w, r),
	}
}

func (b *base) addFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	session, err := b.session(r)
	if err != nil {
		b.logger(r).Warn("failed to load session for flash", zap.Error(err))
		return
	}
	session.AddFlash(kind + "|" + message)
	if err := session.Save(r, w); err != nil {
		b.logger(r).Warn("failed to save flash", zap.Error(err))
	}
}

func (b *base) popFlashes(w http.ResponseWriter, r *http.Request) []components.Flash {
	session, err := b.session(r)
	if err != nil {
		return nil
	}
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		b.logger(r).Warn("failed to clear flashes", zap.Error(err))
	}

	flashes := make([]components.Flash, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		kind, message, found := strings.Cut(s, "|")
		if !found {
			kind, message = components.FlashInfo, s
		}
		flashes = append(flashes, components.Flash{Kind: kind, Message: message})
	}
	return flashes
}

func (b *base) getCartFromSession(session *sessions.Session) *models.Cart {
	cartData, ok := session.Values[cartKey]
	if !ok {
		return &models.Cart{}
	}

	cartJSON, ok := cartData.(string)
	if !ok {
		return &models.Cart{}
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(cartJSON), &cart); err != nil {
		return &models.Cart{}
	}

	return &cart
}

func (b *base) saveCartToSession(session *sessions.Session, cart *models.Cart) error {
	if cart.IsEmpty() {
		delete(session.Values, cartKey)
		return nil
	}
	cartJSON, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	session.Values[cartKey] = string(cartJSON)
	return nil
}

// render writes component with status. The component is rendered into a
// buffer first so a template error still produces a clean 500.
func (b *base) render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	var buf bytes.Buffer
	if err := component.Render(r.Context(), &buf); err != nil {
		b.logger(r).Error("failed to render page", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// handleRedirect handles redirects appropriately for HTMX vs regular requests
func (b *base) handleRedirect(w http.ResponseWriter, r *http.Request, url string) {
	if middleware.IsHTMXRequest(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// handleSessionError handles session errors appropriately for HTMX vs regular requests
func (b *base) handleSessionError(w http.ResponseWriter, r *http.Request, err error) {
	b.logger(r).Error("session error", zap.Error(err))
	if middleware.IsHTMXRequest(r) {
		middleware.WriteAlert(w, http.StatusInternalServerError, "Session error. Please refresh the page and try again.")
		return
	}
	http.Error(w, "Session error", http.StatusInternalServerError)
}

// sessionExpired handles a coupon API rejection of the stored token by
// dropping it and sending the visitor to the login page
func (b *base) sessionExpired(w http.ResponseWriter, r *http.Request, err error) bool {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		return false
	}

	b.logger(r).Info("coupon api rejected session token")
	if b.tokens != nil {
		if err := b.tokens.Clear(w, r); err != nil {
			b.logger(r).Warn("failed to clear token", zap.Error(err))
		}
	}
	b.addFlash(w, r, components.FlashWarning, "Your session has expired. Please log in again.")
	b.handleRedirect(w, r, "/login")
	return true
}

// upstreamStatus picks the status for a page re-rendered after a coupon API failure
func upstreamStatus(err error) int {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	if apiErr.Unauthorized() {
		return http.StatusUnauthorized
	}
	if apiErr.Status >= 500 {
		return http.StatusBadGateway
	}
	return http.StatusBadRequest
}
