package middleware

import (
	"net/http"

	"coupon-portal/internal/logger"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// CSRFFieldName is the form field carrying the token
const CSRFFieldName = "csrf_token"

// CSRF protects every state-changing request. Forms post the token as
// csrf_token; HTMX sends it as X-CSRF-Token.
func CSRF(key []byte, secure bool, log *zap.Logger) func(http.Handler) http.Handler {
	return csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.FieldName(CSRFFieldName),
		csrf.RequestHeader("X-CSRF-Token"),
		csrf.ErrorHandler(csrfFailure(log)),
	)
}

// CSRFPlaintext marks requests as plain HTTP so gorilla/csrf skips its
// TLS-only Referer check during local development
func CSRFPlaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func csrfFailure(log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.For(r.Context(), log).Warn("csrf validation failed",
			zap.String("path", r.URL.Path),
			zap.Error(csrf.FailureReason(r)),
		)
		if IsHTMXRequest(r) {
			WriteAlert(w, http.StatusForbidden, "Security token mismatch. Please refresh the page and try again.")
			return
		}
		http.Error(w, "CSRF token mismatch", http.StatusForbidden)
	})
}

// CSRFToken returns the token for the current request
func CSRFToken(r *http.Request) string {
	return csrf.Token(r)
}
