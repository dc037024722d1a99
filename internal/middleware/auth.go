package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"coupon-portal/internal/auth"
	"coupon-portal/internal/client"
)

type contextKey string

const (
	ClaimsContextKey contextKey = "claims"
)

// publicPaths are reachable without a session token. Entries ending in a
// slash match everything below them; others match themselves and their subpaths.
var publicPaths = []string{"/login", "/signup", "/static/", "/favicon.ico", "/healthz"}

// IsPublicPath reports whether path may be served without a token
func IsPublicPath(path string) bool {
	for _, public := range publicPaths {
		if strings.HasSuffix(public, "/") {
			if strings.HasPrefix(path, public) {
				return true
			}
			continue
		}
		if path == public || strings.HasPrefix(path, public+"/") {
			return true
		}
	}
	return false
}

// SessionMiddleware loads the coupon API token and its display claims
type SessionMiddleware struct {
	tokens *auth.TokenStore
	now    func() time.Time
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(tokens *auth.TokenStore) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, now: time.Now}
}

// LoadSession puts the stored token into the request context for the API
// client, along with its unverified claims when the token decodes
func (m *SessionMiddleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.tokens.Token(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, ok := auth.ReadClaims(token)
		if ok && claims.Expired(m.now()) {
			// the cookie outlived its token; treat the visitor as logged out
			next.ServeHTTP(w, r)
			return
		}

		ctx := client.WithToken(r.Context(), token)
		if ok {
			ctx = SetClaimsContext(ctx, claims)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSession sends requests without a token to the login page, except
// for public paths
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsPublicPath(r.URL.Path) || client.TokenFromContext(r.Context()) != "" {
			next.ServeHTTP(w, r)
			return
		}
		redirect(w, r, "/login")
	})
}

// RequireAdminHint sends non-admins back to the home page. The hint comes from
// unverified claims and only decides what to render; the coupon API rejects
// admin calls made with a resident token.
func RequireAdminHint(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaimsFromContext(r.Context())
		if claims == nil || !claims.IsAdmin {
			redirect(w, r, "/")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClaimsFromContext retrieves the display claims from request context
func GetClaimsFromContext(ctx context.Context) *auth.DisplayClaims {
	claims, ok := ctx.Value(ClaimsContextKey).(*auth.DisplayClaims)
	if !ok {
		return nil
	}
	return claims
}

// SetClaimsContext sets the display claims in the context
func SetClaimsContext(ctx context.Context, claims *auth.DisplayClaims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// IsHTMXRequest checks if the request is from HTMX
func IsHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if IsHTMXRequest(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
