package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"coupon-portal/internal/auth"
	"coupon-portal/internal/client"
	"coupon-portal/internal/handlers"
	"coupon-portal/internal/middleware"
	"coupon-portal/internal/models"
	"coupon-portal/internal/services"
	"coupon-portal/web"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routerEnv struct {
	handler http.Handler
	tokens  *auth.TokenStore
	backend *httptest.Server
	auth    chan string
}

func newRouterEnv(t *testing.T, disableCSRF bool) *routerEnv {
	t.Helper()

	env := &routerEnv{auth: make(chan string, 10)}
	env.backend = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.auth <- r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/coupons":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(models.CouponList{
				Count: 1,
				Coupons: []models.Coupon{{
					CouponID: "c-42", Day: "2025-09-29", CouponType: models.MealLunch,
					FoodPreference: models.PreferenceVeg, Status: models.CouponBooked, Price: 80, BookedBy: "A-101",
				}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(env.backend.Close)

	store, err := NewSessionStore(t.TempDir(), []byte("router-test-secret-32-bytes-xxxx"), false)
	require.NoError(t, err)
	env.tokens = auth.NewTokenStore(sessions.NewCookieStore([]byte("router-test-token-secret-32-byte")), false)
	api := client.New(env.backend.URL, 2*time.Second, nil)

	couponService := services.NewCouponService(api, nil)
	h := Handlers{
		Auth:   handlers.NewAuthHandler(api, store, env.tokens, nil),
		Public: handlers.NewPublicHandler(couponService, store, env.tokens, nil),
		Cart:   handlers.NewCartHandler(services.NewCartService(api, services.RetainFailed, nil), store, env.tokens, nil),
		Admin: handlers.NewAdminHandler(couponService, services.NewTemplateService(api, nil),
			services.NewDashboardService(api, nil), store, env.tokens, nil),
	}

	env.handler = NewRouter(h, Options{
		Session:     middleware.NewSessionMiddleware(env.tokens),
		LoginLimit:  middleware.NewLoginRateLimiter(5, 5),
		CSRFKey:     []byte("router-test-csrf-key-32-bytes-xx"),
		DisableCSRF: disableCSRF,
		Static:      web.Static(),
	})
	return env
}

// login returns the token cookie a successful login would have set
func (e *routerEnv) login(t *testing.T, userID string, admin bool) (*http.Cookie, string) {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":     userID,
		"flat_number": "A-101",
		"is_admin":    admin,
		"exp":         time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	_, err = e.tokens.Save(w, httptest.NewRequest(http.MethodGet, "/", nil), token)
	require.NoError(t, err)

	for _, c := range w.Result().Cookies() {
		if c.Name == auth.TokenSessionName {
			return c, token
		}
	}
	t.Fatal("token cookie not set")
	return nil, ""
}

func (e *routerEnv) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicRoutes(t *testing.T) {
	env := newRouterEnv(t, true)

	tests := []struct {
		name   string
		path   string
		status int
		body   string
	}{
		{name: "health", path: "/healthz", status: http.StatusOK, body: "ok"},
		{name: "stylesheet", path: "/static/css/app.css", status: http.StatusOK, body: ".navbar"},
		{name: "login page", path: "/login", status: http.StatusOK, body: "flat_number"},
		{name: "signup page", path: "/signup", status: http.StatusOK, body: "confirm_password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestRouter_RequiresSession(t *testing.T) {
	env := newRouterEnv(t, true)

	for _, path := range []string{"/", "/book", "/mycoupons/u-1", "/admin", "/admin/coupons"} {
		t.Run(path, func(t *testing.T) {
			w := env.do(httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "/login", w.Header().Get("Location"))
		})
	}
}

func TestRouter_HTMXWithoutSession(t *testing.T) {
	env := newRouterEnv(t, true)

	req := httptest.NewRequest(http.MethodPost, "/book/submit", nil)
	req.Header.Set("HX-Request", "true")
	w := env.do(req)

	assert.Equal(t, "/login", w.Header().Get("HX-Redirect"))
}

func TestRouter_AdminHint(t *testing.T) {
	env := newRouterEnv(t, true)
	cookie, _ := env.login(t, "u-1", false)

	w := env.do(httptest.NewRequest(http.MethodGet, "/admin/coupons", nil), cookie)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Empty(t, env.auth)
}

func TestRouter_AdminForwardsToken(t *testing.T) {
	env := newRouterEnv(t, true)
	cookie, token := env.login(t, "admin-1", true)

	w := env.do(httptest.NewRequest(http.MethodGet, "/admin/coupons", nil), cookie)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="coupon-c-42"`)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	require.Len(t, env.auth, 1)
	assert.Equal(t, "Bearer "+token, <-env.auth)
}

func TestRouter_HomeRedirectsResident(t *testing.T) {
	env := newRouterEnv(t, true)
	cookie, _ := env.login(t, "u-7", false)

	w := env.do(httptest.NewRequest(http.MethodGet, "/", nil), cookie)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/mycoupons/u-7", w.Header().Get("Location"))
}

func TestRouter_NotFound(t *testing.T) {
	env := newRouterEnv(t, true)

	w := env.do(httptest.NewRequest(http.MethodGet, "/static/missing.css", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(httptest.NewRequest(http.MethodDelete, "/healthz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_CSRF(t *testing.T) {
	env := newRouterEnv(t, false)
	cookie, _ := env.login(t, "u-1", false)

	form := url.Values{"day": {"2025-09-28"}, "meal": {"lunch"}, "quantity": {"1"}}
	req := httptest.NewRequest(http.MethodPost, "/book/cart", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := env.do(req, cookie)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
