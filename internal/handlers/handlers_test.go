package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"coupon-portal/internal/auth"
	"coupon-portal/internal/client"
	"coupon-portal/internal/middleware"
	"coupon-portal/internal/models"
	"coupon-portal/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBackend is a mock implementation of services.BackendAPI
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) BookCoupon(ctx context.Context, req models.BookingRequest) (int, error) {
	args := m.Called(ctx, req)
	return args.Int(0), args.Error(1)
}

func (m *MockBackend) UpdateCouponStatus(ctx context.Context, couponID string, status models.CouponStatus) error {
	args := m.Called(ctx, couponID, status)
	return args.Error(0)
}

func (m *MockBackend) ListCoupons(ctx context.Context) (*models.CouponList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CouponList), args.Error(1)
}

func (m *MockBackend) ListUserCoupons(ctx context.Context, userID string) (*models.UserCoupons, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserCoupons), args.Error(1)
}

func (m *MockBackend) ListTemplates(ctx context.Context) ([]models.CouponTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CouponTemplate), args.Error(1)
}

func (m *MockBackend) UpsertTemplate(ctx context.Context, t models.CouponTemplate) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockBackend) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardStats), args.Error(1)
}

func (m *MockBackend) Login(ctx context.Context, creds client.Credentials) (string, error) {
	args := m.Called(ctx, creds)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) Signup(ctx context.Context, req client.SignupRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

var _ services.BackendAPI = (*MockBackend)(nil)

// testEnv mounts every handler on a chi router and carries cookies between
// requests the way a browser would
type testEnv struct {
	api     *MockBackend
	store   sessions.Store
	tokens  *auth.TokenStore
	router  chi.Router
	claims  *auth.DisplayClaims
	cookies map[string]*http.Cookie
}

func newTestEnv(t *testing.T, policy services.FailurePolicy) *testEnv {
	t.Helper()

	sessionStore := sessions.NewFilesystemStore(t.TempDir(), []byte("handler-test-secret-32-bytes-xx"))
	sessionStore.MaxLength(0)

	env := &testEnv{
		api:     new(MockBackend),
		store:   sessionStore,
		cookies: make(map[string]*http.Cookie),
	}
	env.tokens = auth.NewTokenStore(sessions.NewCookieStore([]byte("handler-test-token-secret-32-byt")), false)

	cartService := services.NewCartService(env.api, policy, nil)
	couponService := services.NewCouponService(env.api, nil)
	templateService := services.NewTemplateService(env.api, nil)
	dashboardService := services.NewDashboardService(env.api, nil)

	authHandler := NewAuthHandler(env.api, env.store, env.tokens, nil)
	publicHandler := NewPublicHandler(couponService, env.store, env.tokens, nil)
	cartHandler := NewCartHandler(cartService, env.store, env.tokens, nil)
	adminHandler := NewAdminHandler(couponService, templateService, dashboardService, env.store, env.tokens, nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if env.claims != nil {
				ctx = middleware.SetClaimsContext(ctx, env.claims)
				ctx = client.WithToken(ctx, "test-token")
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	r.Get("/", publicHandler.HomePage)
	r.Get("/login", authHandler.LoginPage)
	r.Post("/login", authHandler.LoginSubmit)
	r.Get("/signup", authHandler.SignupPage)
	r.Post("/signup", authHandler.SignupSubmit)
	r.Post("/logout", authHandler.Logout)
	r.Get("/mycoupons/{user_id}", publicHandler.MyCouponsPage)
	r.Get("/book", cartHandler.BookPage)
	r.Post("/book/cart", cartHandler.AddToCart)
	r.Post("/book/cart/{id}/remove", cartHandler.RemoveFromCart)
	r.Post("/book/submit", cartHandler.SubmitCart)
	r.Get("/admin", adminHandler.DashboardPage)
	r.Get("/admin/coupons", adminHandler.CouponsPage)
	r.Post("/admin/coupons/status", adminHandler.UpdateCouponStatus)
	r.Get("/admin/templates", adminHandler.TemplatesPage)
	r.Post("/admin/templates", adminHandler.UpsertTemplate)
	env.router = r

	return env
}

func (e *testEnv) asResident(userID string) {
	e.claims = &auth.DisplayClaims{UserID: userID, FlatNumber: "A-101"}
}

func (e *testEnv) asAdmin() {
	e.claims = &auth.DisplayClaims{UserID: "admin-1", FlatNumber: "OFFICE", IsAdmin: true}
}

func (e *testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	return e.serve(t, httptest.NewRequest(http.MethodGet, target, nil))
}

func (e *testEnv) post(t *testing.T, target string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return e.serve(t, req)
}

func (e *testEnv) serve(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(e.cookies, c.Name)
			continue
		}
		e.cookies[c.Name] = c
	}
	return w
}

// cart decodes the cart currently held in the session cookie
func (e *testEnv) cart(t *testing.T) *models.Cart {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	session, err := e.store.Get(req, SessionName)
	require.NoError(t, err)
	b := base{}
	return b.getCartFromSession(session)
}

func signedToken(t *testing.T, userID string, admin bool, ttl time.Duration) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":     userID,
		"flat_number": "A-101",
		"is_admin":    admin,
		"exp":         time.Now().Add(ttl).Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}
