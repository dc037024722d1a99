// Package server assembles the portal's HTTP routes.
package server

import (
	"io/fs"
	"net/http"

	"coupon-portal/internal/handlers"
	"coupon-portal/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handlers are the page handlers mounted by the router
type Handlers struct {
	Auth   *handlers.AuthHandler
	Public *handlers.PublicHandler
	Cart   *handlers.CartHandler
	Admin  *handlers.AdminHandler
}

// Options configure the router
type Options struct {
	Log         *zap.Logger
	Session     *middleware.SessionMiddleware
	LoginLimit  *middleware.LoginRateLimiter
	CSRFKey     []byte
	Secure      bool
	DisableCSRF bool
	Static      fs.FS
}

// NewRouter mounts every portal route
func NewRouter(h Handlers, opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))
	r.Use(middleware.Recover(log))
	r.Use(chimiddleware.CleanPath)
	r.Use(middleware.SecureHeaders)

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler().ServeHTTP)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(opts.Static))))
	}

	r.Group(func(r chi.Router) {
		if !opts.DisableCSRF {
			if !opts.Secure {
				r.Use(middleware.CSRFPlaintext)
			}
			r.Use(middleware.CSRF(opts.CSRFKey, opts.Secure, log))
		}
		r.Use(opts.Session.LoadSession)
		r.Use(middleware.RequireSession)
		r.Use(middleware.NoStore)

		r.Get("/", h.Public.HomePage)

		r.Group(func(r chi.Router) {
			if opts.LoginLimit != nil {
				r.Use(middleware.RateLimitLogin(opts.LoginLimit, log))
			}
			r.Get("/login", h.Auth.LoginPage)
			r.Post("/login", h.Auth.LoginSubmit)
			r.Get("/signup", h.Auth.SignupPage)
			r.Post("/signup", h.Auth.SignupSubmit)
		})
		r.Post("/logout", h.Auth.Logout)

		r.Get("/mycoupons/{user_id}", h.Public.MyCouponsPage)

		r.Route("/book", func(r chi.Router) {
			r.Get("/", h.Cart.BookPage)
			r.Post("/cart", h.Cart.AddToCart)
			r.Post("/cart/{id}/remove", h.Cart.RemoveFromCart)
			r.Post("/submit", h.Cart.SubmitCart)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdminHint)
			r.Get("/", h.Admin.DashboardPage)
			r.Get("/coupons", h.Admin.CouponsPage)
			r.Post("/coupons/status", h.Admin.UpdateCouponStatus)
			r.Get("/templates", h.Admin.TemplatesPage)
			r.Post("/templates", h.Admin.UpsertTemplate)
		})
	})

	return r
}
