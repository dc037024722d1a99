package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coupon-portal/internal/auth"
	"coupon-portal/internal/client"
	"coupon-portal/internal/config"
	"coupon-portal/internal/handlers"
	"coupon-portal/internal/logger"
	"coupon-portal/internal/middleware"
	"coupon-portal/internal/server"
	"coupon-portal/internal/services"
	"coupon-portal/web"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	zlog, err := logger.New(cfg.Server.Env, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer func() { _ = zlog.Sync() }()

	policy, err := services.ParseFailurePolicy(cfg.Cart.FailurePolicy)
	if err != nil {
		zlog.Fatal("Invalid cart configuration", zap.Error(err))
	}

	// The portal session (cart, flashes) is kept server-side; the token
	// travels in its own cookie
	sessionStore, err := server.NewSessionStore(cfg.Session.Dir, []byte(cfg.Session.Secret), cfg.IsProduction())
	if err != nil {
		zlog.Fatal("Failed to create session store", zap.Error(err))
	}
	tokens := auth.NewTokenStore(sessions.NewCookieStore([]byte(cfg.Session.Secret)), cfg.IsProduction())

	// Coupon API client and services
	api := client.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, zlog.Named("coupon-api"))
	cartService := services.NewCartService(api, policy, zlog)
	couponService := services.NewCouponService(api, zlog)
	templateService := services.NewTemplateService(api, zlog)
	dashboardService := services.NewDashboardService(api, zlog)

	// Initialize handlers
	h := server.Handlers{
		Auth:   handlers.NewAuthHandler(api, sessionStore, tokens, zlog),
		Public: handlers.NewPublicHandler(couponService, sessionStore, tokens, zlog),
		Cart:   handlers.NewCartHandler(cartService, sessionStore, tokens, zlog),
		Admin:  handlers.NewAdminHandler(couponService, templateService, dashboardService, sessionStore, tokens, zlog),
	}

	loginLimiter := middleware.NewLoginRateLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst)
	stopCleanup := make(chan struct{})
	go loginLimiter.RunCleanup(5*time.Minute, stopCleanup)
	go server.RunSessionPruning(cfg.Session.Dir, server.SessionMaxAge, time.Hour, zlog, stopCleanup)

	router := server.NewRouter(h, server.Options{
		Log:        zlog,
		Session:    middleware.NewSessionMiddleware(tokens),
		LoginLimit: loginLimiter,
		CSRFKey:    []byte(cfg.Session.CSRFKey),
		Secure:     cfg.IsProduction(),
		Static:     web.Static(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// sequential cart bookings can take several upstream round trips
		WriteTimeout: cfg.Backend.Timeout*10 + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		zlog.Info("Server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Server.Env),
			zap.String("api_base_url", cfg.Backend.BaseURL),
			zap.String("cart_failure_policy", policy.String()),
			zap.String("session_dir", cfg.Session.Dir),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zlog.Info("Shutting down gracefully...")
	close(stopCleanup)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}
}
