package middleware

import (
	"fmt"
	"html/template"
	"net/http"
	"runtime/debug"

	"coupon-portal/internal/logger"

	"go.uber.org/zap"
)

const alertFragment = `<div class="alert alert-error" role="alert"><p>%s</p></div>`

// WriteAlert writes an HTMX error fragment with status
func WriteAlert(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, alertFragment, template.HTMLEscapeString(message))
}

// Recover turns panics into a 500 answer. HTMX requests get an alert
// fragment, everything else a plain error page.
func Recover(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.For(r.Context(), log).Error("panic recovered",
						zap.Any("panic", err),
						zap.String("path", r.URL.Path),
						zap.ByteString("stack", debug.Stack()),
					)

					if IsHTMXRequest(r) {
						WriteAlert(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
						return
					}
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

const notFoundPage = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Page Not Found - Coupon Portal</title>
	<link href="/static/css/app.css" rel="stylesheet">
</head>
<body>
	<main class="empty-state">
		<h1>404</h1>
		<p>The page you're looking for doesn't exist.</p>
		<a href="/" class="btn btn-primary">Go Home</a>
	</main>
</body>
</html>`

// NotFoundHandler handles 404 errors
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsHTMXRequest(r) {
			WriteAlert(w, http.StatusNotFound, "The page you're looking for doesn't exist.")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, notFoundPage)
	})
}

// MethodNotAllowedHandler handles 405 errors
func MethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsHTMXRequest(r) {
			WriteAlert(w, http.StatusMethodNotAllowed, "Method not allowed for this endpoint.")
			return
		}
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})
}
