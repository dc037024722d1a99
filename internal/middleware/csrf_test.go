package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCSRFKey = []byte("0123456789abcdef0123456789abcdef")

func csrfHandler(seen *string) http.Handler {
	protected := CSRF(testCSRFKey, false, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = CSRFToken(r)
		w.WriteHeader(http.StatusOK)
	}))
	return CSRFPlaintext(protected)
}

func TestCSRF_RejectsMissingToken(t *testing.T) {
	var seen string
	handler := csrfHandler(&seen)

	t.Run("form post", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/book/submit", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("htmx post", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/book/submit", nil)
		req.Header.Set("HX-Request", "true")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Security token mismatch")
	})
}

func TestCSRF_AcceptsIssuedToken(t *testing.T) {
	var seen string
	handler := csrfHandler(&seen)

	get := httptest.NewRecorder()
	handler.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/book", nil))
	require.Equal(t, http.StatusOK, get.Code)
	require.NotEmpty(t, seen)
	token := seen

	req := httptest.NewRequest(http.MethodPost, "/book/submit", nil)
	req.Header.Set("X-CSRF-Token", token)
	for _, c := range get.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
