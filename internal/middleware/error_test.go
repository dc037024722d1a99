package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecover(t *testing.T) {
	panicking := Recover(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	t.Run("regular request", func(t *testing.T) {
		w := httptest.NewRecorder()
		panicking.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/book", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Internal Server Error")
	})

	t.Run("htmx request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/book/cart", nil)
		req.Header.Set("HX-Request", "true")
		w := httptest.NewRecorder()
		panicking.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), `class="alert alert-error"`)
		assert.Contains(t, w.Body.String(), "Something went wrong")
	})
}

func TestWriteAlertEscapes(t *testing.T) {
	w := httptest.NewRecorder()
	WriteAlert(w, http.StatusBadRequest, "<script>alert(1)</script>")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "<script>")
	assert.Contains(t, w.Body.String(), "&lt;script&gt;")
}

func TestNotFoundHandler(t *testing.T) {
	w := httptest.NewRecorder()
	NotFoundHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "404")

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	req.Header.Set("HX-Request", "true")
	w = httptest.NewRecorder()
	NotFoundHandler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "alert-error")
}

func TestMethodNotAllowedHandler(t *testing.T) {
	w := httptest.NewRecorder()
	MethodNotAllowedHandler().ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/book", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
