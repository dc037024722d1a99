package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("API_TIMEOUT", "")
	t.Setenv("CART_FAILURE_POLICY", "")
	t.Setenv("ENV", "")
	t.Setenv("SESSION_DIR", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "retain", cfg.Cart.FailurePolicy)
	assert.False(t, cfg.IsProduction())
	assert.NotEmpty(t, cfg.Session.Dir)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://backend.example.org/")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("CART_FAILURE_POLICY", "DISCARD")
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("LOGIN_RATE_LIMIT", "not-a-number")
	t.Setenv("SESSION_DIR", "/var/lib/coupon-portal/sessions")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://backend.example.org", cfg.Backend.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "discard", cfg.Cart.FailurePolicy)
	assert.Equal(t, "/var/lib/coupon-portal/sessions", cfg.Session.Dir)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, 5, cfg.RateLimit.LoginPerMinute)
}

func TestLoad_InvalidBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "not a url")

	_, err := Load()
	assert.Error(t, err)
}
