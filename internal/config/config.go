package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Session   SessionConfig
	Cart      CartConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

// BackendConfig points at the coupon API that owns all booking data
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	Secret  string
	CSRFKey string
	// Dir holds the server-side portal sessions (cart and flashes)
	Dir string
}

type CartConfig struct {
	// FailurePolicy is "retain" (keep failed items) or "discard" (clear after submit)
	FailurePolicy string
}

type RateLimitConfig struct {
	LoginPerMinute int
	LoginBurst     int
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "localhost"),
			Env:  getEnv("ENV", "development"),
		},
		Backend: BackendConfig{
			BaseURL: normalizeBaseURL(getEnv("API_BASE_URL", "http://localhost:8000")),
			Timeout: getEnvAsDuration("API_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			Secret:  getEnv("SESSION_SECRET", "your-secret-key-change-in-production"),
			CSRFKey: getEnv("CSRF_KEY", "32-byte-csrf-key-change-in-prod!"),
			Dir:     getEnv("SESSION_DIR", filepath.Join(os.TempDir(), "coupon-portal-sessions")),
		},
		Cart: CartConfig{
			FailurePolicy: strings.ToLower(getEnv("CART_FAILURE_POLICY", "retain")),
		},
		RateLimit: RateLimitConfig{
			LoginPerMinute: getEnvAsInt("LOGIN_RATE_LIMIT", 5),
			LoginBurst:     getEnvAsInt("LOGIN_RATE_BURST", 5),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", ""),
		},
	}

	if _, err := url.ParseRequestURI(config.Backend.BaseURL); err != nil {
		return nil, err
	}

	return config, nil
}

// IsProduction reports whether cookies should be marked secure
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// normalizeBaseURL drops a trailing slash so paths can be appended as-is
func normalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
