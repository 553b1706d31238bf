package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures everything cmd/server needs to wire the portal.
type Server struct {
	Addr          string
	DatabaseURL   string
	JWTSigningKey string
	TokenTTL      time.Duration

	// AdminUsername/AdminPassword seed the first staff account when the
	// account store is empty. Matches the provisioning the portal shipped
	// with; rotate in production.
	AdminUsername string
	AdminPassword string

	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// RedisConfig configures the optional redis client used for rate limiting.
// An empty URL disables redis entirely.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RateLimitConfig bounds public intake traffic (submissions, logins).
type RateLimitConfig struct {
	Disabled bool
	// Requests allowed per window, per client IP.
	IntakeLimit int
	LoginLimit  int
	Window      time.Duration
}

// FromEnv builds a Server config from environment variables so main stays
// lean.
func FromEnv() Server {
	addr := os.Getenv("PORTAL_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	adminUser := os.Getenv("ADMIN_USERNAME")
	if adminUser == "" {
		adminUser = "admin"
	}
	adminPass := os.Getenv("ADMIN_PASSWORD")
	if adminPass == "" {
		adminPass = "admin"
	}

	return Server{
		Addr:          addr,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSigningKey: jwtSigningKey,
		TokenTTL:      durationEnv("TOKEN_TTL", 8*time.Hour),
		AdminUsername: adminUser,
		AdminPassword: adminPass,
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: intEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		RateLimit: RateLimitConfig{
			Disabled:    os.Getenv("RATE_LIMIT_DISABLED") == "true",
			IntakeLimit: intEnv("RATE_LIMIT_INTAKE", 10),
			LoginLimit:  intEnv("RATE_LIMIT_LOGIN", 5),
			Window:      durationEnv("RATE_LIMIT_WINDOW", time.Minute),
		},
	}
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return v
}
