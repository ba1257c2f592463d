package config

import (
	"fmt"
	"os"
	"strconv"
)

// Development fallback signing key. Long enough to pass the length check;
// production deployments must set SECRET.
const devSecret = "secret_key_default_min_32_chars_long"

// MinSecretLen is the minimum number of bytes required in the token signing key.
const MinSecretLen = 32

// Config holds application configuration values.
type Config struct {
	Secret      string
	DatabaseDSN string
	HTTPPort    string
	StaticDir   string
	Production  bool
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() (Config, error) {
	secret := os.Getenv("SECRET")
	if secret == "" {
		secret = devSecret
	}
	if len(secret) < MinSecretLen {
		return Config{}, fmt.Errorf("SECRET must be at least %d bytes, got %d", MinSecretLen, len(secret))
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	if _, err := strconv.Atoi(port); err != nil {
		return Config{}, fmt.Errorf("invalid HTTP_PORT value %q", port)
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "file:podofarma.db"
	}

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "public"
	}

	return Config{
		Secret:      secret,
		DatabaseDSN: dsn,
		HTTPPort:    port,
		StaticDir:   staticDir,
		Production:  os.Getenv("APP_ENV") == "production",
	}, nil
}
