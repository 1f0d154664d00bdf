package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/vaultpass/passgen-go/internal/breach"
	"github.com/vaultpass/passgen-go/internal/crypto"
)

const defaultJWTSecret = "dev-secret-change-in-production"

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string
	JWTSecret   string
	JWTExpiry   time.Duration
	VaultKey    []byte

	HIBPBaseURL   string
	HIBPUserAgent string
	HIBPTimeout   time.Duration

	// RedisAddr enables the range cache when set.
	RedisAddr     string
	RangeCacheTTL time.Duration

	BreachRPS   float64
	BreachBurst int
}

// IsProduction reports whether the service runs with production safeguards.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the configuration from the environment and exits on invalid
// values.
func Load() Config {
	cfg, err := parse(os.Getenv)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

func parse(lookup func(string) string) (Config, error) {
	getEnv := func(key, fallback string) string {
		if v := lookup(key); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		DatabaseDSN:   getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/passgen?parseTime=true&clientFoundRows=true"),
		JWTSecret:     getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpiry:     24 * time.Hour,
		HIBPBaseURL:   getEnv("HIBP_BASE_URL", breach.DefaultBaseURL),
		HIBPUserAgent: getEnv("HIBP_USER_AGENT", breach.DefaultUserAgent),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
	}

	if cfg.IsProduction() && cfg.JWTSecret == defaultJWTSecret {
		return Config{}, errors.New("JWT_SECRET must be set in production environment")
	}

	var err error
	if cfg.HIBPTimeout, err = parseDuration(getEnv("HIBP_TIMEOUT", breach.DefaultTimeout.String()), "HIBP_TIMEOUT"); err != nil {
		return Config{}, err
	}
	if cfg.RangeCacheTTL, err = parseDuration(getEnv("RANGE_CACHE_TTL", "1h"), "RANGE_CACHE_TTL"); err != nil {
		return Config{}, err
	}

	if cfg.BreachRPS, err = strconv.ParseFloat(getEnv("BREACH_RPS", "2"), 64); err != nil || cfg.BreachRPS <= 0 {
		return Config{}, fmt.Errorf("BREACH_RPS must be a positive number")
	}
	if cfg.BreachBurst, err = strconv.Atoi(getEnv("BREACH_BURST", "5")); err != nil || cfg.BreachBurst <= 0 {
		return Config{}, fmt.Errorf("BREACH_BURST must be a positive integer")
	}

	if raw := lookup("VAULT_KEY"); raw != "" {
		if cfg.VaultKey, err = crypto.ParseKey(raw); err != nil {
			return Config{}, fmt.Errorf("VAULT_KEY: %w", err)
		}
	} else if cfg.IsProduction() {
		return Config{}, errors.New("VAULT_KEY must be set in production environment")
	} else {
		slog.Warn("VAULT_KEY not set, deriving a development key from JWT_SECRET")
		cfg.VaultKey = crypto.DeriveKey(cfg.JWTSecret)
	}

	return cfg, nil
}

func parseDuration(v, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}
