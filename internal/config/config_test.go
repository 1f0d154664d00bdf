package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/vaultpass/passgen-go/internal/breach"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestParseDefaults(t *testing.T) {
	cfg, err := parse(env(nil))
	if err != nil {
		t.Fatalf("parse() unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != "development" {
		t.Errorf("Port/Env = %q/%q", cfg.Port, cfg.Env)
	}
	if cfg.HIBPBaseURL != breach.DefaultBaseURL || cfg.HIBPUserAgent != breach.DefaultUserAgent {
		t.Errorf("HIBP defaults = %q/%q", cfg.HIBPBaseURL, cfg.HIBPUserAgent)
	}
	if cfg.HIBPTimeout != breach.DefaultTimeout {
		t.Errorf("HIBPTimeout = %v, want %v", cfg.HIBPTimeout, breach.DefaultTimeout)
	}
	if cfg.RangeCacheTTL != time.Hour {
		t.Errorf("RangeCacheTTL = %v, want 1h", cfg.RangeCacheTTL)
	}
	if cfg.BreachRPS != 2 || cfg.BreachBurst != 5 {
		t.Errorf("breach limits = %v/%d, want 2/5", cfg.BreachRPS, cfg.BreachBurst)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty", cfg.RedisAddr)
	}
	if len(cfg.VaultKey) != 32 {
		t.Errorf("derived VaultKey has %d bytes, want 32", len(cfg.VaultKey))
	}
}

func TestParseOverrides(t *testing.T) {
	key := strings.Repeat("ab", 32)
	cfg, err := parse(env(map[string]string{
		"PORT":            "9000",
		"VAULT_KEY":       key,
		"HIBP_BASE_URL":   "http://localhost:1234",
		"HIBP_TIMEOUT":    "750ms",
		"REDIS_ADDR":      "localhost:6379",
		"RANGE_CACHE_TTL": "10m",
		"BREACH_RPS":      "0.5",
		"BREACH_BURST":    "3",
	}))
	if err != nil {
		t.Fatalf("parse() unexpected error: %v", err)
	}
	if cfg.Port != "9000" || cfg.HIBPBaseURL != "http://localhost:1234" || cfg.RedisAddr != "localhost:6379" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.HIBPTimeout != 750*time.Millisecond || cfg.RangeCacheTTL != 10*time.Minute {
		t.Errorf("durations = %v/%v", cfg.HIBPTimeout, cfg.RangeCacheTTL)
	}
	if cfg.BreachRPS != 0.5 || cfg.BreachBurst != 3 {
		t.Errorf("breach limits = %v/%d", cfg.BreachRPS, cfg.BreachBurst)
	}
	if !bytes.Equal(cfg.VaultKey, bytes.Repeat([]byte{0xab}, 32)) {
		t.Errorf("VaultKey = %x", cfg.VaultKey)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"production default secret", map[string]string{"ENV": "production", "VAULT_KEY": strings.Repeat("00", 32)}},
		{"production without vault key", map[string]string{"ENV": "production", "JWT_SECRET": "s3cret"}},
		{"short vault key", map[string]string{"VAULT_KEY": "abcd"}},
		{"bad timeout", map[string]string{"HIBP_TIMEOUT": "soon"}},
		{"negative ttl", map[string]string{"RANGE_CACHE_TTL": "-1m"}},
		{"zero rps", map[string]string{"BREACH_RPS": "0"}},
		{"bad burst", map[string]string{"BREACH_BURST": "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parse(env(tt.vars)); err == nil {
				t.Error("parse() expected an error")
			}
		})
	}
}
