package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORAGE_RETRY_INTERVAL", "")
	t.Setenv("AI_RATE_LIMIT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("expected empty database URL, got %q", cfg.DatabaseURL)
	}
	if cfg.StorageRetryInterval != 5*time.Second {
		t.Errorf("expected 5s retry interval, got %s", cfg.StorageRetryInterval)
	}
	if cfg.AIRateLimit != 2 {
		t.Errorf("expected AI rate limit 2, got %v", cfg.AIRateLimit)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "mongodb://db:27017")
	t.Setenv("STORAGE_RETRY_WINDOW", "2m")
	t.Setenv("JWT_EXPIRES_IN", "not-a-duration")
	t.Setenv("AI_RATE_LIMIT", "-1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DatabaseURL != "mongodb://db:27017" {
		t.Errorf("expected database URL override, got %q", cfg.DatabaseURL)
	}
	if cfg.StorageRetryWindow != 2*time.Minute {
		t.Errorf("expected 2m retry window, got %s", cfg.StorageRetryWindow)
	}
	if cfg.JWTExpirationDur != 15*time.Minute {
		t.Errorf("expected fallback 15m JWT expiry, got %s", cfg.JWTExpirationDur)
	}
	if cfg.AIRateLimit != 2 {
		t.Errorf("expected fallback AI rate limit 2, got %v", cfg.AIRateLimit)
	}
}
