package config

import (
	"testing"
	"time"
)

func TestLoadFallsBackToDefaults(t *testing.T) {
	t.Setenv("CONFIG_ENV", "nonexistent")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with no config file should fall back to defaults, got %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
	if cfg.Mode != "release" {
		t.Errorf("mode = %q, want release", cfg.Mode)
	}
	if cfg.PingPeriod != 54*time.Second {
		t.Errorf("ping period = %v, want 54s", cfg.PingPeriod)
	}
	if cfg.MessageBurst != 10 || cfg.MessageWindow != time.Second {
		t.Errorf("rate limit = %d/%v, want 10/1s", cfg.MessageBurst, cfg.MessageWindow)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("allowed origins = %v, want wildcard default", cfg.AllowedOrigins)
	}
}
