package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Addr != ":8000" {
		t.Fatalf("expected default addr :8000, got %q", cfg.Addr)
	}
	if cfg.DBHost != "localhost" || cfg.DBPort != "5432" {
		t.Fatalf("unexpected default db host/port: %s:%s", cfg.DBHost, cfg.DBPort)
	}
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Fatalf("unexpected default session TTL: %s", cfg.SessionTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9000")
	t.Setenv("DB_NAME", "blog_test")
	t.Setenv("SESSION_TTL_HOURS", "1")

	cfg := Load()

	if cfg.Addr != ":9000" {
		t.Fatalf("expected addr :9000, got %q", cfg.Addr)
	}
	if cfg.DBName != "blog_test" {
		t.Fatalf("expected db name blog_test, got %q", cfg.DBName)
	}
	if cfg.SessionTTL != time.Hour {
		t.Fatalf("expected session TTL 1h, got %s", cfg.SessionTTL)
	}
}

func TestLoadIgnoresInvalidIntegers(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := Load()

	if cfg.DBMaxOpenConns != 25 {
		t.Fatalf("expected fallback to default 25, got %d", cfg.DBMaxOpenConns)
	}
}
