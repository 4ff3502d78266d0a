package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Server.Addr != "localhost:5001" {
			t.Errorf("Expected default addr localhost:5001, got %q", cfg.Server.Addr)
		}
		if cfg.Database.Path != "./data/libao.db" {
			t.Errorf("Expected default db path, got %q", cfg.Database.Path)
		}
		if cfg.Market.RequestTimeout != 10*time.Second {
			t.Errorf("Expected default timeout 10s, got %v", cfg.Market.RequestTimeout)
		}
		if cfg.Scheduler.PriceRefreshCron == "" {
			t.Error("Expected a default refresh schedule")
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "8080")
		t.Setenv("SERVER_HOST", "0.0.0.0")
		t.Setenv("DB_PATH", "/tmp/test.db")
		t.Setenv("MARKET_REQUEST_TIMEOUT", "3s")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Server.Addr != "0.0.0.0:8080" {
			t.Errorf("Expected overridden addr, got %q", cfg.Server.Addr)
		}
		if cfg.Database.Path != "/tmp/test.db" {
			t.Errorf("Expected overridden db path, got %q", cfg.Database.Path)
		}
		if cfg.Market.RequestTimeout != 3*time.Second {
			t.Errorf("Expected overridden timeout, got %v", cfg.Market.RequestTimeout)
		}
		if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
			t.Errorf("Expected trimmed origin list, got %v", cfg.CORS.AllowedOrigins)
		}
	})

	t.Run("malformed duration falls back to default", func(t *testing.T) {
		t.Setenv("MARKET_REQUEST_TIMEOUT", "soon")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Market.RequestTimeout != 10*time.Second {
			t.Errorf("Expected default timeout on parse failure, got %v", cfg.Market.RequestTimeout)
		}
	})
}
