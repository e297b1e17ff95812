package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("FLIGHT_STORE", "")
	t.Setenv("EVENT_SINK", "")
	t.Setenv("REFERENCE_CACHE_TTL", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("CACHE_BACKEND", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AppEnv != "development" {
		t.Errorf("Expected AppEnv = development, got %s", cfg.AppEnv)
	}
	if cfg.FlightStore != "postgres" {
		t.Errorf("Expected FlightStore = postgres, got %s", cfg.FlightStore)
	}
	if cfg.EventSink != "log" {
		t.Errorf("Expected EventSink = log, got %s", cfg.EventSink)
	}
	if cfg.ReferenceCacheTTL != 10*time.Minute {
		t.Errorf("Expected ReferenceCacheTTL = 10m, got %s", cfg.ReferenceCacheTTL)
	}
	if cfg.CacheBackend != "memory" {
		t.Errorf("Expected CacheBackend = memory, got %s", cfg.CacheBackend)
	}
	if cfg.JWTSecret == "" {
		t.Error("Expected a development JWT secret to be filled in")
	}
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	if err == nil {
		t.Fatal("Load() should fail without JWT_SECRET in production")
	}
	if cfg != nil {
		t.Fatal("Load() should return nil config on error")
	}
	if err.Error() != "JWT_SECRET is required in production" {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("FLIGHT_STORE", "mongo")
	t.Setenv("EVENT_SINK", "nats")
	t.Setenv("REFERENCE_CACHE_TTL", "45")
	t.Setenv("RATE_LIMIT_BURST", "7")
	t.Setenv("CORS_ORIGINS", "https://ops.example.com, http://localhost:5173,")
	t.Setenv("PG_USER", "ops")
	t.Setenv("PG_PASSWORD", "pw")
	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_PORT", "5433")
	t.Setenv("PG_DB", "flights")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.FlightStore != "mongo" || cfg.EventSink != "nats" {
		t.Errorf("Unexpected store/sink: %s/%s", cfg.FlightStore, cfg.EventSink)
	}
	if cfg.ReferenceCacheTTL != 45*time.Second {
		t.Errorf("Expected 45s TTL, got %s", cfg.ReferenceCacheTTL)
	}
	if cfg.RateLimitBurst != 7 {
		t.Errorf("Expected burst 7, got %d", cfg.RateLimitBurst)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://localhost:5173" {
		t.Errorf("Unexpected CORS origins: %v", cfg.CORSOrigins)
	}
	if got := cfg.PostgresDSN(); got != "postgres://ops:pw@db:5433/flights?sslmode=disable" {
		t.Errorf("Unexpected DSN: %s", got)
	}
}

func TestLoad_RejectsUnknownSink(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("EVENT_SINK", "kafka")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject an unknown EVENT_SINK")
	}
}

func TestLoad_RejectsUnknownCacheBackend(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("EVENT_SINK", "")
	t.Setenv("CACHE_BACKEND", "memcached")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject an unknown CACHE_BACKEND")
	}
}
