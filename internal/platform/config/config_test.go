package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadServer_DefaultsAndSanitize(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", " Memory ")
	t.Setenv("AVATAR_BASE_URL", "http://cdn.local/avatars/")
	t.Setenv("GENERATE_RATE_PER_MIN", "-3")

	cfg, err := LoadServer("testdata/missing.env")
	if err != nil {
		t.Fatalf("LoadServer: %v", err)
	}
	if cfg.StorageBackend != StorageMemory {
		t.Fatalf("StorageBackend=%q, want %q", cfg.StorageBackend, StorageMemory)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port=%q, want 8080", cfg.Port)
	}
	if cfg.AvatarBaseURL != "http://cdn.local/avatars" {
		t.Fatalf("AvatarBaseURL=%q", cfg.AvatarBaseURL)
	}
	if cfg.GenerateRatePerMin != 0 {
		t.Fatalf("GenerateRatePerMin=%d, want 0", cfg.GenerateRatePerMin)
	}
	if cfg.AvatarMaxBytes != 2<<20 {
		t.Fatalf("AvatarMaxBytes=%d, want %d", cfg.AvatarMaxBytes, 2<<20)
	}
}

func TestLoadServer_PostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadServer("testdata/missing.env")
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("err=%v, want DATABASE_URL error", err)
	}
}

func TestLoadServer_UnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "sqlite")

	if _, err := LoadServer("testdata/missing.env"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoadClient(t *testing.T) {
	t.Setenv("PLANNER_API_BASE_URL", "http://api.local/ ")
	t.Setenv("PLANNER_HTTP_TIMEOUT", "15s")

	cfg, err := LoadClient("testdata/missing.env")
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if cfg.APIBaseURL != "http://api.local" {
		t.Fatalf("APIBaseURL=%q", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("HTTPTimeout=%v, want 15s", cfg.HTTPTimeout)
	}
	if cfg.CacheDir != "" {
		t.Fatalf("CacheDir=%q, want empty", cfg.CacheDir)
	}
}
