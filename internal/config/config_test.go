package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	if cfg.Gateway.Port != 8090 {
		t.Errorf("port = %d", cfg.Gateway.Port)
	}
	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("base url = %q", cfg.Backend.BaseURL)
	}
	if cfg.Client.Language != "hindi" {
		t.Errorf("language = %q", cfg.Client.Language)
	}
	if cfg.Cache.Backend != "sqlite" || cfg.Cache.Version != Version {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.Dir == "" {
		t.Error("cache dir not derived from data dir")
	}
	if cfg.Timeout() != 60*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout())
	}
	if cfg.Addr() != ":8090" {
		t.Errorf("addr = %q", cfg.Addr())
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
gateway:
  port: 9000
backend:
  base_url: https://api.example.com
  timeout_seconds: 15
client:
  language: english
cache:
  backend: redis
  redis:
    addr: redis.internal:6379
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Load(path)
	if cfg.Gateway.Port != 9000 {
		t.Errorf("port = %d", cfg.Gateway.Port)
	}
	if cfg.Backend.BaseURL != "https://api.example.com" || cfg.Backend.TimeoutSeconds != 15 {
		t.Errorf("backend = %+v", cfg.Backend)
	}
	if cfg.Client.Language != "english" {
		t.Errorf("language = %q", cfg.Client.Language)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.Redis.Addr != "redis.internal:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KRISHI_BACKEND_URL", "http://10.0.0.5:8000")
	t.Setenv("KRISHI_LANGUAGE", "marathi")
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("PORT", "8081")
	t.Setenv("KRISHI_TIMEOUT", "not-a-number")

	cfg := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if cfg.Backend.BaseURL != "http://10.0.0.5:8000" {
		t.Errorf("base url = %q", cfg.Backend.BaseURL)
	}
	if cfg.Client.Language != "marathi" {
		t.Errorf("language = %q", cfg.Client.Language)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("cache backend = %q", cfg.Cache.Backend)
	}
	if cfg.Gateway.Port != 8081 {
		t.Errorf("port = %d", cfg.Gateway.Port)
	}
	// Unparseable ints keep the default.
	if cfg.Backend.TimeoutSeconds != 60 {
		t.Errorf("timeout = %d", cfg.Backend.TimeoutSeconds)
	}
}
