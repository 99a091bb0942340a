package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/boxlogic/stowplan/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stowplan.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("Backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.PackerTimeout() != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", cfg.PackerTimeout())
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		t.Error("default allowed origins should not be empty")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load missing file: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[packer]
url = "http://packer.internal:5000"
timeout = "5s"
cache_ttl = "1h"

[cache]
backend = "redis"
redis_addr = "localhost:6379"
redis_db = 2

[server]
addr = ":9090"
allowed_origins = ["https://boxes.example.com"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Packer.URL != "http://packer.internal:5000" {
		t.Errorf("URL = %q", cfg.Packer.URL)
	}
	if cfg.PackerTimeout() != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.PackerTimeout())
	}
	if cfg.PackerTTL() != time.Hour {
		t.Errorf("ttl = %v, want 1h", cfg.PackerTTL())
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "localhost:6379" || cfg.Cache.RedisDB != 2 {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "https://boxes.example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoadPartialFileKeepsOtherDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":7000"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("Backend = %q, want default file", cfg.Cache.Backend)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := writeConfig(t, `server = not toml`)
	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("code = %v, want INVALID_FORMAT", errors.GetCode(err))
	}
}

func TestLoadEnvOverridesSecrets(t *testing.T) {
	t.Setenv("STOWPLAN_REDIS_PASSWORD", "hunter2")
	t.Setenv("STOWPLAN_MONGO_URI", "mongodb://db.internal:27017")

	path := writeConfig(t, `
[cache]
redis_password = "from-file"

[store]
mongo_uri = "mongodb://file-host"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.RedisPassword != "hunter2" {
		t.Errorf("RedisPassword = %q, env should win", cfg.Cache.RedisPassword)
	}
	if cfg.Store.MongoURI != "mongodb://db.internal:27017" {
		t.Errorf("MongoURI = %q, env should win", cfg.Store.MongoURI)
	}
}
