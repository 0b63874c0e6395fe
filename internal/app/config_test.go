package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" || cfg.Storage.Driver != "postgres" || cfg.Postgres.Port != 5432 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Storage.Migrator != "gorm" {
		t.Fatalf("unexpected migrator default %q", cfg.Storage.Migrator)
	}
	if !cfg.Metrics.Enabled {
		t.Fatalf("metrics should be enabled by default")
	}
	if cfg.HTTP.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout %v", cfg.HTTP.ShutdownTimeout)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte("storage:\n  driver: sqlite\nsqlite:\n  path: /tmp/crm.db\nredis:\n  lock_ttl: 2s\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CLIENTCONTACTS_HTTP_ADDR", "127.0.0.1:9000")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Sqlite.Path != "/tmp/crm.db" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Redis.LockTTL != 2*time.Second {
		t.Fatalf("unexpected lock ttl %v", cfg.Redis.LockTTL)
	}
	if cfg.HTTP.Addr != "127.0.0.1:9000" {
		t.Fatalf("env override not applied: %q", cfg.HTTP.Addr)
	}
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CLIENTCONTACTS_STORAGE_DRIVER", "mongo")
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
