package commands

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMigrateMemoryDriver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  mode: test\nstorage:\n  driver: memory\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	root := newRootCmd()
	root.SetArgs([]string{"--config", path, "migrate"})
	if err := root.Execute(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if cfg.Storage.Driver != "memory" {
		t.Fatalf("config not loaded: %+v", cfg.Storage)
	}
}

func TestUnknownCommandFails(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"frobnicate"})
	root.SetOut(os.Stderr)
	if err := root.Execute(); err == nil {
		t.Fatalf("expected error for unknown command")
	}
}
