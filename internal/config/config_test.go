package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("Expected default port 5000, got %d", cfg.Server.Port)
	}
	if cfg.Database.Dialect != "sqlite3" {
		t.Errorf("Expected default dialect sqlite3, got %s", cfg.Database.Dialect)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Expected default metrics path /metrics, got %s", cfg.Metrics.Path)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  port: 8080\ndatabase:\n  dialect: postgres\n  source: \"host=db dbname=qrmenu\"\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Database.Dialect != "postgres" {
		t.Errorf("Expected dialect postgres, got %s", cfg.Database.Dialect)
	}
	// Fields absent from the file keep their defaults
	if cfg.Staff.Username != "staff" {
		t.Errorf("Expected default staff username, got %s", cfg.Staff.Username)
	}
}
