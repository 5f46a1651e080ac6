package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestLoadProjectConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		path := writeTempFile(t, "worldhooks.yaml", "project: testworld\nversion: 1\nsource:\n  dsn: sqlite://./records.db\noutput:\n  dir: ./export\nregistry: registry.yaml\nparallelism: 4\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Project != "testworld" {
			t.Fatalf("unexpected project: %q", cfg.Project)
		}
		if cfg.Source.DSN != "sqlite://./records.db" {
			t.Fatalf("unexpected dsn: %q", cfg.Source.DSN)
		}
		if cfg.Parallelism != 4 {
			t.Fatalf("unexpected parallelism: %d", cfg.Parallelism)
		}
	})

	t.Run("missing project name", func(t *testing.T) {
		path := writeTempFile(t, "worldhooks.yaml", "version: 1\nsource:\n  dsn: sqlite://x\noutput:\n  dir: ./out\nregistry: r.yaml\n")
		_, err := LoadProjectConfig(path)
		if err == nil || !strings.Contains(err.Error(), "project name") {
			t.Fatalf("expected project name error, got %v", err)
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		path := writeTempFile(t, "worldhooks.yaml", "project: p\nversion: 2\nsource:\n  dsn: sqlite://x\noutput:\n  dir: ./out\nregistry: r.yaml\n")
		_, err := LoadProjectConfig(path)
		if err == nil || !strings.Contains(err.Error(), "unsupported version") {
			t.Fatalf("expected version error, got %v", err)
		}
	})

	t.Run("missing source dsn", func(t *testing.T) {
		path := writeTempFile(t, "worldhooks.yaml", "project: p\nversion: 1\noutput:\n  dir: ./out\nregistry: r.yaml\n")
		_, err := LoadProjectConfig(path)
		if err == nil || !strings.Contains(err.Error(), "source dsn") {
			t.Fatalf("expected dsn error, got %v", err)
		}
	})
}
