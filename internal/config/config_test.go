package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE", "DATA_DIR", "DATABASE_URL", "EXPORT_ENABLED", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Port != "8080" {
		t.Fatalf("expected port 8080, got %s", c.Port)
	}
	if c.Store != "file" {
		t.Fatalf("expected file store, got %s", c.Store)
	}
	if c.DataDir != "./data" {
		t.Fatalf("expected ./data, got %s", c.DataDir)
	}
	if c.ExportEnabled {
		t.Fatal("export should be off by default")
	}
	if c.LogFormat != "console" {
		t.Fatalf("expected console logs, got %s", c.LogFormat)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("STORE", "SQL")
	t.Setenv("DATABASE_URL", "postgres://localhost/rummy")
	t.Setenv("EXPORT_ENABLED", "true")
	c := FromEnv()
	if c.Port != "3000" || c.Store != "sql" || c.DatabaseURL != "postgres://localhost/rummy" || !c.ExportEnabled {
		t.Fatalf("overrides not applied: %+v", c)
	}
}

func TestLoadDotEnv(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing file should be ignored, got %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("RUMMYPOOL_TEST_KEY=from-file\nPORT=9999\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "1234")
	os.Unsetenv("RUMMYPOOL_TEST_KEY")
	t.Cleanup(func() { os.Unsetenv("RUMMYPOOL_TEST_KEY") })

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("expected .env to load, got %v", err)
	}
	if got := os.Getenv("RUMMYPOOL_TEST_KEY"); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
	if got := os.Getenv("PORT"); got != "1234" {
		t.Fatalf("existing env should win, got %q", got)
	}
}
