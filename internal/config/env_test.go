package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnvTyped(t *testing.T) {
	t.Setenv("PUCKS_TEST_INT", "42")
	t.Setenv("PUCKS_TEST_FLOAT", "0.25")
	t.Setenv("PUCKS_TEST_BOOL", "true")
	t.Setenv("PUCKS_TEST_DUR", "1500ms")
	t.Setenv("PUCKS_TEST_BAD", "nope")

	if got := GetEnvInt("PUCKS_TEST_INT", 1); got != 42 {
		t.Errorf("GetEnvInt = %d", got)
	}
	if got := GetEnvInt("PUCKS_TEST_BAD", 7); got != 7 {
		t.Errorf("GetEnvInt bad = %d", got)
	}
	if got := GetEnvFloat("PUCKS_TEST_FLOAT", 1); got != 0.25 {
		t.Errorf("GetEnvFloat = %v", got)
	}
	if got := GetEnvBool("PUCKS_TEST_BOOL", false); !got {
		t.Errorf("GetEnvBool = %v", got)
	}
	if got := GetEnvDuration("PUCKS_TEST_DUR", 0); got != 1500*time.Millisecond {
		t.Errorf("GetEnvDuration = %v", got)
	}
	if got := GetEnv("PUCKS_TEST_UNSET", "x"); got != "x" {
		t.Errorf("GetEnv fallback = %q", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("PUCKS_TEST_LOADED=yes\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PUCKS_TEST_LOADED", "")
	os.Unsetenv("PUCKS_TEST_LOADED")

	if err := Load(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := os.Getenv("PUCKS_TEST_LOADED"); got != "yes" {
		t.Errorf("PUCKS_TEST_LOADED = %q", got)
	}
}
