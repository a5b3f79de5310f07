package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cashflowpro/forecast-go/internal/config"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

func TestLoadDotEnv_ParsesPairs(t *testing.T) {
	path := writeEnvFile(t, `
# local overrides
CFP_TEST_PLAIN=hello
CFP_TEST_QUOTED="with spaces"
export CFP_TEST_EXPORTED=ok
not-a-pair
`)
	// t.Setenv registers the restore; empty counts as unset for the loader.
	for _, key := range []string{"CFP_TEST_PLAIN", "CFP_TEST_QUOTED", "CFP_TEST_EXPORTED"} {
		t.Setenv(key, "")
	}

	if err := config.LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}

	if got := os.Getenv("CFP_TEST_PLAIN"); got != "hello" {
		t.Errorf("CFP_TEST_PLAIN = %q, want hello", got)
	}
	if got := os.Getenv("CFP_TEST_QUOTED"); got != "with spaces" {
		t.Errorf("CFP_TEST_QUOTED = %q, want 'with spaces'", got)
	}
	if got := os.Getenv("CFP_TEST_EXPORTED"); got != "ok" {
		t.Errorf("CFP_TEST_EXPORTED = %q, want ok", got)
	}
}

func TestLoadDotEnv_EnvWinsOverFile(t *testing.T) {
	path := writeEnvFile(t, "CFP_TEST_PRECEDENCE=from-file\n")
	t.Setenv("CFP_TEST_PRECEDENCE", "from-env")

	if err := config.LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}

	if got := os.Getenv("CFP_TEST_PRECEDENCE"); got != "from-env" {
		t.Errorf("CFP_TEST_PRECEDENCE = %q, want from-env", got)
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := config.LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
