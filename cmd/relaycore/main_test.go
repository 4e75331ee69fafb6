package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	originalEnv := os.Getenv("RELAYCORE_CONFIG")
	defer os.Setenv("RELAYCORE_CONFIG", originalEnv)

	os.Setenv("RELAYCORE_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_MissingDatabasePath verifies run fails when persistence is on
// but no database path is configured.
func TestRun_MissingDatabasePath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
relays:
  chip: gpiochip0
  debounce_ms: 50
  lines:
    - line: 16
      name: "Light 1"

persistence:
  enabled: true

database:
  path: ""
  wal_mode: true
  busy_timeout: 5

mqtt:
  enabled: false

influxdb:
  enabled: false

logging:
  level: info
  format: text
  output: stdout

api:
  host: "127.0.0.1"
  port: 8080
  timeouts:
    read: 30
    write: 60
    idle: 120
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("RELAYCORE_CONFIG")
	defer os.Setenv("RELAYCORE_CONFIG", originalEnv)
	os.Setenv("RELAYCORE_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail with empty database path")
	}
}

// TestRun_GPIOUnavailable verifies run fails cleanly when the GPIO chip
// cannot be opened (no hardware in the test environment).
func TestRun_GPIOUnavailable(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")
	dbPath := filepath.Join(tmpDir, "test.db")

	configContent := `
relays:
  chip: "nonexistent-chip"
  debounce_ms: 50
  lines:
    - line: 16
      name: "Light 1"

persistence:
  enabled: true

database:
  path: "` + dbPath + `"
  wal_mode: true
  busy_timeout: 5

mqtt:
  enabled: false

influxdb:
  enabled: false

logging:
  level: info
  format: text
  output: stdout

api:
  host: "127.0.0.1"
  port: 8080
  timeouts:
    read: 30
    write: 60
    idle: 120
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("RELAYCORE_CONFIG")
	defer os.Setenv("RELAYCORE_CONFIG", originalEnv)
	os.Setenv("RELAYCORE_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail when the GPIO chip cannot be opened")
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	originalEnv := os.Getenv("RELAYCORE_CONFIG")
	defer os.Setenv("RELAYCORE_CONFIG", originalEnv)

	os.Unsetenv("RELAYCORE_CONFIG")

	path := getConfigPath()
	if path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	originalEnv := os.Getenv("RELAYCORE_CONFIG")
	defer os.Setenv("RELAYCORE_CONFIG", originalEnv)

	expected := "/custom/path/config.yaml"
	os.Setenv("RELAYCORE_CONFIG", expected)

	path := getConfigPath()
	if path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

// TestHistoryOrNil verifies the nil-pointer-in-interface guard.
func TestHistoryOrNil(t *testing.T) {
	if got := historyOrNil(nil); got != nil {
		t.Error("historyOrNil(nil) should return a nil interface")
	}
}
