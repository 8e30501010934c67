// ABOUTME: Tests for lifts configuration management.
// ABOUTME: Covers load, save, defaults, env overrides, and path expansion.
package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestGetDataDirDefault(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	cfg := &Config{}

	if got := cfg.GetDataDir(); got != "/tmp/xdg-data/lifts" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/xdg-data/lifts")
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/lifts-test"}
	if got := cfg.GetDataDir(); got != "/tmp/lifts-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/lifts-test")
	}
	if got := cfg.GetDBPath(); got != "/tmp/lifts-test/lifts.db" {
		t.Errorf("GetDBPath() = %q", got)
	}
	if got := cfg.GetLogFile(); got != "/tmp/lifts-test/logs/lifts.log" {
		t.Errorf("GetLogFile() = %q", got)
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/lifts-data"}
	got := cfg.GetDataDir()
	want := filepath.Join(home, "lifts-data")
	if got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestGetLogLevelDefault(t *testing.T) {
	if got := (&Config{}).GetLogLevel(); got != "warn" {
		t.Errorf("GetLogLevel() = %q, want warn", got)
	}
	if got := (&Config{LogLevel: "debug"}).GetLogLevel(); got != "debug" {
		t.Errorf("GetLogLevel() = %q, want debug", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/lifts", filepath.Join(home, "data/lifts")},
		{"data/lifts", "data/lifts"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ExpandPath(tt.input); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LIFTS_DATA_DIR", "")
	t.Setenv("LIFTS_LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.DataDir != "" || cfg.LogLevel != "" {
		t.Errorf("expected empty defaults, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LIFTS_DATA_DIR", "")
	t.Setenv("LIFTS_LOG_LEVEL", "")

	cfg := &Config{DataDir: "/tmp/lifts-data", LogLevel: "info"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.DataDir != "/tmp/lifts-data" {
		t.Errorf("DataDir mismatch: got %q", loaded.DataDir)
	}
	if loaded.LogLevel != "info" {
		t.Errorf("LogLevel mismatch: got %q", loaded.LogLevel)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LIFTS_DATA_DIR", "/srv/lifts")
	t.Setenv("LIFTS_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.DataDir != "/srv/lifts" || cfg.LogLevel != "debug" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "lifts")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	if got := GetConfigPath(); got != "/tmp/xdg-config/lifts/config.json" {
		t.Errorf("GetConfigPath() = %q", got)
	}
}

func TestOpenStorage(t *testing.T) {
	cfg := &Config{DataDir: t.TempDir()}

	db, err := cfg.OpenStorage("")
	if err != nil {
		t.Fatalf("OpenStorage failed: %v", err)
	}
	defer db.Close()

	if db.Path() != cfg.GetDBPath() {
		t.Errorf("Path() = %q, want %q", db.Path(), cfg.GetDBPath())
	}
	if _, err := db.ListAllWorkouts(context.Background()); err != nil {
		t.Errorf("ListAllWorkouts on fresh store failed: %v", err)
	}
}

func TestOpenStorageOverride(t *testing.T) {
	cfg := &Config{DataDir: t.TempDir()}
	override := filepath.Join(t.TempDir(), "custom.db")

	db, err := cfg.OpenStorage(override)
	if err != nil {
		t.Fatalf("OpenStorage failed: %v", err)
	}
	defer db.Close()

	if db.Path() != override {
		t.Errorf("Path() = %q, want %q", db.Path(), override)
	}
}
