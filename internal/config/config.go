// ABOUTME: Lifts configuration management.
// ABOUTME: Handles data location, logging settings, and the storage factory function.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/lifts/internal/logging"
	"github.com/harperreed/lifts/internal/storage"
)

// Config stores lifts tool configuration.
type Config struct {
	// DataDir is the root directory for data storage. lifts.db lives here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/lifts.
	DataDir string `json:"data_dir,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty"`

	// LogFile overrides the rotating log file path. Defaults to <data_dir>/logs/lifts.log.
	LogFile string `json:"log_file,omitempty"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetDBPath returns the SQLite database path inside the data directory.
func (c *Config) GetDBPath() string {
	return filepath.Join(c.GetDataDir(), "lifts.db")
}

// GetLogFile returns the log file path with ~ expanded.
func (c *Config) GetLogFile() string {
	if c.LogFile == "" {
		return filepath.Join(c.GetDataDir(), "logs", "lifts.log")
	}
	return ExpandPath(c.LogFile)
}

// GetLogLevel returns the configured log level, defaulting to "warn".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "warn"
	}
	return c.LogLevel
}

// LoggingOptions converts the config into logger options.
func (c *Config) LoggingOptions(debug bool) logging.Options {
	return logging.Options{
		Level: c.GetLogLevel(),
		File:  c.GetLogFile(),
		Debug: debug,
	}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the SQLite repository. A non-empty dbPath overrides the configured location.
func (c *Config) OpenStorage(dbPath string, opts ...storage.Option) (*storage.DB, error) {
	if dbPath == "" {
		dbPath = c.GetDBPath()
	}
	return storage.Open(ExpandPath(dbPath), opts...)
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "lifts", "config.json")
}

// Load reads config from disk. Environment variables LIFTS_DATA_DIR and
// LIFTS_LOG_LEVEL override the file.
func Load() (*Config, error) {
	var cfg Config

	path := GetConfigPath()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	if v := os.Getenv("LIFTS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("LIFTS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
