// ABOUTME: Tests for logger construction.
// ABOUTME: Covers level parsing, file output, and the silent default.
package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Level
		wantErr bool
	}{
		{"", log.WarnLevel, false},
		{"debug", log.DebugLevel, false},
		{"INFO", log.InfoLevel, false},
		{" error ", log.ErrorLevel, false},
		{"chatty", log.WarnLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewWritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "lifts.log")

	logger, closer, err := New(Options{Level: "info", File: logFile})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("session finished", "sets", 12)
	logger.Debug("hidden at info level")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "session finished") {
		t.Errorf("log file missing info line: %q", out)
	}
	if strings.Contains(out, "hidden at info level") {
		t.Errorf("debug line should be filtered: %q", out)
	}
}

func TestNewWithoutFile(t *testing.T) {
	logger, closer, err := New(Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if logger.GetLevel() != log.WarnLevel {
		t.Errorf("level = %v, want warn", logger.GetLevel())
	}
	if err := closer.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestNewDebugOverridesLevel(t *testing.T) {
	logger, _, err := New(Options{Level: "error", Debug: true})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", logger.GetLevel())
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("expected error for invalid level")
	}
}
