// ABOUTME: Structured logger setup using charmbracelet/log.
// ABOUTME: Writes to a lumberjack rotating file and, in debug mode, to stderr too.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much the logger writes.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means warn.
	Level string
	// File is the rotating log file path. Empty disables file output.
	File string
	// Debug forces debug level and mirrors output to stderr.
	Debug bool
}

// New builds a logger from opts. The returned closer releases the log file.
func New(opts Options) (*log.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	if opts.Debug {
		level = log.DebugLevel
	}

	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0750); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		fileWriter := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		writers = append(writers, fileWriter)
		closer = fileWriter
	}
	if opts.Debug {
		writers = append(writers, os.Stderr)
	}

	var writer io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		writer = writers[0]
	default:
		writer = io.MultiWriter(writers...)
	}

	logger := log.NewWithOptions(writer, log.Options{
		ReportCaller:    opts.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "lifts",
	})
	return logger, closer, nil
}

// ParseLevel maps a config string to a log level. Empty means warn.
func ParseLevel(s string) (log.Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return log.WarnLevel, nil
	}
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.WarnLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
