// ABOUTME: Root Cobra command for the lifts CLI.
// ABOUTME: Handles config, logger, and SQLite lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/harperreed/lifts/internal/config"
	"github.com/harperreed/lifts/internal/logging"
	"github.com/harperreed/lifts/internal/storage"
	"github.com/spf13/cobra"
)

var (
	dbPath    string
	debugMode bool

	cfg       *config.Config
	db        *storage.DB
	logger    = logging.Discard()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "lifts",
	Short: "Strength training planner and logbook",
	Long: `Lifts keeps your workout plans and the history of every session you finish.

PLANS:

  A workout is a named plan, optionally pinned to a day of the week.
  Each workout holds exercises in order; each exercise holds numbered sets
  with a target repetition count and an optional target weight.

  $ lifts workout add "Push Day" --day monday
  $ lifts workout exercise abc123 "Bench Press" --set 10@60 --set 8@65 --set 6@70
  $ lifts workout exercise abc123 "Dips" --sets 3 --reps 12
  $ lifts workout list --day monday

SESSIONS:

  $ lifts session start abc123     # Walk through a plan set by set
  $ lifts session start            # Pick from today's plans

  Each set is prefilled with what you did last time, or the plan target.
  You can finish early; only the exercises you reached are saved.

HISTORY:

  $ lifts history                  # Every finished session, newest first
  $ lifts history abc123 --latest  # Last session of one plan

MCP INTEGRATION:

  Run 'lifts mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "lifts": { "command": "lifts", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Data lives in a SQLite database at ~/.local/share/lifts/lifts.db
  (or $XDG_DATA_HOME/lifts/lifts.db). Use --db to point elsewhere.
  Settings are read from ~/.config/lifts/config.json.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip storage init for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, logCloser, err = logging.New(cfg.LoggingOptions(debugMode))
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}

		db, err = cfg.OpenStorage(dbPath, storage.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		logger.Debug("database opened", "path", db.Path(), "command", cmd.CommandPath())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeResources()
	},
}

// Execute runs the root command and releases resources even when a command fails.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := closeResources(); err == nil {
		err = cerr
	}
	return err
}

func closeResources() error {
	var err error
	if db != nil {
		err = db.Close()
		db = nil
	}
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
	return err
}

// cmdLogger returns the active logger scoped to a subcommand.
func cmdLogger(cmd *cobra.Command) *log.Logger {
	return logger.With("cmd", cmd.Name())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: $XDG_DATA_HOME/lifts/lifts.db)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "log to stderr as well as the log file")
}
