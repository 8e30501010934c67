// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/lifts/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and works on the same database as
the CLI.

CONFIGURATION:

  {
    "mcpServers": {
      "lifts": {
        "command": "lifts",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  create_workout          Create a plan with exercises and sets
  list_workouts           List plans, optionally by day
  get_workout             Get a plan with exercises and sets
  delete_workout          Delete a plan (history is kept)
  add_exercise            Append an exercise to a plan
  get_history             List finished sessions
  get_latest_completion   Most recent session of a plan
  save_completed_workout  Record a finished session

AVAILABLE RESOURCES:

  lifts://workouts   All plans with exercises
  lifts://today      Today's plans and sessions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(db, cmdLogger(cmd))
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
