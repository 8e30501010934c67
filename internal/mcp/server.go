// ABOUTME: MCP server setup for the lifts workout store.
// ABOUTME: Wraps the MCP server with a storage Repository connection.
package mcp

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/lifts/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	logger    *log.Logger
	now       func() time.Time
}

// NewServer creates a new MCP server with the given storage.
func NewServer(repo storage.Repository, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "lifts",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		logger:    logger,
		now:       time.Now,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("mcp server starting", "transport", "stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
