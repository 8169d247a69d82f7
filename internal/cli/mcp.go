package cli

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/cc-courses/internal/mcpserver"
	"github.com/pfrederiksen/cc-courses/internal/scraper"
)

var flagMCPAddr string

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve course search as MCP tools",
		Long: `Starts a Model Context Protocol server exposing the search_courses and
list_filters tools. It speaks JSON-RPC over stdio unless --addr is set, in
which case it serves the streamable HTTP transport.

MCP client configuration:
  {
    "mcpServers": {
      "cc-courses": {
        "command": "/path/to/cc-courses",
        "args": ["mcp"]
      }
    }
  }`,
		RunE: runMCP,
	}

	cmd.Flags().StringVar(&flagMCPAddr, "addr", "", "HTTP listen address (default: stdio)")

	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher := scraper.NewCache(cfg.Scraper(), time.Duration(cfg.CacheTTL))
	srv, err := mcpserver.NewServer(fetcher, cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	if flagMCPAddr != "" {
		return srv.RunHTTP(ctx, flagMCPAddr)
	}
	return srv.Run(ctx)
}
