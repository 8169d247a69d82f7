// Package mcpserver exposes the course search pipeline as MCP tools and
// resources over stdio.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pfrederiksen/cc-courses/internal/links"
	"github.com/pfrederiksen/cc-courses/internal/logger"
	"github.com/pfrederiksen/cc-courses/internal/schedule"
	"github.com/pfrederiksen/cc-courses/internal/scraper"
)

// Version is the MCP server version.
const Version = "0.1.0"

// ErrMissingFetcher is returned by NewServer without a table fetcher.
var ErrMissingFetcher = errors.New("table fetcher is required")

// Server is the MCP server for the course table.
type Server struct {
	fetcher scraper.TableFetcher
	baseURL string
	server  *mcp.Server
}

// NewServer creates a server reading rows through fetcher. Pass a cached
// fetcher; every tool call asks it for the table.
func NewServer(fetcher scraper.TableFetcher, baseURL string) (*Server, error) {
	if fetcher == nil {
		return nil, ErrMissingFetcher
	}
	if baseURL == "" {
		baseURL = scraper.CatalogBaseURL
	}

	impl := &mcp.Implementation{
		Name:    "cc-courses",
		Version: Version,
	}

	s := &Server{
		fetcher: fetcher,
		baseURL: baseURL,
		server:  mcp.NewServer(impl, nil),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is
// cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	logger.Info("MCP server listening", logger.Fields{"addr": addr})
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// rows fetches, normalizes and parses the table.
func (s *Server) rows(ctx context.Context) (schedule.RowSet, error) {
	html, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching course table: %w", err)
	}
	rows, err := schedule.Build(links.Normalize(html, s.baseURL))
	if err != nil {
		return nil, fmt.Errorf("parsing course table: %w", err)
	}
	return rows, nil
}
