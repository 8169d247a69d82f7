package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	uriScheme      = "cc-courses://"
	uriFilters     = uriScheme + "filters"
	uriTableMarkup = uriScheme + "schedule"
)

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriFilters,
		Name:        "filters",
		Description: "Accepted term, block, program and sort values",
		MIMEType:    "application/json",
	}, s.handleFiltersResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriTableMarkup,
		Name:        "schedule",
		Description: "The course table as HTML with absolute links",
		MIMEType:    "text/html",
	}, s.handleScheduleResource)
}

func (s *Server) handleFiltersResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(listFilters())
	if err != nil {
		return nil, fmt.Errorf("encoding filters: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleScheduleResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	rows, err := s.rows(ctx)
	if err != nil {
		return nil, err
	}

	var markup strings.Builder
	for _, r := range rows {
		markup.WriteString(r.RawMarkup)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/html",
			Text:     markup.String(),
		}},
	}, nil
}
