package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	tablesURI      = "sheetsfdw://tables"
	tableURIPrefix = "sheetsfdw://table/"
)

func (s *Server) registerResources() {
	// ── sheetsfdw://tables ─────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		tablesURI,
		"Foreign Tables",
		mcp.WithMIMEType("application/json"),
	), s.handleTablesResource)

	// ── sheetsfdw://table/{name} ───────────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			tableURIPrefix+"{name}",
			"Foreign Table Definition",
		),
		s.handleTableResource,
	)
}

func (s *Server) handleTablesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, _ := json.MarshalIndent(s.tableSummaries(), "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      tablesURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleTableResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	name := strings.TrimPrefix(uri, tableURIPrefix)
	if name == "" || name == uri {
		return nil, fmt.Errorf("could not extract table name from URI: %s", uri)
	}

	for _, t := range s.tableSummaries() {
		if t.Name != name {
			continue
		}
		data, _ := json.MarshalIndent(t, "", "  ")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
	return nil, fmt.Errorf("foreign table not found: %s", name)
}
