package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"sheetsfdw/internal/etl"
	"sheetsfdw/internal/fdw"
)

// DefaultScanLimit caps scan_foreign_table when the caller gives no limit.
const DefaultScanLimit = 100

func (s *Server) registerCatalogTools() {
	s.mcp.AddTool(mcp.NewTool("list_profiles",
		mcp.WithDescription("List the remote services a foreign server can use, with the options each one understands"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleListProfiles)

	s.mcp.AddTool(mcp.NewTool("list_foreign_tables",
		mcp.WithDescription("List declared foreign tables with their server, profile and typed columns"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleListForeignTables)

	s.mcp.AddTool(mcp.NewTool("scan_foreign_table",
		mcp.WithDescription("Fetch a foreign table from its remote service and return typed rows as JSON objects"),
		mcp.WithString("table", mcp.Description("Foreign table name"), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description(fmt.Sprintf("Maximum rows to return (default %d, 0 for all)", DefaultScanLimit))),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleScanForeignTable)
}

type profileSummary struct {
	Name           string            `json:"name"`
	Label          string            `json:"label"`
	DefaultBaseURL string            `json:"defaultBaseUrl,omitempty"`
	Options        []fdw.OptionField `json:"options"`
}

func (s *Server) handleListProfiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profiles := fdw.ListProfiles()
	out := make([]profileSummary, len(profiles))
	for i, p := range profiles {
		out[i] = profileSummary{Name: p.Name, Label: p.Label, DefaultBaseURL: p.DefaultBaseURL, Options: p.Options}
	}
	return jsonResult(out)
}

type columnSummary struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type tableSummary struct {
	Name    string          `json:"name"`
	Server  string          `json:"server"`
	Profile string          `json:"profile"`
	Columns []columnSummary `json:"columns"`
}

func (s *Server) tableSummaries() []tableSummary {
	cat := s.engine.Catalog.Catalog()
	names := cat.TableNames()
	out := make([]tableSummary, 0, len(names))
	for _, name := range names {
		t := cat.Tables[name]
		sum := tableSummary{Name: name, Server: t.Server}
		if srv, err := cat.Server(t.Server); err == nil {
			sum.Profile = srv.Profile
		}
		for _, c := range t.ColumnDefs {
			sum.Columns = append(sum.Columns, columnSummary{Name: c.Name, Type: c.Type})
		}
		out = append(out, sum)
	}
	return out
}

func (s *Server) handleListForeignTables(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.tableSummaries())
}

func (s *Server) handleScanForeignTable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table := req.GetString("table", "")
	if table == "" {
		return nil, fmt.Errorf("table is required")
	}
	limit := req.GetInt("limit", DefaultScanLimit)
	if limit < 0 {
		return nil, fmt.Errorf("limit must not be negative")
	}

	cols, rows, err := s.engine.Preview(ctx, table, limit)
	if err != nil {
		s.logger.Warn("scan failed", "table", table, "error", err)
		return errorResult(fdw.Classify(err), err), nil
	}
	return jsonResult(map[string]any{
		"table":   table,
		"columns": etl.SchemaOf(cols).Fields,
		"rows":    etl.ToRecords(cols, rows),
		"count":   len(rows),
	})
}
