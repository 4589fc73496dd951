package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("explore_table",
		mcp.WithPromptDescription("Inspect a foreign table and summarize its contents"),
		mcp.WithArgument("table",
			mcp.ArgumentDescription("Foreign table name"),
			mcp.RequiredArgument(),
		),
	), s.handleExploreTablePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("diagnose_sync",
		mcp.WithPromptDescription("Work out why a sync job is failing"),
		mcp.WithArgument("job",
			mcp.ArgumentDescription("Sync job ID or name"),
			mcp.RequiredArgument(),
		),
	), s.handleDiagnoseSyncPrompt)
}

func (s *Server) handleExploreTablePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	table := req.Params.Arguments["table"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Explore foreign table %s", table),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Explore the foreign table "%s". Follow these steps:

1. Use list_foreign_tables to read its declared columns and types
2. Use scan_foreign_table with a limit of 20 to sample rows
3. Point out columns that come back null more often than not; a type mismatch between the sheet and the declaration shows up that way
4. Summarize what the table holds in a few sentences`, table),
				},
			},
		},
	}, nil
}

func (s *Server) handleDiagnoseSyncPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	job := req.Params.Arguments["job"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Diagnose sync job %s", job),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Diagnose the sync job "%s". Follow these steps:

1. Use sync_run_logs to read its recent runs and their error kinds
2. For config errors, check the job's table and destination against list_foreign_tables
3. For transport or protocol errors, scan the source table with scan_foreign_table to see whether the remote service answers
4. For parse errors, look for the column named in the error and compare its declared type with the sampled values
5. Report the likely cause and the change that would fix it. Do not run the job unless asked`, job),
				},
			},
		},
	}, nil
}
