package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerSyncTools() {
	s.mcp.AddTool(mcp.NewTool("list_sync_jobs",
		mcp.WithDescription("List sync jobs with their trigger and last run status"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleListSyncJobs)

	s.mcp.AddTool(mcp.NewTool("run_sync_job",
		mcp.WithDescription("DESTRUCTIVE: Run a sync job now. In replace mode the target table is emptied before the copy."),
		mcp.WithString("job", mcp.Description("Sync job ID or name"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRunSyncJob)

	s.mcp.AddTool(mcp.NewTool("sync_run_logs",
		mcp.WithDescription("Show the most recent runs of a sync job, newest first"),
		mcp.WithString("job", mcp.Description("Sync job ID or name"), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum entries (default 10)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleSyncRunLogs)
}

func (s *Server) handleListSyncJobs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobs, err := s.sync.ListJobs()
	if err != nil {
		return nil, fmt.Errorf("list sync jobs: %w", err)
	}
	return jsonResult(jobs)
}

func (s *Server) handleRunSyncJob(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := req.GetString("job", "")
	if ref == "" {
		return nil, fmt.Errorf("job is required")
	}

	result, err := s.sync.RunJob(ctx, ref)
	if result == nil {
		if err != nil {
			return nil, fmt.Errorf("run sync job: %w", err)
		}
		return nil, fmt.Errorf("run sync job: no result")
	}
	res, jerr := jsonResult(result)
	if jerr != nil {
		return nil, jerr
	}
	res.IsError = err != nil
	return res, nil
}

func (s *Server) handleSyncRunLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := req.GetString("job", "")
	if ref == "" {
		return nil, fmt.Errorf("job is required")
	}
	logs, err := s.sync.ListRunLogs(ref, req.GetInt("limit", 10))
	if err != nil {
		return nil, fmt.Errorf("list run logs: %w", err)
	}
	return jsonResult(logs)
}
