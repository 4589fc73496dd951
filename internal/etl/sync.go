// Package etl copies foreign tables into destination databases.
package etl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sheetsfdw/internal/domain"
	"sheetsfdw/internal/fdw"
	"sheetsfdw/internal/secret"
)

// ── Sync ───────────────────────────────────────────────────
// Orchestrates: foreign table scan → destination.Write.

// SyncResult is the outcome of running a sync job.
type SyncResult struct {
	JobID       string        `json:"jobId"`
	Status      string        `json:"status"` // "success" | "error"
	RowsRead    int           `json:"rowsRead"`
	RowsWritten int           `json:"rowsWritten"`
	Duration    time.Duration `json:"duration"`
	ErrorKind   string        `json:"errorKind,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// ── Engine ─────────────────────────────────────────────────

// Engine runs scans and sync jobs against the catalog.
type Engine struct {
	Catalog   CatalogSource
	Secrets   secret.SecretStore
	Transport fdw.Transport // nil uses the default HTTP transport
	Writers   WriterFactory // nil uses dbclient.NewWriter
	Logger    *slog.Logger
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

// Preview scans a foreign table and returns up to limit rows
// (limit <= 0 returns all of them).
func (e *Engine) Preview(ctx context.Context, tableName string, limit int) ([]fdw.Column, []fdw.Row, error) {
	src, err := e.OpenSource(tableName)
	if err != nil {
		return nil, nil, err
	}
	rows, err := fdw.Scan(ctx, src.Connector, src.TableOptions, src.Columns, limit)
	if err != nil {
		return src.Columns, nil, err
	}
	return src.Columns, rows, nil
}

// RunSync executes a sync job end-to-end. The result is always populated,
// also when an error is returned.
func (e *Engine) RunSync(ctx context.Context, job *domain.SyncJob) (*SyncResult, error) {
	start := time.Now()
	result := &SyncResult{JobID: job.ID}
	logger := e.logger().With("job", job.Name, "run", uuid.NewString())

	fail := func(stage string, err error) (*SyncResult, error) {
		result.Status = domain.StatusError
		result.ErrorKind = fdw.Classify(err)
		result.Error = fmt.Sprintf("%s: %s", stage, err)
		result.Duration = time.Since(start)
		logger.Error("sync failed", "stage", stage, "kind", result.ErrorKind, "error", err)
		return result, err
	}

	// 1. Resolve the foreign table.
	src, err := e.OpenSource(job.Table)
	if err != nil {
		return fail("source", err)
	}

	// 2. Scan every row.
	rows, err := fdw.Scan(ctx, src.Connector, src.TableOptions, src.Columns, 0)
	if err != nil {
		return fail("read", err)
	}
	result.RowsRead = len(rows)

	// 3. Write to destination.
	writer, _, err := e.OpenDestination(job.Destination)
	if err != nil {
		return fail("destination", err)
	}
	defer writer.Close()

	target := job.TargetTable
	if target == "" {
		target = job.Table
	}
	mode := job.SyncMode
	if mode == "" {
		mode = domain.SyncReplace
	}
	written, err := writer.Write(ctx, target, src.Columns, rows, mode)
	if err != nil {
		return fail("write", err)
	}

	result.Status = domain.StatusSuccess
	result.RowsWritten = written
	result.Duration = time.Since(start)
	logger.Info("sync finished", "rows_read", result.RowsRead, "rows_written", written, "duration", result.Duration)
	return result, nil
}
