package dbclient

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sheetsfdw/internal/domain"
	"sheetsfdw/internal/fdw"
)

// dialect captures the SQL differences between the supported engines.
type dialect struct {
	quote       func(ident string) string
	placeholder func(n int) string // n is 1-based
	columnType  func(t fdw.TypeOID) string
}

// sqlWriter is the shared implementation for MySQL, Postgres, and SQLite.
type sqlWriter struct {
	driverName string
	db         *sql.DB
	dialect    dialect
	logger     *slog.Logger
}

// newSQLWriter creates a generic SQL writer.
func newSQLWriter(driverName, dsn string, d dialect, logger *slog.Logger) (*sqlWriter, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	return &sqlWriter{driverName: driverName, db: db, dialect: d, logger: logger}, nil
}

func (w *sqlWriter) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return w.db.PingContext(ctx)
}

func (w *sqlWriter) Close() error {
	return w.db.Close()
}

func (w *sqlWriter) Write(ctx context.Context, table string, columns []fdw.Column, rows []fdw.Row, mode domain.SyncMode) (int, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("write %s: no columns", table)
	}
	if _, err := w.db.ExecContext(ctx, w.createTableSQL(table, columns)); err != nil {
		return 0, fmt.Errorf("create table %s: %w", table, err)
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if mode == domain.SyncReplace {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+w.dialect.quote(table)); err != nil {
			return 0, fmt.Errorf("clear target: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, w.insertSQL(table, columns))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	written := 0
	args := make([]any, len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(columns))
		}
		for j, cell := range row {
			args[j] = cellValue(cell)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", i, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	w.logger.Info("rows written", "table", table, "rows", written, "mode", string(mode))
	return written, nil
}

func (w *sqlWriter) createTableSQL(table string, columns []fdw.Column) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = w.dialect.quote(col.Name) + " " + w.dialect.columnType(col.Type)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", w.dialect.quote(table), strings.Join(defs, ", "))
}

func (w *sqlWriter) insertSQL(table string, columns []fdw.Column) string {
	names := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, col := range columns {
		names[i] = w.dialect.quote(col.Name)
		marks[i] = w.dialect.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		w.dialect.quote(table), strings.Join(names, ", "), strings.Join(marks, ", "))
}

func quoteWith(q string) func(string) string {
	return func(ident string) string {
		return q + strings.ReplaceAll(ident, q, q+q) + q
	}
}

func questionMark(int) string { return "?" }
