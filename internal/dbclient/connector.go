// Package dbclient writes scanned foreign rows into external databases.
package dbclient

import (
	"context"
	"fmt"
	"log/slog"

	"sheetsfdw/internal/domain"
	"sheetsfdw/internal/fdw"
)

// Writer abstracts a sync destination.
type Writer interface {
	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// Write stores rows into table, creating it from columns when missing.
	// SyncReplace clears existing rows first. It returns the rows written.
	Write(ctx context.Context, table string, columns []fdw.Column, rows []fdw.Row, mode domain.SyncMode) (int, error)

	// Close releases the connection.
	Close() error
}

// NewWriter creates a Writer for the given destination.
// The password must be provided separately (from SecretStore).
func NewWriter(dest *domain.Destination, password string, logger *slog.Logger) (Writer, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("component", "dbclient", "destination", dest.Name, "driver", string(dest.Driver))

	switch dest.Driver {
	case domain.DatabaseDriverSQLite:
		return newSQLiteWriter(dest, logger)
	case domain.DatabaseDriverMySQL:
		return newSQLWriter("mysql", buildMySQLDSN(dest, password), mysqlDialect, logger)
	case domain.DatabaseDriverPostgres:
		return newSQLWriter("postgres", buildPostgresDSN(dest, password), postgresDialect, logger)
	case domain.DatabaseDriverMongoDB:
		return newMongoWriter(dest, password, logger)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", dest.Driver)
	}
}

// cellValue converts a cell into a driver argument. Absent cells become NULL.
func cellValue(c fdw.Cell) any {
	if c == nil {
		return nil
	}
	return c.Value()
}
