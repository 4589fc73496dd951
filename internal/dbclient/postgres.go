package dbclient

import (
	"fmt"

	"sheetsfdw/internal/domain"
	"sheetsfdw/internal/fdw"

	_ "github.com/lib/pq"
)

var postgresDialect = dialect{
	quote:       quoteWith(`"`),
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	columnType: func(t fdw.TypeOID) string {
		switch t {
		case fdw.TypeBool:
			return "boolean"
		case fdw.TypeI8, fdw.TypeI16:
			return "smallint"
		case fdw.TypeI32:
			return "integer"
		case fdw.TypeI64:
			return "bigint"
		case fdw.TypeF32:
			return "real"
		case fdw.TypeF64:
			return "double precision"
		case fdw.TypeNumeric:
			return "numeric"
		case fdw.TypeDate:
			return "date"
		case fdw.TypeTimestamp:
			return "timestamp"
		case fdw.TypeTimestamptz:
			return "timestamptz"
		case fdw.TypeJSON:
			return "jsonb"
		case fdw.TypeUUID:
			return "uuid"
		default:
			return "text"
		}
	},
}

// buildPostgresDSN constructs a Postgres connection string from a Destination.
func buildPostgresDSN(dest *domain.Destination, password string) string {
	port := dest.Port
	if port == 0 {
		port = 5432
	}
	sslMode := dest.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dest.Host, port, dest.Username, password, dest.Database, sslMode,
	)
}
