package dbclient

import (
	"fmt"

	"sheetsfdw/internal/domain"
	"sheetsfdw/internal/fdw"

	_ "github.com/go-sql-driver/mysql"
)

var mysqlDialect = dialect{
	quote:       quoteWith("`"),
	placeholder: questionMark,
	columnType: func(t fdw.TypeOID) string {
		switch t {
		case fdw.TypeBool:
			return "BOOLEAN"
		case fdw.TypeI8, fdw.TypeI16, fdw.TypeI32:
			return "INT"
		case fdw.TypeI64:
			return "BIGINT"
		case fdw.TypeF32, fdw.TypeF64:
			return "DOUBLE"
		case fdw.TypeNumeric:
			return "DECIMAL(38,10)"
		case fdw.TypeDate:
			return "DATE"
		case fdw.TypeTimestamp, fdw.TypeTimestamptz:
			return "DATETIME(6)"
		case fdw.TypeJSON:
			return "JSON"
		default:
			return "TEXT"
		}
	},
}

// buildMySQLDSN constructs a MySQL DSN from a Destination.
func buildMySQLDSN(dest *domain.Destination, password string) string {
	port := dest.Port
	if port == 0 {
		port = 3306
	}
	// Format: user:password@tcp(host:port)/dbname?parseTime=true
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		dest.Username, password, dest.Host, port, dest.Database,
	)
	if dest.SSLMode == "require" {
		dsn += "&tls=true"
	}
	return dsn
}
