package dbclient

import (
	"log/slog"

	"sheetsfdw/internal/domain"
	"sheetsfdw/internal/fdw"

	_ "modernc.org/sqlite"
)

var sqliteDialect = dialect{
	quote:       quoteWith(`"`),
	placeholder: questionMark,
	columnType: func(t fdw.TypeOID) string {
		switch t {
		case fdw.TypeBool, fdw.TypeI8, fdw.TypeI16, fdw.TypeI32, fdw.TypeI64:
			return "INTEGER"
		case fdw.TypeF32, fdw.TypeF64, fdw.TypeNumeric:
			return "REAL"
		case fdw.TypeTimestamp, fdw.TypeTimestamptz, fdw.TypeDate:
			return "DATETIME"
		default:
			return "TEXT"
		}
	},
}

// sqlitePragmas are applied by modernc.org/sqlite on every new connection.
const sqlitePragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

// newSQLiteWriter creates a writer for a SQLite file named by Host.
// Opens in WAL mode with busy timeout for concurrent access.
func newSQLiteWriter(dest *domain.Destination, logger *slog.Logger) (*sqlWriter, error) {
	w, err := newSQLWriter("sqlite", dest.Host+sqlitePragmas, sqliteDialect, logger)
	if err != nil {
		return nil, err
	}
	w.db.SetMaxOpenConns(1)
	return w, nil
}
