package domain

import "fmt"

// DatabaseDriver represents the type of database engine a sync writes into.
type DatabaseDriver string

const (
	DatabaseDriverMySQL    DatabaseDriver = "mysql"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
	DatabaseDriverMongoDB  DatabaseDriver = "mongodb"
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
)

// ParseDatabaseDriver validates a driver name from configuration.
func ParseDatabaseDriver(s string) (DatabaseDriver, error) {
	switch d := DatabaseDriver(s); d {
	case DatabaseDriverMySQL, DatabaseDriverPostgres, DatabaseDriverMongoDB, DatabaseDriverSQLite:
		return d, nil
	case "postgresql":
		return DatabaseDriverPostgres, nil
	case "mongo":
		return DatabaseDriverMongoDB, nil
	}
	return "", fmt.Errorf("unsupported driver: %s", s)
}

// Destination holds the metadata for connecting to a sync target.
// The password is never stored here; PasswordSecret names the entry in
// the SecretStore that holds it.
type Destination struct {
	Name           string         `json:"name"`
	Driver         DatabaseDriver `json:"driver"`
	Host           string         `json:"host"`     // hostname or file path (sqlite)
	Port           int            `json:"port"`     // 0 for sqlite
	Database       string         `json:"database"` // db name or empty for sqlite
	Username       string         `json:"username"`
	SSLMode        string         `json:"sslMode"`
	PasswordSecret string         `json:"passwordSecret,omitempty"`
}
