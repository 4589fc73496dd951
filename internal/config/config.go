// Package config loads the catalog of foreign servers, tables and sync
// destinations, plus process settings.
package config

import (
	"time"

	"sheetsfdw/internal/domain"
	"sheetsfdw/internal/fdw"
)

// Defaults.
const (
	DefaultDataDir     = ".sheetsfdw"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultHTTPTimeout = 30 * time.Second
	EnvPrefix          = "SHEETSFDW_"
)

// Config holds all configuration options.
type Config struct {
	DataDir      string                       `koanf:"data_dir"`
	LogLevel     string                       `koanf:"log_level"`
	LogFormat    string                       `koanf:"log_format"`
	HTTP         HTTPConfig                   `koanf:"http"`
	Servers      map[string]ServerConfig      `koanf:"servers"`
	Tables       map[string]TableConfig       `koanf:"tables"`
	Destinations map[string]DestinationConfig `koanf:"destinations"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// HTTPConfig tunes the transport shared by every scan.
type HTTPConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

// ServerConfig declares a foreign server.
type ServerConfig struct {
	Profile string            `koanf:"profile"`
	Options map[string]string `koanf:"options"`
}

// TableConfig declares a foreign table on a server.
type TableConfig struct {
	Server  string            `koanf:"server"`
	Options map[string]string `koanf:"options"`
	Columns []ColumnConfig    `koanf:"columns"`
}

// ColumnConfig declares one column of a foreign table.
type ColumnConfig struct {
	Name string `koanf:"name"`
	Type string `koanf:"type"`
}

// DestinationConfig declares a database a sync job can write into.
type DestinationConfig struct {
	Driver         string `koanf:"driver"`
	Host           string `koanf:"host"`
	Port           int    `koanf:"port"`
	Database       string `koanf:"database"`
	Username       string `koanf:"username"`
	SSLMode        string `koanf:"ssl_mode"`
	PasswordSecret string `koanf:"password_secret"`
}

// Catalog converts the declarations into domain objects.
// Call Validate first; invalid drivers are passed through unchanged.
func (c *Config) Catalog() *domain.Catalog {
	cat := &domain.Catalog{
		Servers:      make(map[string]*domain.ForeignServer, len(c.Servers)),
		Tables:       make(map[string]*domain.ForeignTable, len(c.Tables)),
		Destinations: make(map[string]*domain.Destination, len(c.Destinations)),
	}
	for name, s := range c.Servers {
		cat.Servers[name] = &domain.ForeignServer{
			Name:    name,
			Profile: s.Profile,
			Options: copyOptions(s.Options),
		}
	}
	for name, t := range c.Tables {
		defs := make([]domain.ColumnDef, len(t.Columns))
		for i, col := range t.Columns {
			defs[i] = domain.ColumnDef{Name: col.Name, Type: col.Type}
		}
		cat.Tables[name] = &domain.ForeignTable{
			Name:       name,
			Server:     t.Server,
			Options:    copyOptions(t.Options),
			ColumnDefs: defs,
		}
	}
	for name, d := range c.Destinations {
		driver, err := domain.ParseDatabaseDriver(d.Driver)
		if err != nil {
			driver = domain.DatabaseDriver(d.Driver)
		}
		cat.Destinations[name] = &domain.Destination{
			Name:           name,
			Driver:         driver,
			Host:           d.Host,
			Port:           d.Port,
			Database:       d.Database,
			Username:       d.Username,
			SSLMode:        d.SSLMode,
			PasswordSecret: d.PasswordSecret,
		}
	}
	return cat
}

func copyOptions(in map[string]string) fdw.Options {
	out := make(fdw.Options, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
