package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"sheetsfdw/internal/domain"
	"sheetsfdw/internal/fdw"

	// Profiles register themselves with the fdw registry.
	_ "sheetsfdw/internal/fdw/profiles"
)

// Validate reports every problem in the catalog at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	if c.HTTP.Timeout < 0 {
		errs = append(errs, fmt.Errorf("http.timeout must not be negative"))
	}

	for _, name := range sortedKeys(c.Servers) {
		s := c.Servers[name]
		if _, err := fdw.GetProfile(s.Profile); err != nil {
			errs = append(errs, fmt.Errorf("server %s: %w", name, err))
		}
	}

	for _, name := range sortedKeys(c.Tables) {
		t := c.Tables[name]
		if _, ok := c.Servers[t.Server]; !ok {
			errs = append(errs, fmt.Errorf("table %s: unknown server %q", name, t.Server))
		}
		if len(t.Columns) == 0 {
			errs = append(errs, fmt.Errorf("table %s: no columns declared", name))
		}
		seen := make(map[string]bool, len(t.Columns))
		for _, col := range t.Columns {
			if col.Name == "" {
				errs = append(errs, fmt.Errorf("table %s: column without a name", name))
				continue
			}
			if seen[col.Name] {
				errs = append(errs, fmt.Errorf("table %s: duplicate column %s", name, col.Name))
			}
			seen[col.Name] = true
			if _, err := fdw.ParseTypeOID(col.Type); err != nil {
				errs = append(errs, fmt.Errorf("table %s column %s: %w", name, col.Name, err))
			}
		}
	}

	for _, name := range sortedKeys(c.Destinations) {
		if _, err := domain.ParseDatabaseDriver(c.Destinations[name].Driver); err != nil {
			errs = append(errs, fmt.Errorf("destination %s: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

// ParseLevel maps a log_level value onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
