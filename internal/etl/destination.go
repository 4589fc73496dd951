package etl

import (
	"fmt"
	"log/slog"

	"sheetsfdw/internal/dbclient"
	"sheetsfdw/internal/domain"
	"sheetsfdw/internal/secret"
)

// ── Destination ────────────────────────────────────────────
// A destination is opened per run with its password pulled from the
// SecretStore, and closed when the run ends.

// WriterFactory opens a writer for a destination.
type WriterFactory func(dest *domain.Destination, password string, logger *slog.Logger) (dbclient.Writer, error)

// OpenDestination resolves a destination by name and connects to it.
func (e *Engine) OpenDestination(name string) (dbclient.Writer, *domain.Destination, error) {
	dest, err := e.Catalog.Catalog().Destination(name)
	if err != nil {
		return nil, nil, configError("open_destination", err)
	}

	var password string
	if dest.PasswordSecret != "" {
		password, err = secret.Resolve(e.Secrets, secret.RefPrefix+dest.PasswordSecret)
		if err != nil {
			return nil, nil, configError("open_destination", fmt.Errorf("destination %s: %w", name, err))
		}
	}

	factory := e.Writers
	if factory == nil {
		factory = dbclient.NewWriter
	}
	w, err := factory(dest, password, e.logger())
	if err != nil {
		return nil, nil, fmt.Errorf("open destination %s: %w", name, err)
	}
	return w, dest, nil
}
