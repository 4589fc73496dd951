package etl

import (
	"sheetsfdw/internal/domain"
	"sheetsfdw/internal/fdw"
	"sheetsfdw/internal/secret"
)

// ── Source ──────────────────────────────────────────────────
// A Source is a foreign table resolved against the catalog: the profile
// is looked up, secret references are resolved and a fresh connector is
// initialized with the server options.

// CatalogSource supplies the current catalog. The catalog may be swapped
// between calls when the config file is reloaded.
type CatalogSource interface {
	Catalog() *domain.Catalog
}

type staticCatalog struct{ cat *domain.Catalog }

func (s staticCatalog) Catalog() *domain.Catalog { return s.cat }

// Static wraps a fixed catalog.
func Static(cat *domain.Catalog) CatalogSource { return staticCatalog{cat: cat} }

// Source is a foreign table ready to be scanned.
type Source struct {
	Table        *domain.ForeignTable
	Server       *domain.ForeignServer
	Columns      []fdw.Column
	TableOptions fdw.Options
	Connector    *fdw.Connector
}

// OpenSource resolves a foreign table and initializes a connector for it.
// Every failure is a config error.
func (e *Engine) OpenSource(tableName string) (*Source, error) {
	const op = "open_source"
	cat := e.Catalog.Catalog()

	table, err := cat.Table(tableName)
	if err != nil {
		return nil, configError(op, err)
	}
	server, err := cat.Server(table.Server)
	if err != nil {
		return nil, configError(op, err)
	}
	profile, err := fdw.GetProfile(server.Profile)
	if err != nil {
		return nil, configError(op, err)
	}
	columns, err := table.Columns()
	if err != nil {
		return nil, configError(op, err)
	}

	serverOpts, err := secret.ResolveOptions(e.Secrets, server.Options)
	if err != nil {
		return nil, configError(op, err)
	}
	tableOpts, err := secret.ResolveOptions(e.Secrets, table.Options)
	if err != nil {
		return nil, configError(op, err)
	}

	conn := fdw.New(profile, e.Transport, e.logger().With("table", table.Name))
	if err := conn.Init(serverOpts); err != nil {
		return nil, err
	}
	return &Source{
		Table:        table,
		Server:       server,
		Columns:      columns,
		TableOptions: tableOpts,
		Connector:    conn,
	}, nil
}

func configError(op string, err error) *fdw.Error {
	return &fdw.Error{Kind: fdw.ErrConfig, Op: op, Err: err}
}
