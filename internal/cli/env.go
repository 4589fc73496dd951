package cli

import (
	"fmt"
	"io"
	"log/slog"

	"sheetsfdw/internal/config"
	"sheetsfdw/internal/etl"
	"sheetsfdw/internal/fdw"
	"sheetsfdw/internal/secret"
	"sheetsfdw/internal/service"
	"sheetsfdw/internal/storage"
)

// Env is everything a command needs, built once per invocation from the
// loaded configuration.
type Env struct {
	Config  *config.Config
	Logger  *slog.Logger
	Catalog *service.CatalogService
	Engine  *etl.Engine
	Secrets secret.SecretStore

	db *storage.DB
}

// newEnv validates cfg and wires the catalog and scan engine. Reloads
// re-read the same file with the same flags through reload.
func newEnv(cfg *config.Config, reload func() (*config.Config, error), logw io.Writer) (*Env, error) {
	logger := cfg.NewLogger(logw)

	first := cfg
	catalog, err := service.NewCatalogService(func() (*config.Config, error) {
		if first != nil {
			c := first
			first = nil
			return c, nil
		}
		return reload()
	}, service.LogEmitter{Logger: logger}, logger)
	if err != nil {
		return nil, err
	}

	secrets := secret.DefaultStore()
	return &Env{
		Config:  cfg,
		Logger:  logger,
		Catalog: catalog,
		Secrets: secrets,
		Engine: &etl.Engine{
			Catalog:   catalog,
			Secrets:   secrets,
			Transport: fdw.NewHTTPTransport(cfg.HTTP.Timeout),
			Logger:    logger,
		},
	}, nil
}

// State opens the sync state database on first use.
func (e *Env) State() (*storage.DB, error) {
	if e.db != nil {
		return e.db, nil
	}
	db, err := storage.New(e.Config.StatePath())
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}
	e.db = db
	return db, nil
}

// SyncService builds a sync service over the state database.
func (e *Env) SyncService(emitter service.EventEmitter) (*service.SyncService, error) {
	db, err := e.State()
	if err != nil {
		return nil, err
	}
	return service.NewSyncService(storage.NewSyncStore(db), e.Engine, emitter, e.Logger), nil
}

// Close releases the state database.
func (e *Env) Close() {
	if e.db != nil {
		_ = e.db.Close()
		e.db = nil
	}
}
