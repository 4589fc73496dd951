package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"sheetsfdw/internal/config"
	"sheetsfdw/internal/domain"
)

// DefaultDebounce coalesces bursts of writes to the config file.
const DefaultDebounce = 500 * time.Millisecond

// ─────────────────────────────────────────────────────────────
// Catalog Service: holds the live catalog and reloads it
// ─────────────────────────────────────────────────────────────

// CatalogService owns the loaded configuration. It satisfies
// etl.CatalogSource, so engines always see the latest good catalog.
type CatalogService struct {
	load    func() (*config.Config, error)
	emitter EventEmitter
	logger  *slog.Logger

	// Debounce is the quiet period before a file change triggers a reload.
	Debounce time.Duration

	// OnReload runs after every successful reload, outside the lock.
	OnReload func(*config.Config)

	mu      sync.RWMutex
	cfg     *config.Config
	catalog *domain.Catalog
}

// NewCatalogService loads and validates the configuration once.
func NewCatalogService(load func() (*config.Config, error), emitter EventEmitter, logger *slog.Logger) (*CatalogService, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if emitter == nil {
		emitter = LogEmitter{}
	}
	s := &CatalogService{
		load:     load,
		emitter:  emitter,
		logger:   logger.With("component", "catalog"),
		Debounce: DefaultDebounce,
	}
	cfg, err := s.loadValid()
	if err != nil {
		return nil, err
	}
	s.cfg, s.catalog = cfg, cfg.Catalog()
	return s, nil
}

func (s *CatalogService) loadValid() (*config.Config, error) {
	cfg, err := s.load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Catalog returns the current catalog.
func (s *CatalogService) Catalog() *domain.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Config returns the configuration the current catalog was built from.
func (s *CatalogService) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Reload re-reads the configuration. On failure the previous catalog
// stays in place.
func (s *CatalogService) Reload(ctx context.Context) error {
	cfg, err := s.loadValid()
	if err != nil {
		s.logger.Warn("reload rejected, keeping previous catalog", "error", err)
		return err
	}

	s.mu.Lock()
	s.cfg, s.catalog = cfg, cfg.Catalog()
	s.mu.Unlock()

	s.logger.Info("catalog reloaded", "tables", len(cfg.Tables), "servers", len(cfg.Servers))
	s.emitter.Emit(ctx, EventCatalogReloaded, map[string]any{
		"tables": s.Catalog().TableNames(),
	})
	if s.OnReload != nil {
		s.OnReload(cfg)
	}
	return nil
}

// Watch reloads the catalog whenever the config file changes, until ctx is
// done. The directory is watched instead of the file so editors that
// replace the file on save are still seen.
func (s *CatalogService) Watch(ctx context.Context) error {
	path := s.Config().File
	if path == "" {
		return errors.New("no config file to watch")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("bad config path %q: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch dir %q: %w", filepath.Dir(absPath), err)
	}

	debounce := s.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	go func() {
		defer watcher.Close()
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if name, _ := filepath.Abs(event.Name); name != absPath {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounce, func() {
					s.logger.Info("config file changed", "path", absPath)
					_ = s.Reload(ctx)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("watcher error", "error", err)
			}
		}
	}()

	s.logger.Info("watching config file", "path", absPath)
	return nil
}
