package service_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetsfdw/internal/config"
	"sheetsfdw/internal/service"
	"sheetsfdw/internal/testutil"
)

const catalogV1 = `
servers:
  sheets:
    profile: gsheets
tables:
  people:
    server: sheets
    options:
      sheet_id: abc
    columns:
      - name: id
        type: bigint
`

const catalogV2 = catalogV1 + `
  orders:
    server: sheets
    options:
      sheet_id: def
    columns:
      - name: total
        type: float8
`

func newCatalogService(t *testing.T, body string) (*service.CatalogService, *service.MockEmitter, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheetsfdw.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	emitter := &service.MockEmitter{}
	svc, err := service.NewCatalogService(func() (*config.Config, error) {
		return config.Load(path, nil)
	}, emitter, testutil.NewTestLogger(t))
	require.NoError(t, err)
	return svc, emitter, path
}

func TestCatalogService_InitialLoad(t *testing.T) {
	svc, emitter, path := newCatalogService(t, catalogV1)

	assert.Equal(t, []string{"people"}, svc.Catalog().TableNames())
	assert.Equal(t, path, svc.Config().File)
	assert.Zero(t, emitter.Count(service.EventCatalogReloaded))
}

func TestCatalogService_RejectsInvalidStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheetsfdw.yaml")
	require.NoError(t, os.WriteFile(path, []byte("servers:\n  x:\n    profile: ftp\n"), 0o644))

	_, err := service.NewCatalogService(func() (*config.Config, error) {
		return config.Load(path, nil)
	}, nil, nil)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestCatalogService_Reload(t *testing.T) {
	svc, emitter, path := newCatalogService(t, catalogV1)
	ctx := context.Background()

	var reloaded int
	svc.OnReload = func(*config.Config) { reloaded++ }

	require.NoError(t, os.WriteFile(path, []byte(catalogV2), 0o644))
	require.NoError(t, svc.Reload(ctx))
	assert.Equal(t, []string{"orders", "people"}, svc.Catalog().TableNames())
	assert.Equal(t, 1, emitter.Count(service.EventCatalogReloaded))
	assert.Equal(t, 1, reloaded)

	// A broken file keeps the previous catalog.
	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(catalogV2, "gsheets", "ftp", 1)), 0o644))
	require.Error(t, svc.Reload(ctx))
	assert.Equal(t, []string{"orders", "people"}, svc.Catalog().TableNames())
	assert.Equal(t, 1, emitter.Count(service.EventCatalogReloaded))
	assert.Equal(t, 1, reloaded)
}

func TestCatalogService_Watch(t *testing.T) {
	svc, emitter, path := newCatalogService(t, catalogV1)
	svc.Debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Watch(ctx))

	require.NoError(t, os.WriteFile(path, []byte(catalogV2), 0o644))

	assert.Eventually(t, func() bool {
		return len(svc.Catalog().TableNames()) == 2 && emitter.Count(service.EventCatalogReloaded) >= 1
	}, 5*time.Second, 20*time.Millisecond)
}

func TestCatalogService_WatchWithoutFile(t *testing.T) {
	svc, err := service.NewCatalogService(func() (*config.Config, error) {
		return &config.Config{LogLevel: "info", LogFormat: "text"}, nil
	}, nil, nil)
	require.NoError(t, err)
	assert.ErrorContains(t, svc.Watch(context.Background()), "no config file")
}
