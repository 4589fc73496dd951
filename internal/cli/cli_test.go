package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetsfdw/internal/cli"
	"sheetsfdw/internal/fdw"
)

const gvizBody = ")]}'\n" + `{"table":{"rows":[
	{"c":[{"v":1.0},{"v":"Erlich Bachman"}]},
	{"c":[{"v":2.0},{"v":"Jared Dunn"}]},
	{"c":[{"v":3.0},null]}
]}}`

const configTemplate = `
data_dir: state
servers:
  sheets:
    profile: gsheets
    options:
      base_url: %s
tables:
  people:
    server: sheets
    options:
      sheet_id: abc
    columns:
      - name: id
        type: bigint
      - name: name
        type: text
destinations:
  local:
    driver: sqlite
    host: %s
`

type harness struct {
	dir    string
	config string
	outDB  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Chdir(t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(gvizBody))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	h := &harness{dir: dir, config: filepath.Join(dir, "sheetsfdw.yaml"), outDB: filepath.Join(dir, "out.db")}
	body := fmt.Sprintf(configTemplate, srv.URL, h.outDB)
	require.NoError(t, os.WriteFile(h.config, []byte(body), 0o644))
	return h
}

func (h *harness) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	all := append([]string{"--config", h.config, "--log-level", "error"}, args...)
	err := cli.ExecuteContext(context.Background(), all, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

// ─────────────────────────────────────────────────────────────
// version / profiles / tables
// ─────────────────────────────────────────────────────────────

func TestVersion(t *testing.T) {
	t.Chdir(t.TempDir())
	var out bytes.Buffer
	require.NoError(t, cli.ExecuteContext(context.Background(), []string{"version"}, &out, &out))
	assert.Contains(t, out.String(), "sheetsfdw v"+cli.Version)
	assert.Contains(t, out.String(), fdw.HostVersionRequirement)

	out.Reset()
	require.NoError(t, cli.ExecuteContext(context.Background(), []string{"version", "--host", "0.1.7"}, &out, &out))
	assert.Contains(t, out.String(), "compatible")

	err := cli.ExecuteContext(context.Background(), []string{"version", "--host", "0.2.0"}, &out, &out)
	assert.ErrorIs(t, err, fdw.ErrNotSupported)
}

func TestProfilesAndTables(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run(t, "profiles")
	require.NoError(t, err)
	assert.Contains(t, out, "gsheets")
	assert.Contains(t, out, "table.sheet_id*")

	out, _, err = h.run(t, "tables")
	require.NoError(t, err)
	assert.Contains(t, out, "people")
	assert.Contains(t, out, "id bigint, name text")
}

func TestInvalidConfig(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(h.config, []byte("servers:\n  x:\n    profile: ftp\n"), 0o644))

	_, stderr, err := h.run(t, "tables")
	require.Error(t, err)
	assert.Contains(t, stderr, "Error: invalid configuration")
	assert.Contains(t, stderr, "ftp")
}

// ─────────────────────────────────────────────────────────────
// scan
// ─────────────────────────────────────────────────────────────

func TestScan_Table(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run(t, "scan", "people")
	require.NoError(t, err)
	assert.Contains(t, out, "Erlich Bachman")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "(3 rows)")
}

func TestScan_JSONWithLimit(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run(t, "scan", "people", "--limit", "2", "--output", "json")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Jared Dunn", rows[1]["name"])
	assert.EqualValues(t, 2, rows[1]["id"])
}

func TestScan_Errors(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run(t, "scan", "people", "--output", "xml")
	assert.ErrorContains(t, err, "unknown output format")

	_, _, err = h.run(t, "scan", "ghosts")
	assert.ErrorIs(t, err, fdw.ErrConfig)

	_, _, err = h.run(t, "scan")
	assert.Error(t, err)
}

// ─────────────────────────────────────────────────────────────
// sync
// ─────────────────────────────────────────────────────────────

func TestSync_Lifecycle(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run(t, "sync", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No sync jobs.")

	out, _, err = h.run(t, "sync", "create", "people-copy", "--table", "people", "--dest", "local")
	require.NoError(t, err)
	assert.Contains(t, out, "Created sync job people-copy")

	_, _, err = h.run(t, "sync", "create", "bad", "--table", "people", "--dest", "local", "--schedule", "whenever")
	assert.ErrorContains(t, err, "invalid cron expression")

	out, _, err = h.run(t, "sync", "run", "people-copy")
	require.NoError(t, err)
	assert.Contains(t, out, "success: read 3, wrote 3 rows")

	out, _, err = h.run(t, "sync", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "people-copy")
	assert.Contains(t, out, "success")

	out, _, err = h.run(t, "sync", "logs", "people-copy")
	require.NoError(t, err)
	assert.Contains(t, out, "success")

	// State lives under data_dir, relative to the config file.
	assert.FileExists(t, filepath.Join(h.dir, "state", "state.db"))
	assert.FileExists(t, h.outDB)

	out, _, err = h.run(t, "sync", "delete", "people-copy")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted sync job people-copy")

	_, _, err = h.run(t, "sync", "run", "people-copy")
	assert.ErrorContains(t, err, "not found")
}

func TestSecretCheck(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run(t, "secret", "check", "warehouse")
	assert.ErrorContains(t, err, "SHEETSFDW_SECRET_WAREHOUSE")

	t.Setenv("SHEETSFDW_SECRET_WAREHOUSE", "hunter2")
	out, _, err := h.run(t, "secret", "check", "warehouse")
	require.NoError(t, err)
	assert.Contains(t, out, "Secret warehouse is set")
	assert.NotContains(t, out, "hunter2")
}
