package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetsfdw/internal/config"
	"sheetsfdw/internal/domain"
	"sheetsfdw/internal/fdw"
)

const sampleYAML = `
data_dir: state
log_level: debug
http:
  timeout: 5s
servers:
  sheets:
    profile: gsheets
  square:
    profile: square
    options:
      access_token: secret:square
tables:
  people:
    server: sheets
    options:
      sheet_id: 1XyZ
    columns:
      - name: id
        type: bigint
      - name: name
        type: text
destinations:
  warehouse:
    driver: postgresql
    host: db.local
    database: analytics
    username: etl
    password_secret: pg
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheetsfdw.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDataDir, cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Empty(t, cfg.File)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, sampleYAML)

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "state"), cfg.DataDir)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "state", "state.db"), cfg.StatePath())
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "gsheets", cfg.Servers["sheets"].Profile)
	assert.Equal(t, "secret:square", cfg.Servers["square"].Options["access_token"])

	cat := cfg.Catalog()
	table, err := cat.Table("people")
	require.NoError(t, err)
	cols, err := table.Columns()
	require.NoError(t, err)
	assert.Equal(t, []fdw.Column{
		{Num: 1, Name: "id", Type: fdw.TypeI64},
		{Num: 2, Name: "name", Type: fdw.TypeString},
	}, cols)
	assert.Equal(t, fdw.Options{"sheet_id": "1XyZ"}, table.Options)

	dest, err := cat.Destination("warehouse")
	require.NoError(t, err)
	assert.Equal(t, domain.DatabaseDriverPostgres, dest.Driver)
	assert.Equal(t, "pg", dest.PasswordSecret)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, "log_level: warn\nlog_format: text\n")
	t.Setenv("SHEETSFDW_LOG_FORMAT", "json")
	t.Setenv("SHEETSFDW_HTTP__TIMEOUT", "7s")
	t.Setenv("SHEETSFDW_SECRET_SQUARE", "not-config")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "", "")
	flags.String("data-dir", "", "")
	require.NoError(t, flags.Parse([]string{"--log-level=error"}))

	cfg, err := config.Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel, "flag beats file")
	assert.Equal(t, "json", cfg.LogFormat, "env beats file")
	assert.Equal(t, 7*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, filepath.Join(filepath.Dir(path), config.DefaultDataDir), cfg.DataDir, "unset flags do not override")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.ErrorContains(t, err, "error reading config file")
}

func TestValidate(t *testing.T) {
	path := writeConfig(t, `
log_format: xml
servers:
  bad:
    profile: airtable
tables:
  orphan:
    server: missing
    columns:
      - name: id
        type: geometry
      - name: id
        type: text
  empty:
    server: bad
destinations:
  d:
    driver: oracle
`)
	cfg, err := config.Load(path, nil)
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{
		"log_format",
		`unknown profile "airtable"`,
		`table orphan: unknown server "missing"`,
		"table orphan column id",
		"duplicate column id",
		"table empty: no columns declared",
		"destination d: unsupported driver: oracle",
	} {
		assert.ErrorContains(t, err, want)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{LogLevel: "warn", LogFormat: "json"}
	logger := cfg.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
