package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// FileNames are searched for in the working directory when no file is given.
var FileNames = []string{"sheetsfdw.yaml", "sheetsfdw.yml"}

// findConfigFile returns the config file to use.
// Priority: explicit path > sheetsfdw.yaml > sheetsfdw.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range FileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// envKey maps SHEETSFDW_HTTP__TIMEOUT to http.timeout. Secret variables
// are left to the secret store.
func envKey(s string) string {
	if strings.HasPrefix(s, EnvPrefix+"SECRET_") {
		return ""
	}
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Load reads configuration from defaults, file, environment variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"data_dir":     DefaultDataDir,
		"log_level":    DefaultLogLevel,
		"log_format":   DefaultLogFormat,
		"http.timeout": DefaultHTTPTimeout.String(),
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment (SHEETSFDW_ prefix)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			switch f.Name {
			case "log-level", "log-format", "data-dir":
				return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
			case "http-timeout":
				return "http.timeout", posflag.FlagVal(flags, f)
			}
			return "", nil
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if used != "" {
		abs, err := filepath.Abs(used)
		if err == nil {
			used = abs
		}
		cfg.File = used
		// A relative data_dir is anchored at the config file.
		if cfg.DataDir != "" && !filepath.IsAbs(cfg.DataDir) {
			cfg.DataDir = filepath.Join(filepath.Dir(used), cfg.DataDir)
		}
	}
	return &cfg, nil
}

// StatePath is the SQLite file holding sync jobs and run logs.
func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, "state.db")
}
