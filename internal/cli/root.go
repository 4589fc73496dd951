// Package cli provides the sheetsfdw command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sheetsfdw/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// envKey stores the command environment in the context.
type envKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&envHolder{})
}

// envHolder keeps the environment built by the pre-run hook until the
// command returns.
type envHolder struct {
	env *Env
}

func (h *envHolder) Close() {
	if h.env != nil {
		h.env.Close()
		h.env = nil
	}
}

func newRootCmd(holder *envHolder) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "sheetsfdw",
		Short: "sheetsfdw - foreign tables over spreadsheets and JSON APIs",
		Long: `sheetsfdw reads published Google Sheets and JSON APIs as typed foreign tables.

Declare servers and tables in sheetsfdw.yaml, scan them from the terminal or an
MCP client, and copy them into SQLite, MySQL, Postgres or MongoDB with sync jobs.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "version" {
				return nil
			}

			flags := cmd.Root().PersistentFlags()
			cfg, err := config.Load(cfgFile, flags)
			if err != nil {
				return err
			}
			env, err := newEnv(cfg, func() (*config.Config, error) {
				return config.Load(cfgFile, flags)
			}, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			holder.env = env
			cmd.SetContext(context.WithValue(cmd.Context(), envKey{}, env))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./sheetsfdw.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding the sync state database")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text|json)")
	rootCmd.PersistentFlags().Duration("http-timeout", 0, "Timeout for each remote request")

	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newScanCommand())
	rootCmd.AddCommand(newProfilesCommand())
	rootCmd.AddCommand(newTablesCommand())
	rootCmd.AddCommand(newSyncCommand())
	rootCmd.AddCommand(newSecretCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMCPCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

// ExecuteContext runs the root command with explicit arguments and streams.
func ExecuteContext(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	holder := &envHolder{}
	defer holder.Close()

	rootCmd := newRootCmd(holder)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// getEnv retrieves the command environment from the context.
func getEnv(cmd *cobra.Command) (*Env, error) {
	if env, ok := cmd.Context().Value(envKey{}).(*Env); ok {
		return env, nil
	}
	return nil, fmt.Errorf("configuration not loaded")
}
