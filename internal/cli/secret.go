package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sheetsfdw/internal/secret"
)

func newSecretCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage values referenced as secret:<key> in the config",
		Long: `Manage values referenced as secret:<key> in the config.

Secrets are read from SHEETSFDW_SECRET_<KEY> environment variables first, then from
the macOS keychain. set and delete only work where a keychain is available.`,
	}
	cmd.AddCommand(newSecretSetCommand())
	cmd.AddCommand(newSecretDeleteCommand())
	cmd.AddCommand(newSecretCheckCommand())
	return cmd
}

func keychain() (*secret.KeychainStore, error) {
	if !secret.KeychainAvailable() {
		return nil, fmt.Errorf("no keychain on this platform")
	}
	return secret.NewKeychainStore(), nil
}

func newSecretSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> [value]",
		Short: "Store a secret in the keychain (reads stdin when value is omitted)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kc, err := keychain()
			if err != nil {
				return fmt.Errorf("%w; export %s instead", err, secret.EnvName(args[0]))
			}
			value := ""
			if len(args) == 2 {
				value = args[1]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read secret from stdin: %w", err)
				}
				value = strings.TrimRight(line, "\r\n")
			}
			if value == "" {
				return fmt.Errorf("empty secret value")
			}
			if err := kc.Set(args[0], []byte(value)); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored secret %s\n", args[0])
			return nil
		},
	}
}

func newSecretDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a secret from the keychain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kc, err := keychain()
			if err != nil {
				return err
			}
			if err := kc.Delete(args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted secret %s\n", args[0])
			return nil
		},
	}
}

func newSecretCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <key>",
		Short: "Report whether a secret resolves, without printing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnv(cmd)
			if err != nil {
				return err
			}
			if _, err := secret.Resolve(env.Secrets, secret.RefPrefix+args[0]); err != nil {
				return fmt.Errorf("%w (set %s or store it with `sheetsfdw secret set`)", err, secret.EnvName(args[0]))
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Secret %s is set\n", args[0])
			return nil
		},
	}
}
