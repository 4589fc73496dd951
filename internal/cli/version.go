package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sheetsfdw/internal/fdw"
)

func newVersionCommand() *cobra.Command {
	var host string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display sheetsfdw version and the host protocol versions it accepts.

With --host, check a host protocol version against the requirement.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "sheetsfdw v%s (%s)\n", Version, GitCommit)
			_, _ = fmt.Fprintf(out, "host protocol %s\n", fdw.HostVersionRequirement)
			if host == "" {
				return nil
			}
			if err := fdw.CheckHostVersion(host); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "host %s is compatible\n", host)
			return nil
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "Host protocol version to check")
	return cmd
}
