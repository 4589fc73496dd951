package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScanCommand() *cobra.Command {
	var (
		limit  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "scan <table>",
		Short: "Fetch a foreign table and print its rows",
		Long: `Fetch a foreign table from its remote service and print the typed rows.

Cells that are missing, null or of the wrong kind for their column print as NULL.`,
		Example: `  sheetsfdw scan people
  sheetsfdw scan orders --limit 10 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validOutput(output); err != nil {
				return err
			}
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			env, err := getEnv(cmd)
			if err != nil {
				return err
			}

			columns, rows, err := env.Engine.Preview(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			return renderRows(cmd.OutOrStdout(), columns, rows, output)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum rows to print (0 for all)")
	cmd.Flags().StringVarP(&output, "output", "o", OutputTable, "Output format (table|json)")
	_ = cmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{OutputTable, OutputJSON}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
