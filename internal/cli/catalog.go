package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"sheetsfdw/internal/fdw"
)

func newProfilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the remote services a server can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows := []table.Row{}
			for _, p := range fdw.ListProfiles() {
				var opts []string
				for _, o := range p.Options {
					name := o.Scope + "." + o.Key
					if o.Required {
						name += "*"
					}
					opts = append(opts, name)
				}
				rows = append(rows, table.Row{p.Name, p.Label, strings.Join(opts, " ")})
			}
			renderTable(cmd.OutOrStdout(), table.Row{"profile", "service", "options (* required)"}, rows)
			return nil
		},
	}
}

func newTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List declared foreign tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := getEnv(cmd)
			if err != nil {
				return err
			}

			cat := env.Catalog.Catalog()
			rows := []table.Row{}
			for _, name := range cat.TableNames() {
				t := cat.Tables[name]
				profile := "?"
				if srv, err := cat.Server(t.Server); err == nil {
					profile = srv.Profile
				}
				cols := make([]string, len(t.ColumnDefs))
				for i, c := range t.ColumnDefs {
					cols[i] = c.Name + " " + c.Type
				}
				rows = append(rows, table.Row{name, t.Server, profile, strings.Join(cols, ", ")})
			}
			if len(rows) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No foreign tables declared.")
				return nil
			}
			renderTable(cmd.OutOrStdout(), table.Row{"table", "server", "profile", "columns"}, rows)
			return nil
		},
	}
}
