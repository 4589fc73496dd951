package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"sheetsfdw/internal/domain"
	"sheetsfdw/internal/service"
)

func newSyncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Manage jobs that copy foreign tables into databases",
	}
	cmd.AddCommand(newSyncCreateCommand())
	cmd.AddCommand(newSyncListCommand())
	cmd.AddCommand(newSyncRunCommand())
	cmd.AddCommand(newSyncLogsCommand())
	cmd.AddCommand(newSyncDeleteCommand())
	return cmd
}

func syncService(cmd *cobra.Command) (*service.SyncService, error) {
	env, err := getEnv(cmd)
	if err != nil {
		return nil, err
	}
	return env.SyncService(service.LogEmitter{Logger: env.Logger})
}

func newSyncCreateCommand() *cobra.Command {
	var in service.CreateSyncJobInput
	var disabled bool

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a sync job",
		Example: `  sheetsfdw sync create people-nightly --table people --dest warehouse --schedule "0 2 * * *"
  sheetsfdw sync create orders-copy --table orders --dest local --target orders_raw --mode append`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := syncService(cmd)
			if err != nil {
				return err
			}
			defer svc.Stop()

			in.Name = args[0]
			in.Enabled = !disabled
			if in.TriggerConfig != "" {
				in.TriggerType = domain.TriggerSchedule
			}

			job, err := svc.CreateJob(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created sync job %s (%s)\n", job.Name, job.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Table, "table", "", "Foreign table to read")
	cmd.Flags().StringVar(&in.Destination, "dest", "", "Destination to write into")
	cmd.Flags().StringVar(&in.TargetTable, "target", "", "Table or collection in the destination (default: the foreign table name)")
	cmd.Flags().StringVar(&in.SyncMode, "mode", string(domain.SyncReplace), "Write mode (replace|append)")
	cmd.Flags().StringVar(&in.TriggerConfig, "schedule", "", "Cron expression, run by sheetsfdw serve")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "Create the job disabled")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("dest")
	return cmd
}

func newSyncListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sync jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := syncService(cmd)
			if err != nil {
				return err
			}
			jobs, err := svc.ListJobs()
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No sync jobs.")
				return nil
			}

			rows := make([]table.Row, len(jobs))
			for i, j := range jobs {
				trigger := j.TriggerType
				if j.TriggerType == domain.TriggerSchedule {
					trigger = j.TriggerConfig
				}
				if !j.Enabled {
					trigger += " (disabled)"
				}
				status := j.LastStatus
				if status == "" {
					status = "-"
				}
				rows[i] = table.Row{j.Name, j.Table, j.Destination, j.SyncMode, trigger, status, formatTime(j.LastRunAt)}
			}
			renderTable(cmd.OutOrStdout(), table.Row{"name", "table", "destination", "mode", "trigger", "status", "last run"}, rows)
			return nil
		},
	}
}

func newSyncRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <job>",
		Short: "Run a sync job now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := syncService(cmd)
			if err != nil {
				return err
			}
			result, err := svc.RunJob(cmd.Context(), args[0])
			if result != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: read %d, wrote %d rows in %s\n",
					result.Status, result.RowsRead, result.RowsWritten, result.Duration.Round(time.Millisecond))
			}
			return err
		},
	}
}

func newSyncLogsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "logs <job>",
		Short: "Show recent runs of a sync job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := syncService(cmd)
			if err != nil {
				return err
			}
			logs, err := svc.ListRunLogs(args[0], limit)
			if err != nil {
				return err
			}
			if len(logs) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No runs yet.")
				return nil
			}

			rows := make([]table.Row, len(logs))
			for i, l := range logs {
				rows[i] = table.Row{
					formatTime(l.StartedAt),
					l.Status,
					strconv.Itoa(l.RowsRead),
					strconv.Itoa(l.RowsWritten),
					l.ErrorKind,
					l.Error,
				}
			}
			renderTable(cmd.OutOrStdout(), table.Row{"started", "status", "read", "written", "kind", "error"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	return cmd
}

func newSyncDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <job>",
		Short: "Delete a sync job and its run history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := syncService(cmd)
			if err != nil {
				return err
			}
			defer svc.Stop()

			if err := svc.DeleteJob(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted sync job %s\n", args[0])
			return nil
		},
	}
}
