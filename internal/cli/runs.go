package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tuanphanughdtun/schedule/internal/db"
	"github.com/tuanphanughdtun/schedule/internal/scheduler"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect stored runs",
	}
	cmd.AddCommand(newRunsListCmd(), newRunsShowCmd(), newRunsRemoveCmd())
	return cmd
}

func newRunsListCmd() *cobra.Command {
	var (
		setID string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(database *db.DB) error {
				runs, err := database.ListRuns(cmd.Context(), setID, limit)
				if err != nil {
					return fmt.Errorf("list runs: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), newRenderer().Runs(runs))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&setID, "set", "", "Only runs of this job set")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs (0 for all)")
	return cmd
}

func newRunsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show RUN",
		Short: "Show the schedule and metrics of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(database *db.DB) error {
				result, err := scheduler.NewDBAdapter(database).LoadRun(cmd.Context(), args[0])
				if err != nil {
					return notFound(err, "run %s not found", args[0])
				}
				fmt.Fprint(cmd.OutOrStdout(), newRenderer().Result(result))
				return nil
			})
		},
	}
}

func newRunsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm RUN",
		Short: "Delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(database *db.DB) error {
				if err := database.DeleteRun(cmd.Context(), args[0]); err != nil {
					return notFound(err, "run %s not found", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "run %s deleted\n", args[0])
				return nil
			})
		},
	}
}
