package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tuanphanughdtun/schedule/internal/job"
)

func newRulesCmd() *cobra.Command {
	var src source

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List dispatching rules and the fields they need",
		Long: "rules lists every dispatching rule. With --jobs or --set the Usable\n" +
			"column reflects the fields that job set populates.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := job.AllFields
			if src.jobsPath != "" || src.setID != "" {
				set, database, err := src.load(cmd.Context())
				if err != nil {
					return err
				}
				if database != nil {
					database.Close()
				}
				fields = set.Fields
			}
			fmt.Fprintln(cmd.OutOrStdout(), newRenderer().Rules(fields))
			return nil
		},
	}

	cmd.Flags().StringVar(&src.jobsPath, "jobs", "", "Job table file (.csv, .yaml or .yml)")
	cmd.Flags().StringVar(&src.setID, "set", "", "Stored job set id")
	cmd.MarkFlagsMutuallyExclusive("jobs", "set")
	return cmd
}
