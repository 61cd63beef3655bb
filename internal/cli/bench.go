package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tuanphanughdtun/schedule/internal/scheduler"
)

func newBenchCmd() *cobra.Command {
	var (
		src       source
		objective string
		ruleCodes []string
		mode      string
		save      bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare dispatching rules on the same job set",
		Example: "  schedule bench --jobs jobs.csv\n" +
			"  schedule bench --set 3f2a... --objective makespan --rules SPT,EDD,CR --save",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			simulation := cfg.Simulation
			if objective != "" {
				simulation.Objective = objective
			}
			if len(ruleCodes) > 0 {
				simulation.BenchmarkRules = ruleCodes
			}
			if mode != "" {
				simulation.Mode = mode
			}

			s, err := newScheduler(simulation)
			if err != nil {
				return err
			}

			set, database, err := src.load(cmd.Context())
			if err != nil {
				return err
			}
			if database != nil {
				defer database.Close()
			}

			b, err := s.Benchmark(set)
			if err != nil {
				return fmt.Errorf("benchmark: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, newRenderer().Benchmark(b))

			if save && len(b.Results) > 0 {
				store, err := storeFor(database)
				if err != nil {
					return err
				}
				if store != database {
					defer store.Close()
				}
				adapter := scheduler.NewDBAdapter(store)
				for _, result := range b.Results {
					if err := s.Save(cmd.Context(), adapter, result); err != nil {
						return err
					}
				}
				fmt.Fprintf(out, "%d runs saved\n", len(b.Results))
			}

			return nil
		},
	}

	src.bind(cmd)
	cmd.Flags().StringVar(&objective, "objective", "", "Ranking objective (total_tardiness, makespan, mean_flow_time, late_jobs, max_tardiness)")
	cmd.Flags().StringSliceVar(&ruleCodes, "rules", nil, "Rules to compare (default: every applicable rule)")
	cmd.Flags().StringVar(&mode, "mode", "", "auto, static or dynamic (overrides config)")
	cmd.Flags().BoolVar(&save, "save", false, "Store every run in the database")

	return cmd
}
