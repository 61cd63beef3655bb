package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tuanphanughdtun/schedule/internal/dispatch"
	"github.com/tuanphanughdtun/schedule/internal/jobtable"
	"github.com/tuanphanughdtun/schedule/internal/rules"
	"github.com/tuanphanughdtun/schedule/internal/scheduler"
)

func newRunCmd() *cobra.Command {
	var (
		src     source
		rule    string
		mode    string
		trace   bool
		save    bool
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Schedule a job set with one dispatching rule",
		Example: "  schedule run --jobs jobs.csv --rule SPT\n" +
			"  schedule run --set 3f2a... --rule CR --mode dynamic --trace --save",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rules.ParseRule(rule)
			if err != nil {
				return err
			}

			simulation := cfg.Simulation
			if mode != "" {
				simulation.Mode = mode
			}

			var opts []scheduler.Option
			rec := dispatch.NewRecorder()
			if trace {
				opts = append(opts, scheduler.WithRecorder(rec))
			}
			s, err := newScheduler(simulation, opts...)
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

			result, err := s.Run(set, r)
			if err != nil {
				return fmt.Errorf("run %s: %w", r, err)
			}

			out := cmd.OutOrStdout()
			renderer := newRenderer()
			fmt.Fprint(out, renderer.Result(result))

			if trace {
				fmt.Fprintln(out)
				if result.Mode == scheduler.ModeStatic {
					fmt.Fprintln(out, "no dispatch trace: static runs order jobs without simulation")
				} else {
					fmt.Fprint(out, renderer.Trace(rec.Events()))
				}
			}

			if outPath != "" {
				if err := writeSchedule(outPath, result); err != nil {
					return err
				}
				fmt.Fprintf(out, "schedule written to %s\n", outPath)
			}

			if save {
				store, err := storeFor(database)
				if err != nil {
					return err
				}
				if store != database {
					defer store.Close()
				}
				if err := s.Save(cmd.Context(), scheduler.NewDBAdapter(store), result); err != nil {
					return err
				}
				fmt.Fprintf(out, "run saved: %s\n", result.RunID)
			}

			return nil
		},
	}

	src.bind(cmd)
	cmd.Flags().StringVarP(&rule, "rule", "r", "", "Dispatching rule code, e.g. SPT or EDD")
	cmd.Flags().StringVar(&mode, "mode", "", "auto, static or dynamic (overrides config)")
	cmd.Flags().BoolVar(&trace, "trace", false, "Print the dispatch transitions of a dynamic run")
	cmd.Flags().BoolVar(&save, "save", false, "Store the run in the database")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the schedule to a CSV file")
	cmd.MarkFlagRequired("rule")

	return cmd
}

// writeSchedule exports a schedule as CSV
func writeSchedule(path string, result *scheduler.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := jobtable.WriteScheduleCSV(f, result.Schedule); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
