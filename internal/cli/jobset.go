package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tuanphanughdtun/schedule/internal/db"
	"github.com/tuanphanughdtun/schedule/internal/job"
	"github.com/tuanphanughdtun/schedule/internal/jobtable"
	"github.com/tuanphanughdtun/schedule/internal/scheduler"
)

func newJobSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "jobset",
		Aliases: []string{"jobsets", "js"},
		Short:   "Manage stored job sets",
	}

	cmd.AddCommand(
		newJobSetImportCmd(),
		newJobSetListCmd(),
		newJobSetShowCmd(),
		newJobSetExportCmd(),
		newJobSetAddCmd(),
		newJobSetUpdateCmd(),
		newJobSetRemoveJobCmd(),
		newJobSetDeleteCmd(),
	)
	return cmd
}

// withStore opens the database for the duration of fn
func withStore(fn func(database *db.DB) error) error {
	database, err := openStore()
	if err != nil {
		return err
	}
	defer database.Close()
	return fn(database)
}

// notFound rewrites store misses into a message naming the record
func notFound(err error, format string, args ...any) error {
	if db.IsNotFound(err) {
		return fmt.Errorf(format, args...)
	}
	return err
}

func newJobSetImportCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Store a job table file as a new job set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := jobtable.LoadFile(args[0])
			if err != nil {
				return err
			}
			if err := job.ValidateSet(set); err != nil {
				return err
			}
			if name != "" {
				set.Name = name
			}
			set.ID = uuid.NewString()

			return withStore(func(database *db.DB) error {
				if err := scheduler.NewDBAdapter(database).StoreJobSet(cmd.Context(), set); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "job set imported: %s (%s, %d jobs, fields: %s)\n",
					set.ID, set.Name, len(set.Jobs), set.Fields)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Job set name (default: file name)")
	return cmd
}

func newJobSetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored job sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(database *db.DB) error {
				sets, err := database.ListJobSets(cmd.Context())
				if err != nil {
					return fmt.Errorf("list job sets: %w", err)
				}
				counts := make(map[string]int, len(sets))
				for _, s := range sets {
					n, err := database.CountJobs(cmd.Context(), s.ID)
					if err != nil {
						return fmt.Errorf("count jobs of %s: %w", s.ID, err)
					}
					counts[s.ID] = n
				}
				fmt.Fprintln(cmd.OutOrStdout(), newRenderer().JobSets(sets, counts))
				return nil
			})
		},
	}
}

func newJobSetShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show the jobs of a job set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(database *db.DB) error {
				set, err := scheduler.NewDBAdapter(database).LoadJobSet(cmd.Context(), args[0])
				if err != nil {
					return notFound(err, "job set %s not found", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), newRenderer().JobSet(set))
				return nil
			})
		},
	}
}

func newJobSetExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Write a job set to a file, or as YAML to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(database *db.DB) error {
				set, err := scheduler.NewDBAdapter(database).LoadJobSet(cmd.Context(), args[0])
				if err != nil {
					return notFound(err, "job set %s not found", args[0])
				}
				if outPath == "" {
					return jobtable.WriteYAML(cmd.OutOrStdout(), set)
				}
				if err := jobtable.SaveFile(outPath, set); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d jobs written to %s\n", len(set.Jobs), outPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output .csv or .yaml file")
	return cmd
}

// jobFlags are the per-job values of add and update
type jobFlags struct {
	id             string
	processingTime float64
	dueDate        float64
	releaseTime    float64
	priority       float64
	setupGroup     string
}

func (f *jobFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.id, "id", "", "Job id")
	cmd.Flags().Float64Var(&f.processingTime, "pt", 0, "Processing time")
	cmd.Flags().Float64Var(&f.dueDate, "due", 0, "Due date")
	cmd.Flags().Float64Var(&f.releaseTime, "release", 0, "Release time (enables the field on the set)")
	cmd.Flags().Float64Var(&f.priority, "priority", job.DefaultPriority, "Priority, higher is more urgent (enables the field on the set)")
	cmd.Flags().StringVar(&f.setupGroup, "group", "", "Setup group (enables the field on the set)")
	cmd.MarkFlagRequired("id")
}

// apply copies the flags given on the command line onto j and returns the
// optional fields they populate
func (f *jobFlags) apply(cmd *cobra.Command, j *job.Job) job.Fields {
	flags := cmd.Flags()
	var enabled job.Fields
	if flags.Changed("pt") {
		j.ProcessingTime = f.processingTime
	}
	if flags.Changed("due") {
		j.DueDate = f.dueDate
	}
	if flags.Changed("release") {
		j.ReleaseTime = f.releaseTime
		enabled |= job.FieldReleaseTime
	}
	if flags.Changed("priority") {
		j.Priority = f.priority
		enabled |= job.FieldPriority
	}
	if flags.Changed("group") {
		j.SetupGroup = f.setupGroup
		enabled |= job.FieldSetupGroup
	}
	return enabled
}

// saveJob validates j, then writes it with store and widens the set's fields
// in one transaction
func saveJob(cmd *cobra.Command, database *db.DB, setID string, j job.Job, enabled job.Fields,
	store func(tx *db.Tx, row *db.Job) error) error {
	if err := job.Validate([]job.Job{j}); err != nil {
		return err
	}

	set, _, err := database.GetJobSet(cmd.Context(), setID)
	if err != nil {
		return notFound(err, "job set %s not found", setID)
	}

	row := scheduler.JobRow(setID, j)
	fields := job.Fields(set.Fields) | enabled
	err = database.WithTransaction(cmd.Context(), func(tx *db.Tx) error {
		if err := store(tx, &row); err != nil {
			return err
		}
		if fields == job.Fields(set.Fields) {
			return nil
		}
		if err := tx.EnableJobSetFields(cmd.Context(), setID, int(enabled)); err != nil {
			return fmt.Errorf("update fields of %s: %w", setID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if fields != job.Fields(set.Fields) {
		logger.Info("job set fields enabled", "job_set_id", setID, "fields", fields.String())
	}
	return nil
}

func newJobSetAddCmd() *cobra.Command {
	var f jobFlags

	cmd := &cobra.Command{
		Use:   "add ID",
		Short: "Append a job to a job set",
		Example: "  schedule jobset add 3f2a... --id J7 --pt 4 --due 20\n" +
			"  schedule jobset add 3f2a... --id J8 --pt 2 --due 9 --priority 5",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setID := args[0]
			j := job.Job{ID: f.id, Priority: job.DefaultPriority}
			enabled := f.apply(cmd, &j)

			return withStore(func(database *db.DB) error {
				err := saveJob(cmd, database, setID, j, enabled, func(tx *db.Tx, row *db.Job) error {
					err := tx.AddJob(cmd.Context(), row)
					if errors.Is(err, db.ErrDuplicate) {
						return fmt.Errorf("job %s already exists in job set %s", j.ID, setID)
					}
					return err
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "job %s added to %s\n", j.ID, setID)
				return nil
			})
		},
	}

	f.bind(cmd)
	cmd.MarkFlagRequired("pt")
	cmd.MarkFlagRequired("due")
	return cmd
}

func newJobSetUpdateCmd() *cobra.Command {
	var f jobFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of a job in a job set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setID := args[0]

			return withStore(func(database *db.DB) error {
				existing, err := database.GetJob(cmd.Context(), setID, f.id)
				if err != nil {
					return notFound(err, "job %s not found in job set %s", f.id, setID)
				}

				j := job.Job{
					ID:             existing.ID,
					ProcessingTime: existing.ProcessingTime,
					DueDate:        existing.DueDate,
					ReleaseTime:    existing.ReleaseTime,
					Priority:       existing.Priority,
					SetupGroup:     existing.SetupGroup,
				}
				enabled := f.apply(cmd, &j)

				err = saveJob(cmd, database, setID, j, enabled, func(tx *db.Tx, row *db.Job) error {
					return notFound(tx.UpdateJob(cmd.Context(), row), "job %s not found in job set %s", j.ID, setID)
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "job %s updated in %s\n", j.ID, setID)
				return nil
			})
		},
	}

	f.bind(cmd)
	return cmd
}

func newJobSetRemoveJobCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID JOB",
		Short: "Remove a job from a job set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			setID, jobID := args[0], args[1]
			return withStore(func(database *db.DB) error {
				if err := database.DeleteJob(cmd.Context(), setID, jobID); err != nil {
					return notFound(err, "job %s not found in job set %s", jobID, setID)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "job %s removed from %s\n", jobID, setID)
				return nil
			})
		},
	}
}

func newJobSetDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a job set and its jobs. Stored runs are kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(database *db.DB) error {
				if err := database.DeleteJobSet(cmd.Context(), args[0]); err != nil {
					return notFound(err, "job set %s not found", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "job set %s deleted\n", args[0])
				return nil
			})
		},
	}
}
