package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tuanphanughdtun/schedule/internal/db"
	"github.com/tuanphanughdtun/schedule/internal/job"
	"github.com/tuanphanughdtun/schedule/internal/jobtable"
	"github.com/tuanphanughdtun/schedule/internal/scheduler"
)

// source names where a command reads its jobs from
type source struct {
	jobsPath string
	setID    string
}

func (s *source) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.jobsPath, "jobs", "", "Job table file (.csv, .yaml or .yml)")
	cmd.Flags().StringVar(&s.setID, "set", "", "Stored job set id")
	cmd.MarkFlagsMutuallyExclusive("jobs", "set")
	cmd.MarkFlagsOneRequired("jobs", "set")
}

// load reads the job set. The database is only opened for stored sets and
// the caller owns the returned handle.
func (s *source) load(ctx context.Context) (job.JobSet, *db.DB, error) {
	if s.jobsPath != "" {
		set, err := jobtable.LoadFile(s.jobsPath)
		if err != nil {
			return job.JobSet{}, nil, err
		}
		logger.Debug("job table loaded", "path", s.jobsPath, "jobs", len(set.Jobs), "fields", set.Fields.String())
		return set, nil, nil
	}

	database, err := openStore()
	if err != nil {
		return job.JobSet{}, nil, err
	}
	set, err := scheduler.NewDBAdapter(database).LoadJobSet(ctx, s.setID)
	if err != nil {
		database.Close()
		if errors.Is(err, db.ErrNotFound) {
			return job.JobSet{}, nil, fmt.Errorf("job set %s not found", s.setID)
		}
		return job.JobSet{}, nil, err
	}
	return set, database, nil
}

// storeFor returns the open handle or opens one for saving
func storeFor(database *db.DB) (*db.DB, error) {
	if database != nil {
		return database, nil
	}
	return openStore()
}
