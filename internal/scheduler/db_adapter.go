package scheduler

import (
	"context"
	"fmt"

	"github.com/tuanphanughdtun/schedule/internal/db"
	"github.com/tuanphanughdtun/schedule/internal/job"
	"github.com/tuanphanughdtun/schedule/internal/metrics"
	"github.com/tuanphanughdtun/schedule/internal/rules"
)

// DBAdapter adapts the internal db.DB to the RunStore interface and moves
// job sets between their domain and row forms
type DBAdapter struct {
	db *db.DB
}

// NewDBAdapter creates a new database adapter
func NewDBAdapter(database *db.DB) *DBAdapter {
	return &DBAdapter{db: database}
}

// SaveRun writes a result and its schedule to the database
func (a *DBAdapter) SaveRun(ctx context.Context, result *Result) error {
	run, entries := RunRows(result)
	if err := a.db.CreateRun(ctx, run, entries); err != nil {
		return fmt.Errorf("failed to write run: %w", err)
	}
	return nil
}

// StoreJobSet writes a new job set
func (a *DBAdapter) StoreJobSet(ctx context.Context, set job.JobSet) error {
	row, jobs := JobSetRows(set)
	if err := a.db.CreateJobSet(ctx, row, jobs); err != nil {
		return fmt.Errorf("failed to write job set %s: %w", set.ID, err)
	}
	return nil
}

// LoadJobSet reads a stored job set
func (a *DBAdapter) LoadJobSet(ctx context.Context, id string) (job.JobSet, error) {
	row, jobs, err := a.db.GetJobSet(ctx, id)
	if err != nil {
		return job.JobSet{}, fmt.Errorf("failed to read job set %s: %w", id, err)
	}
	return JobSetFromRows(row, jobs), nil
}

// LoadRun reads a stored run back into a result. Metrics are recomputed
// from the stored schedule.
func (a *DBAdapter) LoadRun(ctx context.Context, id string) (*Result, error) {
	run, entries, err := a.db.GetRun(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read run %s: %w", id, err)
	}
	return ResultFromRows(run, entries)
}

// ResultFromRows rebuilds a result from its database rows
func ResultFromRows(run *db.Run, entries []db.RunEntry) (*Result, error) {
	r, err := rules.ParseRule(run.Rule)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", run.ID, err)
	}
	mode, err := ParseMode(run.Mode)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", run.ID, err)
	}

	schedule := ScheduleFromEntries(entries)
	result := &Result{
		RunID:    run.ID,
		Rule:     r,
		Mode:     mode,
		Schedule: schedule,
		Metrics:  metrics.Compute(schedule),
	}
	if run.JobSetID != nil {
		result.JobSetID = *run.JobSetID
	}
	return result, nil
}

// RunRows converts a result to its database rows
func RunRows(result *Result) (*db.Run, []db.RunEntry) {
	m := result.Metrics
	run := &db.Run{
		ID:                result.RunID,
		Rule:              result.Rule.String(),
		Mode:              result.Mode.String(),
		Jobs:              m.Jobs,
		Makespan:          m.Makespan,
		TotalTardiness:    m.TotalTardiness,
		MaxTardiness:      m.MaxTardiness,
		MeanFlowTime:      m.MeanFlowTime,
		LateJobs:          m.LateJobs,
		Utilization:       m.Utilization,
		AvgJobsInSystem:   m.AvgJobsInSystem,
		AvgCompletionTime: m.AvgCompletionTime,
		AvgLateness:       m.AvgLateness,
		IdleTime:          m.IdleTime,
	}
	if result.JobSetID != "" {
		id := result.JobSetID
		run.JobSetID = &id
	}

	entries := make([]db.RunEntry, len(result.Schedule))
	for i, s := range result.Schedule {
		entries[i] = db.RunEntry{
			RunID:          result.RunID,
			Seq:            i,
			JobID:          s.ID,
			InputIndex:     s.Index,
			ProcessingTime: s.ProcessingTime,
			DueDate:        s.DueDate,
			ReleaseTime:    s.ReleaseTime,
			Priority:       s.Priority,
			SetupGroup:     s.SetupGroup,
			Start:          s.Start,
			Finish:         s.Finish,
			Lateness:       s.Lateness,
			FlowTime:       s.FlowTime,
		}
	}
	return run, entries
}

// ScheduleFromEntries rebuilds a schedule from stored run entries
func ScheduleFromEntries(entries []db.RunEntry) []job.ScheduledJob {
	out := make([]job.ScheduledJob, len(entries))
	for i, e := range entries {
		out[i] = job.ScheduledJob{
			Job: job.Job{
				ID:             e.JobID,
				ProcessingTime: e.ProcessingTime,
				DueDate:        e.DueDate,
				ReleaseTime:    e.ReleaseTime,
				Priority:       e.Priority,
				SetupGroup:     e.SetupGroup,
			},
			Index:    e.InputIndex,
			Start:    e.Start,
			Finish:   e.Finish,
			Lateness: e.Lateness,
			FlowTime: e.FlowTime,
		}
	}
	return out
}

// JobSetRows converts a job set to its database rows
func JobSetRows(set job.JobSet) (*db.JobSet, []db.Job) {
	row := &db.JobSet{
		ID:     set.ID,
		Name:   set.Name,
		Fields: int(set.Fields),
	}
	jobs := make([]db.Job, len(set.Jobs))
	for i, j := range set.Jobs {
		jobs[i] = JobRow(set.ID, j)
		jobs[i].Position = i
	}
	return row, jobs
}

// JobRow converts one job to its database row. Position is left for the store.
func JobRow(jobSetID string, j job.Job) db.Job {
	return db.Job{
		JobSetID:       jobSetID,
		ID:             j.ID,
		ProcessingTime: j.ProcessingTime,
		DueDate:        j.DueDate,
		ReleaseTime:    j.ReleaseTime,
		Priority:       j.Priority,
		SetupGroup:     j.SetupGroup,
	}
}

// JobSetFromRows rebuilds a job set from its database rows
func JobSetFromRows(row *db.JobSet, jobs []db.Job) job.JobSet {
	set := job.JobSet{
		ID:     row.ID,
		Name:   row.Name,
		Fields: job.Fields(row.Fields),
		Jobs:   make([]job.Job, len(jobs)),
	}
	for i, j := range jobs {
		set.Jobs[i] = job.Job{
			ID:             j.ID,
			ProcessingTime: j.ProcessingTime,
			DueDate:        j.DueDate,
			ReleaseTime:    j.ReleaseTime,
			Priority:       j.Priority,
			SetupGroup:     j.SetupGroup,
		}
	}
	return set
}
