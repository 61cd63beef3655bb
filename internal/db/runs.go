package db

import (
	"context"
	"database/sql"
	"time"
)

// =============================================================================
// Run Operations
// =============================================================================

// CreateRun stores a run and its schedule entries in one transaction
func (db *DB) CreateRun(ctx context.Context, run *Run, entries []RunEntry) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	return db.WithTransaction(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO runs (
				id, job_set_id, rule, mode, jobs, makespan, total_tardiness, max_tardiness,
				mean_flow_time, late_jobs, utilization, avg_jobs_in_system,
				avg_completion_time, avg_lateness, idle_time, created_at
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			run.JobSetID,
			run.Rule,
			run.Mode,
			run.Jobs,
			run.Makespan,
			run.TotalTardiness,
			run.MaxTardiness,
			run.MeanFlowTime,
			run.LateJobs,
			run.Utilization,
			run.AvgJobsInSystem,
			run.AvgCompletionTime,
			run.AvgLateness,
			run.IdleTime,
			run.CreatedAt,
		)
		switch {
		case IsDuplicate(err):
			return ErrDuplicate
		case IsForeignKey(err):
			return ErrNotFound
		case err != nil:
			return err
		}

		for i := range entries {
			entries[i].RunID = run.ID
			entries[i].Seq = i
			if err := tx.insertRunEntry(ctx, &entries[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// insertRunEntry inserts a schedule entry within a transaction
func (tx *Tx) insertRunEntry(ctx context.Context, e *RunEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO run_entries (
			run_id, seq, job_id, input_index, processing_time, due_date, release_time,
			priority, setup_group, start_time, finish_time, lateness, flow_time
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.RunID,
		e.Seq,
		e.JobID,
		e.InputIndex,
		e.ProcessingTime,
		e.DueDate,
		e.ReleaseTime,
		e.Priority,
		e.SetupGroup,
		e.Start,
		e.Finish,
		e.Lateness,
		e.FlowTime,
	)
	return err
}

const runColumns = `
	id, job_set_id, rule, mode, jobs, makespan, total_tardiness, max_tardiness,
	mean_flow_time, late_jobs, utilization, avg_jobs_in_system,
	avg_completion_time, avg_lateness, idle_time, created_at
`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	run := &Run{}
	var jobSetID sql.NullString

	err := row.Scan(
		&run.ID,
		&jobSetID,
		&run.Rule,
		&run.Mode,
		&run.Jobs,
		&run.Makespan,
		&run.TotalTardiness,
		&run.MaxTardiness,
		&run.MeanFlowTime,
		&run.LateJobs,
		&run.Utilization,
		&run.AvgJobsInSystem,
		&run.AvgCompletionTime,
		&run.AvgLateness,
		&run.IdleTime,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if jobSetID.Valid {
		run.JobSetID = &jobSetID.String
	}
	return run, nil
}

// GetRun retrieves a run and its entries in schedule order
func (db *DB) GetRun(ctx context.Context, id string) (*Run, []RunEntry, error) {
	run, err := scanRun(db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id))

	if err == sql.ErrNoRows {
		return nil, nil, ErrNotFound
	}

	if err != nil {
		return nil, nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT run_id, seq, job_id, input_index, processing_time, due_date, release_time,
			priority, setup_group, start_time, finish_time, lateness, flow_time
		FROM run_entries
		WHERE run_id = ?
		ORDER BY seq
	`, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	entries := []RunEntry{}
	for rows.Next() {
		var e RunEntry
		err := rows.Scan(
			&e.RunID,
			&e.Seq,
			&e.JobID,
			&e.InputIndex,
			&e.ProcessingTime,
			&e.DueDate,
			&e.ReleaseTime,
			&e.Priority,
			&e.SetupGroup,
			&e.Start,
			&e.Finish,
			&e.Lateness,
			&e.FlowTime,
		)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	return run, entries, nil
}

// ListRuns retrieves runs newest first, optionally limited to one job set.
// A limit of zero or less returns every run.
func (db *DB) ListRuns(ctx context.Context, jobSetID string, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs"
	var args []any
	if jobSetID != "" {
		query += " WHERE job_set_id = ?"
		args = append(args, jobSetID)
	}
	query += " ORDER BY created_at DESC, id"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// DeleteRun deletes a run and its entries
func (db *DB) DeleteRun(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(result)
}
