package db

import (
	"context"
	"database/sql"
	"time"
)

// =============================================================================
// Job Operations
// =============================================================================

// AddJob appends a job to the end of a job set.
// Returns ErrDuplicate if the id is taken and ErrNotFound if the set is missing.
func (tx *Tx) AddJob(ctx context.Context, job *Job) error {
	var next int
	err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position) + 1, 0) FROM jobs WHERE job_set_id = ?
	`, job.JobSetID).Scan(&next)
	if err != nil {
		return err
	}
	job.Position = next

	if err := tx.insertJob(ctx, job); err != nil {
		return err
	}
	return tx.touchJobSet(ctx, job.JobSetID)
}

// insertJob inserts a job row within a transaction
func (tx *Tx) insertJob(ctx context.Context, job *Job) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO jobs (job_set_id, id, position, processing_time, due_date, release_time, priority, setup_group)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		job.JobSetID,
		job.ID,
		job.Position,
		job.ProcessingTime,
		job.DueDate,
		job.ReleaseTime,
		job.Priority,
		job.SetupGroup,
	)

	switch {
	case IsDuplicate(err):
		return ErrDuplicate
	case IsForeignKey(err):
		return ErrNotFound
	}
	return err
}

// touchJobSet bumps a job set's updated_at within a transaction
func (tx *Tx) touchJobSet(ctx context.Context, jobSetID string) error {
	result, err := tx.ExecContext(ctx, "UPDATE job_sets SET updated_at = ? WHERE id = ?", time.Now().UTC(), jobSetID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// GetJob retrieves a single job of a job set
func (db *DB) GetJob(ctx context.Context, jobSetID, id string) (*Job, error) {
	job := &Job{}

	err := db.QueryRowContext(ctx, `
		SELECT job_set_id, id, position, processing_time, due_date, release_time, priority, setup_group
		FROM jobs
		WHERE job_set_id = ? AND id = ?
	`, jobSetID, id).Scan(
		&job.JobSetID,
		&job.ID,
		&job.Position,
		&job.ProcessingTime,
		&job.DueDate,
		&job.ReleaseTime,
		&job.Priority,
		&job.SetupGroup,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return job, nil
}

// getJobs retrieves the jobs of a job set in position order
func (db *DB) getJobs(ctx context.Context, jobSetID string) ([]Job, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT job_set_id, id, position, processing_time, due_date, release_time, priority, setup_group
		FROM jobs
		WHERE job_set_id = ?
		ORDER BY position
	`, jobSetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		var job Job
		err := rows.Scan(
			&job.JobSetID,
			&job.ID,
			&job.Position,
			&job.ProcessingTime,
			&job.DueDate,
			&job.ReleaseTime,
			&job.Priority,
			&job.SetupGroup,
		)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}

// UpdateJob updates an existing job in place, keeping its position
func (tx *Tx) UpdateJob(ctx context.Context, job *Job) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE jobs
		SET processing_time = ?, due_date = ?, release_time = ?, priority = ?, setup_group = ?
		WHERE job_set_id = ? AND id = ?
	`,
		job.ProcessingTime,
		job.DueDate,
		job.ReleaseTime,
		job.Priority,
		job.SetupGroup,
		job.JobSetID,
		job.ID,
	)
	if err != nil {
		return err
	}
	if err := requireRow(result); err != nil {
		return err
	}
	return tx.touchJobSet(ctx, job.JobSetID)
}

// DeleteJob removes a job from a job set
func (db *DB) DeleteJob(ctx context.Context, jobSetID, id string) error {
	return db.WithTransaction(ctx, func(tx *Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM jobs WHERE job_set_id = ? AND id = ?", jobSetID, id)
		if err != nil {
			return err
		}
		if err := requireRow(result); err != nil {
			return err
		}
		return tx.touchJobSet(ctx, jobSetID)
	})
}
