package db

import (
	"context"
	"database/sql"
	"time"
)

// =============================================================================
// Job Set Operations
// =============================================================================

// CreateJobSet stores a job set and its jobs in one transaction.
// Job positions are assigned from the slice order.
func (db *DB) CreateJobSet(ctx context.Context, set *JobSet, jobs []Job) error {
	now := time.Now().UTC()
	set.CreatedAt = now
	set.UpdatedAt = now

	return db.WithTransaction(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO job_sets (id, name, fields, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`, set.ID, set.Name, set.Fields, set.CreatedAt, set.UpdatedAt)
		if err != nil {
			if IsDuplicate(err) {
				return ErrDuplicate
			}
			return err
		}

		for i := range jobs {
			jobs[i].JobSetID = set.ID
			jobs[i].Position = i
			if err := tx.insertJob(ctx, &jobs[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetJobSet retrieves a job set and its jobs in position order
func (db *DB) GetJobSet(ctx context.Context, id string) (*JobSet, []Job, error) {
	set := &JobSet{}

	err := db.QueryRowContext(ctx, `
		SELECT id, name, fields, created_at, updated_at
		FROM job_sets
		WHERE id = ?
	`, id).Scan(
		&set.ID,
		&set.Name,
		&set.Fields,
		&set.CreatedAt,
		&set.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil, ErrNotFound
	}

	if err != nil {
		return nil, nil, err
	}

	jobs, err := db.getJobs(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return set, jobs, nil
}

// ListJobSets retrieves all job sets, newest first
func (db *DB) ListJobSets(ctx context.Context) ([]JobSet, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, fields, created_at, updated_at
		FROM job_sets
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []JobSet
	for rows.Next() {
		var set JobSet
		err := rows.Scan(
			&set.ID,
			&set.Name,
			&set.Fields,
			&set.CreatedAt,
			&set.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	// Return empty slice instead of nil
	if sets == nil {
		sets = []JobSet{}
	}

	return sets, nil
}

// CountJobs returns the number of jobs in a job set
func (db *DB) CountJobs(ctx context.Context, jobSetID string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM jobs WHERE job_set_id = ?", jobSetID).Scan(&n)
	return n, err
}

// EnableJobSetFields adds fields to the enabled optional fields of a job set
// within a transaction. Fields already enabled stay enabled.
func (tx *Tx) EnableJobSetFields(ctx context.Context, id string, fields int) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE job_sets SET fields = fields | ?, updated_at = ? WHERE id = ?
	`, fields, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// DeleteJobSet deletes a job set; its jobs go with it and its runs are detached
func (db *DB) DeleteJobSet(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, "DELETE FROM job_sets WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// requireRow maps a zero-row update or delete to ErrNotFound
func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
