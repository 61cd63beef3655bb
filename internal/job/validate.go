package job

import (
	"fmt"
	"math"
)

// Validate checks a job set before any scheduling happens.
// The first offending job in input order is reported.
func Validate(jobs []Job) error {
	seen := make(map[string]int, len(jobs))
	for i, j := range jobs {
		if j.ID == "" {
			return InvalidJob("", "id", fmt.Sprintf("missing id at position %d", i))
		}
		if prev, ok := seen[j.ID]; ok {
			return InvalidJob(j.ID, "id", fmt.Sprintf("duplicate id at positions %d and %d", prev, i))
		}
		seen[j.ID] = i

		if err := checkFinite(j); err != nil {
			return err
		}
		if j.ProcessingTime < 0 {
			return InvalidJob(j.ID, "processing_time", fmt.Sprintf("must not be negative, got %v", j.ProcessingTime))
		}
		if j.ReleaseTime < 0 {
			return InvalidJob(j.ID, "release_time", fmt.Sprintf("must not be negative, got %v", j.ReleaseTime))
		}
	}
	return nil
}

// ValidateSet validates a job set's jobs
func ValidateSet(s JobSet) error {
	return Validate(s.Jobs)
}

func checkFinite(j Job) error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"processing_time", j.ProcessingTime},
		{"due_date", j.DueDate},
		{"release_time", j.ReleaseTime},
		{"priority", j.Priority},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return InvalidJob(j.ID, f.name, "must be a finite number")
		}
	}
	return nil
}
