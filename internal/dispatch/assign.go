package dispatch

import (
	"fmt"

	"github.com/tuanphanughdtun/schedule/internal/job"
)

// Assign gives a static processing order its start and finish times.
// Each job starts when the machine frees up, or at its release time if later.
// order must be a permutation of jobs.
func Assign(jobs []job.Job, order []job.Job) ([]job.ScheduledJob, error) {
	positions, err := positionsByID(jobs)
	if err != nil {
		return nil, err
	}
	if len(order) != len(jobs) {
		return nil, job.InternalInvariant(fmt.Sprintf(
			"order has %d jobs, input has %d", len(order), len(jobs)))
	}

	out := make([]job.ScheduledJob, 0, len(order))
	used := make([]bool, len(jobs))
	clock := 0.0
	for _, j := range order {
		i, ok := positions[j.ID]
		if !ok {
			return nil, job.InternalInvariant(fmt.Sprintf("order contains unknown job %q", j.ID))
		}
		if used[i] {
			return nil, job.InternalInvariant(fmt.Sprintf("order contains job %q twice", j.ID))
		}
		used[i] = true

		start := clock
		if j.ReleaseTime > start {
			start = j.ReleaseTime
		}
		sj := schedule(j, i, start)
		out = append(out, sj)
		clock = sj.Finish
	}
	return out, nil
}

// Verify checks that a schedule covers every input job exactly once, that
// finish = start + processing time, that no job starts before its release and
// that no two jobs overlap on the machine.
func Verify(jobs []job.Job, sched []job.ScheduledJob) error {
	positions, err := positionsByID(jobs)
	if err != nil {
		return err
	}
	if len(sched) != len(jobs) {
		return job.InternalInvariant(fmt.Sprintf(
			"schedule has %d jobs, input has %d", len(sched), len(jobs)))
	}

	seen := make([]bool, len(jobs))
	prevFinish := 0.0
	for k, s := range sched {
		i, ok := positions[s.ID]
		if !ok {
			return job.InternalInvariant(fmt.Sprintf("schedule contains unknown job %q", s.ID))
		}
		if seen[i] {
			return job.InternalInvariant(fmt.Sprintf("schedule contains job %q twice", s.ID))
		}
		seen[i] = true

		if s.Finish != s.Start+s.ProcessingTime {
			return job.InternalInvariant(fmt.Sprintf("job %q finish %v != start %v + processing %v",
				s.ID, s.Finish, s.Start, s.ProcessingTime))
		}
		if s.Start < s.ReleaseTime {
			return job.InternalInvariant(fmt.Sprintf("job %q starts at %v before release %v",
				s.ID, s.Start, s.ReleaseTime))
		}
		if k > 0 && s.Start < prevFinish {
			return job.InternalInvariant(fmt.Sprintf("job %q starts at %v before previous finish %v",
				s.ID, s.Start, prevFinish))
		}
		prevFinish = s.Finish
	}
	return nil
}

func positionsByID(jobs []job.Job) (map[string]int, error) {
	positions := make(map[string]int, len(jobs))
	for i, j := range jobs {
		if _, dup := positions[j.ID]; dup {
			return nil, job.InvalidJob(j.ID, "id", "duplicate id")
		}
		positions[j.ID] = i
	}
	return positions, nil
}
