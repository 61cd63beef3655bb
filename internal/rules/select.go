package rules

import (
	"cmp"
	"fmt"
	"sort"

	"github.com/tuanphanughdtun/schedule/internal/job"
)

// Select returns the jobs in the processing order mandated by a static rule.
// Keys are evaluated once at time zero and ties keep input order. A rule that
// needs a field missing from fields fails with UnsupportedField before any
// ordering. The input slice is not modified.
func Select(jobs []job.Job, fields job.Fields, r Rule, epsilon float64) ([]job.Job, error) {
	if err := CheckSupported(fields, r); err != nil {
		return nil, err
	}
	out := job.Clone(jobs)

	switch r {
	case FCFS:
		return out, nil
	case LCFS:
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
		return out, nil
	}

	less, err := staticLess(r, epsilon)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out, nil
}

func staticLess(r Rule, epsilon float64) (func(a, b job.Job) bool, error) {
	switch r {
	case SPT:
		return func(a, b job.Job) bool { return a.ProcessingTime < b.ProcessingTime }, nil
	case LPT:
		return func(a, b job.Job) bool { return a.ProcessingTime > b.ProcessingTime }, nil
	case EDD:
		return func(a, b job.Job) bool { return a.DueDate < b.DueDate }, nil
	case SLACK:
		return func(a, b job.Job) bool {
			return Slack(a, 0) < Slack(b, 0)
		}, nil
	case CR:
		return func(a, b job.Job) bool {
			return CriticalRatio(a, 0, epsilon) < CriticalRatio(b, 0, epsilon)
		}, nil
	case CUSTPR:
		return func(a, b job.Job) bool { return a.Priority > b.Priority }, nil
	case SETUP:
		return func(a, b job.Job) bool { return a.SetupGroup < b.SetupGroup }, nil
	case FCFS, LCFS:
		return func(a, b job.Job) bool { return false }, nil
	default:
		return nil, job.InternalInvariant(fmt.Sprintf("unhandled rule %d", int(r)))
	}
}

// Slack is due date minus the time needed to finish when starting at now
func Slack(j job.Job, now float64) float64 {
	return j.DueDate - now - j.ProcessingTime
}

// CriticalRatio is the time left until the due date per unit of work.
// A zero processing time is replaced by epsilon.
func CriticalRatio(j job.Job, now, epsilon float64) float64 {
	pt := j.ProcessingTime
	if pt <= 0 {
		pt = epsilon
		if pt <= 0 {
			pt = DefaultEpsilon
		}
	}
	return (j.DueDate - now) / pt
}

// Candidate is a released, uncommitted job together with its input index
type Candidate struct {
	job.Job
	Index int
}

// Context is the simulator state a dynamic rule may look at
type Context struct {
	Clock   float64
	Epsilon float64

	// LastGroup is the setup group of the most recently committed job
	LastGroup string
	HasLast   bool
}

// Pick returns the position in available of the job the rule dispatches next.
// SLACK and CR are evaluated at ctx.Clock. Remaining ties go to the lower
// input index (higher for LCFS), so the choice is always unique.
func Pick(r Rule, available []Candidate, ctx Context) (int, error) {
	if len(available) == 0 {
		return -1, job.InternalInvariant(fmt.Sprintf("rule %s: no available job at clock %v", r, ctx.Clock))
	}

	switch r {
	case SETUP:
		if ctx.HasLast {
			best := -1
			for i, c := range available {
				if c.SetupGroup != ctx.LastGroup {
					continue
				}
				if best < 0 || compareSPT(c, available[best]) < 0 {
					best = i
				}
			}
			if best >= 0 {
				return best, nil
			}
		}
		return argmin(available, compareSPT), nil
	}

	compare, err := dynamicCompare(r, ctx)
	if err != nil {
		return -1, err
	}
	return argmin(available, compare), nil
}

func argmin(available []Candidate, compare func(a, b Candidate) int) int {
	best := 0
	for i := 1; i < len(available); i++ {
		if compare(available[i], available[best]) < 0 {
			best = i
		}
	}
	return best
}

func compareSPT(a, b Candidate) int {
	return cmp.Or(
		cmp.Compare(a.ProcessingTime, b.ProcessingTime),
		cmp.Compare(a.Index, b.Index),
	)
}

// dynamicCompare returns a total order over candidates at the current clock
func dynamicCompare(r Rule, ctx Context) (func(a, b Candidate) int, error) {
	switch r {
	case FCFS:
		return func(a, b Candidate) int {
			return cmp.Or(
				cmp.Compare(a.ReleaseTime, b.ReleaseTime),
				cmp.Compare(a.Index, b.Index),
			)
		}, nil
	case LCFS:
		return func(a, b Candidate) int {
			return cmp.Or(
				cmp.Compare(b.ReleaseTime, a.ReleaseTime),
				cmp.Compare(b.Index, a.Index),
			)
		}, nil
	case SPT, SETUP:
		return compareSPT, nil
	case LPT:
		return func(a, b Candidate) int {
			return cmp.Or(
				cmp.Compare(b.ProcessingTime, a.ProcessingTime),
				cmp.Compare(a.Index, b.Index),
			)
		}, nil
	case EDD:
		return func(a, b Candidate) int {
			return cmp.Or(
				cmp.Compare(a.DueDate, b.DueDate),
				cmp.Compare(a.Index, b.Index),
			)
		}, nil
	case SLACK:
		return func(a, b Candidate) int {
			return cmp.Or(
				cmp.Compare(Slack(a.Job, ctx.Clock), Slack(b.Job, ctx.Clock)),
				cmp.Compare(a.Index, b.Index),
			)
		}, nil
	case CR:
		return func(a, b Candidate) int {
			return cmp.Or(
				cmp.Compare(CriticalRatio(a.Job, ctx.Clock, ctx.Epsilon), CriticalRatio(b.Job, ctx.Clock, ctx.Epsilon)),
				cmp.Compare(a.Index, b.Index),
			)
		}, nil
	case CUSTPR:
		return func(a, b Candidate) int {
			return cmp.Or(
				cmp.Compare(b.Priority, a.Priority),
				cmp.Compare(a.Index, b.Index),
			)
		}, nil
	default:
		return nil, job.InternalInvariant(fmt.Sprintf("unhandled rule %d", int(r)))
	}
}
