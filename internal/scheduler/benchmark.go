package scheduler

import (
	"cmp"
	"slices"

	"github.com/tuanphanughdtun/schedule/internal/job"
	"github.com/tuanphanughdtun/schedule/internal/metrics"
	"github.com/tuanphanughdtun/schedule/internal/rules"
)

// Benchmark compares several rules on the same job set
type Benchmark struct {
	JobSetID  string
	Mode      Mode
	Objective metrics.Objective
	Results   []*Result // in rule order
	Skipped   []rules.Rule
	Best      *Result // nil when no rule could run
}

// Benchmark runs every configured rule on the set, or every applicable rule
// when none are configured. Configured rules the set cannot support are
// skipped. The best row minimizes the objective; ties go to the earlier rule.
func (s *Scheduler) Benchmark(set job.JobSet) (*Benchmark, error) {
	if err := job.ValidateSet(set); err != nil {
		return nil, err
	}

	candidates := s.benchRules
	if len(candidates) == 0 {
		candidates = rules.All()
	}

	norm := set.Normalized()
	mode := s.mode.Resolve(set.Fields)
	b := &Benchmark{
		JobSetID:  set.ID,
		Mode:      mode,
		Objective: s.objective,
	}

	for _, r := range candidates {
		if err := rules.CheckSupported(set.Fields, r); err != nil {
			b.Skipped = append(b.Skipped, r)
			s.logger.Debug("skipping rule", "rule", r.String(), "reason", err)
			continue
		}

		result, err := s.run(norm, r, mode)
		if err != nil {
			return nil, err
		}
		b.Results = append(b.Results, result)

		if b.Best == nil || s.objective.Value(result.Metrics) < s.objective.Value(b.Best.Metrics) {
			b.Best = result
		}
	}

	if b.Best != nil {
		s.logger.Info("benchmark complete",
			"rules", len(b.Results),
			"skipped", len(b.Skipped),
			"objective", s.objective.String(),
			"best", b.Best.Rule.String(),
			"value", s.objective.Value(b.Best.Metrics))
	}

	return b, nil
}

// Ranking returns the results ordered best first. Ties keep rule order.
func (b *Benchmark) Ranking() []*Result {
	out := slices.Clone(b.Results)
	slices.SortStableFunc(out, func(x, y *Result) int {
		return cmp.Compare(b.Objective.Value(x.Metrics), b.Objective.Value(y.Metrics))
	})
	return out
}
