package scheduler

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tuanphanughdtun/schedule/internal/job"
	"github.com/tuanphanughdtun/schedule/internal/metrics"
	"github.com/tuanphanughdtun/schedule/internal/rules"
	"github.com/tuanphanughdtun/schedule/internal/testutil"
)

func benchRules(results []*Result) []rules.Rule {
	out := make([]rules.Rule, len(results))
	for i, r := range results {
		out[i] = r.Rule
	}
	return out
}

// =============================================================================
// Benchmark Tests
// =============================================================================

func TestBenchmark_ApplicableRulesInOrder(t *testing.T) {
	s := newTestScheduler(t, nil)
	b, err := s.Benchmark(testutil.TextbookSet(job.NoFields))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []rules.Rule{rules.FCFS, rules.SPT, rules.LPT, rules.EDD, rules.LCFS, rules.SLACK, rules.CR}
	if diff := cmp.Diff(want, benchRules(b.Results)); diff != "" {
		t.Errorf("benchmarked rules mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]rules.Rule{rules.CUSTPR, rules.SETUP}, b.Skipped); diff != "" {
		t.Errorf("skipped rules mismatch (-want +got):\n%s", diff)
	}
	if b.Mode != ModeStatic || b.JobSetID != "textbook" {
		t.Errorf("unexpected benchmark header: %+v", b)
	}
}

func TestBenchmark_AllFieldsRunsEveryRule(t *testing.T) {
	s := newTestScheduler(t, nil)
	b, err := s.Benchmark(testutil.TextbookSet(job.AllFields))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Results) != len(rules.All()) || len(b.Skipped) != 0 {
		t.Errorf("expected every rule to run, got %d results and %d skipped", len(b.Results), len(b.Skipped))
	}
	if b.Mode != ModeDynamic {
		t.Errorf("expected dynamic mode with release times enabled, got %v", b.Mode)
	}
}

func TestBenchmark_BestByObjective(t *testing.T) {
	// Textbook totals: tardiness FCFS 8, SPT 9, LPT 9, EDD 8, LCFS 7, SLACK 9, CR 9.
	// Makespan is 15 for every rule; late jobs FCFS 1, LCFS 1.
	tests := []struct {
		objective string
		wantBest  rules.Rule
		wantValue float64
	}{
		{"total_tardiness", rules.LCFS, 7},
		{"makespan", rules.FCFS, 15},
		{"mean_flow_time", rules.SPT, 28.0 / 3},
		{"late_jobs", rules.FCFS, 1},
	}

	for _, tt := range tests {
		t.Run(tt.objective, func(t *testing.T) {
			s := newTestScheduler(t, func(c *SchedulerConfig) { c.Objective = tt.objective })
			b, err := s.Benchmark(testutil.TextbookSet(job.NoFields))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.Best == nil {
				t.Fatal("expected a best result")
			}
			if b.Best.Rule != tt.wantBest {
				t.Errorf("expected best %s, got %s", tt.wantBest, b.Best.Rule)
			}
			if got := b.Objective.Value(b.Best.Metrics); got != tt.wantValue {
				t.Errorf("expected best value %v, got %v", tt.wantValue, got)
			}
		})
	}
}

func TestBenchmark_ConfiguredRules(t *testing.T) {
	s := newTestScheduler(t, func(c *SchedulerConfig) {
		c.BenchmarkRules = []string{"SPT", "DDATE", "CUSTPR"}
	})
	b, err := s.Benchmark(testutil.TextbookSet(job.NoFields))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]rules.Rule{rules.SPT, rules.EDD}, benchRules(b.Results)); diff != "" {
		t.Errorf("benchmarked rules mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]rules.Rule{rules.CUSTPR}, b.Skipped); diff != "" {
		t.Errorf("skipped rules mismatch (-want +got):\n%s", diff)
	}
	if b.Best.Rule != rules.EDD {
		t.Errorf("expected EDD to win on tardiness, got %s", b.Best.Rule)
	}
}

func TestBenchmark_NothingApplicable(t *testing.T) {
	s := newTestScheduler(t, func(c *SchedulerConfig) {
		c.BenchmarkRules = []string{"SETUP"}
	})
	b, err := s.Benchmark(testutil.TextbookSet(job.NoFields))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Best != nil || len(b.Results) != 0 {
		t.Errorf("expected no results, got %+v", b)
	}
}

func TestBenchmark_InvalidInput(t *testing.T) {
	s := newTestScheduler(t, nil)
	set := testutil.TextbookSet(job.NoFields)
	set.Jobs[0].ID = ""

	b, err := s.Benchmark(set)
	if !errors.Is(err, job.ErrInvalidJob) {
		t.Errorf("expected ErrInvalidJob, got %v", err)
	}
	if b != nil {
		t.Errorf("expected no benchmark, got %+v", b)
	}
}

func TestBenchmark_Ranking(t *testing.T) {
	s := newTestScheduler(t, nil)
	b, err := s.Benchmark(testutil.TextbookSet(job.NoFields))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Equal tardiness keeps rule order: FCFS before EDD, SPT before LPT, SLACK, CR
	want := []rules.Rule{rules.LCFS, rules.FCFS, rules.EDD, rules.SPT, rules.LPT, rules.SLACK, rules.CR}
	if diff := cmp.Diff(want, benchRules(b.Ranking())); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}

	// Ranking leaves the rule-ordered rows alone
	if b.Results[0].Rule != rules.FCFS {
		t.Errorf("expected results to stay in rule order, got %s first", b.Results[0].Rule)
	}
	if b.Objective != metrics.ObjectiveTotalTardiness {
		t.Errorf("expected default objective, got %v", b.Objective)
	}
}
