package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tuanphanughdtun/schedule/internal/dispatch"
	"github.com/tuanphanughdtun/schedule/internal/job"
	"github.com/tuanphanughdtun/schedule/internal/metrics"
	"github.com/tuanphanughdtun/schedule/internal/rules"
)

// RunStore persists finished runs
type RunStore interface {
	SaveRun(ctx context.Context, result *Result) error
}

// Result is one rule applied to one job set
type Result struct {
	RunID    string
	JobSetID string // empty when the jobs did not come from the store
	Rule     rules.Rule
	Mode     Mode // always static or dynamic, never auto
	Schedule []job.ScheduledJob
	Metrics  metrics.Metrics
	Stats    dispatch.Stats // zero for static runs
}

// Scheduler applies dispatching rules to job sets. It keeps no state between
// calls; every Run works on its own normalized copy of the input.
type Scheduler struct {
	config     SchedulerConfig
	logger     *slog.Logger
	mode       Mode
	objective  metrics.Objective
	benchRules []rules.Rule
	simulator  *dispatch.Simulator
	newID      func() string
}

// Option customizes a Scheduler
type Option func(*options)

type options struct {
	recorder *dispatch.Recorder
}

// WithRecorder captures the dispatch transitions of dynamic runs
func WithRecorder(rec *dispatch.Recorder) Option {
	return func(o *options) { o.recorder = rec }
}

// NewScheduler creates a new scheduler instance with validated configuration
func NewScheduler(config SchedulerConfig, logger *slog.Logger, opts ...Option) (*Scheduler, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Parse errors were already reported by validateConfig
	mode, _ := ParseMode(config.Mode)
	objective, _ := metrics.ParseObjective(config.Objective)
	benchRules, _ := rules.ParseRules(config.BenchmarkRules)

	return &Scheduler{
		config:     config,
		logger:     logger,
		mode:       mode,
		objective:  objective,
		benchRules: benchRules,
		simulator: dispatch.NewSimulator(dispatch.Options{
			Epsilon:  config.Epsilon,
			Logger:   logger,
			Recorder: o.recorder,
		}),
		newID: uuid.NewString,
	}, nil
}

// Mode returns the configured mode, which may be auto
func (s *Scheduler) Mode() Mode {
	return s.mode
}

// Objective returns the figure benchmarks rank on
func (s *Scheduler) Objective() metrics.Objective {
	return s.objective
}

// Run schedules the job set under rule r using the configured mode
func (s *Scheduler) Run(set job.JobSet, r rules.Rule) (*Result, error) {
	return s.RunWithMode(set, r, s.mode)
}

// RunWithMode schedules the job set under rule r. Validation failures and
// unsupported rules return an error before any ordering happens.
func (s *Scheduler) RunWithMode(set job.JobSet, r rules.Rule, mode Mode) (*Result, error) {
	if err := job.ValidateSet(set); err != nil {
		return nil, err
	}
	if err := rules.CheckSupported(set.Fields, r); err != nil {
		return nil, err
	}
	return s.run(set.Normalized(), r, mode.Resolve(set.Fields))
}

// run schedules an already validated and normalized set
func (s *Scheduler) run(set job.JobSet, r rules.Rule, mode Mode) (*Result, error) {
	var (
		schedule []job.ScheduledJob
		stats    dispatch.Stats
	)

	switch mode {
	case ModeStatic:
		order, err := rules.Select(set.Jobs, set.Fields, r, s.config.Epsilon)
		if err != nil {
			return nil, err
		}
		schedule, err = dispatch.Assign(set.Jobs, order)
		if err != nil {
			return nil, err
		}
	case ModeDynamic:
		outcome, err := s.simulator.Simulate(set.Jobs, r)
		if err != nil {
			return nil, err
		}
		schedule, stats = outcome.Schedule, outcome.Stats
	default:
		return nil, job.InternalInvariant(fmt.Sprintf("unresolved mode %s", mode))
	}

	if s.config.VerifySchedules {
		if err := dispatch.Verify(set.Jobs, schedule); err != nil {
			return nil, err
		}
	}

	result := &Result{
		RunID:    s.newID(),
		JobSetID: set.ID,
		Rule:     r,
		Mode:     mode,
		Schedule: schedule,
		Metrics:  metrics.Compute(schedule),
		Stats:    stats,
	}

	s.logger.Debug("run complete",
		"run_id", result.RunID,
		"rule", r.String(),
		"mode", mode.String(),
		"jobs", result.Metrics.Jobs,
		"makespan", result.Metrics.Makespan,
		"total_tardiness", result.Metrics.TotalTardiness)

	return result, nil
}

// Save hands a result to the store
func (s *Scheduler) Save(ctx context.Context, store RunStore, result *Result) error {
	if err := store.SaveRun(ctx, result); err != nil {
		return fmt.Errorf("failed to save run %s: %w", result.RunID, err)
	}
	s.logger.Info("run saved", "run_id", result.RunID, "rule", result.Rule.String())
	return nil
}
