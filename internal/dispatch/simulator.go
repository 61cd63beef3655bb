package dispatch

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/tuanphanughdtun/schedule/internal/job"
	"github.com/tuanphanughdtun/schedule/internal/rules"
)

// Options configures a Simulator
type Options struct {
	// Epsilon replaces a zero processing time in critical ratio divisions
	Epsilon float64

	Logger *slog.Logger

	// Recorder, if set, receives every transition of every run
	Recorder *Recorder
}

// Stats counts what happened during one simulation
type Stats struct {
	Commits        int
	IdleAdvances   int
	ForcedAdvances int
	IdleTime       float64
}

// Outcome is the result of one simulation
type Outcome struct {
	Schedule []job.ScheduledJob
	Stats    Stats
}

// Simulator dispatches jobs on a single machine in simulated time.
// It holds configuration only; every Simulate call starts from a fresh state.
type Simulator struct {
	epsilon  float64
	logger   *slog.Logger
	recorder *Recorder
}

// NewSimulator creates a new simulator
func NewSimulator(opts Options) *Simulator {
	eps := opts.Epsilon
	if eps <= 0 {
		eps = rules.DefaultEpsilon
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Simulator{
		epsilon:  eps,
		logger:   logger,
		recorder: opts.Recorder,
	}
}

// run holds the mutable state of a single simulation
type run struct {
	rule      rules.Rule
	clock     float64
	index     *ReleaseIndex
	cursor    int // next unadmitted entry in index
	available []rules.Candidate
	committed []job.ScheduledJob
	lastGroup string
	stats     Stats
}

// Simulate advances a clock from zero and repeatedly commits the best
// released job under rule r until every job is committed.
func (s *Simulator) Simulate(jobs []job.Job, r rules.Rule) (*Outcome, error) {
	if !r.Valid() {
		return nil, job.InternalInvariant(fmt.Sprintf("unhandled rule %d", int(r)))
	}

	st := &run{
		rule:      r,
		index:     NewReleaseIndex(jobs),
		available: make([]rules.Candidate, 0, len(jobs)),
		committed: make([]job.ScheduledJob, 0, len(jobs)),
	}

	for len(st.committed) < len(jobs) {
		st.admit()

		if len(st.available) == 0 {
			if err := s.advance(st); err != nil {
				return nil, err
			}
			continue
		}

		c, err := s.selectNext(st)
		if err != nil {
			return nil, err
		}
		s.commit(st, c)
	}

	s.recorder.Record(Event{Phase: PhaseDone, Clock: st.clock})
	s.logger.Debug("simulation complete",
		"rule", r.String(),
		"jobs", len(st.committed),
		"makespan", st.clock,
		"idle_advances", st.stats.IdleAdvances,
		"forced_advances", st.stats.ForcedAdvances)

	return &Outcome{Schedule: st.committed, Stats: st.stats}, nil
}

// admit moves every job released by the current clock into the available pool
func (st *run) admit() {
	end := st.index.ReleasedBy(st.clock, st.cursor)
	for ; st.cursor < end; st.cursor++ {
		st.available = append(st.available, st.index.At(st.cursor))
	}
}

// advance moves an idle clock to the earliest pending release
func (s *Simulator) advance(st *run) error {
	if st.cursor >= st.index.Len() {
		return job.InternalInvariant(fmt.Sprintf(
			"no available or pending job at clock %v with %d of %d committed",
			st.clock, len(st.committed), st.index.Len()))
	}

	next := st.index.At(st.cursor).ReleaseTime
	forced := false
	if next > st.clock {
		st.stats.IdleTime += next - st.clock
		st.clock = next
	} else {
		// Should be unreachable: admit already took every release <= clock.
		forced = true
		st.stats.ForcedAdvances++
		st.stats.IdleTime++
		s.logger.Warn("forcing clock forward, next release is not after current clock",
			"rule", st.rule.String(),
			"clock", st.clock,
			"next_release", next)
		st.clock++
	}
	st.stats.IdleAdvances++
	s.recorder.Record(Event{Phase: PhaseAdvance, Clock: st.clock, Forced: forced})
	return nil
}

// selectNext removes and returns the job the rule picks from the available pool
func (s *Simulator) selectNext(st *run) (rules.Candidate, error) {
	ctx := rules.Context{
		Clock:     st.clock,
		Epsilon:   s.epsilon,
		LastGroup: st.lastGroup,
		HasLast:   len(st.committed) > 0,
	}
	pos, err := rules.Pick(st.rule, st.available, ctx)
	if err != nil {
		return rules.Candidate{}, err
	}
	if pos < 0 || pos >= len(st.available) {
		return rules.Candidate{}, job.InternalInvariant(fmt.Sprintf(
			"rule %s picked position %d of %d available jobs", st.rule, pos, len(st.available)))
	}

	c := st.available[pos]
	st.available = slices.Delete(st.available, pos, pos+1)
	s.recorder.Record(Event{Phase: PhaseSelect, Clock: st.clock, JobID: c.ID})
	return c, nil
}

// commit starts the job at the current clock and moves the clock to its finish
func (s *Simulator) commit(st *run, c rules.Candidate) {
	sj := schedule(c.Job, c.Index, st.clock)
	st.committed = append(st.committed, sj)
	st.clock = sj.Finish
	st.lastGroup = c.SetupGroup
	st.stats.Commits++
	s.recorder.Record(Event{Phase: PhaseCommit, Clock: st.clock, JobID: c.ID})
}

// schedule derives a scheduled job starting at start
func schedule(j job.Job, index int, start float64) job.ScheduledJob {
	finish := start + j.ProcessingTime
	lateness := finish - j.DueDate
	if lateness < 0 {
		lateness = 0
	}
	return job.ScheduledJob{
		Job:      j,
		Index:    index,
		Start:    start,
		Finish:   finish,
		Lateness: lateness,
		FlowTime: finish - j.ReleaseTime,
	}
}
