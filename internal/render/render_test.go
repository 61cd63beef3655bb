package render

import (
	"strings"
	"testing"
	"time"

	"github.com/tuanphanughdtun/schedule/internal/db"
	"github.com/tuanphanughdtun/schedule/internal/dispatch"
	"github.com/tuanphanughdtun/schedule/internal/job"
	"github.com/tuanphanughdtun/schedule/internal/rules"
	"github.com/tuanphanughdtun/schedule/internal/scheduler"
	"github.com/tuanphanughdtun/schedule/internal/testutil"
)

// ============================================================================
// Helpers
// ============================================================================

func plainRenderer(width int) *Renderer {
	return New(Options{Plain: true, Timeline: true, TimelineWidth: width})
}

func runTextbook(t *testing.T, r rules.Rule) *scheduler.Result {
	t.Helper()
	s, err := scheduler.NewScheduler(scheduler.DefaultSchedulerConfig(), nil)
	if err != nil {
		t.Fatalf("failed to create scheduler: %v", err)
	}
	result, err := s.Run(testutil.TextbookSet(job.NoFields), r)
	if err != nil {
		t.Fatalf("Run(%s) failed: %v", r, err)
	}
	return result
}

func lineWith(t *testing.T, out, prefix string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			return line
		}
	}
	t.Fatalf("no line starting with %q in:\n%s", prefix, out)
	return ""
}

// ============================================================================
// Formatting
// ============================================================================

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{15, "15"},
		{9.5, "9.5"},
		{28.0 / 3, "9.33"},
		{-0.001, "0"},
		{100, "100"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestNew_DefaultsTimelineWidth(t *testing.T) {
	r := New(Options{})
	if r.opts.TimelineWidth != 60 {
		t.Errorf("expected default width 60, got %d", r.opts.TimelineWidth)
	}
}

// ============================================================================
// Timeline
// ============================================================================

func TestTimeline_Plain(t *testing.T) {
	result := runTextbook(t, rules.FCFS)
	out := plainRenderer(15).Timeline(result.Schedule)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 3 job lines and an axis, got %d:\n%s", len(lines), out)
	}

	want := []string{
		"A |======         | 0-6",
		"B |      ====     | 6-10",
		"C |          #####| 10-15",
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d: expected %q, got %q", i, w, lines[i])
		}
	}
	if !strings.HasSuffix(lines[3], "15") || !strings.Contains(lines[3], "0") {
		t.Errorf("unexpected axis line %q", lines[3])
	}
}

func TestTimeline_Scales(t *testing.T) {
	result := runTextbook(t, rules.SPT)
	out := plainRenderer(30).Timeline(result.Schedule)

	// SPT: B 0-4, C 4-9, A 9-15 at two columns per tick
	if got := lineWith(t, out, "B"); got != "B |========"+strings.Repeat(" ", 22)+"| 0-4" {
		t.Errorf("unexpected B line %q", got)
	}
	if got := lineWith(t, out, "A"); !strings.Contains(got, strings.Repeat("#", 12)+"|") {
		t.Errorf("expected A to fill the last 12 columns as late, got %q", got)
	}
}

func TestTimeline_Empty(t *testing.T) {
	out := plainRenderer(20).Timeline(nil)
	if !strings.Contains(out, "empty schedule") {
		t.Errorf("expected empty marker, got %q", out)
	}
}

func TestTimeline_ZeroProcessingTime(t *testing.T) {
	schedule := []job.ScheduledJob{
		{Job: job.Job{ID: "z", ProcessingTime: 0, DueDate: 5}, Start: 0, Finish: 0},
		{Job: job.Job{ID: "a", ProcessingTime: 4, DueDate: 5}, Index: 1, Start: 0, Finish: 4, FlowTime: 4},
		{Job: job.Job{ID: "e", ProcessingTime: 0, DueDate: 5}, Index: 2, Start: 4, Finish: 4, FlowTime: 4},
	}
	out := plainRenderer(10).Timeline(schedule)

	if got := lineWith(t, out, "z"); got != "z ||"+strings.Repeat(" ", 9)+"| 0-0" {
		t.Errorf("unexpected instant line %q", got)
	}
	// An instant job at the makespan stays inside the chart
	if got := lineWith(t, out, "e"); got != "e |"+strings.Repeat(" ", 9)+"|| 4-4" {
		t.Errorf("unexpected instant line at makespan %q", got)
	}
}

// ============================================================================
// Tables
// ============================================================================

func TestSchedule_Rows(t *testing.T) {
	result := runTextbook(t, rules.FCFS)
	out := plainRenderer(20).Schedule(result.Schedule)

	for _, header := range []string{"Job", "Start", "Finish", "Lateness", "Flow"} {
		if !strings.Contains(out, header) {
			t.Errorf("expected header %q in:\n%s", header, out)
		}
	}

	fields := strings.Fields(lineWith(t, out, "3"))
	want := []string{"3", "C", "0", "10", "15", "7", "8", "15"}
	if strings.Join(fields, " ") != strings.Join(want, " ") {
		t.Errorf("expected row %v, got %v", want, fields)
	}
}

func TestMetrics_Table(t *testing.T) {
	result := runTextbook(t, rules.SPT)
	out := plainRenderer(20).Metrics(result.Metrics)

	checks := map[string]string{
		"Makespan":        "15",
		"Total tardiness": "9",
		"Late jobs":       "2",
		"Mean flow time":  "9.33",
	}
	for label, value := range checks {
		line := lineWith(t, out, label)
		if !strings.HasSuffix(strings.TrimSpace(line), value) {
			t.Errorf("expected %s = %s, got %q", label, value, line)
		}
	}
}

func TestResult_TimelineToggle(t *testing.T) {
	result := runTextbook(t, rules.FCFS)

	with := plainRenderer(15).Result(result)
	if !strings.Contains(with, "FCFS (static)") {
		t.Errorf("expected heading, got:\n%s", with)
	}
	if !strings.Contains(with, "| 10-15") {
		t.Errorf("expected timeline, got:\n%s", with)
	}

	without := New(Options{Plain: true, TimelineWidth: 15}).Result(result)
	if strings.Contains(without, "| 10-15") {
		t.Errorf("expected no timeline, got:\n%s", without)
	}
}

func TestResult_DynamicStats(t *testing.T) {
	s, err := scheduler.NewScheduler(scheduler.DefaultSchedulerConfig(), nil)
	if err != nil {
		t.Fatalf("failed to create scheduler: %v", err)
	}
	result, err := s.Run(testutil.ReleasedSet(), rules.FCFS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := plainRenderer(20).Result(result)
	if !strings.Contains(out, "idle advances: 1") || !strings.Contains(out, "idle time: 2") {
		t.Errorf("expected simulator stats, got:\n%s", out)
	}
}

func TestBenchmark_BestAndSkipped(t *testing.T) {
	s, err := scheduler.NewScheduler(scheduler.DefaultSchedulerConfig(), nil)
	if err != nil {
		t.Fatalf("failed to create scheduler: %v", err)
	}
	b, err := s.Benchmark(testutil.TextbookSet(job.NoFields))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := plainRenderer(20).Benchmark(b)

	if !strings.Contains(out, "best: LCFS (total_tardiness = 7)") {
		t.Errorf("expected LCFS as best, got:\n%s", out)
	}
	if !strings.Contains(out, "CUSTPR (needs priority)") || !strings.Contains(out, "SETUP (needs setup_group)") {
		t.Errorf("expected skipped rules, got:\n%s", out)
	}

	best := strings.Fields(lineWith(t, out, "*"))
	if len(best) < 2 || best[1] != "LCFS" {
		t.Errorf("expected LCFS row to be marked, got %v", best)
	}

	// Rows are ranked: LCFS (7) comes before FCFS (8)
	if lcfs, fcfs := strings.Index(out, "LCFS"), strings.Index(out, "FCFS"); lcfs < 0 || fcfs < 0 || lcfs > fcfs {
		t.Errorf("expected LCFS row above FCFS, got:\n%s", out)
	}
}

func TestBenchmark_NoBest(t *testing.T) {
	b := &scheduler.Benchmark{Skipped: []rules.Rule{rules.CUSTPR}}
	out := plainRenderer(20).Benchmark(b)
	if !strings.Contains(out, "best: none") {
		t.Errorf("expected no best, got:\n%s", out)
	}
}

func TestJobSet_EnabledColumns(t *testing.T) {
	r := plainRenderer(20)

	out := r.JobSet(testutil.TextbookSet(job.NoFields))
	if strings.Contains(out, "Priority") || strings.Contains(out, "Setup group") {
		t.Errorf("expected disabled columns hidden, got:\n%s", out)
	}
	if !strings.Contains(out, "textbook (textbook)") || !strings.Contains(out, "fields: none") {
		t.Errorf("expected heading, got:\n%s", out)
	}

	out = r.JobSet(testutil.TextbookSet(job.FieldPriority | job.FieldSetupGroup))
	if !strings.Contains(out, "Priority") || !strings.Contains(out, "Setup group") {
		t.Errorf("expected enabled columns, got:\n%s", out)
	}
	if fields := strings.Fields(lineWith(t, out, "B")); strings.Join(fields, " ") != "B 4 10 3 a" {
		t.Errorf("unexpected row for B: %v", fields)
	}
}

func TestJobSets(t *testing.T) {
	r := plainRenderer(20)

	if out := r.JobSets(nil, nil); !strings.Contains(out, "no job sets") {
		t.Errorf("expected empty marker, got %q", out)
	}

	sets := []db.JobSet{
		{ID: "s1", Name: "alpha", Fields: int(job.FieldReleaseTime), UpdatedAt: time.Now()},
		{ID: "s2", Name: "beta"},
	}
	out := r.JobSets(sets, map[string]int{"s1": 4})

	if fields := strings.Fields(lineWith(t, out, "s1")); len(fields) < 4 || fields[2] != "release_time" || fields[3] != "4" {
		t.Errorf("unexpected s1 row: %v", fields)
	}
	if fields := strings.Fields(lineWith(t, out, "s2")); strings.Join(fields, " ") != "s2 beta none 0 -" {
		t.Errorf("unexpected s2 row: %v", fields)
	}
}

func TestRuns(t *testing.T) {
	r := plainRenderer(20)

	if out := r.Runs(nil); !strings.Contains(out, "no runs") {
		t.Errorf("expected empty marker, got %q", out)
	}

	set := "textbook"
	out := r.Runs([]db.Run{
		{ID: "run-1", JobSetID: &set, Rule: "SPT", Mode: "static", Jobs: 3, Makespan: 15, TotalTardiness: 9, LateJobs: 2},
		{ID: "run-2", Rule: "FCFS", Mode: "dynamic"},
	})

	if fields := strings.Fields(lineWith(t, out, "run-1")); strings.Join(fields, " ") != "run-1 textbook SPT static 3 15 9 2 -" {
		t.Errorf("unexpected run-1 row: %v", fields)
	}
	if fields := strings.Fields(lineWith(t, out, "run-2")); len(fields) < 2 || fields[1] != "-" {
		t.Errorf("expected detached run, got %v", fields)
	}
}

func TestRules_Usable(t *testing.T) {
	out := plainRenderer(20).Rules(job.FieldPriority)

	if fields := strings.Fields(lineWith(t, out, "CUSTPR")); fields[len(fields)-1] != "yes" {
		t.Errorf("expected CUSTPR usable, got %v", fields)
	}
	if fields := strings.Fields(lineWith(t, out, "SETUP")); fields[len(fields)-1] != "no" {
		t.Errorf("expected SETUP unusable, got %v", fields)
	}
}

func TestTrace(t *testing.T) {
	events := []dispatch.Event{
		{Phase: dispatch.PhaseSelect, Clock: 0, JobID: "r1"},
		{Phase: dispatch.PhaseAdvance, Clock: 4, Forced: true},
		{Phase: dispatch.PhaseDone, Clock: 8},
	}
	out := plainRenderer(20).Trace(events)

	want := "t=0 select r1\nt=4 advance (forced)\nt=8 done\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}
