package rules

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tuanphanughdtun/schedule/internal/job"
	"github.com/tuanphanughdtun/schedule/internal/testutil"
)

// textbookJobs is the three-job example used across the scheduling tests.
func textbookJobs() []job.Job {
	return []job.Job{
		{ID: "A", ProcessingTime: 6, DueDate: 8, Priority: 1, SetupGroup: "b"},
		{ID: "B", ProcessingTime: 4, DueDate: 10, Priority: 3, SetupGroup: "a"},
		{ID: "C", ProcessingTime: 5, DueDate: 7, Priority: 2, SetupGroup: "b"},
	}
}

func selectIDs(t *testing.T, jobs []job.Job, r Rule) []string {
	t.Helper()
	out, err := Select(jobs, job.AllFields, r, DefaultEpsilon)
	if err != nil {
		t.Fatalf("Select(%s) failed: %v", r, err)
	}
	return testutil.IDs(out)
}

// =============================================================================
// Rule parsing
// =============================================================================

func TestParseRule(t *testing.T) {
	tests := []struct {
		input string
		want  Rule
	}{
		{"FCFS", FCFS},
		{"fcfs", FCFS},
		{" spt ", SPT},
		{"LPT", LPT},
		{"EDD", EDD},
		{"DDATE", EDD},
		{"LCFS", LCFS},
		{"SLACK", SLACK},
		{"STR", SLACK},
		{"CR", CR},
		{"CUSTPR", CUSTPR},
		{"setup", SETUP},
	}
	for _, tt := range tests {
		got, err := ParseRule(tt.input)
		if err != nil {
			t.Errorf("ParseRule(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRule(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if _, err := ParseRule("RANDOM"); err == nil {
		t.Error("expected error for unknown rule")
	}
}

func TestRule_StringRoundTrip(t *testing.T) {
	for _, r := range All() {
		got, err := ParseRule(r.String())
		if err != nil || got != r {
			t.Errorf("ParseRule(%q) = %v, %v", r.String(), got, err)
		}
	}
	if Rule(42).String() != "unknown" {
		t.Errorf("expected unknown for out-of-range rule, got %s", Rule(42))
	}
}

func TestParseRules_KeepsOrder(t *testing.T) {
	got, err := ParseRules([]string{"cr", "fcfs", "ddate"})
	if err != nil {
		t.Fatalf("ParseRules failed: %v", err)
	}
	want := []Rule{CR, FCFS, EDD}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if _, err := ParseRules([]string{"SPT", "nope"}); err == nil {
		t.Error("expected error for unknown rule in list")
	}
}

// =============================================================================
// Field support
// =============================================================================

func TestCheckSupported(t *testing.T) {
	if err := CheckSupported(job.NoFields, SPT); err != nil {
		t.Errorf("SPT should not need optional fields: %v", err)
	}

	err := CheckSupported(job.NoFields, CUSTPR)
	if !errors.Is(err, job.ErrUnsupportedField) {
		t.Errorf("expected ErrUnsupportedField for CUSTPR, got %v", err)
	}
	err = CheckSupported(job.FieldPriority, SETUP)
	if !errors.Is(err, job.ErrUnsupportedField) {
		t.Errorf("expected ErrUnsupportedField for SETUP, got %v", err)
	}
	if err := CheckSupported(job.AllFields, SETUP); err != nil {
		t.Errorf("expected SETUP supported with all fields: %v", err)
	}

	err = CheckSupported(job.AllFields, Rule(99))
	if !errors.Is(err, job.ErrInternalInvariant) {
		t.Errorf("expected internal error for unknown rule, got %v", err)
	}
}

// =============================================================================
// Static selection
// =============================================================================

func TestSelect_Orders(t *testing.T) {
	tests := []struct {
		rule Rule
		want []string
	}{
		{FCFS, []string{"A", "B", "C"}},
		{SPT, []string{"B", "C", "A"}},
		{LPT, []string{"A", "C", "B"}},
		{EDD, []string{"C", "A", "B"}},
		{LCFS, []string{"C", "B", "A"}},
		{SLACK, []string{"A", "C", "B"}}, // slack A=2 B=6 C=2
		{CR, []string{"A", "C", "B"}},    // CR A=1.33 B=2.5 C=1.4
		{CUSTPR, []string{"B", "C", "A"}},
		{SETUP, []string{"B", "A", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.rule.String(), func(t *testing.T) {
			got := selectIDs(t, textbookJobs(), tt.rule)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelect_StableTies(t *testing.T) {
	jobs := []job.Job{
		{ID: "1", ProcessingTime: 3, DueDate: 5},
		{ID: "2", ProcessingTime: 1, DueDate: 5},
		{ID: "3", ProcessingTime: 3, DueDate: 5},
		{ID: "4", ProcessingTime: 1, DueDate: 5},
	}
	if diff := cmp.Diff([]string{"2", "4", "1", "3"}, selectIDs(t, jobs, SPT)); diff != "" {
		t.Errorf("SPT ties (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "3", "2", "4"}, selectIDs(t, jobs, LPT)); diff != "" {
		t.Errorf("LPT ties (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "2", "3", "4"}, selectIDs(t, jobs, EDD)); diff != "" {
		t.Errorf("EDD ties (-want +got):\n%s", diff)
	}
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	jobs := textbookJobs()
	before := job.Clone(jobs)
	for _, r := range All() {
		if _, err := Select(jobs, job.AllFields, r, DefaultEpsilon); err != nil {
			t.Fatalf("Select(%s) failed: %v", r, err)
		}
	}
	if diff := cmp.Diff(before, jobs); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestSelect_IsPermutation(t *testing.T) {
	jobs := textbookJobs()
	for _, r := range All() {
		ids := selectIDs(t, jobs, r)
		slices.Sort(ids)
		if diff := cmp.Diff([]string{"A", "B", "C"}, ids); diff != "" {
			t.Errorf("%s is not a permutation (-want +got):\n%s", r, diff)
		}
	}
}

func TestSelect_SPTNonDecreasing(t *testing.T) {
	jobs := []job.Job{
		{ID: "a", ProcessingTime: 7}, {ID: "b", ProcessingTime: 2}, {ID: "c", ProcessingTime: 9},
		{ID: "d", ProcessingTime: 2}, {ID: "e", ProcessingTime: 0}, {ID: "f", ProcessingTime: 4.5},
	}
	out, err := Select(jobs, job.NoFields, SPT, DefaultEpsilon)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(out); i++ {
		if out[i-1].ProcessingTime > out[i].ProcessingTime {
			t.Errorf("SPT order broken at %d: %v > %v", i, out[i-1].ProcessingTime, out[i].ProcessingTime)
		}
	}
}

func TestSelect_CRZeroProcessingTime(t *testing.T) {
	jobs := []job.Job{
		{ID: "A", ProcessingTime: 2, DueDate: 10},
		{ID: "Z", ProcessingTime: 0, DueDate: 10},
	}
	ids := selectIDs(t, jobs, CR)
	if diff := cmp.Diff([]string{"A", "Z"}, ids); diff != "" {
		t.Errorf("CR with zero processing time (-want +got):\n%s", diff)
	}
}

func TestCriticalRatio_Epsilon(t *testing.T) {
	j := job.Job{ProcessingTime: 0, DueDate: 1}
	got := CriticalRatio(j, 0, 0.5)
	if got != 2 {
		t.Errorf("expected 2, got %v", got)
	}
	if v := CriticalRatio(j, 0, 0); math.IsInf(v, 0) || math.IsNaN(v) {
		t.Errorf("expected finite ratio with zero epsilon, got %v", v)
	}
}

func TestSelect_Empty(t *testing.T) {
	for _, r := range All() {
		out, err := Select(nil, job.AllFields, r, DefaultEpsilon)
		if err != nil {
			t.Errorf("Select(%s) on empty input failed: %v", r, err)
		}
		if len(out) != 0 {
			t.Errorf("expected empty output, got %v", out)
		}
	}
}

func TestSelect_UnknownRule(t *testing.T) {
	_, err := Select(textbookJobs(), job.AllFields, Rule(77), DefaultEpsilon)
	if !errors.Is(err, job.ErrInternalInvariant) {
		t.Errorf("expected internal invariant error, got %v", err)
	}
}

func TestSelect_UnsupportedField(t *testing.T) {
	tests := []struct {
		rule   Rule
		fields job.Fields
		field  string
	}{
		{CUSTPR, job.NoFields, "priority"},
		{CUSTPR, job.FieldSetupGroup, "priority"},
		{SETUP, job.FieldPriority, "setup_group"},
	}

	for _, tt := range tests {
		t.Run(tt.rule.String(), func(t *testing.T) {
			out, err := Select(textbookJobs(), tt.fields, tt.rule, DefaultEpsilon)
			if !errors.Is(err, job.ErrUnsupportedField) {
				t.Fatalf("expected UnsupportedField, got %v", err)
			}
			var e *job.Error
			if !errors.As(err, &e) || e.Field != tt.field {
				t.Errorf("expected field %s, got %v", tt.field, err)
			}
			if out != nil {
				t.Errorf("expected no ordering, got %v", out)
			}
		})
	}
}

// =============================================================================
// Dynamic picking
// =============================================================================

func candidates(jobs []job.Job) []Candidate {
	out := make([]Candidate, len(jobs))
	for i, j := range jobs {
		out[i] = Candidate{Job: j, Index: i}
	}
	return out
}

func TestPick_Empty(t *testing.T) {
	_, err := Pick(SPT, nil, Context{})
	if !errors.Is(err, job.ErrInternalInvariant) {
		t.Errorf("expected internal invariant error, got %v", err)
	}
}

func TestPick_CRUsesClock(t *testing.T) {
	// at t=0: X=20/10=2, Y=12/5=2.4 -> X
	// at t=10: X=10/10=1, Y=2/5=0.4 -> Y
	avail := candidates([]job.Job{
		{ID: "X", ProcessingTime: 10, DueDate: 20},
		{ID: "Y", ProcessingTime: 5, DueDate: 12},
	})
	got, err := Pick(CR, avail, Context{Clock: 0, Epsilon: DefaultEpsilon})
	if err != nil || avail[got].ID != "X" {
		t.Errorf("expected X at clock 0, got %v (%v)", got, err)
	}
	got, err = Pick(CR, avail, Context{Clock: 10, Epsilon: DefaultEpsilon})
	if err != nil || avail[got].ID != "Y" {
		t.Errorf("expected Y at clock 10, got %v (%v)", got, err)
	}
}

func TestPick_SetupPrefersLastGroup(t *testing.T) {
	avail := candidates([]job.Job{
		{ID: "p", ProcessingTime: 1, SetupGroup: "red"},
		{ID: "q", ProcessingTime: 8, SetupGroup: "blue"},
		{ID: "r", ProcessingTime: 3, SetupGroup: "blue"},
	})

	got, err := Pick(SETUP, avail, Context{LastGroup: "blue", HasLast: true})
	if err != nil || avail[got].ID != "r" {
		t.Errorf("expected shortest blue job r, got %v (%v)", got, err)
	}

	got, err = Pick(SETUP, avail, Context{LastGroup: "green", HasLast: true})
	if err != nil || avail[got].ID != "p" {
		t.Errorf("expected SPT fallback p, got %v (%v)", got, err)
	}

	got, err = Pick(SETUP, avail, Context{})
	if err != nil || avail[got].ID != "p" {
		t.Errorf("expected SPT without previous job, got %v (%v)", got, err)
	}
}

func TestPick_TiesGoToLowerIndex(t *testing.T) {
	avail := []Candidate{
		{Job: job.Job{ID: "late", ProcessingTime: 2}, Index: 5},
		{Job: job.Job{ID: "early", ProcessingTime: 2}, Index: 1},
	}
	for _, r := range []Rule{SPT, LPT, EDD, SLACK, CR, CUSTPR, FCFS} {
		got, err := Pick(r, avail, Context{Epsilon: DefaultEpsilon})
		if err != nil {
			t.Fatalf("Pick(%s) failed: %v", r, err)
		}
		if avail[got].ID != "early" {
			t.Errorf("%s: expected early, got %s", r, avail[got].ID)
		}
	}
	got, _ := Pick(LCFS, avail, Context{})
	if avail[got].ID != "late" {
		t.Errorf("LCFS: expected late, got %s", avail[got].ID)
	}
}

func TestPick_FCFSUsesRelease(t *testing.T) {
	avail := []Candidate{
		{Job: job.Job{ID: "first-listed", ReleaseTime: 4}, Index: 0},
		{Job: job.Job{ID: "first-arrived", ReleaseTime: 1}, Index: 1},
	}
	got, _ := Pick(FCFS, avail, Context{Clock: 5})
	if avail[got].ID != "first-arrived" {
		t.Errorf("expected first-arrived, got %s", avail[got].ID)
	}
	got, _ = Pick(LCFS, avail, Context{Clock: 5})
	if avail[got].ID != "first-listed" {
		t.Errorf("expected most recent arrival, got %s", avail[got].ID)
	}
}
