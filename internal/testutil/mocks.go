package testutil

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"

	"github.com/tuanphanughdtun/schedule/internal/job"
)

// TextbookJobs returns the three-job example used across the test suite.
//
//	A: pt 6, due 8,  priority 1, group b
//	B: pt 4, due 10, priority 3, group a
//	C: pt 5, due 7,  priority 2, group b
func TextbookJobs() []job.Job {
	return []job.Job{
		{ID: "A", ProcessingTime: 6, DueDate: 8, Priority: 1, SetupGroup: "b"},
		{ID: "B", ProcessingTime: 4, DueDate: 10, Priority: 3, SetupGroup: "a"},
		{ID: "C", ProcessingTime: 5, DueDate: 7, Priority: 2, SetupGroup: "b"},
	}
}

// IDs returns job IDs in order
func IDs(jobs []job.Job) []string {
	ids := make([]string, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	return ids
}

// ScheduledIDs returns the IDs of a schedule in commit order
func ScheduledIDs(schedule []job.ScheduledJob) []string {
	ids := make([]string, len(schedule))
	for i, s := range schedule {
		ids[i] = s.ID
	}
	return ids
}

// TextbookSet wraps TextbookJobs in a job set with the given fields enabled
func TextbookSet(fields job.Fields) job.JobSet {
	return job.JobSet{
		ID:     "textbook",
		Name:   "textbook",
		Fields: fields,
		Jobs:   TextbookJobs(),
	}
}

// ReleasedSet returns a job set with release times, where the machine idles
// between t=3 and t=5.
func ReleasedSet() job.JobSet {
	return job.JobSet{
		ID:     "released",
		Name:   "released",
		Fields: job.FieldReleaseTime,
		Jobs: []job.Job{
			{ID: "r1", ProcessingTime: 3, DueDate: 4, ReleaseTime: 0},
			{ID: "r2", ProcessingTime: 2, DueDate: 9, ReleaseTime: 5},
			{ID: "r3", ProcessingTime: 1, DueDate: 7, ReleaseTime: 5},
		},
	}
}

// TestLogger provides a logger that captures logs for testing
type TestLogger struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewTestLogger returns a capturing logger and the slog.Logger writing to it
func NewTestLogger() (*TestLogger, *slog.Logger) {
	l := &TestLogger{}
	logger := slog.New(slog.NewTextHandler(l, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return l, logger
}

// Write implements io.Writer for the slog handler
func (l *TestLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Write(p)
}

// String returns everything logged so far
func (l *TestLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.String()
}

// Contains reports whether any log line contains every given substring
func (l *TestLogger) Contains(parts ...string) bool {
	for _, line := range strings.Split(l.String(), "\n") {
		ok := line != ""
		for _, p := range parts {
			if !strings.Contains(line, p) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// Lines returns the number of log lines written
func (l *TestLogger) Lines() int {
	return strings.Count(l.String(), "\n")
}
