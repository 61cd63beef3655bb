package dispatch

import (
	"sort"

	"github.com/tuanphanughdtun/schedule/internal/job"
	"github.com/tuanphanughdtun/schedule/internal/rules"
)

// ReleaseIndex is a release-time-ordered index of the jobs in a run.
// Entries keep their input index so rules can break ties on it.
type ReleaseIndex struct {
	entries []rules.Candidate
}

// NewReleaseIndex creates a new index from the given jobs.
// Entries are sorted by (ReleaseTime, input index); the input slice is not modified.
func NewReleaseIndex(jobs []job.Job) *ReleaseIndex {
	entries := make([]rules.Candidate, len(jobs))
	for i, j := range jobs {
		entries[i] = rules.Candidate{Job: j, Index: i}
	}
	sortEntries(entries)
	return &ReleaseIndex{entries: entries}
}

// Len returns the number of jobs in the index.
func (idx *ReleaseIndex) Len() int {
	return len(idx.entries)
}

// At returns the i-th entry in release order.
func (idx *ReleaseIndex) At(i int) rules.Candidate {
	return idx.entries[i]
}

// ReleasedBy returns the position one past the last entry with
// ReleaseTime <= clock, searching from position from onwards.
func (idx *ReleaseIndex) ReleasedBy(clock float64, from int) int {
	if from >= len(idx.entries) {
		return len(idx.entries)
	}
	rest := idx.entries[from:]
	n := sort.Search(len(rest), func(i int) bool {
		return rest[i].ReleaseTime > clock
	})
	return from + n
}

// sortEntries sorts entries by (ReleaseTime, Index).
// When release times are equal, input order decides for deterministic iteration.
func sortEntries(entries []rules.Candidate) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ReleaseTime == entries[j].ReleaseTime {
			return entries[i].Index < entries[j].Index
		}
		return entries[i].ReleaseTime < entries[j].ReleaseTime
	})
}
