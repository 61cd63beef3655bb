package dispatch

import (
	"testing"

	"github.com/tuanphanughdtun/schedule/internal/job"
)

// assertSorted verifies entries are sorted by (ReleaseTime, Index).
func assertSorted(t *testing.T, idx *ReleaseIndex) {
	t.Helper()
	for i := 1; i < idx.Len(); i++ {
		prev, curr := idx.At(i-1), idx.At(i)
		if curr.ReleaseTime < prev.ReleaseTime {
			t.Errorf("entries not sorted by release: [%d]=%v > [%d]=%v", i-1, prev.ReleaseTime, i, curr.ReleaseTime)
		}
		if curr.ReleaseTime == prev.ReleaseTime && curr.Index < prev.Index {
			t.Errorf("entries with same release not sorted by index: [%d]=%d > [%d]=%d", i-1, prev.Index, i, curr.Index)
		}
	}
}

func TestReleaseIndex_Empty(t *testing.T) {
	idx := NewReleaseIndex(nil)
	if idx.Len() != 0 {
		t.Errorf("expected Len()=0, got %d", idx.Len())
	}
	if got := idx.ReleasedBy(100, 0); got != 0 {
		t.Errorf("expected ReleasedBy=0, got %d", got)
	}
}

func TestReleaseIndex_SortsAndKeepsIndex(t *testing.T) {
	jobs := []job.Job{
		{ID: "c", ReleaseTime: 5},
		{ID: "a", ReleaseTime: 0},
		{ID: "d", ReleaseTime: 5},
		{ID: "b", ReleaseTime: 2},
	}
	idx := NewReleaseIndex(jobs)
	assertSorted(t, idx)

	want := []struct {
		id    string
		index int
	}{{"a", 1}, {"b", 3}, {"c", 0}, {"d", 2}}
	for i, w := range want {
		if idx.At(i).ID != w.id || idx.At(i).Index != w.index {
			t.Errorf("entry %d: expected %s/%d, got %s/%d", i, w.id, w.index, idx.At(i).ID, idx.At(i).Index)
		}
	}

	// input untouched
	if jobs[0].ID != "c" {
		t.Errorf("expected input order preserved, got %s first", jobs[0].ID)
	}
}

func TestReleaseIndex_ReleasedBy(t *testing.T) {
	idx := NewReleaseIndex([]job.Job{
		{ID: "a", ReleaseTime: 0},
		{ID: "b", ReleaseTime: 2},
		{ID: "c", ReleaseTime: 5},
		{ID: "d", ReleaseTime: 5},
	})
	tests := []struct {
		clock float64
		from  int
		want  int
	}{
		{0, 0, 1},
		{1.5, 0, 1},
		{2, 0, 2},
		{5, 0, 4},
		{5, 2, 4},
		{4, 3, 3},
		{9, 4, 4},
		{9, 10, 4},
	}
	for _, tt := range tests {
		if got := idx.ReleasedBy(tt.clock, tt.from); got != tt.want {
			t.Errorf("ReleasedBy(%v, %d) = %d, want %d", tt.clock, tt.from, got, tt.want)
		}
	}
}

