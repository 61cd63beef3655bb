package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/tuanphanughdtun/schedule/internal/job"
)

const (
	barChar       = "█"
	plainOnTime   = "="
	plainLate     = "#"
	instantChar   = "|"
	emptyTimeline = "(empty schedule)"
)

// Timeline draws a Gantt chart with one line per job in commit order. The
// chart spans [0, makespan] over the configured width. Late jobs are drawn
// in red, or with '#' in plain output.
func (r *Renderer) Timeline(schedule []job.ScheduledJob) string {
	makespan := 0.0
	idWidth := 0
	for _, s := range schedule {
		makespan = max(makespan, s.Finish)
		idWidth = max(idWidth, len(s.ID))
	}
	if len(schedule) == 0 || makespan <= 0 {
		return r.paint(mutedStyle, emptyTimeline) + "\n"
	}

	width := r.opts.TimelineWidth
	scale := float64(width) / makespan

	var b strings.Builder
	for _, s := range schedule {
		from, to := span(s.Start, s.Finish, scale, width)

		var bar string
		if s.ProcessingTime == 0 {
			bar = instantChar
		} else {
			bar = r.barFor(s.Late(), to-from)
		}

		fmt.Fprintf(&b, "%-*s |%s%s%s| %s-%s\n",
			idWidth, s.ID,
			strings.Repeat(" ", from), bar, strings.Repeat(" ", width-from-cellWidth(s, from, to)),
			num(s.Start), num(s.Finish))
	}

	// Axis with the origin and the makespan at either end
	end := num(makespan)
	gap := max(1, width-len(end))
	fmt.Fprintf(&b, "%-*s  0%s%s\n", idWidth, "", strings.Repeat(" ", gap-1), end)
	return b.String()
}

// span maps [start, finish] to chart columns [from, to). A job with a
// positive duration always gets at least one column.
func span(start, finish, scale float64, width int) (int, int) {
	from := int(math.Floor(start * scale))
	to := int(math.Ceil(finish * scale))
	from = min(max(from, 0), width-1)
	to = min(max(to, from+1), width)
	return from, to
}

// cellWidth is the number of columns the job's mark occupies
func cellWidth(s job.ScheduledJob, from, to int) int {
	if s.ProcessingTime == 0 {
		return 1
	}
	return to - from
}

func (r *Renderer) barFor(late bool, n int) string {
	if r.opts.Plain {
		if late {
			return strings.Repeat(plainLate, n)
		}
		return strings.Repeat(plainOnTime, n)
	}
	if late {
		return lateStyle.Render(strings.Repeat(barChar, n))
	}
	return onTimeStyle.Render(strings.Repeat(barChar, n))
}
