package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tuanphanughdtun/schedule/internal/db"
	"github.com/tuanphanughdtun/schedule/internal/dispatch"
	"github.com/tuanphanughdtun/schedule/internal/job"
	"github.com/tuanphanughdtun/schedule/internal/metrics"
	"github.com/tuanphanughdtun/schedule/internal/rules"
	"github.com/tuanphanughdtun/schedule/internal/scheduler"
)

const timeLayout = "2006-01-02 15:04"

// Result draws a run: heading, schedule table, metrics and, when enabled,
// the timeline
func (r *Renderer) Result(result *scheduler.Result) string {
	var b strings.Builder

	heading := fmt.Sprintf("%s (%s)", result.Rule, result.Mode)
	if result.RunID != "" {
		heading += "  run " + result.RunID
	}
	b.WriteString(r.title(heading))
	b.WriteString("\n")
	b.WriteString(r.Schedule(result.Schedule))
	b.WriteString("\n")
	b.WriteString(r.Metrics(result.Metrics))
	b.WriteString("\n")

	if result.Stats.IdleAdvances > 0 || result.Stats.ForcedAdvances > 0 {
		b.WriteString(r.paint(mutedStyle, fmt.Sprintf("idle advances: %d  forced advances: %d  idle time: %s",
			result.Stats.IdleAdvances, result.Stats.ForcedAdvances, num(result.Stats.IdleTime))))
		b.WriteString("\n")
	}

	if r.opts.Timeline && len(result.Schedule) > 0 {
		b.WriteString("\n")
		b.WriteString(r.Timeline(result.Schedule))
	}
	return b.String()
}

// Schedule draws one row per scheduled job in commit order
func (r *Renderer) Schedule(schedule []job.ScheduledJob) string {
	headers := []string{"#", "Job", "Release", "Start", "Finish", "Due", "Lateness", "Flow"}
	rows := make([][]string, len(schedule))
	for i, s := range schedule {
		lateness := num(s.Lateness)
		if s.Late() {
			lateness = r.paint(lateStyle, lateness)
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			s.ID,
			num(s.ReleaseTime),
			num(s.Start),
			num(s.Finish),
			num(s.DueDate),
			lateness,
			num(s.FlowTime),
		}
	}
	return r.table(headers, rows, 0, 2, 3, 4, 5, 6, 7)
}

// Metrics draws the schedule figures as a two column table
func (r *Renderer) Metrics(m metrics.Metrics) string {
	rows := [][]string{
		{"Jobs", strconv.Itoa(m.Jobs)},
		{"Makespan", num(m.Makespan)},
		{"Total tardiness", num(m.TotalTardiness)},
		{"Max tardiness", num(m.MaxTardiness)},
		{"Late jobs", strconv.Itoa(m.LateJobs)},
		{"On-time jobs", strconv.Itoa(m.OnTimeJobs)},
		{"Mean flow time", num(m.MeanFlowTime)},
		{"Min / max flow time", num(m.MinFlowTime) + " / " + num(m.MaxFlowTime)},
		{"Utilization", pct(m.Utilization)},
		{"Avg jobs in system", num(m.AvgJobsInSystem)},
		{"Avg completion time", num(m.AvgCompletionTime)},
		{"Avg lateness", num(m.AvgLateness)},
		{"Idle time", num(m.IdleTime)},
	}
	return r.table([]string{"Metric", "Value"}, rows, 1)
}

// Benchmark draws one row per rule, best first, with the best row marked
func (r *Renderer) Benchmark(b *scheduler.Benchmark) string {
	var out strings.Builder

	out.WriteString(r.title(fmt.Sprintf("Benchmark (%s, ranked by %s)", b.Mode, b.Objective)))
	out.WriteString("\n")

	headers := []string{"", "Rule", "Makespan", "Total tardiness", "Max tardiness", "Mean flow", "Late", "Utilization"}
	ranked := b.Ranking()
	rows := make([][]string, len(ranked))
	for i, res := range ranked {
		mark, rule := "", res.Rule.String()
		if res == b.Best {
			mark, rule = "*", r.paint(bestStyle, rule)
		}
		m := res.Metrics
		rows[i] = []string{
			mark,
			rule,
			num(m.Makespan),
			num(m.TotalTardiness),
			num(m.MaxTardiness),
			num(m.MeanFlowTime),
			strconv.Itoa(m.LateJobs),
			pct(m.Utilization),
		}
	}
	out.WriteString(r.table(headers, rows, 2, 3, 4, 5, 6, 7))
	out.WriteString("\n")

	if b.Best != nil {
		out.WriteString(fmt.Sprintf("best: %s (%s = %s)\n",
			r.paint(bestStyle, b.Best.Rule.String()), b.Objective, num(b.Objective.Value(b.Best.Metrics))))
	} else {
		out.WriteString("best: none (no applicable rule)\n")
	}

	if len(b.Skipped) > 0 {
		names := make([]string, len(b.Skipped))
		for i, s := range b.Skipped {
			names[i] = fmt.Sprintf("%s (needs %s)", s, job.FieldName(s.RequiredField()))
		}
		out.WriteString(r.paint(mutedStyle, "skipped: "+strings.Join(names, ", ")))
		out.WriteString("\n")
	}
	return out.String()
}

// JobSet draws the jobs of a set. Only enabled optional columns are shown.
func (r *Renderer) JobSet(set job.JobSet) string {
	var b strings.Builder

	heading := set.Name
	if set.ID != "" {
		heading = fmt.Sprintf("%s (%s)", set.Name, set.ID)
	}
	b.WriteString(r.title(heading))
	b.WriteString(fmt.Sprintf("  fields: %s  jobs: %d\n", set.Fields, len(set.Jobs)))

	headers := []string{"Job", "Processing", "Due"}
	numeric := []int{1, 2}
	if set.Fields.Has(job.FieldReleaseTime) {
		headers = append(headers, "Release")
		numeric = append(numeric, len(headers)-1)
	}
	if set.Fields.Has(job.FieldPriority) {
		headers = append(headers, "Priority")
		numeric = append(numeric, len(headers)-1)
	}
	if set.Fields.Has(job.FieldSetupGroup) {
		headers = append(headers, "Setup group")
	}

	rows := make([][]string, len(set.Jobs))
	for i, j := range set.Jobs {
		row := []string{j.ID, num(j.ProcessingTime), num(j.DueDate)}
		if set.Fields.Has(job.FieldReleaseTime) {
			row = append(row, num(j.ReleaseTime))
		}
		if set.Fields.Has(job.FieldPriority) {
			row = append(row, num(j.Priority))
		}
		if set.Fields.Has(job.FieldSetupGroup) {
			row = append(row, j.SetupGroup)
		}
		rows[i] = row
	}
	b.WriteString(r.table(headers, rows, numeric...))
	return b.String()
}

// JobSets lists stored job sets. counts maps a set id to its job count.
func (r *Renderer) JobSets(sets []db.JobSet, counts map[string]int) string {
	if len(sets) == 0 {
		return r.paint(mutedStyle, "no job sets")
	}
	rows := make([][]string, len(sets))
	for i, s := range sets {
		rows[i] = []string{
			s.ID,
			s.Name,
			job.Fields(s.Fields).String(),
			strconv.Itoa(counts[s.ID]),
			formatTime(s.UpdatedAt),
		}
	}
	return r.table([]string{"ID", "Name", "Fields", "Jobs", "Updated"}, rows, 3)
}

// Runs lists stored runs
func (r *Renderer) Runs(runs []db.Run) string {
	if len(runs) == 0 {
		return r.paint(mutedStyle, "no runs")
	}
	rows := make([][]string, len(runs))
	for i, run := range runs {
		set := "-"
		if run.JobSetID != nil {
			set = *run.JobSetID
		}
		rows[i] = []string{
			run.ID,
			set,
			run.Rule,
			run.Mode,
			strconv.Itoa(run.Jobs),
			num(run.Makespan),
			num(run.TotalTardiness),
			strconv.Itoa(run.LateJobs),
			formatTime(run.CreatedAt),
		}
	}
	headers := []string{"Run", "Job set", "Rule", "Mode", "Jobs", "Makespan", "Tardiness", "Late", "Created"}
	return r.table(headers, rows, 4, 5, 6, 7)
}

// Rules lists every rule with the field it needs
func (r *Renderer) Rules(fields job.Fields) string {
	all := rules.All()
	rows := make([][]string, len(all))
	for i, rule := range all {
		need := "-"
		if f := rule.RequiredField(); f != job.NoFields {
			need = job.FieldName(f)
		}
		usable := "yes"
		if rules.CheckSupported(fields, rule) != nil {
			usable = r.paint(mutedStyle, "no")
		}
		rows[i] = []string{rule.String(), rule.Description(), need, usable}
	}
	return r.table([]string{"Rule", "Orders by", "Requires", "Usable"}, rows)
}

// Trace lists recorded dispatch transitions, one per line
func (r *Renderer) Trace(events []dispatch.Event) string {
	var b strings.Builder
	for _, e := range events {
		line := e.String()
		if e.Forced {
			line = r.paint(lateStyle, line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}
