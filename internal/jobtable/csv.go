package jobtable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tuanphanughdtun/schedule/internal/job"
)

// Column names shared by the CSV and YAML codecs
const (
	ColumnID             = "id"
	ColumnProcessingTime = "processing_time"
	ColumnDueDate        = "due_date"
	ColumnReleaseTime    = "release_time"
	ColumnPriority       = "priority"
	ColumnSetupGroup     = "setup_group"
)

var requiredColumns = []string{ColumnID, ColumnProcessingTime, ColumnDueDate}

// optionalColumns maps each optional column to the field it enables
var optionalColumns = []struct {
	name  string
	field job.Fields
}{
	{ColumnReleaseTime, job.FieldReleaseTime},
	{ColumnPriority, job.FieldPriority},
	{ColumnSetupGroup, job.FieldSetupGroup},
}

// ReadCSV parses a job table with a header row. The optional columns that
// are present decide which fields the returned set enables. Unknown columns
// are ignored.
func ReadCSV(r io.Reader) (job.JobSet, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return job.JobSet{}, job.InvalidJob("", "", "job table is empty")
	}
	if err != nil {
		return job.JobSet{}, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return job.JobSet{}, job.InvalidJob("", name, "missing required column")
		}
	}

	var set job.JobSet
	for _, opt := range optionalColumns {
		if _, ok := columns[opt.name]; ok {
			set.Fields |= opt.field
		}
	}

	for row := 2; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return job.JobSet{}, fmt.Errorf("failed to read row %d: %w", row, err)
		}

		j, err := parseRecord(record, columns, row)
		if err != nil {
			return job.JobSet{}, err
		}
		set.Jobs = append(set.Jobs, j)
	}

	return set, nil
}

func parseRecord(record []string, columns map[string]int, row int) (job.Job, error) {
	cell := func(name string) (string, bool) {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[i]), true
	}

	id, _ := cell(ColumnID)
	j := job.Job{ID: id, Priority: job.DefaultPriority}

	number := func(name string, required bool, dst *float64) error {
		s, ok := cell(name)
		if !ok || s == "" {
			if required {
				return job.InvalidJob(id, name, fmt.Sprintf("row %d: value is required", row))
			}
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return job.InvalidJob(id, name, fmt.Sprintf("row %d: %q is not a number", row, s))
		}
		*dst = v
		return nil
	}

	if err := number(ColumnProcessingTime, true, &j.ProcessingTime); err != nil {
		return job.Job{}, err
	}
	if err := number(ColumnDueDate, true, &j.DueDate); err != nil {
		return job.Job{}, err
	}
	if err := number(ColumnReleaseTime, false, &j.ReleaseTime); err != nil {
		return job.Job{}, err
	}
	if err := number(ColumnPriority, false, &j.Priority); err != nil {
		return job.Job{}, err
	}
	if group, ok := cell(ColumnSetupGroup); ok {
		j.SetupGroup = group
	}

	return j, nil
}

// WriteCSV writes a job table with the required columns plus one column per
// enabled optional field
func WriteCSV(w io.Writer, set job.JobSet) error {
	header := append([]string{}, requiredColumns...)
	for _, opt := range optionalColumns {
		if set.Fields.Has(opt.field) {
			header = append(header, opt.name)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, j := range set.Jobs {
		record := []string{j.ID, formatFloat(j.ProcessingTime), formatFloat(j.DueDate)}
		if set.Fields.Has(job.FieldReleaseTime) {
			record = append(record, formatFloat(j.ReleaseTime))
		}
		if set.Fields.Has(job.FieldPriority) {
			record = append(record, formatFloat(j.Priority))
		}
		if set.Fields.Has(job.FieldSetupGroup) {
			record = append(record, j.SetupGroup)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteScheduleCSV exports a schedule in processing order
func WriteScheduleCSV(w io.Writer, schedule []job.ScheduledJob) error {
	writer := csv.NewWriter(w)
	err := writer.Write([]string{
		"id", "start", "finish", "processing_time", "due_date",
		"release_time", "lateness", "flow_time",
	})
	if err != nil {
		return err
	}

	for _, s := range schedule {
		err := writer.Write([]string{
			s.ID,
			formatFloat(s.Start),
			formatFloat(s.Finish),
			formatFloat(s.ProcessingTime),
			formatFloat(s.DueDate),
			formatFloat(s.ReleaseTime),
			formatFloat(s.Lateness),
			formatFloat(s.FlowTime),
		})
		if err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
