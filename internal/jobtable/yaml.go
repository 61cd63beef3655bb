package jobtable

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/tuanphanughdtun/schedule/internal/job"
)

// yamlTable is the on-disk form of a job table
type yamlTable struct {
	Name   string      `yaml:"name,omitempty"`
	Fields *yamlFields `yaml:"fields,omitempty"`
	Jobs   []yamlJob   `yaml:"jobs"`
}

// yamlJob is one job entry. Priority is a pointer so an explicit 0 is kept
// apart from a missing key.
type yamlJob struct {
	ID             string   `yaml:"id"`
	ProcessingTime float64  `yaml:"processing_time"`
	DueDate        float64  `yaml:"due_date"`
	ReleaseTime    float64  `yaml:"release_time,omitempty"`
	Priority       *float64 `yaml:"priority,omitempty"`
	SetupGroup     string   `yaml:"setup_group,omitempty"`
}

func (y yamlJob) job() job.Job {
	j := job.Job{
		ID:             y.ID,
		ProcessingTime: y.ProcessingTime,
		DueDate:        y.DueDate,
		ReleaseTime:    y.ReleaseTime,
		Priority:       job.DefaultPriority,
		SetupGroup:     y.SetupGroup,
	}
	if y.Priority != nil {
		j.Priority = *y.Priority
	}
	return j
}

type yamlFields struct {
	ReleaseTime bool `yaml:"release_time"`
	Priority    bool `yaml:"priority"`
	SetupGroup  bool `yaml:"setup_group"`
}

func (f yamlFields) fields() job.Fields {
	var out job.Fields
	if f.ReleaseTime {
		out |= job.FieldReleaseTime
	}
	if f.Priority {
		out |= job.FieldPriority
	}
	if f.SetupGroup {
		out |= job.FieldSetupGroup
	}
	return out
}

// ReadYAML parses a YAML job table. When the fields block is omitted, a field
// is enabled if any job sets it to a non-default value. A job without a
// priority key gets DefaultPriority.
func ReadYAML(r io.Reader) (job.JobSet, error) {
	var table yamlTable
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&table); err != nil {
		if errors.Is(err, io.EOF) {
			return job.JobSet{}, job.InvalidJob("", "", "job table is empty")
		}
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return job.JobSet{}, job.InvalidJob("", "jobs", typeErr.Error())
		}
		return job.JobSet{}, fmt.Errorf("failed to parse job table: %w", err)
	}

	set := job.JobSet{Name: table.Name, Jobs: make([]job.Job, len(table.Jobs))}
	for i, y := range table.Jobs {
		set.Jobs[i] = y.job()
	}
	if table.Fields != nil {
		set.Fields = table.Fields.fields()
	} else {
		set.Fields = inferFields(table.Jobs)
	}
	return set, nil
}

func inferFields(jobs []yamlJob) job.Fields {
	var out job.Fields
	for _, j := range jobs {
		if j.ReleaseTime != 0 {
			out |= job.FieldReleaseTime
		}
		if j.Priority != nil && *j.Priority != job.DefaultPriority {
			out |= job.FieldPriority
		}
		if j.SetupGroup != "" {
			out |= job.FieldSetupGroup
		}
	}
	return out
}

// WriteYAML writes a job table with an explicit fields block
func WriteYAML(w io.Writer, set job.JobSet) error {
	table := yamlTable{
		Name: set.Name,
		Fields: &yamlFields{
			ReleaseTime: set.Fields.Has(job.FieldReleaseTime),
			Priority:    set.Fields.Has(job.FieldPriority),
			SetupGroup:  set.Fields.Has(job.FieldSetupGroup),
		},
		Jobs: toYAMLJobs(set),
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(table); err != nil {
		return err
	}
	return enc.Close()
}

// toYAMLJobs drops the values of disabled fields so they are omitted.
// An enabled priority is always written, zero included.
func toYAMLJobs(set job.JobSet) []yamlJob {
	out := make([]yamlJob, len(set.Jobs))
	for i, j := range set.Jobs {
		y := yamlJob{
			ID:             j.ID,
			ProcessingTime: j.ProcessingTime,
			DueDate:        j.DueDate,
		}
		if set.Fields.Has(job.FieldReleaseTime) {
			y.ReleaseTime = j.ReleaseTime
		}
		if set.Fields.Has(job.FieldPriority) {
			priority := j.Priority
			y.Priority = &priority
		}
		if set.Fields.Has(job.FieldSetupGroup) {
			y.SetupGroup = j.SetupGroup
		}
		out[i] = y
	}
	return out
}
