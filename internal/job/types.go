package job

// DefaultPriority is assigned to every job when priorities are disabled
const DefaultPriority = 1.0

// DefaultSetupGroup is the single group used when setup groups are disabled
const DefaultSetupGroup = "default"

// Job represents one unit of work to be sequenced on the machine
type Job struct {
	ID             string
	ProcessingTime float64
	DueDate        float64
	ReleaseTime    float64
	Priority       float64
	SetupGroup     string
}

// ScheduledJob is a job with the times assigned by a scheduling run.
// It is derived from a Job and never shares state with the input.
type ScheduledJob struct {
	Job

	// Index is the job's position in the input job set
	Index int

	Start    float64
	Finish   float64
	Lateness float64 // max(0, Finish - DueDate)
	FlowTime float64 // Finish - ReleaseTime
}

// Late reports whether the job finished after its due date
func (s ScheduledJob) Late() bool {
	return s.Lateness > 0
}

// Fields is the set of optional job fields populated in a job set
type Fields uint8

const (
	FieldReleaseTime Fields = 1 << iota
	FieldPriority
	FieldSetupGroup

	NoFields  Fields = 0
	AllFields        = FieldReleaseTime | FieldPriority | FieldSetupGroup
)

// Has reports whether every field in f2 is enabled in f
func (f Fields) Has(f2 Fields) bool {
	return f&f2 == f2
}

// String returns a human-readable representation of the field set
func (f Fields) String() string {
	if f == NoFields {
		return "none"
	}
	out := ""
	for _, name := range []struct {
		flag Fields
		name string
	}{
		{FieldReleaseTime, "release_time"},
		{FieldPriority, "priority"},
		{FieldSetupGroup, "setup_group"},
	} {
		if f.Has(name.flag) {
			if out != "" {
				out += ","
			}
			out += name.name
		}
	}
	return out
}

// FieldName returns the column name of a single optional field
func FieldName(f Fields) string {
	switch f {
	case FieldReleaseTime:
		return "release_time"
	case FieldPriority:
		return "priority"
	case FieldSetupGroup:
		return "setup_group"
	default:
		return "unknown"
	}
}

// JobSet is an ordered snapshot of jobs handed to a scheduling run.
// A job's input index is its position in Jobs.
type JobSet struct {
	ID     string
	Name   string
	Fields Fields
	Jobs   []Job
}

// Normalized returns a copy of the job set in which every disabled field
// carries its default value. The receiver is not modified.
func (s JobSet) Normalized() JobSet {
	out := s
	out.Jobs = make([]Job, len(s.Jobs))
	for i, j := range s.Jobs {
		if !s.Fields.Has(FieldReleaseTime) {
			j.ReleaseTime = 0
		}
		if !s.Fields.Has(FieldPriority) {
			j.Priority = DefaultPriority
		}
		if !s.Fields.Has(FieldSetupGroup) || j.SetupGroup == "" {
			j.SetupGroup = DefaultSetupGroup
		}
		out.Jobs[i] = j
	}
	return out
}

// Clone returns a deep copy of the jobs slice
func Clone(jobs []Job) []Job {
	out := make([]Job, len(jobs))
	copy(out, jobs)
	return out
}
