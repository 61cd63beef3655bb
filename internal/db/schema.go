package db

import (
	"embed"
	"time"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const migrationDir = "migrations"

// JobSet represents a stored job table
type JobSet struct {
	ID        string
	Name      string
	Fields    int // bit set of populated optional job fields
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Job represents one row of a stored job table
type Job struct {
	JobSetID       string
	ID             string
	Position       int
	ProcessingTime float64
	DueDate        float64
	ReleaseTime    float64
	Priority       float64
	SetupGroup     string
}

// Run represents a stored scheduling run and its metrics
type Run struct {
	ID       string
	JobSetID *string // nil when the jobs came from a file
	Rule     string
	Mode     string

	Jobs              int
	Makespan          float64
	TotalTardiness    float64
	MaxTardiness      float64
	MeanFlowTime      float64
	LateJobs          int
	Utilization       float64
	AvgJobsInSystem   float64
	AvgCompletionTime float64
	AvgLateness       float64
	IdleTime          float64

	CreatedAt time.Time
}

// RunEntry represents one scheduled job within a run
type RunEntry struct {
	RunID          string
	Seq            int
	JobID          string
	InputIndex     int
	ProcessingTime float64
	DueDate        float64
	ReleaseTime    float64
	Priority       float64
	SetupGroup     string
	Start          float64
	Finish         float64
	Lateness       float64
	FlowTime       float64
}
