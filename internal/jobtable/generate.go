package jobtable

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/tuanphanughdtun/schedule/internal/job"
)

// GeneratorConfig controls random job table generation
type GeneratorConfig struct {
	Seed  uint64 `toml:"seed"`
	Count int    `toml:"count"`

	// Processing times are drawn uniformly from 1..MaxProcessingTime
	MaxProcessingTime int `toml:"max_processing_time"`

	// Due dates fall within DueFactor times the total processing time,
	// counted from the job's release
	DueFactor float64 `toml:"due_factor"`

	// Release times are drawn from 0..MaxRelease when enabled
	MaxRelease int `toml:"max_release"`

	// Number of setup groups, named g1..gN
	Groups int `toml:"groups"`

	// Priorities are drawn from 1..MaxPriority
	MaxPriority int `toml:"max_priority"`

	ReleaseTimes bool `toml:"release_times"`
	Priorities   bool `toml:"priorities"`
	SetupGroups  bool `toml:"setup_groups"`
}

// DefaultGeneratorConfig returns the generator defaults
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:              1,
		Count:             10,
		MaxProcessingTime: 10,
		DueFactor:         0.6,
		MaxRelease:        20,
		Groups:            3,
		MaxPriority:       5,
	}
}

// Fields returns the optional fields the generator populates
func (c GeneratorConfig) Fields() job.Fields {
	var f job.Fields
	if c.ReleaseTimes {
		f |= job.FieldReleaseTime
	}
	if c.Priorities {
		f |= job.FieldPriority
	}
	if c.SetupGroups {
		f |= job.FieldSetupGroup
	}
	return f
}

// Validate checks the generator bounds
func (c GeneratorConfig) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("generator count must not be negative, got %d", c.Count)
	}
	if c.MaxProcessingTime < 1 {
		return fmt.Errorf("generator max_processing_time must be at least 1, got %d", c.MaxProcessingTime)
	}
	if c.DueFactor <= 0 || math.IsNaN(c.DueFactor) || math.IsInf(c.DueFactor, 0) {
		return fmt.Errorf("generator due_factor must be positive, got %v", c.DueFactor)
	}
	if c.ReleaseTimes && c.MaxRelease < 0 {
		return fmt.Errorf("generator max_release must not be negative, got %d", c.MaxRelease)
	}
	if c.SetupGroups && c.Groups < 1 {
		return fmt.Errorf("generator groups must be at least 1, got %d", c.Groups)
	}
	if c.Priorities && c.MaxPriority < 1 {
		return fmt.Errorf("generator max_priority must be at least 1, got %d", c.MaxPriority)
	}
	return nil
}

// Generate builds a random job table. The same config always yields the same
// table. Values are whole numbers so tables stay readable.
func Generate(c GeneratorConfig) (job.JobSet, error) {
	if err := c.Validate(); err != nil {
		return job.JobSet{}, err
	}

	rng := rand.New(rand.NewPCG(c.Seed, c.Seed^0x9e3779b97f4a7c15))
	set := job.JobSet{
		Name:   fmt.Sprintf("generated-%d", c.Seed),
		Fields: c.Fields(),
		Jobs:   make([]job.Job, c.Count),
	}

	total := 0.0
	for i := range set.Jobs {
		pt := float64(1 + rng.IntN(c.MaxProcessingTime))
		set.Jobs[i] = job.Job{
			ID:             fmt.Sprintf("J%d", i+1),
			ProcessingTime: pt,
			Priority:       job.DefaultPriority,
		}
		total += pt
	}

	window := max(1, int(math.Ceil(c.DueFactor*total)))
	for i := range set.Jobs {
		j := &set.Jobs[i]
		if c.ReleaseTimes {
			j.ReleaseTime = float64(rng.IntN(c.MaxRelease + 1))
		}
		if c.Priorities {
			j.Priority = float64(1 + rng.IntN(c.MaxPriority))
		}
		if c.SetupGroups {
			j.SetupGroup = fmt.Sprintf("g%d", 1+rng.IntN(c.Groups))
		}
		j.DueDate = j.ReleaseTime + j.ProcessingTime + float64(rng.IntN(window))
	}

	return set, nil
}
