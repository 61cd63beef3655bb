package scheduler

import (
	"fmt"
	"math"

	"github.com/tuanphanughdtun/schedule/internal/metrics"
	"github.com/tuanphanughdtun/schedule/internal/rules"
)

// SchedulerConfig defines how runs are dispatched and how benchmarks are ranked
type SchedulerConfig struct {
	// auto, static or dynamic
	Mode string `toml:"mode"`

	// Stand-in for a zero processing time in critical ratio divisions
	Epsilon float64 `toml:"epsilon"`

	// Rules to compare in a benchmark; empty means every applicable rule
	BenchmarkRules []string `toml:"benchmark_rules"`

	// Figure used to pick the best benchmark row
	Objective string `toml:"objective"`

	// Re-check every schedule for coverage, overlap and release violations
	VerifySchedules bool `toml:"verify_schedules"`
}

// DefaultSchedulerConfig returns the scheduler configuration defaults
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Mode:            ModeAuto.String(),
		Epsilon:         rules.DefaultEpsilon,
		BenchmarkRules:  nil,
		Objective:       metrics.ObjectiveTotalTardiness.String(),
		VerifySchedules: true,
	}
}

// validateConfig validates scheduler configuration and returns error if invalid
func validateConfig(config SchedulerConfig) error {
	if _, err := ParseMode(config.Mode); err != nil {
		return err
	}

	if math.IsNaN(config.Epsilon) || math.IsInf(config.Epsilon, 0) || config.Epsilon <= 0 {
		return fmt.Errorf("Epsilon must be a positive finite number, got %v", config.Epsilon)
	}

	if _, err := rules.ParseRules(config.BenchmarkRules); err != nil {
		return fmt.Errorf("BenchmarkRules: %w", err)
	}

	if _, err := metrics.ParseObjective(config.Objective); err != nil {
		return err
	}

	return nil
}
