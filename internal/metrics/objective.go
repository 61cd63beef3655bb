package metrics

import (
	"fmt"
	"strings"
)

// Objective is the figure used to rank schedules against each other.
// Lower is better for every objective.
type Objective int

const (
	ObjectiveTotalTardiness Objective = iota
	ObjectiveMakespan
	ObjectiveMeanFlowTime
	ObjectiveLateJobs
	ObjectiveMaxTardiness
)

// String returns the objective's config name
func (o Objective) String() string {
	switch o {
	case ObjectiveTotalTardiness:
		return "total_tardiness"
	case ObjectiveMakespan:
		return "makespan"
	case ObjectiveMeanFlowTime:
		return "mean_flow_time"
	case ObjectiveLateJobs:
		return "late_jobs"
	case ObjectiveMaxTardiness:
		return "max_tardiness"
	default:
		return "unknown"
	}
}

// ParseObjective converts a config name to an Objective
func ParseObjective(s string) (Objective, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "total_tardiness", "tardiness":
		return ObjectiveTotalTardiness, nil
	case "makespan":
		return ObjectiveMakespan, nil
	case "mean_flow_time", "flow_time":
		return ObjectiveMeanFlowTime, nil
	case "late_jobs":
		return ObjectiveLateJobs, nil
	case "max_tardiness":
		return ObjectiveMaxTardiness, nil
	default:
		return 0, fmt.Errorf("unknown objective %q (must be total_tardiness, makespan, mean_flow_time, late_jobs, or max_tardiness)", s)
	}
}

// Value returns the figure of m the objective ranks on
func (o Objective) Value(m Metrics) float64 {
	switch o {
	case ObjectiveMakespan:
		return m.Makespan
	case ObjectiveMeanFlowTime:
		return m.MeanFlowTime
	case ObjectiveLateJobs:
		return float64(m.LateJobs)
	case ObjectiveMaxTardiness:
		return m.MaxTardiness
	default:
		return m.TotalTardiness
	}
}
