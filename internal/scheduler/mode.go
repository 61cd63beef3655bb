package scheduler

import (
	"fmt"
	"strings"

	"github.com/tuanphanughdtun/schedule/internal/job"
)

// Mode selects how a rule turns a job set into a schedule
type Mode int

const (
	// ModeAuto is dynamic when release times are enabled, static otherwise
	ModeAuto Mode = iota
	// ModeStatic sorts the whole set once at time zero
	ModeStatic
	// ModeDynamic dispatches in simulated time as jobs are released
	ModeDynamic
)

// String returns the mode's config name
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeStatic:
		return "static"
	case ModeDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// ParseMode converts a config name to a Mode. The empty string means auto.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "static":
		return ModeStatic, nil
	case "dynamic":
		return ModeDynamic, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (must be auto, static, or dynamic)", s)
	}
}

// Resolve turns auto into the concrete mode for a set with the given fields
func (m Mode) Resolve(fields job.Fields) Mode {
	if m != ModeAuto {
		return m
	}
	if fields.Has(job.FieldReleaseTime) {
		return ModeDynamic
	}
	return ModeStatic
}
