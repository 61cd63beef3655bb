package rules

import (
	"fmt"
	"strings"

	"github.com/tuanphanughdtun/schedule/internal/job"
)

// Rule is a dispatching rule
type Rule int

const (
	FCFS   Rule = iota // First come, first served
	SPT                // Shortest processing time
	LPT                // Longest processing time
	EDD                // Earliest due date
	LCFS               // Last come, first served
	SLACK              // Minimum slack
	CR                 // Critical ratio
	CUSTPR             // Customer priority
	SETUP              // Setup-group batching
)

// DefaultEpsilon replaces a zero processing time in critical ratio divisions
const DefaultEpsilon = 1e-9

// All returns every rule in benchmark order
func All() []Rule {
	return []Rule{FCFS, SPT, LPT, EDD, LCFS, SLACK, CR, CUSTPR, SETUP}
}

// String returns the rule's canonical code
func (r Rule) String() string {
	switch r {
	case FCFS:
		return "FCFS"
	case SPT:
		return "SPT"
	case LPT:
		return "LPT"
	case EDD:
		return "EDD"
	case LCFS:
		return "LCFS"
	case SLACK:
		return "SLACK"
	case CR:
		return "CR"
	case CUSTPR:
		return "CUSTPR"
	case SETUP:
		return "SETUP"
	default:
		return "unknown"
	}
}

// Description returns a one-line summary of the rule's ordering key
func (r Rule) Description() string {
	switch r {
	case FCFS:
		return "input (arrival) order"
	case SPT:
		return "shortest processing time first"
	case LPT:
		return "longest processing time first"
	case EDD:
		return "earliest due date first"
	case LCFS:
		return "reverse input (arrival) order"
	case SLACK:
		return "smallest slack (due - processing time - now) first"
	case CR:
		return "smallest critical ratio ((due - now) / processing time) first"
	case CUSTPR:
		return "highest priority first"
	case SETUP:
		return "group by setup group"
	default:
		return "unknown"
	}
}

// RequiredField returns the optional job field the rule depends on
func (r Rule) RequiredField() job.Fields {
	switch r {
	case CUSTPR:
		return job.FieldPriority
	case SETUP:
		return job.FieldSetupGroup
	default:
		return job.NoFields
	}
}

// Valid reports whether r is one of the known rules
func (r Rule) Valid() bool {
	return r >= FCFS && r <= SETUP
}

// ParseRule converts a rule code to a Rule. Codes are case-insensitive and
// the aliases DDATE (EDD) and STR (SLACK) are accepted.
func ParseRule(s string) (Rule, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FCFS":
		return FCFS, nil
	case "SPT":
		return SPT, nil
	case "LPT":
		return LPT, nil
	case "EDD", "DDATE":
		return EDD, nil
	case "LCFS":
		return LCFS, nil
	case "SLACK", "STR":
		return SLACK, nil
	case "CR":
		return CR, nil
	case "CUSTPR":
		return CUSTPR, nil
	case "SETUP":
		return SETUP, nil
	default:
		return 0, fmt.Errorf("unknown rule %q", s)
	}
}

// ParseRules parses a list of rule codes, keeping the given order
func ParseRules(codes []string) ([]Rule, error) {
	out := make([]Rule, 0, len(codes))
	for _, c := range codes {
		r, err := ParseRule(c)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// CheckSupported fails if the rule needs a field the job set does not populate
func CheckSupported(fields job.Fields, r Rule) error {
	if !r.Valid() {
		return job.InternalInvariant(fmt.Sprintf("unhandled rule %d", int(r)))
	}
	need := r.RequiredField()
	if need != job.NoFields && !fields.Has(need) {
		return job.UnsupportedField(job.FieldName(need),
			fmt.Sprintf("rule %s requires %s, which is not populated in this job set", r, job.FieldName(need)))
	}
	return nil
}
