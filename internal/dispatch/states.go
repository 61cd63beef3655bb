package dispatch

import "fmt"

// Phase is a step of the dispatch state machine
type Phase int

const (
	PhaseAdvance Phase = iota // Machine idle, clock moves to the next release
	PhaseSelect               // Rule picks one available job
	PhaseCommit               // Picked job is appended and the clock moves to its finish
	PhaseDone                 // Nothing left to dispatch
)

// String returns a human-readable representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseAdvance:
		return "advance"
	case PhaseSelect:
		return "select"
	case PhaseCommit:
		return "commit"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Event is one recorded transition
type Event struct {
	Phase Phase
	Clock float64
	JobID string

	// Forced is set on an advance that could not reach a later release
	Forced bool
}

func (e Event) String() string {
	s := fmt.Sprintf("t=%g %s", e.Clock, e.Phase)
	if e.JobID != "" {
		s += " " + e.JobID
	}
	if e.Forced {
		s += " (forced)"
	}
	return s
}

// Recorder tracks state transitions of a simulation
type Recorder struct {
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{events: make([]Event, 0)}
}

func (r *Recorder) Record(e Event) {
	if r == nil {
		return
	}
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
