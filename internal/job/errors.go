package job

import (
	"errors"
	"fmt"
)

// Standard errors
var (
	ErrInvalidJob        = errors.New("invalid job")
	ErrUnsupportedField  = errors.New("unsupported field")
	ErrInternalInvariant = errors.New("internal invariant violation")
)

// ErrorKind classifies scheduling errors
type ErrorKind int

const (
	KindInvalidJob ErrorKind = iota
	KindUnsupportedField
	KindInternalInvariant
)

// String returns a human-readable representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidJob:
		return "InvalidJob"
	case KindUnsupportedField:
		return "UnsupportedField"
	case KindInternalInvariant:
		return "InternalInvariantViolation"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInvalidJob:
		return ErrInvalidJob
	case KindUnsupportedField:
		return ErrUnsupportedField
	default:
		return ErrInternalInvariant
	}
}

// Error is returned by validation and scheduling.
// errors.Is matches it against the sentinel for its kind.
type Error struct {
	Kind   ErrorKind
	JobID  string
	Field  string
	Reason string
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.JobID != "" {
		msg += fmt.Sprintf(": job %q", e.JobID)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(": field %s", e.Field)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is matches the sentinel error for the error's kind
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// InvalidJob builds an InvalidJob error
func InvalidJob(jobID, field, reason string) *Error {
	return &Error{Kind: KindInvalidJob, JobID: jobID, Field: field, Reason: reason}
}

// UnsupportedField builds an UnsupportedField error
func UnsupportedField(field, reason string) *Error {
	return &Error{Kind: KindUnsupportedField, Field: field, Reason: reason}
}

// InternalInvariant builds an InternalInvariantViolation error
func InternalInvariant(reason string) *Error {
	return &Error{Kind: KindInternalInvariant, Reason: reason}
}
