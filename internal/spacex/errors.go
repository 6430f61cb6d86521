package spacex

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingReference matches every IntegrityError
	ErrMissingReference = errors.New("required reference entity missing")
	// ErrMalformedResponse matches every MalformedError
	ErrMalformedResponse = errors.New("malformed response")
)

// IntegrityError reports a launch whose rocket or launchpad could not be resolved
type IntegrityError struct {
	LaunchID string
	Kind     string // "rocket" or "launchpad"
	RefID    string
	Err      error
}

func (e *IntegrityError) Error() string {
	msg := fmt.Sprintf("launch %s: %s: %s %q", e.LaunchID, ErrMissingReference, e.Kind, e.RefID)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IntegrityError) Is(target error) bool {
	return target == ErrMissingReference
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// MalformedError reports a response document that does not match the expected schema
type MalformedError struct {
	Entity  string
	Missing []string
	Err     error
}

func (e *MalformedError) Error() string {
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("%s %s: missing required fields %s", ErrMalformedResponse, e.Entity, strings.Join(e.Missing, ", "))
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", ErrMalformedResponse, e.Entity, e.Err)
	default:
		return fmt.Sprintf("%s %s", ErrMalformedResponse, e.Entity)
	}
}

func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedResponse
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}
