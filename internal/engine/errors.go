package engine

import (
	"fmt"
	"strings"
)

// ValidationReason names which question-length bound was violated.
type ValidationReason string

const (
	QuestionTooShort ValidationReason = "too_short"
	QuestionTooLong  ValidationReason = "too_long"
)

// ValidationError rejects a free-text question without changing state; the
// user may retry in place.
type ValidationError struct {
	Reason ValidationReason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question rejected: %s", e.Reason)
}

// ResolutionError reports that none of the supplied card names resolved.
// State is unchanged; the user may retry in place.
type ResolutionError struct {
	Unrecognized []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no cards recognized in %q", strings.Join(e.Unrecognized, ", "))
}

// UpstreamError wraps a generation or payment backend failure. The session
// has already been unwound to idle when this is returned.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream failure: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// AdmissionError rejects a turn before any session work happens.
type AdmissionError struct {
	UserID string
}

func (e *AdmissionError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s", e.UserID)
}

// InvalidEventError reports an event the current state does not accept.
type InvalidEventError struct {
	State string
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("event not accepted in state %s", e.State)
}
