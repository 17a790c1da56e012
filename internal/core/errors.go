package core

import (
	"errors"
	"fmt"
)

// InputValidationError reports input the workflow refuses to act on:
// missing columns, unparseable dates, missing credentials, nothing to analyze.
type InputValidationError struct {
	Field   string
	Message string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// TransportError covers network failures, timeouts and non-2xx responses
// from the completion service.
type TransportError struct {
	Provider   string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed with status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError means the service answered but the body did not
// carry a completion text where one was expected.
type MalformedResponseError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected %s response format: %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("unexpected %s response format: %s", e.Provider, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// StateError rejects an action that is not allowed in the current phase,
// typically because another stage is still in flight.
type StateError struct {
	Action string
	Phase  Phase
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Action, e.Phase)
}

// IsValidation reports whether err is an InputValidationError.
func IsValidation(err error) bool {
	var v *InputValidationError
	return errors.As(err, &v)
}

// IsUpstream reports whether err came from the completion service,
// either as a transport failure or as a malformed response.
func IsUpstream(err error) bool {
	var t *TransportError
	var m *MalformedResponseError
	return errors.As(err, &t) || errors.As(err, &m)
}
