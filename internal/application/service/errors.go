package service

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies service failures for transport-layer mapping.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindInvalidState     ErrorKind = "invalid_state"
	KindExecutionFailure ErrorKind = "execution_failure"
	KindSweepAborted     ErrorKind = "sweep_aborted"
)

// Error is a classified service error. Dependency blockage and producer
// failures are deliberately absent from the taxonomy: the first is a planned
// skip reported in sweep counters, the second is always absorbed by the
// fallback generator.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to a transport status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState:
		return http.StatusConflict
	case KindSweepAborted, KindExecutionFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NotFoundError reports an absent record.
func NotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// InvalidStateError reports a step in the wrong status for the requested
// transition.
func InvalidStateError(message string) *Error {
	return &Error{Kind: KindInvalidState, Message: message}
}

// ExecutionError reports a failure while dispatching a step's side effects.
func ExecutionError(message string, err error) *Error {
	return &Error{Kind: KindExecutionFailure, Message: message, Err: err}
}

// SweepAbortedError reports a fail-fast halt of a plan sweep.
func SweepAbortedError(message string, err error) *Error {
	return &Error{Kind: KindSweepAborted, Message: message, Err: err}
}

// AsError extracts a classified error, or wraps an unclassified one as an
// execution failure.
func AsError(err error) *Error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return ExecutionError("internal error", err)
}
