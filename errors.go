package reqflow

import (
	"errors"
	"fmt"
	"time"
)

// Error type constants carried on ControllerError.
const (
	ErrorTypeValidation = "Validation"
	ErrorTypeTransport  = "Transport"
	ErrorTypeContract   = "Contract"
)

// ErrMissingURL is reported when parameters lack a request URL.
var ErrMissingURL = errors.New("reqflow: url is required")

// ControllerError is the error type produced by the controller and the
// default transport. Type distinguishes validation, transport and contract
// failures; Cause preserves the underlying fault for errors.Is / errors.As.
type ControllerError struct {
	Type         string
	Message      string
	Cause        error
	Tag          string
	Method       string
	URL          string
	StatusCode   int
	InvocationID string
	Timestamp    time.Time
	Duration     time.Duration
}

// Error implements the error interface.
func (e *ControllerError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	if e.InvocationID != "" {
		msg = fmt.Sprintf("[%s] %s", e.InvocationID, msg)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ControllerError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *ControllerError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*ControllerError); ok {
		return e.Type == targetErr.Type
	}
	return false
}
