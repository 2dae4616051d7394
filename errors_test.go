package reqflow

import (
	"errors"
	"testing"
)

func TestControllerErrorFormatting(t *testing.T) {
	err := &ControllerError{Type: ErrorTypeTransport, Message: "request failed"}
	if got := err.Error(); got != "Transport: request failed" {
		t.Errorf("Error() = %q", got)
	}

	cause := errors.New("connection refused")
	err = &ControllerError{Type: ErrorTypeTransport, Message: "request failed", Cause: cause}
	if got := err.Error(); got != "Transport: request failed (connection refused)" {
		t.Errorf("Error() = %q", got)
	}

	err.InvocationID = "abc"
	if got := err.Error(); got != "[abc] Transport: request failed (connection refused)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestControllerErrorNil(t *testing.T) {
	var err *ControllerError
	if got := err.Error(); got != "<nil>" {
		t.Errorf("Error() on nil = %q", got)
	}
	if err.Unwrap() != nil {
		t.Error("Unwrap() on nil must return nil")
	}
	if err.Is(errors.New("x")) {
		t.Error("Is() on nil must be false")
	}
}

func TestControllerErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &ControllerError{Type: ErrorTypeTransport, Message: "request failed", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestControllerErrorIsByType(t *testing.T) {
	a := &ControllerError{Type: ErrorTypeValidation, Message: "one"}
	b := &ControllerError{Type: ErrorTypeValidation, Message: "two"}
	c := &ControllerError{Type: ErrorTypeTransport, Message: "three"}

	if !errors.Is(a, b) {
		t.Error("same-type controller errors must match")
	}
	if errors.Is(a, c) {
		t.Error("different-type controller errors must not match")
	}
}
