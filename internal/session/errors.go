package session

import (
	"errors"
	"fmt"
)

// ErrCallInProgress is returned when a call action arrives while a credential
// fetch or dial is already outstanding. The guard exists so a double-press
// can never create a second device.
var ErrCallInProgress = errors.New("session: call already in progress")

// ValidationError rejects bad local input before any server or device work.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("session: invalid %s: %s", e.Field, e.Reason)
}

// TransportError wraps a credential-fetch network or HTTP failure.
type TransportError struct {
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("token request failed (%d)", e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DeviceError wraps a failure reported by the provider SDK, either from a
// device construction/connect call or an asynchronous error event.
type DeviceError struct {
	Err error
}

func (e *DeviceError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown device error"
}

func (e *DeviceError) Unwrap() error { return e.Err }
