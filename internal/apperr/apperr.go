// Package apperr defines the fixed set of error kinds surfaced by the core
// pipeline, modeled on the typed-error idiom of cmd/steelclock/main.go
// (BackendUnavailableError, NoWidgetsError): a Go error type, not a string,
// that callers can test with errors.As and that wraps an underlying cause.
package apperr

import (
	"errors"
	"fmt"
)

// Kind enumerates the fixed error kinds of the system.
type Kind int

const (
	DeviceUnavailable Kind = iota
	CaptureStalled
	InvalidParameter
	InvalidEffect
	UnknownCommand
	BadRequest
	SocketBindFailed
	SendFailed
	NoControllersConfigured
	ConfigInvalid
)

func (k Kind) String() string {
	switch k {
	case DeviceUnavailable:
		return "DeviceUnavailable"
	case CaptureStalled:
		return "CaptureStalled"
	case InvalidParameter:
		return "InvalidParameter"
	case InvalidEffect:
		return "InvalidEffect"
	case UnknownCommand:
		return "UnknownCommand"
	case BadRequest:
		return "BadRequest"
	case SocketBindFailed:
		return "SocketBindFailed"
	case SendFailed:
		return "SendFailed"
	case NoControllersConfigured:
		return "NoControllersConfigured"
	case ConfigInvalid:
		return "ConfigInvalid"
	default:
		return "Unknown"
	}
}

// Error is the single composable error type used throughout the core.
// Op names the operation that failed (e.g. "audio.Open", "artnet.Send").
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an *Error with the given kind, operation, and wrapped cause
// (cause may be nil).
func New(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf extracts the Kind from err, or ok=false if err is not an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
