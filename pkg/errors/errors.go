package errors

import (
	"context"
	"errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur during a run
type ErrorType string

const (
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeTransient     ErrorType = "transient"
	ErrorTypeLedger        ErrorType = "ledger"
	ErrorTypeSession       ErrorType = "session"
	ErrorTypeCancelled     ErrorType = "cancelled"
	ErrorTypeUnknown       ErrorType = "unknown"
)

// Error carries a type so callers can decide whether a failure is per-item or fatal
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error wrapping err
func New(t ErrorType, msg string, err error) *Error {
	return &Error{Type: t, Message: msg, Err: err}
}

// Configuration wraps a bad credential, chat or option error
func Configuration(msg string, err error) *Error {
	return New(ErrorTypeConfiguration, msg, err)
}

// Transient wraps a per-item network or disk failure
func Transient(msg string, err error) *Error {
	return New(ErrorTypeTransient, msg, err)
}

// Ledger wraps a download log read/write failure
func Ledger(msg string, err error) *Error {
	return New(ErrorTypeLedger, msg, err)
}

// Session wraps a loss of the authenticated session
func Session(msg string, err error) *Error {
	return New(ErrorTypeSession, msg, err)
}

// TypeOf returns the type of the first typed error in the chain.
// Context cancellation is reported as ErrorTypeCancelled.
func TypeOf(err error) ErrorType {
	if err == nil {
		return ""
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Type
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeCancelled
	}
	return ErrorTypeUnknown
}

// IsFatal reports whether err must end the run instead of being recorded per item
func IsFatal(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeConfiguration, ErrorTypeSession:
		return true
	default:
		return false
	}
}

// IsSession reports whether err indicates the authenticated session is gone
func IsSession(err error) bool {
	return TypeOf(err) == ErrorTypeSession
}

// IsCancelled reports whether err comes from user interruption
func IsCancelled(err error) bool {
	return TypeOf(err) == ErrorTypeCancelled
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeTransient, ErrorTypeUnknown:
		return true
	default:
		return false
	}
}
