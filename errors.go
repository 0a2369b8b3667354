// Package sparkit structured error types for better error handling
package sparkit

import (
	"fmt"
)

// ErrorType represents categories of errors
type ErrorType int

const (
	// Invalid argument errors (bad algorithm name, shape mismatch)
	ErrTypeInvalidArg ErrorType = iota
	// Sizing errors (fill count exceeds preallocated capacity)
	ErrTypeSizing
	// Ordering errors (phase invoked before its prerequisite completed)
	ErrTypeOrdering
	// Execution errors
	ErrTypeExecution
	// I/O errors (matrix file parsing)
	ErrTypeIO
)

// KernelError represents a structured error with context
type KernelError struct {
	Type    ErrorType
	Op      string // Operation that failed
	Message string // Human-readable message
	Err     error  // Underlying error if any
}

// Error implements the error interface
func (e *KernelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sparkit %s error in %s: %s (caused by: %v)",
			e.Type.String(), e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("sparkit %s error in %s: %s",
		e.Type.String(), e.Op, e.Message)
}

// Unwrap allows error chain inspection
func (e *KernelError) Unwrap() error {
	return e.Err
}

// String returns the error type as a string
func (t ErrorType) String() string {
	switch t {
	case ErrTypeInvalidArg:
		return "InvalidArgument"
	case ErrTypeSizing:
		return "Sizing"
	case ErrTypeOrdering:
		return "Ordering"
	case ErrTypeExecution:
		return "Execution"
	case ErrTypeIO:
		return "IO"
	default:
		return "Unknown"
	}
}

// Common error constructors

// NewInvalidArgError creates an invalid argument error
func NewInvalidArgError(op string, message string) error {
	return &KernelError{
		Type:    ErrTypeInvalidArg,
		Op:      op,
		Message: message,
	}
}

// NewSizingError creates an internal sizing error. Sizing errors indicate a
// defect (a dry-run count and the actual fill disagree), not bad user input.
func NewSizingError(op string, message string) error {
	return &KernelError{
		Type:    ErrTypeSizing,
		Op:      op,
		Message: message,
	}
}

// NewOrderingError creates a phase-ordering contract violation error
func NewOrderingError(op string, message string) error {
	return &KernelError{
		Type:    ErrTypeOrdering,
		Op:      op,
		Message: message,
	}
}

// NewExecutionError creates an execution error
func NewExecutionError(op string, message string, err error) error {
	return &KernelError{
		Type:    ErrTypeExecution,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// NewIOError creates an I/O error wrapping an underlying cause
func NewIOError(op string, message string, err error) error {
	return &KernelError{
		Type:    ErrTypeIO,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// IsInvalidArgError checks if an error is an invalid argument error
func IsInvalidArgError(err error) bool {
	if e, ok := err.(*KernelError); ok {
		return e.Type == ErrTypeInvalidArg
	}
	return false
}

// IsSizingError checks if an error is an internal sizing error
func IsSizingError(err error) bool {
	if e, ok := err.(*KernelError); ok {
		return e.Type == ErrTypeSizing
	}
	return false
}

// IsOrderingError checks if an error is a phase-ordering error
func IsOrderingError(err error) bool {
	if e, ok := err.(*KernelError); ok {
		return e.Type == ErrTypeOrdering
	}
	return false
}

// IsIOError checks if an error is an I/O error
func IsIOError(err error) bool {
	if e, ok := err.(*KernelError); ok {
		return e.Type == ErrTypeIO
	}
	return false
}
