// Package service contains the application services orchestrating domain
// logic, the calorie engine and the stores.
package service

import (
	"fmt"
)

// TrackingServiceError is a custom error type for tracking service errors.
type TrackingServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TrackingServiceError.
func (e *TrackingServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tracking service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("tracking service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TrackingServiceError) Unwrap() error {
	return e.Err
}

// NewTrackingServiceError creates a new TrackingServiceError.
func NewTrackingServiceError(operation, message string, err error) *TrackingServiceError {
	return &TrackingServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
